package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/author/repository"
	"library-catalog/pkg/logger"
)

type authorService struct {
	repo repository.RepositoryInterface
}

func NewAuthorService(repo repository.RepositoryInterface) ServiceInterface {
	return &authorService{repo: repo}
}

func (s *authorService) Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := req.ToEntity()
	if err := a.CheckLifespan(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	logger.Info("author created", map[string]interface{}{"author_id": a.ID.String()})
	return a, nil
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	if id == uuid.Nil {
		return nil, model.ErrAuthorNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) List(ctx context.Context) ([]model.Author, error) {
	return s.repo.List(ctx)
}

func (s *authorService) Update(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (*model.Author, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(a)
	if err := a.CheckLifespan(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrAuthorNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("author deleted", map[string]interface{}{"author_id": id.String()})
	return nil
}

func (s *authorService) GetOrCreate(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, bool, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByNaturalKey(ctx, req.FirstName, req.LastName, req.DateOfBirth)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, model.ErrAuthorNotFound) {
		return nil, false, err
	}

	created, err := s.Create(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
