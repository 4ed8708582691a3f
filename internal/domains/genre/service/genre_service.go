package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"library-catalog/internal/domains/genre/model"
	"library-catalog/internal/domains/genre/repository"
	"library-catalog/internal/shared/rules"
	"library-catalog/pkg/logger"
)

type genreService struct {
	repo repository.RepositoryInterface
}

func NewGenreService(repo repository.RepositoryInterface) ServiceInterface {
	return &genreService{repo: repo}
}

func (s *genreService) Create(ctx context.Context, req model.CreateGenreRequest) (*model.Genre, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g := &model.Genre{Name: req.Name}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, nameConflict(err)
	}

	logger.Info("genre created", map[string]interface{}{"genre_id": g.ID.String(), "name": g.Name})
	return g, nil
}

func (s *genreService) GetByID(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	if id == uuid.Nil {
		return nil, model.ErrGenreNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *genreService) List(ctx context.Context) ([]model.Genre, error) {
	return s.repo.List(ctx)
}

func (s *genreService) Update(ctx context.Context, id uuid.UUID, req model.UpdateGenreRequest) (*model.Genre, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		g.Name = *req.Name
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, nameConflict(err)
	}
	return g, nil
}

func (s *genreService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrGenreNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("genre deleted", map[string]interface{}{"genre_id": id.String()})
	return nil
}

func (s *genreService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Genre, error) {
	genres, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := lo.SliceToMap(genres, func(g model.Genre) (uuid.UUID, struct{}) {
		return g.ID, struct{}{}
	})
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, &model.MissingGenreError{ID: id}
		}
	}
	return genres, nil
}

func (s *genreService) GetOrCreate(ctx context.Context, req model.CreateGenreRequest) (*model.Genre, bool, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	g, created, err := s.repo.EnsureByName(ctx, req.Name)
	if err != nil {
		return nil, false, err
	}
	if created {
		logger.Info("genre created", map[string]interface{}{"genre_id": g.ID.String(), "name": g.Name})
	}
	return g, created, nil
}

// nameConflict turns a duplicate name into a field error on "name".
func nameConflict(err error) error {
	if err == model.ErrDuplicateGenreName {
		return rules.Field("name", model.ErrDuplicateGenreName)
	}
	return err
}
