package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/samber/lo"

	authormodel "library-catalog/internal/domains/author/model"
	authorservice "library-catalog/internal/domains/author/service"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/repository"
	genremodel "library-catalog/internal/domains/genre/model"
	genreservice "library-catalog/internal/domains/genre/service"
	"library-catalog/internal/shared/rules"
	pkgdb "library-catalog/pkg/database"
	"library-catalog/pkg/logger"
)

type BookService struct {
	repo    repository.RepositoryInterface
	authors authorservice.ServiceInterface // Cross-domain dependency
	genres  genreservice.ServiceInterface  // Cross-domain dependency
	tx      pkgdb.Transactor
}

func NewBookService(
	repo repository.RepositoryInterface,
	authors authorservice.ServiceInterface,
	genres genreservice.ServiceInterface,
	tx pkgdb.Transactor,
) ServiceInterface {
	return &BookService{
		repo:    repo,
		authors: authors,
		genres:  genres,
		tx:      tx,
	}
}

func (s *BookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var created *model.Book
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		b := req.ToEntity()

		author, err := s.resolveAuthor(ctx, req.References)
		if err != nil {
			return err
		}
		b.SetAuthor(author)

		genres, err := s.resolveGenres(ctx, req.References)
		if err != nil {
			return err
		}
		b.Genres = genres

		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}

		created, err = s.repo.GetByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("book created", map[string]interface{}{"book_id": created.ID.String(), "title": created.Title})
	return created, nil
}

func (s *BookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if id == uuid.Nil {
		return nil, model.ErrBookNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *BookService) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	return s.repo.List(ctx, filter)
}

func (s *BookService) Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *model.Book
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}

		req.ApplyTo(b)

		if req.HasAuthor() {
			author, err := s.resolveAuthor(ctx, req.References)
			if err != nil {
				return err
			}
			b.SetAuthor(author)
		}

		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}

		if req.HasGenres() {
			genres, err := s.resolveGenres(ctx, req.References)
			if err != nil {
				return err
			}
			ids := lo.Map(genres, func(g genremodel.Genre, _ int) uuid.UUID { return g.ID })
			if err := s.repo.ReplaceGenres(ctx, b.ID, ids); err != nil {
				return err
			}
		}

		updated, err = s.repo.GetByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *BookService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrBookNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("book deleted", map[string]interface{}{"book_id": id.String()})
	return nil
}

// resolveAuthor returns the referenced author, nil when none is named.
func (s *BookService) resolveAuthor(ctx context.Context, refs model.References) (*authormodel.Author, error) {
	switch {
	case refs.AuthorID != nil:
		a, err := s.authors.GetByID(ctx, *refs.AuthorID)
		if errors.Is(err, authormodel.ErrAuthorNotFound) {
			return nil, &authormodel.MissingAuthorError{ID: *refs.AuthorID}
		}
		return a, err

	case refs.Author != nil:
		a, _, err := s.authors.GetOrCreate(ctx, *refs.Author)
		if rules.IsValidation(err) {
			return nil, rules.Field("author", err)
		}
		return a, err

	default:
		return nil, nil
	}
}

// resolveGenres returns the referenced genres without duplicates.
func (s *BookService) resolveGenres(ctx context.Context, refs model.References) ([]genremodel.Genre, error) {
	if refs.GenreIDs != nil {
		return s.genres.GetByIDs(ctx, refs.GenreIDs)
	}

	genres := make([]genremodel.Genre, 0, len(refs.Genres))
	for _, req := range refs.Genres {
		g, _, err := s.genres.GetOrCreate(ctx, req)
		if rules.IsValidation(err) {
			return nil, rules.Field("genres", err)
		}
		if err != nil {
			return nil, err
		}
		genres = append(genres, *g)
	}
	return lo.UniqBy(genres, func(g genremodel.Genre) uuid.UUID { return g.ID }), nil
}
