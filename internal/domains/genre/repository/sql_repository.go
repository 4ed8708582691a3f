package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"library-catalog/internal/domains/genre/model"
	"library-catalog/internal/infrastructure/database"
)

const genresTable = "genres"

type sqlRepository struct {
	store *database.Store
}

// NewSQLRepository creates a genre repository on top of store.
func NewSQLRepository(store *database.Store) RepositoryInterface {
	return &sqlRepository{store: store}
}

func (r *sqlRepository) selectGenres() sq.SelectBuilder {
	return r.store.Builder().Select("id", "name").From(genresTable)
}

func (r *sqlRepository) Create(ctx context.Context, g *model.Genre) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}

	_, err := r.store.Exec(ctx, r.store.Builder().
		Insert(genresTable).
		Columns("id", "name").
		Values(g.ID, g.Name))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrDuplicateGenreName
		}
		return fmt.Errorf("insert genre: %w", err)
	}
	return nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	return r.getOne(ctx, r.selectGenres().Where(sq.Eq{"id": id.String()}))
}

func (r *sqlRepository) GetByName(ctx context.Context, name string) (*model.Genre, error) {
	return r.getOne(ctx, r.selectGenres().Where(sq.Eq{"name": name}))
}

func (r *sqlRepository) getOne(ctx context.Context, q sq.SelectBuilder) (*model.Genre, error) {
	row, err := r.store.QueryRow(ctx, q)
	if err != nil {
		return nil, err
	}

	var g model.Genre
	err = row.Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrGenreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get genre: %w", err)
	}
	return &g, nil
}

func (r *sqlRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Genre, error) {
	if len(ids) == 0 {
		return []model.Genre{}, nil
	}

	keys := lo.Uniq(lo.Map(ids, func(id uuid.UUID, _ int) string { return id.String() }))
	return r.list(ctx, r.selectGenres().Where(sq.Eq{"id": keys}).OrderBy("name"))
}

func (r *sqlRepository) List(ctx context.Context) ([]model.Genre, error) {
	return r.list(ctx, r.selectGenres().OrderBy("name"))
}

func (r *sqlRepository) list(ctx context.Context, q sq.SelectBuilder) ([]model.Genre, error) {
	rows, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	genres := make([]model.Genre, 0)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (r *sqlRepository) Update(ctx context.Context, g *model.Genre) error {
	res, err := r.store.Exec(ctx, r.store.Builder().
		Update(genresTable).
		Set("name", g.Name).
		Where(sq.Eq{"id": g.ID.String()}))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrDuplicateGenreName
		}
		return fmt.Errorf("update genre: %w", err)
	}
	return requireAffected(res)
}

func (r *sqlRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.store.Exec(ctx, r.store.Builder().
		Delete(genresTable).
		Where(sq.Eq{"id": id.String()}))
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	return requireAffected(res)
}

// ON CONFLICT ... DO NOTHING requires SQLite 3.24+.
func (r *sqlRepository) EnsureByName(ctx context.Context, name string) (*model.Genre, bool, error) {
	res, err := r.store.Exec(ctx, r.store.Builder().
		Insert(genresTable).
		Columns("id", "name").
		Values(uuid.New(), name).
		Suffix("ON CONFLICT (name) DO NOTHING"))
	if err != nil {
		return nil, false, fmt.Errorf("ensure genre: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	g, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return g, inserted > 0, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return model.ErrGenreNotFound
	}
	return nil
}
