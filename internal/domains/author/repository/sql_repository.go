package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/internal/shared/types"
)

const authorsTable = "authors"

var authorColumns = []string{"id", "first_name", "last_name", "date_of_birth", "date_of_death"}

type sqlRepository struct {
	store *database.Store
}

// NewSQLRepository creates an author repository on top of store.
func NewSQLRepository(store *database.Store) RepositoryInterface {
	return &sqlRepository{store: store}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAuthor(row rowScanner) (*model.Author, error) {
	var a model.Author
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.DateOfBirth, &a.DateOfDeath); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *sqlRepository) selectAuthors() sq.SelectBuilder {
	return r.store.Builder().Select(authorColumns...).From(authorsTable)
}

func (r *sqlRepository) Create(ctx context.Context, a *model.Author) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	_, err := r.store.Exec(ctx, r.store.Builder().
		Insert(authorsTable).
		Columns(authorColumns...).
		Values(a.ID, a.FirstName, a.LastName, a.DateOfBirth, a.DateOfDeath))
	if err != nil {
		return fmt.Errorf("insert author: %w", err)
	}
	return nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	return r.getOne(ctx, r.selectAuthors().Where(sq.Eq{"id": id.String()}))
}

func (r *sqlRepository) FindByNaturalKey(ctx context.Context, firstName, lastName string, dateOfBirth *types.Date) (*model.Author, error) {
	where := sq.Eq{"first_name": firstName, "last_name": lastName}
	if dateOfBirth == nil {
		where["date_of_birth"] = nil
	} else {
		where["date_of_birth"] = dateOfBirth.String()
	}
	return r.getOne(ctx, r.selectAuthors().Where(where).OrderBy("id").Limit(1))
}

func (r *sqlRepository) getOne(ctx context.Context, q sq.SelectBuilder) (*model.Author, error) {
	row, err := r.store.QueryRow(ctx, q)
	if err != nil {
		return nil, err
	}

	a, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	return a, nil
}

func (r *sqlRepository) List(ctx context.Context) ([]model.Author, error) {
	rows, err := r.store.Query(ctx, r.selectAuthors().
		OrderBy("date_of_birth IS NULL", "date_of_birth", "last_name", "first_name"))
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	authors := make([]model.Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, *a)
	}
	return authors, rows.Err()
}

func (r *sqlRepository) Update(ctx context.Context, a *model.Author) error {
	res, err := r.store.Exec(ctx, r.store.Builder().
		Update(authorsTable).
		Set("first_name", a.FirstName).
		Set("last_name", a.LastName).
		Set("date_of_birth", a.DateOfBirth).
		Set("date_of_death", a.DateOfDeath).
		Where(sq.Eq{"id": a.ID.String()}))
	if err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	return requireAffected(res)
}

func (r *sqlRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.store.Exec(ctx, r.store.Builder().
		Delete(authorsTable).
		Where(sq.Eq{"id": id.String()}))
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}
