package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"library-catalog/internal/domains/user/model"
	"library-catalog/internal/infrastructure/database"
)

const usersTable = "users"

type sqlRepository struct {
	store *database.Store
}

// NewSQLRepository creates a user repository on top of store.
func NewSQLRepository(store *database.Store) RepositoryInterface {
	return &sqlRepository{store: store}
}

func (r *sqlRepository) Create(ctx context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	_, err := r.store.Exec(ctx, r.store.Builder().
		Insert(usersTable).
		Columns("id", "username", "email", "first_name", "last_name", "password_hash", "is_staff").
		Values(u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsStaff))
	if err != nil {
		if database.IsUniqueViolation(err) {
			if strings.Contains(database.UniqueViolationConstraint(err), "email") {
				return model.ErrEmailTaken
			}
			return model.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *sqlRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row, err := r.store.QueryRow(ctx, r.store.Builder().
		Select("id", "username", "email", "first_name", "last_name", "password_hash", "is_staff").
		From(usersTable).
		Where(sq.Eq{"username": username}))
	if err != nil {
		return nil, err
	}

	var u model.User
	err = row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsStaff)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *sqlRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, sq.Eq{"username": username})
}

func (r *sqlRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, sq.Eq{"LOWER(email)": strings.ToLower(email)})
}

func (r *sqlRepository) exists(ctx context.Context, where sq.Eq) (bool, error) {
	row, err := r.store.QueryRow(ctx, r.store.Builder().
		Select("COUNT(*)").
		From(usersTable).
		Where(where))
	if err != nil {
		return false, err
	}

	var n int
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *sqlRepository) SetStaff(ctx context.Context, username string, isStaff bool) error {
	res, err := r.store.Exec(ctx, r.store.Builder().
		Update(usersTable).
		Set("is_staff", isStaff).
		Where(sq.Eq{"username": username}))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
