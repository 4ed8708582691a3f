package repository

import (
	"context"

	"library-catalog/internal/domains/user/model"
)

// RepositoryInterface - data access for user accounts
type RepositoryInterface interface {
	// Create returns ErrUsernameTaken or ErrEmailTaken on a unique violation.
	Create(ctx context.Context, u *model.User) error

	// GetByUsername returns ErrUserNotFound when no row matches.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// SetStaff flips the staff flag. Returns ErrUserNotFound when no row matches.
	SetStaff(ctx context.Context, username string, isStaff bool) error
}
