package service

import (
	"context"

	"library-catalog/internal/domains/user/model"
)

// ServiceInterface - account and authentication operations
type ServiceInterface interface {
	// Signup creates a regular (non-staff) account.
	Signup(ctx context.Context, req model.SignupRequest) (*model.User, error)

	// CreateSuperuser creates a staff account.
	CreateSuperuser(ctx context.Context, req model.SignupRequest) (*model.User, error)

	// Login checks credentials and issues an access token. Wrong username
	// and wrong password fail identically with ErrInvalidCredentials.
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)

	// SetStaff grants or revokes staff rights.
	SetStaff(ctx context.Context, username string, isStaff bool) error
}
