package model

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("this username is already taken")
	ErrEmailTaken         = errors.New("this email is already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTooManyAttempts    = errors.New("too many login attempts, please try again later")
)

// ThrottledError is returned while a username is locked out after repeated
// failed logins.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return ErrTooManyAttempts.Error()
}

func (e *ThrottledError) Unwrap() error {
	return ErrTooManyAttempts
}
