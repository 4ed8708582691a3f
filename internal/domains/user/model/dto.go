package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"library-catalog/internal/shared/rules"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ========================================
// AUTH DTOs
// ========================================

// SignupRequest - POST /signup/
type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (r *SignupRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			rules.Required,
			rules.MaxLength(150),
			validation.Match(usernamePattern).Error("enter a valid username: letters, digits and @/./+/-/_ only"),
		),
		validation.Field(&r.Email,
			rules.Required,
			is.Email.Error("enter a valid email address"),
			rules.MaxLength(254),
		),
		validation.Field(&r.FirstName, rules.MaxLength(150)),
		validation.Field(&r.LastName, rules.MaxLength(150)),
		validation.Field(&r.Password,
			rules.Required,
			validation.RuneLength(8, 128).Error("password must be 8-128 characters"),
		),
	)
}

// LoginRequest - POST /login/
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, rules.Required),
		validation.Field(&r.Password, rules.Required),
	)
}

// LoginResponse - access token for the Authorization header
type LoginResponse struct {
	Username    string    `json:"username"`
	Message     string    `json:"message"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
