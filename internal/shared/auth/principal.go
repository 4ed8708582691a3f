package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrUnauthenticated  = errors.New("authentication credentials were not provided")
	ErrPermissionDenied = errors.New("permission denied")
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   uuid.UUID
	Username string
	IsStaff  bool
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the caller stored in ctx, or nil for anonymous requests.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// Policy decides who may change catalog data. Reads are always open.
type Policy string

const (
	PolicyStaff         Policy = "staff"
	PolicyAuthenticated Policy = "authenticated"
)

// ParsePolicy accepts "staff" or "authenticated".
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyStaff, PolicyAuthenticated:
		return p, nil
	default:
		return "", fmt.Errorf("unknown mutation policy %q", s)
	}
}

// Authorize returns ErrUnauthenticated for anonymous callers and
// ErrPermissionDenied for callers the policy does not admit.
func (p Policy) Authorize(caller *Principal) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if p == PolicyStaff && !caller.IsStaff {
		return ErrPermissionDenied
	}
	return nil
}

// AuthorizeContext applies the policy to the caller stored in ctx.
func (p Policy) AuthorizeContext(ctx context.Context) error {
	return p.Authorize(FromContext(ctx))
}
