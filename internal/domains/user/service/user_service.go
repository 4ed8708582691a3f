package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"library-catalog/internal/domains/user/model"
	"library-catalog/internal/domains/user/repository"
	"library-catalog/internal/shared/rules"
	"library-catalog/pkg/cache"
	"library-catalog/pkg/jwt"
	"library-catalog/pkg/logger"
)

const (
	loginFailureKeyPrefix = "login:failures:"
	loginSuccessMessage   = "Login successful!"
)

// Options tunes password hashing and login throttling.
type Options struct {
	BcryptCost       int
	MaxLoginAttempts int
	LockoutWindow    time.Duration
}

type userService struct {
	repo   repository.RepositoryInterface
	tokens *jwt.Manager
	cache  cache.Cache
	opts   Options

	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewUserService(repo repository.RepositoryInterface, tokens *jwt.Manager, c cache.Cache, opts Options) ServiceInterface {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = 12
	}
	if opts.MaxLoginAttempts == 0 {
		opts.MaxLoginAttempts = 5
	}
	if opts.LockoutWindow == 0 {
		opts.LockoutWindow = 15 * time.Minute
	}
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("library-catalog"), opts.BcryptCost)
	if err != nil {
		logger.Error("failed to prepare login hash", err)
	}

	return &userService{
		repo:      repo,
		tokens:    tokens,
		cache:     c,
		opts:      opts,
		dummyHash: dummyHash,
	}
}

func (s *userService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	return s.register(ctx, req, false)
}

func (s *userService) CreateSuperuser(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	return s.register(ctx, req, true)
}

func (s *userService) register(ctx context.Context, req model.SignupRequest, isStaff bool) (*model.User, error) {
	// 1. VALIDATE INPUT
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. CHECK DUPLICATES - both fields are reported together
	var dupErr error
	taken, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		dupErr = rules.Add(dupErr, "username", model.ErrUsernameTaken)
	}

	taken, err = s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		dupErr = rules.Add(dupErr, "email", model.ErrEmailTaken)
	}
	if dupErr != nil {
		return nil, dupErr
	}

	// 3. HASH PASSWORD
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. PERSIST - the unique indexes still guard against a concurrent signup
	u := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		IsStaff:      isStaff,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		switch err {
		case model.ErrUsernameTaken:
			return nil, rules.Field("username", err)
		case model.ErrEmailTaken:
			return nil, rules.Field("email", err)
		}
		return nil, err
	}

	logger.Info("user registered", map[string]interface{}{"username": u.Username, "is_staff": u.IsStaff})
	return u, nil
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. THROTTLE
	key := loginFailureKeyPrefix + strings.ToLower(req.Username)
	if err := s.checkThrottle(ctx, key); err != nil {
		return nil, err
	}

	// 3. VERIFY - unknown user and wrong password look the same to the caller
	u, err := s.repo.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password))
	case errors.Is(err, model.ErrUserNotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
	}
	if err != nil {
		s.recordFailure(ctx, key)
		return nil, model.ErrInvalidCredentials
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Error("failed to reset login failures", err)
	}

	// 4. ISSUE TOKEN
	token, expiresAt, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Username, u.IsStaff)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &model.LoginResponse{
		Username:    u.Username,
		Message:     loginSuccessMessage,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *userService) SetStaff(ctx context.Context, username string, isStaff bool) error {
	if err := s.repo.SetStaff(ctx, username, isStaff); err != nil {
		return err
	}
	logger.Info("staff flag changed", map[string]interface{}{"username": username, "is_staff": isStaff})
	return nil
}

// checkThrottle fails open: a cache outage must not lock everyone out.
func (s *userService) checkThrottle(ctx context.Context, key string) error {
	failures, err := s.cache.GetInt(ctx, key)
	if err != nil {
		logger.Error("failed to read login failures", err)
		return nil
	}
	if failures < int64(s.opts.MaxLoginAttempts) {
		return nil
	}

	retryAfter, err := s.cache.TTL(ctx, key)
	if err != nil || retryAfter <= 0 {
		// A counter without expiry would lock the account for good.
		s.armWindow(ctx, key)
		retryAfter = s.opts.LockoutWindow
	}
	return &model.ThrottledError{RetryAfter: retryAfter}
}

func (s *userService) recordFailure(ctx context.Context, key string) {
	n, err := s.cache.Increment(ctx, key)
	if err != nil {
		logger.Error("failed to record login failure", err)
		return
	}
	if n == 1 {
		s.armWindow(ctx, key)
		return
	}

	// The first Expire may have failed; every later failure repairs it.
	ttl, err := s.cache.TTL(ctx, key)
	if err != nil {
		logger.Error("failed to read login failure window", err)
		return
	}
	if ttl <= 0 {
		s.armWindow(ctx, key)
	}
}

// armWindow starts the lockout window on key.
func (s *userService) armWindow(ctx context.Context, key string) {
	if err := s.cache.Expire(ctx, key, s.opts.LockoutWindow); err != nil {
		logger.Error("failed to set login failure window", err)
	}
}
