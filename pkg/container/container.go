package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"library-catalog/internal/config"
	authorHandler "library-catalog/internal/domains/author/handler"
	authorRepo "library-catalog/internal/domains/author/repository"
	authorService "library-catalog/internal/domains/author/service"
	bookHandler "library-catalog/internal/domains/book/handler"
	bookRepo "library-catalog/internal/domains/book/repository"
	bookService "library-catalog/internal/domains/book/service"
	genreHandler "library-catalog/internal/domains/genre/handler"
	genreRepo "library-catalog/internal/domains/genre/repository"
	genreService "library-catalog/internal/domains/genre/service"
	userHandler "library-catalog/internal/domains/user/handler"
	userRepo "library-catalog/internal/domains/user/repository"
	userService "library-catalog/internal/domains/user/service"
	"library-catalog/internal/gql"
	infraCache "library-catalog/internal/infrastructure/cache"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/internal/shared/auth"
	"library-catalog/internal/shared/middleware"
	"library-catalog/pkg/cache"
	"library-catalog/pkg/jwt"
	"library-catalog/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application. Build order:
// infrastructure -> repositories -> services -> handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	Store       *database.Store
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	Policy      auth.Policy
	RateLimiter *middleware.RateLimiter

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	AuthorRepo authorRepo.RepositoryInterface
	GenreRepo  genreRepo.RepositoryInterface
	BookRepo   bookRepo.RepositoryInterface
	UserRepo   userRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER
	// ========================================
	AuthorService authorService.ServiceInterface
	GenreService  genreService.ServiceInterface
	BookService   bookService.ServiceInterface
	UserService   userService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	AuthorHandler  *authorHandler.AuthorHandler
	GenreHandler   *genreHandler.GenreHandler
	BookHandler    *bookHandler.Handler
	UserHandler    *userHandler.UserHandler
	GraphQLHandler http.Handler

	redis *infraCache.RedisCache
}

// ========================================
// CONSTRUCTORS
// ========================================

// NewContainer connects the configured database and cache, applies the
// schema and wires the rest of the graph on top.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger.Info("initializing container", map[string]interface{}{"db_driver": cfg.Database.Driver})

	// STEP 1: DATABASE
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, err := database.Open(connectCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info("database connected", map[string]interface{}{"dialect": store.Dialect})

	// STEP 2: CACHE - Redis failure is not critical, login throttling falls
	// back to process memory.
	var appCache cache.Cache = infraCache.NewMemoryCache()
	var redisCache *infraCache.RedisCache

	if cfg.Redis.Enabled {
		rc := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.Connect(ctx); err != nil {
			logger.Warn("redis unavailable, using in-memory cache", map[string]interface{}{"error": err.Error()})
			_ = rc.Close()
		} else {
			logger.Info("redis connected", map[string]interface{}{"host": cfg.Redis.Host})
			appCache = rc
			redisCache = rc
		}
	}

	c, err := New(cfg, store, appCache)
	if err != nil {
		if redisCache != nil {
			_ = redisCache.Close()
		}
		store.Close()
		return nil, err
	}
	c.redis = redisCache

	logger.Info("container initialized", nil)
	return c, nil
}

// New wires repositories, services and handlers over an open store and
// cache. It performs no I/O.
func New(cfg *config.Config, store *database.Store, appCache cache.Cache) (*Container, error) {
	policy, err := auth.ParsePolicy(cfg.Auth.MutationPolicy)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:      cfg,
		Store:       store,
		Cache:       appCache,
		JWTManager:  jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry),
		Policy:      policy,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}

	c.initRepositories()
	c.initServices()

	if err := c.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	c.AuthorRepo = authorRepo.NewSQLRepository(c.Store)
	c.GenreRepo = genreRepo.NewSQLRepository(c.Store)
	c.BookRepo = bookRepo.NewSQLRepository(c.Store)
	c.UserRepo = userRepo.NewSQLRepository(c.Store)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.GenreService = genreService.NewGenreService(c.GenreRepo)

	c.BookService = bookService.NewBookService(
		c.BookRepo,
		c.AuthorService, // Cross-domain
		c.GenreService,  // Cross-domain
		c.Store,         // Transactor
	)

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.Cache, UserOptions(c.Config))
}

// UserOptions derives the user service settings from cfg. Tests hash with
// the minimum bcrypt cost.
func UserOptions(cfg *config.Config) userService.Options {
	cost := bcrypt.DefaultCost
	if cfg.App.Environment == "test" {
		cost = bcrypt.MinCost
	}
	return userService.Options{
		BcryptCost:       cost,
		MaxLoginAttempts: cfg.Auth.LoginMaxAttempts,
		LockoutWindow:    cfg.Auth.LoginLockoutWindow,
	}
}

func (c *Container) initHandlers() error {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.GenreHandler = genreHandler.NewGenreHandler(c.GenreService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)

	schema, err := gql.NewSchema(&gql.Resolver{
		Authors: c.AuthorService,
		Genres:  c.GenreService,
		Books:   c.BookService,
		Policy:  c.Policy,
	})
	if err != nil {
		return fmt.Errorf("build graphql schema: %w", err)
	}
	c.GraphQLHandler = gql.NewHandler(&schema)

	return nil
}

// Cleanup releases the database and cache connections. Called during
// graceful shutdown.
func (c *Container) Cleanup() {
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}

	logger.Info("container cleanup completed", nil)
}
