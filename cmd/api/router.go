package main

import (
	"github.com/gin-gonic/gin"

	"library-catalog/internal/shared/middleware"
	"library-catalog/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.ClientIPMiddleware(),
	)
	if c.Config.RateLimit.Enabled {
		router.Use(c.RateLimiter.Middleware())
	}
	router.Use(middleware.Authenticate(c.JWTManager))

	router.GET("/health", healthCheckHandler(c))

	setupAuthRoutes(router, c)

	// Reads are open; writes go through the mutation policy.
	catalog := router.Group("/", middleware.RequireMutationPermission(c.Policy))
	setupAuthorRoutes(catalog, c)
	setupGenreRoutes(catalog, c)
	setupBookRoutes(catalog, c)

	// GraphQL applies the policy per mutation resolver.
	graphql := gin.WrapH(c.GraphQLHandler)
	router.GET("/graphql", graphql)
	router.POST("/graphql", graphql)

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(router *gin.Engine, c *container.Container) {
	router.POST("/signup/", c.UserHandler.Signup)
	router.POST("/login/", c.UserHandler.Login)
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(rg *gin.RouterGroup, c *container.Container) {
	authors := rg.Group("/authors")
	{
		authors.GET("/", c.AuthorHandler.List)
		authors.POST("/", c.AuthorHandler.Create)
		authors.GET("/:id/", c.AuthorHandler.GetByID)
		authors.PUT("/:id/", c.AuthorHandler.Update)
		authors.PATCH("/:id/", c.AuthorHandler.Update)
		authors.DELETE("/:id/", c.AuthorHandler.Delete)

		// Legacy paths
		authors.POST("/create/", c.AuthorHandler.Create)
		authors.PUT("/update/:id/", c.AuthorHandler.Update)
		authors.PATCH("/update/:id/", c.AuthorHandler.Update)
		authors.DELETE("/delete/:id/", c.AuthorHandler.Delete)
	}
}

// ========================================
// GENRE ROUTES
// ========================================
func setupGenreRoutes(rg *gin.RouterGroup, c *container.Container) {
	genres := rg.Group("/genres")
	{
		genres.GET("/", c.GenreHandler.List)
		genres.POST("/", c.GenreHandler.Create)
		genres.GET("/:id/", c.GenreHandler.GetByID)
		genres.PUT("/:id/", c.GenreHandler.Update)
		genres.PATCH("/:id/", c.GenreHandler.Update)
		genres.DELETE("/:id/", c.GenreHandler.Delete)

		// Legacy paths
		genres.POST("/create/", c.GenreHandler.Create)
		genres.PUT("/update/:id/", c.GenreHandler.Update)
		genres.PATCH("/update/:id/", c.GenreHandler.Update)
		genres.DELETE("/delete/:id/", c.GenreHandler.Delete)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(rg *gin.RouterGroup, c *container.Container) {
	books := rg.Group("/books")
	{
		books.GET("/", c.BookHandler.ListBooks)
		books.POST("/", c.BookHandler.CreateBook)
		books.GET("/export/", c.BookHandler.ExportBooks)
		books.GET("/:id/", c.BookHandler.GetBookDetail)
		books.PUT("/:id/", c.BookHandler.UpdateBook)
		books.PATCH("/:id/", c.BookHandler.UpdateBook)
		books.DELETE("/:id/", c.BookHandler.DeleteBook)

		// Legacy paths
		books.POST("/create/", c.BookHandler.CreateBook)
		books.PUT("/update/:id/", c.BookHandler.UpdateBook)
		books.PATCH("/update/:id/", c.BookHandler.UpdateBook)
		books.DELETE("/delete/:id/", c.BookHandler.DeleteBook)
	}
}
