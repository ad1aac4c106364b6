package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger())
	router.Use(Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)

	authors := NewAuthorsController(cfg.Catalog)
	books := NewBooksController(cfg.Catalog)
	tags := NewTagsController(cfg.Catalog)

	api := router.Group("/api")
	{
		api.GET("/authors", authors.List)
		api.POST("/authors", authors.Create)
		api.GET("/authors/search", authors.Search)
		api.PUT("/authors/:id", authors.Rename)
		api.DELETE("/authors/:id", authors.Delete)
		api.GET("/authors/:id/books", authors.Books)

		api.GET("/books", books.List)
		api.POST("/books", books.Create)
		api.PUT("/books/:id", books.Edit)
		api.DELETE("/books/:id", books.Delete)
		api.GET("/books/:id/tags", tags.List)
		api.POST("/books/:id/tags", tags.Add)
	}

	return router
}
