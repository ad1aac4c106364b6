package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/app"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

type AuthorsController struct {
	catalog *Catalog
}

func NewAuthorsController(catalog *Catalog) *AuthorsController {
	return &AuthorsController{catalog: catalog}
}

type authorRequest struct {
	Name string `json:"name" binding:"required"`
}

// List returns all authors ordered by name.
func (ac *AuthorsController) List(c *gin.Context) {
	var authors []app.AuthorInfo
	err := ac.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		var err error
		authors, err = uc.ListAuthors(c.Request.Context())
		return err
	})
	if err != nil {
		respondCatalogError(c, err, "authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// Create adds an author. A taken name answers 409.
func (ac *AuthorsController) Create(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}
	name := strings.TrimSpace(req.Name)

	var id entities.AuthorID
	err := ac.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		var err error
		id, err = uc.AddAuthor(c.Request.Context(), name)
		return err
	})
	if err != nil {
		respondCatalogError(c, err, "author")
		return
	}
	respondCreated(c, app.AuthorInfo{ID: id, Name: name})
}

// Search finds the author with exactly the given name.
func (ac *AuthorsController) Search(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	var author app.AuthorInfo
	err := ac.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		var err error
		author, err = uc.FindAuthorByName(c.Request.Context(), name)
		return err
	})
	if err != nil {
		respondCatalogError(c, err, "author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// Rename changes the name of an author.
func (ac *AuthorsController) Rename(c *gin.Context) {
	id, ok := parseAuthorIDParam(c, "id")
	if !ok {
		return
	}
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}
	name := strings.TrimSpace(req.Name)

	err := ac.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		return uc.EditAuthorName(c.Request.Context(), id, name)
	})
	if err != nil {
		respondCatalogError(c, err, "author")
		return
	}
	c.JSON(http.StatusOK, app.AuthorInfo{ID: id, Name: name})
}

// Delete removes an author with all of its books and their tags. With ?by=name the path
// segment is read as the author name instead of an id.
func (ac *AuthorsController) Delete(c *gin.Context) {
	var selector entities.AuthorSelector
	if c.Query("by") == "name" {
		name := strings.TrimSpace(c.Param("id"))
		if name == "" {
			respondBadRequest(c, "name is required")
			return
		}
		selector = entities.AuthorByName(name)
	} else {
		id, ok := parseAuthorIDParam(c, "id")
		if !ok {
			return
		}
		selector = entities.AuthorByID(id)
	}

	err := ac.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		return uc.DeleteAuthorAndDependencies(c.Request.Context(), selector)
	})
	if err != nil {
		respondCatalogError(c, err, "author")
		return
	}
	respondSuccess(c, "author deleted", nil)
}

// Books lists the books of one author ordered by year, then title.
func (ac *AuthorsController) Books(c *gin.Context) {
	id, ok := parseAuthorIDParam(c, "id")
	if !ok {
		return
	}

	var books []app.BookInfo
	err := ac.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		var err error
		books, err = uc.ListAuthorBooks(c.Request.Context(), id)
		return err
	})
	if err != nil {
		respondCatalogError(c, err, "author")
		return
	}
	c.JSON(http.StatusOK, books)
}
