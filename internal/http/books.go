package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/app"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

type BooksController struct {
	catalog *Catalog
}

func NewBooksController(catalog *Catalog) *BooksController {
	return &BooksController{catalog: catalog}
}

// BookResponse is a book together with its tags.
type BookResponse struct {
	app.BookInfo
	Tags []string `json:"tags"`
}

// createBookRequest names the author either by id or by name. With CreateAuthor set an
// unknown author name is added first.
type createBookRequest struct {
	AuthorID     string   `json:"author_id"`
	AuthorName   string   `json:"author_name"`
	CreateAuthor bool     `json:"create_author"`
	Title        string   `json:"title" binding:"required"`
	Year         *int     `json:"publication_year" binding:"required"`
	Tags         []string `json:"tags"`
}

type editBookRequest struct {
	Title string   `json:"title" binding:"required"`
	Year  *int     `json:"publication_year" binding:"required"`
	Tags  []string `json:"tags"`
}

// List returns all books, or only those with exactly the given ?title=.
func (bc *BooksController) List(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))

	var books []app.BookInfo
	err := bc.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		var err error
		if title != "" {
			books, err = uc.FindBooksByTitle(c.Request.Context(), title)
		} else {
			books, err = uc.ListBooks(c.Request.Context())
		}
		return err
	})
	if err != nil {
		respondCatalogError(c, err, "books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// Create adds a book with its tags in one session.
func (bc *BooksController) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and publication_year are required")
		return
	}
	if req.AuthorID == "" && strings.TrimSpace(req.AuthorName) == "" {
		respondBadRequest(c, "author_id or author_name is required")
		return
	}
	title := strings.TrimSpace(req.Title)
	tags := app.NormalizeTagList(req.Tags)

	var book BookResponse
	err := bc.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		ctx := c.Request.Context()
		author, err := resolveAuthor(ctx, uc, req)
		if err != nil {
			return err
		}
		id, err := uc.AddBook(ctx, *req.Year, author.ID, title)
		if err != nil {
			return err
		}
		if err := uc.AddTags(ctx, id, tags); err != nil {
			return err
		}
		book = BookResponse{
			BookInfo: app.BookInfo{
				ID:         id,
				AuthorID:   author.ID,
				AuthorName: author.Name,
				Title:      title,
				Year:       *req.Year,
			},
			Tags: tags,
		}
		return nil
	})
	if err != nil {
		respondCatalogError(c, err, "author")
		return
	}
	respondCreated(c, book)
}

func resolveAuthor(ctx context.Context, uc *app.UseCases, req createBookRequest) (app.AuthorInfo, error) {
	if req.AuthorID != "" {
		id, err := entities.ParseAuthorID(req.AuthorID)
		if err != nil {
			return app.AuthorInfo{}, err
		}
		return uc.FindAuthorByID(ctx, id)
	}

	name := strings.TrimSpace(req.AuthorName)
	author, err := uc.FindAuthorByName(ctx, name)
	if errors.Is(err, entities.ErrNotFound) && req.CreateAuthor {
		id, err := uc.AddAuthor(ctx, name)
		if err != nil {
			return app.AuthorInfo{}, err
		}
		return app.AuthorInfo{ID: id, Name: name}, nil
	}
	return author, err
}

// Edit replaces title, year and tags of a book.
func (bc *BooksController) Edit(c *gin.Context) {
	id, ok := parseBookIDParam(c, "id")
	if !ok {
		return
	}
	var req editBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and publication_year are required")
		return
	}
	tags := app.NormalizeTagList(req.Tags)

	err := bc.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		return uc.EditBook(c.Request.Context(), id, strings.TrimSpace(req.Title), *req.Year, tags)
	})
	if err != nil {
		respondCatalogError(c, err, "book")
		return
	}
	respondSuccess(c, "book updated", gin.H{"id": id, "tags": tags})
}

// Delete removes a book and its tags. Deleting an unknown book succeeds.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseBookIDParam(c, "id")
	if !ok {
		return
	}

	err := bc.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		return uc.DeleteBookAndDependencies(c.Request.Context(), id)
	})
	if err != nil {
		respondCatalogError(c, err, "book")
		return
	}
	respondSuccess(c, "book deleted", nil)
}
