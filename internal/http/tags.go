package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/app"
)

type TagsController struct {
	catalog *Catalog
}

func NewTagsController(catalog *Catalog) *TagsController {
	return &TagsController{catalog: catalog}
}

// addTagsRequest carries tags as a list, as a comma separated string, or both.
type addTagsRequest struct {
	Tags []string `json:"tags"`
	Raw  string   `json:"raw"`
}

// List returns the tags of a book ordered by name.
func (tc *TagsController) List(c *gin.Context) {
	id, ok := parseBookIDParam(c, "id")
	if !ok {
		return
	}

	var tags []string
	err := tc.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		var err error
		tags, err = uc.ListBookTags(c.Request.Context(), id)
		return err
	})
	if err != nil {
		respondCatalogError(c, err, "book")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// Add attaches normalized tags to a book and returns the full tag list.
func (tc *TagsController) Add(c *gin.Context) {
	id, ok := parseBookIDParam(c, "id")
	if !ok {
		return
	}
	var req addTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	tags := app.NormalizeTagList(append(req.Tags, req.Raw))
	if len(tags) == 0 {
		respondBadRequest(c, "at least one tag is required")
		return
	}

	var all []string
	err := tc.catalog.Do(c.Request.Context(), func(uc *app.UseCases) error {
		ctx := c.Request.Context()
		if err := uc.AddTags(ctx, id, tags); err != nil {
			return err
		}
		var err error
		all, err = uc.ListBookTags(ctx, id)
		return err
	})
	if err != nil {
		respondCatalogError(c, err, "book")
		return
	}
	c.JSON(http.StatusCreated, all)
}
