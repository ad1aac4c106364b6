package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidInput = "invalid_input"
	CodeNotFound     = "not_found"
	CodeConflict     = "constraint_violation"
	CodeInternal     = "internal"
)

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidInput})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message, Code: CodeConflict})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Str("context", context).Msg("Internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// respondCatalogError maps a catalog error kind onto its status code. resource names the
// thing that was looked up, for the not found message.
func respondCatalogError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		respondBadRequest(c, err.Error())
	case errors.Is(err, entities.ErrNotFound):
		respondNotFound(c, resource)
	case errors.Is(err, entities.ErrConstraintViolation):
		respondConflict(c, err.Error())
	default:
		respondInternalError(c, err, resource)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: data})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseAuthorIDParam extracts an author id from the URL. On failure it responds with 400
// and returns false.
func parseAuthorIDParam(c *gin.Context, paramName string) (entities.AuthorID, bool) {
	id, err := entities.ParseAuthorID(c.Param(paramName))
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return entities.AuthorID{}, false
	}
	return id, true
}

// parseBookIDParam extracts a book id from the URL. On failure it responds with 400 and
// returns false.
func parseBookIDParam(c *gin.Context, paramName string) (entities.BookID, bool) {
	id, err := entities.ParseBookID(c.Param(paramName))
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return entities.BookID{}, false
	}
	return id, true
}
