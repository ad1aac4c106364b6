package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/app"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

type testServer struct {
	router *gin.Engine
	db     *database.Database
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(database.Config{
		Path:     filepath.Join(t.TempDir(), "catalog.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)

	uc, err := app.NewUseCases(database.NewUnitOfWorkFactory(db))
	require.NoError(t, err)
	catalog := NewCatalog(uc)

	t.Cleanup(func() {
		catalog.Close()
		db.Close()
	})

	return &testServer{
		router: NewRouter(RouterConfig{Catalog: catalog, Database: db, Version: "test"}),
		db:     db,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) createAuthor(t *testing.T, name string) app.AuthorInfo {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/authors", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[app.AuthorInfo](t, w)
}

func (s *testServer) createBook(t *testing.T, authorID entities.AuthorID, title string, year int, tags ...string) BookResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/books", gin.H{
		"author_id":        authorID.String(),
		"title":            title,
		"publication_year": year,
		"tags":             tags,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[BookResponse](t, w)
}

func TestRespondCatalogError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("bad: %w", entities.ErrInvalidInput), http.StatusBadRequest, CodeInvalidInput},
		{fmt.Errorf("gone: %w", entities.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{fmt.Errorf("taken: %w", entities.ErrConstraintViolation), http.StatusConflict, CodeConflict},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondCatalogError(c, tt.err, "thing")

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Code)
		})
	}
}

func TestRespondCatalogError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondCatalogError(c, fmt.Errorf("password=hunter2"), "thing")

	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestRequestID(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}
