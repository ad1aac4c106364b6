package books

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookcatalog/internal/database/schema"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

func setupTestDB(t *testing.T, foreignKeys bool) (*Repository, *gorm.DB) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "books.db")
	if foreignKeys {
		dsn += "?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, schema.Migrate(db))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db), db
}

func createAuthor(t *testing.T, db *gorm.DB, name string) entities.AuthorID {
	t.Helper()
	id := entities.NewAuthorID()
	require.NoError(t, db.Create(&schema.AuthorRecord{ID: id.String(), Name: name}).Error)
	return id
}

func saveBook(t *testing.T, repo *Repository, authorID entities.AuthorID, title string, year int) entities.Book {
	t.Helper()
	book := entities.NewBook(entities.NewBookID(), authorID, title, year)
	require.NoError(t, repo.Save(context.Background(), book))
	return book
}

func TestRepository_Save_UnknownAuthor(t *testing.T) {
	repo, _ := setupTestDB(t, true)

	book := entities.NewBook(entities.NewBookID(), entities.NewAuthorID(), "Lost", 2000)
	err := repo.Save(context.Background(), book)
	assert.ErrorIs(t, err, entities.ErrConstraintViolation)
}

func TestRepository_Edit(t *testing.T) {
	ctx := context.Background()
	repo, db := setupTestDB(t, true)
	jane := createAuthor(t, db, "Jane")
	book := saveBook(t, repo, jane, "Book One", 1997)

	require.NoError(t, repo.Edit(ctx, entities.NewBook(book.ID(), entities.AuthorID{}, "Book Uno", 1998)))

	books, err := repo.ListByAuthor(ctx, jane)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Book Uno", books[0].Title())
	assert.Equal(t, 1998, books[0].Year())
	assert.Equal(t, jane, books[0].AuthorID())

	t.Run("missing book", func(t *testing.T) {
		err := repo.Edit(ctx, entities.NewBook(entities.NewBookID(), jane, "Ghost", 2000))
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, db := setupTestDB(t, true)
	jane := createAuthor(t, db, "Jane")
	book := saveBook(t, repo, jane, "Book One", 1997)

	require.NoError(t, repo.Delete(ctx, book.ID()))
	found, err := repo.FindByTitle(ctx, "Book One")
	require.NoError(t, err)
	assert.Empty(t, found)

	assert.NoError(t, repo.Delete(ctx, entities.NewBookID()))
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()
	repo, db := setupTestDB(t, true)
	jane := createAuthor(t, db, "Jane")
	adam := createAuthor(t, db, "Adam")
	saveBook(t, repo, jane, "Same Title", 2010)
	saveBook(t, repo, adam, "Same Title", 2005)
	saveBook(t, repo, jane, "Another", 1990)
	saveBook(t, repo, jane, "Same Title", 2001)

	books, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 4)

	type row struct {
		title, author string
		year          int
	}
	got := make([]row, 0, len(books))
	for _, b := range books {
		got = append(got, row{b.Title(), b.AuthorName, b.Year()})
	}
	assert.Equal(t, []row{
		{"Another", "Jane", 1990},
		{"Same Title", "Adam", 2005},
		{"Same Title", "Jane", 2001},
		{"Same Title", "Jane", 2010},
	}, got)
}

func TestRepository_ListByAuthor(t *testing.T) {
	ctx := context.Background()
	repo, db := setupTestDB(t, true)
	jane := createAuthor(t, db, "Jane")
	adam := createAuthor(t, db, "Adam")
	saveBook(t, repo, jane, "B", 2000)
	saveBook(t, repo, jane, "A", 2000)
	saveBook(t, repo, jane, "C", 1990)
	saveBook(t, repo, adam, "Other", 1980)

	books, err := repo.ListByAuthor(ctx, jane)
	require.NoError(t, err)
	titles := make([]string, 0, len(books))
	for _, b := range books {
		titles = append(titles, b.Title())
	}
	assert.Equal(t, []string{"C", "A", "B"}, titles)
}

func TestRepository_FindByTitle(t *testing.T) {
	ctx := context.Background()
	repo, db := setupTestDB(t, true)
	jane := createAuthor(t, db, "Jane")
	book := saveBook(t, repo, jane, "Book One", 1997)
	saveBook(t, repo, jane, "Book One Two", 1999)

	found, err := repo.FindByTitle(ctx, "Book One")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, book.ID(), found[0].ID())
	assert.Equal(t, "Jane", found[0].AuthorName)
}

func TestRepository_DeleteOrphans(t *testing.T) {
	ctx := context.Background()
	repo, db := setupTestDB(t, false)
	jane := createAuthor(t, db, "Jane")
	kept := saveBook(t, repo, jane, "Kept", 2000)
	saveBook(t, repo, entities.NewAuthorID(), "Orphan", 2000)

	removed, err := repo.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	books, err := repo.ListByAuthor(ctx, jane)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, kept.ID(), books[0].ID())
}
