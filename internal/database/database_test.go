package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/app"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

func setupTestDB(t *testing.T) (*Database, *UnitOfWorkFactory) {
	t.Helper()
	db, err := NewDatabase(Config{
		Path:     filepath.Join(t.TempDir(), "catalog.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, NewUnitOfWorkFactory(db)
}

func TestNewDatabase_Config(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewDatabase(Config{Driver: "oracle"})
		assert.ErrorContains(t, err, "unsupported database driver")
	})

	t.Run("missing postgres dsn", func(t *testing.T) {
		_, err := NewDatabase(Config{Driver: DriverPostgres})
		assert.ErrorContains(t, err, "postgres dsn is empty")
	})

	t.Run("missing sqlite path", func(t *testing.T) {
		_, err := NewDatabase(Config{Driver: DriverSQLite})
		assert.ErrorContains(t, err, "sqlite database path is empty")
	})

	t.Run("migrates tables", func(t *testing.T) {
		db, _ := setupTestDB(t)
		for _, table := range []string{"authors", "books", "book_tags"} {
			assert.True(t, db.DB.Migrator().HasTable(table), table)
		}
	})
}

func TestUnitOfWork_CommitIsVisible(t *testing.T) {
	ctx := context.Background()
	_, factory := setupTestDB(t)

	uow, err := factory.New()
	require.NoError(t, err)
	author := entities.NewAuthor(entities.NewAuthorID(), "Jane")
	require.NoError(t, uow.Authors().Save(ctx, author))
	require.NoError(t, uow.Commit(ctx))

	reader, err := factory.New()
	require.NoError(t, err)
	defer reader.Close()
	found, err := reader.Authors().FindByName(ctx, "Jane")
	require.NoError(t, err)
	assert.Equal(t, author.ID(), found.ID())
}

func TestUnitOfWork_RollbackIsInvisible(t *testing.T) {
	ctx := context.Background()
	_, factory := setupTestDB(t)

	uow, err := factory.New()
	require.NoError(t, err)
	require.NoError(t, uow.Authors().Save(ctx, entities.NewAuthor(entities.NewAuthorID(), "Jane")))
	require.NoError(t, uow.Rollback(ctx))

	reader, err := factory.New()
	require.NoError(t, err)
	defer reader.Close()
	_, err = reader.Authors().FindByName(ctx, "Jane")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestUnitOfWork_CloseRollsBack(t *testing.T) {
	ctx := context.Background()
	_, factory := setupTestDB(t)

	uow, err := factory.New()
	require.NoError(t, err)
	require.NoError(t, uow.Authors().Save(ctx, entities.NewAuthor(entities.NewAuthorID(), "Jane")))
	require.NoError(t, uow.Close())
	assert.NoError(t, uow.Close())

	reader, err := factory.New()
	require.NoError(t, err)
	defer reader.Close()
	authors, err := reader.Authors().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestUnitOfWork_FinishTwice(t *testing.T) {
	ctx := context.Background()
	_, factory := setupTestDB(t)

	uow, err := factory.New()
	require.NoError(t, err)
	require.NoError(t, uow.Commit(ctx))

	assert.ErrorIs(t, uow.Commit(ctx), app.ErrSessionClosed)
	assert.ErrorIs(t, uow.Rollback(ctx), app.ErrSessionClosed)
}

func TestUnitOfWork_ForeignKeys(t *testing.T) {
	ctx := context.Background()
	_, factory := setupTestDB(t)

	uow, err := factory.New()
	require.NoError(t, err)
	defer uow.Close()

	book := entities.NewBook(entities.NewBookID(), entities.NewAuthorID(), "Lost", 2000)
	err = uow.Books().Save(ctx, book)
	assert.ErrorIs(t, err, entities.ErrConstraintViolation)
}

func TestUseCases_DeleteAuthorCascade(t *testing.T) {
	ctx := context.Background()
	db, factory := setupTestDB(t)

	uc, err := app.NewUseCases(factory)
	require.NoError(t, err)
	defer uc.Close()

	a1, err := uc.AddAuthor(ctx, "Jane")
	require.NoError(t, err)
	b1, err := uc.AddBook(ctx, 1997, a1, "Book One")
	require.NoError(t, err)
	require.NoError(t, uc.AddTags(ctx, b1, app.NormalizeTags("fantasy, ya")))
	require.NoError(t, uc.Commit(ctx))

	require.NoError(t, uc.DeleteAuthorAndDependencies(ctx, entities.AuthorByID(a1)))
	require.NoError(t, uc.Commit(ctx))

	for _, table := range []string{"authors", "books", "book_tags"} {
		var count int64
		require.NoError(t, db.DB.Table(table).Count(&count).Error)
		assert.Zero(t, count, table)
	}
}

func TestUseCases_EditBookRollback(t *testing.T) {
	ctx := context.Background()
	_, factory := setupTestDB(t)

	uc, err := app.NewUseCases(factory)
	require.NoError(t, err)
	defer uc.Close()

	a1, err := uc.AddAuthor(ctx, "Jane")
	require.NoError(t, err)
	b1, err := uc.AddBook(ctx, 1997, a1, "Book One")
	require.NoError(t, err)
	require.NoError(t, uc.AddTags(ctx, b1, []string{"a", "b"}))
	require.NoError(t, uc.Commit(ctx))

	require.NoError(t, uc.EditBook(ctx, b1, "Book Uno", 1998, []string{"b", "c"}))
	require.NoError(t, uc.Rollback(ctx))

	tags, err := uc.ListBookTags(ctx, b1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tags)

	books, err := uc.FindBooksByTitle(ctx, "Book One")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 1997, books[0].Year)
	assert.Equal(t, "Jane", books[0].AuthorName)
}

func TestUseCases_DuplicateAuthorKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	_, factory := setupTestDB(t)

	uc, err := app.NewUseCases(factory)
	require.NoError(t, err)
	defer uc.Close()

	original, err := uc.AddAuthor(ctx, "Jane")
	require.NoError(t, err)
	require.NoError(t, uc.Commit(ctx))

	_, err = uc.AddAuthor(ctx, "Jane")
	require.ErrorIs(t, err, entities.ErrConstraintViolation)
	require.NoError(t, uc.Rollback(ctx))

	found, err := uc.FindAuthorByName(ctx, "Jane")
	require.NoError(t, err)
	assert.Equal(t, original, found.ID)
}
