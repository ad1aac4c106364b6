// Package app holds the catalog use cases and the persistence contracts they depend on.
//
// A UnitOfWork bundles one repository per aggregate (authors, books, tags) sharing a
// single transaction. UseCases composes repository calls inside the current UnitOfWork and
// leaves the commit/rollback decision to its caller:
//
//	uc, err := app.NewUseCases(factory)
//	id, err := uc.AddAuthor(ctx, "Jane")
//	if err != nil {
//	    return uc.Rollback(ctx)
//	}
//	return uc.Commit(ctx)
package app

import (
	"context"
	"errors"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// ErrSessionClosed is returned when a finished UnitOfWork is committed or rolled back again.
var ErrSessionClosed = errors.New("unit of work already finished")

// ErrNextSession is returned by UseCases.Commit when the commit was applied but the next
// session could not be opened. The next operation retries opening it.
var ErrNextSession = errors.New("commit applied; open next session")

// AuthorRepository persists authors.
type AuthorRepository interface {
	// Save inserts the author or renames the existing row with the same id.
	Save(ctx context.Context, author entities.Author) error
	// Delete removes the author row matched by the selector.
	Delete(ctx context.Context, selector entities.AuthorSelector) error
	// List returns all authors ordered by name.
	List(ctx context.Context) ([]entities.Author, error)
	FindByName(ctx context.Context, name string) (entities.Author, error)
	FindByID(ctx context.Context, id entities.AuthorID) (entities.Author, error)
}

// BookRepository persists books.
type BookRepository interface {
	Save(ctx context.Context, book entities.Book) error
	// Edit updates title and publication year. The author of the book is never changed.
	Edit(ctx context.Context, book entities.Book) error
	Delete(ctx context.Context, id entities.BookID) error
	// List returns every book with its author name, ordered by title, author name, year.
	List(ctx context.Context) ([]entities.BookWithAuthor, error)
	// ListByAuthor returns the books of one author ordered by year, then title.
	ListByAuthor(ctx context.Context, authorID entities.AuthorID) ([]entities.Book, error)
	FindByTitle(ctx context.Context, title string) ([]entities.BookWithAuthor, error)
	// DeleteOrphans removes books whose author no longer exists.
	DeleteOrphans(ctx context.Context) (int64, error)
}

// TagRepository persists book tags. It does not deduplicate.
type TagRepository interface {
	Save(ctx context.Context, tag entities.Tag) error
	ClearForBook(ctx context.Context, bookID entities.BookID) error
	// ListForBook returns the tags of a book in alphabetical order.
	ListForBook(ctx context.Context, bookID entities.BookID) ([]entities.Tag, error)
	// DeleteOrphans removes tags whose book no longer exists or has no author.
	DeleteOrphans(ctx context.Context) (int64, error)
}

// UnitOfWork is one transactional session. All repositories it hands out share the same
// transaction. After Commit or Rollback the session is exhausted.
type UnitOfWork interface {
	Authors() AuthorRepository
	Books() BookRepository
	Tags() TagRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Close discards the session, rolling back when it was neither committed nor rolled back.
	Close() error
}

// UnitOfWorkFactory opens a new session against the shared connection on every call.
type UnitOfWorkFactory interface {
	New() (UnitOfWork, error)
}
