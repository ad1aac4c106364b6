package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// AuthorInfo is the author view handed to the shell and HTTP layers.
type AuthorInfo struct {
	ID   entities.AuthorID `json:"id"`
	Name string            `json:"name"`
}

// BookInfo is the book view handed to the shell and HTTP layers.
type BookInfo struct {
	ID         entities.BookID   `json:"id"`
	AuthorID   entities.AuthorID `json:"author_id"`
	AuthorName string            `json:"author_name"`
	Title      string            `json:"title"`
	Year       int               `json:"publication_year"`
}

// UseCases runs catalog operations against exactly one open session at a time. The
// session is replaced by a fresh one after every Commit and Rollback, so the next
// operation can start right away.
//
// UseCases is not safe for concurrent use. Callers that share it must serialize access.
type UseCases struct {
	factory UnitOfWorkFactory
	current UnitOfWork
}

// NewUseCases opens the first session from factory.
func NewUseCases(factory UnitOfWorkFactory) (*UseCases, error) {
	uc := &UseCases{factory: factory}
	if err := uc.replaceSession(); err != nil {
		return nil, err
	}
	return uc, nil
}

// replaceSession drops the current session and opens the next one. The dropped session
// must already be finished.
func (uc *UseCases) replaceSession() error {
	uc.current = nil
	uow, err := uc.factory.New()
	if err != nil {
		return fmt.Errorf("open unit of work: %w", err)
	}
	uc.current = uow
	return nil
}

// session returns the current unit of work, reopening one if a previous replacement failed.
func (uc *UseCases) session() (UnitOfWork, error) {
	if uc.current == nil {
		if err := uc.replaceSession(); err != nil {
			return nil, err
		}
	}
	return uc.current, nil
}

// Commit applies everything issued in the current session and starts a new one.
func (uc *UseCases) Commit(ctx context.Context) error {
	uow, err := uc.session()
	if err != nil {
		return err
	}
	commitErr := uow.Commit(ctx)
	reopenErr := uc.replaceSession()
	if commitErr != nil {
		return fmt.Errorf("commit: %w", commitErr)
	}
	if reopenErr != nil {
		return fmt.Errorf("%w: %w", ErrNextSession, reopenErr)
	}
	return nil
}

// Rollback discards everything issued in the current session and starts a new one.
func (uc *UseCases) Rollback(ctx context.Context) error {
	uow, err := uc.session()
	if err != nil {
		return err
	}
	rollbackErr := uow.Rollback(ctx)
	if err := uc.replaceSession(); err != nil {
		return err
	}
	if rollbackErr != nil {
		return fmt.Errorf("rollback: %w", rollbackErr)
	}
	return nil
}

// Close discards the current session without opening another one.
func (uc *UseCases) Close() error {
	if uc.current == nil {
		return nil
	}
	err := uc.current.Close()
	uc.current = nil
	return err
}

func (uc *UseCases) AddAuthor(ctx context.Context, name string) (entities.AuthorID, error) {
	uow, err := uc.session()
	if err != nil {
		return entities.AuthorID{}, err
	}
	author := entities.NewAuthor(entities.NewAuthorID(), name)
	if err := author.Validate(); err != nil {
		return entities.AuthorID{}, err
	}
	if err := uow.Authors().Save(ctx, author); err != nil {
		return entities.AuthorID{}, fmt.Errorf("add author %q: %w", name, err)
	}
	return author.ID(), nil
}

// EditAuthorName renames an existing author.
func (uc *UseCases) EditAuthorName(ctx context.Context, id entities.AuthorID, name string) error {
	uow, err := uc.session()
	if err != nil {
		return err
	}
	author := entities.NewAuthor(id, name)
	if err := author.Validate(); err != nil {
		return err
	}
	if _, err := uow.Authors().FindByID(ctx, id); err != nil {
		return fmt.Errorf("edit author %s: %w", id, err)
	}
	if err := uow.Authors().Save(ctx, author); err != nil {
		return fmt.Errorf("edit author %s: %w", id, err)
	}
	return nil
}

// DeleteAuthorAndDependencies removes the selected author together with all of its books
// and their tags, in that order: tags, books, author.
func (uc *UseCases) DeleteAuthorAndDependencies(ctx context.Context, selector entities.AuthorSelector) error {
	uow, err := uc.session()
	if err != nil {
		return err
	}

	authorID := selector.ID()
	if selector.ByName() {
		author, err := uow.Authors().FindByName(ctx, selector.Name())
		if err != nil {
			return fmt.Errorf("delete author %s: %w", selector, err)
		}
		authorID = author.ID()
	}

	books, err := uow.Books().ListByAuthor(ctx, authorID)
	if err != nil {
		return fmt.Errorf("delete author %s: list books: %w", selector, err)
	}
	for _, book := range books {
		if err := uc.deleteBook(ctx, uow, book.ID()); err != nil {
			return fmt.Errorf("delete author %s: %w", selector, err)
		}
	}

	if err := uow.Authors().Delete(ctx, selector); err != nil {
		return fmt.Errorf("delete author %s: %w", selector, err)
	}
	log.Debug().Str("author", selector.String()).Int("books", len(books)).Msg("author deleted with dependencies")
	return nil
}

func (uc *UseCases) AddBook(ctx context.Context, year int, authorID entities.AuthorID, title string) (entities.BookID, error) {
	uow, err := uc.session()
	if err != nil {
		return entities.BookID{}, err
	}
	book := entities.NewBook(entities.NewBookID(), authorID, title, year)
	if err := book.Validate(); err != nil {
		return entities.BookID{}, err
	}
	if err := uow.Books().Save(ctx, book); err != nil {
		return entities.BookID{}, fmt.Errorf("add book %q: %w", title, err)
	}
	return book.ID(), nil
}

// EditBook updates title and year and replaces the tag set of the book. The three steps
// share the current session, so a failure part way leaves nothing applied once the caller
// rolls back.
func (uc *UseCases) EditBook(ctx context.Context, id entities.BookID, title string, year int, tags []string) error {
	uow, err := uc.session()
	if err != nil {
		return err
	}
	// Edit never writes the author, so the zero author id is a placeholder.
	book := entities.NewBook(id, entities.AuthorID{}, title, year)
	if err := book.Validate(); err != nil {
		return err
	}
	if err := uow.Books().Edit(ctx, book); err != nil {
		return fmt.Errorf("edit book %s: %w", id, err)
	}
	if err := uow.Tags().ClearForBook(ctx, id); err != nil {
		return fmt.Errorf("edit book %s: clear tags: %w", id, err)
	}
	return uc.addTags(ctx, uow, id, tags)
}

// AddTags attaches tags to a book as given. Callers normalize with NormalizeTags first.
func (uc *UseCases) AddTags(ctx context.Context, bookID entities.BookID, tags []string) error {
	uow, err := uc.session()
	if err != nil {
		return err
	}
	return uc.addTags(ctx, uow, bookID, tags)
}

func (uc *UseCases) addTags(ctx context.Context, uow UnitOfWork, bookID entities.BookID, tags []string) error {
	for _, name := range tags {
		tag := entities.NewTag(bookID, name)
		if err := tag.Validate(); err != nil {
			return err
		}
		if err := uow.Tags().Save(ctx, tag); err != nil {
			return fmt.Errorf("add tag %q to book %s: %w", name, bookID, err)
		}
	}
	return nil
}

// DeleteBookAndDependencies removes the tags of a book, then the book.
func (uc *UseCases) DeleteBookAndDependencies(ctx context.Context, id entities.BookID) error {
	uow, err := uc.session()
	if err != nil {
		return err
	}
	return uc.deleteBook(ctx, uow, id)
}

func (uc *UseCases) deleteBook(ctx context.Context, uow UnitOfWork, id entities.BookID) error {
	if err := uow.Tags().ClearForBook(ctx, id); err != nil {
		return fmt.Errorf("delete book %s: clear tags: %w", id, err)
	}
	if err := uow.Books().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	return nil
}

func (uc *UseCases) ListAuthors(ctx context.Context) ([]AuthorInfo, error) {
	uow, err := uc.session()
	if err != nil {
		return nil, err
	}
	authors, err := uow.Authors().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	out := make([]AuthorInfo, 0, len(authors))
	for _, a := range authors {
		out = append(out, toAuthorInfo(a))
	}
	return out, nil
}

func (uc *UseCases) ListBooks(ctx context.Context) ([]BookInfo, error) {
	uow, err := uc.session()
	if err != nil {
		return nil, err
	}
	books, err := uow.Books().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return toBookInfos(books), nil
}

// ListAuthorBooks returns the books of one author ordered by year, then title.
func (uc *UseCases) ListAuthorBooks(ctx context.Context, authorID entities.AuthorID) ([]BookInfo, error) {
	uow, err := uc.session()
	if err != nil {
		return nil, err
	}
	author, err := uow.Authors().FindByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list books of author %s: %w", authorID, err)
	}
	books, err := uow.Books().ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list books of author %s: %w", authorID, err)
	}
	out := make([]BookInfo, 0, len(books))
	for _, b := range books {
		out = append(out, toBookInfo(entities.BookWithAuthor{Book: b, AuthorName: author.Name()}))
	}
	return out, nil
}

// FindAuthorByName returns entities.ErrNotFound when no author has exactly that name.
func (uc *UseCases) FindAuthorByName(ctx context.Context, name string) (AuthorInfo, error) {
	uow, err := uc.session()
	if err != nil {
		return AuthorInfo{}, err
	}
	author, err := uow.Authors().FindByName(ctx, name)
	if err != nil {
		return AuthorInfo{}, fmt.Errorf("find author %q: %w", name, err)
	}
	return toAuthorInfo(author), nil
}

func (uc *UseCases) FindAuthorByID(ctx context.Context, id entities.AuthorID) (AuthorInfo, error) {
	uow, err := uc.session()
	if err != nil {
		return AuthorInfo{}, err
	}
	author, err := uow.Authors().FindByID(ctx, id)
	if err != nil {
		return AuthorInfo{}, fmt.Errorf("find author %s: %w", id, err)
	}
	return toAuthorInfo(author), nil
}

func (uc *UseCases) FindBooksByTitle(ctx context.Context, title string) ([]BookInfo, error) {
	uow, err := uc.session()
	if err != nil {
		return nil, err
	}
	books, err := uow.Books().FindByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("find books %q: %w", title, err)
	}
	return toBookInfos(books), nil
}

func (uc *UseCases) ListBookTags(ctx context.Context, bookID entities.BookID) ([]string, error) {
	uow, err := uc.session()
	if err != nil {
		return nil, err
	}
	tags, err := uow.Tags().ListForBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list tags of book %s: %w", bookID, err)
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name())
	}
	return out, nil
}

func toAuthorInfo(a entities.Author) AuthorInfo {
	return AuthorInfo{ID: a.ID(), Name: a.Name()}
}

func toBookInfo(b entities.BookWithAuthor) BookInfo {
	return BookInfo{
		ID:         b.ID(),
		AuthorID:   b.AuthorID(),
		AuthorName: b.AuthorName,
		Title:      b.Title(),
		Year:       b.Year(),
	}
}

func toBookInfos(books []entities.BookWithAuthor) []BookInfo {
	out := make([]BookInfo, 0, len(books))
	for _, b := range books {
		out = append(out, toBookInfo(b))
	}
	return out
}
