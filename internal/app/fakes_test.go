package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

var errBoom = errors.New("boom")

// memState is the committed content of the fake store.
type memState struct {
	authors map[entities.AuthorID]entities.Author
	books   map[entities.BookID]entities.Book
	tags    []entities.Tag
}

func (s memState) clone() memState {
	c := memState{
		authors: make(map[entities.AuthorID]entities.Author, len(s.authors)),
		books:   make(map[entities.BookID]entities.Book, len(s.books)),
		tags:    slices.Clone(s.tags),
	}
	for k, v := range s.authors {
		c.authors[k] = v
	}
	for k, v := range s.books {
		c.books[k] = v
	}
	return c
}

// fakeFactory hands out sessions over a shared in-memory state and records every
// repository call in order.
type fakeFactory struct {
	state    memState
	calls    []string
	failOn   string
	opened   int
	sessions []*fakeUoW
	newErr   error
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{state: memState{}.clone()}
}

func (f *fakeFactory) New() (UnitOfWork, error) {
	if f.newErr != nil {
		return nil, f.newErr
	}
	f.opened++
	uow := &fakeUoW{factory: f, work: f.state.clone()}
	f.sessions = append(f.sessions, uow)
	return uow, nil
}

func (f *fakeFactory) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failOn != "" && strings.HasPrefix(call, f.failOn) {
		return errBoom
	}
	return nil
}

// callsWithPrefix filters the call log, keeping order.
func (f *fakeFactory) callsWithPrefix(prefixes ...string) []string {
	var out []string
	for _, c := range f.calls {
		for _, p := range prefixes {
			if strings.HasPrefix(c, p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

type fakeUoW struct {
	factory    *fakeFactory
	work       memState
	committed  bool
	rolledBack bool
}

func (u *fakeUoW) finished() bool { return u.committed || u.rolledBack }

func (u *fakeUoW) Authors() AuthorRepository { return fakeAuthors{u} }
func (u *fakeUoW) Books() BookRepository     { return fakeBooks{u} }
func (u *fakeUoW) Tags() TagRepository       { return fakeTags{u} }

func (u *fakeUoW) Commit(context.Context) error {
	if u.finished() {
		return ErrSessionClosed
	}
	u.committed = true
	u.factory.state = u.work
	return nil
}

func (u *fakeUoW) Rollback(context.Context) error {
	if u.finished() {
		return ErrSessionClosed
	}
	u.rolledBack = true
	return nil
}

func (u *fakeUoW) Close() error {
	if u.finished() {
		return nil
	}
	return u.Rollback(context.Background())
}

type fakeAuthors struct{ u *fakeUoW }

func (r fakeAuthors) Save(_ context.Context, a entities.Author) error {
	if err := r.u.factory.record("authors.Save " + a.Name()); err != nil {
		return err
	}
	for id, existing := range r.u.work.authors {
		if existing.Name() == a.Name() && id != a.ID() {
			return fmt.Errorf("duplicate name: %w", entities.ErrConstraintViolation)
		}
	}
	r.u.work.authors[a.ID()] = a
	return nil
}

func (r fakeAuthors) Delete(_ context.Context, sel entities.AuthorSelector) error {
	if err := r.u.factory.record("authors.Delete " + sel.String()); err != nil {
		return err
	}
	for id, a := range r.u.work.authors {
		if (sel.ByName() && a.Name() == sel.Name()) || (!sel.ByName() && id == sel.ID()) {
			delete(r.u.work.authors, id)
		}
	}
	return nil
}

func (r fakeAuthors) List(context.Context) ([]entities.Author, error) {
	if err := r.u.factory.record("authors.List"); err != nil {
		return nil, err
	}
	var out []entities.Author
	for _, a := range r.u.work.authors {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b entities.Author) int { return strings.Compare(a.Name(), b.Name()) })
	return out, nil
}

func (r fakeAuthors) FindByName(_ context.Context, name string) (entities.Author, error) {
	if err := r.u.factory.record("authors.FindByName " + name); err != nil {
		return entities.Author{}, err
	}
	for _, a := range r.u.work.authors {
		if a.Name() == name {
			return a, nil
		}
	}
	return entities.Author{}, entities.ErrNotFound
}

func (r fakeAuthors) FindByID(_ context.Context, id entities.AuthorID) (entities.Author, error) {
	if err := r.u.factory.record("authors.FindByID " + id.String()); err != nil {
		return entities.Author{}, err
	}
	a, ok := r.u.work.authors[id]
	if !ok {
		return entities.Author{}, entities.ErrNotFound
	}
	return a, nil
}

type fakeBooks struct{ u *fakeUoW }

func (r fakeBooks) Save(_ context.Context, b entities.Book) error {
	if err := r.u.factory.record("books.Save " + b.Title()); err != nil {
		return err
	}
	if _, ok := r.u.work.authors[b.AuthorID()]; !ok {
		return fmt.Errorf("unknown author: %w", entities.ErrConstraintViolation)
	}
	r.u.work.books[b.ID()] = b
	return nil
}

func (r fakeBooks) Edit(_ context.Context, b entities.Book) error {
	if err := r.u.factory.record("books.Edit " + b.ID().String()); err != nil {
		return err
	}
	existing, ok := r.u.work.books[b.ID()]
	if !ok {
		return entities.ErrNotFound
	}
	r.u.work.books[b.ID()] = entities.NewBook(b.ID(), existing.AuthorID(), b.Title(), b.Year())
	return nil
}

func (r fakeBooks) Delete(_ context.Context, id entities.BookID) error {
	if err := r.u.factory.record("books.Delete " + id.String()); err != nil {
		return err
	}
	delete(r.u.work.books, id)
	return nil
}

func (r fakeBooks) withAuthor(b entities.Book) entities.BookWithAuthor {
	return entities.BookWithAuthor{Book: b, AuthorName: r.u.work.authors[b.AuthorID()].Name()}
}

func (r fakeBooks) List(context.Context) ([]entities.BookWithAuthor, error) {
	if err := r.u.factory.record("books.List"); err != nil {
		return nil, err
	}
	var out []entities.BookWithAuthor
	for _, b := range r.u.work.books {
		out = append(out, r.withAuthor(b))
	}
	slices.SortFunc(out, func(a, b entities.BookWithAuthor) int {
		if c := strings.Compare(a.Title(), b.Title()); c != 0 {
			return c
		}
		if c := strings.Compare(a.AuthorName, b.AuthorName); c != 0 {
			return c
		}
		return a.Year() - b.Year()
	})
	return out, nil
}

func (r fakeBooks) ListByAuthor(_ context.Context, authorID entities.AuthorID) ([]entities.Book, error) {
	if err := r.u.factory.record("books.ListByAuthor " + authorID.String()); err != nil {
		return nil, err
	}
	var out []entities.Book
	for _, b := range r.u.work.books {
		if b.AuthorID() == authorID {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b entities.Book) int {
		if a.Year() != b.Year() {
			return a.Year() - b.Year()
		}
		return strings.Compare(a.Title(), b.Title())
	})
	return out, nil
}

func (r fakeBooks) FindByTitle(_ context.Context, title string) ([]entities.BookWithAuthor, error) {
	if err := r.u.factory.record("books.FindByTitle " + title); err != nil {
		return nil, err
	}
	var out []entities.BookWithAuthor
	for _, b := range r.u.work.books {
		if b.Title() == title {
			out = append(out, r.withAuthor(b))
		}
	}
	return out, nil
}

func (r fakeBooks) DeleteOrphans(context.Context) (int64, error) {
	if err := r.u.factory.record("books.DeleteOrphans"); err != nil {
		return 0, err
	}
	var n int64
	for id, b := range r.u.work.books {
		if _, ok := r.u.work.authors[b.AuthorID()]; !ok {
			delete(r.u.work.books, id)
			n++
		}
	}
	return n, nil
}

type fakeTags struct{ u *fakeUoW }

func (r fakeTags) Save(_ context.Context, t entities.Tag) error {
	if err := r.u.factory.record("tags.Save " + t.Name()); err != nil {
		return err
	}
	if _, ok := r.u.work.books[t.BookID()]; !ok {
		return fmt.Errorf("unknown book: %w", entities.ErrConstraintViolation)
	}
	r.u.work.tags = append(r.u.work.tags, t)
	return nil
}

func (r fakeTags) ClearForBook(_ context.Context, bookID entities.BookID) error {
	if err := r.u.factory.record("tags.ClearForBook " + bookID.String()); err != nil {
		return err
	}
	r.u.work.tags = slices.DeleteFunc(r.u.work.tags, func(t entities.Tag) bool { return t.BookID() == bookID })
	return nil
}

func (r fakeTags) ListForBook(_ context.Context, bookID entities.BookID) ([]entities.Tag, error) {
	if err := r.u.factory.record("tags.ListForBook " + bookID.String()); err != nil {
		return nil, err
	}
	var out []entities.Tag
	for _, t := range r.u.work.tags {
		if t.BookID() == bookID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b entities.Tag) int { return strings.Compare(a.Name(), b.Name()) })
	return out, nil
}

func (r fakeTags) DeleteOrphans(context.Context) (int64, error) {
	if err := r.u.factory.record("tags.DeleteOrphans"); err != nil {
		return 0, err
	}
	before := len(r.u.work.tags)
	r.u.work.tags = slices.DeleteFunc(r.u.work.tags, func(t entities.Tag) bool {
		book, ok := r.u.work.books[t.BookID()]
		if !ok {
			return true
		}
		_, ok = r.u.work.authors[book.AuthorID()]
		return !ok
	})
	return int64(before - len(r.u.work.tags)), nil
}
