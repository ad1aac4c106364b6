package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/app"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

var (
	// errCancelled ends a command quietly when the user answers a prompt with an empty line.
	errCancelled    = errors.New("cancelled")
	errBookNotFound = fmt.Errorf("%w: no book with that title", entities.ErrNotFound)
)

// View binds the catalog commands to a menu. Every command runs in the current session
// and finishes it: commit on success, rollback on failure or cancel.
type View struct {
	menu *Menu
	uc   *app.UseCases
}

func NewView(menu *Menu, uc *app.UseCases) *View {
	v := &View{menu: menu, uc: uc}
	menu.AddAction("AddAuthor", "<name>", "Adds author", v.AddAuthor)
	menu.AddAction("EditAuthor", "[name]", "Edits author name", v.EditAuthor)
	menu.AddAction("DeleteAuthor", "[name]", "Deletes author with all books and tags", v.DeleteAuthor)
	menu.AddAction("AddBook", "<pub year> <title>", "Adds book", v.AddBook)
	menu.AddAction("EditBook", "[title]", "Edits book", v.EditBook)
	menu.AddAction("DeleteBook", "[title]", "Deletes book with its tags", v.DeleteBook)
	menu.AddAction("ShowBook", "[title]", "Shows book", v.ShowBook)
	menu.AddAction("ShowAuthors", "", "Shows authors", v.ShowAuthors)
	menu.AddAction("ShowBooks", "", "Shows books", v.ShowBooks)
	menu.AddAction("ShowAuthorBooks", "", "Shows author books", v.ShowAuthorBooks)
	return v
}

func (v *View) AddAuthor(ctx context.Context, args string) {
	v.transact(ctx, "Failed to add author", func() error {
		if args == "" {
			return fmt.Errorf("%w: empty author name", entities.ErrInvalidInput)
		}
		_, err := v.uc.AddAuthor(ctx, args)
		return err
	})
}

func (v *View) EditAuthor(ctx context.Context, args string) {
	v.transact(ctx, "Failed to edit author", func() error {
		id, err := v.authorByNameOrSelection(ctx, args)
		if err != nil {
			return err
		}
		v.menu.Println("Enter new name:")
		name, _ := v.menu.ReadLine()
		return v.uc.EditAuthorName(ctx, id, name)
	})
}

func (v *View) DeleteAuthor(ctx context.Context, args string) {
	v.transact(ctx, "Failed to delete author", func() error {
		if args != "" {
			return v.uc.DeleteAuthorAndDependencies(ctx, entities.AuthorByName(args))
		}
		id, err := v.selectAuthor(ctx)
		if err != nil {
			return err
		}
		return v.uc.DeleteAuthorAndDependencies(ctx, entities.AuthorByID(id))
	})
}

func (v *View) AddBook(ctx context.Context, args string) {
	v.transact(ctx, "Failed to add book", func() error {
		yearArg, title, _ := strings.Cut(args, " ")
		year, err := strconv.Atoi(yearArg)
		if err != nil {
			return fmt.Errorf("%w: publication year %q", entities.ErrInvalidInput, yearArg)
		}
		title = strings.TrimSpace(title)

		authorID, err := v.bookAuthor(ctx)
		if err != nil {
			return err
		}
		v.menu.Println("Enter tags (comma separated):")
		rawTags, _ := v.menu.ReadLine()

		bookID, err := v.uc.AddBook(ctx, year, authorID, title)
		if err != nil {
			return err
		}
		return v.uc.AddTags(ctx, bookID, app.NormalizeTags(rawTags))
	})
}

// bookAuthor asks for the author of a new book by name, offering to add an unknown one,
// or by selection from the list.
func (v *View) bookAuthor(ctx context.Context) (entities.AuthorID, error) {
	v.menu.Println("Enter author name or empty line to select from list:")
	name, _ := v.menu.ReadLine()
	if name == "" {
		return v.selectAuthor(ctx)
	}

	author, err := v.uc.FindAuthorByName(ctx, name)
	if err == nil {
		return author.ID, nil
	}
	if !errors.Is(err, entities.ErrNotFound) {
		return entities.AuthorID{}, err
	}

	v.menu.Printf("No author found. Do you want to add %s (y/n)?\n", name)
	answer, _ := v.menu.ReadLine()
	if answer != "y" && answer != "Y" {
		return entities.AuthorID{}, fmt.Errorf("%w: author %q not added", entities.ErrInvalidInput, name)
	}
	return v.uc.AddAuthor(ctx, name)
}

func (v *View) EditBook(ctx context.Context, args string) {
	v.transact(ctx, "Failed to edit book", func() error {
		book, err := v.bookByTitleOrSelection(ctx, args)
		if err != nil {
			return err
		}

		v.menu.Printf("Enter new title or empty line to use the current one (%s):\n", book.Title)
		title, _ := v.menu.ReadLine()
		if title == "" {
			title = book.Title
		}

		v.menu.Printf("Enter publication year or empty line to use the current one (%d):\n", book.Year)
		yearArg, _ := v.menu.ReadLine()
		year := book.Year
		if yearArg != "" {
			if year, err = strconv.Atoi(yearArg); err != nil {
				return fmt.Errorf("%w: publication year %q", entities.ErrInvalidInput, yearArg)
			}
		}

		current, err := v.uc.ListBookTags(ctx, book.ID)
		if err != nil {
			return err
		}
		v.menu.Printf("Enter tags (current tags: %s):\n", strings.Join(current, ", "))
		rawTags, _ := v.menu.ReadLine()

		return v.uc.EditBook(ctx, book.ID, title, year, app.NormalizeTags(rawTags))
	})
}

func (v *View) DeleteBook(ctx context.Context, args string) {
	v.transact(ctx, "Failed to delete book", func() error {
		book, err := v.bookByTitleOrSelection(ctx, args)
		if err != nil {
			return err
		}
		return v.uc.DeleteBookAndDependencies(ctx, book.ID)
	})
}

// ShowBook prints one book with its tags. Lookup failures print nothing.
func (v *View) ShowBook(ctx context.Context, args string) {
	v.read(ctx, func() error {
		book, err := v.bookByTitleOrSelection(ctx, args)
		if err != nil {
			return err
		}
		tags, err := v.uc.ListBookTags(ctx, book.ID)
		if err != nil {
			return err
		}
		v.menu.Printf("Title: %s\n", book.Title)
		v.menu.Printf("Author: %s\n", book.AuthorName)
		v.menu.Printf("Publication year: %d\n", book.Year)
		if len(tags) > 0 {
			v.menu.Printf("Tags: %s\n", strings.Join(tags, ", "))
		}
		return nil
	})
}

func (v *View) ShowAuthors(ctx context.Context, _ string) {
	v.read(ctx, func() error {
		authors, err := v.uc.ListAuthors(ctx)
		if err != nil {
			return err
		}
		v.printAuthors(authors)
		return nil
	})
}

func (v *View) ShowBooks(ctx context.Context, _ string) {
	v.read(ctx, func() error {
		books, err := v.uc.ListBooks(ctx)
		if err != nil {
			return err
		}
		v.printBooks(books)
		return nil
	})
}

func (v *View) ShowAuthorBooks(ctx context.Context, _ string) {
	err := v.read(ctx, func() error {
		id, err := v.selectAuthor(ctx)
		if err != nil {
			return err
		}
		books, err := v.uc.ListAuthorBooks(ctx, id)
		if err != nil {
			return err
		}
		v.printBooks(books)
		return nil
	})
	if err != nil && !errors.Is(err, errCancelled) {
		v.menu.Println("Failed to show books")
	}
}

func (v *View) authorByNameOrSelection(ctx context.Context, name string) (entities.AuthorID, error) {
	if name == "" {
		return v.selectAuthor(ctx)
	}
	author, err := v.uc.FindAuthorByName(ctx, name)
	if err != nil {
		return entities.AuthorID{}, err
	}
	return author.ID, nil
}

func (v *View) bookByTitleOrSelection(ctx context.Context, title string) (app.BookInfo, error) {
	if title == "" {
		books, err := v.uc.ListBooks(ctx)
		if err != nil {
			return app.BookInfo{}, err
		}
		return v.selectBook(books)
	}
	books, err := v.uc.FindBooksByTitle(ctx, title)
	if err != nil {
		return app.BookInfo{}, err
	}
	if len(books) == 0 {
		return app.BookInfo{}, errBookNotFound
	}
	return v.selectBook(books)
}

func (v *View) selectAuthor(ctx context.Context) (entities.AuthorID, error) {
	authors, err := v.uc.ListAuthors(ctx)
	if err != nil {
		return entities.AuthorID{}, err
	}
	v.menu.Println("Select author:")
	v.printAuthors(authors)
	v.menu.Println("Enter author # or empty line to cancel")

	idx, err := v.readSelection(len(authors))
	if err != nil {
		return entities.AuthorID{}, err
	}
	return authors[idx].ID, nil
}

func (v *View) selectBook(books []app.BookInfo) (app.BookInfo, error) {
	v.printBooks(books)
	v.menu.Println("Enter the book # or empty line to cancel")

	idx, err := v.readSelection(len(books))
	if err != nil {
		return app.BookInfo{}, err
	}
	return books[idx], nil
}

// readSelection reads a 1-based list position and returns it 0-based.
func (v *View) readSelection(n int) (int, error) {
	line, ok := v.menu.ReadLine()
	if !ok || line == "" {
		return 0, errCancelled
	}
	pos, err := strconv.Atoi(line)
	if err != nil || pos < 1 || pos > n {
		return 0, fmt.Errorf("%w: invalid selection %q", entities.ErrInvalidInput, line)
	}
	return pos - 1, nil
}

func (v *View) printAuthors(authors []app.AuthorInfo) {
	for i, a := range authors {
		v.menu.Printf("%d %s\n", i+1, a.Name)
	}
}

func (v *View) printBooks(books []app.BookInfo) {
	for i, b := range books {
		v.menu.Printf("%d %s by %s, %d\n", i+1, b.Title, b.AuthorName, b.Year)
	}
}

// transact runs a mutating command and finishes the session.
func (v *View) transact(ctx context.Context, failure string, fn func() error) {
	err := fn()
	switch {
	case err == nil:
		err = v.uc.Commit(ctx)
		if err == nil {
			return
		}
		if errors.Is(err, app.ErrNextSession) {
			log.Warn().Err(err).Msg("Committed, next session not opened yet")
			return
		}
	case errors.Is(err, errCancelled):
		v.rollback(ctx)
		return
	}

	log.Debug().Err(err).Msg(failure)
	if errors.Is(err, errBookNotFound) {
		v.menu.Println("Book not found")
	} else {
		v.menu.Println(failure)
	}
	v.rollback(ctx)
}

// read runs a read only command and ends the session it used.
func (v *View) read(ctx context.Context, fn func() error) error {
	err := fn()
	if err != nil {
		log.Debug().Err(err).Msg("read command failed")
	}
	v.rollback(ctx)
	return err
}

func (v *View) rollback(ctx context.Context) {
	if err := v.uc.Rollback(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to roll back")
	}
}
