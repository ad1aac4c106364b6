package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/app"
	"github.com/mrlokans/bookcatalog/internal/database/authors"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/database/tags"
)

var (
	_ app.UnitOfWork        = (*UnitOfWork)(nil)
	_ app.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
	_ app.AuthorRepository  = (*authors.Repository)(nil)
	_ app.BookRepository    = (*books.Repository)(nil)
	_ app.TagRepository     = (*tags.Repository)(nil)
)

// UnitOfWork is one database transaction with the three catalog repositories bound to it.
// Nothing issued through the repositories is visible to other sessions until Commit.
type UnitOfWork struct {
	tx       *gorm.DB
	authors  *authors.Repository
	books    *books.Repository
	tags     *tags.Repository
	finished bool
}

func (u *UnitOfWork) Authors() app.AuthorRepository { return u.authors }
func (u *UnitOfWork) Books() app.BookRepository     { return u.books }
func (u *UnitOfWork) Tags() app.TagRepository       { return u.tags }

// Commit ends the transaction. It fails with app.ErrSessionClosed when the session was
// already committed or rolled back.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.finished {
		return app.ErrSessionClosed
	}
	u.finished = true
	if err := u.tx.WithContext(ctx).Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback discards the transaction. It fails with app.ErrSessionClosed when the session
// was already committed or rolled back.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.finished {
		return app.ErrSessionClosed
	}
	u.finished = true
	if err := u.tx.WithContext(ctx).Rollback().Error; err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// Close rolls back an unfinished session and is a no-op otherwise.
func (u *UnitOfWork) Close() error {
	if u.finished {
		return nil
	}
	return u.Rollback(context.Background())
}

// UnitOfWorkFactory opens sessions on a shared database.
type UnitOfWorkFactory struct {
	db *Database
}

func NewUnitOfWorkFactory(db *Database) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

// New begins a transaction. The transaction is not tied to any request context, so a
// session outlives the calls issued through it.
func (f *UnitOfWorkFactory) New() (app.UnitOfWork, error) {
	tx := f.db.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	return &UnitOfWork{
		tx:      tx,
		authors: authors.NewRepository(tx),
		books:   books.NewRepository(tx),
		tags:    tags.NewRepository(tx),
	}, nil
}
