// Package books provides database operations for catalog books.
//
//	var _ app.BookRepository = (*Repository)(nil)
package books

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookcatalog/internal/database/schema"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository handles book rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// bookRow is a book joined with the name of its author.
type bookRow struct {
	ID              string
	AuthorID        string
	Title           string
	PublicationYear int
	AuthorName      string
}

func (row bookRow) toEntity() (entities.BookWithAuthor, error) {
	book, err := schema.BookRecord{
		ID:              row.ID,
		AuthorID:        row.AuthorID,
		Title:           row.Title,
		PublicationYear: row.PublicationYear,
	}.ToEntity()
	if err != nil {
		return entities.BookWithAuthor{}, err
	}
	return entities.BookWithAuthor{Book: book, AuthorName: row.AuthorName}, nil
}

// Save inserts a new book. The author must exist.
func (r *Repository) Save(ctx context.Context, book entities.Book) error {
	record := schema.FromBook(book)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&record).Error; err != nil {
		return fmt.Errorf("save book %q: %w", book.Title(), schema.TranslateError(err))
	}
	return nil
}

// Edit updates title and publication year of an existing book. The author of a book is
// never changed.
func (r *Repository) Edit(ctx context.Context, book entities.Book) error {
	result := r.db.WithContext(ctx).
		Model(&schema.BookRecord{}).
		Where("id = ?", book.ID().String()).
		Updates(map[string]any{
			"title":            book.Title(),
			"publication_year": book.Year(),
		})
	if result.Error != nil {
		return fmt.Errorf("edit book %s: %w", book.ID(), schema.TranslateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book %s: %w", book.ID(), entities.ErrNotFound)
	}
	return nil
}

// Delete removes a book. Deleting a book that does not exist is not an error.
func (r *Repository) Delete(ctx context.Context, id entities.BookID) error {
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&schema.BookRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, schema.TranslateError(err))
	}
	return nil
}

func (r *Repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&schema.BookRecord{}).
		Select("books.*, authors.name AS author_name").
		Joins("JOIN authors ON authors.id = books.author_id")
}

// List returns every book with its author name, ordered by title, author name and year.
func (r *Repository) List(ctx context.Context) ([]entities.BookWithAuthor, error) {
	var rows []bookRow
	err := r.joined(ctx).
		Order("books.title").
		Order("authors.name").
		Order("books.publication_year").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return toEntities(rows)
}

// ListByAuthor returns the books of one author ordered by year, then title.
func (r *Repository) ListByAuthor(ctx context.Context, authorID entities.AuthorID) ([]entities.Book, error) {
	var records []schema.BookRecord
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID.String()).
		Order("publication_year").
		Order("title").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list books of author %s: %w", authorID, err)
	}
	books := make([]entities.Book, 0, len(records))
	for _, rec := range records {
		book, err := rec.ToEntity()
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// FindByTitle returns the books whose title matches exactly.
func (r *Repository) FindByTitle(ctx context.Context, title string) ([]entities.BookWithAuthor, error) {
	var rows []bookRow
	err := r.joined(ctx).
		Where("books.title = ?", title).
		Order("authors.name").
		Order("books.publication_year").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find books %q: %w", title, err)
	}
	return toEntities(rows)
}

// DeleteOrphans removes books whose author no longer exists.
func (r *Repository) DeleteOrphans(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("author_id NOT IN (?)", r.db.Model(&schema.AuthorRecord{}).Select("id")).
		Delete(&schema.BookRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete orphan books: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func toEntities(rows []bookRow) ([]entities.BookWithAuthor, error) {
	books := make([]entities.BookWithAuthor, 0, len(rows))
	for _, row := range rows {
		book, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}
