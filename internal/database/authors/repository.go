// Package authors provides database operations for catalog authors.
//
// The repository is bound to a single *gorm.DB, normally the transaction of a unit of
// work, and implements app.AuthorRepository:
//
//	var _ app.AuthorRepository = (*Repository)(nil)
package authors

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookcatalog/internal/database/schema"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository handles author rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts the author, or renames it when a row with the same id exists.
func (r *Repository) Save(ctx context.Context, author entities.Author) error {
	record := schema.FromAuthor(author)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("save author %q: %w", author.Name(), schema.TranslateError(err))
	}
	return nil
}

// Delete removes the selected author. Deleting an author that does not exist is not an
// error.
func (r *Repository) Delete(ctx context.Context, selector entities.AuthorSelector) error {
	query := r.db.WithContext(ctx)
	if selector.ByName() {
		query = query.Where("name = ?", selector.Name())
	} else {
		query = query.Where("id = ?", selector.ID().String())
	}
	if err := query.Delete(&schema.AuthorRecord{}).Error; err != nil {
		return fmt.Errorf("delete author %s: %w", selector, schema.TranslateError(err))
	}
	return nil
}

// List returns all authors ordered by name.
func (r *Repository) List(ctx context.Context) ([]entities.Author, error) {
	var records []schema.AuthorRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	authors := make([]entities.Author, 0, len(records))
	for _, rec := range records {
		author, err := rec.ToEntity()
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return authors, nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (entities.Author, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *Repository) FindByID(ctx context.Context, id entities.AuthorID) (entities.Author, error) {
	return r.first(ctx, "id = ?", id.String())
}

func (r *Repository) first(ctx context.Context, cond string, arg string) (entities.Author, error) {
	var record schema.AuthorRecord
	err := r.db.WithContext(ctx).Where(cond, arg).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Author{}, fmt.Errorf("author %s: %w", arg, entities.ErrNotFound)
	}
	if err != nil {
		return entities.Author{}, fmt.Errorf("find author %s: %w", arg, err)
	}
	return record.ToEntity()
}
