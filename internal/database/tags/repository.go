// Package tags provides database operations for book tags.
//
//	var _ app.TagRepository = (*Repository)(nil)
package tags

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookcatalog/internal/database/schema"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository handles book tag rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save attaches a tag to a book. The book must exist. Saving the same tag twice stores it
// twice.
func (r *Repository) Save(ctx context.Context, tag entities.Tag) error {
	record := schema.FromTag(tag)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&record).Error; err != nil {
		return fmt.Errorf("save tag %q: %w", tag.Name(), schema.TranslateError(err))
	}
	return nil
}

// ClearForBook removes every tag of a book. A book without tags is not an error.
func (r *Repository) ClearForBook(ctx context.Context, bookID entities.BookID) error {
	err := r.db.WithContext(ctx).Where("book_id = ?", bookID.String()).Delete(&schema.BookTagRecord{}).Error
	if err != nil {
		return fmt.Errorf("clear tags of book %s: %w", bookID, schema.TranslateError(err))
	}
	return nil
}

// ListForBook returns the tags of a book ordered by name.
func (r *Repository) ListForBook(ctx context.Context, bookID entities.BookID) ([]entities.Tag, error) {
	var records []schema.BookTagRecord
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID.String()).
		Order("tag").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list tags of book %s: %w", bookID, err)
	}
	tags := make([]entities.Tag, 0, len(records))
	for _, rec := range records {
		tag, err := rec.ToEntity()
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// DeleteOrphans removes tags whose book no longer exists or whose book has lost its author.
func (r *Repository) DeleteOrphans(ctx context.Context) (int64, error) {
	authored := r.db.Model(&schema.BookRecord{}).
		Select("id").
		Where("author_id IN (?)", r.db.Model(&schema.AuthorRecord{}).Select("id"))
	result := r.db.WithContext(ctx).
		Where("book_id NOT IN (?)", authored).
		Delete(&schema.BookTagRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete orphan tags: %w", result.Error)
	}
	return result.RowsAffected, nil
}
