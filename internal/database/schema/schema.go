// Package schema holds the gorm records of the catalog tables and the helpers shared by
// the repositories that read and write them.
//
// Identifiers are stored in their canonical UUID text form so the same schema works on
// SQLite and PostgreSQL.
package schema

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

type AuthorRecord struct {
	ID   string `gorm:"primaryKey;size:36"`
	Name string `gorm:"size:100;not null;uniqueIndex"`
}

func (AuthorRecord) TableName() string { return "authors" }

type BookRecord struct {
	ID              string       `gorm:"primaryKey;size:36"`
	AuthorID        string       `gorm:"size:36;not null;index"`
	Author          AuthorRecord `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Title           string       `gorm:"size:100;not null;index"`
	PublicationYear int          `gorm:"not null"`
}

func (BookRecord) TableName() string { return "books" }

// BookTagRecord has no primary key: a book may carry the same tag more than once.
type BookTagRecord struct {
	BookID string     `gorm:"size:36;not null;index"`
	Book   BookRecord `gorm:"foreignKey:BookID;references:ID;constraint:OnDelete:CASCADE"`
	Tag    string     `gorm:"size:30;not null"`
}

func (BookTagRecord) TableName() string { return "book_tags" }

// Migrate creates or updates the catalog tables. Parents are migrated before children.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&AuthorRecord{}, &BookRecord{}, &BookTagRecord{}); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}

func FromAuthor(a entities.Author) AuthorRecord {
	return AuthorRecord{ID: a.ID().String(), Name: a.Name()}
}

func (r AuthorRecord) ToEntity() (entities.Author, error) {
	id, err := entities.ParseAuthorID(r.ID)
	if err != nil {
		return entities.Author{}, fmt.Errorf("stored author: %w", err)
	}
	return entities.NewAuthor(id, r.Name), nil
}

func FromBook(b entities.Book) BookRecord {
	return BookRecord{
		ID:              b.ID().String(),
		AuthorID:        b.AuthorID().String(),
		Title:           b.Title(),
		PublicationYear: b.Year(),
	}
}

func (r BookRecord) ToEntity() (entities.Book, error) {
	id, err := entities.ParseBookID(r.ID)
	if err != nil {
		return entities.Book{}, fmt.Errorf("stored book: %w", err)
	}
	authorID, err := entities.ParseAuthorID(r.AuthorID)
	if err != nil {
		return entities.Book{}, fmt.Errorf("stored book %s: %w", r.ID, err)
	}
	return entities.NewBook(id, authorID, r.Title, r.PublicationYear), nil
}

func FromTag(t entities.Tag) BookTagRecord {
	return BookTagRecord{BookID: t.BookID().String(), Tag: t.Name()}
}

func (r BookTagRecord) ToEntity() (entities.Tag, error) {
	bookID, err := entities.ParseBookID(r.BookID)
	if err != nil {
		return entities.Tag{}, fmt.Errorf("stored tag: %w", err)
	}
	return entities.NewTag(bookID, r.Tag), nil
}
