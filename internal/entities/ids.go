package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// AuthorID identifies an Author. It is generated by the application, never by the store.
type AuthorID uuid.UUID

// BookID identifies a Book.
type BookID uuid.UUID

func NewAuthorID() AuthorID {
	return AuthorID(uuid.New())
}

func NewBookID() BookID {
	return BookID(uuid.New())
}

// ParseAuthorID parses the canonical string form of an author id.
func ParseAuthorID(s string) (AuthorID, error) {
	id, err := parseUUID("author", s)
	return AuthorID(id), err
}

// ParseBookID parses the canonical string form of a book id.
func ParseBookID(s string) (BookID, error) {
	id, err := parseUUID("book", s)
	return BookID(id), err
}

func parseUUID(kind, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed %s id %q", ErrInvalidInput, kind, s)
	}
	return id, nil
}

func (id AuthorID) String() string { return uuid.UUID(id).String() }
func (id AuthorID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

func (id AuthorID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *AuthorID) UnmarshalText(text []byte) error {
	parsed, err := ParseAuthorID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id BookID) String() string { return uuid.UUID(id).String() }
func (id BookID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

func (id BookID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *BookID) UnmarshalText(text []byte) error {
	parsed, err := ParseBookID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
