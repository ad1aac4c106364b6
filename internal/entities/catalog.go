package entities

// Author is an immutable snapshot of an author row. Renaming an author means saving a new
// value under the same id.
type Author struct {
	id   AuthorID
	name string
}

func NewAuthor(id AuthorID, name string) Author {
	return Author{id: id, name: name}
}

func (a Author) ID() AuthorID { return a.id }
func (a Author) Name() string { return a.name }

// Book references its author by id only. The author name shown in listings comes from a
// join, see BookWithAuthor.
type Book struct {
	id       BookID
	authorID AuthorID
	title    string
	year     int
}

func NewBook(id BookID, authorID AuthorID, title string, year int) Book {
	return Book{id: id, authorID: authorID, title: title, year: year}
}

func (b Book) ID() BookID         { return b.id }
func (b Book) AuthorID() AuthorID { return b.authorID }
func (b Book) Title() string      { return b.title }
func (b Book) Year() int          { return b.year }

// BookWithAuthor is a book joined with the name of its author.
type BookWithAuthor struct {
	Book
	AuthorName string
}

// Tag attaches a free-text label to a book. Tags have no identity of their own.
type Tag struct {
	bookID BookID
	name   string
}

func NewTag(bookID BookID, name string) Tag {
	return Tag{bookID: bookID, name: name}
}

func (t Tag) BookID() BookID { return t.bookID }
func (t Tag) Name() string   { return t.name }

// AuthorSelector picks an author either by id or by exact name.
type AuthorSelector struct {
	id     AuthorID
	name   string
	byName bool
}

func AuthorByID(id AuthorID) AuthorSelector {
	return AuthorSelector{id: id}
}

func AuthorByName(name string) AuthorSelector {
	return AuthorSelector{name: name, byName: true}
}

// ByName reports whether the selector matches on name.
func (s AuthorSelector) ByName() bool { return s.byName }
func (s AuthorSelector) ID() AuthorID { return s.id }
func (s AuthorSelector) Name() string { return s.name }

func (s AuthorSelector) String() string {
	if s.byName {
		return "name=" + s.name
	}
	return "id=" + s.id.String()
}
