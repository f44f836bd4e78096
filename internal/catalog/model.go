// Package catalog holds the book catalog document: its schema, lookups,
// mutations, identifier assignment and the stores that persist it.
package catalog

import (
	"encoding/json"
	"errors"
)

var (
	// ErrStoreCorrupt marks a stored document that cannot be decoded or fails schema checks.
	ErrStoreCorrupt = errors.New("catalog: store corrupt")
	// ErrCategoryNotFound is returned by mutations that reference an unknown category.
	ErrCategoryNotFound = errors.New("catalog: category not found")
)

// Catalog is the whole persisted document.
type Catalog struct {
	Categories []Category `json:"categories" validate:"dive"`
}

// Category groups books; slice order is display order.
type Category struct {
	ID    string `json:"id" validate:"required"`
	Title string `json:"title"`
	Books []Book `json:"books" validate:"dive"`
}

// Book is immutable once appended to a category.
type Book struct {
	ID            string `json:"id" validate:"required"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	Format        string `json:"format"`
	FileReference string `json:"file_reference"`
	FileName      string `json:"file_name"`
}

// UnmarshalJSON accepts documents written by older bots that stored the
// Telegram file id under "file_id".
func (b *Book) UnmarshalJSON(data []byte) error {
	type plain Book
	aux := struct {
		*plain
		LegacyFileID string `json:"file_id"`
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if b.FileReference == "" {
		b.FileReference = aux.LegacyFileID
	}
	return nil
}

// SearchResult is a matched book together with its owning category.
type SearchResult struct {
	Book          Book
	CategoryID    string
	CategoryTitle string
}

// Empty returns a catalog with no categories.
func Empty() *Catalog {
	return &Catalog{Categories: []Category{}}
}

// normalize replaces missing arrays with empty ones so callers never see nil slices.
func (c *Catalog) normalize() {
	if c.Categories == nil {
		c.Categories = []Category{}
	}
	for i := range c.Categories {
		if c.Categories[i].Books == nil {
			c.Categories[i].Books = []Book{}
		}
	}
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return Empty()
	}
	out := &Catalog{Categories: make([]Category, len(c.Categories))}
	for i, cat := range c.Categories {
		books := make([]Book, len(cat.Books))
		copy(books, cat.Books)
		cat.Books = books
		out.Categories[i] = cat
	}
	return out
}

// BookCount reports the number of books across all categories.
func (c *Catalog) BookCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Books)
	}
	return n
}
