package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// FindCategory returns the first category with the given id, or nil.
func (c *Catalog) FindCategory(id string) *Category {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i]
		}
	}
	return nil
}

// FindBook returns the first book with the given id across all categories, or nil.
func (c *Catalog) FindBook(id string) *Book {
	for i := range c.Categories {
		books := c.Categories[i].Books
		for j := range books {
			if books[j].ID == id {
				return &books[j]
			}
		}
	}
	return nil
}

// SearchBooks matches the query case-insensitively against title or author.
// A blank query matches nothing. Results follow catalog traversal order.
func (c *Catalog) SearchBooks(query string) []SearchResult {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []SearchResult
	for _, cat := range c.Categories {
		for _, b := range cat.Books {
			if strings.Contains(fold.String(b.Title), q) || strings.Contains(fold.String(b.Author), q) {
				out = append(out, SearchResult{Book: b, CategoryID: cat.ID, CategoryTitle: cat.Title})
			}
		}
	}
	return out
}

// UpsertCategory renames an existing category or appends a new empty one.
func (c *Catalog) UpsertCategory(id, title string) {
	if cat := c.FindCategory(id); cat != nil {
		cat.Title = title
		return
	}
	c.Categories = append(c.Categories, Category{ID: id, Title: title, Books: []Book{}})
}

// AddBookToCategory appends the book to the category's list.
func (c *Catalog) AddBookToCategory(categoryID string, book Book) error {
	cat := c.FindCategory(categoryID)
	if cat == nil {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	cat.Books = append(cat.Books, book)
	return nil
}
