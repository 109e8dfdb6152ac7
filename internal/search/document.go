// Package search provides full-text search over books using Bleve.
// The index lives in memory and is rebuilt from the database on startup.
package search

import (
	"strconv"

	"github.com/listenupapp/readlog-server/internal/domain"
)

// BookDocument is the indexed form of a book.
type BookDocument struct {
	ID        string
	Title     string
	Author    string
	Status    string
	GenreIDs  []string
	CreatedAt int64 // Unix millis
}

// NewBookDocument builds the index document for b.
func NewBookDocument(b *domain.Book) *BookDocument {
	genreIDs := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		genreIDs = append(genreIDs, strconv.FormatInt(g.ID, 10))
	}
	return &BookDocument{
		ID:        b.ID.String(),
		Title:     b.Title,
		Author:    b.Author,
		Status:    string(b.Status),
		GenreIDs:  genreIDs,
		CreatedAt: b.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *BookDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"author":     d.Author,
		"status":     d.Status,
		"created_at": d.CreatedAt,
	}
	if len(d.GenreIDs) > 0 {
		m["genre_ids"] = d.GenreIDs
	}
	return m
}
