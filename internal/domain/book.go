package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxTextLength is the maximum number of characters in a title or author.
const MaxTextLength = 500

// Status is where a user is with a book.
type Status string

// Reading statuses.
const (
	StatusWantToRead Status = "WANT_TO_READ"
	StatusReading    Status = "READING"
	StatusRead       Status = "READ"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusWantToRead, StatusReading, StatusRead}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// StatusNames returns the status values as plain strings.
func StatusNames() []string {
	names := make([]string, len(Statuses))
	for i, st := range Statuses {
		names[i] = string(st)
	}
	return names
}

// Book is a tracked book.
type Book struct {
	ID            uuid.UUID
	Title         string
	Author        string
	CoverPath     *string // Relative storage path, e.g. "covers/{uuid}.png"
	CoverBlurHash *string
	Status        Status
	CreatedAt     time.Time
	Version       int64
	Genres        []*Genre
}

// HasCover reports whether the book references a stored cover.
func (b *Book) HasCover() bool {
	return b.CoverPath != nil && *b.CoverPath != ""
}

// GenreIDs returns the IDs of the book's genres.
func (b *Book) GenreIDs() []int64 {
	return GenreIDs(b.Genres)
}

// BookCreationPayload is a validated request to create a book.
// CoverPath and CoverBlurHash are filled in by the service once a cover has been stored.
type BookCreationPayload struct {
	Title         string
	Author        string
	Status        Status
	GenreIDs      []int64
	CoverPath     *string
	CoverBlurHash *string
}

// BookDetailsUpdatePayload is a validated request to replace a book's details.
type BookDetailsUpdatePayload struct {
	Title    string
	Author   string
	Status   Status
	GenreIDs []int64

	// ExpectedVersion, when non-zero, must match the stored version.
	ExpectedVersion int64
}

// UniqueGenreIDs returns ids without duplicates, sorted ascending.
func UniqueGenreIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
