package dto

import (
	"strings"

	"github.com/listenupapp/readlog-server/internal/domain"
	"github.com/listenupapp/readlog-server/internal/validation"
)

// BookCreationDto is the JSON carried in the "book" multipart field.
type BookCreationDto struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Status   string  `json:"status"`
	GenreIDs []int64 `json:"genreIds"`
}

// Input converts the request into validator input.
func (d BookCreationDto) Input() validation.BookInput {
	return validation.BookInput{
		Title:    d.Title,
		Author:   d.Author,
		Status:   d.Status,
		GenreIDs: d.GenreIDs,
	}
}

// BookUpdateDto is the body of PUT /api/books/{id}.
// A zero or missing version skips the concurrency check.
type BookUpdateDto struct {
	BookCreationDto
	Version int64 `json:"version,omitzero"`
}

// Input converts the request into validator input.
func (d BookUpdateDto) Input() validation.BookUpdateInput {
	return validation.BookUpdateInput{
		BookInput: d.BookCreationDto.Input(),
		Version:   d.Version,
	}
}

// BookDto is the response shape of a book.
type BookDto struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	CoverURL      *string    `json:"coverUrl"`
	CoverBlurHash *string    `json:"coverBlurHash"`
	Status        string     `json:"status"`
	CreatedAt     int64      `json:"createdAt"` // epoch milliseconds
	Version       int64      `json:"version"`
	Genres        []GenreDto `json:"genres"`
}

// NewBookDto converts a domain book. Cover paths are resolved against imageBaseURL.
func NewBookDto(b *domain.Book, imageBaseURL string) BookDto {
	d := BookDto{
		ID:            b.ID.String(),
		Title:         b.Title,
		Author:        b.Author,
		CoverBlurHash: b.CoverBlurHash,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt.UnixMilli(),
		Version:       b.Version,
		Genres:        NewGenreDtos(b.Genres),
	}
	if b.HasCover() {
		url := CoverURL(imageBaseURL, *b.CoverPath)
		d.CoverURL = &url
	}
	return d
}

// NewBookDtos converts books, never returning nil.
func NewBookDtos(books []*domain.Book, imageBaseURL string) []BookDto {
	out := make([]BookDto, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookDto(b, imageBaseURL))
	}
	return out
}

// CoverURL joins the public image prefix and a stored cover path.
func CoverURL(imageBaseURL, coverPath string) string {
	return strings.TrimSuffix(imageBaseURL, "/") + "/" + coverPath
}
