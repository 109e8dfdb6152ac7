package validation

import (
	"strings"

	"github.com/listenupapp/readlog-server/internal/domain"
)

// BookInput is the raw, client-supplied shape of a book write.
type BookInput struct {
	Title    string  `json:"title" validate:"notblank,max=500"`
	Author   string  `json:"author" validate:"notblank,max=500"`
	Status   string  `json:"status" validate:"bookstatus"`
	GenreIDs []int64 `json:"genreIds"`
}

// BookUpdateInput is the raw shape of a details update.
type BookUpdateInput struct {
	BookInput
	Version int64 `json:"version" validate:"gte=0"`
}

// trim strips surrounding whitespace so length limits apply to what is stored.
func (in *BookInput) trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
}

// ValidateCreation checks a creation request and returns the payload to persist.
func (v *Validator) ValidateCreation(in BookInput) (*domain.BookCreationPayload, error) {
	in.trim()
	if err := v.Validate(in); err != nil {
		return nil, err
	}

	status, _ := domain.ParseStatus(in.Status)
	return &domain.BookCreationPayload{
		Title:    in.Title,
		Author:   in.Author,
		Status:   status,
		GenreIDs: domain.UniqueGenreIDs(in.GenreIDs),
	}, nil
}

// ValidateUpdate checks a details update and returns the payload to apply.
func (v *Validator) ValidateUpdate(in BookUpdateInput) (*domain.BookDetailsUpdatePayload, error) {
	in.trim()
	if err := v.Validate(in); err != nil {
		return nil, err
	}

	status, _ := domain.ParseStatus(in.Status)
	return &domain.BookDetailsUpdatePayload{
		Title:           in.Title,
		Author:          in.Author,
		Status:          status,
		GenreIDs:        domain.UniqueGenreIDs(in.GenreIDs),
		ExpectedVersion: in.Version,
	}, nil
}
