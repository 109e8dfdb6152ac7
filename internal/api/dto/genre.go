package dto

import "github.com/listenupapp/readlog-server/internal/domain"

// GenreDto is a genre with its name in the request language.
type GenreDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewGenreDto converts a domain genre.
func NewGenreDto(g *domain.Genre) GenreDto {
	return GenreDto{ID: g.ID, Name: g.Name}
}

// NewGenreDtos converts genres, never returning nil.
func NewGenreDtos(genres []*domain.Genre) []GenreDto {
	out := make([]GenreDto, 0, len(genres))
	for _, g := range genres {
		out = append(out, NewGenreDto(g))
	}
	return out
}
