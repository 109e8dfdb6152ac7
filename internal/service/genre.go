package service

import (
	"context"

	"github.com/listenupapp/readlog-server/internal/domain"
)

// GenreService serves the genre catalogue.
type GenreService struct {
	repo GenreRepository
}

// NewGenreService creates a new genre service.
func NewGenreService(repo GenreRepository) *GenreService {
	return &GenreService{repo: repo}
}

// ListGenres returns every genre, localized by the language in ctx.
func (s *GenreService) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	return s.repo.GetGenres(ctx)
}
