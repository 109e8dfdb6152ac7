package service

import (
	"context"

	"github.com/listenupapp/readlog-server/internal/domain"
	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
)

// GenreRepository reads genres. Names are localized by the language in ctx.
type GenreRepository interface {
	GetGenres(ctx context.Context) ([]*domain.Genre, error)
	GetGenresByIDs(ctx context.Context, ids []int64) ([]*domain.Genre, error)
}

// GenreChecker verifies that referenced genres exist.
type GenreChecker struct {
	repo GenreRepository
}

// NewGenreChecker creates a new genre checker.
func NewGenreChecker(repo GenreRepository) *GenreChecker {
	return &GenreChecker{repo: repo}
}

// Check returns a GENRE_NOT_FOUND error naming every requested ID that does
// not exist. An empty set is always valid and costs no query.
func (c *GenreChecker) Check(ctx context.Context, genreIDs []int64) error {
	ids := domain.UniqueGenreIDs(genreIDs)
	if len(ids) == 0 {
		return nil
	}

	found, err := c.repo.GetGenresByIDs(ctx, ids)
	if err != nil {
		return err
	}

	existing := make(map[int64]struct{}, len(found))
	for _, g := range found {
		existing[g.ID] = struct{}{}
	}

	var missing []any
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var fe domainerrors.FieldErrors
	fe.Add("genres", domainerrors.FieldNotFound, missing...)
	return domainerrors.ErrGenreNotFound.WithDetails(fe)
}

