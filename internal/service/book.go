// Package service provides the business logic for tracking books.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/listenupapp/readlog-server/internal/domain"
	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
	"github.com/listenupapp/readlog-server/internal/media/covers"
	"github.com/listenupapp/readlog-server/internal/media/images"
	"github.com/listenupapp/readlog-server/internal/saga"
)

// BookRepository persists books and their genre associations.
type BookRepository interface {
	GetBooks(ctx context.Context) ([]*domain.Book, error)
	GetBooksByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Book, error)
	GetBookByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	AddBook(ctx context.Context, payload *domain.BookCreationPayload) (*domain.Book, error)
	UpdateBookDetails(ctx context.Context, id uuid.UUID, payload *domain.BookDetailsUpdatePayload) (*domain.Book, error)
	UpdateBookCover(ctx context.Context, id uuid.UUID, path, blurHash *string, expectedVersion int64) (*domain.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) (bool, error)
}

// CoverStore saves and removes cover images.
type CoverStore interface {
	Save(ctx context.Context, data []byte, fileName string) (string, error)
	Delete(ctx context.Context, path string) error
}

// BookIndexer keeps a full-text index of books.
type BookIndexer interface {
	IndexBook(b *domain.Book) error
	DeleteBook(id string) error
	Rebuild(books []*domain.Book) error
	Search(ctx context.Context, q string, limit int) ([]string, error)
}

// CoverUpload is an uploaded cover image.
type CoverUpload struct {
	Data     []byte
	FileName string
}

// BookService orchestrates book operations across the repository, cover
// storage and search index.
//
// Each operation appears atomic to callers. Cover files and rows live in
// different places, so writes are ordered to leave at worst an unreferenced
// file (collected by CoverSweeper) and never a row pointing at a missing file.
type BookService struct {
	repo   BookRepository
	genres *GenreChecker
	covers CoverStore
	index  BookIndexer
	logger *slog.Logger
}

// NewBookService creates a new book service. index may be nil, in which case
// search falls back to scanning titles and authors.
func NewBookService(repo BookRepository, genres *GenreChecker, coverStore CoverStore, index BookIndexer, logger *slog.Logger) *BookService {
	return &BookService{
		repo:   repo,
		genres: genres,
		covers: coverStore,
		index:  index,
		logger: logger,
	}
}

// GetBooks returns every book, newest first.
func (s *BookService) GetBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.repo.GetBooks(ctx)
}

// GetBook returns a single book or a NOT_FOUND error.
func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	return s.repo.GetBookByID(ctx, id)
}

// AddBook creates a book, storing its cover first when one is supplied.
//
// Genres are checked before anything is written. If the row cannot be
// inserted the stored cover is removed again.
func (s *BookService) AddBook(ctx context.Context, payload *domain.BookCreationPayload, cover *CoverUpload) (*domain.Book, error) {
	if err := s.genres.Check(ctx, payload.GenreIDs); err != nil {
		return nil, err
	}

	p := *payload
	p.CoverPath = nil
	p.CoverBlurHash = nil

	var book *domain.Book
	sg := saga.New(s.logger)

	if cover != nil {
		sg.AddStep("save cover",
			func(ctx context.Context) error {
				path, err := s.covers.Save(ctx, cover.Data, cover.FileName)
				if err != nil {
					return err
				}
				p.CoverPath = &path
				p.CoverBlurHash = s.blurHash(cover.Data)
				return nil
			},
			func(ctx context.Context) error {
				if p.CoverPath == nil {
					return nil
				}
				return s.covers.Delete(ctx, *p.CoverPath)
			},
		)
	}

	sg.AddStep("insert book", func(ctx context.Context) error {
		var err error
		book, err = s.repo.AddBook(ctx, &p)
		return err
	}, nil)

	if err := sg.Execute(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("book added", "book_id", book.ID, "has_cover", book.HasCover())
	s.indexBook(book)
	return book, nil
}

// UpdateBookDetails replaces a book's title, author, status and genres.
func (s *BookService) UpdateBookDetails(ctx context.Context, id uuid.UUID, payload *domain.BookDetailsUpdatePayload) (*domain.Book, error) {
	if _, err := s.repo.GetBookByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.genres.Check(ctx, payload.GenreIDs); err != nil {
		return nil, err
	}

	book, err := s.repo.UpdateBookDetails(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	s.indexBook(book)
	return book, nil
}

// UpdateBookCover replaces a book's cover.
//
// The old file is deleted before the new one is saved, so a failed upload
// can leave the book without a cover but never with two. When
// expectedVersion is non-zero and stale, nothing is touched.
func (s *BookService) UpdateBookCover(ctx context.Context, id uuid.UUID, cover *CoverUpload, expectedVersion int64) (*domain.Book, error) {
	existing, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cover == nil {
		var fe domainerrors.FieldErrors
		fe.Add("cover", domainerrors.FieldEmptyFileContent)
		return nil, fe.Err("cover is required")
	}
	if expectedVersion != 0 && existing.Version != expectedVersion {
		return nil, domainerrors.Conflictf("book %s was modified: expected version %d, current version %d",
			id, expectedVersion, existing.Version)
	}

	// Reject a bad upload before the old cover is gone.
	if _, err := covers.Validate(cover.Data, cover.FileName); err != nil {
		return nil, err
	}

	if existing.HasCover() {
		if err := s.covers.Delete(ctx, *existing.CoverPath); err != nil {
			// The sweeper collects it once the row stops referencing it.
			s.logger.Warn("failed to delete old cover",
				"book_id", id,
				"path", *existing.CoverPath,
				"error", err,
			)
		}
	}

	var (
		path     string
		blurHash *string
		book     *domain.Book
	)
	sg := saga.New(s.logger)
	sg.AddStep("save cover",
		func(ctx context.Context) error {
			var err error
			path, err = s.covers.Save(ctx, cover.Data, cover.FileName)
			if err != nil {
				return err
			}
			blurHash = s.blurHash(cover.Data)
			return nil
		},
		func(ctx context.Context) error {
			return s.covers.Delete(ctx, path)
		},
	)
	sg.AddStep("update book cover", func(ctx context.Context) error {
		var err error
		book, err = s.repo.UpdateBookCover(ctx, id, &path, blurHash, expectedVersion)
		return err
	}, nil)

	if err := sg.Execute(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("book cover updated", "book_id", id, "path", path)
	return book, nil
}

// DeleteBook removes a book and then its cover. It reports false when the
// book does not exist.
//
// A cover that cannot be deleted is logged and left for the sweeper: the
// row is already gone, so the request has succeeded.
func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) (bool, error) {
	book, err := s.repo.GetBookByID(ctx, id)
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	deleted, err := s.repo.DeleteBook(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	if book.HasCover() {
		if err := s.covers.Delete(ctx, *book.CoverPath); err != nil {
			s.logger.Warn("failed to delete cover of deleted book",
				"book_id", id,
				"path", *book.CoverPath,
				"error", err,
			)
		}
	}

	if s.index != nil {
		if err := s.index.DeleteBook(id.String()); err != nil {
			s.logger.Warn("failed to remove book from search index", "book_id", id, "error", err)
		}
	}

	s.logger.Info("book deleted", "book_id", id)
	return true, nil
}

// SearchBooks returns books whose title or author matches query, most
// relevant first.
func (s *BookService) SearchBooks(ctx context.Context, query string) ([]*domain.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.GetBooks(ctx)
	}

	if s.index == nil {
		return s.scanBooks(ctx, query)
	}

	hits, err := s.index.Search(ctx, query, 0)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(hits))
	for _, hit := range hits {
		id, err := uuid.Parse(hit)
		if err != nil {
			s.logger.Warn("invalid book id in search index", "id", hit)
			continue
		}
		ids = append(ids, id)
	}
	return s.repo.GetBooksByIDs(ctx, ids)
}

// RebuildIndex reloads the search index from the repository.
func (s *BookService) RebuildIndex(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	books, err := s.repo.GetBooks(ctx)
	if err != nil {
		return err
	}
	return s.index.Rebuild(books)
}

func (s *BookService) scanBooks(ctx context.Context, query string) ([]*domain.Book, error) {
	books, err := s.repo.GetBooks(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	matched := make([]*domain.Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

func (s *BookService) indexBook(b *domain.Book) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexBook(b); err != nil {
		s.logger.Warn("failed to index book", "book_id", b.ID, "error", err)
	}
}

// blurHash computes the cover placeholder. Undecodable images get none.
func (s *BookService) blurHash(data []byte) *string {
	hash, err := images.ComputeBlurHash(data)
	if err != nil {
		s.logger.Debug("failed to compute cover blurhash", "error", err)
		return nil
	}
	return &hash
}
