package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/listenupapp/readlog-server/internal/domain"
	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
)

// eventLog records calls across fakes so tests can assert ordering.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

// fakeGenreRepo serves a fixed genre set and counts lookups.
type fakeGenreRepo struct {
	genres map[int64]*domain.Genre
	calls  int
	err    error
}

func newFakeGenreRepo(ids ...int64) *fakeGenreRepo {
	r := &fakeGenreRepo{genres: make(map[int64]*domain.Genre)}
	for _, id := range ids {
		r.genres[id] = &domain.Genre{ID: id, Name: "Genre"}
	}
	return r
}

func (r *fakeGenreRepo) GetGenres(_ context.Context) ([]*domain.Genre, error) {
	out := make([]*domain.Genre, 0, len(r.genres))
	for _, g := range r.genres {
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b *domain.Genre) int { return int(a.ID - b.ID) })
	return out, r.err
}

func (r *fakeGenreRepo) GetGenresByIDs(_ context.Context, ids []int64) ([]*domain.Genre, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Genre
	for _, id := range ids {
		if g, ok := r.genres[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// fakeBookRepo is an in-memory BookRepository.
type fakeBookRepo struct {
	books  map[uuid.UUID]*domain.Book
	genres *fakeGenreRepo
	log    *eventLog

	addErr         error
	updateCoverErr error
	deleteErr      error
}

func newFakeBookRepo(genres *fakeGenreRepo, log *eventLog) *fakeBookRepo {
	return &fakeBookRepo{
		books:  make(map[uuid.UUID]*domain.Book),
		genres: genres,
		log:    log,
	}
}

func (r *fakeBookRepo) resolveGenres(ids []int64) []*domain.Genre {
	out := []*domain.Genre{}
	for _, id := range domain.UniqueGenreIDs(ids) {
		if g, ok := r.genres.genres[id]; ok {
			out = append(out, g)
		}
	}
	return out
}

func (r *fakeBookRepo) copyOf(b *domain.Book) *domain.Book {
	c := *b
	c.Genres = slices.Clone(b.Genres)
	return &c
}

func (r *fakeBookRepo) GetBooks(_ context.Context) ([]*domain.Book, error) {
	out := make([]*domain.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, r.copyOf(b))
	}
	slices.SortFunc(out, func(a, b *domain.Book) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r *fakeBookRepo) GetBooksByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Book, error) {
	out := []*domain.Book{}
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			out = append(out, r.copyOf(b))
		}
	}
	return out, nil
}

func (r *fakeBookRepo) GetBookByID(_ context.Context, id uuid.UUID) (*domain.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, domainerrors.NotFoundf("book %s not found", id)
	}
	return r.copyOf(b), nil
}

func (r *fakeBookRepo) AddBook(_ context.Context, p *domain.BookCreationPayload) (*domain.Book, error) {
	r.log.add("repo.add")
	if r.addErr != nil {
		return nil, r.addErr
	}
	b := &domain.Book{
		ID:            uuid.New(),
		Title:         p.Title,
		Author:        p.Author,
		Status:        p.Status,
		CoverPath:     p.CoverPath,
		CoverBlurHash: p.CoverBlurHash,
		CreatedAt:     time.Now().Add(time.Duration(len(r.books)) * time.Millisecond),
		Version:       1,
		Genres:        r.resolveGenres(p.GenreIDs),
	}
	r.books[b.ID] = b
	return r.copyOf(b), nil
}

func (r *fakeBookRepo) UpdateBookDetails(_ context.Context, id uuid.UUID, p *domain.BookDetailsUpdatePayload) (*domain.Book, error) {
	r.log.add("repo.update")
	b, ok := r.books[id]
	if !ok {
		return nil, domainerrors.NotFoundf("book %s not found", id)
	}
	if p.ExpectedVersion != 0 && p.ExpectedVersion != b.Version {
		return nil, domainerrors.Conflictf("book is stale")
	}
	b.Title, b.Author, b.Status = p.Title, p.Author, p.Status
	b.Genres = r.resolveGenres(p.GenreIDs)
	b.Version++
	return r.copyOf(b), nil
}

func (r *fakeBookRepo) UpdateBookCover(_ context.Context, id uuid.UUID, path, blurHash *string, expectedVersion int64) (*domain.Book, error) {
	r.log.add("repo.cover")
	if r.updateCoverErr != nil {
		return nil, r.updateCoverErr
	}
	b, ok := r.books[id]
	if !ok {
		return nil, domainerrors.NotFoundf("book %s not found", id)
	}
	if expectedVersion != 0 && expectedVersion != b.Version {
		return nil, domainerrors.Conflictf("book is stale")
	}
	b.CoverPath, b.CoverBlurHash = path, blurHash
	b.Version++
	return r.copyOf(b), nil
}

func (r *fakeBookRepo) DeleteBook(_ context.Context, id uuid.UUID) (bool, error) {
	r.log.add("repo.delete")
	if r.deleteErr != nil {
		return false, r.deleteErr
	}
	if _, ok := r.books[id]; !ok {
		return false, nil
	}
	delete(r.books, id)
	return true, nil
}

// fakeCoverStore keeps covers in memory.
type fakeCoverStore struct {
	files     map[string][]byte
	log       *eventLog
	saveErr   error
	deleteErr error
}

func newFakeCoverStore(log *eventLog) *fakeCoverStore {
	return &fakeCoverStore{files: make(map[string][]byte), log: log}
}

func (s *fakeCoverStore) Save(_ context.Context, data []byte, _ string) (string, error) {
	s.log.add("cover.save")
	if s.saveErr != nil {
		return "", s.saveErr
	}
	path := "covers/" + uuid.NewString() + ".png"
	s.files[path] = data
	return path, nil
}

func (s *fakeCoverStore) Delete(_ context.Context, path string) error {
	s.log.add("cover.delete:" + path)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.files, path)
	return nil
}

func (s *fakeCoverStore) paths() []string {
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testPNG returns a small valid PNG.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
