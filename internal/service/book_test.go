package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/readlog-server/internal/domain"
	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
	"github.com/listenupapp/readlog-server/internal/search"
)

type bookServiceFixture struct {
	svc    *BookService
	repo   *fakeBookRepo
	genres *fakeGenreRepo
	covers *fakeCoverStore
	index  *search.BookIndex
	log    *eventLog
}

func newBookServiceFixture(t *testing.T) *bookServiceFixture {
	t.Helper()

	log := &eventLog{}
	genres := newFakeGenreRepo(1, 2, 3)
	repo := newFakeBookRepo(genres, log)
	coverStore := newFakeCoverStore(log)

	index, err := search.NewBookIndex(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return &bookServiceFixture{
		svc:    NewBookService(repo, NewGenreChecker(genres), coverStore, index, testLogger()),
		repo:   repo,
		genres: genres,
		covers: coverStore,
		index:  index,
		log:    log,
	}
}

func creationPayload(genreIDs ...int64) *domain.BookCreationPayload {
	return &domain.BookCreationPayload{
		Title:    "Dune",
		Author:   "Frank Herbert",
		Status:   domain.StatusWantToRead,
		GenreIDs: genreIDs,
	}
}

func TestBookService_AddBook(t *testing.T) {
	t.Run("without cover", func(t *testing.T) {
		f := newBookServiceFixture(t)

		book, err := f.svc.AddBook(context.Background(), creationPayload(1, 2), nil)
		require.NoError(t, err)

		assert.Nil(t, book.CoverPath)
		assert.Equal(t, []int64{1, 2}, book.GenreIDs())
		assert.Equal(t, []string{"repo.add"}, f.log.list())
	})

	t.Run("with cover", func(t *testing.T) {
		f := newBookServiceFixture(t)

		book, err := f.svc.AddBook(context.Background(), creationPayload(1),
			&CoverUpload{Data: testPNG(t), FileName: "dune.png"})
		require.NoError(t, err)

		require.NotNil(t, book.CoverPath)
		assert.Equal(t, []string{*book.CoverPath}, f.covers.paths())
		require.NotNil(t, book.CoverBlurHash, "decodable covers get a placeholder")
		assert.Equal(t, []string{"cover.save", "repo.add"}, f.log.list())
	})

	t.Run("unknown genre writes nothing", func(t *testing.T) {
		f := newBookServiceFixture(t)

		_, err := f.svc.AddBook(context.Background(), creationPayload(1, 999),
			&CoverUpload{Data: testPNG(t), FileName: "dune.png"})
		assert.True(t, domainerrors.Is(err, domainerrors.ErrGenreNotFound))

		assert.Empty(t, f.log.list(), "no storage or repository call")
		assert.Empty(t, f.repo.books)
	})

	t.Run("cover save failure creates no row", func(t *testing.T) {
		f := newBookServiceFixture(t)
		f.covers.saveErr = domainerrors.Storage("disk full")

		_, err := f.svc.AddBook(context.Background(), creationPayload(),
			&CoverUpload{Data: testPNG(t), FileName: "dune.png"})
		assert.True(t, domainerrors.Is(err, domainerrors.ErrStorage))

		assert.Equal(t, []string{"cover.save"}, f.log.list())
		assert.Empty(t, f.repo.books)
	})

	t.Run("repository failure removes the saved cover", func(t *testing.T) {
		f := newBookServiceFixture(t)
		f.repo.addErr = errors.New("disk I/O error")

		_, err := f.svc.AddBook(context.Background(), creationPayload(),
			&CoverUpload{Data: testPNG(t), FileName: "dune.png"})
		assert.ErrorIs(t, err, f.repo.addErr)

		assert.Empty(t, f.covers.paths(), "compensation deletes the orphan")
		events := f.log.list()
		require.Len(t, events, 3)
		assert.Equal(t, "cover.save", events[0])
		assert.Equal(t, "repo.add", events[1])
		assert.Contains(t, events[2], "cover.delete:covers/")
	})

	t.Run("indexes the new book", func(t *testing.T) {
		f := newBookServiceFixture(t)

		book, err := f.svc.AddBook(context.Background(), creationPayload(), nil)
		require.NoError(t, err)

		ids, err := f.index.Search(context.Background(), "dune", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{book.ID.String()}, ids)
	})
}

func TestBookService_UpdateBookDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces details", func(t *testing.T) {
		f := newBookServiceFixture(t)
		book, err := f.svc.AddBook(ctx, creationPayload(1), nil)
		require.NoError(t, err)

		updated, err := f.svc.UpdateBookDetails(ctx, book.ID, &domain.BookDetailsUpdatePayload{
			Title:    "Dune Messiah",
			Author:   "Frank Herbert",
			Status:   domain.StatusRead,
			GenreIDs: []int64{2, 3},
		})
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", updated.Title)
		assert.Equal(t, []int64{2, 3}, updated.GenreIDs())
		assert.Equal(t, int64(2), updated.Version)

		ids, err := f.index.Search(ctx, "messiah", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{book.ID.String()}, ids)
	})

	t.Run("missing book", func(t *testing.T) {
		f := newBookServiceFixture(t)

		_, err := f.svc.UpdateBookDetails(ctx, uuid.New(), &domain.BookDetailsUpdatePayload{
			Title: "X", Author: "Y", Status: domain.StatusRead,
		})
		assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
		assert.Equal(t, 0, f.genres.calls)
	})

	t.Run("unknown genre leaves book untouched", func(t *testing.T) {
		f := newBookServiceFixture(t)
		book, err := f.svc.AddBook(ctx, creationPayload(1), nil)
		require.NoError(t, err)

		_, err = f.svc.UpdateBookDetails(ctx, book.ID, &domain.BookDetailsUpdatePayload{
			Title: "Changed", Author: "Y", Status: domain.StatusRead, GenreIDs: []int64{42},
		})
		assert.True(t, domainerrors.Is(err, domainerrors.ErrGenreNotFound))
		assert.NotContains(t, f.log.list(), "repo.update")

		current, err := f.svc.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", current.Title)
	})
}

func TestBookService_UpdateBookCover(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*bookServiceFixture, *domain.Book) {
		f := newBookServiceFixture(t)
		book, err := f.svc.AddBook(ctx, creationPayload(), &CoverUpload{Data: testPNG(t), FileName: "old.png"})
		require.NoError(t, err)
		f.log = &eventLog{}
		f.repo.log, f.covers.log = f.log, f.log
		return f, book
	}

	t.Run("replaces the file", func(t *testing.T) {
		f, book := setup(t)
		oldPath := *book.CoverPath

		updated, err := f.svc.UpdateBookCover(ctx, book.ID, &CoverUpload{Data: testPNG(t), FileName: "new.PNG"}, 0)
		require.NoError(t, err)

		require.NotNil(t, updated.CoverPath)
		assert.NotEqual(t, oldPath, *updated.CoverPath)
		assert.Equal(t, []string{*updated.CoverPath}, f.covers.paths(), "exactly one cover remains")
		assert.Equal(t, []string{"cover.delete:" + oldPath, "cover.save", "repo.cover"}, f.log.list())
	})

	t.Run("stale version touches nothing", func(t *testing.T) {
		f, book := setup(t)

		_, err := f.svc.UpdateBookCover(ctx, book.ID, &CoverUpload{Data: testPNG(t), FileName: "new.png"}, 7)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
		assert.Empty(t, f.log.list())
		assert.Equal(t, []string{*book.CoverPath}, f.covers.paths())
	})

	t.Run("invalid upload keeps the old cover", func(t *testing.T) {
		f, book := setup(t)

		_, err := f.svc.UpdateBookCover(ctx, book.ID, &CoverUpload{Data: testPNG(t), FileName: "new.gif"}, 0)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
		assert.Empty(t, f.log.list())
		assert.Equal(t, []string{*book.CoverPath}, f.covers.paths())
	})

	t.Run("repository failure removes the new file", func(t *testing.T) {
		f, book := setup(t)
		f.repo.updateCoverErr = errors.New("database is locked")

		_, err := f.svc.UpdateBookCover(ctx, book.ID, &CoverUpload{Data: testPNG(t), FileName: "new.png"}, 0)
		assert.ErrorIs(t, err, f.repo.updateCoverErr)
		assert.Empty(t, f.covers.paths())
	})

	t.Run("missing book", func(t *testing.T) {
		f := newBookServiceFixture(t)

		_, err := f.svc.UpdateBookCover(ctx, uuid.New(), &CoverUpload{Data: testPNG(t), FileName: "new.png"}, 0)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
		assert.Empty(t, f.log.list())
	})

	t.Run("missing upload", func(t *testing.T) {
		f, book := setup(t)

		_, err := f.svc.UpdateBookCover(ctx, book.ID, nil, 0)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	})

	t.Run("missing book and upload", func(t *testing.T) {
		f := newBookServiceFixture(t)

		_, err := f.svc.UpdateBookCover(ctx, uuid.New(), nil, 0)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
	})
}

func TestBookService_DeleteBook(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes row before cover", func(t *testing.T) {
		f := newBookServiceFixture(t)
		book, err := f.svc.AddBook(ctx, creationPayload(), &CoverUpload{Data: testPNG(t), FileName: "c.png"})
		require.NoError(t, err)

		deleted, err := f.svc.DeleteBook(ctx, book.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		events := f.log.list()
		assert.Equal(t, []string{"cover.save", "repo.add", "repo.delete", "cover.delete:" + *book.CoverPath}, events)
		assert.Empty(t, f.covers.paths())

		_, err = f.svc.GetBook(ctx, book.ID)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

		count, err := f.index.DocumentCount()
		require.NoError(t, err)
		assert.Equal(t, uint64(0), count)
	})

	t.Run("absent book", func(t *testing.T) {
		f := newBookServiceFixture(t)

		deleted, err := f.svc.DeleteBook(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Empty(t, f.log.list())
	})

	t.Run("repository failure keeps the cover", func(t *testing.T) {
		f := newBookServiceFixture(t)
		book, err := f.svc.AddBook(ctx, creationPayload(), &CoverUpload{Data: testPNG(t), FileName: "c.png"})
		require.NoError(t, err)
		f.repo.deleteErr = errors.New("database is locked")

		_, err = f.svc.DeleteBook(ctx, book.ID)
		assert.Error(t, err)
		assert.Equal(t, []string{*book.CoverPath}, f.covers.paths())
	})

	t.Run("cover delete failure still succeeds", func(t *testing.T) {
		f := newBookServiceFixture(t)
		book, err := f.svc.AddBook(ctx, creationPayload(), &CoverUpload{Data: testPNG(t), FileName: "c.png"})
		require.NoError(t, err)
		f.covers.deleteErr = domainerrors.Storage("permission denied")

		deleted, err := f.svc.DeleteBook(ctx, book.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
	})
}

func TestBookService_SearchBooks(t *testing.T) {
	ctx := context.Background()

	add := func(t *testing.T, svc *BookService, title, author string) *domain.Book {
		p := creationPayload()
		p.Title, p.Author = title, author
		b, err := svc.AddBook(ctx, p, nil)
		require.NoError(t, err)
		return b
	}

	t.Run("index", func(t *testing.T) {
		f := newBookServiceFixture(t)
		hobbit := add(t, f.svc, "The Hobbit", "J.R.R. Tolkien")
		add(t, f.svc, "Dune", "Frank Herbert")

		books, err := f.svc.SearchBooks(ctx, "hobbit")
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, hobbit.ID, books[0].ID)
	})

	t.Run("blank query lists everything", func(t *testing.T) {
		f := newBookServiceFixture(t)
		add(t, f.svc, "A", "X")
		add(t, f.svc, "B", "Y")

		books, err := f.svc.SearchBooks(ctx, "  ")
		require.NoError(t, err)
		assert.Len(t, books, 2)
	})

	t.Run("without index", func(t *testing.T) {
		genres := newFakeGenreRepo()
		log := &eventLog{}
		repo := newFakeBookRepo(genres, log)
		svc := NewBookService(repo, NewGenreChecker(genres), newFakeCoverStore(log), nil, testLogger())
		add(t, svc, "The Hobbit", "J.R.R. Tolkien")
		add(t, svc, "Dune", "Frank Herbert")

		books, err := svc.SearchBooks(ctx, "HERB")
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})
}

func TestBookService_RebuildIndex(t *testing.T) {
	f := newBookServiceFixture(t)
	ctx := context.Background()

	// Books written behind the service's back are picked up on rebuild.
	_, err := f.repo.AddBook(ctx, creationPayload())
	require.NoError(t, err)

	require.NoError(t, f.svc.RebuildIndex(ctx))

	count, err := f.index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}
