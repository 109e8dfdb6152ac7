package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/listenupapp/readlog-server/internal/domain"
	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, title, author, cover_path, cover_blur_hash, status, created_at, version`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
// Genres are loaded separately.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var (
		b         domain.Book
		id        string
		coverPath sql.NullString
		blurHash  sql.NullString
		status    string
		createdAt string
	)

	err := scanner.Scan(
		&id,
		&b.Title,
		&b.Author,
		&coverPath,
		&blurHash,
		&status,
		&createdAt,
		&b.Version,
	)
	if err != nil {
		return nil, err
	}

	b.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse book id %q: %w", id, err)
	}
	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	b.Status = domain.Status(status)
	b.CoverPath = stringPtr(coverPath)
	b.CoverBlurHash = stringPtr(blurHash)

	return &b, nil
}

// GetBooks returns every book, newest first, with localized genres.
func (s *Store) GetBooks(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	rows.Close()

	if err := loadBookGenres(ctx, s.db, books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBooksByIDs returns the books among ids that exist, in the order of ids.
func (s *Store) GetBooksByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Book, error) {
	if len(ids) == 0 {
		return []*domain.Book{}, nil
	}

	found := make(map[uuid.UUID]*domain.Book, len(ids))
	for batch := range slices.Chunk(ids, maxBatchIDs) {
		if err := s.collectBooksByIDs(ctx, batch, found); err != nil {
			return nil, err
		}
	}

	books := make([]*domain.Book, 0, len(found))
	for _, id := range ids {
		if b, ok := found[id]; ok {
			books = append(books, b)
		}
	}

	if err := loadBookGenres(ctx, s.db, books); err != nil {
		return nil, err
	}
	return books, nil
}

func (s *Store) collectBooksByIDs(ctx context.Context, ids []uuid.UUID, found map[uuid.UUID]*domain.Book) error {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return fmt.Errorf("query books by id: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return fmt.Errorf("scan book: %w", err)
		}
		found[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}
	return nil
}

// GetBookByID retrieves a book with its localized genres.
// Returns a NOT_FOUND domain error if the book does not exist.
func (s *Store) GetBookByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	return getBook(ctx, s.db, id)
}

func getBook(ctx context.Context, q querier, id uuid.UUID) (*domain.Book, error) {
	row := q.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id.String())

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NotFoundf("book %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	if err := loadBookGenres(ctx, q, []*domain.Book{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// AddBook inserts a new book and its genre associations in one transaction.
// The ID and creation time are assigned here.
func (s *Store) AddBook(ctx context.Context, payload *domain.BookCreationPayload) (*domain.Book, error) {
	id := uuid.New()
	now := formatTime(s.now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO books (
			id, title, author, cover_path, cover_blur_hash, status, created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		id.String(),
		payload.Title,
		payload.Author,
		nullableString(payload.CoverPath),
		nullableString(payload.CoverBlurHash),
		string(payload.Status),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	if err := replaceBookGenres(ctx, tx, id.String(), payload.GenreIDs); err != nil {
		return nil, mapGenreConstraint(err)
	}

	book, err := getBook(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return book, nil
}

// UpdateBookDetails replaces title, author, status and genres in one transaction.
// When payload.ExpectedVersion is set and stale, returns a CONFLICT domain error.
func (s *Store) UpdateBookDetails(ctx context.Context, id uuid.UUID, payload *domain.BookDetailsUpdatePayload) (*domain.Book, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE books
		SET title = ?, author = ?, status = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND (? = 0 OR version = ?)`,
		payload.Title,
		payload.Author,
		string(payload.Status),
		formatTime(s.now()),
		id.String(),
		payload.ExpectedVersion,
		payload.ExpectedVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	if err := checkUpdated(ctx, tx, res, id, payload.ExpectedVersion); err != nil {
		return nil, err
	}

	if err := replaceBookGenres(ctx, tx, id.String(), payload.GenreIDs); err != nil {
		return nil, mapGenreConstraint(err)
	}

	book, err := getBook(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return book, nil
}

// UpdateBookCover points the book at a new cover path (nil clears it).
// When expectedVersion is non-zero and stale, returns a CONFLICT domain error.
func (s *Store) UpdateBookCover(ctx context.Context, id uuid.UUID, path, blurHash *string, expectedVersion int64) (*domain.Book, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE books
		SET cover_path = ?, cover_blur_hash = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND (? = 0 OR version = ?)`,
		nullableString(path),
		nullableString(blurHash),
		formatTime(s.now()),
		id.String(),
		expectedVersion,
		expectedVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("update book cover: %w", err)
	}
	if err := checkUpdated(ctx, tx, res, id, expectedVersion); err != nil {
		return nil, err
	}

	book, err := getBook(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return book, nil
}

// DeleteBook removes a book. Genre associations go with it through ON DELETE CASCADE.
// Reports whether a row existed and was removed.
func (s *Store) DeleteBook(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListCoverPaths returns every cover path currently referenced by a book.
func (s *Store) ListCoverPaths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT cover_path FROM books WHERE cover_path IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("query cover paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan cover path: %w", err)
		}
		paths[p] = struct{}{}
	}
	return paths, rows.Err()
}

// checkUpdated turns a zero-row update into NOT_FOUND or CONFLICT.
func checkUpdated(ctx context.Context, tx *sql.Tx, res sql.Result, id uuid.UUID, expectedVersion int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var current int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM books WHERE id = ?`, id.String()).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domainerrors.NotFoundf("book %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("get book version: %w", err)
	}

	return domainerrors.Conflictf("book %s was modified: expected version %d, current version %d",
		id, expectedVersion, current)
}

// mapGenreConstraint reports association inserts against unknown genres as
// GENRE_NOT_FOUND; the genre checker normally catches these first.
func mapGenreConstraint(err error) error {
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return domainerrors.Wrap(err, domainerrors.CodeGenreNotFound, "genres not found")
	}
	return err
}
