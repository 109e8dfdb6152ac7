package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/listenupapp/readlog-server/internal/domain"
	"github.com/listenupapp/readlog-server/internal/locale"
)

// genreSelect selects id, slug and the name localized to the first bound
// language, falling back to English and then the slug.
const genreSelect = `
	SELECT g.id, g.slug, COALESCE(t.name, d.name, g.slug)
	FROM genres g
	LEFT JOIN genre_translations t ON t.genre_id = g.id AND t.language = ?
	LEFT JOIN genre_translations d ON d.genre_id = g.id AND d.language = '` + locale.Default + `'`

// scanGenre scans a sql.Row (or sql.Rows via its Scan method) into a domain.Genre.
func scanGenre(scanner interface{ Scan(dest ...any) error }) (*domain.Genre, error) {
	var g domain.Genre
	if err := scanner.Scan(&g.ID, &g.Slug, &g.Name); err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGenres returns every genre localized to the request language, ordered by ID.
func (s *Store) GetGenres(ctx context.Context) ([]*domain.Genre, error) {
	rows, err := s.db.QueryContext(ctx, genreSelect+` ORDER BY g.id`, locale.FromContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}
	return collectGenres(rows)
}

// GetGenresByIDs returns the genres among ids that exist, ordered by ID.
// Unknown IDs are simply absent from the result.
func (s *Store) GetGenresByIDs(ctx context.Context, ids []int64) ([]*domain.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	lang := locale.FromContext(ctx)

	var genres []*domain.Genre
	for batch := range slices.Chunk(ids, maxBatchIDs) {
		args := make([]any, 0, len(batch)+1)
		args = append(args, lang)
		for _, id := range batch {
			args = append(args, id)
		}

		rows, err := s.db.QueryContext(ctx,
			genreSelect+` WHERE g.id IN (`+placeholders(len(batch))+`)`, args...)
		if err != nil {
			return nil, fmt.Errorf("query genres by id: %w", err)
		}
		found, err := collectGenres(rows)
		if err != nil {
			return nil, err
		}
		genres = append(genres, found...)
	}

	slices.SortFunc(genres, func(a, b *domain.Genre) int { return cmp.Compare(a.ID, b.ID) })
	return genres, nil
}

func collectGenres(rows *sql.Rows) ([]*domain.Genre, error) {
	defer rows.Close()

	var genres []*domain.Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return genres, nil
}

// replaceBookGenres replaces all genre associations for a book inside tx.
// It deletes existing book_genres rows for the book, then inserts the new set.
func replaceBookGenres(ctx context.Context, tx *sql.Tx, bookID string, genreIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM book_genres WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("delete book_genres: %w", err)
	}

	for _, genreID := range genreIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO book_genres (book_id, genre_id)
			VALUES (?, ?)`,
			bookID,
			genreID,
		)
		if err != nil {
			return fmt.Errorf("insert book_genres: %w", err)
		}
	}

	return nil
}

// loadBookGenres attaches localized genres to each book, one query per
// batch of books.
func loadBookGenres(ctx context.Context, q querier, books []*domain.Book) error {
	if len(books) == 0 {
		return nil
	}

	lang := locale.FromContext(ctx)
	byID := make(map[string]*domain.Book, len(books))
	for _, b := range books {
		b.Genres = []*domain.Genre{}
		byID[b.ID.String()] = b
	}

	for batch := range slices.Chunk(books, maxBatchIDs) {
		args := make([]any, 0, len(batch)+1)
		args = append(args, lang)
		for _, b := range batch {
			args = append(args, b.ID.String())
		}

		if err := scanBookGenres(ctx, q, byID, placeholders(len(batch)), args); err != nil {
			return err
		}
	}
	return nil
}

func scanBookGenres(ctx context.Context, q querier, byID map[string]*domain.Book, in string, args []any) error {
	rows, err := q.QueryContext(ctx, `
		SELECT bg.book_id, g.id, g.slug, COALESCE(t.name, d.name, g.slug)
		FROM book_genres bg
		JOIN genres g ON g.id = bg.genre_id
		LEFT JOIN genre_translations t ON t.genre_id = g.id AND t.language = ?
		LEFT JOIN genre_translations d ON d.genre_id = g.id AND d.language = '`+locale.Default+`'
		WHERE bg.book_id IN (`+in+`)
		ORDER BY g.id`, args...)
	if err != nil {
		return fmt.Errorf("query book genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID string
		var g domain.Genre
		if err := rows.Scan(&bookID, &g.ID, &g.Slug, &g.Name); err != nil {
			return fmt.Errorf("scan book genre: %w", err)
		}
		if b, ok := byID[bookID]; ok {
			b.Genres = append(b.Genres, &g)
		}
	}
	return rows.Err()
}

// maxBatchIDs bounds the IDs bound into one IN (...) list. SQLite rejects
// statements with more than 32766 variables.
const maxBatchIDs = 500

// placeholders returns "?, ?, ..." with n entries.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
