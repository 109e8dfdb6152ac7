// Package sqlite provides SQLite-backed persistence for books and genres.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/readlog-server/internal/genre"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed persistence for the ReadLog server.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open creates a new SQLite store at the given path.
// It configures WAL mode, sets pragmas, applies the schema and seeds default genres.
func Open(path string, logger *slog.Logger) (*Store, error) {
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	// Run schema migration.
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
	}

	if err := s.seedGenres(context.Background(), genre.Defaults); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed genres: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// seedGenres inserts any missing built-in genres and translations.
// Existing rows are left alone, so seeding is safe on every start.
func (s *Store) seedGenres(ctx context.Context, seeds []genre.Seed) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, seed := range seeds {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO genres (slug) VALUES (?)`, seed.Slug); err != nil {
			return fmt.Errorf("insert genre %s: %w", seed.Slug, err)
		}

		var id int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM genres WHERE slug = ?`, seed.Slug).Scan(&id); err != nil {
			return fmt.Errorf("lookup genre %s: %w", seed.Slug, err)
		}

		for lang, name := range seed.Names {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO genre_translations (genre_id, language, name)
				VALUES (?, ?, ?)`, id, lang, name); err != nil {
				return fmt.Errorf("insert genre translation %s/%s: %w", seed.Slug, lang, err)
			}
		}
	}

	return tx.Commit()
}

// timeLayout is RFC3339 with fixed-width nanoseconds so stored values sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime formats a time.Time for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp back to time.Time.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// nullableString returns a sql.NullString from a *string.
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// stringPtr returns nil for NULL columns.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
