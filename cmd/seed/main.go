// Package main provides a tool to seed the database with sample books.
//
// Books go through the same service layer as the API, so genres are checked
// and covers are stored exactly as an upload would be.
//
// Usage:
//
//	DATABASE_PATH=~/ReadLog/readlog.db go run ./cmd/seed
//	go run ./cmd/seed --db /tmp/readlog.db --storage /tmp/storage --covers
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/listenupapp/readlog-server/internal/domain"
	"github.com/listenupapp/readlog-server/internal/genre"
	"github.com/listenupapp/readlog-server/internal/media/covers"
	"github.com/listenupapp/readlog-server/internal/media/images"
	"github.com/listenupapp/readlog-server/internal/service"
	"github.com/listenupapp/readlog-server/internal/store/sqlite"
)

var (
	dbPath      = flag.String("db", "", "SQLite database file (default: $DATABASE_PATH or ~/ReadLog/readlog.db)")
	storagePath = flag.String("storage", "", "File storage root (default: $STORAGE_PATH or ~/ReadLog/storage)")
	withCovers  = flag.Bool("covers", false, "Generate a cover image for each book")
)

var samples = []struct {
	title, author string
}{
	{"Dune", "Frank Herbert"},
	{"The Left Hand of Darkness", "Ursula K. Le Guin"},
	{"Pride and Prejudice", "Jane Austen"},
	{"The Master and Margarita", "Mikhail Bulgakov"},
	{"Crime and Punishment", "Fyodor Dostoevsky"},
	{"The Name of the Rose", "Umberto Eco"},
	{"One Hundred Years of Solitude", "Gabriel García Márquez"},
	{"Neuromancer", "William Gibson"},
	{"The Hobbit", "J.R.R. Tolkien"},
	{"Sapiens", "Yuval Noah Harari"},
	{"Meditations", "Marcus Aurelius"},
	{"The Road", "Cormac McCarthy"},
}

func main() {
	flag.Parse()

	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to resolve home directory: %v", err)
	}
	db := firstNonEmpty(*dbPath, os.Getenv("DATABASE_PATH"), filepath.Join(home, "ReadLog", "readlog.db"))
	storage := firstNonEmpty(*storagePath, os.Getenv("STORAGE_PATH"), filepath.Join(home, "ReadLog", "storage"))

	fmt.Printf("Opening database at: %s\n", db)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(db, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	files, err := images.NewStorage(storage, logger)
	if err != nil {
		log.Fatalf("Failed to open file storage: %v", err)
	}

	// No search index here; the server rebuilds it on start.
	books := service.NewBookService(s, service.NewGenreChecker(s), covers.NewStorage(files), nil, logger)

	ctx := context.Background()
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	created := 0
	for _, sample := range samples {
		payload := &domain.BookCreationPayload{
			Title:    sample.title,
			Author:   sample.author,
			Status:   domain.Statuses[rng.IntN(len(domain.Statuses))],
			GenreIDs: randomGenres(rng),
		}

		var cover *service.CoverUpload
		if *withCovers {
			cover = &service.CoverUpload{Data: coverImage(rng), FileName: "cover.png"}
		}

		book, err := books.AddBook(ctx, payload, cover)
		if err != nil {
			log.Printf("Failed to add %q: %v", sample.title, err)
			continue
		}

		created++
		fmt.Printf("  Added %s (%s, %d genres)\n", book.Title, book.Status, len(book.Genres))
	}

	fmt.Printf("\nSeeding complete! Created %d books.\n", created)
}

// randomGenres picks one to three built-in genres. IDs follow seed order.
func randomGenres(rng *rand.Rand) []int64 {
	n := 1 + rng.IntN(3)
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(1 + rng.IntN(len(genre.Defaults)))
	}
	return domain.UniqueGenreIDs(ids)
}

// coverImage renders a small two-colour gradient PNG.
func coverImage(rng *rand.Rand) []byte {
	const w, h = 60, 90
	from := color.RGBA{uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256)), 255}
	to := color.RGBA{uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256)), 255}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		t := float64(y) / float64(h-1)
		c := color.RGBA{
			R: lerp(from.R, to.R, t),
			G: lerp(from.G, to.G, t),
			B: lerp(from.B, to.B, t),
			A: 255,
		}
		for x := range w {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Fatalf("Failed to encode cover: %v", err)
	}
	return buf.Bytes()
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
