package api

import (
	"context"

	"github.com/listenupapp/readlog-server/internal/media/images"
	"github.com/listenupapp/readlog-server/internal/service"
	"github.com/listenupapp/readlog-server/internal/validation"
)

// Services groups the business logic used by the API server.
type Services struct {
	Book      *service.BookService
	Genre     *service.GenreService
	Validator *validation.Validator
}

// HealthChecks are the components probed by GET /health. Nil entries are
// reported as degraded.
type HealthChecks struct {
	Database interface {
		Ping(ctx context.Context) error
	}
	Search interface {
		DocumentCount() (uint64, error)
	}
}

// Options configure request handling.
type Options struct {
	// ImageBaseURL prefixes cover paths in book responses.
	ImageBaseURL string
	// CORSAllowedOrigins is empty to allow any origin.
	CORSAllowedOrigins []string
	// Files serves /images. Nil disables the route.
	Files *images.Storage
}
