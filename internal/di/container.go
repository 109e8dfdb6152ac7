// Package di provides dependency injection configuration for the ReadLog server.
package di

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"golang.org/x/sync/errgroup"

	"github.com/listenupapp/readlog-server/internal/config"
	"github.com/listenupapp/readlog-server/internal/di/providers"
	"github.com/listenupapp/readlog-server/internal/logger"
	"github.com/listenupapp/readlog-server/internal/media/covers"
	"github.com/listenupapp/readlog-server/internal/media/images"
	"github.com/listenupapp/readlog-server/internal/service"
	"github.com/listenupapp/readlog-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Persistence
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideFileStorage)
	do.Provide(injector, providers.ProvideCoverStorage)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideGenreChecker)
	do.Provide(injector, providers.ProvideGenreService)
	do.Provide(injector, providers.ProvideBookService)

	// Workers
	do.Provide(injector, providers.ProvideCoverSweepJob)
	do.Provide(injector, providers.ProvideRateLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services, fills the search index and starts
// the HTTP server last so no request sees a half-built index.
func Bootstrap(ctx context.Context, injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	log := do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*covers.Storage](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*service.GenreChecker](injector)
	_ = do.MustInvoke[*service.GenreService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	sweepJob := do.MustInvoke[*providers.CoverSweepJob](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)

	// The index rebuild and the first sweep are independent reads of the
	// database, so they run side by side.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := providers.RebuildSearchIndex(gctx, injector); err != nil {
			return fmt.Errorf("rebuild search index: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := sweepJob.Sweep(gctx); err != nil {
			// Leftover files are harmless; the next run retries.
			log.Warn("Startup cover sweep failed", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
