package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/listenupapp/readlog-server/internal/api"
	"github.com/listenupapp/readlog-server/internal/config"
	"github.com/listenupapp/readlog-server/internal/logger"
	"github.com/listenupapp/readlog-server/internal/media/images"
	"github.com/listenupapp/readlog-server/internal/service"
	"github.com/listenupapp/readlog-server/internal/validation"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer builds the API handler and starts serving in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	files := do.MustInvoke[*images.Storage](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)

	services := api.Services{
		Book:      do.MustInvoke[*service.BookService](i),
		Genre:     do.MustInvoke[*service.GenreService](i),
		Validator: do.MustInvoke[*validation.Validator](i),
	}

	health := api.HealthChecks{
		Database: storeHandle.Store,
		Search:   indexHandle.BookIndex,
	}

	handler := api.NewServer(services, health, api.Options{
		ImageBaseURL:       cfg.Storage.ImageBaseURL,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Files:              files,
	}, limiterHandle.Limiter, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
