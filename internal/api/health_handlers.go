package api

import (
	"context"
	"net/http"
	"time"

	"github.com/listenupapp/readlog-server/internal/api/dto"
	"github.com/listenupapp/readlog-server/internal/http/response"
)

// handleHealthCheck reports server health. It always answers 200; the body
// carries the per-component detail.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	components := map[string]dto.ComponentHealth{
		"database": s.checkDatabase(r.Context()),
		"search":   s.checkSearchIndex(),
	}

	overall := dto.HealthHealthy
	for _, c := range components {
		switch {
		case c.Status == dto.HealthUnhealthy:
			overall = dto.HealthUnhealthy
		case c.Status == dto.HealthDegraded && overall == dto.HealthHealthy:
			overall = dto.HealthDegraded
		}
	}

	response.Success(w, dto.HealthResponse{
		Status:     overall,
		Components: components,
	}, s.logger)
}

// checkDatabase pings SQLite.
func (s *Server) checkDatabase(ctx context.Context) dto.ComponentHealth {
	if s.health.Database == nil {
		return dto.ComponentHealth{
			Status:  dto.HealthDegraded,
			Message: "database not configured",
		}
	}

	start := time.Now()
	err := s.health.Database.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return dto.ComponentHealth{
			Status:  dto.HealthUnhealthy,
			Latency: latency.String(),
			Message: "database ping failed",
		}
	}

	return dto.ComponentHealth{
		Status:  dto.HealthHealthy,
		Latency: latency.String(),
	}
}

// checkSearchIndex verifies the search index answers. An empty index is
// healthy: a new library has no books.
func (s *Server) checkSearchIndex() dto.ComponentHealth {
	if s.health.Search == nil {
		return dto.ComponentHealth{
			Status:  dto.HealthDegraded,
			Message: "search index not configured",
		}
	}

	start := time.Now()
	if _, err := s.health.Search.DocumentCount(); err != nil {
		return dto.ComponentHealth{
			Status:  dto.HealthUnhealthy,
			Latency: time.Since(start).String(),
			Message: "search index unreachable",
		}
	}

	return dto.ComponentHealth{
		Status:  dto.HealthHealthy,
		Latency: time.Since(start).String(),
	}
}
