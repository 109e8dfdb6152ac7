package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/readlog-server/internal/config"
	"github.com/listenupapp/readlog-server/internal/logger"
	"github.com/listenupapp/readlog-server/internal/media/images"
	"github.com/listenupapp/readlog-server/internal/ratelimit"
	"github.com/listenupapp/readlog-server/internal/service"
)

// CoverSweepJob periodically removes cover files no book references.
type CoverSweepJob struct {
	*service.CoverSweeper
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable. It waits for a running sweep to stop.
func (j *CoverSweepJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideCoverSweepJob provides the orphan cover sweep. A zero interval
// disables the periodic run; the sweeper can still be invoked directly.
func ProvideCoverSweepJob(i do.Injector) (*CoverSweepJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	files := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	sweeper := service.NewCoverSweeper(storeHandle.Store, files, cfg.Sweep.GracePeriod, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	job := &CoverSweepJob{CoverSweeper: sweeper, cancel: cancel, done: make(chan struct{})}

	if cfg.Sweep.Interval <= 0 {
		close(job.done)
		log.Info("Cover sweep disabled by configuration")
		return job, nil
	}

	go func() {
		defer close(job.done)

		ticker := time.NewTicker(cfg.Sweep.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := sweeper.Sweep(ctx); err != nil && ctx.Err() == nil {
					log.Warn("Cover sweep failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Cover sweep job started",
		"interval", cfg.Sweep.Interval,
		"grace_period", cfg.Sweep.GracePeriod,
	)

	return job, nil
}

// RateLimiterHandle wraps the keyed limiter with shutdown capability.
// Limiter is nil when rate limiting is disabled.
type RateLimiterHandle struct {
	Limiter *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the per-client limiter for mutating requests.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.RateLimit.RPS <= 0 {
		log.Info("Rate limiting disabled by configuration")
		return &RateLimiterHandle{}, nil
	}

	return &RateLimiterHandle{
		Limiter: ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, ratelimit.DefaultIdleTTL),
	}, nil
}
