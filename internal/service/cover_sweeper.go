package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/listenupapp/readlog-server/internal/media/covers"
	"github.com/listenupapp/readlog-server/internal/media/images"
)

// sweepConcurrency bounds parallel deletes during a sweep.
const sweepConcurrency = 4

// CoverReferences lists the cover paths books currently point at.
type CoverReferences interface {
	ListCoverPaths(ctx context.Context) (map[string]struct{}, error)
}

// CoverFiles lists and removes stored cover files.
type CoverFiles interface {
	List(dir string) ([]images.FileInfo, error)
	DeleteFile(ctx context.Context, path string) bool
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Scanned int
	Deleted int
	Failed  int
}

// CoverSweeper removes cover files no book references, such as those left
// behind when a process dies between saving a cover and writing its row.
type CoverSweeper struct {
	refs   CoverReferences
	files  CoverFiles
	grace  time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewCoverSweeper creates a sweeper. Files younger than grace are never
// touched, which protects uploads whose row has not been written yet.
func NewCoverSweeper(refs CoverReferences, files CoverFiles, grace time.Duration, logger *slog.Logger) *CoverSweeper {
	return &CoverSweeper{
		refs:   refs,
		files:  files,
		grace:  grace,
		logger: logger,
		now:    time.Now,
	}
}

// Sweep deletes unreferenced covers older than the grace period.
func (s *CoverSweeper) Sweep(ctx context.Context) (SweepResult, error) {
	// Files are listed before references are read, so a cover whose row
	// commits in between is still seen as referenced or is inside the grace window.
	files, err := s.files.List(covers.Dir)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list covers: %w", err)
	}

	referenced, err := s.refs.ListCoverPaths(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list cover references: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	var deleted, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)

	for _, f := range files {
		if _, ok := referenced[f.Path]; ok {
			continue
		}
		if f.ModTime.After(cutoff) {
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if s.files.DeleteFile(gctx, f.Path) {
				deleted.Add(1)
				s.logger.Debug("removed orphaned cover", "path", f.Path)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()

	result := SweepResult{
		Scanned: len(files),
		Deleted: int(deleted.Load()),
		Failed:  int(failed.Load()),
	}
	if result.Deleted > 0 || result.Failed > 0 {
		s.logger.Info("cover sweep finished",
			"scanned", result.Scanned,
			"deleted", result.Deleted,
			"failed", result.Failed,
		)
	}
	return result, err
}
