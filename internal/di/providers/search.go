package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/readlog-server/internal/logger"
	"github.com/listenupapp/readlog-server/internal/search"
	"github.com/listenupapp/readlog-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.BookIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index. It starts empty;
// RebuildSearchIndex fills it from the database.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewBookIndex(log.Logger)
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{BookIndex: index}, nil
}

// RebuildSearchIndex loads every book into the search index.
func RebuildSearchIndex(ctx context.Context, i do.Injector) error {
	bookService := do.MustInvoke[*service.BookService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	start := time.Now()
	if err := bookService.RebuildIndex(ctx); err != nil {
		return err
	}

	count, _ := indexHandle.DocumentCount()
	log.Info("Search index rebuilt", "documents", count, "took", time.Since(start))
	return nil
}
