package worker

import (
    "context"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/GTDGit/catalog_api/internal/service"
)

// Reindexer rebuilds the search index from the database.
type Reindexer interface {
    Reindex(ctx context.Context) (*service.ReindexStats, error)
}

// IndexSyncWorker periodically mirrors product inventory into the search index.
type IndexSyncWorker struct {
    reindexer Reindexer
    interval  time.Duration
}

// NewIndexSyncWorker constructs an IndexSyncWorker.
func NewIndexSyncWorker(reindexer Reindexer, interval time.Duration) *IndexSyncWorker {
    return &IndexSyncWorker{
        reindexer: reindexer,
        interval:  interval,
    }
}

// Start begins the periodic sync loop and listens for context cancellation.
// A non-positive interval disables the worker.
func (w *IndexSyncWorker) Start(ctx context.Context) {
    if w.interval <= 0 {
        log.Info().Msg("Index sync worker disabled")
        return
    }
    log.Info().Dur("interval", w.interval).Msg("Starting index sync worker")

    // Run immediately on start
    w.run(ctx)

    ticker := time.NewTicker(w.interval)
    defer ticker.Stop()

    for {
        select {
        case <-ticker.C:
            w.run(ctx)
        case <-ctx.Done():
            log.Info().Msg("Index sync worker stopped")
            return
        }
    }
}

func (w *IndexSyncWorker) run(ctx context.Context) {
    log.Info().Msg("Syncing search index...")

    stats, err := w.reindexer.Reindex(ctx)
    if err != nil {
        log.Error().Err(err).Msg("Failed to sync search index")
        return
    }

    log.Info().
        Uint64("indexed", stats.Indexed).
        Uint64("failed", stats.Failed).
        Int64("removed", stats.Removed).
        Dur("duration", stats.Took).
        Msg("Search index sync completed")
}
