package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/search"
)

// DefaultIndexBatchSize is the number of inventory rows indexed per bulk request.
const DefaultIndexBatchSize = 500

// IndexSyncService mirrors product inventory rows into the search index.
type IndexSyncService struct {
	inventory InventoryStore
	index     Indexer
	batchSize int
}

// NewIndexSyncService constructs an IndexSyncService.
func NewIndexSyncService(inventory InventoryStore, index Indexer, batchSize int) *IndexSyncService {
	if batchSize <= 0 {
		batchSize = DefaultIndexBatchSize
	}
	return &IndexSyncService{inventory: inventory, index: index, batchSize: batchSize}
}

// ReindexStats summarizes a reindex run.
type ReindexStats struct {
	Indexed uint64
	Failed  uint64
	Removed int64
	Took    time.Duration
}

// Reindex creates the index if needed, writes every inventory row and then
// removes documents of rows that no longer exist.
func (s *IndexSyncService) Reindex(ctx context.Context) (*ReindexStats, error) {
	start := time.Now()
	if _, err := s.index.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	stats := &ReindexStats{}
	var after int64
	for {
		rows, err := s.inventory.ListAfter(ctx, after, s.batchSize)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}

		docs := make([]search.Document, 0, len(rows))
		for _, row := range rows {
			docs = append(docs, search.NewDocument(row, start))
		}
		bulk, err := s.index.BulkIndex(ctx, docs)
		if err != nil {
			return nil, err
		}
		stats.Indexed += bulk.Indexed
		stats.Failed += bulk.Failed

		after = rows[len(rows)-1].ID
		if len(rows) < s.batchSize {
			break
		}
	}

	// Stale documents are only removed after a clean run.
	if stats.Failed == 0 {
		removed, err := s.index.DeleteIndexedBefore(ctx, start)
		if err != nil {
			return nil, err
		}
		stats.Removed = removed
	}

	stats.Took = time.Since(start)
	log.Info().
		Uint64("indexed", stats.Indexed).
		Uint64("failed", stats.Failed).
		Int64("removed", stats.Removed).
		Dur("took", stats.Took).
		Msg("search index synced")
	return stats, nil
}
