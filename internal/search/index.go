package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/utils"
)

// BulkStats summarizes a bulk indexing run.
type BulkStats struct {
	Indexed uint64
	Failed  uint64
}

// EnsureIndex creates the index with the document mapping if it does not
// exist. It reports whether the index was created.
func (c *Client) EnsureIndex(ctx context.Context) (bool, error) {
	if c == nil {
		return false, fmt.Errorf("%w: search not configured", utils.ErrIndexUnavailable)
	}
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, classify(ctx, err, 0, "")
	}
	res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return false, nil
	case http.StatusNotFound:
	default:
		return false, classify(ctx, nil, res.StatusCode, res.String())
	}

	body, err := json.Marshal(indexMapping)
	if err != nil {
		return false, err
	}
	res, err = c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return false, classify(ctx, err, 0, "")
	}
	defer res.Body.Close()
	if res.IsError() {
		return false, classify(ctx, nil, res.StatusCode, errorReason(res))
	}
	log.Info().Str("index", c.index).Msg("search index created")
	return true, nil
}

// BulkIndex writes docs to the index, replacing documents with the same id.
func (c *Client) BulkIndex(ctx context.Context, docs []Document) (BulkStats, error) {
	if c == nil {
		return BulkStats{}, fmt.Errorf("%w: search not configured", utils.ErrIndexUnavailable)
	}
	if len(docs) == 0 {
		return BulkStats{}, nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     c.es,
		Index:      c.index,
		NumWorkers: 1,
	})
	if err != nil {
		return BulkStats{}, fmt.Errorf("bulk indexer: %w", err)
	}

	var failed uint64
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return BulkStats{}, fmt.Errorf("encode document %d: %w", doc.ID, err)
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.DocumentID(),
			Body:       bytes.NewReader(data),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				atomic.AddUint64(&failed, 1)
				ev := log.Warn().Str("document_id", item.DocumentID)
				if err != nil {
					ev = ev.Err(err)
				} else {
					ev = ev.Str("type", res.Error.Type).Str("reason", res.Error.Reason)
				}
				ev.Msg("document not indexed")
			},
		})
		if err != nil {
			_ = bi.Close(ctx)
			return BulkStats{}, classify(ctx, err, 0, "")
		}
	}
	if err := bi.Close(ctx); err != nil {
		return BulkStats{}, classify(ctx, err, 0, "")
	}

	stats := bi.Stats()
	return BulkStats{Indexed: stats.NumIndexed, Failed: atomic.LoadUint64(&failed)}, nil
}

// DeleteIndexedBefore removes documents written by an earlier indexing run,
// i.e. rows that no longer exist in the catalog. The index is refreshed first
// so the delete sees the documents the current run rewrote; documents changed
// concurrently are skipped instead of failing the request.
func (c *Client) DeleteIndexedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("%w: search not configured", utils.ErrIndexUnavailable)
	}
	if err := c.refresh(ctx); err != nil {
		return 0, err
	}
	body, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"range": map[string]interface{}{
				"indexed_at": map[string]interface{}{"lt": cutoff.UTC().Format(time.RFC3339Nano)},
			},
		},
	})
	if err != nil {
		return 0, err
	}
	res, err := c.es.DeleteByQuery([]string{c.index}, bytes.NewReader(body),
		c.es.DeleteByQuery.WithContext(ctx),
		c.es.DeleteByQuery.WithConflicts("proceed"),
		c.es.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return 0, classify(ctx, err, 0, "")
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, classify(ctx, nil, res.StatusCode, errorReason(res))
	}
	var out struct {
		Deleted          int64 `json:"deleted"`
		VersionConflicts int64 `json:"version_conflicts"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode delete response: %w", err)
	}
	if out.VersionConflicts > 0 {
		log.Warn().Int64("conflicts", out.VersionConflicts).Msg("stale documents changed during delete, kept")
	}
	return out.Deleted, nil
}

func (c *Client) refresh(ctx context.Context) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithIndex(c.index),
		c.es.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return classify(ctx, err, 0, "")
	}
	defer res.Body.Close()
	if res.IsError() {
		return classify(ctx, nil, res.StatusCode, errorReason(res))
	}
	return nil
}
