package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/GTDGit/catalog_api/internal/config"
	"github.com/GTDGit/catalog_api/internal/projection"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// Client executes catalog searches against Elasticsearch. A nil *Client
// reports every search as index unavailable.
type Client struct {
	es      *elasticsearch.Client
	index   string
	timeout time.Duration
}

// Result is one page of search hits.
type Result struct {
	Total int
	Hits  []projection.InventorySearchView
}

// NewClient creates a client from config. It does not contact the cluster.
func NewClient(cfg *config.SearchConfig) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New("no elasticsearch addresses configured")
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &Client{es: es, index: cfg.Index, timeout: cfg.Timeout}, nil
}

// Index returns the index name searched by the client.
func (c *Client) Index() string {
	return c.index
}

// Ping checks that the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("%w: search not configured", utils.ErrIndexUnavailable)
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return classify(ctx, err, 0, "")
	}
	defer res.Body.Close()
	if res.IsError() {
		return classify(ctx, nil, res.StatusCode, res.String())
	}
	return nil
}

// Search runs the free-text query and returns the page [offset, offset+limit).
func (c *Client) Search(ctx context.Context, query string, limit, offset int) (*Result, error) {
	q, err := ValidateQuery(query, limit, offset)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: search not configured", utils.ErrIndexUnavailable)
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(BuildQuery(q, offset, limit)); err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&body),
	)
	if err != nil {
		return nil, classify(ctx, err, 0, "")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, classify(ctx, nil, res.StatusCode, errorReason(res))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &Result{
		Total: parsed.Hits.Total.Value,
		Hits:  make([]projection.InventorySearchView, 0, len(parsed.Hits.Hits)),
	}
	for _, hit := range parsed.Hits.Hits {
		out.Hits = append(out.Hits, hit.Source.View())
	}
	return out, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string   `json:"_id"`
			Score  float64  `json:"_score"`
			Source Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func errorReason(res *esapi.Response) string {
	raw, err := io.ReadAll(res.Body)
	if err != nil || len(raw) == 0 {
		return res.Status()
	}
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil && e.Error.Reason != "" {
		return e.Error.Type + ": " + e.Error.Reason
	}
	return string(raw)
}

// classify maps a transport error or an error status to the search error
// taxonomy: bad requests are validation errors, deadlines are timeouts, and
// an unreachable or failing cluster is index unavailable.
func classify(ctx context.Context, err error, status int, detail string) error {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", utils.ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", utils.ErrIndexUnavailable, err)
	}
	switch {
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", utils.ErrValidation, detail)
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", utils.ErrTimeout, detail)
	case status == http.StatusNotFound, status >= 500:
		return fmt.Errorf("%w: %s", utils.ErrIndexUnavailable, detail)
	default:
		return fmt.Errorf("search failed with status %d: %s", status, detail)
	}
}
