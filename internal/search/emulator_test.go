package search

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GTDGit/catalog_api/internal/config"
)

// fakeCluster emulates the handful of Elasticsearch endpoints the client uses.
type fakeCluster struct {
	mu sync.Mutex

	indexExists  bool
	searchStatus int
	searchBody   string
	searchDelay  time.Duration

	lastSearch map[string]interface{}
	bulkDocs   []Document
	created    bool
	mapping    map[string]interface{}

	calls         []string
	deleteParams  url.Values
	deleteStatus  int
	refreshStatus int
}

func newFakeCluster(t *testing.T) (*fakeCluster, *Client) {
	t.Helper()
	fc := &fakeCluster{searchStatus: http.StatusOK, deleteStatus: http.StatusOK, refreshStatus: http.StatusOK}
	srv := httptest.NewServer(fc)
	t.Cleanup(srv.Close)

	client, err := NewClient(&config.SearchConfig{
		Addresses: []string{srv.URL},
		Index:     "productinventory",
		Timeout:   time.Second,
	})
	require.NoError(t, err)
	return fc, client
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastSearch = body
		if f.searchDelay > 0 {
			f.mu.Unlock()
			time.Sleep(f.searchDelay)
			f.mu.Lock()
		}
		w.WriteHeader(f.searchStatus)
		_, _ = w.Write([]byte(f.searchBody))

	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		var items []string
		sc := bufio.NewScanner(r.Body)
		sc.Buffer(make([]byte, 1024*1024), 1024*1024)
		for sc.Scan() {
			var meta map[string]map[string]interface{}
			if err := json.Unmarshal(sc.Bytes(), &meta); err != nil {
				continue
			}
			if _, ok := meta["index"]; !ok {
				continue
			}
			if !sc.Scan() {
				break
			}
			var doc Document
			_ = json.Unmarshal(sc.Bytes(), &doc)
			f.bulkDocs = append(f.bulkDocs, doc)
			items = append(items, fmt.Sprintf(`{"index":{"_id":"%d","status":201}}`, doc.ID))
		}
		f.calls = append(f.calls, "bulk")
		_, _ = fmt.Fprintf(w, `{"took":1,"errors":false,"items":[%s]}`, strings.Join(items, ","))

	case strings.HasSuffix(r.URL.Path, "/_refresh"):
		f.calls = append(f.calls, "refresh")
		w.WriteHeader(f.refreshStatus)
		_, _ = w.Write([]byte(`{"_shards":{"total":1,"successful":1,"failed":0}}`))

	case strings.HasSuffix(r.URL.Path, "/_delete_by_query"):
		f.calls = append(f.calls, "delete_by_query")
		f.deleteParams = r.URL.Query()
		w.WriteHeader(f.deleteStatus)
		if f.deleteStatus != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"type":"version_conflict_engine_exception","reason":"version conflict"},"status":409}`))
			return
		}
		_, _ = w.Write([]byte(`{"deleted":2,"version_conflicts":1}`))

	case r.Method == http.MethodHead:
		if f.indexExists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}

	case r.Method == http.MethodPut:
		_ = json.NewDecoder(r.Body).Decode(&f.mapping)
		f.created = true
		f.indexExists = true
		_, _ = w.Write([]byte(`{"acknowledged":true,"index":"productinventory"}`))

	default:
		_, _ = w.Write([]byte(`{"cluster_name":"test","version":{"number":"8.19.0"},"tagline":"You Know, for Search"}`))
	}
}

const runnerHits = `{
  "took": 3,
  "timed_out": false,
  "hits": {
    "total": {"value": 2, "relation": "eq"},
    "hits": [
      {"_id": "1", "_score": 2.1, "_source": {"id": 1, "sku": "SKU1", "store_price": "92.00", "is_default": true,
        "product": {"name": "Runner", "web_id": "R100"}, "brand": {"name": "Acme"}}},
      {"_id": "5", "_score": 0.4, "_source": {"id": 5, "sku": "SKU5", "store_price": 10, "is_default": true,
        "product": {"name": "Rubber Boot", "web_id": "B200"}, "brand": null}}
    ]
  }
}`
