package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/metrics"
	"github.com/GTDGit/catalog_api/internal/search"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// SearchService applies paging defaults and records search outcomes.
type SearchService struct {
	searcher     Searcher
	defaultLimit int
	maxLimit     int
}

// NewSearchService constructs a SearchService.
func NewSearchService(searcher Searcher, defaultLimit, maxLimit int) *SearchService {
	return &SearchService{searcher: searcher, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Page is a page of search results together with the window it covers.
type Page struct {
	*search.Result
	Limit  int
	Offset int
}

// Search runs query. A zero limit selects the default page size; larger
// limits are capped.
func (s *SearchService) Search(ctx context.Context, query string, limit, offset int) (*Page, error) {
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	start := time.Now()
	res, err := s.searcher.Search(ctx, query, limit, offset)
	outcome := searchOutcome(err)
	metrics.ObserveSearch(outcome, time.Since(start))
	if err != nil {
		ev := log.Warn()
		if outcome == "error" {
			ev = log.Error()
		}
		ev.Err(err).Str("query", query).Str("outcome", outcome).Msg("search failed")
		return nil, err
	}
	return &Page{Result: res, Limit: limit, Offset: offset}, nil
}

func searchOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, utils.ErrValidation):
		return "invalid"
	case errors.Is(err, utils.ErrTimeout):
		return "timeout"
	case errors.Is(err, utils.ErrIndexUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
