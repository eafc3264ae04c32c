package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/GTDGit/catalog_api/internal/utils"
)

// MaxQueryLength bounds the free-text query in characters.
const MaxQueryLength = 200

// SearchFields are the document fields matched by the free-text query.
var SearchFields = []string{"product.name", "product.web_id", "brand.name"}

// BuildQuery returns the request body for a free-text search: a fuzzy
// multi-field match intersected with a clause that must match at least one
// of its should entries, which prefers default variants.
func BuildQuery(query string, from, size int) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":     query,
							"fields":    SearchFields,
							"fuzziness": "auto",
						},
					},
					map[string]interface{}{
						"bool": map[string]interface{}{
							"should": []interface{}{
								map[string]interface{}{
									"match": map[string]interface{}{"is_default": true},
								},
							},
							"minimum_should_match": 1,
						},
					},
				},
			},
		},
		"from":             from,
		"size":             size,
		"track_total_hits": true,
	}
}

// ValidateQuery trims the query and checks it and the paging window.
func ValidateQuery(query string, limit, offset int) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", fmt.Errorf("%w: search query is empty", utils.ErrValidation)
	}
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return "", fmt.Errorf("%w: search query longer than %d characters", utils.ErrValidation, MaxQueryLength)
	}
	if limit < 1 {
		return "", fmt.Errorf("%w: limit must be positive", utils.ErrValidation)
	}
	if offset < 0 {
		return "", fmt.Errorf("%w: offset must not be negative", utils.ErrValidation)
	}
	return q, nil
}
