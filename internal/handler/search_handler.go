package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/catalog_api/internal/projection"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// SearchHandler serves GET /api/search/:query/.
type SearchHandler struct {
	searcher       ProductSearcher
	trustForwarded bool
}

// NewSearchHandler constructs a SearchHandler. trustForwarded makes page
// links follow the X-Forwarded-Proto and X-Forwarded-Host headers.
func NewSearchHandler(searcher ProductSearcher, trustForwarded bool) *SearchHandler {
	return &SearchHandler{searcher: searcher, trustForwarded: trustForwarded}
}

// Search runs the free-text query with ?limit=&offset= paging and responds
// with {count, next, previous, results}.
func (h *SearchHandler) Search(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	page, err := h.searcher.Search(c.Request.Context(), c.Param("query"), limit, offset)
	if err != nil {
		_ = c.Error(err)
		utils.ErrorFrom(c, err)
		return
	}

	base := *c.Request.URL
	origin := projection.Origin(c.Request, h.trustForwarded)
	c.PureJSON(http.StatusOK, utils.OffsetPage{
		Count:    page.Total,
		Next:     nextLink(origin, base, page.Total, page.Limit, page.Offset),
		Previous: previousLink(origin, base, page.Limit, page.Offset),
		Results:  page.Hits,
	})
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", utils.ErrValidation, key)
	}
	return n, nil
}

// nextLink returns the URL of the following page, or nil on the last page.
func nextLink(origin string, u url.URL, count, limit, offset int) *string {
	if offset+limit >= count {
		return nil
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset+limit))
	return pageLink(origin, u, q)
}

// previousLink returns the URL of the preceding page, or nil on the first
// page. The first page is addressed without an offset.
func previousLink(origin string, u url.URL, limit, offset int) *string {
	if offset <= 0 {
		return nil
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset-limit <= 0 {
		q.Del("offset")
	} else {
		q.Set("offset", strconv.Itoa(offset-limit))
	}
	return pageLink(origin, u, q)
}

func pageLink(origin string, u url.URL, q url.Values) *string {
	u.RawQuery = q.Encode()
	link := origin + u.RequestURI()
	return &link
}
