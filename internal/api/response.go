package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/types"
	"github.com/foodgram/backend/internal/validation"
)

// PageResponse is the envelope of every paginated listing.
type PageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// bindJSON decodes and validates the request body, answering 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, validation.FromBindError(err))
		return false
	}
	return true
}

// idParam parses the named path parameter as a positive id.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperr.NotFound("%s %q not found", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// pageFromQuery reads ?page= and ?limit=; bad values fall back to defaults.
func pageFromQuery(c *gin.Context) types.Page {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = 0
	}
	return types.Page{Page: page, Limit: limit}
}

// intQuery parses an optional non-negative integer query parameter.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondError(c, apperr.Validation(name, "%s must be a non-negative integer", name))
		return 0, false
	}
	return n, true
}

func respondPage[T any](c *gin.Context, page types.Page, result *types.PageResult[T]) {
	resp := PageResponse[T]{Count: result.Count, Results: result.Results}
	if resp.Results == nil {
		resp.Results = []T{}
	}

	size := page.Size()
	if int64(page.Page*size) < result.Count {
		next := pageURL(c, page.Page+1, size)
		resp.Next = &next
	}
	if page.Page > 1 {
		prev := pageURL(c, page.Page-1, size)
		resp.Previous = &prev
	}
	c.JSON(http.StatusOK, resp)
}

func pageURL(c *gin.Context, page, size int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := c.Request.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(size))
	u := url.URL{Scheme: scheme, Host: c.Request.Host, Path: c.Request.URL.Path, RawQuery: q.Encode()}
	return u.String()
}
