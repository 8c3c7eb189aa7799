package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	PageNumber      = "page_number"
	PageSize        = "page_size"
	Search          = "search"
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// QueryParams holds the common list-endpoint query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
	extra      map[string]string
}

// NewQueryParams parses pagination parameters from the request, clamping
// them to sane bounds.
func NewQueryParams(c echo.Context) QueryParams {
	p := QueryParams{PageNumber: 1, PageSize: DefaultPageSize, extra: map[string]string{}}
	if n, err := strconv.Atoi(c.QueryParam(PageNumber)); err == nil && n > 0 {
		p.PageNumber = n
	}
	if n, err := strconv.Atoi(c.QueryParam(PageSize)); err == nil && n > 0 {
		p.PageSize = n
		if p.PageSize > MaxPageSize {
			p.PageSize = MaxPageSize
		}
	}
	p.Search = c.QueryParam(Search)
	return p
}

// Add attaches an extra filter value.
func (p *QueryParams) Add(key, value string) {
	if p.extra == nil {
		p.extra = map[string]string{}
	}
	p.extra[key] = value
}

// Value returns an extra filter value.
func (p *QueryParams) Value(key string) string {
	return p.extra[key]
}
