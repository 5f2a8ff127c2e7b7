package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/uptrace/bun"
)

// PageDefaults configures ParsePage. MaxPerPage of zero means no upper bound.
type PageDefaults struct {
	PerPage    int
	MaxPerPage int
}

var DefaultPageDefaults = PageDefaults{PerPage: 10, MaxPerPage: 100}

type Page struct {
	Number  int
	PerPage int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Apply limits q to the rows of this page.
func (p Page) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Limit(p.PerPage).Offset(p.Offset())
}

// ParsePage reads ?page= and ?per_page=. Missing, malformed or non-positive
// values fall back to page 1 and the default page size.
func ParsePage(values url.Values, defaults PageDefaults) Page {
	if defaults.PerPage <= 0 {
		defaults.PerPage = DefaultPageDefaults.PerPage
	}

	page := Page{Number: 1, PerPage: defaults.PerPage}

	if n, err := strconv.Atoi(strings.TrimSpace(values.Get("page"))); err == nil && n > 0 {
		page.Number = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(values.Get("per_page"))); err == nil && n > 0 {
		page.PerPage = n
	}
	if defaults.MaxPerPage > 0 && page.PerPage > defaults.MaxPerPage {
		page.PerPage = defaults.MaxPerPage
	}
	return page
}

// Pagination is the metadata block of list responses.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
	LastPage    int `json:"last_page"`
}

func NewPagination(page Page, total int) Pagination {
	lastPage := 1
	if total > 0 && page.PerPage > 0 {
		lastPage = (total + page.PerPage - 1) / page.PerPage
	}
	return Pagination{
		CurrentPage: page.Number,
		Total:       total,
		PerPage:     page.PerPage,
		LastPage:    lastPage,
	}
}
