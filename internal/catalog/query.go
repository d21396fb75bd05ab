package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/brickwork/internal/domain"
)

// SearchPageSize is the fixed page size for catalog searches
const SearchPageSize = 20

// DefaultOrdering sorts newest sets first
const DefaultOrdering = "-year"

// SearchFilter holds raw filter values as entered by the user.
// Values are passed through as strings; empty fields are omitted.
type SearchFilter struct {
	Query    string
	ThemeID  string
	MinYear  string
	MaxYear  string
	MinParts string
	MaxParts string
	Ordering string
}

// Year pins both year bounds to a single year
func (f *SearchFilter) Year(year string) {
	f.MinYear = year
	f.MaxYear = year
}

// IsEmpty reports whether no narrowing field is set
func (f SearchFilter) IsEmpty() bool {
	return strings.TrimSpace(f.Query) == "" &&
		strings.TrimSpace(f.ThemeID) == "" &&
		strings.TrimSpace(f.MinYear) == "" &&
		strings.TrimSpace(f.MaxYear) == "" &&
		strings.TrimSpace(f.MinParts) == "" &&
		strings.TrimSpace(f.MaxParts) == ""
}

// BuildSearchQuery converts filter state and a 1-based page number into
// normalized query parameters. Pages below 1 are clamped to 1.
func BuildSearchQuery(f SearchFilter, page int) url.Values {
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(SearchPageSize))

	set := func(name, value string) {
		if v := strings.TrimSpace(value); v != "" {
			q.Set(name, v)
		}
	}
	set("search", f.Query)
	set("theme_id", f.ThemeID)
	set("min_year", f.MinYear)
	set("max_year", f.MaxYear)
	set("min_parts", f.MinParts)
	set("max_parts", f.MaxParts)

	ordering := strings.TrimSpace(f.Ordering)
	if ordering == "" {
		ordering = DefaultOrdering
	}
	q.Set("ordering", ordering)

	return q
}

// NormalizePage turns a missing envelope, or one without a results field,
// into the empty envelope. Callers never need to tell "absent" from "empty".
func NormalizePage(p *domain.Page) domain.Page {
	if p == nil || p.Results == nil {
		return domain.EmptyPage()
	}
	out := *p
	if out.Count < 0 {
		out.Count = 0
	}
	return out
}
