package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Cache key names and prefixes for session-cached responses
const (
	// KeyThemes is the cache key for the full theme listing
	KeyThemes = "themes"

	// PrefixNewArrivals keys the current-year listing (new_arrivals_{year})
	PrefixNewArrivals = "new_arrivals"

	// PrefixSearch keys catalog searches (search_{canonical query})
	PrefixSearch = "search"

	// PrefixSetDetails keys single-set lookups (set_details_{set_num})
	PrefixSetDetails = "set_details"

	// PrefixMinifigs keys a set's minifig listing (minifigs_{set_num})
	PrefixMinifigs = "minifigs"
)

const themesPageSize = 1000

// Request describes one cacheable GET against the catalog API.
type Request struct {
	Path  string
	Query url.Values
	Key   string
}

// CacheKey joins a prefix and its parts with underscores.
func CacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}
	return prefix + "_" + strings.Join(parts, "_")
}

// QueryKey builds a key from a query. url.Values.Encode sorts by parameter
// name, so equivalent queries built in different orders share one key.
func QueryKey(prefix string, query url.Values) string {
	return CacheKey(prefix, query.Encode())
}

func themesRequest() Request {
	return Request{
		Path:  "/themes/",
		Query: url.Values{"page_size": {strconv.Itoa(themesPageSize)}},
		Key:   KeyThemes,
	}
}

func newArrivalsRequest(year, count int) Request {
	y := strconv.Itoa(year)
	return Request{
		Path: "/sets/",
		Query: url.Values{
			"min_year":  {y},
			"max_year":  {y},
			"page_size": {strconv.Itoa(count)},
			"ordering":  {"-year"},
		},
		Key: CacheKey(PrefixNewArrivals, y),
	}
}

func searchRequest(query url.Values) Request {
	return Request{
		Path:  "/sets/",
		Query: query,
		Key:   QueryKey(PrefixSearch, query),
	}
}

func setDetailsRequest(setNum string) Request {
	return Request{
		Path: fmt.Sprintf("/sets/%s/", url.PathEscape(setNum)),
		Key:  CacheKey(PrefixSetDetails, setNum),
	}
}

func minifigsRequest(setNum string) Request {
	return Request{
		Path: fmt.Sprintf("/sets/%s/minifigs/", url.PathEscape(setNum)),
		Key:  CacheKey(PrefixMinifigs, setNum),
	}
}
