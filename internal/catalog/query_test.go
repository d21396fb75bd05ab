package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/brickwork/internal/domain"
)

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter SearchFilter
		page   int
		want   url.Values
	}{
		{
			name:   "empty filter",
			filter: SearchFilter{},
			page:   1,
			want: url.Values{
				"page":      {"1"},
				"page_size": {"20"},
				"ordering":  {"-year"},
			},
		},
		{
			name: "all fields trimmed",
			filter: SearchFilter{
				Query:    " falcon ",
				ThemeID:  "158",
				MinYear:  "2015",
				MaxYear:  "2020",
				MinParts: "500",
				MaxParts: "8000",
				Ordering: "num_parts",
			},
			page: 3,
			want: url.Values{
				"page":      {"3"},
				"page_size": {"20"},
				"search":    {"falcon"},
				"theme_id":  {"158"},
				"min_year":  {"2015"},
				"max_year":  {"2020"},
				"min_parts": {"500"},
				"max_parts": {"8000"},
				"ordering":  {"num_parts"},
			},
		},
		{
			name:   "page clamped",
			filter: SearchFilter{Query: "castle", MinYear: "   "},
			page:   0,
			want: url.Values{
				"page":      {"1"},
				"page_size": {"20"},
				"search":    {"castle"},
				"ordering":  {"-year"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSearchQuery(tt.filter, tt.page))
		})
	}
}

func TestSearchFilter_Year(t *testing.T) {
	var f SearchFilter
	assert.True(t, f.IsEmpty())
	f.Year("2024")
	assert.Equal(t, "2024", f.MinYear)
	assert.Equal(t, "2024", f.MaxYear)
	assert.False(t, f.IsEmpty())
}

func TestQueryKey_OrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("search", "x")
	a.Set("page", "1")

	b := url.Values{}
	b.Set("page", "1")
	b.Set("search", "x")

	assert.Equal(t, QueryKey(PrefixSearch, a), QueryKey(PrefixSearch, b))
	assert.Equal(t, "search_page=1&search=x", QueryKey(PrefixSearch, a))
}

func TestRequestKeys(t *testing.T) {
	assert.Equal(t, "themes", themesRequest().Key)
	assert.Equal(t, "new_arrivals_2026", newArrivalsRequest(2026, 8).Key)
	assert.Equal(t, "set_details_75192-1", setDetailsRequest("75192-1").Key)
	assert.Equal(t, "minifigs_75192-1", minifigsRequest("75192-1").Key)
	assert.Equal(t, "/sets/75192-1/minifigs/", minifigsRequest("75192-1").Path)
}

func TestNormalizePage(t *testing.T) {
	next := "https://example.test/sets/?page=2"

	assert.Equal(t, domain.Page{Results: []domain.Set{}}, NormalizePage(nil))
	assert.Equal(t, domain.Page{Results: []domain.Set{}}, NormalizePage(&domain.Page{Count: 5, Next: &next}))

	p := NormalizePage(&domain.Page{Results: []domain.Set{{SetNum: "1-1"}}, Count: 41, Next: &next})
	assert.Equal(t, 41, p.Count)
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrevious())
}
