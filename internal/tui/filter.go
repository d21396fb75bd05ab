package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/brickwork/internal/catalog"
	"github.com/mmcdole/brickwork/internal/domain"
)

// filterSets returns the indexes of sets whose name or number fuzzily
// matches query, best match first. An empty query keeps every set in order.
func filterSets(sets []domain.Set, query string) []int {
	query = strings.TrimSpace(query)
	if query == "" {
		idx := make([]int, len(sets))
		for i := range sets {
			idx[i] = i
		}
		return idx
	}

	targets := make([]string, len(sets))
	for i, s := range sets {
		targets[i] = strings.ToLower(s.Name + " " + s.SetNum)
	}

	matches := fuzzy.Find(strings.ToLower(query), targets)
	idx := make([]int, len(matches))
	for i, match := range matches {
		idx[i] = match.Index
	}
	return idx
}

// ParseSearchInput turns a free-form search line into a filter.
// Recognised tokens: year:2022, year:2020-2023, theme:<id>,
// parts:100, parts:100-500 and sort:<ordering>. Everything else is text.
func ParseSearchInput(input string) catalog.SearchFilter {
	var f catalog.SearchFilter
	var words []string

	for _, tok := range strings.Fields(input) {
		name, value, ok := strings.Cut(tok, ":")
		if !ok || value == "" {
			words = append(words, tok)
			continue
		}
		switch strings.ToLower(name) {
		case "year":
			if lo, hi, isRange := strings.Cut(value, "-"); isRange {
				f.MinYear, f.MaxYear = lo, hi
			} else {
				f.Year(value)
			}
		case "theme":
			f.ThemeID = value
		case "parts":
			if lo, hi, isRange := strings.Cut(value, "-"); isRange {
				f.MinParts, f.MaxParts = lo, hi
			} else {
				f.MinParts = value
			}
		case "sort":
			f.Ordering = value
		default:
			words = append(words, tok)
		}
	}

	f.Query = strings.Join(words, " ")
	return f
}

// FormatSearchInput is the inverse of ParseSearchInput, used to prefill the query box
func FormatSearchInput(f catalog.SearchFilter) string {
	parts := []string{}
	if f.Query != "" {
		parts = append(parts, f.Query)
	}
	switch {
	case f.MinYear != "" && f.MinYear == f.MaxYear:
		parts = append(parts, "year:"+f.MinYear)
	case f.MinYear != "" || f.MaxYear != "":
		parts = append(parts, "year:"+f.MinYear+"-"+f.MaxYear)
	}
	if f.ThemeID != "" {
		parts = append(parts, "theme:"+f.ThemeID)
	}
	switch {
	case f.MaxParts != "":
		parts = append(parts, "parts:"+f.MinParts+"-"+f.MaxParts)
	case f.MinParts != "":
		parts = append(parts, "parts:"+f.MinParts)
	}
	if f.Ordering != "" {
		parts = append(parts, "sort:"+f.Ordering)
	}
	return strings.Join(parts, " ")
}
