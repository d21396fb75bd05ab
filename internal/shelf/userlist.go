package shelf

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/brickwork/internal/domain"
)

// ThemeAll disables theme filtering
const ThemeAll = "all"

// SortMode orders a user list page
type SortMode string

const (
	SortAddedDesc SortMode = "added-desc"
	SortAddedAsc  SortMode = "added-asc"
	SortYearDesc  SortMode = "year-desc"
	SortYearAsc   SortMode = "year-asc"
	SortPartsDesc SortMode = "parts-desc"
	SortPartsAsc  SortMode = "parts-asc"
)

// SortModes lists every mode in display order
var SortModes = []SortMode{SortAddedDesc, SortAddedAsc, SortYearDesc, SortYearAsc, SortPartsDesc, SortPartsAsc}

// Entry is a list member with its details and position in the list.
type Entry struct {
	domain.Set
	AddedIndex int
}

// DetailsSource resolves a set number to its (theme-enriched) details.
type DetailsSource interface {
	SetDetails(ctx context.Context, setNum string) (domain.Set, bool)
}

const maxDetailWorkers = 8

// LoadEntries fetches details for every id concurrently. Ids whose details
// are unavailable are dropped; the rest keep list order and their index.
func LoadEntries(ctx context.Context, src DetailsSource, ids []string) []Entry {
	found := make([]*Entry, len(ids))

	var g errgroup.Group
	g.SetLimit(maxDetailWorkers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if set, ok := src.SetDetails(ctx, id); ok {
				found[i] = &Entry{Set: set, AddedIndex: i}
			}
			return nil
		})
	}
	_ = g.Wait()

	entries := make([]Entry, 0, len(ids))
	for _, e := range found {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries
}

// View filters entries by theme name ("" or "all" keeps everything) and
// sorts them by mode. The input is not modified.
func View(entries []Entry, theme string, mode SortMode) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if theme == "" || theme == ThemeAll || e.ThemeName == theme {
			out = append(out, e)
		}
	}

	var less func(a, b Entry) bool
	switch mode {
	case SortAddedDesc:
		less = func(a, b Entry) bool { return a.AddedIndex > b.AddedIndex }
	case SortAddedAsc:
		less = func(a, b Entry) bool { return a.AddedIndex < b.AddedIndex }
	case SortYearDesc:
		less = func(a, b Entry) bool { return a.Year > b.Year }
	case SortYearAsc:
		less = func(a, b Entry) bool { return a.Year < b.Year }
	case SortPartsDesc:
		less = func(a, b Entry) bool { return a.NumParts > b.NumParts }
	case SortPartsAsc:
		less = func(a, b Entry) bool { return a.NumParts < b.NumParts }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ThemeNames returns the distinct theme names present, sorted
func ThemeNames(entries []Entry) []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if !seen[e.ThemeName] {
			seen[e.ThemeName] = true
			names = append(names, e.ThemeName)
		}
	}
	sort.Strings(names)
	return names
}

// ParseSortMode validates a user-supplied mode
func ParseSortMode(s string) (SortMode, bool) {
	for _, m := range SortModes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}
