package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/brickwork/internal/domain"
)

// DefaultFallbackTheme labels sets whose theme cannot be resolved.
const DefaultFallbackTheme = "Other"

// maxEnrichWorkers bounds concurrent theme resolutions per batch
const maxEnrichWorkers = 8

// ThemeIndex is the theme catalog as returned by the API.
type ThemeIndex []domain.Theme

// Find returns the theme with id using a linear scan.
func (idx ThemeIndex) Find(id int) (domain.Theme, bool) {
	for _, t := range idx {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Theme{}, false
}

// Name returns the theme's own name
func (idx ThemeIndex) Name(id int) (string, bool) {
	t, ok := idx.Find(id)
	if !ok {
		return "", false
	}
	return t.Name, true
}

// Label composes "<name> (<parent>)" when the parent resolves; otherwise the bare name.
func (idx ThemeIndex) Label(id int) (string, bool) {
	t, ok := idx.Find(id)
	if !ok {
		return "", false
	}
	return idx.label(t), true
}

func (idx ThemeIndex) label(t domain.Theme) string {
	if !t.HasParent() {
		return t.Name
	}
	if parent, ok := idx.Name(*t.ParentID); ok {
		return t.Name + " (" + parent + ")"
	}
	return t.Name
}

// Options returns every theme with its composed label, sorted by label.
func (idx ThemeIndex) Options() []domain.ThemeOption {
	byID := make(map[int]string, len(idx))
	for _, t := range idx {
		byID[t.ID] = t.Name
	}

	opts := make([]domain.ThemeOption, 0, len(idx))
	for _, t := range idx {
		label := t.Name
		if t.HasParent() {
			if parent, ok := byID[*t.ParentID]; ok {
				label = t.Name + " (" + parent + ")"
			}
		}
		opts = append(opts, domain.ThemeOption{ID: t.ID, Label: label})
	}

	sort.SliceStable(opts, func(i, j int) bool {
		return strings.ToLower(opts[i].Label) < strings.ToLower(opts[j].Label)
	})
	return opts
}

// MatchThemeOptions keeps options whose label fuzzily matches query, ignoring
// case and diacritics. An empty query keeps everything.
func MatchThemeOptions(opts []domain.ThemeOption, query string) []domain.ThemeOption {
	query = strings.TrimSpace(query)
	if query == "" {
		return opts
	}
	out := make([]domain.ThemeOption, 0, len(opts))
	for _, o := range opts {
		if fuzzy.MatchNormalizedFold(query, o.Label) {
			out = append(out, o)
		}
	}
	return out
}

// EnrichWithThemes returns copies of sets with ThemeName filled in.
// Lookups run concurrently; the result keeps the input order. Nil or empty
// input yields an empty, non-nil slice.
func EnrichWithThemes(ctx context.Context, lookup domain.ThemeLookup, sets []domain.Set) []domain.Set {
	out := make([]domain.Set, len(sets))
	if len(sets) == 0 {
		return out
	}

	var g errgroup.Group
	g.SetLimit(maxEnrichWorkers)

	for i := range sets {
		i := i
		g.Go(func() error {
			s := sets[i]
			s.ThemeName = lookup.ThemeName(ctx, s.ThemeID)
			out[i] = s
			return nil
		})
	}

	// Lookups never fail; Wait only joins
	_ = g.Wait()
	return out
}
