package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/brickwork/internal/domain"
)

const defaultNewArrivals = 8

// Options tunes catalog behaviour
type Options struct {
	FallbackTheme string // Label for unresolved themes
	NewArrivals   int    // Page size of the new arrivals listing
	Now           func() time.Time
}

// Service exposes the catalog operations the UI consumes. Every method
// degrades to an empty value on failure; the cause goes to the logger.
// Implements domain.ThemeLookup.
type Service struct {
	fetch    *Fetcher
	fallback string
	arrivals int
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates a catalog service on top of client, caching in cache.
func NewService(client domain.CatalogClient, cache domain.Store, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.FallbackTheme == "" {
		opts.FallbackTheme = DefaultFallbackTheme
	}
	if opts.NewArrivals <= 0 {
		opts.NewArrivals = defaultNewArrivals
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		fetch:    NewFetcher(client, cache, logger),
		fallback: opts.FallbackTheme,
		arrivals: opts.NewArrivals,
		now:      opts.Now,
		logger:   logger,
	}
}

// themeEnvelope is the paginated theme listing
type themeEnvelope struct {
	Results []domain.Theme `json:"results"`
}

// minifigEnvelope is the paginated minifig listing
type minifigEnvelope struct {
	Results []domain.Minifig `json:"results"`
}

// Themes returns the full theme catalog, or nil when it cannot be fetched
func (s *Service) Themes(ctx context.Context) ThemeIndex {
	env, ok := fetchJSON[themeEnvelope](ctx, s.fetch, themesRequest())
	if !ok {
		return nil
	}
	return ThemeIndex(env.Results)
}

// ThemeName resolves a theme id to its name, or the fallback label.
func (s *Service) ThemeName(ctx context.Context, themeID int) string {
	if name, ok := s.Themes(ctx).Name(themeID); ok {
		return name
	}
	s.logger.Debug("theme not resolved", "themeID", themeID)
	return s.fallback
}

// ThemeLabel resolves a theme id to its composed "<name> (<parent>)" label, or the fallback.
func (s *Service) ThemeLabel(ctx context.Context, themeID int) string {
	if label, ok := s.Themes(ctx).Label(themeID); ok {
		return label
	}
	return s.fallback
}

// ThemeOptions returns every theme labelled for a picker
func (s *Service) ThemeOptions(ctx context.Context) []domain.ThemeOption {
	return s.Themes(ctx).Options()
}

// Enrich decorates sets with theme names
func (s *Service) Enrich(ctx context.Context, sets []domain.Set) []domain.Set {
	return EnrichWithThemes(ctx, s, sets)
}

// NewArrivals returns the newest sets of the current year
func (s *Service) NewArrivals(ctx context.Context) []domain.Set {
	req := newArrivalsRequest(s.now().Year(), s.arrivals)
	page, ok := fetchJSON[*domain.Page](ctx, s.fetch, req)
	if !ok || page == nil {
		return []domain.Set{}
	}
	return s.Enrich(ctx, page.Results)
}

// SearchSets runs a filtered catalog search for a 1-based page
func (s *Service) SearchSets(ctx context.Context, filter SearchFilter, page int) domain.Page {
	req := searchRequest(BuildSearchQuery(filter, page))
	raw, ok := fetchJSON[*domain.Page](ctx, s.fetch, req)
	if !ok {
		return domain.EmptyPage()
	}

	result := NormalizePage(raw)
	result.Results = s.Enrich(ctx, result.Results)
	s.logger.Debug("search complete", "key", req.Key, "count", result.Count, "page", len(result.Results))
	return result
}

// SetDetails returns one set with its theme name, or false when unavailable
func (s *Service) SetDetails(ctx context.Context, setNum string) (domain.Set, bool) {
	if setNum == "" {
		return domain.Set{}, false
	}
	set, ok := fetchJSON[*domain.Set](ctx, s.fetch, setDetailsRequest(setNum))
	if !ok || set == nil || set.SetNum == "" {
		return domain.Set{}, false
	}
	out := *set
	out.ThemeName = s.ThemeName(ctx, out.ThemeID)
	return out, true
}

// SetMinifigs returns the minifigs included in a set
func (s *Service) SetMinifigs(ctx context.Context, setNum string) []domain.Minifig {
	if setNum == "" {
		return []domain.Minifig{}
	}
	env, ok := fetchJSON[minifigEnvelope](ctx, s.fetch, minifigsRequest(setNum))
	if !ok || env.Results == nil {
		return []domain.Minifig{}
	}
	return env.Results
}

// InvalidateAll drops the session cache so the next reads hit the network
func (s *Service) InvalidateAll() {
	s.fetch.InvalidateAll()
	s.logger.Info("invalidated session cache")
}
