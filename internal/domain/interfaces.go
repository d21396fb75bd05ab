package domain

import (
	"context"
	"net/url"
)

// CatalogClient performs raw authenticated GET requests against the catalog API.
type CatalogClient interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// ThemeLookup resolves a theme id to its display name.
// Implementations never fail; unknown ids map to a fallback label.
type ThemeLookup interface {
	ThemeName(ctx context.Context, themeID int) string
}
