package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/brickwork/internal/adapter"
	"github.com/mmcdole/brickwork/internal/adapter/source/rebrickable"
	"github.com/mmcdole/brickwork/internal/domain"
)

// NewClient creates the catalog API client described by cfg.
func NewClient(cfg *adapter.APIConfig, logger *slog.Logger) (domain.CatalogClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("api config is nil")
	}

	if cfg.Key == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return rebrickable.NewClient(cfg.BaseURL, cfg.Key, cfg.Timeout, logger), nil
}
