package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/brickwork/internal/adapter"
	"github.com/mmcdole/brickwork/internal/adapter/source"
	"github.com/mmcdole/brickwork/internal/catalog"
	"github.com/mmcdole/brickwork/internal/domain"
	"github.com/mmcdole/brickwork/internal/shelf"
	"github.com/mmcdole/brickwork/internal/store"
)

// Session owns everything that lives for one run of the application:
// the response cache, the catalog service, and the durable lists.
// Create it at startup with Open and release it with Close.
type Session struct {
	Catalog  *catalog.Service
	Shelf    *shelf.Shelf
	Launcher *adapter.Launcher

	cache  *store.KVStore
	lists  *store.KVStore
	logger *slog.Logger
}

// Open builds a session from configuration
func Open(cfg *adapter.Config, logger *slog.Logger) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := source.NewClient(&cfg.API, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	dir, err := adapter.ExpandHome(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}
	lists, err := store.Open(dir, store.BucketLists)
	if err != nil {
		return nil, fmt.Errorf("failed to open list store: %w", err)
	}
	if path := lists.Path(); path != "" {
		logger.Info("opened list store", "path", path)
	} else {
		logger.Warn("no storage dir configured; lists will not survive exit")
	}

	s := NewSession(client, lists, catalog.Options{
		FallbackTheme: cfg.UI.FallbackTheme,
		NewArrivals:   cfg.UI.NewArrivals,
	}, logger)
	s.Launcher = adapter.NewLauncher(cfg.UI.Browser, cfg.UI.BrowserArgs, s.logger)
	return s, nil
}

// NewSession assembles a session from already-built parts
func NewSession(client domain.CatalogClient, lists *store.KVStore, opts catalog.Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	cache := store.NewMemoryStore()
	return &Session{
		Catalog:  catalog.NewService(client, cache, opts, logger),
		Shelf:    shelf.New(lists, logger),
		Launcher: adapter.NewLauncher("", nil, logger),
		cache:    cache,
		lists:    lists,
		logger:   logger,
	}
}

// Close releases the durable store; the response cache is discarded
func (s *Session) Close() error {
	if err := s.cache.Clear(); err != nil {
		s.logger.Warn("failed to clear response cache", "error", err)
	}
	return s.lists.Close()
}

// ResetCache drops every cached response
func (s *Session) ResetCache() {
	s.Catalog.InvalidateAll()
}

// ListEntries loads the details of every member of the named list
func (s *Session) ListEntries(ctx context.Context, kind string) ([]shelf.Entry, error) {
	list, ok := s.Shelf.List(kind)
	if !ok {
		return nil, fmt.Errorf("unknown list %q", kind)
	}
	return shelf.LoadEntries(ctx, s.Catalog, list.GetAll()), nil
}

// Sellable returns owned sets matching query by name or set number
func (s *Session) Sellable(ctx context.Context, query string) []domain.Set {
	entries := shelf.LoadEntries(ctx, s.Catalog, s.Shelf.Collection.GetAll())
	sets := make([]domain.Set, len(entries))
	for i, e := range entries {
		sets[i] = e.Set
	}
	return shelf.FilterSellable(sets, query)
}
