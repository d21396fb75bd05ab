package catalog

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/mmcdole/brickwork/internal/domain"
)

// Fetcher resolves requests from the session cache, falling back to the
// network. Failures never escape: callers get ok=false and the cause is logged.
type Fetcher struct {
	client domain.CatalogClient
	cache  domain.Store
	logger *slog.Logger

	// Collapses concurrent misses on the same key into one request
	inflight singleflight.Group
}

// NewFetcher creates a cache-backed fetcher
func NewFetcher(client domain.CatalogClient, cache domain.Store, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, cache: cache, logger: logger}
}

// Raw returns the payload for req, from cache when possible.
// A cached entry that is not valid JSON is evicted and refetched.
func (f *Fetcher) Raw(ctx context.Context, req Request) ([]byte, bool) {
	if data, ok := f.cache.Get(req.Key); ok {
		if json.Valid(data) {
			f.logger.Debug("cache hit", "key", req.Key)
			return data, true
		}
		f.logger.Warn("evicting corrupt cache entry", "key", req.Key)
		f.evict(req.Key)
	}

	// The shared request outlives any single caller; each caller still
	// stops waiting when its own ctx is done.
	fetchCtx := context.WithoutCancel(ctx)
	ch := f.inflight.DoChan(req.Key, func() (interface{}, error) {
		f.logger.Debug("cache miss, fetching", "key", req.Key, "path", req.Path)
		body, err := f.client.Get(fetchCtx, req.Path, req.Query)
		if err != nil {
			return nil, err
		}
		if !json.Valid(body) {
			return nil, errInvalidPayload
		}
		if err := f.cache.Set(req.Key, body); err != nil {
			f.logger.Warn("failed to cache response", "key", req.Key, "error", err)
		}
		return body, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		f.logger.Debug("stopped waiting for fetch", "key", req.Key, "error", ctx.Err())
		return nil, false
	}
	if res.Err != nil {
		f.logger.Error("catalog fetch failed", "key", req.Key, "path", req.Path, "error", res.Err)
		return nil, false
	}
	if res.Shared {
		f.logger.Debug("shared in-flight fetch", "key", req.Key)
	}
	return res.Val.([]byte), true
}

// InvalidateAll drops every cached response for this session
func (f *Fetcher) InvalidateAll() {
	if err := f.cache.Clear(); err != nil {
		f.logger.Error("failed to clear response cache", "error", err)
	}
}

func (f *Fetcher) evict(key string) {
	if err := f.cache.Delete(key); err != nil {
		f.logger.Error("failed to evict cache entry", "key", key, "error", err)
	}
}

// fetchJSON decodes the payload for req into a fresh T.
func fetchJSON[T any](ctx context.Context, f *Fetcher, req Request) (T, bool) {
	var v T
	data, ok := f.Raw(ctx, req)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		// Valid JSON of the wrong shape; keep it out of the cache
		f.logger.Error("unexpected payload shape", "key", req.Key, "error", err)
		f.evict(req.Key)
		var zero T
		return zero, false
	}
	return v, true
}
