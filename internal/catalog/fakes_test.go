package catalog

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/mmcdole/brickwork/internal/domain"
	"github.com/mmcdole/brickwork/internal/store"
)

// fakeClient serves canned bodies by path and counts requests.
type fakeClient struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     atomic.Int32
	queries   []url.Values
}

func newFakeClient() *fakeClient {
	return &fakeClient{responses: map[string]string{}, errs: map[string]error{}}
}

func (c *fakeClient) Get(_ context.Context, path string, query url.Values) ([]byte, error) {
	c.calls.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
	if err, ok := c.errs[path]; ok {
		return nil, err
	}
	body, ok := c.responses[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return []byte(body), nil
}

func (c *fakeClient) lastQuery() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queries) == 0 {
		return nil
	}
	return c.queries[len(c.queries)-1]
}

const themesBody = `{
	"count": 3,
	"next": null,
	"previous": null,
	"results": [
		{"id": 1, "name": "City", "parent_id": null},
		{"id": 2, "name": "City Undercover", "parent_id": 1},
		{"id": 158, "name": "Star Wars", "parent_id": null}
	]
}`

func newTestService(client *fakeClient) (*Service, *store.KVStore) {
	cache := store.NewMemoryStore()
	return NewService(client, cache, Options{}, nil), cache
}
