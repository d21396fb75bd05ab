package catalog

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/brickwork/internal/domain"
	"github.com/mmcdole/brickwork/internal/store"
)

func TestFetch_SecondCallServedFromCache(t *testing.T) {
	client := newFakeClient()
	client.responses["/sets/75192-1/"] = `{"set_num":"75192-1","name":"Millennium Falcon","year":2017,"theme_id":158,"num_parts":7541}`
	f := NewFetcher(client, store.NewMemoryStore(), nil)
	req := setDetailsRequest("75192-1")

	first, ok := fetchJSON[domain.Set](context.Background(), f, req)
	require.True(t, ok)
	assert.Equal(t, int32(1), client.calls.Load())

	second, ok := fetchJSON[domain.Set](context.Background(), f, req)
	require.True(t, ok)
	assert.Equal(t, int32(1), client.calls.Load(), "second call must not hit the network")
	assert.Equal(t, first, second)
}

func TestFetch_StoresBodyVerbatim(t *testing.T) {
	client := newFakeClient()
	body := `{"set_num":"10497-1", "name":"Galaxy Explorer"}`
	client.responses["/sets/10497-1/"] = body
	cache := store.NewMemoryStore()
	f := NewFetcher(client, cache, nil)

	_, ok := f.Raw(context.Background(), setDetailsRequest("10497-1"))
	require.True(t, ok)

	cached, ok := cache.Get("set_details_10497-1")
	require.True(t, ok)
	assert.Equal(t, body, string(cached))
}

func TestFetch_CorruptEntryFallsBackToNetwork(t *testing.T) {
	client := newFakeClient()
	client.responses["/sets/21330-1/"] = `{"set_num":"21330-1","name":"Home Alone"}`
	cache := store.NewMemoryStore()
	require.NoError(t, cache.Set("set_details_21330-1", []byte("{not json")))
	f := NewFetcher(client, cache, nil)

	set, ok := fetchJSON[domain.Set](context.Background(), f, setDetailsRequest("21330-1"))
	require.True(t, ok)
	assert.Equal(t, "Home Alone", set.Name)
	assert.Equal(t, int32(1), client.calls.Load())

	cached, _ := cache.Get("set_details_21330-1")
	assert.JSONEq(t, `{"set_num":"21330-1","name":"Home Alone"}`, string(cached))
}

func TestFetch_FailuresYieldNoData(t *testing.T) {
	tests := map[string]error{
		"offline":    domain.ErrServerOffline,
		"bad status": domain.ErrUnexpectedStatus,
		"auth":       domain.ErrAuthFailed,
	}
	for name, err := range tests {
		t.Run(name, func(t *testing.T) {
			client := newFakeClient()
			client.errs["/themes/"] = err
			cache := store.NewMemoryStore()
			f := NewFetcher(client, cache, nil)

			_, ok := f.Raw(context.Background(), themesRequest())
			assert.False(t, ok)
			_, cached := cache.Get(KeyThemes)
			assert.False(t, cached, "failures must not be cached")
		})
	}
}

func TestFetch_InvalidBodyNotCached(t *testing.T) {
	client := newFakeClient()
	client.responses["/themes/"] = "<html>maintenance</html>"
	cache := store.NewMemoryStore()
	f := NewFetcher(client, cache, nil)

	_, ok := f.Raw(context.Background(), themesRequest())
	assert.False(t, ok)
	_, cached := cache.Get(KeyThemes)
	assert.False(t, cached)
}

func TestFetch_WrongShapeEvicted(t *testing.T) {
	client := newFakeClient()
	client.responses["/sets/1-1/"] = `[1, 2, 3]`
	cache := store.NewMemoryStore()
	f := NewFetcher(client, cache, nil)

	_, ok := fetchJSON[domain.Set](context.Background(), f, setDetailsRequest("1-1"))
	assert.False(t, ok)
	_, cached := cache.Get("set_details_1-1")
	assert.False(t, cached)
}

func TestFetch_ConcurrentCallsSucceed(t *testing.T) {
	client := newFakeClient()
	client.responses["/themes/"] = themesBody
	f := NewFetcher(client, store.NewMemoryStore(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env, ok := fetchJSON[themeEnvelope](context.Background(), f, themesRequest())
			assert.True(t, ok)
			assert.Len(t, env.Results, 3)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, client.calls.Load(), int32(16))
	assert.GreaterOrEqual(t, client.calls.Load(), int32(1))
}

func TestFetch_InvalidateAll(t *testing.T) {
	client := newFakeClient()
	client.responses["/themes/"] = themesBody
	f := NewFetcher(client, store.NewMemoryStore(), nil)

	_, ok := f.Raw(context.Background(), themesRequest())
	require.True(t, ok)
	f.InvalidateAll()
	_, ok = f.Raw(context.Background(), themesRequest())
	require.True(t, ok)

	assert.Equal(t, int32(2), client.calls.Load())
}

// gatedClient holds every request until release is closed and records
// whether the request context was cancelled by then.
type gatedClient struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once

	mu      sync.Mutex
	ctxErrs []error
}

func (c *gatedClient) Get(ctx context.Context, _ string, _ url.Values) ([]byte, error) {
	c.once.Do(func() { close(c.started) })
	<-c.release
	c.mu.Lock()
	c.ctxErrs = append(c.ctxErrs, ctx.Err())
	c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(themesBody), nil
}

func TestFetch_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	client := &gatedClient{started: make(chan struct{}), release: make(chan struct{})}
	f := NewFetcher(client, store.NewMemoryStore(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	firstDone := make(chan bool)
	go func() {
		_, ok := f.Raw(ctx, themesRequest())
		firstDone <- ok
	}()

	<-client.started
	cancel()
	assert.False(t, <-firstDone, "cancelled caller stops waiting")

	close(client.release)
	data, ok := f.Raw(context.Background(), themesRequest())
	require.True(t, ok)
	assert.JSONEq(t, themesBody, string(data))

	client.mu.Lock()
	defer client.mu.Unlock()
	for _, err := range client.ctxErrs {
		assert.NoError(t, err)
	}
}
