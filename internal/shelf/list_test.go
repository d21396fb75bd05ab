package shelf

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/brickwork/internal/store"
)

func newBoltStore(t *testing.T) *store.KVStore {
	t.Helper()
	s, err := store.Open(t.TempDir(), store.BucketLists)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestList_EmptyByDefault(t *testing.T) {
	l := NewList(store.NewMemoryStore(), KeyCollection, nil)

	ids := l.GetAll()
	require.NotNil(t, ids)
	assert.Empty(t, ids)
	assert.False(t, l.Has("75192-1"))
}

func TestList_ToggleAppendsInCallOrder(t *testing.T) {
	l := NewList(newBoltStore(t), KeyCollection, nil)

	want := []string{"10497-1", "75192-1", "21330-1", "60316-1"}
	for _, id := range want {
		present, err := l.Toggle(id)
		require.NoError(t, err)
		assert.True(t, present)
	}

	assert.Equal(t, want, l.GetAll())
}

func TestList_ToggleIsItsOwnInverse(t *testing.T) {
	l := NewList(store.NewMemoryStore(), KeyWishlist, nil)
	for _, id := range []string{"a", "b", "c"} {
		_, err := l.Toggle(id)
		require.NoError(t, err)
	}

	present, err := l.Toggle("b")
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, []string{"a", "c"}, l.GetAll())

	present, err = l.Toggle("b")
	require.NoError(t, err)
	assert.True(t, present)
	// Re-added at the end; the others keep their order
	assert.Equal(t, []string{"a", "c", "b"}, l.GetAll())

	// Toggling a new id twice leaves the list unchanged
	before := l.GetAll()
	_, _ = l.Toggle("z")
	_, _ = l.Toggle("z")
	assert.Equal(t, before, l.GetAll())
}

func TestList_ToggleCollapsesDuplicates(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(KeyCollection, []byte(`["a","b","a","c","a"]`)))
	l := NewList(s, KeyCollection, nil)

	present, err := l.Toggle("a")
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, []string{"b", "c"}, l.GetAll())
}

func TestList_Remove(t *testing.T) {
	l := NewList(store.NewMemoryStore(), KeyCollection, nil)
	_, _ = l.Toggle("a")

	require.NoError(t, l.Remove("missing"))
	assert.Equal(t, []string{"a"}, l.GetAll())

	require.NoError(t, l.Remove("a"))
	assert.Empty(t, l.GetAll())

	require.NoError(t, l.Remove("a"))
	assert.Empty(t, l.GetAll())
}

func TestList_CorruptDataReadsEmptyWithoutRepair(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(KeyCollection, []byte("{broken")))
	l := NewList(s, KeyCollection, nil)

	assert.Empty(t, l.GetAll())
	assert.False(t, l.Has("a"))

	raw, ok := s.Get(KeyCollection)
	require.True(t, ok)
	assert.Equal(t, "{broken", string(raw), "reads must not rewrite storage")
}

func TestList_PersistsAsJSONArray(t *testing.T) {
	s := newBoltStore(t)
	l := NewList(s, KeyWishlist, nil)
	_, _ = l.Toggle("10497-1")
	_, _ = l.Toggle("21330-1")

	raw, ok := s.Get(KeyWishlist)
	require.True(t, ok)
	assert.JSONEq(t, `["10497-1","21330-1"]`, string(raw))
}

func TestList_ConcurrentTogglesDoNotLoseUpdates(t *testing.T) {
	s := newBoltStore(t)
	l := NewList(s, KeyCollection, nil)
	other := NewList(s, KeyCollection, nil) // second writer on the same key

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := l
			if i%2 == 1 {
				target = other
			}
			_, err := target.Toggle(fmt.Sprintf("set-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.GetAll(), 50)
}
