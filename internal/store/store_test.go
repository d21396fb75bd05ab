package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*KVStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir, BucketLists)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	s, err := Open(dir, BucketLists)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, dbFileName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, dbFileName), s.Path())
}

func TestOpen_EmptyDirIsMemoryOnly(t *testing.T) {
	s, err := Open("", BucketLists)
	require.NoError(t, err)
	assert.Empty(t, s.Path())

	require.NoError(t, s.Set("k", []byte("v")))
	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", string(got))
	assert.NoError(t, s.Close())
}

func TestGetSetDelete(t *testing.T) {
	for name, s := range map[string]*KVStore{
		"memory": NewMemoryStore(),
		"bolt":   func() *KVStore { s, _ := openTestStore(t); return s }(),
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := s.Get("missing")
			assert.False(t, ok)

			require.NoError(t, s.Set("collection", []byte(`["75192-1"]`)))
			got, ok := s.Get("collection")
			require.True(t, ok)
			assert.JSONEq(t, `["75192-1"]`, string(got))

			require.NoError(t, s.Delete("collection"))
			_, ok = s.Get("collection")
			assert.False(t, ok)

			// Deleting an absent key is a no-op
			require.NoError(t, s.Delete("collection"))
		})
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("k", []byte("abc")))

	got, _ := s.Get("k")
	got[0] = 'z'

	again, _ := s.Get("k")
	assert.Equal(t, "abc", string(again))
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, BucketLists)
	require.NoError(t, err)
	require.NoError(t, s.Set("wishlist", []byte(`["10497-1","21330-1"]`)))
	require.NoError(t, s.Close())

	reopened, err := Open(dir, BucketLists)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.Get("wishlist")
	require.True(t, ok)
	assert.JSONEq(t, `["10497-1","21330-1"]`, string(got))
}

func TestUpdate_ReadModifyWrite(t *testing.T) {
	s, _ := openTestStore(t)

	appendByte := func(current []byte) ([]byte, error) {
		return append(current, 'x'), nil
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Update("k", appendByte))
	}

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "xxx", string(got))
}

func TestUpdate_ErrorLeavesValueUntouched(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.Set("k", []byte("before")))

	boom := errors.New("boom")
	err := s.Update("k", func([]byte) ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "before", string(got))
}

func TestClear(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.Set("a", []byte("1")))
	require.NoError(t, s.Set("b", []byte("2")))

	require.NoError(t, s.Clear())
	_, ok := s.Get("a")
	assert.False(t, ok)
	_, ok = s.Get("b")
	assert.False(t, ok)

	// Bucket is usable after clearing
	require.NoError(t, s.Set("c", []byte("3")))
	got, ok := s.Get("c")
	require.True(t, ok)
	assert.Equal(t, "3", string(got))
}

func TestDelete_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, BucketLists)
	require.NoError(t, err)
	require.NoError(t, s.Set("wishlist", []byte(`["10497-1"]`)))
	require.NoError(t, s.Delete("wishlist"))
	require.NoError(t, s.Close())

	reopened, err := Open(dir, BucketLists)
	require.NoError(t, err)
	defer reopened.Close()
	_, ok := reopened.Get("wishlist")
	assert.False(t, ok)
}

func TestDeleteAndClear_ReportDiskErrors(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.Set("collection", []byte(`["75192-1"]`)))
	require.NoError(t, s.Close())

	assert.Error(t, s.Delete("collection"))
	assert.Error(t, s.Clear())

	// The memory copy is gone even when the disk write failed
	_, ok := s.Get("collection")
	assert.False(t, ok)
}
