package shelf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/brickwork/internal/domain"
)

type fakeDetails map[string]domain.Set

func (f fakeDetails) SetDetails(_ context.Context, setNum string) (domain.Set, bool) {
	if setNum == "slow-1" {
		time.Sleep(30 * time.Millisecond)
	}
	s, ok := f[setNum]
	return s, ok
}

var detailFixtures = fakeDetails{
	"slow-1": {SetNum: "slow-1", Name: "Castle", Year: 1984, NumParts: 767, ThemeName: "Castle"},
	"b-1":    {SetNum: "b-1", Name: "Falcon", Year: 2017, NumParts: 7541, ThemeName: "Star Wars"},
	"c-1":    {SetNum: "c-1", Name: "Police", Year: 2022, NumParts: 668, ThemeName: "City"},
}

func TestLoadEntries_KeepsOrderAndDropsMissing(t *testing.T) {
	entries := LoadEntries(context.Background(), detailFixtures, []string{"slow-1", "gone-1", "b-1", "c-1"})

	require.Len(t, entries, 3)
	assert.Equal(t, "slow-1", entries[0].SetNum)
	assert.Equal(t, 0, entries[0].AddedIndex)
	assert.Equal(t, "b-1", entries[1].SetNum)
	assert.Equal(t, 2, entries[1].AddedIndex)
	assert.Equal(t, "c-1", entries[2].SetNum)
	assert.Equal(t, 3, entries[2].AddedIndex)
}

func TestView_SortModes(t *testing.T) {
	entries := LoadEntries(context.Background(), detailFixtures, []string{"slow-1", "b-1", "c-1"})

	ids := func(es []Entry) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = e.SetNum
		}
		return out
	}

	assert.Equal(t, []string{"c-1", "b-1", "slow-1"}, ids(View(entries, ThemeAll, SortAddedDesc)))
	assert.Equal(t, []string{"slow-1", "b-1", "c-1"}, ids(View(entries, ThemeAll, SortAddedAsc)))
	assert.Equal(t, []string{"c-1", "b-1", "slow-1"}, ids(View(entries, ThemeAll, SortYearDesc)))
	assert.Equal(t, []string{"slow-1", "b-1", "c-1"}, ids(View(entries, ThemeAll, SortYearAsc)))
	assert.Equal(t, []string{"b-1", "slow-1", "c-1"}, ids(View(entries, ThemeAll, SortPartsDesc)))
	assert.Equal(t, []string{"c-1", "slow-1", "b-1"}, ids(View(entries, "", SortPartsAsc)))

	// Unknown mode keeps list order
	assert.Equal(t, []string{"slow-1", "b-1", "c-1"}, ids(View(entries, ThemeAll, "")))

	// Input untouched
	assert.Equal(t, []string{"slow-1", "b-1", "c-1"}, ids(entries))
}

func TestView_ThemeFilter(t *testing.T) {
	entries := LoadEntries(context.Background(), detailFixtures, []string{"slow-1", "b-1", "c-1"})

	got := View(entries, "City", SortAddedAsc)
	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].SetNum)

	assert.Empty(t, View(entries, "Ninjago", SortAddedAsc))
	assert.Equal(t, []string{"Castle", "City", "Star Wars"}, ThemeNames(entries))
}

func TestParseSortMode(t *testing.T) {
	m, ok := ParseSortMode("parts-desc")
	require.True(t, ok)
	assert.Equal(t, SortPartsDesc, m)

	_, ok = ParseSortMode("price")
	assert.False(t, ok)
}
