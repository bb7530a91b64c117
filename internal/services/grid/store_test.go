package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheet-engine/internal/domain"
	"sheet-engine/pkg/ref"
	"sheet-engine/pkg/richtext"
)

func TestSetGetClonaProfundo(t *testing.T) {
	store := NewStore(DefaultLimits())
	addr := ref.Address{Row: 1, Col: 2}

	rich := richtext.FormattedText{
		Text: "Good morning",
		Runs: []richtext.FormatRun{{Start: 5, End: 12, Format: richtext.CharacterFormat{Bold: richtext.Bool(true)}}},
	}
	cell := &domain.Cell{Value: domain.RichValue(rich)}
	require.NoError(t, store.Set(addr, cell))

	// mutar a célula original não afeta o store
	cell.Value.Rich.Runs[0].Start = 0
	got := store.Get(addr)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.Value.Rich.Runs[0].Start)

	// mutar o clone lido não afeta o store
	got.Value.Rich.Runs[0].End = 1
	again := store.Get(addr)
	assert.Equal(t, 12, again.Value.Rich.Runs[0].End)
}

func TestSetForaDosLimites(t *testing.T) {
	store := NewStore(Limits{MaxRows: 10, MaxCols: 10})
	err := store.Set(ref.Address{Row: 10, Col: 0}, &domain.Cell{Value: domain.NumberValue(1)})
	assert.Error(t, err)
	err = store.Set(ref.Address{Row: -1, Col: 0}, &domain.Cell{Value: domain.NumberValue(1)})
	assert.Error(t, err)
	assert.Zero(t, store.Count())
}

func TestEnumerateRangeOrdemRowMajor(t *testing.T) {
	store := NewStore(DefaultLimits())
	for _, addr := range []ref.Address{{Row: 2, Col: 1}, {Row: 0, Col: 3}, {Row: 0, Col: 1}, {Row: 1, Col: 2}} {
		require.NoError(t, store.Set(addr, &domain.Cell{Value: domain.NumberValue(float64(addr.Row*10 + addr.Col))}))
	}

	entries := store.EnumerateRange(ref.NewRange(0, 0, 2, 3))
	require.Len(t, entries, 4)
	expected := []ref.Address{{Row: 0, Col: 1}, {Row: 0, Col: 3}, {Row: 1, Col: 2}, {Row: 2, Col: 1}}
	for i, e := range entries {
		assert.Equal(t, expected[i], e.Address)
	}
}

func TestClearRange(t *testing.T) {
	store := NewStore(DefaultLimits())
	for r := 0; r < 3; r++ {
		require.NoError(t, store.Set(ref.Address{Row: r, Col: 0}, &domain.Cell{Value: domain.NumberValue(1)}))
	}
	cleared := store.ClearRange(ref.NewRange(0, 0, 1, 0))
	assert.Len(t, cleared, 2)
	assert.Equal(t, 1, store.Count())
	assert.Nil(t, store.Get(ref.Address{Row: 0, Col: 0}))
	assert.NotNil(t, store.Get(ref.Address{Row: 2, Col: 0}))
}

func TestContiguousExtent(t *testing.T) {
	store := NewStore(DefaultLimits())
	for r := 0; r < 5; r++ {
		require.NoError(t, store.Set(ref.Address{Row: r, Col: 0}, &domain.Cell{Value: domain.StringValue("x")}))
	}
	// buraco na linha 5; dados isolados na 7
	require.NoError(t, store.Set(ref.Address{Row: 7, Col: 0}, &domain.Cell{Value: domain.StringValue("x")}))

	assert.Equal(t, 4, store.ContiguousExtent(0, 0))
	assert.Equal(t, 4, store.ContiguousExtent(0, 2))
	assert.Equal(t, 7, store.ContiguousExtent(0, 7))
}
