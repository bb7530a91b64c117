package fill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheet-engine/internal/domain"
	"sheet-engine/internal/services/grid"
	"sheet-engine/pkg/ref"
	"sheet-engine/pkg/richtext"
)

func newTestService(t *testing.T) (*Service, *grid.Store) {
	t.Helper()
	store := grid.NewStore(grid.DefaultLimits())
	return NewService(store), store
}

func setNumber(t *testing.T, store *grid.Store, row, col int, n float64) {
	t.Helper()
	require.NoError(t, store.Set(ref.Address{Row: row, Col: col}, &domain.Cell{Value: domain.NumberValue(n)}))
}

func TestFillCopiaCelulaUnica(t *testing.T) {
	svc, store := newTestService(t)
	require.NoError(t, store.Set(ref.Address{}, &domain.Cell{Value: domain.StringValue("x")}))

	require.NoError(t, svc.StartDrag(ref.SingleCell(ref.Address{})))
	svc.UpdateDrag(ref.Address{Row: 3, Col: 0})
	written, err := svc.EndDrag()
	require.NoError(t, err)
	assert.Len(t, written, 3)
	for r := 1; r <= 3; r++ {
		got := store.Get(ref.Address{Row: r, Col: 0})
		require.NotNil(t, got, "linha %d", r)
		assert.Equal(t, "x", got.Value.Text)
	}
}

func TestFillProgressaoLinear(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 0, 0, 10)
	setNumber(t, store, 1, 0, 20)

	require.NoError(t, svc.StartDrag(ref.NewRange(0, 0, 1, 0)))
	svc.UpdateDrag(ref.Address{Row: 4, Col: 0})
	_, err := svc.EndDrag()
	require.NoError(t, err)

	assert.Equal(t, 30.0, store.Get(ref.Address{Row: 2, Col: 0}).Value.Number)
	assert.Equal(t, 40.0, store.Get(ref.Address{Row: 3, Col: 0}).Value.Number)
	assert.Equal(t, 50.0, store.Get(ref.Address{Row: 4, Col: 0}).Value.Number)
}

func TestFillProgressaoParaCima(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 5, 0, 10)
	setNumber(t, store, 6, 0, 20)

	require.NoError(t, svc.StartDrag(ref.NewRange(5, 0, 6, 0)))
	svc.UpdateDrag(ref.Address{Row: 3, Col: 0})
	_, err := svc.EndDrag()
	require.NoError(t, err)

	assert.Equal(t, 0.0, store.Get(ref.Address{Row: 4, Col: 0}).Value.Number)
	assert.Equal(t, -10.0, store.Get(ref.Address{Row: 3, Col: 0}).Value.Number)
}

func TestFillHorizontalProgressao(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 0, 0, 1)
	setNumber(t, store, 0, 1, 2)

	require.NoError(t, svc.StartDrag(ref.NewRange(0, 0, 0, 1)))
	svc.UpdateDrag(ref.Address{Row: 0, Col: 4})
	_, err := svc.EndDrag()
	require.NoError(t, err)

	assert.Equal(t, 3.0, store.Get(ref.Address{Row: 0, Col: 2}).Value.Number)
	assert.Equal(t, 5.0, store.Get(ref.Address{Row: 0, Col: 4}).Value.Number)
}

func TestFillPadraoNaoNumerico(t *testing.T) {
	svc, store := newTestService(t)
	require.NoError(t, store.Set(ref.Address{Row: 0, Col: 0}, &domain.Cell{Value: domain.StringValue("a")}))
	require.NoError(t, store.Set(ref.Address{Row: 1, Col: 0}, &domain.Cell{Value: domain.StringValue("b")}))

	require.NoError(t, svc.StartDrag(ref.NewRange(0, 0, 1, 0)))
	svc.UpdateDrag(ref.Address{Row: 5, Col: 0})
	_, err := svc.EndDrag()
	require.NoError(t, err)

	assert.Equal(t, "a", store.Get(ref.Address{Row: 2, Col: 0}).Value.Text)
	assert.Equal(t, "b", store.Get(ref.Address{Row: 3, Col: 0}).Value.Text)
	assert.Equal(t, "a", store.Get(ref.Address{Row: 4, Col: 0}).Value.Text)
}

func TestFillPreservaFormattedText(t *testing.T) {
	svc, store := newTestService(t)
	rich := richtext.FormattedText{
		Text: "Good morning",
		Runs: []richtext.FormatRun{{Start: 5, End: 12, Format: richtext.CharacterFormat{Bold: richtext.Bool(true)}}},
	}
	require.NoError(t, store.Set(ref.Address{}, &domain.Cell{Value: domain.RichValue(rich)}))

	require.NoError(t, svc.StartDrag(ref.SingleCell(ref.Address{})))
	svc.UpdateDrag(ref.Address{Row: 3, Col: 0})
	_, err := svc.EndDrag()
	require.NoError(t, err)

	for r := 1; r <= 3; r++ {
		got := store.Get(ref.Address{Row: r, Col: 0})
		require.NotNil(t, got)
		require.NotNil(t, got.Value.Rich)
		require.Len(t, got.Value.Rich.Runs, 1)
		assert.Equal(t, 5, got.Value.Rich.Runs[0].Start)
		assert.Equal(t, 12, got.Value.Rich.Runs[0].End)
	}

	// mutar um alvo não altera a origem nem os irmãos
	mutated := store.Get(ref.Address{Row: 1, Col: 0})
	mutated.Value.Rich.Runs[0].Start = 0
	require.NoError(t, store.Set(ref.Address{Row: 1, Col: 0}, mutated))

	assert.Equal(t, 5, store.Get(ref.Address{}).Value.Rich.Runs[0].Start)
	assert.Equal(t, 5, store.Get(ref.Address{Row: 2, Col: 0}).Value.Rich.Runs[0].Start)
}

func TestFillArrastoDentroDaOrigemNaoEscreve(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 0, 0, 1)

	require.NoError(t, svc.StartDrag(ref.SingleCell(ref.Address{})))
	svc.UpdateDrag(ref.Address{Row: 0, Col: 0})
	written, err := svc.EndDrag()
	require.NoError(t, err)
	assert.Empty(t, written)
	assert.Equal(t, 1, store.Count())
}

func TestAutoFillSegueColunaVizinha(t *testing.T) {
	svc, store := newTestService(t)
	// coluna A com cinco linhas de dados contíguos
	for r := 0; r < 5; r++ {
		setNumber(t, store, r, 0, float64(r))
	}
	// origem: B1:B2 com progressão
	setNumber(t, store, 0, 1, 10)
	setNumber(t, store, 1, 1, 20)

	written, err := svc.AutoFill(ref.NewRange(0, 1, 1, 1))
	require.NoError(t, err)
	assert.Len(t, written, 3)
	assert.Equal(t, 30.0, store.Get(ref.Address{Row: 2, Col: 1}).Value.Number)
	assert.Equal(t, 50.0, store.Get(ref.Address{Row: 4, Col: 1}).Value.Number)
	// não passa da extensão do vizinho
	assert.Nil(t, store.Get(ref.Address{Row: 5, Col: 1}))
}

func TestAutoFillSemVizinhoNaoFazNada(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 0, 1, 10)

	written, err := svc.AutoFill(ref.NewRange(0, 1, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, written)
	assert.Equal(t, 1, store.Count())
}

func TestEndDragSemStartFalha(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.EndDrag()
	assert.Error(t, err)
}
