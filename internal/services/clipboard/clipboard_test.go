package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheet-engine/internal/domain"
	"sheet-engine/internal/services/grid"
	apperrors "sheet-engine/pkg/errors"
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

func setString(t *testing.T, store *grid.Store, row, col int, s string) {
	t.Helper()
	require.NoError(t, store.Set(ref.Address{Row: row, Col: col}, &domain.Cell{Value: domain.StringValue(s)}))
}

func TestPasteSemClipboard(t *testing.T) {
	svc, _ := newTestService(t)
	res := svc.Paste(ref.Address{}, PasteOptions{})
	require.False(t, res.Success)
	assert.True(t, errors.Is(res.Error, apperrors.NoClipboardData("")))
}

func TestCopyCapturaComDeslocamentos(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 2, 3, 1)
	setNumber(t, store, 3, 4, 2)

	data, err := svc.Copy(ref.NewRange(2, 3, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 2, data.Rows)
	assert.Equal(t, 2, data.Cols)
	require.Len(t, data.Cells, 2)
	assert.Equal(t, 0, data.Cells[0].RowOffset)
	assert.Equal(t, 0, data.Cells[0].ColOffset)
	assert.Equal(t, ref.Address{Row: 2, Col: 3}, data.Cells[0].OriginalAddress)
	assert.Equal(t, 1, data.Cells[1].RowOffset)
	assert.Equal(t, 1, data.Cells[1].ColOffset)
	assert.False(t, data.IsMultiRange)
}

func TestCopyMultiRangeDeduplica(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 0, 0, 1)
	setNumber(t, store, 1, 1, 2)

	data, err := svc.Copy(ref.NewRange(0, 0, 1, 1), ref.NewRange(1, 1, 1, 1))
	require.NoError(t, err)
	assert.True(t, data.IsMultiRange)
	assert.Len(t, data.Cells, 2)
}

func TestCopyRangeInvalido(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Copy(ref.Range{StartRow: -2, StartCol: 0, EndRow: 0, EndCol: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.InvalidRange("")))
}

func TestDeepCloneIsolaOrigem(t *testing.T) {
	svc, store := newTestService(t)
	rich := richtext.FormattedText{
		Text: "Good morning",
		Runs: []richtext.FormatRun{{Start: 5, End: 12, Format: richtext.CharacterFormat{Bold: richtext.Bool(true)}}},
	}
	require.NoError(t, store.Set(ref.Address{}, &domain.Cell{Value: domain.RichValue(rich)}))

	data, err := svc.Copy(ref.SingleCell(ref.Address{}))
	require.NoError(t, err)
	data.Cells[0].Cell.Value.Rich.Runs[0].Start = 0

	fresh := store.Get(ref.Address{})
	assert.Equal(t, 5, fresh.Value.Rich.Runs[0].Start)
}

func TestPasteValuesComDivisao(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 10, 0, 3)
	setNumber(t, store, 5, 5, 10)

	_, err := svc.Copy(ref.SingleCell(ref.Address{Row: 10, Col: 0}))
	require.NoError(t, err)

	res := svc.Paste(ref.Address{Row: 5, Col: 5}, PasteOptions{Type: PasteValues, Operation: OpDivide})
	require.True(t, res.Success)
	got := store.Get(ref.Address{Row: 5, Col: 5})
	require.NotNil(t, got)
	assert.InDelta(t, 10.0/3.0, got.Value.Number, 1e-9)

	// origem zerada: a divisão grava a string literal #DIV/0!
	setNumber(t, store, 10, 0, 0)
	_, err = svc.Copy(ref.SingleCell(ref.Address{Row: 10, Col: 0}))
	require.NoError(t, err)
	res = svc.Paste(ref.Address{Row: 5, Col: 5}, PasteOptions{Type: PasteValues, Operation: OpDivide})
	require.True(t, res.Success)
	got = store.Get(ref.Address{Row: 5, Col: 5})
	assert.Equal(t, domain.ValueString, got.Value.Type)
	assert.Equal(t, "#DIV/0!", got.Value.Text)
}

func TestPasteValuesLimpaFormulaDoAlvo(t *testing.T) {
	svc, store := newTestService(t)
	result := domain.NumberValue(42)
	require.NoError(t, store.Set(ref.Address{Row: 0, Col: 0}, &domain.Cell{Value: domain.FormulaValue("=SUM(B1:B9)", &result)}))
	setNumber(t, store, 5, 5, 7)

	_, err := svc.Copy(ref.SingleCell(ref.Address{Row: 0, Col: 0}))
	require.NoError(t, err)
	res := svc.Paste(ref.Address{Row: 5, Col: 5}, PasteOptions{Type: PasteValues})
	require.True(t, res.Success)

	got := store.Get(ref.Address{Row: 5, Col: 5})
	assert.Equal(t, domain.ValueNumber, got.Value.Type)
	assert.Equal(t, 42.0, got.Value.Number)
	assert.Empty(t, got.Value.Formula)
}

func TestPasteReancoraFormula(t *testing.T) {
	svc, store := newTestService(t)
	require.NoError(t, store.Set(ref.Address{}, &domain.Cell{Value: domain.FormulaValue("=SUM(A1:B2)", nil)}))

	_, err := svc.Copy(ref.SingleCell(ref.Address{}))
	require.NoError(t, err)
	res := svc.Paste(ref.Address{Row: 3, Col: 3}, PasteOptions{})
	require.True(t, res.Success)

	got := store.Get(ref.Address{Row: 3, Col: 3})
	require.NotNil(t, got)
	assert.Equal(t, "=SUM(D4:E5)", got.Value.Formula)
	assert.True(t, got.Dirty)

	// a origem permanece intacta
	src := store.Get(ref.Address{})
	assert.Equal(t, "=SUM(A1:B2)", src.Value.Formula)
}

func TestAdjustFormulaAncorasEStrings(t *testing.T) {
	assert.Equal(t, "=$A$1+B2", AdjustFormula("=$A$1+B1", 1, 0))
	assert.Equal(t, "=$A2+B$1", AdjustFormula("=$A1+A$1", 1, 1))
	// referência dentro de literal não é reescrita
	assert.Equal(t, `=CONCAT("A1",B2)`, AdjustFormula(`=CONCAT("A1",B1)`, 1, 0))
	// deslocamento negativo é limitado ao domínio
	assert.Equal(t, "=A1", AdjustFormula("=B2", -5, -5))
	// não fórmula passa intacta
	assert.Equal(t, "texto", AdjustFormula("texto", 1, 1))
}

func TestAdjustFormulaIdaEVolta(t *testing.T) {
	formulas := []string{
		"=SUM(A1:B2)",
		"=IF(C3>0,SUM(D4:D9),0)",
		"=$A$1+B2*3",
	}
	for _, f := range formulas {
		shifted := AdjustFormula(f, 7, 5)
		back := AdjustFormula(shifted, -7, -5)
		assert.Equal(t, f, back, "ida e volta de %q", f)
	}
}

func TestPasteTranspose(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 0, 0, 1)
	setNumber(t, store, 0, 1, 2)
	setNumber(t, store, 1, 0, 3)

	_, err := svc.Copy(ref.NewRange(0, 0, 1, 1))
	require.NoError(t, err)
	res := svc.Paste(ref.Address{Row: 10, Col: 10}, PasteOptions{Type: PasteTranspose})
	require.True(t, res.Success)

	assert.Equal(t, 1.0, store.Get(ref.Address{Row: 10, Col: 10}).Value.Number)
	assert.Equal(t, 2.0, store.Get(ref.Address{Row: 11, Col: 10}).Value.Number)
	assert.Equal(t, 3.0, store.Get(ref.Address{Row: 10, Col: 11}).Value.Number)
}

func TestPasteSkipBlanks(t *testing.T) {
	svc, store := newTestService(t)
	setString(t, store, 0, 0, "a")
	setString(t, store, 1, 0, "") // vazia conta como blank
	setString(t, store, 10, 0, "sobrescrita")
	setString(t, store, 11, 0, "mantida")

	_, err := svc.Copy(ref.NewRange(0, 0, 1, 0))
	require.NoError(t, err)

	res := svc.Paste(ref.Address{Row: 10, Col: 0}, PasteOptions{SkipBlanks: true})
	require.True(t, res.Success)
	assert.Equal(t, "a", store.Get(ref.Address{Row: 10, Col: 0}).Value.Text)
	assert.Equal(t, "mantida", store.Get(ref.Address{Row: 11, Col: 0}).Value.Text)
}

func TestPasteFormatsSoCopiaFormatacao(t *testing.T) {
	svc, store := newTestService(t)
	require.NoError(t, store.Set(ref.Address{}, &domain.Cell{
		Value:  domain.StringValue("origem"),
		Format: &domain.CellFormat{Bold: true, BackgroundColor: "#FFFF00"},
	}))
	setString(t, store, 5, 0, "alvo")

	_, err := svc.Copy(ref.SingleCell(ref.Address{}))
	require.NoError(t, err)
	res := svc.Paste(ref.Address{Row: 5, Col: 0}, PasteOptions{Type: PasteFormats})
	require.True(t, res.Success)

	got := store.Get(ref.Address{Row: 5, Col: 0})
	assert.Equal(t, "alvo", got.Value.Text)
	require.NotNil(t, got.Format)
	assert.True(t, got.Format.Bold)
}

func TestPasteLinkReservado(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 0, 0, 1)
	_, err := svc.Copy(ref.SingleCell(ref.Address{}))
	require.NoError(t, err)

	res := svc.Paste(ref.Address{Row: 5, Col: 5}, PasteOptions{Type: PasteLink})
	require.False(t, res.Success)
	assert.Nil(t, store.Get(ref.Address{Row: 5, Col: 5}))
}

func TestCutAtomicoEConsumidoUmaVez(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 0, 0, 1)
	setNumber(t, store, 0, 1, 2)

	var cutBox *ref.Range
	svc.OnCutComplete(func(source ref.Range) { cutBox = &source })

	_, err := svc.Cut(ref.NewRange(0, 0, 0, 1))
	require.NoError(t, err)

	// antes da colagem a origem está intacta
	require.NotNil(t, store.Get(ref.Address{}))

	res := svc.Paste(ref.Address{Row: 5, Col: 5}, PasteOptions{})
	require.True(t, res.Success)

	// origem limpa, destino povoado
	assert.Nil(t, store.Get(ref.Address{Row: 0, Col: 0}))
	assert.Nil(t, store.Get(ref.Address{Row: 0, Col: 1}))
	assert.Equal(t, 1.0, store.Get(ref.Address{Row: 5, Col: 5}).Value.Number)
	assert.Equal(t, 2.0, store.Get(ref.Address{Row: 5, Col: 6}).Value.Number)
	require.NotNil(t, cutBox)
	assert.Equal(t, "A1:B1", cutBox.String())

	// segunda colagem: erro específico, sem mutação
	res = svc.Paste(ref.Address{Row: 8, Col: 8}, PasteOptions{})
	require.False(t, res.Success)
	assert.True(t, errors.Is(res.Error, apperrors.CutAlreadyConsumed("")))
	assert.Nil(t, store.Get(ref.Address{Row: 8, Col: 8}))
}

func TestPasteToRangeRepetePadrao(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 0, 0, 1)
	setNumber(t, store, 1, 0, 2)

	_, err := svc.Copy(ref.NewRange(0, 0, 1, 0))
	require.NoError(t, err)

	res := svc.PasteToRange(ref.NewRange(10, 0, 15, 0), PasteOptions{})
	require.True(t, res.Success)
	for i, want := range []float64{1, 2, 1, 2, 1, 2} {
		got := store.Get(ref.Address{Row: 10 + i, Col: 0})
		require.NotNil(t, got, "linha %d", 10+i)
		assert.Equal(t, want, got.Value.Number)
	}
}

func TestSerializacaoPlainText(t *testing.T) {
	svc, store := newTestService(t)
	setString(t, store, 0, 0, "a")
	setNumber(t, store, 0, 1, 2)
	result := domain.NumberValue(7)
	require.NoError(t, store.Set(ref.Address{Row: 1, Col: 0}, &domain.Cell{Value: domain.FormulaValue("=SUM(A1)", &result)}))

	data, err := svc.Copy(ref.NewRange(0, 0, 1, 1))
	require.NoError(t, err)

	// fórmula emite o resultado avaliado; sem quebra final
	assert.Equal(t, "a\t2\n7\t", data.PlainText)
}

func TestSerializacaoHTML(t *testing.T) {
	svc, store := newTestService(t)
	require.NoError(t, store.Set(ref.Address{}, &domain.Cell{
		Value:  domain.StringValue("<b> & 'x'"),
		Format: &domain.CellFormat{Bold: true, FontSize: 12, HorizontalAlign: "center"},
	}))

	data, err := svc.Copy(ref.SingleCell(ref.Address{}))
	require.NoError(t, err)

	assert.Contains(t, data.HTML, "<table><tr><td ")
	assert.Contains(t, data.HTML, "font-weight:bold")
	assert.Contains(t, data.HTML, "font-size:12pt")
	assert.Contains(t, data.HTML, "text-align:center")
	assert.Contains(t, data.HTML, "&lt;b&gt;")
	assert.NotContains(t, data.HTML, "<b> &")
}

func TestPasteExternalCoercao(t *testing.T) {
	svc, store := newTestService(t)

	res := svc.PasteExternal("1.5\tTRUE\ttexto\r\n\tfalse", ref.Address{Row: 0, Col: 0})
	require.True(t, res.Success)

	assert.Equal(t, domain.ValueNumber, store.Get(ref.Address{Row: 0, Col: 0}).Value.Type)
	assert.Equal(t, 1.5, store.Get(ref.Address{Row: 0, Col: 0}).Value.Number)
	assert.Equal(t, domain.ValueBoolean, store.Get(ref.Address{Row: 0, Col: 1}).Value.Type)
	assert.Equal(t, domain.ValueString, store.Get(ref.Address{Row: 0, Col: 2}).Value.Type)
	assert.Equal(t, domain.ValueEmpty, store.Get(ref.Address{Row: 1, Col: 0}).Value.Type)
	assert.False(t, store.Get(ref.Address{Row: 1, Col: 1}).Value.Boolean)
}

type failingClipboard struct{}

func (failingClipboard) Read() (string, string, error) {
	return "", "", errors.New("sem suporte")
}

func (failingClipboard) Write(string, string) error {
	return errors.New("sem suporte")
}

func TestHostSemSuporteNaoPropaga(t *testing.T) {
	svc, store := newTestService(t)
	svc.SetSystemClipboard(failingClipboard{})

	assert.Nil(t, svc.ReadExternal())

	// a escrita falha em silêncio e a captura local funciona
	setNumber(t, store, 0, 0, 1)
	_, err := svc.Copy(ref.SingleCell(ref.Address{}))
	assert.NoError(t, err)
}

func TestEventosDeClipboard(t *testing.T) {
	svc, store := newTestService(t)
	setNumber(t, store, 0, 0, 1)

	var changes []*Data
	svc.OnClipboardChange(func(d *Data) { changes = append(changes, d) })
	var pastes int
	svc.OnPaste(func(ref.Range, []ref.Address) { pastes++ })

	_, err := svc.Copy(ref.SingleCell(ref.Address{}))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.NotNil(t, changes[0])

	res := svc.Paste(ref.Address{Row: 3, Col: 3}, PasteOptions{})
	require.True(t, res.Success)
	assert.Equal(t, 1, pastes)

	svc.Clear()
	require.Len(t, changes, 2)
	assert.Nil(t, changes[1])
}
