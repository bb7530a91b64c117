package domain

import (
	"strconv"

	"github.com/mohae/deepcopy"

	"sheet-engine/pkg/richtext"
)

// ValueType discrimina as variantes de CellValue
type ValueType int

const (
	ValueEmpty ValueType = iota
	ValueNumber
	ValueBoolean
	ValueString
	ValueFormula
	ValueError
	ValueRichText
)

// CellValue é a união etiquetada de valores possíveis de uma célula.
// Apenas os campos da variante ativa são significativos.
type CellValue struct {
	Type    ValueType
	Number  float64
	Boolean bool
	Text    string // valor string ou código de erro (#DIV/0!)
	Formula string // fonte da fórmula, começando com =
	// Resultado avaliado mais recente da fórmula, quando houver
	FormulaResult *CellValue
	Rich          *richtext.FormattedText
}

func EmptyValue() CellValue {
	return CellValue{Type: ValueEmpty}
}

func NumberValue(n float64) CellValue {
	return CellValue{Type: ValueNumber, Number: n}
}

func BoolValue(b bool) CellValue {
	return CellValue{Type: ValueBoolean, Boolean: b}
}

func StringValue(s string) CellValue {
	return CellValue{Type: ValueString, Text: s}
}

func FormulaValue(src string, result *CellValue) CellValue {
	return CellValue{Type: ValueFormula, Formula: src, FormulaResult: result}
}

func ErrorValue(code string) CellValue {
	return CellValue{Type: ValueError, Text: code}
}

func RichValue(ft richtext.FormattedText) CellValue {
	clone := ft.Clone()
	return CellValue{Type: ValueRichText, Rich: &clone}
}

// IsEmpty informa se o valor conta como vazio para skip-blanks
func (v CellValue) IsEmpty() bool {
	switch v.Type {
	case ValueEmpty:
		return true
	case ValueString:
		return v.Text == ""
	case ValueRichText:
		return v.Rich == nil || v.Rich.Text == ""
	}
	return false
}

// Display devolve a representação textual do valor. Células com fórmula
// emitem o resultado avaliado, como na serialização de clipboard.
func (v CellValue) Display() string {
	switch v.Type {
	case ValueEmpty:
		return ""
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueBoolean:
		if v.Boolean {
			return "TRUE"
		}
		return "FALSE"
	case ValueString, ValueError:
		return v.Text
	case ValueFormula:
		if v.FormulaResult != nil {
			return v.FormulaResult.Display()
		}
		return v.Formula
	case ValueRichText:
		if v.Rich != nil {
			return v.Rich.Text
		}
	}
	return ""
}

// Evaluated devolve o valor efetivo: o resultado em cache para fórmulas,
// o próprio valor caso contrário.
func (v CellValue) Evaluated() CellValue {
	if v.Type == ValueFormula {
		if v.FormulaResult != nil {
			return *v.FormulaResult
		}
		return EmptyValue()
	}
	return v
}

// ToNumber coage o valor para número; não numérico vira 0
func (v CellValue) ToNumber() float64 {
	e := v.Evaluated()
	switch e.Type {
	case ValueNumber:
		return e.Number
	case ValueBoolean:
		if e.Boolean {
			return 1
		}
		return 0
	case ValueString:
		if n, err := strconv.ParseFloat(e.Text, 64); err == nil {
			return n
		}
	case ValueRichText:
		if e.Rich != nil {
			if n, err := strconv.ParseFloat(e.Rich.Text, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

// CellFormat é a formatação em nível de célula. Campos com valor zero
// ficam de fora da emissão de estilo.
type CellFormat struct {
	Bold            bool
	Italic          bool
	Underline       int
	FontFamily      string
	FontSize        float64 // pontos
	FontColor       string
	BackgroundColor string
	HorizontalAlign string // left, center, right
}

// IsZero informa se nenhum atributo de formatação está definido
func (f CellFormat) IsZero() bool {
	return f == CellFormat{}
}

// BorderStyle descreve uma borda individual
type BorderStyle struct {
	Style string // thin, medium, thick, dashed
	Color string
}

// Borders agrupa as quatro bordas da célula
type Borders struct {
	Top    *BorderStyle
	Bottom *BorderStyle
	Left   *BorderStyle
	Right  *BorderStyle
}

// MergeSpec registra a extensão de mesclagem a partir da célula âncora
type MergeSpec struct {
	RowSpan int
	ColSpan int
}

// Cell é a unidade armazenada no grid. A posse é exclusiva do
// SparseCellStore; consumidores recebem clones profundos.
type Cell struct {
	Value     CellValue
	Format    *CellFormat
	Borders   *Borders
	Merge     *MergeSpec
	Hyperlink string
	Comment   string
	Dirty     bool
}

// Clone devolve uma cópia profunda da célula
func (c *Cell) Clone() *Cell {
	if c == nil {
		return nil
	}
	return deepcopy.Copy(c).(*Cell)
}

// IsBlank informa se a célula conta como vazia para skip-blanks
func (c *Cell) IsBlank() bool {
	return c == nil || c.Value.IsEmpty()
}
