package ref

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Address identifica uma célula por linha e coluna, ambas zero-indexadas.
type Address struct {
	Row int
	Col int
}

// Range é um retângulo de células, inclusivo nas duas pontas.
type Range struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Reference é uma referência A1 decomposta, com as âncoras preservadas.
type Reference struct {
	Row    int
	Col    int
	AbsRow bool
	AbsCol bool
}

// ColumnName converte índice de coluna zero-indexado para letras (0=A, 26=AA)
func ColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return ""
	}
	return name
}

// ColumnIndex converte letras de coluna para índice zero-indexado (A=0, AA=26)
func ColumnIndex(name string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.ToUpper(name))
	if err != nil {
		return 0, fmt.Errorf("coluna inválida %q: %w", name, err)
	}
	return n - 1, nil
}

// FormatA1 formata um endereço como referência A1 relativa
func FormatA1(addr Address) string {
	cell, err := excelize.CoordinatesToCellName(addr.Col+1, addr.Row+1)
	if err != nil {
		return ""
	}
	return cell
}

// ParseA1 interpreta uma referência A1, aceitando âncoras $
func ParseA1(s string) (Address, error) {
	r, err := ParseReference(s)
	if err != nil {
		return Address{}, err
	}
	return Address{Row: r.Row, Col: r.Col}, nil
}

// ParseReference interpreta uma referência A1 preservando as âncoras.
// O excelize não aceita $ em CellNameToCoordinates, então as âncoras são
// extraídas antes da conversão.
func ParseReference(s string) (Reference, error) {
	var r Reference
	rest := s
	if strings.HasPrefix(rest, "$") {
		r.AbsCol = true
		rest = rest[1:]
	}
	i := 0
	for i < len(rest) && isColLetter(rest[i]) {
		i++
	}
	if i == 0 {
		return Reference{}, fmt.Errorf("referência inválida %q", s)
	}
	colName := rest[:i]
	rest = rest[i:]
	if strings.HasPrefix(rest, "$") {
		r.AbsRow = true
		rest = rest[1:]
	}
	if rest == "" {
		return Reference{}, fmt.Errorf("referência inválida %q", s)
	}
	row := 0
	for _, ch := range rest {
		if ch < '0' || ch > '9' {
			return Reference{}, fmt.Errorf("referência inválida %q", s)
		}
		row = row*10 + int(ch-'0')
	}
	if row < 1 {
		return Reference{}, fmt.Errorf("referência inválida %q", s)
	}
	col, err := ColumnIndex(colName)
	if err != nil {
		return Reference{}, err
	}
	r.Col = col
	r.Row = row - 1
	return r, nil
}

func isColLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// String formata a referência com as âncoras originais
func (r Reference) String() string {
	var sb strings.Builder
	if r.AbsCol {
		sb.WriteByte('$')
	}
	sb.WriteString(ColumnName(r.Col))
	if r.AbsRow {
		sb.WriteByte('$')
	}
	fmt.Fprintf(&sb, "%d", r.Row+1)
	return sb.String()
}

// Shift desloca os componentes relativos da referência. Componentes
// ancorados passam intactos; o resultado é limitado ao domínio válido.
func (r Reference) Shift(rowDelta, colDelta int) Reference {
	out := r
	if !r.AbsCol {
		out.Col = r.Col + colDelta
		if out.Col < 0 {
			out.Col = 0
		}
	}
	if !r.AbsRow {
		out.Row = r.Row + rowDelta
		if out.Row < 0 {
			out.Row = 0
		}
	}
	return out
}

// Address devolve o endereço sem âncoras
func (r Reference) Address() Address {
	return Address{Row: r.Row, Col: r.Col}
}

// IsReference informa se o token tem a forma de uma referência A1
func IsReference(token string) bool {
	_, err := ParseReference(token)
	return err == nil
}

// NewRange constrói um range normalizado a partir de dois cantos
func NewRange(r1, c1, r2, c2 int) Range {
	return Range{
		StartRow: min(r1, r2),
		StartCol: min(c1, c2),
		EndRow:   max(r1, r2),
		EndCol:   max(c1, c2),
	}
}

// SingleCell constrói um range de uma única célula
func SingleCell(addr Address) Range {
	return Range{StartRow: addr.Row, StartCol: addr.Col, EndRow: addr.Row, EndCol: addr.Col}
}

// Normalize garante start ≤ end nos dois eixos
func (rg Range) Normalize() Range {
	return NewRange(rg.StartRow, rg.StartCol, rg.EndRow, rg.EndCol)
}

// IsNormalized informa se o range já está com start ≤ end
func (rg Range) IsNormalized() bool {
	return rg.StartRow <= rg.EndRow && rg.StartCol <= rg.EndCol
}

// IsValid informa se o range cabe no domínio de endereços
func (rg Range) IsValid() bool {
	return rg.StartRow >= 0 && rg.StartCol >= 0 && rg.IsNormalized()
}

// Rows devolve a quantidade de linhas do range
func (rg Range) Rows() int {
	return rg.EndRow - rg.StartRow + 1
}

// Cols devolve a quantidade de colunas do range
func (rg Range) Cols() int {
	return rg.EndCol - rg.StartCol + 1
}

// Contains informa se o endereço está dentro do range
func (rg Range) Contains(addr Address) bool {
	return addr.Row >= rg.StartRow && addr.Row <= rg.EndRow &&
		addr.Col >= rg.StartCol && addr.Col <= rg.EndCol
}

// TopLeft devolve o canto superior esquerdo
func (rg Range) TopLeft() Address {
	return Address{Row: rg.StartRow, Col: rg.StartCol}
}

// String formata o range como A1 ou A1:B5 quando há mais de uma célula
func (rg Range) String() string {
	start := FormatA1(rg.TopLeft())
	if rg.StartRow == rg.EndRow && rg.StartCol == rg.EndCol {
		return start
	}
	return start + ":" + FormatA1(Address{Row: rg.EndRow, Col: rg.EndCol})
}

// ParseRange interpreta "A1" ou "A1:B5" em um range normalizado
func ParseRange(s string) (Range, error) {
	parts := strings.SplitN(s, ":", 2)
	first, err := ParseA1(strings.TrimSpace(parts[0]))
	if err != nil {
		return Range{}, err
	}
	if len(parts) == 1 {
		return SingleCell(first), nil
	}
	second, err := ParseA1(strings.TrimSpace(parts[1]))
	if err != nil {
		return Range{}, err
	}
	return NewRange(first.Row, first.Col, second.Row, second.Col), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
