package grid

import (
	"fmt"
	"sort"

	"sheet-engine/internal/domain"
	apperrors "sheet-engine/pkg/errors"
	"sheet-engine/pkg/logger"
	"sheet-engine/pkg/ref"
)

// Limits delimita o domínio de endereços do grid
type Limits struct {
	MaxRows int
	MaxCols int
}

// DefaultLimits replica os limites de planilha do Excel
func DefaultLimits() Limits {
	return Limits{MaxRows: 1048576, MaxCols: 16384}
}

// Entry é um par endereço/célula devolvido pela enumeração
type Entry struct {
	Address ref.Address
	Cell    *domain.Cell
}

// Store é o mapa esparso de células. É o único estado mutável
// compartilhado do núcleo; a serialização de acesso fica a cargo do
// hospedeiro (modelo cooperativo, sem locks internos).
type Store struct {
	limits Limits
	cells  map[ref.Address]*domain.Cell
}

// NewStore cria um store vazio com os limites informados
func NewStore(limits Limits) *Store {
	if limits.MaxRows <= 0 || limits.MaxCols <= 0 {
		limits = DefaultLimits()
	}
	return &Store{
		limits: limits,
		cells:  make(map[ref.Address]*domain.Cell),
	}
}

// Limits devolve os limites do grid
func (s *Store) Limits() Limits {
	return s.limits
}

// InBounds informa se o endereço cabe no grid
func (s *Store) InBounds(addr ref.Address) bool {
	return addr.Row >= 0 && addr.Col >= 0 &&
		addr.Row < s.limits.MaxRows && addr.Col < s.limits.MaxCols
}

// Get devolve um clone profundo da célula, ou nil se vazia. O chamador
// nunca recebe o ponteiro interno.
func (s *Store) Get(addr ref.Address) *domain.Cell {
	cell, ok := s.cells[addr]
	if !ok {
		return nil
	}
	return cell.Clone()
}

// Has informa se existe célula no endereço
func (s *Store) Has(addr ref.Address) bool {
	_, ok := s.cells[addr]
	return ok
}

// Set grava um clone profundo da célula no endereço
func (s *Store) Set(addr ref.Address, cell *domain.Cell) error {
	if !s.InBounds(addr) {
		return apperrors.OutOfBounds(fmt.Sprintf("endereço fora dos limites: (%d,%d)", addr.Row, addr.Col))
	}
	if cell == nil {
		delete(s.cells, addr)
		return nil
	}
	s.cells[addr] = cell.Clone()
	return nil
}

// Delete remove a célula do endereço; ausência é um no-op
func (s *Store) Delete(addr ref.Address) {
	delete(s.cells, addr)
}

// Count devolve a quantidade de células ocupadas
func (s *Store) Count() int {
	return len(s.cells)
}

// EnumerateRange devolve as células ocupadas do range em ordem
// row-major, como clones profundos.
func (s *Store) EnumerateRange(rg ref.Range) []Entry {
	rg = rg.Normalize()
	var entries []Entry
	for addr, cell := range s.cells {
		if rg.Contains(addr) {
			entries = append(entries, Entry{Address: addr, Cell: cell.Clone()})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Address.Row != entries[j].Address.Row {
			return entries[i].Address.Row < entries[j].Address.Row
		}
		return entries[i].Address.Col < entries[j].Address.Col
	})
	return entries
}

// ClearRange remove todas as células do range e devolve os endereços
// que foram limpos.
func (s *Store) ClearRange(rg ref.Range) []ref.Address {
	rg = rg.Normalize()
	var cleared []ref.Address
	for addr := range s.cells {
		if rg.Contains(addr) {
			cleared = append(cleared, addr)
		}
	}
	for _, addr := range cleared {
		delete(s.cells, addr)
	}
	sort.Slice(cleared, func(i, j int) bool {
		if cleared[i].Row != cleared[j].Row {
			return cleared[i].Row < cleared[j].Row
		}
		return cleared[i].Col < cleared[j].Col
	})
	if len(cleared) > 0 {
		logger.GridDebug(fmt.Sprintf("range %s limpo (%d células)", rg.String(), len(cleared)))
	}
	return cleared
}

// ContiguousExtent devolve a última linha, a partir de startRow, em que
// a coluna tem conteúdo contínuo. Usado pelo auto-preenchimento para
// medir a extensão dos dados vizinhos.
func (s *Store) ContiguousExtent(col, startRow int) int {
	row := startRow
	for {
		next := ref.Address{Row: row + 1, Col: col}
		cell, ok := s.cells[next]
		if !ok || cell.IsBlank() {
			return row
		}
		row++
		if row >= s.limits.MaxRows-1 {
			return row
		}
	}
}

// ContiguousExtentRow é o análogo horizontal de ContiguousExtent
func (s *Store) ContiguousExtentRow(row, startCol int) int {
	col := startCol
	for {
		next := ref.Address{Row: row, Col: col + 1}
		cell, ok := s.cells[next]
		if !ok || cell.IsBlank() {
			return col
		}
		col++
		if col >= s.limits.MaxCols-1 {
			return col
		}
	}
}
