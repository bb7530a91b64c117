package history

import (
	"fmt"

	"github.com/google/uuid"

	"sheet-engine/pkg/logger"
)

// Predicate é um critério de filtro por coluna. Predicados são
// imutáveis e compartilhados por referência; trocar o filtro de uma
// coluna substitui o ponteiro, nunca o conteúdo.
type Predicate struct {
	Column   int
	Operator string // equals, contains, greater, less, between
	Values   []string
}

// FilterSet guarda o predicado ativo de cada coluna
type FilterSet struct {
	predicates map[int]*Predicate
}

// NewFilterSet cria um conjunto sem filtros
func NewFilterSet() *FilterSet {
	return &FilterSet{predicates: make(map[int]*Predicate)}
}

// Get devolve o predicado da coluna, ou nil
func (f *FilterSet) Get(column int) *Predicate {
	return f.predicates[column]
}

// Set instala o predicado na coluna; nil remove
func (f *FilterSet) Set(column int, p *Predicate) {
	if p == nil {
		delete(f.predicates, column)
		return
	}
	f.predicates[column] = p
}

// Snapshot devolve uma cópia rasa do mapa; os predicados continuam
// compartilhados por referência.
func (f *FilterSet) Snapshot() map[int]*Predicate {
	out := make(map[int]*Predicate, len(f.predicates))
	for k, v := range f.predicates {
		out[k] = v
	}
	return out
}

// Restore substitui todos os predicados pelo conteúdo do snapshot
func (f *FilterSet) Restore(snapshot map[int]*Predicate) {
	f.predicates = make(map[int]*Predicate, len(snapshot))
	for k, v := range snapshot {
		f.predicates[k] = v
	}
}

// Count devolve quantas colunas têm filtro ativo
func (f *FilterSet) Count() int {
	return len(f.predicates)
}

// ApplyFilterCommand instala um predicado em uma coluna de forma
// reversível. O predicado anterior é capturado na construção.
type ApplyFilterCommand struct {
	id      string
	filters *FilterSet
	column  int
	next    *Predicate
	prev    *Predicate
}

// NewApplyFilterCommand captura o estado anterior da coluna
func NewApplyFilterCommand(filters *FilterSet, column int, p *Predicate) *ApplyFilterCommand {
	return &ApplyFilterCommand{
		id:      uuid.NewString(),
		filters: filters,
		column:  column,
		next:    p,
		prev:    filters.Get(column),
	}
}

func (c *ApplyFilterCommand) ID() string {
	return c.id
}

func (c *ApplyFilterCommand) Apply() error {
	c.filters.Set(c.column, c.next)
	logger.FilterDebug(fmt.Sprintf("filtro aplicado na coluna %d", c.column))
	return nil
}

// Revert restaura o predicado anterior, ou limpa se não havia
func (c *ApplyFilterCommand) Revert() error {
	c.filters.Set(c.column, c.prev)
	return nil
}

func (c *ApplyFilterCommand) EstimateMemory() int64 {
	return 64 + predicateSize(c.next) + predicateSize(c.prev)
}

// ClearAllFiltersCommand remove todos os filtros de forma reversível.
// O mapa inteiro é capturado na construção.
type ClearAllFiltersCommand struct {
	id      string
	filters *FilterSet
	prev    map[int]*Predicate
}

// NewClearAllFiltersCommand captura o conjunto completo de predicados
func NewClearAllFiltersCommand(filters *FilterSet) *ClearAllFiltersCommand {
	return &ClearAllFiltersCommand{
		id:      uuid.NewString(),
		filters: filters,
		prev:    filters.Snapshot(),
	}
}

func (c *ClearAllFiltersCommand) ID() string {
	return c.id
}

func (c *ClearAllFiltersCommand) Apply() error {
	c.filters.Restore(nil)
	logger.FilterDebug("todos os filtros limpos")
	return nil
}

// Revert restaura cada entrada capturada
func (c *ClearAllFiltersCommand) Revert() error {
	c.filters.Restore(c.prev)
	return nil
}

func (c *ClearAllFiltersCommand) EstimateMemory() int64 {
	total := int64(64)
	for _, p := range c.prev {
		total += predicateSize(p)
	}
	return total
}

func predicateSize(p *Predicate) int64 {
	if p == nil {
		return 0
	}
	total := int64(32 + len(p.Operator))
	for _, v := range p.Values {
		total += int64(16 + len(v))
	}
	return total
}
