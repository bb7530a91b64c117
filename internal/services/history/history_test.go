package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheet-engine/internal/domain"
	"sheet-engine/internal/services/grid"
	"sheet-engine/pkg/ref"
)

func TestApplyFilterCommandReversivel(t *testing.T) {
	filters := NewFilterSet()
	antigo := &Predicate{Column: 2, Operator: "equals", Values: []string{"x"}}
	filters.Set(2, antigo)

	novo := &Predicate{Column: 2, Operator: "contains", Values: []string{"y"}}
	cmd := NewApplyFilterCommand(filters, 2, novo)
	require.NotEmpty(t, cmd.ID())

	require.NoError(t, cmd.Apply())
	assert.Same(t, novo, filters.Get(2))

	// revert restaura o predicado anterior por referência
	require.NoError(t, cmd.Revert())
	assert.Same(t, antigo, filters.Get(2))
}

func TestApplyFilterCommandSemAnterior(t *testing.T) {
	filters := NewFilterSet()
	cmd := NewApplyFilterCommand(filters, 0, &Predicate{Column: 0, Operator: "equals"})
	require.NoError(t, cmd.Apply())
	require.NotNil(t, filters.Get(0))

	// sem anterior, revert limpa a coluna
	require.NoError(t, cmd.Revert())
	assert.Nil(t, filters.Get(0))
}

func TestClearAllFiltersCommand(t *testing.T) {
	filters := NewFilterSet()
	p1 := &Predicate{Column: 0, Operator: "equals"}
	p2 := &Predicate{Column: 3, Operator: "greater"}
	filters.Set(0, p1)
	filters.Set(3, p2)

	cmd := NewClearAllFiltersCommand(filters)
	require.NoError(t, cmd.Apply())
	assert.Zero(t, filters.Count())

	require.NoError(t, cmd.Revert())
	assert.Equal(t, 2, filters.Count())
	assert.Same(t, p1, filters.Get(0))
	assert.Same(t, p2, filters.Get(3))
}

func TestUndoManagerExecuteUndoRedo(t *testing.T) {
	store := grid.NewStore(grid.DefaultLimits())
	m := NewUndoManager(0)
	addr := ref.Address{Row: 0, Col: 0}

	require.NoError(t, m.Execute(NewSetCellCommand(store, addr, &domain.Cell{Value: domain.NumberValue(1)})))
	require.NoError(t, m.Execute(NewSetCellCommand(store, addr, &domain.Cell{Value: domain.NumberValue(2)})))
	assert.Equal(t, 2.0, store.Get(addr).Value.Number)

	require.NoError(t, m.Undo())
	assert.Equal(t, 1.0, store.Get(addr).Value.Number)

	require.NoError(t, m.Undo())
	assert.Nil(t, store.Get(addr))
	assert.False(t, m.CanUndo())

	require.NoError(t, m.Redo())
	assert.Equal(t, 1.0, store.Get(addr).Value.Number)

	// um novo comando invalida o redo
	require.NoError(t, m.Execute(NewSetCellCommand(store, addr, &domain.Cell{Value: domain.NumberValue(9)})))
	assert.False(t, m.CanRedo())
}

func TestUndoVazio(t *testing.T) {
	m := NewUndoManager(0)
	assert.Error(t, m.Undo())
	assert.Error(t, m.Redo())
}

func TestUndoManagerOrcamentoDeMemoria(t *testing.T) {
	store := grid.NewStore(grid.DefaultLimits())
	// orçamento minúsculo força o descarte dos comandos antigos
	m := NewUndoManager(512)

	for i := 0; i < 10; i++ {
		cmd := NewSetCellCommand(store, ref.Address{Row: i, Col: 0},
			&domain.Cell{Value: domain.StringValue("valor bem comprido para ocupar o orçamento")})
		require.NoError(t, m.Execute(cmd))
	}

	assert.LessOrEqual(t, m.MemoryUsage(), int64(512)+300, "históricos antigos devem ser descartados")
	assert.True(t, m.CanUndo())
}
