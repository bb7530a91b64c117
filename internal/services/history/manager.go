package history

import (
	"fmt"

	"github.com/google/uuid"

	"sheet-engine/internal/domain"
	"sheet-engine/internal/services/grid"
	apperrors "sheet-engine/pkg/errors"
	"sheet-engine/pkg/logger"
	"sheet-engine/pkg/ref"
)

// Command é uma mutação reversível consumida pelo histórico
type Command interface {
	ID() string
	Apply() error
	Revert() error
	EstimateMemory() int64
}

// DefaultMemoryBudget limita o histórico a 16 MiB de estado capturado
const DefaultMemoryBudget = 16 << 20

// UndoManager acumula comandos aplicados, com orçamento de memória:
// quando a soma dos EstimateMemory ultrapassa o orçamento, os comandos
// mais antigos são descartados.
type UndoManager struct {
	budget int64
	undo   []Command
	redo   []Command
}

// NewUndoManager cria o histórico; budget ≤ 0 usa o padrão
func NewUndoManager(budget int64) *UndoManager {
	if budget <= 0 {
		budget = DefaultMemoryBudget
	}
	return &UndoManager{budget: budget}
}

// Execute aplica o comando e o registra no histórico; a pilha de redo
// é invalidada.
func (m *UndoManager) Execute(cmd Command) error {
	if err := cmd.Apply(); err != nil {
		return err
	}
	m.undo = append(m.undo, cmd)
	m.redo = nil
	m.evict()
	return nil
}

// Undo reverte o comando mais recente
func (m *UndoManager) Undo() error {
	if len(m.undo) == 0 {
		return apperrors.HistoryEmpty("nada para desfazer")
	}
	last := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	if err := last.Revert(); err != nil {
		return err
	}
	m.redo = append(m.redo, last)
	logger.UndoDebug(fmt.Sprintf("comando %s desfeito", last.ID()))
	return nil
}

// Redo reaplica o último comando desfeito
func (m *UndoManager) Redo() error {
	if len(m.redo) == 0 {
		return apperrors.HistoryEmpty("nada para refazer")
	}
	last := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	if err := last.Apply(); err != nil {
		return err
	}
	m.undo = append(m.undo, last)
	return nil
}

// MemoryUsage devolve a estimativa total do histórico de desfazer
func (m *UndoManager) MemoryUsage() int64 {
	var total int64
	for _, c := range m.undo {
		total += c.EstimateMemory()
	}
	return total
}

// CanUndo informa se há comandos para desfazer
func (m *UndoManager) CanUndo() bool {
	return len(m.undo) > 0
}

// CanRedo informa se há comandos para refazer
func (m *UndoManager) CanRedo() bool {
	return len(m.redo) > 0
}

func (m *UndoManager) evict() {
	for len(m.undo) > 1 && m.MemoryUsage() > m.budget {
		evicted := m.undo[0]
		m.undo = m.undo[1:]
		logger.UndoDebug(fmt.Sprintf("comando %s descartado por orçamento de memória", evicted.ID()))
	}
}

// SetCellCommand grava uma célula no store de forma reversível; é o
// invólucro usado pelo commit sink. A célula anterior é capturada na
// construção.
type SetCellCommand struct {
	id    string
	store *grid.Store
	addr  ref.Address
	next  *domain.Cell
	prev  *domain.Cell
}

// NewSetCellCommand captura o conteúdo anterior do endereço
func NewSetCellCommand(store *grid.Store, addr ref.Address, next *domain.Cell) *SetCellCommand {
	return &SetCellCommand{
		id:    uuid.NewString(),
		store: store,
		addr:  addr,
		next:  next,
		prev:  store.Get(addr),
	}
}

func (c *SetCellCommand) ID() string {
	return c.id
}

func (c *SetCellCommand) Apply() error {
	return c.store.Set(c.addr, c.next)
}

func (c *SetCellCommand) Revert() error {
	return c.store.Set(c.addr, c.prev)
}

func (c *SetCellCommand) EstimateMemory() int64 {
	size := int64(96)
	size += cellSize(c.next)
	size += cellSize(c.prev)
	return size
}

func cellSize(c *domain.Cell) int64 {
	if c == nil {
		return 0
	}
	size := int64(128)
	size += int64(len(c.Value.Text) + len(c.Value.Formula) + len(c.Hyperlink) + len(c.Comment))
	if c.Value.Rich != nil {
		size += int64(len(c.Value.Rich.Text) + 48*len(c.Value.Rich.Runs))
	}
	return size
}
