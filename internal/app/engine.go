package app

import (
	"fmt"
	"strconv"

	"sheet-engine/internal/domain"
	"sheet-engine/internal/dto"
	clipboardService "sheet-engine/internal/services/clipboard"
	editService "sheet-engine/internal/services/edit"
	fillService "sheet-engine/internal/services/fill"
	"sheet-engine/internal/services/grid"
	"sheet-engine/internal/services/history"
	"sheet-engine/pkg/logger"
	"sheet-engine/pkg/ref"
)

// Engine é a fachada do núcleo: liga o store, a sessão de edição, a
// área de transferência, a alça de preenchimento, os filtros e o
// histórico em um único ponto de entrada para a fonte de intenções.
type Engine struct {
	store     *grid.Store
	edit      *editService.Service
	clipboard *clipboardService.Service
	fill      *fillService.Service
	filters   *history.FilterSet
	undo      *history.UndoManager

	// seleção corrente do grid; a célula ativa é o canto de partida
	selection ref.Range
}

// NewEngine cria e liga todos os serviços do núcleo
func NewEngine(limits grid.Limits) *Engine {
	store := grid.NewStore(limits)

	e := &Engine{
		store:     store,
		clipboard: clipboardService.NewService(store),
		fill:      fillService.NewService(store),
		filters:   history.NewFilterSet(),
		undo:      history.NewUndoManager(0),
	}

	e.edit = editService.NewService(func(addr ref.Address) domain.CellValue {
		if cell := store.Get(addr); cell != nil {
			return cell.Value
		}
		return domain.EmptyValue()
	})
	e.edit.SetCommitSink(e.sinkCommit)

	return e
}

// Store devolve o grid compartilhado
func (e *Engine) Store() *grid.Store {
	return e.store
}

// Edit devolve o serviço de edição
func (e *Engine) Edit() *editService.Service {
	return e.edit
}

// Clipboard devolve o motor de copiar/colar
func (e *Engine) Clipboard() *clipboardService.Service {
	return e.clipboard
}

// Fill devolve a alça de preenchimento
func (e *Engine) Fill() *fillService.Service {
	return e.fill
}

// Filters devolve o conjunto de filtros ativo
func (e *Engine) Filters() *history.FilterSet {
	return e.filters
}

// History devolve o histórico de comandos
func (e *Engine) History() *history.UndoManager {
	return e.undo
}

// SetSelection define a seleção do grid e a célula ativa
func (e *Engine) SetSelection(rg ref.Range) {
	e.selection = rg.Normalize()
	e.edit.SetActiveCell(e.selection.TopLeft())
}

// Selection devolve a seleção corrente
func (e *Engine) Selection() ref.Range {
	return e.selection
}

// sinkCommit grava o valor confirmado no store através de um comando
// reversível. A tipagem do texto acontece aqui, fora da sessão.
func (e *Engine) sinkCommit(result dto.CommitResult) {
	var value domain.CellValue
	if result.Value.IsRich() {
		value = domain.RichValue(*result.Value.Rich)
	} else {
		value = parseScalar(result.Value.Text)
	}
	cell := e.store.Get(result.Cell)
	if cell == nil {
		cell = &domain.Cell{}
	}
	cell.Value = value
	cell.Dirty = true

	cmd := history.NewSetCellCommand(e.store, result.Cell, cell)
	if err := e.undo.Execute(cmd); err != nil {
		logger.GridWarn(fmt.Sprintf("falha ao gravar commit em %s: %v", ref.FormatA1(result.Cell), err))
	}
}

// HandleIntent roteia um intent: clipboard e exclusão agem direto no
// grid; o restante passa pela sessão de edição. A navegação devolvida
// pela sessão é aplicada à célula ativa.
func (e *Engine) HandleIntent(intent dto.SpreadsheetIntent) dto.HandleResult {
	if !e.edit.IsEditing() {
		switch intent.Type {
		case dto.IntentClipboard:
			return e.handleClipboard(intent)
		case dto.IntentDelete:
			if intent.DeleteAction == dto.DeleteContents {
				e.store.ClearRange(e.selectionOrActive())
				return dto.HandleResult{Handled: true}
			}
		}
	}

	result := e.edit.HandleKey(intent)
	if result.ShouldNavigate {
		e.moveActive(result.Direction)
	}
	return result
}

func (e *Engine) handleClipboard(intent dto.SpreadsheetIntent) dto.HandleResult {
	rg := e.selectionOrActive()
	switch intent.ClipboardAction {
	case dto.ClipboardCopy:
		if _, err := e.clipboard.Copy(rg); err != nil {
			logger.ClipboardWarn(fmt.Sprintf("cópia falhou: %v", err))
			return dto.HandleResult{}
		}
	case dto.ClipboardCut:
		if _, err := e.clipboard.Cut(rg); err != nil {
			logger.ClipboardWarn(fmt.Sprintf("recorte falhou: %v", err))
			return dto.HandleResult{}
		}
	case dto.ClipboardPaste:
		res := e.clipboard.Paste(e.edit.ActiveCell(), clipboardService.PasteOptions{})
		if !res.Success {
			logger.ClipboardWarn(fmt.Sprintf("colagem falhou: %v", res.Error))
			return dto.HandleResult{}
		}
	}
	return dto.HandleResult{Handled: true}
}

func (e *Engine) selectionOrActive() ref.Range {
	if e.selection.Rows() >= 1 && e.selection.Cols() >= 1 {
		return e.selection
	}
	return ref.SingleCell(e.edit.ActiveCell())
}

// moveActive desloca a célula ativa dentro dos limites do grid
func (e *Engine) moveActive(dir dto.Direction) {
	addr := e.edit.ActiveCell()
	switch dir {
	case dto.DirUp:
		addr.Row--
	case dto.DirDown:
		addr.Row++
	case dto.DirLeft:
		addr.Col--
	case dto.DirRight:
		addr.Col++
	}
	if addr.Row < 0 {
		addr.Row = 0
	}
	if addr.Col < 0 {
		addr.Col = 0
	}
	if addr.Row >= e.store.Limits().MaxRows {
		addr.Row = e.store.Limits().MaxRows - 1
	}
	if addr.Col >= e.store.Limits().MaxCols {
		addr.Col = e.store.Limits().MaxCols - 1
	}
	e.edit.SetActiveCell(addr)
	e.selection = ref.SingleCell(addr)
}

// ApplyFilter instala um predicado de coluna pelo histórico
func (e *Engine) ApplyFilter(column int, p *history.Predicate) error {
	return e.undo.Execute(history.NewApplyFilterCommand(e.filters, column, p))
}

// ClearAllFilters remove todos os filtros pelo histórico
func (e *Engine) ClearAllFilters() error {
	return e.undo.Execute(history.NewClearAllFiltersCommand(e.filters))
}

// Undo desfaz o último comando aplicado
func (e *Engine) Undo() error {
	return e.undo.Undo()
}

// Redo reaplica o último comando desfeito
func (e *Engine) Redo() error {
	return e.undo.Redo()
}

// parseScalar tipa o texto confirmado: número, booleano, fórmula,
// erro de planilha ou texto simples.
func parseScalar(text string) domain.CellValue {
	if text == "" {
		return domain.EmptyValue()
	}
	if text[0] == '=' && len(text) > 1 {
		return domain.FormulaValue(text, nil)
	}
	switch text {
	case "TRUE", "true":
		return domain.BoolValue(true)
	case "FALSE", "false":
		return domain.BoolValue(false)
	}
	if len(text) > 1 && text[0] == '#' {
		return domain.ErrorValue(text)
	}
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return domain.NumberValue(n)
	}
	return domain.StringValue(text)
}
