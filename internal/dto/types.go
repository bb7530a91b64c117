package dto

import (
	"sheet-engine/pkg/ref"
	"sheet-engine/pkg/richtext"
)

// EditMode enumera os modos da sessão de edição
type EditMode int

const (
	ModeNavigate EditMode = iota
	ModeEdit
	ModeEnter
	ModePoint
)

func (m EditMode) String() string {
	switch m {
	case ModeNavigate:
		return "navigate"
	case ModeEdit:
		return "edit"
	case ModeEnter:
		return "enter"
	case ModePoint:
		return "point"
	}
	return "unknown"
}

// Direction de navegação no grid
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// IntentType discrimina as variantes de SpreadsheetIntent
type IntentType int

const (
	IntentNavigate IntentType = iota
	IntentTabEnter
	IntentEdit
	IntentEscape
	IntentDelete
	IntentClipboard
	IntentCharacter
	IntentStartPoint
	IntentPassthrough
)

// EditAction dentro de um intent de edição
type EditAction int

const (
	EditStart EditAction = iota
	EditConfirm
	EditCancel
)

// TabEnterKey distingue Tab de Enter
type TabEnterKey int

const (
	KeyTab TabEnterKey = iota
	KeyEnter
)

// DeleteAction distingue limpar conteúdo de remover células
type DeleteAction int

const (
	DeleteContents DeleteAction = iota
	DeleteCells
)

// ClipboardAction dentro de um intent de clipboard
type ClipboardAction int

const (
	ClipboardCopy ClipboardAction = iota
	ClipboardCut
	ClipboardPaste
)

// SpreadsheetIntent é o contrato entre a fonte de intenções e o núcleo.
// Uma união etiquetada: apenas os campos da variante ativa importam.
type SpreadsheetIntent struct {
	Type IntentType

	// Navigate
	Direction Direction
	Jump      bool
	Extend    bool

	// TabEnter
	Key     TabEnterKey
	Reverse bool

	// Edit
	EditAction   EditAction
	Row          int
	Col          int
	InitialValue string

	// Delete
	DeleteAction DeleteAction

	// Clipboard
	ClipboardAction ClipboardAction

	// Character (ASCII imprimível 32–126)
	Char rune
}

func NavigateIntent(dir Direction, jump, extend bool) SpreadsheetIntent {
	return SpreadsheetIntent{Type: IntentNavigate, Direction: dir, Jump: jump, Extend: extend}
}

func TabEnterIntent(key TabEnterKey, reverse bool) SpreadsheetIntent {
	return SpreadsheetIntent{Type: IntentTabEnter, Key: key, Reverse: reverse}
}

func EditIntent(action EditAction, row, col int, initial string) SpreadsheetIntent {
	return SpreadsheetIntent{Type: IntentEdit, EditAction: action, Row: row, Col: col, InitialValue: initial}
}

func EscapeIntent() SpreadsheetIntent {
	return SpreadsheetIntent{Type: IntentEscape}
}

func DeleteIntent(action DeleteAction) SpreadsheetIntent {
	return SpreadsheetIntent{Type: IntentDelete, DeleteAction: action}
}

func ClipboardIntent(action ClipboardAction) SpreadsheetIntent {
	return SpreadsheetIntent{Type: IntentClipboard, ClipboardAction: action}
}

func CharacterIntent(ch rune) SpreadsheetIntent {
	return SpreadsheetIntent{Type: IntentCharacter, Char: ch}
}

func StartPointIntent() SpreadsheetIntent {
	return SpreadsheetIntent{Type: IntentStartPoint}
}

// CommitValue é o valor entregue ao commit sink: FormattedText quando
// existe formatação de caractere, texto simples caso contrário.
type CommitValue struct {
	Text string
	Rich *richtext.FormattedText
}

// IsRich informa se o valor carrega formatação de caractere
func (v CommitValue) IsRich() bool {
	return v.Rich != nil
}

// CommitResult é o resultado de um commit bem sucedido
type CommitResult struct {
	Cell  ref.Address
	Value CommitValue
}

// HandleResult é a resposta de EditSession.HandleKey
type HandleResult struct {
	Handled         bool
	CommitResult    *CommitResult
	ShouldNavigate  bool
	Direction       Direction
	ExtendSelection bool
}

// Selection é um intervalo de texto selecionado, com start ≤ end
type Selection struct {
	Start int
	End   int
}

// EditSnapshot é a visão imutável da sessão para assinantes
type EditSnapshot struct {
	Mode            EditMode
	EditingCell     ref.Address
	Text            string
	Formatted       *richtext.FormattedText
	Cursor          int
	Selection       *Selection
	PendingFormat   *richtext.CharacterFormat
	IsComposing     bool
	CompositionFrom int
	CompositionTo   int
	IsFormula       bool
	IsDirty         bool
	ReferencedCells []ref.Address
}
