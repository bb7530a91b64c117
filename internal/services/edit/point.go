package edit

import (
	"fmt"
	"strings"
	"time"

	"sheet-engine/internal/dto"
	"sheet-engine/internal/services/formula"
	"sheet-engine/pkg/logger"
	"sheet-engine/pkg/ref"
)

// pointPalette são as dez cores cicladas para colorir referências,
// na ordem em que o Excel as atribui.
var pointPalette = []string{
	"#0000FF", // azul
	"#008000", // verde
	"#800080", // roxo
	"#800000", // bordô
	"#FF8C00", // laranja
	"#FF00FF", // magenta
	"#008080", // petróleo
	"#00B050", // verde claro
	"#C00000", // vermelho escuro
	"#4472C4", // azul aço
}

const clickDedupWindow = 300 * time.Millisecond

// PointCoordinator acompanha a captura de referências no modo Point:
// célula apontada, arrasto de seleção e ciclo de cores.
type PointCoordinator struct {
	active        bool
	pointCell     *ref.Address
	pointRangeEnd *ref.Address
	isDragging    bool
	currentColor  string
	refCount      int

	lastClick     *ref.Address
	lastClickTime time.Time

	now func() time.Time
}

// NewPointCoordinator cria um coordenador inativo
func NewPointCoordinator() *PointCoordinator {
	return &PointCoordinator{now: time.Now}
}

// Activate reinicia o estado e atribui a próxima cor do ciclo
func (p *PointCoordinator) Activate() {
	p.active = true
	p.pointCell = nil
	p.pointRangeEnd = nil
	p.isDragging = false
	p.currentColor = pointPalette[p.refCount%len(pointPalette)]
	p.refCount++
	logger.PointDebug(fmt.Sprintf("modo point ativado, cor %s", p.currentColor))
}

// Deactivate encerra a captura sem perder o contador de referências
func (p *PointCoordinator) Deactivate() {
	p.active = false
	p.pointCell = nil
	p.pointRangeEnd = nil
	p.isDragging = false
	p.lastClick = nil
}

// Active informa se a captura está em andamento
func (p *PointCoordinator) Active() bool {
	return p.active
}

// CurrentColor devolve a cor atribuída à referência em captura
func (p *PointCoordinator) CurrentColor() string {
	return p.currentColor
}

// HandleCellClick registra o clique e devolve a referência A1. Cliques
// repetidos na mesma célula dentro da janela de 300 ms são suprimidos
// para evitar inserção dupla.
func (p *PointCoordinator) HandleCellClick(row, col int) (string, bool) {
	if !p.active {
		return "", false
	}
	addr := ref.Address{Row: row, Col: col}
	nowTime := p.now()
	if p.lastClick != nil && *p.lastClick == addr && nowTime.Sub(p.lastClickTime) < clickDedupWindow {
		return "", false
	}
	p.lastClick = &addr
	p.lastClickTime = nowTime
	p.pointCell = &addr
	p.pointRangeEnd = nil
	return ref.FormatA1(addr), true
}

// BeginDrag inicia uma seleção por arrasto a partir da célula
func (p *PointCoordinator) BeginDrag(row, col int) {
	if !p.active {
		return
	}
	addr := ref.Address{Row: row, Col: col}
	p.pointCell = &addr
	p.pointRangeEnd = &addr
	p.isDragging = true
}

// UpdateDrag atualiza a ponta móvel do arrasto e devolve o range atual
func (p *PointCoordinator) UpdateDrag(row, col int) string {
	if !p.active || !p.isDragging || p.pointCell == nil {
		return ""
	}
	addr := ref.Address{Row: row, Col: col}
	p.pointRangeEnd = &addr
	return p.rangeString()
}

// EndDrag encerra o arrasto e devolve o range normalizado, ou a célula
// única quando o arrasto colapsou.
func (p *PointCoordinator) EndDrag() string {
	if !p.active || !p.isDragging || p.pointCell == nil {
		return ""
	}
	p.isDragging = false
	return p.rangeString()
}

// MovePointSelection move a célula apontada na direção indicada. Com
// extend, a ponta móvel se desloca e o resultado vira um range.
func (p *PointCoordinator) MovePointSelection(origin ref.Address, dir dto.Direction, extend bool) string {
	if !p.active {
		return ""
	}
	if p.pointCell == nil {
		start := origin
		p.pointCell = &start
	}
	if extend {
		end := p.pointRangeEnd
		if end == nil {
			e := *p.pointCell
			end = &e
		}
		moved := step(*end, dir)
		p.pointRangeEnd = &moved
		return p.rangeString()
	}
	moved := step(*p.pointCell, dir)
	p.pointCell = &moved
	p.pointRangeEnd = nil
	return ref.FormatA1(moved)
}

func (p *PointCoordinator) rangeString() string {
	if p.pointCell == nil {
		return ""
	}
	if p.pointRangeEnd == nil || *p.pointRangeEnd == *p.pointCell {
		return ref.FormatA1(*p.pointCell)
	}
	rg := ref.NewRange(p.pointCell.Row, p.pointCell.Col, p.pointRangeEnd.Row, p.pointRangeEnd.Col)
	return rg.String()
}

func step(addr ref.Address, dir dto.Direction) ref.Address {
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
	return addr
}

// ShouldEnterPointMode decide a transição Edit → Point: o valor é uma
// fórmula, o cursor está fora de literais de string e o caractere à
// esquerda do cursor é um gatilho de referência.
func ShouldEnterPointMode(text string, cursor int) bool {
	if !strings.HasPrefix(text, "=") {
		return false
	}
	if cursor < 1 || cursor > len(text) {
		return false
	}
	ctx := formula.Analyze(text, cursor)
	if ctx.InsideString {
		return false
	}
	return formula.IsReferenceTrigger(text[cursor-1])
}
