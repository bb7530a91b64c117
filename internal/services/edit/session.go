package edit

import (
	"fmt"
	"strings"
	"time"

	"sheet-engine/internal/domain"
	"sheet-engine/internal/dto"
	"sheet-engine/internal/services/formula"
	"sheet-engine/pkg/logger"
	"sheet-engine/pkg/ref"
	"sheet-engine/pkg/richtext"
)

// f2CycleInterval limita o ciclo de modos do F2 a 5 Hz
const f2CycleInterval = 200 * time.Millisecond

// CellLookup fornece o valor original de uma célula ao iniciar a edição
type CellLookup func(ref.Address) domain.CellValue

// CommitSink recebe o valor confirmado de cada commit
type CommitSink func(dto.CommitResult)

// session é o estado interno durante uma edição ativa
type session struct {
	mode      dto.EditMode // Edit, Enter ou Point
	cell      ref.Address
	original  domain.CellValue
	text      string
	formatted *richtext.FormattedText
	cursor    int
	selection *dto.Selection
	pending   *richtext.CharacterFormat

	composing bool
	compFrom  int
	compTo    int

	referenced []ref.Address

	// âncora da referência em captura no modo Point
	pointAnchor int
}

// Service é a máquina de estados de edição: única fonte de verdade
// durante uma edição, com semântica de modos fiel ao Excel. O acesso é
// cooperativo; o hospedeiro serializa as chamadas.
type Service struct {
	lookup CellLookup
	sink   CommitSink
	point  *PointCoordinator

	active ref.Address
	sess   *session

	lastF2 time.Time

	listeners  map[int]func()
	nextListen int

	now func() time.Time
}

// NewService cria o serviço de edição. lookup pode ser nil; nesse caso
// toda edição começa de valor vazio.
func NewService(lookup CellLookup) *Service {
	return &Service{
		lookup:    lookup,
		point:     NewPointCoordinator(),
		listeners: make(map[int]func()),
		now:       time.Now,
	}
}

// SetCommitSink registra o consumidor de commits
func (s *Service) SetCommitSink(sink CommitSink) {
	s.sink = sink
}

// SetActiveCell define a célula ativa do grid, destino da digitação
func (s *Service) SetActiveCell(addr ref.Address) {
	s.active = addr
}

// ActiveCell devolve a célula ativa corrente
func (s *Service) ActiveCell() ref.Address {
	return s.active
}

// Point devolve o coordenador do modo Point
func (s *Service) Point() *PointCoordinator {
	return s.point
}

// Mode devolve o modo corrente; Navigate quando não há sessão
func (s *Service) Mode() dto.EditMode {
	if s.sess == nil {
		return dto.ModeNavigate
	}
	return s.sess.mode
}

// IsEditing informa se há sessão ativa
func (s *Service) IsEditing() bool {
	return s.sess != nil
}

func (s *Service) originalValue(addr ref.Address) domain.CellValue {
	if s.lookup == nil {
		return domain.EmptyValue()
	}
	return s.lookup(addr)
}

// StartEditing abre uma sessão em modo Edit na célula, com o conteúdo
// original e o cursor no fim.
func (s *Service) StartEditing(addr ref.Address) {
	original := s.originalValue(addr)
	sess := &session{
		mode:     dto.ModeEdit,
		cell:     addr,
		original: original,
	}
	switch original.Type {
	case domain.ValueRichText:
		clone := original.Rich.Clone()
		sess.formatted = &clone
		sess.text = clone.Text
	case domain.ValueFormula:
		sess.text = original.Formula
	default:
		sess.text = original.Display()
	}
	sess.cursor = len(sess.text)
	s.sess = sess
	s.active = addr
	s.refreshReferences()
	logger.EditDebug(fmt.Sprintf("edição iniciada em %s (modo edit)", ref.FormatA1(addr)))
	s.notify()
}

// StartEntering abre uma sessão em modo Enter na célula, substituindo o
// conteúdo pelo texto inicial.
func (s *Service) StartEntering(addr ref.Address, initial string) {
	sess := &session{
		mode:     dto.ModeEnter,
		cell:     addr,
		original: s.originalValue(addr),
		text:     initial,
		cursor:   len(initial),
	}
	s.sess = sess
	s.active = addr
	s.refreshReferences()
	logger.EditDebug(fmt.Sprintf("edição iniciada em %s (modo enter)", ref.FormatA1(addr)))
	s.notify()
}

// HandleKey aplica um intent à sessão segundo a tabela de despacho por
// modo. Cada intent executa por completo ou é um no-op; nunca lança
// erro por entrada de usuário.
func (s *Service) HandleKey(intent dto.SpreadsheetIntent) dto.HandleResult {
	if s.sess == nil {
		return s.handleNavigate(intent)
	}
	switch intent.Type {
	case dto.IntentEscape:
		s.Cancel()
		return dto.HandleResult{Handled: true}
	case dto.IntentEdit:
		return s.handleEditIntent(intent)
	case dto.IntentTabEnter:
		return s.commitAndNavigate(tabEnterDirection(intent))
	case dto.IntentNavigate:
		return s.handleArrow(intent)
	case dto.IntentCharacter:
		return s.handleCharacter(intent)
	case dto.IntentStartPoint:
		if s.sess.isFormula() && s.sess.mode != dto.ModePoint {
			s.enterPointMode()
			s.notify()
			return dto.HandleResult{Handled: true}
		}
		return dto.HandleResult{}
	}
	return dto.HandleResult{}
}

// handleNavigate trata intents com o grid em modo Navigate
func (s *Service) handleNavigate(intent dto.SpreadsheetIntent) dto.HandleResult {
	switch intent.Type {
	case dto.IntentNavigate:
		return dto.HandleResult{
			ShouldNavigate:  true,
			Direction:       intent.Direction,
			ExtendSelection: intent.Extend,
		}
	case dto.IntentTabEnter:
		return dto.HandleResult{ShouldNavigate: true, Direction: tabEnterDirection(intent)}
	case dto.IntentCharacter:
		if intent.Char >= 32 && intent.Char <= 126 {
			s.StartEntering(s.active, string(intent.Char))
			s.afterTextChange()
			return dto.HandleResult{Handled: true}
		}
		return dto.HandleResult{}
	case dto.IntentEdit:
		if intent.EditAction == dto.EditStart {
			addr := s.active
			if intent.Row >= 0 || intent.Col >= 0 {
				addr = ref.Address{Row: intent.Row, Col: intent.Col}
			}
			if intent.InitialValue != "" {
				s.StartEntering(addr, intent.InitialValue)
			} else {
				s.StartEditing(addr)
			}
			return dto.HandleResult{Handled: true}
		}
		return dto.HandleResult{}
	}
	return dto.HandleResult{}
}

func (s *Service) handleEditIntent(intent dto.SpreadsheetIntent) dto.HandleResult {
	switch intent.EditAction {
	case dto.EditConfirm:
		result := s.Commit()
		return dto.HandleResult{Handled: true, CommitResult: result}
	case dto.EditCancel:
		s.Cancel()
		return dto.HandleResult{Handled: true}
	case dto.EditStart:
		// F2 durante a edição cicla os modos
		s.cycleMode()
		return dto.HandleResult{Handled: true}
	}
	return dto.HandleResult{}
}

// cycleMode implementa o ciclo do F2: Edit → (Point se fórmula, senão
// Enter) → Enter → Edit, limitado a um ciclo por 200 ms.
func (s *Service) cycleMode() {
	nowTime := s.now()
	if nowTime.Sub(s.lastF2) < f2CycleInterval {
		return
	}
	s.lastF2 = nowTime

	switch s.sess.mode {
	case dto.ModeEdit:
		if s.sess.isFormula() {
			s.enterPointMode()
		} else {
			s.sess.mode = dto.ModeEnter
		}
	case dto.ModePoint:
		s.leavePointMode(dto.ModeEnter)
	case dto.ModeEnter:
		s.sess.mode = dto.ModeEdit
	}
	logger.EditDebug(fmt.Sprintf("f2: modo agora %s", s.sess.mode))
	s.notify()
}

func (s *Service) enterPointMode() {
	s.sess.mode = dto.ModePoint
	s.sess.pointAnchor = s.sess.cursor
	s.point.Activate()
}

func (s *Service) leavePointMode(next dto.EditMode) {
	s.sess.mode = next
	s.point.Deactivate()
}

// handleArrow aplica a política de setas por modo
func (s *Service) handleArrow(intent dto.SpreadsheetIntent) dto.HandleResult {
	switch s.sess.mode {
	case dto.ModeEdit:
		switch intent.Direction {
		case dto.DirLeft, dto.DirRight:
			s.moveCaret(intent.Direction, intent.Jump, intent.Extend)
			return dto.HandleResult{Handled: true}
		default:
			// cima/baixo não são consumidas em Edit
			return dto.HandleResult{}
		}
	case dto.ModeEnter:
		return s.commitAndNavigate(intent.Direction)
	case dto.ModePoint:
		refStr := s.point.MovePointSelection(s.sess.cell, intent.Direction, intent.Extend)
		if refStr != "" {
			s.replacePointReference(refStr)
		}
		return dto.HandleResult{Handled: true}
	}
	return dto.HandleResult{}
}

func (s *Service) handleCharacter(intent dto.SpreadsheetIntent) dto.HandleResult {
	if intent.Char < 32 || intent.Char > 126 {
		return dto.HandleResult{}
	}
	ch := byte(intent.Char)

	if s.sess.mode == dto.ModePoint && !formula.IsReferenceTrigger(ch) {
		// entrada que não é gatilho devolve ao modo Edit
		s.leavePointMode(dto.ModeEdit)
	}

	s.InsertText(string(intent.Char))

	if s.sess != nil && s.sess.mode == dto.ModePoint && formula.IsReferenceTrigger(ch) {
		// separador inicia a captura da próxima referência
		s.sess.pointAnchor = s.sess.cursor
		s.point.Activate()
	}

	if s.sess != nil && s.sess.mode == dto.ModeEdit &&
		ShouldEnterPointMode(s.sess.text, s.sess.cursor) {
		s.enterPointMode()
		s.notify()
	}
	return dto.HandleResult{Handled: true}
}

// commitAndNavigate confirma a edição e delega a navegação ao grid
func (s *Service) commitAndNavigate(dir dto.Direction) dto.HandleResult {
	result := s.Commit()
	return dto.HandleResult{
		Handled:        true,
		CommitResult:   result,
		ShouldNavigate: true,
		Direction:      dir,
	}
}

func tabEnterDirection(intent dto.SpreadsheetIntent) dto.Direction {
	if intent.Key == dto.KeyTab {
		if intent.Reverse {
			return dto.DirLeft
		}
		return dto.DirRight
	}
	if intent.Reverse {
		return dto.DirUp
	}
	return dto.DirDown
}

// InsertCellReference insere a referência capturada no modo Point,
// substituindo a referência anterior da mesma captura. Fora do modo
// Point é um no-op.
func (s *Service) InsertCellReference(refStr string) {
	if s.sess == nil || s.sess.mode != dto.ModePoint {
		return
	}
	s.replacePointReference(refStr)
}

// HandlePointClick encaminha um clique de célula ao coordenador e
// insere a referência resultante.
func (s *Service) HandlePointClick(row, col int) {
	if s.sess == nil || s.sess.mode != dto.ModePoint {
		return
	}
	refStr, ok := s.point.HandleCellClick(row, col)
	if !ok {
		return
	}
	s.replacePointReference(refStr)
}

// replacePointReference troca o trecho [âncora, cursor) pela nova
// referência, mantendo a âncora para a próxima substituição.
func (s *Service) replacePointReference(refStr string) {
	sess := s.sess
	anchor := clamp(sess.pointAnchor, 0, len(sess.text))
	if sess.formatted != nil {
		ft := richtext.Delete(*sess.formatted, anchor, sess.cursor)
		ft = richtext.Insert(ft, anchor, refStr)
		sess.formatted = &ft
		sess.text = ft.Text
	} else {
		sess.text = sess.text[:anchor] + refStr + sess.text[sess.cursor:]
	}
	sess.cursor = anchor + len(refStr)
	sess.selection = nil
	s.afterTextChange()
}

// Commit encerra a sessão entregando o valor editado. O valor é
// FormattedText quando existe formatação de caractere; texto simples
// caso contrário. O consumidor decide a tipagem.
func (s *Service) Commit() *dto.CommitResult {
	if s.sess == nil {
		return nil
	}
	sess := s.sess
	value := dto.CommitValue{Text: sess.text}
	if sess.formatted != nil && sess.formatted.HasFormatting() {
		clone := sess.formatted.Clone()
		value.Rich = &clone
	}
	result := &dto.CommitResult{Cell: sess.cell, Value: value}

	s.clearSession()
	logger.EditDebug(fmt.Sprintf("commit em %s", ref.FormatA1(result.Cell)))
	if s.sink != nil {
		s.sink(*result)
	}
	s.notify()
	return result
}

// Cancel descarta a edição restaurando o valor original intacto
func (s *Service) Cancel() {
	if s.sess == nil {
		return
	}
	cell := s.sess.cell
	s.clearSession()
	logger.EditDebug(fmt.Sprintf("edição cancelada em %s", ref.FormatA1(cell)))
	s.notify()
}

func (s *Service) clearSession() {
	if s.sess != nil && s.sess.mode == dto.ModePoint {
		s.point.Deactivate()
	}
	s.sess = nil
}

// Subscribe registra um assinante notificado após cada mutação.
// Devolve a função de cancelamento.
func (s *Service) Subscribe(listener func()) func() {
	id := s.nextListen
	s.nextListen++
	s.listeners[id] = listener
	return func() {
		delete(s.listeners, id)
	}
}

func (s *Service) notify() {
	for _, l := range s.listeners {
		l()
	}
}

// Snapshot devolve a visão imutável da sessão, ou nil sem sessão ativa
func (s *Service) Snapshot() *dto.EditSnapshot {
	if s.sess == nil {
		return nil
	}
	sess := s.sess
	snap := &dto.EditSnapshot{
		Mode:            sess.mode,
		EditingCell:     sess.cell,
		Text:            sess.text,
		Cursor:          sess.cursor,
		IsComposing:     sess.composing,
		CompositionFrom: sess.compFrom,
		CompositionTo:   sess.compTo,
		IsFormula:       sess.isFormula(),
		IsDirty:         sess.isDirty(),
	}
	if sess.formatted != nil {
		clone := sess.formatted.Clone()
		snap.Formatted = &clone
	}
	if sess.selection != nil {
		sel := *sess.selection
		snap.Selection = &sel
	}
	if sess.pending != nil {
		p := *sess.pending
		snap.PendingFormat = &p
	}
	if len(sess.referenced) > 0 {
		snap.ReferencedCells = make([]ref.Address, len(sess.referenced))
		copy(snap.ReferencedCells, sess.referenced)
	}
	return snap
}

func (sess *session) isFormula() bool {
	return strings.HasPrefix(sess.text, "=")
}

func (sess *session) isDirty() bool {
	return sess.text != originalText(sess.original)
}

func originalText(v domain.CellValue) string {
	switch v.Type {
	case domain.ValueFormula:
		return v.Formula
	case domain.ValueRichText:
		if v.Rich != nil {
			return v.Rich.Text
		}
		return ""
	}
	return v.Display()
}

// refreshReferences reanalisa as referências da fórmula em edição
func (s *Service) refreshReferences() {
	sess := s.sess
	if sess == nil {
		return
	}
	if sess.isFormula() {
		sess.referenced = formula.ExtractReferences(sess.text)
	} else {
		sess.referenced = nil
	}
}

// afterTextChange consolida invariantes após qualquer mutação de texto
func (s *Service) afterTextChange() {
	sess := s.sess
	if sess == nil {
		return
	}
	sess.cursor = clamp(sess.cursor, 0, len(sess.text))
	if sess.selection != nil {
		sel := dto.Selection{
			Start: clamp(sess.selection.Start, 0, len(sess.text)),
			End:   clamp(sess.selection.End, 0, len(sess.text)),
		}
		if sel.Start > sel.End {
			sel.Start, sel.End = sel.End, sel.Start
		}
		sess.selection = &sel
	}
	s.refreshReferences()
	s.notify()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
