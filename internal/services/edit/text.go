package edit

import (
	"unicode"

	"sheet-engine/internal/dto"
	"sheet-engine/pkg/richtext"
)

// DeleteDirection indica o sentido de uma exclusão a partir do cursor
type DeleteDirection int

const (
	DeleteBackward DeleteDirection = iota
	DeleteForward
)

// InsertText substitui a seleção (ou insere no cursor), move o cursor
// para o fim do trecho inserido e consome pendingFormat. Se há formato
// pendente ou o valor já é FormattedText, o buffer é promovido e o
// trecho inserido recebe pendingFormat mesclado sobre o herdado.
func (s *Service) InsertText(text string) {
	sess := s.sess
	if sess == nil || text == "" {
		return
	}

	start := sess.cursor
	end := sess.cursor
	if sess.selection != nil {
		start = sess.selection.Start
		end = sess.selection.End
	}

	usesFormat := sess.formatted != nil || (sess.pending != nil && !sess.pending.IsEmpty())
	if usesFormat {
		ft := sess.ensureFormatted()
		ft = richtext.Delete(ft, start, end)
		ft = richtext.Insert(ft, start, text)
		if sess.pending != nil && !sess.pending.IsEmpty() {
			ft = richtext.ApplyFormat(ft, start, start+len(text), *sess.pending)
		}
		sess.formatted = &ft
		sess.text = ft.Text
	} else {
		sess.text = sess.text[:start] + text + sess.text[end:]
	}

	sess.cursor = start + len(text)
	sess.selection = nil
	sess.pending = nil
	s.afterTextChange()
}

// DeleteText apaga count caracteres a partir do cursor na direção
// indicada; com seleção ativa, apaga a seleção.
func (s *Service) DeleteText(dir DeleteDirection, count int) {
	sess := s.sess
	if sess == nil || count < 1 {
		return
	}

	start, end := sess.cursor, sess.cursor
	if sess.selection != nil && sess.selection.Start != sess.selection.End {
		start = sess.selection.Start
		end = sess.selection.End
	} else if dir == DeleteBackward {
		start = sess.cursor - count
		if start < 0 {
			start = 0
		}
	} else {
		end = sess.cursor + count
		if end > len(sess.text) {
			end = len(sess.text)
		}
	}
	if start == end {
		return
	}

	if sess.formatted != nil {
		ft := richtext.Delete(*sess.formatted, start, end)
		sess.formatted = &ft
		sess.text = ft.Text
	} else {
		sess.text = sess.text[:start] + sess.text[end:]
	}
	sess.cursor = start
	sess.selection = nil
	s.afterTextChange()
}

// SetCursor posiciona o cursor, limitado ao texto, e limpa a seleção
func (s *Service) SetCursor(pos int) {
	sess := s.sess
	if sess == nil {
		return
	}
	sess.cursor = clamp(pos, 0, len(sess.text))
	sess.selection = nil
	s.notify()
}

// SetSelection define a seleção, limitada ao texto, e move o cursor
// para a ponta final.
func (s *Service) SetSelection(start, end int) {
	sess := s.sess
	if sess == nil {
		return
	}
	start = clamp(start, 0, len(sess.text))
	end = clamp(end, 0, len(sess.text))
	if start > end {
		start, end = end, start
	}
	sess.selection = &dto.Selection{Start: start, End: end}
	sess.cursor = end
	s.notify()
}

// ClearSelection remove a seleção mantendo o cursor
func (s *Service) ClearSelection() {
	sess := s.sess
	if sess == nil || sess.selection == nil {
		return
	}
	sess.selection = nil
	s.notify()
}

// moveCaret implementa as setas esquerda/direita do modo Edit, com
// salto por palavra e extensão de seleção.
func (s *Service) moveCaret(dir dto.Direction, jump, extend bool) {
	sess := s.sess
	if sess == nil {
		return
	}

	anchor := sess.cursor
	if sess.selection != nil {
		if sess.cursor == sess.selection.End {
			anchor = sess.selection.Start
		} else {
			anchor = sess.selection.End
		}
	}

	pos := sess.cursor
	if dir == dto.DirLeft {
		if jump {
			pos = prevWordBoundary(sess.text, pos)
		} else if sess.selection != nil && !extend {
			pos = sess.selection.Start
		} else {
			pos--
		}
	} else {
		if jump {
			pos = nextWordBoundary(sess.text, pos)
		} else if sess.selection != nil && !extend {
			pos = sess.selection.End
		} else {
			pos++
		}
	}
	pos = clamp(pos, 0, len(sess.text))

	if extend {
		start, end := anchor, pos
		if start > end {
			start, end = end, start
		}
		sess.selection = &dto.Selection{Start: start, End: end}
	} else {
		sess.selection = nil
	}
	sess.cursor = pos
	s.notify()
}

func prevWordBoundary(text string, pos int) int {
	if pos <= 0 {
		return 0
	}
	i := pos
	for i > 0 && isWordSep(rune(text[i-1])) {
		i--
	}
	for i > 0 && !isWordSep(rune(text[i-1])) {
		i--
	}
	return i
}

func nextWordBoundary(text string, pos int) int {
	n := len(text)
	i := pos
	for i < n && !isWordSep(rune(text[i])) {
		i++
	}
	for i < n && isWordSep(rune(text[i])) {
		i++
	}
	return i
}

func isWordSep(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == ';' || r == '(' || r == ')' ||
		r == '+' || r == '-' || r == '*' || r == '/' || r == ':' || r == '&'
}

// ApplyCharacterFormat aplica o formato à seleção; sem seleção, alterna
// cada campo no formato pendente: se o valor efetivo no cursor já é o
// pedido, o campo sai do pendente, senão entra. É o comportamento
// "negrito, digita, negrito de novo" do Excel.
func (s *Service) ApplyCharacterFormat(format richtext.CharacterFormat) {
	sess := s.sess
	if sess == nil || format.IsEmpty() {
		return
	}

	if sess.selection != nil && sess.selection.Start != sess.selection.End {
		ft := sess.ensureFormatted()
		ft = richtext.ApplyFormat(ft, sess.selection.Start, sess.selection.End, format)
		sess.formatted = &ft
		s.notify()
		return
	}

	effective := sess.effectiveFormatAtCaret()
	pending := richtext.CharacterFormat{}
	if sess.pending != nil {
		pending = *sess.pending
	}
	pending = toggleFields(pending, effective, format)
	if pending.IsEmpty() {
		sess.pending = nil
	} else {
		sess.pending = &pending
	}
	s.notify()
}

// effectiveFormatAtCaret é pendingFormat sobreposto ao run à esquerda
func (sess *session) effectiveFormatAtCaret() richtext.CharacterFormat {
	base := richtext.CharacterFormat{}
	if sess.formatted != nil {
		if f := richtext.FormatAtPosition(*sess.formatted, sess.cursor); f != nil {
			base = *f
		}
	}
	if sess.pending != nil {
		base = base.Merge(*sess.pending)
	}
	return base
}

// toggleFields alterna campo a campo o formato pedido dentro do pendente
func toggleFields(pending, effective, requested richtext.CharacterFormat) richtext.CharacterFormat {
	if requested.Bold != nil {
		if effective.Bold != nil && *effective.Bold == *requested.Bold {
			pending.Bold = nil
		} else {
			pending.Bold = requested.Bold
		}
	}
	if requested.Italic != nil {
		if effective.Italic != nil && *effective.Italic == *requested.Italic {
			pending.Italic = nil
		} else {
			pending.Italic = requested.Italic
		}
	}
	if requested.Underline != nil {
		if effective.Underline != nil && *effective.Underline == *requested.Underline {
			pending.Underline = nil
		} else {
			pending.Underline = requested.Underline
		}
	}
	if requested.Strikethrough != nil {
		if effective.Strikethrough != nil && *effective.Strikethrough == *requested.Strikethrough {
			pending.Strikethrough = nil
		} else {
			pending.Strikethrough = requested.Strikethrough
		}
	}
	if requested.FontFamily != nil {
		if effective.FontFamily != nil && *effective.FontFamily == *requested.FontFamily {
			pending.FontFamily = nil
		} else {
			pending.FontFamily = requested.FontFamily
		}
	}
	if requested.FontSize != nil {
		if effective.FontSize != nil && *effective.FontSize == *requested.FontSize {
			pending.FontSize = nil
		} else {
			pending.FontSize = requested.FontSize
		}
	}
	if requested.FontColor != nil {
		if effective.FontColor != nil && *effective.FontColor == *requested.FontColor {
			pending.FontColor = nil
		} else {
			pending.FontColor = requested.FontColor
		}
	}
	if requested.BackgroundColor != nil {
		if effective.BackgroundColor != nil && *effective.BackgroundColor == *requested.BackgroundColor {
			pending.BackgroundColor = nil
		} else {
			pending.BackgroundColor = requested.BackgroundColor
		}
	}
	return pending
}

// ensureFormatted promove o buffer a FormattedText quando necessário
func (sess *session) ensureFormatted() richtext.FormattedText {
	if sess.formatted != nil {
		return *sess.formatted
	}
	return richtext.Ensure(sess.text)
}

// SetComposition inicia ou atualiza a composição IME, substituindo o
// intervalo de composição corrente pelo novo texto.
func (s *Service) SetComposition(text string) {
	sess := s.sess
	if sess == nil {
		return
	}

	if !sess.composing {
		// a composição substitui a seleção, como uma inserção
		start, end := sess.cursor, sess.cursor
		if sess.selection != nil {
			start = sess.selection.Start
			end = sess.selection.End
		}
		sess.replaceRange(start, end, "")
		sess.selection = nil
		sess.composing = true
		sess.compFrom = start
		sess.compTo = start
	}

	sess.replaceRange(sess.compFrom, sess.compTo, text)
	sess.compTo = sess.compFrom + len(text)
	sess.cursor = sess.compTo
	s.afterTextChange()
}

// CommitComposition encerra a composição gravando o texto final
func (s *Service) CommitComposition(text string) {
	sess := s.sess
	if sess == nil || !sess.composing {
		return
	}
	sess.replaceRange(sess.compFrom, sess.compTo, text)
	sess.cursor = sess.compFrom + len(text)
	sess.composing = false
	sess.compFrom = 0
	sess.compTo = 0
	s.afterTextChange()
}

// CancelComposition descarta o texto em composição
func (s *Service) CancelComposition() {
	sess := s.sess
	if sess == nil || !sess.composing {
		return
	}
	sess.replaceRange(sess.compFrom, sess.compTo, "")
	sess.cursor = sess.compFrom
	sess.composing = false
	sess.compFrom = 0
	sess.compTo = 0
	s.afterTextChange()
}

// replaceRange troca [start, end) por text, preservando runs quando o
// buffer é FormattedText.
func (sess *session) replaceRange(start, end int, text string) {
	start = clamp(start, 0, len(sess.text))
	end = clamp(end, start, len(sess.text))
	if sess.formatted != nil {
		ft := richtext.Delete(*sess.formatted, start, end)
		if text != "" {
			ft = richtext.Insert(ft, start, text)
		}
		sess.formatted = &ft
		sess.text = ft.Text
	} else {
		sess.text = sess.text[:start] + text + sess.text[end:]
	}
}
