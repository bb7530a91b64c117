package clipboard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sheet-engine/internal/domain"
	apperrors "sheet-engine/pkg/errors"
	"sheet-engine/pkg/logger"
	"sheet-engine/pkg/ref"
)

// SystemClipboard é a fronteira com o clipboard do hospedeiro. A única
// operação com cara de E/S do núcleo: uma leitura que devolve texto e
// HTML opcional, ou falha. Em hospedeiros sem suporte devolve erro,
// nunca pânico.
type SystemClipboard interface {
	Read() (text string, html string, err error)
	Write(text string, html string) error
}

// ExternalContent é o resultado anulável de uma leitura externa
type ExternalContent struct {
	Text string
	HTML string
}

// ReadExternal lê o clipboard do hospedeiro. Falhas do hospedeiro são
// convertidas em resultado nulo, sem propagação de pânico.
func (s *Service) ReadExternal() *ExternalContent {
	if s.system == nil {
		return nil
	}
	text, htmlContent, err := s.system.Read()
	if err != nil {
		logger.ClipboardWarn(fmt.Sprintf("leitura do clipboard do sistema falhou: %v", err))
		return nil
	}
	return &ExternalContent{Text: text, HTML: htmlContent}
}

var crlfPattern = regexp.MustCompile(`\r?\n`)

// PasteExternal cola texto externo no alvo: linhas separadas por
// \r?\n, colunas por TAB. Cada token é coagido: vazio → célula vazia,
// TRUE/FALSE → booleano, número reconhecível → número, senão texto.
func (s *Service) PasteExternal(text string, target ref.Address) *PasteResult {
	if text == "" {
		return failure(apperrors.NoClipboardData("texto externo vazio"))
	}

	rows := crlfPattern.Split(text, -1)

	type write struct {
		addr ref.Address
		cell *domain.Cell
	}
	var writes []write
	for r, line := range rows {
		for c, token := range strings.Split(line, "\t") {
			addr := ref.Address{Row: target.Row + r, Col: target.Col + c}
			if !s.store.InBounds(addr) {
				return failure(apperrors.OutOfBounds(
					fmt.Sprintf("colagem externa fora dos limites em (%d,%d)", addr.Row, addr.Col)))
			}
			writes = append(writes, write{addr: addr, cell: &domain.Cell{Value: coerceToken(token), Dirty: true}})
		}
	}

	written := make([]ref.Address, 0, len(writes))
	for _, w := range writes {
		if err := s.store.Set(w.addr, w.cell); err != nil {
			return failure(apperrors.Wrap(err, apperrors.ErrCodeInternal, "falha ao gravar colagem externa"))
		}
		written = append(written, w.addr)
	}

	targetRange := ref.NewRange(target.Row, target.Col,
		target.Row+len(rows)-1, target.Col+maxCols(rows)-1)
	if s.onPaste != nil {
		s.onPaste(targetRange, written)
	}
	return &PasteResult{Success: true, Written: written}
}

func maxCols(rows []string) int {
	m := 1
	for _, line := range rows {
		if n := strings.Count(line, "\t") + 1; n > m {
			m = n
		}
	}
	return m
}

// coerceToken aplica a coerção de tipos da colagem externa
func coerceToken(token string) domain.CellValue {
	if token == "" {
		return domain.EmptyValue()
	}
	switch strings.ToUpper(token) {
	case "TRUE":
		return domain.BoolValue(true)
	case "FALSE":
		return domain.BoolValue(false)
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(token), 64); err == nil {
		return domain.NumberValue(n)
	}
	return domain.StringValue(token)
}
