package clipboard

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sheet-engine/internal/domain"
	"sheet-engine/internal/services/grid"
	apperrors "sheet-engine/pkg/errors"
	"sheet-engine/pkg/logger"
	"sheet-engine/pkg/ref"
	"sheet-engine/pkg/validator"
)

// Kind distingue cópia de recorte
type Kind int

const (
	KindCopy Kind = iota
	KindCut
)

// ClipCell é uma célula capturada com seu deslocamento na caixa
// delimitadora e o endereço original.
type ClipCell struct {
	RowOffset       int
	ColOffset       int
	OriginalAddress ref.Address
	Cell            *domain.Cell
}

// Data é o conteúdo da área de transferência. Uma cópia sobrevive a
// colagens arbitrárias; um recorte é destruído na primeira colagem.
type Data struct {
	ID           string
	Kind         Kind
	SourceRanges []ref.Range
	BoundingBox  ref.Range
	Cells        []ClipCell
	Rows         int
	Cols         int
	PlainText    string
	HTML         string
	IsMultiRange bool
	Timestamp    time.Time
}

// Service é o motor de copiar/recortar/colar sobre o grid
type Service struct {
	store *grid.Store
	data  *Data

	// um recorte já consumido responde de forma distinta de um
	// clipboard vazio
	cutConsumed bool

	system SystemClipboard

	onChange      func(*Data)
	onPaste       func(target ref.Range, written []ref.Address)
	onCutComplete func(source ref.Range)

	now func() time.Time
}

// NewService cria o motor sobre o store informado
func NewService(store *grid.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// SetSystemClipboard registra o hospedeiro de clipboard externo
func (s *Service) SetSystemClipboard(system SystemClipboard) {
	s.system = system
}

// OnClipboardChange registra o observador de mudanças (nil ao limpar)
func (s *Service) OnClipboardChange(fn func(*Data)) {
	s.onChange = fn
}

// OnPaste registra o observador de colagens efetivadas
func (s *Service) OnPaste(fn func(target ref.Range, written []ref.Address)) {
	s.onPaste = fn
}

// OnCutComplete registra o observador de recortes consumados
func (s *Service) OnCutComplete(fn func(source ref.Range)) {
	s.onCutComplete = fn
}

// Data devolve o conteúdo corrente, ou nil
func (s *Service) Data() *Data {
	return s.data
}

// Copy captura os ranges no clipboard. Ranges múltiplos são
// deduplicados por endereço; a caixa delimitadora cobre a união.
func (s *Service) Copy(ranges ...ref.Range) (*Data, error) {
	return s.capture(KindCopy, ranges)
}

// Cut captura os ranges marcando a origem para remoção na colagem
func (s *Service) Cut(ranges ...ref.Range) (*Data, error) {
	return s.capture(KindCut, ranges)
}

func (s *Service) capture(kind Kind, ranges []ref.Range) (*Data, error) {
	if len(ranges) == 0 {
		return nil, apperrors.InvalidRange("nenhum range para capturar")
	}
	v := validator.NewValidator()
	for i, rg := range ranges {
		v.ValidateRange(fmt.Sprintf("range[%d]", i), rg, s.store.Limits().MaxRows, s.store.Limits().MaxCols)
	}
	if v.HasErrors() {
		return nil, apperrors.NewWithCause(apperrors.ErrCodeInvalidRange, "range inválido para captura", v.Error())
	}

	normalized := make([]ref.Range, len(ranges))
	for i, rg := range ranges {
		normalized[i] = rg.Normalize()
	}

	box := normalized[0]
	for _, rg := range normalized[1:] {
		if rg.StartRow < box.StartRow {
			box.StartRow = rg.StartRow
		}
		if rg.StartCol < box.StartCol {
			box.StartCol = rg.StartCol
		}
		if rg.EndRow > box.EndRow {
			box.EndRow = rg.EndRow
		}
		if rg.EndCol > box.EndCol {
			box.EndCol = rg.EndCol
		}
	}

	seen := make(map[ref.Address]bool)
	var cells []ClipCell
	for _, rg := range normalized {
		for _, entry := range s.store.EnumerateRange(rg) {
			if seen[entry.Address] {
				continue
			}
			seen[entry.Address] = true
			cells = append(cells, ClipCell{
				RowOffset:       entry.Address.Row - box.StartRow,
				ColOffset:       entry.Address.Col - box.StartCol,
				OriginalAddress: entry.Address,
				Cell:            entry.Cell, // EnumerateRange já devolve clones
			})
		}
	}

	data := &Data{
		ID:           uuid.NewString(),
		Kind:         kind,
		SourceRanges: normalized,
		BoundingBox:  box,
		Cells:        cells,
		Rows:         box.Rows(),
		Cols:         box.Cols(),
		IsMultiRange: len(normalized) > 1,
		Timestamp:    s.now(),
	}
	data.PlainText = buildPlainText(data)
	data.HTML = buildHTML(data)

	s.data = data
	s.cutConsumed = false
	logger.ClipboardDebug(fmt.Sprintf("captura %s: %d células, caixa %s",
		kindName(kind), len(cells), box.String()))

	s.writeToSystem(data)
	s.fireChange(data)
	return data, nil
}

// writeToSystem espelha a captura no clipboard do hospedeiro; falhas
// são registradas e engolidas.
func (s *Service) writeToSystem(data *Data) {
	if s.system == nil {
		return
	}
	if err := s.system.Write(data.PlainText, data.HTML); err != nil {
		logger.ClipboardWarn(fmt.Sprintf("falha ao gravar no clipboard do sistema: %v", err))
	}
}

// Clear esvazia o clipboard
func (s *Service) Clear() {
	s.data = nil
	s.cutConsumed = false
	s.fireChange(nil)
}

func (s *Service) fireChange(data *Data) {
	if s.onChange != nil {
		s.onChange(data)
	}
}

func kindName(k Kind) string {
	if k == KindCut {
		return "recorte"
	}
	return "cópia"
}
