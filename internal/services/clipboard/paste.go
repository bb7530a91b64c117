package clipboard

import (
	"fmt"

	"sheet-engine/internal/domain"
	apperrors "sheet-engine/pkg/errors"
	"sheet-engine/pkg/logger"
	"sheet-engine/pkg/ref"
)

// PasteType enumera os modos de colagem especial
type PasteType int

const (
	PasteAll PasteType = iota
	PasteValues
	PasteFormulas
	PasteFormats
	PasteValuesAndFormats
	PasteLink // reservado
	PasteTranspose
)

// PasteOperation é a operação aritmética aplicada na colagem
type PasteOperation int

const (
	OpNone PasteOperation = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// PasteOptions parametriza uma colagem
type PasteOptions struct {
	Type       PasteType
	Operation  PasteOperation
	SkipBlanks bool
	Transpose  bool
}

// PasteResult é o resultado estruturado de uma colagem
type PasteResult struct {
	Success bool
	Written []ref.Address
	Error   *apperrors.AppError
}

func failure(err *apperrors.AppError) *PasteResult {
	return &PasteResult{Success: false, Error: err}
}

// Paste cola o clipboard com o canto superior esquerdo no alvo
func (s *Service) Paste(target ref.Address, opts PasteOptions) *PasteResult {
	data, res := s.pasteSource()
	if res != nil {
		return res
	}
	targetRange := ref.Range{
		StartRow: target.Row, StartCol: target.Col,
		EndRow: target.Row, EndCol: target.Col,
	}
	return s.pasteInternal(data, target, targetRange, false, opts)
}

// PasteToRange repete o padrão do clipboard por todo o range alvo,
// mapeando cada célula para o deslocamento módulo linhas/colunas.
func (s *Service) PasteToRange(target ref.Range, opts PasteOptions) *PasteResult {
	data, res := s.pasteSource()
	if res != nil {
		return res
	}
	if !target.Normalize().IsValid() {
		return failure(apperrors.InvalidRange("range alvo inválido"))
	}
	return s.pasteInternal(data, target.Normalize().TopLeft(), target.Normalize(), true, opts)
}

func (s *Service) pasteSource() (*Data, *PasteResult) {
	if s.data == nil {
		if s.cutConsumed {
			return nil, failure(apperrors.CutAlreadyConsumed("o recorte já foi colado"))
		}
		return nil, failure(apperrors.NoClipboardData("nada copiado ou recortado"))
	}
	return s.data, nil
}

// pasteInternal valida, monta todas as escritas e só então muta o
// store: ou a operação inteira acontece, ou nada acontece.
func (s *Service) pasteInternal(data *Data, target ref.Address, targetRange ref.Range, tile bool, opts PasteOptions) *PasteResult {
	if opts.Type == PasteLink {
		// reservado: enumerado mas sem comportamento definido
		return failure(apperrors.InvalidInput("tipo de colagem reservado"))
	}

	transpose := opts.Transpose || opts.Type == PasteTranspose

	rowDelta := target.Row - data.BoundingBox.StartRow
	colDelta := target.Col - data.BoundingBox.StartCol

	type write struct {
		addr ref.Address
		cell *domain.Cell
	}
	var writes []write

	place := func(clip ClipCell, addr ref.Address) *apperrors.AppError {
		if !s.store.InBounds(addr) {
			return apperrors.OutOfBounds(fmt.Sprintf("colagem fora dos limites em (%d,%d)", addr.Row, addr.Col))
		}
		existing := s.store.Get(addr)
		cell := s.buildPastedCell(clip, existing, addr, rowDelta, colDelta, opts)
		if cell != nil {
			writes = append(writes, write{addr: addr, cell: cell})
		}
		return nil
	}

	if tile {
		rows, cols := data.Rows, data.Cols
		if transpose {
			rows, cols = cols, rows
		}
		byOffset := make(map[[2]int]ClipCell, len(data.Cells))
		for _, clip := range data.Cells {
			r, c := clip.RowOffset, clip.ColOffset
			if transpose {
				r, c = c, r
			}
			byOffset[[2]int{r, c}] = clip
		}
		for r := targetRange.StartRow; r <= targetRange.EndRow; r++ {
			for c := targetRange.StartCol; c <= targetRange.EndCol; c++ {
				clip, ok := byOffset[[2]int{(r - targetRange.StartRow) % rows, (c - targetRange.StartCol) % cols}]
				if !ok {
					continue
				}
				if opts.SkipBlanks && clip.Cell.IsBlank() {
					continue
				}
				if err := place(clip, ref.Address{Row: r, Col: c}); err != nil {
					return failure(err)
				}
			}
		}
	} else {
		for _, clip := range data.Cells {
			if opts.SkipBlanks && clip.Cell.IsBlank() {
				continue
			}
			r, c := clip.RowOffset, clip.ColOffset
			if transpose {
				r, c = c, r
			}
			addr := ref.Address{Row: target.Row + r, Col: target.Col + c}
			if err := place(clip, addr); err != nil {
				return failure(err)
			}
		}
	}

	// ponto de não retorno: daqui em diante tudo é aplicado
	written := make([]ref.Address, 0, len(writes))
	writtenSet := make(map[ref.Address]bool, len(writes))
	for _, w := range writes {
		if err := s.store.Set(w.addr, w.cell); err != nil {
			return failure(apperrors.Wrap(err, apperrors.ErrCodeInternal, "falha ao gravar célula colada"))
		}
		written = append(written, w.addr)
		writtenSet[w.addr] = true
	}

	if data.Kind == KindCut {
		for _, rg := range data.SourceRanges {
			for r := rg.StartRow; r <= rg.EndRow; r++ {
				for c := rg.StartCol; c <= rg.EndCol; c++ {
					addr := ref.Address{Row: r, Col: c}
					if !writtenSet[addr] {
						s.store.Delete(addr)
					}
				}
			}
		}
		box := data.BoundingBox
		s.data = nil
		s.cutConsumed = true
		s.fireChange(nil)
		if s.onCutComplete != nil {
			s.onCutComplete(box)
		}
		logger.ClipboardDebug(fmt.Sprintf("recorte consumado, origem %s limpa", box.String()))
	}

	if s.onPaste != nil {
		s.onPaste(targetRange, written)
	}
	return &PasteResult{Success: true, Written: written}
}

// buildPastedCell monta a célula destino segundo o tipo de colagem.
// Devolve nil quando a colagem não toca o alvo.
func (s *Service) buildPastedCell(clip ClipCell, existing *domain.Cell, addr ref.Address, rowDelta, colDelta int, opts PasteOptions) *domain.Cell {
	src := clip.Cell

	switch opts.Type {
	case PasteFormats:
		out := existing
		if out == nil {
			out = &domain.Cell{Value: domain.EmptyValue()}
		}
		out.Format = cloneFormat(src.Format)
		out.Borders = cloneBorders(src.Borders)
		return out

	case PasteValues:
		out := existing
		if out == nil {
			out = &domain.Cell{Value: domain.EmptyValue()}
		}
		// o valor avaliado substitui qualquer fórmula do alvo
		out.Value = applyOperation(src.Value.Evaluated(), out.Value, opts.Operation)
		out.Dirty = true
		return out

	case PasteValuesAndFormats:
		out := existing
		if out == nil {
			out = &domain.Cell{Value: domain.EmptyValue()}
		}
		out.Value = applyOperation(src.Value.Evaluated(), out.Value, opts.Operation)
		out.Format = cloneFormat(src.Format)
		out.Borders = cloneBorders(src.Borders)
		out.Dirty = true
		return out

	case PasteFormulas:
		out := existing
		if out == nil {
			out = &domain.Cell{Value: domain.EmptyValue()}
		}
		if src.Value.Type == domain.ValueFormula {
			out.Value = domain.FormulaValue(AdjustFormula(src.Value.Formula, rowDelta, colDelta), nil)
			out.Dirty = true
		} else {
			out.Value = src.Value
			out.Dirty = true
		}
		return out

	default: // PasteAll e PasteTranspose
		out := src.Clone()
		if src.Value.Type == domain.ValueFormula {
			out.Value = domain.FormulaValue(AdjustFormula(src.Value.Formula, rowDelta, colDelta), nil)
			out.Dirty = true
			return out
		}
		if opts.Operation != OpNone {
			existingValue := domain.EmptyValue()
			if existing != nil {
				existingValue = existing.Value
			}
			out.Value = applyOperation(src.Value, existingValue, opts.Operation)
		}
		out.Dirty = true
		return out
	}
}

// applyOperation combina origem e destino sob a operação aritmética.
// Divisão por zero grava a string literal #DIV/0!, na convenção de
// planilhas.
func applyOperation(source, existing domain.CellValue, op PasteOperation) domain.CellValue {
	if op == OpNone {
		return source
	}
	a := existing.ToNumber()
	b := source.ToNumber()
	switch op {
	case OpAdd:
		return domain.NumberValue(a + b)
	case OpSubtract:
		return domain.NumberValue(a - b)
	case OpMultiply:
		return domain.NumberValue(a * b)
	case OpDivide:
		if b == 0 {
			return domain.StringValue("#DIV/0!")
		}
		return domain.NumberValue(a / b)
	}
	return source
}

func cloneFormat(f *domain.CellFormat) *domain.CellFormat {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

func cloneBorders(b *domain.Borders) *domain.Borders {
	if b == nil {
		return nil
	}
	c := *b
	if b.Top != nil {
		t := *b.Top
		c.Top = &t
	}
	if b.Bottom != nil {
		t := *b.Bottom
		c.Bottom = &t
	}
	if b.Left != nil {
		t := *b.Left
		c.Left = &t
	}
	if b.Right != nil {
		t := *b.Right
		c.Right = &t
	}
	return &c
}
