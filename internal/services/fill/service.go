package fill

import (
	"fmt"

	"sheet-engine/internal/domain"
	"sheet-engine/internal/dto"
	"sheet-engine/internal/services/grid"
	apperrors "sheet-engine/pkg/errors"
	"sheet-engine/pkg/logger"
	"sheet-engine/pkg/ref"
	"sheet-engine/pkg/validator"
)

// Service implementa a alça de preenchimento: arrasto direcional,
// progressão linear para fontes numéricas e repetição de padrão, com
// preservação de FormattedText.
type Service struct {
	store *grid.Store
	drag  *dragState
}

type dragState struct {
	source  ref.Range
	current ref.Address
}

// NewService cria a alça sobre o store informado
func NewService(store *grid.Store) *Service {
	return &Service{store: store}
}

// StartDrag inicia um arrasto a partir do range de origem
func (s *Service) StartDrag(source ref.Range) error {
	v := validator.NewValidator()
	v.ValidateRange("source", source, s.store.Limits().MaxRows, s.store.Limits().MaxCols)
	if v.HasErrors() {
		return apperrors.NewWithCause(apperrors.ErrCodeInvalidRange, "origem de preenchimento inválida", v.Error())
	}
	s.drag = &dragState{
		source:  source.Normalize(),
		current: source.Normalize().TopLeft(),
	}
	return nil
}

// UpdateDrag registra a célula sob o ponteiro durante o arrasto
func (s *Service) UpdateDrag(addr ref.Address) {
	if s.drag == nil {
		return
	}
	if addr.Row < 0 {
		addr.Row = 0
	}
	if addr.Col < 0 {
		addr.Col = 0
	}
	s.drag.current = addr
}

// EndDrag conclui o arrasto preenchendo na direção dominante e devolve
// os endereços escritos. Um arrasto que não saiu da origem não escreve.
func (s *Service) EndDrag() ([]ref.Address, error) {
	if s.drag == nil {
		return nil, apperrors.InvalidInput("nenhum arrasto em andamento")
	}
	drag := s.drag
	s.drag = nil

	source := drag.source
	cur := drag.current
	if source.Contains(cur) {
		return nil, nil
	}

	dir, span := dominantDirection(source, cur)
	target := targetRange(source, dir, span)
	written, err := s.fillRange(source, target, dir)
	if err != nil {
		return nil, err
	}
	logger.FillDebug(fmt.Sprintf("preenchimento %s -> %s (%d células)", source.String(), target.String(), len(written)))
	return written, nil
}

// AutoFill estende a origem para baixo acompanhando a extensão contígua
// dos dados da coluna vizinha: a da esquerda quando houver, senão a da
// direita. Sem vizinho com dados, nada é preenchido.
func (s *Service) AutoFill(source ref.Range) ([]ref.Address, error) {
	v := validator.NewValidator()
	v.ValidateRange("source", source, s.store.Limits().MaxRows, s.store.Limits().MaxCols)
	if v.HasErrors() {
		return nil, apperrors.NewWithCause(apperrors.ErrCodeInvalidRange, "origem de preenchimento inválida", v.Error())
	}
	source = source.Normalize()

	neighbor := source.StartCol - 1
	if neighbor < 0 || s.store.Get(ref.Address{Row: source.StartRow, Col: neighbor}) == nil {
		neighbor = source.EndCol + 1
	}
	if neighbor >= s.store.Limits().MaxCols ||
		s.store.Get(ref.Address{Row: source.StartRow, Col: neighbor}) == nil {
		return nil, nil
	}

	extent := s.store.ContiguousExtent(neighbor, source.StartRow)
	if extent <= source.EndRow {
		return nil, nil
	}

	target := ref.Range{
		StartRow: source.EndRow + 1, StartCol: source.StartCol,
		EndRow: extent, EndCol: source.EndCol,
	}
	written, err := s.fillRange(source, target, dto.DirDown)
	if err != nil {
		return nil, err
	}
	logger.FillDebug(fmt.Sprintf("auto-preenchimento %s -> %s", source.String(), target.String()))
	return written, nil
}

// dominantDirection decide o eixo do preenchimento pela maior distância
// da célula corrente até a borda da origem.
func dominantDirection(source ref.Range, cur ref.Address) (dto.Direction, int) {
	var vertical, horizontal int
	var vDir, hDir dto.Direction
	if cur.Row > source.EndRow {
		vertical = cur.Row - source.EndRow
		vDir = dto.DirDown
	} else if cur.Row < source.StartRow {
		vertical = source.StartRow - cur.Row
		vDir = dto.DirUp
	}
	if cur.Col > source.EndCol {
		horizontal = cur.Col - source.EndCol
		hDir = dto.DirRight
	} else if cur.Col < source.StartCol {
		horizontal = source.StartCol - cur.Col
		hDir = dto.DirLeft
	}
	if horizontal > vertical {
		return hDir, horizontal
	}
	return vDir, vertical
}

func targetRange(source ref.Range, dir dto.Direction, span int) ref.Range {
	switch dir {
	case dto.DirDown:
		return ref.Range{StartRow: source.EndRow + 1, StartCol: source.StartCol,
			EndRow: source.EndRow + span, EndCol: source.EndCol}
	case dto.DirUp:
		return ref.Range{StartRow: source.StartRow - span, StartCol: source.StartCol,
			EndRow: source.StartRow - 1, EndCol: source.EndCol}
	case dto.DirRight:
		return ref.Range{StartRow: source.StartRow, StartCol: source.EndCol + 1,
			EndRow: source.EndRow, EndCol: source.EndCol + span}
	default:
		return ref.Range{StartRow: source.StartRow, StartCol: source.StartCol - span,
			EndRow: source.EndRow, EndCol: source.StartCol - 1}
	}
}

// fillRange materializa o preenchimento. Para cada pista (coluna em
// preenchimento vertical, linha em horizontal) com valores puramente
// numéricos em progressão linear, a progressão continua; caso
// contrário o padrão da origem se repete. Valores FormattedText são
// clonados em profundidade célula a célula.
func (s *Service) fillRange(source, target ref.Range, dir dto.Direction) ([]ref.Address, error) {
	vertical := dir == dto.DirUp || dir == dto.DirDown
	var written []ref.Address

	laneCount := source.Cols()
	if !vertical {
		laneCount = source.Rows()
	}

	for lane := 0; lane < laneCount; lane++ {
		srcCells := s.laneCells(source, vertical, lane)
		step, linear := linearStep(srcCells)

		var laneTargets []ref.Address
		if vertical {
			col := source.StartCol + lane
			for r := target.StartRow; r <= target.EndRow; r++ {
				laneTargets = append(laneTargets, ref.Address{Row: r, Col: col})
			}
		} else {
			row := source.StartRow + lane
			for c := target.StartCol; c <= target.EndCol; c++ {
				laneTargets = append(laneTargets, ref.Address{Row: row, Col: c})
			}
		}
		if dir == dto.DirUp || dir == dto.DirLeft {
			reverse(laneTargets)
		}

		backward := dir == dto.DirUp || dir == dto.DirLeft
		for k, addr := range laneTargets {
			var cell *domain.Cell
			if linear {
				// continua a progressão para fora da origem
				base := srcCells[len(srcCells)-1]
				value := base.Value.ToNumber() + step*float64(k+1)
				if backward {
					base = srcCells[0]
					value = base.Value.ToNumber() - step*float64(k+1)
				}
				cell = base.Clone()
				cell.Value = domain.NumberValue(value)
			} else {
				pattern := srcCells[k%len(srcCells)]
				cell = pattern.Clone()
			}
			cell.Dirty = true
			if err := s.store.Set(addr, cell); err != nil {
				return written, err
			}
			written = append(written, addr)
		}
	}
	return written, nil
}

// laneCells devolve as células da pista em ordem, com vazias
// materializadas como células vazias para preservar o padrão.
func (s *Service) laneCells(source ref.Range, vertical bool, lane int) []*domain.Cell {
	var cells []*domain.Cell
	if vertical {
		col := source.StartCol + lane
		for r := source.StartRow; r <= source.EndRow; r++ {
			cells = append(cells, s.cellOrEmpty(ref.Address{Row: r, Col: col}))
		}
	} else {
		row := source.StartRow + lane
		for c := source.StartCol; c <= source.EndCol; c++ {
			cells = append(cells, s.cellOrEmpty(ref.Address{Row: row, Col: c}))
		}
	}
	return cells
}

func (s *Service) cellOrEmpty(addr ref.Address) *domain.Cell {
	if cell := s.store.Get(addr); cell != nil {
		return cell
	}
	return &domain.Cell{Value: domain.EmptyValue()}
}

// linearStep detecta progressão linear em uma pista puramente numérica
// com pelo menos dois valores; devolve o passo.
func linearStep(cells []*domain.Cell) (float64, bool) {
	if len(cells) < 2 {
		return 0, false
	}
	nums := make([]float64, len(cells))
	for i, c := range cells {
		if c.Value.Type != domain.ValueNumber {
			return 0, false
		}
		nums[i] = c.Value.Number
	}
	step := nums[1] - nums[0]
	for i := 2; i < len(nums); i++ {
		if nums[i]-nums[i-1] != step {
			return 0, false
		}
	}
	return step, true
}

func reverse(addrs []ref.Address) {
	for i, j := 0, len(addrs)-1; i < j; i, j = i+1, j-1 {
		addrs[i], addrs[j] = addrs[j], addrs[i]
	}
}
