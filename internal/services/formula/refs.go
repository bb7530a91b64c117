package formula

import (
	"strings"

	"github.com/xuri/efp"

	"sheet-engine/pkg/ref"
)

// ExtractReferences tokeniza a fórmula e devolve os endereços das
// referências A1 encontradas fora de literais de string, em ordem de
// aparição e sem duplicatas. Referências inválidas são descartadas em
// silêncio.
func ExtractReferences(formula string) []ref.Address {
	if !strings.HasPrefix(formula, "=") {
		return nil
	}

	parser := efp.ExcelParser()
	tokens := parser.Parse(strings.TrimPrefix(formula, "="))

	seen := make(map[ref.Address]bool)
	var out []ref.Address
	add := func(addr ref.Address) {
		if !seen[addr] {
			seen[addr] = true
			out = append(out, addr)
		}
	}

	for _, tok := range tokens {
		if tok.TType != efp.TokenTypeOperand || tok.TSubType != efp.TokenSubTypeRange {
			continue
		}
		// referências com planilha (Aba!A1) ficam fora do grid local
		if strings.Contains(tok.TValue, "!") {
			continue
		}
		parts := strings.SplitN(tok.TValue, ":", 2)
		first, err := ref.ParseA1(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		if len(parts) == 1 {
			add(first)
			continue
		}
		second, err := ref.ParseA1(strings.TrimSpace(parts[1]))
		if err != nil {
			add(first)
			continue
		}
		rg := ref.NewRange(first.Row, first.Col, second.Row, second.Col)
		// ranges muito grandes entram só pelas pontas
		if rg.Rows()*rg.Cols() > 256 {
			add(rg.TopLeft())
			add(ref.Address{Row: rg.EndRow, Col: rg.EndCol})
			continue
		}
		for r := rg.StartRow; r <= rg.EndRow; r++ {
			for c := rg.StartCol; c <= rg.EndCol; c++ {
				add(ref.Address{Row: r, Col: c})
			}
		}
	}
	return out
}

// ReferencedRanges devolve os ranges referenciados pela fórmula, um por
// operando, preservando a ordem de aparição. É o insumo para colorir
// referências na camada de visualização.
func ReferencedRanges(formula string) []ref.Range {
	if !strings.HasPrefix(formula, "=") {
		return nil
	}

	parser := efp.ExcelParser()
	tokens := parser.Parse(strings.TrimPrefix(formula, "="))

	var out []ref.Range
	for _, tok := range tokens {
		if tok.TType != efp.TokenTypeOperand || tok.TSubType != efp.TokenSubTypeRange {
			continue
		}
		if strings.Contains(tok.TValue, "!") {
			continue
		}
		rg, err := ref.ParseRange(tok.TValue)
		if err != nil {
			continue
		}
		out = append(out, rg)
	}
	return out
}
