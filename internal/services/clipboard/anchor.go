package clipboard

import (
	"strings"

	"github.com/xuri/efp"

	"sheet-engine/pkg/ref"
)

// AdjustFormula desloca as referências relativas de uma fórmula pelo
// delta da colagem. A fórmula é tokenizada, os operandos de referência
// são reescritos e o texto é remontado; referências dentro de literais
// de string e componentes ancorados com $ passam intactos. Os
// componentes deslocados são limitados ao domínio válido.
func AdjustFormula(formulaSrc string, rowDelta, colDelta int) string {
	if !strings.HasPrefix(formulaSrc, "=") {
		return formulaSrc
	}
	if rowDelta == 0 && colDelta == 0 {
		return formulaSrc
	}

	parser := efp.ExcelParser()
	tokens := parser.Parse(strings.TrimPrefix(formulaSrc, "="))

	var sb strings.Builder
	sb.WriteByte('=')
	for _, tok := range tokens {
		switch {
		case tok.TType == efp.TokenTypeFunction && tok.TSubType == efp.TokenSubTypeStart:
			sb.WriteString(tok.TValue)
			sb.WriteByte('(')

		case tok.TType == efp.TokenTypeFunction && tok.TSubType == efp.TokenSubTypeStop:
			sb.WriteByte(')')

		case tok.TType == efp.TokenTypeSubexpression && tok.TSubType == efp.TokenSubTypeStart:
			sb.WriteByte('(')

		case tok.TType == efp.TokenTypeSubexpression && tok.TSubType == efp.TokenSubTypeStop:
			sb.WriteByte(')')

		case tok.TType == efp.TokenTypeArgument:
			sb.WriteByte(',')

		case tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeText:
			// o tokenizador remove as aspas; restaurar com escape dobrado
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(tok.TValue, `"`, `""`))
			sb.WriteByte('"')

		case tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeRange:
			sb.WriteString(shiftReference(tok.TValue, rowDelta, colDelta))

		default:
			sb.WriteString(tok.TValue)
		}
	}
	return sb.String()
}

// shiftReference desloca uma referência simples ou de range; as duas
// pontas de um range são tratadas de forma independente. Tokens que não
// são referências A1 locais voltam inalterados.
func shiftReference(token string, rowDelta, colDelta int) string {
	if strings.Contains(token, "!") {
		return token
	}
	parts := strings.SplitN(token, ":", 2)
	first, err := ref.ParseReference(strings.TrimSpace(parts[0]))
	if err != nil {
		return token
	}
	shifted := first.Shift(rowDelta, colDelta).String()
	if len(parts) == 1 {
		return shifted
	}
	second, err := ref.ParseReference(strings.TrimSpace(parts[1]))
	if err != nil {
		return token
	}
	return shifted + ":" + second.Shift(rowDelta, colDelta).String()
}
