package formula

import (
	"strings"
)

// ArgumentHint descreve o argumento ativo da função corrente
type ArgumentHint struct {
	Function  *FunctionInfo
	ArgIndex  int
	Argument  ArgumentInfo
	Signature string
}

// GetArgumentHint devolve o argumento ativo segundo o contexto, ou nil
// quando não há função conhecida sob o cursor. O argumento ativo vem
// marcado com «…» na assinatura, para a camada de visualização.
func GetArgumentHint(ctx *Context) *ArgumentHint {
	if ctx == nil || ctx.CurrentFunction == nil || ctx.CurrentFunction.Info == nil {
		return nil
	}
	info := ctx.CurrentFunction.Info
	if len(info.Args) == 0 {
		return nil
	}

	idx := ctx.CurrentFunction.ArgIndex
	active := idx
	if idx >= len(info.Args) {
		last := info.Args[len(info.Args)-1]
		if !last.Repeating {
			return nil
		}
		active = len(info.Args) - 1
	}

	return &ArgumentHint{
		Function:  info,
		ArgIndex:  idx,
		Argument:  info.Args[active],
		Signature: signature(info, active),
	}
}

// signature monta "NOME(arg1, «arg2», ...)" com o argumento ativo marcado
func signature(info *FunctionInfo, active int) string {
	var sb strings.Builder
	sb.WriteString(info.Name)
	sb.WriteByte('(')
	for i, a := range info.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		name := a.Name
		if a.Optional {
			name = "[" + name + "]"
		}
		if a.Repeating {
			name += "…"
		}
		if i == active {
			sb.WriteString("«" + name + "»")
		} else {
			sb.WriteString(name)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
