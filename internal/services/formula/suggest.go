package formula

import (
	"sort"
	"strings"

	"sheet-engine/pkg/ref"
)

const (
	scoreExact     = 1000
	scorePrefix    = 100
	scoreSubstring = 10

	maxSuggestions = 10
	maxRecent      = 10
)

// Suggestion é uma função candidata com sua pontuação
type Suggestion struct {
	Function *FunctionInfo
	Score    int
}

// Engine mantém o estado de sugestões: a lista de funções aceitas
// recentemente, usada como impulso de pontuação.
type Engine struct {
	recent []string // mais recente primeiro
}

// NewEngine cria um motor de sugestões sem histórico
func NewEngine() *Engine {
	return &Engine{}
}

// RecordUse registra a aceitação de uma função, movendo-a para o topo
// da lista de recentes.
func (e *Engine) RecordUse(name string) {
	name = strings.ToUpper(name)
	if Lookup(name) == nil {
		return
	}
	out := make([]string, 0, len(e.recent)+1)
	out = append(out, name)
	for _, n := range e.recent {
		if n != name {
			out = append(out, n)
		}
	}
	if len(out) > maxRecent {
		out = out[:maxRecent]
	}
	e.recent = out
}

// Suggest devolve até dez funções ordenadas por pontuação. Tokens com
// forma de referência de célula não geram sugestões.
func (e *Engine) Suggest(ctx *Context) []Suggestion {
	if ctx == nil || !ctx.IsFormula || ctx.InsideString {
		return nil
	}
	token := strings.TrimSpace(ctx.CurrentToken)
	if token == "" {
		return nil
	}
	if ref.IsReference(token) {
		return nil
	}

	upper := strings.ToUpper(token)
	var out []Suggestion
	for i := range builtinFunctions {
		f := &builtinFunctions[i]
		score := 0
		switch {
		case f.Name == upper:
			score = scoreExact
		case strings.HasPrefix(f.Name, upper):
			// prefixos mais curtos vencem o empate
			score = scorePrefix - len(f.Name)
		case strings.Contains(f.Name, upper):
			score = scoreSubstring
		default:
			continue
		}
		score += e.recencyBoost(f.Name)
		out = append(out, Suggestion{Function: f, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Function.Name < out[j].Function.Name
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

func (e *Engine) recencyBoost(name string) int {
	for i, n := range e.recent {
		if n == name {
			return 50 - 5*i
		}
	}
	return 0
}
