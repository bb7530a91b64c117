package richtext

import (
	"sort"
)

// CharacterFormat descreve formatação em nível de caractere. Campos nil
// herdam a formatação da célula.
type CharacterFormat struct {
	Bold            *bool
	Italic          *bool
	Underline       *int // 0 nenhum, 1 simples, 2 duplo
	Strikethrough   *bool
	FontFamily      *string
	FontSize        *float64
	FontColor       *string
	BackgroundColor *string
}

// FormatRun é um intervalo meio-aberto [Start, End) com formatação própria
type FormatRun struct {
	Start  int
	End    int
	Format CharacterFormat
}

// FormattedText é um texto simples acompanhado de runs de formatação.
// Valores são imutáveis: toda operação devolve um FormattedText novo.
type FormattedText struct {
	Text string
	Runs []FormatRun
}

// Bool devolve um ponteiro para o valor
func Bool(v bool) *bool { return &v }

// Int devolve um ponteiro para o valor
func Int(v int) *int { return &v }

// Float devolve um ponteiro para o valor
func Float(v float64) *float64 { return &v }

// Str devolve um ponteiro para o valor
func Str(v string) *string { return &v }

// IsEmpty informa se nenhum campo está definido
func (f CharacterFormat) IsEmpty() bool {
	return f.Bold == nil && f.Italic == nil && f.Underline == nil &&
		f.Strikethrough == nil && f.FontFamily == nil && f.FontSize == nil &&
		f.FontColor == nil && f.BackgroundColor == nil
}

// Equal compara campo a campo, considerando ausência ≠ presença
func (f CharacterFormat) Equal(o CharacterFormat) bool {
	return eqBool(f.Bold, o.Bold) && eqBool(f.Italic, o.Italic) &&
		eqInt(f.Underline, o.Underline) && eqBool(f.Strikethrough, o.Strikethrough) &&
		eqStr(f.FontFamily, o.FontFamily) && eqFloat(f.FontSize, o.FontSize) &&
		eqStr(f.FontColor, o.FontColor) && eqStr(f.BackgroundColor, o.BackgroundColor)
}

// Merge sobrepõe os campos definidos em override sobre f, campo a campo
func (f CharacterFormat) Merge(override CharacterFormat) CharacterFormat {
	out := f
	if override.Bold != nil {
		out.Bold = override.Bold
	}
	if override.Italic != nil {
		out.Italic = override.Italic
	}
	if override.Underline != nil {
		out.Underline = override.Underline
	}
	if override.Strikethrough != nil {
		out.Strikethrough = override.Strikethrough
	}
	if override.FontFamily != nil {
		out.FontFamily = override.FontFamily
	}
	if override.FontSize != nil {
		out.FontSize = override.FontSize
	}
	if override.FontColor != nil {
		out.FontColor = override.FontColor
	}
	if override.BackgroundColor != nil {
		out.BackgroundColor = override.BackgroundColor
	}
	return out
}

func eqBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Ensure converte uma string simples em FormattedText sem runs
func Ensure(s string) FormattedText {
	return FormattedText{Text: s, Runs: nil}
}

// Clone devolve uma cópia independente (runs em novo slice)
func (ft FormattedText) Clone() FormattedText {
	out := FormattedText{Text: ft.Text}
	if len(ft.Runs) > 0 {
		out.Runs = make([]FormatRun, len(ft.Runs))
		copy(out.Runs, ft.Runs)
	}
	return out
}

// Equal compara texto e runs
func (ft FormattedText) Equal(o FormattedText) bool {
	if ft.Text != o.Text || len(ft.Runs) != len(o.Runs) {
		return false
	}
	for i := range ft.Runs {
		if ft.Runs[i].Start != o.Runs[i].Start || ft.Runs[i].End != o.Runs[i].End ||
			!ft.Runs[i].Format.Equal(o.Runs[i].Format) {
			return false
		}
	}
	return true
}

// Plain devolve apenas o texto
func (ft FormattedText) Plain() string {
	return ft.Text
}

// HasFormatting informa se existe ao menos um run não vazio
func (ft FormattedText) HasFormatting() bool {
	for _, r := range ft.Runs {
		if !r.Format.IsEmpty() {
			return true
		}
	}
	return false
}

// Insert insere s na posição pos. Runs totalmente antes ficam intactos,
// os totalmente depois deslocam, e um run que atravessa pos se estende
// (a inserção herda a formatação do run que a envolve).
func Insert(ft FormattedText, pos int, s string) FormattedText {
	pos = clamp(pos, 0, len(ft.Text))
	if s == "" {
		return ft.Clone()
	}
	n := len(s)
	out := FormattedText{Text: ft.Text[:pos] + s + ft.Text[pos:]}
	for _, r := range ft.Runs {
		nr := r
		switch {
		case r.End <= pos:
			// intacto
		case r.Start >= pos:
			nr.Start += n
			nr.End += n
		default:
			nr.End += n
		}
		out.Runs = append(out.Runs, nr)
	}
	return normalize(out)
}

// Delete remove o intervalo meio-aberto [start, end). Runs sobrepostos
// são recortados e runs esvaziados são descartados.
func Delete(ft FormattedText, start, end int) FormattedText {
	start = clamp(start, 0, len(ft.Text))
	end = clamp(end, start, len(ft.Text))
	if start == end {
		return ft.Clone()
	}
	n := end - start
	out := FormattedText{Text: ft.Text[:start] + ft.Text[end:]}
	for _, r := range ft.Runs {
		nr := r
		switch {
		case r.End <= start:
			// intacto
		case r.Start >= end:
			nr.Start -= n
			nr.End -= n
		default:
			if nr.Start > start {
				nr.Start = start
			}
			if r.End >= end {
				nr.End = r.End - n
			} else {
				nr.End = start
			}
		}
		if nr.End > nr.Start {
			out.Runs = append(out.Runs, nr)
		}
	}
	return normalize(out)
}

// ApplyFormat mescla fmt em todo run do intervalo [start, end), criando
// cortes nos limites quando necessário. Intervalo vazio é ignorado.
func ApplyFormat(ft FormattedText, start, end int, fmt CharacterFormat) FormattedText {
	start = clamp(start, 0, len(ft.Text))
	end = clamp(end, start, len(ft.Text))
	if start == end || fmt.IsEmpty() {
		return ft.Clone()
	}

	out := FormattedText{Text: ft.Text}

	// Runs existentes, recortados nos limites do intervalo
	var segs []seg
	for _, r := range ft.Runs {
		segs = append(segs, splitRun(r, start, end)...)
	}

	// Lacunas dentro do intervalo (texto sem run) também recebem fmt
	gaps := gapsWithin(ft.Runs, start, end)
	for _, g := range gaps {
		segs = append(segs, seg{start: g[0], end: g[1], inside: true})
	}

	for _, s := range segs {
		format := s.format
		if s.inside {
			format = s.format.Merge(fmt)
		}
		if format.IsEmpty() {
			continue
		}
		out.Runs = append(out.Runs, FormatRun{Start: s.start, End: s.end, Format: format})
	}
	return normalize(out)
}

type seg struct {
	start, end int
	format     CharacterFormat
	inside     bool
}

func splitRun(r FormatRun, start, end int) []seg {
	var out []seg
	if r.End <= start || r.Start >= end {
		out = append(out, seg{r.Start, r.End, r.Format, false})
		return out
	}
	if r.Start < start {
		out = append(out, seg{r.Start, start, r.Format, false})
	}
	is := max(r.Start, start)
	ie := min(r.End, end)
	out = append(out, seg{is, ie, r.Format, true})
	if r.End > end {
		out = append(out, seg{end, r.End, r.Format, false})
	}
	return out
}

// gapsWithin devolve os trechos de [start, end) não cobertos por nenhum run
func gapsWithin(runs []FormatRun, start, end int) [][2]int {
	sorted := make([]FormatRun, len(runs))
	copy(sorted, runs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var gaps [][2]int
	cur := start
	for _, r := range sorted {
		if r.End <= cur {
			continue
		}
		if r.Start >= end {
			break
		}
		if r.Start > cur {
			gaps = append(gaps, [2]int{cur, min(r.Start, end)})
		}
		if r.End > cur {
			cur = r.End
		}
		if cur >= end {
			break
		}
	}
	if cur < end {
		gaps = append(gaps, [2]int{cur, end})
	}
	return gaps
}

// FormatAtPosition devolve a formatação do run que contém pos; em um
// limite entre runs, o run à esquerda prevalece.
func FormatAtPosition(ft FormattedText, pos int) *CharacterFormat {
	pos = clamp(pos, 0, len(ft.Text))
	// Preferência pelo run que termina exatamente em pos
	for _, r := range ft.Runs {
		if pos > r.Start && pos <= r.End {
			f := r.Format
			return &f
		}
	}
	for _, r := range ft.Runs {
		if pos >= r.Start && pos < r.End {
			f := r.Format
			return &f
		}
	}
	return nil
}

// normalize ordena, limita ao texto, descarta runs vazios e funde runs
// adjacentes com formatação idêntica. Toda operação pública termina aqui.
func normalize(ft FormattedText) FormattedText {
	n := len(ft.Text)
	var runs []FormatRun
	for _, r := range ft.Runs {
		r.Start = clamp(r.Start, 0, n)
		r.End = clamp(r.End, 0, n)
		if r.End > r.Start && !r.Format.IsEmpty() {
			runs = append(runs, r)
		}
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Start < runs[j].Start })

	var out []FormatRun
	for _, r := range runs {
		if len(out) > 0 {
			last := &out[len(out)-1]
			// runs sobrepostos não devem ocorrer; recorta por segurança
			if r.Start < last.End {
				r.Start = last.End
				if r.Start >= r.End {
					continue
				}
			}
			if r.Start == last.End && r.Format.Equal(last.Format) {
				last.End = r.End
				continue
			}
		}
		out = append(out, r)
	}
	ft.Runs = out
	return ft
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

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
