package clipboard

import (
	"fmt"
	"html"
	"strings"

	"sheet-engine/internal/domain"
)

// buildPlainText serializa a caixa delimitadora como texto: colunas
// separadas por TAB, linhas por LF, sem quebra final. Células com
// fórmula emitem o resultado avaliado.
func buildPlainText(data *Data) string {
	grid := make(map[[2]int]*domain.Cell, len(data.Cells))
	for _, clip := range data.Cells {
		grid[[2]int{clip.RowOffset, clip.ColOffset}] = clip.Cell
	}

	lines := make([]string, 0, data.Rows)
	for r := 0; r < data.Rows; r++ {
		cols := make([]string, data.Cols)
		for c := 0; c < data.Cols; c++ {
			if cell, ok := grid[[2]int{r, c}]; ok {
				cols[c] = cell.Value.Display()
			}
		}
		lines = append(lines, strings.Join(cols, "\t"))
	}
	return strings.Join(lines, "\n")
}

// buildHTML serializa a caixa delimitadora como uma tabela HTML com o
// estilo derivado do formato de célula. Todo texto é escapado.
func buildHTML(data *Data) string {
	grid := make(map[[2]int]*domain.Cell, len(data.Cells))
	for _, clip := range data.Cells {
		grid[[2]int{clip.RowOffset, clip.ColOffset}] = clip.Cell
	}

	var sb strings.Builder
	sb.WriteString("<table>")
	for r := 0; r < data.Rows; r++ {
		sb.WriteString("<tr>")
		for c := 0; c < data.Cols; c++ {
			cell, ok := grid[[2]int{r, c}]
			if !ok {
				sb.WriteString("<td></td>")
				continue
			}
			style := styleFor(cell.Format)
			if style != "" {
				sb.WriteString(`<td style="` + style + `">`)
			} else {
				sb.WriteString("<td>")
			}
			sb.WriteString(html.EscapeString(cell.Value.Display()))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")
	return sb.String()
}

// styleFor emite os atributos CSS suportados do formato de célula
func styleFor(f *domain.CellFormat) string {
	if f == nil {
		return ""
	}
	var parts []string
	if f.Bold {
		parts = append(parts, "font-weight:bold")
	}
	if f.Italic {
		parts = append(parts, "font-style:italic")
	}
	if f.Underline > 0 {
		parts = append(parts, "text-decoration:underline")
	}
	if f.FontFamily != "" {
		parts = append(parts, "font-family:"+f.FontFamily)
	}
	if f.FontSize > 0 {
		parts = append(parts, fmt.Sprintf("font-size:%gpt", f.FontSize))
	}
	if f.FontColor != "" {
		parts = append(parts, "color:"+f.FontColor)
	}
	if f.BackgroundColor != "" {
		parts = append(parts, "background-color:"+f.BackgroundColor)
	}
	if f.HorizontalAlign != "" {
		parts = append(parts, "text-align:"+f.HorizontalAlign)
	}
	return strings.Join(parts, ";")
}
