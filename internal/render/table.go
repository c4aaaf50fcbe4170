package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// table lays out rows in padded columns separated by '|'. Cell styles are
// picked per cell so unknown names and decoded values can be highlighted.
type table struct {
	headers []string
	rows    [][]cell
}

type cell struct {
	text  string
	style lipgloss.Style
}

func (t *table) addRow(cells ...cell) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(st styles) string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c.text))
			}
		}
	}
	// one space of padding either side
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	sep := st.Muted.Render("|")
	for i, h := range t.headers {
		sb.WriteString(st.Header.Padding(0, 1).Width(widths[i]).Render(h))
		if i < len(t.headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(st.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range t.rows {
		for i, c := range row {
			if i >= len(widths) {
				break
			}
			sb.WriteString(c.style.Padding(0, 1).Width(widths[i]).Render(c.text))
			if i < len(row)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
