package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorCyan  = lipgloss.Color("36")  // titles, numbers
	colorGreen = lipgloss.Color("35")  // best result
	colorRed   = lipgloss.Color("167") // failed rows
	colorGray  = lipgloss.Color("245") // headers
	colorDim   = lipgloss.Color("240") // borders, muted text
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

// rowStyler picks the style of a body cell. Nil means styleCell everywhere.
type rowStyler func(row, col int) lipgloss.Style

// renderTable writes a rounded-border table to w.
func renderTable(w io.Writer, headers []string, rows [][]string, style rowStyler) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if style != nil {
				return style(row, col)
			}
			return styleCell
		})
	fmt.Fprintln(w, t.Render())
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styleTitle.Render(title))
}

func printDim(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, styleDim.Render(fmt.Sprintf(format, args...)))
}
