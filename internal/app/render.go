package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vk/sheetcalc/internal/cellref"
	"github.com/vk/sheetcalc/internal/dag"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	indexStyle  = lipgloss.NewStyle().Faint(true).Padding(0, 1).Align(lipgloss.Right)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	failStyle   = cellStyle.Foreground(lipgloss.Color("9"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render writes outputs to w in the given format.
func Render(w io.Writer, format string, outputs [][]dag.Output) error {
	switch format {
	case OutputTable:
		return renderTable(w, outputs)
	case OutputCSV:
		return renderCSV(w, outputs)
	case OutputPlain:
		return renderPlain(w, outputs)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// renderTable draws a bordered table headed by column letters, with row
// numbers in the first column and failed cells highlighted.
func renderTable(w io.Writer, outputs [][]dag.Output) error {
	if len(outputs) == 0 {
		_, err := fmt.Fprintln(w, "(empty sheet)")
		return err
	}

	headers := []string{""}
	for c := range outputs[0] {
		headers = append(headers, cellref.ColumnName(c))
	}
	rows := make([][]string, len(outputs))
	for r, row := range outputs {
		rows[r] = append(rows[r], strconv.Itoa(r+1))
		for _, out := range row {
			rows[r] = append(rows[r], out.String())
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return indexStyle
			case outputs[row][col-1].Failed():
				return failStyle
			default:
				return cellStyle
			}
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func renderCSV(w io.Writer, outputs [][]dag.Output) error {
	cw := csv.NewWriter(w)
	for _, row := range outputs {
		record := make([]string, len(row))
		for c, out := range row {
			record[c] = out.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// renderPlain writes one ADDR: VALUE line per cell in row-major order.
func renderPlain(w io.Writer, outputs [][]dag.Output) error {
	var sb strings.Builder
	for r, row := range outputs {
		for c, out := range row {
			fmt.Fprintf(&sb, "%s: %s\n", cellref.Address{Row: r, Column: c}, out)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
