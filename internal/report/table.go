// Package report renders simulation results and generation runs.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/nestris-org/botfit/internal/model"
)

// RenderTable prints one aligned row per result record.
func RenderTable(w io.Writer, records []model.ResultRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	headers, rows := TableData(records)
	rightAlign := map[int]bool{}
	for i := range headers {
		rightAlign[i] = true
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// TableData returns the column headers and formatted cells for records.
func TableData(records []model.ResultRecord) ([]string, [][]string) {
	headers := []string{"Speed", "Inacc", "Mistake", "Misdrop", "Score", "±Score", "Lines", "±Lines"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%g", r.Config.InputSpeed),
			fmt.Sprintf("%g", r.Config.Inaccuracy),
			fmt.Sprintf("%g", r.Config.Mistake),
			fmt.Sprintf("%g", r.Config.Misdrop),
			fmt.Sprintf("%.0f", r.Stats.Average.Score),
			fmt.Sprintf("%.0f", r.Stats.Variance.Score),
			fmt.Sprintf("%.1f", r.Stats.Average.Lines),
			fmt.Sprintf("%.1f", r.Stats.Variance.Lines),
		})
	}
	return headers, rows
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
