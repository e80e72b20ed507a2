package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/nestris-org/botfit/internal/model"
)

// Bar is one horizontal bar with a symmetric spread.
type Bar struct {
	Value  float64
	Spread float64
}

type barSeries struct {
	name  string
	color string
	bars  []Bar
	scale float64
}

const (
	minBarWidth         = 10
	headroom            = 1.1
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	colorBlue           = "\x1b[34m"
	colorGreen          = "\x1b[32m"
	terminalWidthBackup = 80
	valueColumnWidth    = 18
)

var partialBlocks = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

// RenderBars prints a horizontal bar chart of average score and lines cleared
// per record, each with a ±spread whisker. Each series is scaled to its own
// maximum of value+spread. totalWidth <= 0 uses the terminal width.
func RenderBars(w io.Writer, title string, records []model.ResultRecord, totalWidth int, forceColor bool) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}

	labels := make([]string, len(records))
	labelWidth := 0
	score := barSeries{name: "score", color: colorBlue, bars: make([]Bar, len(records))}
	lines := barSeries{name: "lines", color: colorGreen, bars: make([]Bar, len(records))}
	for i, r := range records {
		labels[i] = r.Label()
		if lw := displayWidth(labels[i]); lw > labelWidth {
			labelWidth = lw
		}
		score.bars[i] = Bar{Value: r.Stats.Average.Score, Spread: r.Stats.Variance.Score}
		lines.bars[i] = Bar{Value: r.Stats.Average.Lines, Spread: r.Stats.Variance.Lines}
	}
	score.scale = seriesScale(score.bars)
	lines.scale = seriesScale(lines.bars)

	barWidth := BarWidthFor(totalWidth, labelWidth)
	useColor := shouldUseColor(w, forceColor)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Score axis: 0-%.0f  Lines axis: 0-%.1f\n", score.scale, lines.scale); err != nil {
		return err
	}
	blank := strings.Repeat(" ", labelWidth)
	for i := range records {
		for si, s := range []barSeries{score, lines} {
			prefix := blank
			if si == 0 {
				prefix = padCell(labels[i], labelWidth, false)
			}
			bar := padCell(renderBar(s.bars[i], s.scale, barWidth), barWidth, false)
			if useColor {
				bar = s.color + bar + colorReset
			}
			line := fmt.Sprintf("%s%s%s %s %s", prefix, axisSeparator, s.name, bar, formatValue(s.bars[i]))
			if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// BarWidthFor computes the bar area that fits next to labels of the given width.
func BarWidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidthBackup
	}
	used := labelWidth + displayWidth(axisSeparator) + len("score ") + 1 + valueColumnWidth
	width := totalWidth - used
	if width < minBarWidth {
		width = minBarWidth
	}
	return width
}

func seriesScale(bars []Bar) float64 {
	maxVal := 0.0
	for _, b := range bars {
		if v := b.Value + math.Abs(b.Spread); v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		return 1
	}
	return maxVal * headroom
}

// renderBar draws the value with eighth-block precision and the upper whisker
// as a line capped with ┤.
func renderBar(b Bar, scale float64, width int) string {
	value := math.Max(b.Value, 0)
	cells := value / scale * float64(width)
	full := int(cells)
	frac := int((cells - float64(full)) * 8)

	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", full))
	used := full
	if frac > 0 {
		sb.WriteRune(partialBlocks[frac])
		used++
	}
	if b.Spread > 0 {
		hi := int(math.Round((value + math.Abs(b.Spread)) / scale * float64(width)))
		if hi > width {
			hi = width
		}
		if hi > used {
			sb.WriteString(strings.Repeat("─", hi-used-1))
			sb.WriteRune('┤')
		}
	}
	return sb.String()
}

func formatValue(b Bar) string {
	if b.Value >= 1000 {
		return fmt.Sprintf("%.0f ±%.0f", b.Value, b.Spread)
	}
	return fmt.Sprintf("%.1f ±%.1f", b.Value, b.Spread)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	return IsTerminal(w)
}
