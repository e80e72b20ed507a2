package report

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/nestris-org/botfit/internal/model"
)

var (
	scoreColor = color.RGBA{R: 0, G: 0, B: 255, A: 153}
	linesColor = color.RGBA{R: 0, G: 128, B: 0, A: 153}
)

// errPoints carries bar ends and their horizontal spreads.
type errPoints struct {
	plotter.XYs
	plotter.XErrors
}

// SavePNG writes side-by-side horizontal bar charts of average score and
// lines cleared, with ±spread error bars, to path.
func SavePNG(path, title string, records []model.ResultRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("no results to plot")
	}
	labels := make([]string, len(records))
	score := make([]Bar, len(records))
	lines := make([]Bar, len(records))
	for i, r := range records {
		labels[i] = r.Label()
		score[i] = Bar{Value: r.Stats.Average.Score, Spread: r.Stats.Variance.Score}
		lines[i] = Bar{Value: r.Stats.Average.Lines, Spread: r.Stats.Variance.Lines}
	}

	scorePlot, err := barPlot(title, "Average Score", score, labels, scoreColor)
	if err != nil {
		return err
	}
	linesPlot, err := barPlot("", "Average Lines Cleared", lines, labels, linesColor)
	if err != nil {
		return err
	}
	linesPlot.HideY()

	height := vg.Length(0.5*float64(len(records))) * vg.Inch
	if height < 6*vg.Inch {
		height = 6 * vg.Inch
	}
	img := vgimg.New(16*vg.Inch, height)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter, PadY: vg.Millimeter, PadTop: vg.Millimeter, PadBottom: vg.Millimeter, PadLeft: vg.Millimeter, PadRight: vg.Millimeter}
	plots := [][]*plot.Plot{{scorePlot, linesPlot}}
	canvases := plot.Align(plots, tiles, dc)
	for j, p := range plots[0] {
		p.Draw(canvases[0][j])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func barPlot(title, xLabel string, bars []Bar, labels []string, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.X.Min = 0
	p.X.Max = seriesScale(bars)

	values := make(plotter.Values, len(bars))
	pts := errPoints{
		XYs:     make(plotter.XYs, len(bars)),
		XErrors: make(plotter.XErrors, len(bars)),
	}
	for i, b := range bars {
		values[i] = b.Value
		pts.XYs[i] = plotter.XY{X: b.Value, Y: float64(i)}
		pts.XErrors[i].Low = b.Spread
		pts.XErrors[i].High = b.Spread
	}

	chart, err := plotter.NewBarChart(values, vg.Points(10))
	if err != nil {
		return nil, fmt.Errorf("failed to build bar chart: %w", err)
	}
	chart.Horizontal = true
	chart.Color = c
	chart.LineStyle.Width = 0
	p.Add(chart)

	whiskers, err := plotter.NewXErrorBars(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build error bars: %w", err)
	}
	whiskers.CapWidth = vg.Points(5)
	p.Add(whiskers)

	p.NominalY(labels...)
	return p, nil
}
