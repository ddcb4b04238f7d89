package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/amishk599/skillmap/internal/config"
	"github.com/amishk599/skillmap/internal/model"
)

var barColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// BarChart draws a horizontal bar chart of one city's top skills, smallest
// count at the bottom.
func BarChart(path string, n int, city string, counts []model.Count, size config.Size) error {
	if len(counts) == 0 {
		return fmt.Errorf("bar chart for %s: no counts", city)
	}

	sorted := make([]model.Count, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count < sorted[j].Count
	})

	values := make(plotter.Values, len(sorted))
	labels := make([]string, len(sorted))
	for i, c := range sorted {
		values[i] = float64(c.Count)
		labels[i] = c.Display
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Skills in %s", n, city)
	p.X.Label.Text = "Mentions (count)"
	p.Y.Label.Text = "Skill"
	p.X.Min = 0

	width := size.Height / vg.Length(2*len(sorted)+2)
	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return fmt.Errorf("bar chart for %s: %w", city, err)
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(labels...)

	if err := p.Save(size.Width, size.Height, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Heatmap draws the role x skill matrix, first role on top.
func Heatmap(path string, m model.Matrix, size config.Size) error {
	if m.Empty() {
		return fmt.Errorf("heatmap: empty matrix")
	}

	p := plot.New()
	p.Title.Text = "Role vs Skill — Demand Heatmap"
	p.X.Label.Text = "Skill"
	p.Y.Label.Text = "Role"

	p.Add(newHeatCells(m))

	roles := make([]string, len(m.Roles))
	for i, r := range m.Roles {
		roles[len(roles)-1-i] = r
	}
	p.NominalX(m.Display...)
	p.NominalY(roles...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	if err := p.Save(size.Width, size.Height, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// heatCells is a plot.Plotter that fills one unit square per matrix cell,
// centred on integer coordinates so nominal axis ticks line up.
type heatCells struct {
	m        model.Matrix
	colors   []color.Color
	min, max float64
}

func newHeatCells(m model.Matrix) *heatCells {
	h := &heatCells{
		m:      m,
		colors: palette.Heat(16, 1).Colors(),
		min:    math.Inf(1),
		max:    math.Inf(-1),
	}
	for _, row := range m.Cells {
		for _, v := range row {
			h.min = math.Min(h.min, float64(v))
			h.max = math.Max(h.max, float64(v))
		}
	}
	return h
}

func (h *heatCells) color(v int) color.Color {
	if h.max == h.min {
		return h.colors[0]
	}
	frac := (float64(v) - h.min) / (h.max - h.min)
	return h.colors[int(math.Round(frac*float64(len(h.colors)-1)))]
}

// Plot implements plot.Plotter.
func (h *heatCells) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	rows := len(h.m.Roles)
	for i, row := range h.m.Cells {
		y := float64(rows - 1 - i)
		for j, v := range row {
			x := float64(j)
			pts := []vg.Point{
				{X: trX(x - 0.5), Y: trY(y - 0.5)},
				{X: trX(x + 0.5), Y: trY(y - 0.5)},
				{X: trX(x + 0.5), Y: trY(y + 0.5)},
				{X: trX(x - 0.5), Y: trY(y + 0.5)},
			}
			c.FillPolygon(h.color(v), c.ClipPolygonXY(pts))
		}
	}
}

// DataRange implements plot.DataRanger.
func (h *heatCells) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -0.5, float64(len(h.m.Skills)) - 0.5, -0.5, float64(len(h.m.Roles)) - 0.5
}
