// Package render draws computed curves into PNG images.
package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrNoPlottableCurve = errors.New("render: at least one curve needs two or more points")
	ErrCurveShape       = errors.New("render: curve x and y lengths differ")
)

const (
	DefaultWidth  = 1000
	DefaultHeight = 600
)

// Curve is one labelled series.
type Curve struct {
	Label string
	X     []float64
	Y     []float64
}

// Axes holds the axis captions.
type Axes struct {
	X string
	Y string
}

// Renderer turns curves into an image. Implementations must not retain the
// input slices.
type Renderer interface {
	Render(curves []Curve, axes Axes, title string) ([]byte, error)
	ContentType() string
}

// ChartRenderer renders PNG line charts with go-chart.
type ChartRenderer struct {
	Width  int
	Height int
}

// NewChartRenderer creates a renderer, falling back to the default size for
// non-positive dimensions.
func NewChartRenderer(width, height int) *ChartRenderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &ChartRenderer{Width: width, Height: height}
}

func (r *ChartRenderer) ContentType() string {
	return "image/png"
}

// Render draws every curve with at least two points. Curves that are too
// short are skipped.
func (r *ChartRenderer) Render(curves []Curve, axes Axes, title string) ([]byte, error) {
	series := make([]chart.Series, 0, len(curves))
	var ys []float64

	for i, c := range curves {
		if len(c.X) != len(c.Y) {
			return nil, fmt.Errorf("%w: %q has %d x and %d y", ErrCurveShape, c.Label, len(c.X), len(c.Y))
		}
		if len(c.X) < 2 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    c.Label,
			XValues: c.X,
			YValues: c.Y,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2,
			},
		})
		ys = append(ys, c.Y...)
	}
	if len(series) == 0 {
		return nil, ErrNoPlottableCurve
	}

	graph := chart.Chart{
		Title:  title,
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  chart.XAxis{Name: axes.X},
		YAxis:  chart.YAxis{Name: axes.Y},
		Series: series,
	}
	if lo, hi := floats.Min(ys), floats.Max(ys); lo == hi {
		// go-chart cannot scale a flat data set
		graph.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
