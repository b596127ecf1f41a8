package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartRenderer_Render(t *testing.T) {
	r := NewChartRenderer(400, 300)

	img, err := r.Render([]Curve{
		{Label: "A S11", X: []float64{1, 2, 3, 4}, Y: []float64{-1, -3, -2, -6}},
		{Label: "A S21", X: []float64{1, 2, 3, 4}, Y: []float64{-0.5, -0.6, -0.4, -0.7}},
	}, Axes{X: "Frequency (GHz)", Y: "Magnitude (dB)"}, "Frequency Domain")
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
	assert.Equal(t, "image/png", r.ContentType())
}

func TestChartRenderer_FlatCurve(t *testing.T) {
	r := NewChartRenderer(0, 0)
	assert.Equal(t, DefaultWidth, r.Width)
	assert.Equal(t, DefaultHeight, r.Height)

	img, err := r.Render([]Curve{
		{Label: "gated", X: []float64{0, 1, 2}, Y: []float64{-200, -200, -200}},
	}, Axes{X: "Time (ns)", Y: "Magnitude"}, "flat")
	require.NoError(t, err)
	assert.NotEmpty(t, img)
}

func TestChartRenderer_SkipsShortCurves(t *testing.T) {
	r := NewChartRenderer(300, 200)

	_, err := r.Render([]Curve{{Label: "one", X: []float64{0}, Y: []float64{1}}}, Axes{}, "")
	assert.ErrorIs(t, err, ErrNoPlottableCurve)

	_, err = r.Render(nil, Axes{}, "")
	assert.ErrorIs(t, err, ErrNoPlottableCurve)

	img, err := r.Render([]Curve{
		{Label: "one", X: []float64{0}, Y: []float64{1}},
		{Label: "two", X: []float64{0, 1}, Y: []float64{1, 2}},
	}, Axes{}, "mixed")
	require.NoError(t, err)
	assert.NotEmpty(t, img)
}

func TestChartRenderer_ShapeMismatch(t *testing.T) {
	_, err := NewChartRenderer(300, 200).Render([]Curve{{X: []float64{0, 1}, Y: []float64{1}}}, Axes{}, "")
	assert.ErrorIs(t, err, ErrCurveShape)
}
