package charts

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SteelDash/internal/domain/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func days(n int) []time.Time {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func TestRenderPNG_Line(t *testing.T) {
	c := &models.Chart{
		ID: "actual_vs_predicted_7d", Kind: models.ChartLine, ShowLegend: true,
		Series: []models.Series{
			{Name: "Actual", Dates: days(3), Y: []float64{600, 604, 606}, Color: "blue", Mode: "lines+markers"},
			{Name: "Predicted", Dates: days(3), Y: []float64{601, 603, 607}, Color: "red", Dash: true},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().RenderPNG(&buf, c, 640, 320))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderPNG_AreaFlatSeries(t *testing.T) {
	c := &models.Chart{
		Kind:   models.ChartArea,
		Series: []models.Series{{Name: "Price", Dates: days(4), Y: []float64{605, 605, 605, 605}, Color: "#1f77b4", Fill: true}},
	}
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().RenderPNG(&buf, c, 0, 0))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderPNG_Bars(t *testing.T) {
	c := &models.Chart{
		Kind: models.ChartBar, ZeroLine: true,
		Series: []models.Series{{
			Name: "Error", Dates: days(3), Y: []float64{-2, 0, 2},
			Colors: []string{"red", "green", "green"},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(WithSize(800, 300)).RenderPNG(&buf, c, 0, 0))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderPNG_Histogram(t *testing.T) {
	c := &models.Chart{
		Kind:   models.ChartHistogram,
		Series: []models.Series{{Name: "Errors", X: []float64{-1.5, 0, 1.5}, Y: []float64{1, 1, 1}, Color: "lightblue"}},
	}
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().RenderPNG(&buf, c, 0, 0))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderPNG_Errors(t *testing.T) {
	r := NewRenderer()
	var buf bytes.Buffer

	err := r.RenderPNG(&buf, &models.Chart{Kind: models.ChartLine}, 0, 0)
	assert.ErrorIs(t, err, models.ErrMissingData)

	single := &models.Chart{Kind: models.ChartLine, Series: []models.Series{{Name: "x", Dates: days(1), Y: []float64{1}}}}
	assert.ErrorIs(t, r.RenderPNG(&buf, single, 0, 0), models.ErrUnderflow)

	noAxis := &models.Chart{Kind: models.ChartLine, Series: []models.Series{{Name: "x", Y: []float64{1, 2}}}}
	assert.ErrorIs(t, r.RenderPNG(&buf, noAxis, 0, 0), models.ErrMissingData)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, minSide, clamp(10))
	assert.Equal(t, maxSide, clamp(99999))
	assert.Equal(t, uint8(255), color("Blue", 0).B)
	assert.Equal(t, uint8(0x1f), color("", 0).R)

	lo, hi := yRange([]float64{5, 5}, false)
	assert.Equal(t, 4.0, lo)
	assert.Equal(t, 6.0, hi)
	lo, _ = yRange([]float64{2, 4}, true)
	assert.Equal(t, 0.0, lo)

	s := models.Series{Labels: []string{"1-Day"}, X: []float64{0, 1.25}}
	assert.Equal(t, "1-Day", barLabel(s, 0))
	assert.Equal(t, "1.25", barLabel(s, 1))
}
