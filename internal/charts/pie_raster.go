package charts

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"budgetboard/internal/models"
)

// RasterPieBackend draws pie charts into PNG images with go-chart
type RasterPieBackend struct{}

// Name implements PieBackend
func (RasterPieBackend) Name() string { return "raster" }

// NewPie renders the dataset and binds the resulting image to surface
func (b RasterPieBackend) NewPie(surface *Surface, data *models.PieDataset) (ChartHandle, error) {
	img, err := renderPiePNG(surface.Width, surface.Height, data)
	if err != nil {
		return nil, err
	}
	return bindHandle(surface, "pie", "image/png", img)
}

// renderPiePNG returns nil without error when there is nothing to draw
func renderPiePNG(width, height int, data *models.PieDataset) ([]byte, error) {
	series := data.Series()

	var values []chart.Value
	for i, label := range data.Labels {
		if i >= len(series.Data) || series.Data[i] <= 0 {
			continue
		}
		color := hexColor(series.ColorAt(i))
		values = append(values, chart.Value{
			Label: label,
			Value: series.Data[i],
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
				FontSize:    10,
			},
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	graph := chart.PieChart{
		Width:  width,
		Height: height,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{Top: 10, Left: 10, Right: 10, Bottom: 10},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}

func hexColor(hex string) drawing.Color {
	if hex == "" {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
