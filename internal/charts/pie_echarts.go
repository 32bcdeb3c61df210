package charts

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"budgetboard/internal/models"
)

// EChartsPieBackend renders pie charts as interactive ECharts HTML pages
type EChartsPieBackend struct{}

// Name implements PieBackend
func (EChartsPieBackend) Name() string { return "echarts" }

// NewPie renders the dataset and binds the resulting page to surface
func (b EChartsPieBackend) NewPie(surface *Surface, data *models.PieDataset) (ChartHandle, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Budget",
			Theme:     types.ThemeWesteros,
			Width:     fmt.Sprintf("%dpx", surface.Width),
			Height:    fmt.Sprintf("%dpx", surface.Height),
			ChartID:   "pie-" + surface.ID,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Budget",
		}),
	)

	series := data.Series()
	items := make([]opts.PieData, 0, len(data.Labels))
	for i, label := range data.Labels {
		if i >= len(series.Data) {
			break
		}
		items = append(items, opts.PieData{
			Name:      label,
			Value:     series.Data[i],
			ItemStyle: &opts.ItemStyle{Color: series.ColorAt(i)},
		})
	}
	pie.AddSeries("budget", items)

	var buf bytes.Buffer
	if err := pie.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render echarts pie: %w", err)
	}
	return bindHandle(surface, "pie", "text/html; charset=utf-8", buf.Bytes())
}
