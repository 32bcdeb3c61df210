package fetchers

import (
	"budgetboard/internal/models"
)

// PiePalette is the fixed color set assigned to pie slices in order
var PiePalette = []string{
	"#ffcd56",
	"#ff6384",
	"#36a2eb",
	"#fd6b19",
	"#4bc0c0",
	"#9966ff",
	"#ff9f40",
}

// DataNormalizer projects raw budget records into renderer-ready shapes
type DataNormalizer struct {
	palette []string
}

// NewDataNormalizer creates a normalizer using PiePalette
func NewDataNormalizer() *DataNormalizer {
	return &DataNormalizer{palette: PiePalette}
}

// NormalizeForPie projects title to labels and budget to data, assigning palette
// colors by position and cycling once the palette runs out.
func (n *DataNormalizer) NormalizeForPie(records []models.BudgetRecord) *models.PieDataset {
	colors := make([]string, len(records))
	for i := range records {
		colors[i] = n.palette[i%len(n.palette)]
	}

	return &models.PieDataset{
		Labels: models.Titles(records),
		Datasets: []models.PieSeries{
			{
				Data:            models.Budgets(records),
				BackgroundColor: colors,
			},
		},
	}
}
