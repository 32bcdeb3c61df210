package models

// PieDataset is the renderer-ready form of budget records for the pie chart.
// Labels and Datasets[i].Data are parallel.
type PieDataset struct {
	Labels   []string    `json:"labels"`
	Datasets []PieSeries `json:"datasets"`
}

// PieSeries holds the values of one pie ring and its color assignments.
// BackgroundColor is reused cyclically when shorter than Data.
type PieSeries struct {
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
}

// Series returns the first series, or an empty one when the dataset has none
func (d *PieDataset) Series() PieSeries {
	if d == nil || len(d.Datasets) == 0 {
		return PieSeries{}
	}
	return d.Datasets[0]
}

// Len is the number of slices in the dataset
func (d *PieDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Labels)
}

// ColorAt returns the color for slice i, cycling through BackgroundColor
func (s PieSeries) ColorAt(i int) string {
	if len(s.BackgroundColor) == 0 {
		return ""
	}
	return s.BackgroundColor[i%len(s.BackgroundColor)]
}
