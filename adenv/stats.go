package adenv

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FeatureSummary describes one feature column of a dataset
type FeatureSummary struct {
	Name   string  `json:"name"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Describe summarises every feature column of d, in FeatureColumns order.
// An empty dataset yields no summaries.
func Describe(d Dataset) []FeatureSummary {
	if len(d) == 0 {
		return []FeatureSummary{}
	}
	columns := make([][]float64, NumFeatures)
	for i := range columns {
		columns[i] = make([]float64, len(d))
	}
	for j, r := range d {
		for i, v := range r.Features() {
			columns[i][j] = v
		}
	}

	out := make([]FeatureSummary, NumFeatures)
	for i, col := range columns {
		mean, std := stat.MeanStdDev(col, nil)
		out[i] = FeatureSummary{
			Name:   FeatureColumns[i],
			Mean:   mean,
			StdDev: std,
			Min:    floats.Min(col),
			Max:    floats.Max(col),
		}
	}
	return out
}
