package domain

// ChartData is a single-series chart payload: parallel label and value slices.
// Labels and Series always have the same length and are never nil, so an empty
// aggregate serializes as [] rather than null.
type ChartData struct {
	Labels []string  `json:"labels"`
	Series []float64 `json:"series"`
}

// EmptyChartData returns a zero-length but non-nil chart payload.
func EmptyChartData() ChartData {
	return ChartData{Labels: []string{}, Series: []float64{}}
}

// NamedSeries is one series of a multi-series chart.
type NamedSeries struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// GroupedChartData is a multi-series chart payload keyed by shared categories,
// used for cross-tabulated views such as the sport-by-gender pivot.
type GroupedChartData struct {
	Categories []string      `json:"categories"`
	Series     []NamedSeries `json:"series"`
}

// EmptyGroupedChartData returns a zero-length but non-nil grouped payload.
func EmptyGroupedChartData() GroupedChartData {
	return GroupedChartData{Categories: []string{}, Series: []NamedSeries{}}
}

// Record is one flat row of a tabular or drill-down view. Field names are part
// of the contract with the chart widgets and must not be renamed.
type Record map[string]interface{}
