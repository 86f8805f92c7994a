package tabular

import (
	"github.com/sanskarladkat/Sport-Dashboard-2025-26/pkg/contracts/domain"
)

// Assembler reshapes aggregate outputs into the fixed payload shapes the
// chart widgets consume. It performs no computation and preserves the
// aggregator's ordering.
type Assembler struct{}

// NewAssembler creates a result assembler.
func NewAssembler() *Assembler { return &Assembler{} }

// Series reshapes sorted entries into a labels/series payload.
func (as *Assembler) Series(entries []Entry) domain.ChartData {
	out := domain.EmptyChartData()
	for _, e := range entries {
		out.Labels = append(out.Labels, e.Label)
		out.Series = append(out.Series, e.Value)
	}
	return out
}

// Records reshapes sorted entries into flat records under the given label and
// value field names, e.g. School/Achievements or Sport/Participants.
func (as *Assembler) Records(entries []Entry, labelField, valueField string) []domain.Record {
	records := make([]domain.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, domain.Record{
			labelField: e.Label,
			valueField: e.Value,
		})
	}
	return records
}

// Grouped reshapes a pivot into a categories/series payload with one named
// series per pivot column.
func (as *Assembler) Grouped(p PivotTable) domain.GroupedChartData {
	out := domain.EmptyGroupedChartData()
	out.Categories = append(out.Categories, p.RowLabels...)
	for j, col := range p.ColLabels {
		series := domain.NamedSeries{Name: col, Data: make([]float64, len(p.RowLabels))}
		for i := range p.RowLabels {
			series.Data[i] = p.Cells[i][j]
		}
		out.Series = append(out.Series, series)
	}
	return out
}

// RecordList converts projected row maps into the wire record type.
func (as *Assembler) RecordList(rows []map[string]string) []domain.Record {
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(domain.Record, len(row))
		for k, v := range row {
			rec[k] = v
		}
		records = append(records, rec)
	}
	return records
}
