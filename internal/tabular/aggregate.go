package tabular

import (
	"log/slog"
	"sort"
)

// Entry is one label/value pair of a sorted aggregate.
type Entry struct {
	Label string
	Value float64
}

// PivotTable is a two-dimensional count table. Cells is indexed [row][col];
// missing combinations are 0. Rows are ordered descending by their total,
// columns alphabetically.
type PivotTable struct {
	RowLabels []string
	ColLabels []string
	Cells     [][]float64
}

// Aggregator computes the chart aggregates over a typed table. Every method
// is guarded by column availability: a missing required column yields an
// empty result, never an error.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator. A nil logger falls back to the default
// slog logger.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Sum returns the sum of a numeric role column, or 0 when the column is
// absent. Unparseable cells contribute 0 to the sum.
func (a *Aggregator) Sum(t *Table, role Role) float64 {
	nums, ok := t.RoleNumbers(role)
	if !ok {
		a.missing(role, "sum")
		return 0
	}
	var total float64
	for _, v := range nums {
		total += v
	}
	return total
}

// DistinctValues returns the number of distinct values in a role column, or 0
// when the column is absent.
func (a *Aggregator) DistinctValues(t *Table, role Role) int {
	vals, ok := t.RoleStrings(role)
	if !ok {
		a.missing(role, "distinct values")
		return 0
	}
	seen := make(map[string]bool, len(vals))
	for _, v := range vals {
		seen[v] = true
	}
	return len(seen)
}

// Frequency returns value counts of a role column sorted descending by count.
// Ties keep the first-appearance order of the value in the source rows.
func (a *Aggregator) Frequency(t *Table, role Role) []Entry {
	vals, ok := t.RoleStrings(role)
	if !ok {
		a.missing(role, "frequency")
		return []Entry{}
	}
	return sortDescending(countValues(vals))
}

// DistinctFrequency deduplicates rows by the Identifier column before
// counting, so an entity with several achievement rows is counted once. It is
// used for the per-entity gender distribution.
func (a *Aggregator) DistinctFrequency(t *Table, role Role) []Entry {
	return a.Frequency(t.distinctRows(), role)
}

// GroupedSum sums a numeric role column grouped by a categorical role,
// descending by sum. Either column missing yields an empty result.
func (a *Aggregator) GroupedSum(t *Table, by, value Role) []Entry {
	keys, ok := t.RoleStrings(by)
	if !ok {
		a.missing(by, "grouped sum")
		return []Entry{}
	}
	nums, ok := t.RoleNumbers(value)
	if !ok {
		a.missing(value, "grouped sum")
		return []Entry{}
	}

	sums := make(map[string]float64, len(keys))
	var order []string
	for i, k := range keys {
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += nums[i]
	}

	entries := make([]Entry, 0, len(order))
	for _, k := range order {
		entries = append(entries, Entry{Label: k, Value: sums[k]})
	}
	return sortDescending(entries)
}

// DistinctEntityCount counts, for each value of the grouping role, the number
// of distinct Identifier values, descending. Without an Identifier column
// every row counts as its own entity, making this a plain frequency count.
func (a *Aggregator) DistinctEntityCount(t *Table, by Role) []Entry {
	keys, ok := t.RoleStrings(by)
	if !ok {
		a.missing(by, "distinct entity count")
		return []Entry{}
	}
	ids, hasIDs := t.RoleStrings(RoleIdentifier)

	perKey := make(map[string]map[string]bool, len(keys))
	counts := make(map[string]float64, len(keys))
	var order []string
	for i, k := range keys {
		if _, seen := perKey[k]; !seen {
			perKey[k] = make(map[string]bool)
			order = append(order, k)
		}
		if hasIDs {
			if !perKey[k][ids[i]] {
				perKey[k][ids[i]] = true
				counts[k]++
			}
		} else {
			counts[k]++
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, k := range order {
		entries = append(entries, Entry{Label: k, Value: counts[k]})
	}
	return sortDescending(entries)
}

// Pivot cross-tabulates distinct Identifier counts by rowRole x colRole.
// Rows are ordered descending by their total (the total is used only for
// ordering and not emitted); columns are ordered alphabetically; missing
// cells are 0. Either dimension missing yields an empty pivot.
func (a *Aggregator) Pivot(t *Table, rowRole, colRole Role) PivotTable {
	rowVals, ok := t.RoleStrings(rowRole)
	if !ok {
		a.missing(rowRole, "pivot")
		return PivotTable{RowLabels: []string{}, ColLabels: []string{}, Cells: [][]float64{}}
	}
	colVals, ok := t.RoleStrings(colRole)
	if !ok {
		a.missing(colRole, "pivot")
		return PivotTable{RowLabels: []string{}, ColLabels: []string{}, Cells: [][]float64{}}
	}
	ids, hasIDs := t.RoleStrings(RoleIdentifier)

	type cellKey struct{ row, col string }
	cellIDs := make(map[cellKey]map[string]bool)
	cells := make(map[cellKey]float64)
	var rowOrder []string
	rowSeen := make(map[string]bool)
	colSeen := make(map[string]bool)

	for i := range rowVals {
		rk, ck := rowVals[i], colVals[i]
		if !rowSeen[rk] {
			rowSeen[rk] = true
			rowOrder = append(rowOrder, rk)
		}
		colSeen[ck] = true

		key := cellKey{rk, ck}
		if hasIDs {
			if cellIDs[key] == nil {
				cellIDs[key] = make(map[string]bool)
			}
			if !cellIDs[key][ids[i]] {
				cellIDs[key][ids[i]] = true
				cells[key]++
			}
		} else {
			cells[key]++
		}
	}

	cols := make([]string, 0, len(colSeen))
	for c := range colSeen {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	totals := make(map[string]float64, len(rowOrder))
	for _, r := range rowOrder {
		for _, c := range cols {
			totals[r] += cells[cellKey{r, c}]
		}
	}
	sort.SliceStable(rowOrder, func(i, j int) bool {
		return totals[rowOrder[i]] > totals[rowOrder[j]]
	})

	out := PivotTable{RowLabels: rowOrder, ColLabels: cols, Cells: make([][]float64, len(rowOrder))}
	for i, r := range rowOrder {
		out.Cells[i] = make([]float64, len(cols))
		for j, c := range cols {
			out.Cells[i][j] = cells[cellKey{r, c}]
		}
	}
	return out
}

// drilldownColumns is the fixed projection of descriptive columns for record
// lists, in output order. Group is emitted under the School field name the
// widgets expect.
var drilldownColumns = []struct {
	role  Role
	field string
}{
	{RoleName, "Name"},
	{RoleGender, "Gender"},
	{RoleGroup, "School"},
	{RoleResult, "Result"},
	{RoleVenue, "Venue"},
	{RoleRank, "Rank"},
	{RoleEvent, "Event"},
}

// Drilldown returns the records of one category value (for example one
// sport), deduplicated by Name keeping the first occurrence, projecting the
// fixed descriptive columns that are present in the table.
func (a *Aggregator) Drilldown(t *Table, by Role, value string) []map[string]string {
	view := t.Filter(map[Role]string{by: value})
	names, ok := view.RoleStrings(RoleName)
	if !ok {
		a.missing(RoleName, "drilldown")
		return []map[string]string{}
	}

	seen := make(map[string]bool, view.Len())
	keep := make([]int, 0, view.Len())
	for i, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		keep = append(keep, i)
	}
	return projectRecords(view.selectRows(keep))
}

// Winners returns the records of one category value whose coerced Score is a
// member of the allowed set (the scored positions), sorted descending by
// Score. A missing Score column yields an empty result.
func (a *Aggregator) Winners(t *Table, by Role, value string, allowed []float64) []map[string]string {
	view := t.Filter(map[Role]string{by: value})
	scores, ok := view.RoleNumbers(RoleScore)
	if !ok {
		a.missing(RoleScore, "winners")
		return []map[string]string{}
	}

	allow := make(map[float64]bool, len(allowed))
	for _, v := range allowed {
		allow[v] = true
	}
	keep := make([]int, 0, view.Len())
	for i, s := range scores {
		if allow[s] {
			keep = append(keep, i)
		}
	}
	sort.SliceStable(keep, func(i, j int) bool {
		return scores[keep[i]] > scores[keep[j]]
	})

	winners := view.selectRows(keep)
	records := projectRecords(winners)
	if pts, ok := winners.RoleStrings(RoleScore); ok {
		for i := range records {
			records[i]["Points"] = pts[i]
		}
	}
	return records
}

// Utilization computes per-facility used and remaining capacity. Remaining
// capacity is clamped at zero so over-utilized facilities never report a
// negative remainder. The facility labels come from the grouping role; the
// used and capacity columns are pass-through headers coerced with the
// percentage rule. Any of the three columns missing yields empty slices.
func (a *Aggregator) Utilization(t *Table, facility Role, usedCol, capacityCol string) (facilities []string, used, unused, totals []float64) {
	facilities = []string{}
	used, unused, totals = []float64{}, []float64{}, []float64{}

	labels, ok := t.RoleStrings(facility)
	if !ok {
		a.missing(facility, "utilization")
		return
	}
	usedVals, ok := t.Percents(usedCol)
	if !ok {
		a.logger.Warn("utilization column absent, emitting empty aggregate", slog.String("column", usedCol))
		return
	}
	capVals, ok := t.Percents(capacityCol)
	if !ok {
		a.logger.Warn("utilization column absent, emitting empty aggregate", slog.String("column", capacityCol))
		return
	}

	for i := range labels {
		remaining := capVals[i] - usedVals[i]
		if remaining < 0 {
			remaining = 0
		}
		facilities = append(facilities, labels[i])
		used = append(used, usedVals[i])
		unused = append(unused, remaining)
		totals = append(totals, capVals[i])
	}
	return
}

// TopN keeps the first n entries of an already-sorted sequence. Ties at the
// cutoff keep the pre-truncation order; no further tie-break is applied.
func TopN(entries []Entry, n int) []Entry {
	if n < 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

func (a *Aggregator) missing(role Role, aggregate string) {
	a.logger.Warn("required column absent, emitting empty aggregate",
		slog.String("column", string(role)),
		slog.String("aggregate", aggregate))
}

// countValues tallies values preserving first-appearance order for stable
// tie-breaking.
func countValues(vals []string) []Entry {
	counts := make(map[string]float64, len(vals))
	var order []string
	for _, v := range vals {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	entries := make([]Entry, 0, len(order))
	for _, v := range order {
		entries = append(entries, Entry{Label: v, Value: counts[v]})
	}
	return entries
}

// sortDescending sorts entries by value descending, stable so equal values
// keep their first-appearance order.
func sortDescending(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}

// projectRecords extracts the fixed drill-down projection from every row of a
// table view. Absent columns are simply omitted from the records.
func projectRecords(t *Table) []map[string]string {
	records := make([]map[string]string, t.Len())
	for i := range records {
		records[i] = make(map[string]string, len(drilldownColumns))
	}
	for _, col := range drilldownColumns {
		vals, ok := t.RoleStrings(col.role)
		if !ok {
			continue
		}
		for i, v := range vals {
			records[i][col.field] = v
		}
	}
	return records
}
