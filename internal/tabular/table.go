package tabular

import (
	"errors"
	"log/slog"
)

// ErrNoData is returned when a sheet yields zero data rows. It is the only
// condition that aborts a pipeline run; every other degradation is local to
// one aggregate.
var ErrNoData = errors.New("no data available in sheet")

// column holds one typed column. strs always carries the normalized string
// form of every cell; nums is populated only for numeric kinds.
type column struct {
	name string
	kind Kind
	strs []string
	nums []float64
}

// Table is the normalized, coercion-applied representation of one sheet's
// rows for one request. It is immutable after construction; Filter produces a
// new view and never mutates the source.
type Table struct {
	cols  map[string]*column
	order []string
	rows  int
}

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in source order.
func (t *Table) Columns() []string { return t.order }

// HasColumn reports whether a normalized column name is present. Aggregates
// check availability here instead of scattering existence checks.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// HasRole reports whether a canonical role column is present.
func (t *Table) HasRole(role Role) bool { return t.HasColumn(string(role)) }

// Strings returns the normalized cell values of a column, or false when the
// column is absent.
func (t *Table) Strings(name string) ([]string, bool) {
	c, ok := t.cols[name]
	if !ok {
		return nil, false
	}
	return c.strs, true
}

// RoleStrings returns the normalized cell values of a canonical role column.
func (t *Table) RoleStrings(role Role) ([]string, bool) {
	return t.Strings(string(role))
}

// Numbers returns the coerced numeric values of a column. Columns that were
// not built as numeric are coerced on demand with the numeric rule, so
// pass-through columns such as budget amounts can feed sums.
func (t *Table) Numbers(name string) ([]float64, bool) {
	c, ok := t.cols[name]
	if !ok {
		return nil, false
	}
	if c.nums != nil {
		return c.nums, true
	}
	nums := make([]float64, len(c.strs))
	for i, s := range c.strs {
		nums[i] = CoerceNumber(s)
	}
	return nums, true
}

// RoleNumbers returns the coerced numeric values of a canonical role column.
func (t *Table) RoleNumbers(role Role) ([]float64, bool) {
	return t.Numbers(string(role))
}

// Percents coerces a column's cells with the percentage rule regardless of
// the column's declared kind.
func (t *Table) Percents(name string) ([]float64, bool) {
	c, ok := t.cols[name]
	if !ok {
		return nil, false
	}
	nums := make([]float64, len(c.strs))
	for i, s := range c.strs {
		nums[i] = CoercePercent(s)
	}
	return nums, true
}

// Filter returns a view containing only the rows where every predicate column
// equals the given value. Predicates are ANDed and compared against the
// normalized cells, so callers pass already-normalized values (title-cased
// gender, for example). A predicate on an absent column is a no-op. An empty
// result is valid and propagates as empty aggregates.
func (t *Table) Filter(predicates map[Role]string) *Table {
	if len(predicates) == 0 {
		return t
	}

	keep := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		match := true
		for role, want := range predicates {
			col, ok := t.cols[string(role)]
			if !ok {
				continue
			}
			if col.strs[i] != want {
				match = false
				break
			}
		}
		if match {
			keep = append(keep, i)
		}
	}
	return t.selectRows(keep)
}

// selectRows builds a new table view from the given row indices.
func (t *Table) selectRows(keep []int) *Table {
	out := &Table{
		cols:  make(map[string]*column, len(t.cols)),
		order: t.order,
		rows:  len(keep),
	}
	for name, c := range t.cols {
		nc := &column{name: c.name, kind: c.kind, strs: make([]string, len(keep))}
		if c.nums != nil {
			nc.nums = make([]float64, len(keep))
		}
		for j, i := range keep {
			nc.strs[j] = c.strs[i]
			if c.nums != nil {
				nc.nums[j] = c.nums[i]
			}
		}
		out.cols[name] = nc
	}
	return out
}

// distinctRows returns a view deduplicated by the Identifier column, keeping
// the first occurrence of each identifier. Without an Identifier column every
// row already counts as a distinct entity and the table is returned as-is.
func (t *Table) distinctRows() *Table {
	ids, ok := t.RoleStrings(RoleIdentifier)
	if !ok {
		return t
	}
	seen := make(map[string]bool, t.rows)
	keep := make([]int, 0, t.rows)
	for i, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		keep = append(keep, i)
	}
	if len(keep) == t.rows {
		return t
	}
	return t.selectRows(keep)
}

// Builder constructs typed tables from raw positional rows.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a table builder. A nil logger falls back to the default
// slog logger.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// Build applies the headerMap produced by Normalizer.Normalize to positional
// data rows and coerces every cell by its column's kind. Building is total:
// malformed cells become zero values, short rows are padded with empty cells,
// and excess cells beyond the header width are ignored. Columns outside the
// canonical schema are retained as text under their pass-through names.
func (b *Builder) Build(headers []string, rows [][]string, headerMap map[string]string) *Table {
	t := &Table{cols: make(map[string]*column), rows: len(rows)}

	for pos, raw := range headers {
		name, ok := headerMap[raw]
		if !ok {
			// Dropped by the normalizer (blank header).
			continue
		}
		if t.HasColumn(name) {
			b.logger.Warn("duplicate column after normalization, keeping first occurrence",
				slog.String("column", name))
			continue
		}

		kind := KindOf(name)
		c := &column{name: name, kind: kind, strs: make([]string, len(rows))}
		if kind == KindNumeric || kind == KindPercentage {
			c.nums = make([]float64, len(rows))
		}

		for i, row := range rows {
			cell := ""
			if pos < len(row) {
				cell = row[pos]
			}
			c.strs[i] = Coerce(kind, cell)
			switch kind {
			case KindNumeric:
				c.nums[i] = CoerceNumber(cell)
			case KindPercentage:
				c.nums[i] = CoercePercent(cell)
			}
		}

		t.cols[name] = c
		t.order = append(t.order, name)
	}

	return t
}
