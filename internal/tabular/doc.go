// Package tabular is the core of the dashboard backend: it turns raw, untyped
// spreadsheet rows into chart-ready aggregates.
//
// The pipeline has five stages, each a small component:
//
//	Normalizer  - maps dirty, inconsistently named headers to canonical roles
//	Builder     - applies per-column coercion rules to produce a typed Table
//	Table       - immutable typed view with equality filtering
//	Aggregator  - counts, sums, distinct-entity counts, pivots, top-N
//	Assembler   - reshapes aggregates into the fixed frontend payload shapes
//
// Every stage is total: malformed cells coerce to zero values, aggregates whose
// required column is missing degrade to empty structures, and only a table with
// zero rows surfaces ErrNoData. The whole pipeline is a pure function of the
// raw rows and the request parameters, which the service-layer response cache
// relies on.
package tabular
