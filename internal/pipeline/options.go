// Package pipeline decorates a rowsource.Source with range cropping,
// offset/limit bounds, header handling, column mapping, filters, and
// transforms, per the engine's declared execution order: raw row → range
// crop → skip (start/offset) → type inference → filter chain → transform
// chain → mapping → yield.
package pipeline

import "github.com/longkedev/lk-export-excel/internal/cellvalue"

// Filter runs after type inference. Returning false drops the row.
type Filter func(row []cellvalue.Value) bool

// Transform runs after the filter chain and may rewrite the row in place
// or return a new slice of the same or different length.
type Transform func(row []cellvalue.Value) []cellvalue.Value

// Options configures a Pipeline. All fields are optional; the zero value
// means "no restriction" for that field.
type Options struct {
	// Sheet selects the Row Source's sheet by name or index string.
	// Ignored for sources with a single synthetic sheet.
	Sheet string

	// Range restricts yielded rows to a row span and crops each row to a
	// column span, e.g. "A1:C10". Missing cells materialize as null.
	Range string

	// StartRow and StartCol are the earliest absolute row/column to
	// consider (1-based). Zero means "from the beginning" (row/col 1).
	StartRow int
	StartCol int

	// Offset drops the first n rows after StartRow.
	Offset int

	// Limit stops yielding after m rows. Zero means unlimited.
	Limit int

	// HasHeader consumes the first non-skipped row as the header rather
	// than yielding it as data.
	HasHeader bool

	// ColumnMapping rewrites header names when HasHeader is set. Without a
	// header it has no effect; it supplies no key names of its own.
	ColumnMapping map[string]string

	Filters    []Filter
	Transforms []Transform
}

// DefaultOptions returns the zero-valued Options, which yields every row
// from every column with no header handling.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) effectiveStartRow() int {
	if o.StartRow < 1 {
		return 1
	}
	return o.StartRow
}

func (o Options) effectiveStartCol() int {
	if o.StartCol < 1 {
		return 1
	}
	return o.StartCol
}
