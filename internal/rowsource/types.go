// Package rowsource implements the Row Source component: a lazy, finite,
// non-restartable sequence of raw row records, abstracting OOXML,
// delimited-text, and JSON-lines inputs behind one interface.
package rowsource

import (
	"errors"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
)

// EOS is the end-of-stream sentinel returned by NextRow once the source is
// exhausted. It is a normal, non-fatal outcome.
var EOS = errors.New("rowsource: end of stream")

// Row is one logical row of cell values.
type Row struct {
	// Number is the 1-based logical row number, source-authoritative for
	// OOXML (the sheet XML's r attribute), the record count for delimited
	// text and the count of non-blank lines for JSONL. A header row is
	// counted like any other row; the Pipeline, not the source, skips it.
	Number int
	Cells  []cellvalue.Value
}

// SheetDescriptor describes one addressable sheet.
type SheetDescriptor struct {
	Name           string
	Index          int
	LogicalID      string
	StorageTarget  string
	Visible        bool
	Active         bool
}

// Window bounds the rows and columns a Row Source should bother
// materializing. A zero Window (all fields zero) means "no bound", with
// MinRow/MinCol defaulting to 1.
type Window struct {
	// MinRow/MaxRow/MinCol/MaxCol are 1-based inclusive bounds. A zero
	// MaxRow or MaxCol means unbounded.
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Active reports whether w constrains anything at all.
func (w Window) Active() bool {
	return w.MinRow > 1 || w.MaxRow > 0 || w.MinCol > 1 || w.MaxCol > 0
}

// effectiveMinRow/effectiveMinCol default unset bounds to 1.
func (w Window) effectiveMinRow() int {
	if w.MinRow < 1 {
		return 1
	}
	return w.MinRow
}

func (w Window) effectiveMinCol() int {
	if w.MinCol < 1 {
		return 1
	}
	return w.MinCol
}

// inRowSpan reports whether logical row number n falls within the window's
// row bounds.
func (w Window) inRowSpan(n int) bool {
	if n < w.effectiveMinRow() {
		return false
	}
	if w.MaxRow > 0 && n > w.MaxRow {
		return false
	}
	return true
}

// pastRowSpan reports whether row n is beyond the window's upper bound,
// letting an OOXML parser stop early instead of scanning to EOF.
func (w Window) pastRowSpan(n int) bool {
	return w.MaxRow > 0 && n > w.MaxRow
}

// Source is the Row Source contract. A Source is single-consumer and not
// safe for concurrent use; NextRow is non-restartable once EOS or an error
// is returned.
type Source interface {
	// Sheets lists the addressable sheets. For non-OOXML sources this is
	// a single synthetic descriptor.
	Sheets() ([]SheetDescriptor, error)
	// Select records the target sheet by name or 0-based index encoded as
	// a string of digits. Must be called before the first NextRow call
	// for OOXML sources; the default is the first visible sheet.
	Select(sheet string) error
	// NextRow yields the next logical row, or EOS at end of stream.
	NextRow() (Row, error)
	// Close releases resources. Idempotent.
	Close() error
}
