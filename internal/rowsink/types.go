// Package rowsink implements the Row Sink component: accepts rows one at
// a time, serializes them to OOXML, delimited-text, or JSONL, with a
// bounded write-buffer and explicit flush points.
package rowsink

import (
	"github.com/longkedev/lk-export-excel/internal/cellvalue"
)

// DefaultBufferRows is the default ring-buffer capacity B.
const DefaultBufferRows = 500

// Config configures a Sink's buffering behavior.
type Config struct {
	// BufferRows is the ring-buffer capacity: rows accumulate until this
	// many are pending, then an implicit flush runs. Callers may also
	// flush explicitly at any point.
	BufferRows int
}

// DefaultConfig returns the default Config.
func DefaultConfig() Config {
	return Config{BufferRows: DefaultBufferRows}
}

func (c Config) bufferRows() int {
	if c.BufferRows < 1 {
		return DefaultBufferRows
	}
	return c.BufferRows
}

// Stats reports what a finished write run produced.
type Stats struct {
	TotalRows    int64
	BytesWritten int64
}

// Sink is the Row Sink contract. A Sink is single-consumer and not safe
// for concurrent use.
//
// The OOXML sink holds up to Config.BufferRows rows and writes them out
// when that many are pending, on an explicit Flush, or at Finish. The
// delimited-text and JSONL sinks write through a bufio.Writer, which also
// writes to the file whenever its own buffer fills. If Close runs without a prior Finish, any pending bytes are
// discarded and the partial output file is removed — the destination path
// never observes a half-written file.
type Sink interface {
	WriteRow(cells []cellvalue.Value) error
	Flush() error
	Finish() error
	Close() error
	Stats() Stats
}

// headerRow renders column names as a header row of string cells. No sink
// in this package calls it.
func headerRow(names []string) []cellvalue.Value {
	cells := make([]cellvalue.Value, len(names))
	for i, n := range names {
		cells[i] = cellvalue.String(n)
	}
	return cells
}
