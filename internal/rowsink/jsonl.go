package rowsink

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// JSONLSink writes one JSON array per row, newline-terminated, staged at
// path+".tmp" and renamed into place on Finish.
type JSONLSink struct {
	path    string
	tmpPath string

	f  *os.File
	bw *bufio.Writer

	stats  Stats
	opened bool
}

// OpenJSONL creates a new JSONL row sink writing to path.
func OpenJSONL(path string) (*JSONLSink, error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, sheeterr.Wrap(sheeterr.KindSinkWrite, path, err)
	}
	return &JSONLSink{path: path, tmpPath: tmpPath, f: f, bw: bufio.NewWriter(f), opened: true}, nil
}

// WriteRow implements Sink.
func (s *JSONLSink) WriteRow(cells []cellvalue.Value) error {
	if !s.opened {
		return sheeterr.New(sheeterr.KindSinkWrite, "write after close")
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = jsonValue(c)
	}
	b, err := json.Marshal(values)
	if err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	n, err := s.bw.Write(b)
	if err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	if err := s.bw.WriteByte('\n'); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	s.stats.BytesWritten += int64(n) + 1
	s.stats.TotalRows++
	return nil
}

// jsonValue maps a cell to the native JSON value its kind implies.
// Dates and currency, which have no native JSON representation, render as
// their Display string.
func jsonValue(c cellvalue.Value) any {
	switch c.Kind() {
	case cellvalue.KindNull:
		return nil
	case cellvalue.KindBool:
		v, _ := c.Bool()
		return v
	case cellvalue.KindInt:
		v, _ := c.Int()
		return v
	case cellvalue.KindFloat, cellvalue.KindPercentage:
		v, _ := c.Float()
		return v
	case cellvalue.KindString:
		v, _ := c.String()
		return v
	default:
		return c.Display()
	}
}

// Flush implements Sink.
func (s *JSONLSink) Flush() error {
	if err := s.bw.Flush(); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	return nil
}

// Finish implements Sink.
func (s *JSONLSink) Finish() error {
	if !s.opened {
		return nil
	}
	if err := s.Flush(); err != nil {
		return err
	}
	info, err := s.f.Stat()
	if err == nil {
		s.stats.BytesWritten = info.Size()
	}
	if err := s.f.Close(); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	if err := os.Rename(s.tmpPath, s.path); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	s.opened = false
	return nil
}

// Close implements Sink: discards the staged temp file if Finish never ran.
func (s *JSONLSink) Close() error {
	if !s.opened {
		return nil
	}
	s.opened = false
	s.f.Close()
	return os.Remove(s.tmpPath)
}

// Stats implements Sink.
func (s *JSONLSink) Stats() Stats { return s.stats }
