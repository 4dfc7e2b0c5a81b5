package rowsink

import (
	"bufio"
	"encoding/csv"
	"os"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// DelimitedSink writes RFC 4180 comma-delimited text, staged at
// path+".tmp" and renamed into place on Finish. Buffering is driven by the
// underlying bufio.Writer rather than a row ring — csv.Writer has no
// partial-row state to discard, so Close-without-Finish simply removes the
// temp file without needing to track pending row count.
type DelimitedSink struct {
	path    string
	tmpPath string

	f  *os.File
	bw *bufio.Writer
	cw *csv.Writer

	stats  Stats
	opened bool
}

// OpenDelimited creates a new delimited-text row sink writing to path.
func OpenDelimited(path string) (*DelimitedSink, error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, sheeterr.Wrap(sheeterr.KindSinkWrite, path, err)
	}
	bw := bufio.NewWriter(f)
	return &DelimitedSink{
		path:    path,
		tmpPath: tmpPath,
		f:       f,
		bw:      bw,
		cw:      csv.NewWriter(bw),
		opened:  true,
	}, nil
}

// WriteRow implements Sink.
func (s *DelimitedSink) WriteRow(cells []cellvalue.Value) error {
	if !s.opened {
		return sheeterr.New(sheeterr.KindSinkWrite, "write after close")
	}
	record := make([]string, len(cells))
	for i, c := range cells {
		record[i] = c.Display()
	}
	if err := s.cw.Write(record); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	s.stats.TotalRows++
	return nil
}

// Flush implements Sink.
func (s *DelimitedSink) Flush() error {
	s.cw.Flush()
	if err := s.cw.Error(); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	if err := s.bw.Flush(); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	return nil
}

// Finish implements Sink.
func (s *DelimitedSink) Finish() error {
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
func (s *DelimitedSink) Close() error {
	if !s.opened {
		return nil
	}
	s.opened = false
	s.f.Close()
	return os.Remove(s.tmpPath)
}

// Stats implements Sink.
func (s *DelimitedSink) Stats() Stats { return s.stats }
