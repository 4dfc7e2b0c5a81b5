package rowsource

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// candidateDelimiters are the separators auto-detection scores, in the
// order the spec lists them.
var candidateDelimiters = []rune{',', ';', '\t'}

// DelimitedSource is the Source implementation for RFC 4180-variant
// delimited text (csv/tsv/txt), with a single synthetic sheet.
type DelimitedSource struct {
	f      *os.File
	r      *csv.Reader
	window Window

	rowNum int
}

// OpenDelimited opens path and auto-detects its delimiter: whichever of
// ',', ';', '\t' appears most often in the first non-empty line.
func OpenDelimited(path string, window Window) (*DelimitedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sheeterr.Wrap(sheeterr.KindFileUnreadable, path, err)
	}

	delim, bomLen, err := sniffDelimiter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(int64(bomLen), io.SeekStart); err != nil {
		f.Close()
		return nil, sheeterr.Wrap(sheeterr.KindFileUnreadable, path, err)
	}

	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	return &DelimitedSource{f: f, r: r, window: window}, nil
}

func sniffDelimiter(f *os.File) (rune, int, error) {
	br := bufio.NewReader(f)
	bom, err := br.Peek(3)
	bomLen := 0
	if err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		bomLen = 3
		br.Discard(3)
	}

	line, _ := br.ReadString('\n')
	if strings.TrimSpace(line) == "" {
		return ',', bomLen, nil
	}

	best := candidateDelimiters[0]
	bestCount := -1
	for _, d := range candidateDelimiters {
		count := strings.Count(line, string(d))
		if count > bestCount {
			bestCount = count
			best = d
		}
	}
	return best, bomLen, nil
}

// Sheets implements Source: delimited text exposes a single synthetic
// sheet.
func (s *DelimitedSource) Sheets() ([]SheetDescriptor, error) {
	return []SheetDescriptor{{Name: "Sheet1", Index: 0, Visible: true, Active: true}}, nil
}

// Select implements Source; any sheet name/index other than the synthetic
// default fails.
func (s *DelimitedSource) Select(sheet string) error {
	if sheet == "" || sheet == "Sheet1" || sheet == "0" {
		return nil
	}
	return sheeterr.Wrapf(sheeterr.ErrSheetNotFound, "%s", sheet)
}

// NextRow implements Source.
func (s *DelimitedSource) NextRow() (Row, error) {
	for {
		record, err := s.r.Read()
		if err == io.EOF {
			return Row{}, EOS
		}
		if err != nil {
			return Row{}, sheeterr.Wrap(sheeterr.KindParseFailed, "delimited text", err)
		}
		s.rowNum++

		if s.window.pastRowSpan(s.rowNum) {
			return Row{}, EOS
		}
		if s.rowNum < s.window.effectiveMinRow() {
			continue
		}

		cells := make([]cellvalue.Value, len(record))
		for i, field := range record {
			// Type inference is a Pipeline-stage concern (§4.5); the Row
			// Source always yields raw strings here.
			cells[i] = cellvalue.String(field)
		}
		return Row{Number: s.rowNum, Cells: cells}, nil
	}
}

// Close implements Source.
func (s *DelimitedSource) Close() error {
	return s.f.Close()
}
