package rowsource

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// JSONLSource is the Source implementation for JSON-lines input: one JSON
// array or object per line. An array yields positional cells; an object
// yields its values as cells in key order, with the key order exposed via
// LastNames.
type JSONLSource struct {
	f      *os.File
	sc     *bufio.Scanner
	window Window
	rowNum int

	// lastNames holds the key order of the most recently decoded object
	// row, so callers needing named access can pair it with the Cells
	// slice.
	lastNames []string
}

// OpenJSONL opens path for line-delimited JSON reading.
func OpenJSONL(path string, window Window) (*JSONLSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sheeterr.Wrap(sheeterr.KindFileUnreadable, path, err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &JSONLSource{f: f, sc: sc, window: window}, nil
}

// Sheets implements Source: JSON-lines exposes a single synthetic sheet.
func (s *JSONLSource) Sheets() ([]SheetDescriptor, error) {
	return []SheetDescriptor{{Name: "Sheet1", Index: 0, Visible: true, Active: true}}, nil
}

// Select implements Source.
func (s *JSONLSource) Select(sheet string) error {
	if sheet == "" || sheet == "Sheet1" || sheet == "0" {
		return nil
	}
	return sheeterr.Wrapf(sheeterr.ErrSheetNotFound, "%s", sheet)
}

// LastNames returns the key order of the most recently decoded object row,
// or nil if the last row was a positional array.
func (s *JSONLSource) LastNames() []string {
	return s.lastNames
}

// NextRow implements Source.
func (s *JSONLSource) NextRow() (Row, error) {
	for {
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				return Row{}, sheeterr.Wrap(sheeterr.KindParseFailed, "jsonl", err)
			}
			return Row{}, EOS
		}
		line := strings.TrimSpace(s.sc.Text())
		if line == "" {
			continue
		}
		s.rowNum++

		if s.window.pastRowSpan(s.rowNum) {
			return Row{}, EOS
		}
		if s.rowNum < s.window.effectiveMinRow() {
			continue
		}

		cells, names, err := decodeJSONLine(line)
		if err != nil {
			return Row{}, sheeterr.Wrap(sheeterr.KindParseFailed, "jsonl line", err)
		}
		s.lastNames = names
		return Row{Number: s.rowNum, Cells: cells}, nil
	}
}

// decodeJSONLine decodes a single JSONL line into ordered cells. Arrays
// become positional cells with a nil names slice; objects become named
// cells with names in encounter order (json.Decoder preserves source
// order for object keys via Token-based decoding).
func decodeJSONLine(line string) ([]cellvalue.Value, []string, error) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, nil, sheeterr.New(sheeterr.KindParseFailed, "jsonl line is not an array or object")
	}

	switch delim {
	case '[':
		var cells []cellvalue.Value
		for dec.More() {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, nil, err
			}
			v, err := decodeJSONRaw(raw)
			if err != nil {
				return nil, nil, err
			}
			cells = append(cells, v)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, nil, err
		}
		return cells, nil, nil

	case '{':
		var cells []cellvalue.Value
		var names []string
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, nil, err
			}
			key, _ := keyTok.(string)

			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, nil, err
			}
			v, err := decodeJSONRaw(raw)
			if err != nil {
				return nil, nil, err
			}
			names = append(names, key)
			cells = append(cells, v)
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, nil, err
		}
		return cells, names, nil

	default:
		return nil, nil, sheeterr.New(sheeterr.KindParseFailed, "jsonl line is not an array or object")
	}
}

// decodeJSONRaw decodes one JSON value into a cell. Nested arrays/objects
// are re-serialized as their compact JSON text, matching the data model's
// scalar-only cell contract.
func decodeJSONRaw(raw json.RawMessage) (cellvalue.Value, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return cellvalue.Null(), nil
	}
	switch trimmed[0] {
	case '{', '[':
		return cellvalue.String(trimmed), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return cellvalue.Value{}, err
		}
		return cellvalue.String(s), nil
	case 't', 'f':
		return cellvalue.Bool(trimmed == "true"), nil
	default:
		num := json.Number(trimmed)
		if i, err := num.Int64(); err == nil {
			return cellvalue.Int(i), nil
		}
		f, err := num.Float64()
		if err != nil {
			return cellvalue.Value{}, err
		}
		return cellvalue.Float(f), nil
	}
}

// Close implements Source.
func (s *JSONLSource) Close() error {
	return s.f.Close()
}
