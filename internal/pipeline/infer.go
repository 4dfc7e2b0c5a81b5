package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
)

// inferDateFormats mirrors the small set a delimited/JSONL source is most
// likely to carry. OOXML rows go through inference too, but only their
// string cells are affected; numeric and typed cells pass through.
var inferDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

// inferRow rewrites KindString cells whose text parses as a bool, int,
// float, or date into the corresponding typed Value. Non-string cells and
// unparseable strings pass through unchanged.
func inferRow(row []cellvalue.Value) []cellvalue.Value {
	for i, cell := range row {
		s, ok := cell.String()
		if !ok || s == "" {
			continue
		}
		row[i] = inferCell(s)
	}
	return row
}

func inferCell(s string) cellvalue.Value {
	lower := strings.ToLower(s)
	if lower == "true" || lower == "false" {
		return cellvalue.Bool(lower == "true")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return cellvalue.Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return cellvalue.Float(f)
	}
	for _, layout := range inferDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			prec := cellvalue.PrecisionDateTime
			if layout == "2006-01-02" || layout == "2006/01/02" || layout == "01/02/2006" {
				prec = cellvalue.PrecisionDateOnly
			}
			return cellvalue.DateTime(t, prec)
		}
	}
	return cellvalue.String(s)
}
