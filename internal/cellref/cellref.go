// Package cellref converts between the spreadsheet's column-letter address
// syntax (A1, AA10, ...) and 1-based (column, row) coordinates, and parses
// range expressions like "A1:C10". Shared by rowsource, rowsink, and
// pipeline so the three components agree on a single address grammar.
package cellref

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

var cellAddrRegex = regexp.MustCompile(`^([A-Za-z]+)([0-9]+)$`)

// ColumnNameToNumber converts a column name (A, B, ..., Z, AA, AB, ...) to a
// 1-based column number.
func ColumnNameToNumber(name string) int {
	name = strings.ToUpper(name)
	result := 0
	for _, ch := range name {
		result = result*26 + int(ch-'A'+1)
	}
	return result
}

// ColumnNumberToName converts a 1-based column number to its column name.
func ColumnNumberToName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}

// FormatCellAddress formats a (column, row) pair into an address like "A1".
func FormatCellAddress(col, row int) string {
	return fmt.Sprintf("%s%d", ColumnNumberToName(col), row)
}

// ParseCellAddress parses an address like "A1" into 1-based (column, row).
func ParseCellAddress(addr string) (col, row int, err error) {
	trimmed := strings.TrimSpace(strings.ToUpper(addr))
	matches := cellAddrRegex.FindStringSubmatch(trimmed)
	if matches == nil {
		return 0, 0, sheeterr.Wrapf(sheeterr.ErrInvalidAddress, "%s", addr)
	}
	col = ColumnNameToNumber(matches[1])
	row, convErr := strconv.Atoi(matches[2])
	if convErr != nil || row < 1 {
		return 0, 0, sheeterr.Wrapf(sheeterr.ErrInvalidAddress, "%s", addr)
	}
	return col, row, nil
}

// Range is a rectangular, 1-based, inclusive cell range such as "B2:D4".
type Range struct {
	StartCol, StartRow int
	EndCol, EndRow      int
}

// rangeSyntax matches the spec's required range grammar
// ^[A-Z]+\d+:[A-Z]+\d+$ once the input has been upper-cased and trimmed.
var rangeSyntax = regexp.MustCompile(`^[A-Z]+[0-9]+:[A-Z]+[0-9]+$`)

// ParseRange parses a range string like "A1:C10". Lower-case input is
// normalized to upper-case before the syntax check so callers may type
// ranges in either case. Fails with ErrInvalidRange if the syntax check
// fails or the end address precedes the start address.
func ParseRange(s string) (Range, error) {
	normalized := strings.TrimSpace(strings.ToUpper(s))
	if !rangeSyntax.MatchString(normalized) {
		return Range{}, sheeterr.Wrapf(sheeterr.ErrInvalidRange, "%s", s)
	}
	parts := strings.SplitN(normalized, ":", 2)
	startCol, startRow, err := ParseCellAddress(parts[0])
	if err != nil {
		return Range{}, sheeterr.Wrapf(sheeterr.ErrInvalidRange, "invalid start %s", parts[0])
	}
	endCol, endRow, err := ParseCellAddress(parts[1])
	if err != nil {
		return Range{}, sheeterr.Wrapf(sheeterr.ErrInvalidRange, "invalid end %s", parts[1])
	}
	if endCol < startCol || endRow < startRow {
		return Range{}, sheeterr.Wrapf(sheeterr.ErrInvalidRange, "end before start in %s", s)
	}
	return Range{StartCol: startCol, StartRow: startRow, EndCol: endCol, EndRow: endRow}, nil
}

// Contains reports whether (col, row) falls within r.
func (r Range) Contains(col, row int) bool {
	return col >= r.StartCol && col <= r.EndCol && row >= r.StartRow && row <= r.EndRow
}

// String renders r back into "A1:C10" form.
func (r Range) String() string {
	return fmt.Sprintf("%s:%s", FormatCellAddress(r.StartCol, r.StartRow), FormatCellAddress(r.EndCol, r.EndRow))
}

// IsValidRange reports whether s parses as a Range.
func IsValidRange(s string) bool {
	_, err := ParseRange(s)
	return err == nil
}
