// Package numformat resolves an OOXML number-format code to the semantic
// hint the reader needs — is this numeric cell actually a date, a
// percentage, or a currency amount — and converts OOXML date serials to
// time.Time. Date-detection scanning is grounded on go-xlsb's
// dateformat.ScanFormatStr; serial conversion mirrors its convertSerial.
package numformat

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xuri/nfp"
)

// builtinDateIDs are the numFmtId ranges ECMA-376 §18.8.30 reserves for
// built-in date/datetime/time/elapsed-time formats.
func isBuiltinDateID(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// IsDateFormat reports whether a cell styled with numFmtID (and, for custom
// formats, formatCode) should be treated as a date/time value. Per the
// engine's committed rule (resolving the source's fuzzy heuristic): a
// format code is date-like iff it contains y, m, d, h, or s as an unquoted
// letter — quoted literal text is excluded, but bracketed elapsed-time
// sections ([hh], [mm], [ss]) are not, since their interior letters are
// still meaningful date/time tokens.
func IsDateFormat(numFmtID int, formatCode string) bool {
	if formatCode == "" {
		return isBuiltinDateID(numFmtID)
	}
	return scanForDateTokens(formatCode)
}

// scanForDateTokens implements the "unquoted letter" rule: track whether we
// are inside a double-quoted literal and skip letters found there.
func scanForDateTokens(code string) bool {
	inQuote := false
	for _, ch := range code {
		if ch == '"' {
			inQuote = !inQuote
			continue
		}
		if inQuote {
			continue
		}
		switch ch {
		case 'y', 'Y', 'm', 'M', 'd', 'D', 'h', 'H', 's', 'S':
			return true
		}
	}
	return false
}

// IsPercentageFormat reports whether formatCode represents a percentage
// display, found by tokenizing the code with nfp and checking for a
// percent placeholder outside any quoted literal.
func IsPercentageFormat(formatCode string) bool {
	for _, sec := range ParseSections(formatCode) {
		for _, tok := range sec.Items {
			if tok.TType == nfp.TokenTypePercent {
				return true
			}
		}
	}
	return false
}

// currencySymbols are the symbols the engine recognizes when scanning a
// format code's tokens for a currency hint. Order matters only for
// readability.
var currencySymbols = []string{"$", "€", "£", "¥"}

// CurrencySymbol returns the first recognized currency symbol found in
// formatCode's currency-language or literal tokens, or "" if none is
// found. Tokenizing with nfp first means a symbol inside a quoted literal
// section is still attributed correctly and symbols inside date/elapsed
// tokens are never mistaken for currency.
func CurrencySymbol(formatCode string) string {
	for _, sec := range ParseSections(formatCode) {
		for _, tok := range sec.Items {
			switch tok.TType {
			case nfp.TokenTypeCurrencyLanguage, nfp.TokenTypeLiteral:
				for _, sym := range currencySymbols {
					if strings.Contains(tok.TValue, sym) {
						return sym
					}
				}
			}
		}
	}
	return ""
}

// SerialToTime converts an OOXML date serial (days since the workbook
// epoch, with a fractional part for time-of-day) to a UTC time.Time.
// epoch1904 selects the 1904 date system; otherwise the 1900 system is
// used, including its documented leap-year quirk (serial 60 is the
// nonexistent 1900-02-29, so serials >= 61 are offset by one day less than
// a naive day-count would suggest).
func SerialToTime(serial float64, epoch1904 bool) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 {
		return time.Time{}, fmt.Errorf("numformat: invalid serial %v", serial)
	}

	fracSec := int64(math.Round((serial - math.Trunc(serial)) * 86400))
	if fracSec < 0 {
		fracSec = 0
	} else if fracSec > 86399 {
		fracSec = 86399
	}

	if epoch1904 {
		base := time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
		return base.Add(time.Duration(serial)*24*time.Hour + time.Duration(fracSec)*time.Second), nil
	}

	intPart := int(serial)
	base := time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	switch {
	case intPart == 0:
		return time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(fracSec) * time.Second), nil
	case intPart >= 61:
		// Serial 60 is the fictitious 1900-02-29; every serial from 61
		// onward is one day earlier than its naive offset from 1899-12-31.
		return base.Add(time.Duration(intPart-1)*24*time.Hour + time.Duration(fracSec)*time.Second), nil
	default:
		return base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(fracSec)*time.Second), nil
	}
}

// ParseSections parses a number-format code into its nfp sections, the
// shared tokenization IsPercentageFormat and CurrencySymbol classify
// against. Returns nil if the code fails to parse as a formatted number
// (e.g. plain "General").
func ParseSections(code string) []nfp.Section {
	if code == "" || code == "General" {
		return nil
	}
	ps := nfp.NumberFormatParser()
	return ps.Parse(code)
}
