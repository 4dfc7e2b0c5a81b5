// Package cellvalue implements the tagged-union cell value described by the
// engine's data model: every cell decoded from a source, or written to a
// sink, is exactly one of the variants enumerated by Kind.
//
// Numeric coercions happen once at the boundary (when a Value is
// constructed from wire bytes) and never again at each consumption site —
// callers match on Kind and read the corresponding accessor.
package cellvalue

import (
	"fmt"
	"strconv"
	"time"
)

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindDateTime
	KindCurrency
	KindPercentage
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDateTime:
		return "datetime"
	case KindCurrency:
		return "currency"
	case KindPercentage:
		return "percentage"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// DatePrecision records whether a DateTime value's source carried a full
// instant, a date-only value, or a time-only value.
type DatePrecision int

const (
	PrecisionDateTime DatePrecision = iota
	PrecisionDateOnly
	PrecisionTimeOnly
)

// Currency is the payload of a KindCurrency Value.
type Currency struct {
	Amount float64
	ISO    string // ISO 4217 code, empty when unknown
	Symbol string // original symbol as it appeared in the source, e.g. "$"
}

// Value is the tagged union described by the data model. Zero value is
// KindNull.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
	prec DatePrecision
	cur  Currency
	// errText holds the original source text for a KindError sentinel.
	errText string
}

// Null returns the null variant.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean variant.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a 64-bit signed integer variant.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns an IEEE-754 64-bit float variant.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string variant.
func String(s string) Value { return Value{kind: KindString, s: s} }

// DateTime returns a date-time variant carrying a UTC instant and the
// precision at which the source expressed it.
func DateTime(t time.Time, prec DatePrecision) Value {
	return Value{kind: KindDateTime, t: t.UTC(), prec: prec}
}

// NewCurrency returns a currency variant.
func NewCurrency(amount float64, iso, symbol string) Value {
	return Value{kind: KindCurrency, cur: Currency{Amount: amount, ISO: iso, Symbol: symbol}}
}

// Percentage returns a percentage variant. fraction is the underlying
// fraction (0.5 == 50%), matching how OOXML stores percentage cells.
func Percentage(fraction float64) Value {
	return Value{kind: KindPercentage, f: fraction}
}

// ErrorSentinel returns an error-sentinel variant carrying the original
// cell text (e.g. "#DIV/0!").
func ErrorSentinel(text string) Value {
	return Value{kind: KindError, errText: text}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload and whether v holds KindBool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Int returns the integer payload and whether v holds KindInt.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float payload and whether v holds KindFloat or
// KindPercentage (percentage's payload is its fraction).
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat, KindPercentage:
		return v.f, true
	}
	return 0, false
}

// String returns the raw string payload and whether v holds KindString.
// Use Display for a human-readable rendering of any variant.
func (v Value) String() (string, bool) { return v.s, v.kind == KindString }

// Time returns the date-time payload and whether v holds KindDateTime.
func (v Value) Time() (time.Time, DatePrecision, bool) {
	return v.t, v.prec, v.kind == KindDateTime
}

// Currency returns the currency payload and whether v holds KindCurrency.
func (v Value) Currency() (Currency, bool) {
	return v.cur, v.kind == KindCurrency
}

// ErrorText returns the original error-sentinel text and whether v holds
// KindError.
func (v Value) ErrorText() (string, bool) { return v.errText, v.kind == KindError }

// Display renders v as a display string suitable for delimited-text output
// or console printing. Null renders as the empty string.
func (v Value) Display() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindDateTime:
		switch v.prec {
		case PrecisionDateOnly:
			return v.t.Format("2006-01-02")
		case PrecisionTimeOnly:
			return v.t.Format("15:04:05")
		default:
			return v.t.Format(time.RFC3339)
		}
	case KindCurrency:
		sym := v.cur.Symbol
		if sym == "" {
			sym = v.cur.ISO
		}
		return fmt.Sprintf("%s%s", sym, strconv.FormatFloat(v.cur.Amount, 'f', 2, 64))
	case KindPercentage:
		return strconv.FormatFloat(v.f*100, 'f', -1, 64) + "%"
	case KindError:
		return v.errText
	default:
		return ""
	}
}

// Equal reports whether v and other hold the same kind and payload. Time
// comparisons use time.Time.Equal so differing monotonic readings of an
// otherwise-identical instant still compare equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat, KindPercentage:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindDateTime:
		return v.prec == other.prec && v.t.Equal(other.t)
	case KindCurrency:
		return v.cur == other.cur
	case KindError:
		return v.errText == other.errText
	}
	return false
}
