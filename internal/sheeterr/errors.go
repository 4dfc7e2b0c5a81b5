// Package sheeterr defines the engine's error surface: a single
// discriminated error type carrying a Kind tag, a human-readable message,
// and an optional wrapped cause, per the error handling design.
package sheeterr

import "fmt"

// Kind discriminates the category of a failure.
type Kind string

const (
	KindFileUnreadable      Kind = "file_unreadable"
	KindFormatUnknown       Kind = "format_unknown"
	KindCorruptContainer    Kind = "corrupt_container"
	KindXMLMalformed        Kind = "xml_malformed"
	KindParseFailed         Kind = "parse_failed"
	KindSheetNotFound       Kind = "sheet_not_found"
	KindInvalidRange        Kind = "invalid_range"
	KindSharedStringMissing Kind = "shared_string_missing"
	KindSinkWrite           Kind = "sink_write"
	KindMemoryLimit         Kind = "memory_limit"
	KindNotImplemented      Kind = "not_implemented_in_streaming_mode"
	KindInvalidAddress      Kind = "invalid_address"
	KindUsage               Kind = "usage"
)

// Error is the engine's single user-visible error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes Cause to errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports equality by Kind so sentinel comparisons via errors.Is ignore
// message and cause, matching how the sentinel vars below are used.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an Error with no cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error carrying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrapf is a convenience for producing a detailed Error that still matches
// a sentinel via errors.Is, since Is compares by Kind alone.
func Wrapf(sentinel *Error, format string, args ...any) *Error {
	return &Error{Kind: sentinel.Kind, Message: fmt.Sprintf(format, args...)}
}

// Sentinel errors, one per Kind, matched by errors.Is against any *Error of
// the same Kind regardless of message or cause.
var (
	ErrFileUnreadable                = New(KindFileUnreadable, "file unreadable")
	ErrFormatUnknown                 = New(KindFormatUnknown, "format unknown")
	ErrCorruptContainer              = New(KindCorruptContainer, "corrupt container")
	ErrXMLMalformed                  = New(KindXMLMalformed, "malformed xml")
	ErrParseFailed                   = New(KindParseFailed, "parse failed")
	ErrSheetNotFound                 = New(KindSheetNotFound, "sheet not found")
	ErrInvalidRange                  = New(KindInvalidRange, "invalid range")
	ErrSharedStringMissing           = New(KindSharedStringMissing, "shared string missing")
	ErrSinkWrite                     = New(KindSinkWrite, "sink write failed")
	ErrMemoryLimit                   = New(KindMemoryLimit, "memory limit exceeded")
	ErrNotImplementedInStreamingMode = New(KindNotImplemented, "not implemented in streaming mode")
	ErrInvalidAddress                = New(KindInvalidAddress, "invalid cell address")
	ErrUsage                         = New(KindUsage, "usage error")
)
