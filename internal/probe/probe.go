// Package probe implements the format probe: classify an input path as
// an OOXML spreadsheet, delimited text, or JSON-lines using magic bytes
// plus extension, without committing to a full parse.
package probe

import (
	"archive/zip"
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// Format is the detected input format.
type Format string

const (
	FormatXLSX           Format = "xlsx"
	FormatArchiveUnknown Format = "archive-unknown"
	FormatDelimitedText  Format = "delimited-text"
	FormatJSONL          Format = "jsonl"
	FormatUnknown        Format = "unknown"
)

// Result is what the probe reports about a path.
type Result struct {
	Format          Format
	MIMEHint        string
	Confidence      float64
	DetectedEncoding string
}

var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// Probe classifies path. It fails with sheeterr.ErrFileUnreadable if the
// path is missing or unreadable; any content-level mismatch is reported as
// FormatUnknown (FormatArchiveUnknown for a zip that is not a spreadsheet)
// rather than as an error.
func Probe(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, sheeterr.Wrap(sheeterr.KindFileUnreadable, path, err)
	}
	defer f.Close()

	header := make([]byte, 8)
	n, _ := io.ReadFull(f, header)
	header = header[:n]

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	if bytes.HasPrefix(header, zipMagic) {
		return probeArchive(path)
	}

	switch ext {
	case "csv", "tsv", "txt":
		rest, encoding, ok := sniffText(f, header)
		if ok {
			return Result{
				Format:           FormatDelimitedText,
				MIMEHint:         "text/" + delimitedMIME(ext),
				Confidence:       1.0,
				DetectedEncoding: encoding,
			}, nil
		}
		_ = rest
	case "json", "jsonl", "ndjson":
		if looksLikeJSONL(f, header) {
			return Result{Format: FormatJSONL, MIMEHint: "application/x-ndjson", Confidence: 1.0}, nil
		}
	}

	return Result{Format: FormatUnknown, Confidence: 0}, nil
}

func delimitedMIME(ext string) string {
	switch ext {
	case "csv":
		return "csv"
	case "tsv":
		return "tab-separated-values"
	default:
		return "plain"
	}
}

// probeArchive opens path as a zip and looks for the two OOXML-sheet
// anchor members: [Content_Types].xml and xl/workbook.xml.
func probeArchive(path string) (Result, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		// Magic bytes matched but the container is not a valid zip;
		// this is a content mismatch, not an unreadable path.
		return Result{Format: FormatArchiveUnknown, Confidence: 0}, nil
	}
	defer zr.Close()

	var hasContentTypes, hasWorkbook bool
	for _, zf := range zr.File {
		switch zf.Name {
		case "[Content_Types].xml":
			hasContentTypes = true
		case "xl/workbook.xml":
			hasWorkbook = true
		}
	}

	if hasContentTypes && hasWorkbook {
		return Result{Format: FormatXLSX, MIMEHint: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Confidence: 1.0}, nil
	}
	return Result{Format: FormatArchiveUnknown, Confidence: 0}, nil
}

// sniffText reads a bounded prefix of the file (past the already-consumed
// header) and reports whether it decodes as valid UTF-8, optionally with a
// BOM. It does not consume f beyond what's needed for the check; the
// caller only needs the classification, since the real reader re-opens
// the path from scratch.
func sniffText(f *os.File, header []byte) (rest []byte, encoding string, ok bool) {
	buf := make([]byte, 4096)
	n, _ := f.Read(buf)
	sample := append(append([]byte{}, header...), buf[:n]...)

	encoding = "utf-8"
	body := sample
	if bytes.HasPrefix(sample, []byte{0xEF, 0xBB, 0xBF}) {
		encoding = "utf-8-bom"
		body = sample[3:]
	}

	if !utf8.Valid(body) {
		return sample, encoding, false
	}
	return sample, encoding, true
}

// looksLikeJSONL checks that the first non-whitespace byte in the sampled
// prefix is '[' or '{', per the JSON-lines classification rule.
func looksLikeJSONL(f *os.File, header []byte) bool {
	buf := make([]byte, 4096)
	n, _ := f.Read(buf)
	sample := append(append([]byte{}, header...), buf[:n]...)

	r := bufio.NewReader(bytes.NewReader(sample))
	for {
		b, err := r.ReadByte()
		if err != nil {
			return false
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		return b == '[' || b == '{'
	}
}
