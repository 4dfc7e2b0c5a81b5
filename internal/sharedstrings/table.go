// Package sharedstrings implements the OOXML shared-string table: a
// bounded, lazily-decoded int-to-string map fed by a single-pass pull
// parser over xl/sharedStrings.xml. Entries are pulled on demand and
// cached in an LRU bounded by internal/cache, evicted at positions behind
// the loader's current read cursor.
package sharedstrings

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/longkedev/lk-export-excel/internal/cache"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// DefaultCapacity is N_ss, the default maximum number of retained entries.
const DefaultCapacity = 10000

// Table is a bounded, lazily-populated shared-string lookup.
//
// The underlying XML is read with a single forward-only pull parser:
// entries can only be decoded in non-decreasing index order, matching how
// the Row Source consumes shared-string references from a row-ordered
// OOXML sheet part.
type Table struct {
	dec        *xml.Decoder
	closer     io.Closer
	lru        *cache.LRU
	nextToLoad int // index of the next <si> the parser will decode
	totalCount int // declared uniqueCount, -1 if unknown
	exhausted  bool
}

// New constructs a Table that will pull-parse r (the xl/sharedStrings.xml
// stream) on demand, retaining up to capacity decoded entries. r is closed
// when the table's Close method runs, if r implements io.Closer.
func New(r io.Reader, capacity int) *Table {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	closer, _ := r.(io.Closer)
	return &Table{
		dec:        xml.NewDecoder(r),
		closer:     closer,
		lru:        cache.New(capacity),
		totalCount: -1,
	}
}

// Close releases the underlying stream, if closeable.
func (t *Table) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// Get resolves shared-string index i, pulling the parser forward as
// needed. Fails with ErrSharedStringMissing if i exceeds the table's
// declared total count, or if the stream ends before index i is reached.
func (t *Table) Get(i int) (string, error) {
	if v, ok := t.lru.Get(i); ok {
		return v, nil
	}
	if t.totalCount >= 0 && i >= t.totalCount {
		return "", sheeterr.Wrapf(sheeterr.ErrSharedStringMissing, "index %d", i)
	}
	if i < t.nextToLoad {
		// Already evicted or, in a well-formed non-decreasing access
		// sequence, never populated to begin with.
		return "", sheeterr.Wrapf(sheeterr.ErrSharedStringMissing, "index %d already evicted", i)
	}

	for t.nextToLoad <= i {
		text, ok, err := t.decodeNextEntry()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", sheeterr.Wrapf(sheeterr.ErrSharedStringMissing, "index %d beyond end of table", i)
		}
		loaded := t.nextToLoad
		t.nextToLoad++
		t.lru.Set(loaded, text)
		if t.lru.OverCapacity() {
			t.lru.EvictLRUBefore(loaded)
		}
	}

	v, ok := t.lru.Get(i)
	if !ok {
		return "", sheeterr.Wrapf(sheeterr.ErrSharedStringMissing, "index %d", i)
	}
	return v, nil
}

// TotalCount returns the sst element's declared uniqueCount, or -1 if the
// root element has not been seen yet.
func (t *Table) TotalCount() int {
	return t.totalCount
}

// decodeNextEntry advances the parser to the next <si> element (skipping
// the <sst> root on first call) and returns its concatenated plain text.
// ok is false at end of stream.
func (t *Table) decodeNextEntry() (text string, ok bool, err error) {
	if t.exhausted {
		return "", false, nil
	}
	for {
		tok, terr := t.dec.Token()
		if terr == io.EOF {
			t.exhausted = true
			return "", false, nil
		}
		if terr != nil {
			return "", false, sheeterr.Wrap(sheeterr.KindXMLMalformed, "sharedStrings.xml", terr)
		}

		se, isStart := tok.(xml.StartElement)
		if !isStart {
			continue
		}

		switch se.Name.Local {
		case "sst":
			for _, attr := range se.Attr {
				if attr.Name.Local == "uniqueCount" {
					if n, convErr := strconv.Atoi(attr.Value); convErr == nil {
						t.totalCount = n
					}
				}
			}
		case "si":
			s, err := t.decodeSI()
			if err != nil {
				return "", false, err
			}
			return s, true, nil
		}
	}
}

// decodeSI decodes a single <si> element's content, concatenating the
// plain text of every <t> (direct or nested under <r> rich-text runs).
func (t *Table) decodeSI() (string, error) {
	var sb strings.Builder
	depth := 1
	inT := false
	for depth > 0 {
		tok, err := t.dec.Token()
		if err != nil {
			return "", sheeterr.Wrap(sheeterr.KindXMLMalformed, "sharedStrings.xml si element", err)
		}
		switch v := tok.(type) {
		case xml.StartElement:
			if v.Name.Local == "si" {
				depth++
			}
			if v.Name.Local == "t" {
				inT = true
			}
		case xml.EndElement:
			if v.Name.Local == "t" {
				inT = false
			}
			if v.Name.Local == "si" {
				depth--
			}
		case xml.CharData:
			if inT {
				sb.Write(v)
			}
		}
	}
	return sb.String(), nil
}
