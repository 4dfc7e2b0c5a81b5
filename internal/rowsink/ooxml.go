package rowsink

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/longkedev/lk-export-excel/internal/cellref"
	"github.com/longkedev/lk-export-excel/internal/cellvalue"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

const ooxmlContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>
<Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>
</Types>`

const ooxmlRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>
</Relationships>`

const ooxmlWorkbook = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets>
<sheet name="Sheet1" sheetId="1" r:id="rId1"/>
</sheets>
</workbook>`

const ooxmlWorkbookRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`

const sheetXMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`

const sheetXMLFooter = `</sheetData></worksheet>`

// OOXMLSink writes a single-sheet workbook, no styles part, inline strings
// only, per the Row Sink's streaming contract. It buffers up to
// Config.BufferRows generated row-XML fragments before flushing them into
// the worksheet zip entry, and stages the whole package at path+".tmp"
// until Finish renames it into place — an abandoned Close never leaves a
// readable file at path.
type OOXMLSink struct {
	path    string
	tmpPath string
	cfg     Config

	tmpFile *os.File
	zw      *zip.Writer
	sheetW  io.Writer

	pending strings.Builder
	bufRows int

	rowNum int
	stats  Stats
	opened bool
}

// OpenOOXML creates a new OOXML row sink writing to path.
func OpenOOXML(path string, cfg Config) (*OOXMLSink, error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, sheeterr.Wrap(sheeterr.KindSinkWrite, path, err)
	}

	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"[Content_Types].xml":        ooxmlContentTypes,
		"_rels/.rels":                ooxmlRootRels,
		"xl/workbook.xml":            ooxmlWorkbook,
		"xl/_rels/workbook.xml.rels": ooxmlWorkbookRels,
	} {
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			f.Close()
			os.Remove(tmpPath)
			return nil, sheeterr.Wrap(sheeterr.KindSinkWrite, name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			zw.Close()
			f.Close()
			os.Remove(tmpPath)
			return nil, sheeterr.Wrap(sheeterr.KindSinkWrite, name, err)
		}
	}

	sheetW, err := zw.Create("xl/worksheets/sheet1.xml")
	if err != nil {
		zw.Close()
		f.Close()
		os.Remove(tmpPath)
		return nil, sheeterr.Wrap(sheeterr.KindSinkWrite, "xl/worksheets/sheet1.xml", err)
	}
	if _, err := sheetW.Write([]byte(sheetXMLHeader)); err != nil {
		zw.Close()
		f.Close()
		os.Remove(tmpPath)
		return nil, sheeterr.Wrap(sheeterr.KindSinkWrite, "sheet1.xml", err)
	}

	return &OOXMLSink{
		path:    path,
		tmpPath: tmpPath,
		cfg:     cfg,
		tmpFile: f,
		zw:      zw,
		sheetW:  sheetW,
		opened:  true,
	}, nil
}

// WriteRow implements Sink.
func (s *OOXMLSink) WriteRow(cells []cellvalue.Value) error {
	if !s.opened {
		return sheeterr.New(sheeterr.KindSinkWrite, "write after close")
	}
	s.rowNum++
	s.pending.WriteString(generateRowXML(s.rowNum, cells))
	s.bufRows++
	s.stats.TotalRows++
	if s.bufRows >= s.cfg.bufferRows() {
		return s.Flush()
	}
	return nil
}

// Flush implements Sink: pushes any buffered row XML into the worksheet
// zip entry's writer.
func (s *OOXMLSink) Flush() error {
	if s.bufRows == 0 {
		return nil
	}
	b := []byte(s.pending.String())
	n, err := s.sheetW.Write(b)
	s.stats.BytesWritten += int64(n)
	if err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, "sheet1.xml", err)
	}
	s.pending.Reset()
	s.bufRows = 0
	return nil
}

// Finish implements Sink: flushes remaining rows, closes the zip, and
// atomically publishes the staged file at s.path.
func (s *OOXMLSink) Finish() error {
	if !s.opened {
		return nil
	}
	if err := s.Flush(); err != nil {
		return err
	}
	if _, err := s.sheetW.Write([]byte(sheetXMLFooter)); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, "sheet1.xml", err)
	}
	if err := s.zw.Close(); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	if err := s.tmpFile.Close(); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	if err := os.Rename(s.tmpPath, s.path); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, s.path, err)
	}
	s.opened = false
	return nil
}

// Close implements Sink. If Finish already ran, Close is a no-op. If not,
// the staged temp file is discarded — the destination path never observes
// a partial write.
func (s *OOXMLSink) Close() error {
	if !s.opened {
		return nil
	}
	s.opened = false
	s.zw.Close()
	s.tmpFile.Close()
	return os.Remove(s.tmpPath)
}

// Stats implements Sink.
func (s *OOXMLSink) Stats() Stats { return s.stats }

// generateRowXML renders one <row> element, switching on each cell's Kind
// the way the worksheet XML schema requires: inline strings carry a
// <is><t> child, booleans use t="b", everything else is plain numeric text
// (dates and currency/percentage render as their numeric/display form
// since this sink writes no styles part to carry a number format).
func generateRowXML(rowNum int, cells []cellvalue.Value) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<row r="%d">`, rowNum)
	for i, cell := range cells {
		addr := cellref.FormatCellAddress(i+1, rowNum)
		switch cell.Kind() {
		case cellvalue.KindNull:
			// omitted entirely; on read back an interior gap materializes
			// as null and a trailing one is absent
		case cellvalue.KindBool:
			v, _ := cell.Bool()
			n := "0"
			if v {
				n = "1"
			}
			fmt.Fprintf(&b, `<c r="%s" t="b"><v>%s</v></c>`, addr, n)
		case cellvalue.KindInt:
			n, _ := cell.Int()
			fmt.Fprintf(&b, `<c r="%s"><v>%d</v></c>`, addr, n)
		case cellvalue.KindFloat:
			f, _ := cell.Float()
			fmt.Fprintf(&b, `<c r="%s"><v>%s</v></c>`, addr, strconv.FormatFloat(f, 'g', -1, 64))
		default:
			fmt.Fprintf(&b, `<c r="%s" t="inlineStr"><is><t xml:space="preserve">%s</t></is></c>`, addr, escapeXML(cell.Display()))
		}
	}
	b.WriteString(`</row>`)
	return b.String()
}

func escapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
