package rowsource

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/longkedev/lk-export-excel/internal/cellref"
	"github.com/longkedev/lk-export-excel/internal/cellvalue"
	"github.com/longkedev/lk-export-excel/internal/numformat"
	"github.com/longkedev/lk-export-excel/internal/sharedstrings"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
	"github.com/longkedev/lk-export-excel/internal/stats"
)

// parserState is the row-yielding pull-parser's state, matching the
// component design's state machine.
type parserState int

const (
	stateSeekSheetData parserState = iota
	stateInSheetData
	stateInRow
	stateInCell
	stateInValue
	stateInInlineString
	stateInFormula
	stateDone
)

// OOXMLSource is the Source implementation for an xlsx container.
type OOXMLSource struct {
	zr   *zip.ReadCloser
	path string

	sheets       []SheetDescriptor
	ridByName    map[string]string
	workbookRels map[string]string
	epoch1904    bool

	selected *SheetDescriptor
	styles   *styleTable
	sst      *sharedstrings.Table

	sheetCloser io.ReadCloser
	dec         *xml.Decoder
	state       parserState

	window Window
	stats  *stats.Stats

	currentRowAttr int // the r="" value of the row currently being built
	cells          []cellvalue.Value
	maxColSeen     int

	cellAddr    string
	cellType    string
	cellStyle   int
	cellText    strings.Builder
	formulaText strings.Builder
	inInlineT   bool

	done bool
}

// OpenOOXML opens path as an xlsx container and parses its workbook
// metadata (sheet list, relationships, date epoch). The sheet part itself
// is opened lazily on Select.
func OpenOOXML(path string, window Window, st *stats.Stats) (*OOXMLSource, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, sheeterr.Wrap(sheeterr.KindCorruptContainer, path, err)
	}
	src := &OOXMLSource{zr: zr, path: path, window: window, stats: st}

	wbData, err := readZipMember(zr, "xl/workbook.xml")
	if err != nil {
		zr.Close()
		return nil, sheeterr.Wrap(sheeterr.KindCorruptContainer, "xl/workbook.xml missing", err)
	}
	descs, ridByName, err := parseWorkbookSheets(wbData)
	if err != nil {
		zr.Close()
		return nil, err
	}
	src.sheets = descs
	src.ridByName = ridByName
	src.epoch1904 = parseWorkbookEpoch(wbData)

	if relsData, err := readZipMember(zr, "xl/_rels/workbook.xml.rels"); err == nil {
		rels, rerr := parseRels(relsData)
		if rerr != nil {
			zr.Close()
			return nil, rerr
		}
		src.workbookRels = rels
	} else {
		src.workbookRels = map[string]string{}
	}

	for i, d := range descs {
		rid := ridByName[d.Name]
		if target, ok := src.workbookRels[rid]; ok {
			src.sheets[i].StorageTarget = resolveWorkbookRelTarget(target)
		}
	}

	if stylesData, err := readZipMember(zr, "xl/styles.xml"); err == nil {
		src.styles = parseStyles(stylesData, src.epoch1904)
	} else {
		src.styles = parseStyles(nil, src.epoch1904)
	}

	return src, nil
}

func resolveWorkbookRelTarget(target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return "xl/" + target
}

func readZipMember(zr *zip.ReadCloser, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, sheeterr.Wrapf(sheeterr.ErrCorruptContainer, "%s not found", name)
}

func openZipMember(zr *zip.ReadCloser, name string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, sheeterr.Wrapf(sheeterr.ErrCorruptContainer, "%s not found", name)
}

// Sheets implements Source.
func (s *OOXMLSource) Sheets() ([]SheetDescriptor, error) {
	return s.sheets, nil
}

// Select implements Source. sheet may be a sheet name or a 0-based index
// encoded as a decimal string.
func (s *OOXMLSource) Select(sheet string) error {
	var target *SheetDescriptor
	if idx, err := strconv.Atoi(sheet); err == nil {
		for i := range s.sheets {
			if s.sheets[i].Index == idx {
				target = &s.sheets[i]
				break
			}
		}
	}
	if target == nil {
		for i := range s.sheets {
			if s.sheets[i].Name == sheet {
				target = &s.sheets[i]
				break
			}
		}
	}
	if target == nil {
		return sheeterr.Wrapf(sheeterr.ErrSheetNotFound, "%s", sheet)
	}
	s.selected = target
	return s.openSheetPart()
}

// selectDefault picks the first visible sheet, used when NextRow is called
// without an explicit Select.
func (s *OOXMLSource) selectDefault() error {
	for i := range s.sheets {
		if s.sheets[i].Visible {
			s.selected = &s.sheets[i]
			return s.openSheetPart()
		}
	}
	if len(s.sheets) == 0 {
		return sheeterr.New(sheeterr.KindSheetNotFound, "workbook has no sheets")
	}
	s.selected = &s.sheets[0]
	return s.openSheetPart()
}

func (s *OOXMLSource) openSheetPart() error {
	if s.selected.StorageTarget == "" {
		return sheeterr.Wrapf(sheeterr.ErrSheetNotFound, "no storage target for %s", s.selected.Name)
	}
	rc, err := openZipMember(s.zr, s.selected.StorageTarget)
	if err != nil {
		return err
	}
	s.sheetCloser = rc
	s.dec = xml.NewDecoder(rc)
	s.state = stateSeekSheetData

	if sstData, sstErr := openZipMember(s.zr, "xl/sharedStrings.xml"); sstErr == nil {
		s.sst = sharedstrings.New(sstData, sharedstrings.DefaultCapacity)
	}
	return nil
}

// NextRow implements Source.
func (s *OOXMLSource) NextRow() (Row, error) {
	if s.done {
		return Row{}, EOS
	}
	if s.selected == nil {
		if err := s.selectDefault(); err != nil {
			return Row{}, err
		}
	}

	for {
		tok, err := s.dec.Token()
		if err == io.EOF {
			s.done = true
			return Row{}, EOS
		}
		if err != nil {
			return Row{}, sheeterr.Wrap(sheeterr.KindXMLMalformed, s.selected.StorageTarget, err)
		}

		switch s.state {
		case stateSeekSheetData:
			if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "sheetData" {
				s.state = stateInSheetData
			}

		case stateInSheetData:
			switch v := tok.(type) {
			case xml.StartElement:
				if v.Name.Local == "row" {
					rowNum := attrInt(v.Attr, "r", 0)
					if s.window.pastRowSpan(rowNum) {
						s.done = true
						return Row{}, EOS
					}
					if rowNum != 0 && rowNum < s.window.effectiveMinRow() {
						if err := s.dec.Skip(); err != nil {
							return Row{}, sheeterr.Wrap(sheeterr.KindXMLMalformed, "row", err)
						}
						continue
					}
					s.currentRowAttr = rowNum
					s.cells = s.cells[:0]
					s.maxColSeen = 0
					s.state = stateInRow
				}
			case xml.EndElement:
				if v.Name.Local == "sheetData" {
					s.done = true
					s.state = stateDone
					return Row{}, EOS
				}
			}

		case stateInRow:
			switch v := tok.(type) {
			case xml.StartElement:
				if v.Name.Local == "c" {
					s.cellAddr = attrStr(v.Attr, "r")
					s.cellType = attrStr(v.Attr, "t")
					s.cellStyle = attrInt(v.Attr, "s", 0)
					s.cellText.Reset()
					s.formulaText.Reset()
					s.state = stateInCell
				}
			case xml.EndElement:
				if v.Name.Local == "row" {
					row := Row{Number: s.currentRowAttr, Cells: append([]cellvalue.Value(nil), s.cells...)}
					s.state = stateInSheetData
					return row, nil
				}
			}

		case stateInCell:
			switch v := tok.(type) {
			case xml.StartElement:
				switch v.Name.Local {
				case "v":
					s.state = stateInValue
				case "is":
					s.state = stateInInlineString
				case "f":
					s.state = stateInFormula
				}
			case xml.EndElement:
				if v.Name.Local == "c" {
					if err := s.emitCell(); err != nil {
						return Row{}, err
					}
					s.state = stateInRow
				}
			}

		case stateInValue:
			switch v := tok.(type) {
			case xml.CharData:
				s.cellText.Write(v)
			case xml.EndElement:
				if v.Name.Local == "v" {
					s.state = stateInCell
				}
			}

		case stateInInlineString:
			switch v := tok.(type) {
			case xml.CharData:
				if s.inInlineT {
					s.cellText.Write(v)
				}
			case xml.StartElement:
				if v.Name.Local == "t" {
					s.inInlineT = true
				}
			case xml.EndElement:
				switch v.Name.Local {
				case "t":
					s.inInlineT = false
				case "is":
					s.state = stateInCell
				}
			}

		case stateInFormula:
			switch v := tok.(type) {
			case xml.CharData:
				s.formulaText.Write(v)
			case xml.EndElement:
				if v.Name.Local == "f" {
					s.state = stateInCell
				}
			}
		}
	}
}

func attrStr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrInt(attrs []xml.Attr, name string, def int) int {
	v := attrStr(attrs, name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// emitCell resolves the just-closed <c> element per the cell resolution
// rules and appends it (plus any skipped interior nulls) to s.cells.
func (s *OOXMLSource) emitCell() error {
	col := s.maxColSeen + 1
	if s.cellAddr != "" {
		if c, _, err := cellref.ParseCellAddress(s.cellAddr); err == nil {
			col = c
		}
	}
	for s.maxColSeen+1 < col {
		s.cells = append(s.cells, cellvalue.Null())
		s.maxColSeen++
	}

	value, err := s.resolveCellValue()
	if err != nil {
		return err
	}
	s.cells = append(s.cells, value)
	s.maxColSeen = col
	return nil
}

func (s *OOXMLSource) resolveCellValue() (cellvalue.Value, error) {
	text := s.cellText.String()

	switch s.cellType {
	case "s":
		if s.sst == nil {
			return cellvalue.Value{}, sheeterr.New(sheeterr.KindSharedStringMissing, "workbook has no shared-string table")
		}
		idx, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			if s.stats != nil {
				s.stats.Warn(s.currentRowAttr, s.maxColSeen+1, "invalid shared-string index: "+text)
			}
			return cellvalue.Null(), nil
		}
		str, err := s.sst.Get(idx)
		if err != nil {
			return cellvalue.Value{}, err
		}
		return cellvalue.String(str), nil

	case "inlineStr":
		return cellvalue.String(text), nil

	case "b":
		return cellvalue.Bool(text == "1"), nil

	case "e":
		return cellvalue.ErrorSentinel(text), nil

	case "str":
		return cellvalue.String(text), nil

	case "d":
		t, err := time.Parse(time.RFC3339, text)
		if err != nil {
			if s.stats != nil {
				s.stats.Warn(s.currentRowAttr, s.maxColSeen+1, "invalid ISO-8601 date: "+text)
			}
			return cellvalue.Null(), nil
		}
		return cellvalue.DateTime(t, cellvalue.PrecisionDateTime), nil

	default:
		return s.resolveNumericCell(text)
	}
}

func (s *OOXMLSource) resolveNumericCell(text string) (cellvalue.Value, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return cellvalue.Null(), nil
	}

	style := s.styles.Get(s.cellStyle)

	if numformat.IsDateFormat(style.NumFmtID, style.FormatCode) {
		serial, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			if s.stats != nil {
				s.stats.Warn(s.currentRowAttr, s.maxColSeen+1, "invalid date serial: "+text)
			}
			return cellvalue.Null(), nil
		}
		t, err := numformat.SerialToTime(serial, s.styles.Epoch1904())
		if err != nil {
			if s.stats != nil {
				s.stats.Warn(s.currentRowAttr, s.maxColSeen+1, err.Error())
			}
			return cellvalue.Null(), nil
		}
		return cellvalue.DateTime(t, cellvalue.PrecisionDateTime), nil
	}

	if numformat.IsPercentageFormat(style.FormatCode) {
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return cellvalue.Null(), nil
		}
		return cellvalue.Percentage(f), nil
	}

	if sym := numformat.CurrencySymbol(style.FormatCode); sym != "" {
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return cellvalue.Null(), nil
		}
		return cellvalue.NewCurrency(f, "", sym), nil
	}

	if !strings.ContainsAny(trimmed, ".eE") {
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return cellvalue.Int(n), nil
		}
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		if s.stats != nil {
			s.stats.Warn(s.currentRowAttr, s.maxColSeen+1, "unparseable numeric cell: "+text)
		}
		return cellvalue.Null(), nil
	}
	return cellvalue.Float(f), nil
}

// Close implements Source.
func (s *OOXMLSource) Close() error {
	if s.sheetCloser != nil {
		s.sheetCloser.Close()
		s.sheetCloser = nil
	}
	if s.sst != nil {
		s.sst.Close()
	}
	return s.zr.Close()
}
