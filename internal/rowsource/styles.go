package rowsource

import (
	"encoding/xml"

	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// cellStyle is what the Row Source needs per style index: enough to decide
// whether a numeric cell should resolve to a date, percentage, or currency.
type cellStyle struct {
	NumFmtID   int
	FormatCode string // empty for a built-in numFmtId
}

// styleTable maps a cellXfs index (the style index referenced by a cell's
// s attribute) to its resolved cellStyle.
type styleTable struct {
	styles    []cellStyle
	epoch1904 bool
}

type xmlStyleSheet struct {
	NumFmts struct {
		NumFmt []struct {
			ID         int    `xml:"numFmtId,attr"`
			FormatCode string `xml:"formatCode,attr"`
		} `xml:"numFmt"`
	} `xml:"numFmts"`
	CellXfs struct {
		Xf []struct {
			NumFmtID int `xml:"numFmtId,attr"`
		} `xml:"xf"`
	} `xml:"cellXfs"`
}

// parseStyles parses xl/styles.xml. A missing or malformed styles part is
// tolerated: the Row Source degrades to treating all numeric cells as
// plain numbers rather than failing the whole read.
func parseStyles(data []byte, epoch1904 bool) *styleTable {
	var xs xmlStyleSheet
	if err := xml.Unmarshal(data, &xs); err != nil {
		return &styleTable{epoch1904: epoch1904}
	}

	customFormats := make(map[int]string, len(xs.NumFmts.NumFmt))
	for _, nf := range xs.NumFmts.NumFmt {
		customFormats[nf.ID] = nf.FormatCode
	}

	styles := make([]cellStyle, 0, len(xs.CellXfs.Xf))
	for _, xf := range xs.CellXfs.Xf {
		styles = append(styles, cellStyle{
			NumFmtID:   xf.NumFmtID,
			FormatCode: customFormats[xf.NumFmtID],
		})
	}
	return &styleTable{styles: styles, epoch1904: epoch1904}
}

// Get returns the style at idx, and the zero-value cellStyle (builtin
// "General") when idx is out of range.
func (st *styleTable) Get(idx int) cellStyle {
	if st == nil || idx < 0 || idx >= len(st.styles) {
		return cellStyle{}
	}
	return st.styles[idx]
}

func (st *styleTable) Epoch1904() bool {
	return st != nil && st.epoch1904
}

// parseWorkbookEpoch inspects xl/workbook.xml's <workbookPr date1904="1"/>
// attribute.
func parseWorkbookEpoch(data []byte) bool {
	var wb struct {
		WorkbookPr struct {
			Date1904 string `xml:"date1904,attr"`
		} `xml:"workbookPr"`
	}
	if err := xml.Unmarshal(data, &wb); err != nil {
		return false
	}
	return wb.WorkbookPr.Date1904 == "1" || wb.WorkbookPr.Date1904 == "true"
}

// xmlWorkbookSheets is the subset of xl/workbook.xml needed to resolve
// sheet names/ids/visibility to relationship ids.
type xmlWorkbookSheets struct {
	Sheets struct {
		Sheet []struct {
			Name    string `xml:"name,attr"`
			SheetID string `xml:"sheetId,attr"`
			State   string `xml:"state,attr"`
			RID     string `xml:"id,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

func parseWorkbookSheets(data []byte) ([]SheetDescriptor, map[string]string, error) {
	var wb xmlWorkbookSheets
	if err := xml.Unmarshal(data, &wb); err != nil {
		return nil, nil, sheeterr.Wrap(sheeterr.KindXMLMalformed, "xl/workbook.xml", err)
	}
	descs := make([]SheetDescriptor, 0, len(wb.Sheets.Sheet))
	ridByName := make(map[string]string, len(wb.Sheets.Sheet))
	firstVisible := -1
	for i, s := range wb.Sheets.Sheet {
		visible := s.State == "" || s.State == "visible"
		if visible && firstVisible == -1 {
			firstVisible = i
		}
		descs = append(descs, SheetDescriptor{
			Name:      s.Name,
			Index:     i,
			LogicalID: s.SheetID,
			Visible:   visible,
		})
		ridByName[s.Name] = s.RID
	}
	if firstVisible >= 0 {
		descs[firstVisible].Active = true
	}
	return descs, ridByName, nil
}
