// Package xlsxrich wraps github.com/xuri/excelize/v2 to provide the
// style, formula, merge, image, and protection surface the streaming
// engine deliberately omits. Callers who need that surface trade
// streaming memory bounds for excelize's in-memory document model;
// everything here fully materializes the workbook.
package xlsxrich

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// Reader wraps an open excelize.File for random-access reads: arbitrary
// cell lookups, style inspection, merged-cell ranges, and defined names —
// none of which the streaming Row Source exposes.
type Reader struct {
	f *excelize.File
}

// Open loads path fully into memory via excelize.
func Open(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, sheeterr.Wrap(sheeterr.KindFileUnreadable, path, err)
	}
	return &Reader{f: f}, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// Sheets lists every sheet name in workbook order.
func (r *Reader) Sheets() []string {
	return r.f.GetSheetList()
}

func (r *Reader) resolveSheet(sheet string) (string, error) {
	for _, s := range r.f.GetSheetList() {
		if strings.EqualFold(s, sheet) {
			return s, nil
		}
	}
	return "", sheeterr.Wrapf(sheeterr.ErrSheetNotFound, "%s", sheet)
}

// CellValue returns a single cell's display string.
func (r *Reader) CellValue(sheet, addr string) (string, error) {
	sheet, err := r.resolveSheet(sheet)
	if err != nil {
		return "", err
	}
	v, err := r.f.GetCellValue(sheet, addr)
	if err != nil {
		return "", sheeterr.Wrap(sheeterr.KindInvalidAddress, addr, err)
	}
	return v, nil
}

// CellFormula returns the formula stored at addr, or "" if the cell holds
// a literal value.
func (r *Reader) CellFormula(sheet, addr string) (string, error) {
	sheet, err := r.resolveSheet(sheet)
	if err != nil {
		return "", err
	}
	formula, err := r.f.GetCellFormula(sheet, addr)
	if err != nil {
		return "", sheeterr.Wrap(sheeterr.KindInvalidAddress, addr, err)
	}
	return formula, nil
}

// MergedCells returns the merged ranges on sheet.
func (r *Reader) MergedCells(sheet string) ([]string, error) {
	sheet, err := r.resolveSheet(sheet)
	if err != nil {
		return nil, err
	}
	ranges, err := r.f.GetMergeCells(sheet)
	if err != nil {
		return nil, sheeterr.Wrap(sheeterr.KindXMLMalformed, sheet, err)
	}
	out := make([]string, len(ranges))
	for i, m := range ranges {
		out[i] = fmt.Sprintf("%s:%s", m.GetStartAxis(), m.GetEndAxis())
	}
	return out, nil
}

// DefinedNames returns the workbook's named ranges.
func (r *Reader) DefinedNames() []string {
	var names []string
	for _, dn := range r.f.GetDefinedName() {
		names = append(names, dn.Name)
	}
	return names
}

// SheetVisible reports whether sheet is shown in the workbook's sheet tabs.
func (r *Reader) SheetVisible(sheet string) (bool, error) {
	sheet, err := r.resolveSheet(sheet)
	if err != nil {
		return false, err
	}
	visible, err := r.f.GetSheetVisible(sheet)
	if err != nil {
		return false, sheeterr.Wrap(sheeterr.KindCorruptContainer, sheet, err)
	}
	return visible, nil
}

// ActiveSheetName returns the name of the workbook's active sheet.
func (r *Reader) ActiveSheetName() string {
	idx := r.f.GetActiveSheetIndex()
	return r.f.GetSheetName(idx)
}

// Dimensions fully materializes sheet via excelize and reports its row and
// (widest-row) column counts. Callers who only need counts on a large sheet
// should prefer the streaming Row Source instead.
func (r *Reader) Dimensions(sheet string) (rows, cols int, err error) {
	sheet, err = r.resolveSheet(sheet)
	if err != nil {
		return 0, 0, err
	}
	allRows, err := r.f.GetRows(sheet)
	if err != nil {
		return 0, 0, sheeterr.Wrap(sheeterr.KindCorruptContainer, sheet, err)
	}
	for _, row := range allRows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return len(allRows), cols, nil
}
