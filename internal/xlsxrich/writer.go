package xlsxrich

import (
	"github.com/xuri/excelize/v2"

	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// Writer wraps excelize.File to provide styles, formulas, merges, images,
// and sheet protection on top of a fully in-memory workbook, for the
// minority of callers who need source-level compatibility rather than
// streaming writes.
type Writer struct {
	f           *excelize.File
	activeSheet string
}

// New creates an empty workbook with a single default sheet.
func New() *Writer {
	f := excelize.NewFile()
	return &Writer{f: f, activeSheet: f.GetSheetName(0)}
}

// OpenWriter loads an existing workbook fully into memory for in-place
// mutation (appends, new cells, styles) via SaveAs back to the same path.
func OpenWriter(path string) (*Writer, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, sheeterr.Wrap(sheeterr.KindFileUnreadable, path, err)
	}
	return &Writer{f: f, activeSheet: f.GetSheetName(f.GetActiveSheetIndex())}, nil
}

// SetActiveSheet creates sheet if absent and records its name as the
// writer's active sheet. Every write method still takes its sheet
// explicitly, and the workbook's own active-sheet setting is not changed.
func (w *Writer) SetActiveSheet(sheet string) error {
	if idx, _ := w.f.GetSheetIndex(sheet); idx == -1 {
		if _, err := w.f.NewSheet(sheet); err != nil {
			return sheeterr.Wrap(sheeterr.KindSinkWrite, sheet, err)
		}
	}
	w.activeSheet = sheet
	return nil
}

// SetCellValue writes a literal value to addr on sheet.
func (w *Writer) SetCellValue(sheet, addr string, value any) error {
	if err := w.f.SetCellValue(sheet, addr, value); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, addr, err)
	}
	return nil
}

// SetCellFormula writes a formula to addr on sheet.
func (w *Writer) SetCellFormula(sheet, addr, formula string) error {
	if err := w.f.SetCellFormula(sheet, addr, formula); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, addr, err)
	}
	return nil
}

// Style is the subset of excelize.Style this wrapper exposes directly;
// callers who need the full style surface can reach the underlying
// *excelize.File via Raw.
type Style struct {
	Bold         bool
	Italic       bool
	NumberFormat string
	FillColor    string
}

// SetCellStyle creates (or reuses) a style and applies it to a range.
func (w *Writer) SetCellStyle(sheet, startAddr, endAddr string, style Style) error {
	sx := &excelize.Style{
		Font: &excelize.Font{Bold: style.Bold, Italic: style.Italic},
	}
	if style.NumberFormat != "" {
		sx.CustomNumFmt = &style.NumberFormat
	}
	if style.FillColor != "" {
		sx.Fill = excelize.Fill{Type: "pattern", Color: []string{style.FillColor}, Pattern: 1}
	}
	id, err := w.f.NewStyle(sx)
	if err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, sheet, err)
	}
	if err := w.f.SetCellStyle(sheet, startAddr, endAddr, id); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, sheet, err)
	}
	return nil
}

// Merge merges the rectangular range startAddr:endAddr on sheet.
func (w *Writer) Merge(sheet, startAddr, endAddr string) error {
	if err := w.f.MergeCell(sheet, startAddr, endAddr); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, sheet, err)
	}
	return nil
}

// AddImage embeds the image at imagePath anchored at addr on sheet.
func (w *Writer) AddImage(sheet, addr, imagePath string) error {
	if err := w.f.AddPicture(sheet, addr, imagePath, nil); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, imagePath, err)
	}
	return nil
}

// AddChart adds a chart of the given type anchored at addr, covering the
// data range dataRange (e.g. "Sheet1!$A$1:$B$5").
func (w *Writer) AddChart(sheet, addr string, chartType excelize.ChartType, dataRange, seriesName string) error {
	chart := &excelize.Chart{
		Type:   chartType,
		Series: []excelize.ChartSeries{{Name: seriesName, Values: dataRange}},
	}
	if err := w.f.AddChart(sheet, addr, chart); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, sheet, err)
	}
	return nil
}

// Protect applies sheet protection with password.
func (w *Writer) Protect(sheet, password string) error {
	if err := w.f.ProtectSheet(sheet, &excelize.SheetProtectionOptions{Password: password}); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, sheet, err)
	}
	return nil
}

// Raw exposes the underlying excelize.File for APIs this wrapper doesn't
// cover directly.
func (w *Writer) Raw() *excelize.File { return w.f }

// SaveAs writes the workbook to path.
func (w *Writer) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return sheeterr.Wrap(sheeterr.KindSinkWrite, path, err)
	}
	return nil
}

// Close releases resources held by the underlying workbook.
func (w *Writer) Close() error {
	return w.f.Close()
}
