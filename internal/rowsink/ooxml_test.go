package rowsink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
	"github.com/longkedev/lk-export-excel/internal/rowsource"
	"github.com/longkedev/lk-export-excel/internal/stats"
)

func TestOOXMLSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	sink, err := OpenOOXML(path, DefaultConfig())
	if err != nil {
		t.Fatalf("OpenOOXML: %v", err)
	}

	rows := [][]cellvalue.Value{
		{cellvalue.String("name"), cellvalue.String("age")},
		{cellvalue.String("ada"), cellvalue.Int(36)},
		{cellvalue.String("alan"), cellvalue.Null()},
	}
	for _, r := range rows {
		if err := sink.WriteRow(r); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}
	if err := sink.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if sink.Stats().TotalRows != 3 {
		t.Errorf("Stats().TotalRows = %d, want 3", sink.Stats().TotalRows)
	}

	src, err := rowsource.OpenOOXML(path, rowsource.Window{}, stats.New())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer src.Close()
	if err := src.Select("Sheet1"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	row1, err := src.NextRow()
	if err != nil {
		t.Fatalf("NextRow(1): %v", err)
	}
	if s, _ := row1.Cells[0].String(); s != "name" {
		t.Errorf("row1.Cells[0] = %q, want name", s)
	}

	row2, err := src.NextRow()
	if err != nil {
		t.Fatalf("NextRow(2): %v", err)
	}
	if n, ok := row2.Cells[1].Int(); !ok || n != 36 {
		t.Errorf("row2.Cells[1] = %v, %v, want 36", n, ok)
	}

	row3, err := src.NextRow()
	if err != nil {
		t.Fatalf("NextRow(3): %v", err)
	}
	if len(row3.Cells) != 1 {
		t.Errorf("len(row3.Cells) = %d, want 1 (trailing null is absent)", len(row3.Cells))
	}
}

func TestOOXMLSinkAbandonedCloseRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	sink, err := OpenOOXML(path, DefaultConfig())
	if err != nil {
		t.Fatalf("OpenOOXML: %v", err)
	}
	if err := sink.WriteRow([]cellvalue.Value{cellvalue.String("x")}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("destination file exists after abandoned Close: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after Close: %v", err)
	}
}

func TestOOXMLSinkBufferFlushesAcrossBoundary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	cfg := Config{BufferRows: 2}
	sink, err := OpenOOXML(path, cfg)
	if err != nil {
		t.Fatalf("OpenOOXML: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := sink.WriteRow([]cellvalue.Value{cellvalue.Int(int64(i))}); err != nil {
			t.Fatalf("WriteRow(%d): %v", i, err)
		}
	}
	if err := sink.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	src, err := rowsource.OpenOOXML(path, rowsource.Window{}, stats.New())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer src.Close()
	src.Select("Sheet1")
	count := 0
	for {
		_, err := src.NextRow()
		if err == rowsource.EOS {
			break
		}
		if err != nil {
			t.Fatalf("NextRow: %v", err)
		}
		count++
	}
	if count != 5 {
		t.Fatalf("count = %d, want 5", count)
	}
}
