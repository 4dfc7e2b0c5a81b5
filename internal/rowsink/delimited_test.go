package rowsink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
)

func TestDelimitedSinkWritesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	sink, err := OpenDelimited(path)
	if err != nil {
		t.Fatalf("OpenDelimited: %v", err)
	}
	rows := [][]cellvalue.Value{
		{cellvalue.String("a"), cellvalue.String("b")},
		{cellvalue.Int(1), cellvalue.String("has,comma")},
	}
	for _, r := range rows {
		if err := sink.WriteRow(r); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}
	if err := sink.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "a,b\n1,\"has,comma\"\n"
	if string(data) != want {
		t.Errorf("content = %q, want %q", data, want)
	}
	if sink.Stats().TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", sink.Stats().TotalRows)
	}
}

func TestDelimitedSinkAbandonedCloseRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	sink, err := OpenDelimited(path)
	if err != nil {
		t.Fatalf("OpenDelimited: %v", err)
	}
	sink.WriteRow([]cellvalue.Value{cellvalue.String("x")})
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("destination exists after abandoned Close")
	}
}
