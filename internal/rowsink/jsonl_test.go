package rowsink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
)

func TestJSONLSinkWritesOneArrayPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	sink, err := OpenJSONL(path)
	if err != nil {
		t.Fatalf("OpenJSONL: %v", err)
	}
	if err := sink.WriteRow([]cellvalue.Value{cellvalue.Int(1), cellvalue.String("a"), cellvalue.Bool(true)}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := sink.WriteRow([]cellvalue.Value{cellvalue.Null(), cellvalue.Float(1.5)}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := sink.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0] != `[1,"a",true]` {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if lines[1] != `[null,1.5]` {
		t.Errorf("lines[1] = %q", lines[1])
	}
}

func TestJSONLSinkAbandonedCloseRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	sink, err := OpenJSONL(path)
	if err != nil {
		t.Fatalf("OpenJSONL: %v", err)
	}
	sink.WriteRow([]cellvalue.Value{cellvalue.String("x")})
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("destination exists after abandoned Close")
	}
}
