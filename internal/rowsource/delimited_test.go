package rowsource

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDelimitedSourceCommaDetection(t *testing.T) {
	path := writeTemp(t, "data.csv", "a,b,c\n1,2,3\n4,5,6\n")
	src, err := OpenDelimited(path, Window{})
	if err != nil {
		t.Fatalf("OpenDelimited: %v", err)
	}
	defer src.Close()

	row1, err := src.NextRow()
	if err != nil {
		t.Fatalf("NextRow: %v", err)
	}
	if len(row1.Cells) != 3 {
		t.Fatalf("len(row1.Cells) = %d, want 3", len(row1.Cells))
	}
	if s, _ := row1.Cells[0].String(); s != "a" {
		t.Errorf("row1.Cells[0] = %q, want a", s)
	}
}

func TestDelimitedSourceSemicolonDetection(t *testing.T) {
	path := writeTemp(t, "data.csv", "a;b;c\n1;2;3\n")
	src, err := OpenDelimited(path, Window{})
	if err != nil {
		t.Fatalf("OpenDelimited: %v", err)
	}
	defer src.Close()

	row, err := src.NextRow()
	if err != nil {
		t.Fatalf("NextRow: %v", err)
	}
	if len(row.Cells) != 3 {
		t.Fatalf("len(row.Cells) = %d, want 3", len(row.Cells))
	}
}

func TestDelimitedSourceTabDetection(t *testing.T) {
	path := writeTemp(t, "data.tsv", "a\tb\tc\n1\t2\t3\n")
	src, err := OpenDelimited(path, Window{})
	if err != nil {
		t.Fatalf("OpenDelimited: %v", err)
	}
	defer src.Close()

	row, err := src.NextRow()
	if err != nil {
		t.Fatalf("NextRow: %v", err)
	}
	if len(row.Cells) != 3 {
		t.Fatalf("len(row.Cells) = %d, want 3", len(row.Cells))
	}
}

func TestDelimitedSourceBOM(t *testing.T) {
	content := string([]byte{0xEF, 0xBB, 0xBF}) + "a,b\n1,2\n"
	path := writeTemp(t, "data.csv", content)
	src, err := OpenDelimited(path, Window{})
	if err != nil {
		t.Fatalf("OpenDelimited: %v", err)
	}
	defer src.Close()

	row, err := src.NextRow()
	if err != nil {
		t.Fatalf("NextRow: %v", err)
	}
	if s, _ := row.Cells[0].String(); s != "a" {
		t.Errorf("first cell = %q, want a (BOM should not leak into value)", s)
	}
}

func TestDelimitedSourceWindow(t *testing.T) {
	path := writeTemp(t, "data.csv", "1\n2\n3\n4\n5\n")
	src, err := OpenDelimited(path, Window{MinRow: 2, MaxRow: 3})
	if err != nil {
		t.Fatalf("OpenDelimited: %v", err)
	}
	defer src.Close()

	var got []int
	for {
		row, err := src.NextRow()
		if err == EOS {
			break
		}
		if err != nil {
			t.Fatalf("NextRow: %v", err)
		}
		got = append(got, row.Number)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("got rows %v, want [2 3]", got)
	}
}

func TestDelimitedSourceEndOfStream(t *testing.T) {
	path := writeTemp(t, "data.csv", "a,b\n")
	src, err := OpenDelimited(path, Window{})
	if err != nil {
		t.Fatalf("OpenDelimited: %v", err)
	}
	defer src.Close()

	if _, err := src.NextRow(); err != nil {
		t.Fatalf("NextRow: %v", err)
	}
	if _, err := src.NextRow(); err != EOS {
		t.Fatalf("NextRow = %v, want EOS", err)
	}
}
