package rowsource

import "testing"

func TestJSONLSourcePositionalArray(t *testing.T) {
	path := writeTemp(t, "rows.jsonl", `[1,"a",true]`+"\n"+`[2,"b",false]`+"\n")
	src, err := OpenJSONL(path, Window{})
	if err != nil {
		t.Fatalf("OpenJSONL: %v", err)
	}
	defer src.Close()

	row1, err := src.NextRow()
	if err != nil {
		t.Fatalf("NextRow: %v", err)
	}
	if len(row1.Cells) != 3 {
		t.Fatalf("len(Cells) = %d, want 3", len(row1.Cells))
	}
	if n, ok := row1.Cells[0].Int(); !ok || n != 1 {
		t.Errorf("Cells[0] = %v, %v, want 1", n, ok)
	}
	if s, ok := row1.Cells[1].String(); !ok || s != "a" {
		t.Errorf("Cells[1] = %v, %v, want a", s, ok)
	}
	if b, ok := row1.Cells[2].Bool(); !ok || !b {
		t.Errorf("Cells[2] = %v, %v, want true", b, ok)
	}
	if src.LastNames() != nil {
		t.Errorf("LastNames() = %v, want nil for positional row", src.LastNames())
	}
}

func TestJSONLSourceNamedObject(t *testing.T) {
	path := writeTemp(t, "rows.jsonl", `{"id":1,"name":"alice"}`+"\n")
	src, err := OpenJSONL(path, Window{})
	if err != nil {
		t.Fatalf("OpenJSONL: %v", err)
	}
	defer src.Close()

	row, err := src.NextRow()
	if err != nil {
		t.Fatalf("NextRow: %v", err)
	}
	names := src.LastNames()
	if len(names) != 2 || names[0] != "id" || names[1] != "name" {
		t.Fatalf("LastNames() = %v", names)
	}
	if n, ok := row.Cells[0].Int(); !ok || n != 1 {
		t.Errorf("Cells[0] = %v, %v, want 1", n, ok)
	}
	if s, ok := row.Cells[1].String(); !ok || s != "alice" {
		t.Errorf("Cells[1] = %v, %v, want alice", s, ok)
	}
}

func TestJSONLSourceSkipsBlankLines(t *testing.T) {
	path := writeTemp(t, "rows.jsonl", "[1]\n\n[2]\n")
	src, err := OpenJSONL(path, Window{})
	if err != nil {
		t.Fatalf("OpenJSONL: %v", err)
	}
	defer src.Close()

	var rows []int64
	for {
		row, err := src.NextRow()
		if err == EOS {
			break
		}
		if err != nil {
			t.Fatalf("NextRow: %v", err)
		}
		n, _ := row.Cells[0].Int()
		rows = append(rows, n)
	}
	if len(rows) != 2 || rows[0] != 1 || rows[1] != 2 {
		t.Fatalf("rows = %v, want [1 2]", rows)
	}
}

func TestJSONLSourceNestedValueAsString(t *testing.T) {
	path := writeTemp(t, "rows.jsonl", `{"id":1,"tags":["x","y"]}`+"\n")
	src, err := OpenJSONL(path, Window{})
	if err != nil {
		t.Fatalf("OpenJSONL: %v", err)
	}
	defer src.Close()

	row, err := src.NextRow()
	if err != nil {
		t.Fatalf("NextRow: %v", err)
	}
	s, ok := row.Cells[1].String()
	if !ok || s != `["x","y"]` {
		t.Errorf("Cells[1] = %q, %v, want raw nested JSON text", s, ok)
	}
}
