package sharedstrings

import (
	"errors"
	"strings"
	"testing"

	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

const sampleSST = `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="4" uniqueCount="4">
<si><t>alpha</t></si>
<si><r><t>be</t></r><r><t>ta</t></r></si>
<si><t xml:space="preserve"> gamma </t></si>
<si><t>delta</t></si>
</sst>`

func TestTableGetSequential(t *testing.T) {
	table := New(strings.NewReader(sampleSST), 10)
	defer table.Close()

	want := []string{"alpha", "beta", " gamma ", "delta"}
	for i, w := range want {
		got, err := table.Get(i)
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if got != w {
			t.Errorf("Get(%d) = %q, want %q", i, got, w)
		}
	}
	if table.TotalCount() != 4 {
		t.Fatalf("TotalCount = %d, want 4", table.TotalCount())
	}
}

func TestTableGetOutOfRange(t *testing.T) {
	table := New(strings.NewReader(sampleSST), 10)
	defer table.Close()

	if _, err := table.Get(0); err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	if _, err := table.Get(99); !errors.Is(err, sheeterr.ErrSharedStringMissing) {
		t.Fatalf("Get(99) error = %v, want ErrSharedStringMissing", err)
	}
}

func TestTableEvictsBehindCursor(t *testing.T) {
	table := New(strings.NewReader(sampleSST), 2)
	defer table.Close()

	for i := 0; i < 4; i++ {
		if _, err := table.Get(i); err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
	}
	if table.lru.Len() > 2 {
		t.Fatalf("lru.Len() = %d, want <= 2", table.lru.Len())
	}

	// Index 0 should have been evicted long before index 3 was loaded.
	if _, err := table.Get(0); !errors.Is(err, sheeterr.ErrSharedStringMissing) {
		t.Fatalf("Get(0) after eviction error = %v, want ErrSharedStringMissing", err)
	}
}

func TestTableRepeatedGetHitsCache(t *testing.T) {
	table := New(strings.NewReader(sampleSST), 10)
	defer table.Close()

	first, err := table.Get(2)
	if err != nil {
		t.Fatalf("Get(2): %v", err)
	}
	second, err := table.Get(2)
	if err != nil {
		t.Fatalf("Get(2) again: %v", err)
	}
	if first != second {
		t.Fatalf("repeated Get(2) mismatch: %q vs %q", first, second)
	}
}
