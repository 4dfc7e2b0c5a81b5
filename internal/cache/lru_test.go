package cache

import "testing"

func TestLRUGetSet(t *testing.T) {
	c := New(2)
	c.Set(1, "one")
	c.Set(2, "two")

	if v, ok := c.Get(1); !ok || v != "one" {
		t.Fatalf("Get(1) = %q, %v; want one, true", v, ok)
	}
	if _, ok := c.Get(99); ok {
		t.Fatalf("Get(99) should miss")
	}
}

func TestLRUEvictLRUBefore(t *testing.T) {
	c := New(2)
	c.Set(0, "a")
	c.Set(1, "b")
	c.Set(2, "c") // over capacity; tail is 0 (least recently used)

	if !c.OverCapacity() {
		t.Fatalf("expected cache to be over capacity")
	}

	// Current parse position is 2: entries with key < 2 may be evicted.
	if !c.EvictLRUBefore(2) {
		t.Fatalf("expected an eviction")
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(0); ok {
		t.Fatalf("key 0 should have been evicted")
	}
}

func TestLRUEvictLRUBeforeRespectsThreshold(t *testing.T) {
	c := New(1)
	c.Set(5, "five")

	// Nothing below threshold 5 to evict.
	if c.EvictLRUBefore(5) {
		t.Fatalf("should not evict entries >= threshold")
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
}

func TestLRURecencyOrder(t *testing.T) {
	c := New(3)
	c.Set(0, "a")
	c.Set(1, "b")
	c.Set(2, "c")

	// Touch 0 so it becomes most recently used; tail should now be 1.
	c.Get(0)
	c.Set(3, "d") // over capacity

	if !c.EvictLRUBefore(4) {
		t.Fatalf("expected eviction")
	}
	if _, ok := c.Get(1); ok {
		t.Fatalf("key 1 should have been the eviction candidate")
	}
	if _, ok := c.Get(0); !ok {
		t.Fatalf("key 0 should have survived (recently touched)")
	}
}
