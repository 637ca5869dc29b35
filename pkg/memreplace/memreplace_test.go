package memreplace

import (
	"testing"

	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
)

func block(b byte) blk.Block {
	return blk.Wrap([]byte{b})
}

func TestGetMissLoadsAndCaches(t *testing.T) {
	c := NewLRU(4)
	calls := 0
	loader := func() (blk.Block, error) {
		calls++
		return block(1), nil
	}
	v, err := c.Get("o", 1, loader, true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.Bytes()[0] != 1 {
		t.Fatalf("Get = %v", v.Bytes())
	}
	if calls != 1 {
		t.Fatalf("loader calls = %d, want 1", calls)
	}

	if _, err := c.Get("o", 1, loader, true); err != nil {
		t.Fatalf("Get (hit): %v", err)
	}
	if calls != 1 {
		t.Fatalf("loader calls after hit = %d, want still 1", calls)
	}
}

func TestEvictionSkipsFixedEntries(t *testing.T) {
	c := NewLRU(2)
	noFlush := func(blk.Block) error { return nil }

	if err := c.Update("o", 1, block(1), noFlush, false); err != nil { // fixed
		t.Fatalf("Update(1): %v", err)
	}
	if err := c.Update("o", 2, block(2), noFlush, true); err != nil {
		t.Fatalf("Update(2): %v", err)
	}
	// Capacity 2 is already full; inserting a third must evict id 2 (LRU,
	// unfixed) rather than id 1 (fixed).
	if err := c.Update("o", 3, block(3), noFlush, true); err != nil {
		t.Fatalf("Update(3): %v", err)
	}

	if !c.Contains("o", 1) {
		t.Fatal("fixed entry 1 was evicted")
	}
	if c.Contains("o", 2) {
		t.Fatal("entry 2 should have been evicted")
	}
	if !c.Contains("o", 3) {
		t.Fatal("entry 3 should be present")
	}
}

func TestEvictionFlushesDirtyEntry(t *testing.T) {
	c := NewLRU(1)
	var flushed blk.Block
	flushCalls := 0
	flush := func(v blk.Block) error {
		flushed = v
		flushCalls++
		return nil
	}

	if err := c.Update("o", 1, block(9), flush, true); err != nil {
		t.Fatalf("Update(1): %v", err)
	}
	if err := c.Update("o", 2, block(2), nil, true); err != nil {
		t.Fatalf("Update(2): %v", err)
	}

	if flushCalls != 1 {
		t.Fatalf("flush calls = %d, want 1", flushCalls)
	}
	if flushed.Bytes()[0] != 9 {
		t.Fatalf("flushed value = %v, want [9]", flushed.Bytes())
	}
	if c.Contains("o", 1) {
		t.Fatal("entry 1 should have been evicted after flush")
	}
}

func TestUnfixReversesOnePin(t *testing.T) {
	c := NewLRU(4)
	if err := c.Update("o", 1, block(1), nil, false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !c.IsFixed("o", 1) {
		t.Fatal("entry should be fixed")
	}
	if err := c.Unfix("o", 1); err != nil {
		t.Fatalf("Unfix: %v", err)
	}
	if c.IsFixed("o", 1) {
		t.Fatal("entry should no longer be fixed")
	}
	if err := c.Unfix("o", 1); err != container.ErrIllegalState {
		t.Fatalf("second Unfix = %v, want ErrIllegalState", err)
	}
}

func TestFlushRejectsFixedEntry(t *testing.T) {
	c := NewLRU(4)
	if err := c.Update("o", 1, block(1), func(blk.Block) error { return nil }, false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := c.Flush("o", 1); err != container.ErrIllegalState {
		t.Fatalf("Flush of fixed entry = %v, want ErrIllegalState", err)
	}
}

func TestRemoveAllScopesToOwner(t *testing.T) {
	c := NewLRU(8)
	c.Update("a", 1, block(1), nil, true)
	c.Update("b", 1, block(2), nil, true)
	if err := c.RemoveAll("a"); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if c.Contains("a", 1) {
		t.Fatal("owner a entry should be gone")
	}
	if !c.Contains("b", 1) {
		t.Fatal("owner b entry should survive")
	}
}
