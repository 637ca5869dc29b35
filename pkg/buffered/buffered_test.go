package buffered

import (
	"context"
	"testing"

	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/blockfile"
	"github.com/vaultblock/storage/pkg/fsops"
	"github.com/vaultblock/storage/pkg/memreplace"
)

func newWrapped(t *testing.T) *blockfile.Container {
	t.Helper()
	dir := t.TempDir()
	c, err := blockfile.New(fsops.New(), blockfile.Config{Prefix: dir + "/T", BlockSize: 4})
	if err != nil {
		t.Fatalf("blockfile.New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func encodeInt32(v int32) blk.Block {
	buf := make([]byte, 4)
	buf[0], buf[1], buf[2], buf[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	return blk.Wrap(buf)
}

func decodeInt32(b blk.Block) int32 {
	p := b.Bytes()
	return int32(p[0])<<24 | int32(p[1])<<16 | int32(p[2])<<8 | int32(p[3])
}

func TestWriteBackDefersUntilFlush(t *testing.T) {
	ctx := context.Background()
	wrapped := newWrapped(t)
	cache := memreplace.NewLRU(5)
	c, err := New(wrapped, cache, "T", Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	id, err := wrapped.Reserve(ctx, nil)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	// Give the wrapped container a persisted value to be stale against.
	if err := wrapped.Update(ctx, id, encodeInt32(0), true); err != nil {
		t.Fatalf("wrapped.Update: %v", err)
	}
	if err := c.Update(ctx, id, encodeInt32(42), true); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Write-back: the wrapped container must not see the new value yet.
	stale, err := wrapped.Get(ctx, id, true)
	if err != nil {
		t.Fatalf("wrapped.Get: %v", err)
	}
	if decodeInt32(stale) == 42 {
		t.Fatal("write-back Update reached the wrapped container before a flush")
	}

	if err := c.FlushAll(); err != nil {
		t.Fatalf("FlushAll: %v", err)
	}
	got, err := wrapped.Get(ctx, id, true)
	if err != nil {
		t.Fatalf("wrapped.Get after flush: %v", err)
	}
	if decodeInt32(got) != 42 {
		t.Fatalf("wrapped.Get after flush = %d, want 42", decodeInt32(got))
	}
}

func TestCloseFlushesDirtyEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ops := fsops.New()
	wrapped, err := blockfile.New(ops, blockfile.Config{Prefix: dir + "/T", BlockSize: 4})
	if err != nil {
		t.Fatalf("blockfile.New: %v", err)
	}
	cache := memreplace.NewLRU(5)
	c, err := New(wrapped, cache, "T", Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	id, err := wrapped.Reserve(ctx, nil)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := c.Update(ctx, id, encodeInt32(7), true); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := blockfile.New(ops, blockfile.Config{Prefix: dir + "/T", BlockSize: 4})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(ctx, id, true)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if decodeInt32(got) != 7 {
		t.Fatalf("Get after reopen = %d, want 7", decodeInt32(got))
	}
}

func TestWriteThroughAppliesImmediately(t *testing.T) {
	ctx := context.Background()
	wrapped := newWrapped(t)
	cache := memreplace.NewLRU(5)
	c, err := New(wrapped, cache, "T", Config{WriteThrough: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	id, err := wrapped.Reserve(ctx, nil)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := c.Update(ctx, id, encodeInt32(99), true); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := wrapped.Get(ctx, id, true)
	if err != nil {
		t.Fatalf("wrapped.Get: %v", err)
	}
	if decodeInt32(got) != 99 {
		t.Fatalf("write-through Update not visible at wrapped container: got %d", decodeInt32(got))
	}
}

func TestGetCachesAfterFirstMiss(t *testing.T) {
	ctx := context.Background()
	wrapped := newWrapped(t)
	cache := memreplace.NewLRU(5)
	c, err := New(wrapped, cache, "T", Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	id, err := wrapped.Reserve(ctx, nil)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := wrapped.Update(ctx, id, encodeInt32(5), true); err != nil {
		t.Fatalf("wrapped.Update: %v", err)
	}

	if cache.Contains("T", id) {
		t.Fatal("cache should be empty before first Get")
	}
	got, err := c.Get(ctx, id, true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if decodeInt32(got) != 5 {
		t.Fatalf("Get = %d, want 5", decodeInt32(got))
	}
	if !cache.Contains("T", id) {
		t.Fatal("cache should hold the entry after a miss")
	}
}

func TestFixUnfixDiscipline(t *testing.T) {
	ctx := context.Background()
	wrapped := newWrapped(t)
	cache := memreplace.NewLRU(5)
	c, err := New(wrapped, cache, "T", Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	id, err := wrapped.Reserve(ctx, nil)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := c.Update(ctx, id, encodeInt32(1), false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !c.IsFixed(id) {
		t.Fatal("id should be fixed after Update(unfix=false)")
	}
	if err := c.Unfix(id); err != nil {
		t.Fatalf("Unfix: %v", err)
	}
	if c.IsFixed(id) {
		t.Fatal("id should no longer be fixed")
	}
}
