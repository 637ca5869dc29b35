package blockfile

import (
	"context"
	"testing"

	"github.com/vaultblock/storage/pkg/bitset"
	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
	"github.com/vaultblock/storage/pkg/fsops"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	dir := t.TempDir()
	ops := fsops.New()
	c, err := New(ops, Config{Prefix: dir + "/T", BlockSize: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func encodeInt32(v int32) blk.Block {
	buf := make([]byte, 4)
	bitset.PutInt32BE(buf, v)
	return blk.Wrap(buf)
}

func TestBasicInsertSequence(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t)

	wantIds := []int64{0, 4, 8, 12, 16, 20, 24, 28, 32, 36}
	for i, want := range wantIds {
		id, err := c.Reserve(ctx, nil)
		if err != nil {
			t.Fatalf("Reserve[%d]: %v", i, err)
		}
		if int64(id) != want {
			t.Fatalf("Reserve[%d] = %d, want %d", i, id, want)
		}
		if err := c.Update(ctx, id, encodeInt32(int32(i)), true); err != nil {
			t.Fatalf("Update[%d]: %v", i, err)
		}
	}

	size, err := c.Size(ctx)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 10 {
		t.Fatalf("Size = %d, want 10", size)
	}

	b, err := c.Get(ctx, blk.Id(16), true)
	if err != nil {
		t.Fatalf("Get(16): %v", err)
	}
	if got := bitset.Int32BE(b.Bytes()); got != 4 {
		t.Fatalf("Get(16) decoded to %d, want 4", got)
	}
}

func TestHoleReuse(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t)

	var ids []blk.Id
	for i := 0; i < 10; i++ {
		id, err := c.Reserve(ctx, nil)
		if err != nil {
			t.Fatalf("Reserve: %v", err)
		}
		if err := c.Update(ctx, id, encodeInt32(int32(i)), true); err != nil {
			t.Fatalf("Update: %v", err)
		}
		ids = append(ids, id)
	}

	if err := c.Remove(ctx, blk.Id(8)); err != nil {
		t.Fatalf("Remove(8): %v", err)
	}

	reused, err := c.Reserve(ctx, nil)
	if err != nil {
		t.Fatalf("Reserve after remove: %v", err)
	}
	if reused != blk.Id(8) {
		t.Fatalf("Reserve after hole removal = %d, want 8", reused)
	}

	payload := blk.Wrap([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	if err := c.Update(ctx, reused, payload, true); err != nil {
		t.Fatalf("Update(8): %v", err)
	}
	got, err := c.Get(ctx, reused, true)
	if err != nil {
		t.Fatalf("Get(8): %v", err)
	}
	want := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	if string(got.Bytes()) != string(want) {
		t.Fatalf("Get(8) = %v, want %v", got.Bytes(), want)
	}
	_ = ids
}

func TestTailCompaction(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t)

	for i := 0; i < 10; i++ {
		id, err := c.Reserve(ctx, nil)
		if err != nil {
			t.Fatalf("Reserve: %v", err)
		}
		if err := c.Update(ctx, id, encodeInt32(int32(i)), true); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	if err := c.Remove(ctx, blk.Id(36)); err != nil {
		t.Fatalf("Remove(36): %v", err)
	}

	ctrLen, err := c.ctr.Length()
	if err != nil {
		t.Fatalf("ctr.Length: %v", err)
	}
	if ctrLen != 36 {
		t.Fatalf("ctr length = %d, want 36", ctrLen)
	}

	it, err := c.Ids(ctx)
	if err != nil {
		t.Fatalf("Ids: %v", err)
	}
	var got []int64
	for {
		id, ok, err := it.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, int64(id))
	}
	want := []int64{0, 4, 8, 12, 16, 20, 24, 28, 32}
	if len(got) != len(want) {
		t.Fatalf("Ids() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Ids()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRemoveNotFound(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t)

	err := c.Remove(ctx, blk.Id(0))
	if err == nil {
		t.Fatal("Remove of unreserved id should fail")
	}
	if !container.IsStorageErr(err) {
		// ErrNotFound is returned directly, not wrapped.
		if err != container.ErrNotFound {
			t.Fatalf("Remove error = %v, want ErrNotFound", err)
		}
	}
}

func TestReopenAfterClose(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ops := fsops.New()

	c, err := New(ops, Config{Prefix: dir + "/T", BlockSize: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id, err := c.Reserve(ctx, nil)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := c.Update(ctx, id, encodeInt32(42), true); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// BlockFileContainer reopens implicitly on next use.
	got, err := c.Get(ctx, id, true)
	if err != nil {
		t.Fatalf("Get after close: %v", err)
	}
	if v := bitset.Int32BE(got.Bytes()); v != 42 {
		t.Fatalf("Get after reopen = %d, want 42", v)
	}
}
