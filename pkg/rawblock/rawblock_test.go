package rawblock

import (
	"context"
	"testing"

	"github.com/vaultblock/storage/pkg/bitset"
	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
	"github.com/vaultblock/storage/pkg/rawdev"
)

func newTestDevice() rawdev.Device {
	return rawdev.NewMemory(64, 64)
}

func encodeInt32(v int32, size int) blk.Block {
	buf := make([]byte, size)
	bitset.PutInt32BE(buf[:4], v)
	return blk.Wrap(buf)
}

func TestReserveGetUpdate(t *testing.T) {
	ctx := context.Background()
	dev := newTestDevice()
	c, err := New(dev, Config{MaxBlocks: 8, MaxFreeListSectors: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	var ids []blk.Id
	for i := 0; i < 4; i++ {
		id, err := c.Reserve(ctx, nil)
		if err != nil {
			t.Fatalf("Reserve[%d]: %v", i, err)
		}
		if err := c.Update(ctx, id, encodeInt32(int32(i), dev.SectorSize()), true); err != nil {
			t.Fatalf("Update[%d]: %v", i, err)
		}
		ids = append(ids, id)
	}

	for i, id := range ids {
		b, err := c.Get(ctx, id, true)
		if err != nil {
			t.Fatalf("Get[%d]: %v", i, err)
		}
		if got := bitset.Int32BE(b.Bytes()[:4]); got != int32(i) {
			t.Fatalf("Get[%d] = %d, want %d", i, got, i)
		}
	}

	size, err := c.Size(ctx)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 4 {
		t.Fatalf("Size = %d, want 4", size)
	}
}

func TestTailRemovalAdjustsLastBlockIdx(t *testing.T) {
	ctx := context.Background()
	dev := newTestDevice()
	c, err := New(dev, Config{MaxBlocks: 8, MaxFreeListSectors: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	var last blk.Id
	for i := 0; i < 3; i++ {
		id, err := c.Reserve(ctx, nil)
		if err != nil {
			t.Fatalf("Reserve: %v", err)
		}
		last = id
	}
	if err := c.Remove(ctx, last); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if c.lastBlockIdx != int64(last)-1 {
		t.Fatalf("lastBlockIdx = %d, want %d", c.lastBlockIdx, int64(last)-1)
	}

	reused, err := c.Reserve(ctx, nil)
	if err != nil {
		t.Fatalf("Reserve after tail removal: %v", err)
	}
	if reused != last {
		t.Fatalf("Reserve after tail removal = %d, want %d (device not truncated, index reused)", reused, last)
	}
}

func TestClosedContainerRejectsOps(t *testing.T) {
	ctx := context.Background()
	dev := newTestDevice()
	c, err := New(dev, Config{MaxBlocks: 8, MaxFreeListSectors: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := c.Reserve(ctx, nil); err != container.ErrClosed {
		t.Fatalf("Reserve after close = %v, want ErrClosed", err)
	}
}

func TestReopenRestoresBitmapsAndSize(t *testing.T) {
	ctx := context.Background()
	dev := newTestDevice()
	cfg := Config{MaxBlocks: 8, MaxFreeListSectors: 1}
	c, err := New(dev, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id, err := c.Reserve(ctx, nil)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := c.Update(ctx, id, encodeInt32(7, dev.SectorSize()), true); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c2, err := New(dev, cfg)
	if err != nil {
		t.Fatalf("reopen New: %v", err)
	}
	defer c2.Close()

	size, err := c2.Size(ctx)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 1 {
		t.Fatalf("Size after reopen = %d, want 1", size)
	}
	b, err := c2.Get(ctx, id, true)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got := bitset.Int32BE(b.Bytes()[:4]); got != 7 {
		t.Fatalf("Get after reopen = %d, want 7", got)
	}
}
