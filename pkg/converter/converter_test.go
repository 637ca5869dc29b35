package converter

import (
	"context"
	"testing"

	"github.com/vaultblock/storage/pkg/blockfile"
	"github.com/vaultblock/storage/pkg/codec"
	"github.com/vaultblock/storage/pkg/fsops"
	"github.com/vaultblock/storage/pkg/rawblock"
	"github.com/vaultblock/storage/pkg/rawdev"
)

func newBlockfileBacked(t *testing.T) *blockfile.Container {
	t.Helper()
	dir := t.TempDir()
	c, err := blockfile.New(fsops.New(), blockfile.Config{Prefix: dir + "/T", BlockSize: 64})
	if err != nil {
		t.Fatalf("blockfile.New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestInsertGetUpdateRoundTrip(t *testing.T) {
	for _, mode := range []SerializationMode{ModeByteArray, ModeByteBuffer, ModeUnsafe} {
		t.Run(string(mode), func(t *testing.T) {
			ctx := context.Background()
			inner := newBlockfileBacked(t)
			c, err := New[string](inner, codec.StringCodec{}, Config{SerializationMode: mode, BufferSize: 16})
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			id, err := c.Insert(ctx, "hello", true)
			if err != nil {
				t.Fatalf("Insert: %v", err)
			}
			got, err := c.Get(ctx, id, true)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != "hello" {
				t.Fatalf("Get = %q, want %q", got, "hello")
			}

			if err := c.Update(ctx, id, "goodbye, now longer", true); err != nil {
				t.Fatalf("Update: %v", err)
			}
			got, err = c.Get(ctx, id, true)
			if err != nil {
				t.Fatalf("Get after update: %v", err)
			}
			if got != "goodbye, now longer" {
				t.Fatalf("Get after update = %q, want %q", got, "goodbye, now longer")
			}
		})
	}
}

func TestSerializationModesProduceIdenticalBytes(t *testing.T) {
	ctx := context.Background()
	var results []string
	for _, mode := range []SerializationMode{ModeByteArray, ModeByteBuffer, ModeUnsafe} {
		inner := newBlockfileBacked(t)
		c, err := New[int32](inner, codec.Int32Codec{}, Config{SerializationMode: mode, BufferSize: 32})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		id, err := c.Insert(ctx, 12345, true)
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		b, err := inner.Get(ctx, id, true)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		results = append(results, string(b.Bytes()))
	}
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatalf("mode %d produced different bytes than mode 0: %v vs %v", i, []byte(results[i]), []byte(results[0]))
		}
	}
}

func TestFlushArrayOfBlocksFallsBackWithoutBatchSupport(t *testing.T) {
	ctx := context.Background()
	inner := newBlockfileBacked(t)
	c, err := New[int32](inner, codec.Int32Codec{}, Config{SerializationMode: ModeByteArray})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ids, err := c.FlushArrayOfBlocks(ctx, []int32{1, 2, 3})
	if err != nil {
		t.Fatalf("FlushArrayOfBlocks: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("len(ids) = %d, want 3", len(ids))
	}
	for i, want := range []int32{1, 2, 3} {
		got, err := c.Get(ctx, ids[i], true)
		if err != nil {
			t.Fatalf("Get[%d]: %v", i, err)
		}
		if got != want {
			t.Fatalf("Get[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestFlushArrayOfBlocksUsesBatchSupportWhenAvailable(t *testing.T) {
	ctx := context.Background()
	dev := rawdev.NewMemory(64, 64)
	inner, err := rawblock.New(dev, rawblock.Config{MaxBlocks: 16, MaxFreeListSectors: 1})
	if err != nil {
		t.Fatalf("rawblock.New: %v", err)
	}
	defer inner.Close()

	c, err := New[int32](inner, codec.Int32Codec{}, Config{SerializationMode: ModeByteArray})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ids, err := c.FlushArrayOfBlocks(ctx, []int32{10, 20, 30})
	if err != nil {
		t.Fatalf("FlushArrayOfBlocks: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("len(ids) = %d, want 3", len(ids))
	}
	for i, want := range []int32{10, 20, 30} {
		got, err := c.Get(ctx, ids[i], true)
		if err != nil {
			t.Fatalf("Get[%d]: %v", i, err)
		}
		if got != want {
			t.Fatalf("Get[%d] = %d, want %d", i, got, want)
		}
	}
}
