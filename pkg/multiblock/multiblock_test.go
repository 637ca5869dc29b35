package multiblock

import (
	"bytes"
	"context"
	"testing"

	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/blockfile"
	"github.com/vaultblock/storage/pkg/fsops"
)

func newTestContainer(t *testing.T, blockSize int) *Container {
	t.Helper()
	dir := t.TempDir()
	ops := fsops.New()
	primary, err := blockfile.New(ops, blockfile.Config{Prefix: dir + "/primary", BlockSize: blockSize})
	if err != nil {
		t.Fatalf("primary New: %v", err)
	}
	secondary, err := blockfile.New(ops, blockfile.Config{Prefix: dir + "/secondary", BlockSize: blockSize})
	if err != nil {
		t.Fatalf("secondary New: %v", err)
	}
	c, err := New(primary, secondary, blockSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestInsertGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, 16) // net = 8 bytes per chunk

	cases := [][]byte{
		nil,
		[]byte("hi"),
		[]byte("exactly8"),
		bytes.Repeat([]byte("x"), 8*5+3), // spans 6 physical blocks
	}
	for i, payload := range cases {
		id, err := c.Insert(ctx, payload)
		if err != nil {
			t.Fatalf("case %d Insert: %v", i, err)
		}
		got, err := c.Get(ctx, id, true)
		if err != nil {
			t.Fatalf("case %d Get: %v", i, err)
		}
		if !bytes.Equal(got.Bytes(), payload) {
			t.Fatalf("case %d round-trip mismatch: got %q want %q", i, got.Bytes(), payload)
		}
	}
}

func TestUpdateGrowsAndShrinksChain(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, 16) // net = 8

	id, err := c.Insert(ctx, []byte("short"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	longer := bytes.Repeat([]byte("y"), 40)
	if err := c.Update(ctx, id, blk.Wrap(longer), true); err != nil {
		t.Fatalf("Update (grow): %v", err)
	}
	got, err := c.Get(ctx, id, true)
	if err != nil {
		t.Fatalf("Get after grow: %v", err)
	}
	if !bytes.Equal(got.Bytes(), longer) {
		t.Fatalf("Get after grow = %q, want %q", got.Bytes(), longer)
	}

	shorter := []byte("tiny")
	if err := c.Update(ctx, id, blk.Wrap(shorter), true); err != nil {
		t.Fatalf("Update (shrink): %v", err)
	}
	got, err = c.Get(ctx, id, true)
	if err != nil {
		t.Fatalf("Get after shrink: %v", err)
	}
	if !bytes.Equal(got.Bytes(), shorter) {
		t.Fatalf("Get after shrink = %q, want %q", got.Bytes(), shorter)
	}
}

func TestRemoveWalksChain(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, 16)

	id, err := c.Insert(ctx, bytes.Repeat([]byte("z"), 30))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := c.Remove(ctx, id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if used, err := c.primary.IsUsed(ctx, id); err != nil || used {
		t.Fatalf("head still reserved after Remove: used=%v err=%v", used, err)
	}
	size, err := c.secondary.Size(ctx)
	if err != nil {
		t.Fatalf("secondary.Size: %v", err)
	}
	if size != 0 {
		t.Fatalf("secondary.Size after Remove = %d, want 0", size)
	}
}
