package blockfile

import (
	"context"

	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
)

// Ids returns an iterator over reserved ids in ascending order. The
// iterator is best-effort: a mutation of the container while an iterator
// is live may cause it to skip or repeat ids, and the caller must restart
// iteration after mutating.
func (c *Container) Ids(ctx context.Context) (container.Iterator, error) {
	if err := c.ensureOpen(ctx); err != nil {
		return nil, err
	}
	return &idIterator{c: c, nextOffset: 0, current: -1}, nil
}

type idIterator struct {
	c          *Container
	nextOffset int64
	current    int64 // offset most recently returned by Next, or -1
	removed    bool
}

func (it *idIterator) Next(ctx context.Context) (blk.Id, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	ctrLen, err := it.c.ctr.Length()
	if err != nil {
		return 0, false, container.Storage("ids: data length", err)
	}
	blockSize := int64(it.c.cfg.BlockSize)
	for it.nextOffset < ctrLen {
		offset := it.nextOffset
		it.nextOffset += blockSize
		bitIndex := int(offset / blockSize)
		reserved, err := testBit(it.c.rbm, bitIndex)
		if err != nil {
			return 0, false, container.Storage("ids: test reserved bit", err)
		}
		if reserved {
			it.current = offset
			it.removed = false
			return blk.Id(offset), true, nil
		}
	}
	return 0, false, nil
}

// Remove removes the id most recently returned by Next from the
// container.
func (it *idIterator) Remove(ctx context.Context) error {
	if it.current < 0 || it.removed {
		return container.ErrIllegalState
	}
	it.removed = true
	return it.c.Remove(ctx, blk.Id(it.current))
}
