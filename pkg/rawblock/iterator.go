package rawblock

import (
	"context"

	"github.com/vaultblock/storage/pkg/bitset"
	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
)

func (c *Container) Ids(ctx context.Context) (container.Iterator, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return &idIterator{c: c, next: 0, current: -1}, nil
}

type idIterator struct {
	c       *Container
	next    int64
	current int64
	removed bool
}

func (it *idIterator) Next(ctx context.Context) (blk.Id, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	for it.next <= it.c.lastBlockIdx {
		idx := it.next
		it.next++
		if bitset.Test(it.c.reserved, int(idx)) {
			it.current = idx
			it.removed = false
			return blk.Id(idx), true, nil
		}
	}
	return 0, false, nil
}

func (it *idIterator) Remove(ctx context.Context) error {
	if it.current < 0 || it.removed {
		return container.ErrIllegalState
	}
	it.removed = true
	return it.c.Remove(ctx, blk.Id(it.current))
}
