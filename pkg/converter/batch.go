package converter

import (
	"context"

	"github.com/vaultblock/storage/pkg/blk"
)

// batchContainer is implemented by wrapped containers that can reserve and
// write a contiguous run of ids in one step (currently rawblock.Container).
// flushArrayOfBlocks type-asserts for it and falls back to one Insert per
// value when the wrapped container doesn't support it.
type batchContainer interface {
	BatchReserve(ctx context.Context, n int) (blk.Id, error)
	BatchInsert(ctx context.Context, head blk.Id, blocks []blk.Block) error
}

// FlushArrayOfBlocks encodes every value in values and submits them as one
// batch insert to the wrapped container when it supports batching,
// returning the ids assigned in order. If the wrapped container has no
// batch support, it falls back to an Insert per value.
func (c *Container[T]) FlushArrayOfBlocks(ctx context.Context, values []T) ([]blk.Id, error) {
	if len(values) == 0 {
		return nil, nil
	}

	bc, ok := c.wrapped.(batchContainer)
	if !ok {
		ids := make([]blk.Id, len(values))
		for i, v := range values {
			id, err := c.Insert(ctx, v, false)
			if err != nil {
				return nil, err
			}
			ids[i] = id
		}
		return ids, nil
	}

	blocks := make([]blk.Block, len(values))
	for i, v := range values {
		b, err := c.encodeBlock(v)
		if err != nil {
			return nil, err
		}
		blocks[i] = b
	}

	head, err := bc.BatchReserve(ctx, len(values))
	if err != nil {
		return nil, err
	}
	if err := bc.BatchInsert(ctx, head, blocks); err != nil {
		return nil, err
	}

	ids := make([]blk.Id, len(values))
	for i := range values {
		ids[i] = head + blk.Id(i)
	}
	return ids, nil
}
