package blockfile

import (
	"context"
	"time"

	"github.com/vaultblock/storage/internal/logger"
	"github.com/vaultblock/storage/pkg/bitset"
	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
)

// Reserve pops a reusable offset from the free list if one lies inside the
// current data region, otherwise grows the data file by one block. The
// new id's slot is left at (R=1, U=0); factory is accepted for interface
// parity but unused — this layer never needs to materialize an object to
// size its allocation.
func (c *Container) Reserve(ctx context.Context, factory container.Factory) (blk.Id, error) {
	start := time.Now()
	defer func() { c.rec.ObserveReserve(c.owner, time.Since(start)) }()
	if err := c.ensureOpen(ctx); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	offset, err := c.popFreeOrGrow()
	if err != nil {
		return 0, err
	}

	bitIndex := int(offset / int64(c.cfg.BlockSize))
	if err := setBit(c.rbm, bitIndex, true); err != nil {
		return 0, container.Storage("reserve: set reserved bit", err)
	}
	if err := growBitmapFile(c.ubm, bitIndex); err != nil {
		return 0, container.Storage("reserve: grow updated bitmap", err)
	}

	c.size++
	if err := c.persistSize(); err != nil {
		return 0, err
	}

	logger.Debug(ctx, "blockfile: reserved", "prefix", c.cfg.Prefix, "id", offset)
	return blk.Id(offset), nil
}

// popFreeOrGrow pops the free list's tail entries, discarding any that no
// longer lie inside the current data region, until a usable offset is
// found or the free list is exhausted; then grows the data file by one
// block.
func (c *Container) popFreeOrGrow() (int64, error) {
	for {
		fltLen, err := c.flt.Length()
		if err != nil {
			return 0, container.Storage("reserve: free list length", err)
		}
		if fltLen < 8 {
			break
		}
		buf := make([]byte, 8)
		if err := c.flt.Seek(fltLen - 8); err != nil {
			return 0, container.Storage("reserve: free list seek", err)
		}
		if _, err := c.flt.Read(buf); err != nil {
			return 0, container.Storage("reserve: free list read", err)
		}
		if err := c.flt.SetLength(fltLen - 8); err != nil {
			return 0, container.Storage("reserve: free list pop", err)
		}
		candidate := bitset.Int64BE(buf)

		ctrLen, err := c.ctr.Length()
		if err != nil {
			return 0, container.Storage("reserve: data length", err)
		}
		if candidate >= 0 && candidate+int64(c.cfg.BlockSize) <= ctrLen {
			return candidate, nil
		}
		// Candidate falls outside the current data region; discard and
		// keep popping.
	}

	ctrLen, err := c.ctr.Length()
	if err != nil {
		return 0, container.Storage("reserve: data length", err)
	}
	if err := c.ctr.SetLength(ctrLen + int64(c.cfg.BlockSize)); err != nil {
		return 0, container.Storage("reserve: grow data file", err)
	}
	return ctrLen, nil
}

func (c *Container) Contains(ctx context.Context, id blk.Id) (bool, error) {
	if err := c.ensureOpen(ctx); err != nil {
		return false, err
	}
	return testBit(c.ubm, int(int64(id)/int64(c.cfg.BlockSize)))
}

func (c *Container) IsUsed(ctx context.Context, id blk.Id) (bool, error) {
	if err := c.ensureOpen(ctx); err != nil {
		return false, err
	}
	return testBit(c.rbm, int(int64(id)/int64(c.cfg.BlockSize)))
}

func (c *Container) Get(ctx context.Context, id blk.Id, unfix bool) (blk.Block, error) {
	start := time.Now()
	defer func() { c.rec.ObserveGet(c.owner, time.Since(start), true) }()
	if err := c.ensureOpen(ctx); err != nil {
		return blk.Block{}, err
	}
	if err := ctx.Err(); err != nil {
		return blk.Block{}, err
	}
	bitIndex := int(int64(id) / int64(c.cfg.BlockSize))
	updated, err := testBit(c.ubm, bitIndex)
	if err != nil {
		return blk.Block{}, container.Storage("get: test updated bit", err)
	}
	if !updated {
		return blk.Block{}, container.ErrNotFound
	}
	buf := make([]byte, c.cfg.BlockSize)
	if err := c.ctr.Seek(int64(id)); err != nil {
		return blk.Block{}, container.Storage("get: seek", err)
	}
	if _, err := c.ctr.Read(buf); err != nil {
		return blk.Block{}, container.Storage("get: read", err)
	}
	return blk.Wrap(buf), nil
}

func (c *Container) Update(ctx context.Context, id blk.Id, b blk.Block, unfix bool) error {
	start := time.Now()
	defer func() { c.rec.ObserveUpdate(c.owner, time.Since(start)) }()
	if err := c.ensureOpen(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.Size() > c.cfg.BlockSize {
		return container.ErrTooLarge
	}
	bitIndex := int(int64(id) / int64(c.cfg.BlockSize))
	reserved, err := testBit(c.rbm, bitIndex)
	if err != nil {
		return container.Storage("update: test reserved bit", err)
	}
	if !reserved {
		return container.ErrNotFound
	}

	full, ok := b.Slice(c.cfg.BlockSize)
	if !ok {
		scratch := c.pool.Get()
		defer c.pool.Put(scratch)
		for i := range scratch {
			scratch[i] = 0
		}
		copy(scratch, b.Bytes())
		full = scratch
	}

	if err := c.ctr.Seek(int64(id)); err != nil {
		return container.Storage("update: seek", err)
	}
	if _, err := c.ctr.Write(full, 0, c.cfg.BlockSize); err != nil {
		return container.Storage("update: write", err)
	}
	if err := setBit(c.ubm, bitIndex, true); err != nil {
		return container.Storage("update: set updated bit", err)
	}
	return nil
}

func (c *Container) Remove(ctx context.Context, id blk.Id) error {
	start := time.Now()
	defer func() { c.rec.ObserveRemove(c.owner, time.Since(start)) }()
	if err := c.ensureOpen(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	bitIndex := int(int64(id) / int64(c.cfg.BlockSize))
	reserved, err := testBit(c.rbm, bitIndex)
	if err != nil {
		return container.Storage("remove: test reserved bit", err)
	}
	if !reserved {
		return container.ErrNotFound
	}

	ctrLen, err := c.ctr.Length()
	if err != nil {
		return container.Storage("remove: data length", err)
	}
	tailIndex := int(ctrLen/int64(c.cfg.BlockSize)) - 1

	if bitIndex == tailIndex {
		if err := c.compactTail(bitIndex); err != nil {
			return err
		}
	} else {
		if err := setBit(c.rbm, bitIndex, false); err != nil {
			return container.Storage("remove: clear reserved bit", err)
		}
		if err := setBit(c.ubm, bitIndex, false); err != nil {
			return container.Storage("remove: clear updated bit", err)
		}
		if err := c.pushFree(int64(id)); err != nil {
			return err
		}
	}

	c.size--
	if err := c.persistSize(); err != nil {
		return err
	}
	return nil
}

// compactTail clears the removed id's bits, then walks backward through
// reserved bits to find the new tail, truncating the data file and both
// bitmaps to match.
func (c *Container) compactTail(removedIndex int) error {
	if err := setBit(c.rbm, removedIndex, false); err != nil {
		return container.Storage("remove: clear reserved bit", err)
	}
	if err := setBit(c.ubm, removedIndex, false); err != nil {
		return container.Storage("remove: clear updated bit", err)
	}

	newTail := removedIndex - 1
	for newTail >= 0 {
		reserved, err := testBit(c.rbm, newTail)
		if err != nil {
			return container.Storage("remove: scan for new tail", err)
		}
		if reserved {
			break
		}
		newTail--
	}

	newCount := newTail + 1
	if err := c.ctr.SetLength(int64(newCount) * int64(c.cfg.BlockSize)); err != nil {
		return container.Storage("remove: truncate data", err)
	}
	newBitmapBytes := int64(bitset.BytesForBits(newCount))
	if err := c.rbm.SetLength(newBitmapBytes); err != nil {
		return container.Storage("remove: truncate reserved bitmap", err)
	}
	if err := c.ubm.SetLength(newBitmapBytes); err != nil {
		return container.Storage("remove: truncate updated bitmap", err)
	}
	return nil
}

func (c *Container) pushFree(offset int64) error {
	fltLen, err := c.flt.Length()
	if err != nil {
		return container.Storage("remove: free list length", err)
	}
	buf := make([]byte, 8)
	bitset.PutInt64BE(buf, offset)
	if err := c.flt.SetLength(fltLen + 8); err != nil {
		return container.Storage("remove: grow free list", err)
	}
	if err := c.flt.Seek(fltLen); err != nil {
		return container.Storage("remove: free list seek", err)
	}
	if _, err := c.flt.Write(buf, 0, 8); err != nil {
		return container.Storage("remove: free list write", err)
	}
	return nil
}
