package rawblock

import (
	"context"
	"time"

	"github.com/vaultblock/storage/internal/logger"
	"github.com/vaultblock/storage/pkg/bitset"
	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
)

// Reserve pops a reusable sector index from the on-device free list if one
// lies inside the current data region, otherwise advances lastBlockIdx by
// one. factory is accepted for interface parity but unused.
func (c *Container) Reserve(ctx context.Context, factory container.Factory) (blk.Id, error) {
	start := time.Now()
	defer func() { c.rec.ObserveReserve(c.owner, time.Since(start)) }()
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	idx, err := c.popFreeOrGrow()
	if err != nil {
		return 0, err
	}
	bitset.Set(c.reserved, int(idx))
	bitset.Clear(c.updated, int(idx))
	c.size++
	logger.Debug(ctx, "rawblock: reserved", "id", idx)
	return blk.Id(idx), nil
}

func (c *Container) popFreeOrGrow() (int64, error) {
	for {
		candidate, ok, err := c.fl.pop()
		if err != nil {
			return 0, container.Storage("reserve: free list pop", err)
		}
		if !ok {
			break
		}
		if candidate >= 0 && candidate <= c.lastBlockIdx {
			return candidate, nil
		}
		// Stale candidate from a shrunk data region; discard and keep
		// popping.
	}
	next := c.lastBlockIdx + 1
	if next >= int64(c.cfg.MaxBlocks) || next >= c.lo.dataSectors {
		return 0, container.Storage("reserve", errFreeListFull)
	}
	c.lastBlockIdx = next
	return next, nil
}

// BatchReserve reserves n consecutive fresh sector indices in one step,
// returning the first. All n are marked (R=1, U=0).
func (c *Container) BatchReserve(ctx context.Context, n int) (blk.Id, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, container.ErrIllegalState
	}
	head := c.lastBlockIdx + 1
	last := head + int64(n) - 1
	if last >= int64(c.cfg.MaxBlocks) || last >= c.lo.dataSectors {
		return 0, container.Storage("batchReserve", errFreeListFull)
	}
	for i := head; i <= last; i++ {
		bitset.Set(c.reserved, int(i))
		bitset.Clear(c.updated, int(i))
	}
	c.lastBlockIdx = last
	c.size += int64(n)
	return blk.Id(head), nil
}

// BatchInsert writes blocks to consecutive sectors starting at head, one
// device write per block (not a single multi-sector write), and marks each
// covered index updated. A block shorter than a sector is zero-padded; a
// block longer than a sector has only its first sector's worth written.
func (c *Container) BatchInsert(ctx context.Context, head blk.Id, blocks []blk.Block) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	sectorSize := c.dev.SectorSize()
	for i, b := range blocks {
		idx := int64(head) + int64(i)
		full, ok := b.Slice(sectorSize)
		if !ok {
			scratch := c.pool.Get()
			defer c.pool.Put(scratch)
			for j := range scratch {
				scratch[j] = 0
			}
			copy(scratch, b.Bytes())
			full = scratch
		}
		if err := c.dev.WriteSector(full, c.lo.dataStartSector+idx); err != nil {
			return container.Storage("batchInsert: write sector", err)
		}
		bitset.Set(c.updated, int(idx))
	}
	return nil
}

func (c *Container) Contains(ctx context.Context, id blk.Id) (bool, error) {
	if err := c.checkOpen(); err != nil {
		return false, err
	}
	return bitset.Test(c.updated, int(id)), nil
}

func (c *Container) IsUsed(ctx context.Context, id blk.Id) (bool, error) {
	if err := c.checkOpen(); err != nil {
		return false, err
	}
	return bitset.Test(c.reserved, int(id)), nil
}

func (c *Container) Get(ctx context.Context, id blk.Id, unfix bool) (blk.Block, error) {
	start := time.Now()
	defer func() { c.rec.ObserveGet(c.owner, time.Since(start), true) }()
	if err := c.checkOpen(); err != nil {
		return blk.Block{}, err
	}
	if !bitset.Test(c.updated, int(id)) {
		return blk.Block{}, container.ErrNotFound
	}
	buf := make([]byte, c.dev.SectorSize())
	if err := c.dev.ReadSector(buf, c.lo.dataStartSector+int64(id)); err != nil {
		return blk.Block{}, container.Storage("get: read sector", err)
	}
	return blk.Wrap(buf), nil
}

func (c *Container) Update(ctx context.Context, id blk.Id, b blk.Block, unfix bool) error {
	start := time.Now()
	defer func() { c.rec.ObserveUpdate(c.owner, time.Since(start)) }()
	if err := c.checkOpen(); err != nil {
		return err
	}
	sectorSize := c.dev.SectorSize()
	if b.Size() > sectorSize {
		return container.ErrTooLarge
	}
	if !bitset.Test(c.reserved, int(id)) {
		return container.ErrNotFound
	}
	full, ok := b.Slice(sectorSize)
	if !ok {
		scratch := c.pool.Get()
		defer c.pool.Put(scratch)
		for i := range scratch {
			scratch[i] = 0
		}
		copy(scratch, b.Bytes())
		full = scratch
	}
	if err := c.dev.WriteSector(full, c.lo.dataStartSector+int64(id)); err != nil {
		return container.Storage("update: write sector", err)
	}
	bitset.Set(c.updated, int(id))
	return nil
}

// Remove clears id's bits. If id is the current tail, lastBlockIdx is
// walked back to the new tail; the device itself is never truncated
// (there is nothing to truncate — sectors are fixed).
func (c *Container) Remove(ctx context.Context, id blk.Id) error {
	start := time.Now()
	defer func() { c.rec.ObserveRemove(c.owner, time.Since(start)) }()
	if err := c.checkOpen(); err != nil {
		return err
	}
	if !bitset.Test(c.reserved, int(id)) {
		return container.ErrNotFound
	}
	bitset.Clear(c.reserved, int(id))
	bitset.Clear(c.updated, int(id))

	if int64(id) == c.lastBlockIdx {
		newTail := c.lastBlockIdx - 1
		for newTail >= 0 && !bitset.Test(c.reserved, int(newTail)) {
			newTail--
		}
		c.lastBlockIdx = newTail
	} else {
		if err := c.fl.push(int64(id)); err != nil {
			return container.Storage("remove: free list push", err)
		}
	}
	c.size--
	return nil
}
