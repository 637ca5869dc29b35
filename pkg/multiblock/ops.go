package multiblock

import (
	"context"
	"time"

	"github.com/vaultblock/storage/internal/logger"
	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
)

func (c *Container) makeBlock(ptr int64, payload []byte) blk.Block {
	buf := make([]byte, c.blockSize)
	copy(buf[0:pointerWidth], encodePointer(ptr))
	copy(buf[pointerWidth:], payload)
	return blk.Wrap(buf)
}

// insertChain writes chunks tail-first: the last chunk is inserted first
// (into the secondary container, carrying the sentinel), then each
// preceding chunk is inserted with its pointer field threaded to the id
// just returned. The head chunk (j=0) goes into the primary container so
// the returned id is reachable via the primary's id space.
func (c *Container) insertChain(ctx context.Context, target func(j int) container.Container, logicalLen int, chunks [][]byte) (blk.Id, error) {
	var nextID blk.Id
	for j := len(chunks) - 1; j >= 0; j-- {
		ptr := int64(nextID)
		if j == len(chunks)-1 {
			ptr = blk.EncodeSentinel(int64(logicalLen))
		}
		id, err := target(j).Reserve(ctx, nil)
		if err != nil {
			return 0, err
		}
		if err := target(j).Update(ctx, id, c.makeBlock(ptr, chunks[j]), true); err != nil {
			return 0, err
		}
		nextID = id
	}
	return nextID, nil
}

// Insert chunks logical into physical blocks and returns the head id.
func (c *Container) Insert(ctx context.Context, logical []byte) (blk.Id, error) {
	start := time.Now()
	defer func() { c.rec.ObserveReserve(c.owner, time.Since(start)) }()
	return c.insertChain(ctx, func(j int) container.Container {
		if j == 0 {
			return c.primary
		}
		return c.secondary
	}, len(logical), c.chunks(logical))
}

// Update re-chunks logical and overwrites the existing chain in place,
// walking chain and new-chunk-list together; whichever runs out first
// triggers either a removal of the leftover chain tail or an insertion of
// the leftover new chunks.
func (c *Container) Update(ctx context.Context, id blk.Id, b blk.Block, unfix bool) error {
	start := time.Now()
	defer func() { c.rec.ObserveUpdate(c.owner, time.Since(start)) }()

	if used, err := c.primary.IsUsed(ctx, id); err != nil {
		return err
	} else if !used {
		return container.ErrNotFound
	}

	logical := b.Bytes()
	newChunks := c.chunks(logical)

	curContainer := c.primary
	curID := id
	var lastID blk.Id
	var lastContainer container.Container
	j := 0

	for {
		block, err := curContainer.Get(ctx, curID, true)
		if err != nil {
			return err
		}
		ptr := decodePointer(block.Bytes()[:pointerWidth])
		_, chainEndsHere := blk.DecodeSentinel(ptr)

		if j >= len(newChunks) {
			return c.removeChainFrom(ctx, curContainer, curID)
		}

		isLastNew := j == len(newChunks)-1
		nextPtr := ptr
		if isLastNew {
			nextPtr = blk.EncodeSentinel(int64(len(logical)))
		}
		if err := curContainer.Update(ctx, curID, c.makeBlock(nextPtr, newChunks[j]), true); err != nil {
			return err
		}
		lastID, lastContainer = curID, curContainer
		j++

		if isLastNew {
			if chainEndsHere {
				return nil
			}
			return c.removeChainFrom(ctx, c.secondary, blk.Id(ptr))
		}
		if chainEndsHere {
			break
		}
		curID = blk.Id(ptr)
		curContainer = c.secondary
	}

	headOfRest, err := c.insertChain(ctx, func(int) container.Container { return c.secondary }, len(logical), newChunks[j:])
	if err != nil {
		return err
	}
	block, err := lastContainer.Get(ctx, lastID, true)
	if err != nil {
		return err
	}
	return lastContainer.Update(ctx, lastID, c.makeBlock(int64(headOfRest), block.Bytes()[pointerWidth:]), true)
}

func (c *Container) removeChainFrom(ctx context.Context, cont container.Container, id blk.Id) error {
	for {
		block, err := cont.Get(ctx, id, true)
		if err != nil {
			return nil
		}
		ptr := decodePointer(block.Bytes()[:pointerWidth])
		if err := cont.Remove(ctx, id); err != nil {
			return err
		}
		if _, isSentinel := blk.DecodeSentinel(ptr); isSentinel {
			return nil
		}
		id = blk.Id(ptr)
	}
}

// Get walks the chain starting at id and reassembles the logical payload.
func (c *Container) Get(ctx context.Context, id blk.Id, unfix bool) (blk.Block, error) {
	start := time.Now()
	defer func() { c.rec.ObserveGet(c.owner, time.Since(start), true) }()

	var result []byte
	curContainer := c.primary
	curID := id
	pos := 0
	for {
		block, err := curContainer.Get(ctx, curID, true)
		if err != nil {
			return blk.Block{}, err
		}
		ptr := decodePointer(block.Bytes()[:pointerWidth])
		payload := block.Bytes()[pointerWidth:]
		if L, ok := blk.DecodeSentinel(ptr); ok {
			lastLen := int(L) - pos*c.net
			if lastLen < 0 {
				lastLen = 0
			}
			if lastLen > len(payload) {
				lastLen = len(payload)
			}
			result = append(result, payload[:lastLen]...)
			break
		}
		result = append(result, payload[:c.net]...)
		curID = blk.Id(ptr)
		curContainer = c.secondary
		pos++
	}
	return blk.Wrap(result), nil
}

// Remove walks the chain, removing each physical id from its owning
// sub-container. The head is always forwarded to primary.Remove, even if
// it is not actually present there, so the caller sees NotFound rather
// than silent success on an orphaned id.
func (c *Container) Remove(ctx context.Context, id blk.Id) error {
	start := time.Now()
	defer func() { c.rec.ObserveRemove(c.owner, time.Since(start)) }()

	block, err := c.primary.Get(ctx, id, true)
	if err != nil {
		return c.primary.Remove(ctx, id)
	}
	ptr := decodePointer(block.Bytes()[:pointerWidth])
	if err := c.primary.Remove(ctx, id); err != nil {
		return err
	}
	if _, isSentinel := blk.DecodeSentinel(ptr); isSentinel {
		logger.Debug(ctx, "multiblock: removed single-block chain", "id", id)
		return nil
	}
	return c.removeChainFrom(ctx, c.secondary, blk.Id(ptr))
}

var _ container.Container = (*Container)(nil)
