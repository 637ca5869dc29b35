package buffered

import (
	"context"
	"time"

	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
)

// Reserve mints a fresh id via the wrapped container. Reservation is a
// slot-allocation concern of the persistent layer; the cache only ever
// holds materialized values, so this is not cached.
func (c *Container) Reserve(ctx context.Context, factory container.Factory) (blk.Id, error) {
	start := time.Now()
	defer func() { c.rec.ObserveReserve(c.owner, time.Since(start)) }()
	return c.wrapped.Reserve(ctx, factory)
}

// Insert reserves a fresh id for object and installs it via Update,
// following the cache-coherence mode configured for this container.
func (c *Container) Insert(ctx context.Context, object blk.Block, unfix bool) (blk.Id, error) {
	id, err := c.wrapped.Reserve(ctx, func() (any, error) { return object, nil })
	if err != nil {
		return 0, err
	}
	if err := c.Update(ctx, id, object, unfix); err != nil {
		return 0, err
	}
	return id, nil
}

// Get cache-probes for id; on a miss it loads from the wrapped container
// and installs the result in the cache. unfix=false pins the entry.
func (c *Container) Get(ctx context.Context, id blk.Id, unfix bool) (blk.Block, error) {
	start := time.Now()
	hit := c.buf.Contains(c.owner, id)
	defer func() { c.rec.ObserveGet(c.owner, time.Since(start), hit) }()

	loader := func() (blk.Block, error) {
		return c.wrapped.Get(ctx, id, true)
	}
	v, err := c.buf.Get(c.owner, id, loader, unfix)
	if err != nil {
		return blk.Block{}, err
	}
	if c.cfg.CloneObjects {
		v = v.Clone()
	}
	return v, nil
}

// Update installs b as id's value. Under write-back (the default), the
// wrapped container is written only when the cache entry is later
// flushed; under write-through, both the cache and the wrapped container
// are written immediately.
func (c *Container) Update(ctx context.Context, id blk.Id, b blk.Block, unfix bool) error {
	start := time.Now()
	defer func() { c.rec.ObserveUpdate(c.owner, time.Since(start)) }()

	if c.cfg.WriteThrough {
		if err := c.wrapped.Update(ctx, id, b, true); err != nil {
			return err
		}
		return c.buf.Update(c.owner, id, b, nil, unfix)
	}
	return c.buf.Update(c.owner, id, b, c.flushCallback(ctx, id), unfix)
}

// Remove discards id from the cache (without flushing — it is about to
// be freed) and removes it from the wrapped container.
func (c *Container) Remove(ctx context.Context, id blk.Id) error {
	start := time.Now()
	defer func() { c.rec.ObserveRemove(c.owner, time.Since(start)) }()

	if err := c.buf.Remove(c.owner, id); err != nil {
		return err
	}
	return c.wrapped.Remove(ctx, id)
}

func (c *Container) Contains(ctx context.Context, id blk.Id) (bool, error) {
	return c.wrapped.Contains(ctx, id)
}

func (c *Container) IsUsed(ctx context.Context, id blk.Id) (bool, error) {
	return c.wrapped.IsUsed(ctx, id)
}

func (c *Container) Ids(ctx context.Context) (container.Iterator, error) {
	return c.wrapped.Ids(ctx)
}

func (c *Container) Size(ctx context.Context) (int, error) {
	n, err := c.wrapped.Size(ctx)
	if err == nil {
		c.rec.RecordSize(c.owner, n)
	}
	return n, err
}

// Reset truncates the wrapped container's backing storage without
// touching the cache. Entries cached before the reset stay in the cache
// and are still returned by Get; nothing discards them afterwards. Clear
// evicts them as well.
func (c *Container) Reset(ctx context.Context) error {
	return c.wrapped.Reset(ctx)
}

// Clear resets the wrapped container and evicts every cached entry for
// this owner, discarding any unflushed dirty values.
func (c *Container) Clear(ctx context.Context) error {
	if err := c.buf.RemoveAll(c.owner); err != nil {
		return err
	}
	return c.wrapped.Reset(ctx)
}

// Close flushes every dirty, unfixed cache entry through to the wrapped
// container, then closes it. Dirty entries that are still fixed are not
// written.
func (c *Container) Close() error {
	if err := c.buf.FlushAll(c.owner); err != nil {
		return err
	}
	return c.wrapped.Close()
}

// Delete discards the cache without flushing and deletes the wrapped
// container's backing storage.
func (c *Container) Delete() error {
	if err := c.buf.RemoveAll(c.owner); err != nil {
		return err
	}
	return c.wrapped.Delete()
}
