package converter

import (
	"context"
	"time"

	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
)

// Reserve mints a fresh id. If factory is non-nil, the wrapped container
// receives a factory that, when called, encodes and stages the produced
// value, so it can size the reservation off the real encoded length.
func (c *Container[T]) Reserve(ctx context.Context, factory container.Factory) (blk.Id, error) {
	start := time.Now()
	defer func() { c.rec.ObserveReserve(c.owner, time.Since(start)) }()

	if factory == nil {
		return c.wrapped.Reserve(ctx, nil)
	}
	return c.wrapped.Reserve(ctx, func() (any, error) {
		v, err := factory()
		if err != nil {
			return nil, err
		}
		typed, ok := v.(T)
		if !ok {
			var zero T
			typed = zero
		}
		return c.encodeBlock(typed)
	})
}

// Insert encodes value with the configured codec, stages the result per
// Config.SerializationMode, and stores it behind a freshly reserved id.
func (c *Container[T]) Insert(ctx context.Context, value T, unfix bool) (blk.Id, error) {
	start := time.Now()
	defer func() { c.rec.ObserveUpdate(c.owner, time.Since(start)) }()

	b, err := c.encodeBlock(value)
	if err != nil {
		return 0, err
	}
	id, err := c.wrapped.Reserve(ctx, nil)
	if err != nil {
		return 0, err
	}
	if err := c.wrapped.Update(ctx, id, b, unfix); err != nil {
		return 0, err
	}
	return id, nil
}

// Update re-encodes value and overwrites id's stored bytes.
func (c *Container[T]) Update(ctx context.Context, id blk.Id, value T, unfix bool) error {
	start := time.Now()
	defer func() { c.rec.ObserveUpdate(c.owner, time.Since(start)) }()

	b, err := c.encodeBlock(value)
	if err != nil {
		return err
	}
	return c.wrapped.Update(ctx, id, b, unfix)
}

// Get retrieves id's bytes from the wrapped container and decodes them.
func (c *Container[T]) Get(ctx context.Context, id blk.Id, unfix bool) (T, error) {
	start := time.Now()
	defer func() { c.rec.ObserveGet(c.owner, time.Since(start), true) }()

	b, err := c.wrapped.Get(ctx, id, unfix)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.decodeBlock(b)
}
