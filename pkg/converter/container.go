// Package converter implements ConverterContainer: a decorator that
// adapts a byte-block container to a typed-value container via an
// injected codec.
package converter

import (
	"context"
	"fmt"

	"github.com/vaultblock/storage/internal/metrics"
	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/codec"
	"github.com/vaultblock/storage/pkg/container"
)

// Container is a ConverterContainer over value type T, wrapping a
// byte-block container.Container with a codec.Codec[T].
type Container[T any] struct {
	wrapped container.Container
	codec   codec.Codec[T]
	cfg     Config
	rec     metrics.Recorder
	owner   string
}

// Option customizes a Container beyond its Config.
type Option[T any] func(*Container[T])

// WithMetrics attaches an observability recorder labeled by owner.
func WithMetrics[T any](rec metrics.Recorder, owner string) Option[T] {
	return func(c *Container[T]) {
		c.rec = rec
		c.owner = owner
	}
}

// New builds a ConverterContainer over wrapped using the given codec and
// serialization config.
func New[T any](wrapped container.Container, cd codec.Codec[T], cfg Config, opts ...Option[T]) (*Container[T], error) {
	if cfg.SerializationMode == "" {
		cfg.SerializationMode = ModeByteArray
	}
	c := &Container[T]{
		wrapped: wrapped,
		codec:   cd,
		cfg:     cfg,
		rec:     metrics.Nop(),
		owner:   "converter",
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Container[T]) encodeBlock(v T) (blk.Block, error) {
	raw, err := c.codec.Encode(v)
	if err != nil {
		return blk.Block{}, fmt.Errorf("%w: %v", container.ErrEncoding, err)
	}
	staged := c.cfg.stage(raw)
	return blk.Wrap(staged), nil
}

func (c *Container[T]) decodeBlock(b blk.Block) (T, error) {
	v, err := c.codec.Decode(b.Bytes())
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", container.ErrEncoding, err)
	}
	return v, nil
}

// Forwarded operations.
func (c *Container[T]) Contains(ctx context.Context, id blk.Id) (bool, error) {
	return c.wrapped.Contains(ctx, id)
}

func (c *Container[T]) IsUsed(ctx context.Context, id blk.Id) (bool, error) {
	return c.wrapped.IsUsed(ctx, id)
}

func (c *Container[T]) Ids(ctx context.Context) (container.Iterator, error) {
	return c.wrapped.Ids(ctx)
}

func (c *Container[T]) Size(ctx context.Context) (int, error) {
	return c.wrapped.Size(ctx)
}

func (c *Container[T]) Remove(ctx context.Context, id blk.Id) error {
	return c.wrapped.Remove(ctx, id)
}

func (c *Container[T]) Reset(ctx context.Context) error {
	return c.wrapped.Reset(ctx)
}

func (c *Container[T]) Clear(ctx context.Context) error {
	return c.wrapped.Clear(ctx)
}

func (c *Container[T]) Close() error {
	return c.wrapped.Close()
}

func (c *Container[T]) Delete() error {
	return c.wrapped.Delete()
}
