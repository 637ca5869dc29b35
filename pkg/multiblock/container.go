package multiblock

import (
	"context"
	"fmt"

	"github.com/vaultblock/storage/internal/metrics"
	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
)

const pointerWidth = 8

// Container is a MultiBlockContainer: accepts logical payloads of any size
// over a primary sub-container (holding chain heads) and a secondary
// sub-container (holding continuation blocks). primary and secondary may
// be the same container instance.
type Container struct {
	primary   container.Container
	secondary container.Container
	blockSize int
	net       int // blockSize - pointerWidth
	rec       metrics.Recorder
	owner     string
}

// Option customizes a Container beyond its constructor arguments.
type Option func(*Container)

// WithMetrics attaches an observability recorder labeled by owner.
func WithMetrics(rec metrics.Recorder, owner string) Option {
	return func(c *Container) {
		c.rec = rec
		c.owner = owner
	}
}

// New builds a MultiBlockContainer. blockSize must exceed the 8-byte
// pointer field, leaving room for at least one byte of payload per chunk.
func New(primary, secondary container.Container, blockSize int, opts ...Option) (*Container, error) {
	if blockSize <= pointerWidth {
		return nil, fmt.Errorf("multiblock: block size %d must exceed the %d-byte pointer field", blockSize, pointerWidth)
	}
	c := &Container{
		primary:   primary,
		secondary: secondary,
		blockSize: blockSize,
		net:       blockSize - pointerWidth,
		rec:       metrics.Nop(),
		owner:     "multiblock",
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Container) chunks(logical []byte) [][]byte {
	if len(logical) == 0 {
		return [][]byte{logical[:0]}
	}
	n := (len(logical) + c.net - 1) / c.net
	out := make([][]byte, n)
	for j := 0; j < n; j++ {
		start := j * c.net
		end := start + c.net
		if end > len(logical) {
			end = len(logical)
		}
		out[j] = logical[start:end]
	}
	return out
}

func encodePointer(v int64) []byte {
	buf := make([]byte, pointerWidth)
	for i := pointerWidth - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return buf
}

func decodePointer(buf []byte) int64 {
	var v int64
	for _, b := range buf[:pointerWidth] {
		v = v<<8 | int64(b)
	}
	return v
}

// Forwarded operations delegate to the primary sub-container.
func (c *Container) Contains(ctx context.Context, id blk.Id) (bool, error) {
	return c.primary.Contains(ctx, id)
}

func (c *Container) IsUsed(ctx context.Context, id blk.Id) (bool, error) {
	return c.primary.IsUsed(ctx, id)
}

func (c *Container) Ids(ctx context.Context) (container.Iterator, error) {
	return c.primary.Ids(ctx)
}

func (c *Container) Size(ctx context.Context) (int, error) {
	return c.primary.Size(ctx)
}

func (c *Container) Reserve(ctx context.Context, factory container.Factory) (blk.Id, error) {
	return c.primary.Reserve(ctx, factory)
}

func (c *Container) Reset(ctx context.Context) error {
	if err := c.primary.Reset(ctx); err != nil {
		return err
	}
	if c.secondary != c.primary {
		return c.secondary.Reset(ctx)
	}
	return nil
}

func (c *Container) Clear(ctx context.Context) error {
	return c.Reset(ctx)
}

func (c *Container) Close() error {
	if err := c.primary.Close(); err != nil {
		return err
	}
	if c.secondary != c.primary {
		return c.secondary.Close()
	}
	return nil
}

func (c *Container) Delete() error {
	if err := c.primary.Delete(); err != nil {
		return err
	}
	if c.secondary != c.primary {
		return c.secondary.Delete()
	}
	return nil
}
