package buffered

import (
	"context"

	"github.com/vaultblock/storage/internal/metrics"
	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/container"
)

// Container is a BufferedContainer: it fronts wrapped with an injected
// Buffer collaborator and owns only the cache-coherence protocol. wrapped
// owns all persistent state; buf owns eviction policy and pinning.
type Container struct {
	wrapped container.Container
	buf     Buffer
	owner   string
	cfg     Config
	rec     metrics.Recorder
}

var _ container.Container = (*Container)(nil)

// Option customizes a Container beyond its Config.
type Option func(*Container)

// WithMetrics attaches an observability recorder labeled by owner (the
// same owner key used to partition the injected Buffer).
func WithMetrics(rec metrics.Recorder) Option {
	return func(c *Container) { c.rec = rec }
}

// New builds a BufferedContainer fronting wrapped. owner partitions buf's
// contents when buf is shared across multiple BufferedContainer
// instances; pass a stable, unique string per wrapped container.
func New(wrapped container.Container, buf Buffer, owner string, cfg Config, opts ...Option) (*Container, error) {
	c := &Container{
		wrapped: wrapped,
		buf:     buf,
		owner:   owner,
		cfg:     cfg,
		rec:     metrics.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Container) flushCallback(ctx context.Context, id blk.Id) func(blk.Block) error {
	return func(v blk.Block) error {
		return c.wrapped.Update(ctx, id, v, true)
	}
}

// Flush writes id's dirty cached value, if any, through to the wrapped
// container. A no-op under write-through, since entries are never dirty
// there.
func (c *Container) Flush(id blk.Id) error {
	return c.buf.Flush(c.owner, id)
}

// FlushAll writes every dirty, unfixed cached value for this container
// through to the wrapped container.
func (c *Container) FlushAll() error {
	return c.buf.FlushAll(c.owner)
}

// Unfix reverses one pin placed by a prior Get/Update/Insert call made
// with unfix=false.
func (c *Container) Unfix(id blk.Id) error {
	return c.buf.Unfix(c.owner, id)
}

// IsFixed reports whether id currently holds a positive pin count.
func (c *Container) IsFixed(id blk.Id) bool {
	return c.buf.IsFixed(c.owner, id)
}

// FixedSlots reports how many entries are currently pinned for this
// container's owner key.
func (c *Container) FixedSlots() int {
	return c.buf.FixedSlots(c.owner)
}
