package blockfile

import (
	"context"
	"fmt"

	"github.com/vaultblock/storage/internal/logger"
	"github.com/vaultblock/storage/internal/metrics"
	"github.com/vaultblock/storage/pkg/bitset"
	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/bufpool"
	"github.com/vaultblock/storage/pkg/container"
	"github.com/vaultblock/storage/pkg/fsops"
)

// Container is a BlockFileContainer: persists equal-sized blocks keyed by
// byte offset, with O(1) slot allocation and hole reuse. The zero value is
// not usable; construct with New.
type Container struct {
	ops    fsops.Ops
	cfg    Config
	pool   *bufpool.Pool
	rec    metrics.Recorder
	owner  string

	isOpen bool
	mtd    fsops.Handle
	rbm    fsops.Handle
	ubm    fsops.Handle
	flt    fsops.Handle
	ctr    fsops.Handle
	size   int
}

var _ container.Container = (*Container)(nil)

// Option customizes a Container beyond its Config.
type Option func(*Container)

// WithMetrics attaches an observability recorder labeled by owner.
func WithMetrics(rec metrics.Recorder, owner string) Option {
	return func(c *Container) {
		c.rec = rec
		c.owner = owner
	}
}

// New constructs a BlockFileContainer over cfg.Prefix using ops for file
// access. The container starts Closed; it opens implicitly (creating a
// fresh store, reopening an existing one, or migrating a legacy one) on
// first use.
func New(ops fsops.Ops, cfg Config, opts ...Option) (*Container, error) {
	if cfg.Prefix == "" {
		return nil, fmt.Errorf("blockfile: prefix is required")
	}
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("blockfile: block size must be positive")
	}
	c := &Container{
		ops:   ops,
		cfg:   cfg,
		pool:  bufpool.New(cfg.BlockSize),
		rec:   metrics.Nop(),
		owner: cfg.Prefix,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Container) path(ext string) string {
	return c.cfg.Prefix + "." + ext
}

// ensureOpen opens the container if it is currently closed. BlockFileContainer
// is the one layer in this module that reopens implicitly after Close.
func (c *Container) ensureOpen(ctx context.Context) error {
	if c.isOpen {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.migrateLegacyIfNeeded(); err != nil {
		return container.Storage("migrate", err)
	}

	mtd, err := c.ops.Open(c.path("mtd"), true)
	if err != nil {
		return container.Storage("open mtd", err)
	}
	rbm, err := c.ops.Open(c.path("rbm"), true)
	if err != nil {
		mtd.Close()
		return container.Storage("open rbm", err)
	}
	ubm, err := c.ops.Open(c.path("ubm"), true)
	if err != nil {
		mtd.Close()
		rbm.Close()
		return container.Storage("open ubm", err)
	}
	flt, err := c.ops.Open(c.path("flt"), true)
	if err != nil {
		mtd.Close()
		rbm.Close()
		ubm.Close()
		return container.Storage("open flt", err)
	}
	ctr, err := c.ops.Open(c.path("ctr"), true)
	if err != nil {
		mtd.Close()
		rbm.Close()
		ubm.Close()
		flt.Close()
		return container.Storage("open ctr", err)
	}

	c.mtd, c.rbm, c.ubm, c.flt, c.ctr = mtd, rbm, ubm, flt, ctr

	blockSize, size, err := readMetadata(mtd)
	if err != nil {
		return container.Storage("read metadata", err)
	}
	if blockSize == 0 {
		// Fresh container: persist the configured block size immediately.
		if err := writeMetadata(c.mtd, c.cfg.BlockSize, 0); err != nil {
			return container.Storage("write metadata", err)
		}
		c.size = 0
	} else {
		if blockSize != c.cfg.BlockSize {
			return fmt.Errorf("blockfile: configured block size %d does not match persisted block size %d for prefix %q",
				c.cfg.BlockSize, blockSize, c.cfg.Prefix)
		}
		c.size = size
	}
	c.isOpen = true
	logger.Debug(ctx, "blockfile: opened", "prefix", c.cfg.Prefix, "blockSize", c.cfg.BlockSize, "size", c.size)
	return nil
}

func readMetadata(h fsops.Handle) (blockSize, size int, err error) {
	n, err := h.Length()
	if err != nil {
		return 0, 0, err
	}
	if n < 8 {
		return 0, 0, nil
	}
	buf := make([]byte, 8)
	if err := h.Seek(0); err != nil {
		return 0, 0, err
	}
	if _, err := h.Read(buf); err != nil {
		return 0, 0, err
	}
	return int(bitset.Uint32BE(buf[0:4])), int(bitset.Uint32BE(buf[4:8])), nil
}

func writeMetadata(h fsops.Handle, blockSize, size int) error {
	buf := make([]byte, 8)
	bitset.PutUint32BE(buf[0:4], uint32(blockSize))
	bitset.PutUint32BE(buf[4:8], uint32(size))
	if err := h.SetLength(8); err != nil {
		return err
	}
	if err := h.Seek(0); err != nil {
		return err
	}
	_, err := h.Write(buf, 0, 8)
	return err
}

func (c *Container) persistSize() error {
	return writeMetadata(c.mtd, c.cfg.BlockSize, c.size)
}

// Close flushes metadata and closes all five file handles. A subsequent
// operation reopens the container implicitly.
func (c *Container) Close() error {
	if !c.isOpen {
		return nil
	}
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	record(c.persistSize())
	record(c.mtd.Close())
	record(c.rbm.Close())
	record(c.ubm.Close())
	record(c.flt.Close())
	record(c.ctr.Close())
	c.isOpen = false
	c.mtd, c.rbm, c.ubm, c.flt, c.ctr = nil, nil, nil, nil, nil
	if firstErr != nil {
		return container.Storage("close", firstErr)
	}
	return nil
}

// Delete closes the container and removes all five backing files.
func (c *Container) Delete() error {
	_ = c.Close()
	var firstErr error
	for _, ext := range []string{"mtd", "rbm", "ubm", "flt", "ctr"} {
		if err := c.ops.Delete(c.path(ext)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return container.Storage("delete", firstErr)
	}
	return nil
}

// Reset truncates all five files to empty, leaving the container Open.
func (c *Container) Reset(ctx context.Context) error {
	if err := c.ensureOpen(ctx); err != nil {
		return err
	}
	for _, h := range []fsops.Handle{c.rbm, c.ubm, c.flt, c.ctr} {
		if err := h.SetLength(0); err != nil {
			return container.Storage("reset", err)
		}
	}
	c.size = 0
	if err := c.persistSize(); err != nil {
		return container.Storage("reset", err)
	}
	return nil
}

// Clear is an alias of Reset for this layer.
func (c *Container) Clear(ctx context.Context) error {
	return c.Reset(ctx)
}

func (c *Container) Size(ctx context.Context) (int, error) {
	if err := c.ensureOpen(ctx); err != nil {
		return 0, err
	}
	c.rec.RecordSize(c.owner, c.size)
	return c.size, nil
}

