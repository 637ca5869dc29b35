package rawblock

import (
	"context"
	"fmt"
	"time"

	"github.com/vaultblock/storage/internal/logger"
	"github.com/vaultblock/storage/internal/metrics"
	"github.com/vaultblock/storage/pkg/bitset"
	"github.com/vaultblock/storage/pkg/bufpool"
	"github.com/vaultblock/storage/pkg/container"
	"github.com/vaultblock/storage/pkg/rawdev"
)

// Container is a RawAccessContainer: the BlockFileContainer contract laid
// out over a fixed-geometry raw sector device. The zero value is not
// usable; construct with New.
type Container struct {
	dev   rawdev.Device
	cfg   Config
	lo    layout
	pool  *bufpool.Pool
	rec   metrics.Recorder
	owner string

	closed bool

	size         int64
	lastBlockIdx int64 // -1 when empty
	reserved     []byte
	updated      []byte

	fl *freeList
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

// New opens a RawAccessContainer over dev. If sector 0 carries a header
// with a matching maxBlocks/maxFreeListSectors, the existing image is
// reopened (bitmaps and free-list size are read back); otherwise the
// device is treated as freshly formatted and a zero header is written.
func New(dev rawdev.Device, cfg Config, opts ...Option) (*Container, error) {
	if cfg.MaxBlocks == 0 {
		return nil, fmt.Errorf("rawblock: max blocks must be positive")
	}
	lo := computeLayout(dev.SectorSize(), dev.NumSectors(), cfg)
	if lo.dataSectors <= 0 {
		return nil, fmt.Errorf("rawblock: device has no room for a data region under this geometry")
	}

	c := &Container{
		dev:   dev,
		cfg:   cfg,
		lo:    lo,
		pool:  bufpool.New(dev.SectorSize()),
		rec:   metrics.Nop(),
		owner: "rawblock",
	}
	for _, o := range opts {
		o(c)
	}

	hdr, ok, err := readHeader(dev, lo)
	if err != nil {
		return nil, container.Storage("open: read header", err)
	}
	if ok && hdr.maxBlocks == cfg.MaxBlocks && hdr.maxFreeListSectors == cfg.MaxFreeListSectors {
		c.size = int64(hdr.size)
		c.lastBlockIdx = hdr.lastBlockIdx
		c.reserved, c.updated, err = readBitmaps(dev, lo)
		if err != nil {
			return nil, container.Storage("open: read bitmaps", err)
		}
		c.fl = newFreeList(dev, lo, hdr.freeListSize)
	} else {
		c.size = 0
		c.lastBlockIdx = -1
		c.reserved = make([]byte, bitset.BytesForBits(int(cfg.MaxBlocks)))
		c.updated = make([]byte, bitset.BytesForBits(int(cfg.MaxBlocks)))
		c.fl = newFreeList(dev, lo, 0)
		if err := c.writeHeader(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) checkOpen() error {
	if c.closed {
		return container.ErrClosed
	}
	return nil
}

func (c *Container) writeHeader() error {
	return writeHeader(c.dev, c.lo, rawHeader{
		size:               uint64(c.size),
		lastBlockIdx:       c.lastBlockIdx,
		maxBlocks:          c.cfg.MaxBlocks,
		maxFreeListSectors: c.cfg.MaxFreeListSectors,
		freeListSize:       c.fl.size,
	})
}

// Close persists the header, the free list's write-back page (if dirty),
// and both bitmaps, then forbids further use. A closed RawAccessContainer
// never reopens implicitly.
func (c *Container) Close() error {
	if c.closed {
		return nil
	}
	start := time.Now()
	if err := c.fl.flush(); err != nil {
		return container.Storage("close: flush free list", err)
	}
	if err := c.writeHeader(); err != nil {
		return err
	}
	if err := writeBitmaps(c.dev, c.lo, c.reserved, c.updated); err != nil {
		return container.Storage("close: write bitmaps", err)
	}
	c.closed = true
	c.rec.ObserveFlush(c.owner, 1, time.Since(start))
	return nil
}

// Delete zeros the persisted header so a subsequent New treats the device
// as unformatted, then closes. The device's sectors themselves are owned
// by the caller and are not otherwise reclaimed.
func (c *Container) Delete() error {
	if c.closed {
		return nil
	}
	zero := make([]byte, c.dev.SectorSize())
	if err := c.dev.WriteSector(zero, headerSectorIdx); err != nil {
		return container.Storage("delete: zero header", err)
	}
	c.closed = true
	return nil
}

// Reset zeros bookkeeping (size, lastBlockIdx, bitmaps, free list) without
// touching the device's data sectors.
func (c *Container) Reset(ctx context.Context) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.size = 0
	c.lastBlockIdx = -1
	for i := range c.reserved {
		c.reserved[i] = 0
	}
	for i := range c.updated {
		c.updated[i] = 0
	}
	c.fl.reset()
	logger.Debug(ctx, "rawblock: reset")
	return nil
}

func (c *Container) Clear(ctx context.Context) error {
	return c.Reset(ctx)
}

func (c *Container) Size(ctx context.Context) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	c.rec.RecordSize(c.owner, int(c.size))
	return int(c.size), nil
}
