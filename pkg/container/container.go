// Package container defines the shared Container contract implemented by
// every storage layer in this module (blockfile, rawblock, multiblock,
// converter, buffered) along with the sentinel error taxonomy and the
// Options decoding helper used to configure them.
package container

import (
	"context"

	"github.com/vaultblock/storage/pkg/blk"
)

// Factory optionally produces a value a container may need to materialize
// in order to size a reservation (e.g. ConverterContainer encoding an
// object to know how many bytes to reserve). Most containers ignore it.
type Factory func() (any, error)

// Container is the operation set every layer in this module exposes.
// Implementations are not safe for concurrent use by multiple goroutines;
// they assume a single-threaded, cooperative caller. Where an operation
// checks ctx, it does so only at call entry, before any blocking I/O is
// issued; not every operation of every layer checks it.
type Container interface {
	// Reserve mints a fresh Id in state (R=1, U=0). factory may be nil.
	Reserve(ctx context.Context, factory Factory) (blk.Id, error)

	// Contains reports whether id's slot has U=1.
	Contains(ctx context.Context, id blk.Id) (bool, error)

	// IsUsed reports whether id's slot has R=1.
	IsUsed(ctx context.Context, id blk.Id) (bool, error)

	// Get returns the last-updated block for id. unfix hints whether the
	// caller intends to retain a pin on id in an enclosing buffer.
	// Returns ErrNotFound if U=0.
	Get(ctx context.Context, id blk.Id, unfix bool) (blk.Block, error)

	// Update writes b as id's value, setting U=1. Returns ErrNotFound if
	// R=0, ErrTooLarge if b exceeds the container's block size.
	Update(ctx context.Context, id blk.Id, b blk.Block, unfix bool) error

	// Remove sets id's slot back to (0,0) and recycles it for reuse.
	// Returns ErrNotFound if R=0.
	Remove(ctx context.Context, id blk.Id) error

	// Ids returns an iterator over ids with R=1, in ascending order.
	// The iterator is invalidated by any mutation; callers must restart
	// after one.
	Ids(ctx context.Context) (Iterator, error)

	// Size returns the number of ids with R=1.
	Size(ctx context.Context) (int, error)

	// Reset truncates all backing storage to empty, without closing.
	Reset(ctx context.Context) error

	// Clear is an alias of Reset kept for parity across the contract;
	// some decorators give it distinct semantics (e.g. BufferedContainer.
	// Clear also evicts the cache).
	Clear(ctx context.Context) error

	// Close flushes any buffered header/metadata and releases resources.
	// A closed BlockFileContainer reopens implicitly on next use; a closed
	// RawAccessContainer does not. MultiBlockContainer keeps no closed
	// state of its own: after Close its operations go to its
	// sub-containers, which reopen or fail by their own rules.
	Close() error

	// Delete closes the container and removes all backing storage.
	Delete() error
}

// Iterator walks the set of reserved ids of a Container.
type Iterator interface {
	// Next advances the iterator and reports whether a value was
	// produced. It must be called before the first Remove.
	Next(ctx context.Context) (blk.Id, bool, error)

	// Remove removes the id most recently returned by Next from the
	// underlying container. Returns ErrIllegalState if called without a
	// preceding, not-yet-removed Next.
	Remove(ctx context.Context) error
}
