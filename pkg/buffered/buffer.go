// Package buffered implements BufferedContainer: a decorator that fronts
// a wrapped container with a replacement-policy-driven cache, injected as
// a Buffer collaborator. This package owns only the cache-coherence
// protocol (write-back vs write-through, fix/unfix pinning); eviction
// policy lives entirely in the injected Buffer (see package memreplace
// for a concrete LRU implementation).
package buffered

import "github.com/vaultblock/storage/pkg/blk"

// Buffer is the replacement-policy collaborator a BufferedContainer is
// built on. owner partitions a single shared Buffer's contents across
// multiple BufferedContainer instances.
type Buffer interface {
	// Contains reports whether owner/id currently has a cached entry.
	Contains(owner string, id blk.Id) bool

	// Get returns owner/id's cached value, calling loader on a miss and
	// inserting the result. unfix=false pins the entry (one additional
	// pin); unfix=true leaves its pin count unchanged.
	Get(owner string, id blk.Id, loader func() (blk.Block, error), unfix bool) (blk.Block, error)

	// Update installs value as owner/id's cached value. If flush is
	// non-nil the entry is marked dirty and flush is invoked with the
	// current value when the policy evicts or flushes it; if flush is
	// nil the entry is cached but considered already durable. unfix
	// follows the same pinning rule as Get.
	Update(owner string, id blk.Id, value blk.Block, flush func(blk.Block) error, unfix bool) error

	// Remove discards owner/id's cached entry without flushing it.
	Remove(owner string, id blk.Id) error

	// RemoveAll discards every cached entry for owner without flushing.
	RemoveAll(owner string) error

	// Flush writes owner/id's dirty value through its flush callback, if
	// it has one, and clears the dirty flag. Returns ErrIllegalState if
	// id is fixed.
	Flush(owner string, id blk.Id) error

	// FlushAll flushes every dirty entry for owner that is not fixed;
	// fixed entries are skipped and stay dirty.
	FlushAll(owner string) error

	// Unfix reverses one pin placed by a prior Get/Update call. Returns
	// ErrIllegalState if owner/id is not currently fixed.
	Unfix(owner string, id blk.Id) error

	// IsFixed reports whether owner/id currently has a positive pin count.
	IsFixed(owner string, id blk.Id) bool

	// FixedSlots reports the number of currently pinned entries for owner.
	FixedSlots(owner string) int
}
