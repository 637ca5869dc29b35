package memreplace

import (
	"container/list"

	"github.com/vaultblock/storage/pkg/blk"
)

type key struct {
	owner string
	id    blk.Id
}

type entry struct {
	key   key
	value blk.Block
	dirty bool
	flush func(blk.Block) error
	fixed int
}

// Cache is a capacity-bounded LRU replacement policy shared by one or more
// owners (one per wrapping BufferedContainer). capacity counts entries,
// not bytes, matching the block-count caches used in the size-budget
// scenarios this module is tested against.
type Cache struct {
	capacity int
	order    *list.List
	index    map[key]*list.Element
}

// NewLRU builds a Cache holding at most capacity entries across all
// owners. A non-positive capacity means unbounded.
func NewLRU(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[key]*list.Element),
	}
}

func (c *Cache) touch(elem *list.Element) {
	c.order.MoveToFront(elem)
}

// evictOne removes the least-recently-used unfixed entry, flushing it
// first if dirty. Returns false if every entry is fixed (nothing could be
// evicted); callers then let the cache exceed capacity rather than
// block forever on a pinned slot.
func (c *Cache) evictOne() (bool, error) {
	for elem := c.order.Back(); elem != nil; elem = elem.Prev() {
		ent := elem.Value.(*entry)
		if ent.fixed > 0 {
			continue
		}
		if ent.dirty && ent.flush != nil {
			if err := ent.flush(ent.value); err != nil {
				return false, err
			}
		}
		c.order.Remove(elem)
		delete(c.index, ent.key)
		return true, nil
	}
	return false, nil
}

func (c *Cache) makeRoom() error {
	if c.capacity <= 0 {
		return nil
	}
	for c.order.Len() >= c.capacity {
		evicted, err := c.evictOne()
		if err != nil {
			return err
		}
		if !evicted {
			return nil
		}
	}
	return nil
}
