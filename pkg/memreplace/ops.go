package memreplace

import (
	"github.com/vaultblock/storage/pkg/blk"
	"github.com/vaultblock/storage/pkg/buffered"
	"github.com/vaultblock/storage/pkg/container"
)

var _ buffered.Buffer = (*Cache)(nil)

func (c *Cache) Contains(owner string, id blk.Id) bool {
	_, ok := c.index[key{owner, id}]
	return ok
}

func (c *Cache) Get(owner string, id blk.Id, loader func() (blk.Block, error), unfix bool) (blk.Block, error) {
	k := key{owner, id}
	if elem, ok := c.index[k]; ok {
		c.touch(elem)
		ent := elem.Value.(*entry)
		if !unfix {
			ent.fixed++
		}
		return ent.value, nil
	}

	v, err := loader()
	if err != nil {
		return blk.Block{}, err
	}

	if err := c.makeRoom(); err != nil {
		return blk.Block{}, err
	}
	ent := &entry{key: k, value: v}
	if !unfix {
		ent.fixed = 1
	}
	elem := c.order.PushFront(ent)
	c.index[k] = elem
	return v, nil
}

func (c *Cache) Update(owner string, id blk.Id, value blk.Block, flush func(blk.Block) error, unfix bool) error {
	k := key{owner, id}
	if elem, ok := c.index[k]; ok {
		c.touch(elem)
		ent := elem.Value.(*entry)
		ent.value = value
		ent.flush = flush
		ent.dirty = flush != nil
		if !unfix {
			ent.fixed++
		}
		return nil
	}

	if err := c.makeRoom(); err != nil {
		return err
	}
	ent := &entry{key: k, value: value, flush: flush, dirty: flush != nil}
	if !unfix {
		ent.fixed = 1
	}
	elem := c.order.PushFront(ent)
	c.index[k] = elem
	return nil
}

func (c *Cache) Remove(owner string, id blk.Id) error {
	k := key{owner, id}
	if elem, ok := c.index[k]; ok {
		c.order.Remove(elem)
		delete(c.index, k)
	}
	return nil
}

func (c *Cache) RemoveAll(owner string) error {
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		ent := elem.Value.(*entry)
		if ent.key.owner == owner {
			c.order.Remove(elem)
			delete(c.index, ent.key)
		}
		elem = next
	}
	return nil
}

func (c *Cache) Flush(owner string, id blk.Id) error {
	k := key{owner, id}
	elem, ok := c.index[k]
	if !ok {
		return nil
	}
	ent := elem.Value.(*entry)
	if ent.fixed > 0 {
		return container.ErrIllegalState
	}
	if ent.dirty && ent.flush != nil {
		if err := ent.flush(ent.value); err != nil {
			return err
		}
	}
	ent.dirty = false
	return nil
}

func (c *Cache) FlushAll(owner string) error {
	for elem := c.order.Back(); elem != nil; elem = elem.Prev() {
		ent := elem.Value.(*entry)
		if ent.key.owner != owner || !ent.dirty {
			continue
		}
		if ent.fixed > 0 {
			continue
		}
		if ent.flush != nil {
			if err := ent.flush(ent.value); err != nil {
				return err
			}
		}
		ent.dirty = false
	}
	return nil
}

func (c *Cache) Unfix(owner string, id blk.Id) error {
	elem, ok := c.index[key{owner, id}]
	if !ok {
		return container.ErrIllegalState
	}
	ent := elem.Value.(*entry)
	if ent.fixed <= 0 {
		return container.ErrIllegalState
	}
	ent.fixed--
	return nil
}

func (c *Cache) IsFixed(owner string, id blk.Id) bool {
	elem, ok := c.index[key{owner, id}]
	if !ok {
		return false
	}
	return elem.Value.(*entry).fixed > 0
}

func (c *Cache) FixedSlots(owner string) int {
	n := 0
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		ent := elem.Value.(*entry)
		if ent.key.owner == owner && ent.fixed > 0 {
			n++
		}
	}
	return n
}
