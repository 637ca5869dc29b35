package rawblock

import (
	"github.com/vaultblock/storage/pkg/bitset"
	"github.com/vaultblock/storage/pkg/rawdev"
)

// freeList is an on-device LIFO stack of sector indices, addressed as a
// flat array spanning lo.freeListPages sectors (1..M) and paged through a
// single-sector write-back buffer. push may flush the resident page
// before loading a new one; pop loads the target page without flushing,
// since the resident page's entries are either already persisted or dead
// (about to be overwritten by the next push).
type freeList struct {
	dev rawdev.Device
	lo  layout

	size uint32 // total entries currently on the stack

	pageLoaded bool
	pageIdx    int64
	pageDirty  bool
	page       []byte
}

func newFreeList(dev rawdev.Device, lo layout, size uint32) *freeList {
	return &freeList{dev: dev, lo: lo, size: size}
}

func (f *freeList) reset() {
	f.size = 0
	f.pageLoaded = false
	f.pageDirty = false
}

func (f *freeList) entrySlot(idx uint32) (page int64, slot int64) {
	page = int64(idx) / f.lo.entriesPerPage
	slot = int64(idx) % f.lo.entriesPerPage
	return
}

func (f *freeList) ensurePage(page int64, forWrite bool) error {
	if f.pageLoaded && f.pageIdx == page {
		return nil
	}
	if f.pageLoaded && f.pageDirty {
		if forWrite {
			// push: flush the resident page before switching.
			if err := f.flush(); err != nil {
				return err
			}
		} else {
			// pop: resident page's entries are dead; discard instead of
			// flushing.
			f.pageDirty = false
		}
	}
	buf := make([]byte, f.dev.SectorSize())
	if err := f.dev.ReadSector(buf, 1+page); err != nil {
		return err
	}
	f.page = buf
	f.pageIdx = page
	f.pageLoaded = true
	return nil
}

func (f *freeList) flush() error {
	if !f.pageLoaded || !f.pageDirty {
		return nil
	}
	if err := f.dev.WriteSector(f.page, 1+f.pageIdx); err != nil {
		return err
	}
	f.pageDirty = false
	return nil
}

// push appends offset to the top of the stack.
func (f *freeList) push(offset int64) error {
	page, slot := f.entrySlot(f.size)
	if page >= f.lo.freeListPages {
		return errFreeListFull
	}
	if err := f.ensurePage(page, true); err != nil {
		return err
	}
	bitset.PutInt64LE(f.page[slot*8:slot*8+8], offset)
	f.pageDirty = true
	f.size++
	return nil
}

// pop removes and returns the top of the stack.
func (f *freeList) pop() (int64, bool, error) {
	if f.size == 0 {
		return 0, false, nil
	}
	page, slot := f.entrySlot(f.size - 1)
	if err := f.ensurePage(page, false); err != nil {
		return 0, false, err
	}
	v := bitset.Int64LE(f.page[slot*8 : slot*8+8])
	f.size--
	return v, true, nil
}
