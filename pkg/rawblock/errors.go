package rawblock

import "errors"

// errFreeListFull is returned when the free-list stack has exhausted its
// configured page budget (MaxFreeListSectors), and also by Reserve and
// BatchReserve when no free index is left below MaxBlocks and the data
// region's sector count. It is wrapped as a
// StorageErr before reaching the caller, since it reflects an on-device
// capacity limit rather than a programming error.
var errFreeListFull = errors.New("rawblock: free list exhausted its configured sector budget")
