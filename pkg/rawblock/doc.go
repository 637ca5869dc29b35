// Package rawblock implements RawAccessContainer: the same block-store
// contract as package blockfile, laid out over a fixed-geometry raw sector
// device (pkg/rawdev.Device) instead of a directory of named files.
//
// Device layout (all integers little-endian):
//
//	sector 0           header: size, lastBlockIdx, maxBlocks,
//	                    maxFreeListSectors, freeListSize
//	sectors 1..M        free-list stack pages (M = maxFreeListSectors+1)
//	sectors M+1..M+N    data region, one sector per block
//	trailing sectors    reserved bitmap followed by updated bitmap
//
// Unlike BlockFileContainer, a closed RawAccessContainer does not reopen
// implicitly: once Close has run, every subsequent operation returns
// ErrClosed. Close does not close the underlying device.
package rawblock
