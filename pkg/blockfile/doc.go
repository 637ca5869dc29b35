// Package blockfile implements BlockFileContainer: a fixed-size block
// store spread across five coordinated files sharing a common path
// prefix:
//
//	<prefix>.mtd  metadata: blockSize, size (big-endian u32 each)
//	<prefix>.rbm  reserved bitmap, LSB-first
//	<prefix>.ubm  updated bitmap, LSB-first
//	<prefix>.flt  free list: LIFO stack of 8-byte big-endian offsets
//	<prefix>.ctr  data: one fixed-size block per reserved id
//
// An id is the byte offset of its block within .ctr and is always a
// multiple of the container's block size. Opening a directory that
// matches the legacy single-file `.fat` layout migrates it automatically
// on first use.
package blockfile
