package rawblock

import "github.com/vaultblock/storage/pkg/bitset"

const headerSectorIdx = 0

// layout captures the sector ranges derived from a device's geometry and a
// Config, computed once at New and held for the container's lifetime.
type layout struct {
	sectorSize      int
	freeListPages   int64 // M = maxFreeListSectors + 1
	dataStartSector int64 // M + 1
	dataSectors     int64 // N
	bitmapBytes     int
	trailingSectors int64
	entriesPerPage  int64 // sectorSize / 8
}

func computeLayout(sectorSize int, numSectors int64, cfg Config) layout {
	bitmapBytes := bitset.BytesForBits(int(cfg.MaxBlocks))
	trailing := ceilDiv(int64(2*bitmapBytes), int64(sectorSize))
	freeListPages := int64(cfg.MaxFreeListSectors) + 1
	dataStart := 1 + freeListPages
	dataSectors := numSectors - dataStart - trailing
	if dataSectors < 0 {
		dataSectors = 0
	}
	return layout{
		sectorSize:      sectorSize,
		freeListPages:   freeListPages,
		dataStartSector: dataStart,
		dataSectors:     dataSectors,
		bitmapBytes:     bitmapBytes,
		trailingSectors: trailing,
		entriesPerPage:  int64(sectorSize / 8),
	}
}

func ceilDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// bitmapStartSector is where the reserved-bitmap/updated-bitmap blob
// begins; the two bitmaps are stored back-to-back as a single byte range
// of 2*bitmapBytes, independent of sector boundaries.
func (l layout) bitmapStartSector() int64 {
	return l.dataStartSector + l.dataSectors
}
