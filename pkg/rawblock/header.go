package rawblock

import (
	"github.com/vaultblock/storage/pkg/bitset"
	"github.com/vaultblock/storage/pkg/rawdev"
)

type rawHeader struct {
	size               uint64
	lastBlockIdx       int64
	maxBlocks          uint32
	maxFreeListSectors uint32
	freeListSize       uint32
}

const headerByteLen = 8 + 8 + 4 + 4 + 4 // 28 bytes

// readHeader reads sector 0. ok is false if the sector reads as all zero,
// which this package treats as "unformatted device".
func readHeader(dev rawdev.Device, lo layout) (rawHeader, bool, error) {
	buf := make([]byte, dev.SectorSize())
	if err := dev.ReadSector(buf, headerSectorIdx); err != nil {
		return rawHeader{}, false, err
	}
	allZero := true
	for _, b := range buf[:headerByteLen] {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return rawHeader{}, false, nil
	}
	h := rawHeader{
		size:               bitset.Uint64LE(buf[0:8]),
		lastBlockIdx:       bitset.Int64LE(buf[8:16]),
		maxBlocks:          bitset.Uint32LE(buf[16:20]),
		maxFreeListSectors: bitset.Uint32LE(buf[20:24]),
		freeListSize:       bitset.Uint32LE(buf[24:28]),
	}
	return h, true, nil
}

func writeHeader(dev rawdev.Device, lo layout, h rawHeader) error {
	buf := make([]byte, dev.SectorSize())
	bitset.PutUint64LE(buf[0:8], h.size)
	bitset.PutInt64LE(buf[8:16], h.lastBlockIdx)
	bitset.PutUint32LE(buf[16:20], h.maxBlocks)
	bitset.PutUint32LE(buf[20:24], h.maxFreeListSectors)
	bitset.PutUint32LE(buf[24:28], h.freeListSize)
	return dev.WriteSector(buf, headerSectorIdx)
}

// readBitmaps loads the trailing reserved/updated bitmap blob, spanning
// lo.trailingSectors sectors starting at lo.bitmapStartSector().
func readBitmaps(dev rawdev.Device, lo layout) (reserved, updated []byte, err error) {
	blob := make([]byte, int64(dev.SectorSize())*lo.trailingSectors)
	sector := make([]byte, dev.SectorSize())
	for i := int64(0); i < lo.trailingSectors; i++ {
		if err := dev.ReadSector(sector, lo.bitmapStartSector()+i); err != nil {
			return nil, nil, err
		}
		copy(blob[i*int64(dev.SectorSize()):], sector)
	}
	reserved = make([]byte, lo.bitmapBytes)
	updated = make([]byte, lo.bitmapBytes)
	copy(reserved, blob[:lo.bitmapBytes])
	copy(updated, blob[lo.bitmapBytes:2*lo.bitmapBytes])
	return reserved, updated, nil
}

func writeBitmaps(dev rawdev.Device, lo layout, reserved, updated []byte) error {
	blob := make([]byte, int64(dev.SectorSize())*lo.trailingSectors)
	copy(blob, reserved)
	copy(blob[lo.bitmapBytes:], updated)
	for i := int64(0); i < lo.trailingSectors; i++ {
		start := i * int64(dev.SectorSize())
		end := start + int64(dev.SectorSize())
		if err := dev.WriteSector(blob[start:end], lo.bitmapStartSector()+i); err != nil {
			return err
		}
	}
	return nil
}
