// Package rawdev defines the raw sector device collaborator consumed by
// RawAccessContainer, along with an in-memory reference implementation
// and a file-backed one for integration-style tests.
package rawdev

// Device is a fixed-geometry block device: a linear sequence of
// NumSectors() sectors, each exactly SectorSize() bytes.
type Device interface {
	// SectorSize returns the fixed size of every sector in bytes.
	SectorSize() int

	// NumSectors returns the total number of addressable sectors.
	NumSectors() int64

	// ReadSector reads sector idx into buf, which must have length
	// SectorSize().
	ReadSector(buf []byte, idx int64) error

	// WriteSector writes buf (which must have length SectorSize()) to
	// sector idx.
	WriteSector(buf []byte, idx int64) error

	// Close releases resources held by the device.
	Close() error
}
