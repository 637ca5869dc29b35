package rawdev

import "fmt"

// Memory is an in-memory Device, useful for tests and for short-lived
// scratch devices. It is not safe for concurrent use.
type Memory struct {
	sectorSize int
	sectors    [][]byte
	closed     bool
}

// NewMemory returns a Device of numSectors sectors, each sectorSize bytes,
// all zeroed.
func NewMemory(sectorSize int, numSectors int64) *Memory {
	sectors := make([][]byte, numSectors)
	for i := range sectors {
		sectors[i] = make([]byte, sectorSize)
	}
	return &Memory{sectorSize: sectorSize, sectors: sectors}
}

func (m *Memory) SectorSize() int    { return m.sectorSize }
func (m *Memory) NumSectors() int64  { return int64(len(m.sectors)) }

func (m *Memory) ReadSector(buf []byte, idx int64) error {
	if m.closed {
		return fmt.Errorf("rawdev: device closed")
	}
	if err := m.check(buf, idx); err != nil {
		return err
	}
	copy(buf, m.sectors[idx])
	return nil
}

func (m *Memory) WriteSector(buf []byte, idx int64) error {
	if m.closed {
		return fmt.Errorf("rawdev: device closed")
	}
	if err := m.check(buf, idx); err != nil {
		return err
	}
	copy(m.sectors[idx], buf)
	return nil
}

func (m *Memory) check(buf []byte, idx int64) error {
	if len(buf) != m.sectorSize {
		return fmt.Errorf("rawdev: buffer length %d != sector size %d", len(buf), m.sectorSize)
	}
	if idx < 0 || idx >= int64(len(m.sectors)) {
		return fmt.Errorf("rawdev: sector index %d out of range [0,%d)", idx, len(m.sectors))
	}
	return nil
}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}
