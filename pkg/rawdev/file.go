package rawdev

import (
	"fmt"
	"os"
)

// File is a Device backed by a fixed-length regular file, standing in for
// a real block device in environments without one (test harnesses, CI).
// It is not safe for concurrent use.
type File struct {
	f          *os.File
	sectorSize int
	numSectors int64
}

// OpenFile opens (creating if necessary) path as a Device of numSectors
// sectors of sectorSize bytes each, extending the file to the required
// length if it is smaller.
func OpenFile(path string, sectorSize int, numSectors int64) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	want := int64(sectorSize) * numSectors
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() < want {
		if err := f.Truncate(want); err != nil {
			f.Close()
			return nil, err
		}
	}
	return &File{f: f, sectorSize: sectorSize, numSectors: numSectors}, nil
}

func (d *File) SectorSize() int   { return d.sectorSize }
func (d *File) NumSectors() int64 { return d.numSectors }

func (d *File) ReadSector(buf []byte, idx int64) error {
	if err := d.check(buf, idx); err != nil {
		return err
	}
	_, err := d.f.ReadAt(buf, idx*int64(d.sectorSize))
	return err
}

func (d *File) WriteSector(buf []byte, idx int64) error {
	if err := d.check(buf, idx); err != nil {
		return err
	}
	_, err := d.f.WriteAt(buf, idx*int64(d.sectorSize))
	return err
}

func (d *File) check(buf []byte, idx int64) error {
	if len(buf) != d.sectorSize {
		return fmt.Errorf("rawdev: buffer length %d != sector size %d", len(buf), d.sectorSize)
	}
	if idx < 0 || idx >= d.numSectors {
		return fmt.Errorf("rawdev: sector index %d out of range [0,%d)", idx, d.numSectors)
	}
	return nil
}

func (d *File) Close() error {
	return d.f.Close()
}
