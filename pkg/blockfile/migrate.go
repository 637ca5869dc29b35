package blockfile

import (
	"fmt"

	"github.com/vaultblock/storage/pkg/bitset"
)

// migrateLegacyIfNeeded converts an old single-file layout into the
// current five-file layout. If <prefix>.fat exists and <prefix>.ubm does
// not, the directory still holds an updated bitmap followed by a 16-byte
// trailer (blockSize:i32, size:i32, maxOffset:i64); migrating splits that
// into mtd/rbm/ubm and the legacy file becomes unreachable afterward.
func (c *Container) migrateLegacyIfNeeded() error {
	fatPath := c.path("fat")
	ubmPath := c.path("ubm")

	fatExists, err := c.ops.Exists(fatPath)
	if err != nil {
		return err
	}
	if !fatExists {
		return nil
	}
	ubmExists, err := c.ops.Exists(ubmPath)
	if err != nil {
		return err
	}
	if ubmExists {
		return nil
	}

	fat, err := c.ops.Open(fatPath, true)
	if err != nil {
		return err
	}
	length, err := fat.Length()
	if err != nil {
		fat.Close()
		return err
	}
	if length < 16 {
		fat.Close()
		return fmt.Errorf("blockfile: legacy file %q is too short (%d bytes)", fatPath, length)
	}
	trailer := make([]byte, 16)
	if err := fat.Seek(length - 16); err != nil {
		fat.Close()
		return err
	}
	if _, err := fat.Read(trailer); err != nil {
		fat.Close()
		return err
	}
	blockSize := bitset.Int32BE(trailer[0:4])
	size := bitset.Int32BE(trailer[4:8])
	// maxOffset (trailer[8:16]) is part of the legacy trailer but is not
	// used: migration leaves the data file (.ctr) as it is.
	if err := fat.SetLength(length - 16); err != nil {
		fat.Close()
		return err
	}
	if err := fat.Close(); err != nil {
		return err
	}

	if err := c.ops.Rename(fatPath, ubmPath); err != nil {
		return err
	}

	ubm, err := c.ops.Open(ubmPath, true)
	if err != nil {
		return err
	}
	ubmLen, err := ubm.Length()
	if err != nil {
		ubm.Close()
		return err
	}
	pattern := make([]byte, ubmLen)
	if ubmLen > 0 {
		if err := ubm.Seek(0); err != nil {
			ubm.Close()
			return err
		}
		if _, err := ubm.Read(pattern); err != nil {
			ubm.Close()
			return err
		}
	}
	if err := ubm.Close(); err != nil {
		return err
	}

	rbm, err := c.ops.Open(c.path("rbm"), true)
	if err != nil {
		return err
	}
	if err := rbm.SetLength(int64(len(pattern))); err != nil {
		rbm.Close()
		return err
	}
	if len(pattern) > 0 {
		if err := rbm.Seek(0); err != nil {
			rbm.Close()
			return err
		}
		if _, err := rbm.Write(pattern, 0, len(pattern)); err != nil {
			rbm.Close()
			return err
		}
	}
	if err := rbm.Close(); err != nil {
		return err
	}

	mtd, err := c.ops.Open(c.path("mtd"), true)
	if err != nil {
		return err
	}
	if err := writeMetadata(mtd, int(blockSize), int(size)); err != nil {
		mtd.Close()
		return err
	}
	return mtd.Close()
}
