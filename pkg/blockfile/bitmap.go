package blockfile

import (
	"github.com/vaultblock/storage/pkg/bitset"
	"github.com/vaultblock/storage/pkg/fsops"
)

// testBit reports whether bit n of the bitmap file h is set. A bit beyond
// the current file length reads as unset, matching a freshly appended
// (zero) byte.
func testBit(h fsops.Handle, n int) (bool, error) {
	length, err := h.Length()
	if err != nil {
		return false, err
	}
	byteIdx := n / 8
	if int64(byteIdx) >= length {
		return false, nil
	}
	buf := make([]byte, 1)
	if err := h.Seek(int64(byteIdx)); err != nil {
		return false, err
	}
	if _, err := h.Read(buf); err != nil {
		return false, err
	}
	return bitset.Test(buf, n%8), nil
}

// setBit sets or clears bit n of the bitmap file h, growing the file with
// zero bytes first if n falls beyond its current length.
func setBit(h fsops.Handle, n int, value bool) error {
	length, err := h.Length()
	if err != nil {
		return err
	}
	byteIdx := n / 8
	if int64(byteIdx) >= length {
		if err := h.SetLength(int64(byteIdx) + 1); err != nil {
			return err
		}
		length = int64(byteIdx) + 1
	}
	buf := make([]byte, 1)
	if err := h.Seek(int64(byteIdx)); err != nil {
		return err
	}
	if _, err := h.Read(buf); err != nil {
		return err
	}
	if value {
		bitset.Set(buf, n%8)
	} else {
		bitset.Clear(buf, n%8)
	}
	if err := h.Seek(int64(byteIdx)); err != nil {
		return err
	}
	_, err = h.Write(buf, 0, 1)
	return err
}

// growBitmapFile ensures the bitmap file has at least the byte covering
// bit n, without touching its value. Reserve grows both bitmap files to
// the same length so they stay aligned, but only sets the reserved
// bitmap's bit — the updated bitmap's bit must remain 0 immediately after
// Reserve, since a slot isn't "updated" until its first Update.
func growBitmapFile(h fsops.Handle, n int) error {
	length, err := h.Length()
	if err != nil {
		return err
	}
	byteIdx := n / 8
	if int64(byteIdx) >= length {
		return h.SetLength(int64(byteIdx) + 1)
	}
	return nil
}
