package fsops

import (
	"io"
	"os"
	"path/filepath"
)

// OS is the default Ops implementation, backed directly by the os package.
// There is deliberately no package-level singleton; callers construct one
// with New, keeping defaults as regular factory functions rather than
// process-wide state.
type OS struct {
	// DirMode is used if a parent directory needs to be created for Open.
	// Zero means 0o755.
	DirMode os.FileMode
	// FileMode is used when creating new files. Zero means 0o644.
	FileMode os.FileMode
}

// New returns an Ops backed by the local filesystem with default modes.
func New() *OS {
	return &OS{}
}

func (o *OS) dirMode() os.FileMode {
	if o.DirMode == 0 {
		return 0o755
	}
	return o.DirMode
}

func (o *OS) fileMode() os.FileMode {
	if o.FileMode == 0 {
		return 0o644
	}
	return o.FileMode
}

func (o *OS) Open(path string, rw bool) (Handle, error) {
	flag := os.O_RDONLY
	if rw {
		flag = os.O_RDWR | os.O_CREATE
		if err := os.MkdirAll(filepath.Dir(path), o.dirMode()); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, flag, o.fileMode())
	if err != nil {
		return nil, err
	}
	return &osHandle{f: f}, nil
}

func (o *OS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (o *OS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (o *OS) Delete(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

type osHandle struct {
	f *os.File
}

func (h *osHandle) Seek(offset int64) error {
	_, err := h.f.Seek(offset, io.SeekStart)
	return err
}

func (h *osHandle) Length() (int64, error) {
	fi, err := h.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (h *osHandle) SetLength(n int64) error {
	return h.f.Truncate(n)
}

func (h *osHandle) Read(buf []byte) (int, error) {
	return io.ReadFull(h.f, buf)
}

func (h *osHandle) Write(buf []byte, off, length int) (int, error) {
	return h.f.Write(buf[off : off+length])
}

func (h *osHandle) Close() error {
	return h.f.Close()
}
