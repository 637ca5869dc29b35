// Package fsops defines the filesystem operations collaborator consumed by
// BlockFileContainer — an injected open/rename/delete/length/seek/
// read/write interface over named files — along with an os-backed
// default implementation. Serialization, replacement policy and
// raw-device access are separate collaborators (pkg/codec, pkg/memreplace,
// pkg/rawdev); this package is concerned only with ordinary named files.
package fsops

// Ops opens, renames, checks for, and deletes named files. Implementations
// are not required to be safe for concurrent use.
type Ops interface {
	// Open returns a random-access Handle to path. If rw is false the
	// handle is read-only and Write/SetLength must return an error.
	// If rw is true the file is created if it does not already exist.
	Open(path string, rw bool) (Handle, error)

	// Exists reports whether path names an existing file.
	Exists(path string) (bool, error)

	// Rename renames the file at oldpath to newpath, replacing newpath if
	// it already exists.
	Rename(oldpath, newpath string) error

	// Delete removes the file at path. It is not an error if path does
	// not exist.
	Delete(path string) error
}

// Handle is a random-access file handle: seek, length, setLength, read,
// write, close.
type Handle interface {
	// Seek repositions the handle's cursor to offset bytes from the
	// start of the file.
	Seek(offset int64) error

	// Length returns the current size of the file in bytes.
	Length() (int64, error)

	// SetLength truncates or extends the file to exactly n bytes. When
	// extending, the new region reads as zero bytes.
	SetLength(n int64) error

	// Read reads len(buf) bytes starting at the current cursor position,
	// advancing the cursor by the number of bytes read.
	Read(buf []byte) (int, error)

	// Write writes buf[off:off+length] at the current cursor position,
	// advancing the cursor by length.
	Write(buf []byte, off, length int) (int, error)

	// Close releases the handle. It must be safe to call Close more than
	// once.
	Close() error
}
