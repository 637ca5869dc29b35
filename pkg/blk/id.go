package blk

import "encoding/binary"

// Id is a non-negative integer handle minted by a container. It is always
// carried as a 64-bit value in memory; the container's IdCodec determines
// how many bytes it occupies on the wire (1, 2, 4 or 8).
type Id int64

// Sentinel is reserved by the multi-block layer (pkg/multiblock) to mark a
// chain's terminal pointer: it encodes the logical length L of the chain as
// the value -1-L. It is never a valid Id returned to a caller.
const Sentinel Id = -1

// EncodeSentinel packs a logical length into the multi-block terminator
// value -1-L.
func EncodeSentinel(length int64) int64 {
	return -1 - length
}

// DecodeSentinel extracts the logical length L from a terminator value
// produced by EncodeSentinel. ok is false if v is not a valid sentinel
// (i.e. v >= 0).
func DecodeSentinel(v int64) (length int64, ok bool) {
	if v >= 0 {
		return 0, false
	}
	return -1 - v, true
}

// Width is the number of bytes an IdCodec uses to represent an Id on disk
// or on a sector device.
type Width int

const (
	Width1 Width = 1
	Width2 Width = 2
	Width4 Width = 4
	Width8 Width = 8
)

// IdCodec encodes and decodes Ids to/from a fixed-size byte representation.
// All containers defined in this module use big-endian encoding, matching
// the block-file on-disk layout.
type IdCodec interface {
	// Width is the fixed number of bytes this codec reads and writes.
	Width() Width
	// Encode writes id into the first Width() bytes of dst and returns the
	// slice written. It panics if dst is too short.
	Encode(dst []byte, id Id) []byte
	// Decode reads an Id from the first Width() bytes of src.
	Decode(src []byte) Id
}

type idCodec struct{ width Width }

// NewIdCodec returns an IdCodec for the given width. w must be one of
// Width1, Width2, Width4, Width8.
func NewIdCodec(w Width) IdCodec {
	switch w {
	case Width1, Width2, Width4, Width8:
		return idCodec{width: w}
	default:
		panic("blk: invalid id width")
	}
}

func (c idCodec) Width() Width { return c.width }

func (c idCodec) Encode(dst []byte, id Id) []byte {
	switch c.width {
	case Width1:
		dst[0] = byte(id)
	case Width2:
		binary.BigEndian.PutUint16(dst, uint16(id))
	case Width4:
		binary.BigEndian.PutUint32(dst, uint32(id))
	case Width8:
		binary.BigEndian.PutUint64(dst, uint64(id))
	}
	return dst[:c.width]
}

func (c idCodec) Decode(src []byte) Id {
	switch c.width {
	case Width1:
		return Id(src[0])
	case Width2:
		return Id(binary.BigEndian.Uint16(src))
	case Width4:
		return Id(binary.BigEndian.Uint32(src))
	case Width8:
		return Id(int64(binary.BigEndian.Uint64(src)))
	}
	return 0
}
