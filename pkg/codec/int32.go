package codec

import (
	"fmt"

	"github.com/vaultblock/storage/pkg/bitset"
)

// Int32Codec is a fixed 4-byte big-endian codec for int32 values.
type Int32Codec struct{}

var _ Codec[int32] = Int32Codec{}

func (Int32Codec) Encode(v int32) ([]byte, error) {
	buf := make([]byte, 4)
	bitset.PutInt32BE(buf, v)
	return buf, nil
}

func (Int32Codec) Decode(b []byte) (int32, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("codec: int32 requires 4 bytes, got %d", len(b))
	}
	return bitset.Int32BE(b[:4]), nil
}

func (Int32Codec) EncodedSize(int32) (int, bool) {
	return 4, true
}
