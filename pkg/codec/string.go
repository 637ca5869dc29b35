package codec

import (
	"fmt"

	"github.com/vaultblock/storage/pkg/bitset"
)

// StringCodec is a variable-size codec for strings: a 4-byte big-endian
// length prefix followed by the UTF-8 bytes.
type StringCodec struct{}

var _ Codec[string] = StringCodec{}

func (StringCodec) Encode(v string) ([]byte, error) {
	buf := make([]byte, 4+len(v))
	bitset.PutUint32BE(buf[0:4], uint32(len(v)))
	copy(buf[4:], v)
	return buf, nil
}

func (StringCodec) Decode(b []byte) (string, error) {
	if len(b) < 4 {
		return "", fmt.Errorf("codec: string requires a 4-byte length prefix, got %d bytes", len(b))
	}
	n := int(bitset.Uint32BE(b[0:4]))
	if len(b) < 4+n {
		return "", fmt.Errorf("codec: string length prefix %d exceeds available %d bytes", n, len(b)-4)
	}
	return string(b[4 : 4+n]), nil
}

func (StringCodec) EncodedSize(string) (int, bool) {
	return 0, false
}
