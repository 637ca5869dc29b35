package codec

import (
	"bytes"
	"encoding/gob"
)

// GobCodec encodes values of type T with encoding/gob. It is variable-size
// and suited to types without a more specific codec.
type GobCodec[T any] struct{}

var _ Codec[struct{}] = GobCodec[struct{}]{}

func (GobCodec[T]) Encode(v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (GobCodec[T]) Decode(b []byte) (T, error) {
	var v T
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

func (GobCodec[T]) EncodedSize(T) (int, bool) {
	return 0, false
}
