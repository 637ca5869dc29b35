// Package codec defines the value codec collaborator consumed by
// ConverterContainer, along with a handful of concrete codecs.
package codec

// Codec encodes and decodes values of type T to and from a byte
// representation. EncodedSize reports the encoded length of v and true if
// the codec produces a fixed size regardless of v's contents; it returns
// (0, false) for variable-size encodings.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(b []byte) (T, error)
	EncodedSize(v T) (int, bool)
}
