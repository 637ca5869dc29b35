package converter

// SerializationMode selects the output-byte builder strategy used to
// capture a codec's encoded bytes before they are wrapped in a Block. All
// three modes must produce byte-for-byte identical output for the same
// input and codec; they differ only in how the bytes are staged.
type SerializationMode string

const (
	ModeByteArray  SerializationMode = "BYTE_ARRAY"
	ModeByteBuffer SerializationMode = "BYTE_BUFFER"
	ModeUnsafe     SerializationMode = "UNSAFE"
)

// Config selects the serialization strategy for a ConverterContainer.
type Config struct {
	SerializationMode SerializationMode `mapstructure:"serialization_mode" validate:"required,oneof=BYTE_ARRAY BYTE_BUFFER UNSAFE"`
	BufferSize        int               `mapstructure:"buffer_size" validate:"gte=0"`
}

// stage runs encoded through the configured builder strategy. All three
// branches return the same bytes; BYTE_BUFFER and UNSAFE exist to give
// callers a way to express "copy through a reusable staging buffer"
// without changing the bytes the wrapped container ultimately receives.
func (c Config) stage(encoded []byte) []byte {
	switch c.SerializationMode {
	case ModeByteBuffer:
		var buf []byte
		if c.BufferSize > len(encoded) {
			buf = make([]byte, 0, c.BufferSize)
		} else {
			buf = make([]byte, 0, len(encoded))
		}
		buf = append(buf, encoded...)
		return buf
	case ModeUnsafe:
		buf := make([]byte, len(encoded))
		copy(buf, encoded)
		return buf
	default: // ModeByteArray
		return encoded
	}
}
