package container

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Options is the wire representation of a component's configuration set —
// e.g. BufferedContainer's {write_through, clone_objects} or
// ConverterContainer's {serialization_mode, buffer_size}. Callers build it from whatever external
// source they have (flags, a parsed config file, a literal map); decoding
// and loading such a source is out of scope for this core.
type Options map[string]any

var validate = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// Decode populates dst (a pointer to a config struct tagged with
// `mapstructure` and `validate` struct tags) from o, then validates it.
// Mirrors the decode-then-validate flow used throughout this module's
// component configuration.
func Decode(o Options, dst any) error {
	if err := mapstructure.Decode(map[string]any(o), dst); err != nil {
		return fmt.Errorf("container: decoding options: %w", err)
	}
	if err := validate().Struct(dst); err != nil {
		return fmt.Errorf("container: invalid options: %w", err)
	}
	return nil
}
