package buffered

// Config selects the cache-coherence mode of a BufferedContainer. The
// zero value is the default configuration: write-back, no cloning.
type Config struct {
	// WriteThrough, when true, writes every Update to both the cache and
	// the wrapped container immediately. The zero value is write-back:
	// an Update is only reflected in the wrapped container once the
	// cache entry is flushed.
	WriteThrough bool `mapstructure:"write_through"`

	// CloneObjects, when true, returns a defensive copy of every Block
	// handed back by Get instead of the cache's own backing buffer.
	CloneObjects bool `mapstructure:"clone_objects"`
}
