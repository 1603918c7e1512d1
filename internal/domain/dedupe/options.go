package dedupe

// Option applies a configuration option to the request deduper.
type Option func(*requestDeduper)

// WithMaxSize sets how many request ids are remembered.
// A non-positive size keeps every id.
func WithMaxSize(maxSize int) Option {
	return func(d *requestDeduper) {
		d.maxSize = maxSize
	}
}
