package png

// Option configures a Decoder.
type Option func(*options)

type options struct {
	verifyCRC bool
	maxPixels int64
}

func defaultOptions() options {
	return options{
		verifyCRC: false,
		maxPixels: 0,
	}
}

// WithVerifyCRC checks every chunk CRC and fails with *ChecksumError on a
// mismatch. Off by default.
func WithVerifyCRC(verify bool) Option {
	return func(o *options) {
		o.verifyCRC = verify
	}
}

// WithMaxPixels rejects images or frames larger than n pixels with an
// UnsupportedError. Zero means no limit.
func WithMaxPixels(n int64) Option {
	return func(o *options) {
		o.maxPixels = n
	}
}
