package cellar

import (
	"log/slog"

	"github.com/hupe1980/cellar/codec"
	"github.com/hupe1980/cellar/kv"
)

type options struct {
	codec  codec.Codec
	origin kv.Key
	logger *Logger
}

// Option configures Store constructor behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. codec-specific constructor variants).
type Option func(*options)

// WithCodec configures the codec used for encoding and decoding cell
// values.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithOrigin configures the first storage key the store's allocator hands
// out. The default origin is the zero key.
//
// Two stores over the same backend must use disjoint key ranges; origin is
// the knob for that.
func WithOrigin(origin kv.Key) Option {
	return func(o *options) {
		o.origin = origin
	}
}

// WithLogger configures structured logging for allocation and flush
// operations. Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := cellar.NewJSONLogger(slog.LevelInfo)
//	store := cellar.Open(backend, cellar.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:  nil,
		logger: NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
