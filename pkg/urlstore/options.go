package urlstore

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/urlstore/pkg/fieldkind"
	"github.com/vango-dev/urlstore/pkg/qs"
)

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	decl          fieldkind.Declaration
	defaults      State
	onUpdate      func(State)
	encoder       qs.EncodeFunc
	decoder       qs.DecodeFunc
	strictNumbers bool
	logger        *slog.Logger
	metrics       *Metrics
	tracer        trace.Tracer
}

// WithOnUpdate registers fn to receive the merged state after every write.
func WithOnUpdate(fn func(State)) Option {
	return func(c *storeConfig) {
		c.onUpdate = fn
	}
}

// WithDefaults sets the values merged underneath the fragment on every
// read. The map is copied; later changes to it have no effect.
func WithDefaults(defaults State) Option {
	return func(c *storeConfig) {
		c.defaults = cloneState(defaults)
	}
}

// WithBoolKeys declares keys written as "yes"/"no".
func WithBoolKeys(keys ...string) Option {
	return func(c *storeConfig) {
		c.decl.BoolKeys = append(c.decl.BoolKeys, keys...)
	}
}

// WithNumberKeys declares keys parsed as numbers on read.
func WithNumberKeys(keys ...string) Option {
	return func(c *storeConfig) {
		c.decl.NumberKeys = append(c.decl.NumberKeys, keys...)
	}
}

// WithJSONKeys declares keys stored as JSON with '&', '=' and '+' escaped.
func WithJSONKeys(keys ...string) Option {
	return func(c *storeConfig) {
		c.decl.JSONKeys = append(c.decl.JSONKeys, keys...)
	}
}

// WithRawJSONKeys declares keys stored as plain JSON.
func WithRawJSONKeys(keys ...string) Option {
	return func(c *storeConfig) {
		c.decl.RawJSONKeys = append(c.decl.RawJSONKeys, keys...)
	}
}

// WithEncoder replaces percent encoding of fragment tokens.
func WithEncoder(fn qs.EncodeFunc) Option {
	return func(c *storeConfig) {
		c.encoder = fn
	}
}

// WithDecoder replaces percent decoding of fragment tokens.
func WithDecoder(fn qs.DecodeFunc) Option {
	return func(c *storeConfig) {
		c.decoder = fn
	}
}

// WithStrictNumbers makes reads fail with E002 when a number key holds
// text that does not parse, instead of yielding false.
func WithStrictNumbers(strict bool) Option {
	return func(c *storeConfig) {
		c.strictNumbers = strict
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *storeConfig) {
		c.logger = logger
	}
}

// WithMetrics records store activity in m.
func WithMetrics(m *Metrics) Option {
	return func(c *storeConfig) {
		c.metrics = m
	}
}

// WithTracer sets the tracer used for store spans. Default: the global
// OpenTelemetry tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *storeConfig) {
		c.tracer = tracer
	}
}
