package qs

// Token tells a hook whether it is looking at a key or a value.
type Token int

const (
	// TokenKey is a (possibly bracketed) key such as "birdlist[0][name]".
	TokenKey Token = iota

	// TokenValue is the text to the right of '='.
	TokenValue
)

// String returns "key" or "value".
func (t Token) String() string {
	if t == TokenKey {
		return "key"
	}
	return "value"
}

// EncodeFunc turns a raw token into the text placed on the wire.
// owner is the top-level key the token belongs to.
type EncodeFunc func(raw string, tok Token, owner string) string

// DecodeFunc turns wire text back into a raw token. For key tokens owner is
// empty because the key has not been decoded yet.
type DecodeFunc func(raw string, tok Token, owner string) string

// Options controls encoding and decoding.
type Options struct {
	// Encoder transforms tokens on Encode. Default: PercentEncode.
	Encoder EncodeFunc

	// Decoder transforms tokens on Decode. Default: PercentDecode.
	Decoder DecodeFunc

	// Separators split pairs on Decode. Default: '&'.
	Separators []rune

	// Depth is the maximum number of bracket segments below the top-level
	// key. Anything deeper is kept as one literal segment. Default: 5.
	Depth int

	// ArrayLimit is the largest index that still produces an array.
	// Larger indices turn the container into an object. Default: 20.
	ArrayLimit int

	// ParameterLimit caps the number of pairs read by Decode. Zero means no
	// limit. Default: 1000.
	ParameterLimit int
}

// DefaultOptions are used when no Option overrides them.
var DefaultOptions = Options{
	Separators:     []rune{'&'},
	Depth:          5,
	ArrayLimit:     20,
	ParameterLimit: 1000,
}

// Option is a functional option for Encode and Decode.
type Option func(*Options)

// WithEncoder sets the token encoder.
func WithEncoder(fn EncodeFunc) Option {
	return func(o *Options) {
		o.Encoder = fn
	}
}

// WithDecoder sets the token decoder.
func WithDecoder(fn DecodeFunc) Option {
	return func(o *Options) {
		o.Decoder = fn
	}
}

// WithSeparators sets the pair separators used by Decode.
// Passing '&' and ';' mirrors PHP's arg_separator.input.
func WithSeparators(seps ...rune) Option {
	return func(o *Options) {
		o.Separators = seps
	}
}

// WithDepth sets the maximum bracket depth.
func WithDepth(depth int) Option {
	return func(o *Options) {
		o.Depth = depth
	}
}

// WithArrayLimit sets the largest index that still produces an array.
func WithArrayLimit(limit int) Option {
	return func(o *Options) {
		o.ArrayLimit = limit
	}
}

// WithParameterLimit caps the number of pairs read by Decode.
func WithParameterLimit(limit int) Option {
	return func(o *Options) {
		o.ParameterLimit = limit
	}
}

func newOptions(opts []Option) Options {
	o := DefaultOptions
	o.Separators = append([]rune(nil), DefaultOptions.Separators...)
	for _, opt := range opts {
		opt(&o)
	}
	if o.Encoder == nil {
		o.Encoder = PercentEncode
	}
	if o.Decoder == nil {
		o.Decoder = PercentDecode
	}
	if len(o.Separators) == 0 {
		o.Separators = []rune{'&'}
	}
	if o.Depth < 0 {
		o.Depth = 0
	}
	return o
}
