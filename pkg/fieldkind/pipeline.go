package fieldkind

import (
	"fmt"

	"github.com/vango-dev/urlstore/internal/errors"
)

// Pipeline applies the per-kind transforms of a Schema to a state map.
// All methods modify the map they are given; callers pass a copy when the
// original must survive.
type Pipeline struct {
	schema        *Schema
	strictNumbers bool
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithStrictNumbers makes Deserialize report E002 for number fields whose
// text does not parse, instead of storing false.
func WithStrictNumbers(strict bool) PipelineOption {
	return func(p *Pipeline) {
		p.strictNumbers = strict
	}
}

// NewPipeline returns a Pipeline for schema. A nil schema declares nothing.
func NewPipeline(schema *Schema, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{schema: schema}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Schema returns the schema the pipeline was built with.
func (p *Pipeline) Schema() *Schema {
	return p.schema
}

// Serialize converts every declared field of state to its wire string.
// Boolean keys are always written, absent ones as "no". Other kinds are
// only converted when present.
func (p *Pipeline) Serialize(state map[string]any) error {
	for _, kind := range Order {
		for _, key := range p.schema.Keys(kind) {
			v, present := state[key]
			if kind == Bool {
				state[key] = SerializeBool(v)
				continue
			}
			if !present {
				continue
			}
			s, err := serializeValue(kind, v)
			if err != nil {
				return errors.FromError(err, "E004").WithField(key)
			}
			state[key] = s
		}
	}
	return nil
}

func serializeValue(kind Kind, v any) (string, error) {
	switch kind {
	case Bool:
		return SerializeBool(v), nil
	case Number:
		return SerializeNumber(v), nil
	case JSON:
		return SerializeJSON(v)
	case RawJSON:
		return SerializeRawJSON(v)
	}
	return SerializeNumber(v), nil
}

// Deserialize converts every declared field of state from its wire string
// back to a typed value. Absent keys stay absent.
func (p *Pipeline) Deserialize(state map[string]any) error {
	for _, kind := range Order {
		for _, key := range p.schema.Keys(kind) {
			v, present := state[key]
			if !present {
				continue
			}
			switch kind {
			case Bool:
				state[key] = DeserializeBool(v)
			case Number:
				n := DeserializeNumber(v)
				_, failed := n.(bool)
				if s, isString := v.(string); p.strictNumbers && failed && isString {
					return errors.New("E002").
						WithField(key).
						WithInput(s, -1).
						WithDetail(fmt.Sprintf("%q is not a number.", s))
				}
				state[key] = n
			case JSON, RawJSON:
				deserialize := DeserializeJSON
				if kind == RawJSON {
					deserialize = DeserializeRawJSON
				}
				out, err := deserialize(v)
				if err != nil {
					return errors.FromError(err, "E001").WithField(key)
				}
				state[key] = out
			}
		}
	}
	return nil
}

// Normalize prepares a state whose values are still in wire form for
// re-encoding. Booleans are coerced to "yes"/"no" (absent ones to "no");
// string values of other declared kinds are already wire text and are
// kept; non-string values of those kinds are serialized.
func (p *Pipeline) Normalize(state map[string]any) error {
	for _, kind := range Order {
		for _, key := range p.schema.Keys(kind) {
			v, present := state[key]
			if kind == Bool {
				state[key] = SerializeBool(DeserializeBool(v))
				continue
			}
			if !present {
				continue
			}
			if _, isString := v.(string); isString {
				continue
			}
			s, err := serializeValue(kind, v)
			if err != nil {
				return errors.FromError(err, "E004").WithField(key)
			}
			state[key] = s
		}
	}
	return nil
}
