package fieldkind

import (
	"fmt"
	"sort"

	"github.com/vango-dev/urlstore/internal/errors"
)

// Kind is the declared type of a state key.
type Kind int

const (
	// Opaque keys are not declared and pass through untouched.
	Opaque Kind = iota
	Bool
	Number
	JSON
	RawJSON
)

// Order is the order transforms run in, for both directions.
var Order = []Kind{Bool, Number, JSON, RawJSON}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Number:
		return "number"
	case JSON:
		return "json"
	case RawJSON:
		return "rawjson"
	default:
		return "opaque"
	}
}

// Declaration lists the typed keys, one set per kind.
type Declaration struct {
	BoolKeys    []string
	NumberKeys  []string
	JSONKeys    []string
	RawJSONKeys []string
}

// Schema maps each declared key to its kind.
type Schema struct {
	kinds map[string]Kind
	keys  map[Kind][]string
}

// NewSchema validates d and builds a Schema. A key listed under two
// different kinds is rejected with E003; a key repeated within one set is
// accepted.
func NewSchema(d Declaration) (*Schema, error) {
	s := &Schema{
		kinds: make(map[string]Kind),
		keys:  make(map[Kind][]string),
	}
	sets := []struct {
		kind Kind
		keys []string
	}{
		{Bool, d.BoolKeys},
		{Number, d.NumberKeys},
		{JSON, d.JSONKeys},
		{RawJSON, d.RawJSONKeys},
	}
	for _, set := range sets {
		for _, key := range set.keys {
			prev, seen := s.kinds[key]
			if seen && prev == set.kind {
				continue
			}
			if seen {
				return nil, errors.New("E003").
					WithField(key).
					WithDetail(fmt.Sprintf("Key %q is declared as both %s and %s.", key, prev, set.kind)).
					WithSuggestion("Remove the key from all but one of the key sets")
			}
			s.kinds[key] = set.kind
			s.keys[set.kind] = append(s.keys[set.kind], key)
		}
	}
	for _, keys := range s.keys {
		sort.Strings(keys)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(d Declaration) *Schema {
	s, err := NewSchema(d)
	if err != nil {
		panic(err)
	}
	return s
}

// Kind returns the declared kind of key, or Opaque.
func (s *Schema) Kind(key string) Kind {
	if s == nil {
		return Opaque
	}
	return s.kinds[key]
}

// Keys returns the sorted keys declared with kind k.
func (s *Schema) Keys(k Kind) []string {
	if s == nil {
		return nil
	}
	return s.keys[k]
}

// Len returns the number of declared keys.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.kinds)
}

// Declaration returns the key sets the schema was built from.
func (s *Schema) Declaration() Declaration {
	return Declaration{
		BoolKeys:    append([]string(nil), s.Keys(Bool)...),
		NumberKeys:  append([]string(nil), s.Keys(Number)...),
		JSONKeys:    append([]string(nil), s.Keys(JSON)...),
		RawJSONKeys: append([]string(nil), s.Keys(RawJSON)...),
	}
}
