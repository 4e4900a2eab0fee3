package fieldkind

import (
	"reflect"
	"testing"

	"github.com/vango-dev/urlstore/internal/errors"
)

func TestNewSchema(t *testing.T) {
	s, err := NewSchema(Declaration{
		BoolKeys:    []string{"flying", "dancing", "flying"},
		NumberKeys:  []string{"level", "count"},
		JSONKeys:    []string{"birdlist"},
		RawJSONKeys: []string{"raw"},
	})
	if err != nil {
		t.Fatalf("NewSchema error: %v", err)
	}

	tests := map[string]Kind{
		"flying":   Bool,
		"dancing":  Bool,
		"count":    Number,
		"level":    Number,
		"birdlist": JSON,
		"raw":      RawJSON,
		"name":     Opaque,
	}
	for key, want := range tests {
		if got := s.Kind(key); got != want {
			t.Errorf("Kind(%q) = %v, want %v", key, got, want)
		}
	}

	if got := s.Keys(Bool); !reflect.DeepEqual(got, []string{"dancing", "flying"}) {
		t.Errorf("Keys(Bool) = %v", got)
	}
	if got := s.Keys(Number); !reflect.DeepEqual(got, []string{"count", "level"}) {
		t.Errorf("Keys(Number) = %v", got)
	}
	if s.Len() != 6 {
		t.Errorf("Len() = %d, want 6", s.Len())
	}

	d := s.Declaration()
	if !reflect.DeepEqual(d.JSONKeys, []string{"birdlist"}) || !reflect.DeepEqual(d.RawJSONKeys, []string{"raw"}) {
		t.Errorf("Declaration() = %+v", d)
	}
}

func TestNewSchemaRejectsConflicts(t *testing.T) {
	tests := []struct {
		name string
		decl Declaration
	}{
		{"bool and number", Declaration{BoolKeys: []string{"x"}, NumberKeys: []string{"x"}}},
		{"number and json", Declaration{NumberKeys: []string{"x"}, JSONKeys: []string{"x"}}},
		{"json and raw", Declaration{JSONKeys: []string{"x"}, RawJSONKeys: []string{"x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.decl)
			if !errors.HasCode(err, "E003") {
				t.Fatalf("expected E003, got %v", err)
			}
		})
	}
}

func TestMustSchemaPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustSchema should panic on conflict")
		}
	}()
	MustSchema(Declaration{BoolKeys: []string{"x"}, JSONKeys: []string{"x"}})
}

func TestNilSchema(t *testing.T) {
	var s *Schema
	if s.Kind("a") != Opaque || s.Keys(Bool) != nil || s.Len() != 0 {
		t.Error("nil schema should declare nothing")
	}
}

func TestKindString(t *testing.T) {
	want := map[Kind]string{Opaque: "opaque", Bool: "bool", Number: "number", JSON: "json", RawJSON: "rawjson"}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), s)
		}
	}
}
