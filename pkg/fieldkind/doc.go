// Package fieldkind declares which state keys carry typed values and
// converts those values to and from their string form on the wire.
//
// A Schema assigns each declared key exactly one Kind. Undeclared keys are
// opaque and never touched. The Pipeline applies the per-kind transforms in
// a fixed order (Bool, Number, JSON, RawJSON) in both directions:
//
//	schema, err := fieldkind.NewSchema(fieldkind.Declaration{
//	    BoolKeys:   []string{"flying"},
//	    NumberKeys: []string{"count"},
//	    JSONKeys:   []string{"birdlist"},
//	})
//	p := fieldkind.NewPipeline(schema)
//
//	state := map[string]any{"flying": true, "count": 5}
//	_ = p.Serialize(state) // state == {"flying": "yes", "count": "5"}
//	_ = p.Deserialize(state) // state == {"flying": true, "count": 5.0}
//
// Booleans travel as "yes"/"no". JSON fields are JSON-encoded and then have
// '&', '=' and '+' replaced by "%26", "%3D" and "%2B" so they survive a
// transport that does not percent-encode. RawJSON fields skip that step.
package fieldkind
