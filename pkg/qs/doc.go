// Package qs converts between nested key-value structures and URL query
// strings using bracket-path nesting.
//
// A decoded query is a map[string]any whose leaves are strings and whose
// containers are map[string]any and []any:
//
//	qs.Decode("a[0][name]=Mockingbird&count=5")
//	// map[string]any{
//	//     "a":     []any{map[string]any{"name": "Mockingbird"}},
//	//     "count": "5",
//	// }
//
// Encoding is the inverse. Object keys are emitted in sorted order at every
// level, so the same logical value always produces the same string:
//
//	s, err := qs.Encode(map[string]any{"name": "birds", "count": 5})
//	// s == "count=5&name=birds"
//
// # Hooks
//
// By default tokens are percent-encoded per RFC 3986 and decoded with
// '+' treated as a space. Both directions accept a hook that sees every key
// token and every value token separately, along with the top-level key that
// owns it:
//
//	shift := func(raw string, tok qs.Token, owner string) string {
//	    if tok == qs.TokenKey {
//	        return raw
//	    }
//	    return rot13(raw)
//	}
//	s, err := qs.Encode(v, qs.WithEncoder(shift))
//
// [Verbatim] passes tokens through untouched. It is the "no encode" and
// "no decode" mode used when values were escaped upstream.
package qs
