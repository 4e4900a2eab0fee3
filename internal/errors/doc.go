// Package errors provides structured, actionable error messages for urlstore.
//
// Every failure the codec can report carries a stable code (e.g. "E001")
// that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Error Categories
//
// Errors are organized into categories:
//   - codec: wire-format problems (malformed JSON in a field, unencodable values)
//   - schema: invalid field kind declarations
//   - config: urlstore.json / urlstore.yaml problems
//   - protocol: remote location message problems
//   - cli: bad command line input
//
// # Usage
//
//	err := errors.New("E001").
//	    WithField("birdlist").
//	    WithInput(`[{"name":"Crow"`, 15).
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E001: Malformed JSON in field
//	//
//	//   field birdlist
//	//
//	//     [{"name":"Crow"
//	//                    ^
//	//
//	//   Learn more: https://urlstore.dev/docs/errors/E001
package errors
