// Package urlstore keeps application state in the fragment of a URL.
//
// A Store reads the fragment through a Location, decodes it with package
// qs, and converts declared keys to typed values with package fieldkind.
// Writes go the other way and always produce a canonical fragment with
// top-level keys in ascending order.
//
// Example:
//
//	loc := urlstore.NewMemoryLocation("https://cat.net/hey#count=5&name=birds")
//	store, err := urlstore.New(loc,
//	    urlstore.WithDefaults(urlstore.State{"flying": true}),
//	    urlstore.WithBoolKeys("flying", "dancing"),
//	    urlstore.WithNumberKeys("count", "level"),
//	    urlstore.WithOnUpdate(func(s urlstore.State) { render(s) }),
//	)
//	if err != nil {
//	    return err
//	}
//	_ = store.Write(urlstore.State{"level": 3})
//	// loc.Fragment() == "#count=5&dancing=no&flying=yes&level=3&name=birds"
//
// A Store is not safe for concurrent use. Locations that deliver change
// notifications from their own goroutine must serialize them with every
// other call into the Store.
package urlstore
