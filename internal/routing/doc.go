// Package routing implements route pattern compilation, indexing, and
// request resolution.
//
// Route patterns are declarative strings such as
//
//	/users/{id:int}/posts/{slug}
//	/files/{path:**}
//	/assets/v{version:int}.css
//
// Each pattern is compiled once into a list of typed segments, assigned an
// integer specificity priority, and inserted into a multi-tier index
// (by HTTP method, by segment count, by positional static literal, and a
// prefix trie over fully static routes). Resolution queries the index for a
// small candidate set, then confirms candidates segment by segment, most
// specific first.
//
// # Usage
//
//	r := routing.NewResolver()
//	r.Load([]routing.Definition{
//	    {Pattern: "/users/{id:int}", Methods: []string{"GET"}, Handler: "users.show"},
//	})
//
//	match, err := r.Resolve("GET", "/users/42")
//	if err != nil {
//	    // errors.Is(err, util.ErrNotFound)
//	}
//	_ = match.Variables.Named["id"] // "42"
//
// The published index is immutable; Load builds a fresh index and swaps it
// atomically, so Resolve never takes a lock.
package routing
