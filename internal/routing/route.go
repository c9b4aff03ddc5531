package routing

import (
	"net/http"
	"strings"
)

// Definition is the contract with route producers (config files, code
// registration, generated tables): a pattern, the HTTP methods it serves,
// and an opaque handler reference the engine never interprets.
type Definition struct {
	Pattern string
	Methods []string
	Handler any
}

// CompiledRoute is an immutable compiled route. Instances are created by
// CompileRoutes and shared read-only between the index and concurrent
// resolutions.
type CompiledRoute struct {
	// Methods is the normalized (upper-case) method set. The entry "*"
	// matches any method.
	Methods map[string]struct{}

	// Handler is the opaque reference supplied by the route producer.
	Handler any

	// Pattern is the ordered list of compiled segments.
	Pattern []Segment

	// Path is the original pattern text.
	Path string

	// Priority is the specificity score; higher matches first.
	Priority int

	seq            int  // discovery order, breaks priority ties
	segmentCount   int  // len(Pattern)
	minSegments    int  // segments that must consume at least one part
	multiConsuming bool // pattern contains a multi-consuming segment
	static         bool // every segment is static
	trailingSlash  bool // original pattern text ends with "/"
}

// SegmentCount returns the number of compiled segments.
func (r *CompiledRoute) SegmentCount() int {
	return r.segmentCount
}

// IsStatic reports whether every segment of the route is static.
func (r *CompiledRoute) IsStatic() bool {
	return r.static
}

// MatchesMethod reports whether the route serves the given HTTP method.
// HEAD falls back to GET, mirroring net/http servers.
func (r *CompiledRoute) MatchesMethod(method string) bool {
	method = strings.ToUpper(method)
	if _, ok := r.Methods["*"]; ok {
		return true
	}
	if _, ok := r.Methods[method]; ok {
		return true
	}
	if method == http.MethodHead {
		_, ok := r.Methods[http.MethodGet]
		return ok
	}
	return false
}

// Variables holds the path variables extracted by a successful match. Named
// variables (including named multi-wildcards) land in Named; anonymous
// wildcards accumulate in Anonymous under the keys "*" and "**", in path
// order.
type Variables struct {
	Named     map[string]string
	Anonymous map[string][]string
}

func (v *Variables) bind(name, value string) {
	if v.Named == nil {
		v.Named = make(map[string]string, 4)
	}
	v.Named[name] = value
}

func (v *Variables) appendAnonymous(key, value string) {
	if v.Anonymous == nil {
		v.Anonymous = make(map[string][]string, 2)
	}
	v.Anonymous[key] = append(v.Anonymous[key], value)
}

// Match is the outcome of a successful resolution.
type Match struct {
	Route     *CompiledRoute
	Variables Variables
}

// splitPath normalizes a request path or route pattern into its non-empty
// parts. The engine receives already percent-decoded paths.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
