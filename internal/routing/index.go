package routing

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// positionIndex holds, for one path position, the routes that require a
// specific literal there. A route with a variable or wildcard at the
// position is deliberately absent: the positional filter may only exclude
// routes whose static requirement conflicts with the request.
type positionIndex struct {
	byLiteral   map[string]map[*CompiledRoute]struct{}
	constrained map[*CompiledRoute]struct{}
}

// RouteIndex is a pure projection of a compiled route set into four
// complementary lookup structures. It is built once, published, and never
// mutated afterwards; concurrent readers need no locking.
type RouteIndex struct {
	routes []*CompiledRoute

	byMethod  map[string][]*CompiledRoute
	anyMethod []*CompiledRoute

	bySegmentCount map[int][]*CompiledRoute

	// multiConsuming lists routes containing a multi-consuming segment.
	// Their fixed segment count does not bound the paths they can match,
	// so the segment-count tier admits them by minimum required length.
	multiConsuming []*CompiledRoute

	byPositionalStatic map[int]*positionIndex

	staticTrie *trieNode
}

// BuildIndex builds the index for a compiled route set in one pass per
// route, then orders every bucket by descending priority (discovery order
// breaks ties).
func BuildIndex(routes []*CompiledRoute) *RouteIndex {
	idx := &RouteIndex{
		routes:             routes,
		byMethod:           make(map[string][]*CompiledRoute),
		bySegmentCount:     make(map[int][]*CompiledRoute),
		byPositionalStatic: make(map[int]*positionIndex),
		staticTrie:         newTrieNode(),
	}

	for _, route := range routes {
		idx.addRoute(route)
	}

	for method := range idx.byMethod {
		sortByPriority(idx.byMethod[method])
	}
	sortByPriority(idx.anyMethod)
	for count := range idx.bySegmentCount {
		sortByPriority(idx.bySegmentCount[count])
	}
	sortByPriority(idx.multiConsuming)

	return idx
}

// addRoute registers one route in all four tiers.
func (idx *RouteIndex) addRoute(route *CompiledRoute) {
	for method := range route.Methods {
		if method == "*" {
			idx.anyMethod = append(idx.anyMethod, route)
		} else {
			idx.byMethod[method] = append(idx.byMethod[method], route)
		}
	}

	idx.bySegmentCount[route.segmentCount] = append(idx.bySegmentCount[route.segmentCount], route)
	if route.multiConsuming {
		idx.multiConsuming = append(idx.multiConsuming, route)
	}

	// Positional static literals. Positions after the first multi-consuming
	// segment shift at match time, so registration stops there; the matcher
	// verifies trailing statics.
	for i, seg := range route.Pattern {
		switch seg.Type {
		case SegmentStatic:
			idx.positionAt(i).add(seg.Original, route)
		case SegmentVariable, SegmentSingleWildcard, SegmentPartialVariable:
			// No static requirement at this position.
		case SegmentMultiWildcard, SegmentMultiWildcardVar:
			// Positions beyond this point are not fixed.
		default:
			panic(fmt.Sprintf("routing: unknown segment type %d in %q", seg.Type, route.Path))
		}
		if seg.MultiConsuming {
			break
		}
	}

	if route.static {
		idx.staticTrie.insert(splitPath(route.Path), route)
	}
}

func (idx *RouteIndex) positionAt(i int) *positionIndex {
	pos, ok := idx.byPositionalStatic[i]
	if !ok {
		pos = &positionIndex{
			byLiteral:   make(map[string]map[*CompiledRoute]struct{}),
			constrained: make(map[*CompiledRoute]struct{}),
		}
		idx.byPositionalStatic[i] = pos
	}
	return pos
}

func (p *positionIndex) add(literal string, route *CompiledRoute) {
	bucket, ok := p.byLiteral[literal]
	if !ok {
		bucket = make(map[*CompiledRoute]struct{})
		p.byLiteral[literal] = bucket
	}
	bucket[route] = struct{}{}
	p.constrained[route] = struct{}{}
}

// Routes returns the indexed route set in discovery order.
func (idx *RouteIndex) Routes() []*CompiledRoute {
	return idx.routes
}

// Len returns the number of indexed routes.
func (idx *RouteIndex) Len() int {
	return len(idx.routes)
}

// Candidates produces the pre-filtered candidate set for a request, ordered
// by descending priority. The index only narrows: for any request, the
// candidates always include every route a full linear scan would match.
func (idx *RouteIndex) Candidates(method string, parts []string) []*CompiledRoute {
	method = strings.ToUpper(method)
	if !idx.servesMethod(method) {
		return nil
	}

	set := make(map[*CompiledRoute]struct{}, 8)

	// Tier 2: segment count, widened by multi-consuming routes whose
	// minimum required length fits the request.
	for _, route := range idx.bySegmentCount[len(parts)] {
		if route.MatchesMethod(method) {
			set[route] = struct{}{}
		}
	}
	for _, route := range idx.multiConsuming {
		if route.minSegments <= len(parts) && route.MatchesMethod(method) {
			set[route] = struct{}{}
		}
	}

	// Tier 3: positional static literals. Only routes with a conflicting
	// static requirement at a position are excluded.
	for i, part := range parts {
		pos, ok := idx.byPositionalStatic[i]
		if !ok {
			continue
		}
		allowed := pos.byLiteral[part]
		for route := range set {
			if _, constrained := pos.constrained[route]; !constrained {
				continue
			}
			if _, ok := allowed[route]; !ok {
				delete(set, route)
			}
		}
	}

	// Tier 4: the trie confirms fully static routes in O(path length).
	for _, route := range idx.staticTrie.lookup(parts) {
		if route.MatchesMethod(method) {
			set[route] = struct{}{}
		}
	}

	candidates := make([]*CompiledRoute, 0, len(set))
	for route := range set {
		candidates = append(candidates, route)
	}
	sortByPriority(candidates)

	return candidates
}

// servesMethod is the tier-1 fast fail: no route registered for the method
// means no candidates at all.
func (idx *RouteIndex) servesMethod(method string) bool {
	if len(idx.anyMethod) > 0 {
		return true
	}
	if len(idx.byMethod[method]) > 0 {
		return true
	}
	if method == http.MethodHead && len(idx.byMethod[http.MethodGet]) > 0 {
		return true
	}
	return false
}

// sortByPriority orders routes by descending priority; discovery order
// breaks ties between structurally equivalent routes.
func sortByPriority(routes []*CompiledRoute) {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Priority != routes[j].Priority {
			return routes[i].Priority > routes[j].Priority
		}
		return routes[i].seq < routes[j].seq
	})
}
