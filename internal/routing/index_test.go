package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routeforge/routeforge/internal/observability"
)

func buildTestIndex(t *testing.T, defs []Definition) *RouteIndex {
	t.Helper()
	routes := CompileRoutes(defs, observability.NopLogger())
	require.Len(t, routes, len(defs))
	return BuildIndex(routes)
}

func candidatePaths(candidates []*CompiledRoute) []string {
	out := make([]string, 0, len(candidates))
	for _, r := range candidates {
		out = append(out, r.Path)
	}
	return out
}

func TestCandidatesMethodFastFail(t *testing.T) {
	t.Parallel()

	idx := buildTestIndex(t, []Definition{
		{Pattern: "/users", Methods: []string{"GET"}},
	})

	assert.Empty(t, idx.Candidates("POST", []string{"users"}))
	assert.NotEmpty(t, idx.Candidates("GET", []string{"users"}))
	assert.NotEmpty(t, idx.Candidates("HEAD", []string{"users"}), "HEAD rides on GET")
}

func TestCandidatesAnyMethod(t *testing.T) {
	t.Parallel()

	idx := buildTestIndex(t, []Definition{
		{Pattern: "/health", Methods: []string{"*"}},
	})

	assert.Len(t, idx.Candidates("OPTIONS", []string{"health"}), 1)
	assert.Len(t, idx.Candidates("GET", []string{"health"}), 1)
}

func TestCandidatesSegmentCountFilter(t *testing.T) {
	t.Parallel()

	idx := buildTestIndex(t, []Definition{
		{Pattern: "/a/{x}", Methods: []string{"GET"}},
		{Pattern: "/a/{x}/{y}", Methods: []string{"GET"}},
	})

	got := candidatePaths(idx.Candidates("GET", []string{"a", "1"}))
	assert.Equal(t, []string{"/a/{x}"}, got)

	got = candidatePaths(idx.Candidates("GET", []string{"a", "1", "2"}))
	assert.Equal(t, []string{"/a/{x}/{y}"}, got)
}

func TestCandidatesMultiConsumingWidening(t *testing.T) {
	t.Parallel()

	idx := buildTestIndex(t, []Definition{
		{Pattern: "/files/{path:**}", Methods: []string{"GET"}},
		{Pattern: "/files/one", Methods: []string{"GET"}},
	})

	// Longer than the pattern's own segment count.
	got := candidatePaths(idx.Candidates("GET", []string{"files", "a", "b", "c"}))
	assert.Equal(t, []string{"/files/{path:**}"}, got)

	// Shorter too: ** may consume zero parts.
	got = candidatePaths(idx.Candidates("GET", []string{"files"}))
	assert.Equal(t, []string{"/files/{path:**}"}, got)

	// Equal length includes both, static first.
	got = candidatePaths(idx.Candidates("GET", []string{"files", "one"}))
	assert.Equal(t, []string{"/files/one", "/files/{path:**}"}, got)
}

func TestCandidatesPositionalStaticFilter(t *testing.T) {
	t.Parallel()

	idx := buildTestIndex(t, []Definition{
		{Pattern: "/users/{id}", Methods: []string{"GET"}},
		{Pattern: "/orders/{id}", Methods: []string{"GET"}},
		{Pattern: "/{section}/latest", Methods: []string{"GET"}},
	})

	got := candidatePaths(idx.Candidates("GET", []string{"users", "7"}))
	// The orders route conflicts at position 0 and is excluded. The
	// variable-first route survives positions 0 (no static requirement)
	// but conflicts at position 1.
	assert.Equal(t, []string{"/users/{id}"}, got)

	got = candidatePaths(idx.Candidates("GET", []string{"orders", "latest"}))
	assert.ElementsMatch(t, []string{"/orders/{id}", "/{section}/latest"}, got)
}

func TestCandidatesTrieConfirmsStaticRoutes(t *testing.T) {
	t.Parallel()

	idx := buildTestIndex(t, []Definition{
		{Pattern: "/deep/static/route", Methods: []string{"GET"}},
		{Pattern: "/deep/{x}/route", Methods: []string{"GET"}},
	})

	got := candidatePaths(idx.Candidates("GET", []string{"deep", "static", "route"}))
	require.Len(t, got, 2)
	// No duplicates from the trie union, and the static route ranks first.
	assert.Equal(t, "/deep/static/route", got[0])
	assert.Equal(t, "/deep/{x}/route", got[1])
}

func TestCandidatesPriorityOrderWithTies(t *testing.T) {
	t.Parallel()

	idx := buildTestIndex(t, []Definition{
		{Pattern: "/x/{a}", Methods: []string{"GET"}, Handler: "first"},
		{Pattern: "/x/{b}", Methods: []string{"GET"}, Handler: "second"},
	})

	got := idx.Candidates("GET", []string{"x", "1"})
	require.Len(t, got, 2)
	// Identical shape, identical priority: discovery order breaks the tie.
	assert.Equal(t, "first", got[0].Handler)
	assert.Equal(t, "second", got[1].Handler)
}

func TestCandidatesRootPath(t *testing.T) {
	t.Parallel()

	idx := buildTestIndex(t, []Definition{
		{Pattern: "/", Methods: []string{"GET"}},
	})

	got := idx.Candidates("GET", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "/", got[0].Path)
}

func TestIndexAccessors(t *testing.T) {
	t.Parallel()

	idx := buildTestIndex(t, []Definition{
		{Pattern: "/a", Methods: []string{"GET"}},
		{Pattern: "/b", Methods: []string{"GET"}},
	})

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, "/a", idx.Routes()[0].Path)
}
