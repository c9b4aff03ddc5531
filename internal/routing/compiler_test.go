package routing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routeforge/routeforge/internal/observability"
	"github.com/routeforge/routeforge/internal/util"
)

func TestCompilePatternSegments(t *testing.T) {
	t.Parallel()

	segs, err := CompilePattern("/users/{id:int}/posts/{slug}")
	require.NoError(t, err)
	require.Len(t, segs, 4)

	assert.Equal(t, SegmentStatic, segs[0].Type)
	assert.Equal(t, "users", segs[0].Original)

	assert.Equal(t, SegmentVariable, segs[1].Type)
	assert.Equal(t, "id", segs[1].VariableName)
	require.NotNil(t, segs[1].Validation)
	assert.True(t, segs[1].Validation.MatchString("42"))
	assert.False(t, segs[1].Validation.MatchString("42abc"))

	assert.Equal(t, SegmentVariable, segs[3].Type)
	assert.Equal(t, "slug", segs[3].VariableName)
	assert.Nil(t, segs[3].Validation) // no type suffix: default [^/]+
}

func TestCompilePatternDropsEmptyParts(t *testing.T) {
	t.Parallel()

	segs, err := CompilePattern("//users///profile/")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, "users", segs[0].Original)
	assert.Equal(t, "profile", segs[1].Original)
}

func TestCompilePatternConstraints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ     string
		value   string
		matches bool
	}{
		{"int", "12345", true},
		{"int", "-1", false},
		{"alpha", "Alpha", true},
		{"alpha", "alpha1", false},
		{"alnum", "abc123", true},
		{"alnum", "abc-123", false},
		{"slug", "my-post-42", true},
		{"slug", "my_post", false},
		{"hex", "deadBEEF", true},
		{"hex", "xyz", false},
		{"float", "-3.14e10", true},
		{"float", "pi", false},
		{"date", "2026-08-23", true},
		{"date", "23-08-2026", false},
		{"uuid", uuid.NewString(), true},
		{"uuid", "not-a-uuid", false},
		{"unknown", "anything-goes", true}, // unknown type falls back to [^/]+
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.typ+"/"+tt.value, func(t *testing.T) {
			t.Parallel()
			segs, err := CompilePattern("/{v:" + tt.typ + "}")
			require.NoError(t, err)
			require.Len(t, segs, 1)

			if segs[0].Validation == nil {
				// Default constraint: any non-empty single part matches.
				assert.True(t, tt.matches)
				return
			}
			assert.Equal(t, tt.matches, segs[0].Validation.MatchString(tt.value))
		})
	}
}

func TestCompilePatternWildcards(t *testing.T) {
	t.Parallel()

	segs, err := CompilePattern("/a/*/b/**")
	require.NoError(t, err)
	require.Len(t, segs, 4)

	assert.Equal(t, SegmentSingleWildcard, segs[1].Type)
	assert.False(t, segs[1].MultiConsuming)

	assert.Equal(t, SegmentMultiWildcard, segs[3].Type)
	assert.True(t, segs[3].MultiConsuming)

	segs, err = CompilePattern("/files/{path:**}")
	require.NoError(t, err)
	assert.Equal(t, SegmentMultiWildcardVar, segs[1].Type)
	assert.Equal(t, "path", segs[1].VariableName)
	assert.True(t, segs[1].MultiConsuming)

	segs, err = CompilePattern("/files/{path:.*}")
	require.NoError(t, err)
	assert.Equal(t, SegmentMultiWildcardVar, segs[1].Type)

	segs, err = CompilePattern("/files/{**}")
	require.NoError(t, err)
	assert.Equal(t, SegmentMultiWildcard, segs[1].Type)
	assert.Empty(t, segs[1].VariableName)
}

func TestCompilePartialVariable(t *testing.T) {
	t.Parallel()

	t.Run("prefix and variable", func(t *testing.T) {
		t.Parallel()
		segs, err := CompilePattern("/v{id:int}")
		require.NoError(t, err)
		require.Len(t, segs, 1)

		seg := segs[0]
		assert.Equal(t, SegmentPartialVariable, seg.Type)
		assert.Equal(t, []string{"id"}, seg.VariableNames)
		assert.Equal(t, "v", seg.LiteralPrefix)
		assert.Empty(t, seg.LiteralSuffix)
		assert.True(t, seg.Pattern.MatchString("v123"))
		assert.False(t, seg.Pattern.MatchString("vabc"))
		assert.False(t, seg.Pattern.MatchString("xv123"))
	})

	t.Run("multiple variables with suffix", func(t *testing.T) {
		t.Parallel()
		segs, err := CompilePattern("/{name}-{rev:int}.json")
		require.NoError(t, err)
		require.Len(t, segs, 1)

		seg := segs[0]
		assert.Equal(t, []string{"name", "rev"}, seg.VariableNames)
		assert.Empty(t, seg.LiteralPrefix)
		assert.Equal(t, ".json", seg.LiteralSuffix)
		assert.True(t, seg.Pattern.MatchString("report-7.json"))
		assert.False(t, seg.Pattern.MatchString("report-7.yaml"))
	})

	t.Run("literal dots are escaped", func(t *testing.T) {
		t.Parallel()
		segs, err := CompilePattern("/app.{ext}")
		require.NoError(t, err)
		assert.True(t, segs[0].Pattern.MatchString("app.css"))
		assert.False(t, segs[0].Pattern.MatchString("appxcss"))
	})

	t.Run("embedded wildcard type stays single part", func(t *testing.T) {
		t.Parallel()
		segs, err := CompilePattern("/pre{rest:**}")
		require.NoError(t, err)
		require.Len(t, segs, 1)
		assert.Equal(t, SegmentPartialVariable, segs[0].Type)
		assert.False(t, segs[0].MultiConsuming)
		assert.True(t, segs[0].Pattern.MatchString("prefoo"))
	})

	t.Run("unbalanced braces", func(t *testing.T) {
		t.Parallel()
		for _, pattern := range []string{"/v{id", "/v{id:int", "/id}x", "/{a}{"} {
			_, err := CompilePattern(pattern)
			require.Error(t, err, pattern)
			var perr *util.PatternError
			assert.True(t, errors.As(err, &perr), pattern)
			assert.True(t, errors.Is(err, util.ErrInvalidInput), pattern)
		}
	})

	t.Run("empty variable name", func(t *testing.T) {
		t.Parallel()
		_, err := CompilePattern("/v{}")
		require.Error(t, err)
		_, err = CompilePattern("/{}")
		require.Error(t, err)
		_, err = CompilePattern("/{:int}")
		require.Error(t, err)
	})
}

func TestCompileDefinition(t *testing.T) {
	t.Parallel()

	t.Run("normalizes methods", func(t *testing.T) {
		t.Parallel()
		route, err := CompileDefinition(Definition{
			Pattern: "/users/{id}",
			Methods: []string{"get", " Post "},
			Handler: "users.show",
		}, 0)
		require.NoError(t, err)
		assert.True(t, route.MatchesMethod("GET"))
		assert.True(t, route.MatchesMethod("POST"))
		assert.False(t, route.MatchesMethod("DELETE"))
		assert.Equal(t, "users.show", route.Handler)
		assert.Equal(t, 2, route.SegmentCount())
		assert.False(t, route.IsStatic())
	})

	t.Run("head falls back to get", func(t *testing.T) {
		t.Parallel()
		route, err := CompileDefinition(Definition{Pattern: "/a", Methods: []string{"GET"}}, 0)
		require.NoError(t, err)
		assert.True(t, route.MatchesMethod("HEAD"))
	})

	t.Run("wildcard method", func(t *testing.T) {
		t.Parallel()
		route, err := CompileDefinition(Definition{Pattern: "/a", Methods: []string{"*"}}, 0)
		require.NoError(t, err)
		assert.True(t, route.MatchesMethod("GET"))
		assert.True(t, route.MatchesMethod("PATCH"))
	})

	t.Run("rejects empty pattern and methods", func(t *testing.T) {
		t.Parallel()
		_, err := CompileDefinition(Definition{Pattern: "", Methods: []string{"GET"}}, 0)
		require.Error(t, err)
		_, err = CompileDefinition(Definition{Pattern: "/a", Methods: nil}, 0)
		require.Error(t, err)
		_, err = CompileDefinition(Definition{Pattern: "/a", Methods: []string{" "}}, 0)
		require.Error(t, err)
	})

	t.Run("trailing slash recorded", func(t *testing.T) {
		t.Parallel()
		with, err := CompileDefinition(Definition{Pattern: "/a/", Methods: []string{"GET"}}, 0)
		require.NoError(t, err)
		without, err := CompileDefinition(Definition{Pattern: "/a", Methods: []string{"GET"}}, 0)
		require.NoError(t, err)
		assert.True(t, with.trailingSlash)
		assert.False(t, without.trailingSlash)
	})
}

func TestCompileRoutesSkipsMalformed(t *testing.T) {
	t.Parallel()

	defs := []Definition{
		{Pattern: "/ok/{id:int}", Methods: []string{"GET"}, Handler: "ok"},
		{Pattern: "/broken/{id", Methods: []string{"GET"}, Handler: "broken"},
		{Pattern: "/also/ok", Methods: []string{"GET"}, Handler: "also-ok"},
		{Pattern: "/no-methods", Methods: nil, Handler: "nope"},
	}

	routes := CompileRoutes(defs, observability.NopLogger())
	require.Len(t, routes, 2)
	assert.Equal(t, "/ok/{id:int}", routes[0].Path)
	assert.Equal(t, "/also/ok", routes[1].Path)
	// Discovery order is preserved for surviving routes.
	assert.Less(t, routes[0].seq, routes[1].seq)
}

func TestCompileRoutesNilLogger(t *testing.T) {
	t.Parallel()

	routes := CompileRoutes([]Definition{
		{Pattern: "/a", Methods: []string{"GET"}},
	}, nil)
	assert.Len(t, routes, 1)
}
