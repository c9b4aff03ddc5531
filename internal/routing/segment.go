package routing

import (
	"regexp"
	"strings"
)

// SegmentType identifies the kind of a compiled pattern segment. The set is
// closed: every consumer (compiler, priority calculator, matcher) switches
// exhaustively over it.
type SegmentType uint8

const (
	// SegmentStatic is a literal segment that must match exactly.
	SegmentStatic SegmentType = iota

	// SegmentVariable binds one path part to a name, e.g. {id} or {id:int}.
	SegmentVariable

	// SegmentSingleWildcard is the anonymous `*`: consumes exactly one part.
	SegmentSingleWildcard

	// SegmentMultiWildcard is the anonymous `**` (or `{**}`): consumes zero
	// or more parts.
	SegmentMultiWildcard

	// SegmentMultiWildcardVar is a named multi-wildcard, e.g. {path:**}:
	// consumes zero or more parts and binds the joined value.
	SegmentMultiWildcardVar

	// SegmentPartialVariable mixes literal text and one or more {variable}
	// placeholders within a single part, e.g. v{id:int}.
	SegmentPartialVariable
)

// String returns the segment type name.
func (t SegmentType) String() string {
	switch t {
	case SegmentStatic:
		return "static"
	case SegmentVariable:
		return "variable"
	case SegmentSingleWildcard:
		return "wildcard"
	case SegmentMultiWildcard:
		return "multi-wildcard"
	case SegmentMultiWildcardVar:
		return "multi-wildcard-variable"
	case SegmentPartialVariable:
		return "partial-variable"
	default:
		return "unknown"
	}
}

// Segment is one compiled `/`-delimited component of a route pattern.
// Segments are created once at compile time and never mutated.
type Segment struct {
	// Type is the segment classification.
	Type SegmentType

	// Original is the literal source text of the segment.
	Original string

	// VariableName is the name bound when the segment matches. Empty for
	// static segments and anonymous wildcards.
	VariableName string

	// Validation constrains a variable's value. Nil means the default
	// `[^/]+` (any single non-empty part).
	Validation *regexp.Regexp

	// MultiConsuming is true if the segment may consume zero or more
	// remaining path parts.
	MultiConsuming bool

	// Pattern is the anchored regex with named capture groups. Set for
	// partial-variable segments only.
	Pattern *regexp.Regexp

	// VariableNames lists the capture names of a partial-variable segment
	// in source order.
	VariableNames []string

	// LiteralPrefix and LiteralSuffix are the literal text before the first
	// and after the last placeholder of a partial-variable segment.
	LiteralPrefix string
	LiteralSuffix string
}

// Classify determines the type of a single path segment. It is total: every
// non-empty string maps to exactly one type. Precedence follows the first
// structural match in the order below.
func Classify(segment string) SegmentType {
	// `{**}` is an alternate spelling of the anonymous multi-wildcard.
	if segment == "**" || segment == "{**}" {
		return SegmentMultiWildcard
	}
	if segment == "*" {
		return SegmentSingleWildcard
	}
	if isOuterWrapped(segment) {
		inner := segment[1 : len(segment)-1]
		if strings.HasSuffix(inner, ":**") || strings.HasSuffix(inner, ":.*") {
			return SegmentMultiWildcardVar
		}
		return SegmentVariable
	}
	if strings.ContainsAny(segment, "{}") {
		return SegmentPartialVariable
	}
	return SegmentStatic
}

// isOuterWrapped reports whether the segment is fully wrapped in exactly one
// outer brace pair. `{a}{b}` is not: its first pair closes before the end.
func isOuterWrapped(segment string) bool {
	if len(segment) < 2 || segment[0] != '{' || segment[len(segment)-1] != '}' {
		return false
	}
	depth := 0
	for i := 0; i < len(segment); i++ {
		switch segment[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 && i != len(segment)-1 {
				return false
			}
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
