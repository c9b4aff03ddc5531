package routing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/routeforge/routeforge/internal/observability"
	"github.com/routeforge/routeforge/internal/util"
)

// constraintPatterns maps a variable type suffix to a regex fragment. An
// unknown type falls back to defaultConstraint. The multi-wildcard suffixes
// `**` and `.*` are handled structurally, not through this table.
var constraintPatterns = map[string]string{
	"int":   `\d+`,
	"alpha": `[a-zA-Z]+`,
	"alnum": `[a-zA-Z0-9]+`,
	"slug":  `[a-zA-Z0-9-]+`,
	"hex":   `[0-9a-fA-F]+`,
	"float": `-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`,
	"date":  `\d{4}-\d{2}-\d{2}`,
	"uuid":  `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}`,
}

// defaultConstraint matches any single non-empty path part.
const defaultConstraint = `[^/]+`

// constraintFragment resolves a type suffix to its regex fragment.
func constraintFragment(typ string) string {
	if frag, ok := constraintPatterns[typ]; ok {
		return frag
	}
	return defaultConstraint
}

// CompilePattern compiles a route pattern string into its ordered segment
// list. It splits on `/`, drops empty parts, classifies each part, and
// builds the per-type descriptor. Malformed parts (unbalanced braces, empty
// variable names, invalid embedded expressions) return a *util.PatternError.
func CompilePattern(pattern string) ([]Segment, error) {
	parts := splitPath(pattern)
	segments := make([]Segment, 0, len(parts))

	for _, part := range parts {
		seg, err := compileSegment(part)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

// compileSegment compiles one classified path part.
func compileSegment(part string) (Segment, error) {
	switch Classify(part) {
	case SegmentStatic:
		return Segment{Type: SegmentStatic, Original: part}, nil

	case SegmentSingleWildcard:
		return Segment{Type: SegmentSingleWildcard, Original: part}, nil

	case SegmentMultiWildcard:
		return Segment{Type: SegmentMultiWildcard, Original: part, MultiConsuming: true}, nil

	case SegmentMultiWildcardVar:
		inner := part[1 : len(part)-1]
		name := inner[:strings.LastIndex(inner, ":")]
		if name == "" {
			return Segment{}, util.NewPatternError(part, "multi-wildcard variable has no name")
		}
		return Segment{
			Type:           SegmentMultiWildcardVar,
			Original:       part,
			VariableName:   name,
			MultiConsuming: true,
		}, nil

	case SegmentVariable:
		return compileVariable(part)

	case SegmentPartialVariable:
		return compilePartialVariable(part)

	default:
		// Classify is total; reaching here is a programming error.
		return Segment{}, util.NewPatternError(part, "unclassifiable segment")
	}
}

// compileVariable compiles a fully wrapped `{name}` or `{name:type}` part.
func compileVariable(part string) (Segment, error) {
	inner := part[1 : len(part)-1]
	name, typ, hasType := strings.Cut(inner, ":")
	if name == "" {
		return Segment{}, util.NewPatternError(part, "variable has no name")
	}

	seg := Segment{
		Type:         SegmentVariable,
		Original:     part,
		VariableName: name,
	}

	// No type suffix, or an unknown type, means the default [^/]+: any
	// single non-empty part. That is implied by consuming exactly one part,
	// so no regex is stored.
	if hasType {
		if frag, ok := constraintPatterns[typ]; ok {
			re, err := regexp.Compile("^(?:" + frag + ")$")
			if err != nil {
				return Segment{}, util.NewPatternErrorWithCause(part, "constraint does not compile", err)
			}
			seg.Validation = re
		}
	}

	return seg, nil
}

// compilePartialVariable compiles a part mixing literal text and one or more
// `{variable}` placeholders into a single anchored regex with named capture
// groups. Placeholder content may itself contain balanced braces (e.g. a
// repetition count in an embedded expression); unbalanced braces are a
// compile error.
func compilePartialVariable(part string) (Segment, error) {
	var (
		re       strings.Builder
		names    []string
		prefix   string
		suffix   strings.Builder
		sawBrace bool
	)
	re.WriteString("^")

	i := 0
	for i < len(part) {
		switch part[i] {
		case '{':
			end, ok := findClosingBrace(part, i)
			if !ok {
				return Segment{}, util.NewPatternError(part, "unbalanced braces")
			}
			if !sawBrace {
				prefix = part[:i]
				sawBrace = true
			}
			suffix.Reset()

			inner := part[i+1 : end]
			name, typ, _ := strings.Cut(inner, ":")
			if name == "" {
				return Segment{}, util.NewPatternError(part, "variable has no name")
			}
			// Embedded wildcard-like types still match within a single
			// part: a partial variable never consumes across slashes.
			frag := constraintFragment(typ)
			if typ == "**" || typ == ".*" {
				frag = defaultConstraint
			}
			fmt.Fprintf(&re, "(?P<%s>%s)", name, frag)
			names = append(names, name)
			i = end + 1

		case '}':
			return Segment{}, util.NewPatternError(part, "unbalanced braces")

		default:
			re.WriteString(regexp.QuoteMeta(string(part[i])))
			if sawBrace {
				suffix.WriteByte(part[i])
			}
			i++
		}
	}
	re.WriteString("$")

	compiled, err := regexp.Compile(re.String())
	if err != nil {
		return Segment{}, util.NewPatternErrorWithCause(part, "segment expression does not compile", err)
	}

	return Segment{
		Type:          SegmentPartialVariable,
		Original:      part,
		Pattern:       compiled,
		VariableNames: names,
		LiteralPrefix: prefix,
		LiteralSuffix: suffix.String(),
	}, nil
}

// findClosingBrace returns the index of the brace closing the one at open,
// honoring nested pairs.
func findClosingBrace(s string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// CompileDefinition compiles a single route definition. The seq argument
// records discovery order for deterministic tie-breaking.
func CompileDefinition(def Definition, seq int) (*CompiledRoute, error) {
	if strings.TrimSpace(def.Pattern) == "" {
		return nil, util.NewPatternError(def.Pattern, "empty pattern")
	}
	if len(def.Methods) == 0 {
		return nil, util.NewPatternError(def.Pattern, "route has no HTTP methods")
	}

	segments, err := CompilePattern(def.Pattern)
	if err != nil {
		return nil, err
	}

	methods := make(map[string]struct{}, len(def.Methods))
	for _, m := range def.Methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			return nil, util.NewPatternError(def.Pattern, "empty HTTP method")
		}
		methods[m] = struct{}{}
	}

	route := &CompiledRoute{
		Methods:       methods,
		Handler:       def.Handler,
		Pattern:       segments,
		Path:          def.Pattern,
		Priority:      computePriority(segments),
		seq:           seq,
		segmentCount:  len(segments),
		trailingSlash: len(def.Pattern) > 1 && strings.HasSuffix(def.Pattern, "/"),
	}

	route.static = true
	for _, seg := range segments {
		if seg.MultiConsuming {
			route.multiConsuming = true
		} else {
			route.minSegments++
		}
		if seg.Type != SegmentStatic {
			route.static = false
		}
	}

	return route, nil
}

// CompileRoutes compiles a full route table. A malformed definition is
// excluded from the result and logged; it never aborts compilation of the
// remaining routes.
func CompileRoutes(defs []Definition, logger observability.Logger) []*CompiledRoute {
	if logger == nil {
		logger = observability.NopLogger()
	}

	routes := make([]*CompiledRoute, 0, len(defs))
	for i, def := range defs {
		route, err := CompileDefinition(def, i)
		if err != nil {
			resolverMetrics().compileErrors.Inc()
			logger.Warn("skipping malformed route",
				observability.String("pattern", def.Pattern),
				observability.Error(err),
			)
			continue
		}
		routes = append(routes, route)
	}

	return routes
}
