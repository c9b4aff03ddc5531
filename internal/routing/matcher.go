package routing

import (
	"fmt"
	"strings"
)

// Anonymous wildcard variable keys.
const (
	wildcardKey      = "*"
	multiWildcardKey = "**"
)

// MatchRoute checks a single candidate route against the request path parts,
// extracting variables on success. Method compatibility is a resolver
// precondition but is re-validated here. The walk is iterative: one cursor
// per sequence, each step either fails, consumes, or lets a multi-consuming
// segment absorb the unreserved remainder.
func MatchRoute(route *CompiledRoute, parts []string, method string) (Variables, bool) {
	var vars Variables

	if !route.MatchesMethod(method) {
		return vars, false
	}

	// Fully static routes compare literals directly. No regex, no bindings.
	if route.static {
		if len(parts) != route.segmentCount {
			return vars, false
		}
		for i, seg := range route.Pattern {
			if parts[i] != seg.Original {
				return vars, false
			}
		}
		return vars, true
	}

	// Minimum-required-length check. Without a multi-consuming segment the
	// lengths must agree exactly; with one, every non-multi segment still
	// needs a part of its own.
	if route.multiConsuming {
		if len(parts) < route.minSegments {
			return vars, false
		}
	} else if len(parts) != route.segmentCount {
		return vars, false
	}

	pi := 0
	for ri := 0; ri < route.segmentCount; ri++ {
		seg := &route.Pattern[ri]

		switch seg.Type {
		case SegmentStatic:
			if pi >= len(parts) || parts[pi] != seg.Original {
				return Variables{}, false
			}
			pi++

		case SegmentVariable:
			if pi >= len(parts) {
				return Variables{}, false
			}
			part := parts[pi]
			if seg.Validation != nil && !seg.Validation.MatchString(part) {
				return Variables{}, false
			}
			vars.bind(seg.VariableName, part)
			pi++

		case SegmentSingleWildcard:
			if pi >= len(parts) {
				return Variables{}, false
			}
			vars.appendAnonymous(wildcardKey, parts[pi])
			pi++

		case SegmentMultiWildcard, SegmentMultiWildcardVar:
			// Reserve one part per trailing route segment; this segment
			// absorbs the rest, possibly nothing.
			reserved := route.segmentCount - ri - 1
			consume := len(parts) - pi - reserved
			if consume < 0 {
				return Variables{}, false
			}
			value := strings.Join(parts[pi:pi+consume], "/")
			if seg.Type == SegmentMultiWildcardVar {
				vars.bind(seg.VariableName, value)
			} else {
				vars.appendAnonymous(multiWildcardKey, value)
			}
			pi += consume

		case SegmentPartialVariable:
			if pi >= len(parts) {
				return Variables{}, false
			}
			m := seg.Pattern.FindStringSubmatch(parts[pi])
			if m == nil {
				return Variables{}, false
			}
			for gi, name := range seg.Pattern.SubexpNames() {
				if gi > 0 && name != "" && gi < len(m) {
					vars.bind(name, m[gi])
				}
			}
			pi++

		default:
			panic(fmt.Sprintf("routing: unknown segment type %d in %q", seg.Type, route.Path))
		}
	}

	// Sanity check: the walk must have consumed the whole path. Leftovers
	// mean the reservation arithmetic above went wrong, not a recoverable
	// state.
	if pi != len(parts) {
		return Variables{}, false
	}

	return vars, true
}
