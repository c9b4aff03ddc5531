package routing

// Priority scoring constants. Higher priority routes are matched first.
const (
	// priorityBase is the starting score for every route.
	priorityBase = 1000

	// penaltyMultiWildcard applies to `**`, `{**}`, and `{name:**}`.
	penaltyMultiWildcard = 200

	// penaltySingleWildcard applies to `*`.
	penaltySingleWildcard = 100

	// penaltyVariable applies to `{name}` and `{name:type}`.
	penaltyVariable = 50

	// penaltyPartialVariable applies to mixed literal/variable segments.
	penaltyPartialVariable = 30

	// bonusPerStaticSegment rewards exact-literal segments.
	bonusPerStaticSegment = 20

	// bonusPerSegment rewards longer (more specific) patterns.
	bonusPerSegment = 5

	// bonusFullyStatic applies once when a route carries no penalty at all,
	// so static routes always outrank dynamic ones of equal length.
	bonusFullyStatic = 100
)

// computePriority derives the specificity score of a compiled pattern. It is
// a pure function of the segment list: identical patterns always yield the
// identical score. Ties between structurally different routes are broken by
// discovery order downstream.
func computePriority(pattern []Segment) int {
	penalty := 0
	staticCount := 0

	for _, seg := range pattern {
		switch seg.Type {
		case SegmentMultiWildcard, SegmentMultiWildcardVar:
			penalty += penaltyMultiWildcard
		case SegmentSingleWildcard:
			penalty += penaltySingleWildcard
		case SegmentVariable:
			penalty += penaltyVariable
		case SegmentPartialVariable:
			penalty += penaltyPartialVariable
		case SegmentStatic:
			staticCount++
		}
	}

	score := priorityBase - penalty
	score += staticCount * bonusPerStaticSegment
	score += len(pattern) * bonusPerSegment
	if penalty == 0 {
		score += bonusFullyStatic
	}

	return score
}
