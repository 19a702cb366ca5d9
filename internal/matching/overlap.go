package matching

import (
	"github.com/hirecheck/hirecheck/internal/records"
)

// openEndedHorizon, in months, is added past the resolved end of an ongoing
// period so it always compares as the greater endpoint.
const openEndedHorizon = 1200

// PeriodsOverlap decides whether two employment periods overlap within the
// given tolerance. Tolerance expands both interval ends symmetrically,
// modeling acceptable transition gaps such as notice periods. An unparseable
// record on either side never overlaps. now anchors open-ended periods and is
// injected by the caller for determinism.
func PeriodsOverlap(a, b records.EmploymentRecord, toleranceMonths int, now records.YearMonth) bool {
	if !a.Parseable || !b.Parseable {
		return false
	}

	aStart, aEnd := periodBounds(a, b, now)
	bStart, bEnd := periodBounds(b, a, now)

	return aStart-toleranceMonths <= bEnd && bStart-toleranceMonths <= aEnd
}

// periodBounds resolves a record's period to absolute month indices. An
// open-ended period ends at the later of the current month and the other
// period's end, pushed out by the horizon.
func periodBounds(r, other records.EmploymentRecord, now records.YearMonth) (int, int) {
	start := r.Start.Index()
	if !r.OpenEnded {
		return start, r.End.Index()
	}

	end := now.Index()
	if other.Parseable && !other.OpenEnded && other.End.Index() > end {
		end = other.End.Index()
	}
	return start, end + openEndedHorizon
}
