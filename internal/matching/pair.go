package matching

import (
	"github.com/hirecheck/hirecheck/internal/records"
)

// MatchStatus classifies a pairing outcome.
type MatchStatus string

const (
	StatusMatched   MatchStatus = "MATCHED"
	StatusNoPFMatch MatchStatus = "NO_PF_MATCH"
	StatusNoCVMatch MatchStatus = "NO_CV_MATCH"
)

// DateVariance holds signed month deltas between paired period boundaries
// (CV minus PF). When either end is open-ended the delta is computed against
// the anchored current month and EndOpen is set.
type DateVariance struct {
	StartMonths int  `json:"start_months"`
	EndMonths   int  `json:"end_months"`
	EndOpen     bool `json:"end_open,omitempty"`
}

// MatchPair associates zero-or-one CV record with zero-or-one PF record.
// A MATCHED pair has both sides; NO_PF_MATCH only CV; NO_CV_MATCH only PF.
// Pairs are immutable once the engine emits them.
type MatchPair struct {
	Status MatchStatus

	CV *records.EmploymentRecord
	PF *records.EmploymentRecord

	// Similarity is the 0..100 name score; meaningful only when MATCHED.
	Similarity int
	// Score is Similarity plus the overlap bonus used for greedy assignment.
	Score int

	Variance *DateVariance
}

func variance(cv, pf records.EmploymentRecord, now records.YearMonth) *DateVariance {
	v := &DateVariance{
		StartMonths: cv.Start.Index() - pf.Start.Index(),
		EndOpen:     cv.OpenEnded || pf.OpenEnded,
	}
	v.EndMonths = endIndex(cv, now) - endIndex(pf, now)
	return v
}

func endIndex(r records.EmploymentRecord, now records.YearMonth) int {
	if r.OpenEnded {
		return now.Index()
	}
	return r.End.Index()
}
