package matching

import (
	"fmt"

	"github.com/hirecheck/hirecheck/internal/records"
)

const (
	DefaultNameThreshold   = 80
	DefaultToleranceMonths = 2
	DefaultOverlapBonus    = 10
)

// Config holds the matching policy. Thresholds are deliberately not
// hardwired; callers tune strictness per deployment.
type Config struct {
	// NameThreshold is the minimum 0..100 name similarity for a candidate
	// pairing to be eligible.
	NameThreshold int
	// ToleranceMonths expands period ends when testing overlap.
	ToleranceMonths int
	// OverlapBonus is added to the similarity score of overlapping candidates
	// when ranking them.
	OverlapBonus int
}

// DefaultConfig returns the recommended matching policy.
func DefaultConfig() Config {
	return Config{
		NameThreshold:   DefaultNameThreshold,
		ToleranceMonths: DefaultToleranceMonths,
		OverlapBonus:    DefaultOverlapBonus,
	}
}

// Validate fails fast on call contracts the engine cannot honor.
func (c Config) Validate() error {
	if c.NameThreshold < 0 || c.NameThreshold > 100 {
		return fmt.Errorf("name threshold must be within 0..100, got %d", c.NameThreshold)
	}
	if c.ToleranceMonths < 0 {
		return fmt.Errorf("tolerance months must not be negative, got %d", c.ToleranceMonths)
	}
	if c.OverlapBonus < 0 {
		return fmt.Errorf("overlap bonus must not be negative, got %d", c.OverlapBonus)
	}
	return nil
}

// Match pairs CV records against PF records. The assignment is greedy and
// deterministic: CV records are processed in input order, each claiming the
// highest-scoring eligible PF record that is still unclaimed (ties broken by
// earliest PF input order). A candidate is eligible only when the name
// similarity meets the threshold AND the periods overlap within tolerance.
// Every record appears in exactly one pair; PF records never claimed surface
// as NO_CV_MATCH after all CV records are processed.
func Match(cv, pf []records.EmploymentRecord, cfg Config, now records.YearMonth) ([]MatchPair, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	claimed := make([]bool, len(pf))
	pairs := make([]MatchPair, 0, len(cv)+len(pf))

	for i := range cv {
		cvRecord := &cv[i]

		best := -1
		bestScore := 0
		bestSimilarity := 0

		for j := range pf {
			if claimed[j] {
				continue
			}
			pfRecord := &pf[j]

			// Identical cached keys short-circuit the edit-distance scan.
			similarity := 100
			if cvRecord.EmployerKey == "" || cvRecord.EmployerKey != pfRecord.EmployerKey {
				similarity = Similarity(cvRecord.Employer, pfRecord.Employer)
			}
			if similarity < cfg.NameThreshold {
				continue
			}
			if !PeriodsOverlap(*cvRecord, *pfRecord, cfg.ToleranceMonths, now) {
				continue
			}

			score := similarity + cfg.OverlapBonus
			if score > bestScore {
				best = j
				bestScore = score
				bestSimilarity = similarity
			}
		}

		if best < 0 {
			pairs = append(pairs, MatchPair{Status: StatusNoPFMatch, CV: cvRecord})
			continue
		}

		claimed[best] = true
		pairs = append(pairs, MatchPair{
			Status:     StatusMatched,
			CV:         cvRecord,
			PF:         &pf[best],
			Similarity: bestSimilarity,
			Score:      bestScore,
			Variance:   variance(*cvRecord, pf[best], now),
		})
	}

	for j := range pf {
		if !claimed[j] {
			pairs = append(pairs, MatchPair{Status: StatusNoCVMatch, PF: &pf[j]})
		}
	}

	return pairs, nil
}
