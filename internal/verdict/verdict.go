// Package verdict aggregates per-pair match quality into an overall
// verification status and a typed discrepancy list.
package verdict

import (
	"fmt"

	"github.com/hirecheck/hirecheck/internal/matching"
)

// Status is the overall verification outcome.
type Status string

const (
	StatusVerified          Status = "VERIFIED"
	StatusMostlyVerified    Status = "MOSTLY_VERIFIED"
	StatusPartiallyVerified Status = "PARTIALLY_VERIFIED"
	StatusFailed            Status = "FAILED"
)

// DiscrepancyType classifies a reconciliation inconsistency.
type DiscrepancyType string

const (
	DiscrepancyCompanyMismatch DiscrepancyType = "COMPANY_MISMATCH"
	DiscrepancyDateMismatch    DiscrepancyType = "DATE_MISMATCH"
	DiscrepancyMissingInPF     DiscrepancyType = "MISSING_IN_PF"
	DiscrepancyMissingInCV     DiscrepancyType = "MISSING_IN_CV"
)

// Severity grades a discrepancy.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Discrepancy is a single typed inconsistency found during reconciliation.
type Discrepancy struct {
	Type        DiscrepancyType `json:"type"`
	Description string          `json:"description"`
	Severity    Severity        `json:"severity"`
}

const (
	DefaultVerifiedBand          = 100
	DefaultMostlyVerifiedBand    = 80
	DefaultPartiallyVerifiedBand = 50
	DefaultHighConfidence        = 95
)

// Config holds the classification policy. The band cutoffs are a tunable
// policy choice, not load-bearing constants.
type Config struct {
	// VerifiedBand, MostlyVerifiedBand and PartiallyVerifiedBand are
	// match-rate percentages applied in order; the first band reached wins.
	VerifiedBand          float64
	MostlyVerifiedBand    float64
	PartiallyVerifiedBand float64

	// HighConfidence is the 0..100 similarity above which a matched pair is
	// not flagged as a company mismatch.
	HighConfidence int

	// ToleranceMonths mirrors the matching tolerance; start/end variance
	// beyond it on a matched pair is flagged as a date mismatch.
	ToleranceMonths int
}

// DefaultConfig returns the recommended classification policy.
func DefaultConfig() Config {
	return Config{
		VerifiedBand:          DefaultVerifiedBand,
		MostlyVerifiedBand:    DefaultMostlyVerifiedBand,
		PartiallyVerifiedBand: DefaultPartiallyVerifiedBand,
		HighConfidence:        DefaultHighConfidence,
		ToleranceMonths:       matching.DefaultToleranceMonths,
	}
}

// Validate fails fast on a policy the classifier cannot apply.
func (c Config) Validate() error {
	if c.VerifiedBand < c.MostlyVerifiedBand || c.MostlyVerifiedBand < c.PartiallyVerifiedBand {
		return fmt.Errorf("status bands must be non-increasing: %v >= %v >= %v",
			c.VerifiedBand, c.MostlyVerifiedBand, c.PartiallyVerifiedBand)
	}
	if c.HighConfidence < 0 || c.HighConfidence > 100 {
		return fmt.Errorf("high confidence must be within 0..100, got %d", c.HighConfidence)
	}
	if c.ToleranceMonths < 0 {
		return fmt.Errorf("tolerance months must not be negative, got %d", c.ToleranceMonths)
	}
	return nil
}

// Verdict is the aggregated verification outcome for one run.
type Verdict struct {
	OverallStatus Status `json:"overall_status"`
	// MatchRate is the percentage of CV entries corroborated by a PF record.
	MatchRate float64 `json:"match_rate"`

	Matched     int `json:"matched"`
	CVEntries   int `json:"cv_entries"`
	PFEntries   int `json:"pf_entries"`
	Unparseable int `json:"unparseable"`

	Discrepancies []Discrepancy `json:"discrepancies"`
}

// Classify derives a verdict from the engine's pair list. It is deterministic
// and stateless: the same pairs always produce the same verdict. Discrepancies
// follow pair order (CV-side pairs first, then unclaimed PF records).
func Classify(pairs []matching.MatchPair, cfg Config) (*Verdict, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	v := &Verdict{Discrepancies: make([]Discrepancy, 0, len(pairs))}

	for _, pair := range pairs {
		switch pair.Status {
		case matching.StatusMatched:
			v.Matched++
			v.CVEntries++
			v.PFEntries++
			if d, ok := matchedPairDiscrepancy(pair, cfg); ok {
				v.Discrepancies = append(v.Discrepancies, d)
			}
		case matching.StatusNoPFMatch:
			v.CVEntries++
			if !pair.CV.Parseable {
				v.Unparseable++
			}
			v.Discrepancies = append(v.Discrepancies, Discrepancy{
				Type:        DiscrepancyMissingInPF,
				Description: fmt.Sprintf("CV employment at %q (%s) has no corroborating PF entry", pair.CV.Employer, pair.CV.Period()),
				Severity:    SeverityHigh,
			})
		case matching.StatusNoCVMatch:
			v.PFEntries++
			if !pair.PF.Parseable {
				v.Unparseable++
			}
			v.Discrepancies = append(v.Discrepancies, Discrepancy{
				Type:        DiscrepancyMissingInCV,
				Description: fmt.Sprintf("PF entry for %q (%s) is not claimed on the CV", pair.PF.Employer, pair.PF.Period()),
				Severity:    SeverityMedium,
			})
		}
	}

	if v.CVEntries > 0 {
		v.MatchRate = float64(v.Matched) / float64(v.CVEntries) * 100
	}

	switch {
	case v.CVEntries == 0:
		v.OverallStatus = StatusFailed
	case v.MatchRate >= cfg.VerifiedBand:
		v.OverallStatus = StatusVerified
	case v.MatchRate >= cfg.MostlyVerifiedBand:
		v.OverallStatus = StatusMostlyVerified
	case v.MatchRate >= cfg.PartiallyVerifiedBand:
		v.OverallStatus = StatusPartiallyVerified
	default:
		v.OverallStatus = StatusFailed
	}

	return v, nil
}

// matchedPairDiscrepancy flags a matched pair whose similarity sits below the
// high-confidence bar or whose boundary variance exceeds the tolerance. When
// both apply, the stronger contributor to the confidence gap wins: months
// beyond tolerance against similarity points below the bar.
func matchedPairDiscrepancy(pair matching.MatchPair, cfg Config) (Discrepancy, bool) {
	nameGap := cfg.HighConfidence - pair.Similarity
	dateGap := varianceBeyondTolerance(pair, cfg.ToleranceMonths)

	if nameGap <= 0 && dateGap <= 0 {
		return Discrepancy{}, false
	}

	if dateGap > nameGap {
		severity := SeverityLow
		if dateGap > 6 {
			severity = SeverityMedium
		}
		return Discrepancy{
			Type: DiscrepancyDateMismatch,
			Description: fmt.Sprintf("periods for %q differ by %d month(s) beyond tolerance (CV %s vs PF %s)",
				pair.CV.Employer, dateGap, pair.CV.Period(), pair.PF.Period()),
			Severity: severity,
		}, true
	}

	severity := SeverityLow
	if nameGap > 10 {
		severity = SeverityMedium
	}
	return Discrepancy{
		Type: DiscrepancyCompanyMismatch,
		Description: fmt.Sprintf("employer names %q (CV) and %q (PF) matched at %d%% similarity",
			pair.CV.Employer, pair.PF.Employer, pair.Similarity),
		Severity: severity,
	}, true
}

func varianceBeyondTolerance(pair matching.MatchPair, tolerance int) int {
	if pair.Variance == nil {
		return 0
	}
	gap := abs(pair.Variance.StartMonths)
	if end := abs(pair.Variance.EndMonths); end > gap {
		gap = end
	}
	return gap - tolerance
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
