package verdict

import (
	"strings"
	"testing"
	"time"

	"github.com/hirecheck/hirecheck/internal/matching"
	"github.com/hirecheck/hirecheck/internal/records"
)

var testNow = records.YearMonth{Year: 2023, Month: time.December}

func cvRecord(employer, start, end string) records.EmploymentRecord {
	raw := map[string]any{"company": employer, "start_date": start}
	if end != "" {
		raw["end_date"] = end
	}
	return records.NormalizeCV(raw)
}

func pfRecord(employer, start, end string) records.EmploymentRecord {
	raw := map[string]any{"employer": employer, "start_date": start}
	if end != "" {
		raw["end_date"] = end
	}
	return records.NormalizePF(raw)
}

func pairsFor(t *testing.T, cv, pf []records.EmploymentRecord) []matching.MatchPair {
	t.Helper()
	pairs, err := matching.Match(cv, pf, matching.DefaultConfig(), testNow)
	if err != nil {
		t.Fatalf("matching failed: %s", err)
	}
	return pairs
}

func TestClassifyFullyVerified(t *testing.T) {
	t.Parallel()

	cv := []records.EmploymentRecord{
		cvRecord("ABC Tech Solutions", "2021-01", "2022-12"),
		cvRecord("XYZ Software", "2023-01", "Present"),
	}
	pf := []records.EmploymentRecord{
		pfRecord("ABC Tech", "01/2021", "12/2022"),
		pfRecord("XYZ Software Pvt Ltd", "01/2023", "12/2023"),
	}

	v, err := Classify(pairsFor(t, cv, pf), DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if v.OverallStatus != StatusVerified {
		t.Fatalf("expected VERIFIED, got %s", v.OverallStatus)
	}
	if v.MatchRate != 100 {
		t.Fatalf("expected a 100%% match rate, got %v", v.MatchRate)
	}
	if v.Matched != 2 || v.CVEntries != 2 || v.PFEntries != 2 {
		t.Fatalf("unexpected counts: %+v", v)
	}
}

func TestClassifyBanding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		matched  int
		total    int
		expected Status
	}{
		{name: "all matched", matched: 4, total: 4, expected: StatusVerified},
		{name: "four of five", matched: 4, total: 5, expected: StatusMostlyVerified},
		{name: "half", matched: 2, total: 4, expected: StatusPartiallyVerified},
		{name: "one of four", matched: 1, total: 4, expected: StatusFailed},
		{name: "none", matched: 0, total: 3, expected: StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cv, pf []records.EmploymentRecord
			for i := 0; i < tt.total; i++ {
				employer := "Employer " + string(rune('A'+i))
				cv = append(cv, cvRecord(employer, "2021-01", "2022-12"))
				if i < tt.matched {
					pf = append(pf, pfRecord(employer, "2021-01", "2022-12"))
				}
			}

			v, err := Classify(pairsFor(t, cv, pf), DefaultConfig())
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if v.OverallStatus != tt.expected {
				t.Fatalf("expected %s, got %s (rate %v)", tt.expected, v.OverallStatus, v.MatchRate)
			}
		})
	}
}

func TestClassifyEmptyCVFails(t *testing.T) {
	t.Parallel()

	pf := []records.EmploymentRecord{pfRecord("Acme", "2021-01", "2022-12")}

	v, err := Classify(pairsFor(t, nil, pf), DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if v.OverallStatus != StatusFailed {
		t.Fatalf("expected FAILED for an empty CV, got %s", v.OverallStatus)
	}
	if v.MatchRate != 0 {
		t.Fatalf("expected a zero match rate, got %v", v.MatchRate)
	}
}

func TestClassifyMissingDiscrepancies(t *testing.T) {
	t.Parallel()

	cv := []records.EmploymentRecord{cvRecord("Ghost Startup", "2019-01", "2020-06")}
	pf := []records.EmploymentRecord{pfRecord("Undisclosed Industries", "2016-01", "2017-06")}

	v, err := Classify(pairsFor(t, cv, pf), DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(v.Discrepancies) != 2 {
		t.Fatalf("expected 2 discrepancies, got %d", len(v.Discrepancies))
	}

	byType := map[DiscrepancyType]Discrepancy{}
	for _, d := range v.Discrepancies {
		byType[d.Type] = d
	}

	missingPF, ok := byType[DiscrepancyMissingInPF]
	if !ok || missingPF.Severity != SeverityHigh {
		t.Fatalf("expected a HIGH MISSING_IN_PF discrepancy, got %+v", v.Discrepancies)
	}
	if !strings.Contains(missingPF.Description, "Ghost Startup") {
		t.Fatalf("expected the employer in the description: %q", missingPF.Description)
	}

	missingCV, ok := byType[DiscrepancyMissingInCV]
	if !ok || missingCV.Severity != SeverityMedium {
		t.Fatalf("expected a MEDIUM MISSING_IN_CV discrepancy, got %+v", v.Discrepancies)
	}
}

func TestClassifyCompanyMismatchOnWeakName(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	pair := matching.MatchPair{
		Status:     matching.StatusMatched,
		CV:         recordPtr(cvRecord("Acme Corporation", "2021-01", "2022-12")),
		PF:         recordPtr(pfRecord("Acme Corpn Ltd", "2021-01", "2022-12")),
		Similarity: 82,
		Score:      92,
		Variance:   &matching.DateVariance{},
	}

	v, err := Classify([]matching.MatchPair{pair}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(v.Discrepancies) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(v.Discrepancies))
	}
	d := v.Discrepancies[0]
	if d.Type != DiscrepancyCompanyMismatch {
		t.Fatalf("expected COMPANY_MISMATCH, got %s", d.Type)
	}
	if d.Severity != SeverityMedium {
		t.Fatalf("expected MEDIUM severity for a 13-point gap, got %s", d.Severity)
	}
	if v.OverallStatus != StatusVerified {
		t.Fatalf("a flagged pair still counts as matched, got %s", v.OverallStatus)
	}
}

func TestClassifyDateMismatchBeyondTolerance(t *testing.T) {
	t.Parallel()

	pair := matching.MatchPair{
		Status:     matching.StatusMatched,
		CV:         recordPtr(cvRecord("Acme Corp", "2021-01", "2022-12")),
		PF:         recordPtr(pfRecord("Acme Corp", "2021-06", "2022-12")),
		Similarity: 100,
		Score:      110,
		Variance:   &matching.DateVariance{StartMonths: -5},
	}

	v, err := Classify([]matching.MatchPair{pair}, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(v.Discrepancies) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(v.Discrepancies))
	}
	d := v.Discrepancies[0]
	if d.Type != DiscrepancyDateMismatch {
		t.Fatalf("expected DATE_MISMATCH, got %s", d.Type)
	}
	if d.Severity != SeverityLow {
		t.Fatalf("expected LOW severity for 3 months beyond tolerance, got %s", d.Severity)
	}
}

func TestClassifyCleanPairHasNoDiscrepancy(t *testing.T) {
	t.Parallel()

	pair := matching.MatchPair{
		Status:     matching.StatusMatched,
		CV:         recordPtr(cvRecord("Acme Corp", "2021-01", "2022-12")),
		PF:         recordPtr(pfRecord("Acme Corp", "2021-01", "2022-12")),
		Similarity: 100,
		Score:      110,
		Variance:   &matching.DateVariance{},
	}

	v, err := Classify([]matching.MatchPair{pair}, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(v.Discrepancies) != 0 {
		t.Fatalf("expected no discrepancies, got %+v", v.Discrepancies)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	t.Parallel()

	cv := []records.EmploymentRecord{
		cvRecord("ABC Tech", "2021-01", "2022-12"),
		cvRecord("Ghost Startup", "2019-01", "2020-06"),
	}
	pf := []records.EmploymentRecord{pfRecord("ABC Tech", "2021-01", "2022-12")}

	pairs := pairsFor(t, cv, pf)

	first, err := Classify(pairs, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	second, err := Classify(pairs, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if first.OverallStatus != second.OverallStatus || first.MatchRate != second.MatchRate ||
		len(first.Discrepancies) != len(second.Discrepancies) {
		t.Fatalf("classification is not stable: %+v vs %+v", first, second)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{name: "bands not ordered", mod: func(c *Config) { c.MostlyVerifiedBand = 110 }},
		{name: "partial above mostly", mod: func(c *Config) { c.PartiallyVerifiedBand = 90 }},
		{name: "high confidence out of range", mod: func(c *Config) { c.HighConfidence = 150 }},
		{name: "negative tolerance", mod: func(c *Config) { c.ToleranceMonths = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mod(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected a validation error")
			}
			if _, err := Classify(nil, cfg); err == nil {
				t.Fatalf("expected the classifier to reject the config")
			}
		})
	}
}

func recordPtr(r records.EmploymentRecord) *records.EmploymentRecord {
	return &r
}
