package verdict

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hirecheck/hirecheck/internal/ai"
	"github.com/hirecheck/hirecheck/internal/matching"
)

// MatchEntry is the report view of one pair, carrying the original upstream
// entries for display.
type MatchEntry struct {
	Employer   string               `json:"employer"`
	Period     string               `json:"period"`
	Status     matching.MatchStatus `json:"status"`
	MatchScore int                  `json:"match_score,omitempty"`
	CVEntry    map[string]any       `json:"cv_entry,omitempty"`
	PFEntry    map[string]any       `json:"pf_entry,omitempty"`
}

// Report is the full output contract of a verification run.
type Report struct {
	OverallStatus Status        `json:"overall_status"`
	MatchRate     float64       `json:"match_rate"`
	Matches       []MatchEntry  `json:"matches"`
	Discrepancies []Discrepancy `json:"discrepancies"`

	// AIAnalysis is the optional auxiliary narrative; absent when the
	// assessor is disabled or failed.
	AIAnalysis *ai.NarrativeAssessment `json:"ai_analysis,omitempty"`
}

// BuildReport merges the verdict with the pair list into the serializable
// report structure.
func BuildReport(v *Verdict, pairs []matching.MatchPair) *Report {
	report := &Report{
		OverallStatus: v.OverallStatus,
		MatchRate:     v.MatchRate,
		Matches:       make([]MatchEntry, 0, len(pairs)),
		Discrepancies: v.Discrepancies,
	}

	for _, pair := range pairs {
		entry := MatchEntry{Status: pair.Status}

		if pair.CV != nil {
			entry.Employer = pair.CV.Employer
			entry.Period = pair.CV.Period()
			entry.CVEntry = pair.CV.Raw
		} else if pair.PF != nil {
			entry.Employer = pair.PF.Employer
			entry.Period = pair.PF.Period()
		}
		if pair.PF != nil {
			entry.PFEntry = pair.PF.Raw
		}
		if pair.Status == matching.StatusMatched {
			entry.MatchScore = pair.Similarity
		}

		report.Matches = append(report.Matches, entry)
	}

	return report
}

// ByEmployer groups the report's entries by employer name for quick review.
func (r *Report) ByEmployer() map[string][]map[string]string {
	grouped := make(map[string][]map[string]string)
	for _, entry := range r.Matches {
		key := entry.Employer
		if key == "" {
			key = "(no employer)"
		}
		grouped[key] = append(grouped[key], map[string]string{
			"period":      entry.Period,
			"status":      string(entry.Status),
			"match_score": fmt.Sprintf("%d", entry.MatchScore),
		})
	}
	return grouped
}

// DumpToTmpFile writes the report to a temporary JSON file and returns its
// path.
func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "hirecheck_report_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ToFile writes the report to the given path.
func (r *Report) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
