package records

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

// Aliases for the employment list key inside each document envelope. Some
// extractors emit a bare JSON array instead of an envelope; both are accepted.
var (
	cvListAliases = []string{"employment_history", "employment", "experience", "jobs"}
	pfListAliases = []string{"employment_records", "contributions", "pf_entries", "records"}
)

// CandidateInfo carries CV-level fields the verification core does not
// interpret but reports pass through for display.
type CandidateInfo struct {
	Name  string `json:"name,omitempty" mapstructure:"name"`
	Email string `json:"email,omitempty" mapstructure:"email"`
	Phone string `json:"phone,omitempty" mapstructure:"phone"`
}

// PFAccountInfo carries PF statement header fields (UAN, account number).
type PFAccountInfo struct {
	Name            string `json:"name,omitempty" mapstructure:"name"`
	UAN             string `json:"uan,omitempty" mapstructure:"uan"`
	PFAccountNumber string `json:"pf_account_number,omitempty" mapstructure:"pf_account_number"`
}

// CVDocument is the normalized view of an extracted CV.
type CVDocument struct {
	Candidate CandidateInfo
	Records   []EmploymentRecord
}

// PFDocument is the normalized view of an extracted PF statement.
type PFDocument struct {
	Account PFAccountInfo
	Records []EmploymentRecord
}

// LoadCVDocument reads an extracted-CV JSON file and normalizes its entries.
func LoadCVDocument(path string) (*CVDocument, error) {
	entries, envelope, err := loadEntries(path, cvListAliases)
	if err != nil {
		return nil, fmt.Errorf("cv document %s: %w", path, err)
	}

	doc := &CVDocument{Records: normalizeAll(entries, NormalizeCV)}

	if info, ok := envelope["personal_info"]; ok {
		if err := mapstructure.Decode(info, &doc.Candidate); err != nil {
			return nil, fmt.Errorf("cv document %s: decoding personal_info: %w", path, err)
		}
	}

	return doc, nil
}

// LoadPFDocument reads an extracted-PF JSON file and normalizes its entries.
func LoadPFDocument(path string) (*PFDocument, error) {
	entries, envelope, err := loadEntries(path, pfListAliases)
	if err != nil {
		return nil, fmt.Errorf("pf document %s: %w", path, err)
	}

	doc := &PFDocument{Records: normalizeAll(entries, NormalizePF)}

	if info, ok := envelope["account_info"]; ok {
		if err := mapstructure.Decode(info, &doc.Account); err != nil {
			return nil, fmt.Errorf("pf document %s: decoding account_info: %w", path, err)
		}
	}

	return doc, nil
}

// loadEntries accepts either an envelope object holding the employment list
// under one of the alias keys, or a bare JSON array of entries.
func loadEntries(path string, listAliases []string) ([]map[string]any, map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var envelope map[string]any
	if err := json.Unmarshal(data, &envelope); err == nil {
		for _, key := range listAliases {
			list, ok := envelope[key]
			if !ok {
				continue
			}
			entries, err := decodeEntryList(list)
			if err != nil {
				return nil, nil, fmt.Errorf("key %q: %w", key, err)
			}
			return entries, envelope, nil
		}
		// An envelope without any employment list still verifies; it just
		// produces an empty record set.
		return nil, envelope, nil
	}

	var bare []map[string]any
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, nil, fmt.Errorf("neither an extraction envelope nor an entry array: %w", err)
	}
	return bare, map[string]any{}, nil
}

func decodeEntryList(list any) ([]map[string]any, error) {
	items, ok := list.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %T", list)
	}

	entries := make([]map[string]any, 0, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d: expected an object, got %T", i, item)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func normalizeAll(entries []map[string]any, normalize func(map[string]any) EmploymentRecord) []EmploymentRecord {
	result := make([]EmploymentRecord, 0, len(entries))
	for _, entry := range entries {
		result = append(result, normalize(entry))
	}
	return result
}
