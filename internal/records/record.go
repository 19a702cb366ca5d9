package records

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Source identifies which document produced a record.
type Source string

const (
	SourceCV Source = "CV"
	SourcePF Source = "PF"
)

// Field aliases probed in order. Upstream extractors (regex and LLM based)
// disagree on key naming, so the first present, non-empty alias wins.
var (
	employerAliases = []string{"company", "company_name", "employer", "employer_name"}
	startAliases    = []string{"start_date", "start_period", "period_start", "from"}
	endAliases      = []string{"end_date", "end_period", "period_end", "to"}
)

// EmploymentRecord is the canonical employment entry every downstream
// component works with. It is created once per verification run and never
// mutated afterwards.
type EmploymentRecord struct {
	// Employer keeps the original casing for display.
	Employer string
	// EmployerKey is the lowercased, trimmed form cached for comparison.
	EmployerKey string

	Start YearMonth
	// End is meaningful only when OpenEnded is false.
	End YearMonth
	// OpenEnded marks an ongoing employment ("Present"). A missing or
	// unparseable end date is treated the same way.
	OpenEnded bool

	// Parseable is false when the start date could not be normalized or the
	// period is inverted. Such records are excluded from temporal comparison
	// but still counted and reported.
	Parseable bool

	Source Source
	// Raw is the unmodified upstream entry, retained for traceability.
	Raw map[string]any
}

// Period renders the record's period for reports, e.g. "2021-01 - Present".
func (r EmploymentRecord) Period() string {
	if !r.Parseable {
		return "unparseable"
	}
	end := "Present"
	if !r.OpenEnded {
		end = r.End.String()
	}
	return fmt.Sprintf("%s - %s", r.Start.String(), end)
}

// NormalizeCV converts a raw CV employment entry into a canonical record.
func NormalizeCV(raw map[string]any) EmploymentRecord {
	return normalize(raw, SourceCV)
}

// NormalizePF converts a raw PF contribution entry into a canonical record.
// Contribution amounts and other extra fields pass through untouched in Raw.
func NormalizePF(raw map[string]any) EmploymentRecord {
	return normalize(raw, SourcePF)
}

func normalize(raw map[string]any, source Source) EmploymentRecord {
	record := EmploymentRecord{Source: source, Raw: raw}

	record.Employer = firstAlias(raw, employerAliases)
	record.EmployerKey = strings.ToLower(strings.TrimSpace(record.Employer))

	start, startKind := ParseYearMonth(firstAlias(raw, startAliases))
	end, endKind := ParseYearMonth(firstAlias(raw, endAliases))

	record.Parseable = startKind == DateParsed
	record.Start = start

	if endKind == DateParsed {
		record.End = end
	} else {
		record.OpenEnded = true
	}

	// An inverted period cannot be compared against anything.
	if record.Parseable && !record.OpenEnded && record.End.Before(record.Start) {
		record.Parseable = false
	}

	return record
}

func firstAlias(raw map[string]any, aliases []string) string {
	for _, key := range aliases {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if s := strings.TrimSpace(stringify(value)); s != "" {
			return s
		}
	}
	return ""
}

// stringify renders loosely typed extraction values. JSON numbers arrive as
// float64 (a bare year extracted as 2021), so those are formatted without a
// fractional part when integral.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
