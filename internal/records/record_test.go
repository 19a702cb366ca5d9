package records

import (
	"testing"
	"time"
)

func TestNormalizeCVAliasProbing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      map[string]any
		employer string
		start    YearMonth
	}{
		{
			name:     "company key",
			raw:      map[string]any{"company": "ABC Tech Solutions", "start_date": "2021-01", "end_date": "2022-12"},
			employer: "ABC Tech Solutions",
			start:    YearMonth{Year: 2021, Month: time.January},
		},
		{
			name:     "employer_name key",
			raw:      map[string]any{"employer_name": "XYZ Software", "start_period": "03/2021", "end_period": "12/2022"},
			employer: "XYZ Software",
			start:    YearMonth{Year: 2021, Month: time.March},
		},
		{
			name:     "first non-empty alias wins",
			raw:      map[string]any{"company": "  ", "employer": "Beta LLC", "start_date": "2020"},
			employer: "Beta LLC",
			start:    YearMonth{Year: 2020, Month: time.January},
		},
		{
			name:     "numeric year from extraction",
			raw:      map[string]any{"company": "Acme Corp", "start_date": float64(2021)},
			employer: "Acme Corp",
			start:    YearMonth{Year: 2021, Month: time.January},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			record := NormalizeCV(tt.raw)

			if record.Employer != tt.employer {
				t.Fatalf("expected employer %q, got %q", tt.employer, record.Employer)
			}
			if !record.Parseable {
				t.Fatalf("expected record to be parseable")
			}
			if record.Start != tt.start {
				t.Fatalf("expected start %v, got %v", tt.start, record.Start)
			}
			if record.Source != SourceCV {
				t.Fatalf("expected CV source, got %s", record.Source)
			}
		})
	}
}

func TestNormalizePFKeepsRawEntry(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"employer":              "ABC Tech",
		"start_date":            "01/2021",
		"end_date":              "12/2022",
		"employee_contribution": 132500.0,
	}

	record := NormalizePF(raw)

	if record.Source != SourcePF {
		t.Fatalf("expected PF source, got %s", record.Source)
	}
	if record.Raw["employee_contribution"] != 132500.0 {
		t.Fatalf("expected contribution to pass through, got %v", record.Raw["employee_contribution"])
	}
	if record.EmployerKey != "abc tech" {
		t.Fatalf("expected cached lowercase key, got %q", record.EmployerKey)
	}
}

func TestNormalizeUnparseableStartIsRetained(t *testing.T) {
	t.Parallel()

	record := NormalizeCV(map[string]any{"company": "Acme Corp", "start_date": "unknown"})

	if record.Parseable {
		t.Fatalf("expected unparseable record")
	}
	if record.Employer != "Acme Corp" {
		t.Fatalf("expected employer to survive, got %q", record.Employer)
	}
}

func TestNormalizeMissingEndIsOpenEnded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  map[string]any
	}{
		{name: "present literal", raw: map[string]any{"company": "Acme", "start_date": "2021-01", "end_date": "Present"}},
		{name: "missing end", raw: map[string]any{"company": "Acme", "start_date": "2021-01"}},
		{name: "unparseable end", raw: map[string]any{"company": "Acme", "start_date": "2021-01", "end_date": "tbd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			record := NormalizeCV(tt.raw)
			if !record.OpenEnded {
				t.Fatalf("expected open-ended record")
			}
			if !record.Parseable {
				t.Fatalf("expected parseable record")
			}
		})
	}
}

func TestNormalizeInvertedPeriodIsUnparseable(t *testing.T) {
	t.Parallel()

	record := NormalizeCV(map[string]any{"company": "Acme", "start_date": "2022-06", "end_date": "2021-01"})

	if record.Parseable {
		t.Fatalf("expected inverted period to be unparseable")
	}
}

func TestPeriodRendering(t *testing.T) {
	t.Parallel()

	closed := NormalizeCV(map[string]any{"company": "Acme", "start_date": "2021-01", "end_date": "2022-12"})
	if closed.Period() != "2021-01 - 2022-12" {
		t.Fatalf("unexpected period: %q", closed.Period())
	}

	open := NormalizeCV(map[string]any{"company": "Acme", "start_date": "2021-01", "end_date": "Present"})
	if open.Period() != "2021-01 - Present" {
		t.Fatalf("unexpected period: %q", open.Period())
	}

	broken := NormalizeCV(map[string]any{"company": "Acme"})
	if broken.Period() != "unparseable" {
		t.Fatalf("unexpected period: %q", broken.Period())
	}
}
