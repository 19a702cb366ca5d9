package records

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateKind classifies the outcome of normalizing a date-like string.
type DateKind int

const (
	// DateUnparseable means no known format matched and no year could be recovered.
	DateUnparseable DateKind = iota
	// DateParsed means a concrete (year, month) value was produced.
	DateParsed
	// DateOpenEnded means the string denotes an ongoing period ("Present" and friends).
	DateOpenEnded
)

// YearMonth is a month-granularity point in time. Upstream extractors rarely
// agree on day precision, so everything is compared at month resolution.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Index returns the absolute month index of the value, suitable for interval
// arithmetic. Consecutive months differ by exactly one.
func (ym YearMonth) Index() int {
	return ym.Year*12 + int(ym.Month) - 1
}

// Before reports whether ym precedes other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Index() < other.Index()
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Now returns the current calendar month in UTC.
func Now() YearMonth {
	t := time.Now().UTC()
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

var openEndedLiterals = map[string]struct{}{
	"present": {},
	"current": {},
	"ongoing": {},
}

// Layouts are tried in order. Non-padded month/day verbs accept both "3/2021"
// and "03/2021" style values.
var yearMonthLayouts = []string{
	"2006-1-2",    // ISO date
	"2006/1/2",
	"2006-1",      // ISO year-month
	"1/2006",      // MM/YYYY, common in PF statements
	"2-1-2006",    // DD-MM-YYYY
	"1-2006",      // MM-YYYY
	"Jan-2006",
	"Jan/2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

var yearRun = regexp.MustCompile(`\d{4}`)

// ParseYearMonth normalizes a heterogeneous date-like string into a canonical
// (year, month) value, an open-ended marker, or an unparseable outcome. It is
// total: no input causes an error. Year-only inputs default the month to
// January. As a last resort the first 4-digit run in the string is taken as a
// year.
func ParseYearMonth(raw string) (YearMonth, DateKind) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return YearMonth{}, DateUnparseable
	}

	if _, ok := openEndedLiterals[strings.ToLower(trimmed)]; ok {
		return YearMonth{}, DateOpenEnded
	}

	for _, layout := range yearMonthLayouts {
		t, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		return YearMonth{Year: t.Year(), Month: t.Month()}, DateParsed
	}

	if match := yearRun.FindString(trimmed); match != "" {
		year, err := strconv.Atoi(match)
		if err == nil {
			return YearMonth{Year: year, Month: time.January}, DateParsed
		}
	}

	return YearMonth{}, DateUnparseable
}
