package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dayFirstLayouts are tried before the generic parser, so that ambiguous
// numeric dates always read day before month.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2-1-06",
	"2.1.2006",
	"2.1.06",
	"2006-01-02",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2 Jan 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"2/Jan/2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102",
}

// portugueseMonths maps Portuguese month names and abbreviations that differ
// from English to their English abbreviation.
var portugueseMonths = map[string]string{
	"janeiro":   "Jan",
	"fevereiro": "Feb",
	"fev":       "Feb",
	"março":     "Mar",
	"marco":     "Mar",
	"abril":     "Apr",
	"abr":       "Apr",
	"maio":      "May",
	"mai":       "May",
	"junho":     "Jun",
	"julho":     "Jul",
	"agosto":    "Aug",
	"ago":       "Aug",
	"setembro":  "Sep",
	"set":       "Sep",
	"outubro":   "Oct",
	"out":       "Oct",
	"novembro":  "Nov",
	"dezembro":  "Dec",
	"dez":       "Dec",
}

// ParseDate converts a raw date cell to a calendar date (midnight UTC). The
// boolean is false when the value is missing or cannot be read as a date.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return dateOnly(d)
	case *time.Time:
		if d == nil {
			return time.Time{}, false
		}
		return dateOnly(*d)
	case string:
		return parseDateText(d)
	case []byte:
		return parseDateText(string(d))
	case int:
		return parseDateText(strconv.Itoa(d))
	case int64:
		return parseDateText(strconv.FormatInt(d, 10))
	case float64:
		if d != float64(int64(d)) {
			return time.Time{}, false
		}
		return parseDateText(strconv.FormatInt(int64(d), 10))
	default:
		return parseDateText(fmt.Sprint(v))
	}
}

func parseDateText(text string) (t time.Time, ok bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}

	// Bare numbers are amounts or identifiers unless they spell YYYYMMDD.
	if isDigits(s) && len(s) != 8 {
		return time.Time{}, false
	}

	s = translateMonths(s)

	for _, layout := range dayFirstLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return dateOnly(parsed)
		}
	}

	// dateparse can panic on some malformed input.
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()

	parsed, err := dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}
	return dateOnly(parsed)
}

func dateOnly(t time.Time) (time.Time, bool) {
	if t.IsZero() {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// translateMonths rewrites Portuguese month names, dropping the "de" in forms
// like "15 de março de 2024".
func translateMonths(s string) string {
	if !strings.ContainsFunc(s, isLetter) {
		return s
	}

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '/' || r == '-'
	})
	if len(fields) < 2 {
		return s
	}

	out := make([]string, 0, len(fields))
	translated := false
	for _, f := range fields {
		lower := strings.ToLower(strings.TrimSuffix(f, "."))
		if lower == "de" {
			translated = true
			continue
		}
		if en, ok := portugueseMonths[lower]; ok {
			out = append(out, en)
			translated = true
			continue
		}
		out = append(out, f)
	}
	if !translated {
		return s
	}
	return strings.Join(out, " ")
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127
}
