// Package normalize converts raw statement cell values into canonical amounts
// and calendar dates. Every function here is total: malformed input degrades
// to a zero value instead of an error.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/vledger/internal/model"
	"github.com/shopspring/decimal"
)

// ParseNumber converts a raw amount cell using the default separator rules.
func ParseNumber(v any) float64 {
	return ParseNumberFormat(v, model.NumberAuto)
}

// ParseNumberFormat converts a raw amount cell to a float64. Missing, empty and
// unparseable values yield 0. Values that are already numeric are returned
// unchanged.
func ParseNumberFormat(v any, format model.NumberFormat) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case time.Time, *time.Time:
		return 0
	case decimal.Decimal:
		f, _ := n.Float64()
		return finite(f)
	case *decimal.Decimal:
		if n == nil {
			return 0
		}
		f, _ := n.Float64()
		return finite(f)
	case string:
		return parseNumberText(n, format)
	case []byte:
		return parseNumberText(string(n), format)
	case fmt.Stringer:
		text, ok := stringerText(n)
		if !ok {
			return 0
		}
		return parseNumberText(text, format)
	default:
		return parseNumberText(fmt.Sprint(v), format)
	}
}

// stringerText calls String, reporting false when it panics, as value
// methods do on a typed nil pointer.
func stringerText(s fmt.Stringer) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()
	return s.String(), true
}

func parseNumberText(text string, format model.NumberFormat) float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)

	switch format {
	case model.NumberUS:
		s = strings.ReplaceAll(s, ",", "")
	default:
		hasDot := strings.Contains(s, ".")
		hasComma := strings.Contains(s, ",")
		switch {
		case hasDot && hasComma:
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		case hasComma:
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	if f, ok := parseFloat(s); ok {
		return f
	}
	if f, ok := parseFloat(stripNonNumeric(s)); ok {
		return f
	}
	return 0
}

// stripNonNumeric keeps digits, dots and a minus sign that precedes every digit.
func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// finite maps NaN (a missing spreadsheet cell) and infinities to 0.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
