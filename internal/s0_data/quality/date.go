package quality

import (
	"strconv"
	"strings"
	"time"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
)

// ParseDate converts a DD/MM/YYYY date into a civil date at UTC midnight.
// Day and month take one or two digits, the year exactly four. The date must
// exist on the calendar; nothing is coerced.
func ParseDate(text string) (time.Time, error) {
	parts := strings.Split(text, "/")
	if len(parts) != 3 {
		return time.Time{}, &contracts.FormatError{Input: text, Reason: "expected three slash-separated components"}
	}

	day, ok := parseDigits(parts[0], 1, 2)
	if !ok {
		return time.Time{}, &contracts.FormatError{Input: text, Reason: "day is not a 1-2 digit number"}
	}
	month, ok := parseDigits(parts[1], 1, 2)
	if !ok {
		return time.Time{}, &contracts.FormatError{Input: text, Reason: "month is not a 1-2 digit number"}
	}
	year, ok := parseDigits(parts[2], 4, 4)
	if !ok {
		return time.Time{}, &contracts.FormatError{Input: text, Reason: "year is not a 4 digit number"}
	}

	if month < 1 || month > 12 {
		return time.Time{}, &contracts.FormatError{Input: text, Reason: "month out of range"}
	}
	if year < 1 {
		return time.Time{}, &contracts.FormatError{Input: text, Reason: "year out of range"}
	}

	// time.Date normalizes overflow (31/02 -> 02/03), so compare back
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, &contracts.FormatError{Input: text, Reason: "day out of range"}
	}

	return t, nil
}

// NormalizeDate returns the canonical YYYY-MM-DD key of a DD/MM/YYYY date
func NormalizeDate(text string) (string, error) {
	t, err := ParseDate(text)
	if err != nil {
		return "", err
	}
	return t.Format(contracts.KeyLayout), nil
}

// DisplayDate renders a stored date back as DD/MM/YYYY
func DisplayDate(t time.Time) string {
	return t.Format(contracts.DisplayLayout)
}

func parseDigits(s string, minLen, maxLen int) (int, bool) {
	if len(s) < minLen || len(s) > maxLen {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
