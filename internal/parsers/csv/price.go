package csv

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var currencySuffixRe = regexp.MustCompile(`\s*(USD|EUR|CAD)\s*$`)

// ParsePrice parses a price string to cents.
// Handles "3.99", "$3.99", "1,299.00", "1.299,00", "3,99 USD" and "99¢".
func ParsePrice(value string) (int64, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, fmt.Errorf("empty price value")
	}

	centsOnly := strings.HasSuffix(cleaned, "¢")

	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¢', ' ', '\u00a0':
			return -1
		}
		return r
	}, cleaned)
	cleaned = currencySuffixRe.ReplaceAllString(strings.ToUpper(cleaned), "")
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric value found in %q", value)
	}

	// The separator that comes last is the decimal separator.
	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	switch {
	case lastComma > lastDot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case lastDot > lastComma:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price format %q: %w", value, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative price %q", value)
	}
	if centsOnly {
		return int64(math.Round(f)), nil
	}
	return int64(math.Round(f * 100)), nil
}

// FormatCents formats cents as a dollar string (e.g., 1299 -> "$12.99")
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
