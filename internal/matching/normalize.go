package matching

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics strips combining marks, so "Jalapeño" becomes "Jalapeno".
func RemoveDiacritics(s string) string {
	// Letters that do not decompose under NFD
	replacer := strings.NewReplacer(
		"ß", "ss",
		"æ", "ae", "Æ", "AE",
		"ø", "o", "Ø", "O",
		"đ", "d", "Đ", "D",
	)
	s = replacer.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

var folder = cases.Fold()

// FoldKey returns the comparison key of s: diacritics removed, case folded and
// whitespace collapsed. Two strings match case-insensitively iff their keys are equal.
func FoldKey(s string) string {
	s = RemoveDiacritics(s)
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// EqualFold reports whether a and b are equal after folding.
func EqualFold(a, b string) bool {
	return FoldKey(a) == FoldKey(b)
}

// ContainsAny reports whether the folded query is a substring of any folded
// field. An empty query matches everything.
func ContainsAny(fields []string, query string) bool {
	q := FoldKey(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(FoldKey(f), q) {
			return true
		}
	}
	return false
}

// NormalizeUnit converts a unit and quantity to canonical form for display,
// e.g. ("OZ", "16") -> "1lb", ("ml", "1500") -> "1.5l", ("ct", "12") -> "12ct".
func NormalizeUnit(unit, quantity string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	q := strings.TrimSpace(quantity)

	conversions := map[string]string{
		"l":      "l",
		"ltr":    "l",
		"liter":  "l",
		"ml":     "ml",
		"kg":     "kg",
		"g":      "g",
		"gr":     "g",
		"oz":     "oz",
		"ounce":  "oz",
		"lb":     "lb",
		"lbs":    "lb",
		"pound":  "lb",
		"fl oz":  "fl oz",
		"floz":   "fl oz",
		"gal":    "gal",
		"gallon": "gal",
		"ct":     "ct",
		"count":  "ct",
		"pcs":    "ct",
		"ea":     "ea",
		"each":   "ea",
	}

	if canonical, ok := conversions[u]; ok {
		u = canonical
	}

	// Promote to the larger unit: 1000ml -> 1l, 1000g -> 1kg, 16oz -> 1lb
	if q != "" {
		if val, err := strconv.ParseFloat(q, 64); err == nil {
			switch {
			case u == "ml" && val >= 1000:
				return formatQuantity(val/1000) + "l"
			case u == "g" && val >= 1000:
				return formatQuantity(val/1000) + "kg"
			case u == "oz" && val >= 16:
				return formatQuantity(val/16) + "lb"
			}
		}
	}

	if q != "" {
		return q + u
	}
	return u
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
