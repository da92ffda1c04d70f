package csv

import (
	"strings"
)

var candidateDelimiters = []Delimiter{DelimiterComma, DelimiterSemicolon, DelimiterTab, DelimiterPipe}

// DetectDelimiter detects the CSV delimiter by analyzing the first few lines.
// The delimiter that appears most often with the most consistent count per
// line wins; quoted sections are ignored.
func DetectDelimiter(content string) Delimiter {
	sampleLines := make([]string, 0, 5)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		sampleLines = append(sampleLines, stripQuoted(trimmed))
		if len(sampleLines) >= 5 {
			break
		}
	}
	if len(sampleLines) == 0 {
		return DelimiterComma
	}

	best := DelimiterComma
	maxConsistency := 0.0

	for _, delim := range candidateDelimiters {
		counts := make([]int, 0, len(sampleLines))
		sum := 0
		for _, line := range sampleLines {
			c := strings.Count(line, string(rune(delim)))
			counts = append(counts, c)
			sum += c
		}

		avg := float64(sum) / float64(len(counts))
		if avg == 0 {
			continue
		}

		variance := 0.0
		for _, c := range counts {
			diff := float64(c) - avg
			variance += diff * diff
		}
		variance /= float64(len(counts))

		consistency := avg / (1.0 + variance)
		if consistency > maxConsistency {
			maxConsistency = consistency
			best = delim
		}
	}

	return best
}

// stripQuoted removes double-quoted sections so embedded delimiters are not counted.
func stripQuoted(line string) string {
	var b strings.Builder
	inQuotes := false
	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			b.WriteRune(r)
		}
	}
	return b.String()
}
