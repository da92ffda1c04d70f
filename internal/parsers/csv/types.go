package csv

import "github.com/kosarica/compare-service/internal/parsers/charset"

// Delimiter represents supported CSV delimiters
type Delimiter rune

const (
	DelimiterComma     Delimiter = ','
	DelimiterSemicolon Delimiter = ';'
	DelimiterTab       Delimiter = '\t'
	DelimiterPipe      Delimiter = '|'
)

// Options controls how CSV content is read.
// Zero values mean "detect".
type Options struct {
	Delimiter     Delimiter
	Encoding      charset.Encoding
	SkipEmptyRows bool
}

// DefaultOptions returns default CSV parser options
func DefaultOptions() Options {
	return Options{SkipEmptyRows: true}
}
