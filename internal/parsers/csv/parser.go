package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kosarica/compare-service/internal/parsers"
	"github.com/kosarica/compare-service/internal/parsers/charset"
)

// Parser implements CSV parsing with encoding and delimiter detection.
type Parser struct {
	options Options
}

// NewParser creates a new CSV parser with the given options
func NewParser(options Options) *Parser {
	return &Parser{options: options}
}

// Parse decodes content and reads it into a table. The first non-empty row is
// the header.
func (p *Parser) Parse(name string, content []byte) (*parsers.Table, error) {
	opts := p.options

	if opts.Encoding == "" {
		opts.Encoding = charset.DetectEncoding(content)
	}
	decoded, err := charset.Decode(content, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to decode content: %w", name, err)
	}

	if opts.Delimiter == 0 {
		opts.Delimiter = DetectDelimiter(decoded)
	}

	r := stdcsv.NewReader(strings.NewReader(decoded))
	r.Comma = rune(opts.Delimiter)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var headers []string
	rows := make([][]string, 0)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse CSV: %w", name, err)
		}
		if headers == nil {
			if parsers.IsEmptyRow(record) {
				continue
			}
			headers = record
			continue
		}
		if opts.SkipEmptyRows && parsers.IsEmptyRow(record) {
			continue
		}
		rows = append(rows, record)
	}

	if headers == nil {
		return nil, fmt.Errorf("%s: no header row", name)
	}

	log.Debug().
		Str("table", name).
		Str("encoding", string(opts.Encoding)).
		Str("delimiter", string(rune(opts.Delimiter))).
		Int("rows", len(rows)).
		Msg("Parsed CSV table")

	return parsers.NewTable(name, headers, rows), nil
}
