package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/compare-service/internal/parsers"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected Delimiter
	}{
		{"Comma", "id,name,price\nmilk,Milk,3.99", DelimiterComma},
		{"Semicolon", "id;name;price\nmilk;Milk;3,99", DelimiterSemicolon},
		{"Tab", "id\tname\tprice\nmilk\tMilk\t3.99", DelimiterTab},
		{"Pipe", "id|name|price\nmilk|Milk|3.99", DelimiterPipe},
		{"Quoted commas ignored", "id;name;price\nmilk;\"Milk, whole\";3,99", DelimiterSemicolon},
		{"Empty defaults to comma", "", DelimiterComma},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectDelimiter(tt.content))
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"3.99", 399, false},
		{"$3.99", 399, false},
		{" $ 12.50 ", 1250, false},
		{"1,299.00", 129900, false},
		{"1.299,00", 129900, false},
		{"3,99 USD", 399, false},
		{"99¢", 99, false},
		{"4", 400, false},
		{"", 0, true},
		{"$", 0, true},
		{"abc", 0, true},
		{"-1.00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$3.99", FormatCents(399))
	assert.Equal(t, "$0.05", FormatCents(5))
	assert.Equal(t, "-$1.00", FormatCents(-100))
}

func TestParserParse(t *testing.T) {
	content := []byte("\xEF\xBB\xBFItem ID;Name;Price\n\nmilk;\"Milk; whole\";3,99\n;;\nbread;Bread;2,49\n")

	table, err := NewParser(DefaultOptions()).Parse("prices.csv", content)
	require.NoError(t, err)

	assert.Equal(t, []string{"Item ID", "Name", "Price"}, table.Headers)
	require.Len(t, table.Rows, 2)

	idCol, ok := table.Column("item_id")
	require.True(t, ok)
	nameCol, _ := table.Column("name")
	assert.Equal(t, "milk", parsers.Cell(table.Rows[0], idCol))
	assert.Equal(t, "Milk; whole", parsers.Cell(table.Rows[0], nameCol))
	assert.Equal(t, "bread", parsers.Cell(table.Rows[1], idCol))
}

func TestParserParseWindows1252(t *testing.T) {
	content := []byte("id,name\njal,Jalape\xF1o\n")

	table, err := NewParser(DefaultOptions()).Parse("items.csv", content)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Jalapeño", table.Rows[0][1])
}

func TestParserParseEmpty(t *testing.T) {
	_, err := NewParser(DefaultOptions()).Parse("empty.csv", []byte("\n\n"))
	assert.Error(t, err)
}
