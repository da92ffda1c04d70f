package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected Encoding
	}{
		{"UTF-8 BOM", []byte{0xEF, 0xBB, 0xBF, 'H', 'i'}, EncodingUTF8},
		{"Plain ASCII", []byte("name,price"), EncodingUTF8},
		{"UTF-8 accents", []byte("Jalapeño"), EncodingUTF8},
		{"Windows-1252 accents", []byte{'J', 'a', 'l', 'a', 'p', 'e', 0xF1, 'o'}, EncodingWindows1252},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectEncoding(tt.content))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		enc      Encoding
		expected string
	}{
		{"Strips BOM", []byte{0xEF, 0xBB, 0xBF, 'o', 'k'}, EncodingUTF8, "ok"},
		{"Windows-1252", []byte{'J', 'a', 'l', 'a', 'p', 'e', 0xF1, 'o'}, EncodingWindows1252, "Jalapeño"},
		{"Windows-1252 euro sign", []byte{0x80, '5'}, EncodingWindows1252, "€5"},
		{"ISO-8859-1", []byte{'C', 'r', 0xE8, 'm', 'e'}, EncodingISO88591, "Crème"},
		{"Mislabelled UTF-8 kept", []byte("Crème"), EncodingWindows1252, "Crème"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.content, tt.enc)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeUnsupportedEncoding(t *testing.T) {
	_, err := Decode([]byte{0xFF}, "ebcdic")
	assert.Error(t, err)
}
