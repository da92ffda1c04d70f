package charset

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingISO88591    Encoding = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding detects the encoding of a byte buffer.
// Spreadsheet exports from Windows tools are the usual source of non-UTF-8
// catalogs, so anything that is not valid UTF-8 is treated as Windows-1252.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, utf8BOM) {
		return EncodingUTF8
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// Decode converts a byte buffer from the specified encoding to a UTF-8 string.
// A UTF-8 BOM is stripped. Valid UTF-8 input is returned as-is whatever enc says,
// so a mislabelled file is never decoded twice.
func Decode(data []byte, enc Encoding) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	var decoder encoding.Encoding
	switch enc {
	case EncodingISO88591:
		decoder = charmap.ISO8859_1
	case EncodingWindows1252, EncodingUTF8, "":
		decoder = charmap.Windows1252
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}

	out, err := decoder.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", enc, err)
	}
	return string(out), nil
}
