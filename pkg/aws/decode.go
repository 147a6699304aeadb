package aws

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeText decodes document bytes as UTF-8, falling back to ISO-8859-1,
// which maps every byte and so never fails
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
