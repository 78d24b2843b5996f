package crypto

import (
	"encoding/base64"
	"strings"
)

// armorLineLength is the column at which armored output wraps.
const armorLineLength = 64

// Base64Encode encodes data with standard base64. With lineBreaks set the
// output is wrapped at 64 columns and every line ends with a newline.
func Base64Encode(data []byte, lineBreaks bool) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	if !lineBreaks || encoded == "" {
		return encoded
	}

	var sb strings.Builder
	sb.Grow(len(encoded) + len(encoded)/armorLineLength + 1)
	for len(encoded) > armorLineLength {
		sb.WriteString(encoded[:armorLineLength])
		sb.WriteByte('\n')
		encoded = encoded[armorLineLength:]
	}
	sb.WriteString(encoded)
	sb.WriteByte('\n')
	return sb.String()
}

// Base64Decode decodes standard base64. With lineBreaks set, line-wrap
// characters and surrounding whitespace are ignored.
func Base64Decode(s string, lineBreaks bool) ([]byte, error) {
	if lineBreaks {
		s = strings.Map(func(r rune) rune {
			switch r {
			case '\n', '\r', ' ', '\t':
				return -1
			}
			return r
		}, s)
	}
	return base64.StdEncoding.DecodeString(s)
}
