package crypto

import (
	"bytes"
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// idChecksumSize is the number of double-SHA-256 bytes appended before
// base58 encoding.
const idChecksumSize = 4

// Identifier is a fixed-length binary hash of an entity.
type Identifier []byte

// CalculateID hashes data into an Identifier.
func CalculateID(data []byte) Identifier {
	sum := sha256.Sum256(data)
	return Identifier(sum[:])
}

// IsEmpty reports whether the identifier holds no bytes.
func (id Identifier) IsEmpty() bool { return len(id) == 0 }

// Equal reports whether two identifiers hold the same bytes.
func (id Identifier) Equal(other Identifier) bool { return bytes.Equal(id, other) }

// String returns the canonical text encoding.
func (id Identifier) String() string { return EncodeID(id) }

// EncodeID returns the base58 text form of id with a 4-byte checksum.
// An empty identifier encodes to the empty string.
func EncodeID(id Identifier) string {
	if id.IsEmpty() {
		return ""
	}
	buf := make([]byte, 0, len(id)+idChecksumSize)
	buf = append(buf, id...)
	buf = append(buf, idChecksum(id)...)
	return base58.Encode(buf)
}

// DecodeID parses the text form produced by EncodeID. Strings shorter than
// MinEncodedIDLength, invalid base58 and checksum mismatches all yield an
// empty identifier.
func DecodeID(s string) Identifier {
	if len(s) < MinEncodedIDLength {
		return nil
	}
	raw, err := base58.Decode(s)
	if err != nil || len(raw) <= idChecksumSize {
		return nil
	}
	body, sum := raw[:len(raw)-idChecksumSize], raw[len(raw)-idChecksumSize:]
	if !bytes.Equal(sum, idChecksum(body)) {
		return nil
	}
	return Identifier(body)
}

func idChecksum(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:idChecksumSize]
}
