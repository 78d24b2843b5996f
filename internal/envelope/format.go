package envelope

import (
	"errors"

	"github.com/digitalcash/cryptocore/internal/bytebuf"
)

// Wire layout, all integers big-endian:
//
//	type        uint16 (TypeAsymmetric)
//	count       uint32 (>= 1)
//	count times:
//	  idLen     uint32, includes the trailing NUL
//	  id        idLen bytes
//	  keyLen    uint32
//	  key       keyLen bytes, the wrapped session key
//	ivLen       uint32 (<= crypto.MaxIVSize)
//	iv          ivLen bytes
//	ciphertext  remainder

// TypeAsymmetric tags a multi-recipient public-key envelope.
const TypeAsymmetric uint16 = 1

const terminator = 0

// minEntrySize is the smallest possible recipient entry: two length fields
// and the one-byte identifier terminator.
const minEntrySize = 4 + 1 + 4

// Wire field names reported in ParseError.
const (
	fieldType       = "envelope_type"
	fieldCount      = "recipient_count"
	fieldIDLen      = "identifier_length"
	fieldID         = "identifier"
	fieldKeyLen     = "wrapped_key_length"
	fieldKey        = "wrapped_key"
	fieldIVLen      = "iv_length"
	fieldIV         = "iv"
	fieldCiphertext = "ciphertext"
)

// reader wraps a buffer so every failure carries its field and offset.
type reader struct {
	buf *bytebuf.Buffer
}

func (r reader) fail(field string, off int, err error) error {
	if errors.Is(err, bytebuf.ErrShortBuffer) {
		err = errors.Join(ErrTruncated, err)
	}
	return &ParseError{Field: field, Offset: off, Err: err}
}

func (r reader) uint16(field string) (uint16, error) {
	off := r.buf.Offset()
	v, err := r.buf.ReadUint16()
	if err != nil {
		return 0, r.fail(field, off, err)
	}
	return v, nil
}

func (r reader) uint32(field string) (uint32, error) {
	off := r.buf.Offset()
	v, err := r.buf.ReadUint32()
	if err != nil {
		return 0, r.fail(field, off, err)
	}
	return v, nil
}

// bytes reads a length-prefixed field. The length is checked against the
// remaining bytes before anything is sliced.
func (r reader) bytes(lenField, field string) ([]byte, error) {
	n, err := r.uint32(lenField)
	if err != nil {
		return nil, err
	}
	off := r.buf.Offset()
	if uint64(n) > uint64(r.buf.Remaining()) {
		return nil, r.fail(field, off, bytebuf.ErrShortBuffer)
	}
	p, err := r.buf.Next(int(n))
	if err != nil {
		return nil, r.fail(field, off, err)
	}
	return p, nil
}

// cString returns the text before the first NUL. The final byte is treated
// as a terminator whatever its value.
func cString(p []byte) string {
	if len(p) == 0 {
		return ""
	}
	p = p[:len(p)-1]
	for i, b := range p {
		if b == terminator {
			return string(p[:i])
		}
	}
	return string(p)
}
