package crypto

import "fmt"

// Signature holds raw signature bytes and converts them to and from their
// armored text form.
type Signature struct {
	raw []byte
}

// NewSignature wraps a copy of raw.
func NewSignature(raw []byte) *Signature {
	return &Signature{raw: cloneBytes(raw)}
}

// ParseSignature decodes an armored signature.
func ParseSignature(armored string) (*Signature, error) {
	raw, err := Base64Decode(armored, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSignature)
	}
	return &Signature{raw: raw}, nil
}

// Bytes returns the raw signature.
func (s *Signature) Bytes() []byte { return s.raw }

// Len returns the raw signature length.
func (s *Signature) Len() int { return len(s.raw) }

// Armor returns the line-wrapped base64 form.
func (s *Signature) Armor() string { return Base64Encode(s.raw, true) }

func (s *Signature) String() string { return s.Armor() }
