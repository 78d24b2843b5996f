package envelope

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRecipients is returned when sealing to an empty recipient list.
	ErrNoRecipients = errors.New("no recipients")

	// ErrDuplicateRecipient is returned when a recipient identifier is added
	// twice.
	ErrDuplicateRecipient = errors.New("duplicate recipient")

	// ErrInvalidRecipientID is returned for identifiers that cannot be
	// written to the wire (embedded terminator bytes).
	ErrInvalidRecipientID = errors.New("invalid recipient identifier")

	// ErrInvalidEnvelopeType is returned when the envelope type tag is not
	// TypeAsymmetric.
	ErrInvalidEnvelopeType = errors.New("invalid envelope type")

	// ErrTruncated is returned when a field extends past the end of the
	// envelope.
	ErrTruncated = errors.New("envelope truncated")

	// ErrMalformed is returned when a field holds a value that is never
	// valid, such as a zero recipient count.
	ErrMalformed = errors.New("malformed envelope")

	// ErrNoMatchingRecipient is returned by Open when no entry is addressed
	// to the caller.
	ErrNoMatchingRecipient = errors.New("no matching recipient")

	// ErrMissingTerminator is returned when decrypted content does not end
	// with the terminator byte.
	ErrMissingTerminator = errors.New("missing plaintext terminator")
)

// ParseError reports where in the wire record parsing stopped.
type ParseError struct {
	Field  string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse envelope %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// OpenError reports a primitive failure after parsing succeeded.
type OpenError struct {
	Stage string // "unwrap", "decrypt", "terminator"
	Err   error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open envelope failed at %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpenError) Unwrap() error {
	return e.Err
}
