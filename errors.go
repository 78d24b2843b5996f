package cryptocore

import (
	"errors"
	"fmt"

	"github.com/digitalcash/cryptocore/internal/crypto"
	"github.com/digitalcash/cryptocore/internal/envelope"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrNotInitialized is returned by operations on a provider that has
	// been cleaned up.
	ErrNotInitialized = errors.New("provider is not initialized")

	// ErrPrecondition marks caller errors: nil or empty inputs and wrong
	// key or IV sizes.
	ErrPrecondition = crypto.ErrPrecondition

	// ErrRandomFailed is returned when the random source fails.
	ErrRandomFailed = crypto.ErrRandomFailed

	// ErrEncryptionFailed is returned when the payload cipher fails.
	ErrEncryptionFailed = crypto.ErrEncryptionFailed

	// ErrDecryptionFailed is returned when ciphertext does not authenticate.
	ErrDecryptionFailed = crypto.ErrDecryptionFailed

	// ErrKeyWrapFailed is returned when a session key cannot be wrapped.
	ErrKeyWrapFailed = crypto.ErrKeyWrapFailed

	// ErrKeyUnwrapFailed is returned when a wrapped session key cannot be
	// recovered with the given private key.
	ErrKeyUnwrapFailed = crypto.ErrKeyUnwrapFailed

	// ErrUnsupportedAlgorithm is returned when a key cannot perform the
	// requested operation.
	ErrUnsupportedAlgorithm = crypto.ErrUnsupportedAlgorithm

	// ErrUnknownHash is returned for signature hash names outside the
	// supported set.
	ErrUnknownHash = crypto.ErrUnknownHash

	// ErrSignatureInvalid is returned when a signature does not verify.
	ErrSignatureInvalid = crypto.ErrSignatureVerificationFailed

	// ErrCheckHashMismatch is returned when a derived key does not match
	// its stored check-hash, usually because of a wrong passphrase.
	ErrCheckHashMismatch = crypto.ErrCheckHashMismatch

	// ErrPassphraseRequired is returned when an encrypted key is loaded
	// without a password callback.
	ErrPassphraseRequired = crypto.ErrPassphraseRequired

	// ErrInvalidPEM is returned for unreadable key or certificate blobs.
	ErrInvalidPEM = crypto.ErrInvalidPEM

	// ErrNoRecipients is returned when sealing to an empty recipient list.
	ErrNoRecipients = envelope.ErrNoRecipients

	// ErrInvalidEnvelopeType is returned for envelopes that are not
	// asymmetric.
	ErrInvalidEnvelopeType = envelope.ErrInvalidEnvelopeType

	// ErrTruncated is returned when an envelope field runs past the end.
	ErrTruncated = envelope.ErrTruncated

	// ErrMalformed is returned for envelope fields with impossible values.
	ErrMalformed = envelope.ErrMalformed

	// ErrNoMatchingRecipient is returned when an envelope holds no entry for
	// the caller.
	ErrNoMatchingRecipient = envelope.ErrNoMatchingRecipient
)

// ParseError reports the field and offset at which envelope parsing stopped.
type ParseError = envelope.ParseError

// OpenError reports a failure after an envelope was parsed.
type OpenError = envelope.OpenError

// CryptoCoreError is implemented by all errors returned from Provider
// methods.
type CryptoCoreError interface {
	error
	CryptoCoreError() // marker method
}

// OperationError annotates a failure with the provider operation that
// produced it.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// CryptoCoreError implements the CryptoCoreError interface.
func (e *OperationError) CryptoCoreError() {}

// wrapError attaches op to err. nil stays nil.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Err: err}
}

// IsPrecondition reports whether err stems from invalid caller input.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

// IsParseFailure reports whether err was caused by malformed or truncated
// wire data.
func IsParseFailure(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) ||
		errors.Is(err, ErrInvalidPEM) ||
		errors.Is(err, crypto.ErrInvalidSignature)
}

// IsSemanticFailure reports whether err is an expected negative outcome the
// caller should branch on: no matching recipient, a bad signature or a
// wrong passphrase.
func IsSemanticFailure(err error) bool {
	return errors.Is(err, ErrNoMatchingRecipient) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrCheckHashMismatch)
}

// IsPrimitiveFailure reports whether err came from a failing primitive:
// the random source, the cipher or key unwrapping.
func IsPrimitiveFailure(err error) bool {
	return errors.Is(err, ErrRandomFailed) ||
		errors.Is(err, ErrEncryptionFailed) ||
		errors.Is(err, ErrDecryptionFailed) ||
		errors.Is(err, ErrKeyWrapFailed) ||
		errors.Is(err, ErrKeyUnwrapFailed)
}
