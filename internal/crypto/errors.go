package crypto

import "errors"

var (
	// ErrPrecondition is returned when a caller passes arguments that can
	// never succeed (wrong sizes, missing inputs).
	ErrPrecondition = errors.New("precondition violated")

	// ErrInvalidKeySize is returned when a symmetric key has the wrong size.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidIVSize is returned when an IV has the wrong size.
	ErrInvalidIVSize = errors.New("invalid iv size")

	// ErrInvalidNonceSize is returned when an AES-GCM nonce has the wrong size.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrInvalidCiphertextSize is returned when a wrapped key is too short to
	// hold its fixed-size fields.
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")

	// ErrRandomFailed is returned when the random source cannot supply bytes.
	ErrRandomFailed = errors.New("random source failed")

	// ErrEncryptionFailed is returned when a cipher step fails during encryption.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed is returned when ciphertext fails authentication,
	// padding or size checks.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrKeyWrapFailed is returned when a session key cannot be wrapped for a
	// recipient.
	ErrKeyWrapFailed = errors.New("key wrap failed")

	// ErrKeyUnwrapFailed is returned when a wrapped session key cannot be
	// recovered with the given private key.
	ErrKeyUnwrapFailed = errors.New("key unwrap failed")

	// ErrCheckHashMismatch is returned when a re-derived key does not match
	// the stored check-hash.
	ErrCheckHashMismatch = errors.New("check-hash mismatch")

	// ErrUnsupportedAlgorithm is returned when a key algorithm cannot perform
	// the requested operation.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrUnknownHash is returned for an unrecognized digest name.
	ErrUnknownHash = errors.New("unknown hash algorithm")

	// ErrSignatureVerificationFailed is returned when a signature does not
	// verify.
	ErrSignatureVerificationFailed = errors.New("signature verification failed")

	// ErrInvalidKey is returned when key bytes cannot be parsed.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidPEM is returned when a PEM blob is malformed or of an
	// unexpected type.
	ErrInvalidPEM = errors.New("invalid pem")

	// ErrPassphraseRequired is returned when an encrypted key is parsed
	// without a password callback.
	ErrPassphraseRequired = errors.New("passphrase required")

	// ErrInvalidSignature is returned when an armored signature cannot be decoded.
	ErrInvalidSignature = errors.New("invalid signature encoding")
)
