// Package envelope implements the multi-recipient hybrid encryption record.
//
// A payload is encrypted once under a fresh session key with
// [crypto.SymmetricCipher]; the session key is then wrapped separately for
// every recipient's public key. Any one matching private key recovers the
// payload.
//
// # Wire Format
//
// All integers are big-endian:
//
//	envelope_type      2 bytes   TypeAsymmetric
//	recipient_count    4 bytes   at least 1
//	per recipient:
//	  identifier_length  4 bytes   includes a trailing NUL
//	  identifier         identifier_length bytes
//	  wrapped_key_length 4 bytes
//	  wrapped_key        wrapped_key_length bytes
//	iv_length          4 bytes   at most crypto.MaxIVSize
//	iv                 iv_length bytes
//	ciphertext         remainder, payload followed by a NUL terminator
//
// Every length is checked against the bytes that remain before it is used.
// Failures carry a [*ParseError] naming the field and offset.
//
// # Recipient Selection
//
// Open uses the first entry whose identifier equals the caller's. If none
// does, the last entry is tried when its identifier is empty. An entry with a
// different, non-empty identifier is never used. [WithStrictMatch] turns the
// fallback off.
package envelope
