// Package crypto provides the primitives behind the cryptocore envelope and
// signer: key handles, session-key wrapping, the streaming payload cipher,
// passphrase key derivation and signatures.
//
// # Algorithm Suite
//
//   - AES-128-CBC with PKCS#7 padding, authenticated with HMAC-SHA256
//     (encrypt-then-MAC). Encryption and MAC sub-keys are derived from the
//     raw session key and IV with HKDF-SHA-512.
//
//   - RSA-OAEP-SHA256, X25519 and ML-KEM-768 (NIST FIPS 203) for wrapping
//     session keys. The elliptic-curve and ML-KEM schemes derive an
//     AES-256-GCM key-encryption key with HKDF-SHA-512.
//
//   - RSA (PSS and PKCS#1 v1.5), Ed25519 and ML-DSA-65 (NIST FIPS 204) for
//     signatures.
//
//   - PBKDF2-HMAC-SHA1 or Argon2id for passphrase key derivation, with a
//     second-stage check-hash to detect a wrong passphrase.
//
// # Key Handles
//
// [PublicKey] and [PrivateKey] are tagged by [KeyAlgorithm]; the concrete key
// is resolved once, when the handle is built by [GenerateKey],
// [ParsePublicKey], [ParsePrivateKeyBytes] or the PEM functions. Every
// handle has an [Identifier]: the SHA-256 of its canonical public key bytes.
//
// Not every algorithm supports every operation. Use [KeyAlgorithm.CanWrap]
// and [KeyAlgorithm.CanSign]; mismatches fail with [ErrUnsupportedAlgorithm].
//
// # Streaming Cipher
//
// [SymmetricCipher] processes input in fixed-size chunks and hands output to
// a [Sink]. [SecretSink] collects into a zeroing secret buffer and
// [BufferSink] into a plain byte buffer. Decryption verifies the tag over
// the whole ciphertext before any plaintext reaches the sink.
//
// # Signature Schemes
//
// [Sign] and [Verify] take a hash name. The empty name and
// [DefaultHashAlgorithm] select the double SHA-256 scheme, PSS-encoded with
// the maximum salt length for RSA keys. SHA1, SHA224, SHA256, SHA384 and
// SHA512 select the named-digest scheme, PKCS#1 v1.5 for RSA keys. Any other
// name fails with [ErrUnknownHash].
//
// # Key Blobs
//
// Keys travel as PEM. RSA, Ed25519 and X25519 use PKIX and PKCS#8; the
// post-quantum keys use their own block types. [EncryptPrivateKeyPEM] seals
// a private key under a passphrase; [ParsePrivateKeyPEM] asks a
// [PasswordCallback] for it. X.509 certificates are accepted wherever a
// public key is expected.
package crypto
