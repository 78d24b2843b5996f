package cryptocore

import (
	"github.com/digitalcash/cryptocore/internal/bytebuf"
	"github.com/digitalcash/cryptocore/internal/crypto"
	"github.com/digitalcash/cryptocore/internal/envelope"
	"github.com/digitalcash/cryptocore/internal/secret"
)

// Secret is a zeroing buffer for passwords and raw key material.
type Secret = secret.Secret

// Buffer is an owned byte sequence with a read cursor, used for envelopes.
type Buffer = bytebuf.Buffer

// Identifier is a fixed-width binary hash with a base58 text form.
type Identifier = crypto.Identifier

// KeyAlgorithm tags the variant behind a key handle.
type KeyAlgorithm = crypto.KeyAlgorithm

// PublicKey is a handle to a public key of any supported algorithm.
type PublicKey = crypto.PublicKey

// PrivateKey is a handle to a private key of any supported algorithm.
type PrivateKey = crypto.PrivateKey

// Signature is a raw signature with a base64 armor.
type Signature = crypto.Signature

// PasswordCallback supplies the passphrase for an encrypted private key.
type PasswordCallback = crypto.PasswordCallback

// RecipientList is the ordered, identifier-unique set of envelope recipients.
type RecipientList = envelope.RecipientList

// Sink receives decrypted output. SecretSink and BufferSink implement it.
type Sink = crypto.Sink

// SecretSink collects output into a Secret.
type SecretSink = crypto.SecretSink

// BufferSink collects output into a Buffer.
type BufferSink = crypto.BufferSink

// Supported key algorithms.
const (
	RSA      = crypto.RSA
	X25519   = crypto.X25519
	MLKEM768 = crypto.MLKEM768
	Ed25519  = crypto.Ed25519
	MLDSA65  = crypto.MLDSA65
)

// DefaultHashAlgorithm selects the double SHA-256 signature scheme.
const DefaultHashAlgorithm = crypto.DefaultHashAlgorithm

// Sizes of the symmetric primitives.
const (
	SymmetricKeySize = crypto.SymmetricKeySize
	SymmetricIVSize  = crypto.SymmetricIVSize
	MaxIVSize        = crypto.MaxIVSize
)

// NewRecipientList returns an empty recipient list.
func NewRecipientList() *RecipientList { return envelope.NewRecipientList() }

// NewPassword wraps pass as a password secret. The caller's slice is copied.
func NewPassword(pass []byte) *Secret { return secret.NewPassword(pass) }

// NewRawSecret wraps b as a raw-bytes secret. The caller's slice is copied.
func NewRawSecret(b []byte) *Secret { return secret.NewRaw(b) }

// ParseKeyAlgorithm resolves an algorithm name such as "ml-kem-768".
func ParseKeyAlgorithm(name string) (KeyAlgorithm, error) { return crypto.ParseKeyAlgorithm(name) }

// ParsePublicKeyPEM reads a PEM public key or X.509 certificate.
func ParsePublicKeyPEM(blob []byte) (*PublicKey, error) { return crypto.ParsePublicKeyPEM(blob) }

// MarshalPublicKeyPEM encodes pub as PEM.
func MarshalPublicKeyPEM(pub *PublicKey) ([]byte, error) { return crypto.MarshalPublicKeyPEM(pub) }

// MarshalPrivateKeyPEM encodes priv as unencrypted PEM.
func MarshalPrivateKeyPEM(priv *PrivateKey) ([]byte, error) {
	return crypto.MarshalPrivateKeyPEM(priv)
}

// ParseSignature decodes an armored signature.
func ParseSignature(armored string) (*Signature, error) { return crypto.ParseSignature(armored) }

// HashNames lists the accepted signature hash names, default first.
func HashNames() []string { return crypto.HashNames() }
