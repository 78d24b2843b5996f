package crypto

const (
	// SymmetricKeySize is the size of a session or derived symmetric key in bytes.
	SymmetricKeySize = 16
	// SymmetricIVSize is the IV size of the payload cipher in bytes.
	SymmetricIVSize = 16
	// MaxIVSize is the largest IV accepted from the wire.
	MaxIVSize = 16
	// DefaultBufferSize is the chunk size used when streaming through the
	// payload cipher.
	DefaultBufferSize = 4096
	// MACSize is the size of the HMAC-SHA256 tag appended to payload ciphertext.
	MACSize = 32

	// DefaultIterations is the default PBKDF2 iteration count.
	DefaultIterations = 65535
	// DefaultArgon2Time is the default Argon2id time cost.
	DefaultArgon2Time = 3
	// MaxArgon2Time is the largest Argon2id time cost accepted from
	// configuration or key blobs.
	MaxArgon2Time = 16
	// SaltSize is the salt length generated for new passphrase-protected blobs.
	SaltSize = 16

	// KEKSize is the size of an AES-256 key-encryption key used by the
	// elliptic-curve and ML-KEM wrap schemes.
	KEKSize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// X25519KeySize is the size of an X25519 public or private key.
	X25519KeySize = 32

	// MLKEMPublicKeySize is the size of an ML-KEM-768 public key in bytes.
	MLKEMPublicKeySize = 1184
	// MLKEMSecretKeySize is the size of an ML-KEM-768 secret key in bytes.
	MLKEMSecretKeySize = 2400
	// MLKEMCiphertextSize is the size of an ML-KEM-768 ciphertext in bytes.
	MLKEMCiphertextSize = 1088
	// MLKEMSharedKeySize is the size of the shared secret from ML-KEM-768 in bytes.
	MLKEMSharedKeySize = 32
	// PublicKeyOffset is the byte offset where the public key is embedded
	// within an ML-KEM-768 secret key.
	PublicKeyOffset = 1152

	// IdentifierSize is the size of a binary identifier (SHA-256).
	IdentifierSize = 32
	// MinEncodedIDLength is the shortest text form DecodeID will attempt.
	MinEncodedIDLength = 4

	// DefaultRSABits is the modulus size used by GenerateKey for RSA.
	DefaultRSABits = 2048
)

// HKDF info strings for domain separation.
const (
	symmetricContext = "cryptocore:symmetric:v1"
	x25519Context    = "cryptocore:wrap:x25519:v1"
	mlkemContext     = "cryptocore:wrap:mlkem768:v1"
)

// Ciphersuite names the primitive set used by this package.
var Ciphersuite = "AES-128-CBC-HMAC-SHA256:RSA-OAEP-SHA256:X25519:ML-KEM-768:HKDF-SHA-512"
