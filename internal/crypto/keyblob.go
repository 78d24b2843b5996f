package crypto

import (
	"crypto/ecdh"
	stded25519 "crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"io"
	"strconv"

	"github.com/digitalcash/cryptocore/internal/bytebuf"
	"github.com/digitalcash/cryptocore/internal/secret"
)

// PEM block types.
const (
	PEMPublicKey       = "PUBLIC KEY"
	PEMPrivateKey      = "PRIVATE KEY"
	PEMRSAPrivateKey   = "RSA PRIVATE KEY"
	PEMCertificate     = "CERTIFICATE"
	PEMMLKEMPublicKey  = "ML-KEM-768 PUBLIC KEY"
	PEMMLKEMPrivateKey = "ML-KEM-768 PRIVATE KEY"
	PEMMLDSAPublicKey  = "ML-DSA-65 PUBLIC KEY"
	PEMMLDSAPrivateKey = "ML-DSA-65 PRIVATE KEY"
	PEMEncryptedKey    = "ENCRYPTED CRYPTOCORE PRIVATE KEY"
)

// Headers of a PEMEncryptedKey block.
const (
	headerKDF          = "KDF"
	headerIterations   = "Iterations"
	headerArgon2Memory = "Argon2-Memory"
	headerSalt         = "Salt"
	headerCheckHash    = "Check-Hash"
	headerIV           = "IV"
	headerInnerType    = "Inner-Type"
)

// PasswordCallback supplies the passphrase for an encrypted private key.
// The returned secret is destroyed by the caller once the key is unlocked.
type PasswordCallback func(prompt string) (*secret.Secret, error)

// KeyProtection configures passphrase encryption of private key blobs.
type KeyProtection struct {
	Deriver    KeyDeriver
	Iterations uint32
	Cipher     *SymmetricCipher
}

func (p KeyProtection) withDefaults() KeyProtection {
	if p.Iterations == 0 {
		p.Iterations = p.Deriver.KDF.DefaultIterations()
	}
	if p.Cipher == nil {
		p.Cipher = NewSymmetricCipher(DefaultBufferSize)
	}
	return p
}

// MarshalPublicKeyPEM encodes pub as PEM. RSA, Ed25519 and X25519 keys use
// PKIX; the post-quantum variants use their own block types.
func MarshalPublicKeyPEM(pub *PublicKey) ([]byte, error) {
	var (
		blockType = PEMPublicKey
		der       []byte
		err       error
	)
	switch pub.alg {
	case RSA:
		der = pub.Bytes()
	case Ed25519:
		der, err = x509.MarshalPKIXPublicKey(stded25519.PublicKey(pub.raw))
	case X25519:
		var k *ecdh.PublicKey
		if k, err = ecdh.X25519().NewPublicKey(pub.raw); err == nil {
			der, err = x509.MarshalPKIXPublicKey(k)
		}
	case MLKEM768:
		blockType, der = PEMMLKEMPublicKey, pub.Bytes()
	case MLDSA65:
		blockType, der = PEMMLDSAPublicKey, pub.Bytes()
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, pub.alg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}), nil
}

// MarshalPrivateKeyPEM encodes priv as an unencrypted PEM block.
func MarshalPrivateKeyPEM(priv *PrivateKey) ([]byte, error) {
	blockType, der, err := marshalPrivateDER(priv)
	if err != nil {
		return nil, err
	}
	defer clear(der)
	return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}), nil
}

func marshalPrivateDER(priv *PrivateKey) (string, []byte, error) {
	if priv == nil || priv.destroyed() {
		return "", nil, fmt.Errorf("%w: private key required", ErrPrecondition)
	}
	var (
		der []byte
		err error
	)
	switch priv.alg {
	case RSA:
		der, err = x509.MarshalPKCS8PrivateKey(priv.rsa)
	case Ed25519:
		der, err = x509.MarshalPKCS8PrivateKey(stded25519.PrivateKey(priv.ed))
	case X25519:
		var k *ecdh.PrivateKey
		if k, err = ecdh.X25519().NewPrivateKey(priv.x25519[:]); err == nil {
			der, err = x509.MarshalPKCS8PrivateKey(k)
		}
	case MLKEM768:
		return PEMMLKEMPrivateKey, priv.Bytes(), nil
	case MLDSA65:
		return PEMMLDSAPrivateKey, priv.Bytes(), nil
	default:
		return "", nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, priv.alg)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return PEMPrivateKey, der, nil
}

// ParsePublicKeyPEM reads the first PEM block of blob as a public key. An
// X.509 certificate yields its subject key.
func ParsePublicKeyPEM(blob []byte) (*PublicKey, error) {
	block, _ := pem.Decode(blob)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidPEM)
	}

	switch block.Type {
	case PEMPublicKey:
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return publicFromStdlib(parsed)
	case PEMCertificate:
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: certificate: %v", ErrInvalidPEM, err)
		}
		return publicFromStdlib(cert.PublicKey)
	case PEMMLKEMPublicKey:
		return ParsePublicKey(MLKEM768, block.Bytes)
	case PEMMLDSAPublicKey:
		return ParsePublicKey(MLDSA65, block.Bytes)
	default:
		return nil, fmt.Errorf("%w: unexpected block type %q", ErrInvalidPEM, block.Type)
	}
}

func publicFromStdlib(key any) (*PublicKey, error) {
	switch k := key.(type) {
	case *rsa.PublicKey:
		return NewRSAPublicKey(k)
	case stded25519.PublicKey:
		return ParsePublicKey(Ed25519, k)
	case *ecdh.PublicKey:
		if k.Curve() != ecdh.X25519() {
			return nil, fmt.Errorf("%w: ecdh curve %v", ErrUnsupportedAlgorithm, k.Curve())
		}
		return ParsePublicKey(X25519, k.Bytes())
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedAlgorithm, key)
	}
}

// ParsePrivateKeyPEM reads the first PEM block of blob as a private key.
// Encrypted blocks are unlocked with the passphrase from cb; a nil cb fails
// with ErrPassphraseRequired and a wrong passphrase with ErrCheckHashMismatch.
func ParsePrivateKeyPEM(blob []byte, cb PasswordCallback) (*PrivateKey, error) {
	block, _ := pem.Decode(blob)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidPEM)
	}
	if block.Type == PEMEncryptedKey {
		return decryptPrivateKey(block, cb)
	}
	return parsePrivateDER(block.Type, block.Bytes)
}

func parsePrivateDER(blockType string, der []byte) (*PrivateKey, error) {
	switch blockType {
	case PEMPrivateKey:
		parsed, err := x509.ParsePKCS8PrivateKey(der)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		switch k := parsed.(type) {
		case *rsa.PrivateKey:
			return NewRSAPrivateKey(k)
		case stded25519.PrivateKey:
			return ParsePrivateKeyBytes(Ed25519, k)
		case *ecdh.PrivateKey:
			if k.Curve() != ecdh.X25519() {
				return nil, fmt.Errorf("%w: ecdh curve %v", ErrUnsupportedAlgorithm, k.Curve())
			}
			return ParsePrivateKeyBytes(X25519, k.Bytes())
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedAlgorithm, parsed)
		}
	case PEMRSAPrivateKey:
		return ParsePrivateKeyBytes(RSA, der)
	case PEMMLKEMPrivateKey:
		return ParsePrivateKeyBytes(MLKEM768, der)
	case PEMMLDSAPrivateKey:
		return ParsePrivateKeyBytes(MLDSA65, der)
	default:
		return nil, fmt.Errorf("%w: unexpected block type %q", ErrInvalidPEM, blockType)
	}
}

// EncryptPrivateKeyPEM encodes priv as a PEMEncryptedKey block. The inner
// DER is encrypted by SymmetricCipher under a key derived from pass; the
// salt, iterations, check-hash and IV travel as PEM headers.
func EncryptPrivateKeyPEM(r io.Reader, priv *PrivateKey, pass *secret.Secret, p KeyProtection) ([]byte, error) {
	p = p.withDefaults()
	if err := p.Deriver.KDF.CheckIterations(p.Iterations); err != nil {
		return nil, err
	}

	innerType, der, err := marshalPrivateDER(priv)
	if err != nil {
		return nil, err
	}
	defer clear(der)

	salt, err := RandomBytes(r, SaltSize)
	if err != nil {
		return nil, err
	}
	iv, err := RandomBytes(r, SymmetricIVSize)
	if err != nil {
		return nil, err
	}

	var checkHash []byte
	key, err := p.Deriver.DeriveKey(pass, salt, p.Iterations, &checkHash)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()

	out := bytebuf.New(CiphertextSize(len(der)))
	if err := p.Cipher.Encrypt(key, iv, der, BufferSink{Buffer: out}); err != nil {
		return nil, err
	}

	headers := map[string]string{
		headerKDF:        p.Deriver.KDF.String(),
		headerIterations: strconv.FormatUint(uint64(p.Iterations), 10),
		headerSalt:       hex.EncodeToString(salt),
		headerCheckHash:  hex.EncodeToString(checkHash),
		headerIV:         hex.EncodeToString(iv),
		headerInnerType:  innerType,
	}
	if p.Deriver.KDF == KDFArgon2id && p.Deriver.Argon2MemoryKiB != 0 {
		headers[headerArgon2Memory] = strconv.FormatUint(uint64(p.Deriver.Argon2MemoryKiB), 10)
	}
	return pem.EncodeToMemory(&pem.Block{Type: PEMEncryptedKey, Headers: headers, Bytes: out.Bytes()}), nil
}

// IsEncryptedPEM reports whether blob holds a passphrase-protected key.
func IsEncryptedPEM(blob []byte) bool {
	block, _ := pem.Decode(blob)
	return block != nil && block.Type == PEMEncryptedKey
}

func decryptPrivateKey(block *pem.Block, cb PasswordCallback) (*PrivateKey, error) {
	if cb == nil {
		return nil, ErrPassphraseRequired
	}

	kdf, err := ParseKDF(block.Headers[headerKDF])
	if err != nil {
		return nil, err
	}
	deriver := KeyDeriver{KDF: kdf}
	if v := block.Headers[headerArgon2Memory]; v != "" {
		mem, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s header: %v", ErrInvalidPEM, headerArgon2Memory, err)
		}
		deriver.Argon2MemoryKiB = uint32(mem)
	}

	iterations, err := strconv.ParseUint(block.Headers[headerIterations], 10, 32)
	if err != nil || kdf.CheckIterations(uint32(iterations)) != nil {
		return nil, fmt.Errorf("%w: %s header %q", ErrInvalidPEM, headerIterations, block.Headers[headerIterations])
	}
	salt, err := hexHeader(block, headerSalt)
	if err != nil {
		return nil, err
	}
	checkHash, err := hexHeader(block, headerCheckHash)
	if err != nil {
		return nil, err
	}
	iv, err := hexHeader(block, headerIV)
	if err != nil {
		return nil, err
	}

	pass, err := cb("passphrase for " + block.Headers[headerInnerType])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPassphraseRequired, err)
	}
	if pass == nil {
		return nil, ErrPassphraseRequired
	}
	defer pass.Destroy()

	key, err := deriver.DeriveKey(pass, salt, uint32(iterations), &checkHash)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()

	der := secret.NewBounded(0)
	defer der.Destroy()
	if err := NewSymmetricCipher(DefaultBufferSize).Decrypt(key, iv, block.Bytes, SecretSink{Secret: der}); err != nil {
		return nil, err
	}
	return parsePrivateDER(block.Headers[headerInnerType], der.Bytes())
}

func hexHeader(block *pem.Block, name string) ([]byte, error) {
	v, ok := block.Headers[name]
	if !ok || v == "" {
		return nil, fmt.Errorf("%w: missing %s header", ErrInvalidPEM, name)
	}
	b, err := hex.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s header: %v", ErrInvalidPEM, name, err)
	}
	return b, nil
}
