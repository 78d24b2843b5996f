package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"io"
	"strings"

	"github.com/cloudflare/circl/dh/x25519"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// KeyAlgorithm tags the concrete variant behind a key handle.
type KeyAlgorithm int

const (
	// RSA keys wrap with OAEP and sign with PSS or PKCS#1 v1.5.
	RSA KeyAlgorithm = iota + 1
	// X25519 keys wrap session keys via ephemeral Diffie-Hellman.
	X25519
	// MLKEM768 keys wrap session keys via ML-KEM-768 encapsulation.
	MLKEM768
	// Ed25519 keys sign.
	Ed25519
	// MLDSA65 keys sign with ML-DSA-65.
	MLDSA65
)

var algorithmNames = map[KeyAlgorithm]string{
	RSA:      "RSA",
	X25519:   "X25519",
	MLKEM768: "ML-KEM-768",
	Ed25519:  "Ed25519",
	MLDSA65:  "ML-DSA-65",
}

func (a KeyAlgorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("KeyAlgorithm(%d)", int(a))
}

// ParseKeyAlgorithm maps a name produced by KeyAlgorithm.String back to its
// algorithm. Matching ignores case and dashes.
func ParseKeyAlgorithm(name string) (KeyAlgorithm, error) {
	norm := strings.ToUpper(strings.ReplaceAll(name, "-", ""))
	for alg, n := range algorithmNames {
		if strings.ToUpper(strings.ReplaceAll(n, "-", "")) == norm {
			return alg, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

// CanWrap reports whether keys of this algorithm can wrap session keys.
func (a KeyAlgorithm) CanWrap() bool {
	return a == RSA || a == X25519 || a == MLKEM768
}

// CanSign reports whether keys of this algorithm can sign.
func (a KeyAlgorithm) CanSign() bool {
	return a == RSA || a == Ed25519 || a == MLDSA65
}

// PublicKey is a handle to one public key. Exactly one variant field is set,
// selected by alg when the handle is built.
type PublicKey struct {
	alg KeyAlgorithm

	rsa    *rsa.PublicKey
	x25519 *x25519.Key
	mlkem  *mlkem768.PublicKey
	ed     ed25519.PublicKey
	mldsa  *mldsa65.PublicKey

	raw []byte
}

// PrivateKey is a handle to one private key and its public half.
type PrivateKey struct {
	alg    KeyAlgorithm
	public *PublicKey

	rsa    *rsa.PrivateKey
	x25519 *x25519.Key
	mlkem  *mlkem768.PrivateKey
	ed     ed25519.PrivateKey
	mldsa  *mldsa65.PrivateKey
}

// Algorithm returns the key variant.
func (k *PublicKey) Algorithm() KeyAlgorithm { return k.alg }

// Bytes returns the canonical encoding: PKIX DER for RSA, the raw key for
// every other variant.
func (k *PublicKey) Bytes() []byte {
	out := make([]byte, len(k.raw))
	copy(out, k.raw)
	return out
}

// ID returns the identifier of the key, the SHA-256 of its canonical bytes.
func (k *PublicKey) ID() Identifier { return CalculateID(k.raw) }

// Equal reports whether both handles hold the same key.
func (k *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && k.alg == other.alg && Identifier(k.raw).Equal(other.raw)
}

// RSA returns the underlying RSA key, or nil for other variants.
func (k *PublicKey) RSA() *rsa.PublicKey { return k.rsa }

// NewRSAPublicKey wraps an RSA public key in a handle.
func NewRSAPublicKey(pub *rsa.PublicKey) (*PublicKey, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &PublicKey{alg: RSA, rsa: pub, raw: der}, nil
}

// ParsePublicKey builds a handle from canonical public key bytes.
func ParsePublicKey(alg KeyAlgorithm, b []byte) (*PublicKey, error) {
	switch alg {
	case RSA:
		parsed, err := x509.ParsePKIXPublicKey(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		pub, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: PKIX key is %T, not RSA", ErrInvalidKey, parsed)
		}
		return NewRSAPublicKey(pub)

	case X25519:
		if len(b) != X25519KeySize {
			return nil, fmt.Errorf("%w: x25519 key size: got %d, want %d", ErrInvalidKey, len(b), X25519KeySize)
		}
		var key x25519.Key
		copy(key[:], b)
		return &PublicKey{alg: X25519, x25519: &key, raw: cloneBytes(b)}, nil

	case MLKEM768:
		if len(b) != MLKEMPublicKeySize {
			return nil, fmt.Errorf("%w: ml-kem public key size: got %d, want %d", ErrInvalidKey, len(b), MLKEMPublicKeySize)
		}
		var key mlkem768.PublicKey
		if err := key.Unpack(b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return &PublicKey{alg: MLKEM768, mlkem: &key, raw: cloneBytes(b)}, nil

	case Ed25519:
		if len(b) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("%w: ed25519 key size: got %d, want %d", ErrInvalidKey, len(b), ed25519.PublicKeySize)
		}
		return &PublicKey{alg: Ed25519, ed: ed25519.PublicKey(cloneBytes(b)), raw: cloneBytes(b)}, nil

	case MLDSA65:
		var key mldsa65.PublicKey
		if err := key.UnmarshalBinary(b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return &PublicKey{alg: MLDSA65, mldsa: &key, raw: cloneBytes(b)}, nil

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, alg)
	}
}

// GenerateKey creates a new private key of the given algorithm using r as
// the entropy source (nil selects the package source). rsaBits applies only
// to RSA; zero selects DefaultRSABits.
func GenerateKey(r io.Reader, alg KeyAlgorithm, rsaBits int) (*PrivateKey, error) {
	r = Reader(r)

	switch alg {
	case RSA:
		if rsaBits == 0 {
			rsaBits = DefaultRSABits
		}
		key, err := rsa.GenerateKey(r, rsaBits)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRandomFailed, err)
		}
		return NewRSAPrivateKey(key)

	case X25519:
		seed, err := RandomBytes(r, X25519KeySize)
		if err != nil {
			return nil, err
		}
		defer clear(seed)
		return ParsePrivateKeyBytes(X25519, seed)

	case MLKEM768:
		_, priv, err := mlkem768.GenerateKeyPair(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRandomFailed, err)
		}
		// MarshalBinary never fails for keys from GenerateKeyPair
		packed, _ := priv.MarshalBinary()
		defer clear(packed)
		return ParsePrivateKeyBytes(MLKEM768, packed)

	case Ed25519:
		_, priv, err := ed25519.GenerateKey(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRandomFailed, err)
		}
		return ParsePrivateKeyBytes(Ed25519, priv)

	case MLDSA65:
		_, priv, err := mldsa65.GenerateKey(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRandomFailed, err)
		}
		return newMLDSAPrivateKey(priv)

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, alg)
	}
}

// NewRSAPrivateKey wraps an RSA private key in a handle.
func NewRSAPrivateKey(key *rsa.PrivateKey) (*PrivateKey, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	pub, err := NewRSAPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{alg: RSA, public: pub, rsa: key}, nil
}

// ParsePrivateKeyBytes builds a handle from the encoding produced by
// PrivateKey.Bytes. Ed25519 also accepts a 32-byte seed.
func ParsePrivateKeyBytes(alg KeyAlgorithm, b []byte) (*PrivateKey, error) {
	switch alg {
	case RSA:
		key, err := x509.ParsePKCS1PrivateKey(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return NewRSAPrivateKey(key)

	case X25519:
		if len(b) != X25519KeySize {
			return nil, fmt.Errorf("%w: x25519 key size: got %d, want %d", ErrInvalidKey, len(b), X25519KeySize)
		}
		var sk, pk x25519.Key
		copy(sk[:], b)
		x25519.KeyGen(&pk, &sk)
		pub, err := ParsePublicKey(X25519, pk[:])
		if err != nil {
			return nil, err
		}
		return &PrivateKey{alg: X25519, public: pub, x25519: &sk}, nil

	case MLKEM768:
		var sk mlkem768.PrivateKey
		if len(b) != MLKEMSecretKeySize {
			return nil, fmt.Errorf("%w: ml-kem secret key size: got %d, want %d", ErrInvalidKey, len(b), MLKEMSecretKeySize)
		}
		if err := sk.Unpack(b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		pub, err := ParsePublicKey(MLKEM768, mlkemPublicFromSecret(b))
		if err != nil {
			return nil, err
		}
		return &PrivateKey{alg: MLKEM768, public: pub, mlkem: &sk}, nil

	case Ed25519:
		var sk ed25519.PrivateKey
		switch len(b) {
		case ed25519.SeedSize:
			sk = ed25519.NewKeyFromSeed(b)
		case ed25519.PrivateKeySize:
			sk = ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])
		default:
			return nil, fmt.Errorf("%w: ed25519 key size: got %d", ErrInvalidKey, len(b))
		}
		pub, err := ParsePublicKey(Ed25519, sk.Public().(ed25519.PublicKey))
		if err != nil {
			return nil, err
		}
		return &PrivateKey{alg: Ed25519, public: pub, ed: sk}, nil

	case MLDSA65:
		var sk mldsa65.PrivateKey
		if err := sk.UnmarshalBinary(b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return newMLDSAPrivateKey(&sk)

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, alg)
	}
}

func newMLDSAPrivateKey(sk *mldsa65.PrivateKey) (*PrivateKey, error) {
	pk, ok := sk.Public().(*mldsa65.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: ml-dsa public key", ErrInvalidKey)
	}
	raw, err := pk.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &PrivateKey{
		alg:    MLDSA65,
		public: &PublicKey{alg: MLDSA65, mldsa: pk, raw: raw},
		mldsa:  sk,
	}, nil
}

// mlkemPublicFromSecret extracts the public key embedded in an ML-KEM-768
// secret key at PublicKeyOffset.
func mlkemPublicFromSecret(secretKey []byte) []byte {
	return secretKey[PublicKeyOffset : PublicKeyOffset+MLKEMPublicKeySize]
}

// Algorithm returns the key variant.
func (k *PrivateKey) Algorithm() KeyAlgorithm { return k.alg }

// Public returns the public half.
func (k *PrivateKey) Public() *PublicKey { return k.public }

// ID returns the identifier of the public half.
func (k *PrivateKey) ID() Identifier { return k.public.ID() }

// RSA returns the underlying RSA key, or nil for other variants.
func (k *PrivateKey) RSA() *rsa.PrivateKey { return k.rsa }

// Bytes returns the private key encoding: PKCS#1 DER for RSA, the raw key
// for every other variant. The caller owns the result and should zero it.
func (k *PrivateKey) Bytes() []byte {
	switch k.alg {
	case RSA:
		return x509.MarshalPKCS1PrivateKey(k.rsa)
	case X25519:
		return cloneBytes(k.x25519[:])
	case MLKEM768:
		b, _ := k.mlkem.MarshalBinary()
		return b
	case Ed25519:
		return cloneBytes(k.ed)
	case MLDSA65:
		b, _ := k.mldsa.MarshalBinary()
		return b
	default:
		return nil
	}
}

// Destroy drops the private material. Byte-backed variants are zeroed; the
// handle must not be used afterwards.
func (k *PrivateKey) Destroy() {
	if k.x25519 != nil {
		clear(k.x25519[:])
	}
	clear(k.ed)
	k.rsa = nil
	k.x25519 = nil
	k.mlkem = nil
	k.ed = nil
	k.mldsa = nil
}

// Clone returns an independent copy of k. Destroying either leaves the other
// usable.
func (k *PrivateKey) Clone() (*PrivateKey, error) {
	blockType, der, err := marshalPrivateDER(k)
	if err != nil {
		return nil, err
	}
	defer clear(der)
	return parsePrivateDER(blockType, der)
}

func (k *PrivateKey) destroyed() bool {
	return k.rsa == nil && k.x25519 == nil && k.mlkem == nil && k.ed == nil && k.mldsa == nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
