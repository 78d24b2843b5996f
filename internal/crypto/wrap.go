package crypto

import (
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/cloudflare/circl/dh/x25519"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"

	"github.com/digitalcash/cryptocore/internal/secret"
)

// WrapKey encrypts sessionKey to pub. The wrapped form depends on the key
// variant:
//
//	RSA:        RSA-OAEP-SHA256 ciphertext (modulus size)
//	X25519:     ephemeral public (32) || nonce (12) || AES-256-GCM(kek, key)
//	ML-KEM-768: encapsulation (1088) || nonce (12) || AES-256-GCM(kek, key)
func WrapKey(r io.Reader, pub *PublicKey, sessionKey *secret.Secret) ([]byte, error) {
	if pub == nil || sessionKey == nil || sessionKey.IsEmpty() {
		return nil, fmt.Errorf("%w: wrap requires a public key and a session key", ErrPrecondition)
	}
	r = Reader(r)

	switch pub.alg {
	case RSA:
		wrapped, err := rsa.EncryptOAEP(sha256.New(), r, pub.rsa, sessionKey.Bytes(), nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyWrapFailed, err)
		}
		return wrapped, nil
	case X25519:
		return wrapX25519(r, pub, sessionKey.Bytes())
	case MLKEM768:
		return wrapMLKEM(r, pub, sessionKey.Bytes())
	default:
		return nil, fmt.Errorf("%w: %w: %v cannot wrap keys", ErrKeyWrapFailed, ErrUnsupportedAlgorithm, pub.alg)
	}
}

// UnwrapKey recovers a session key wrapped by WrapKey.
func UnwrapKey(priv *PrivateKey, wrapped []byte) (*secret.Secret, error) {
	if priv == nil || priv.destroyed() {
		return nil, fmt.Errorf("%w: unwrap requires a private key", ErrPrecondition)
	}

	var (
		key []byte
		err error
	)
	switch priv.alg {
	case RSA:
		key, err = rsa.DecryptOAEP(sha256.New(), nil, priv.rsa, wrapped, nil)
	case X25519:
		key, err = unwrapX25519(priv, wrapped)
	case MLKEM768:
		key, err = unwrapMLKEM(priv, wrapped)
	default:
		return nil, fmt.Errorf("%w: %w: %v cannot unwrap keys", ErrKeyUnwrapFailed, ErrUnsupportedAlgorithm, priv.alg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyUnwrapFailed, err)
	}
	return secret.TakeRaw(key), nil
}

func wrapX25519(r io.Reader, pub *PublicKey, key []byte) ([]byte, error) {
	var ephSecret, ephPublic, shared x25519.Key
	defer clear(ephSecret[:])
	defer clear(shared[:])

	if err := RandomizeMemory(r, ephSecret[:]); err != nil {
		return nil, err
	}
	x25519.KeyGen(&ephPublic, &ephSecret)
	if !x25519.Shared(&shared, &ephSecret, pub.x25519) {
		return nil, fmt.Errorf("%w: low-order x25519 public key", ErrKeyWrapFailed)
	}

	kek, err := deriveKEK(shared[:], x25519Salt(ephPublic[:], pub.raw), x25519Context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyWrapFailed, err)
	}
	defer clear(kek)

	nonce, err := RandomBytes(r, AESNonceSize)
	if err != nil {
		return nil, err
	}
	ct, err := sealAESGCM(kek, nonce, ephPublic[:], key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyWrapFailed, err)
	}

	out := make([]byte, 0, X25519KeySize+AESNonceSize+len(ct))
	out = append(out, ephPublic[:]...)
	out = append(out, nonce...)
	return append(out, ct...), nil
}

func unwrapX25519(priv *PrivateKey, wrapped []byte) ([]byte, error) {
	if len(wrapped) < X25519KeySize+AESNonceSize+AESTagSize {
		return nil, fmt.Errorf("wrapped key too short: %d bytes", len(wrapped))
	}
	var ephPublic, shared x25519.Key
	defer clear(shared[:])
	copy(ephPublic[:], wrapped[:X25519KeySize])
	nonce := wrapped[X25519KeySize : X25519KeySize+AESNonceSize]
	ct := wrapped[X25519KeySize+AESNonceSize:]

	if !x25519.Shared(&shared, priv.x25519, &ephPublic) {
		return nil, errors.New("low-order ephemeral key")
	}
	kek, err := deriveKEK(shared[:], x25519Salt(ephPublic[:], priv.public.raw), x25519Context)
	if err != nil {
		return nil, err
	}
	defer clear(kek)

	return openAESGCM(kek, nonce, ephPublic[:], ct)
}

func x25519Salt(ephPublic, recipient []byte) []byte {
	salt := make([]byte, 0, len(ephPublic)+len(recipient))
	salt = append(salt, ephPublic...)
	return append(salt, recipient...)
}

func wrapMLKEM(r io.Reader, pub *PublicKey, key []byte) ([]byte, error) {
	seed, err := RandomBytes(r, mlkem768.EncapsulationSeedSize)
	if err != nil {
		return nil, err
	}
	defer clear(seed)

	ctKem := make([]byte, MLKEMCiphertextSize)
	shared := make([]byte, MLKEMSharedKeySize)
	defer clear(shared)
	pub.mlkem.EncapsulateTo(ctKem, shared, seed)

	kek, err := mlkemKEK(shared, ctKem)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyWrapFailed, err)
	}
	defer clear(kek)

	nonce, err := RandomBytes(r, AESNonceSize)
	if err != nil {
		return nil, err
	}
	ct, err := sealAESGCM(kek, nonce, ctKem, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyWrapFailed, err)
	}

	out := make([]byte, 0, MLKEMCiphertextSize+AESNonceSize+len(ct))
	out = append(out, ctKem...)
	out = append(out, nonce...)
	return append(out, ct...), nil
}

func unwrapMLKEM(priv *PrivateKey, wrapped []byte) ([]byte, error) {
	if len(wrapped) < MLKEMCiphertextSize+AESNonceSize+AESTagSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCiphertextSize, len(wrapped))
	}
	ctKem := wrapped[:MLKEMCiphertextSize]
	nonce := wrapped[MLKEMCiphertextSize : MLKEMCiphertextSize+AESNonceSize]
	ct := wrapped[MLKEMCiphertextSize+AESNonceSize:]

	shared := make([]byte, MLKEMSharedKeySize)
	defer clear(shared)
	priv.mlkem.DecapsulateTo(shared, ctKem)

	kek, err := mlkemKEK(shared, ctKem)
	if err != nil {
		return nil, err
	}
	defer clear(kek)

	return openAESGCM(kek, nonce, ctKem, ct)
}

// mlkemKEK binds the KEK to the encapsulation by salting HKDF with its hash.
func mlkemKEK(shared, ctKem []byte) ([]byte, error) {
	salt := sha256.Sum256(ctKem)
	return deriveKEK(shared, salt[:], mlkemContext)
}
