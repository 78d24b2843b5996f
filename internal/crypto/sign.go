package crypto

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"io"
	"slices"
	"strings"

	// registered for crypto.Hash.New
	_ "crypto/sha1"
	_ "crypto/sha512"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// DefaultHashAlgorithm names the default scheme: a double SHA-256 digest.
// For RSA keys the digest is PSS-encoded with the maximum salt length.
const DefaultHashAlgorithm = "SHA256D"

// namedHashes is the fixed set of digests for the named-digest scheme. For
// RSA keys these sign with PKCS#1 v1.5.
var namedHashes = map[string]crypto.Hash{
	"SHA1":   crypto.SHA1,
	"SHA224": crypto.SHA224,
	"SHA256": crypto.SHA256,
	"SHA384": crypto.SHA384,
	"SHA512": crypto.SHA512,
}

// HashNames returns every accepted hash name, default first.
func HashNames() []string {
	names := make([]string, 0, len(namedHashes)+1)
	for name := range namedHashes {
		names = append(names, name)
	}
	slices.Sort(names)
	return append([]string{DefaultHashAlgorithm}, names...)
}

// scheme is a resolved hash name. hash is zero for the default scheme.
type scheme struct {
	name string
	hash crypto.Hash
}

func (s scheme) isDefault() bool { return s.hash == 0 }

func resolveScheme(hashName string) (scheme, error) {
	name := strings.ToUpper(strings.TrimSpace(hashName))
	if name == "" || name == DefaultHashAlgorithm {
		return scheme{name: DefaultHashAlgorithm}, nil
	}
	h, ok := namedHashes[name]
	if !ok {
		return scheme{}, fmt.Errorf("%w: %q", ErrUnknownHash, hashName)
	}
	return scheme{name: name, hash: h}, nil
}

// digest returns sha256(sha256(content)) for the default scheme and the
// named digest of content otherwise.
func (s scheme) digest(content []byte) []byte {
	if s.isDefault() {
		first := sha256.Sum256(content)
		second := sha256.Sum256(first[:])
		return second[:]
	}
	h := s.hash.New()
	h.Write(content)
	return h.Sum(nil)
}

// Sign signs content with priv under the scheme selected by hashName. An
// empty name selects DefaultHashAlgorithm; an unknown name fails with
// ErrUnknownHash.
func Sign(r io.Reader, priv *PrivateKey, content []byte, hashName string) (*Signature, error) {
	if priv == nil || priv.destroyed() {
		return nil, fmt.Errorf("%w: sign requires a private key", ErrPrecondition)
	}
	s, err := resolveScheme(hashName)
	if err != nil {
		return nil, err
	}
	digest := s.digest(content)

	var raw []byte
	switch priv.alg {
	case RSA:
		if s.isDefault() {
			raw, err = rsa.SignPSS(Reader(r), priv.rsa, crypto.SHA256, digest, &rsa.PSSOptions{
				SaltLength: rsa.PSSSaltLengthAuto,
			})
		} else {
			raw, err = rsa.SignPKCS1v15(nil, priv.rsa, s.hash, digest)
		}
	case Ed25519:
		raw = ed25519.Sign(priv.ed, digest)
	case MLDSA65:
		raw = make([]byte, mldsa65.SignatureSize)
		err = mldsa65.SignTo(priv.mldsa, digest, nil, false, raw)
	default:
		return nil, fmt.Errorf("%w: %v cannot sign", ErrUnsupportedAlgorithm, priv.alg)
	}
	if err != nil {
		return nil, fmt.Errorf("sign with %v/%s: %w", priv.alg, s.name, err)
	}
	return &Signature{raw: raw}, nil
}

// Verify checks sig over content with pub. A signature that does not verify
// returns ErrSignatureVerificationFailed.
func Verify(pub *PublicKey, content []byte, hashName string, sig *Signature) error {
	if pub == nil || sig == nil {
		return fmt.Errorf("%w: verify requires a public key and a signature", ErrPrecondition)
	}
	s, err := resolveScheme(hashName)
	if err != nil {
		return err
	}
	digest := s.digest(content)

	var ok bool
	switch pub.alg {
	case RSA:
		if s.isDefault() {
			ok = rsa.VerifyPSS(pub.rsa, crypto.SHA256, digest, sig.raw, &rsa.PSSOptions{
				SaltLength: rsa.PSSSaltLengthAuto,
			}) == nil
		} else {
			ok = rsa.VerifyPKCS1v15(pub.rsa, s.hash, digest, sig.raw) == nil
		}
	case Ed25519:
		ok = ed25519.Verify(pub.ed, digest, sig.raw)
	case MLDSA65:
		ok = mldsa65.Verify(pub.mldsa, digest, nil, sig.raw)
	default:
		return fmt.Errorf("%w: %v cannot verify", ErrUnsupportedAlgorithm, pub.alg)
	}
	if !ok {
		return ErrSignatureVerificationFailed
	}
	return nil
}
