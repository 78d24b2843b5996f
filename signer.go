package cryptocore

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/digitalcash/cryptocore/internal/crypto"
	"github.com/digitalcash/cryptocore/internal/logger"
)

// Sign signs content with priv. hashName selects the scheme: "" or
// DefaultHashAlgorithm for double SHA-256, or one of SHA1, SHA224, SHA256,
// SHA384 and SHA512. Other names fail with ErrUnknownHash.
func (p *Provider) Sign(priv *PrivateKey, content []byte, hashName string) (*Signature, error) {
	if err := p.check("sign"); err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(p.rand, priv, content, hashName)
	if err != nil {
		p.logger.Warn("signing failed", logger.Operation("sign"), slogHash(hashName), logger.Error(err))
		return nil, wrapError("sign", err)
	}
	return sig, nil
}

// Verify checks sig over content. A signature that does not match returns an
// error matching ErrSignatureInvalid.
func (p *Provider) Verify(pub *PublicKey, content []byte, hashName string, sig *Signature) error {
	if err := p.check("verify"); err != nil {
		return err
	}
	if err := crypto.Verify(pub, content, hashName, sig); err != nil {
		if errors.Is(err, ErrSignatureInvalid) {
			p.logger.Debug("signature rejected", logger.Operation("verify"), slogHash(hashName))
		}
		return wrapError("verify", err)
	}
	return nil
}

// LoadPrivateKey parses a PEM private key, asking cb for the passphrase when
// the key is encrypted. Every call returns a key the caller owns and may
// Destroy.
//
// With a key cache TTL configured, an unlocked key is served from the cache
// until it expires. A cache hit does not call cb, so the passphrase is only
// checked on the first load; cb must still be non-nil for encrypted blobs.
func (p *Provider) LoadPrivateKey(blob []byte, cb PasswordCallback) (*PrivateKey, error) {
	if err := p.check("load key"); err != nil {
		return nil, err
	}
	if cb == nil && crypto.IsEncryptedPEM(blob) {
		return nil, wrapError("load key", ErrPassphraseRequired)
	}
	if k, ok := p.keys.get(blob); ok {
		return k, nil
	}
	k, err := crypto.ParsePrivateKeyPEM(blob, cb)
	if err != nil {
		return nil, wrapError("load key", err)
	}
	if p.keys.enabled() {
		master, err := k.Clone()
		if err != nil {
			k.Destroy()
			return nil, wrapError("load key", err)
		}
		p.keys.put(blob, master)
	}
	return k, nil
}

// ProtectPrivateKey encodes priv as an encrypted PEM block under pass, using
// the configured key derivation and iteration count.
func (p *Provider) ProtectPrivateKey(priv *PrivateKey, pass *Secret) ([]byte, error) {
	if err := p.check("protect key"); err != nil {
		return nil, err
	}
	blob, err := crypto.EncryptPrivateKeyPEM(p.rand, priv, pass, crypto.KeyProtection{
		Deriver:    p.deriver,
		Iterations: p.cfg.Iterations(),
		Cipher:     p.cipher,
	})
	return blob, wrapError("protect key", err)
}

// SignWithPEM signs content with a private key supplied as a PEM blob.
func (p *Provider) SignWithPEM(content []byte, hashName string, pemKey []byte, cb PasswordCallback) (*Signature, error) {
	priv, err := p.LoadPrivateKey(pemKey, cb)
	if err != nil {
		return nil, err
	}
	return p.Sign(priv, content, hashName)
}

// VerifyWithCertificate verifies sig with the public key in a PEM
// certificate or PKIX public key blob.
func (p *Provider) VerifyWithCertificate(content []byte, hashName string, pemCert []byte, sig *Signature) error {
	pub, err := crypto.ParsePublicKeyPEM(pemCert)
	if err != nil {
		return wrapError("verify", fmt.Errorf("read certificate: %w", err))
	}
	return p.Verify(pub, content, hashName, sig)
}

// SignArmored signs content and returns the armored signature text.
func (p *Provider) SignArmored(priv *PrivateKey, content []byte, hashName string) (string, error) {
	sig, err := p.Sign(priv, content, hashName)
	if err != nil {
		return "", err
	}
	return sig.Armor(), nil
}

// VerifyArmored verifies an armored signature.
func (p *Provider) VerifyArmored(pub *PublicKey, content []byte, hashName, armored string) error {
	sig, err := crypto.ParseSignature(armored)
	if err != nil {
		return wrapError("verify", err)
	}
	return p.Verify(pub, content, hashName, sig)
}

func slogHash(name string) slog.Attr {
	if name == "" {
		name = DefaultHashAlgorithm
	}
	return logger.Algorithm(name)
}
