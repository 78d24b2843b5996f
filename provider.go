package cryptocore

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/digitalcash/cryptocore/internal/bytebuf"
	"github.com/digitalcash/cryptocore/internal/config"
	"github.com/digitalcash/cryptocore/internal/crypto"
	"github.com/digitalcash/cryptocore/internal/envelope"
	"github.com/digitalcash/cryptocore/internal/logger"
	"github.com/digitalcash/cryptocore/internal/secret"
)

// Provider bundles every cryptographic capability of the core: randomness,
// identifiers, key derivation, the payload cipher, envelopes and signatures.
//
// A Provider is safe for concurrent use. Calls share no mutable state apart
// from the random source and the key cache, each behind its own lock.
type Provider struct {
	cfg      config.Config
	logger   *slog.Logger
	locks    *lockTable
	rand     io.Reader
	cipher   *crypto.SymmetricCipher
	envelope *envelope.Envelope
	deriver  crypto.KeyDeriver
	keys     *keyCache
	closed   atomic.Bool
}

// New builds a Provider from the default configuration and opts.
func New(opts ...Option) (*Provider, error) {
	pc := &providerConfig{cfg: config.Default()}
	for _, opt := range opts {
		opt(pc)
	}
	if err := pc.cfg.Validate(); err != nil {
		return nil, err
	}
	if pc.logger == nil {
		pc.logger = logger.Discard()
	}

	p := &Provider{
		cfg:     pc.cfg,
		logger:  pc.logger.With(logger.Component("cryptocore")),
		locks:   newLockTable(),
		cipher:  crypto.NewSymmetricCipher(pc.cfg.SymmetricBufferSize),
		deriver: pc.cfg.KeyDeriver(),
	}
	p.rand = &lockedReader{locks: p.locks, r: crypto.Reader(pc.rand)}
	p.keys = newKeyCache(p.locks, pc.cfg.KeyCacheTTL, pc.now)
	p.envelope = envelope.New(
		envelope.WithCipher(p.cipher),
		envelope.WithRandReader(p.rand),
		envelope.WithLogger(pc.logger),
		envelope.WithStrictMatch(pc.cfg.StrictRecipientMatch),
	)

	p.logger.Debug("provider ready",
		slog.String("ciphersuite", crypto.Ciphersuite),
		slog.String("kdf", p.deriver.KDF.String()),
		slog.Int("buffer_size", pc.cfg.SymmetricBufferSize),
		slog.Duration("key_cache_ttl", pc.cfg.KeyCacheTTL))
	return p, nil
}

// Config returns the configuration the provider was built with.
func (p *Provider) Config() config.Config { return p.cfg }

// Close destroys cached keys. Later calls fail with ErrNotInitialized.
func (p *Provider) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.keys.purge()
	p.logger.Debug("provider closed")
}

func (p *Provider) check(op string) error {
	if p.closed.Load() {
		return wrapError(op, ErrNotInitialized)
	}
	return nil
}

var (
	globalMu  sync.Mutex
	global    *Provider
	cleanedUp bool
)

// Init builds the process-wide provider. It panics when called twice or
// after Cleanup: both are programming errors.
func Init(opts ...Option) (*Provider, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if cleanedUp {
		panic("cryptocore: Init called after Cleanup")
	}
	if global != nil {
		panic("cryptocore: Init called twice")
	}
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	global = p
	return p, nil
}

// Cleanup closes the process-wide provider. It is a no-op before Init.
func Cleanup() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		return
	}
	global.Close()
	global = nil
	cleanedUp = true
}

// Default returns the process-wide provider. It panics before Init and after
// Cleanup.
func Default() *Provider {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		panic("cryptocore: Default called without an initialized provider")
	}
	return global
}

// RandomizeMemory fills buf with random bytes. A failure must abort the
// calling operation.
func (p *Provider) RandomizeMemory(buf []byte) error {
	if err := p.check("randomize"); err != nil {
		return err
	}
	if err := crypto.RandomizeMemory(p.rand, buf); err != nil {
		p.logger.Error("random source failed", logger.Operation("randomize"), logger.Error(err))
		return wrapError("randomize", err)
	}
	return nil
}

// RandomBytes returns n random bytes.
func (p *Provider) RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := p.RandomizeMemory(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// InstantiateBinarySecret returns a zeroed raw secret of SymmetricKeySize
// bytes. It cannot fail, so calling it on a closed provider panics.
func (p *Provider) InstantiateBinarySecret() *Secret {
	if err := p.check("instantiate secret"); err != nil {
		panic(err)
	}
	return secret.NewZeroed(crypto.SymmetricKeySize)
}

// GenerateSymmetricKey returns a random key for Encrypt and Decrypt.
func (p *Provider) GenerateSymmetricKey() (*Secret, error) {
	if err := p.check("generate key"); err != nil {
		return nil, err
	}
	key := p.InstantiateBinarySecret()
	if err := p.RandomizeMemory(key.Bytes()); err != nil {
		key.Destroy()
		return nil, err
	}
	return key, nil
}

// EncodeID returns the base58 text form of raw. Empty in, empty out.
func (p *Provider) EncodeID(raw []byte) string { return crypto.EncodeID(raw) }

// DecodeID parses an encoded identifier. Invalid or too-short input yields
// an empty result.
func (p *Provider) DecodeID(text string) []byte { return crypto.DecodeID(text) }

// CalculateID hashes data into an identifier.
func (p *Provider) CalculateID(data []byte) Identifier { return crypto.CalculateID(data) }

// Base64Encode encodes data, wrapping lines when lineBreaks is set.
func (p *Provider) Base64Encode(data []byte, lineBreaks bool) string {
	return crypto.Base64Encode(data, lineBreaks)
}

// Base64Decode decodes s. With lineBreaks set, embedded line breaks are
// skipped.
func (p *Provider) Base64Decode(s string, lineBreaks bool) ([]byte, error) {
	b, err := crypto.Base64Decode(s, lineBreaks)
	return b, wrapError("base64 decode", err)
}

// GenerateKey creates a key pair. RSA keys use the configured modulus size.
func (p *Provider) GenerateKey(alg KeyAlgorithm) (*PrivateKey, error) {
	if err := p.check("generate key"); err != nil {
		return nil, err
	}
	k, err := crypto.GenerateKey(p.rand, alg, p.cfg.RSABits)
	if err != nil {
		return nil, wrapError("generate key", err)
	}
	p.logger.Debug("key generated", logger.Algorithm(alg), logger.KeyID(k.ID().String()))
	return k, nil
}

// DeriveKey derives a symmetric key from pass and salt.
//
// With an empty *checkHash the check-hash is computed and stored there. With
// a non-empty one it is compared against the fresh value; on mismatch no key
// is returned, *checkHash is overwritten with the fresh value and the error
// matches ErrCheckHashMismatch.
//
// A nil pass or checkHash, an empty salt or zero iterations panic. A closed
// provider fails with ErrNotInitialized.
func (p *Provider) DeriveKey(pass *Secret, salt []byte, iterations uint32, checkHash *[]byte) (*Secret, error) {
	if err := p.check("derive key"); err != nil {
		return nil, err
	}
	key, err := p.deriver.DeriveKey(pass, salt, iterations, checkHash)
	if err != nil {
		p.logger.Debug("derived key rejected", logger.Operation("derive"), logger.Error(err))
		return nil, wrapError("derive key", err)
	}
	return key, nil
}

// Encrypt encrypts plaintext with the streaming payload cipher.
func (p *Provider) Encrypt(key *Secret, iv, plaintext []byte) ([]byte, error) {
	if err := p.check("encrypt"); err != nil {
		return nil, err
	}
	out := bytebuf.New(crypto.CiphertextSize(len(plaintext)))
	if err := p.cipher.Encrypt(key, iv, plaintext, crypto.BufferSink{Buffer: out}); err != nil {
		out.Reset()
		return nil, wrapError("encrypt", err)
	}
	return out.Bytes(), nil
}

// DecryptTo authenticates ciphertext and decrypts it into sink. On failure
// anything already appended to sink must be discarded.
func (p *Provider) DecryptTo(key *Secret, iv, ciphertext []byte, sink Sink) error {
	if err := p.check("decrypt"); err != nil {
		return err
	}
	if sink == nil {
		return wrapError("decrypt", fmt.Errorf("%w: nil sink", ErrPrecondition))
	}
	return wrapError("decrypt", p.cipher.Decrypt(key, iv, ciphertext, sink))
}

// Decrypt decrypts ciphertext into a plain byte slice.
func (p *Provider) Decrypt(key *Secret, iv, ciphertext []byte) ([]byte, error) {
	out := bytebuf.New(len(ciphertext))
	if err := p.DecryptTo(key, iv, ciphertext, crypto.BufferSink{Buffer: out}); err != nil {
		out.Reset()
		return nil, err
	}
	return out.Bytes(), nil
}

// DecryptSecret decrypts ciphertext into a raw secret, for wrapped keys.
func (p *Provider) DecryptSecret(key *Secret, iv, ciphertext []byte) (*Secret, error) {
	out := secret.NewBounded(len(ciphertext))
	if err := p.DecryptTo(key, iv, ciphertext, crypto.SecretSink{Secret: out}); err != nil {
		out.Destroy()
		return nil, err
	}
	return out, nil
}
