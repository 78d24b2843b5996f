package cryptocore

import (
	"io"
	"log/slog"
	"time"

	"github.com/digitalcash/cryptocore/internal/config"
)

// providerConfig holds configuration for a Provider.
type providerConfig struct {
	cfg    config.Config
	logger *slog.Logger
	rand   io.Reader
	now    func() time.Time
}

// Option configures a Provider.
type Option func(*providerConfig)

// WithConfig replaces the whole configuration. Options applied after it
// still override single fields.
func WithConfig(cfg config.Config) Option {
	return func(c *providerConfig) {
		c.cfg = cfg
	}
}

// WithLogger sets the logger. Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *providerConfig) {
		c.logger = l
	}
}

// WithRandReader sets the random source. The provider serializes reads, so
// r does not have to be safe for concurrent use.
// Default: crypto/rand.Reader
func WithRandReader(r io.Reader) Option {
	return func(c *providerConfig) {
		c.rand = r
	}
}

// WithBufferSize sets the chunk size of the streaming cipher.
// Default: 4096 bytes
func WithBufferSize(n int) Option {
	return func(c *providerConfig) {
		c.cfg.SymmetricBufferSize = n
	}
}

// WithKeyIterations sets the key derivation iteration count used when
// protecting private keys. Zero keeps the KDF's default.
// Default: 65535 for PBKDF2, 3 for Argon2id
func WithKeyIterations(n uint32) Option {
	return func(c *providerConfig) {
		c.cfg.KeyIterations = n
	}
}

// WithKeyCacheTTL enables caching of unlocked private keys for ttl.
// Default: 0 (disabled)
func WithKeyCacheTTL(ttl time.Duration) Option {
	return func(c *providerConfig) {
		c.cfg.KeyCacheTTL = ttl
	}
}

// WithStrictRecipientMatch makes Open require an exact identifier match
// instead of falling back to an anonymous last entry.
func WithStrictRecipientMatch(strict bool) Option {
	return func(c *providerConfig) {
		c.cfg.StrictRecipientMatch = strict
	}
}

// withClock overrides the time source of the key cache.
func withClock(now func() time.Time) Option {
	return func(c *providerConfig) {
		c.now = now
	}
}
