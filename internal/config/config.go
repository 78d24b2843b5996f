// Package config loads cryptocore settings from the environment, optionally
// seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/digitalcash/cryptocore/internal/crypto"
	"github.com/digitalcash/cryptocore/internal/logger"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be
	// parsed into Config.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfig is returned when a parsed value is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// minRSABits is the smallest modulus accepted for generated keys.
const minRSABits = 2048

// Config holds the tunables of a Provider.
type Config struct {
	// SymmetricBufferSize is the chunk size of the streaming cipher.
	SymmetricBufferSize int `env:"CRYPTOCORE_SYMMETRIC_BUFFER_SIZE" envDefault:"4096"`
	// KeyIterations is the iteration count (PBKDF2) or time cost (Argon2id)
	// used when protecting new keys. Zero selects the KDF's default.
	KeyIterations uint32 `env:"CRYPTOCORE_KEY_ITERATIONS"`
	// KDF is "pbkdf2-sha1" or "argon2id".
	KDF string `env:"CRYPTOCORE_KDF" envDefault:"pbkdf2-sha1"`
	// Argon2MemoryKiB is the Argon2id memory cost.
	Argon2MemoryKiB uint32 `env:"CRYPTOCORE_ARGON2_MEMORY_KIB" envDefault:"65536"`
	// RSABits is the modulus size for generated RSA keys.
	RSABits int `env:"CRYPTOCORE_RSA_BITS" envDefault:"2048"`
	// KeyCacheTTL bounds how long unlocked private keys stay cached. Zero
	// disables the cache.
	KeyCacheTTL time.Duration `env:"CRYPTOCORE_KEY_CACHE_TTL" envDefault:"0s"`
	// StrictRecipientMatch disables the empty-identifier fallback when
	// opening envelopes.
	StrictRecipientMatch bool `env:"CRYPTOCORE_STRICT_RECIPIENT_MATCH" envDefault:"false"`

	LogLevel  string `env:"CRYPTOCORE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"CRYPTOCORE_LOG_FORMAT" envDefault:"text"`
}

// Default returns the configuration with every default applied.
func Default() Config {
	return Config{
		SymmetricBufferSize: crypto.DefaultBufferSize,
		KDF:                 crypto.KDFPBKDF2SHA1.String(),
		Argon2MemoryKiB:     64 * 1024,
		RSABits:             crypto.DefaultRSABits,
		LogLevel:            "info",
		LogFormat:           string(logger.FormatText),
	}
}

// Load reads the given .env files (missing files are an error) and then the
// process environment. With no files, a .env in the working directory is
// loaded if present. Variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		// the default .env is optional
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	return parse(env.Options{})
}

// FromMap parses cfg from vars instead of the process environment.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	if c.SymmetricBufferSize < 16 {
		return fmt.Errorf("%w: symmetric buffer size %d is below one block", ErrInvalidConfig, c.SymmetricBufferSize)
	}
	kdf, err := crypto.ParseKDF(c.KDF)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := kdf.CheckIterations(c.Iterations()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.RSABits < minRSABits {
		return fmt.Errorf("%w: rsa bits %d, want at least %d", ErrInvalidConfig, c.RSABits, minRSABits)
	}
	if c.KeyCacheTTL < 0 {
		return fmt.Errorf("%w: negative key cache ttl", ErrInvalidConfig)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if f := logger.Format(c.LogFormat); f != logger.FormatJSON && f != logger.FormatText {
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// KeyDeriver returns the deriver selected by KDF and Argon2MemoryKiB.
func (c Config) KeyDeriver() crypto.KeyDeriver {
	kdf, _ := crypto.ParseKDF(c.KDF)
	return crypto.KeyDeriver{KDF: kdf, Argon2MemoryKiB: c.Argon2MemoryKiB}
}

// Iterations returns KeyIterations, or the selected KDF's default when it is
// zero.
func (c Config) Iterations() uint32 {
	if c.KeyIterations != 0 {
		return c.KeyIterations
	}
	kdf, _ := crypto.ParseKDF(c.KDF)
	return kdf.DefaultIterations()
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() slog.Level {
	l, _ := logger.ParseLevel(c.LogLevel)
	return l
}

// Logger builds a logger for LogLevel and LogFormat.
func (c Config) Logger(opts ...logger.Option) *slog.Logger {
	base := []logger.Option{logger.WithLevel(c.Level())}
	if f := logger.Format(c.LogFormat); f == logger.FormatJSON || f == logger.FormatText {
		base = append(base, logger.WithFormat(f))
	}
	return logger.New(append(base, opts...)...)
}
