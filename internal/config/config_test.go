package config_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalcash/cryptocore/internal/config"
	"github.com/digitalcash/cryptocore/internal/crypto"
)

func TestFromMap_Defaults(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 4096, cfg.SymmetricBufferSize)
	assert.Zero(t, cfg.KeyIterations)
	assert.Equal(t, uint32(crypto.DefaultIterations), cfg.Iterations())
	assert.Zero(t, cfg.KeyCacheTTL)
	assert.False(t, cfg.StrictRecipientMatch)
}

func TestFromMap_Overrides(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{
		"CRYPTOCORE_SYMMETRIC_BUFFER_SIZE":  "1024",
		"CRYPTOCORE_KEY_ITERATIONS":         "4",
		"CRYPTOCORE_KDF":                    "argon2id",
		"CRYPTOCORE_ARGON2_MEMORY_KIB":      "32768",
		"CRYPTOCORE_RSA_BITS":               "3072",
		"CRYPTOCORE_KEY_CACHE_TTL":          "5m",
		"CRYPTOCORE_STRICT_RECIPIENT_MATCH": "true",
		"CRYPTOCORE_LOG_LEVEL":              "debug",
		"CRYPTOCORE_LOG_FORMAT":             "json",
	})
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.SymmetricBufferSize)
	assert.Equal(t, uint32(4), cfg.Iterations())
	assert.Equal(t, 3072, cfg.RSABits)
	assert.Equal(t, 5*time.Minute, cfg.KeyCacheTTL)
	assert.True(t, cfg.StrictRecipientMatch)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, crypto.KeyDeriver{KDF: crypto.KDFArgon2id, Argon2MemoryKiB: 32768}, cfg.KeyDeriver())
}

func TestFromMap_IterationsFollowKDF(t *testing.T) {
	tests := []struct {
		kdf  string
		want uint32
	}{
		{"pbkdf2-sha1", crypto.DefaultIterations},
		{"argon2id", crypto.DefaultArgon2Time},
	}
	for _, tt := range tests {
		t.Run(tt.kdf, func(t *testing.T) {
			cfg, err := config.FromMap(map[string]string{"CRYPTOCORE_KDF": tt.kdf})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Iterations())
		})
	}
}

func TestFromMap_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr error
	}{
		{"unparsable int", map[string]string{"CRYPTOCORE_RSA_BITS": "big"}, config.ErrParsingConfig},
		{"unparsable duration", map[string]string{"CRYPTOCORE_KEY_CACHE_TTL": "soon"}, config.ErrParsingConfig},
		{"tiny buffer", map[string]string{"CRYPTOCORE_SYMMETRIC_BUFFER_SIZE": "8"}, config.ErrInvalidConfig},
		{"argon2id time cost too high", map[string]string{"CRYPTOCORE_KDF": "argon2id", "CRYPTOCORE_KEY_ITERATIONS": "65535"}, config.ErrInvalidConfig},
		{"unknown kdf", map[string]string{"CRYPTOCORE_KDF": "bcrypt"}, config.ErrInvalidConfig},
		{"weak rsa", map[string]string{"CRYPTOCORE_RSA_BITS": "1024"}, config.ErrInvalidConfig},
		{"negative ttl", map[string]string{"CRYPTOCORE_KEY_CACHE_TTL": "-1s"}, config.ErrInvalidConfig},
		{"bad level", map[string]string{"CRYPTOCORE_LOG_LEVEL": "chatty"}, config.ErrInvalidConfig},
		{"bad format", map[string]string{"CRYPTOCORE_LOG_FORMAT": "xml"}, config.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromMap(tt.vars)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	for _, k := range []string{"CRYPTOCORE_CONFIG_TEST_MARKER", "CRYPTOCORE_KDF", "CRYPTOCORE_ARGON2_MEMORY_KIB"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := config.Load("testdata/.env.test")
	require.NoError(t, err)

	assert.Equal(t, "loaded", os.Getenv("CRYPTOCORE_CONFIG_TEST_MARKER"))
	assert.Equal(t, "argon2id", cfg.KDF)
	assert.Equal(t, uint32(2048), cfg.Argon2MemoryKiB)
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	t.Setenv("CRYPTOCORE_KDF", "pbkdf2-sha1")

	cfg, err := config.Load("testdata/.env.test")
	require.NoError(t, err)
	assert.Equal(t, "pbkdf2-sha1", cfg.KDF)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("testdata/does-not-exist.env")
	assert.Error(t, err)
}

func TestConfig_Logger(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "warn"
	l := cfg.Logger()
	assert.False(t, l.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, l.Enabled(t.Context(), slog.LevelWarn))
}
