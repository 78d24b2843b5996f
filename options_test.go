package cryptocore

import (
	"bytes"
	"testing"
	"time"

	"github.com/digitalcash/cryptocore/internal/config"
	"github.com/digitalcash/cryptocore/internal/logger"
)

func TestWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RSABits = 3072
	pc := &providerConfig{}
	WithConfig(cfg)(pc)
	if pc.cfg.RSABits != 3072 {
		t.Errorf("RSABits = %d, want 3072", pc.cfg.RSABits)
	}
}

func TestFieldOptionsOverrideConfig(t *testing.T) {
	pc := &providerConfig{}
	for _, opt := range []Option{
		WithConfig(config.Default()),
		WithBufferSize(64),
		WithKeyIterations(10),
		WithKeyCacheTTL(time.Minute),
		WithStrictRecipientMatch(true),
	} {
		opt(pc)
	}

	if pc.cfg.SymmetricBufferSize != 64 {
		t.Errorf("SymmetricBufferSize = %d, want 64", pc.cfg.SymmetricBufferSize)
	}
	if pc.cfg.KeyIterations != 10 {
		t.Errorf("KeyIterations = %d, want 10", pc.cfg.KeyIterations)
	}
	if pc.cfg.KeyCacheTTL != time.Minute {
		t.Errorf("KeyCacheTTL = %v, want 1m", pc.cfg.KeyCacheTTL)
	}
	if !pc.cfg.StrictRecipientMatch {
		t.Error("StrictRecipientMatch was not set")
	}
}

func TestWithRandReader(t *testing.T) {
	pc := &providerConfig{}
	r := bytes.NewReader(nil)
	WithRandReader(r)(pc)
	if pc.rand != r {
		t.Error("rand was not set")
	}
}

func TestWithLogger(t *testing.T) {
	pc := &providerConfig{}
	l := logger.Discard()
	WithLogger(l)(pc)
	if pc.logger != l {
		t.Error("logger was not set")
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	if _, err := New(WithBufferSize(8)); err == nil {
		t.Error("expected error for a buffer smaller than one block")
	}
	argon := config.Default()
	argon.KDF = "argon2id"
	if _, err := New(WithConfig(argon), WithKeyIterations(65535)); err == nil {
		t.Error("expected error for an argon2id time cost in the PBKDF2 range")
	}
}
