package crypto

import (
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/digitalcash/cryptocore/internal/secret"
)

func staticPassword(pw string) PasswordCallback {
	return func(string) (*secret.Secret, error) {
		return secret.NewPasswordString(pw), nil
	}
}

func TestPEM_PublicRoundTrip(t *testing.T) {
	wantType := map[KeyAlgorithm]string{
		RSA:      PEMPublicKey,
		X25519:   PEMPublicKey,
		Ed25519:  PEMPublicKey,
		MLKEM768: PEMMLKEMPublicKey,
		MLDSA65:  PEMMLDSAPublicKey,
	}

	for _, alg := range allAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			pub := testKey(t, alg).Public()
			blob, err := MarshalPublicKeyPEM(pub)
			if err != nil {
				t.Fatalf("MarshalPublicKeyPEM() error = %v", err)
			}
			block, _ := pem.Decode(blob)
			if block == nil || block.Type != wantType[alg] {
				t.Fatalf("PEM type = %v, want %q", block, wantType[alg])
			}

			parsed, err := ParsePublicKeyPEM(blob)
			if err != nil {
				t.Fatalf("ParsePublicKeyPEM() error = %v", err)
			}
			if !parsed.Equal(pub) {
				t.Error("parsed key does not match")
			}
		})
	}
}

func TestPEM_PrivateRoundTrip(t *testing.T) {
	for _, alg := range allAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			k := testKey(t, alg)
			blob, err := MarshalPrivateKeyPEM(k)
			if err != nil {
				t.Fatalf("MarshalPrivateKeyPEM() error = %v", err)
			}
			parsed, err := ParsePrivateKeyPEM(blob, nil)
			if err != nil {
				t.Fatalf("ParsePrivateKeyPEM() error = %v", err)
			}
			if !parsed.Public().Equal(k.Public()) {
				t.Error("parsed key does not match")
			}
		})
	}
}

func TestPEM_LegacyRSAPrivateKey(t *testing.T) {
	k := testKey(t, RSA)
	blob := pem.EncodeToMemory(&pem.Block{Type: PEMRSAPrivateKey, Bytes: k.Bytes()})

	parsed, err := ParsePrivateKeyPEM(blob, nil)
	if err != nil {
		t.Fatalf("ParsePrivateKeyPEM() error = %v", err)
	}
	if !parsed.Public().Equal(k.Public()) {
		t.Error("parsed key does not match")
	}
}

func TestPEM_EncryptedPrivateKey(t *testing.T) {
	protection := KeyProtection{Iterations: testIterations}

	for _, alg := range allAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			k := testKey(t, alg)
			blob, err := EncryptPrivateKeyPEM(nil, k, secret.NewPasswordString("hunter2"), protection)
			if err != nil {
				t.Fatalf("EncryptPrivateKeyPEM() error = %v", err)
			}
			if !strings.Contains(string(blob), PEMEncryptedKey) {
				t.Fatalf("missing %q block", PEMEncryptedKey)
			}

			parsed, err := ParsePrivateKeyPEM(blob, staticPassword("hunter2"))
			if err != nil {
				t.Fatalf("ParsePrivateKeyPEM() error = %v", err)
			}
			if !parsed.Public().Equal(k.Public()) {
				t.Error("decrypted key does not match")
			}

			if _, err := ParsePrivateKeyPEM(blob, staticPassword("wrong")); !errors.Is(err, ErrCheckHashMismatch) {
				t.Errorf("wrong passphrase: expected ErrCheckHashMismatch, got %v", err)
			}
			if _, err := ParsePrivateKeyPEM(blob, nil); !errors.Is(err, ErrPassphraseRequired) {
				t.Errorf("nil callback: expected ErrPassphraseRequired, got %v", err)
			}
		})
	}
}

func TestPEM_EncryptedArgon2(t *testing.T) {
	k := testKey(t, Ed25519)
	protection := KeyProtection{
		Deriver:    KeyDeriver{KDF: KDFArgon2id, Argon2MemoryKiB: 1024},
		Iterations: 1,
	}
	blob, err := EncryptPrivateKeyPEM(nil, k, secret.NewPasswordString("pw"), protection)
	if err != nil {
		t.Fatal(err)
	}
	block, _ := pem.Decode(blob)
	if block.Headers["KDF"] != "argon2id" || block.Headers["Argon2-Memory"] != "1024" {
		t.Errorf("unexpected headers %v", block.Headers)
	}

	parsed, err := ParsePrivateKeyPEM(blob, staticPassword("pw"))
	if err != nil {
		t.Fatalf("ParsePrivateKeyPEM() error = %v", err)
	}
	if !parsed.Public().Equal(k.Public()) {
		t.Error("decrypted key does not match")
	}
}

func TestPEM_EncryptedArgon2RejectsExcessiveTimeCost(t *testing.T) {
	k := testKey(t, Ed25519)
	blob, err := EncryptPrivateKeyPEM(nil, k, secret.NewPasswordString("pw"), KeyProtection{
		Deriver: KeyDeriver{KDF: KDFArgon2id, Argon2MemoryKiB: 1024},
	})
	if err != nil {
		t.Fatal(err)
	}
	block, _ := pem.Decode(blob)
	if got := block.Headers["Iterations"]; got != "3" {
		t.Errorf("default argon2id time cost = %s, want 3", got)
	}

	block.Headers["Iterations"] = "65535"
	if _, err := ParsePrivateKeyPEM(pem.EncodeToMemory(block), staticPassword("pw")); !errors.Is(err, ErrInvalidPEM) {
		t.Errorf("expected ErrInvalidPEM, got %v", err)
	}
}

func TestPEM_EncryptedTamperedBody(t *testing.T) {
	k := testKey(t, X25519)
	blob, err := EncryptPrivateKeyPEM(nil, k, secret.NewPasswordString("pw"), KeyProtection{Iterations: testIterations})
	if err != nil {
		t.Fatal(err)
	}
	block, _ := pem.Decode(blob)
	block.Bytes[0] ^= 0x01

	_, err = ParsePrivateKeyPEM(pem.EncodeToMemory(block), staticPassword("pw"))
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestPEM_EncryptedMissingHeaders(t *testing.T) {
	k := testKey(t, X25519)
	blob, err := EncryptPrivateKeyPEM(nil, k, secret.NewPasswordString("pw"), KeyProtection{Iterations: testIterations})
	if err != nil {
		t.Fatal(err)
	}

	for _, header := range []string{"Salt", "Check-Hash", "IV", "Iterations"} {
		t.Run(header, func(t *testing.T) {
			block, _ := pem.Decode(blob)
			delete(block.Headers, header)
			_, err := ParsePrivateKeyPEM(pem.EncodeToMemory(block), staticPassword("pw"))
			if !errors.Is(err, ErrInvalidPEM) {
				t.Errorf("expected ErrInvalidPEM, got %v", err)
			}
		})
	}
}

func TestParsePublicKeyPEM_Certificate(t *testing.T) {
	k := testKey(t, RSA)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "notary"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, k.RSA().Public(), k.RSA())
	if err != nil {
		t.Fatal(err)
	}
	blob := pem.EncodeToMemory(&pem.Block{Type: PEMCertificate, Bytes: der})

	pub, err := ParsePublicKeyPEM(blob)
	if err != nil {
		t.Fatalf("ParsePublicKeyPEM() error = %v", err)
	}
	if !pub.Equal(k.Public()) {
		t.Error("certificate key does not match")
	}
}

func TestParsePEM_Invalid(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"no block", []byte("not pem")},
		{"unknown type", pem.EncodeToMemory(&pem.Block{Type: "DSA KEY", Bytes: []byte{1}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePublicKeyPEM(tt.blob); !errors.Is(err, ErrInvalidPEM) {
				t.Errorf("ParsePublicKeyPEM: expected ErrInvalidPEM, got %v", err)
			}
			if _, err := ParsePrivateKeyPEM(tt.blob, nil); !errors.Is(err, ErrInvalidPEM) {
				t.Errorf("ParsePrivateKeyPEM: expected ErrInvalidPEM, got %v", err)
			}
		})
	}
}
