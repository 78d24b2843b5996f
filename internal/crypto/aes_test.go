package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"
)

func TestSealOpenAESGCM_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
		aad       []byte
	}{
		{"empty", []byte{}, nil},
		{"session key", bytes.Repeat([]byte{0x42}, SymmetricKeySize), nil},
		{"with aad", []byte("hello world"), []byte("associated")},
		{"large", make([]byte, 10000), []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := make([]byte, KEKSize)
			rand.Read(key)
			nonce := make([]byte, AESNonceSize)
			rand.Read(nonce)

			ct, err := sealAESGCM(key, nonce, tt.aad, tt.plaintext)
			if err != nil {
				t.Fatalf("sealAESGCM() error = %v", err)
			}
			if len(ct) != len(tt.plaintext)+AESTagSize {
				t.Errorf("ciphertext length = %d, want %d", len(ct), len(tt.plaintext)+AESTagSize)
			}

			pt, err := openAESGCM(key, nonce, tt.aad, ct)
			if err != nil {
				t.Fatalf("openAESGCM() error = %v", err)
			}
			if !bytes.Equal(pt, tt.plaintext) {
				t.Errorf("decrypted = %x, want %x", pt, tt.plaintext)
			}
		})
	}
}

func TestSealAESGCM_InvalidKeySize(t *testing.T) {
	tests := []struct {
		name    string
		keySize int
	}{
		{"empty", 0},
		{"aes-128", 16},
		{"too long", 64},
	}

	nonce := make([]byte, AESNonceSize)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sealAESGCM(make([]byte, tt.keySize), nonce, nil, []byte("test"))
			if !errors.Is(err, ErrInvalidKeySize) {
				t.Errorf("expected ErrInvalidKeySize, got %v", err)
			}
		})
	}
}

func TestSealAESGCM_InvalidNonceSize(t *testing.T) {
	key := make([]byte, KEKSize)
	for _, size := range []int{0, 8, 16} {
		t.Run(fmt.Sprintf("%d bytes", size), func(t *testing.T) {
			_, err := sealAESGCM(key, make([]byte, size), nil, []byte("test"))
			if !errors.Is(err, ErrInvalidNonceSize) {
				t.Errorf("expected ErrInvalidNonceSize, got %v", err)
			}
		})
	}
}

func TestOpenAESGCM_Tampered(t *testing.T) {
	key := make([]byte, KEKSize)
	rand.Read(key)
	nonce := make([]byte, AESNonceSize)
	aad := []byte("bound")

	ct, err := sealAESGCM(key, nonce, aad, []byte("secret message"))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("flipped byte", func(t *testing.T) {
		bad := bytes.Clone(ct)
		bad[0] ^= 0xff
		if _, err := openAESGCM(key, nonce, aad, bad); !errors.Is(err, ErrDecryptionFailed) {
			t.Errorf("expected ErrDecryptionFailed, got %v", err)
		}
	})

	t.Run("wrong aad", func(t *testing.T) {
		if _, err := openAESGCM(key, nonce, []byte("other"), ct); !errors.Is(err, ErrDecryptionFailed) {
			t.Errorf("expected ErrDecryptionFailed, got %v", err)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		other := make([]byte, KEKSize)
		rand.Read(other)
		if _, err := openAESGCM(other, nonce, aad, ct); !errors.Is(err, ErrDecryptionFailed) {
			t.Errorf("expected ErrDecryptionFailed, got %v", err)
		}
	})
}

func TestHKDF_Deterministic(t *testing.T) {
	secret := []byte("shared secret")
	salt := []byte("salt")

	a, err := HKDF(secret, salt, symmetricContext, 16, 32)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 2 || len(a[0]) != 16 || len(a[1]) != 32 {
		t.Fatalf("unexpected split %d keys", len(a))
	}
	b, _ := HKDF(secret, salt, symmetricContext, 48)
	if !bytes.Equal(append(a[0], a[1]...), b[0]) {
		t.Error("split output differs from the contiguous output")
	}

	c, _ := HKDF(secret, salt, x25519Context, 48)
	if bytes.Equal(b[0], c[0]) {
		t.Error("different contexts produced the same output")
	}

	d, err := HKDF(secret, nil, "", 32)
	if err != nil || len(d[0]) != 32 {
		t.Errorf("HKDF with empty salt: err %v", err)
	}

	if _, err := HKDF(secret, salt, symmetricContext, 0); !errors.Is(err, ErrPrecondition) {
		t.Errorf("zero size: expected ErrPrecondition, got %v", err)
	}
}

func BenchmarkSealAESGCM(b *testing.B) {
	key := make([]byte, KEKSize)
	nonce := make([]byte, AESNonceSize)
	plaintext := make([]byte, SymmetricKeySize)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = sealAESGCM(key, nonce, nil, plaintext)
	}
}
