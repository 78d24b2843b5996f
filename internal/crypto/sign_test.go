package crypto

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

var signAlgorithms = []KeyAlgorithm{RSA, Ed25519, MLDSA65}

func TestSignVerify_AllHashNames(t *testing.T) {
	content := []byte("pay to the order of bob: 100 units")

	for _, alg := range signAlgorithms {
		for _, name := range HashNames() {
			t.Run(fmt.Sprintf("%v/%s", alg, name), func(t *testing.T) {
				k := testKey(t, alg)

				sig, err := Sign(nil, k, content, name)
				if err != nil {
					t.Fatalf("Sign() error = %v", err)
				}
				if err := Verify(k.Public(), content, name, sig); err != nil {
					t.Fatalf("Verify() error = %v", err)
				}

				altered := bytes.Clone(content)
				altered[0] ^= 0x01
				if err := Verify(k.Public(), altered, name, sig); !errors.Is(err, ErrSignatureVerificationFailed) {
					t.Errorf("altered content: expected ErrSignatureVerificationFailed, got %v", err)
				}
			})
		}
	}
}

func TestVerify_DifferentKey(t *testing.T) {
	for _, alg := range signAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			k := testKey(t, alg)
			other, err := GenerateKey(nil, alg, 0)
			if err != nil {
				t.Fatal(err)
			}

			sig, err := Sign(nil, k, []byte("contract"), "")
			if err != nil {
				t.Fatal(err)
			}
			if err := Verify(other.Public(), []byte("contract"), "", sig); !errors.Is(err, ErrSignatureVerificationFailed) {
				t.Errorf("expected ErrSignatureVerificationFailed, got %v", err)
			}
		})
	}
}

func TestVerify_SchemeMismatch(t *testing.T) {
	k := testKey(t, RSA)
	sig, err := Sign(nil, k, []byte("content"), "SHA256")
	if err != nil {
		t.Fatal(err)
	}

	// a PKCS#1 v1.5 signature must not verify under the default PSS scheme
	if err := Verify(k.Public(), []byte("content"), DefaultHashAlgorithm, sig); !errors.Is(err, ErrSignatureVerificationFailed) {
		t.Errorf("expected ErrSignatureVerificationFailed, got %v", err)
	}
}

func TestSign_DefaultIsEmptyName(t *testing.T) {
	k := testKey(t, Ed25519)
	a, err := Sign(nil, k, []byte("x"), "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Sign(nil, k, []byte("x"), DefaultHashAlgorithm)
	if err != nil {
		t.Fatal(err)
	}
	// Ed25519 is deterministic, so equal schemes produce equal signatures
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("empty hash name does not select the default scheme")
	}
}

func TestSign_RSAPSSModulusSized(t *testing.T) {
	k := testKey(t, RSA)
	sig, err := Sign(nil, k, []byte("x"), DefaultHashAlgorithm)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Len() != k.RSA().Size() {
		t.Errorf("signature length = %d, want %d", sig.Len(), k.RSA().Size())
	}
}

func TestSign_UnknownHash(t *testing.T) {
	k := testKey(t, RSA)
	for _, name := range []string{"MD5", "SHA3-256", "sha-256"} {
		t.Run(name, func(t *testing.T) {
			if _, err := Sign(nil, k, []byte("x"), name); !errors.Is(err, ErrUnknownHash) {
				t.Errorf("Sign: expected ErrUnknownHash, got %v", err)
			}
			if err := Verify(k.Public(), []byte("x"), name, NewSignature([]byte{1})); !errors.Is(err, ErrUnknownHash) {
				t.Errorf("Verify: expected ErrUnknownHash, got %v", err)
			}
		})
	}
}

func TestSign_WrapOnlyAlgorithms(t *testing.T) {
	for _, alg := range []KeyAlgorithm{X25519, MLKEM768} {
		t.Run(alg.String(), func(t *testing.T) {
			k := testKey(t, alg)
			if _, err := Sign(nil, k, []byte("x"), ""); !errors.Is(err, ErrUnsupportedAlgorithm) {
				t.Errorf("expected ErrUnsupportedAlgorithm, got %v", err)
			}
		})
	}
}

func TestSignature_ArmorRoundTrip(t *testing.T) {
	k := testKey(t, MLDSA65)
	sig, err := Sign(nil, k, []byte("armored"), "")
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseSignature(sig.Armor())
	if err != nil {
		t.Fatalf("ParseSignature() error = %v", err)
	}
	if !bytes.Equal(parsed.Bytes(), sig.Bytes()) {
		t.Error("armored signature does not round trip")
	}
	if err := Verify(k.Public(), []byte("armored"), "", parsed); err != nil {
		t.Errorf("Verify(parsed) error = %v", err)
	}
}

func TestParseSignature_Invalid(t *testing.T) {
	for _, in := range []string{"", "\n", "not base64!"} {
		if _, err := ParseSignature(in); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("ParseSignature(%q): expected ErrInvalidSignature, got %v", in, err)
		}
	}
}

func BenchmarkSignRSADefault(b *testing.B) {
	k := testKey(b, RSA)
	content := make([]byte, 1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Sign(nil, k, content, "")
	}
}

func ExampleSign() {
	key, _ := GenerateKey(nil, Ed25519, 0)
	sig, _ := Sign(nil, key, []byte("I owe you 5 units"), "SHA512")

	err := Verify(key.Public(), []byte("I owe you 5 units"), "SHA512", sig)
	fmt.Println(err == nil)
	// Output: true
}
