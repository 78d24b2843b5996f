package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/digitalcash/cryptocore/internal/secret"
)

var wrapAlgorithms = []KeyAlgorithm{RSA, X25519, MLKEM768}

func TestWrapUnwrap_RoundTrip(t *testing.T) {
	for _, alg := range wrapAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			k := testKey(t, alg)
			sessionKey := secret.NewRaw(bytes.Repeat([]byte{0xa5}, SymmetricKeySize))

			wrapped, err := WrapKey(nil, k.Public(), sessionKey)
			if err != nil {
				t.Fatalf("WrapKey() error = %v", err)
			}
			if bytes.Contains(wrapped, sessionKey.Bytes()) {
				t.Error("wrapped key contains the session key in clear")
			}

			got, err := UnwrapKey(k, wrapped)
			if err != nil {
				t.Fatalf("UnwrapKey() error = %v", err)
			}
			if !got.Equal(sessionKey) {
				t.Error("unwrapped key does not match")
			}
		})
	}
}

func TestWrapKey_SizeMatchesModulusForRSA(t *testing.T) {
	k := testKey(t, RSA)
	wrapped, err := WrapKey(nil, k.Public(), secret.NewZeroed(SymmetricKeySize))
	if err != nil {
		t.Fatal(err)
	}
	if len(wrapped) != k.RSA().Size() {
		t.Errorf("wrapped size = %d, want %d", len(wrapped), k.RSA().Size())
	}
}

func TestWrapKey_FreshPerCall(t *testing.T) {
	for _, alg := range wrapAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			pub := testKey(t, alg).Public()
			key := secret.NewZeroed(SymmetricKeySize)
			a, _ := WrapKey(nil, pub, key)
			b, _ := WrapKey(nil, pub, key)
			if bytes.Equal(a, b) {
				t.Error("two wraps of the same key are identical")
			}
		})
	}
}

func TestUnwrapKey_WrongRecipient(t *testing.T) {
	for _, alg := range wrapAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			k := testKey(t, alg)
			other, err := GenerateKey(nil, alg, 0)
			if err != nil {
				t.Fatal(err)
			}
			wrapped, err := WrapKey(nil, k.Public(), secret.NewZeroed(SymmetricKeySize))
			if err != nil {
				t.Fatal(err)
			}

			if _, err := UnwrapKey(other, wrapped); !errors.Is(err, ErrKeyUnwrapFailed) {
				t.Errorf("expected ErrKeyUnwrapFailed, got %v", err)
			}
		})
	}
}

func TestUnwrapKey_Malformed(t *testing.T) {
	for _, alg := range wrapAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			k := testKey(t, alg)
			wrapped, err := WrapKey(nil, k.Public(), secret.NewZeroed(SymmetricKeySize))
			if err != nil {
				t.Fatal(err)
			}

			cases := map[string][]byte{
				"empty":     nil,
				"truncated": wrapped[:len(wrapped)-1],
				"flipped": func() []byte {
					b := bytes.Clone(wrapped)
					b[len(b)/2] ^= 0x80
					return b
				}(),
			}
			for name, input := range cases {
				if _, err := UnwrapKey(k, input); !errors.Is(err, ErrKeyUnwrapFailed) {
					t.Errorf("%s: expected ErrKeyUnwrapFailed, got %v", name, err)
				}
			}
		})
	}
}

func TestWrapKey_SigningOnlyAlgorithms(t *testing.T) {
	for _, alg := range []KeyAlgorithm{Ed25519, MLDSA65} {
		t.Run(alg.String(), func(t *testing.T) {
			k := testKey(t, alg)
			_, err := WrapKey(nil, k.Public(), secret.NewZeroed(SymmetricKeySize))
			if !errors.Is(err, ErrUnsupportedAlgorithm) {
				t.Errorf("WrapKey: expected ErrUnsupportedAlgorithm, got %v", err)
			}
			if _, err := UnwrapKey(k, []byte{1}); !errors.Is(err, ErrUnsupportedAlgorithm) {
				t.Errorf("UnwrapKey: expected ErrUnsupportedAlgorithm, got %v", err)
			}
		})
	}
}

func TestWrapKey_Preconditions(t *testing.T) {
	pub := testKey(t, X25519).Public()
	if _, err := WrapKey(nil, nil, secret.NewZeroed(SymmetricKeySize)); !errors.Is(err, ErrPrecondition) {
		t.Errorf("nil key: expected ErrPrecondition, got %v", err)
	}
	if _, err := WrapKey(nil, pub, secret.NewBounded(0)); !errors.Is(err, ErrPrecondition) {
		t.Errorf("empty session key: expected ErrPrecondition, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestWrapKey_RandomFailure(t *testing.T) {
	for _, alg := range []KeyAlgorithm{X25519, MLKEM768} {
		t.Run(alg.String(), func(t *testing.T) {
			_, err := WrapKey(failingReader{}, testKey(t, alg).Public(), secret.NewZeroed(SymmetricKeySize))
			if !errors.Is(err, ErrRandomFailed) {
				t.Errorf("expected ErrRandomFailed, got %v", err)
			}
		})
	}
}

func TestReader(t *testing.T) {
	if Reader(nil) != rand.Reader {
		t.Error("nil reader should fall back to crypto/rand")
	}
	if _, err := RandomBytes(failingReader{}, 8); !errors.Is(err, ErrRandomFailed) {
		t.Errorf("expected ErrRandomFailed, got %v", err)
	}
	b, err := RandomBytes(nil, 8)
	if err != nil || len(b) != 8 {
		t.Errorf("RandomBytes(nil, 8) = %d bytes, %v", len(b), err)
	}
}

func TestRandomizeMemory_EmptyBuffer(t *testing.T) {
	if err := RandomizeMemory(nil, nil); !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected ErrPrecondition, got %v", err)
	}
}
