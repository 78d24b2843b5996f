package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/digitalcash/cryptocore/internal/secret"
)

// Low iteration counts keep the suite fast; the check-hash logic does not
// depend on them.
const testIterations = 1000

var testDerivers = []struct {
	name    string
	deriver KeyDeriver
	iter    uint32
}{
	{"pbkdf2-sha1", KeyDeriver{KDF: KDFPBKDF2SHA1}, testIterations},
	{"argon2id", KeyDeriver{KDF: KDFArgon2id, Argon2MemoryKiB: 1024}, 1},
}

func TestDeriveKey_Deterministic(t *testing.T) {
	for _, tt := range testDerivers {
		t.Run(tt.name, func(t *testing.T) {
			pass := secret.NewPasswordString("correct horse battery staple")
			salt := []byte("0123456789abcdef")

			var check1, check2 []byte
			k1, err := tt.deriver.DeriveKey(pass, salt, tt.iter, &check1)
			if err != nil {
				t.Fatalf("DeriveKey() error = %v", err)
			}
			k2, err := tt.deriver.DeriveKey(pass, salt, tt.iter, &check2)
			if err != nil {
				t.Fatalf("DeriveKey() error = %v", err)
			}

			if k1.Len() != SymmetricKeySize {
				t.Errorf("key length = %d, want %d", k1.Len(), SymmetricKeySize)
			}
			if !k1.Equal(k2) {
				t.Error("derived keys differ")
			}
			if len(check1) == 0 || !bytes.Equal(check1, check2) {
				t.Errorf("check-hashes differ or empty: %x vs %x", check1, check2)
			}
			if bytes.Equal(check1, k1.Bytes()) {
				t.Error("check-hash equals the derived key")
			}

			// supplying the stored check-hash succeeds and yields the same key
			stored := bytes.Clone(check1)
			k3, err := tt.deriver.DeriveKey(pass, salt, tt.iter, &stored)
			if err != nil {
				t.Fatalf("DeriveKey() with check-hash error = %v", err)
			}
			if !k3.Equal(k1) {
				t.Error("key derived with check-hash differs")
			}
		})
	}
}

func TestDeriveKey_CheckHashRepair(t *testing.T) {
	for _, tt := range testDerivers {
		t.Run(tt.name, func(t *testing.T) {
			pass := secret.NewPasswordString("pw")
			salt := []byte("salt")

			var correct []byte
			if _, err := tt.deriver.DeriveKey(pass, salt, tt.iter, &correct); err != nil {
				t.Fatal(err)
			}

			corrupted := bytes.Clone(correct)
			corrupted[0] ^= 0xff
			key, err := tt.deriver.DeriveKey(pass, salt, tt.iter, &corrupted)
			if !errors.Is(err, ErrCheckHashMismatch) {
				t.Fatalf("expected ErrCheckHashMismatch, got %v", err)
			}
			if key != nil {
				t.Error("key returned on mismatch")
			}
			if !bytes.Equal(corrupted, correct) {
				t.Error("check-hash was not overwritten with the fresh value")
			}
		})
	}
}

func TestDeriveKey_WrongPassphraseMismatches(t *testing.T) {
	d := KeyDeriver{}
	salt := []byte("salt")

	var check []byte
	if _, err := d.DeriveKey(secret.NewPasswordString("right"), salt, testIterations, &check); err != nil {
		t.Fatal(err)
	}
	if _, err := d.DeriveKey(secret.NewPasswordString("wrong"), salt, testIterations, &check); !errors.Is(err, ErrCheckHashMismatch) {
		t.Errorf("expected ErrCheckHashMismatch, got %v", err)
	}
}

func TestDeriveKey_InputsMatter(t *testing.T) {
	d := KeyDeriver{}
	derive := func(pw, salt string, iter uint32) *secret.Secret {
		var check []byte
		k, err := d.DeriveKey(secret.NewPasswordString(pw), []byte(salt), iter, &check)
		if err != nil {
			t.Fatal(err)
		}
		return k
	}

	base := derive("pw", "salt", testIterations)
	if base.Equal(derive("pw2", "salt", testIterations)) {
		t.Error("passphrase does not affect key")
	}
	if base.Equal(derive("pw", "salt2", testIterations)) {
		t.Error("salt does not affect key")
	}
	if base.Equal(derive("pw", "salt", testIterations+1)) {
		t.Error("iterations do not affect key")
	}
}

func TestDeriveKey_PreconditionsPanic(t *testing.T) {
	d := KeyDeriver{}
	pass := secret.NewPasswordString("pw")
	var check []byte

	tests := []struct {
		name string
		fn   func()
	}{
		{"empty salt", func() { d.DeriveKey(pass, nil, 1, &check) }},
		{"zero iterations", func() { d.DeriveKey(pass, []byte("s"), 0, &check) }},
		{"nil passphrase", func() { d.DeriveKey(nil, []byte("s"), 1, &check) }},
		{"nil check-hash", func() { d.DeriveKey(pass, []byte("s"), 1, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestParseKDF(t *testing.T) {
	tests := []struct {
		in      string
		want    KDF
		wantErr bool
	}{
		{"", KDFPBKDF2SHA1, false},
		{"pbkdf2-sha1", KDFPBKDF2SHA1, false},
		{"PBKDF2", KDFPBKDF2SHA1, false},
		{"argon2id", KDFArgon2id, false},
		{" Argon2 ", KDFArgon2id, false},
		{"scrypt", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKDF(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedAlgorithm) {
					t.Errorf("expected ErrUnsupportedAlgorithm, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseKDF(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
			if round, _ := ParseKDF(got.String()); round != got {
				t.Errorf("String() does not round trip for %v", got)
			}
		})
	}
}

func BenchmarkDeriveKey(b *testing.B) {
	d := KeyDeriver{}
	pass := secret.NewPasswordString("benchmark")
	salt := []byte("0123456789abcdef")

	for i := 0; i < b.N; i++ {
		var check []byte
		k, _ := d.DeriveKey(pass, salt, DefaultIterations, &check)
		k.Destroy()
	}
}

func TestKDF_Iterations(t *testing.T) {
	if got := KDFPBKDF2SHA1.DefaultIterations(); got != DefaultIterations {
		t.Errorf("pbkdf2 default = %d", got)
	}
	if got := KDFArgon2id.DefaultIterations(); got != DefaultArgon2Time {
		t.Errorf("argon2id default = %d", got)
	}

	tests := []struct {
		kdf     KDF
		n       uint32
		wantErr bool
	}{
		{KDFPBKDF2SHA1, 0, true},
		{KDFPBKDF2SHA1, DefaultIterations, false},
		{KDFArgon2id, MaxArgon2Time, false},
		{KDFArgon2id, MaxArgon2Time + 1, true},
		{KDFArgon2id, DefaultIterations, true},
	}
	for _, tt := range tests {
		err := tt.kdf.CheckIterations(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("%v.CheckIterations(%d) = %v, wantErr %v", tt.kdf, tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrPrecondition) {
			t.Errorf("expected ErrPrecondition, got %v", err)
		}
	}
}
