package crypto

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	"github.com/digitalcash/cryptocore/internal/secret"
)

// KDF selects the iterated PRF used for passphrase key derivation.
type KDF int

const (
	// KDFPBKDF2SHA1 is PBKDF2-HMAC-SHA1, compatible with legacy stored keys.
	KDFPBKDF2SHA1 KDF = iota
	// KDFArgon2id is Argon2id; iterations map to its time parameter.
	KDFArgon2id
)

func (k KDF) String() string {
	switch k {
	case KDFPBKDF2SHA1:
		return "pbkdf2-sha1"
	case KDFArgon2id:
		return "argon2id"
	default:
		return "unknown"
	}
}

// DefaultIterations returns the iteration count (PBKDF2) or time cost
// (Argon2id) used when none is configured.
func (k KDF) DefaultIterations() uint32 {
	if k == KDFArgon2id {
		return DefaultArgon2Time
	}
	return DefaultIterations
}

// CheckIterations rejects Argon2id time costs above MaxArgon2Time.
func (k KDF) CheckIterations(n uint32) error {
	if n == 0 {
		return fmt.Errorf("%w: zero iterations", ErrPrecondition)
	}
	if k == KDFArgon2id && n > MaxArgon2Time {
		return fmt.Errorf("%w: argon2id time cost %d exceeds %d", ErrPrecondition, n, MaxArgon2Time)
	}
	return nil
}

// ParseKDF returns the KDF for a name produced by KDF.String.
func ParseKDF(name string) (KDF, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pbkdf2-sha1", "pbkdf2":
		return KDFPBKDF2SHA1, nil
	case "argon2id", "argon2":
		return KDFArgon2id, nil
	default:
		return 0, fmt.Errorf("%w: kdf %q", ErrUnsupportedAlgorithm, name)
	}
}

// KeyDeriver derives fixed-size symmetric keys from passphrases.
type KeyDeriver struct {
	KDF KDF
	// Argon2MemoryKiB and Argon2Threads tune KDFArgon2id; zero values pick
	// 64 MiB and 1 thread.
	Argon2MemoryKiB uint32
	Argon2Threads   uint8
}

// DeriveKey derives a SymmetricKeySize key from pass and salt, plus a
// check-hash computed by running the same PRF keyed by the derived key.
//
// With an empty *checkHash this is a first derivation: the check-hash is
// written to *checkHash and the key returned. With a non-empty *checkHash the
// fresh value is compared to it; on mismatch no key is returned,
// *checkHash is overwritten with the fresh value and ErrCheckHashMismatch is
// returned.
//
// An empty salt, a nil passphrase or zero iterations are programming errors
// and panic.
func (d KeyDeriver) DeriveKey(pass *secret.Secret, salt []byte, iterations uint32, checkHash *[]byte) (*secret.Secret, error) {
	if pass == nil {
		panic("crypto: DeriveKey requires a passphrase")
	}
	if len(salt) == 0 {
		panic("crypto: DeriveKey requires a non-empty salt")
	}
	if iterations == 0 {
		panic("crypto: DeriveKey requires at least one iteration")
	}
	if checkHash == nil {
		panic("crypto: DeriveKey requires a check-hash destination")
	}

	derived := secret.TakeRaw(d.prf(pass.Bytes(), salt, iterations))
	fresh := d.prf(derived.Bytes(), salt, iterations)

	if len(*checkHash) > 0 && !bytes.Equal(*checkHash, fresh) {
		derived.Destroy()
		*checkHash = fresh
		return nil, ErrCheckHashMismatch
	}

	*checkHash = fresh
	return derived, nil
}

func (d KeyDeriver) prf(password, salt []byte, iterations uint32) []byte {
	switch d.KDF {
	case KDFArgon2id:
		memory := d.Argon2MemoryKiB
		if memory == 0 {
			memory = 64 * 1024
		}
		threads := d.Argon2Threads
		if threads == 0 {
			threads = 1
		}
		return argon2.IDKey(password, salt, iterations, memory, threads, SymmetricKeySize)
	default:
		return pbkdf2.Key(password, salt, int(iterations), SymmetricKeySize, sha1.New)
	}
}
