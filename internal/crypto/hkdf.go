package crypto

import (
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// HKDF expands ikm with HKDF-SHA-512 under a domain context and splits the
// output into one key per entry of sizes. A nil salt is the all-zero salt.
func HKDF(ikm, salt []byte, context string, sizes ...int) ([][]byte, error) {
	total := 0
	for _, n := range sizes {
		if n <= 0 {
			return nil, fmt.Errorf("%w: key size %d", ErrPrecondition, n)
		}
		total += n
	}

	out := make([]byte, total)
	if _, err := io.ReadFull(hkdf.New(sha512.New, ikm, salt, []byte(context)), out); err != nil {
		clear(out)
		return nil, fmt.Errorf("hkdf %s: %w", context, err)
	}

	keys := make([][]byte, len(sizes))
	for i, n := range sizes {
		keys[i], out = out[:n:n], out[n:]
	}
	return keys, nil
}

// deriveKEK returns a single AES-256 key-encryption key.
func deriveKEK(shared, salt []byte, context string) ([]byte, error) {
	keys, err := HKDF(shared, salt, context, KEKSize)
	if err != nil {
		return nil, err
	}
	return keys[0], nil
}
