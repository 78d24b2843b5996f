package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Reader returns r, or crypto/rand when r is nil.
func Reader(r io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return rand.Reader
}

// RandomizeMemory fills buf with bytes from r. A short or failed read is
// reported as ErrRandomFailed; callers must not retry silently.
func RandomizeMemory(r io.Reader, buf []byte) error {
	if len(buf) == 0 {
		return fmt.Errorf("%w: empty destination", ErrPrecondition)
	}
	if _, err := io.ReadFull(Reader(r), buf); err != nil {
		return fmt.Errorf("%w: %v", ErrRandomFailed, err)
	}
	return nil
}

// RandomBytes returns n bytes from r.
func RandomBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := RandomizeMemory(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
