// Package secret holds sensitive byte material (passphrases and raw keys)
// and guarantees it is zeroed before it is released or overwritten.
package secret

import (
	"crypto/subtle"
	"errors"
	"fmt"
)

// Mode distinguishes a text passphrase from raw key bytes.
type Mode int

const (
	// ModeRaw holds binary key material.
	ModeRaw Mode = iota
	// ModePassword holds a text passphrase.
	ModePassword
)

func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModePassword:
		return "password"
	default:
		return "unknown"
	}
}

var (
	// ErrDestroyed is returned when a destroyed secret is used.
	ErrDestroyed = errors.New("secret has been destroyed")

	// ErrCapacityExceeded is returned when an append would grow a fixed-capacity
	// secret beyond its limit.
	ErrCapacityExceeded = errors.New("secret capacity exceeded")
)

// noCopy lets go vet flag accidental copies of a Secret.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Secret is a sensitive buffer. Secrets must be passed by pointer; use Clone
// for an explicit copy. Call Destroy when done.
type Secret struct {
	_ noCopy

	mode      Mode
	data      []byte
	limit     int // 0 means unbounded
	destroyed bool
}

// NewPassword copies pass into a new password-mode secret.
func NewPassword(pass []byte) *Secret {
	return newSecret(ModePassword, pass)
}

// NewPasswordString copies pass into a new password-mode secret.
func NewPasswordString(pass string) *Secret {
	return newSecret(ModePassword, []byte(pass))
}

// NewRaw copies b into a new raw-mode secret.
func NewRaw(b []byte) *Secret {
	return newSecret(ModeRaw, b)
}

// TakeRaw moves b into a new raw-mode secret and zeroes b.
func TakeRaw(b []byte) *Secret {
	s := newSecret(ModeRaw, b)
	clear(b)
	return s
}

// NewZeroed allocates a raw secret of size bytes, all zero.
func NewZeroed(size int) *Secret {
	if size < 0 {
		panic(fmt.Sprintf("secret: negative size %d", size))
	}
	return &Secret{mode: ModeRaw, data: make([]byte, size)}
}

// NewBounded returns an empty raw secret that accepts appends up to limit bytes.
func NewBounded(limit int) *Secret {
	return &Secret{mode: ModeRaw, data: make([]byte, 0, limit), limit: limit}
}

func newSecret(mode Mode, b []byte) *Secret {
	data := make([]byte, len(b))
	copy(data, b)
	return &Secret{mode: mode, data: data}
}

// Mode reports whether the secret is a password or raw bytes.
func (s *Secret) Mode() Mode { return s.mode }

// IsPassword reports whether the secret holds a text passphrase.
func (s *Secret) IsPassword() bool { return s.mode == ModePassword }

// Len returns the number of bytes held.
func (s *Secret) Len() int { return len(s.data) }

// IsEmpty reports whether the secret holds no bytes.
func (s *Secret) IsEmpty() bool { return len(s.data) == 0 }

// Bytes returns the underlying bytes. The slice is borrowed: it must not be
// retained past the next mutation or Destroy.
func (s *Secret) Bytes() []byte {
	if s.destroyed {
		panic(ErrDestroyed)
	}
	return s.data
}

// Set replaces the contents with a copy of b. The previous contents are
// zeroed first.
func (s *Secret) Set(b []byte) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if s.limit > 0 && len(b) > s.limit {
		return fmt.Errorf("%w: %d > %d", ErrCapacityExceeded, len(b), s.limit)
	}
	if cap(s.data) >= len(b) {
		clear(s.data[:cap(s.data)])
		s.data = s.data[:len(b)]
		copy(s.data, b)
		return nil
	}
	next := make([]byte, len(b))
	copy(next, b)
	clear(s.data[:cap(s.data)])
	s.data = next
	return nil
}

// Append adds p to the end of the secret. When the backing array has to grow
// the old one is zeroed before it is dropped.
func (s *Secret) Append(p []byte) error {
	if s.destroyed {
		return ErrDestroyed
	}
	n := len(s.data) + len(p)
	if s.limit > 0 && n > s.limit {
		return fmt.Errorf("%w: %d > %d", ErrCapacityExceeded, n, s.limit)
	}
	if n <= cap(s.data) {
		s.data = append(s.data, p...)
		return nil
	}
	next := make([]byte, n, growCap(cap(s.data), n))
	copy(next, s.data)
	copy(next[len(s.data):], p)
	clear(s.data[:cap(s.data)])
	s.data = next
	return nil
}

// Truncate shortens the secret to n bytes, zeroing the discarded tail.
func (s *Secret) Truncate(n int) {
	if n < 0 || n > len(s.data) {
		panic(fmt.Sprintf("secret: truncate %d out of range [0,%d]", n, len(s.data)))
	}
	clear(s.data[n:])
	s.data = s.data[:n]
}

// Equal compares two secrets in constant time with respect to their contents.
func (s *Secret) Equal(other *Secret) bool {
	if other == nil {
		return false
	}
	return s.mode == other.mode && subtle.ConstantTimeCompare(s.data, other.data) == 1
}

// Clone returns an independent copy with the same mode.
func (s *Secret) Clone() *Secret {
	if s.destroyed {
		panic(ErrDestroyed)
	}
	c := newSecret(s.mode, s.data)
	c.limit = s.limit
	return c
}

// Destroy zeroes the secret. It is safe to call more than once.
func (s *Secret) Destroy() {
	if s == nil || s.destroyed {
		return
	}
	clear(s.data[:cap(s.data)])
	s.data = nil
	s.destroyed = true
}

// String never reveals the contents.
func (s *Secret) String() string {
	return fmt.Sprintf("Secret(%s, %d bytes)", s.mode, len(s.data))
}

func growCap(old, need int) int {
	c := old * 2
	if c < need {
		c = need
	}
	return c
}
