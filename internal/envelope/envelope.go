package envelope

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/digitalcash/cryptocore/internal/bytebuf"
	"github.com/digitalcash/cryptocore/internal/crypto"
	"github.com/digitalcash/cryptocore/internal/logger"
	"github.com/digitalcash/cryptocore/internal/secret"
)

// Envelope seals payloads for several recipients and opens them again.
// It holds no per-call state and is safe for concurrent use when its random
// source is.
type Envelope struct {
	cipher *crypto.SymmetricCipher
	rand   io.Reader
	logger *slog.Logger
	strict bool
}

// Option configures an Envelope.
type Option func(*Envelope)

// WithCipher sets the payload cipher.
func WithCipher(c *crypto.SymmetricCipher) Option {
	return func(e *Envelope) {
		if c != nil {
			e.cipher = c
		}
	}
}

// WithRandReader sets the source for session keys, IVs and wrap randomness.
func WithRandReader(r io.Reader) Option {
	return func(e *Envelope) {
		e.rand = r
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Envelope) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStrictMatch disables the last-entry fallback in Open: only an entry
// whose identifier equals the caller's is ever used.
func WithStrictMatch(strict bool) Option {
	return func(e *Envelope) {
		e.strict = strict
	}
}

// New returns an Envelope with the default cipher and a discarding logger.
func New(opts ...Option) *Envelope {
	e := &Envelope{
		cipher: crypto.NewSymmetricCipher(crypto.DefaultBufferSize),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logger.Component("envelope"))
	return e
}

// sealed is one recipient entry for the duration of a Seal call.
type sealed struct {
	Recipient
	wrapped []byte
}

// Seal encrypts plaintext once under a fresh session key and wraps that key
// for every recipient. Entries are written in insertion order.
func (e *Envelope) Seal(recipients *RecipientList, plaintext []byte) (*bytebuf.Buffer, error) {
	if recipients.Len() == 0 {
		return nil, fmt.Errorf("%w: %w", crypto.ErrPrecondition, ErrNoRecipients)
	}

	sessionKey := secret.NewZeroed(crypto.SymmetricKeySize)
	defer sessionKey.Destroy()
	if err := crypto.RandomizeMemory(e.rand, sessionKey.Bytes()); err != nil {
		e.logger.Error("session key generation failed", logger.Operation("seal"), logger.Error(err))
		return nil, err
	}
	iv, err := crypto.RandomBytes(e.rand, crypto.SymmetricIVSize)
	if err != nil {
		e.logger.Error("iv generation failed", logger.Operation("seal"), logger.Error(err))
		return nil, err
	}

	entries := make([]sealed, 0, recipients.Len())
	size := 2 + 4
	for _, r := range recipients.entries {
		wrapped, err := crypto.WrapKey(e.rand, r.Key, sessionKey)
		if err != nil {
			e.logger.Warn("key wrap failed",
				logger.Operation("seal"),
				logger.KeyID(r.ID),
				logger.Algorithm(r.Key.Algorithm()),
				logger.Error(err))
			return nil, fmt.Errorf("recipient %q: %w", r.ID, err)
		}
		entries = append(entries, sealed{Recipient: r, wrapped: wrapped})
		size += 4 + len(r.ID) + 1 + 4 + len(wrapped)
	}
	size += 4 + len(iv) + crypto.CiphertextSize(len(plaintext)+1)

	buf := bytebuf.New(size)
	buf.AppendUint16(TypeAsymmetric)
	buf.AppendUint32(uint32(len(entries)))
	for _, s := range entries {
		buf.AppendUint32(uint32(len(s.ID) + 1))
		_ = buf.Append([]byte(s.ID))
		_ = buf.Append([]byte{terminator})
		buf.AppendUint32(uint32(len(s.wrapped)))
		_ = buf.Append(s.wrapped)
	}
	buf.AppendUint32(uint32(len(iv)))
	_ = buf.Append(iv)

	terminated := make([]byte, len(plaintext)+1)
	copy(terminated, plaintext)
	defer clear(terminated)

	if err := e.cipher.Encrypt(sessionKey, iv, terminated, crypto.BufferSink{Buffer: buf}); err != nil {
		buf.Reset()
		e.logger.Error("payload encryption failed", logger.Operation("seal"), logger.Error(err))
		return nil, err
	}

	e.logger.Debug("envelope sealed",
		logger.Operation("seal"),
		logger.Recipients(len(entries)),
		logger.Size(buf.Len()))
	return buf, nil
}

// Open parses an envelope, unwraps the session key addressed to
// recipientID with priv and returns the plaintext without its terminator.
//
// The first entry whose identifier equals recipientID is used. Without an
// exact match the last entry is used when its identifier is empty, unless
// strict matching is enabled. Every entry is consumed either way.
func (e *Envelope) Open(buf *bytebuf.Buffer, priv *crypto.PrivateKey, recipientID string) ([]byte, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil envelope", crypto.ErrPrecondition)
	}
	if priv == nil {
		return nil, fmt.Errorf("%w: nil private key", crypto.ErrPrecondition)
	}

	buf.Rewind()
	wrapped, iv, ciphertext, err := e.parse(reader{buf: buf}, recipientID)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			e.logger.Debug("envelope rejected",
				logger.Operation("open"),
				logger.Field(pe.Field),
				logger.Offset(pe.Offset),
				logger.Error(pe.Err))
		} else {
			e.logger.Debug("envelope not addressed to caller", logger.Operation("open"), logger.KeyID(recipientID))
		}
		return nil, err
	}

	sessionKey, err := crypto.UnwrapKey(priv, wrapped)
	if err != nil {
		e.logger.Warn("key unwrap failed",
			logger.Operation("open"),
			logger.KeyID(recipientID),
			logger.Algorithm(priv.Algorithm()),
			logger.Error(err))
		return nil, &OpenError{Stage: "unwrap", Err: err}
	}
	defer sessionKey.Destroy()

	out := bytebuf.New(len(ciphertext))
	if err := e.cipher.Decrypt(sessionKey, iv, ciphertext, crypto.BufferSink{Buffer: out}); err != nil {
		out.Reset()
		e.logger.Warn("payload decryption failed", logger.Operation("open"), logger.Error(err))
		return nil, &OpenError{Stage: "decrypt", Err: err}
	}

	plain := out.Bytes()
	if len(plain) == 0 || plain[len(plain)-1] != terminator {
		out.Reset()
		return nil, &OpenError{Stage: "terminator", Err: ErrMissingTerminator}
	}
	return plain[:len(plain)-1], nil
}

// parse walks the wire record and returns the selected wrapped key, the IV
// and the ciphertext. The returned slices alias the buffer.
func (e *Envelope) parse(r reader, recipientID string) (wrapped, iv, ciphertext []byte, err error) {
	typ, err := r.uint16(fieldType)
	if err != nil {
		return nil, nil, nil, err
	}
	if typ != TypeAsymmetric {
		return nil, nil, nil, r.fail(fieldType, 0, fmt.Errorf("%w: %d", ErrInvalidEnvelopeType, typ))
	}

	countOff := r.buf.Offset()
	count, err := r.uint32(fieldCount)
	if err != nil {
		return nil, nil, nil, err
	}
	if count == 0 {
		return nil, nil, nil, r.fail(fieldCount, countOff, fmt.Errorf("%w: zero recipients", ErrMalformed))
	}
	if uint64(count)*minEntrySize > uint64(r.buf.Remaining()) {
		return nil, nil, nil, r.fail(fieldCount, countOff, fmt.Errorf("%w: %d entries cannot fit in %d bytes", ErrTruncated, count, r.buf.Remaining()))
	}

	matched, found := false, false
	for i := uint32(0); i < count; i++ {
		idOff := r.buf.Offset()
		rawID, err := r.bytes(fieldIDLen, fieldID)
		if err != nil {
			return nil, nil, nil, err
		}
		if len(rawID) == 0 {
			return nil, nil, nil, r.fail(fieldIDLen, idOff, fmt.Errorf("%w: identifier length excludes terminator", ErrMalformed))
		}
		key, err := r.bytes(fieldKeyLen, fieldKey)
		if err != nil {
			return nil, nil, nil, err
		}

		if matched {
			continue
		}
		id := cString(rawID)
		switch {
		case id == recipientID:
			wrapped, matched, found = key, true, true
		case i == count-1 && id == "" && !e.strict:
			wrapped, found = key, true
		}
	}
	if !found {
		return nil, nil, nil, ErrNoMatchingRecipient
	}

	ivOff := r.buf.Offset()
	ivLen, err := r.uint32(fieldIVLen)
	if err != nil {
		return nil, nil, nil, err
	}
	if ivLen > crypto.MaxIVSize {
		return nil, nil, nil, r.fail(fieldIVLen, ivOff, fmt.Errorf("%w: %w: %d exceeds %d", ErrMalformed, crypto.ErrInvalidIVSize, ivLen, crypto.MaxIVSize))
	}
	if ivLen != crypto.SymmetricIVSize {
		return nil, nil, nil, r.fail(fieldIVLen, ivOff, fmt.Errorf("%w: %w: got %d, want %d", ErrMalformed, crypto.ErrInvalidIVSize, ivLen, crypto.SymmetricIVSize))
	}
	ivStart := r.buf.Offset()
	iv, err = r.buf.Next(int(ivLen))
	if err != nil {
		return nil, nil, nil, r.fail(fieldIV, ivStart, err)
	}

	ctOff := r.buf.Offset()
	ciphertext = r.buf.ReadRemaining()
	if len(ciphertext) == 0 {
		return nil, nil, nil, r.fail(fieldCiphertext, ctOff, bytebuf.ErrShortBuffer)
	}
	return wrapped, iv, ciphertext, nil
}
