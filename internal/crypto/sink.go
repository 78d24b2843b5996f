package crypto

import (
	"github.com/digitalcash/cryptocore/internal/bytebuf"
	"github.com/digitalcash/cryptocore/internal/secret"
)

// Sink receives cipher output chunk by chunk. Output already appended when a
// later step fails is invalid and must be discarded by the caller.
type Sink interface {
	Append(p []byte) error
}

// SecretSink collects output into a Secret, for unwrapping keys and other
// sensitive material.
type SecretSink struct {
	Secret *secret.Secret
}

// Append implements Sink.
func (s SecretSink) Append(p []byte) error { return s.Secret.Append(p) }

// BufferSink collects output into a plain byte buffer.
type BufferSink struct {
	Buffer *bytebuf.Buffer
}

// Append implements Sink.
func (s BufferSink) Append(p []byte) error { return s.Buffer.Append(p) }
