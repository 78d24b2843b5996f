package cryptocore

import (
	"io"
	"sync"
)

// resource names one piece of provider state shared between goroutines.
type resource int

const (
	resourceRandom resource = iota
	resourceKeyCache

	numResources
)

func (r resource) String() string {
	switch r {
	case resourceRandom:
		return "random"
	case resourceKeyCache:
		return "key-cache"
	default:
		return "unknown"
	}
}

// lockTable holds one mutex per shared resource so that, for example, a
// slow key-cache sweep never blocks random generation.
type lockTable struct {
	mu [numResources]sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{}
}

func (t *lockTable) lock(r resource) func() {
	t.mu[r].Lock()
	return t.mu[r].Unlock
}

// lockedReader serializes reads from a source that may not be safe for
// concurrent use.
type lockedReader struct {
	locks *lockTable
	r     io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	unlock := l.locks.lock(resourceRandom)
	defer unlock()
	return l.r.Read(p)
}
