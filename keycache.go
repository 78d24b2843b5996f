package cryptocore

import (
	"crypto/sha256"
	"time"
)

type cacheEntry struct {
	key     *PrivateKey
	expires time.Time
}

// keyCache keeps unlocked private keys for a bounded time so a passphrase is
// not requested on every signature. Entries are keyed by the SHA-256 of the
// encrypted blob they were loaded from. The cache owns its keys: callers only
// ever receive clones, and a key leaving the cache is destroyed.
type keyCache struct {
	locks   *lockTable
	ttl     time.Duration
	now     func() time.Time
	entries map[[sha256.Size]byte]cacheEntry
}

func newKeyCache(locks *lockTable, ttl time.Duration, now func() time.Time) *keyCache {
	if now == nil {
		now = time.Now
	}
	return &keyCache{
		locks:   locks,
		ttl:     ttl,
		now:     now,
		entries: make(map[[sha256.Size]byte]cacheEntry),
	}
}

func (c *keyCache) enabled() bool { return c.ttl > 0 }

func (c *keyCache) get(blob []byte) (*PrivateKey, bool) {
	if !c.enabled() {
		return nil, false
	}
	unlock := c.locks.lock(resourceKeyCache)
	defer unlock()

	sum := sha256.Sum256(blob)
	e, ok := c.entries[sum]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		c.evictLocked(sum)
		return nil, false
	}
	k, err := e.key.Clone()
	if err != nil {
		c.evictLocked(sum)
		return nil, false
	}
	return k, true
}

func (c *keyCache) put(blob []byte, key *PrivateKey) {
	if !c.enabled() {
		return
	}
	unlock := c.locks.lock(resourceKeyCache)
	defer unlock()

	c.sweepLocked()
	sum := sha256.Sum256(blob)
	c.evictLocked(sum)
	c.entries[sum] = cacheEntry{key: key, expires: c.now().Add(c.ttl)}
}

// sweepLocked evicts expired entries. Callers hold the key-cache lock.
func (c *keyCache) sweepLocked() {
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			c.evictLocked(k)
		}
	}
}

func (c *keyCache) evictLocked(sum [sha256.Size]byte) {
	if e, ok := c.entries[sum]; ok {
		e.key.Destroy()
		delete(c.entries, sum)
	}
}

func (c *keyCache) len() int {
	unlock := c.locks.lock(resourceKeyCache)
	defer unlock()
	return len(c.entries)
}

// purge destroys every cached key.
func (c *keyCache) purge() {
	unlock := c.locks.lock(resourceKeyCache)
	defer unlock()
	for k := range c.entries {
		c.evictLocked(k)
	}
}
