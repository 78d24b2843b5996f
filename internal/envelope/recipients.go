package envelope

import (
	"fmt"
	"strings"

	"github.com/digitalcash/cryptocore/internal/crypto"
)

// Recipient is one addressee of an envelope.
type Recipient struct {
	ID  string
	Key *crypto.PublicKey
}

// RecipientList is an insertion-ordered set of recipients, unique by ID.
// The order is the order of entries on the wire.
type RecipientList struct {
	entries []Recipient
	index   map[string]int
}

// NewRecipientList returns an empty list.
func NewRecipientList() *RecipientList {
	return &RecipientList{index: make(map[string]int)}
}

// Add appends a recipient. The key must be able to wrap session keys.
func (l *RecipientList) Add(id string, key *crypto.PublicKey) error {
	if key == nil {
		return fmt.Errorf("%w: %q has no key", ErrInvalidRecipientID, id)
	}
	if strings.IndexByte(id, terminator) >= 0 {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidRecipientID, id)
	}
	if !key.Algorithm().CanWrap() {
		return fmt.Errorf("%w: %v keys cannot receive envelopes", crypto.ErrUnsupportedAlgorithm, key.Algorithm())
	}
	if _, ok := l.index[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateRecipient, id)
	}
	l.index[id] = len(l.entries)
	l.entries = append(l.entries, Recipient{ID: id, Key: key})
	return nil
}

// AddKey appends a recipient addressed by the encoded identifier of key.
func (l *RecipientList) AddKey(key *crypto.PublicKey) error {
	if key == nil {
		return fmt.Errorf("%w: nil key", ErrInvalidRecipientID)
	}
	return l.Add(key.ID().String(), key)
}

// Len returns the number of recipients.
func (l *RecipientList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Get returns the key registered under id.
func (l *RecipientList) Get(id string) (*crypto.PublicKey, bool) {
	i, ok := l.index[id]
	if !ok {
		return nil, false
	}
	return l.entries[i].Key, true
}

// Recipients returns a copy of the entries in insertion order.
func (l *RecipientList) Recipients() []Recipient {
	return append([]Recipient(nil), l.entries...)
}

// IDs returns the recipient identifiers in insertion order.
func (l *RecipientList) IDs() []string {
	ids := make([]string, len(l.entries))
	for i, r := range l.entries {
		ids[i] = r.ID
	}
	return ids
}
