package cryptocore

import (
	"github.com/digitalcash/cryptocore/internal/logger"
)

// Seal encrypts plaintext for every recipient in the list. The result can be
// opened by any one of their private keys.
func (p *Provider) Seal(recipients *RecipientList, plaintext []byte) (*Buffer, error) {
	if err := p.check("seal"); err != nil {
		return nil, err
	}
	buf, err := p.envelope.Seal(recipients, plaintext)
	if err != nil {
		return nil, wrapError("seal", err)
	}
	return buf, nil
}

// SealString is Seal for text payloads.
func (p *Provider) SealString(recipients *RecipientList, plaintext string) (*Buffer, error) {
	return p.Seal(recipients, []byte(plaintext))
}

// Open recovers the plaintext of an envelope with the private key of the
// recipient registered under recipientID.
func (p *Provider) Open(envelope *Buffer, priv *PrivateKey, recipientID string) ([]byte, error) {
	if err := p.check("open"); err != nil {
		return nil, err
	}
	plain, err := p.envelope.Open(envelope, priv, recipientID)
	if err != nil {
		return nil, wrapError("open", err)
	}
	return plain, nil
}

// OpenString is Open for text payloads.
func (p *Provider) OpenString(envelope *Buffer, priv *PrivateKey, recipientID string) (string, error) {
	plain, err := p.Open(envelope, priv, recipientID)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// SealTo seals plaintext for the given public keys, addressing each by its
// encoded identifier.
func (p *Provider) SealTo(plaintext []byte, keys ...*PublicKey) (*Buffer, error) {
	list := NewRecipientList()
	for _, k := range keys {
		if err := list.AddKey(k); err != nil {
			p.logger.Debug("recipient rejected", logger.Operation("seal"), logger.Error(err))
			return nil, wrapError("seal", err)
		}
	}
	return p.Seal(list, plaintext)
}

// OpenWith opens an envelope addressed to priv's encoded identifier.
func (p *Provider) OpenWith(envelope *Buffer, priv *PrivateKey) ([]byte, error) {
	if priv == nil {
		return p.Open(envelope, nil, "")
	}
	return p.Open(envelope, priv, priv.ID().String())
}
