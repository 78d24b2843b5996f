package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"hash"

	"github.com/digitalcash/cryptocore/internal/secret"
)

// SymmetricCipher streams data through AES-128-CBC with PKCS#7 padding and
// authenticates the result with HMAC-SHA256 (encrypt-then-MAC).
//
// Ciphertext layout: CBC blocks || tag, where tag = HMAC(macKey, iv || blocks).
// The encryption and MAC keys are derived from the raw key and IV with HKDF.
type SymmetricCipher struct {
	bufferSize int
}

// NewSymmetricCipher returns a cipher that processes input in chunks of
// bufferSize bytes. Non-positive sizes select DefaultBufferSize.
func NewSymmetricCipher(bufferSize int) *SymmetricCipher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &SymmetricCipher{bufferSize: bufferSize}
}

// BufferSize returns the configured chunk size.
func (c *SymmetricCipher) BufferSize() int { return c.bufferSize }

// CiphertextSize returns the exact ciphertext length for a plaintext of n bytes.
func CiphertextSize(n int) int {
	return (n/aes.BlockSize+1)*aes.BlockSize + MACSize
}

// Encrypt encrypts plaintext under key and iv, appending ciphertext chunks to
// out as they are produced and the tag last.
func (c *SymmetricCipher) Encrypt(key *secret.Secret, iv, plaintext []byte, out Sink) error {
	block, mac, err := c.init(key, iv)
	if err != nil {
		return err
	}

	mode := cipher.NewCBCEncrypter(block, iv)
	work := make([]byte, 0, c.bufferSize+aes.BlockSize)
	ct := make([]byte, c.bufferSize+aes.BlockSize)
	defer clear(work[:cap(work)])

	for off := 0; off < len(plaintext); off += c.bufferSize {
		end := min(off+c.bufferSize, len(plaintext))
		work = append(work, plaintext[off:end]...)

		full := len(work) - len(work)%aes.BlockSize
		if full == 0 {
			continue
		}
		mode.CryptBlocks(ct[:full], work[:full])
		mac.Write(ct[:full])
		if err := out.Append(ct[:full]); err != nil {
			return fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
		}

		rest := copy(work, work[full:])
		clear(work[rest:])
		work = work[:rest]
	}

	// final block: PKCS#7 always adds between 1 and BlockSize bytes
	pad := aes.BlockSize - len(work)
	for i := 0; i < pad; i++ {
		work = append(work, byte(pad))
	}
	mode.CryptBlocks(ct[:aes.BlockSize], work)
	mac.Write(ct[:aes.BlockSize])
	if err := out.Append(ct[:aes.BlockSize]); err != nil {
		return fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	if err := out.Append(mac.Sum(nil)); err != nil {
		return fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	return nil
}

// Decrypt authenticates ciphertext and then decrypts it into out. No
// plaintext reaches out unless the tag verifies.
func (c *SymmetricCipher) Decrypt(key *secret.Secret, iv, ciphertext []byte, out Sink) error {
	block, mac, err := c.init(key, iv)
	if err != nil {
		return err
	}

	if len(ciphertext) < aes.BlockSize+MACSize || (len(ciphertext)-MACSize)%aes.BlockSize != 0 {
		return fmt.Errorf("%w: ciphertext length %d", ErrDecryptionFailed, len(ciphertext))
	}
	body, tag := ciphertext[:len(ciphertext)-MACSize], ciphertext[len(ciphertext)-MACSize:]

	for off := 0; off < len(body); off += c.bufferSize {
		mac.Write(body[off:min(off+c.bufferSize, len(body))])
	}
	if !hmac.Equal(mac.Sum(nil), tag) {
		return ErrDecryptionFailed
	}

	step := c.blockAlignedStep()
	pt := make([]byte, step)
	defer clear(pt)

	mode := cipher.NewCBCDecrypter(block, iv)
	last := len(body) - aes.BlockSize
	for off := 0; off < last; off += step {
		end := min(off+step, last)
		mode.CryptBlocks(pt[:end-off], body[off:end])
		if err := out.Append(pt[:end-off]); err != nil {
			return fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
		}
	}

	final := pt[:aes.BlockSize]
	mode.CryptBlocks(final, body[last:])
	n, err := unpad(final)
	if err != nil {
		return err
	}
	if n > 0 {
		if err := out.Append(final[:n]); err != nil {
			return fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
		}
	}
	return nil
}

func (c *SymmetricCipher) init(key *secret.Secret, iv []byte) (cipher.Block, hash.Hash, error) {
	if key == nil || key.Len() != SymmetricKeySize {
		n := 0
		if key != nil {
			n = key.Len()
		}
		return nil, nil, fmt.Errorf("%w: %w: got %d, want %d", ErrPrecondition, ErrInvalidKeySize, n, SymmetricKeySize)
	}
	if len(iv) != SymmetricIVSize {
		return nil, nil, fmt.Errorf("%w: %w: got %d, want %d", ErrPrecondition, ErrInvalidIVSize, len(iv), SymmetricIVSize)
	}

	subkeys, err := HKDF(key.Bytes(), iv, symmetricContext, SymmetricKeySize, sha256.Size)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	encKey, macKey := subkeys[0], subkeys[1]
	defer clear(encKey)
	defer clear(macKey)

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	return block, mac, nil
}

// blockAlignedStep rounds the buffer size down to a whole number of blocks.
func (c *SymmetricCipher) blockAlignedStep() int {
	step := c.bufferSize - c.bufferSize%aes.BlockSize
	if step < aes.BlockSize {
		step = aes.BlockSize
	}
	return step
}

// unpad returns the number of data bytes in a PKCS#7 padded final block.
func unpad(block []byte) (int, error) {
	pad := int(block[len(block)-1])
	if pad == 0 || pad > len(block) {
		return 0, fmt.Errorf("%w: bad padding", ErrDecryptionFailed)
	}
	for _, b := range block[len(block)-pad:] {
		if int(b) != pad {
			return 0, fmt.Errorf("%w: bad padding", ErrDecryptionFailed)
		}
	}
	return len(block) - pad, nil
}
