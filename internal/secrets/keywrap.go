package secrets

import (
	"crypto/rand"
	"fmt"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
)

// EphemeralKeySize is the length in bytes of the per-session wrapping key
// that gets split into shares. 16 bytes selects AES-128 for the wrap layer.
const EphemeralKeySize = 16

// WrapBlob seals the serialized blob under a freshly generated ephemeral
// key. It returns the key and the packaged ciphertext, laid out as
// nonce followed by the sealed bytes. The caller owns wiping the key.
func WrapBlob(blob *EncryptedBlob) (key []byte, packaged []byte, err error) {
	key = make([]byte, EphemeralKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	packaged = aead.Seal(nonce, nonce, blob.Bytes(), nil)
	return key, packaged, nil
}

// UnwrapBlob opens a packaged ciphertext with the recovered ephemeral key
// and parses the plaintext back into an EncryptedBlob. Any failure to
// authenticate reports ErrAuthenticationFailed, including packaged data too
// short to carry a nonce and tag.
func UnwrapBlob(packaged, key []byte) (*EncryptedBlob, error) {
	if len(packaged) < NonceSize+TagSize {
		return nil, kerrors.ErrAuthenticationFailed
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, packaged[:NonceSize], packaged[NonceSize:], nil)
	if err != nil {
		return nil, kerrors.ErrAuthenticationFailed
	}

	return ParseBlob(plaintext)
}

// NormalizeKeyLength forces key to exactly EphemeralKeySize bytes. Shorter
// keys are padded on the left with zeros and longer keys keep only their
// trailing EphemeralKeySize bytes, so recombination output of any length
// maps to a usable wrap key. Input already at the right length is returned
// unchanged.
func NormalizeKeyLength(key []byte) []byte {
	if len(key) == EphemeralKeySize {
		return key
	}

	normalized := make([]byte, EphemeralKeySize)
	if len(key) < EphemeralKeySize {
		copy(normalized[EphemeralKeySize-len(key):], key)
	} else {
		copy(normalized, key[len(key)-EphemeralKeySize:])
	}
	return normalized
}
