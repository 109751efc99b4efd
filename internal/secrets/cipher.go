package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
)

// Argon2id parameters for master key derivation. The blob format does not
// record them, so changing any value breaks decryption of existing blobs.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	argonKeyLen  = 32
)

// EncryptPassword seals password under a key derived from the master
// password, producing a fresh encrypted blob.
func EncryptPassword(password, master []byte) (*EncryptedBlob, error) {
	if len(password) == 0 || len(master) == 0 {
		return nil, kerrors.ErrPasswordEmpty
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := deriveMasterKey(master, salt)
	defer Wipe(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, password, nil)

	return &EncryptedBlob{Salt: salt, Nonce: nonce, Ciphertext: ciphertext}, nil
}

// DecryptPassword opens an encrypted blob with the master password.
// Returns ErrAuthenticationFailed when the tag does not verify, which
// covers both a wrong master password and tampered ciphertext.
func DecryptPassword(blob *EncryptedBlob, master []byte) ([]byte, error) {
	key := deriveMasterKey(master, blob.Salt)
	defer Wipe(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	password, err := aead.Open(nil, blob.Nonce, blob.Ciphertext, nil)
	if err != nil {
		return nil, kerrors.ErrAuthenticationFailed
	}

	return password, nil
}

// deriveMasterKey stretches the master password into an AES-256 key.
func deriveMasterKey(master, salt []byte) []byte {
	return argon2.IDKey(master, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// newGCM builds an AES-GCM AEAD over the given key.
func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return aead, nil
}
