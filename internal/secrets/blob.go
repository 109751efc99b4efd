package secrets

import (
	"fmt"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
)

// Sizes of the fixed sections of an encrypted blob.
const (
	SaltSize  = 16
	NonceSize = 12
	TagSize   = 16

	// MinBlobSize is the smallest byte count that can hold a salt and a
	// nonce. Anything shorter cannot be an encrypted blob.
	MinBlobSize = SaltSize + NonceSize
)

// EncryptedBlob is the output of the password cipher: the Argon2id salt,
// the AES-GCM nonce, and the ciphertext with its 16-byte tag appended.
// It is produced once per encryption and consumed exactly once, either by
// the key wrap or by the final decrypt.
type EncryptedBlob struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte // includes the trailing GCM tag
}

// Bytes serializes the blob as salt ‖ nonce ‖ ciphertext+tag. This is
// also the on-disk layout of no-sharing output files.
func (b *EncryptedBlob) Bytes() []byte {
	raw := make([]byte, 0, len(b.Salt)+len(b.Nonce)+len(b.Ciphertext))
	raw = append(raw, b.Salt...)
	raw = append(raw, b.Nonce...)
	raw = append(raw, b.Ciphertext...)
	return raw
}

// ParseBlob splits raw bytes back into an encrypted blob.
// Returns ErrBlobMalformed if raw is too short to contain the salt and
// nonce sections.
func ParseBlob(raw []byte) (*EncryptedBlob, error) {
	if len(raw) < MinBlobSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", kerrors.ErrBlobMalformed, len(raw), MinBlobSize)
	}

	return &EncryptedBlob{
		Salt:       raw[:SaltSize],
		Nonce:      raw[SaltSize:MinBlobSize],
		Ciphertext: raw[MinBlobSize:],
	}, nil
}
