package secrets

import (
	"bytes"
	"errors"
	"testing"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
)

func TestBlobBytesParse_RoundTrip(t *testing.T) {
	blob := &EncryptedBlob{
		Salt:       bytes.Repeat([]byte{0x0A}, SaltSize),
		Nonce:      bytes.Repeat([]byte{0x0B}, NonceSize),
		Ciphertext: []byte("sealed-password-and-tag"),
	}

	parsed, err := ParseBlob(blob.Bytes())
	if err != nil {
		t.Fatalf("ParseBlob failed: %v", err)
	}

	if !bytes.Equal(parsed.Salt, blob.Salt) {
		t.Errorf("Salt changed in round trip")
	}
	if !bytes.Equal(parsed.Nonce, blob.Nonce) {
		t.Errorf("Nonce changed in round trip")
	}
	if !bytes.Equal(parsed.Ciphertext, blob.Ciphertext) {
		t.Errorf("Ciphertext changed in round trip")
	}
}

func TestParseBlob_TooShort(t *testing.T) {
	for _, size := range []int{0, 1, SaltSize, MinBlobSize - 1} {
		if _, err := ParseBlob(make([]byte, size)); !errors.Is(err, kerrors.ErrBlobMalformed) {
			t.Errorf("Expected ErrBlobMalformed for %d bytes, got %v", size, err)
		}
	}
}

func TestParseBlob_EmptyCiphertextAllowed(t *testing.T) {
	parsed, err := ParseBlob(make([]byte, MinBlobSize))
	if err != nil {
		t.Fatalf("ParseBlob failed at the minimum size: %v", err)
	}
	if len(parsed.Ciphertext) != 0 {
		t.Errorf("Expected empty ciphertext, got %d bytes", len(parsed.Ciphertext))
	}
}

func TestWipe(t *testing.T) {
	buf := []byte("sensitive-bytes")
	Wipe(buf)

	for i, b := range buf {
		if b != 0 {
			t.Fatalf("Byte %d not zeroed: %#x", i, b)
		}
	}
}
