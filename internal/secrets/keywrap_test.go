package secrets

import (
	"bytes"
	"errors"
	"testing"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
)

func testBlob() *EncryptedBlob {
	return &EncryptedBlob{
		Salt:       bytes.Repeat([]byte{0x11}, SaltSize),
		Nonce:      bytes.Repeat([]byte{0x22}, NonceSize),
		Ciphertext: []byte("ciphertext-with-tag-appended-here"),
	}
}

func TestWrapUnwrapBlob_RoundTrip(t *testing.T) {
	blob := testBlob()

	key, packaged, err := WrapBlob(blob)
	if err != nil {
		t.Fatalf("WrapBlob failed: %v", err)
	}
	if len(key) != EphemeralKeySize {
		t.Errorf("Expected %d-byte ephemeral key, got %d", EphemeralKeySize, len(key))
	}
	if len(packaged) != NonceSize+len(blob.Bytes())+TagSize {
		t.Errorf("Expected packaged length %d, got %d", NonceSize+len(blob.Bytes())+TagSize, len(packaged))
	}

	unwrapped, err := UnwrapBlob(packaged, key)
	if err != nil {
		t.Fatalf("UnwrapBlob failed: %v", err)
	}
	if !bytes.Equal(unwrapped.Bytes(), blob.Bytes()) {
		t.Errorf("Blob changed through wrap and unwrap")
	}
}

func TestWrapBlob_FreshKeyPerCall(t *testing.T) {
	blob := testBlob()

	firstKey, firstPackaged, err := WrapBlob(blob)
	if err != nil {
		t.Fatalf("First WrapBlob failed: %v", err)
	}
	secondKey, secondPackaged, err := WrapBlob(blob)
	if err != nil {
		t.Fatalf("Second WrapBlob failed: %v", err)
	}

	if bytes.Equal(firstKey, secondKey) {
		t.Errorf("Two wraps reused the same ephemeral key")
	}
	if bytes.Equal(firstPackaged, secondPackaged) {
		t.Errorf("Two wraps produced identical packaged ciphertext")
	}
}

func TestUnwrapBlob_WrongKey(t *testing.T) {
	_, packaged, err := WrapBlob(testBlob())
	if err != nil {
		t.Fatalf("WrapBlob failed: %v", err)
	}

	wrongKey := bytes.Repeat([]byte{0x99}, EphemeralKeySize)
	if _, err := UnwrapBlob(packaged, wrongKey); !errors.Is(err, kerrors.ErrAuthenticationFailed) {
		t.Errorf("Expected ErrAuthenticationFailed with wrong key, got %v", err)
	}
}

func TestUnwrapBlob_Tampered(t *testing.T) {
	key, packaged, err := WrapBlob(testBlob())
	if err != nil {
		t.Fatalf("WrapBlob failed: %v", err)
	}

	packaged[len(packaged)-1] ^= 0x01

	if _, err := UnwrapBlob(packaged, key); !errors.Is(err, kerrors.ErrAuthenticationFailed) {
		t.Errorf("Expected ErrAuthenticationFailed on tampered packaged data, got %v", err)
	}
}

func TestUnwrapBlob_TooShort(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, EphemeralKeySize)

	for _, size := range []int{0, 1, NonceSize, NonceSize + TagSize - 1} {
		packaged := make([]byte, size)
		if _, err := UnwrapBlob(packaged, key); !errors.Is(err, kerrors.ErrAuthenticationFailed) {
			t.Errorf("Expected ErrAuthenticationFailed for %d-byte packaged data, got %v", size, err)
		}
	}
}

func TestNormalizeKeyLength(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
		want []byte
	}{
		{
			"exact length unchanged",
			bytes.Repeat([]byte{0xAB}, EphemeralKeySize),
			bytes.Repeat([]byte{0xAB}, EphemeralKeySize),
		},
		{
			"short key padded on the left",
			[]byte{0x01, 0x02, 0x03},
			append(make([]byte, EphemeralKeySize-3), 0x01, 0x02, 0x03),
		},
		{
			"long key keeps trailing bytes",
			append(bytes.Repeat([]byte{0xFF}, 4), bytes.Repeat([]byte{0x77}, EphemeralKeySize)...),
			bytes.Repeat([]byte{0x77}, EphemeralKeySize),
		},
		{
			"empty key becomes all zeros",
			nil,
			make([]byte, EphemeralKeySize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeKeyLength(tt.key)
			if len(got) != EphemeralKeySize {
				t.Fatalf("Expected %d bytes, got %d", EphemeralKeySize, len(got))
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Expected %x, got %x", tt.want, got)
			}
		})
	}
}

func TestFullLayering_EncryptWrapUnwrapDecrypt(t *testing.T) {
	password := []byte("hunter2")
	master := []byte("correct-horse-battery-staple")

	blob, err := EncryptPassword(password, master)
	if err != nil {
		t.Fatalf("EncryptPassword failed: %v", err)
	}

	key, packaged, err := WrapBlob(blob)
	if err != nil {
		t.Fatalf("WrapBlob failed: %v", err)
	}

	unwrapped, err := UnwrapBlob(packaged, NormalizeKeyLength(key))
	if err != nil {
		t.Fatalf("UnwrapBlob failed: %v", err)
	}

	recovered, err := DecryptPassword(unwrapped, master)
	if err != nil {
		t.Fatalf("DecryptPassword failed: %v", err)
	}
	if !bytes.Equal(recovered, password) {
		t.Errorf("Expected password %q, got %q", password, recovered)
	}
}
