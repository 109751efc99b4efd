package secrets

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
)

func sampleEnvelope() *ShareEnvelope {
	return &ShareEnvelope{
		Version:   EnvelopeVersion,
		Index:     2,
		Total:     3,
		Threshold: 2,
		Share:     []byte{0xAA, 0xBB, 0xCC, 0xDD},
		Packaged:  []byte("packaged-cipher-bytes"),
	}
}

func TestEnvelopeMarshal_Layout(t *testing.T) {
	env := &ShareEnvelope{
		Version:   1,
		Index:     7,
		Total:     9,
		Threshold: 4,
		Share:     []byte{0x01, 0x02},
		Packaged:  []byte{0x03, 0x04, 0x05},
	}

	raw := env.Marshal()

	if len(raw) != envelopeHeaderSize+2+3 {
		t.Fatalf("Expected %d bytes, got %d", envelopeHeaderSize+2+3, len(raw))
	}
	if string(raw[0:6]) != ShareMagic {
		t.Errorf("Expected magic %q, got %q", ShareMagic, raw[0:6])
	}
	if raw[6] != 1 || raw[7] != 7 || raw[8] != 9 || raw[9] != 4 {
		t.Errorf("Header bytes wrong: version=%d index=%d total=%d threshold=%d", raw[6], raw[7], raw[8], raw[9])
	}
	if got := binary.BigEndian.Uint32(raw[10:14]); got != 2 {
		t.Errorf("Expected share length 2, got %d", got)
	}
	if got := binary.BigEndian.Uint32(raw[14:18]); got != 3 {
		t.Errorf("Expected packaged length 3, got %d", got)
	}
	if !bytes.Equal(raw[18:20], env.Share) {
		t.Errorf("Share bytes not at expected offset: %v", raw[18:20])
	}
	if !bytes.Equal(raw[20:23], env.Packaged) {
		t.Errorf("Packaged bytes not at expected offset: %v", raw[20:23])
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		env  *ShareEnvelope
	}{
		{"typical share", sampleEnvelope()},
		{"empty packaged", &ShareEnvelope{Version: 1, Index: 1, Total: 1, Threshold: 1, Share: []byte{0xFF}}},
		{"empty share", &ShareEnvelope{Version: 1, Index: 200, Total: 255, Threshold: 128, Packaged: []byte{0x00}}},
		{"large fields", &ShareEnvelope{Version: 1, Index: 5, Total: 5, Threshold: 3, Share: bytes.Repeat([]byte{0xAB}, 300), Packaged: bytes.Repeat([]byte{0xCD}, 5000)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalEnvelope(tt.env.Marshal())
			if err != nil {
				t.Fatalf("UnmarshalEnvelope failed: %v", err)
			}
			if decoded.Version != tt.env.Version || decoded.Index != tt.env.Index ||
				decoded.Total != tt.env.Total || decoded.Threshold != tt.env.Threshold {
				t.Errorf("Header fields changed: got %+v, want %+v", decoded, tt.env)
			}
			if !bytes.Equal(decoded.Share, tt.env.Share) {
				t.Errorf("Share changed in round trip")
			}
			if !bytes.Equal(decoded.Packaged, tt.env.Packaged) {
				t.Errorf("Packaged changed in round trip")
			}
		})
	}
}

func TestUnmarshalEnvelope_TooShort(t *testing.T) {
	raw := sampleEnvelope().Marshal()

	for _, size := range []int{0, 1, 5, 6, 17, envelopeHeaderSize - 1} {
		if _, err := UnmarshalEnvelope(raw[:size]); !errors.Is(err, kerrors.ErrEnvelopeTooShort) {
			t.Errorf("Expected ErrEnvelopeTooShort for %d bytes, got %v", size, err)
		}
	}
}

func TestUnmarshalEnvelope_BadMagic(t *testing.T) {
	for i := 0; i < 6; i++ {
		raw := sampleEnvelope().Marshal()
		raw[i] ^= 0xFF

		if _, err := UnmarshalEnvelope(raw); !errors.Is(err, kerrors.ErrEnvelopeBadMagic) {
			t.Errorf("Expected ErrEnvelopeBadMagic with magic byte %d altered, got %v", i, err)
		}
	}
}

func TestUnmarshalEnvelope_UnknownVersion(t *testing.T) {
	raw := sampleEnvelope().Marshal()
	raw[6] = 2

	if _, err := UnmarshalEnvelope(raw); !errors.Is(err, kerrors.ErrEnvelopeVersion) {
		t.Errorf("Expected ErrEnvelopeVersion for version 2, got %v", err)
	}
}

func TestUnmarshalEnvelope_SizeOverflow(t *testing.T) {
	t.Run("truncated payload", func(t *testing.T) {
		raw := sampleEnvelope().Marshal()
		if _, err := UnmarshalEnvelope(raw[:len(raw)-1]); !errors.Is(err, kerrors.ErrEnvelopeOverflow) {
			t.Errorf("Expected ErrEnvelopeOverflow for truncated payload, got %v", err)
		}
	})

	t.Run("inflated share length", func(t *testing.T) {
		raw := sampleEnvelope().Marshal()
		binary.BigEndian.PutUint32(raw[10:14], 1<<30)
		if _, err := UnmarshalEnvelope(raw); !errors.Is(err, kerrors.ErrEnvelopeOverflow) {
			t.Errorf("Expected ErrEnvelopeOverflow for inflated share length, got %v", err)
		}
	})

	t.Run("lengths overflow uint32 sum", func(t *testing.T) {
		raw := sampleEnvelope().Marshal()
		binary.BigEndian.PutUint32(raw[10:14], 0xFFFFFFFF)
		binary.BigEndian.PutUint32(raw[14:18], 0xFFFFFFFF)
		if _, err := UnmarshalEnvelope(raw); !errors.Is(err, kerrors.ErrEnvelopeOverflow) {
			t.Errorf("Expected ErrEnvelopeOverflow for huge declared lengths, got %v", err)
		}
	})
}

func TestUnmarshalEnvelope_TrailingBytesIgnored(t *testing.T) {
	env := sampleEnvelope()
	raw := append(env.Marshal(), 0xDE, 0xAD)

	decoded, err := UnmarshalEnvelope(raw)
	if err != nil {
		t.Fatalf("UnmarshalEnvelope failed on trailing bytes: %v", err)
	}
	if !bytes.Equal(decoded.Packaged, env.Packaged) {
		t.Errorf("Trailing bytes leaked into packaged field")
	}
}

func TestUnmarshalEnvelope_DoesNotAliasInput(t *testing.T) {
	env := sampleEnvelope()
	raw := env.Marshal()

	decoded, err := UnmarshalEnvelope(raw)
	if err != nil {
		t.Fatalf("UnmarshalEnvelope failed: %v", err)
	}

	for i := range raw {
		raw[i] = 0
	}

	if !bytes.Equal(decoded.Share, env.Share) {
		t.Errorf("Decoded share aliases the input buffer")
	}
	if !bytes.Equal(decoded.Packaged, env.Packaged) {
		t.Errorf("Decoded packaged aliases the input buffer")
	}
}
