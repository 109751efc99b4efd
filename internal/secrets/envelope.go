package secrets

import (
	"bytes"
	"encoding/binary"
	"fmt"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
)

// ShareMagic opens every share envelope on the wire.
const ShareMagic = "FKSS01"

// EnvelopeVersion is the only format revision this build reads and writes.
const EnvelopeVersion = 1

// envelopeHeaderSize is the fixed prefix before the two variable fields:
// magic(6) + version(1) + index(1) + total(1) + threshold(1) +
// share_len(4) + packaged_len(4).
const envelopeHeaderSize = 18

// ShareEnvelope is the self-describing unit embedded into one carrier
// image. Share holds this carrier's key fragment; Packaged holds the
// wrapped password blob, identical across every envelope of a session.
type ShareEnvelope struct {
	Version   byte
	Index     byte
	Total     byte
	Threshold byte
	Share     []byte
	Packaged  []byte
}

// Marshal serializes the envelope into its wire layout. Length fields are
// big-endian uint32.
func (e *ShareEnvelope) Marshal() []byte {
	buf := make([]byte, envelopeHeaderSize+len(e.Share)+len(e.Packaged))
	copy(buf[0:6], ShareMagic)
	buf[6] = e.Version
	buf[7] = e.Index
	buf[8] = e.Total
	buf[9] = e.Threshold
	binary.BigEndian.PutUint32(buf[10:14], uint32(len(e.Share)))
	binary.BigEndian.PutUint32(buf[14:18], uint32(len(e.Packaged)))
	copy(buf[envelopeHeaderSize:], e.Share)
	copy(buf[envelopeHeaderSize+len(e.Share):], e.Packaged)
	return buf
}

// UnmarshalEnvelope parses raw into a ShareEnvelope, failing closed on any
// structural problem. The returned envelope does not alias raw.
func UnmarshalEnvelope(raw []byte) (*ShareEnvelope, error) {
	if len(raw) < envelopeHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", kerrors.ErrEnvelopeTooShort, len(raw), envelopeHeaderSize)
	}
	if string(raw[0:6]) != ShareMagic {
		return nil, kerrors.ErrEnvelopeBadMagic
	}
	if raw[6] != EnvelopeVersion {
		return nil, fmt.Errorf("%w: version %d", kerrors.ErrEnvelopeVersion, raw[6])
	}

	shareLen := binary.BigEndian.Uint32(raw[10:14])
	packagedLen := binary.BigEndian.Uint32(raw[14:18])
	declared := uint64(envelopeHeaderSize) + uint64(shareLen) + uint64(packagedLen)
	if declared > uint64(len(raw)) {
		return nil, fmt.Errorf("%w: header declares %d bytes, payload has %d", kerrors.ErrEnvelopeOverflow, declared, len(raw))
	}

	shareEnd := envelopeHeaderSize + int(shareLen)
	return &ShareEnvelope{
		Version:   raw[6],
		Index:     raw[7],
		Total:     raw[8],
		Threshold: raw[9],
		Share:     bytes.Clone(raw[envelopeHeaderSize:shareEnd]),
		Packaged:  bytes.Clone(raw[shareEnd : shareEnd+int(packagedLen)]),
	}, nil
}
