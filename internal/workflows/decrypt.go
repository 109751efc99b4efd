package workflows

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fracturedkey/fractured/internal/audit"
	kerrors "github.com/fracturedkey/fractured/internal/errors"
	logger "github.com/fracturedkey/fractured/internal/logging"
	"github.com/fracturedkey/fractured/internal/secrets"
	"github.com/fracturedkey/fractured/internal/stego"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// MasterPassword opens the inner encryption layer.
	MasterPassword []byte

	// ImagePaths are the share images, in the order the user selected
	// them. Order matters: when more images than the threshold are
	// given, the first threshold images are the ones used.
	ImagePaths []string

	// Carrier extracts share payloads. Nil selects the default PNG
	// carrier.
	Carrier stego.Carrier

	// Logger receives progress events. The zero value is mostly silent.
	Logger logger.Logger
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	// Password is the recovered secret. The caller owns wiping it once
	// displayed.
	Password []byte

	// SharesTotal and SharesThreshold are the policy recorded in the
	// share envelopes.
	SharesTotal     int
	SharesThreshold int

	// SharesUsed is how many shares went into recombination.
	SharesUsed int
}

// Decrypt recovers a password from share images and the master password.
//
// Every selected image must yield a valid share envelope; a single
// unreadable or malformed image aborts the whole run rather than being
// skipped. All envelopes must describe the same encryption session, and
// at least the recorded threshold of them must be present.
//
// Returns ErrCarrierExtract or an envelope parse error if any image
// cannot produce a valid envelope.
// Returns ErrInconsistentShares if the images mix encryption sessions.
// Returns ErrInsufficientShares if fewer images than the threshold were
// given.
// Returns ErrAuthenticationFailed if the master password is wrong or
// the data was tampered with.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	result, err := decrypt(ctx, opts)
	if err != nil {
		auditFailure("decrypt", err)
		return nil, err
	}

	auditEntry := audit.LogWithInstall("decrypt")
	auditEntry.Outcome = "succeeded"
	auditEntry.SharesUsed = result.SharesUsed
	auditEntry.Images = opts.ImagePaths
	audit.Log(auditEntry)

	return result, nil
}

func decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	if len(opts.MasterPassword) == 0 {
		return nil, fmt.Errorf("%w: master password", kerrors.ErrPasswordEmpty)
	}
	if len(opts.ImagePaths) == 0 {
		return nil, fmt.Errorf("%w: no share images given", kerrors.ErrInsufficientShares)
	}

	carrier := opts.Carrier
	if carrier == nil {
		carrier = stego.NewPNGCarrier()
	}

	envelopes := make([]*secrets.ShareEnvelope, 0, len(opts.ImagePaths))
	for _, path := range opts.ImagePaths {
		payload, err := carrier.Extract(path)
		if err != nil {
			return nil, err
		}

		envelope, err := secrets.UnmarshalEnvelope(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		opts.Logger.Debugf("share %d of %d extracted from %s", envelope.Index, envelope.Total, path)
		envelopes = append(envelopes, envelope)
	}

	// Every envelope must describe the same session: same policy, same
	// format revision, byte-identical wrapped blob.
	first := envelopes[0]
	for _, envelope := range envelopes[1:] {
		if envelope.Version != first.Version ||
			envelope.Total != first.Total ||
			envelope.Threshold != first.Threshold ||
			!bytes.Equal(envelope.Packaged, first.Packaged) {
			return nil, kerrors.ErrInconsistentShares
		}
	}

	threshold := int(first.Threshold)
	if len(envelopes) < threshold {
		return nil, fmt.Errorf("%w: have %d share images, need %d", kerrors.ErrInsufficientShares, len(envelopes), threshold)
	}

	// Recombine from the first threshold envelopes in selection order.
	shares := make([][]byte, threshold)
	for i := 0; i < threshold; i++ {
		shares[i] = envelopes[i].Share
	}

	key, err := secrets.RecoverKey(shares)
	if err != nil {
		return nil, err
	}
	defer secrets.Wipe(key)

	normalized := secrets.NormalizeKeyLength(key)
	defer secrets.Wipe(normalized)

	opts.Logger.Debugf("ephemeral key recovered from %d shares", threshold)

	blob, err := secrets.UnwrapBlob(first.Packaged, normalized)
	if err != nil {
		return nil, err
	}

	password, err := secrets.DecryptPassword(blob, opts.MasterPassword)
	if err != nil {
		return nil, err
	}

	return &DecryptResult{
		Password:        password,
		SharesTotal:     int(first.Total),
		SharesThreshold: threshold,
		SharesUsed:      threshold,
	}, nil
}
