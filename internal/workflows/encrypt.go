package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fracturedkey/fractured/internal/audit"
	"github.com/fracturedkey/fractured/internal/configs"
	kerrors "github.com/fracturedkey/fractured/internal/errors"
	logger "github.com/fracturedkey/fractured/internal/logging"
	"github.com/fracturedkey/fractured/internal/secrets"
	"github.com/fracturedkey/fractured/internal/stego"
)

// DefaultBlobFileName is where a no-sharing run writes its blob when the
// caller gives no path.
const DefaultBlobFileName = "encrypted_output.bin"

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// Password is the secret being protected.
	Password []byte

	// MasterPassword seals the inner encryption layer. It is required
	// again at recovery time.
	MasterPassword []byte

	// CarrierPaths are the cover images shares get hidden in, one per
	// share in order. Extra carriers are ignored; missing ones skip
	// their share with a warning.
	CarrierPaths []string

	// OutputDir overrides where share images are written. Empty writes
	// each share image alongside its carrier.
	OutputDir string

	// SharesTotal and SharesThreshold form the share policy. Zero values
	// fall back to the user config defaults.
	SharesTotal     int
	SharesThreshold int

	// NoSharing skips the fracturing layer entirely and writes the
	// encrypted blob to a single file.
	NoSharing bool

	// OutputFile is the blob path for no-sharing mode. Empty uses
	// DefaultBlobFileName in the working directory.
	OutputFile string

	// Force overwrites an existing output file in no-sharing mode.
	Force bool

	// Carrier embeds share payloads. Nil selects the default PNG
	// carrier.
	Carrier stego.Carrier

	// Logger receives progress events. The zero value is mostly silent.
	Logger logger.Logger
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// StegoPaths lists the share images that were written, in share
	// order.
	StegoPaths []string

	// SkippedShares counts shares that could not be embedded, either
	// for lack of a carrier or because embedding failed.
	SkippedShares int

	// OutputFile is the blob path written in no-sharing mode.
	OutputFile string

	// SharesTotal and SharesThreshold echo the policy actually used.
	SharesTotal     int
	SharesThreshold int

	// NoSharing indicates the single-file path was taken.
	NoSharing bool
}

// Encrypt protects a password behind the master password and fractures
// the ephemeral key across carrier images.
//
// The password is sealed with a key derived from the master password,
// the resulting blob is wrapped under a fresh ephemeral key, and the
// ephemeral key is split into SharesTotal shares with SharesThreshold
// needed to recover. Each share travels inside a self-describing
// envelope that also carries the wrapped blob, embedded into one
// carrier image.
//
// Returns ErrPasswordEmpty if either password is missing.
// Returns ErrInvalidSharePolicy if the share policy is out of range.
// Returns ErrSharesBelowThreshold if too few shares could be embedded
// for the password to ever be recoverable.
// Returns ErrOutputExists if a no-sharing output file already exists
// and Force is not set.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	result, err := encrypt(ctx, opts)
	if err != nil {
		auditFailure("encrypt", err)
		return nil, err
	}

	auditEntry := audit.LogWithInstall("encrypt")
	auditEntry.Outcome = "succeeded"
	if result.NoSharing {
		auditEntry.File = result.OutputFile
	} else {
		auditEntry.SharesTotal = result.SharesTotal
		auditEntry.SharesThreshold = result.SharesThreshold
		auditEntry.SharesEmbedded = len(result.StegoPaths)
		auditEntry.Images = result.StegoPaths
	}
	audit.Log(auditEntry)

	return result, nil
}

func encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	if len(opts.Password) == 0 {
		return nil, fmt.Errorf("%w: password", kerrors.ErrPasswordEmpty)
	}
	if len(opts.MasterPassword) == 0 {
		return nil, fmt.Errorf("%w: master password", kerrors.ErrPasswordEmpty)
	}

	userConfig, err := configs.EnsureUserConfig()
	if err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}

	total := opts.SharesTotal
	threshold := opts.SharesThreshold
	if total == 0 && threshold == 0 {
		total = userConfig.Defaults.SharesTotal
		threshold = userConfig.Defaults.SharesThreshold
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = userConfig.Defaults.OutputDir
	}

	opts.Logger.Debugf("deriving key and sealing password")
	blob, err := secrets.EncryptPassword(opts.Password, opts.MasterPassword)
	if err != nil {
		return nil, err
	}

	if opts.NoSharing {
		return encryptToFile(blob, opts)
	}

	if err := secrets.ValidateSharePolicy(total, threshold); err != nil {
		return nil, err
	}

	key, packaged, err := secrets.WrapBlob(blob)
	if err != nil {
		return nil, err
	}
	defer secrets.Wipe(key)

	shares, err := secrets.SplitKey(key, total, threshold)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, share := range shares {
			secrets.Wipe(share)
		}
	}()

	carrier := opts.Carrier
	if carrier == nil {
		carrier = stego.NewPNGCarrier()
	}

	result := &EncryptResult{
		SharesTotal:     total,
		SharesThreshold: threshold,
	}

	for i, share := range shares {
		if i >= len(opts.CarrierPaths) {
			opts.Logger.WarnfAlways("share %d has no carrier image and was skipped", i+1)
			result.SkippedShares++
			continue
		}
		carrierPath := opts.CarrierPaths[i]

		envelope := &secrets.ShareEnvelope{
			Version:   secrets.EnvelopeVersion,
			Index:     byte(i + 1),
			Total:     byte(total),
			Threshold: byte(threshold),
			Share:     share,
			Packaged:  packaged,
		}

		written, err := carrier.Embed(carrierPath, envelope.Marshal(), sharePath(carrierPath, i+1, outputDir))
		if err != nil {
			opts.Logger.WarnfAlways("share %d could not be embedded in %s: %v", i+1, carrierPath, err)
			result.SkippedShares++
			continue
		}

		opts.Logger.Infof("share %d embedded in %s", i+1, written)
		result.StegoPaths = append(result.StegoPaths, written)
	}

	if len(result.StegoPaths) < threshold {
		return nil, fmt.Errorf("%w: only %d of %d shares embedded, %d needed for recovery",
			kerrors.ErrSharesBelowThreshold, len(result.StegoPaths), total, threshold)
	}

	return result, nil
}

// encryptToFile handles the no-sharing path: one blob file, no images.
func encryptToFile(blob *secrets.EncryptedBlob, opts EncryptOptions) (*EncryptResult, error) {
	outputFile := opts.OutputFile
	if outputFile == "" {
		outputFile = DefaultBlobFileName
	}

	if !opts.Force {
		if _, err := os.Stat(outputFile); err == nil {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrOutputExists, outputFile)
		}
	}

	if err := os.WriteFile(outputFile, blob.Bytes(), 0600); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrFileWrite, err)
	}
	opts.Logger.Infof("encrypted blob written to %s", outputFile)

	return &EncryptResult{OutputFile: outputFile, NoSharing: true}, nil
}

// sharePath derives the output image path for one share: the carrier's
// stem plus a share suffix, in outputDir when set and next to the
// carrier otherwise.
func sharePath(carrierPath string, index int, outputDir string) string {
	base := filepath.Base(carrierPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	name := fmt.Sprintf("%s_share%d.png", stem, index)

	if outputDir != "" {
		return filepath.Join(outputDir, name)
	}
	return filepath.Join(filepath.Dir(carrierPath), name)
}

// auditFailure records a failed run. The sentinel text alone goes into
// the log, never paths or key material from the failure.
func auditFailure(op string, err error) {
	entry := audit.LogWithInstall(op)
	entry.Outcome = "failed"
	entry.Error = err.Error()
	audit.Log(entry)
}
