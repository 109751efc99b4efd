package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/fracturedkey/fractured/internal/audit"
	kerrors "github.com/fracturedkey/fractured/internal/errors"
	logger "github.com/fracturedkey/fractured/internal/logging"
	"github.com/fracturedkey/fractured/internal/secrets"
)

// ManualDecryptOptions configures the manual-decrypt workflow.
type ManualDecryptOptions struct {
	// MasterPassword opens the encryption layer.
	MasterPassword []byte

	// FilePath is the raw encrypted blob, as written by a no-sharing
	// encrypt run.
	FilePath string

	// Logger receives progress events. The zero value is mostly silent.
	Logger logger.Logger
}

// ManualDecryptResult contains the outcome of a manual-decrypt
// operation.
type ManualDecryptResult struct {
	// Password is the recovered secret. The caller owns wiping it once
	// displayed.
	Password []byte

	// FilePath echoes the blob that was read.
	FilePath string
}

// ManualDecrypt recovers a password from a raw encrypted blob file,
// bypassing the share layer entirely.
//
// Returns ErrFileNotFound or ErrFileRead if the blob cannot be read.
// Returns ErrBlobMalformed if the file is too short to be a blob.
// Returns ErrAuthenticationFailed if the master password is wrong or
// the file was tampered with.
func ManualDecrypt(ctx context.Context, opts ManualDecryptOptions) (*ManualDecryptResult, error) {
	result, err := manualDecrypt(ctx, opts)
	if err != nil {
		auditFailure("manual-decrypt", err)
		return nil, err
	}

	auditEntry := audit.LogWithInstall("manual-decrypt")
	auditEntry.Outcome = "succeeded"
	auditEntry.File = result.FilePath
	audit.Log(auditEntry)

	return result, nil
}

func manualDecrypt(ctx context.Context, opts ManualDecryptOptions) (*ManualDecryptResult, error) {
	if len(opts.MasterPassword) == 0 {
		return nil, fmt.Errorf("%w: master password", kerrors.ErrPasswordEmpty)
	}

	raw, err := os.ReadFile(opts.FilePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, opts.FilePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrFileRead, err)
	}

	opts.Logger.Debugf("read %d bytes from %s", len(raw), opts.FilePath)

	blob, err := secrets.ParseBlob(raw)
	if err != nil {
		return nil, err
	}

	password, err := secrets.DecryptPassword(blob, opts.MasterPassword)
	if err != nil {
		return nil, err
	}

	return &ManualDecryptResult{Password: password, FilePath: opts.FilePath}, nil
}
