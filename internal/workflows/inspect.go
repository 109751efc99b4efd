package workflows

import (
	"bytes"
	"context"
	"fmt"
	"os"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
	logger "github.com/fracturedkey/fractured/internal/logging"
	"github.com/fracturedkey/fractured/internal/secrets"
	"github.com/fracturedkey/fractured/internal/stego"
)

// Inspect result kinds.
const (
	InspectKindBlob       = "blob"
	InspectKindShareImage = "share-image"
)

// InspectOptions configures the inspect workflow.
type InspectOptions struct {
	// Path is the file to describe: a share image or a raw blob.
	Path string

	// Carrier extracts share payloads from images. Nil selects the
	// default PNG carrier.
	Carrier stego.Carrier

	// Logger receives progress events. The zero value is mostly silent.
	Logger logger.Logger
}

// InspectResult describes a protection artifact without exposing any
// secret material. Only structural metadata and sizes are reported.
type InspectResult struct {
	Path string
	Kind string

	// Share image fields.
	Version   int
	Index     int
	Total     int
	Threshold int
	ShareSize int

	// PackagedSize is the wrapped blob size for share images and zero
	// for raw blobs.
	PackagedSize int

	// Raw blob fields.
	BlobSize       int
	CiphertextSize int
}

// Inspect describes a share image or encrypted blob file. Images are
// recognized by content, not extension, so a renamed share image still
// inspects as one.
//
// Returns ErrFileNotFound or ErrFileRead if the file cannot be read.
// Returns ErrCarrierExtract or an envelope parse error for images
// without a valid share.
// Returns ErrBlobMalformed for non-image files too short to be a blob.
func Inspect(ctx context.Context, opts InspectOptions) (*InspectResult, error) {
	raw, err := os.ReadFile(opts.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, opts.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrFileRead, err)
	}

	if looksLikeImage(raw) {
		return inspectShareImage(opts)
	}
	return inspectBlob(opts.Path, raw)
}

func inspectShareImage(opts InspectOptions) (*InspectResult, error) {
	carrier := opts.Carrier
	if carrier == nil {
		carrier = stego.NewPNGCarrier()
	}

	payload, err := carrier.Extract(opts.Path)
	if err != nil {
		return nil, err
	}

	envelope, err := secrets.UnmarshalEnvelope(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Path, err)
	}

	return &InspectResult{
		Path:         opts.Path,
		Kind:         InspectKindShareImage,
		Version:      int(envelope.Version),
		Index:        int(envelope.Index),
		Total:        int(envelope.Total),
		Threshold:    int(envelope.Threshold),
		ShareSize:    len(envelope.Share),
		PackagedSize: len(envelope.Packaged),
	}, nil
}

func inspectBlob(path string, raw []byte) (*InspectResult, error) {
	blob, err := secrets.ParseBlob(raw)
	if err != nil {
		return nil, err
	}

	return &InspectResult{
		Path:           path,
		Kind:           InspectKindBlob,
		BlobSize:       len(raw),
		CiphertextSize: len(blob.Ciphertext),
	}, nil
}

// looksLikeImage sniffs PNG and JPEG magic bytes.
func looksLikeImage(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte("\x89PNG\r\n\x1a\n")) ||
		bytes.HasPrefix(raw, []byte{0xFF, 0xD8, 0xFF})
}
