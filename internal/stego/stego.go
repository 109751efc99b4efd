package stego

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/auyer/steganography"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
)

// Carrier hides payloads inside cover files and recovers them later.
// Implementations must keep the payload byte-exact through a round trip.
type Carrier interface {
	// Embed hides payload inside the image at carrierPath and writes the
	// result to outputPath. It returns the path actually written, which
	// may differ from outputPath by extension.
	Embed(carrierPath string, payload []byte, outputPath string) (string, error)

	// Extract recovers a payload previously embedded with Embed.
	Extract(path string) ([]byte, error)
}

// PNGCarrier embeds payloads into the least significant bits of image
// pixels. It reads PNG and JPEG covers and always writes PNG, since a
// lossy format would destroy the payload bits.
type PNGCarrier struct{}

// NewPNGCarrier returns the default carrier implementation.
func NewPNGCarrier() *PNGCarrier {
	return &PNGCarrier{}
}

func (c *PNGCarrier) Embed(carrierPath string, payload []byte, outputPath string) (string, error) {
	img, err := loadImage(carrierPath)
	if err != nil {
		return "", err
	}

	if uint64(len(payload)) > uint64(steganography.MaxEncodeSize(img)) {
		return "", fmt.Errorf("%w: payload of %d bytes exceeds capacity of %d bytes in %s",
			kerrors.ErrCarrierEmbed, len(payload), steganography.MaxEncodeSize(img), carrierPath)
	}

	encoded := new(bytes.Buffer)
	if err := steganography.Encode(encoded, img, payload); err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrCarrierEmbed, err)
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".png") {
		outputPath += ".png"
	}

	// #nosec G306 -- share images are meant to be handed out, not kept private
	if err := os.WriteFile(outputPath, encoded.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrFileWrite, err)
	}

	return outputPath, nil
}

func (c *PNGCarrier) Extract(path string) ([]byte, error) {
	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}

	size := steganography.GetMessageSizeFromImage(img)
	if size == 0 || uint64(size) > uint64(steganography.MaxEncodeSize(img)) {
		return nil, fmt.Errorf("%w: %s does not carry an embedded payload", kerrors.ErrCarrierExtract, path)
	}

	return steganography.Decode(size, img), nil
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", kerrors.ErrFileRead, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a supported image: %v", kerrors.ErrFileRead, path, err)
	}

	return img, nil
}
