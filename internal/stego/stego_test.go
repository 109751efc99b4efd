package stego

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
)

// writeTestPNG writes a width x height PNG whose pixels come from fill.
func writeTestPNG(t *testing.T, path string, width, height int, fill func(x, y int) color.RGBA) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, fill(x, y))
		}
	}

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}

func gradient(x, y int) color.RGBA {
	return color.RGBA{R: uint8(x * 2), G: uint8(y * 2), B: uint8(x + y), A: 255}
}

func black(x, y int) color.RGBA {
	return color.RGBA{A: 255}
}

func TestEmbedExtract_RoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	carrierPath := filepath.Join(tempDir, "vacation.png")
	writeTestPNG(t, carrierPath, 96, 96, gradient)

	payloads := [][]byte{
		[]byte("short text payload"),
		bytes.Repeat([]byte{0x00, 0xFF, 0x7F}, 100),
	}

	carrier := NewPNGCarrier()
	for i, payload := range payloads {
		outputPath := filepath.Join(tempDir, "out.png")

		written, err := carrier.Embed(carrierPath, payload, outputPath)
		if err != nil {
			t.Fatalf("Embed failed for payload %d: %v", i, err)
		}
		if written != outputPath {
			t.Errorf("Expected output at %s, got %s", outputPath, written)
		}

		extracted, err := carrier.Extract(written)
		if err != nil {
			t.Fatalf("Extract failed for payload %d: %v", i, err)
		}
		if !bytes.Equal(extracted, payload) {
			t.Errorf("Payload %d changed in round trip", i)
		}
	}
}

func TestEmbed_AppendsPNGExtension(t *testing.T) {
	tempDir := t.TempDir()
	carrierPath := filepath.Join(tempDir, "cover.png")
	writeTestPNG(t, carrierPath, 64, 64, gradient)

	written, err := NewPNGCarrier().Embed(carrierPath, []byte("payload"), filepath.Join(tempDir, "share1"))
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if !strings.HasSuffix(written, ".png") {
		t.Errorf("Expected written path to end in .png, got %s", written)
	}
	if _, err := os.Stat(written); err != nil {
		t.Errorf("Expected output file to exist: %v", err)
	}
}

func TestEmbed_PayloadTooLarge(t *testing.T) {
	tempDir := t.TempDir()
	carrierPath := filepath.Join(tempDir, "tiny.png")
	writeTestPNG(t, carrierPath, 8, 8, gradient)

	payload := bytes.Repeat([]byte{0xAA}, 64)
	_, err := NewPNGCarrier().Embed(carrierPath, payload, filepath.Join(tempDir, "out.png"))
	if !errors.Is(err, kerrors.ErrCarrierEmbed) {
		t.Errorf("Expected ErrCarrierEmbed for an oversized payload, got %v", err)
	}
}

func TestEmbed_MissingCarrier(t *testing.T) {
	tempDir := t.TempDir()

	_, err := NewPNGCarrier().Embed(filepath.Join(tempDir, "absent.png"), []byte("payload"), filepath.Join(tempDir, "out.png"))
	if !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestExtract_CleanImage(t *testing.T) {
	tempDir := t.TempDir()
	cleanPath := filepath.Join(tempDir, "clean.png")
	writeTestPNG(t, cleanPath, 32, 32, black)

	_, err := NewPNGCarrier().Extract(cleanPath)
	if !errors.Is(err, kerrors.ErrCarrierExtract) {
		t.Errorf("Expected ErrCarrierExtract for an image with no payload, got %v", err)
	}
}

func TestExtract_NotAnImage(t *testing.T) {
	tempDir := t.TempDir()
	textPath := filepath.Join(tempDir, "notes.txt")
	if err := os.WriteFile(textPath, []byte("not an image"), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err := NewPNGCarrier().Extract(textPath)
	if !errors.Is(err, kerrors.ErrFileRead) {
		t.Errorf("Expected ErrFileRead for a non-image file, got %v", err)
	}
}
