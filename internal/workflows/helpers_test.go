package workflows

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fracturedkey/fractured/internal/configs"
)

// setupWorkflowEnv sandboxes the user config and data paths for one test
// so workflows never touch the real home directory.
func setupWorkflowEnv(t *testing.T) {
	t.Helper()

	tempDir := t.TempDir()
	originalSettings := configs.UserFracturedSettings
	configs.UserFracturedSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempDir, "configs"),
		UserDataPath:    filepath.Join(tempDir, "data"),
	}
	t.Cleanup(func() { configs.UserFracturedSettings = originalSettings })
}

// writeCarrier writes a gradient PNG big enough to hold a share envelope.
func writeCarrier(t *testing.T, path string) {
	t.Helper()
	writePNG(t, path, func(x, y int) color.RGBA {
		return color.RGBA{R: uint8(x * 3), G: uint8(y * 3), B: uint8(x + y), A: 255}
	})
}

// writeCleanImage writes a uniform black PNG carrying no payload.
func writeCleanImage(t *testing.T, path string) {
	t.Helper()
	writePNG(t, path, func(x, y int) color.RGBA {
		return color.RGBA{A: 255}
	})
}

func writePNG(t *testing.T, path string, fill func(x, y int) color.RGBA) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
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

// makeCarriers writes count carrier images into dir and returns their
// paths in order.
func makeCarriers(t *testing.T, dir string, count int) []string {
	t.Helper()

	paths := make([]string, count)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("carrier%d.png", i+1))
		writeCarrier(t, paths[i])
	}
	return paths
}
