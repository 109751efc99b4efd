// Package shared contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments,
// capturing output, and building carrier images for share embedding.
package shared

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/fracturedkey/fractured/cmd"
	"github.com/fracturedkey/fractured/internal/configs"
	logger "github.com/fracturedkey/fractured/internal/logging"
	"github.com/spf13/cobra"
)

// SetupTestEnvironment sets up the test environment with temporary directories.
func SetupTestEnvironment(t *testing.T, tempDir, tempUserDir, originalWd string, originalUserSettings *configs.UserSettings) {
	// Change to temp directory
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	// Cleanup function to restore original state
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserFracturedSettings = originalUserSettings
	})

	// Override user settings to use temp directory
	configs.UserFracturedSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempUserDir, "configs"),
		UserDataPath:    filepath.Join(tempUserDir, "data"),
	}
}

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// CreateTestCLI prepares the real root command for a test run with the given
// arguments. Global command state is reset so runs do not leak into each other.
func CreateTestCLI(stdout, stderr io.Writer, verboseFlag, debugFlag bool, args ...string) *cobra.Command {
	cmd.ResetGlobalState()
	cmd.SetVerbose(verboseFlag)
	cmd.SetDebug(debugFlag)

	// Initialize the logger with the test flags
	cmd.SetLogger(logger.Logger{
		Verbose: verboseFlag,
		Debug:   debugFlag,
	})

	root := cmd.GetRootCmd()

	// Set output streams
	if stdout != nil {
		root.SetOut(stdout)
		for _, subcmd := range root.Commands() {
			subcmd.SetOut(stdout)
		}
	}
	if stderr != nil {
		root.SetErr(stderr)
		for _, subcmd := range root.Commands() {
			subcmd.SetErr(stderr)
		}
	}

	root.SetArgs(args)
	return root
}

// CreateShareImages protects a password through the real CLI and returns the
// paths of the share images it created, in share index order. The default
// policy applies: three shares, any two recover.
func CreateShareImages(t *testing.T, tempDir, password, master string) []string {
	carriers := []string{
		filepath.Join(tempDir, "beach.png"),
		filepath.Join(tempDir, "forest.png"),
		filepath.Join(tempDir, "city.png"),
	}
	for _, c := range carriers {
		CreateCarrierPNG(t, c)
	}

	output, err := CaptureOutput(func() error {
		cmd := CreateTestCLI(nil, nil, true, false,
			"encrypt",
			"-c", carriers[0], "-c", carriers[1], "-c", carriers[2],
			"--password", password, "--master", master)
		return cmd.Execute()
	})
	if err != nil {
		t.Fatalf("Failed to protect password: %v\nOutput: %s", err, output)
	}

	shares := []string{
		filepath.Join(tempDir, "beach_share1.png"),
		filepath.Join(tempDir, "forest_share2.png"),
		filepath.Join(tempDir, "city_share3.png"),
	}
	for _, path := range shares {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Fatalf("Share image was not created at %s\nOutput: %s", path, output)
		}
	}
	return shares
}

// CreateCarrierPNG writes a PNG image with enough capacity to carry a key share.
func CreateCarrierPNG(t *testing.T, path string) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 3), G: uint8(y * 3), B: uint8(x + y), A: 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create carrier image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode carrier image: %v", err)
	}
}
