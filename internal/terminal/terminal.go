package terminal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
	"github.com/fracturedkey/fractured/internal/secrets"
)

// ReadPassword prompts for a password without echoing input. It reads
// from stdin when stdin is a terminal and falls back to the controlling
// terminal otherwise, so piped input does not consume the prompt.
func ReadPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readPasswordFromTTY(prompt)
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// readPasswordFromTTY prompts on the controlling terminal directly,
// /dev/tty on Unix or CON on Windows.
func readPasswordFromTTY(prompt string) ([]byte, error) {
	ttyPath := "/dev/tty"
	if runtime.GOOS == "windows" {
		ttyPath = "CON"
	}

	tty, err := os.Open(ttyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for password input: %w", ttyPath, err)
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", ttyPath)
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// ReadPasswordConfirmed prompts twice and requires both entries to match.
// The confirmation copy is wiped before returning; on mismatch both
// copies are wiped and ErrPasswordMismatch comes back.
func ReadPasswordConfirmed(prompt, confirmPrompt string) ([]byte, error) {
	first, err := ReadPassword(prompt)
	if err != nil {
		return nil, err
	}

	second, err := ReadPassword(confirmPrompt)
	if err != nil {
		secrets.Wipe(first)
		return nil, err
	}

	match := bytes.Equal(first, second)
	secrets.Wipe(second)

	if !match {
		secrets.Wipe(first)
		return nil, kerrors.ErrPasswordMismatch
	}

	return first, nil
}

// ReadPasswordStdin reads a password piped on stdin.
// Returns an error if stdin is a terminal (no piped data), is empty, or
// cannot be read. A single trailing newline is stripped so that
// echo-style piping does not fold the line ending into the password.
func ReadPasswordStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}

	// If ModeCharDevice is set, stdin is connected to a terminal.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no data provided on stdin (hint: pipe the password to this command)")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	data = bytes.TrimSuffix(data, []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\r"))

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: stdin", kerrors.ErrPasswordEmpty)
	}

	return data, nil
}
