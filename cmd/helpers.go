package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
	"github.com/fracturedkey/fractured/internal/secrets"
	"github.com/fracturedkey/fractured/internal/session"
	"github.com/fracturedkey/fractured/internal/terminal"
	"github.com/fracturedkey/fractured/internal/ui"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
// This ensures consistent output formatting across all commands.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	err := s.Color("cyan")
	if err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		Logger.Debugf("Starting spinner in non-verbose mode")
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debug {
			Logger.Debugf("Restoring log output")
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			Logger.Debugf("Stopping spinner")
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// runWithSession starts task under the session manager, guards the given
// sensitive buffers for wiping, and blocks until the outcome. A second
// operation of the same class fails fast instead of racing the first.
func runWithSession(class session.Class, sensitive [][]byte, task func(ctx context.Context) error) session.Outcome {
	s, err := sessions.Begin(class, task)
	if err != nil {
		return session.Outcome{State: session.StateFailed, Err: err}
	}

	for _, buf := range sensitive {
		s.Guard(buf)
	}

	return s.Wait()
}

// passwordInput resolves a password from stdin, an insecure flag value,
// or an interactive prompt, in that order. A non-empty confirmPrompt
// asks twice and requires both entries to match.
func passwordInput(flagValue string, fromStdin bool, prompt, confirmPrompt string) ([]byte, error) {
	if fromStdin {
		return terminal.ReadPasswordStdin()
	}

	if flagValue != "" {
		Logger.WarnfAlways("Password supplied on the command line may remain in your shell history")
		return []byte(flagValue), nil
	}

	if confirmPrompt != "" {
		return terminal.ReadPasswordConfirmed(prompt, confirmPrompt)
	}
	return terminal.ReadPassword(prompt)
}

// reportPromptError handles failures from password prompts. A mismatch
// is a user mistake and exits cleanly; anything else is unexpected.
func reportPromptError(err error) error {
	if errors.Is(err, kerrors.ErrPasswordMismatch) {
		fmt.Println(color.RedString("✗") + " Passwords do not match")
		return nil
	}
	return Logger.ErrorfAndReturn("failed to read password: %v", err)
}

// sharePolicyFlag parses a "K/N" share policy, threshold K out of N
// total, as a single flag value.
type sharePolicyFlag struct {
	threshold int
	total     int
}

var _ pflag.Value = (*sharePolicyFlag)(nil)

func (f *sharePolicyFlag) String() string {
	if f.total == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", f.threshold, f.total)
}

func (f *sharePolicyFlag) Set(value string) error {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return fmt.Errorf("share policy must be K/N, for example 2/3")
	}

	threshold, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return fmt.Errorf("threshold %q is not a number", parts[0])
	}
	total, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fmt.Errorf("total %q is not a number", parts[1])
	}

	if err := secrets.ValidateSharePolicy(total, threshold); err != nil {
		return err
	}

	f.threshold = threshold
	f.total = total
	return nil
}

func (f *sharePolicyFlag) Type() string {
	return "K/N"
}
