package cmd

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
	"github.com/fracturedkey/fractured/internal/ui"
	"github.com/fracturedkey/fractured/internal/workflows"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show metadata about a share image or encrypted blob",
	Long: `Reads a file and reports what it holds: for a share image, the share
index and recovery policy; for an encrypted blob, the ciphertext sizes.

Inspection never touches passwords and never decrypts anything.

Examples:
  fractured inspect beach_share1.png
  fractured inspect encrypted_output.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting inspect command for %s", args[0])

		spinner, cleanup := startSpinner("Inspecting file...", verbose)
		defer cleanup()

		result, err := workflows.Inspect(context.Background(), workflows.InspectOptions{
			Path:   args[0],
			Logger: Logger,
		})
		if err != nil {
			spinner.FinalMSG = formatInspectError(err)
			if isInspectUnexpectedError(err) {
				return err
			}
			return nil
		}

		Logger.Infof("Inspect command completed successfully, kind=%s", result.Kind)
		spinner.FinalMSG = formatInspectSuccess(result)
		return nil
	},
}

func formatInspectSuccess(result *workflows.InspectResult) string {
	if result.Kind == workflows.InspectKindShareImage {
		return ui.Success.Sprint("✓") + " " + ui.Path.Sprint(result.Path) + " carries a key share\n\n" +
			"  Share:         " + ui.Highlight.Sprintf("%d of %d", result.Index, result.Total) + "\n" +
			fmt.Sprintf("  Threshold:     %d\n", result.Threshold) +
			fmt.Sprintf("  Format:        version %d\n", result.Version) +
			"  Share size:    " + ui.Muted.Sprintf("%d bytes", result.ShareSize) + "\n" +
			"  Payload size:  " + ui.Muted.Sprintf("%d bytes", result.PackagedSize) + "\n"
	}
	return ui.Success.Sprint("✓") + " " + ui.Path.Sprint(result.Path) + " is an encrypted blob\n\n" +
		"  Blob size:        " + ui.Muted.Sprintf("%d bytes", result.BlobSize) + "\n" +
		"  Ciphertext size:  " + ui.Muted.Sprintf("%d bytes", result.CiphertextSize) + "\n"
}

func formatInspectError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrFileNotFound):
		return ui.Error.Sprint("✗") + " File not found\n" +
			ui.Info.Sprint("→") + " Check the path and try again"

	case errors.Is(err, kerrors.ErrFileRead):
		return ui.Error.Sprint("✗") + " Could not read the file\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrCarrierExtract):
		return ui.Error.Sprint("✗") + " The image does not carry any hidden payload"

	case errors.Is(err, kerrors.ErrEnvelopeTooShort),
		errors.Is(err, kerrors.ErrEnvelopeBadMagic),
		errors.Is(err, kerrors.ErrEnvelopeOverflow),
		errors.Is(err, kerrors.ErrEnvelopeVersion):
		return ui.Error.Sprint("✗") + " The hidden payload is not a valid share\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrBlobMalformed):
		return ui.Error.Sprint("✗") + " The file is neither a share image nor a valid encrypted blob\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	default:
		return ui.Error.Sprint("✗") + " Failed to inspect the file\n" +
			ui.Error.Sprint("Error: ") + err.Error()
	}
}

// isInspectUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isInspectUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, kerrors.ErrFileNotFound),
		errors.Is(err, kerrors.ErrFileRead),
		errors.Is(err, kerrors.ErrCarrierExtract),
		errors.Is(err, kerrors.ErrEnvelopeTooShort),
		errors.Is(err, kerrors.ErrEnvelopeBadMagic),
		errors.Is(err, kerrors.ErrEnvelopeOverflow),
		errors.Is(err, kerrors.ErrEnvelopeVersion),
		errors.Is(err, kerrors.ErrBlobMalformed):
		return false
	default:
		return true
	}
}
