package cmd

import (
	"context"
	"errors"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
	"github.com/fracturedkey/fractured/internal/secrets"
	"github.com/fracturedkey/fractured/internal/session"
	"github.com/fracturedkey/fractured/internal/ui"
	"github.com/fracturedkey/fractured/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	manualFile        string
	manualMaster      string
	manualMasterStdin bool
)

func init() {
	manualCmd.Flags().StringVar(&manualFile, "file", workflows.DefaultBlobFileName, "path to the encrypted blob file")
	manualCmd.Flags().StringVar(&manualMaster, "master", "", "master password (insecure, prefer the prompt)")
	manualCmd.Flags().BoolVar(&manualMasterStdin, "master-stdin", false, "read the master password from stdin")

	RootCmd.AddCommand(manualCmd)
}

// resetManualCommandState resets the manual command's flag state for testing.
func resetManualCommandState() {
	manualFile = workflows.DefaultBlobFileName
	manualMaster = ""
	manualMasterStdin = false
}

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Recover a password directly from an encrypted blob file",
	Long: `Opens an encrypted blob file written by 'fractured encrypt --no-sharing'
with your master password. No share images are involved.

Examples:
  fractured manual
  fractured manual --file backup/encrypted_output.bin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting manual decrypt command for %s", manualFile)

		master, err := passwordInput(manualMaster, manualMasterStdin, "Enter master password: ", "")
		if err != nil {
			return reportPromptError(err)
		}

		spinner, cleanup := startSpinner("Recovering password...", verbose)
		defer cleanup()

		opts := workflows.ManualDecryptOptions{
			MasterPassword: master,
			FilePath:       manualFile,
			Logger:         Logger,
		}

		var result *workflows.ManualDecryptResult
		outcome := runWithSession(session.ClassManualDecrypt, [][]byte{master}, func(ctx context.Context) error {
			var err error
			result, err = workflows.ManualDecrypt(ctx, opts)
			return err
		})
		if outcome.Err != nil {
			spinner.FinalMSG = formatManualError(outcome.Err)
			if isManualUnexpectedError(outcome.Err) {
				return outcome.Err
			}
			return nil
		}

		Logger.Infof("Manual decrypt command completed successfully")
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Password recovered successfully!\n\n" +
			"  " + ui.Secret.Sprint(string(result.Password)) + "\n"
		secrets.Wipe(result.Password)
		return nil
	},
}

func formatManualError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrPasswordEmpty):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, kerrors.ErrFileNotFound):
		return ui.Error.Sprint("✗") + " Encrypted file not found\n" +
			ui.Info.Sprint("→") + " Point " + ui.Flag.Sprint("--file") + " at a blob written by " + ui.Code.Sprint("fractured encrypt --no-sharing")

	case errors.Is(err, kerrors.ErrFileRead):
		return ui.Error.Sprint("✗") + " Could not read the encrypted file\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrBlobMalformed):
		return ui.Error.Sprint("✗") + " The file is not a valid encrypted blob\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrAuthenticationFailed):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, kerrors.ErrOperationInFlight):
		return ui.Error.Sprint("✗") + " Another manual decrypt operation is already running"

	default:
		return ui.Error.Sprint("✗") + " Failed to recover the password\n" +
			ui.Error.Sprint("Error: ") + err.Error()
	}
}

// isManualUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isManualUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, kerrors.ErrPasswordEmpty),
		errors.Is(err, kerrors.ErrFileNotFound),
		errors.Is(err, kerrors.ErrFileRead),
		errors.Is(err, kerrors.ErrBlobMalformed),
		errors.Is(err, kerrors.ErrAuthenticationFailed),
		errors.Is(err, kerrors.ErrOperationInFlight):
		return false
	default:
		return true
	}
}
