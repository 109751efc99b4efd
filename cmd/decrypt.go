package cmd

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
	"github.com/fracturedkey/fractured/internal/secrets"
	"github.com/fracturedkey/fractured/internal/session"
	"github.com/fracturedkey/fractured/internal/ui"
	"github.com/fracturedkey/fractured/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	decryptMaster      string
	decryptMasterStdin bool
)

func init() {
	decryptCmd.Flags().StringVar(&decryptMaster, "master", "", "master password (insecure, prefer the prompt)")
	decryptCmd.Flags().BoolVar(&decryptMasterStdin, "master-stdin", false, "read the master password from stdin")

	RootCmd.AddCommand(decryptCmd)
}

// resetDecryptCommandState resets the decrypt command's flag state for testing.
func resetDecryptCommandState() {
	decryptMaster = ""
	decryptMasterStdin = false
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <share-image>...",
	Short: "Recover a password from share images and the master password",
	Long: `Extracts key shares from the given images, recombines them, and opens
the protected password with your master password.

The images must come from the same encrypt run. At least the recovery
threshold of them is needed; extra images beyond the threshold are
accepted and the first ones you list are used. The recovered password is
printed to the terminal and written nowhere.

Examples:
  fractured decrypt beach_share1.png forest_share3.png
  fractured decrypt city_share2.png beach_share1.png forest_share3.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command with %d images", len(args))

		master, err := passwordInput(decryptMaster, decryptMasterStdin, "Enter master password: ", "")
		if err != nil {
			return reportPromptError(err)
		}

		spinner, cleanup := startSpinner("Recovering password...", verbose)
		defer cleanup()

		opts := workflows.DecryptOptions{
			MasterPassword: master,
			ImagePaths:     args,
			Logger:         Logger,
		}

		var result *workflows.DecryptResult
		outcome := runWithSession(session.ClassDecrypt, [][]byte{master}, func(ctx context.Context) error {
			var err error
			result, err = workflows.Decrypt(ctx, opts)
			return err
		})
		if outcome.Err != nil {
			spinner.FinalMSG = formatDecryptError(outcome.Err)
			if isDecryptUnexpectedError(outcome.Err) {
				return outcome.Err
			}
			return nil
		}

		Logger.Infof("Decrypt command completed successfully using %d shares", result.SharesUsed)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Password recovered successfully!\n\n" +
			"  " + ui.Secret.Sprint(string(result.Password)) + "\n\n" +
			ui.Info.Sprint("→") + fmt.Sprintf(" Used %d of the %d shares created at protection time", result.SharesUsed, result.SharesTotal)
		secrets.Wipe(result.Password)
		return nil
	},
}

func formatDecryptError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrPasswordEmpty):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, kerrors.ErrInsufficientShares):
		return ui.Error.Sprint("✗") + " Not enough share images\n" +
			ui.Info.Sprint("→") + " " + err.Error()

	case errors.Is(err, kerrors.ErrInconsistentShares):
		return ui.Error.Sprint("✗") + " These images do not belong to the same protection run\n" +
			ui.Info.Sprint("→") + " Select share images that were created together"

	case errors.Is(err, kerrors.ErrAuthenticationFailed):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, kerrors.ErrShareRecombine):
		return ui.Error.Sprint("✗") + " The shares could not be recombined\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrCarrierExtract),
		errors.Is(err, kerrors.ErrEnvelopeTooShort),
		errors.Is(err, kerrors.ErrEnvelopeBadMagic),
		errors.Is(err, kerrors.ErrEnvelopeOverflow),
		errors.Is(err, kerrors.ErrEnvelopeVersion):
		return ui.Error.Sprint("✗") + " One of the images does not carry a valid share\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrFileNotFound), errors.Is(err, kerrors.ErrFileRead):
		return ui.Error.Sprint("✗") + " Could not read a share image\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrOperationInFlight):
		return ui.Error.Sprint("✗") + " Another decrypt operation is already running"

	default:
		return ui.Error.Sprint("✗") + " Failed to recover the password\n" +
			ui.Error.Sprint("Error: ") + err.Error()
	}
}

// isDecryptUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isDecryptUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, kerrors.ErrPasswordEmpty),
		errors.Is(err, kerrors.ErrInsufficientShares),
		errors.Is(err, kerrors.ErrInconsistentShares),
		errors.Is(err, kerrors.ErrAuthenticationFailed),
		errors.Is(err, kerrors.ErrShareRecombine),
		errors.Is(err, kerrors.ErrCarrierExtract),
		errors.Is(err, kerrors.ErrEnvelopeTooShort),
		errors.Is(err, kerrors.ErrEnvelopeBadMagic),
		errors.Is(err, kerrors.ErrEnvelopeOverflow),
		errors.Is(err, kerrors.ErrEnvelopeVersion),
		errors.Is(err, kerrors.ErrFileNotFound),
		errors.Is(err, kerrors.ErrFileRead),
		errors.Is(err, kerrors.ErrOperationInFlight):
		return false
	default:
		return true
	}
}
