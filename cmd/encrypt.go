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

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	encryptCarriers      []string
	encryptShares        sharePolicyFlag
	encryptOutputDir     string
	encryptNoSharing     bool
	encryptOutputFile    string
	encryptForce         bool
	encryptPassword      string
	encryptPasswordStdin bool
	encryptMaster        string
)

func init() {
	encryptCmd.Flags().StringArrayVarP(&encryptCarriers, "carrier", "c", nil, "carrier image for one share (repeat per share)")
	encryptCmd.Flags().Var(&encryptShares, "shares", "share policy as K/N: N shares total, any K recover (default from config)")
	encryptCmd.Flags().StringVarP(&encryptOutputDir, "output-dir", "o", "", "directory for share images (default: alongside each carrier)")
	encryptCmd.Flags().BoolVar(&encryptNoSharing, "no-sharing", false, "skip key sharing and write a single encrypted file")
	encryptCmd.Flags().StringVar(&encryptOutputFile, "output-file", workflows.DefaultBlobFileName, "output path for --no-sharing")
	encryptCmd.Flags().BoolVarP(&encryptForce, "force", "f", false, "overwrite an existing --no-sharing output file")
	encryptCmd.Flags().StringVar(&encryptPassword, "password", "", "password to protect (insecure, prefer the prompt)")
	encryptCmd.Flags().BoolVar(&encryptPasswordStdin, "password-stdin", false, "read the password to protect from stdin")
	encryptCmd.Flags().StringVar(&encryptMaster, "master", "", "master password (insecure, prefer the prompt)")

	RootCmd.AddCommand(encryptCmd)
}

// resetEncryptCommandState resets the encrypt command's flag state for testing.
func resetEncryptCommandState() {
	encryptCarriers = nil
	encryptShares = sharePolicyFlag{}
	encryptOutputDir = ""
	encryptNoSharing = false
	encryptOutputFile = workflows.DefaultBlobFileName
	encryptForce = false
	encryptPassword = ""
	encryptPasswordStdin = false
	encryptMaster = ""
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [carrier-image]...",
	Short: "Protect a password and hide the key shares inside images",
	Long: `Seals a password behind your master password, fractures the sealing key
into shares, and hides one share in each carrier image. Carriers are
given as arguments or with --carrier; one image per share, in share
order.

By default 3 shares are created and any 2 of them, together with the
master password, recover the original. Use --shares to change the policy
and --no-sharing to write a single encrypted file instead of images.

Examples:
  fractured encrypt beach.png city.jpg forest.png
  fractured encrypt -c a.png -c b.png -c c.png -c d.png -c e.png --shares 3/5
  fractured encrypt --no-sharing --output-file vault.bin`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")

		carriers := append(append([]string{}, encryptCarriers...), args...)
		if !encryptNoSharing && len(carriers) == 0 {
			fmt.Println(color.RedString("✗") + " No carrier images given\n" +
				color.CyanString("→") + " Pass one image per share, as arguments or with " + color.YellowString("--carrier"))
			return nil
		}

		password, err := passwordInput(encryptPassword, encryptPasswordStdin, "Enter password to protect: ", "Confirm password: ")
		if err != nil {
			return reportPromptError(err)
		}
		master, err := passwordInput(encryptMaster, false, "Enter master password: ", "Confirm master password: ")
		if err != nil {
			secrets.Wipe(password)
			return reportPromptError(err)
		}

		spinner, cleanup := startSpinner("Protecting password...", verbose)
		defer cleanup()

		opts := workflows.EncryptOptions{
			Password:        password,
			MasterPassword:  master,
			CarrierPaths:    carriers,
			OutputDir:       encryptOutputDir,
			SharesTotal:     encryptShares.total,
			SharesThreshold: encryptShares.threshold,
			NoSharing:       encryptNoSharing,
			OutputFile:      encryptOutputFile,
			Force:           encryptForce,
			Logger:          Logger,
		}

		var result *workflows.EncryptResult
		outcome := runWithSession(session.ClassEncrypt, [][]byte{password, master}, func(ctx context.Context) error {
			var err error
			result, err = workflows.Encrypt(ctx, opts)
			return err
		})
		if outcome.Err != nil {
			spinner.FinalMSG = formatEncryptError(outcome.Err)
			if isEncryptUnexpectedError(outcome.Err) {
				return outcome.Err
			}
			return nil
		}

		Logger.Infof("Encrypt command completed successfully")
		spinner.FinalMSG = formatEncryptSuccess(result)
		return nil
	},
}

func formatEncryptSuccess(result *workflows.EncryptResult) string {
	if result.NoSharing {
		return color.GreenString("✓") + " Password protected successfully!\n" +
			color.CyanString("→") + " Encrypted file written to " + color.YellowString(result.OutputFile) + "\n" +
			color.CyanString("→") + " Recover it later with " + color.YellowString("fractured manual --file "+result.OutputFile)
	}

	msg := color.GreenString("✓") + " Password protected successfully!\n" +
		"The following share images were created:" +
		ui.FormatPaths(result.StegoPaths)
	if result.SkippedShares > 0 {
		msg += fmt.Sprintf("%d of %d shares could not be embedded\n", result.SkippedShares, result.SharesTotal)
	}
	msg += color.CyanString("→") + fmt.Sprintf(" Any %d of these images plus the master password recover the original", result.SharesThreshold)
	return msg
}

func formatEncryptError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrPasswordEmpty):
		return color.RedString("✗") + " " + err.Error()

	case errors.Is(err, kerrors.ErrInvalidSharePolicy):
		return color.RedString("✗") + " " + err.Error() + "\n" +
			color.CyanString("→") + " Use " + color.YellowString("--shares K/N") + " with at least 2 needed out of at most 255"

	case errors.Is(err, kerrors.ErrSharesBelowThreshold):
		return color.RedString("✗") + " Too few shares could be embedded for the password to ever be recovered\n" +
			color.CyanString("→") + " Check that every carrier image exists and is large enough\n" +
			color.RedString("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrOutputExists):
		return color.RedString("✗") + " " + err.Error() + "\n" +
			color.CyanString("→") + " Pass " + color.YellowString("--force") + " to overwrite"

	case errors.Is(err, kerrors.ErrOperationInFlight):
		return color.RedString("✗") + " Another encrypt operation is already running"

	default:
		return color.RedString("✗") + " Failed to protect the password\n" +
			color.RedString("Error: ") + err.Error()
	}
}

// isEncryptUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isEncryptUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, kerrors.ErrPasswordEmpty),
		errors.Is(err, kerrors.ErrInvalidSharePolicy),
		errors.Is(err, kerrors.ErrSharesBelowThreshold),
		errors.Is(err, kerrors.ErrOutputExists),
		errors.Is(err, kerrors.ErrOperationInFlight):
		return false
	default:
		return true
	}
}
