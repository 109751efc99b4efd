package cmd

import (
	"fmt"
	"os"

	logger "github.com/fracturedkey/fractured/internal/logging"
	"github.com/fracturedkey/fractured/internal/session"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// sessions enforces the one-operation-per-class rule for every
	// command in this process.
	sessions = session.NewManager()

	RootCmd = &cobra.Command{
		Use:   "fractured",
		Short: "Fractured - split the key to your password across ordinary images.",
		Long: `Fractured protects a password with two layers: the password is sealed
behind a master password, and the key to that seal is fractured into
shares hidden inside ordinary images. Recovery needs a threshold of the
share images plus the master password; neither alone is enough.

Usage:
  fractured <command> [flags]

Available Commands:
  encrypt    Protect a password and hide key shares in images
  decrypt    Recover a password from share images
  manual     Recover a password from a raw encrypted file
  inspect    Describe a share image or encrypted file
  log        View the operation audit trail

Run 'fractured help <command>' for more details on a specific command.
`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing fractured command with verbose=%t, debug=%t", verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println()
			myFigure := figure.NewColorFigure("Fractured", "alligator2", "green", true)
			myFigure.Print()
			fmt.Println()
			fmt.Println("Run 'fractured --help' to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
