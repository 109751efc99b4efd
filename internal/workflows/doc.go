// Package workflows provides high-level orchestration for Fractured
// commands.
//
// Workflows coordinate multiple operations across packages (configs,
// secrets, stego, audit) to implement complete user-facing features.
// Each workflow handles a single command's business logic, independent
// of CLI concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Prompts for passwords before any long-running work starts
//   - Calls the appropriate workflow function inside a session
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Loading configuration and share-policy defaults
//   - Validating inputs
//   - Running the protect or recover pipeline
//   - Recording audit trail entries
//   - Wiping intermediate key material
//
// # Available Workflows
//
//   - Encrypt: Protects a password and fractures the key across images
//   - Decrypt: Recovers a password from share images and the master password
//   - ManualDecrypt: Recovers a password from a raw encrypted blob file
//   - Inspect: Describes an encrypted blob or share image without secrets
//   - Log: Reads and filters the audit trail
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package,
// allowing the CLI layer to provide appropriate user-facing messages
// without string matching. Use errors.Is() to check for specific error
// conditions:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrInsufficientShares) {
//	    // Tell the user how many images they still need
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first
// parameter. Sessions launched by the CLI pass a background context;
// a run that has started is never cancelled halfway through writing
// share images.
package workflows
