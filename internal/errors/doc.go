// Package errors provides typed error values for the Fractured application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Envelope parse errors: structurally invalid share envelopes
//     (ErrEnvelopeTooShort, ErrEnvelopeBadMagic, ErrEnvelopeOverflow)
//   - Consistency errors: shares that cannot be combined
//     (ErrInconsistentShares, ErrInsufficientShares)
//   - Cryptographic errors: AEAD and recombination failures
//     (ErrAuthenticationFailed, ErrBlobMalformed)
//   - Carrier errors: steganographic embed/extract failures
//   - File errors: local artifact I/O
//   - Session and input errors: sequencing and validation
//
// # Usage
//
// Return errors from internal packages:
//
//	if len(raw) < envelopeHeaderSize {
//	    return nil, errors.ErrEnvelopeTooShort
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrInsufficientShares) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: have %d shares, need %d", errors.ErrInsufficientShares, got, want)
//
// Every failure is terminal for its operation. Nothing in this taxonomy is
// retried automatically; a failed pipeline aborts as a whole rather than
// salvaging partial results.
package errors
