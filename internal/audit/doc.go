// Package audit provides a local audit trail of Fractured operations.
//
// Every protection and recovery run (encrypt, decrypt, manual-decrypt)
// is recorded in a per-user log, so it is possible to reconstruct when a
// password was protected, which images were produced, and when recovery
// was attempted.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) in
// the user data directory:
//
//	<data dir>/fractured/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Install UUID
//   - Operation name and outcome
//   - Operation-specific details (share policy, image paths, files)
//
// # Usage
//
// Create an entry with the install UUID pre-populated:
//
//	entry := audit.LogWithInstall("encrypt")
//	entry.Outcome = "succeeded"
//	entry.Images = stegoPaths
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error. Protecting or recovering
// a password should never fail just because its record could not be
// written.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
