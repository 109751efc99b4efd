// Package session runs encryption and decryption work in background
// goroutines under a per-class concurrency rule.
//
// A Manager admits at most one running session per operation class, so a
// second encrypt started while one is in flight fails fast with
// ErrOperationInFlight instead of racing it. Sessions move from running
// to exactly one of succeeded or failed; there is no cancellation once a
// task has started.
//
// Sensitive buffers handed to Session.Guard are zeroed when the session
// finishes, on both outcomes, so passwords and key material do not
// outlive the operation that needed them.
package session
