// Package secrets implements the protocol core of Fractured: the
// password cipher, the ephemeral key wrap, the share envelope wire
// format, and threshold splitting of the ephemeral key.
//
// # Key Hierarchy
//
// A password is protected in two layers:
//
//  1. The password cipher derives a key from the user's master password
//     with Argon2id and seals the password with AES-256-GCM, producing an
//     encrypted blob (salt ‖ nonce ‖ ciphertext+tag).
//  2. The key wrap generates a fresh 16-byte ephemeral key, seals the
//     whole blob under it with an independent AES-GCM instance, and the
//     ephemeral key is split into N Shamir shares of which any K recover
//     it.
//
// Neither the master password nor any single share can recover the
// password alone: decryption needs K shares (to rebuild the ephemeral
// key) and the master password (to open the inner blob).
//
// # Share Envelopes
//
// Each share travels in a self-describing binary envelope that also
// carries the wrapped blob, so any K envelopes are sufficient on their
// own. See ShareEnvelope for the exact layout. The envelope codec is
// pure: it allocates, validates, and nothing else.
//
// # Fail Closed
//
// Every validation or authentication failure in this package aborts the
// surrounding operation. No function returns partial plaintext, a
// truncated envelope, or an unauthenticated result.
package secrets
