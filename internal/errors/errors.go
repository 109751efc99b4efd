package errors

import "errors"

// Envelope parse errors indicate a share envelope that is structurally invalid.
var (
	// ErrEnvelopeTooShort indicates the payload is smaller than the fixed envelope header.
	ErrEnvelopeTooShort = errors.New("share envelope is shorter than the fixed header")

	// ErrEnvelopeBadMagic indicates the payload does not start with the envelope magic bytes.
	ErrEnvelopeBadMagic = errors.New("share envelope magic bytes do not match")

	// ErrEnvelopeOverflow indicates the declared section lengths exceed the payload.
	ErrEnvelopeOverflow = errors.New("share envelope declares more bytes than it contains")

	// ErrEnvelopeVersion indicates the envelope format version is not supported.
	ErrEnvelopeVersion = errors.New("unsupported share envelope version")
)

// Share consistency errors indicate shares that cannot be combined.
var (
	// ErrInconsistentShares indicates the selected shares come from different encryption sessions.
	ErrInconsistentShares = errors.New("shares do not belong to the same encryption session")

	// ErrInsufficientShares indicates fewer shares were supplied than the recovery threshold.
	ErrInsufficientShares = errors.New("not enough shares to meet the recovery threshold")

	// ErrSharesBelowThreshold indicates too few shares were embedded for the secret to ever be recovered.
	ErrSharesBelowThreshold = errors.New("fewer shares were embedded than the recovery threshold")
)

// Cryptographic errors indicate failures while sealing or opening protected data.
var (
	// ErrAuthenticationFailed indicates an AEAD tag did not verify.
	ErrAuthenticationFailed = errors.New("authentication failed: wrong master password or tampered data")

	// ErrBlobMalformed indicates an encrypted blob too small to contain its salt and nonce.
	ErrBlobMalformed = errors.New("encrypted blob is malformed")

	// ErrShareRecombine indicates the key could not be rebuilt from the supplied shares.
	ErrShareRecombine = errors.New("failed to recombine key shares")

	// ErrInvalidSharePolicy indicates a threshold/total pair the sharer cannot satisfy.
	ErrInvalidSharePolicy = errors.New("invalid share policy")
)

// Carrier errors indicate failures in the steganographic embed/extract layer.
var (
	// ErrCarrierEmbed indicates a payload could not be embedded in a carrier image.
	ErrCarrierEmbed = errors.New("failed to embed payload in carrier image")

	// ErrCarrierExtract indicates no payload could be extracted from a carrier image.
	ErrCarrierExtract = errors.New("failed to extract payload from carrier image")
)

// File errors indicate issues reading or writing local artifacts.
var (
	// ErrFileNotFound indicates a required file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileRead indicates a file could not be read.
	ErrFileRead = errors.New("failed to read file")

	// ErrFileWrite indicates a file could not be written.
	ErrFileWrite = errors.New("failed to write file")

	// ErrOutputExists indicates an output file already exists and --force was not given.
	ErrOutputExists = errors.New("output file already exists")
)

// Session errors indicate invalid operation sequencing.
var (
	// ErrOperationInFlight indicates an operation of the same class is already running.
	ErrOperationInFlight = errors.New("another operation of this kind is already running")
)

// Input errors indicate unusable user-supplied values.
var (
	// ErrPasswordEmpty indicates an empty password or master password.
	ErrPasswordEmpty = errors.New("password must not be empty")

	// ErrPasswordMismatch indicates the confirmation prompt did not match.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidDateFormat indicates a date filter that is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
