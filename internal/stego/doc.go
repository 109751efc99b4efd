// Package stego hides share envelopes inside ordinary images and digs
// them back out.
//
// # Carriers
//
// The Carrier interface is the only surface the rest of the codebase
// touches. The default PNGCarrier stores payload bits in the least
// significant bits of pixel channels, prefixed by a length header the
// underlying codec maintains. Covers may be PNG or JPEG; output is
// always PNG because re-encoding through a lossy format would shred the
// embedded bits.
//
// # Capacity
//
// A cover image can hold roughly three bits per pixel. Embed checks the
// payload against that capacity up front and refuses covers that are too
// small rather than writing a truncated payload.
package stego
