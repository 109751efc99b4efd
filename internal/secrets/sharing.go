package secrets

import (
	"fmt"

	"github.com/hashicorp/vault/shamir"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
)

// MaxShareCount is the largest share total the envelope format can record
// in its single-byte fields.
const MaxShareCount = 255

// ValidateSharePolicy checks a threshold/total pair against the limits of
// both the splitting scheme and the envelope format.
func ValidateSharePolicy(total, threshold int) error {
	if threshold < 2 {
		return fmt.Errorf("%w: threshold %d is below the minimum of 2", kerrors.ErrInvalidSharePolicy, threshold)
	}
	if total > MaxShareCount {
		return fmt.Errorf("%w: total %d exceeds the maximum of %d", kerrors.ErrInvalidSharePolicy, total, MaxShareCount)
	}
	if threshold > total {
		return fmt.Errorf("%w: threshold %d exceeds total %d", kerrors.ErrInvalidSharePolicy, threshold, total)
	}
	return nil
}

// SplitKey fractures key into total shares of which any threshold
// reconstruct it. Each share is one byte longer than the key.
func SplitKey(key []byte, total, threshold int) ([][]byte, error) {
	if err := ValidateSharePolicy(total, threshold); err != nil {
		return nil, err
	}

	shares, err := shamir.Split(key, total, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to split key: %w", err)
	}
	return shares, nil
}

// RecoverKey recombines shares back into the original key. The caller is
// responsible for supplying at least the threshold that the key was split
// with; too few shares yield garbage that the wrap layer then rejects.
func RecoverKey(shares [][]byte) ([]byte, error) {
	key, err := shamir.Combine(shares)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrShareRecombine, err)
	}
	return key, nil
}
