package format

import "fmt"

// Serial formats a certificate serial from a monotonic sequence value:
// zero-padded to four decimal digits, widening past 9999.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
func Serial(seq int64) (string, error) {
	if seq <= 0 {
		return "", fmt.Errorf("invalid certificate sequence: %d", seq)
	}
	return fmt.Sprintf("%04d", seq), nil
}
