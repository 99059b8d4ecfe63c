// Package errors provides typed error values for kringle.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Configuration errors: the participant table is unusable (ErrInvalidConfig)
//   - Sampling errors: no valid pairing was found (ErrExhaustedAttempts)
//   - Key errors: a key file could not be used (ErrKeyLoad and friends)
//   - Crypto errors: sealing or opening failed (ErrEncryptFailed, ErrDecryptFailed)
//   - File errors: assignment records are missing (ErrAssignmentNotFound)
//
// # Usage
//
// Every key loading failure wraps ErrKeyLoad together with a more specific
// sentinel, so callers can match either:
//
//	return nil, fmt.Errorf("%w: %w: %v", errors.ErrKeyLoad, errors.ErrInvalidPublicKey, err)
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Assign(ctx, opts)
//	if errors.Is(err, kerrors.ErrExhaustedAttempts) {
//	    // Tell the operator the constraint set is likely infeasible
//	}
//
// ErrDecryptFailed is returned bare. It never carries the underlying cause,
// so a wrong key, a corrupted record and a padding failure look the same.
package errors
