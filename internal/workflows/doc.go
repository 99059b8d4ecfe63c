// Package workflows provides high-level orchestration for kringle commands.
//
// Workflows coordinate configs, pairing, secrets, audit and metrics to
// implement complete user-facing features. Each workflow handles a single
// command's business logic, independent of CLI concerns like flag parsing,
// spinners, and output formatting.
//
// # Available Workflows
//
//   - GenerateKeys: Creates a participant's RSA key pair
//   - Init: Writes a starter kringle.toml
//   - Assign: Draws a valid pairing and seals one record per giver
//   - Reveal: Opens one record with its giver's private key
//   - Check: Reports key, feasibility and record problems without sampling
//   - Log: Reads the audit trail
//
// # Error Handling
//
// Workflows return sentinel errors from the internal/errors package. Use
// errors.Is() to check for specific conditions:
//
//	result, err := workflows.Assign(ctx, opts)
//	if errors.Is(err, kerrors.ErrKeyLoad) {
//	    // No records were written
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Assign checks it between seals.
package workflows
