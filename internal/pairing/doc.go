// Package pairing draws the secret gift assignment for a fixed group.
//
// A Pairing is a bijection from givers to receivers. It is valid when nobody
// gives to themselves and nobody gives to someone in their own group, and
// optionally when no two people give to each other.
//
// # Sampling
//
// Sampler.Sample uses rejection sampling. It repeatedly shuffles the
// participant list with an unbiased Fisher-Yates shuffle, reads index i as
// giver and perm[i] as receiver, and keeps the first candidate that passes
// Constraints. Every permutation is equally likely to be drawn, so every valid
// pairing is equally likely to be accepted.
//
// The loop is bounded by MaxAttempts. When the ceiling is reached Sample
// returns errors.ErrExhaustedAttempts and no pairing. The sampler does not
// try to decide feasibility up front; configs.Validate does that for
// configuration files.
//
// # Enumeration
//
// For small groups (up to MaxEnumerable participants) Enumerate and
// CountValid walk every valid pairing. They back the uniformity tests and
// the `kringle check` report.
package pairing
