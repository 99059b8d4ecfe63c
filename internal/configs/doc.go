// Package configs loads and validates the exchange configuration.
//
// An exchange is described by a single kringle.toml file:
//
//	[exchange]
//	name = "Family 2026"
//	no_reciprocal = false
//
//	[[participants]]
//	name = "Chris"
//	group = "1"
//
// # Defaults
//
// Omitted settings fall back to:
//   - max_attempts: 1000000
//   - keys_dir: "keys", holding <name>.pub for each participant
//   - assignments_dir: "assignments", holding one sealed record per participant
//   - audit_log: "kringle-audit.jsonl"
//
// Participant names are lowercased and sanitized to build default file
// names. A participant may override either path with public_key or
// assignment. Relative paths resolve against the directory holding the
// config file, not the working directory.
//
// # Discovery
//
// ResolveConfigPath uses the --config flag, then KRINGLE_CONFIG, then the
// nearest kringle.toml found walking up from the working directory.
//
// # Validation
//
// Load rejects unknown keys and validates struct tags with
// go-playground/validator. It also rejects any group holding more than half
// of the participants, since no valid pairing can exist then. Every
// failure wraps errors.ErrInvalidConfig.
package configs
