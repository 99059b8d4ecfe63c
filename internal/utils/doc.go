// Package utils provides shared helpers for kringle.
//
// # Filesystem Utilities
//
//   - FindConfigFile: walks up directories to find kringle.toml
//   - ResolvePath: resolves a config-relative path
//   - IsGroupOrWorldAccessible: detects loose private key permissions
//
// # Naming Utilities
//
//   - SanitizeFileName: turns a participant name into a safe file name
//   - FormatPaths: formats file paths for human-readable output
//
// # Terminal Utilities
//
//   - ReadPassphrase: prompts for a passphrase without echo
//   - WriteToTTY: writes straight to the controlling terminal
//   - ReadStdin: reads piped data (a private key passed as "-")
package utils
