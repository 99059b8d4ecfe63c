// Package audit records kringle runs in a JSON Lines log.
//
// Every assign run appends one entry. The log is meant to be shared with the
// group, so an entry holds run metadata only:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Operating system user who ran the command
//   - Operation name, run ID and exchange name
//   - Participant count, sampler attempts and the record files written
//   - Whether the mapping was echoed with the debug reveal flag
//
// Receiver names never appear in the log.
//
// # Usage
//
//	entry := audit.LogWithUser(audit.OpAssign)
//	entry.Files = written
//	audit.Log(cfg.AuditLogPath(), entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display.
// Malformed entries are silently skipped to handle partial writes.
package audit
