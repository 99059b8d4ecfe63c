package audit

import (
	"encoding/json"
	"os"
	"os/user"
	"path/filepath"
	"time"
)

// Operation names recorded in the log.
const (
	OpAssign = "assign"
	OpInit   = "init"
)

// Entry represents a single audit log entry. It describes a run, never the
// pairing it produced.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Operator who ran the command.
	Operation string `json:"op"`   // Operation name.

	// Optional fields depending on operation.
	RunID             string   `json:"run_id,omitempty"`             // For assign.
	Exchange          string   `json:"exchange,omitempty"`           // Exchange name from the config.
	ParticipantsCount int      `json:"participants_count,omitempty"` // For assign/init.
	Attempts          int      `json:"attempts,omitempty"`           // Sampler attempts, for assign.
	Files             []string `json:"files,omitempty"`              // Records written by assign.
	DebugReveal       bool     `json:"debug_reveal,omitempty"`       // Mapping was echoed to the terminal.
}

// Log appends an entry to the audit log at logPath.
// If logging fails, it does not return an error.
// Operations should not fail just because audit logging failed.
func Log(logPath string, entry Entry) {
	if logPath == "" {
		return
	}

	// Set timestamp if not already set.
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	// #nosec G306 -- the log holds run metadata only.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	// Write entry with newline.
	_, _ = f.Write(append(data, '\n'))
}

// LogWithUser is a convenience function that populates the user field from
// the current OS account.
func LogWithUser(op string) Entry {
	entry := Entry{Operation: op}

	if u, err := user.Current(); err == nil {
		entry.User = u.Username
	}

	return entry
}

// ReadEntries reads all entries from the audit log at logPath.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(logPath string) ([]Entry, error) {
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// Tail returns the last limit entries. A non-positive limit returns all.
func Tail(entries []Entry, limit int) []Entry {
	if limit <= 0 || limit >= len(entries) {
		return entries
	}
	return entries[len(entries)-limit:]
}
