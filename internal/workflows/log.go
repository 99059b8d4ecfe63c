package workflows

import (
	"context"

	"github.com/PolarWolf314/kringle/internal/audit"
	"github.com/PolarWolf314/kringle/internal/configs"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// ConfigPath is the resolved path of kringle.toml.
	ConfigPath string

	// Limit is the maximum number of entries to return, newest last. 0 means
	// no limit.
	Limit int

	// Operation filters entries by operation name.
	Operation string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// LogPath is the audit log that was read.
	LogPath string

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads the exchange's audit log. A missing log yields no entries.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	cfg, err := configs.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	logPath := cfg.AuditLogPath()
	entries, err := audit.ReadEntries(logPath)
	if err != nil {
		return nil, err
	}

	result := &LogResult{
		LogPath:                  logPath,
		TotalEntriesBeforeFilter: len(entries),
	}

	if opts.Operation != "" {
		filtered := entries[:0:0]
		for _, e := range entries {
			if e.Operation == opts.Operation {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	result.Entries = audit.Tail(entries, opts.Limit)
	return result, nil
}
