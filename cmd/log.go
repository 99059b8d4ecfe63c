package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/kringle/internal/audit"
	"github.com/PolarWolf314/kringle/internal/ui"
	"github.com/PolarWolf314/kringle/internal/workflows"
)

var (
	logLimit     int
	logOperation string
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "show only the most recent entries")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation (assign, init)")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logOperation = ""
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the audit trail",
	Long: `Displays the audit log of past runs.

The log records when assign and init ran and what they wrote. It never
records who buys for whom.

Examples:
  kringle log
  kringle log --limit 5 --operation assign`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	path, err := resolveConfig()
	if err != nil {
		fmt.Println(formatError("Failed to read audit log", err))
		return reported(err)
	}

	result, err := workflows.Log(context.Background(), workflows.LogOptions{
		ConfigPath: path,
		Limit:      logLimit,
		Operation:  logOperation,
	})
	if err != nil {
		fmt.Println(formatError("Failed to read audit log", err))
		return reported(err)
	}

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	for _, e := range result.Entries {
		fmt.Println(formatEntry(e))
	}
	return nil
}

// formatEntry renders one entry on a single line.
func formatEntry(e audit.Entry) string {
	parts := []string{ui.Muted.Sprint(e.Timestamp), e.User, ui.Info.Sprint(e.Operation)}

	switch e.Operation {
	case audit.OpAssign:
		parts = append(parts, fmt.Sprintf("run=%s participants=%d attempts=%d records=%d",
			e.RunID, e.ParticipantsCount, e.Attempts, len(e.Files)))
		if e.DebugReveal {
			parts = append(parts, ui.Warning.Sprint("debug-reveal"))
		}
	case audit.OpInit:
		parts = append(parts, fmt.Sprintf("exchange=%q participants=%d", e.Exchange, e.ParticipantsCount))
	}

	return strings.Join(parts, " ")
}
