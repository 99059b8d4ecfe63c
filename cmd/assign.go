package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/kringle/internal/metrics"
	"github.com/PolarWolf314/kringle/internal/ui"
	"github.com/PolarWolf314/kringle/internal/workflows"
)

var (
	assignReveal      bool
	assignParallel    int
	assignMetricsFile string
)

func init() {
	assignCmd.Flags().BoolVar(&assignReveal, "reveal", false, "DEBUG ONLY: print every assignment in plaintext")
	assignCmd.Flags().IntVarP(&assignParallel, "parallel", "j", 0, "number of records sealed concurrently (default: number of CPUs)")
	assignCmd.Flags().StringVar(&assignMetricsFile, "metrics-file", "", "write Prometheus metrics for this run to a textfile")
}

// resetAssignCommandState resets the assign command's global state for testing.
func resetAssignCommandState() {
	assignReveal = false
	assignParallel = 0
	assignMetricsFile = ""
}

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Draw the pairing and seal one record per participant",
	Long: `Draws a random valid pairing and writes one sealed record per participant.

Every public key must be present before anything is written. Records are
replaced all at once, so a failed run leaves the previous records intact.
Nobody, including the organiser, can read the records without the matching
private key.

Examples:
  kringle assign
  kringle assign --metrics-file /var/lib/node_exporter/kringle.prom`,
	Args: cobra.NoArgs,
	RunE: runAssign,
}

func runAssign(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting assign command")

	if assignReveal {
		Logger.WarnfAlways("--reveal prints every assignment in plaintext. Anyone who sees this output knows who buys for whom.")
	}

	spinner, cleanup := startSpinner("Drawing and sealing assignments...", verbose)
	defer cleanup()

	path, err := resolveConfig()
	if err != nil {
		spinner.FinalMSG = formatError("Failed to assign", err)
		return reported(err)
	}

	var m *metrics.Metrics
	if assignMetricsFile != "" {
		m = metrics.New()
	}

	result, err := workflows.Assign(context.Background(), workflows.AssignOptions{
		ConfigPath:    path,
		RevealMapping: assignReveal,
		Parallel:      assignParallel,
		Metrics:       m,
	})

	if m != nil {
		if werr := m.WriteTextfile(assignMetricsFile); werr != nil {
			Logger.WarnfAlways("%v", werr)
		} else {
			Logger.Infof("Wrote metrics to %s", assignMetricsFile)
		}
	}

	if err != nil {
		spinner.FinalMSG = formatError("Failed to assign", err)
		return reported(err)
	}
	Logger.Infof("Run %s sampled a valid pairing in %d attempts", result.RunID, result.Attempts)

	var b strings.Builder
	b.WriteString(ui.Tick() + " Sealed " + fmt.Sprint(len(result.Records)) + " assignments for " + ui.Name.Sprint(result.Exchange) +
		" " + ui.Muted.Sprint(fmt.Sprintf("%d attempts, run %s", result.Attempts, result.RunID)) + "\n")
	b.WriteString("The following records were written:\n")
	for _, r := range result.Records {
		b.WriteString("    - " + ui.Path.Sprint(r.Path) + " for " + ui.Name.Sprint(r.Giver) + "\n")
	}
	b.WriteString(ui.Arrow() + " Send each participant their own record. Only their private key can open it.")

	if assignReveal {
		b.WriteString("\n\n" + ui.Warning.Sprint("Plaintext assignments (debug):") + "\n")
		for _, pair := range result.Mapping {
			b.WriteString("    " + string(pair.Giver) + " " + ui.Arrow() + " " + string(pair.Receiver) + "\n")
		}
	}

	spinner.FinalMSG = b.String()
	return nil
}
