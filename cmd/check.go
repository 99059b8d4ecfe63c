package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/kringle/internal/ui"
	"github.com/PolarWolf314/kringle/internal/utils"
	"github.com/PolarWolf314/kringle/internal/workflows"
)

// resetCheckCommandState resets the check command's global state for testing.
func resetCheckCommandState() {
	// No flags to reset currently.
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the exchange without drawing anything",
	Long: `Validates kringle.toml, loads every public key and inspects the
assignments directory. Nothing is sampled or written.

For up to 10 participants it also counts the valid pairings and the mean
number of draws assign will need. Exits nonzero if anything would make
assign or reveal fail.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting check command")
	spinner, cleanup := startSpinner("Checking exchange...", verbose)
	defer cleanup()

	path, err := resolveConfig()
	if err != nil {
		spinner.FinalMSG = formatError("Check failed", err)
		return reported(err)
	}

	result, err := workflows.Check(context.Background(), workflows.CheckOptions{ConfigPath: path})
	if err != nil {
		spinner.FinalMSG = formatError("Check failed", err)
		return reported(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Exchange %s %s\n", ui.Name.Sprint(result.Exchange), ui.Muted.Sprint(result.ConfigPath))
	fmt.Fprintf(&b, "    participants: %d\n", result.Participants)

	if result.ValidPairings >= 0 {
		fmt.Fprintf(&b, "    valid pairings: %d\n", result.ValidPairings)
		if result.ValidPairings > 0 {
			fmt.Fprintf(&b, "    expected attempts: %.1f of %d allowed\n", result.ExpectedAttempts, result.MaxAttempts)
		}
	} else {
		b.WriteString("    valid pairings: " + ui.Muted.Sprint("too many participants to count") + "\n")
	}

	b.WriteString("Public keys:\n")
	for _, k := range result.Keys {
		if k.Err != nil {
			fmt.Fprintf(&b, "    %s %s %s\n", ui.Cross(), ui.Name.Sprint(k.Participant), ui.Path.Sprint(k.Path))
			continue
		}
		fmt.Fprintf(&b, "    %s %s %d bits %s\n", ui.Tick(), ui.Name.Sprint(k.Participant), k.Bits, k.Fingerprint)
	}

	fmt.Fprintf(&b, "Records: %d present, %d missing\n", len(result.ExistingRecords), len(result.MissingRecords))
	if len(result.ExistingRecords) > 0 && len(result.MissingRecords) > 0 {
		b.WriteString("Missing records:" + utils.FormatPaths(result.MissingRecords))
	}
	if len(result.OrphanFiles) > 0 {
		b.WriteString("Unexpected files:" + utils.FormatPaths(result.OrphanFiles))
	}

	if result.OK() {
		b.WriteString(ui.Tick() + " Everything looks good")
		if len(result.ExistingRecords) == 0 {
			b.WriteString("\n" + ui.Arrow() + " Run " + ui.Code.Sprint("kringle assign") + " to draw the pairing")
		}
		spinner.FinalMSG = b.String()
		return nil
	}

	b.WriteString(ui.Cross() + fmt.Sprintf(" Found %d problems:\n", len(result.Problems)))
	for _, p := range result.Problems {
		b.WriteString("    - " + p + "\n")
	}
	spinner.FinalMSG = b.String()
	return reported(fmt.Errorf("check found %d problems", len(result.Problems)))
}
