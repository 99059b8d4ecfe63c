package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/kringle/internal/configs"
	"github.com/PolarWolf314/kringle/internal/ui"
	"github.com/PolarWolf314/kringle/internal/workflows"
)

var (
	initParticipants []string
	initName         string
	initNoReciprocal bool
	initForce        bool
)

func init() {
	initCmd.Flags().StringArrayVarP(&initParticipants, "participant", "p", nil, "participant as NAME:GROUP (repeatable)")
	initCmd.Flags().StringVar(&initName, "name", "", "exchange name")
	initCmd.Flags().BoolVar(&initNoReciprocal, "no-reciprocal", false, "forbid two participants buying for each other")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config")
}

// resetInitCommandState resets the init command's global state for testing.
func resetInitCommandState() {
	initParticipants = nil
	initName = ""
	initNoReciprocal = false
	initForce = false
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter kringle.toml",
	Long: `Writes a kringle.toml listing the participants and their groups.

Participants in the same group never buy for each other. Put couples or
housemates in one group, and give everyone else a group of their own.

Examples:
  kringle init --name "Family 2026" -p Chris:1 -p Kate:1 -p Haley:2 -p Devon:2`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting init command")
	spinner, cleanup := startSpinner("Writing configuration...", verbose)
	defer cleanup()

	path, err := configs.DefaultInitPath(configPath)
	if err != nil {
		spinner.FinalMSG = formatError("Failed to initialize", err)
		return reported(err)
	}

	result, err := workflows.Init(context.Background(), workflows.InitOptions{
		ConfigPath:   path,
		Name:         initName,
		Participants: initParticipants,
		NoReciprocal: initNoReciprocal,
		Force:        initForce,
	})
	if err != nil {
		spinner.FinalMSG = formatError("Failed to initialize", err)
		return reported(err)
	}

	spinner.FinalMSG = ui.Tick() + " Created " + ui.Path.Sprint(result.ConfigPath) +
		fmt.Sprintf(" with %d participants\n", result.Participants) +
		ui.Arrow() + " Collect each participant's public key into " + ui.Path.Sprint(result.KeysDir) +
		", then run " + ui.Code.Sprint("kringle assign")
	return nil
}
