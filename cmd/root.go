package cmd

import (
	logger "github.com/PolarWolf314/kringle/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	debug      bool
	configPath string
	Logger     logger.Logger

	KringleCmd = &cobra.Command{
		Use:   "kringle",
		Short: "Draw secret gift-giving partners and deliver each one privately",
		Long: `kringle assigns every participant someone to buy a gift for.

Nobody is assigned themselves or anyone in their own group. Each assignment
is sealed under its giver's RSA public key, so only that giver can read it.

Typical flow:
  1. Each participant runs ` + "`kringle generate-keys`" + ` and sends the organiser
     their public key.
  2. The organiser runs ` + "`kringle init`" + ` and ` + "`kringle assign`" + `.
  3. Each participant runs ` + "`kringle reveal`" + ` on their own record.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
	}
)

func init() {
	KringleCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	KringleCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	KringleCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to kringle.toml (default: $KRINGLE_CONFIG or the nearest kringle.toml)")

	KringleCmd.AddCommand(generateKeysCmd)
	KringleCmd.AddCommand(initCmd)
	KringleCmd.AddCommand(assignCmd)
	KringleCmd.AddCommand(revealCmd)
	KringleCmd.AddCommand(checkCmd)
	KringleCmd.AddCommand(logCmd)
}

// Helper functions for testing

// GetKringleCmd returns the KringleCmd for testing.
func GetKringleCmd() *cobra.Command {
	return KringleCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	resetGenerateKeysCommandState()
	resetInitCommandState()
	resetAssignCommandState()
	resetRevealCommandState()
	resetCheckCommandState()
	resetLogCommandState()
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
