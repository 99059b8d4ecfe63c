package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/kringle/internal/errors"
	"github.com/PolarWolf314/kringle/internal/ui"
	"github.com/PolarWolf314/kringle/internal/utils"
	"github.com/PolarWolf314/kringle/internal/workflows"
)

var (
	revealPrivateKey string
	revealTTY        bool
	revealBanner     bool
)

func init() {
	revealCmd.Flags().StringVarP(&revealPrivateKey, "private-key", "k", "", "your private key file, or - to read it from stdin")
	revealCmd.Flags().BoolVar(&revealTTY, "tty", false, "write the result straight to the terminal instead of stdout")
	revealCmd.Flags().BoolVar(&revealBanner, "banner", false, "render the name as a large banner")
	_ = revealCmd.MarkFlagRequired("private-key")
}

// resetRevealCommandState resets the reveal command's global state for testing.
func resetRevealCommandState() {
	revealPrivateKey = ""
	revealTTY = false
	revealBanner = false
}

var revealCmd = &cobra.Command{
	Use:   "reveal <assignment-file>",
	Short: "Open your assignment with your private key",
	Long: `Opens the record the organiser sent you and shows who you are buying for.

Only the private key matching the public key you sent can open it. A wrong
key, a damaged record, or someone else's record all fail the same way.

Examples:
  kringle reveal chris --private-key kringle.key
  cat kringle.key | kringle reveal chris --private-key -
  kringle reveal chris -k kringle.key --tty --banner`,
	Args: cobra.ExactArgs(1),
	RunE: runReveal,
}

func runReveal(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting reveal command")

	if revealTTY && !utils.IsTTYAvailable() {
		err := errors.New("no terminal available")
		fmt.Println(formatError("Cannot use --tty", err))
		return reported(err)
	}

	opts := workflows.RevealOptions{
		AssignmentPath: args[0],
		Passphrase: func() ([]byte, error) {
			return utils.ReadPassphrase("Enter passphrase for private key: ")
		},
	}

	if revealPrivateKey == "-" {
		Logger.Debugf("Reading private key from stdin")
		data, err := utils.ReadStdin()
		if err != nil {
			fmt.Println(formatError("Failed to read private key", err))
			return reported(err)
		}
		opts.PrivateKeyData = data
	} else {
		opts.PrivateKeyPath = revealPrivateKey
	}

	result, err := workflows.Reveal(context.Background(), opts)
	if err != nil {
		action := "Failed to reveal assignment"
		if errors.Is(err, kerrors.ErrDecryptFailed) {
			action = "This record cannot be opened with that private key"
		}
		fmt.Println(formatError(action, err))
		return reported(err)
	}

	if result.KeyPermissionsLoose {
		Logger.WarnfAlways("Private key file has overly permissive permissions (%o), consider running 'chmod 600 %s'",
			result.KeyMode, revealPrivateKey)
	}

	message := "You're buying a gift for " + ui.Info.Sprint(result.Receiver) + "\n"
	if revealBanner {
		message = "You're buying a gift for\n\n" + ui.Banner(result.Receiver)
	}

	if revealTTY {
		if err := utils.WriteToTTY(message); err != nil {
			fmt.Println(formatError("Failed to write to terminal", err))
			return reported(err)
		}
		return nil
	}

	fmt.Print(message)
	return nil
}
