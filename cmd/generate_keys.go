package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/kringle/internal/secrets"
	"github.com/PolarWolf314/kringle/internal/ui"
	"github.com/PolarWolf314/kringle/internal/workflows"
)

var (
	keygenPrivate string
	keygenPublic  string
	keygenBits    int
	keygenForce   bool
)

func init() {
	generateKeysCmd.Flags().StringVar(&keygenPrivate, "private", "kringle.key", "where to write the private key")
	generateKeysCmd.Flags().StringVar(&keygenPublic, "public", "kringle.pub", "where to write the public key")
	generateKeysCmd.Flags().IntVar(&keygenBits, "bits", secrets.DefaultKeyBits, "RSA key size in bits")
	generateKeysCmd.Flags().BoolVar(&keygenForce, "force", false, "overwrite existing key files")
}

// resetGenerateKeysCommandState resets the generate-keys command's global state for testing.
func resetGenerateKeysCommandState() {
	keygenPrivate = "kringle.key"
	keygenPublic = "kringle.pub"
	keygenBits = secrets.DefaultKeyBits
	keygenForce = false
}

var generateKeysCmd = &cobra.Command{
	Use:     "generate-keys",
	Aliases: []string{"keygen"},
	Short:   "Create your key pair",
	Long: `Creates an RSA key pair for one participant.

Keep the private key to yourself. Send the public key to whoever runs
kringle assign. Nothing else is written.

Examples:
  kringle generate-keys
  kringle generate-keys --private ~/.ssh/kringle --public chris.pub`,
	Args: cobra.NoArgs,
	RunE: runGenerateKeys,
}

func runGenerateKeys(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting generate-keys command")
	spinner, cleanup := startSpinner("Generating key pair...", verbose)
	defer cleanup()

	result, err := workflows.GenerateKeys(context.Background(), workflows.GenerateKeysOptions{
		PrivateKeyPath: keygenPrivate,
		PublicKeyPath:  keygenPublic,
		Bits:           keygenBits,
		Force:          keygenForce,
	})
	if err != nil {
		spinner.FinalMSG = formatError("Failed to generate keys", err)
		return reported(err)
	}
	Logger.Infof("Generated %d-bit key pair", result.Bits)

	spinner.FinalMSG = ui.Tick() + " Key pair generated\n" +
		"    private key: " + ui.Path.Sprint(result.PrivateKeyPath) + "\n" +
		"    public key:  " + ui.Path.Sprint(result.PublicKeyPath) + "\n" +
		"    fingerprint: " + result.Fingerprint + "\n" +
		ui.Arrow() + " Send " + ui.Path.Sprint(result.PublicKeyPath) + " to the organiser and never share the private key"
	return nil
}
