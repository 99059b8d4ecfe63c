package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/PolarWolf314/kringle/internal/configs"
	kerrors "github.com/PolarWolf314/kringle/internal/errors"
	"github.com/PolarWolf314/kringle/internal/ui"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
// The cleanup function is safe to call more than once.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	done := false
	cleanup := func() {
		if done {
			return
		}
		done = true

		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// reportedError marks an error whose message was already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// reported wraps err so main exits nonzero without printing it again.
func reported(err error) error {
	return &reportedError{err: err}
}

// IsReported reports whether err was already displayed by a command.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// resolveConfig finds the config file from the --config flag, the
// environment or the working directory.
func resolveConfig() (string, error) {
	path, err := configs.ResolveConfigPath(configPath)
	if err != nil {
		return "", err
	}
	Logger.Debugf("Using config %s", path)
	return path, nil
}

// formatError turns a workflow error into a final spinner message.
func formatError(action string, err error) string {
	hint := ""
	switch {
	case errors.Is(err, kerrors.ErrConfigNotFound):
		hint = "Run " + ui.Code.Sprint("kringle init") + " or pass " + ui.Flag.Sprint("--config")
	case errors.Is(err, kerrors.ErrConfigExists):
		hint = "Pass " + ui.Flag.Sprint("--force") + " to overwrite it"
	case errors.Is(err, kerrors.ErrInvalidConfig):
		hint = "Fix the configuration and run " + ui.Code.Sprint("kringle check")
	case errors.Is(err, kerrors.ErrExhaustedAttempts):
		hint = "Relax the rules or raise " + ui.Code.Sprint("max_attempts") + " in the config"
	case errors.Is(err, kerrors.ErrPassphraseRequired):
		hint = "Run this command from an interactive terminal so the passphrase can be entered"
	case errors.Is(err, kerrors.ErrPublicKeyNotFound):
		hint = "Ask each listed participant to run " + ui.Code.Sprint("kringle generate-keys") + " and send you their public key"
	case errors.Is(err, kerrors.ErrKeyExists):
		hint = "Pass " + ui.Flag.Sprint("--force") + " to replace the existing key pair"
	case errors.Is(err, kerrors.ErrPlaintextTooLong):
		hint = "Use a shorter participant name or a larger key"
	}

	msg := ui.Cross() + " " + action + ": " + err.Error()
	if hint != "" {
		msg += "\n" + ui.Arrow() + " " + hint
	}
	return msg
}
