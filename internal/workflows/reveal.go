package workflows

import (
	"context"
	"crypto/rsa"
	"os"
	"runtime"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/kringle/internal/errors"
	"github.com/PolarWolf314/kringle/internal/secrets"
	"github.com/PolarWolf314/kringle/internal/utils"
)

// RevealOptions configures the reveal workflow.
type RevealOptions struct {
	// AssignmentPath is the sealed record handed to the participant.
	AssignmentPath string

	// PrivateKeyPath is the participant's private key on disk.
	PrivateKeyPath string

	// PrivateKeyData contains the private key bytes when reading from stdin.
	// If set, PrivateKeyPath is ignored.
	PrivateKeyData []byte

	// Passphrase is called if the key turns out to be protected. May be nil.
	Passphrase secrets.PassphraseFunc
}

// RevealResult contains the outcome of a reveal operation.
type RevealResult struct {
	// Receiver is the person the participant buys a gift for.
	Receiver string

	// KeyPermissionsLoose is set when the private key file is readable by
	// group or others.
	KeyPermissionsLoose bool

	// KeyMode holds the permission bits checked for KeyPermissionsLoose.
	KeyMode os.FileMode
}

// Reveal opens a single assignment record with the participant's private key.
//
// Returns ErrAssignmentNotFound if the record does not exist.
// Returns ErrKeyLoad if the private key cannot be loaded.
// Returns ErrDecryptFailed for every failure to open the record, whatever
// the cause.
func Reveal(ctx context.Context, opts RevealOptions) (*RevealResult, error) {
	ciphertext, err := secrets.ReadRecord(opts.AssignmentPath)
	if err != nil {
		return nil, err
	}

	result := &RevealResult{}

	var key *rsa.PrivateKey
	if len(opts.PrivateKeyData) > 0 {
		key, err = secrets.ParsePrivateKey(opts.PrivateKeyData, opts.Passphrase)
	} else {
		key, err = secrets.LoadPrivateKey(opts.PrivateKeyPath, opts.Passphrase)
		if err == nil && runtime.GOOS != "windows" {
			result.KeyPermissionsLoose, result.KeyMode, _ = utils.IsGroupOrWorldAccessible(opts.PrivateKeyPath)
		}
	}
	if err != nil {
		return nil, err
	}

	plaintext, err := secrets.Open(ciphertext, key)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(plaintext) {
		return nil, kerrors.ErrDecryptFailed
	}

	result.Receiver = string(plaintext)
	return result, nil
}
