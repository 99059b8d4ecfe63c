package workflows

import (
	"context"
	"path/filepath"

	"github.com/PolarWolf314/kringle/internal/secrets"
)

// GenerateKeysOptions configures the generate-keys workflow.
type GenerateKeysOptions struct {
	// PrivateKeyPath is where the private key is written.
	PrivateKeyPath string

	// PublicKeyPath is where the public key is written. Defaults to
	// PrivateKeyPath with a .pub suffix.
	PublicKeyPath string

	// Bits is the RSA modulus size. Zero means secrets.DefaultKeyBits.
	Bits int

	// Force overwrites existing key files.
	Force bool
}

// GenerateKeysResult contains the outcome of a generate-keys operation.
type GenerateKeysResult struct {
	PrivateKeyPath string
	PublicKeyPath  string
	Bits           int

	// Fingerprint is the SHA256 fingerprint of the new public key.
	Fingerprint string
}

// GenerateKeys creates a key pair for one participant. The participant keeps
// the private key and hands the public key to the operator.
//
// Returns ErrKeyExists if either file exists and Force is not set.
// Returns ErrKeyTooSmall if Bits is below secrets.MinKeyBits.
func GenerateKeys(ctx context.Context, opts GenerateKeysOptions) (*GenerateKeysResult, error) {
	bits := opts.Bits
	if bits == 0 {
		bits = secrets.DefaultKeyBits
	}

	privatePath, err := filepath.Abs(opts.PrivateKeyPath)
	if err != nil {
		return nil, err
	}
	publicPath := opts.PublicKeyPath
	if publicPath == "" {
		publicPath = privatePath + ".pub"
	}
	publicPath, err = filepath.Abs(publicPath)
	if err != nil {
		return nil, err
	}

	pub, err := secrets.GenerateKeyPair(privatePath, publicPath, bits, opts.Force)
	if err != nil {
		return nil, err
	}

	fingerprint, err := secrets.Fingerprint(pub)
	if err != nil {
		return nil, err
	}

	return &GenerateKeysResult{
		PrivateKeyPath: privatePath,
		PublicKeyPath:  publicPath,
		Bits:           bits,
		Fingerprint:    fingerprint,
	}, nil
}
