package errors

import "errors"

// Configuration errors indicate the participant table cannot be used.
var (
	// ErrInvalidConfig indicates the configuration is malformed or infeasible.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrConfigNotFound indicates no configuration file could be located.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigExists indicates a configuration file is already present.
	ErrConfigExists = errors.New("configuration file already exists")
)

// Sampling errors indicate the pairing sampler gave up.
var (
	// ErrExhaustedAttempts indicates no valid pairing was found within the attempt ceiling.
	ErrExhaustedAttempts = errors.New("no valid pairing found within the attempt limit")

	// ErrInvalidPairing indicates a pairing breaks the bijection or an exclusion rule.
	ErrInvalidPairing = errors.New("pairing violates the exclusion rules")
)

// Key errors indicate a key file is missing, malformed, or unsuitable.
var (
	// ErrKeyLoad is wrapped by every key loading failure.
	ErrKeyLoad = errors.New("failed to load key")

	// ErrPublicKeyNotFound indicates a public key file could not be located.
	ErrPublicKeyNotFound = errors.New("public key not found")

	// ErrPrivateKeyNotFound indicates a private key file could not be located.
	ErrPrivateKeyNotFound = errors.New("private key not found")

	// ErrInvalidPublicKey indicates the public key is malformed or not RSA.
	ErrInvalidPublicKey = errors.New("invalid or unsupported public key format")

	// ErrInvalidPrivateKey indicates the private key is malformed or not RSA.
	ErrInvalidPrivateKey = errors.New("invalid or unsupported private key format")

	// ErrKeyTooSmall indicates the RSA modulus is below the accepted minimum.
	ErrKeyTooSmall = errors.New("key size is below the accepted minimum")

	// ErrPassphraseRequired indicates the private key is passphrase protected.
	ErrPassphraseRequired = errors.New("private key is passphrase protected")

	// ErrKeyExists indicates a key file would be overwritten.
	ErrKeyExists = errors.New("key file already exists")
)

// Cryptographic errors indicate failures while sealing or opening records.
var (
	// ErrEncryptFailed indicates an assignment could not be sealed.
	ErrEncryptFailed = errors.New("failed to seal assignment")

	// ErrPlaintextTooLong indicates the receiver name does not fit in one OAEP block.
	ErrPlaintextTooLong = errors.New("receiver name is too long for the key size")

	// ErrDecryptFailed indicates an assignment could not be opened.
	ErrDecryptFailed = errors.New("failed to decrypt assignment")
)

// File errors indicate issues with assignment records on disk.
var (
	// ErrAssignmentNotFound indicates an assignment record file could not be located.
	ErrAssignmentNotFound = errors.New("assignment record not found")
)
