// Package secrets seals and opens assignment records.
//
// Each record is the receiver's name encrypted under the giver's RSA public
// key with OAEP padding and SHA-256 (used for both the label hash and MGF1).
// Nothing else is in the plaintext: no giver name, no run id, no framing.
//
// # Failure Behaviour
//
// Open reports every failure as errors.ErrDecryptFailed with no cause
// attached. A wrong key, a flipped bit and an invalid length are
// indistinguishable to the caller.
//
// # Key Management
//
// GenerateKeyPair writes a PKCS#8 private key (0600) and a PKIX public key.
// LoadPublicKey and LoadPrivateKey accept the common PEM encodings as well as
// OpenSSH keys. Keys under MinKeyBits are refused.
//
// # Record Files
//
// Records are written with StageRecord, which creates a synced temp file next
// to the destination. Commit renames it into place and Discard removes it, so
// a reader never sees a half-written record.
package secrets
