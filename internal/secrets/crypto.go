package secrets

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	kerrors "github.com/PolarWolf314/kringle/internal/errors"
)

// MaxPlaintextSize returns the longest receiver name, in bytes, that fits in
// one OAEP-SHA256 block for pub.
func MaxPlaintextSize(pub *rsa.PublicKey) int {
	return pub.Size() - 2*sha256.Size - 2
}

// Seal encrypts receiver under the giver's public key.
func Seal(receiver []byte, pub *rsa.PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: no public key", kerrors.ErrEncryptFailed)
	}
	if len(receiver) > MaxPlaintextSize(pub) {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", kerrors.ErrPlaintextTooLong, len(receiver), MaxPlaintextSize(pub))
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, receiver, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}
	return ciphertext, nil
}

// Open decrypts a record with the giver's private key. Any failure returns
// exactly kerrors.ErrDecryptFailed.
func Open(ciphertext []byte, priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, kerrors.ErrDecryptFailed
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ciphertext, nil)
	if err != nil {
		return nil, kerrors.ErrDecryptFailed
	}
	return plaintext, nil
}
