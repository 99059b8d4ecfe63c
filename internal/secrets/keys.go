package secrets

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"

	kerrors "github.com/PolarWolf314/kringle/internal/errors"
)

const (
	// DefaultKeyBits is the modulus size used by GenerateKeyPair callers
	// that do not choose one.
	DefaultKeyBits = 4096

	// MinKeyBits is the smallest modulus accepted for loading or generation.
	MinKeyBits = 2048
)

// PassphraseFunc supplies the passphrase for a protected OpenSSH private key.
// It is only called when the key turns out to need one.
type PassphraseFunc func() ([]byte, error)

func invalidPublicKey(cause error) error {
	return fmt.Errorf("%w: %w: %v", kerrors.ErrKeyLoad, kerrors.ErrInvalidPublicKey, cause)
}

func invalidPrivateKey(cause error) error {
	return fmt.Errorf("%w: %w: %v", kerrors.ErrKeyLoad, kerrors.ErrInvalidPrivateKey, cause)
}

func checkKeySize(bits int) error {
	if bits < MinKeyBits {
		return fmt.Errorf("%w: %w: %d bits, minimum is %d", kerrors.ErrKeyLoad, kerrors.ErrKeyTooSmall, bits, MinKeyBits)
	}
	return nil
}

// LoadPublicKey loads a participant's RSA public key from disk.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w: %s", kerrors.ErrKeyLoad, kerrors.ErrPublicKeyNotFound, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", kerrors.ErrKeyLoad, path, err)
	}

	pub, err := ParsePublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pub, nil
}

// ParsePublicKey parses a PKIX "PUBLIC KEY" PEM, a PKCS#1 "RSA PUBLIC KEY"
// PEM, or an OpenSSH authorized-key line.
func ParsePublicKey(data []byte) (*rsa.PublicKey, error) {
	var (
		parsed any
		err    error
	)

	if block, _ := pem.Decode(data); block != nil {
		switch block.Type {
		case "PUBLIC KEY":
			parsed, err = x509.ParsePKIXPublicKey(block.Bytes)
		case "RSA PUBLIC KEY":
			parsed, err = x509.ParsePKCS1PublicKey(block.Bytes)
		default:
			return nil, invalidPublicKey(fmt.Errorf("unexpected PEM block type %q", block.Type))
		}
		if err != nil {
			return nil, invalidPublicKey(err)
		}
	} else {
		sshKey, _, _, _, sshErr := ssh.ParseAuthorizedKey(data)
		if sshErr != nil {
			return nil, invalidPublicKey(errors.New("no PEM block or OpenSSH public key found"))
		}
		cryptoKey, ok := sshKey.(ssh.CryptoPublicKey)
		if !ok {
			return nil, invalidPublicKey(fmt.Errorf("unsupported OpenSSH key type %s", sshKey.Type()))
		}
		parsed = cryptoKey.CryptoPublicKey()
	}

	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, invalidPublicKey(errors.New("not an RSA public key"))
	}
	if err := checkKeySize(pub.N.BitLen()); err != nil {
		return nil, err
	}
	return pub, nil
}

// LoadPrivateKey loads a participant's RSA private key from disk. passphrase
// may be nil; protected keys then fail with ErrPassphraseRequired.
func LoadPrivateKey(path string, passphrase PassphraseFunc) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w: %s", kerrors.ErrKeyLoad, kerrors.ErrPrivateKeyNotFound, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", kerrors.ErrKeyLoad, path, err)
	}

	priv, err := ParsePrivateKey(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return priv, nil
}

// ParsePrivateKey parses a PKCS#8 "PRIVATE KEY", PKCS#1 "RSA PRIVATE KEY" or
// "OPENSSH PRIVATE KEY" PEM.
func ParsePrivateKey(data []byte, passphrase PassphraseFunc) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, invalidPrivateKey(errors.New("no PEM block found"))
	}

	var (
		parsed any
		err    error
	)

	switch block.Type {
	case "PRIVATE KEY":
		parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	case "RSA PRIVATE KEY":
		parsed, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "OPENSSH PRIVATE KEY":
		parsed, err = parseOpenSSHPrivateKey(data, passphrase)
		if errors.Is(err, kerrors.ErrKeyLoad) {
			return nil, err
		}
	case "ENCRYPTED PRIVATE KEY":
		return nil, invalidPrivateKey(errors.New("encrypted PKCS#8 keys are not supported, use an OpenSSH key or an unencrypted PEM"))
	default:
		return nil, invalidPrivateKey(fmt.Errorf("unexpected PEM block type %q", block.Type))
	}
	if err != nil {
		return nil, invalidPrivateKey(err)
	}

	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, invalidPrivateKey(errors.New("not an RSA private key"))
	}
	if err := checkKeySize(priv.N.BitLen()); err != nil {
		return nil, err
	}
	return priv, nil
}

func parseOpenSSHPrivateKey(data []byte, passphrase PassphraseFunc) (any, error) {
	key, err := ssh.ParseRawPrivateKey(data)

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		if passphrase == nil {
			return nil, fmt.Errorf("%w: %w", kerrors.ErrKeyLoad, kerrors.ErrPassphraseRequired)
		}
		pass, passErr := passphrase()
		if passErr != nil {
			return nil, fmt.Errorf("%w: %w: %v", kerrors.ErrKeyLoad, kerrors.ErrPassphraseRequired, passErr)
		}
		key, err = ssh.ParseRawPrivateKeyWithPassphrase(data, pass)
	}
	if err != nil {
		return nil, err
	}
	return key, nil
}

// Fingerprint returns the OpenSSH SHA256 fingerprint of pub, so participants
// can confirm the operator holds the right public key.
func Fingerprint(pub *rsa.PublicKey) (string, error) {
	sshKey, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to convert public key: %w", err)
	}
	return ssh.FingerprintSHA256(sshKey), nil
}

// GenerateKeyPair creates a new RSA key pair and saves it to disk as a
// PKCS#8 private key and a PKIX public key. Existing files are kept unless
// force is set.
func GenerateKeyPair(privatePath, publicPath string, bits int, force bool) (*rsa.PublicKey, error) {
	if bits < MinKeyBits {
		return nil, fmt.Errorf("%w: %d bits, minimum is %d", kerrors.ErrKeyTooSmall, bits, MinKeyBits)
	}

	if !force {
		for _, path := range []string{privatePath, publicPath} {
			if _, err := os.Stat(path); err == nil {
				return nil, fmt.Errorf("%w: %s", kerrors.ErrKeyExists, path)
			}
		}
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	privBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	pubBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	for _, dir := range []string{filepath.Dir(privatePath), filepath.Dir(publicPath)} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	privPem := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privBytes})
	if err := writeFileAtomic(privatePath, privPem, 0600); err != nil {
		return nil, fmt.Errorf("failed to save private key: %w", err)
	}

	pubPem := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	// #nosec G306 -- public keys are meant to be shared
	if err := writeFileAtomic(publicPath, pubPem, 0644); err != nil {
		return nil, fmt.Errorf("failed to save public key: %w", err)
	}

	return &privateKey.PublicKey, nil
}
