package secrets

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
)

var (
	testKeysOnce sync.Once
	testKeys     [2]*rsa.PrivateKey
	testKeysErr  error
)

// testKeyPair returns one of two cached 2048-bit keys so tests do not pay for
// key generation repeatedly.
func testKeyPair(t *testing.T, index int) *rsa.PrivateKey {
	t.Helper()
	testKeysOnce.Do(func() {
		for i := range testKeys {
			testKeys[i], testKeysErr = rsa.GenerateKey(rand.Reader, MinKeyBits)
			if testKeysErr != nil {
				return
			}
		}
	})
	if testKeysErr != nil {
		t.Fatalf("failed to generate RSA key: %v", testKeysErr)
	}
	return testKeys[index]
}
