package workflows

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/kringle/internal/utils"
)

var (
	keyPool     []*rsa.PrivateKey
	keyPoolOnce sync.Once
	keyPoolErr  error
)

// poolKey returns one of eight shared 2048-bit keys.
func poolKey(t *testing.T, index int) *rsa.PrivateKey {
	t.Helper()
	keyPoolOnce.Do(func() {
		for range 8 {
			key, err := rsa.GenerateKey(rand.Reader, 2048)
			if err != nil {
				keyPoolErr = err
				return
			}
			keyPool = append(keyPool, key)
		}
	})
	require.NoError(t, keyPoolErr)
	return keyPool[index%len(keyPool)]
}

type member struct {
	Name  string
	Group string
}

// exchange is a test exchange directory with one key pair per member.
type exchange struct {
	Dir         string
	ConfigPath  string
	PrivateKeys map[string]string
}

func (e *exchange) recordPath(name string) string {
	return filepath.Join(e.Dir, "assignments", utils.SanitizeFileName(name))
}

// newExchange writes a config and key pairs for members. Public keys are
// skipped for any name in withoutKey.
func newExchange(t *testing.T, extra string, members []member, withoutKey ...string) *exchange {
	t.Helper()
	dir := t.TempDir()

	skip := make(map[string]bool)
	for _, name := range withoutKey {
		skip[name] = true
	}

	var b strings.Builder
	b.WriteString("[exchange]\nname = \"Test Exchange\"\n")
	b.WriteString(extra)
	for _, m := range members {
		fmt.Fprintf(&b, "\n[[participants]]\nname = %q\ngroup = %q\n", m.Name, m.Group)
	}
	configPath := filepath.Join(dir, "kringle.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(b.String()), 0600))

	keysDir := filepath.Join(dir, "keys")
	privDir := filepath.Join(dir, "private")
	require.NoError(t, os.MkdirAll(keysDir, 0700))
	require.NoError(t, os.MkdirAll(privDir, 0700))

	ex := &exchange{Dir: dir, ConfigPath: configPath, PrivateKeys: make(map[string]string)}
	for i, m := range members {
		key := poolKey(t, i)
		file := utils.SanitizeFileName(m.Name)

		privDER, err := x509.MarshalPKCS8PrivateKey(key)
		require.NoError(t, err)
		privPath := filepath.Join(privDir, file)
		require.NoError(t, os.WriteFile(privPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER}), 0600))
		ex.PrivateKeys[m.Name] = privPath

		if skip[m.Name] {
			continue
		}
		pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(keysDir, file+".pub"), pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}), 0600))
	}

	return ex
}

var fourCouples = []member{
	{"Chris", "1"}, {"Kate", "1"},
	{"Haley", "2"}, {"Devon", "2"},
	{"Amelia", "3"}, {"Caitlin", "3"},
	{"Zuz", "4"}, {"Oscar", "4"},
}
