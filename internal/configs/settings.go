package configs

import (
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/kringle/internal/errors"
	"github.com/PolarWolf314/kringle/internal/utils"
)

const (
	// DefaultConfigFile is the file name searched for when no path is given.
	DefaultConfigFile = "kringle.toml"

	// ConfigEnvVar overrides discovery with an explicit config path.
	ConfigEnvVar = "KRINGLE_CONFIG"

	DefaultKeysDir        = "keys"
	DefaultAssignmentsDir = "assignments"
	DefaultAuditLog       = "kringle-audit.jsonl"
)

// ResolveConfigPath picks the configuration file to use. An explicit flag
// wins, then the environment, then the nearest kringle.toml above the
// working directory.
func ResolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}

	if env := os.Getenv(ConfigEnvVar); env != "" {
		return filepath.Abs(env)
	}

	found, err := utils.FindConfigFile(DefaultConfigFile)
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("%w: no %s in this directory or any parent (set --config or %s)",
			kerrors.ErrConfigNotFound, DefaultConfigFile, ConfigEnvVar)
	}
	return found, nil
}

// DefaultInitPath is where init writes a new config when no path is given.
func DefaultInitPath(flagValue string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}
	if env := os.Getenv(ConfigEnvVar); env != "" {
		return filepath.Abs(env)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, DefaultConfigFile), nil
}
