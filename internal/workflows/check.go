package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/kringle/internal/configs"
	"github.com/PolarWolf314/kringle/internal/pairing"
	"github.com/PolarWolf314/kringle/internal/secrets"
)

// CheckOptions configures the check workflow.
type CheckOptions struct {
	// ConfigPath is the resolved path of kringle.toml.
	ConfigPath string
}

// KeyStatus describes one participant's public key.
type KeyStatus struct {
	Participant string
	Path        string
	Bits        int
	Fingerprint string

	// Err is set when the key could not be used.
	Err error
}

// CheckResult contains the outcome of a check operation.
type CheckResult struct {
	ConfigPath   string
	Exchange     string
	Participants int

	// Keys lists every participant's public key in configuration order.
	Keys []KeyStatus

	// ValidPairings is the number of valid pairings, or -1 when the group is
	// too large to enumerate.
	ValidPairings int64

	// ExpectedAttempts is the mean number of draws the sampler needs. Zero
	// when ValidPairings is unknown or zero.
	ExpectedAttempts float64

	// MaxAttempts is the configured ceiling.
	MaxAttempts int

	// ExistingRecords and MissingRecords partition the expected record paths.
	ExistingRecords []string
	MissingRecords  []string

	// OrphanFiles are files in the assignments directory that belong to
	// nobody, including leftover staged temp files.
	OrphanFiles []string

	// Problems lists everything that would make assign or reveal fail.
	Problems []string
}

// OK reports whether check found no problems.
func (r *CheckResult) OK() bool {
	return len(r.Problems) == 0
}

// Check inspects an exchange without sampling or sealing anything.
//
// A config that fails validation is returned as an error. Everything else
// is reported in CheckResult.Problems.
func Check(ctx context.Context, opts CheckOptions) (*CheckResult, error) {
	cfg, err := configs.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		ConfigPath:    cfg.Path(),
		Exchange:      cfg.Exchange.Name,
		Participants:  len(cfg.Participants),
		Keys:          make([]KeyStatus, len(cfg.Participants)),
		ValidPairings: -1,
		MaxAttempts:   cfg.Exchange.MaxAttempts,
	}

	longestName := 0
	for _, p := range cfg.Participants {
		longestName = max(longestName, len(p.Name))
	}

	for i, p := range cfg.Participants {
		status := KeyStatus{Participant: p.Name, Path: cfg.PublicKeyPath(p)}

		key, err := secrets.LoadPublicKey(status.Path)
		switch {
		case err != nil:
			status.Err = err
		case secrets.MaxPlaintextSize(key) < longestName:
			status.Err = fmt.Errorf("key is too small to seal a %d byte name", longestName)
		default:
			status.Bits = key.N.BitLen()
			status.Fingerprint, _ = secrets.Fingerprint(key)
		}

		if status.Err != nil {
			result.Problems = append(result.Problems, fmt.Sprintf("public key for %q: %v", p.Name, status.Err))
		}
		result.Keys[i] = status
	}

	participants, constraints := cfg.PairingInput()
	if len(participants) <= pairing.MaxEnumerable {
		count, err := pairing.CountValid(participants, constraints)
		if err != nil {
			return nil, err
		}
		result.ValidPairings = count
		result.ExpectedAttempts = pairing.ExpectedAttempts(len(participants), count)

		if count == 0 {
			result.Problems = append(result.Problems, "no valid pairing exists for these participants and rules")
		}
	}

	if err := checkRecords(cfg, result); err != nil {
		return nil, err
	}

	return result, nil
}

func checkRecords(cfg *configs.Config, result *CheckResult) error {
	expected := make(map[string]bool, len(cfg.Participants))
	for _, p := range cfg.Participants {
		path := filepath.Clean(cfg.AssignmentPath(p))
		expected[path] = true

		if _, err := os.Stat(path); err == nil {
			result.ExistingRecords = append(result.ExistingRecords, path)
		} else if errors.Is(err, os.ErrNotExist) {
			result.MissingRecords = append(result.MissingRecords, path)
		} else {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	// Records are committed together, so some present and some missing means
	// the directory was edited by hand or a commit was interrupted.
	if len(result.ExistingRecords) > 0 && len(result.MissingRecords) > 0 {
		result.Problems = append(result.Problems,
			fmt.Sprintf("%d of %d records are missing, run assign again", len(result.MissingRecords), len(cfg.Participants)))
	}

	files, err := secrets.FindRecordFiles(cfg.AssignmentsDir())
	if err != nil {
		return err
	}
	for _, f := range files {
		if expected[filepath.Clean(f)] {
			continue
		}
		result.OrphanFiles = append(result.OrphanFiles, f)
		if secrets.IsStagedTempFile(f) {
			result.Problems = append(result.Problems, fmt.Sprintf("leftover staged file %s", f))
		} else {
			result.Problems = append(result.Problems, fmt.Sprintf("%s does not belong to any participant", f))
		}
	}

	return nil
}
