package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/kringle/internal/audit"
	"github.com/PolarWolf314/kringle/internal/configs"
	kerrors "github.com/PolarWolf314/kringle/internal/errors"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// ConfigPath is where kringle.toml is written.
	ConfigPath string

	// Name is the exchange name. Defaults to "Secret Santa".
	Name string

	// Participants are NAME:GROUP pairs, in the order they should appear.
	Participants []string

	// NoReciprocal forbids two participants buying for each other.
	NoReciprocal bool

	// Force overwrites an existing config.
	Force bool
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	ConfigPath   string
	Participants int

	// KeysDir is where participants' public keys are expected.
	KeysDir string
}

// Init writes a starter exchange configuration.
//
// Returns ErrInvalidConfig if a participant is malformed or the table would
// fail validation.
// Returns ErrConfigExists if the file exists and Force is not set.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	name := opts.Name
	if name == "" {
		name = "Secret Santa"
	}

	participants := make([]configs.Participant, 0, len(opts.Participants))
	for _, raw := range opts.Participants {
		p, err := ParseParticipant(raw)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	cfg := configs.New(opts.ConfigPath, name, participants)
	cfg.Exchange.NoReciprocal = opts.NoReciprocal
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(opts.Force); err != nil {
		return nil, err
	}

	entry := audit.LogWithUser(audit.OpInit)
	entry.Exchange = name
	entry.ParticipantsCount = len(participants)
	audit.Log(cfg.AuditLogPath(), entry)

	return &InitResult{
		ConfigPath:   cfg.Path(),
		Participants: len(participants),
		KeysDir:      cfg.KeysDir(),
	}, nil
}

// ParseParticipant parses a NAME:GROUP argument. The group is taken after
// the last colon, so names may contain colons.
func ParseParticipant(raw string) (configs.Participant, error) {
	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return configs.Participant{}, fmt.Errorf("%w: participant %q must be NAME:GROUP", kerrors.ErrInvalidConfig, raw)
	}

	name := strings.TrimSpace(raw[:idx])
	group := strings.TrimSpace(raw[idx+1:])
	if name == "" || group == "" {
		return configs.Participant{}, fmt.Errorf("%w: participant %q must be NAME:GROUP", kerrors.ErrInvalidConfig, raw)
	}
	return configs.Participant{Name: name, Group: group}, nil
}
