package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	kerrors "github.com/PolarWolf314/kringle/internal/errors"
	"github.com/PolarWolf314/kringle/internal/pairing"
	"github.com/PolarWolf314/kringle/internal/utils"
)

// Config is a loaded kringle.toml: one exchange and its participants.
type Config struct {
	Exchange     Exchange      `toml:"exchange"`
	Participants []Participant `toml:"participants" validate:"min=2,unique=Name,dive"`

	// path is the absolute location the config was loaded from. Relative
	// paths inside the file resolve against its directory.
	path string
}

// Exchange holds the [exchange] table. Empty fields take their defaults.
type Exchange struct {
	Name           string `toml:"name" validate:"required"`
	MaxAttempts    int    `toml:"max_attempts,omitempty,omitzero" validate:"gte=1"`
	NoReciprocal   bool   `toml:"no_reciprocal,omitempty"`
	KeysDir        string `toml:"keys_dir,omitempty"`
	AssignmentsDir string `toml:"assignments_dir,omitempty"`
	AuditLog       string `toml:"audit_log,omitempty"`
}

// Participant is one [[participants]] entry.
type Participant struct {
	Name       string `toml:"name" validate:"required"`
	Group      string `toml:"group" validate:"required"`
	PublicKey  string `toml:"public_key,omitempty"`
	Assignment string `toml:"assignment,omitempty"`
}

// New returns a config rooted at path with defaults applied.
func New(path, name string, participants []Participant) *Config {
	cfg := &Config{
		Exchange:     Exchange{Name: name},
		Participants: participants,
		path:         path,
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads, defaults and validates the config at path.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrConfigNotFound, abs)
		}
		return nil, fmt.Errorf("failed to stat config %s: %w", abs, err)
	}

	cfg := &Config{}
	if err := LoadTOML(abs, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, abs, err)
	}
	cfg.path = abs
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to its path. The file must not exist unless force
// is set.
func (c *Config) Save(force bool) error {
	if c.path == "" {
		return errors.New("config has no path")
	}
	if !force {
		if _, err := os.Stat(c.path); err == nil {
			return fmt.Errorf("%w: %s", kerrors.ErrConfigExists, c.path)
		}
	}

	// Defaults stay implicit in the written file.
	out := *c
	if out.Exchange.MaxAttempts == pairing.DefaultMaxAttempts {
		out.Exchange.MaxAttempts = 0
	}
	if out.Exchange.KeysDir == DefaultKeysDir {
		out.Exchange.KeysDir = ""
	}
	if out.Exchange.AssignmentsDir == DefaultAssignmentsDir {
		out.Exchange.AssignmentsDir = ""
	}
	if out.Exchange.AuditLog == DefaultAuditLog {
		out.Exchange.AuditLog = ""
	}

	if err := SaveTOML(c.path, out); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Exchange.MaxAttempts == 0 {
		c.Exchange.MaxAttempts = pairing.DefaultMaxAttempts
	}
	if c.Exchange.KeysDir == "" {
		c.Exchange.KeysDir = DefaultKeysDir
	}
	if c.Exchange.AssignmentsDir == "" {
		c.Exchange.AssignmentsDir = DefaultAssignmentsDir
	}
	if c.Exchange.AuditLog == "" {
		c.Exchange.AuditLog = DefaultAuditLog
	}
}

// Validate checks the struct tags, then the rules tags cannot express: no
// group may hold more than half the participants, and no two participants
// may share an assignment file.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", kerrors.ErrInvalidConfig, describeValidation(err))
	}

	groups := make(map[string]int)
	for _, p := range c.Participants {
		groups[p.Group]++
	}
	n := len(c.Participants)
	for group, size := range groups {
		if 2*size > n {
			return fmt.Errorf("%w: group %q holds %d of %d participants, so no valid pairing exists",
				kerrors.ErrInvalidConfig, group, size, n)
		}
	}

	owners := make(map[string]string)
	for _, p := range c.Participants {
		path := filepath.Clean(c.AssignmentPath(p))
		if other, ok := owners[path]; ok {
			return fmt.Errorf("%w: participants %q and %q share the assignment file %s",
				kerrors.ErrInvalidConfig, other, p.Name, path)
		}
		owners[path] = p.Name
	}

	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entries", field, fe.Param()))
		case "unique":
			msgs = append(msgs, fmt.Sprintf("%s must have unique %s values", field, strings.ToLower(fe.Param())))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// Path returns the absolute path of the config file.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory relative paths resolve against.
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// PublicKeyPath returns where p's public key is read from.
func (c *Config) PublicKeyPath(p Participant) string {
	if p.PublicKey != "" {
		return utils.ResolvePath(c.Dir(), p.PublicKey)
	}
	return filepath.Join(c.KeysDir(), utils.SanitizeFileName(p.Name)+".pub")
}

// AssignmentPath returns where p's sealed assignment is written.
func (c *Config) AssignmentPath(p Participant) string {
	if p.Assignment != "" {
		return utils.ResolvePath(c.Dir(), p.Assignment)
	}
	return filepath.Join(c.AssignmentsDir(), utils.SanitizeFileName(p.Name))
}

// KeysDir returns the directory public keys are read from.
func (c *Config) KeysDir() string {
	return utils.ResolvePath(c.Dir(), c.Exchange.KeysDir)
}

// AssignmentsDir returns the default directory for sealed records.
func (c *Config) AssignmentsDir() string {
	return utils.ResolvePath(c.Dir(), c.Exchange.AssignmentsDir)
}

// AuditLogPath returns the resolved audit log location.
func (c *Config) AuditLogPath() string {
	return utils.ResolvePath(c.Dir(), c.Exchange.AuditLog)
}

// Find returns the participant with the given name.
func (c *Config) Find(name string) (Participant, bool) {
	for _, p := range c.Participants {
		if p.Name == name {
			return p, true
		}
	}
	return Participant{}, false
}

// PairingInput converts the participant table into sampler input, in
// configuration order.
func (c *Config) PairingInput() ([]pairing.Participant, pairing.Constraints) {
	participants := make([]pairing.Participant, 0, len(c.Participants))
	groupOf := make(map[pairing.Participant]pairing.GroupID, len(c.Participants))
	for _, p := range c.Participants {
		id := pairing.Participant(p.Name)
		participants = append(participants, id)
		groupOf[id] = pairing.GroupID(p.Group)
	}
	return participants, pairing.Constraints{
		GroupOf:      groupOf,
		NoReciprocal: c.Exchange.NoReciprocal,
	}
}
