package workflows

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/PolarWolf314/kringle/internal/audit"
	"github.com/PolarWolf314/kringle/internal/configs"
	kerrors "github.com/PolarWolf314/kringle/internal/errors"
	"github.com/PolarWolf314/kringle/internal/metrics"
	"github.com/PolarWolf314/kringle/internal/pairing"
	"github.com/PolarWolf314/kringle/internal/secrets"
)

// AssignOptions configures the assign workflow.
type AssignOptions struct {
	// ConfigPath is the resolved path of kringle.toml.
	ConfigPath string

	// RevealMapping copies the plaintext mapping into the result. This is a
	// debugging aid and defeats confidentiality for whoever sees the output.
	RevealMapping bool

	// Parallel bounds the number of concurrent seals. Zero means one per CPU.
	Parallel int

	// Random overrides the shuffle source. Nil uses an OS-seeded source.
	Random pairing.Randomizer

	// Metrics receives run metrics. May be nil.
	Metrics *metrics.Metrics
}

// AssignedRecord describes one sealed record without revealing its contents.
type AssignedRecord struct {
	Giver       string
	Path        string
	Fingerprint string
}

// AssignResult contains the outcome of an assign operation.
type AssignResult struct {
	// RunID identifies this run in the audit log.
	RunID string

	// Exchange is the exchange name from the config.
	Exchange string

	// Attempts is the number of candidate permutations drawn.
	Attempts int

	// Records lists the written records in configuration order.
	Records []AssignedRecord

	// Mapping is only populated when RevealMapping was set.
	Mapping []pairing.Pair

	// AuditLogPath is where the run was recorded.
	AuditLogPath string
}

// Assign draws a valid pairing and seals each receiver name under the
// giver's public key.
//
// Every public key is loaded before sampling. Records are staged as temp
// files and only renamed into place once every seal has succeeded. The
// renames are committed as a group: if one fails, records from an earlier
// run are restored and no record from this run remains.
//
// Returns ErrInvalidConfig or ErrConfigNotFound if the config cannot be used.
// Returns ErrKeyLoad if any public key is missing or unusable.
// Returns ErrExhaustedAttempts if the sampler gives up.
// Returns ErrEncryptFailed or ErrPlaintextTooLong if a seal fails.
func Assign(ctx context.Context, opts AssignOptions) (result *AssignResult, err error) {
	start := time.Now()
	m := opts.Metrics
	defer func() {
		m.ObserveAssignDuration(time.Since(start))
		if err != nil {
			m.IncrementFailure(failureReason(err))
		}
	}()

	cfg, err := configs.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	keys, err := loadPublicKeys(cfg)
	if err != nil {
		return nil, err
	}

	participants, constraints := cfg.PairingInput()
	sampler := pairing.NewSampler(opts.Random, cfg.Exchange.MaxAttempts)
	sample, err := sampler.Sample(participants, constraints)
	if err != nil {
		return nil, err
	}
	m.SetSamplingAttempts(sample.Attempts)

	staged, err := sealAll(ctx, cfg, sample.Pairing, keys, opts.Parallel)
	if err != nil {
		return nil, err
	}

	if err := secrets.CommitAll(staged); err != nil {
		return nil, err
	}
	m.AddRecordsSealed(len(staged))

	result = &AssignResult{
		RunID:        uuid.New().String(),
		Exchange:     cfg.Exchange.Name,
		Attempts:     sample.Attempts,
		Records:      make([]AssignedRecord, len(cfg.Participants)),
		AuditLogPath: cfg.AuditLogPath(),
	}

	files := make([]string, len(cfg.Participants))
	for i, p := range cfg.Participants {
		fingerprint, _ := secrets.Fingerprint(keys[i])
		result.Records[i] = AssignedRecord{
			Giver:       p.Name,
			Path:        staged[i].Path,
			Fingerprint: fingerprint,
		}
		files[i] = staged[i].Path
	}

	if opts.RevealMapping {
		result.Mapping = sample.Pairing.Pairs()
	}

	entry := audit.LogWithUser(audit.OpAssign)
	entry.RunID = result.RunID
	entry.Exchange = result.Exchange
	entry.ParticipantsCount = len(cfg.Participants)
	entry.Attempts = sample.Attempts
	entry.Files = files
	entry.DebugReveal = opts.RevealMapping
	audit.Log(cfg.AuditLogPath(), entry)

	return result, nil
}

// loadPublicKeys loads every participant's key in configuration order. All
// failures are reported together.
func loadPublicKeys(cfg *configs.Config) ([]*rsa.PublicKey, error) {
	keys := make([]*rsa.PublicKey, len(cfg.Participants))
	var errs []error

	for i, p := range cfg.Participants {
		key, err := secrets.LoadPublicKey(cfg.PublicKeyPath(p))
		if err != nil {
			errs = append(errs, fmt.Errorf("participant %q: %w", p.Name, err))
			continue
		}
		keys[i] = key
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return keys, nil
}

// sealAll seals and stages one record per giver. On any failure every staged
// file is discarded.
func sealAll(ctx context.Context, cfg *configs.Config, p *pairing.Pairing, keys []*rsa.PublicKey, parallel int) ([]*secrets.StagedRecord, error) {
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	staged := make([]*secrets.StagedRecord, len(cfg.Participants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, participant := range cfg.Participants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			receiver, ok := p.Receiver(pairing.Participant(participant.Name))
			if !ok {
				return fmt.Errorf("%w: %q has no receiver", kerrors.ErrInvalidPairing, participant.Name)
			}

			ciphertext, err := secrets.Seal([]byte(receiver), keys[i])
			if err != nil {
				return fmt.Errorf("sealing record for %q: %w", participant.Name, err)
			}

			record, err := secrets.StageRecord(cfg.AssignmentPath(participant), ciphertext)
			if err != nil {
				return fmt.Errorf("staging record for %q: %w", participant.Name, err)
			}
			staged[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		discardAll(staged)
		return nil, err
	}
	return staged, nil
}

func discardAll(staged []*secrets.StagedRecord) {
	for _, record := range staged {
		if record != nil {
			_ = record.Discard()
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrInvalidConfig), errors.Is(err, kerrors.ErrConfigNotFound):
		return metrics.ReasonConfig
	case errors.Is(err, kerrors.ErrKeyLoad):
		return metrics.ReasonKeyLoad
	case errors.Is(err, kerrors.ErrExhaustedAttempts):
		return metrics.ReasonExhausted
	case errors.Is(err, kerrors.ErrEncryptFailed), errors.Is(err, kerrors.ErrPlaintextTooLong):
		return metrics.ReasonSeal
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ReasonCanceled
	default:
		return metrics.ReasonWrite
	}
}
