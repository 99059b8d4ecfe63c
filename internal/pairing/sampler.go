package pairing

import (
	"fmt"

	kerrors "github.com/PolarWolf314/kringle/internal/errors"
)

// DefaultMaxAttempts is the attempt ceiling used when none is configured.
const DefaultMaxAttempts = 1_000_000

// Sampler draws uniformly random valid pairings by rejection sampling.
type Sampler struct {
	// Random supplies the shuffles. Nil means NewRandomizer().
	Random Randomizer

	// MaxAttempts bounds the number of candidates drawn. Zero or less means
	// DefaultMaxAttempts.
	MaxAttempts int
}

// Result is the outcome of a successful Sample.
type Result struct {
	Pairing *Pairing

	// Attempts counts candidates drawn, including the accepted one.
	Attempts int
}

// NewSampler creates a Sampler with the given random source and ceiling.
func NewSampler(random Randomizer, maxAttempts int) *Sampler {
	return &Sampler{Random: random, MaxAttempts: maxAttempts}
}

func (s *Sampler) maxAttempts() int {
	if s.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return s.MaxAttempts
}

// Sample returns the first candidate permutation that satisfies c.
//
// Returns ErrInvalidConfig if the participant list fails Constraints.Check.
// Returns ErrExhaustedAttempts if no valid candidate was drawn within
// MaxAttempts.
func (s *Sampler) Sample(participants []Participant, c Constraints) (*Result, error) {
	if err := c.Check(participants); err != nil {
		return nil, err
	}

	random := s.Random
	if random == nil {
		random = NewRandomizer()
	}

	n := len(participants)
	limit := s.maxAttempts()
	perm := make([]int, n)
	swap := func(i, j int) { perm[i], perm[j] = perm[j], perm[i] }

	for attempt := 1; attempt <= limit; attempt++ {
		for i := range perm {
			perm[i] = i
		}
		random.Shuffle(n, swap)

		if c.validPermutation(participants, perm) {
			return &Result{Pairing: newPairing(participants, perm), Attempts: attempt}, nil
		}
	}

	return nil, fmt.Errorf("%w: gave up after %d attempts over %d participants", kerrors.ErrExhaustedAttempts, limit, n)
}
