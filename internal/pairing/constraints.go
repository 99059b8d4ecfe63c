package pairing

import (
	"fmt"

	kerrors "github.com/PolarWolf314/kringle/internal/errors"
)

// Constraints is the exclusion predicate applied to candidate pairings.
type Constraints struct {
	// GroupOf maps every participant to its exclusion group.
	GroupOf map[Participant]GroupID

	// NoReciprocal rejects pairings where two people give to each other.
	NoReciprocal bool
}

// Allows reports whether giver may buy for receiver. It ignores NoReciprocal,
// which depends on the rest of the pairing.
func (c Constraints) Allows(giver, receiver Participant) bool {
	if giver == receiver {
		return false
	}
	return c.GroupOf[giver] != c.GroupOf[receiver]
}

// Check validates the participant list against the constraints before any
// sampling happens.
func (c Constraints) Check(participants []Participant) error {
	if len(participants) < 2 {
		return fmt.Errorf("%w: need at least 2 participants, got %d", kerrors.ErrInvalidConfig, len(participants))
	}

	seen := make(map[Participant]bool, len(participants))
	for _, p := range participants {
		if p == "" {
			return fmt.Errorf("%w: participant with an empty name", kerrors.ErrInvalidConfig)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate participant %q", kerrors.ErrInvalidConfig, p)
		}
		seen[p] = true

		if group, ok := c.GroupOf[p]; !ok || group == "" {
			return fmt.Errorf("%w: participant %q has no group", kerrors.ErrInvalidConfig, p)
		}
	}

	return nil
}

// validPermutation is the validity predicate on index form: giver i buys for
// participants[perm[i]].
func (c Constraints) validPermutation(participants []Participant, perm []int) bool {
	for i, j := range perm {
		if i == j {
			return false
		}
		if c.GroupOf[participants[i]] == c.GroupOf[participants[j]] {
			return false
		}
		if c.NoReciprocal && perm[j] == i {
			return false
		}
	}
	return true
}

// Validate checks that p is a bijection over its own givers and satisfies
// every rule.
func (c Constraints) Validate(p *Pairing) error {
	received := make(map[Participant]Participant, p.Len())
	for _, pair := range p.Pairs() {
		if !c.Allows(pair.Giver, pair.Receiver) {
			return fmt.Errorf("%w: %q may not give to %q", kerrors.ErrInvalidPairing, pair.Giver, pair.Receiver)
		}
		if _, isGiver := p.receivers[pair.Receiver]; !isGiver {
			return fmt.Errorf("%w: %q is not a participant", kerrors.ErrInvalidPairing, pair.Receiver)
		}
		if other, dup := received[pair.Receiver]; dup {
			return fmt.Errorf("%w: %q receives from both %q and %q", kerrors.ErrInvalidPairing, pair.Receiver, other, pair.Giver)
		}
		received[pair.Receiver] = pair.Giver

		if c.NoReciprocal && p.receivers[pair.Receiver] == pair.Giver {
			return fmt.Errorf("%w: %q and %q give to each other", kerrors.ErrInvalidPairing, pair.Giver, pair.Receiver)
		}
	}
	return nil
}
