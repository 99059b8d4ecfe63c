package pairing

import (
	"math/rand/v2"
)

// Randomizer shuffles n elements through swap. Implementations must make every
// permutation equally likely. They do not need to be unpredictable.
type Randomizer interface {
	Shuffle(n int, swap func(i, j int))
}

type globalRandomizer struct{}

func (globalRandomizer) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// NewRandomizer returns a Randomizer backed by the runtime-seeded math/rand/v2
// generator. It is safe for concurrent use.
func NewRandomizer() Randomizer {
	return globalRandomizer{}
}

type seededRandomizer struct {
	rnd *rand.Rand
}

func (r *seededRandomizer) Shuffle(n int, swap func(i, j int)) {
	r.rnd.Shuffle(n, swap)
}

// NewSeededRandomizer returns a deterministic Randomizer. Two randomizers with
// the same seed produce the same sequence of shuffles. Not safe for
// concurrent use.
func NewSeededRandomizer(seed uint64) Randomizer {
	return &seededRandomizer{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}
