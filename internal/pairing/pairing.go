package pairing

import (
	"strings"
)

// Participant is the opaque, unique name of a group member.
type Participant string

// GroupID identifies an exclusion group such as a couple or household.
type GroupID string

// Pair is one giver→receiver entry of a pairing.
type Pair struct {
	Giver    Participant
	Receiver Participant
}

// Pairing is an accepted giver→receiver bijection. It is immutable.
type Pairing struct {
	givers    []Participant
	receivers map[Participant]Participant
}

// newPairing builds the pairing giver participants[i] → participants[perm[i]].
func newPairing(participants []Participant, perm []int) *Pairing {
	p := &Pairing{
		givers:    make([]Participant, len(participants)),
		receivers: make(map[Participant]Participant, len(participants)),
	}
	copy(p.givers, participants)
	for i, giver := range participants {
		p.receivers[giver] = participants[perm[i]]
	}
	return p
}

// Len returns the number of participants in the pairing.
func (p *Pairing) Len() int {
	return len(p.givers)
}

// Receiver returns who giver buys for.
func (p *Pairing) Receiver(giver Participant) (Participant, bool) {
	r, ok := p.receivers[giver]
	return r, ok
}

// Pairs returns every entry in the order the participants were supplied.
func (p *Pairing) Pairs() []Pair {
	pairs := make([]Pair, len(p.givers))
	for i, giver := range p.givers {
		pairs[i] = Pair{Giver: giver, Receiver: p.receivers[giver]}
	}
	return pairs
}

// Key returns a canonical string form of the pairing, "giver>receiver"
// entries joined by commas in giver order. Two pairings over the same
// participant order are equal exactly when their keys are equal.
func (p *Pairing) Key() string {
	var b strings.Builder
	for i, giver := range p.givers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(giver))
		b.WriteByte('>')
		b.WriteString(string(p.receivers[giver]))
	}
	return b.String()
}
