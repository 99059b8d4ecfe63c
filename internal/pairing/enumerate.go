package pairing

import (
	"fmt"
	"math/big"
)

// MaxEnumerable is the largest group Enumerate and CountValid will walk.
const MaxEnumerable = 10

// Enumerate calls visit once for every valid pairing, in lexicographic order
// of receiver indices. Returning false from visit stops the walk.
func Enumerate(participants []Participant, c Constraints, visit func(*Pairing) bool) error {
	if err := c.Check(participants); err != nil {
		return err
	}
	if len(participants) > MaxEnumerable {
		return fmt.Errorf("cannot enumerate %d participants, limit is %d", len(participants), MaxEnumerable)
	}

	walk(participants, c, func(perm []int) bool {
		return visit(newPairing(participants, perm))
	})
	return nil
}

// CountValid returns the number of valid pairings.
func CountValid(participants []Participant, c Constraints) (int64, error) {
	if err := c.Check(participants); err != nil {
		return 0, err
	}
	if len(participants) > MaxEnumerable {
		return 0, fmt.Errorf("cannot enumerate %d participants, limit is %d", len(participants), MaxEnumerable)
	}

	var count int64
	walk(participants, c, func([]int) bool {
		count++
		return true
	})
	return count, nil
}

// ExpectedAttempts returns n!/valid, the mean number of draws Sample needs.
// It returns 0 when valid is 0.
func ExpectedAttempts(n int, valid int64) float64 {
	if valid <= 0 {
		return 0
	}
	total := new(big.Float).SetInt(new(big.Int).MulRange(1, int64(n)))
	ratio, _ := total.Quo(total, new(big.Float).SetInt64(valid)).Float64()
	return ratio
}

// walk assigns receivers giver by giver, pruning any partial assignment that
// already breaks a rule.
func walk(participants []Participant, c Constraints, visit func(perm []int) bool) {
	n := len(participants)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = -1
	}
	used := make([]bool, n)

	var step func(i int) bool
	step = func(i int) bool {
		if i == n {
			return visit(perm)
		}
		for j := 0; j < n; j++ {
			if used[j] || !c.Allows(participants[i], participants[j]) {
				continue
			}
			if c.NoReciprocal && j < i && perm[j] == i {
				continue
			}
			perm[i] = j
			used[j] = true
			keepGoing := step(i + 1)
			used[j] = false
			perm[i] = -1
			if !keepGoing {
				return false
			}
		}
		return true
	}
	step(0)
}
