package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/kringle/internal/errors"
)

// couples returns 2n participants grouped as consecutive pairs.
func couples(names ...Participant) ([]Participant, Constraints) {
	groupOf := make(map[Participant]GroupID, len(names))
	for i, name := range names {
		groupOf[name] = GroupID(rune('1' + i/2))
	}
	return names, Constraints{GroupOf: groupOf}
}

// singletons returns participants that each sit in their own group.
func singletons(names ...Participant) ([]Participant, Constraints) {
	groupOf := make(map[Participant]GroupID, len(names))
	for _, name := range names {
		groupOf[name] = GroupID(name)
	}
	return names, Constraints{GroupOf: groupOf}
}

func TestSampleProducesValidBijection(t *testing.T) {
	participants, c := couples("A", "B", "C", "D", "E", "F", "G", "H")
	sampler := NewSampler(NewSeededRandomizer(1), 0)

	for run := 0; run < 200; run++ {
		result, err := sampler.Sample(participants, c)
		require.NoError(t, err)
		require.NotNil(t, result.Pairing)
		assert.GreaterOrEqual(t, result.Attempts, 1)

		p := result.Pairing
		require.Equal(t, len(participants), p.Len())

		receivedBy := make(map[Participant]int)
		for _, pair := range p.Pairs() {
			receivedBy[pair.Receiver]++
			assert.NotEqual(t, pair.Giver, pair.Receiver, "self assignment")
			assert.NotEqual(t, c.GroupOf[pair.Giver], c.GroupOf[pair.Receiver], "same group assignment")
		}
		for _, name := range participants {
			assert.Equal(t, 1, receivedBy[name], "%s should receive exactly once", name)
		}
		require.NoError(t, c.Validate(p))
	}
}

func TestSamplePreservesGiverOrder(t *testing.T) {
	participants, c := singletons("Chris", "Zuz", "Haley")
	result, err := NewSampler(NewSeededRandomizer(7), 0).Sample(participants, c)
	require.NoError(t, err)

	pairs := result.Pairing.Pairs()
	for i, pair := range pairs {
		assert.Equal(t, participants[i], pair.Giver)
		receiver, ok := result.Pairing.Receiver(pair.Giver)
		assert.True(t, ok)
		assert.Equal(t, pair.Receiver, receiver)
	}

	_, ok := result.Pairing.Receiver("Nobody")
	assert.False(t, ok)
}

func TestSampleInfeasibleExhaustsAttempts(t *testing.T) {
	participants := []Participant{"Doug", "Katie"}
	c := Constraints{GroupOf: map[Participant]GroupID{"Doug": "4", "Katie": "4"}}

	result, err := NewSampler(NewSeededRandomizer(3), 500).Sample(participants, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, kerrors.ErrExhaustedAttempts)
	assert.Nil(t, result)
}

func TestSampleNoReciprocalTwoPeopleExhausts(t *testing.T) {
	participants, c := singletons("A", "B")
	c.NoReciprocal = true

	_, err := NewSampler(NewSeededRandomizer(3), 100).Sample(participants, c)
	assert.ErrorIs(t, err, kerrors.ErrExhaustedAttempts)
}

func TestSampleNoReciprocal(t *testing.T) {
	participants, c := couples("A", "B", "C", "D", "E", "F")
	c.NoReciprocal = true
	sampler := NewSampler(NewSeededRandomizer(11), 0)

	for run := 0; run < 200; run++ {
		result, err := sampler.Sample(participants, c)
		require.NoError(t, err)
		for _, pair := range result.Pairing.Pairs() {
			back, _ := result.Pairing.Receiver(pair.Receiver)
			assert.NotEqual(t, pair.Giver, back, "%s and %s give to each other", pair.Giver, pair.Receiver)
		}
	}
}

func TestSampleRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name         string
		participants []Participant
		groupOf      map[Participant]GroupID
	}{
		{"NoParticipants", nil, map[Participant]GroupID{}},
		{"OneParticipant", []Participant{"A"}, map[Participant]GroupID{"A": "1"}},
		{"MissingGroup", []Participant{"A", "B"}, map[Participant]GroupID{"A": "1"}},
		{"EmptyGroup", []Participant{"A", "B"}, map[Participant]GroupID{"A": "1", "B": ""}},
		{"Duplicate", []Participant{"A", "A", "B"}, map[Participant]GroupID{"A": "1", "B": "2"}},
		{"EmptyName", []Participant{"A", ""}, map[Participant]GroupID{"A": "1", "": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSampler(NewSeededRandomizer(1), 10).Sample(tt.participants, Constraints{GroupOf: tt.groupOf})
			assert.ErrorIs(t, err, kerrors.ErrInvalidConfig)
		})
	}
}

func TestSampleDefaultsWithoutRandomizer(t *testing.T) {
	participants, c := singletons("A", "B", "C", "D")
	result, err := (&Sampler{}).Sample(participants, c)
	require.NoError(t, err)
	require.NoError(t, c.Validate(result.Pairing))
}

func TestSeededRandomizerIsDeterministic(t *testing.T) {
	participants, c := couples("A", "B", "C", "D", "E", "F", "G", "H")

	first, err := NewSampler(NewSeededRandomizer(42), 0).Sample(participants, c)
	require.NoError(t, err)
	second, err := NewSampler(NewSeededRandomizer(42), 0).Sample(participants, c)
	require.NoError(t, err)

	assert.Equal(t, first.Pairing.Key(), second.Pairing.Key())
	assert.Equal(t, first.Attempts, second.Attempts)
}

// chiSquared returns the chi-squared statistic of observed counts against a
// uniform expectation over categories.
func chiSquared(observed map[string]int, categories int, samples int) float64 {
	expected := float64(samples) / float64(categories)
	var stat float64
	for _, count := range observed {
		d := float64(count) - expected
		stat += d * d / expected
	}
	// Categories never drawn contribute the full expectation.
	stat += float64(categories-len(observed)) * expected
	return stat
}

func TestSampleIsUniform(t *testing.T) {
	tests := []struct {
		name         string
		participants []Participant
		c            Constraints
		wantValid    int64
		// critical is the chi-squared value at p=0.001 for wantValid-1 degrees of freedom.
		critical float64
	}{
		{
			name:      "FourSingletons",
			wantValid: 9,
			critical:  26.12,
		},
		{
			name:      "ThreeCouples",
			wantValid: 80,
			critical:  124.8,
		},
		{
			name:      "ThreeCouplesNoReciprocal",
			wantValid: 48,
			critical:  82.72,
		},
	}
	tests[0].participants, tests[0].c = singletons("A", "B", "C", "D")
	tests[1].participants, tests[1].c = couples("A", "B", "C", "D", "E", "F")
	tests[2].participants, tests[2].c = couples("A", "B", "C", "D", "E", "F")
	tests[2].c.NoReciprocal = true

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid := make(map[string]bool)
			require.NoError(t, Enumerate(tt.participants, tt.c, func(p *Pairing) bool {
				valid[p.Key()] = true
				return true
			}))
			require.Len(t, valid, int(tt.wantValid))

			samples := int(tt.wantValid) * 300
			observed := make(map[string]int)
			sampler := NewSampler(NewSeededRandomizer(2026), 0)
			for i := 0; i < samples; i++ {
				result, err := sampler.Sample(tt.participants, tt.c)
				require.NoError(t, err)
				key := result.Pairing.Key()
				require.True(t, valid[key], "sampled pairing %s is not valid", key)
				observed[key]++
			}

			stat := chiSquared(observed, int(tt.wantValid), samples)
			assert.Less(t, stat, tt.critical, "distribution over valid pairings is not uniform")
		})
	}
}
