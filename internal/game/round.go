package game

import (
	"errors"
	"fmt"

	rand "math/rand/v2"

	"github.com/mth/switcheroo/internal/pool"
)

// ErrRangeExhausted is returned when no substitute value exists outside the
// drawn set. It only happens when rangeMax <= tileCount, which callers are
// expected to rule out; the bounded sampling loop turns that misconfiguration
// into a loud error instead of spinning forever.
var ErrRangeExhausted = errors.New("no substitute value available in range")

// maxSubstituteAttempts bounds the rejection-sampling loop in BuildRound.
const maxSubstituteAttempts = 10000

// Round is one memorize/recall cycle. It is built once per round and never
// mutated afterwards; a new round replaces it wholesale.
type Round struct {
	// Original holds the unique values as first shown, in draw order.
	Original []int

	// RecallLayout is Original shuffled with exactly one value substituted.
	RecallLayout []int

	// ChangedIndex is the position in RecallLayout holding the substituted
	// value.
	ChangedIndex int

	// ChangedValue is the substituted value. It never appears in Original.
	ChangedValue int
}

// Generator builds rounds from an injected random source. A seeded source
// makes round construction fully reproducible.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a round generator backed by rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// BuildRound draws tileCount unique values from [1, rangeMax], substitutes one
// of them with a value absent from the set, shuffles, and records where the
// substitute landed.
//
// rangeMax > tileCount is a configuration precondition: at least one value
// outside the drawn set must exist for the substitute to be sampled.
func (g *Generator) BuildRound(tileCount, rangeMax int) (*Round, error) {
	original := pool.Draw(g.rng, tileCount, rangeMax)
	if len(original) == 0 {
		return nil, fmt.Errorf("building round: empty number set (tileCount=%d rangeMax=%d)", tileCount, rangeMax)
	}

	changeAt := g.rng.IntN(len(original))
	replaced := original[changeAt]

	changed := 0
	found := false
	for range maxSubstituteAttempts {
		candidate := g.rng.IntN(rangeMax) + 1
		// The replaced-value check is redundant given the set membership
		// check, but it is the guard the rules demand: the substitute must
		// differ from the value it displaces.
		if pool.Contains(original, candidate) || candidate == replaced {
			continue
		}
		changed = candidate
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("building round (tileCount=%d rangeMax=%d): %w", tileCount, rangeMax, ErrRangeExhausted)
	}

	layout := make([]int, len(original))
	copy(layout, original)
	layout[changeAt] = changed

	g.rng.Shuffle(len(layout), func(i, j int) {
		layout[i], layout[j] = layout[j], layout[i]
	})

	changedIndex := -1
	for i, v := range layout {
		if v == changed {
			changedIndex = i
			break
		}
	}

	return &Round{
		Original:     original,
		RecallLayout: layout,
		ChangedIndex: changedIndex,
		ChangedValue: changed,
	}, nil
}
