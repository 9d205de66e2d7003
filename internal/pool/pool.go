// Package pool draws unique random numbers from a bounded range. It is the
// source of the values shown on the tiles each round.
package pool

import (
	rand "math/rand/v2"
)

// Draw returns count distinct integers sampled uniformly without replacement
// from [1, rangeMax], in the order they were drawn. If count exceeds rangeMax
// the result is capped at rangeMax values rather than failing.
//
// Draw is pure over the provided random source, so a seeded *rand.Rand yields
// a reproducible sequence.
func Draw(rng *rand.Rand, count, rangeMax int) []int {
	if rangeMax < 0 {
		rangeMax = 0
	}
	if count < 0 {
		count = 0
	}
	if count > rangeMax {
		count = rangeMax
	}

	values := make([]int, count)
	for i, v := range rng.Perm(rangeMax)[:count] {
		values[i] = v + 1
	}
	return values
}

// Contains reports whether v is present in values.
func Contains(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
