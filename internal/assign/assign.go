// Package assign draws the giver -> receiver mapping for a session.
package assign

import (
	"math/rand/v2"
)

// Rotation shuffles ids uniformly at random and assigns every id the next
// one in the shuffled order, wrapping the last back to the first. The result
// is a single cycle over all ids: everyone gives exactly once, receives
// exactly once, and nobody draws themselves. For two ids this is a mutual
// swap.
//
// ids must hold at least two distinct values; callers enforce the minimum.
func Rotation(ids []int64) map[int64]int64 {
	if len(ids) < 2 {
		return nil
	}

	shuffled := make([]int64, len(ids))
	copy(shuffled, ids)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	targets := make(map[int64]int64, len(shuffled))
	for i, giver := range shuffled {
		targets[giver] = shuffled[(i+1)%len(shuffled)]
	}
	return targets
}
