package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotation(t *testing.T) {
	t.Run("two ids swap with each other", func(t *testing.T) {
		targets := Rotation([]int64{1, 2})
		require.Len(t, targets, 2)
		assert.Equal(t, int64(2), targets[1])
		assert.Equal(t, int64(1), targets[2])
	})

	t.Run("mapping is a bijection with no fixed point", func(t *testing.T) {
		ids := []int64{10, 20, 30, 40, 50, 60, 70}

		for trial := 0; trial < 50; trial++ {
			targets := Rotation(ids)
			require.Len(t, targets, len(ids))

			seen := make(map[int64]bool, len(ids))
			for _, giver := range ids {
				receiver, ok := targets[giver]
				require.True(t, ok, "giver %d has no target", giver)
				assert.NotEqual(t, giver, receiver, "giver %d assigned to themselves", giver)
				assert.False(t, seen[receiver], "receiver %d assigned twice", receiver)
				seen[receiver] = true
			}
		}
	})

	t.Run("mapping forms a single cycle", func(t *testing.T) {
		ids := []int64{1, 2, 3, 4, 5}

		for trial := 0; trial < 50; trial++ {
			targets := Rotation(ids)

			visited := 0
			current := ids[0]
			for {
				current = targets[current]
				visited++
				if current == ids[0] {
					break
				}
				require.LessOrEqual(t, visited, len(ids), "cycle did not close")
			}
			assert.Equal(t, len(ids), visited, "cycle should visit every participant once")
		}
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		ids := []int64{1, 2, 3, 4}
		Rotation(ids)
		assert.Equal(t, []int64{1, 2, 3, 4}, ids)
	})

	t.Run("rejects fewer than two ids", func(t *testing.T) {
		assert.Nil(t, Rotation(nil))
		assert.Nil(t, Rotation([]int64{1}))
	})
}
