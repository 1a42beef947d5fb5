// food.go implements food placement on the fixed grid.

package game

import "math/rand/v2"

// Rand is the random source used for food placement.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a randomly seeded source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// GenerateFood picks a cell uniformly at random from the cells not in occupied.
// It rejection-samples first and falls back to enumerating the free cells when the
// board is crowded. ok is false only when every cell is occupied.
func GenerateFood(occupied []Position, rng Rand) (food Position, ok bool) {
	taken := make(map[Position]struct{}, len(occupied))
	for _, p := range occupied {
		if p.InBounds() {
			taken[p] = struct{}{}
		}
	}
	if len(taken) >= GridCells {
		return Position{}, false
	}

	for range foodSampleAttempts {
		p := Position{X: rng.IntN(GridWidth), Y: rng.IntN(GridHeight)}
		if _, hit := taken[p]; !hit {
			return p, true
		}
	}

	free := make([]Position, 0, GridCells-len(taken))
	for y := range GridHeight {
		for x := range GridWidth {
			p := Position{X: x, Y: y}
			if _, hit := taken[p]; !hit {
				free = append(free, p)
			}
		}
	}
	return free[rng.IntN(len(free))], true
}
