package positioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func assignmentCost(cost [][]int64, a []int) int64 {
	var total int64
	for i, j := range a {
		total += cost[i][j]
	}
	return total
}

func TestSolveAssignmentSmall(t *testing.T) {
	cost := [][]int64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}
	a := solveAssignment(cost)
	assert.Equal(t, int64(5), assignmentCost(cost, a))
	assert.ElementsMatch(t, []int{0, 1, 2}, a)
}

func TestSolveAssignmentPrefersUncrossedPaths(t *testing.T) {
	cost := [][]int64{
		{100, 0},
		{0, 100},
	}
	assert.Equal(t, []int{1, 0}, solveAssignment(cost))
}

func TestSolveAssignmentMatchesBruteForce(t *testing.T) {
	cost := [][]int64{
		{7, 53, 183, 439},
		{497, 383, 563, 79},
		{627, 343, 773, 959},
		{447, 283, 463, 29},
	}
	best := int64(-1)
	perm := []int{0, 1, 2, 3}
	var permute func(k int)
	permute = func(k int) {
		if k == len(perm) {
			c := assignmentCost(cost, perm)
			if best < 0 || c < best {
				best = c
			}
			return
		}
		for i := k; i < len(perm); i++ {
			perm[k], perm[i] = perm[i], perm[k]
			permute(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	permute(0)

	a := solveAssignment(cost)
	assert.Equal(t, best, assignmentCost(cost, a))
	assert.Nil(t, solveAssignment(nil))
}
