package brp_test

import (
	"testing"
	"time"

	"github.com/relocply/brp/brp"
	"github.com/stretchr/testify/require"
)

// TestSolve_TwoRelocations exercises a bay that needs two relocations
// to clear and checks the plan by replaying it. The root lower bound
// already equals the initial heuristic plan's length here, so the
// result is proven optimal without entering the branch-and-bound
// search.
func TestSolve_TwoRelocations(t *testing.T) {
	// stack0 bottom->top: 1, 3, 2 — both 3 and 2 sit above the 1 they
	// block, and 2 is on top so it must move before 3 can.
	inst := brp.Instance{
		NStacks: 3, NTiers: 3, MaxPrio: 3,
		H: []int{3, 0, 0},
		P: [][]int{{1, 3, 2}, {}, {}},
	}

	rep, err := brp.Solve(inst, time.Second)
	require.NoError(t, err)
	require.True(t, rep.Solved())
	require.Equal(t, 2, rep.BestUB)

	s := brp.NewState(inst.NStacks, inst.NTiers, true)
	s.InitFromInstance(inst)
	s.RetrieveClosure(0)
	require.Equal(t, 2, s.NBad())

	for i, mv := range rep.Solution {
		require.Equal(t, mv.Priority, s.Priority(mv.Src), "move %d", i)
		require.Less(t, s.Height(mv.Dst), inst.NTiers, "move %d", i)
		s.Relocate(mv.Src, mv.Dst, i+1)
		s.RetrieveClosure(i + 1)
	}
	require.Equal(t, 0, s.NBlocks())
}

// TestSolve_RepeatedPriorities checks that ties in priority (multiple
// blocks sharing the same value) do not confuse the quality/badness
// bookkeeping or the search.
func TestSolve_RepeatedPriorities(t *testing.T) {
	inst := brp.Instance{
		NStacks: 3, NTiers: 3, MaxPrio: 2,
		H: []int{3, 0, 0},
		P: [][]int{{1, 2, 1}, {}, {}},
	}

	rep, err := brp.Solve(inst, time.Second)
	require.NoError(t, err)
	require.True(t, rep.Solved())

	s := brp.NewState(inst.NStacks, inst.NTiers, true)
	s.InitFromInstance(inst)
	s.RetrieveClosure(0)
	for i, mv := range rep.Solution {
		require.Equal(t, mv.Priority, s.Priority(mv.Src), "move %d", i)
		s.Relocate(mv.Src, mv.Dst, i+1)
		s.RetrieveClosure(i + 1)
	}
	require.Equal(t, 0, s.NBlocks())
}
