package brp_test

import (
	"math"
	"testing"

	"github.com/relocply/brp/brp"
	"github.com/stretchr/testify/require"
)

// TestLBTS_ZeroWhenSorted verifies the bound is zero once every block
// can already be retrieved in order.
func TestLBTS_ZeroWhenSorted(t *testing.T) {
	inst := brp.Instance{
		NStacks: 2, NTiers: 2, MaxPrio: 2,
		H: []int{1, 1},
		P: [][]int{{1}, {2}},
	}

	s := brp.NewState(inst.NStacks, inst.NTiers, true)
	s.InitFromInstance(inst)
	s.RetrieveClosure(0)

	require.Equal(t, 0, s.LBTS(math.MaxInt))
	require.Equal(t, 0, s.LBTSReference())
}

// TestLBTS_OneBadBlock verifies the bound accounts for a single
// blocking block that has room to move away.
func TestLBTS_OneBadBlock(t *testing.T) {
	inst := brp.Instance{
		NStacks: 3, NTiers: 2, MaxPrio: 2,
		H: []int{2, 0, 0},
		P: [][]int{{1, 2}, {}, {}},
	}

	s := brp.NewState(inst.NStacks, inst.NTiers, true)
	s.InitFromInstance(inst)
	s.RetrieveClosure(0)

	require.Equal(t, 1, s.NBad())
	require.GreaterOrEqual(t, s.LBTS(math.MaxInt), 1)
	require.GreaterOrEqual(t, s.LBTSReference(), 1)
}

// TestLBTS_CapMonotonic verifies that capping LBTS at a small maxK
// keeps the bound between n_bad and the uncapped reference bound plus
// n_bad — the cap can only stop early, reporting n_bad plus however
// many layers it had counted so far.
func TestLBTS_CapMonotonic(t *testing.T) {
	inst := brp.Instance{
		NStacks: 4, NTiers: 4, MaxPrio: 6,
		H: []int{4, 3, 2, 0},
		P: [][]int{
			{3, 1, 5, 2},
			{4, 6, 1},
			{2, 4},
			{},
		},
	}

	s := brp.NewState(inst.NStacks, inst.NTiers, true)
	s.InitFromInstance(inst)
	s.RetrieveClosure(0)

	uncapped := s.LBTSReference()
	capped := s.LBTS(1)
	require.LessOrEqual(t, capped, uncapped+s.NBad())
	require.GreaterOrEqual(t, capped, s.NBad())
}
