package brp

import (
	"errors"
	"time"
)

//–––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––
// Sentinel errors
//–––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––

// Validation / input-shape errors. Do not wrap with fmt.Errorf where a
// sentinel suffices.
var (
	// ErrNoStacks indicates the instance declares zero or negative stacks,
	// or len(H) or len(P) differs from NStacks.
	ErrNoStacks = errors.New("brp: instance has no stacks")

	// ErrBadTierCap indicates n_tiers is not positive.
	ErrBadTierCap = errors.New("brp: tier cap must be positive")

	// ErrBadPriority indicates max_prio is not positive, or a block's
	// priority falls outside [1, max_prio].
	ErrBadPriority = errors.New("brp: priority out of range")

	// ErrStackOverflow indicates a stack's initial height is negative or
	// exceeds n_tiers, or len(P[s]) differs from H[s].
	ErrStackOverflow = errors.New("brp: stack height exceeds tier cap")

	// ErrNegativeTimeBudget indicates a negative time budget was supplied.
	ErrNegativeTimeBudget = errors.New("brp: time budget must be non-negative")
)

// Search-governance sentinels.
var (
	// ErrInfeasible is returned when neither constructive heuristic (JZW,
	// SM2) can produce a finite retrieval plan for the instance — no
	// relocation sequence stays within the bay's layout constraints.
	ErrInfeasible = errors.New("brp: no feasible retrieval plan exists")
)

//–––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––
// Instance & Move
//–––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––

// Move is a single relocation: the priority of the block moved, its
// source stack, and its destination stack. A retrieval is not a Move —
// it never appears in a Report's solution.
type Move struct {
	Priority int
	Src      int
	Dst      int
}

// Instance is the external, caller-supplied bay description. No on-disk
// format is mandated; parsing an instance from text or any other medium
// is an external collaborator's concern, not this package's.
//
// Contracts:
//   - NStacks > 0, NTiers > 0, MaxPrio > 0.
//   - len(H) == NStacks; 0 <= H[s] <= NTiers.
//   - len(P) == NStacks; len(P[s]) == H[s]; each P[s][i] in [1, MaxPrio].
//   - P[s][0] is the bottom of stack s (tier 1), P[s][len-1] its top.
type Instance struct {
	NStacks int
	NTiers  int
	MaxPrio int
	H       []int
	P       [][]int
}

// NBlocks returns the total number of blocks across all stacks.
func (inst Instance) NBlocks() int {
	var n int
	for _, h := range inst.H {
		n += h
	}
	return n
}

//–––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––
// Options & defaults
//–––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––

// DefaultTimerCycle is the number of search nodes between cooperative
// deadline polls.
const DefaultTimerCycle = 1_000_000

// Options controls a single Solve run. A TimerCycle of zero or less is
// replaced by DefaultTimerCycle; DefaultOptions sets it explicitly.
type Options struct {
	// TimeBudget is a hard wall-clock cap on the whole search. Zero means
	// unlimited.
	TimeBudget time.Duration

	// TimerCycle is the number of search nodes between deadline polls.
	// Default: DefaultTimerCycle.
	TimerCycle int64

	// Debug, if true, emits one stdout trace line per start/running/
	// deepen/update/goal/end event.
	Debug bool
}

// DefaultOptions returns Options with a production-ready default timer
// cycle and debug tracing disabled.
func DefaultOptions(timeBudget time.Duration) Options {
	return Options{
		TimeBudget: timeBudget,
		TimerCycle: DefaultTimerCycle,
		Debug:      false,
	}
}

//–––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––
// Report
//–––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––

// Report is the solver's output. If the instance was already fully
// sorted on arrival, every field is its zero value. Solve never returns
// a non-nil Report together with a non-nil error.
type Report struct {
	RootLB   int
	InitUB   int
	BestLB   int
	BestUB   int
	Solution []Move

	TimeToBestLB time.Duration
	TimeToBestUB time.Duration
	TotalTime    time.Duration

	NNodes int64
	NProbe int64
}

// Solved reports whether the search proved optimality (BestLB == BestUB).
// A Report reaching a time budget may have BestLB < BestUB; its
// Solution is still the best legal plan found so far.
func (r *Report) Solved() bool {
	return r.BestLB == r.BestUB
}
