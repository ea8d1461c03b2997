package brp

import (
	"math"
	"time"
)

// Solve runs the exact solver with default options for the given time
// budget. It is a thin convenience wrapper around SolveWithOptions.
func Solve(inst Instance, timeBudget time.Duration) (Report, error) {
	return SolveWithOptions(inst, DefaultOptions(timeBudget))
}

// SolveWithOptions runs the exact branch-and-bound solver on inst.
//
// It proceeds in three stages: build the root state and retrieve every
// block already reachable in priority order; run both constructive
// heuristics (JZW, SM2) once to get an initial feasible plan and an
// upper bound on how deep the search tree can ever need to go; then
// iteratively deepen best_lb from the root's lower bound up to best_ub,
// calling the branch-and-bound engine once per depth until the two
// meet or the time budget runs out.
//
// Returns ErrInfeasible if neither heuristic can retrieve every block
// at all, which happens for a well-formed Instance whose other stacks
// lack room for a blocking run (for example a single stack holding a
// bad block). Returns a validation sentinel if inst or opts fails its
// contract checks.
func SolveWithOptions(inst Instance, opts Options) (Report, error) {
	if err := validateInstance(inst); err != nil {
		return Report{}, err
	}
	if err := validateOptions(opts); err != nil {
		return Report{}, err
	}

	timerCycle := opts.TimerCycle
	if timerCycle <= 0 {
		timerCycle = DefaultTimerCycle
	}

	root := NewState(inst.NStacks, inst.NTiers, true)
	root.InitFromInstance(inst)
	root.RetrieveClosure(0)

	if root.NBlocks() == 0 {
		return Report{}, nil
	}

	rootLB := root.LBTS(math.MaxInt)

	maxDepth := inst.NBlocks() * inst.NStacks
	jzwBuf := make([]Move, maxDepth)
	sm2Buf := make([]Move, maxDepth)

	probe := NewState(inst.NStacks, inst.NTiers, true)
	copyState(probe, root)
	jzwLen := probe.JZW(jzwBuf, 0, maxDepth)

	copyState(probe, root)
	sm2Len := probe.SM2(sm2Buf, 0, maxDepth)

	initUB := Unreachable
	var initSol []Move
	if jzwLen != Unreachable {
		initUB = jzwLen
		initSol = jzwBuf[:jzwLen]
	}
	if sm2Len != Unreachable && sm2Len < initUB {
		initUB = sm2Len
		initSol = sm2Buf[:sm2Len]
	}
	if initUB == Unreachable {
		return Report{}, ErrInfeasible
	}

	e := newEngine(inst.NStacks, inst.NTiers, inst.MaxPrio, initUB, timerCycle, opts.Debug)
	e.bestLB = rootLB
	e.bestUB = initUB
	copy(e.bestSol, initSol)

	e.startTime = time.Now()
	if opts.TimeBudget > 0 {
		e.hasDeadline = true
		e.deadline = e.startTime.Add(opts.TimeBudget)
	}
	e.timeToBestLB = e.startTime
	e.timeToBestUB = e.startTime

	copyState(e.hist[0].state, root)
	e.hist[0].lb = rootLB

	e.debugInfo("start")

	for e.bestLB < e.bestUB {
		if e.hasDeadline && !time.Now().Before(e.deadline) {
			break
		}
		if e.search(0, e.pool) {
			break
		}
		e.bestLB++
		e.timeToBestLB = time.Now()
		e.debugInfo("deepen")
	}

	e.debugInfo("end")

	return Report{
		RootLB:       rootLB,
		InitUB:       initUB,
		BestLB:       e.bestLB,
		BestUB:       e.bestUB,
		Solution:     append([]Move(nil), e.bestSol[:e.bestUB]...),
		TimeToBestLB: e.timeToBestLB.Sub(e.startTime),
		TimeToBestUB: e.timeToBestUB.Sub(e.startTime),
		TotalTime:    time.Since(e.startTime),
		NNodes:       e.nNodes,
		NProbe:       e.nProbe,
	}, nil
}

// newEngine allocates every buffer the search needs, sized for a tree
// of at most maxDepth levels.
func newEngine(nStacks, nTiers, maxPrio, maxDepth int, timerCycle int64, debug bool) *engine {
	e := &engine{
		nStacks: nStacks,
		nTiers:  nTiers,
		maxPrio: maxPrio,

		minLastChangeLeft:   make([]int, nStacks),
		maxLastMoveOutRight: make([]int, nStacks),
		maxGroupSrcTemp:     make([]int, maxPrio+1),
		maxGroupSrcRight:    make([]int, nStacks),
		maxGroupDstRight:    make([]int, nStacks),

		path:    make([]Move, maxDepth),
		hist:    make([]histEntry, maxDepth+1),
		bestSol: make([]Move, maxDepth),

		tempState:  newHeadOnlyState(nStacks, nTiers, true),
		probeState: NewState(nStacks, nTiers, true),

		timerCycle: timerCycle,
		debug:      debug,
	}

	var i int
	for i = 0; i <= maxDepth; i++ {
		e.hist[i].state = NewState(nStacks, nTiers, true)
	}

	branchesPerLevel := nStacks * nStacks
	e.pool = make([]branch, maxDepth*branchesPerLevel)
	for i = range e.pool {
		e.pool[i].childState = newHeadOnlyState(nStacks, nTiers, true)
	}

	return e
}
