package brp

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// branch is a surviving (source, destination) candidate at one search
// node: its child lower bound and the materialized child state, kept
// around only long enough to be sorted and recursed into.
type branch struct {
	pri, src, dst int
	qSrc, qDst    int
	childLB       int
	childState    *State
}

// histEntry is one level of the search engine's history: the lower
// bound in force at that level and the state reached there.
type histEntry struct {
	lb    int
	state *State
}

// engine owns every buffer the branch-and-bound search reuses across
// nodes: dominance-rule aides, the committed path, the per-level
// history, a scratch state for move-out staging, a probe state, and a
// flat pool of pre-allocated branch slots. None of this is
// process-wide; every run gets its own engine.
type engine struct {
	nStacks, nTiers, maxPrio int

	minLastChangeLeft   []int
	maxLastMoveOutRight []int
	maxGroupSrcTemp     []int
	maxGroupSrcRight    []int
	maxGroupDstRight    []int

	path []Move
	hist []histEntry

	tempState  *State
	probeState *State
	pool       []branch

	bestLB, bestUB int
	bestSol        []Move

	nNodes, nProbe     int64
	nTimer, timerCycle int64

	startTime                  time.Time
	hasDeadline                bool
	deadline                   time.Time
	timeToBestLB, timeToBestUB time.Time

	debug bool
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func (e *engine) elapsed() time.Duration {
	return time.Since(e.startTime)
}

func (e *engine) debugInfo(status string) {
	if !e.debug {
		return
	}
	fmt.Printf(
		"[%s] best_lb = %d @ %s / best_ub = %d @ %s / time = %s / nodes = %d / probe = %d\n",
		status, e.bestLB, e.timeToBestLB.Sub(e.startTime), e.bestUB, e.timeToBestUB.Sub(e.startTime),
		e.elapsed(), e.nNodes, e.nProbe,
	)
}

// search performs depth-first branch-and-bound from hist[level], trying
// to find a plan of exactly best_lb moves. It returns true as soon as a
// plan is found (either a genuine goal or the deadline has passed,
// unwinding the recursion), false once every branch at this level has
// been exhausted without success.
func (e *engine) search(level int, branches []branch) bool {
	e.nNodes++

	e.nTimer++
	if e.nTimer == e.timerCycle {
		e.nTimer = 0
		if e.hasDeadline && !time.Now().Before(e.deadline) {
			return true
		}
		e.debugInfo("running")
	}

	currLB := e.hist[level].lb
	currState := e.hist[level].state
	nStacks, nTiers := e.nStacks, e.nTiers

	// Rule 3 (TC) aide: min_last_change_left[s] = min last-change time
	// among stacks left of s that still have room.
	minLastChangeTemp := math.MaxInt
	var s int
	for s = 0; s < nStacks; s++ {
		e.minLastChangeLeft[s] = minLastChangeTemp
		if currState.head.h[s] < nTiers && minLastChangeTemp > currState.head.lastChangeTime[s] {
			minLastChangeTemp = currState.head.lastChangeTime[s]
		}
	}

	// Rule 4 (IB) aide: max_last_move_out_right[s] = max move-out time
	// among stacks right of s.
	maxLastMoveOutTemp := 0
	for s = nStacks - 1; s >= 0; s-- {
		e.maxLastMoveOutRight[s] = maxLastMoveOutTemp
		if maxLastMoveOutTemp < currState.head.lastMoveOutTime[s] {
			maxLastMoveOutTemp = currState.head.lastMoveOutTime[s]
		}
	}

	// Rule 10 (SC) aide: max_group_src_right[s], via a scratch array
	// indexed by priority value and cleared only above the current
	// minimum priority (everything at or below it can never match pn).
	minPrio := currState.body.q[currState.head.list[0]][currState.head.h[currState.head.list[0]]]
	for pv := minPrio + 1; pv <= e.maxPrio; pv++ {
		e.maxGroupSrcTemp[pv] = 0
	}
	for s = nStacks - 1; s >= 0; s-- {
		if currState.head.h[s] == 0 {
			e.maxGroupSrcRight[s] = 0
		} else {
			e.maxGroupSrcRight[s] = e.maxGroupSrcTemp[currState.body.p[s][currState.head.h[s]]]
		}
		if currState.head.lastChangeType[s] == changeMoveOut {
			k := currState.head.lastChangeTime[s]
			pk := e.path[k-1].Priority
			if pk > minPrio && e.maxGroupSrcTemp[pk] < k {
				e.maxGroupSrcTemp[pk] = k
			}
		}
	}

	// s_max / s_sec: the two rightmost stacks in list with room, for
	// the quick lower-bound pre-screen below.
	sMax, sSec := -1, -1
	for i := nStacks - 1; i >= 0; i-- {
		st := currState.head.list[i]
		if currState.head.h[st] < nTiers {
			if sMax == -1 {
				sMax = st
			} else {
				sSec = st
				break
			}
		}
	}

	size := 0
	firstSn := true

	for sn := 0; sn < nStacks; sn++ {
		if currState.head.h[sn] == 0 || currState.head.nBlocks-currState.head.h[sn] == (nStacks-1)*nTiers {
			continue
		}

		pn := currState.body.p[sn][currState.head.h[sn]]
		qSn := currState.body.q[sn][currState.head.h[sn]]
		lv := currState.body.l[sn][currState.head.h[sn]]

		toBeBad := pn > currState.body.q[sMax][currState.head.h[sMax]] ||
			(sn == sMax && sSec != -1 && pn > currState.body.q[sSec][currState.head.h[sSec]])

		if level+1+currLB-boolToInt(pn > qSn)+boolToInt(toBeBad)-
			boolToInt(currLB > currState.head.nBad && (pn <= qSn || toBeBad)) > e.bestLB {
			continue
		}

		if lv > 0 {
			k := lv
			sk := e.path[k-1].Src
			if currState.head.lastChangeTime[sk] == k && currState.head.lastChangeType[sk] == changeMoveOut {
				continue // Rule 1 (TA): merge two relocations and perform later
			}
		}

		if e.minLastChangeLeft[sn] < lv {
			continue // Rule 3 (TC): choose alternative transitive stack
		}

		if currState.head.lastChangeTime[sn] < e.maxGroupSrcRight[sn] {
			continue // Rule 10 (SC): swap source stacks of two relocations
		}

		// Rule 11 (SD) aide: max_group_dst_right[d], recomputed per sn
		// since it depends on pn.
		maxGroupDstTemp := 0
		for d := nStacks - 1; d >= 0; d-- {
			e.maxGroupDstRight[d] = maxGroupDstTemp
			if currState.head.lastChangeType[d] == changeMoveIn {
				k := currState.head.lastChangeTime[d]
				pk := e.path[k-1].Priority
				if pk == pn && maxGroupDstTemp < k {
					maxGroupDstTemp = k
				}
			}
		}

		firstDn := true
		firstEmpty := true

		for dn := 0; dn < nStacks; dn++ {
			if dn == sn || currState.head.h[dn] == nTiers {
				continue
			}

			e.path[level] = Move{Priority: pn, Src: sn, Dst: dn}

			qDn := currState.body.q[dn][currState.head.h[dn]]
			if currState.head.nBad-boolToInt(pn > qSn)+boolToInt(pn > qDn) == 0 {
				e.bestUB = level + 1
				copy(e.bestSol, e.path[:e.bestUB])
				e.timeToBestUB = time.Now()
				e.debugInfo("goal")
				return true
			}

			if currState.head.h[dn] == 0 {
				if firstEmpty {
					firstEmpty = false
				} else {
					continue // Rule 7 (EA): choose the leftmost empty stack
				}
			}

			if currState.head.lastChangeTime[dn] < lv {
				continue // Rule 2 (TB): merge two relocations and perform earlier
			}

			if currState.head.lastChangeTime[sn] < e.maxLastMoveOutRight[sn] &&
				currState.head.lastChangeTime[dn] < e.maxLastMoveOutRight[sn] {
				continue // Rule 4 (IB): perform (pn, sn, dn) before the later move-out
			}

			if currState.head.lastChangeType[dn] == changeMoveOut {
				k := currState.head.lastChangeTime[dn]
				pk := e.path[k-1].Priority
				dk := e.path[k-1].Dst
				if pk == pn {
					if currState.head.lastChangeTime[sn] < k {
						continue // Rule 8 (SA): merge two relocations and perform earlier
					}
					if currState.head.lastChangeTime[dk] == k {
						continue // Rule 9 (SB): merge two relocations and perform later
					}
				}
			}

			if currState.head.lastChangeTime[dn] < e.maxGroupDstRight[dn] {
				continue // Rule 11 (SD): swap destination stacks of two relocations
			}

			if level+1+currLB-boolToInt(pn > qSn)+boolToInt(pn > qDn)-
				boolToInt(currLB > currState.head.nBad && (pn <= qSn || pn > qDn)) > e.bestLB {
				continue
			}

			if firstSn {
				firstSn = false
				copyBody(e.hist[level+1].state, currState)
			}
			if firstDn {
				firstDn = false
				copyHead(e.tempState, currState)
				shareBody(e.tempState, e.hist[level+1].state)
				e.tempState.MoveOut(sn, level+1)
			}

			childState := branches[size].childState
			copyHead(childState, e.tempState)
			shareBody(childState, e.hist[level+1].state)
			childState.MoveIn(dn, pn, level+1)

			dominated := false
			for childState.IsRetrievable() {
				sMin := childState.head.list[0]
				pVal := childState.body.p[sMin][childState.head.h[sMin]]
				lVal := childState.body.l[sMin][childState.head.h[sMin]]

				if lVal > 0 {
					k := lVal
					sk := e.path[k-1].Src

					if childState.head.lastMoveOutTime[sk] == k &&
						childState.head.lastMoveInTime[sk] < k &&
						e.hist[k-1].state.body.q[sk][e.hist[k-1].state.head.h[sk]] == pVal {
						dominated = true // Rule 5 (RA): k-th relocation can be left out
						break
					}

					for d := 0; d < sMin; d++ {
						if e.hist[k-1].state.head.h[d] < nTiers &&
							childState.head.lastMoveOutTime[d] < k &&
							childState.head.lastMoveInTime[d] < k &&
							e.hist[k-1].state.body.q[d][e.hist[k-1].state.head.h[d]] >= pVal {
							dominated = true // Rule 6 (RB): choose alternative transitive stack
							break
						}
					}
					if dominated {
						break
					}
				}

				childState.Retrieve(level + 1)
			}

			if dominated {
				continue
			}

			maxK := e.bestLB - level - 1 - childState.head.nBad
			if maxK < 0 {
				continue
			}
			childLB := childState.LBTS(maxK)
			if level+1+childLB > e.bestLB {
				continue
			}

			if level+1+childLB == e.bestLB-1 {
				e.nProbe++

				copyState(e.probeState, childState)
				if newLen := e.probeState.JZW(e.path, level+1, e.bestUB-1); newLen != Unreachable {
					e.bestUB = newLen
					copy(e.bestSol, e.path[:e.bestUB])
					e.timeToBestUB = time.Now()
					e.debugInfo("update")
					if e.bestLB == e.bestUB {
						return true
					}
				}

				copyState(e.probeState, childState)
				if newLen := e.probeState.SM2(e.path, level+1, e.bestUB-1); newLen != Unreachable {
					e.bestUB = newLen
					copy(e.bestSol, e.path[:e.bestUB])
					e.timeToBestUB = time.Now()
					e.debugInfo("update")
					if e.bestLB == e.bestUB {
						return true
					}
				}
			}

			branches[size] = branch{
				pri: pn, src: sn, dst: dn,
				qSrc: qSn, qDst: qDn,
				childLB:    childLB,
				childState: childState,
			}
			size++
		}
	}

	if size > 0 {
		siblings := branches[:size]
		sort.Slice(siblings, func(i, j int) bool {
			a, b := siblings[i], siblings[j]
			if a.childLB != b.childLB {
				return a.childLB < b.childLB
			}
			if a.qDst != b.qDst {
				return a.qDst > b.qDst
			}
			return a.qSrc < b.qSrc
		})

		for i := 0; i < size; i++ {
			br := siblings[i]
			e.path[level] = Move{Priority: br.pri, Src: br.src, Dst: br.dst}

			e.hist[level+1].lb = br.childLB
			reuseHead(e.hist[level+1].state, br.childState)

			dn := br.dst
			if e.hist[level+1].state.head.h[dn] == currState.head.h[dn]+1 {
				e.hist[level+1].state.UpdateSlot(dn, e.hist[level+1].state.head.h[dn], br.pri, level+1)
			}

			if e.search(level+1, branches[size:]) {
				return true
			}
		}
	}

	return false
}
