package brp

import "math"

// LBTS returns a lower bound on the number of relocations still needed,
// capped by maxK blocking layers. It is the production bound used on
// the search engine's hot path: the cap lets a caller stop early once
// the bound has already exceeded the best value it needs to beat.
//
// The bound is n_bad + k, where k is the number of blocking layers
// peeled off a disposable working copy of the stack heights: a layer is
// a simultaneous decrement of every stack that is not itself forced to
// shrink first by a block that must move before anything below it is
// reachable, or that is provably bad and fits under the tallest
// available destination.
//
// Contracts: maxK >= 0. Returns state.NBad() immediately when n_bad == 0,
// maxK == 0, or some stack is already empty.
//
// Complexity: O(maxK * n_stacks) amortized.
func (s *State) LBTS(maxK int) int {
	if s.head.nBad == 0 || maxK == 0 || s.HasEmptyStack() {
		return s.head.nBad
	}

	nStacks, nTiers := s.nStacks, s.nTiers
	p, q, b := s.body.p, s.body.q, s.body.b

	h := make([]int, nStacks)
	copy(h, s.head.h)

	remain := s.head.nBad
	k := 0

	var st int
	for {
		sMin, qMin, qMax := -1, math.MaxInt, 0
		for st = 0; st < nStacks; st++ {
			if qMin > q[st][h[st]] || (qMin == q[st][h[st]] && p[sMin][h[sMin]] <= p[st][h[st]]) {
				sMin, qMin = st, q[st][h[st]]
			}
			if h[st] < nTiers && qMax < q[st][h[st]] {
				qMax = q[st][h[st]]
			}
		}

		pMin, pMinBad := math.MaxInt, math.MaxInt
		v := 0
		for v < nStacks {
			switch {
			case p[v][h[v]] == qMin:
				h[v]--
				if h[v] == 0 {
					return s.head.nBad + k
				}
				if v == sMin && q[v][h[v]] > qMin {
					sMin, qMin = -1, math.MaxInt
					for st = 0; st < nStacks; st++ {
						if qMin > q[st][h[st]] || (qMin == q[st][h[st]] && p[sMin][h[sMin]] <= p[st][h[st]]) {
							sMin, qMin = st, q[st][h[st]]
						}
					}
				}
				if qMax < q[v][h[v]] {
					qMax = q[v][h[v]]
				}
				if pMin <= qMin || pMinBad <= qMax {
					v = 0
					pMin, pMinBad = math.MaxInt, math.MaxInt
				}
			case b[v][h[v]] > 0 && p[v][h[v]] <= qMax:
				remain--
				if remain == 0 {
					return s.head.nBad + k
				}
				h[v]--
				if h[v] == 0 {
					return s.head.nBad + k
				}
			default:
				if pMin > p[v][h[v]] {
					pMin = p[v][h[v]]
				}
				if b[v][h[v]] > 0 && pMinBad > p[v][h[v]] {
					pMinBad = p[v][h[v]]
				}
				v++
			}
		}

		k++
		if k == maxK {
			return s.head.nBad + k
		}
		for st = 0; st < nStacks; st++ {
			bad := b[st][h[st]] > 0
			hitZero := false
			if bad {
				remain--
				hitZero = remain == 0
			}
			if hitZero {
				return s.head.nBad + k
			}
			h[st]--
			if h[st] == 0 {
				return s.head.nBad + k
			}
		}
	}
}

// LBTSReference is the uncapped oracle variant of LBTS: it always peels
// blocking layers until some stack is empty, with no early cap and a simpler q_min tie-break (no
// preference toward higher p at the tie). It is deliberately kept
// separate from LBTS rather than unified with it or expressed as
// LBTS(math.MaxInt): the two differ in q_min tie-breaking and are meant
// to be compared against each other in tests, not merged.
//
// Complexity: O(n_stacks^2 * n_tiers) worst case.
func (s *State) LBTSReference() int {
	nStacks, nTiers := s.nStacks, s.nTiers
	p, q, b := s.body.p, s.body.q, s.body.b

	h := make([]int, nStacks)
	copy(h, s.head.h)

	var st int
	lowest := math.MaxInt
	for st = 0; st < nStacks; st++ {
		if lowest > h[st] {
			lowest = h[st]
		}
	}

	k := 0
	for lowest > 0 {
		qMin, qMax := math.MaxInt, 0
		for st = 0; st < nStacks; st++ {
			if qMin > q[st][h[st]] {
				qMin = q[st][h[st]]
			}
			if h[st] < nTiers && qMax < q[st][h[st]] {
				qMax = q[st][h[st]]
			}
		}

		satisfied := true
		for st = 0; st < nStacks; st++ {
			if p[st][h[st]] == qMin || (b[st][h[st]] > 0 && p[st][h[st]] <= qMax) {
				h[st]--
				if lowest > h[st] {
					lowest = h[st]
				}
				satisfied = false
				break
			}
		}

		if satisfied {
			k++
			for st = 0; st < nStacks; st++ {
				h[st]--
				if lowest > h[st] {
					lowest = h[st]
				}
			}
		}
	}

	return s.head.nBad + k
}
