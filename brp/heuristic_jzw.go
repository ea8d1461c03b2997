package brp

import "math"

// Unreachable is returned by JZW and SM2 in place of the classical +∞
// when they cannot produce a plan within maxLen moves.
const Unreachable = math.MaxInt

// preSubstitute implements the JZW pre-substitution step shared by both
// of its branches: among the stacks ranked left of dst with a bad top
// in [p[src][h[src]], q[dst][h[dst]]], pick the one with the largest
// such top and use it as src instead — landing it on dst instead of
// src produces the same destination state at no extra cost and clears
// one more bad block.
func (s *State) preSubstitute(src, dst int) int {
	h := s.head.h
	if h[dst] >= s.nTiers-1 {
		return src
	}

	p, q, b, list, rank := s.body.p, s.body.q, s.body.b, s.head.list, s.head.rank
	sPre := -1
	var i int
	for i = 0; i < rank[dst]; i++ {
		st := list[i]
		if st != src && b[st][h[st]] > 0 && p[src][h[src]] <= p[st][h[st]] &&
			p[st][h[st]] <= q[dst][h[dst]] &&
			(sPre == -1 || p[sPre][h[sPre]] < p[st][h[st]]) {
			sPre = st
		}
	}
	if sPre != -1 {
		return sPre
	}
	return src
}

// JZWReference is the brute-force oracle counterpart to JZW: every
// choice it makes is found by a direct O(n_stacks) scan over all
// stacks rather than by walking the incrementally maintained list/rank
// ordering. It exists to be compared against JZW in tests, not to run
// on the search engine's hot path.
//
// Complexity: O(moves * n_stacks), the same order as JZW, whose scans
// walk list instead of all stacks.
func (s *State) JZWReference(path []Move, length, maxLen int) int {
	if length+s.head.nBad > maxLen {
		return Unreachable
	}

	nStacks, nTiers := s.nStacks, s.nTiers
	p, q, b := s.body.p, s.body.q, s.body.b

	var st int
	for s.head.nBad > 0 {
		s.RetrieveClosure(length)
		h := s.head.h

		qMin := math.MaxInt
		for st = 0; st < nStacks; st++ {
			if q[st][h[st]] < qMin {
				qMin = q[st][h[st]]
			}
		}

		src := -1
		for st = 0; st < nStacks; st++ {
			nEmptySlots := (nStacks-1)*nTiers - (s.head.nBlocks - h[st])
			if q[st][h[st]] == qMin && b[st][h[st]] <= nEmptySlots &&
				(src == -1 || b[src][h[src]] > b[st][h[st]]) {
				src = st
			}
		}
		if src == -1 {
			return Unreachable
		}

		dst := -1
		for st = 0; st < nStacks; st++ {
			if st != src && h[st] < nTiers && p[src][h[src]] <= q[st][h[st]] &&
				(dst == -1 || q[dst][h[dst]] > q[st][h[st]]) {
				dst = st
			}
		}

		if dst != -1 {
			if h[dst] < nTiers-1 {
				sPre := -1
				for st = 0; st < nStacks; st++ {
					if st != src && st != dst && b[st][h[st]] > 0 &&
						p[src][h[src]] <= p[st][h[st]] && p[st][h[st]] <= q[dst][h[dst]] &&
						(sPre == -1 || p[sPre][h[sPre]] < p[st][h[st]]) {
						sPre = st
					}
				}
				if sPre != -1 {
					src = sPre
				}
			}
		} else {
			if length+s.head.nBad == maxLen {
				return Unreachable
			}

			sMax, sSec := -1, -1
			for st = 0; st < nStacks; st++ {
				if st != src && h[st] < nTiers {
					if sMax == -1 || q[sMax][h[sMax]] < q[st][h[st]] {
						sSec, sMax = sMax, st
					} else if sSec == -1 || q[sSec][h[sSec]] < q[st][h[st]] {
						sSec = st
					}
				}
			}

			sOpt := -1
			for st = 0; st < nStacks; st++ {
				if st != src && h[st] > 0 && b[st][h[st]] == 0 &&
					((st != sMax && p[st][h[st]] <= q[sMax][h[sMax]]) ||
						(st == sMax && sSec != -1 && p[st][h[st]] <= q[sSec][h[sSec]])) &&
					p[src][h[src]] <= q[st][h[st]-1] &&
					(sOpt == -1 || p[sOpt][h[sOpt]] < p[st][h[st]]) {
					sOpt = st
				}
			}

			if sOpt != -1 {
				src = sOpt
				for st = 0; st < nStacks; st++ {
					if st != src && h[st] < nTiers && p[src][h[src]] <= q[st][h[st]] &&
						(dst == -1 || q[dst][h[dst]] > q[st][h[st]]) {
						dst = st
					}
				}

				if h[dst] < nTiers-1 {
					sPre := -1
					for st = 0; st < nStacks; st++ {
						if st != src && st != dst && b[st][h[st]] > 0 &&
							p[src][h[src]] <= p[st][h[st]] && p[st][h[st]] <= q[dst][h[dst]] &&
							(sPre == -1 || p[sPre][h[sPre]] < p[st][h[st]]) {
							sPre = st
						}
					}
					if sPre != -1 {
						src = sPre
					}
				}
			} else {
				dst = sMax
				if h[dst] == nTiers-1 {
					smallest := true
					for k := 1; k < b[src][h[src]]; k++ {
						if p[src][h[src]-k] < p[src][h[src]] {
							smallest = false
							break
						}
					}
					if !smallest && sSec != -1 {
						dst = sSec
					}
				}
			}
		}

		if path != nil {
			path[length] = Move{Priority: p[src][h[src]], Src: src, Dst: dst}
		}
		length++
		s.Relocate(src, dst, length)
	}

	return length
}

// JZW runs the rule-based constructive heuristic on s until n_bad
// reaches zero or the plan would exceed maxLen moves, recording each
// relocation into path at the index it occurs (unless path is nil, in
// which case only the resulting length is computed). path must have
// room for every index JZW may write, i.e. len(path) >= the eventual
// return value. length is the number of moves already recorded ahead of
// this call (0 for a fresh root run, the current search depth for
// in-tree probing). Returns the final length, or Unreachable if JZW's
// own plan cannot stay within maxLen moves (a shorter plan found by
// other means may still exist).
//
// s is mutated in place; callers that need to preserve the original
// state must operate on a copy.
func (s *State) JZW(path []Move, length, maxLen int) int {
	if length+s.head.nBad > maxLen {
		return Unreachable
	}

	nStacks, nTiers := s.nStacks, s.nTiers
	list := s.head.list
	p, q, b := s.body.p, s.body.q, s.body.b

	var i int
	for s.head.nBad > 0 {
		s.RetrieveClosure(length)
		h := s.head.h

		qMin := q[list[0]][h[list[0]]]
		iNext := -1
		for i = 0; i < nStacks; i++ {
			st := list[i]
			if q[st][h[st]] > qMin {
				break
			}
			nEmptySlots := (nStacks-1)*nTiers - (s.head.nBlocks - h[st])
			if b[st][h[st]] <= nEmptySlots {
				iNext = i
				break
			}
		}
		if iNext == -1 {
			return Unreachable
		}

		var iMax, qMax int
		for i = nStacks - 1; ; i-- {
			st := list[i]
			if i != iNext && h[st] < nTiers {
				iMax, qMax = i, q[st][h[st]]
				break
			}
		}

		hasMultiQMax := false
		if qMin < qMax {
			for i = iMax - 1; ; i-- {
				st := list[i]
				if q[st][h[st]] < qMax {
					break
				}
				if h[st] < nTiers {
					hasMultiQMax = true
					break
				}
			}
		}

		src := list[iNext]
		var dst int

		if p[src][h[src]] <= qMax {
			for i = iNext + 1; ; i++ {
				st := list[i]
				if h[st] < nTiers && p[src][h[src]] <= q[st][h[st]] {
					dst = st
					break
				}
			}
			src = s.preSubstitute(src, dst)
		} else {
			if length+s.head.nBad == maxLen {
				return Unreachable
			}

			iOpt := -1
			dir := 1
			i = iMax
			for {
				if i == nStacks || (i > iMax && q[list[i]][h[list[i]]] > qMax) {
					dir = -1
					i = iMax + dir
				}
				st := list[i]
				if q[st][h[st]] == qMin {
					break
				}
				if b[st][h[st]] == 0 && p[src][h[src]] <= q[st][h[st]-1] &&
					(i != iMax || hasMultiQMax) {
					iOpt = i
					break
				}
				i += dir
			}

			if iOpt != -1 {
				src = list[iOpt]
				dir = -1
				i = iOpt + dir
				for {
					if i < iOpt && q[list[i]][h[list[i]]] < p[src][h[src]] {
						dir = 1
						i = iOpt + dir
					}
					st := list[i]
					if h[st] < nTiers {
						dst = st
						break
					}
					i += dir
				}
				src = s.preSubstitute(src, dst)
			} else {
				dst = list[iMax]
				if h[dst] == nTiers-1 {
					smallest := true
					for k := 1; k < b[src][h[src]]; k++ {
						if p[src][h[src]-k] < p[src][h[src]] {
							smallest = false
							break
						}
					}
					if !smallest {
						for i = iMax - 1; i >= 0; i-- {
							st := list[i]
							if st != src && h[st] < nTiers {
								dst = st
								break
							}
						}
					}
				}
			}
		}

		if path != nil {
			path[length] = Move{Priority: p[src][h[src]], Src: src, Dst: dst}
		}
		length++
		s.Relocate(src, dst, length)
	}

	return length
}
