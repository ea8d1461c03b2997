package brp

import "math"

// SM2Reference is the brute-force oracle counterpart to SM2: every
// choice it makes is found by a direct O(n_stacks) scan rather than by
// walking the incrementally maintained list/rank ordering. It exists to
// be compared against SM2 in tests, not to run on the search engine's
// hot path. It reproduces the diff-tie handling of its source exactly,
// including the final detour branch's dst assignment using the first
// probed destination (to) rather than the alternate (toAlt) even when
// the diff that wins the comparison was computed against toAlt.
//
// Complexity: O(moves * n_stacks^2), the same worst-case order as SM2,
// whose nested scans walk list instead of all stacks.
func (s *State) SM2Reference(path []Move, length, maxLen int) int {
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
		bestDiff := Unreachable
		for from := 0; from < nStacks; from++ {
			if b[from][h[from]] > 0 {
				for to := 0; to < nStacks; to++ {
					diff := q[to][h[to]] - p[from][h[from]]
					if from != to && h[to] < nTiers && diff >= 0 && diff < bestDiff {
						src, dst, bestDiff = from, to, diff
					}
				}
			}
		}

		if dst == -1 {
			if length+s.head.nBad == maxLen {
				return Unreachable
			}

			for from := 0; from < nStacks; from++ {
				if b[from][h[from]] == 0 {
					sBad, sBadAlt := -1, -1
					for st = 0; st < nStacks; st++ {
						if b[st][h[st]] > 0 && p[st][h[st]] <= q[from][h[from]-1] {
							if sBad == -1 || p[sBad][h[sBad]] < p[st][h[st]] {
								sBadAlt, sBad = sBad, st
							} else if sBadAlt == -1 || p[sBadAlt][h[sBadAlt]] < p[st][h[st]] {
								sBadAlt = st
							}
						}
					}

					if sBad != -1 {
						to, toAlt := -1, -1
						for st = 0; st < nStacks; st++ {
							if st != from && h[st] < nTiers && p[from][h[from]] <= q[st][h[st]] {
								if to == -1 || q[to][h[to]] > q[st][h[st]] {
									toAlt, to = to, st
								} else if toAlt == -1 || q[toAlt][h[toAlt]] > q[st][h[st]] {
									toAlt = st
								}
							}
						}

						if to != -1 {
							if sBad != to {
								diff := q[from][h[from]-1] - p[sBad][h[sBad]] + q[to][h[to]] - p[from][h[from]]
								if diff < bestDiff {
									src, dst, bestDiff = from, to, diff
								}
							} else {
								if sBadAlt != -1 {
									diff := q[from][h[from]-1] - p[sBadAlt][h[sBadAlt]] + q[to][h[to]] - p[from][h[from]]
									if diff < bestDiff {
										src, dst, bestDiff = from, to, diff
									}
								}
								if toAlt != -1 {
									diff := q[from][h[from]-1] - p[sBad][h[sBad]] + q[toAlt][h[toAlt]] - p[from][h[from]]
									if diff < bestDiff {
										src, dst, bestDiff = from, to, diff
									}
								}
							}
						}
					}
				}
			}

			if dst == -1 {
				for st = 0; st < nStacks; st++ {
					if st != src && h[st] < nTiers && (dst == -1 || q[dst][h[dst]] < q[st][h[st]]) {
						dst = st
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

// SM2 runs the diff-minimizing constructive heuristic on s until n_bad
// reaches zero or the plan would exceed maxLen moves. Its primary pass
// looks for the (src, dst) pair minimizing q[dst][h[dst]] -
// p[src][h[src]] among legal relocations; when none exists it falls
// back to a three-move detour that parks a bad block under a second
// block of a matching stack, and failing that dumps onto the rightmost
// stack with room. See JZW for the shared path/length/maxLen contract.
//
// s is mutated in place; callers that need to preserve the original
// state must operate on a copy.
func (s *State) SM2(path []Move, length, maxLen int) int {
	if length+s.head.nBad > maxLen {
		return Unreachable
	}

	nStacks, nTiers := s.nStacks, s.nTiers
	list, rank := s.head.list, s.head.rank
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

		src, dst := -1, -1
		bestDiff := Unreachable

		if qMin < qMax {
			for i = 0; i < iMax; i++ {
				from := list[i]
				if h[from] == 0 {
					break
				}
				if b[from][h[from]] > 0 && p[from][h[from]] <= qMax {
					for j := i + 1; ; j++ {
						to := list[j]
						diff := q[to][h[to]] - p[from][h[from]]
						if diff >= bestDiff {
							break
						}
						if h[to] < nTiers && diff >= 0 {
							src, dst, bestDiff = from, to, diff
							break
						}
					}
				}
			}
		}

		if bestDiff == Unreachable {
			if length+s.head.nBad == maxLen {
				return Unreachable
			}

			if qMin < qMax {
				for i = 0; i < nStacks; i++ {
					from := list[i]
					if q[from][h[from]] > qMax {
						break
					}
					if b[from][h[from]] == 0 && (i != iMax || hasMultiQMax) {
						sBad, sBadAlt := -1, -1
						for j := 0; j < nStacks; j++ {
							st := list[j]
							if q[st][h[st]] >= q[from][h[from]-1] {
								break
							}
							diff := q[from][h[from]-1] - p[st][h[st]]
							if b[st][h[st]] > 0 && diff >= 0 && diff < bestDiff {
								if sBad == -1 || p[sBad][h[sBad]] < p[st][h[st]] {
									sBadAlt, sBad = sBad, st
								} else if sBadAlt == -1 || p[sBadAlt][h[sBadAlt]] < p[st][h[st]] {
									sBadAlt = st
								}
							}
						}

						if sBad != -1 {
							to := -1
							dir := -1
							j := i + dir
							for {
								if dir == -1 && q[list[j]][h[list[j]]] < p[from][h[from]] {
									dir = 1
									j = i + dir
								}
								st := list[j]
								diff := q[from][h[from]-1] - p[sBad][h[sBad]] + q[st][h[st]] - p[from][h[from]]
								if diff >= bestDiff {
									break
								}
								if h[st] < nTiers {
									to = st
									break
								}
								j += dir
							}

							if to != -1 {
								if sBad != to {
									src, dst = from, to
									bestDiff = q[from][h[from]-1] - p[sBad][h[sBad]] + q[to][h[to]] - p[from][h[from]]
								} else {
									if sBadAlt != -1 {
										diff := q[from][h[from]-1] - p[sBadAlt][h[sBadAlt]] + q[to][h[to]] - p[from][h[from]]
										if diff < bestDiff {
											src, dst, bestDiff = from, to, diff
										}
									}
									dir = 1
									if rank[to] < i {
										dir = -1
									}
									j = rank[to] + dir
									for ; j <= iMax; j += dir {
										if dir == -1 && q[list[j]][h[list[j]]] < p[from][h[from]] {
											dir = 1
											j = i + dir
										}
										st := list[j]
										diff := q[from][h[from]-1] - p[sBad][h[sBad]] + q[st][h[st]] - p[from][h[from]]
										if diff >= bestDiff {
											break
										}
										if h[st] < nTiers {
											src, dst, bestDiff = from, st, diff
											break
										}
									}
								}
							}
						}
					}
				}
			}

			if src == -1 {
				src, dst = list[iNext], list[iMax]
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
