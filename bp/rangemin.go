package bp

// fwdSearch finds the smallest bit position j >= from such that the
// boundary excess after bit j equals target. cur is the boundary excess
// at from. Candidate L2 and L1 blocks are pruned by their min-excess;
// candidate words by the per-word minimum; hits inside a word resolve
// through the byte tables.
func (b *BalancedParens) fwdSearch(from, target int) (int, bool) {
	words := b.bv.Words()
	nw := len(words)
	length := b.bv.Len()
	cur := b.Excess(from)

	w := from / 64
	nbits := wordLen(w, nw, length)
	if off, newCur, ok := scanWordFwd(words[w], from%64, nbits, cur, target); ok {
		return w*64 + off, true
	} else {
		cur = newCur
	}
	w++

	l1w := b.blockSize
	l2w := l1w * l2Factor
	for w < nw {
		if w%l2w == 0 && w+l2w <= nw {
			blk := w / l2w
			if b.l2Min[blk] > int32(target) {
				w += l2w
				if w < nw {
					cur = int(b.l2Cum[blk+1])
				}
				continue
			}
		}
		if w%l1w == 0 && w+l1w <= nw {
			blk := w / l1w
			if b.l1Min[blk] > int32(target) {
				w += l1w
				if w < nw {
					cur = int(b.l1Cum[blk+1])
				}
				continue
			}
		}
		if cur+int(b.wordMin[w]) <= target {
			nbits = wordLen(w, nw, length)
			if off, _, ok := scanWordFwd(words[w], 0, nbits, cur, target); ok {
				return w*64 + off, true
			}
		}
		cur += int(b.wordTotal[w])
		w++
	}
	return 0, false
}

// bwdSearch finds the largest bit position j <= from such that the
// boundary excess before bit j equals target. cur is the boundary
// excess at from+1.
func (b *BalancedParens) bwdSearch(from, cur, target int) (int, bool) {
	if from < 0 {
		return 0, false
	}
	words := b.bv.Words()

	w := from / 64
	if off, newCur, ok := scanWordBwd(words[w], from%64, cur, target); ok {
		return w*64 + off, true
	} else {
		cur = newCur
	}
	w--

	l1w := b.blockSize
	l2w := l1w * l2Factor
	for w >= 0 {
		if (w+1)%l2w == 0 {
			blk := w / l2w
			start := int(b.l2Cum[blk])
			if start > target && minInt32(b.l2Min[blk], int32(start)) > int32(target) {
				cur = start
				w -= l2w
				continue
			}
		}
		if (w+1)%l1w == 0 {
			blk := w / l1w
			start := int(b.l1Cum[blk])
			if start > target && minInt32(b.l1Min[blk], int32(start)) > int32(target) {
				cur = start
				w -= l1w
				continue
			}
		}
		start := cur - int(b.wordTotal[w])
		if start <= target || start+minRel0(b.wordMin[w]) <= target {
			if off, _, ok := scanWordBwd(words[w], 63, cur, target); ok {
				return w*64 + off, true
			}
		}
		cur = start
		w--
	}
	return 0, false
}

// scanWordFwd scans bits fromBit..nbits-1 of word. cur is the boundary
// excess before bit fromBit. On a hit it returns the bit offset and
// found=true; otherwise it returns the boundary excess after the last
// bit.
func scanWordFwd(word uint64, fromBit, nbits, cur, target int) (int, int, bool) {
	j := fromBit
	for j < nbits && j%8 != 0 {
		if word>>uint(j)&1 != 0 {
			cur++
		} else {
			cur--
		}
		if cur == target {
			return j, cur, true
		}
		j++
	}
	for j+8 <= nbits {
		bb := byte(word >> uint(j))
		if need := cur - target; need >= 0 && need <= 8 {
			if off := byteFindClose[bb][need]; off != 255 {
				return j + int(off), target, true
			}
		}
		cur += int(byteTotalExcess[bb])
		j += 8
	}
	for j < nbits {
		if word>>uint(j)&1 != 0 {
			cur++
		} else {
			cur--
		}
		if cur == target {
			return j, cur, true
		}
		j++
	}
	return 0, cur, false
}

// scanWordBwd scans bits fromBit..0 of word, descending. cur is the
// boundary excess after bit fromBit.
func scanWordBwd(word uint64, fromBit, cur, target int) (int, int, bool) {
	j := fromBit
	for j >= 0 && j%8 != 7 {
		if word>>uint(j)&1 != 0 {
			cur--
		} else {
			cur++
		}
		if cur == target {
			return j, cur, true
		}
		j--
	}
	for j >= 7 {
		bb := byte(word >> uint(j-7))
		if need := cur - target; need >= 0 && need <= 8 {
			if off := byteFindOpen[bb][need]; off != 255 {
				return j - 7 + int(off), target, true
			}
		}
		cur -= int(byteTotalExcess[bb])
		j -= 8
	}
	for j >= 0 {
		if word>>uint(j)&1 != 0 {
			cur--
		} else {
			cur++
		}
		if cur == target {
			return j, cur, true
		}
		j--
	}
	return 0, cur, false
}

// wordLen returns the number of valid bits in word w.
func wordLen(w, nw, length int) int {
	if w == nw-1 && length%64 != 0 {
		return length % 64
	}
	return 64
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

// minRel0 clamps a per-word relative minimum to at most zero, so that
// backward scans which exclude the word's final boundary never skip a
// word they should enter.
func minRel0(m int8) int {
	if m > 0 {
		return 0
	}
	return int(m)
}
