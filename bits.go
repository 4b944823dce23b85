package arbor

import "github.com/bits-and-blooms/bitset"

// Range helpers over position-aligned bit vectors. The bitset library has
// no range copy, so these move bits one at a time with the same overlap
// rules as the builtin copy.

// fillBits sets every bit in [start, end) to v.
func fillBits(b *bitset.BitSet, start, end int, v bool) {
	for i := start; i < end; i++ {
		b.SetTo(uint(i), v)
	}
}

// copyBits copies n bits from src[srcAt:] into dst[dstAt:]. dst and src must
// be different bitsets.
func copyBits(dst *bitset.BitSet, dstAt int, src *bitset.BitSet, srcAt, n int) {
	for i := 0; i < n; i++ {
		dst.SetTo(uint(dstAt+i), src.Test(uint(srcAt+i)))
	}
}

// copyBitsWithin copies n bits from position src to position dst inside b.
// Overlapping ranges are handled like copy on a slice.
func copyBitsWithin(b *bitset.BitSet, dst, src, n int) {
	if dst == src || n == 0 {
		return
	}
	if dst < src {
		for i := 0; i < n; i++ {
			b.SetTo(uint(dst+i), b.Test(uint(src+i)))
		}
		return
	}
	for i := n - 1; i >= 0; i-- {
		b.SetTo(uint(dst+i), b.Test(uint(src+i)))
	}
}

// removeBits deletes [start, end) from a bit vector of logical length n,
// shifting the tail down and clearing the freed bits at the end.
func removeBits(b *bitset.BitSet, start, end, n int) {
	copyBitsWithin(b, start, end, n-end)
	fillBits(b, n-(end-start), n, false)
}

// rotateBits swaps the adjacent ranges [left, mid) and [mid, right) of b,
// staging only the smaller range in scratch.
func rotateBits(b, scratch *bitset.BitSet, left, mid, right int) {
	lo, hi := mid-left, right-mid
	if lo <= hi {
		copyBits(scratch, 0, b, left, lo)
		copyBitsWithin(b, left, mid, hi)
		copyBits(b, left+hi, scratch, 0, lo)
		return
	}
	copyBits(scratch, 0, b, mid, hi)
	copyBitsWithin(b, left+hi, left, lo)
	copyBits(b, left, scratch, 0, hi)
}

// rotateSlice swaps the adjacent regions s[left:mid] and s[mid:right],
// staging only the smaller region in scratch. The emptied scratch buffer is
// returned for reuse.
func rotateSlice[T any](s []T, left, mid, right int, scratch []T) []T {
	lo, hi := mid-left, right-mid
	if lo <= hi {
		scratch = append(scratch[:0], s[left:mid]...)
		copy(s[left:left+hi], s[mid:right])
		copy(s[left+hi:right], scratch)
	} else {
		scratch = append(scratch[:0], s[mid:right]...)
		copy(s[left+hi:right], s[left:mid])
		copy(s[left:left+hi], scratch)
	}
	clear(scratch)
	return scratch[:0]
}
