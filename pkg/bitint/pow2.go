// SPDX-License-Identifier: MIT

// Package bitint provides power-of-2 helpers for sizing capture windows
// and buffers. All operations are constant-time and allocation-free.
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 >= size. Powers of 2 map
// to themselves; non-positive inputs map to 1. The size-1 adjustment is
// what keeps exact powers of 2 from doubling.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len64(uint64(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of 2. Powers of 2
// have exactly one bit set, so n&(n-1) clears it to zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
