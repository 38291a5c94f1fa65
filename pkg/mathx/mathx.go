// Package mathx collects the exact-integer arithmetic used across node
// and shard/realm bookkeeping, where a silent float rounding would corrupt
// a roster (spec M: "math-exact").
package mathx

import "github.com/hashgraph/solo-sub009/internal/soloerr"

// SumInts adds vs with overflow detection, returning an error rather than
// a silently wrapped sum.
func SumInts(vs ...int) (int, error) {
	var sum int
	for _, v := range vs {
		next := sum + v
		if (v > 0 && next < sum) || (v < 0 && next > sum) {
			return 0, soloerr.IllegalArgument("integer overflow summing %v", vs)
		}
		sum = next
	}
	return sum, nil
}

// DivideEvenly splits total into n whole-number parts, distributing any
// remainder one unit at a time to the first parts, so sum(parts) == total
// exactly (used for default per-node weight assignment when no explicit
// weights are supplied).
func DivideEvenly(total, n int) ([]int, error) {
	if n <= 0 {
		return nil, soloerr.IllegalArgument("cannot divide %d into %d parts", total, n)
	}
	base := total / n
	remainder := total % n
	parts := make([]int, n)
	for i := range parts {
		parts[i] = base
		if i < remainder {
			parts[i]++
		}
	}
	return parts, nil
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
