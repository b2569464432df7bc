// Package perm enumerates permutations and combinations of small index sets.
//
// The solvers use it in two places: the dynamic program permutes the
// far-endpoint groups of piercing edges, and both the dynamic program and
// the SAT encoder enumerate fixed-size edge subsets. All generators are
// iterative, so deep enumerations never grow the call stack.
package perm

import "slices"

// Seq returns the slice [0, 1, ..., n-1]. For n <= 0 it returns an empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n!. For n <= 1 it returns 1.
// 13! overflows a 32-bit int; callers keep n small.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Generate returns permutations of [0, 1, ..., n-1] using Heap's algorithm.
//
// If limit > 0, Generate returns at most limit permutations; otherwise all n!.
// The first permutation is always the identity. Each returned slice is a
// separate allocation.
func Generate(n, limit int) [][]int {
	if n <= 1 {
		return [][]int{Seq(n)}
	}

	p := Seq(n)
	state := make([]int, n)

	capacity := Factorial(min(n, 12))
	if limit > 0 {
		capacity = min(capacity, limit)
	}
	result := make([][]int, 0, capacity)
	result = append(result, slices.Clone(p))

	for i := 0; i < n && (limit <= 0 || len(result) < limit); {
		if state[i] < i {
			if i%2 == 0 {
				p[0], p[i] = p[i], p[0]
			} else {
				p[state[i]], p[i] = p[i], p[state[i]]
			}
			result = append(result, slices.Clone(p))
			state[i]++
			i = 0
			continue
		}
		state[i] = 0
		i++
	}
	return result
}

// Combinations calls fn with every k-element subset of [0, n) in
// lexicographic order, stopping early when fn returns false. The slice
// passed to fn is reused between calls. It returns false if fn stopped the
// enumeration.
//
// For k == 0, fn is called once with an empty slice. For k > n it is never
// called.
func Combinations(n, k int, fn func([]int) bool) bool {
	if k < 0 || k > n {
		return true
	}
	idx := Seq(k)
	for {
		if !fn(idx) {
			return false
		}
		// Advance the rightmost index that still has room.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return true
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// Binomial returns the number of k-element subsets of an n-element set.
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
