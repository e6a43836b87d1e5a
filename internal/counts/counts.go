// Package counts owns visitation counters and the saturating arithmetic
// used to merge them across runs.
package counts

import "math"

// SatAdd returns x+y clamped to the int64 range instead of wrapping.
func SatAdd(x, y int64) int64 {
	if y > 0 && x > math.MaxInt64-y {
		return math.MaxInt64
	}
	if y < 0 && x < math.MinInt64-y {
		return math.MinInt64
	}
	return x + y
}

// SumVectors returns the elementwise saturating sum of a and b. The result
// has length max(len(a), len(b)); missing elements count as zero. Neither
// input is mutated.
func SumVectors(a, b []int64) []int64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int64, n)
	for i := range out {
		var x, y int64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		out[i] = SatAdd(x, y)
	}
	return out
}

// Counts is a two-field visitation statistic for one source file.
type Counts struct {
	Visited int64
	Total   int64
}

// Update records one instrumentation point, visited or not.
func (c *Counts) Update(observed bool) {
	c.Total = SatAdd(c.Total, 1)
	if observed {
		c.Visited = SatAdd(c.Visited, 1)
	}
}

// Add returns the saturating sum of two records without mutating either.
func Add(a, b Counts) Counts {
	return Counts{
		Visited: SatAdd(a.Visited, b.Visited),
		Total:   SatAdd(a.Total, b.Total),
	}
}

// FromVector summarizes a counter vector: every element is one point,
// nonzero elements are visited points.
func FromVector(v []int64) Counts {
	var c Counts
	for _, n := range v {
		c.Update(n != 0)
	}
	return c
}
