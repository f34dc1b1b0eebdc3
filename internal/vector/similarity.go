// Package vector provides similarity helpers.
package vector

import "math"

// cosineEpsilon guards against division by zero for zero-norm vectors.
const cosineEpsilon = 1e-10

// Cosine returns the cosine similarity of a and b in [-1, 1]. Vectors of
// different or zero length score 0. Zero-norm vectors score near zero rather
// than NaN.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + cosineEpsilon)
}

// L2Norm returns the L2 norm of x.
func L2Norm(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v * v)
	}
	return math.Sqrt(sum)
}
