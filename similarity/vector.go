package similarity

import "math"

// NormalizeVector normalizes a vector to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	magnitude := math.Sqrt(dot(v, v))
	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Vectors of different length, empty vectors and zero vectors yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	magA, magB := dot(a, a), dot(b, b)
	if magA == 0 || magB == 0 {
		return 0
	}
	c := dot(a, b) / math.Sqrt(magA*magB)
	return max(-1, min(c, 1))
}

// dot accumulates in float64 so long embeddings keep their precision.
func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
