// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package logspace provides numerically stable arithmetic
// for probabilities stored as logarithms.
package logspace

import "math"

// Add returns log(exp(a)+exp(b))
// for two log-probabilities a and b,
// without overflow or underflow
// when the arguments are very negative.
// Negative infinity represents a probability of zero,
// so Add(a, math.Inf(-1)) == a.
func Add(a, b float64) float64 {
	if a < b {
		a, b = b, a
	}
	if math.IsInf(b, -1) {
		return a
	}
	return a + math.Log1p(math.Exp(b-a))
}
