// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package logspace_test

import (
	"math"
	"testing"

	"github.com/js-arias/genorec/logspace"
)

func TestAdd(t *testing.T) {
	values := []float64{0, -0.5, -1, -10, -100, -1000, -10000}
	for _, a := range values {
		for _, b := range values {
			got := logspace.Add(a, b)
			want := math.Log(math.Exp(a) + math.Exp(b))
			if math.IsInf(want, 0) || math.Exp(a)+math.Exp(b) == 0 {
				// direct computation underflows
				want = math.Max(a, b)
			}
			if math.Abs(got-want) > 1e-9 && math.Abs(got-want) > 1e-9*math.Abs(want) {
				t.Errorf("Add(%g, %g): got %g, want %g", a, b, got, want)
			}
			if sym := logspace.Add(b, a); sym != got {
				t.Errorf("Add(%g, %g) = %g, but Add(%g, %g) = %g", a, b, got, b, a, sym)
			}
			max := math.Max(a, b)
			if got > max+math.Ln2+1e-12 {
				t.Errorf("Add(%g, %g) = %g, larger than max+log(2) = %g", a, b, got, max+math.Ln2)
			}
		}
	}
}

func TestAddInf(t *testing.T) {
	inf := math.Inf(-1)
	for _, a := range []float64{0, -1, -1000, inf} {
		if got := logspace.Add(a, inf); got != a {
			t.Errorf("Add(%g, -Inf): got %g, want %g", a, got, a)
		}
		if got := logspace.Add(inf, a); got != a {
			t.Errorf("Add(-Inf, %g): got %g, want %g", a, got, a)
		}
	}
	if got := logspace.Add(0, 0); math.Abs(got-math.Ln2) > 1e-15 {
		t.Errorf("Add(0, 0): got %g, want log(2) = %g", got, math.Ln2)
	}
	if got := logspace.Add(-1e300, -1e300); math.IsNaN(got) {
		t.Errorf("Add(-1e300, -1e300): got NaN")
	}
}
