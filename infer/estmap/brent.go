// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package estmap

import "math"

// fmin searches the minimum of function f
// in the interval (ax, bx)
// by Brent's method,
// a combination of golden section search
// and successive parabolic interpolation.
//
// It is a port of the Brent_fmin function
// of the R stats package
// (R-3.2.2/src/library/stats/src/optimize.c).
func fmin(ax, bx float64, f func(float64) float64, tol float64) float64 {
	// squared inverse of the golden ratio
	gs := (3 - math.Sqrt(5)) / 2

	eps := math.Sqrt(2.220446049250313e-16)
	tol3 := tol / 3

	a, b := ax, bx
	v := a + gs*(b-a)
	w, x := v, v
	var d, e float64
	fx := f(x)
	fv, fw := fx, fx

	for {
		xm := (a + b) / 2
		tol1 := eps*math.Abs(x) + tol3
		t2 := 2 * tol1

		if math.Abs(x-xm) <= t2-(b-a)/2 {
			break
		}

		var p, q, r float64
		if math.Abs(e) > tol1 {
			// fit a parabola
			r = (x - w) * (fx - fv)
			q = (x - v) * (fx - fw)
			p = (x-v)*q - (x-w)*r
			q = (q - r) * 2
			if q > 0 {
				p = -p
			} else {
				q = -q
			}
			r = e
			e = d
		}

		var u float64
		if math.Abs(p) >= math.Abs(q*r/2) || p <= q*(a-x) || p >= q*(b-x) {
			// a golden section step
			if x < xm {
				e = b - x
			} else {
				e = a - x
			}
			d = gs * e
		} else {
			// a parabolic interpolation step
			d = p / q
			u = x + d
			if u-a < t2 || b-u < t2 {
				d = tol1
				if x >= xm {
					d = -d
				}
			}
		}

		// f must not be evaluated too close to x
		if math.Abs(d) >= tol1 {
			u = x + d
		} else if d > 0 {
			u = x + tol1
		} else {
			u = x - tol1
		}
		fu := f(u)

		if fu <= fx {
			if u < x {
				b = x
			} else {
				a = x
			}
			v, w = w, x
			x = u
			fv, fw = fw, fx
			fx = fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v = w
				fv = fw
				w = u
				fw = fu
			} else if fu <= fv || v == x || v == w {
				v = u
				fv = fu
			}
		}
	}
	return x
}
