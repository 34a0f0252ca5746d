// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cross

import (
	"fmt"
	"math"
)

// A RISelfN is the model of a multi-way
// (4, 8, or 16 founders)
// recombinant inbred line produced by selfing,
// with cross type tags
// "riself4", "riself8", and "riself16".
//
// The genotype states are the n homozygous founder genotypes,
// coded 1..n.
// The cross information of each individual
// is a permutation of 1..n
// giving the order of the founders
// in the breeding funnel;
// founders at positions 2i-1 and 2i were crossed directly.
// Observed genotypes are biallelic SNP codes
// matched against the founder genotypes at the marker.
//
// Transition probabilities follow
// Teuscher & Broman, Genetics 175:1267-1274 (2007):
// over 1+2r,
// staying in a state has probability (1-r)²,
// moving to the founder crossed directly r(1-r),
// and moving to any other founder 3r/(n-2).
type RISelfN struct {
	n int
}

func (c RISelfN) Type() string { return fmt.Sprintf("riself%d", c.n) }

func (c RISelfN) NumGeno(xChr bool) int { return c.n }

func (c RISelfN) NumAlleles() int { return c.n }

func (c RISelfN) NeedFounderGeno() bool { return true }

func (c RISelfN) CheckGeno(g int, observed bool, ctx Context) bool {
	if observed {
		return g >= genoA && g <= genoNotA
	}
	return g >= 1 && g <= c.n
}

func (c RISelfN) PossibleGeno(ctx Context) []int {
	gen := make([]int, c.n)
	for i := range gen {
		gen[i] = i + 1
	}
	return gen
}

func (c RISelfN) InitLog(g int, ctx Context) float64 {
	return -math.Log(float64(c.n))
}

func (c RISelfN) EmitLog(obs, g int, errProb float64, founder []int, ctx Context) float64 {
	if obs == Missing || founder == nil {
		return 0
	}
	f := founder[g-1]
	if f != genoA && f != genoB {
		// founder genotype missing:
		// the observation is uninformative
		return 0
	}
	if f == obs {
		return math.Log1p(-errProb)
	}
	return math.Log(errProb)
}

func (c RISelfN) StepLog(g1, g2 int, rf float64, ctx Context) float64 {
	if g1 == g2 {
		return 2*math.Log1p(-rf) - math.Log1p(2*rf)
	}
	fi := invertFounderIndex(ctx.CrossInfo)
	if fi[g1-1]/2 == fi[g2-1]/2 {
		// the founders were crossed directly
		return math.Log(rf) + math.Log1p(-rf) - math.Log1p(2*rf)
	}
	return math.Log(3*rf) - math.Log(float64(c.n-2)) - math.Log1p(2*rf)
}

func (c RISelfN) NumRec(g1, g2 int, ctx Context) int {
	if g1 == g2 {
		return 0
	}
	return 1
}

func (c RISelfN) CheckCrossInfo(ci [][]int, anyX bool) error {
	return checkPermutation(ci, c.n)
}

func (c RISelfN) CheckFounderGenoSize(fg [][]int, numMarkers int) error {
	return checkFounderSize(fg, c.n, numMarkers)
}

func (c RISelfN) CheckFounderGenoValues(fg [][]int) error {
	return checkFounderValues(fg)
}

func (c RISelfN) CheckHandleX(anyX bool) (bool, string) {
	if anyX {
		return false, "X chromosome ignored for recombinant inbred lines by selfing; it will be treated as an autosome"
	}
	return true, ""
}

func (c RISelfN) GenoNames(alleles []string, xChr bool) ([]string, error) {
	if len(alleles) < c.n {
		return nil, fmt.Errorf("cross type %q: expecting %d allele labels", c.Type(), c.n)
	}
	names := make([]string, c.n)
	for i := 0; i < c.n; i++ {
		names[i] = alleles[i] + alleles[i]
	}
	return names, nil
}

// EstRecFrac implements the closed form
// maximum likelihood update of the recombination fraction
// from the expected counts of the three transition classes
// (same founder,
// founders crossed directly,
// and founders apart in the funnel).
// The quadratic solution is from
// Broman, Genetics 169:1133-1146 (2005).
func (c RISelfN) EstRecFrac(gamma [][][]float64, ctx []Context) (float64, bool) {
	var u, v, w float64
	for ind, g := range gamma {
		fi := invertFounderIndex(ctx[ind].CrossInfo)
		for i, row := range g {
			for j, p := range row {
				switch {
				case i == j:
					u += p
				case fi[i]/2 == fi[j]/2:
					v += p
				default:
					w += p
				}
			}
		}
	}
	n := u + v + w
	if n == 0 {
		return 0, false
	}

	a := math.Sqrt(4*n*n + 4*n*(2*u-2*v-3*w) + 9*w*w + 12*w*(u+2*v) +
		16*v*v + 16*u*v + 4*u*u)
	rf := (2*n + 2*u - w - a) / 4 / (n - w - 2*v - 2*u)

	if rf < 0 || math.IsNaN(rf) {
		rf = 0
	}
	if rf > 0.5 {
		rf = 0.5
	}
	return rf, true
}
