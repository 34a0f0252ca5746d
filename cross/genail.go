// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cross

import (
	"fmt"
	"math"
)

// A GenAIL is the model of a general advanced intercross
// with n founders mixed by random mating,
// with cross type tags "genail<n>"
// (for example "genail8"),
// and "do" for the Diversity Outbred population
// (n = 8).
//
// The genotype states are the n(n+1)/2
// unordered founder pairs,
// with the pair (a, b), a <= b,
// coded b(b-1)/2+a.
// The cross information of each individual
// is the number of generations of random mating.
//
// Each of the two chromosomes of an individual
// is modelled as an independent founder chain:
// after k generations
// the probability that the founder origins
// at the two ends of an interval
// are decoupled is 1-(1-r)^k,
// and a decoupled origin is a uniform draw
// from the n founders.
// Observed genotypes are biallelic SNP codes
// matched against the genotype expected
// from the founder pair at the marker.
type GenAIL struct {
	n   int
	tag string
}

func (c GenAIL) Type() string { return c.tag }

func (c GenAIL) NumGeno(xChr bool) int { return c.n * (c.n + 1) / 2 }

func (c GenAIL) NumAlleles() int { return c.n }

func (c GenAIL) NeedFounderGeno() bool { return true }

func (c GenAIL) CheckGeno(g int, observed bool, ctx Context) bool {
	if observed {
		return g >= genoA && g <= genoNotA
	}
	return g >= 1 && g <= c.n*(c.n+1)/2
}

func (c GenAIL) PossibleGeno(ctx Context) []int {
	gen := make([]int, c.n*(c.n+1)/2)
	for i := range gen {
		gen[i] = i + 1
	}
	return gen
}

func (c GenAIL) InitLog(g int, ctx Context) float64 {
	a, b := pairGeno(g)
	if a == b {
		return -2 * math.Log(float64(c.n))
	}
	return math.Ln2 - 2*math.Log(float64(c.n))
}

func (c GenAIL) EmitLog(obs, g int, errProb float64, founder []int, ctx Context) float64 {
	if obs == Missing || founder == nil {
		return 0
	}
	a, b := pairGeno(g)
	fa, fb := founder[a-1], founder[b-1]
	if (fa != genoA && fa != genoB) || (fb != genoA && fb != genoB) {
		// a missing founder genotype is uninformative
		return 0
	}
	want := genoH
	if fa == fb {
		want = fa
	}
	return emitBiallelic(obs, want, errProb)
}

func (c GenAIL) StepLog(g1, g2 int, rf float64, ctx Context) float64 {
	k := 1
	if len(ctx.CrossInfo) > 0 {
		k = ctx.CrossInfo[0]
	}
	// probability that the founder origin is decoupled
	// across the interval
	rho := 1 - math.Pow(1-rf, float64(k))
	n := float64(c.n)
	same := 1 - rho + rho/n
	diff := rho / n

	h := func(x, y int) float64 {
		if x == y {
			return same
		}
		return diff
	}

	a, b := pairGeno(g1)
	x, y := pairGeno(g2)
	var p float64
	if x == y {
		p = h(a, x) * h(b, x)
	} else {
		p = h(a, x)*h(b, y) + h(a, y)*h(b, x)
	}
	return math.Log(p)
}

func (c GenAIL) NumRec(g1, g2 int, ctx Context) int {
	a, b := pairGeno(g1)
	x, y := pairGeno(g2)
	d := func(i, j int) int {
		if i == j {
			return 0
		}
		return 1
	}
	straight := d(a, x) + d(b, y)
	crossed := d(a, y) + d(b, x)
	if crossed < straight {
		return crossed
	}
	return straight
}

func (c GenAIL) CheckCrossInfo(ci [][]int, anyX bool) error {
	for _, row := range ci {
		if len(row) != 1 || row[0] < 1 {
			return fmt.Errorf("cross info should be a single column with the number of generations (at least 1)")
		}
	}
	return nil
}

func (c GenAIL) CheckFounderGenoSize(fg [][]int, numMarkers int) error {
	return checkFounderSize(fg, c.n, numMarkers)
}

func (c GenAIL) CheckFounderGenoValues(fg [][]int) error {
	return checkFounderValues(fg)
}

func (c GenAIL) CheckHandleX(anyX bool) (bool, string) {
	if anyX {
		return false, "X chromosome ignored for a general advanced intercross; it will be treated as an autosome"
	}
	return true, ""
}

func (c GenAIL) GenoNames(alleles []string, xChr bool) ([]string, error) {
	if len(alleles) < c.n {
		return nil, fmt.Errorf("cross type %q: expecting %d allele labels", c.tag, c.n)
	}
	names := make([]string, 0, c.n*(c.n+1)/2)
	for b := 1; b <= c.n; b++ {
		for a := 1; a <= b; a++ {
			names = append(names, alleles[a-1]+alleles[b-1])
		}
	}
	return names, nil
}
