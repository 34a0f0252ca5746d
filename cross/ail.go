// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cross

import (
	"fmt"
	"math"

	"github.com/js-arias/genorec/logspace"
)

// An AIL is the model of a two-way advanced intercross line,
// with cross type tag "ail".
// The genotype states and observed codes
// are those of an F2 intercross.
// The cross information of each individual
// is the generation number k (k = 2 is an F2);
// the accumulated recombination fraction
// at generation k is
// R = (1-(1-r)^(k-2)(1-2r))/2
// (Darvasi & Soller, Genetics 141:1199-1207, 1995),
// and the transition probabilities are those of an F2
// at recombination fraction R.
type AIL struct{}

func (AIL) Type() string { return "ail" }

func (AIL) NumGeno(xChr bool) int { return 3 }

func (AIL) NumAlleles() int { return 2 }

func (AIL) NeedFounderGeno() bool { return false }

func (AIL) CheckGeno(g int, observed bool, ctx Context) bool {
	if observed {
		return g >= genoA && g <= genoNotA
	}
	return g >= f2AA && g <= f2BB
}

func (AIL) PossibleGeno(ctx Context) []int { return []int{f2AA, f2AB, f2BB} }

func (AIL) InitLog(g int, ctx Context) float64 {
	if g == f2AB {
		return -math.Ln2
	}
	return -2 * math.Ln2
}

func (AIL) EmitLog(obs, g int, errProb float64, founder []int, ctx Context) float64 {
	return emitBiallelic(obs, g, errProb)
}

// AilRecFrac returns the accumulated recombination fraction
// at generation k.
func ailRecFrac(rf float64, ctx Context) float64 {
	k := 2
	if len(ctx.CrossInfo) > 0 {
		k = ctx.CrossInfo[0]
	}
	return (1 - math.Pow(1-rf, float64(k-2))*(1-2*rf)) / 2
}

func (AIL) StepLog(g1, g2 int, rf float64, ctx Context) float64 {
	r := ailRecFrac(rf, ctx)
	switch {
	case g1 == g2:
		if g1 == f2AB {
			return logspace.Add(2*math.Log1p(-r), 2*math.Log(r))
		}
		return 2 * math.Log1p(-r)
	case g1 == f2AB || g2 == f2AB:
		return math.Ln2 + math.Log(r) + math.Log1p(-r)
	}
	return 2 * math.Log(r)
}

func (AIL) NumRec(g1, g2 int, ctx Context) int {
	if g1 == g2 {
		return 0
	}
	if (g1 == f2AA && g2 == f2BB) || (g1 == f2BB && g2 == f2AA) {
		return 2
	}
	return 1
}

func (AIL) CheckCrossInfo(ci [][]int, anyX bool) error {
	for _, row := range ci {
		if len(row) != 1 || row[0] < 2 {
			return fmt.Errorf("cross info should be a single column with the generation number (at least 2)")
		}
	}
	return nil
}

func (AIL) CheckFounderGenoSize(fg [][]int, numMarkers int) error { return nil }

func (AIL) CheckFounderGenoValues(fg [][]int) error { return nil }

func (AIL) CheckHandleX(anyX bool) (bool, string) {
	if anyX {
		return false, "X chromosome ignored for an advanced intercross line; it will be treated as an autosome"
	}
	return true, ""
}

func (AIL) GenoNames(alleles []string, xChr bool) ([]string, error) {
	if len(alleles) < 2 {
		return nil, fmt.Errorf("cross type %q: expecting 2 allele labels", "ail")
	}
	a, b := alleles[0], alleles[1]
	return []string{a + a, a + b, b + b}, nil
}
