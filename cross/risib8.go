// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cross

import (
	"fmt"
	"math"
)

// A RISib8 is the model of an eight-way
// recombinant inbred line produced by sibling mating
// (as in the Collaborative Cross),
// with cross type tag "risib8".
//
// The genotype states are the eight homozygous founder genotypes,
// coded 1..8.
// On autosomes the two-point haplotype probabilities
// do not depend on the funnel order
// (Broman, Genetics 169:1133-1146, 2005):
// over 1+6r,
// staying in a state has probability 1-r
// and moving to each other founder r.
// The cross information of each individual
// is a permutation of 1..8
// giving the order of the founders in the funnel.
type RISib8 struct{}

func (RISib8) Type() string { return "risib8" }

func (RISib8) NumGeno(xChr bool) int { return 8 }

func (RISib8) NumAlleles() int { return 8 }

func (RISib8) NeedFounderGeno() bool { return true }

func (RISib8) CheckGeno(g int, observed bool, ctx Context) bool {
	if observed {
		return g >= genoA && g <= genoNotA
	}
	return g >= 1 && g <= 8
}

func (RISib8) PossibleGeno(ctx Context) []int {
	gen := make([]int, 8)
	for i := range gen {
		gen[i] = i + 1
	}
	return gen
}

func (RISib8) InitLog(g int, ctx Context) float64 {
	return -math.Log(8)
}

func (RISib8) EmitLog(obs, g int, errProb float64, founder []int, ctx Context) float64 {
	if obs == Missing || founder == nil {
		return 0
	}
	f := founder[g-1]
	if f != genoA && f != genoB {
		return 0
	}
	if f == obs {
		return math.Log1p(-errProb)
	}
	return math.Log(errProb)
}

func (RISib8) StepLog(g1, g2 int, rf float64, ctx Context) float64 {
	if g1 == g2 {
		return math.Log1p(-rf) - math.Log1p(6*rf)
	}
	return math.Log(rf) - math.Log1p(6*rf)
}

func (RISib8) NumRec(g1, g2 int, ctx Context) int {
	if g1 == g2 {
		return 0
	}
	return 1
}

func (RISib8) CheckCrossInfo(ci [][]int, anyX bool) error {
	return checkPermutation(ci, 8)
}

func (RISib8) CheckFounderGenoSize(fg [][]int, numMarkers int) error {
	return checkFounderSize(fg, 8, numMarkers)
}

func (RISib8) CheckFounderGenoValues(fg [][]int) error {
	return checkFounderValues(fg)
}

func (RISib8) CheckHandleX(anyX bool) (bool, string) {
	if anyX {
		return false, "X chromosome ignored for eight-way recombinant inbred lines by sibling mating; it will be treated as an autosome"
	}
	return true, ""
}

func (RISib8) GenoNames(alleles []string, xChr bool) ([]string, error) {
	if len(alleles) < 8 {
		return nil, fmt.Errorf("cross type %q: expecting 8 allele labels", "risib8")
	}
	names := make([]string, 8)
	for i := 0; i < 8; i++ {
		names[i] = alleles[i] + alleles[i]
	}
	return names, nil
}
