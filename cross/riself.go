// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cross

import (
	"fmt"
	"math"
)

// A RISelf is the model of a two-way recombinant inbred line
// produced by selfing,
// with cross type tag "riself".
// The genotype states are the two homozygous genotypes,
// coded 1 (AA) and 2 (BB).
// On an effectively infinite number of selfing generations
// the recombination fraction between the founder genomes
// is R = 2r/(1+2r)
// (Haldane & Waddington, Genetics 16:357-374, 1931).
type RISelf struct{}

func (RISelf) Type() string { return "riself" }

func (RISelf) NumGeno(xChr bool) int { return 2 }

func (RISelf) NumAlleles() int { return 2 }

func (RISelf) NeedFounderGeno() bool { return false }

func (RISelf) CheckGeno(g int, observed bool, ctx Context) bool {
	return g == 1 || g == 2
}

func (RISelf) PossibleGeno(ctx Context) []int { return []int{1, 2} }

func (RISelf) InitLog(g int, ctx Context) float64 { return -math.Ln2 }

func (RISelf) EmitLog(obs, g int, errProb float64, founder []int, ctx Context) float64 {
	if obs == Missing {
		return 0
	}
	if obs == g {
		return math.Log1p(-errProb)
	}
	return math.Log(errProb)
}

func (RISelf) StepLog(g1, g2 int, rf float64, ctx Context) float64 {
	// R = 2r/(1+2r), so 1-R = 1/(1+2r)
	if g1 == g2 {
		return -math.Log1p(2 * rf)
	}
	return math.Ln2 + math.Log(rf) - math.Log1p(2*rf)
}

func (RISelf) NumRec(g1, g2 int, ctx Context) int {
	if g1 == g2 {
		return 0
	}
	return 1
}

func (RISelf) CheckCrossInfo(ci [][]int, anyX bool) error {
	return checkNoCrossInfo(ci, "riself")
}

func (RISelf) CheckFounderGenoSize(fg [][]int, numMarkers int) error { return nil }

func (RISelf) CheckFounderGenoValues(fg [][]int) error { return nil }

func (RISelf) CheckHandleX(anyX bool) (bool, string) {
	if anyX {
		return false, "X chromosome ignored for recombinant inbred lines by selfing; it will be treated as an autosome"
	}
	return true, ""
}

func (RISelf) GenoNames(alleles []string, xChr bool) ([]string, error) {
	if len(alleles) < 2 {
		return nil, fmt.Errorf("cross type %q: expecting 2 allele labels", "riself")
	}
	return []string{alleles[0] + alleles[0], alleles[1] + alleles[1]}, nil
}

// EstRecFrac implements the closed form update:
// the maximum likelihood estimate of R
// is the expected proportion of switched intervals,
// back-transformed with r = R/(2(1-R)).
func (RISelf) EstRecFrac(gamma [][][]float64, ctx []Context) (float64, bool) {
	var rec, total float64
	for _, g := range gamma {
		for i, row := range g {
			for j, p := range row {
				total += p
				if i != j {
					rec += p
				}
			}
		}
	}
	if total == 0 {
		return 0, false
	}
	bigR := rec / total
	if bigR >= 0.5 {
		return 0.5, true
	}
	return bigR / (2 * (1 - bigR)), true
}
