// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cross

import (
	"fmt"
	"math"
)

// A RISib is the model of a two-way recombinant inbred line
// produced by sibling mating,
// with cross type tag "risib".
// The genotype states are the two homozygous genotypes,
// coded 1 (AA) and 2 (BB).
// On autosomes the recombination fraction
// between the founder genomes is R = 4r/(1+6r);
// on the X chromosome it is R = (8/3)r/(1+4r),
// and the line fixes the X of the female founder
// with probability 2/3
// (Haldane & Waddington, Genetics 16:357-374, 1931).
// The cross information of each individual
// gives the direction of the initial cross:
// 0 if the female parent was from strain A,
// 1 if it was from strain B.
type RISib struct{}

func (RISib) Type() string { return "risib" }

func (RISib) NumGeno(xChr bool) int { return 2 }

func (RISib) NumAlleles() int { return 2 }

func (RISib) NeedFounderGeno() bool { return false }

func (RISib) CheckGeno(g int, observed bool, ctx Context) bool {
	return g == 1 || g == 2
}

func (RISib) PossibleGeno(ctx Context) []int { return []int{1, 2} }

// XFreq is the stationary probability
// of fixing the X chromosome of strain A.
func xFreq(ctx Context) float64 {
	if reverseCross(ctx) {
		return 1.0 / 3.0
	}
	return 2.0 / 3.0
}

func (RISib) InitLog(g int, ctx Context) float64 {
	if !ctx.XChr {
		return -math.Ln2
	}
	pA := xFreq(ctx)
	if g == 1 {
		return math.Log(pA)
	}
	return math.Log1p(-pA)
}

func (RISib) EmitLog(obs, g int, errProb float64, founder []int, ctx Context) float64 {
	if obs == Missing {
		return 0
	}
	if obs == g {
		return math.Log1p(-errProb)
	}
	return math.Log(errProb)
}

func (RISib) StepLog(g1, g2 int, rf float64, ctx Context) float64 {
	if !ctx.XChr {
		// R = 4r/(1+6r)
		if g1 == g2 {
			return math.Log1p(2*rf) - math.Log1p(6*rf)
		}
		return math.Log(4*rf) - math.Log1p(6*rf)
	}

	// on the X chromosome the chain is not symmetric:
	// the stationary distribution is (2/3, 1/3)
	// and the joint probability of a switch is R/2
	// in both directions (detailed balance)
	bigR := (8.0 / 3.0) * rf / (1 + 4*rf)
	p1 := xFreq(ctx)
	if g2 != g1 {
		if g1 == 1 {
			return math.Log(bigR / 2 / p1)
		}
		return math.Log(bigR / 2 / (1 - p1))
	}
	if g1 == 1 {
		return math.Log1p(-bigR / 2 / p1)
	}
	return math.Log1p(-bigR / 2 / (1 - p1))
}

func (RISib) NumRec(g1, g2 int, ctx Context) int {
	if g1 == g2 {
		return 0
	}
	return 1
}

func (RISib) CheckCrossInfo(ci [][]int, anyX bool) error {
	for _, row := range ci {
		if len(row) == 0 {
			if anyX {
				return fmt.Errorf("cross info with the cross direction (0 or 1) is required with an X chromosome")
			}
			continue
		}
		if len(row) != 1 || (row[0] != 0 && row[0] != 1) {
			return fmt.Errorf("cross info should be a single column with the cross direction (0 or 1)")
		}
	}
	return nil
}

func (RISib) CheckFounderGenoSize(fg [][]int, numMarkers int) error { return nil }

func (RISib) CheckFounderGenoValues(fg [][]int) error { return nil }

func (RISib) CheckHandleX(anyX bool) (bool, string) { return true, "" }

func (RISib) GenoNames(alleles []string, xChr bool) ([]string, error) {
	if len(alleles) < 2 {
		return nil, fmt.Errorf("cross type %q: expecting 2 allele labels", "risib")
	}
	return []string{alleles[0] + alleles[0], alleles[1] + alleles[1]}, nil
}

// EstRecFrac implements the closed form update
// for autosomes,
// back-transforming the expected proportion
// of switched intervals with r = R/(4-6R).
// On the X chromosome the numerical update is used.
func (RISib) EstRecFrac(gamma [][][]float64, ctx []Context) (float64, bool) {
	for _, c := range ctx {
		if c.XChr {
			return 0, false
		}
	}
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
	rf := bigR / (4 - 6*bigR)
	if rf > 0.5 || rf < 0 {
		rf = 0.5
	}
	return rf, true
}
