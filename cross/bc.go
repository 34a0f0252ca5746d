// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cross

import (
	"fmt"
	"math"
)

// Genotype states of a backcross.
// On the X chromosome
// males are hemizygous.
const (
	bcAA = 1
	bcAB = 2
	bcAY = 3
	bcBY = 4
)

// A Backcross is the model of a backcross
// to the first parental strain,
// with cross type tag "bc".
// Observed genotypes are coded
// 1 (homozygous) and 2 (heterozygous);
// on the X chromosome of a male
// the same codes indicate
// the hemizygous A and B genotypes.
type Backcross struct{}

func (Backcross) Type() string { return "bc" }

func (Backcross) NumGeno(xChr bool) int {
	if xChr {
		return 4
	}
	return 2
}

func (Backcross) NumAlleles() int { return 2 }

func (Backcross) NeedFounderGeno() bool { return false }

func (Backcross) CheckGeno(g int, observed bool, ctx Context) bool {
	if observed {
		return g == bcAA || g == bcAB
	}
	if ctx.XChr && !ctx.Female {
		return g == bcAY || g == bcBY
	}
	return g == bcAA || g == bcAB
}

func (Backcross) PossibleGeno(ctx Context) []int {
	if ctx.XChr && !ctx.Female {
		return []int{bcAY, bcBY}
	}
	return []int{bcAA, bcAB}
}

func (Backcross) InitLog(g int, ctx Context) float64 {
	return -math.Ln2
}

func (Backcross) EmitLog(obs, g int, errProb float64, founder []int, ctx Context) float64 {
	if obs == Missing {
		return 0
	}
	want := g
	if ctx.XChr && !ctx.Female {
		want = g - 2
	}
	if obs == want {
		return math.Log1p(-errProb)
	}
	return math.Log(errProb)
}

func (Backcross) StepLog(g1, g2 int, rf float64, ctx Context) float64 {
	if g1 == g2 {
		return math.Log1p(-rf)
	}
	return math.Log(rf)
}

func (Backcross) NumRec(g1, g2 int, ctx Context) int {
	if g1 == g2 {
		return 0
	}
	return 1
}

func (Backcross) CheckCrossInfo(ci [][]int, anyX bool) error {
	return checkNoCrossInfo(ci, "bc")
}

func (Backcross) CheckFounderGenoSize(fg [][]int, numMarkers int) error { return nil }

func (Backcross) CheckFounderGenoValues(fg [][]int) error { return nil }

func (Backcross) CheckHandleX(anyX bool) (bool, string) { return true, "" }

func (Backcross) GenoNames(alleles []string, xChr bool) ([]string, error) {
	if len(alleles) < 2 {
		return nil, fmt.Errorf("cross type %q: expecting 2 allele labels", "bc")
	}
	a, b := alleles[0], alleles[1]
	if xChr {
		return []string{a + a, a + b, a + "Y", b + "Y"}, nil
	}
	return []string{a + a, a + b}, nil
}

// EstRecFrac implements the closed form update
// of the recombination fraction:
// the expected proportion of recombinant intervals.
func (Backcross) EstRecFrac(gamma [][][]float64, ctx []Context) (float64, bool) {
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
	rf := rec / total
	if rf > 0.5 {
		rf = 0.5
	}
	return rf, true
}
