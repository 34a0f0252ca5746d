// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cross

import (
	"fmt"
	"math"

	"github.com/js-arias/genorec/logspace"
)

// Genotype states of an intercross.
// The hemizygous states are only used
// for males on the X chromosome.
const (
	f2AA = 1
	f2AB = 2
	f2BB = 3
	f2AY = 4
	f2BY = 5
)

// An Intercross is the model of an F2 intercross,
// with cross type tag "f2".
// Observed genotypes are coded
// 1 (AA), 2 (AB), 3 (BB),
// 4 (not BB), and 5 (not AA).
// On the X chromosome
// the cross information of each individual
// gives the direction of the cross:
// 0 if the female parent was from strain A,
// 1 if it was from strain B.
type Intercross struct{}

func (Intercross) Type() string { return "f2" }

func (Intercross) NumGeno(xChr bool) int {
	if xChr {
		return 5
	}
	return 3
}

func (Intercross) NumAlleles() int { return 2 }

func (Intercross) NeedFounderGeno() bool { return false }

func (Intercross) CheckGeno(g int, observed bool, ctx Context) bool {
	if observed {
		return g >= genoA && g <= genoNotA
	}
	if ctx.XChr {
		if !ctx.Female {
			return g == f2AY || g == f2BY
		}
		if reverseCross(ctx) {
			return g == f2AB || g == f2BB
		}
		return g == f2AA || g == f2AB
	}
	return g >= f2AA && g <= f2BB
}

func reverseCross(ctx Context) bool {
	return len(ctx.CrossInfo) > 0 && ctx.CrossInfo[0] == 1
}

func (Intercross) PossibleGeno(ctx Context) []int {
	if ctx.XChr {
		if !ctx.Female {
			return []int{f2AY, f2BY}
		}
		if reverseCross(ctx) {
			return []int{f2AB, f2BB}
		}
		return []int{f2AA, f2AB}
	}
	return []int{f2AA, f2AB, f2BB}
}

func (Intercross) InitLog(g int, ctx Context) float64 {
	if ctx.XChr {
		return -math.Ln2
	}
	if g == f2AB {
		return -math.Ln2
	}
	return -2 * math.Ln2
}

func (Intercross) EmitLog(obs, g int, errProb float64, founder []int, ctx Context) float64 {
	if obs == Missing {
		return 0
	}
	if ctx.XChr && !ctx.Female {
		// hemizygous males:
		// observed codes 1 and 3
		want := genoA
		if g == f2BY {
			want = genoB
		}
		switch obs {
		case want:
			return math.Log1p(-errProb)
		case genoNotB:
			if want == genoA {
				return math.Log1p(-errProb)
			}
			return math.Log(errProb)
		case genoNotA:
			if want == genoB {
				return math.Log1p(-errProb)
			}
			return math.Log(errProb)
		}
		return math.Log(errProb)
	}
	return emitBiallelic(obs, g, errProb)
}

func (Intercross) StepLog(g1, g2 int, rf float64, ctx Context) float64 {
	if ctx.XChr {
		// a single meiosis separates the two states
		if g1 == g2 {
			return math.Log1p(-rf)
		}
		return math.Log(rf)
	}
	switch {
	case g1 == g2:
		if g1 == f2AB {
			return logspace.Add(2*math.Log1p(-rf), 2*math.Log(rf))
		}
		return 2 * math.Log1p(-rf)
	case g1 == f2AB || g2 == f2AB:
		return math.Ln2 + math.Log(rf) + math.Log1p(-rf)
	}
	return 2 * math.Log(rf)
}

func (Intercross) NumRec(g1, g2 int, ctx Context) int {
	if g1 == g2 {
		return 0
	}
	if ctx.XChr {
		return 1
	}
	if (g1 == f2AA && g2 == f2BB) || (g1 == f2BB && g2 == f2AA) {
		return 2
	}
	return 1
}

func (Intercross) CheckCrossInfo(ci [][]int, anyX bool) error {
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

func (Intercross) CheckFounderGenoSize(fg [][]int, numMarkers int) error { return nil }

func (Intercross) CheckFounderGenoValues(fg [][]int) error { return nil }

func (Intercross) CheckHandleX(anyX bool) (bool, string) { return true, "" }

func (Intercross) GenoNames(alleles []string, xChr bool) ([]string, error) {
	if len(alleles) < 2 {
		return nil, fmt.Errorf("cross type %q: expecting 2 allele labels", "f2")
	}
	a, b := alleles[0], alleles[1]
	if xChr {
		return []string{a + a, a + b, b + b, a + "Y", b + "Y"}, nil
	}
	return []string{a + a, a + b, b + b}, nil
}
