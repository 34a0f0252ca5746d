// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cross_test

import (
	"math"
	"testing"

	"github.com/js-arias/genorec/cross"
)

// testContexts returns the contexts to test
// for a given cross type tag.
func testContexts(tag string) []cross.Context {
	switch tag {
	case "bc":
		return []cross.Context{
			{Female: true},
			{XChr: true, Female: true},
			{XChr: true, Female: false},
		}
	case "f2":
		return []cross.Context{
			{Female: true, CrossInfo: []int{0}},
			{XChr: true, Female: true, CrossInfo: []int{0}},
			{XChr: true, Female: true, CrossInfo: []int{1}},
			{XChr: true, Female: false, CrossInfo: []int{0}},
		}
	case "riself":
		return []cross.Context{{Female: true}}
	case "risib":
		return []cross.Context{
			{CrossInfo: []int{0}},
			{XChr: true, CrossInfo: []int{0}},
			{XChr: true, CrossInfo: []int{1}},
		}
	case "riself4":
		return []cross.Context{{CrossInfo: []int{3, 1, 4, 2}}}
	case "riself8", "risib8":
		return []cross.Context{
			{CrossInfo: []int{1, 2, 3, 4, 5, 6, 7, 8}},
			{CrossInfo: []int{8, 3, 5, 1, 2, 7, 4, 6}},
		}
	case "riself16":
		ci := make([]int, 16)
		for i := range ci {
			ci[i] = 16 - i
		}
		return []cross.Context{{CrossInfo: ci}}
	case "ail":
		return []cross.Context{
			{CrossInfo: []int{2}},
			{CrossInfo: []int{10}},
		}
	case "do":
		return []cross.Context{
			{CrossInfo: []int{1}},
			{CrossInfo: []int{12}},
		}
	}
	return []cross.Context{{}}
}

var recFracs = []float64{0, 0.001, 0.01, 0.08, 0.2, 0.35, 0.49}

func TestInitSum(t *testing.T) {
	for _, tag := range cross.Types() {
		c, err := cross.New(tag)
		if err != nil {
			t.Fatalf("cross type %q: unexpected error: %v", tag, err)
		}
		for _, ctx := range testContexts(tag) {
			var sum float64
			for _, g := range c.PossibleGeno(ctx) {
				sum += math.Exp(c.InitLog(g, ctx))
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Errorf("cross type %q, context %+v: initial probabilities sum to %g", tag, ctx, sum)
			}
		}
	}
}

func TestStepSum(t *testing.T) {
	for _, tag := range cross.Types() {
		c, err := cross.New(tag)
		if err != nil {
			t.Fatalf("cross type %q: unexpected error: %v", tag, err)
		}
		for _, ctx := range testContexts(tag) {
			gen := c.PossibleGeno(ctx)
			for _, rf := range recFracs {
				for _, g1 := range gen {
					var sum float64
					for _, g2 := range gen {
						sum += math.Exp(c.StepLog(g1, g2, rf, ctx))
					}
					if math.Abs(sum-1) > 1e-9 {
						t.Errorf("cross type %q, context %+v, rf %g: transitions from state %d sum to %g", tag, ctx, rf, g1, sum)
					}
				}
			}
		}
	}
}

func TestStepStationary(t *testing.T) {
	// the initial distribution must be preserved
	// by the transition probabilities
	for _, tag := range cross.Types() {
		c, _ := cross.New(tag)
		for _, ctx := range testContexts(tag) {
			gen := c.PossibleGeno(ctx)
			for _, rf := range recFracs {
				for _, g2 := range gen {
					var sum float64
					for _, g1 := range gen {
						sum += math.Exp(c.InitLog(g1, ctx) + c.StepLog(g1, g2, rf, ctx))
					}
					want := math.Exp(c.InitLog(g2, ctx))
					if math.Abs(sum-want) > 1e-9 {
						t.Errorf("cross type %q, context %+v, rf %g: state %d has stationary probability %g, want %g", tag, ctx, rf, g2, sum, want)
					}
				}
			}
		}
	}
}

func TestNumRec(t *testing.T) {
	for _, tag := range cross.Types() {
		c, _ := cross.New(tag)
		for _, ctx := range testContexts(tag) {
			gen := c.PossibleGeno(ctx)
			for _, g1 := range gen {
				if nr := c.NumRec(g1, g1, ctx); nr != 0 {
					t.Errorf("cross type %q: %d recombinations from state %d to itself", tag, nr, g1)
				}
				for _, g2 := range gen {
					if c.NumRec(g1, g2, ctx) != c.NumRec(g2, g1, ctx) {
						t.Errorf("cross type %q: asymmetric recombination count between states %d and %d", tag, g1, g2)
					}
				}
			}
		}
	}
}

func TestMissingObs(t *testing.T) {
	for _, tag := range cross.Types() {
		c, _ := cross.New(tag)
		for _, ctx := range testContexts(tag) {
			founder := make([]int, c.NumAlleles())
			for i := range founder {
				founder[i] = 1
			}
			for _, g := range c.PossibleGeno(ctx) {
				if e := c.EmitLog(cross.Missing, g, 0.002, founder, ctx); e != 0 {
					t.Errorf("cross type %q: missing observation is informative for state %d: %g", tag, g, e)
				}
			}
		}
	}
}

func TestCheckGeno(t *testing.T) {
	for _, tag := range cross.Types() {
		c, _ := cross.New(tag)
		for _, ctx := range testContexts(tag) {
			for _, g := range c.PossibleGeno(ctx) {
				if !c.CheckGeno(g, false, ctx) {
					t.Errorf("cross type %q: possible state %d rejected", tag, g)
				}
			}
			max := c.NumGeno(ctx.XChr)
			for _, g := range []int{-1, max + 100} {
				if c.CheckGeno(g, false, ctx) {
					t.Errorf("cross type %q: invalid state %d accepted", tag, g)
				}
				if c.CheckGeno(g, true, ctx) {
					t.Errorf("cross type %q: invalid observation %d accepted", tag, g)
				}
			}
		}
	}
}

func TestCheckCrossInfo(t *testing.T) {
	c, _ := cross.New("riself8")
	valid := [][]int{{1, 2, 3, 4, 5, 6, 7, 8}, {8, 7, 6, 5, 4, 3, 2, 1}}
	if err := c.CheckCrossInfo(valid, false); err != nil {
		t.Errorf("riself8: valid cross info rejected: %v", err)
	}

	short := [][]int{{1, 2, 3, 4, 5, 6, 7}}
	if err := c.CheckCrossInfo(short, false); err == nil {
		t.Errorf("riself8: cross info with 7 columns accepted")
	}
	repeated := [][]int{{1, 2, 3, 4, 5, 6, 7, 7}}
	if err := c.CheckCrossInfo(repeated, false); err == nil {
		t.Errorf("riself8: non-permutation cross info accepted")
	}
	outOfRange := [][]int{{1, 2, 3, 4, 5, 6, 7, 9}}
	if err := c.CheckCrossInfo(outOfRange, false); err == nil {
		t.Errorf("riself8: out of range cross info accepted")
	}

	f2, _ := cross.New("f2")
	if err := f2.CheckCrossInfo([][]int{{}}, true); err == nil {
		t.Errorf("f2: empty cross info accepted with an X chromosome")
	}
	if err := f2.CheckCrossInfo([][]int{{0}, {1}}, true); err != nil {
		t.Errorf("f2: valid cross info rejected: %v", err)
	}

	ail, _ := cross.New("ail")
	if err := ail.CheckCrossInfo([][]int{{1}}, false); err == nil {
		t.Errorf("ail: generation number below 2 accepted")
	}

	bc, _ := cross.New("bc")
	if err := bc.CheckCrossInfo([][]int{{1}}, false); err == nil {
		t.Errorf("bc: non-empty cross info accepted")
	}
}

func TestCheckFounderGeno(t *testing.T) {
	c, _ := cross.New("riself4")
	good := [][]int{{1, 3, 0}, {3, 1, 1}, {1, 1, 3}, {3, 3, 1}}
	if err := c.CheckFounderGenoSize(good, 3); err != nil {
		t.Errorf("riself4: valid founder genotypes rejected: %v", err)
	}
	if err := c.CheckFounderGenoValues(good); err != nil {
		t.Errorf("riself4: valid founder values rejected: %v", err)
	}
	if err := c.CheckFounderGenoSize(good, 4); err == nil {
		t.Errorf("riself4: founder genotypes with wrong marker number accepted")
	}
	if err := c.CheckFounderGenoSize(good[:3], 3); err == nil {
		t.Errorf("riself4: founder genotypes with 3 founders accepted")
	}
	bad := [][]int{{1, 3, 0}, {3, 2, 1}, {1, 1, 3}, {3, 3, 1}}
	if err := c.CheckFounderGenoValues(bad); err == nil {
		t.Errorf("riself4: founder genotype value 2 accepted")
	}
}

func TestCheckHandleX(t *testing.T) {
	for _, tag := range []string{"bc", "f2", "risib"} {
		c, _ := cross.New(tag)
		if ok, msg := c.CheckHandleX(true); !ok || msg != "" {
			t.Errorf("cross type %q: X chromosome should be supported", tag)
		}
	}
	for _, tag := range []string{"riself", "riself8", "risib8", "ail", "do"} {
		c, _ := cross.New(tag)
		ok, msg := c.CheckHandleX(true)
		if ok {
			t.Errorf("cross type %q: X chromosome should not be supported", tag)
		}
		if msg == "" {
			t.Errorf("cross type %q: expecting a warning message", tag)
		}
		if ok, _ := c.CheckHandleX(false); !ok {
			t.Errorf("cross type %q: without an X chromosome there is nothing to warn", tag)
		}
	}
}

func TestGenoNames(t *testing.T) {
	alleles := []string{"A", "B", "C", "D", "E", "F", "G", "H"}

	f2, _ := cross.New("f2")
	names, err := f2.GenoNames(alleles[:2], false)
	if err != nil {
		t.Fatalf("f2: unexpected error: %v", err)
	}
	want := []string{"AA", "AB", "BB"}
	for i, n := range names {
		if n != want[i] {
			t.Errorf("f2 genotype names: got %v, want %v", names, want)
			break
		}
	}
	names, err = f2.GenoNames(alleles[:2], true)
	if err != nil {
		t.Fatalf("f2: unexpected error: %v", err)
	}
	want = []string{"AA", "AB", "BB", "AY", "BY"}
	for i, n := range names {
		if n != want[i] {
			t.Errorf("f2 X genotype names: got %v, want %v", names, want)
			break
		}
	}

	do, _ := cross.New("do")
	names, err = do.GenoNames(alleles, false)
	if err != nil {
		t.Fatalf("do: unexpected error: %v", err)
	}
	if len(names) != 36 {
		t.Fatalf("do genotype names: got %d names, want 36", len(names))
	}
	if names[0] != "AA" || names[1] != "AB" || names[2] != "BB" || names[3] != "AC" {
		t.Errorf("do genotype names: got %v...", names[:4])
	}

	if _, err := do.GenoNames(alleles[:4], false); err == nil {
		t.Errorf("do: expecting error with 4 allele labels")
	}
}

func TestRegistry(t *testing.T) {
	for _, tag := range cross.Types() {
		c, err := cross.New(tag)
		if err != nil {
			t.Fatalf("cross type %q: unexpected error: %v", tag, err)
		}
		if c.Type() != tag {
			t.Errorf("cross type %q: tag %q", tag, c.Type())
		}
	}

	c, err := cross.New("genail4")
	if err != nil {
		t.Fatalf("genail4: unexpected error: %v", err)
	}
	if c.NumGeno(false) != 10 {
		t.Errorf("genail4: %d genotypes, want 10", c.NumGeno(false))
	}

	for _, tag := range []string{"", "magic", "genail", "genail1", "genailx"} {
		if _, err := cross.New(tag); err == nil {
			t.Errorf("cross type %q: expecting error", tag)
		}
	}
}

func TestEstRecFrac(t *testing.T) {
	// with expected counts taken from the model
	// the closed form update must return
	// the generating recombination fraction
	for _, tag := range []string{"bc", "riself", "risib", "riself8"} {
		c, _ := cross.New(tag)
		est, ok := c.(cross.RecFracEstimator)
		if !ok {
			t.Fatalf("cross type %q: no closed form estimator", tag)
		}
		ctx := testContexts(tag)[0]
		gen := c.PossibleGeno(ctx)
		for _, rf := range []float64{0.01, 0.1, 0.3} {
			gamma := make([][][]float64, 1)
			gamma[0] = make([][]float64, len(gen))
			for i, g1 := range gen {
				gamma[0][i] = make([]float64, len(gen))
				for j, g2 := range gen {
					gamma[0][i][j] = math.Exp(c.InitLog(g1, ctx) + c.StepLog(g1, g2, rf, ctx))
				}
			}
			got, ok := est.EstRecFrac(gamma, []cross.Context{ctx})
			if !ok {
				t.Fatalf("cross type %q: estimator refused context %+v", tag, ctx)
			}
			if math.Abs(got-rf) > 1e-9 {
				t.Errorf("cross type %q: estimated rf %g, want %g", tag, got, rf)
			}
		}
	}
}
