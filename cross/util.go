// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cross

import (
	"fmt"
	"math"
)

// Observed genotype codes
// for a biallelic marker:
// homozygous for the first allele,
// heterozygous,
// homozygous for the second allele,
// and the two dominant ambiguity codes.
const (
	genoA    = 1
	genoH    = 2
	genoB    = 3
	genoNotB = 4 // A or H
	genoNotA = 5 // H or B
)

// InvertFounderIndex returns, for each founder,
// its position in the breeding funnel
// given by the cross information
// (a permutation of 1..n).
func invertFounderIndex(ci []int) []int {
	inv := make([]int, len(ci))
	for i, f := range ci {
		inv[f-1] = i
	}
	return inv
}

// CheckPermutation checks that the cross information
// of each individual is a permutation of 1..n.
func checkPermutation(ci [][]int, n int) error {
	var invalid int
	for _, row := range ci {
		if len(row) != n {
			return fmt.Errorf("cross info should have %d columns, indicating the order of the cross", n)
		}
		counts := make([]int, n)
		for _, v := range row {
			if v < 1 || v > n {
				invalid++
				continue
			}
			counts[v-1]++
		}
		for _, c := range counts {
			if c != 1 {
				invalid += abs(c - 1)
			}
		}
	}
	if invalid > 0 {
		return fmt.Errorf("cross info has invalid values: each row should be a permutation of {1, 2, ..., %d}", n)
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// CheckFounderSize checks that a founder genotype matrix
// has n founders and the indicated number of markers.
func checkFounderSize(fg [][]int, n, numMarkers int) error {
	if len(fg) != n {
		return fmt.Errorf("founder genotypes should have %d founders, got %d", n, len(fg))
	}
	for _, row := range fg {
		if len(row) != numMarkers {
			return fmt.Errorf("founder genotypes have an incorrect number of markers: got %d, want %d", len(row), numMarkers)
		}
	}
	return nil
}

// CheckFounderValues checks that a founder genotype matrix
// contains only the values 0, 1, and 3.
func checkFounderValues(fg [][]int) error {
	for _, row := range fg {
		for _, v := range row {
			if v != Missing && v != genoA && v != genoB {
				return fmt.Errorf("founder genotypes contain invalid values: should be in {0, 1, 3}")
			}
		}
	}
	return nil
}

// CheckNoCrossInfo checks that no cross information
// was given for a cross type that does not use it.
func checkNoCrossInfo(ci [][]int, tag string) error {
	for _, row := range ci {
		if len(row) > 0 {
			return fmt.Errorf("cross info should be empty for cross type %q", tag)
		}
	}
	return nil
}

// EmitBiallelic returns the emission log-probability
// for a biallelic observed genotype
// given the expected genotype
// (one of the codes 1, 2, or 3)
// under a uniform genotyping error model.
// A missing observation is uninformative.
func emitBiallelic(obs, want int, errProb float64) float64 {
	switch obs {
	case Missing:
		return 0
	case genoA, genoH, genoB:
		if obs == want {
			return math.Log1p(-errProb)
		}
		return math.Log(errProb / 2)
	case genoNotB:
		if want != genoB {
			return math.Log1p(-errProb / 2)
		}
		return math.Log(errProb)
	case genoNotA:
		if want != genoA {
			return math.Log1p(-errProb / 2)
		}
		return math.Log(errProb)
	}
	return 0
}

// PairGeno returns the two founders
// of an unordered founder pair genotype code,
// with g = second*(second-1)/2 + first
// and first <= second,
// both 1-based.
func pairGeno(g int) (first, second int) {
	second = 1
	for second*(second+1)/2 < g {
		second++
	}
	first = g - second*(second-1)/2
	return first, second
}

// PairCode returns the genotype code
// of an unordered founder pair.
func pairCode(first, second int) int {
	if first > second {
		first, second = second, first
	}
	return second*(second-1)/2 + first
}
