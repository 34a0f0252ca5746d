// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package geno provides the observed genotype data
// of a set of individuals in an experimental cross:
// the marker genotypes,
// the founder genotypes
// (for founder based cross types),
// and the sex and cross information
// of each individual.
package geno

import (
	"errors"
	"fmt"
	"slices"

	"github.com/js-arias/genorec/cross"
	"github.com/js-arias/genorec/genmap"
)

// Data is a collection of observed genotypes
// aligned with a genetic map.
type Data struct {
	m *genmap.Map

	inds     []string
	female   map[string]bool
	sexKnown map[string]bool
	info     map[string][]int

	// chromosome -> individual -> genotypes in map order
	obs map[string]map[string][]int

	// chromosome -> founder -> genotypes in map order
	founders map[string][][]int
	numFound int
}

// New creates a new empty data set
// for the given genetic map.
func New(m *genmap.Map) *Data {
	return &Data{
		m:        m,
		female:   make(map[string]bool),
		sexKnown: make(map[string]bool),
		info:     make(map[string][]int),
		obs:      make(map[string]map[string][]int),
		founders: make(map[string][][]int),
	}
}

// Map returns the genetic map of the data set.
func (d *Data) Map() *genmap.Map { return d.m }

// AddObs adds an observed genotype
// for an individual at a marker.
func (d *Data) AddObs(ind, chrom, marker string, g int) error {
	if g < 0 {
		return fmt.Errorf("marker %q, individual %q: invalid genotype %d", marker, ind, g)
	}
	i := d.m.MarkerIndex(chrom, marker)
	if i < 0 {
		return fmt.Errorf("marker %q not in chromosome %q of the genetic map", marker, chrom)
	}

	d.addInd(ind)
	co, ok := d.obs[chrom]
	if !ok {
		co = make(map[string][]int)
		d.obs[chrom] = co
	}
	row, ok := co[ind]
	if !ok {
		row = make([]int, len(d.m.Markers(chrom)))
		co[ind] = row
	}
	row[i] = g
	return nil
}

func (d *Data) addInd(ind string) {
	i, ok := slices.BinarySearch(d.inds, ind)
	if ok {
		return
	}
	d.inds = slices.Insert(d.inds, i, ind)
}

// AddFounder adds a founder genotype
// at a marker.
// Founders are identified by their number,
// from 1 to the number of founders
// of the cross type.
func (d *Data) AddFounder(founder int, chrom, marker string, g int) error {
	if founder < 1 {
		return fmt.Errorf("marker %q: invalid founder %d", marker, founder)
	}
	if g < 0 {
		return fmt.Errorf("marker %q, founder %d: invalid genotype %d", marker, founder, g)
	}
	i := d.m.MarkerIndex(chrom, marker)
	if i < 0 {
		return fmt.Errorf("marker %q not in chromosome %q of the genetic map", marker, chrom)
	}

	if founder > d.numFound {
		d.numFound = founder
	}
	fg := d.founders[chrom]
	for len(fg) < founder {
		fg = append(fg, make([]int, len(d.m.Markers(chrom))))
	}
	d.founders[chrom] = fg
	fg[founder-1][i] = g
	return nil
}

// SetSex sets the sex of an individual.
func (d *Data) SetSex(ind string, female bool) {
	d.addInd(ind)
	d.female[ind] = female
	d.sexKnown[ind] = true
}

// SetCrossInfo sets the cross information
// of an individual.
func (d *Data) SetCrossInfo(ind string, info []int) {
	d.addInd(ind)
	d.info[ind] = slices.Clone(info)
}

// Inds returns the names of the individuals
// in the data set,
// sorted.
func (d *Data) Inds() []string {
	return slices.Clone(d.inds)
}

// Female returns true if an individual is a female.
// Individuals of unknown sex
// are treated as females.
func (d *Data) Female(ind string) bool {
	if !d.sexKnown[ind] {
		return true
	}
	return d.female[ind]
}

// CrossInfo returns the cross information
// of an individual.
func (d *Data) CrossInfo(ind string) []int {
	return slices.Clone(d.info[ind])
}

// Obs returns the observed genotypes of a chromosome
// as a matrix with a row per individual
// (in the order given by Inds)
// and a column per map position.
// Positions without an observation
// are coded as missing.
func (d *Data) Obs(chrom string) [][]int {
	num := len(d.m.Markers(chrom))
	obs := make([][]int, len(d.inds))
	for i, ind := range d.inds {
		if row, ok := d.obs[chrom][ind]; ok {
			obs[i] = slices.Clone(row)
			continue
		}
		obs[i] = make([]int, num)
	}
	return obs
}

// HasFounders returns true if the data set
// contains founder genotypes.
func (d *Data) HasFounders() bool { return d.numFound > 0 }

// NumFounders returns the number of founders
// in the data set.
func (d *Data) NumFounders() int { return d.numFound }

// FounderColumns returns the founder genotypes
// of a chromosome
// as a matrix with a row per map position
// and a column per founder,
// or nil if there are no founder genotypes.
func (d *Data) FounderColumns(chrom string) [][]int {
	if d.numFound == 0 {
		return nil
	}
	num := len(d.m.Markers(chrom))
	cols := make([][]int, num)
	fg := d.founders[chrom]
	for i := range cols {
		cols[i] = make([]int, d.numFound)
		for f, row := range fg {
			cols[i][f] = row[i]
		}
	}
	return cols
}

// FounderRows returns the founder genotypes
// of a chromosome
// as a matrix with a row per founder
// and a column per map position.
func (d *Data) FounderRows(chrom string) [][]int {
	if d.numFound == 0 {
		return nil
	}
	num := len(d.m.Markers(chrom))
	rows := make([][]int, d.numFound)
	fg := d.founders[chrom]
	for f := range rows {
		if f < len(fg) {
			rows[f] = slices.Clone(fg[f])
			continue
		}
		rows[f] = make([]int, num)
	}
	return rows
}

// AnyX returns true if the genetic map
// contains an X chromosome.
func (d *Data) AnyX() bool {
	for _, chrom := range d.m.Chroms() {
		if genmap.IsX(chrom) {
			return true
		}
	}
	return false
}

// Validate checks the data set
// against a cross type model.
// It returns the warnings for recoverable issues
// (which should be reported,
// with computation going on),
// and an error for invalid data.
func (d *Data) Validate(c cross.Cross) (warns []string, err error) {
	anyX := d.AnyX()
	handleX, msg := c.CheckHandleX(anyX)
	if !handleX && msg != "" {
		warns = append(warns, msg)
	}
	useX := anyX && handleX

	ci := make([][]int, len(d.inds))
	for i, ind := range d.inds {
		ci[i] = d.info[ind]
	}
	if err := c.CheckCrossInfo(ci, useX); err != nil {
		return warns, err
	}

	if c.NeedFounderGeno() {
		if !d.HasFounders() {
			return warns, fmt.Errorf("cross type %q requires founder genotypes", c.Type())
		}
		if d.numFound != c.NumAlleles() {
			return warns, fmt.Errorf("founder genotypes should have %d founders, got %d", c.NumAlleles(), d.numFound)
		}
		for _, chrom := range d.m.Chroms() {
			fg := d.FounderRows(chrom)
			if err := c.CheckFounderGenoSize(fg, len(d.m.Markers(chrom))); err != nil {
				return warns, fmt.Errorf("chromosome %q: %v", chrom, err)
			}
			if err := c.CheckFounderGenoValues(fg); err != nil {
				return warns, fmt.Errorf("chromosome %q: %v", chrom, err)
			}
		}
	} else if d.HasFounders() {
		warns = append(warns, fmt.Sprintf("founder genotypes ignored for cross type %q", c.Type()))
	}

	if useX {
		for _, ind := range d.inds {
			if !d.sexKnown[ind] {
				return warns, fmt.Errorf("individual %q: sex is required with an X chromosome", ind)
			}
		}
	}

	for _, chrom := range d.m.Chroms() {
		ctx := cross.Context{XChr: genmap.IsX(chrom) && useX}
		markers := d.m.Markers(chrom)
		for _, ind := range d.inds {
			row, ok := d.obs[chrom][ind]
			if !ok {
				continue
			}
			ctx.Female = d.Female(ind)
			ctx.CrossInfo = d.info[ind]
			for i, g := range row {
				if g == cross.Missing {
					continue
				}
				if !c.CheckGeno(g, true, ctx) {
					return warns, fmt.Errorf("individual %q, chromosome %q, marker %q: invalid genotype %d for cross type %q", ind, chrom, markers[i], g, c.Type())
				}
			}
		}
	}
	return warns, nil
}

// Contexts returns the context of each individual
// (in the order given by Inds)
// for the indicated chromosome type.
func (d *Data) Contexts(xChr bool) []cross.Context {
	ctx := make([]cross.Context, len(d.inds))
	for i, ind := range d.inds {
		ctx[i] = cross.Context{
			XChr:      xChr,
			Female:    d.Female(ind),
			CrossInfo: d.info[ind],
		}
	}
	return ctx
}

// ErrNoData is returned when a data set
// has no observed genotypes.
var ErrNoData = errors.New("data set without observed genotypes")
