// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package genmap provides a genetic map:
// an ordered collection of marker positions
// (in centiMorgans)
// for each chromosome of a cross.
//
// Positions without an observed genotype
// (pseudomarkers)
// are valid map entries
// and are used to densify the map
// for genotype probability calculations.
package genmap

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
)

// A Map is a genetic map:
// for each chromosome,
// an ordered sequence of markers
// with their positions in centiMorgans.
// Chromosomes named "x"
// (in any case)
// are treated as the X chromosome.
type Map struct {
	chroms  []string
	markers map[string][]string
	pos     map[string][]float64
}

// New creates a new empty genetic map.
func New() *Map {
	return &Map{
		markers: make(map[string][]string),
		pos:     make(map[string][]float64),
	}
}

// Add adds a marker to a chromosome.
// Markers can be added in any order;
// each chromosome is kept sorted by position.
// Markers at equal positions are kept
// (they collapse into a zero length interval).
func (m *Map) Add(chrom, marker string, pos float64) error {
	chrom = strings.TrimSpace(chrom)
	marker = strings.TrimSpace(marker)
	if chrom == "" {
		return errors.New("empty chromosome name")
	}
	if marker == "" {
		return errors.New("empty marker name")
	}
	if math.IsNaN(pos) || math.IsInf(pos, 0) {
		return fmt.Errorf("marker %q: invalid position", marker)
	}

	if _, ok := m.pos[chrom]; !ok {
		m.chroms = append(m.chroms, chrom)
		slices.Sort(m.chroms)
	}
	if slices.Contains(m.markers[chrom], marker) {
		return fmt.Errorf("marker %q already defined in chromosome %q", marker, chrom)
	}

	i, _ := slices.BinarySearch(m.pos[chrom], pos)
	// keep insertion order for markers at equal positions
	for i < len(m.pos[chrom]) && m.pos[chrom][i] == pos {
		i++
	}
	m.pos[chrom] = slices.Insert(m.pos[chrom], i, pos)
	m.markers[chrom] = slices.Insert(m.markers[chrom], i, marker)
	return nil
}

// Chroms returns the chromosome names,
// sorted.
func (m *Map) Chroms() []string {
	return slices.Clone(m.chroms)
}

// IsX returns true if the chromosome
// is the X chromosome.
func IsX(chrom string) bool {
	return strings.EqualFold(chrom, "x")
}

// Markers returns the markers of a chromosome
// in map order.
func (m *Map) Markers(chrom string) []string {
	return slices.Clone(m.markers[chrom])
}

// Pos returns the marker positions of a chromosome,
// in centiMorgans,
// in map order.
func (m *Map) Pos(chrom string) []float64 {
	return slices.Clone(m.pos[chrom])
}

// MarkerIndex returns the index of a marker
// in the map order of a chromosome,
// or -1 if the marker is not in the map.
func (m *Map) MarkerIndex(chrom, marker string) int {
	return slices.Index(m.markers[chrom], marker)
}

// RecFrac returns the recombination fractions
// between adjacent positions of a chromosome,
// using the Haldane map function.
func (m *Map) RecFrac(chrom string) []float64 {
	pos := m.pos[chrom]
	if len(pos) < 2 {
		return nil
	}
	rf := make([]float64, len(pos)-1)
	for i := range rf {
		rf[i] = Haldane(pos[i+1] - pos[i])
	}
	return rf
}

// Haldane returns the recombination fraction
// for a genetic distance in centiMorgans,
// under the Haldane map function
// (no crossover interference).
func Haldane(d float64) float64 {
	return 0.5 * (1 - math.Exp(-2*d/100))
}

// InvHaldane returns the genetic distance
// in centiMorgans
// for a recombination fraction,
// under the Haldane map function.
func InvHaldane(rf float64) float64 {
	if rf >= 0.5 {
		rf = 0.5 - 1e-14
	}
	return -50 * math.Log1p(-2*rf)
}

// WithRecFrac returns a copy of the map
// in which the inter-marker distances of a chromosome
// are taken from the given recombination fractions,
// preserving the marker order
// and the position of the first marker.
// Any other chromosome is copied unchanged.
func (m *Map) WithRecFrac(chrom string, rf []float64) (*Map, error) {
	markers := m.markers[chrom]
	if len(markers) == 0 {
		return nil, fmt.Errorf("undefined chromosome %q", chrom)
	}
	if len(rf) != len(markers)-1 {
		return nil, fmt.Errorf("chromosome %q: got %d recombination fractions, want %d", chrom, len(rf), len(markers)-1)
	}

	nm := New()
	nm.chroms = slices.Clone(m.chroms)
	for _, c := range m.chroms {
		nm.markers[c] = slices.Clone(m.markers[c])
		if c != chrom {
			nm.pos[c] = slices.Clone(m.pos[c])
			continue
		}
		pos := make([]float64, len(markers))
		pos[0] = m.pos[c][0]
		for i, r := range rf {
			pos[i+1] = pos[i] + InvHaldane(r)
		}
		nm.pos[c] = pos
	}
	return nm, nil
}

var header = []string{
	"chromosome",
	"marker",
	"position",
}

// Read reads a genetic map from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - chromosome, the name of the chromosome
//   - marker, the name of the marker
//   - position, the position in centiMorgans
//
// Here is an example file:
//
//	# genetic map
//	chromosome	marker	position
//	1	D1M1	0.0
//	1	D1M2	10.5
//	x	DXM1	5.0
func Read(name string) (*Map, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := readTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return m, nil
}

func readTSV(r io.Reader) (*Map, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		fields[strings.ToLower(h)] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	m := New()
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("row %d: %v", ln, err)
		}

		chrom := row[fields["chromosome"]]
		marker := row[fields["marker"]]
		pos, err := strconv.ParseFloat(row[fields["position"]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: field %q: %v", ln, "position", err)
		}
		if err := m.Add(chrom, marker, pos); err != nil {
			return nil, fmt.Errorf("row %d: %v", ln, err)
		}
	}
	if len(m.chroms) == 0 {
		return nil, errors.New("genetic map without markers")
	}
	return m, nil
}

// Write writes a genetic map to a TSV file.
func (m *Map) Write(name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# genetic map\n")
	if err := m.writeTSV(bw); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

func (m *Map) writeTSV(w io.Writer) error {
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = false

	if err := tsv.Write(header); err != nil {
		return err
	}
	for _, chrom := range m.chroms {
		for i, marker := range m.markers[chrom] {
			row := []string{
				chrom,
				marker,
				strconv.FormatFloat(m.pos[chrom][i], 'f', 6, 64),
			}
			if err := tsv.Write(row); err != nil {
				return err
			}
		}
	}
	tsv.Flush()
	return tsv.Error()
}
