// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package geno_test

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/genorec/cross"
	"github.com/js-arias/genorec/genmap"
	"github.com/js-arias/genorec/geno"
)

func newMap(t testing.TB) *genmap.Map {
	t.Helper()

	m := genmap.New()
	markers := []struct {
		chrom  string
		marker string
		pos    float64
	}{
		{"1", "D1M1", 0},
		{"1", "D1M2", 10},
		{"1", "D1M3", 30},
		{"x", "DXM1", 0},
		{"x", "DXM2", 12},
	}
	for _, mk := range markers {
		if err := m.Add(mk.chrom, mk.marker, mk.pos); err != nil {
			t.Fatalf("marker %q: unexpected error: %v", mk.marker, err)
		}
	}
	return m
}

func TestData(t *testing.T) {
	d := geno.New(newMap(t))

	obs := []struct {
		ind    string
		chrom  string
		marker string
		g      int
	}{
		{"i2", "1", "D1M1", 1},
		{"i2", "1", "D1M3", 2},
		{"i1", "1", "D1M1", 2},
		{"i1", "1", "D1M2", 2},
		{"i1", "x", "DXM1", 1},
	}
	for _, o := range obs {
		if err := d.AddObs(o.ind, o.chrom, o.marker, o.g); err != nil {
			t.Fatalf("individual %q, marker %q: unexpected error: %v", o.ind, o.marker, err)
		}
	}

	if got, want := d.Inds(), []string{"i1", "i2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("individuals: got %v, want %v", got, want)
	}
	got := d.Obs("1")
	want := [][]int{
		{2, 2, 0},
		{1, 0, 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("chromosome 1 observations: got %v, want %v", got, want)
	}

	if err := d.AddObs("i1", "1", "nope", 1); err == nil {
		t.Errorf("undefined marker accepted")
	}
	if err := d.AddObs("i1", "1", "D1M1", -3); err == nil {
		t.Errorf("negative genotype accepted")
	}

	d.SetSex("i1", true)
	d.SetSex("i2", false)
	if !d.Female("i1") || d.Female("i2") {
		t.Errorf("sex assignment failed")
	}
	if !d.Female("i3") {
		t.Errorf("unknown individuals should default to female")
	}

	d.SetCrossInfo("i1", []int{0})
	if got := d.CrossInfo("i1"); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("cross info: got %v, want [0]", got)
	}

	if !d.AnyX() {
		t.Errorf("the map has an X chromosome")
	}
}

func TestFounders(t *testing.T) {
	d := geno.New(newMap(t))

	for f := 1; f <= 4; f++ {
		g := 1
		if f%2 == 0 {
			g = 3
		}
		for _, mk := range []string{"D1M1", "D1M2", "D1M3"} {
			if err := d.AddFounder(f, "1", mk, g); err != nil {
				t.Fatalf("founder %d, marker %q: unexpected error: %v", f, mk, err)
			}
		}
	}

	if !d.HasFounders() {
		t.Fatalf("data set has founder genotypes")
	}
	if d.NumFounders() != 4 {
		t.Errorf("founders: got %d, want 4", d.NumFounders())
	}

	cols := d.FounderColumns("1")
	if len(cols) != 3 {
		t.Fatalf("founder columns: got %d, want 3", len(cols))
	}
	if !reflect.DeepEqual(cols[0], []int{1, 3, 1, 3}) {
		t.Errorf("founder column 0: got %v, want [1 3 1 3]", cols[0])
	}

	rows := d.FounderRows("1")
	if len(rows) != 4 {
		t.Fatalf("founder rows: got %d, want 4", len(rows))
	}
	if !reflect.DeepEqual(rows[1], []int{3, 3, 3}) {
		t.Errorf("founder row 1: got %v, want [3 3 3]", rows[1])
	}

	if err := d.AddFounder(0, "1", "D1M1", 1); err == nil {
		t.Errorf("founder number 0 accepted")
	}
}

func autosomeMap(t testing.TB) *genmap.Map {
	t.Helper()

	m := genmap.New()
	for i, mk := range []string{"D1M1", "D1M2", "D1M3"} {
		if err := m.Add("1", mk, float64(i)*10); err != nil {
			t.Fatalf("marker %q: unexpected error: %v", mk, err)
		}
	}
	return m
}

func TestValidate(t *testing.T) {
	// an 8-way cross with a cross info
	// of length 7 must be rejected
	d := geno.New(autosomeMap(t))
	if err := d.AddObs("i1", "1", "D1M1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.SetCrossInfo("i1", []int{1, 2, 3, 4, 5, 6, 7})
	for f := 1; f <= 8; f++ {
		for _, mk := range []string{"D1M1", "D1M2", "D1M3"} {
			if err := d.AddFounder(f, "1", mk, 1); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}
	c, _ := cross.New("riself8")
	if _, err := d.Validate(c); err == nil {
		t.Errorf("riself8: cross info with 7 values accepted")
	}
	d.SetCrossInfo("i1", []int{1, 2, 3, 4, 5, 6, 7, 8})
	if warns, err := d.Validate(c); err != nil {
		t.Errorf("riself8: unexpected error: %v", err)
	} else if len(warns) > 0 {
		t.Errorf("riself8: unexpected warnings: %v", warns)
	}

	// founder genotypes are required
	nd := geno.New(autosomeMap(t))
	if err := nd.AddObs("i1", "1", "D1M1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nd.SetCrossInfo("i1", []int{1, 2, 3, 4, 5, 6, 7, 8})
	if _, err := nd.Validate(c); err == nil {
		t.Errorf("riself8: missing founder genotypes accepted")
	}

	// unused founder genotypes are a warning
	bc, _ := cross.New("bc")
	bd := geno.New(autosomeMap(t))
	if err := bd.AddObs("i1", "1", "D1M1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bd.AddFounder(1, "1", "D1M1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	warns, err := bd.Validate(bc)
	if err != nil {
		t.Fatalf("bc: unexpected error: %v", err)
	}
	if len(warns) != 1 || !strings.Contains(warns[0], "ignored") {
		t.Errorf("bc: expecting a founder warning, got %v", warns)
	}

	// invalid observed genotype
	if err := bd.AddObs("i1", "1", "D1M2", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := bd.Validate(bc); err == nil {
		t.Errorf("bc: observed genotype 5 accepted")
	}
}

func TestValidateX(t *testing.T) {
	// with an X chromosome
	// an intercross requires sex and direction
	d := geno.New(newMap(t))
	if err := d.AddObs("i1", "x", "DXM1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, _ := cross.New("f2")
	if _, err := d.Validate(c); err == nil {
		t.Errorf("f2: accepted without cross direction")
	}
	d.SetCrossInfo("i1", []int{0})
	if _, err := d.Validate(c); err == nil {
		t.Errorf("f2: accepted without sex")
	}
	d.SetSex("i1", true)
	if warns, err := d.Validate(c); err != nil {
		t.Errorf("f2: unexpected error: %v", err)
	} else if len(warns) > 0 {
		t.Errorf("f2: unexpected warnings: %v", warns)
	}

	// a selfing RIL ignores the X chromosome
	rd := geno.New(newMap(t))
	if err := rd.AddObs("i1", "x", "DXM1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ril, _ := cross.New("riself")
	warns, err := rd.Validate(ril)
	if err != nil {
		t.Fatalf("riself: unexpected error: %v", err)
	}
	if len(warns) != 1 || !strings.Contains(warns[0], "X chromosome") {
		t.Errorf("riself: expecting an X chromosome warning, got %v", warns)
	}
}

func TestReadWrite(t *testing.T) {
	d := geno.New(newMap(t))
	obs := []struct {
		ind    string
		chrom  string
		marker string
		g      int
	}{
		{"i1", "1", "D1M1", 1},
		{"i1", "1", "D1M2", 2},
		{"i1", "x", "DXM1", 1},
		{"i2", "1", "D1M1", 2},
		{"i2", "1", "D1M3", 1},
	}
	for _, o := range obs {
		if err := d.AddObs(o.ind, o.chrom, o.marker, o.g); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	name := "tmp-genotypes-for-test.tab"
	defer os.Remove(name)
	if err := d.WriteObs(name); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	nd := geno.New(newMap(t))
	if err := nd.ReadObs(name); err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	if got, want := nd.Inds(), d.Inds(); !reflect.DeepEqual(got, want) {
		t.Errorf("individuals: got %v, want %v", got, want)
	}
	for _, chrom := range []string{"1", "x"} {
		if got, want := nd.Obs(chrom), d.Obs(chrom); !reflect.DeepEqual(got, want) {
			t.Errorf("chromosome %q: got %v, want %v", chrom, got, want)
		}
	}
}

func TestReadIndividuals(t *testing.T) {
	file := "# individuals\n" +
		"individual\tsex\tcross_info\n" +
		"i1\tf\t1,2,3,4\n" +
		"i2\tm\t4,3,2,1\n" +
		"i3\t-\t-\n"
	name := "tmp-individuals-for-test.tab"
	defer os.Remove(name)
	if err := os.WriteFile(name, []byte(file), 0644); err != nil {
		t.Fatalf("error when writing file: %v", err)
	}

	d := geno.New(newMap(t))
	if err := d.ReadIndividuals(name); err != nil {
		t.Fatalf("error when reading individuals: %v", err)
	}
	if !d.Female("i1") || d.Female("i2") {
		t.Errorf("sex assignment failed")
	}
	if got := d.CrossInfo("i2"); !reflect.DeepEqual(got, []int{4, 3, 2, 1}) {
		t.Errorf("cross info: got %v, want [4 3 2 1]", got)
	}
	if got := d.CrossInfo("i3"); got != nil {
		t.Errorf("cross info: got %v, want nil", got)
	}
}
