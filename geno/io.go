// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package geno

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var obsHeader = []string{
	"individual",
	"chromosome",
	"marker",
	"genotype",
}

// ReadObs reads observed genotypes from a TSV file
// into the data set.
//
// The TSV file must contain the following fields:
//
//   - individual, the name of the individual
//   - chromosome, the name of the chromosome
//   - marker, the name of the marker
//     (it must be defined in the genetic map)
//   - genotype, the genotype code
//     (0 for a missing observation)
//
// Here is an example file:
//
//	# observed genotypes
//	individual	chromosome	marker	genotype
//	ind001	1	D1M1	1
//	ind001	1	D1M2	2
func (d *Data) ReadObs(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := d.readObs(f); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

func (d *Data) readObs(r io.Reader) error {
	tsv, fields, err := readHeader(r, obsHeader)
	if err != nil {
		return err
	}

	var rows int
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return fmt.Errorf("row %d: %v", ln, err)
		}

		g, err := strconv.Atoi(row[fields["genotype"]])
		if err != nil {
			return fmt.Errorf("row %d: field %q: %v", ln, "genotype", err)
		}
		ind := row[fields["individual"]]
		chrom := row[fields["chromosome"]]
		marker := row[fields["marker"]]
		if err := d.AddObs(ind, chrom, marker, g); err != nil {
			return fmt.Errorf("row %d: %v", ln, err)
		}
		rows++
	}
	if rows == 0 {
		return ErrNoData
	}
	return nil
}

var founderHeader = []string{
	"founder",
	"chromosome",
	"marker",
	"genotype",
}

// ReadFounders reads founder genotypes from a TSV file
// into the data set.
//
// The TSV file must contain the following fields:
//
//   - founder, the founder number (from 1)
//   - chromosome, the name of the chromosome
//   - marker, the name of the marker
//   - genotype, the genotype code
//     (0 for missing, 1 or 3 for the two alleles)
func (d *Data) ReadFounders(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := d.readFounders(f); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

func (d *Data) readFounders(r io.Reader) error {
	tsv, fields, err := readHeader(r, founderHeader)
	if err != nil {
		return err
	}

	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return fmt.Errorf("row %d: %v", ln, err)
		}

		founder, err := strconv.Atoi(row[fields["founder"]])
		if err != nil {
			return fmt.Errorf("row %d: field %q: %v", ln, "founder", err)
		}
		g, err := strconv.Atoi(row[fields["genotype"]])
		if err != nil {
			return fmt.Errorf("row %d: field %q: %v", ln, "genotype", err)
		}
		chrom := row[fields["chromosome"]]
		marker := row[fields["marker"]]
		if err := d.AddFounder(founder, chrom, marker, g); err != nil {
			return fmt.Errorf("row %d: %v", ln, err)
		}
	}
	return nil
}

var indHeader = []string{
	"individual",
	"sex",
	"cross_info",
}

// ReadIndividuals reads the sex and cross information
// of the individuals from a TSV file
// into the data set.
//
// The TSV file must contain the following fields:
//
//   - individual, the name of the individual
//   - sex, "f" or "female", "m" or "male",
//     or "-" if unknown
//   - cross_info, the cross information
//     as comma separated integer values,
//     or "-" if empty
//
// Here is an example file:
//
//	# individuals
//	individual	sex	cross_info
//	ind001	f	1,2,3,4,5,6,7,8
//	ind002	m	8,7,6,5,4,3,2,1
func (d *Data) ReadIndividuals(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := d.readIndividuals(f); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

func (d *Data) readIndividuals(r io.Reader) error {
	tsv, fields, err := readHeader(r, indHeader)
	if err != nil {
		return err
	}

	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return fmt.Errorf("row %d: %v", ln, err)
		}

		ind := row[fields["individual"]]
		switch sex := strings.ToLower(row[fields["sex"]]); sex {
		case "f", "female":
			d.SetSex(ind, true)
		case "m", "male":
			d.SetSex(ind, false)
		case "", "-":
		default:
			return fmt.Errorf("row %d: field %q: unknown sex %q", ln, "sex", sex)
		}

		ci := strings.TrimSpace(row[fields["cross_info"]])
		if ci == "" || ci == "-" {
			continue
		}
		var info []int
		for _, v := range strings.Split(ci, ",") {
			x, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("row %d: field %q: %v", ln, "cross_info", err)
			}
			info = append(info, x)
		}
		d.SetCrossInfo(ind, info)
	}
	return nil
}

func readHeader(r io.Reader, header []string) (*csv.Reader, map[string]int, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		fields[strings.ToLower(h)] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, nil, fmt.Errorf("expecting field %q", h)
		}
	}
	return tsv, fields, nil
}

// WriteObs writes the observed genotypes
// of the data set to a TSV file,
// in the format read by ReadObs.
// Missing observations are not written.
func (d *Data) WriteObs(name string) (err error) {
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
	fmt.Fprintf(bw, "# observed genotypes\n")

	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = false
	if err := tsv.Write(obsHeader); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	for _, chrom := range d.m.Chroms() {
		markers := d.m.Markers(chrom)
		for _, ind := range d.inds {
			row, ok := d.obs[chrom][ind]
			if !ok {
				continue
			}
			for i, g := range row {
				if g == 0 {
					continue
				}
				out := []string{ind, chrom, markers[i], strconv.Itoa(g)}
				if err := tsv.Write(out); err != nil {
					return fmt.Errorf("on file %q: %v", name, err)
				}
			}
		}
	}
	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
