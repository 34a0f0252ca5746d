// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package project implements reading and writing
// of GenoRec project files.
//
// A GenoRec project is a tab-delimited file (TSV)
// used to store the different data files
// required by GenoRec commands.
package project

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/js-arias/genorec/genmap"
	"github.com/js-arias/genorec/geno"
	"github.com/js-arias/genorec/settings"
)

// Dataset is a keyword to identify
// the type of a dataset file in a project.
type Dataset string

// Valid dataset types.
const (
	// File for the genetic map
	// with the marker positions.
	GenMap Dataset = "genmap"

	// File for the observed genotypes
	// of the individuals of the cross.
	Geno Dataset = "geno"

	// File for the genotypes of the founder lines.
	Founders Dataset = "founders"

	// File for the sex and cross information
	// of the individuals.
	Individuals Dataset = "individuals"

	// File for the analysis settings.
	Settings Dataset = "settings"
)

// A Project represents a collection of paths
// for particular datasets.
type Project struct {
	name  string
	paths map[Dataset]string
}

// New creates a new empty project.
func New() *Project {
	return &Project{
		name:  "",
		paths: make(map[Dataset]string),
	}
}

var header = []string{
	"dataset",
	"path",
}

// Read reads a project file from a TSV file.
//
// The TSV must contain the following fields:
//
//   - dataset, for the kind of file
//   - path, for the path of the file
//
// Here is an example file:
//
//	# genorec project files
//	dataset	path
//	genmap	genetic-map.tab
//	geno	genotypes.tab
//	founders	founder-genotypes.tab
//	individuals	individuals.tab
//	settings	settings.toml
func Read(name string) (*Project, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := readTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	p.name = name
	return p, nil
}

func readTSV(r io.Reader) (*Project, error) {
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

	p := New()
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("row %d: %v", ln, err)
		}

		set := Dataset(strings.TrimSpace(row[fields["dataset"]]))
		path := strings.TrimSpace(row[fields["path"]])
		if set == "" || path == "" {
			continue
		}
		p.paths[set] = path
	}
	return p, nil
}

// Add adds a filepath of a dataset to a given project.
// It returns the previous value
// for the dataset.
func (p *Project) Add(set Dataset, path string) string {
	prev := p.paths[set]
	if path == "" {
		delete(p.paths, set)
		return prev
	}

	p.paths[set] = path
	return prev
}

// Path returns the path of the given dataset.
func (p *Project) Path(set Dataset) string {
	return p.paths[set]
}

// Sets returns the datasets defined on a project.
func (p *Project) Sets() []Dataset {
	var sets []Dataset
	for s := range p.paths {
		sets = append(sets, s)
	}
	slices.Sort(sets)
	return sets
}

// SetName sets the project file name.
func (p *Project) SetName(name string) {
	p.name = name
}

// Write writes a project into a file.
func (p *Project) Write() (err error) {
	f, err := os.Create(p.name)
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
	fmt.Fprintf(bw, "# genorec project files\n")
	fmt.Fprintf(bw, "# saved on: %s\n", time.Now().Format(time.RFC3339))
	if err := p.writeTSV(bw); err != nil {
		return fmt.Errorf("on file %q: %v", p.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: %v", p.name, err)
	}
	return nil
}

func (p *Project) writeTSV(w io.Writer) error {
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = false

	if err := tsv.Write(header); err != nil {
		return err
	}
	for _, s := range p.Sets() {
		row := []string{
			string(s),
			p.paths[s],
		}
		if err := tsv.Write(row); err != nil {
			return err
		}
	}
	tsv.Flush()
	return tsv.Error()
}

// GenMap returns the genetic map
// defined in the project.
func (p *Project) GenMap() (*genmap.Map, error) {
	name := p.Path(GenMap)
	if name == "" {
		return nil, fmt.Errorf("project without a genetic map")
	}
	return genmap.Read(name)
}

// Data returns the genotype data
// defined in the project,
// over the given genetic map,
// reading the observed genotypes
// as well as the founder and individual files
// if defined.
func (p *Project) Data(m *genmap.Map) (*geno.Data, error) {
	name := p.Path(Geno)
	if name == "" {
		return nil, fmt.Errorf("project without observed genotypes")
	}
	d := geno.New(m)
	if err := d.ReadObs(name); err != nil {
		return nil, err
	}
	if fn := p.Path(Founders); fn != "" {
		if err := d.ReadFounders(fn); err != nil {
			return nil, err
		}
	}
	if in := p.Path(Individuals); in != "" {
		if err := d.ReadIndividuals(in); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Settings returns the analysis settings
// defined in the project,
// or the default settings
// if the project does not define them.
func (p *Project) Settings() (settings.Settings, error) {
	name := p.Path(Settings)
	if name == "" {
		return settings.Default(), nil
	}
	return settings.Read(name)
}
