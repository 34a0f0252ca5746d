// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package settings implements the analysis settings
// of a genotype reconstruction project.
package settings

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/js-arias/genorec/cross"
)

// Settings store the parameters
// used by the reconstruction commands.
// They are stored as a TOML file
// in the project.
type Settings struct {
	// Tag of the cross type of the experiment
	CrossType string `toml:"cross_type"`

	// Genotyping error probability
	ErrProb float64 `toml:"error_prob"`

	// Labels of the founder alleles,
	// used to name the genotype states
	Alleles []string `toml:"alleles,omitempty"`

	// Maximum number of iterations
	// of the map re-estimation
	MaxIterations int `toml:"max_iterations"`

	// Tolerance for the convergence
	// of the map re-estimation
	Tol float64 `toml:"tolerance"`

	// Number of parallel process
	// used by the reconstruction commands
	CPU int `toml:"cpu,omitempty"`

	// Seed of the random number generator
	// used by the simulation command
	Seed uint64 `toml:"seed,omitempty"`
}

// Default returns the default settings
// of a project.
func Default() Settings {
	return Settings{
		ErrProb:       0.002,
		MaxIterations: 1000,
		Tol:           0.0001,
	}
}

// AlleleLabels returns the labels
// of the n founder alleles,
// the alleles defined in the settings
// completed with single letters
// (A, B, C, ...)
// as needed.
func (s Settings) AlleleLabels(n int) []string {
	labels := make([]string, 0, n)
	labels = append(labels, s.Alleles...)
	for i := len(labels); i < n; i++ {
		labels = append(labels, string(rune('A'+i)))
	}
	return labels[:n]
}

// Cross returns the cross type model
// defined by the settings.
func (s Settings) Cross() (cross.Cross, error) {
	if s.CrossType == "" {
		return nil, fmt.Errorf("undefined cross type")
	}
	return cross.New(s.CrossType)
}

// Validate returns an error
// if a setting is outside its valid domain.
// An undefined cross type is accepted,
// so a settings file can be created
// before choosing the cross type;
// the commands that require a cross type
// report it with the Cross method.
func (s Settings) Validate() error {
	if s.CrossType != "" {
		if _, err := s.Cross(); err != nil {
			return err
		}
	}
	if s.ErrProb <= 0 || s.ErrProb >= 1 {
		return fmt.Errorf("error probability %.6f outside (0,1)", s.ErrProb)
	}
	if s.MaxIterations < 1 {
		return fmt.Errorf("invalid maximum number of iterations %d", s.MaxIterations)
	}
	if s.Tol <= 0 {
		return fmt.Errorf("invalid tolerance %.6g", s.Tol)
	}
	if s.CPU < 0 {
		return fmt.Errorf("invalid number of parallel process %d", s.CPU)
	}
	return nil
}

// Read reads settings from a TOML file.
func Read(name string) (Settings, error) {
	s := Default()
	if _, err := toml.DecodeFile(name, &s); err != nil {
		return Settings{}, fmt.Errorf("on file %q: %v", name, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("on file %q: %v", name, err)
	}
	return s, nil
}

// Write writes the settings to a TOML file.
func (s Settings) Write(name string) (err error) {
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

	fmt.Fprintf(f, "# settings of a genotype reconstruction project\n")
	fmt.Fprintf(f, "# valid cross types: %s\n", strings.Join(cross.Types(), ", "))
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
