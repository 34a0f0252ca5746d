// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package settings_test

import (
	"os"
	"reflect"
	"testing"

	"github.com/js-arias/genorec/settings"
)

func TestReadWrite(t *testing.T) {
	s := settings.Default()
	s.CrossType = "riself8"
	s.Alleles = []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	s.Seed = 42

	name := "tmp-settings-for-test.toml"
	defer os.Remove(name)
	if err := s.Write(name); err != nil {
		t.Fatalf("error when writing settings: %v", err)
	}

	ns, err := settings.Read(name)
	if err != nil {
		t.Fatalf("error when reading settings: %v", err)
	}
	if !reflect.DeepEqual(ns, s) {
		t.Errorf("settings: got %+v, want %+v", ns, s)
	}

	c, err := ns.Cross()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Type() != "riself8" {
		t.Errorf("cross type: got %q, want %q", c.Type(), "riself8")
	}
}

func TestValidate(t *testing.T) {
	s := settings.Default()
	if err := s.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := s.Cross(); err == nil {
		t.Errorf("expecting an error for an undefined cross type")
	}

	s.CrossType = "bc"
	if err := s.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := []func(*settings.Settings){
		func(s *settings.Settings) { s.CrossType = "magic" },
		func(s *settings.Settings) { s.ErrProb = 0 },
		func(s *settings.Settings) { s.ErrProb = 1.5 },
		func(s *settings.Settings) { s.MaxIterations = 0 },
		func(s *settings.Settings) { s.Tol = -1 },
		func(s *settings.Settings) { s.CPU = -1 },
	}
	for i, fn := range bad {
		ns := s
		fn(&ns)
		if err := ns.Validate(); err == nil {
			t.Errorf("case %d: invalid settings accepted: %+v", i, ns)
		}
	}
}
