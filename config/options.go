//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package config holds the plain-struct-of-knobs configuration for a
// simplification run, the same role compiler/utils.Params plays for
// the compiler.
package config

import (
	"fmt"

	"github.com/markkurossi/circopt/gate"
)

// Options configures one simplification run.
type Options struct {
	// Basis selects which subcircuit database (AIG or BENCH) the
	// passes consult.
	Basis gate.Basis

	// DatabasePath is the path to the subcircuit database text file.
	DatabasePath string

	// EnableThreeColoring turns on the three-coloring pass in
	// addition to two-coloring. Disabling it limits rewriting to
	// 2-parent cones only.
	EnableThreeColoring bool

	// MinConeSize is the minimum number of gates a color's cone must
	// hold before the rewrite pass considers it for replacement.
	MinConeSize int
}

// New returns Options initialized with the default values, the way
// compiler/utils.NewParams seeds compiler defaults.
func New() *Options {
	return &Options{
		Basis:               gate.BENCH,
		EnableThreeColoring: true,
		MinConeSize:         2,
	}
}

// Validate checks the option set for internal consistency, returning
// a *ConfigError describing the first problem found.
func (o *Options) Validate() error {
	if o.MinConeSize < 2 {
		return &ConfigError{
			Msg: fmt.Sprintf("MinConeSize must be >= 2, got %d", o.MinConeSize),
		}
	}
	if o.DatabasePath == "" {
		return &ConfigError{Msg: "DatabasePath must not be empty"}
	}
	switch o.Basis {
	case gate.AIG, gate.BENCH:
	default:
		return &ConfigError{Msg: fmt.Sprintf("unsupported basis %s", o.Basis)}
	}
	return nil
}
