// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Params is the full parameter set of a run.  It can be read from a TOML
// file; command line flags take precedence over it.
type Params struct {
	VCF   string `toml:"vcf"`
	Sites string `toml:"sites"`
	Pops  string `toml:"pops"`

	Mis float64 `toml:"mis"`
	MAF float64 `toml:"maf"`

	Window    int     `toml:"window"`
	Step      int     `toml:"step"`
	Threshold float64 `toml:"r2"`

	// Out selects frequencies (0) or BayPass allele counts (1)
	Out  int    `toml:"out"`
	Info string `toml:"info"`
}

// LoadParams decodes a TOML parameter file on top of defaults.  Keys that
// are absent keep their default value.
func LoadParams(path string, defaults Params) (Params, error) {
	p := defaults
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return defaults, fmt.Errorf("can't read parameter file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return defaults, fmt.Errorf("%w: unknown keys in %s: %s",
			ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	return p, nil
}

// Pruning reports whether LD pruning was requested.
func (p Params) Pruning() bool {
	return p.Threshold < 1
}

// Config extracts the pruning configuration.
func (p Params) Config() Config {
	return Config{Window: p.Window, Step: p.Step, Threshold: p.Threshold}
}

// Filters extracts the per-site filter thresholds.
func (p Params) Filters() FilterParams {
	return FilterParams{Mis: p.Mis, MAF: p.MAF}
}
