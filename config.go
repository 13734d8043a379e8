// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// ErrInvalidConfig is returned for out of range pruning parameters.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config controls the behavior of the pruner
type Config struct {
	// Window is the number of SNPs considered together
	Window int
	// Step is the number of SNPs placed between evaluation passes once
	// the window is full
	Step int
	// Threshold is the largest r2 two kept sites may share
	Threshold float64
}

// Validate checks the window, step and threshold ranges.
func (c Config) Validate() error {
	if c.Window < 1 {
		return fmt.Errorf("%w: window size %d must be at least 1", ErrInvalidConfig, c.Window)
	}
	if c.Step < 1 || c.Step > c.Window {
		return fmt.Errorf("%w: step size %d must be between 1 and the window size %d",
			ErrInvalidConfig, c.Step, c.Window)
	}
	if !(c.Threshold >= 0 && c.Threshold <= 1) {
		return fmt.Errorf("%w: r2 threshold %g must be between 0 and 1", ErrInvalidConfig, c.Threshold)
	}
	return nil
}

// BytesRequired reports the size of the dosage arena for the given number
// of individuals.  It does not depend on the length of the input.
func (c Config) BytesRequired(individuals int) uint64 {
	return uint64(c.Window) * uint64(individuals)
}

// Explain logs a summary of the configuration
func (c Config) Explain(logger log.FieldLogger, individuals int) {
	logger.WithFields(log.Fields{
		"window":      c.Window,
		"step":        c.Step,
		"r2":          c.Threshold,
		"individuals": individuals,
		"arena":       humanize.Bytes(c.BytesRequired(individuals)),
	}).Info("allocated pruning window")
}
