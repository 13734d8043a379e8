// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import "fmt"

// FilterParams holds the per-site thresholds applied before a site may take
// part in pruning.
type FilterParams struct {
	// Mis is the required proportion of called individuals: 0 allows
	// everything but fully missing sites, 1 allows no missing data
	Mis float64
	// MAF is the smallest minor allele frequency allowed
	MAF float64
}

// Validate checks that both thresholds are proportions.
func (f FilterParams) Validate() error {
	if !(f.Mis >= 0 && f.Mis <= 1) {
		return fmt.Errorf("%w: -mis %g must be between 0 and 1", ErrInvalidConfig, f.Mis)
	}
	if !(f.MAF >= 0 && f.MAF <= 1) {
		return fmt.Errorf("%w: -maf %g must be between 0 and 1", ErrInvalidConfig, f.MAF)
	}
	return nil
}

// PassMissing reports whether the site has little enough missing data.
func (f FilterParams) PassMissing(t *Tally) bool {
	if t.Missing == t.Individuals {
		return false
	}
	return t.MissingFraction() <= 1-f.Mis
}

// PassMAF reports whether the minor allele is common enough.
func (f FilterParams) PassMAF(t *Tally) bool {
	q := t.AltFrequency()
	return !(q < f.MAF || q > 1-f.MAF)
}

// Pass applies both filters.
func (f FilterParams) Pass(t *Tally) bool {
	return f.PassMissing(t) && f.PassMAF(t)
}
