// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package vcf

import (
	"fmt"

	polyld "github.com/facebookincubator/go-polyld"
)

// Dosages extracts the alternative allele dosage of every sample of a data
// row into dst, which must hold one value per sample, and accumulates the
// site sums in t.
func (r *Record) Dosages(t *polyld.Tally, dst []int8) error {
	samples := r.Samples()
	if len(samples) != len(dst) {
		return fmt.Errorf("site %s:%s: %w (%d, expected %d)",
			r.chrom, r.Fields[1], polyld.ErrSampleCount, len(samples), len(dst))
	}
	for i, sample := range samples {
		d, _, err := t.Add(GT(sample))
		if err != nil {
			return fmt.Errorf("site %s:%s: %w", r.chrom, r.Fields[1], err)
		}
		dst[i] = d
	}
	return nil
}
