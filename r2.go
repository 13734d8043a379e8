// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import "math"

// R2 estimates the squared genotypic correlation between two dosage vectors
// of equal length.  Individuals missing in either vector are excluded.  The
// result is NaN when either vector has no variance over the shared
// individuals; very small shared counts are not guarded against.
func R2(a, b []int8) float64 {
	n := len(a)
	var sa, sb, sab, saa, sbb float64
	for i := range a {
		if a[i] == Missing || b[i] == Missing {
			n--
			continue
		}
		x, y := float64(a[i]), float64(b[i])
		sa += x
		sb += y
		sab += x * y
		saa += x * x
		sbb += y * y
	}
	fn := float64(n)
	den := (fn*saa - sa*sa) * (fn*sbb - sb*sb)
	if den <= 0 {
		return math.NaN()
	}
	r := (fn*sab - sa*sb) / math.Sqrt(den)
	return r * r
}

// Exceeds reports whether r2 is above threshold.  NaN never exceeds.
func Exceeds(r2, threshold float64) bool {
	if math.IsNaN(r2) {
		return false
	}
	return r2 > threshold
}
