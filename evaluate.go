// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

// Evaluate runs one pruning pass over the first n slots of the window and
// returns how many of them are Kept afterwards.
//
// Every live site is compared against the live sites that follow it in
// buffer order on the same chromosome.  The first pair whose r2 exceeds the
// threshold rejects the earlier site of the pair; the later one is judged on
// its own forward scan.  A site is Kept only if it was Pending or already
// Kept.  Rejected and Emitted sites never become Kept again.
func Evaluate(w *Window, n int, threshold float64) (kept int) {
	w.EachActive(0, n, func(i int, s *Site) bool {
		conflict := false
		w.EachActive(i+1, n, func(_ int, o *Site) bool {
			if o.Locus.Chrom != s.Locus.Chrom {
				return true
			}
			conflict = Exceeds(R2(s.Dosage, o.Dosage), threshold)
			return !conflict
		})
		switch {
		case s.State == Emitted:
		case !conflict && (s.State == Pending || s.State == Kept):
			s.State = Kept
			kept++
		default:
			s.State = Rejected
		}
		return true
	})
	return kept
}
