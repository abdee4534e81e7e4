// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newuoa

// baseShift implements §4.6: recenter xbase at xbase+xopt so that
// ‖xopt‖ resets to 0, preventing rounding error in the bilinear forms
// from growing with ‖xopt‖².
//
// The explicit Hessian hq must absorb the cross terms that appear when
// every xpt column is translated by -xopt, since Σ pq_k xpt_k xpt_kᵀ is
// not itself translation invariant:
//
//	hq' = hq + u·xoptᵀ + xopt·uᵀ - (Σ pq_k)·xopt·xoptᵀ,  u = Σ_k pq_k·xpt_k
//
// gq becomes gopt (the gradient at the old xopt), and bmat/zmat/idz are
// rebuilt outright from the translated point set rather than carried
// through an incremental transform — consistent with this module's
// full-recompute H representation (see hmatrix.Rebuild).
func (s *state) baseShift() error {
	n, npt := s.n, s.npt
	xopt := s.xopt()

	newGq := s.gopt()

	u := make([]float64, n)
	sum := 0.0
	for k := 0; k < npt; k++ {
		pk := s.pq[k]
		if pk == 0 {
			continue
		}
		sum += pk
		for i := 0; i < n; i++ {
			u[i] += pk * s.xpt[i][k]
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			s.hq[i][j] += u[i]*xopt[j] + xopt[i]*u[j] - sum*xopt[i]*xopt[j]
		}
	}

	for k := 0; k < npt; k++ {
		for i := 0; i < n; i++ {
			s.xpt[i][k] -= xopt[i]
		}
	}
	for i := 0; i < n; i++ {
		s.xbase[i] += xopt[i]
	}
	for i := 0; i < n; i++ {
		s.gq[i] = newGq[i]
	}

	return s.h.Rebuild(s.xpt)
}
