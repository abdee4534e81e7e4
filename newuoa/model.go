// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newuoa

import (
	"github.com/cpmech/gosl/la"

	"github.com/jschueller/prima/hmatrix"
)

// updateModel implements §4.4: refresh (gq, hq, pq) after xpt[:,knew] has
// been overwritten with the accepted point and h has already been
// rebuilt for the new point set.
//
// xdrop is the column knew held before the replacement; xosav is xopt
// held before this step was accepted; moderr is f - fopt_old - qred;
// ximproved reports whether the new point is now the best known, in
// which case d (the accepted step from xosav) also shifts the
// evaluation point of the gradient.
func (s *state) updateModel(knew int, xdrop, xosav la.Vector, moderr float64, ximproved bool, d la.Vector) {
	n := s.n

	pkold := s.pq[knew]
	if pkold != 0 {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				s.hq[i][j] += pkold * xdrop[i] * xdrop[j]
			}
		}
		s.pq[knew] = 0
	}

	omega := s.h.OmegaCol(knew)
	dpq := make(la.Vector, s.npt)
	for k := 0; k < s.npt; k++ {
		dpq[k] = moderr * omega[k]
		s.pq[k] += dpq[k]
	}

	bcol := s.h.BmatCol(knew)
	for i := 0; i < n; i++ {
		s.gq[i] += moderr * bcol[i]
	}
	extra := hmatrix.WeightedHessMul(dpq, s.xpt, xosav, n)
	for i := 0; i < n; i++ {
		s.gq[i] += extra[i]
	}

	if ximproved {
		hx := s.hessMul(d)
		for i := 0; i < n; i++ {
			s.gq[i] += hx[i]
		}
	}
}
