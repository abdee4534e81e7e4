// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newuoa

import "github.com/cpmech/gosl/la"

// tryAltModel implements §4.5: after a trust-region step's model update,
// decide whether to replace the model by its least-Frobenius-norm
// alternative built directly from the sample values.
//
// The legacy trigger increments itest when ratio <= 0.01 and the
// current model's gradient at xopt is not much larger than the
// alternative's (‖gq‖² <= 100·‖galt‖²); at itest==3 the switch happens
// and itest resets.
// Any other path resets itest to 0, matching §4.5's "any condition that
// fails resets itest" closing rule.
func (s *state) tryAltModel(ratio float64) {
	galt, palt := s.h.LeastFrobeniusModel(s.xpt, s.fval, s.kopt)

	if ratio > 0.01 {
		s.itest = 0
		return
	}
	if la.VecDot(s.gq, s.gq) > 100*la.VecDot(galt, galt) {
		s.itest = 0
		return
	}

	s.itest++
	if s.itest < 3 {
		return
	}

	copy(s.gq, galt)
	copy(s.pq, palt)
	for i := range s.hq {
		for j := range s.hq[i] {
			s.hq[i][j] = 0
		}
	}
	s.itest = 0
}
