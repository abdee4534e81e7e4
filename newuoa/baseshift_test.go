// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newuoa

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_base_shift_preserves_interpolation is (R1): after baseShift,
// re-evaluating the model at every xpt column (now relative to the
// shifted xbase) must still reproduce fval.
func Test_base_shift_preserves_interpolation(tst *testing.T) {
	chk.PrintTitle("base_shift_preserves_interpolation")
	xpt := simplexXpt()
	s := buildTestState(2, 5, xpt, quadf)

	xoptBefore := append([]float64(nil), s.xopt()...)
	xbaseBefore := append([]float64(nil), s.xbase...)

	if err := s.baseShift(); err != nil {
		tst.Fatalf("baseShift failed: %v", err)
	}

	// xopt must now be the origin, and xbase must equal the old
	// xbase+xopt.
	tol := 1e-8
	for i := 0; i < 2; i++ {
		chk.Scalar(tst, "xopt after shift", tol, s.xopt()[i], 0)
		chk.Scalar(tst, "xbase after shift", tol, s.xbase[i], xbaseBefore[i]+xoptBefore[i])
	}

	fopt := s.fopt()
	for k := 0; k < 5; k++ {
		y := make([]float64, 2)
		for i := 0; i < 2; i++ {
			y[i] = s.xpt[i][k] - s.xopt()[i]
		}
		got := fopt + s.modelChange(y)
		chk.Scalar(tst, "model interpolation after shift", 1e-6, got, s.fval[k])
	}
}
