// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newuoa

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func quadf(x []float64) float64 {
	return x[0] + 2*x[1] + x[0]*x[0] + x[1]*x[1]
}

// Test_initial_model_interpolates checks invariant I1 for the model
// built directly from a least-Frobenius fit (before any update).
func Test_initial_model_interpolates(tst *testing.T) {
	chk.PrintTitle("initial_model_interpolates")
	xpt := simplexXpt()
	s := buildTestState(2, 5, xpt, quadf)
	fopt := s.fopt()
	tol := 1e-6
	for k := 0; k < 5; k++ {
		y := make([]float64, 2)
		for i := 0; i < 2; i++ {
			y[i] = xpt[i][k] - s.xopt()[i]
		}
		got := fopt + s.modelChange(y)
		chk.Scalar(tst, "model interpolation", tol, got, s.fval[k])
	}
}

// Test_update_model_restores_interpolation replaces one point of the
// interpolation set with a new sample and checks that, after
// h.Update and s.updateModel, the model again interpolates every
// point of the new set (§4.4's restoration guarantee).
func Test_update_model_restores_interpolation(tst *testing.T) {
	chk.PrintTitle("update_model_restores_interpolation")
	xpt := simplexXpt()
	s := buildTestState(2, 5, xpt, quadf)

	knew := 3 // replace the (-1,0) sample
	xosav := s.xopt()
	xdrop := s.xoptCol(knew)
	y := []float64{0.5, 0.5} // new point, xbase-relative (xbase=0 here)
	fx := quadf(y)
	fopt := s.fopt()
	qred := -s.modelChange([]float64{y[0] - xosav[0], y[1] - xosav[1]})
	moderr := fx - fopt + qred

	xptOld := copyXpt(s.xpt)
	if err := s.h.Update(knew, y, xptOld); err != nil {
		tst.Fatalf("Update failed: %v", err)
	}
	s.xpt[0][knew] = y[0]
	s.xpt[1][knew] = y[1]
	s.fval[knew] = fx
	ximproved := fx < fopt
	if ximproved {
		s.kopt = knew
	}
	s.updateModel(knew, xdrop, xosav, moderr, ximproved, []float64{y[0] - xosav[0], y[1] - xosav[1]})

	tol := 1e-5
	newFopt := s.fopt()
	for k := 0; k < 5; k++ {
		yk := make([]float64, 2)
		for i := 0; i < 2; i++ {
			yk[i] = s.xpt[i][k] - s.xopt()[i]
		}
		got := newFopt + s.modelChange(yk)
		chk.Scalar(tst, "model interpolation after update", tol, got, s.fval[k])
	}
}
