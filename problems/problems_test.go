// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problems

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_trid_minimum_at_xstar(tst *testing.T) {
	chk.PrintTitle("trid_minimum_at_xstar")
	f, xstar := Trid(5, 100)
	chk.IntAssert(len(xstar), 5)
	fmin := f(xstar)
	// perturb each coordinate and check f increases (xstar is a local,
	// and for this convex quadratic, global, minimum).
	for i := range xstar {
		x := append([]float64(nil), xstar...)
		x[i] += 0.1
		if f(x) <= fmin {
			tst.Fatalf("expected perturbation to increase f: f(xstar)=%g f(perturbed)=%g", fmin, f(x))
		}
	}
}

func Test_rosenbrock_minimum(tst *testing.T) {
	chk.PrintTitle("rosenbrock_minimum")
	got := Rosenbrock([]float64{1, 1})
	chk.Scalar(tst, "f(1,1)", 1e-12, got, 0)
}

func Test_powell_singular_minimum(tst *testing.T) {
	chk.PrintTitle("powell_singular_minimum")
	got := PowellSingular([]float64{0, 0, 0, 0})
	chk.Scalar(tst, "f(0,0,0,0)", 1e-12, got, 0)
}

func Test_constant(tst *testing.T) {
	chk.PrintTitle("constant")
	f := Constant(42)
	chk.Scalar(tst, "f(anything)", 1e-12, f([]float64{1, 2, 3}), 42)
	chk.Scalar(tst, "f(anything2)", 1e-12, f([]float64{-9}), 42)
}

func Test_nan_at_start_then_quadratic(tst *testing.T) {
	chk.PrintTitle("nan_at_start_then_quadratic")
	f := NaNAtStart()
	first := f([]float64{1, 2})
	if !math.IsNaN(first) {
		tst.Fatalf("expected NaN on first call, got %g", first)
	}
	second := f([]float64{1, 2})
	chk.Scalar(tst, "second call", 1e-12, second, 5)
}
