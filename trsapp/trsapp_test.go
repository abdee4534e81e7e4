// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trsapp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func diagHessMul(diag []float64) func([]float64) []float64 {
	return func(v []float64) []float64 {
		out := make([]float64, len(v))
		for i, d := range diag {
			out[i] = d * v[i]
		}
		return out
	}
}

// Test_interior_minimum checks that when the unconstrained minimizer
// of the quadratic lies inside the trust region, the solver finds it
// (up to its CG tolerance) rather than walking to the boundary.
func Test_interior_minimum(tst *testing.T) {
	chk.PrintTitle("interior_minimum")
	g := []float64{2, 4}
	diag := []float64{2, 2} // unconstrained minimizer: -g/diag = (-1,-2), norm=sqrt(5)~2.236
	s := &Solver{Tol: 1e-10}
	d, crvmin := s.Solve(2, 10.0, g, diagHessMul(diag))
	tol := 1e-4
	chk.Scalar(tst, "d[0]", tol, d[0], -1.0)
	chk.Scalar(tst, "d[1]", tol, d[1], -2.0)
	if crvmin <= 0 {
		tst.Fatalf("expected crvmin > 0 for a positive-definite model, got %g", crvmin)
	}
}

// Test_boundary_step checks that when the trust region is smaller
// than the unconstrained step, the solution lands exactly on the
// boundary ‖d‖ = delta.
func Test_boundary_step(tst *testing.T) {
	chk.PrintTitle("boundary_step")
	g := []float64{2, 4}
	diag := []float64{2, 2}
	s := &Solver{Tol: 1e-10}
	delta := 1.0
	d, _ := s.Solve(2, delta, g, diagHessMul(diag))
	n := math.Sqrt(d[0]*d[0] + d[1]*d[1])
	chk.Scalar(tst, "||d||", 1e-6, n, delta)
}

// Test_negative_curvature checks that a direction of negative
// curvature drives the step straight to the trust-region boundary
// and crvmin is reported as 0 (no certified positive curvature).
func Test_negative_curvature(tst *testing.T) {
	chk.PrintTitle("negative_curvature")
	g := []float64{1, 0}
	diag := []float64{-1, -1}
	s := &Solver{Tol: 1e-10}
	delta := 2.0
	d, crvmin := s.Solve(2, delta, g, diagHessMul(diag))
	n := math.Sqrt(d[0]*d[0] + d[1]*d[1])
	chk.Scalar(tst, "||d||", 1e-6, n, delta)
	chk.Scalar(tst, "crvmin", 1e-15, crvmin, 0)
}

// Test_zero_gradient checks the degenerate case g=0: the model is
// already stationary at the origin, so the solver must return d=0.
func Test_zero_gradient(tst *testing.T) {
	chk.PrintTitle("zero_gradient")
	g := []float64{0, 0}
	diag := []float64{1, 1}
	s := &Solver{}
	d, crvmin := s.Solve(2, 1.0, g, diagHessMul(diag))
	chk.Array(tst, "d", 1e-15, d, []float64{0, 0})
	chk.Scalar(tst, "crvmin", 1e-15, crvmin, 0)
}
