// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geostep

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/jschueller/prima/hmatrix"
)

func simplexXpt() [][]float64 {
	return [][]float64{
		{0, 1, 0, -1, 0},
		{0, 0, 1, 0, -1},
	}
}

func Test_step_within_radius(tst *testing.T) {
	chk.PrintTitle("step_within_radius")
	xpt := simplexXpt()
	h, err := hmatrix.New(2, 5, xpt)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	xopt := []float64{0, 0}
	delbar := 0.5
	d := Solve(h, xpt, xopt, 3, delbar, 2)
	n := math.Sqrt(d[0]*d[0] + d[1]*d[1])
	if n > delbar+1e-9 {
		tst.Fatalf("||d||=%g exceeds delbar=%g", n, delbar)
	}
}

// Test_improves_over_origin checks the basic contract: the chosen step
// does at least as well (in |L_knew|) as doing nothing, for a knew
// whose Lagrange function is non-constant near xopt.
func Test_improves_over_origin(tst *testing.T) {
	chk.PrintTitle("improves_over_origin")
	xpt := simplexXpt()
	h, err := hmatrix.New(2, 5, xpt)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	xopt := []float64{0, 0}
	delbar := 1.0
	knew := 1
	d := Solve(h, xpt, xopt, knew, delbar, 2)
	atOrigin := math.Abs(h.Lagrange(knew, xpt, xopt))
	atD := math.Abs(h.Lagrange(knew, xpt, []float64{xopt[0] + d[0], xopt[1] + d[1]}))
	if atD < atOrigin-1e-12 {
		tst.Fatalf("expected |L_knew| at chosen step (%g) >= at origin (%g)", atD, atOrigin)
	}
}
