// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newuoa

import (
	"github.com/cpmech/gosl/la"

	"github.com/jschueller/prima/hmatrix"
)

// simplexXpt is the canonical n=2, npt=5 interpolation set (origin
// plus unit steps along each axis) shared by the package's unit tests.
func simplexXpt() [][]float64 {
	return [][]float64{
		{0, 1, 0, -1, 0},
		{0, 0, 1, 0, -1},
	}
}

// buildTestState fits the least-Frobenius-norm model to f sampled on
// xpt and wraps everything into a *state, the way initial.Build does
// for the driver, but without going through the initial package so
// tests can hand-pick the point set.
func buildTestState(n, npt int, xpt [][]float64, f func(x []float64) float64) *state {
	fval := make([]float64, npt)
	for k := 0; k < npt; k++ {
		x := make([]float64, n)
		for i := 0; i < n; i++ {
			x[i] = xpt[i][k]
		}
		fval[k] = f(x)
	}
	kopt := 0
	for k := 1; k < npt; k++ {
		if fval[k] < fval[kopt] {
			kopt = k
		}
	}
	h, err := hmatrix.New(n, npt, xpt)
	if err != nil {
		panic(err)
	}
	gq, pq := h.LeastFrobeniusModel(xpt, fval, kopt)
	hq := make([][]float64, n)
	for i := range hq {
		hq[i] = make([]float64, n)
	}
	return &state{
		opt:   Options{Eta1: 0.1, Eta2: 0.7, Gamma1: 0.5, Gamma2: 2},
		n:     n,
		npt:   npt,
		kopt:  kopt,
		xbase: la.NewVector(n),
		xpt:   xpt,
		fval:  la.Vector(fval),
		gq:    la.Vector(gq),
		hq:    hq,
		pq:    la.Vector(pq),
		h:     h,
		d:     la.NewVector(n),
	}
}
