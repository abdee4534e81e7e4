// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package initial implements the Initializer contract of spec.md §6:
// produce the first npt sample points and a consistent quadratic
// model using at most npt evaluations of f.
package initial

import (
	"math"

	"github.com/jschueller/prima/hmatrix"
)

// StopReason reports why Build returned before sampling npt points.
type StopReason int

const (
	// StopNone means all npt points were sampled successfully.
	StopNone StopReason = iota
	// StopNaNInput means a sample point contained NaN, which happens
	// when x0 itself contains NaN.
	StopNaNInput
	// StopNaNInfF means f returned NaN or +Inf for some sample.
	StopNaNInfF
	// StopFtarget means f <= ftarget was observed during sampling.
	StopFtarget
)

// Result holds everything the driver needs to begin its loop.
type Result struct {
	Xbase []float64
	Xpt   [][]float64 // n x npt
	Fval  []float64
	Kopt  int
	Gq    []float64
	Hq    [][]float64 // n x n, zero
	Pq    []float64
	H     *hmatrix.H
	Nf    int
}

// Build samples npt points around x0 at radius rhobeg — the origin,
// then ±rhobeg along each coordinate, then (if npt > 2n+1) paired
// coordinate corners — and fits the least-Frobenius-norm interpolant
// to them.
func Build(n, npt int, rhobeg, ftarget float64, x0 []float64, f func(x []float64) float64) (Result, StopReason, error) {
	xbase := append([]float64(nil), x0...)
	xpt := make([][]float64, n)
	for i := range xpt {
		xpt[i] = make([]float64, npt)
	}
	fval := make([]float64, npt)
	nf := 0

	evalAt := func(k int) StopReason {
		x := make([]float64, n)
		for i := 0; i < n; i++ {
			x[i] = xbase[i] + xpt[i][k]
			if math.IsNaN(x[i]) {
				return StopNaNInput
			}
		}
		fx := f(x)
		nf++
		fval[k] = fx
		if math.IsNaN(fx) || math.IsInf(fx, 1) {
			return StopNaNInfF
		}
		if fx <= ftarget {
			return StopFtarget
		}
		return StopNone
	}

	res := Result{Xbase: xbase, Xpt: xpt, Fval: fval}
	if reason := evalAt(0); reason != StopNone {
		res.Nf = nf
		return res, reason, nil
	}

	for i := 0; i < n; i++ {
		k := i + 1
		if k >= npt {
			break
		}
		xpt[i][k] = rhobeg
		if reason := evalAt(k); reason != StopNone {
			res.Nf = nf
			return res, reason, nil
		}
		k2 := n + 1 + i
		if k2 < npt {
			xpt[i][k2] = -rhobeg
			if reason := evalAt(k2); reason != StopNone {
				res.Nf = nf
				return res, reason, nil
			}
		}
	}

	k := 2*n + 1
	for i := 0; i < n && k < npt; i++ {
		for j := i + 1; j < n && k < npt; j++ {
			xpt[i][k] = rhobeg
			xpt[j][k] = rhobeg
			if reason := evalAt(k); reason != StopNone {
				res.Nf = nf
				return res, reason, nil
			}
			k++
		}
	}

	kopt := 0
	for k := 1; k < npt; k++ {
		if fval[k] < fval[kopt] {
			kopt = k
		}
	}

	h, err := hmatrix.New(n, npt, xpt)
	if err != nil {
		return res, StopNone, err
	}
	gq, pq := h.LeastFrobeniusModel(xpt, fval, kopt)
	hq := make([][]float64, n)
	for i := range hq {
		hq[i] = make([]float64, n)
	}

	res.Kopt = kopt
	res.Gq = gq
	res.Hq = hq
	res.Pq = pq
	res.H = h
	res.Nf = nf
	return res, StopNone, nil
}
