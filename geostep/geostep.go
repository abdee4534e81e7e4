// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geostep implements the geometry-step contract of spec.md §6
// (GEOSTEP / BIGLAG / BIGDEN): given the H-representation, produce a
// step d with ‖d‖ ≈ delbar that approximately maximizes |L_knew(xopt+d)|,
// improving the poisedness of the interpolation set.
//
// Powell's BIGLAG/BIGDEN jointly optimize the Lagrange value and the
// resulting denominator via a dedicated trigonometric search; this
// module instead evaluates a small, explicit set of candidate
// directions — the Lagrange function's own gradient direction and its
// implicit Hessian's dominant eigendirection (found by power
// iteration) — and keeps whichever boundary point maximizes
// |L_knew(xopt+d)|. This is a documented simplification (DESIGN.md);
// it satisfies the contract ("approximately maximizes") without
// reproducing Powell's specific trigonometric line search.
package geostep

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// Hmatrix is the subset of hmatrix.H this package needs; declared
// locally so geostep does not import hmatrix's concrete type, keeping
// the dependency direction matching spec.md's "driver consumes named
// interfaces" design.
type Hmatrix interface {
	BmatCol(k int) []float64
	OmegaCol(k int) []float64
	Lagrange(k int, xpt [][]float64, y []float64) float64
}

// Solve returns a step d, ‖d‖ <= delbar, approximately maximizing
// |L_knew(xopt+d)|.
func Solve(h Hmatrix, xpt [][]float64, xopt []float64, knew int, delbar float64, n int) []float64 {
	omega := h.OmegaCol(knew)
	npt := len(omega)

	// gradient of L_knew at xopt, in d-space: bmat[:,knew] + Σ_j Ω_j (xpt_j.xopt) xpt_j
	g := append([]float64(nil), h.BmatCol(knew)...)
	for j := 0; j < npt; j++ {
		if omega[j] == 0 {
			continue
		}
		a := dotCol(xpt, j, xopt)
		c := omega[j] * a
		for i := 0; i < n; i++ {
			g[i] += c * xpt[i][j]
		}
	}

	qmul := func(v []float64) []float64 {
		out := make([]float64, n)
		for j := 0; j < npt; j++ {
			if omega[j] == 0 {
				continue
			}
			d := dotCol(xpt, j, v)
			c := omega[j] * d
			for i := 0; i < n; i++ {
				out[i] += c * xpt[i][j]
			}
		}
		return out
	}

	candidates := make([][]float64, 0, 4)
	if gn := la.VecNorm(g); gn > 0 {
		candidates = append(candidates, scale(g, delbar/gn))
	}
	if ev := dominantEigvec(qmul, n, 25); ev != nil {
		candidates = append(candidates, scale(ev, delbar))
	}
	if len(candidates) == 0 {
		d := make([]float64, n)
		d[0] = delbar
		candidates = append(candidates, d)
	}

	best := candidates[0]
	bestVal := math.Abs(h.Lagrange(knew, xpt, add(xopt, best)))
	for _, c := range candidates {
		for _, sign := range []float64{1, -1} {
			d := scale(c, sign)
			val := math.Abs(h.Lagrange(knew, xpt, add(xopt, d)))
			if val > bestVal {
				bestVal = val
				best = d
			}
		}
	}
	return best
}

// dominantEigvec estimates the unit dominant eigenvector of the
// (implicit, symmetric) operator represented by mul via power
// iteration. Returns nil if mul is identically zero.
func dominantEigvec(mul func([]float64) []float64, n, iters int) []float64 {
	v := make([]float64, n)
	v[0] = 1
	for it := 0; it < iters; it++ {
		w := mul(v)
		wn := la.VecNorm(w)
		if wn == 0 {
			return nil
		}
		v = scale(w, 1/wn)
	}
	return v
}

func dotCol(xpt [][]float64, j int, v []float64) float64 {
	s := 0.0
	for i := range v {
		s += xpt[i][j] * v[i]
	}
	return s
}

func scale(a []float64, c float64) []float64 {
	out := make([]float64, len(a))
	for i, x := range a {
		out[i] = c * x
	}
	return out
}

func add(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}
