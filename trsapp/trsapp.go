// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trsapp implements the trust-region subproblem solver (TRSAPP)
// contract of spec.md §6: given the quadratic model's gradient and
// Hessian-vector product at xopt, find a step d with ‖d‖ <= δ that
// approximately minimizes the model.
//
// This is a truncated (Steihaug-Toint) conjugate-gradient solver, the
// idiomatic generalization of gosl/num.NlSolver's Init/Solve struct
// shape (other_examples/gosl-num-nlsolver.go) to a trust-region
// problem instead of a plain Newton system: same "struct holds
// tolerances, Solve takes the problem data" layout, different
// numerical core.
package trsapp

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// Solver holds the stopping tolerance and iteration cap for the
// truncated CG iteration. Zero values take defaults: Tol 1e-2 and
// MaxIt n.
type Solver struct {
	// Tol is the relative residual tolerance at which CG stops once
	// inside the trust region; spec.md §4.1 calls for tolerance=1e-2.
	Tol float64
	// MaxIt caps the number of CG iterations; defaults to n if <= 0.
	MaxIt int
}

// Solve returns a step d with ‖d‖ <= delta approximately minimizing
// gᵀd + 0.5 dᵀHd, where hessMul computes H·v for any v. crvmin is the
// smallest curvature pᵀHp/‖p‖² seen along a conjugate direction that
// was fully accepted (not truncated by the boundary); it is 0 when no
// positive-curvature direction was certified, per the convention
// spec.md §9 asks callers to adopt.
func (s *Solver) Solve(n int, delta float64, g []float64, hessMul func([]float64) []float64) (d []float64, crvmin float64) {
	tol := s.Tol
	if tol <= 0 {
		tol = 1e-2
	}
	maxIt := s.MaxIt
	if maxIt <= 0 {
		maxIt = n
	}

	z := make([]float64, n)
	r := append([]float64(nil), g...)
	rr := la.VecDot(r, r)
	g0norm := math.Sqrt(rr)
	if g0norm == 0 {
		return z, 0
	}

	p := scale(r, -1)
	crvmin = 0
	haveCurv := false

	for it := 0; it < maxIt; it++ {
		hp := hessMul(p)
		pp := la.VecDot(p, p)
		pHp := la.VecDot(p, hp)

		if pHp <= 0 {
			tau := boundaryTau(z, p, delta)
			return axpy(z, tau, p), 0
		}

		curv := pHp / pp
		alpha := rr / pHp
		znext := axpy(z, alpha, p)
		if la.VecNorm(znext) >= delta {
			tau := boundaryTau(z, p, delta)
			return axpy(z, tau, p), crvmin
		}
		if !haveCurv || curv < crvmin {
			crvmin = curv
			haveCurv = true
		}
		z = znext

		rnext := axpy(r, alpha, hp)
		rrnext := la.VecDot(rnext, rnext)
		if math.Sqrt(rrnext) <= tol*g0norm {
			return z, crvmin
		}

		beta := rrnext / rr
		p = axpy(scale(rnext, -1), beta, p)
		r = rnext
		rr = rrnext
	}
	return z, crvmin
}

// boundaryTau solves ‖z + tau*p‖ = delta for the positive root tau.
func boundaryTau(z, p []float64, delta float64) float64 {
	pp := la.VecDot(p, p)
	zp := la.VecDot(z, p)
	zz := la.VecDot(z, z)
	disc := zp*zp - pp*(zz-delta*delta)
	if disc < 0 {
		disc = 0
	}
	return (-zp + math.Sqrt(disc)) / pp
}

func scale(a []float64, c float64) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = c * v
	}
	return out
}

func axpy(a []float64, c float64, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + c*b[i]
	}
	return out
}
