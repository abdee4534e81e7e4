// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newuoa

import (
	"math"

	"github.com/cpmech/gosl/la"

	"github.com/jschueller/prima/hmatrix"
)

// state owns every array and scalar of one optimization run (§3 of the
// spec this module implements). It replaces the teacher's Global.*
// package-level singleton (fem/s_implicit.go) with a struct any number
// of concurrent runs can each hold their own copy of, per the
// no-process-wide-mutable-state requirement.
type state struct {
	opt Options

	n, npt int

	rho, delta float64
	nf         int
	kopt       int
	itest      int

	dnormsav  [3]float64
	moderrsav [3]float64

	xbase la.Vector  // n
	xpt   [][]float64 // n x npt, columns are sample displacements from xbase
	fval  la.Vector  // npt

	gq la.Vector    // n, model gradient at xopt
	hq [][]float64  // n x n, symmetric
	pq la.Vector    // npt

	h *hmatrix.H // bmat/zmat/idz representation

	d la.Vector // current trial step, length n
}

// xopt returns the best-known point, xpt[:,kopt].
func (s *state) xopt() la.Vector {
	return s.xoptCol(s.kopt)
}

func (s *state) xoptCol(k int) la.Vector {
	v := la.NewVector(s.n)
	for i := 0; i < s.n; i++ {
		v[i] = s.xpt[i][k]
	}
	return v
}

func (s *state) fopt() float64 {
	return s.fval[s.kopt]
}

// gopt returns a copy of the model gradient at xopt, which gq holds
// directly: LeastFrobeniusModel builds it at xopt and updateModel moves
// it along with xopt.
func (s *state) gopt() la.Vector {
	g := la.NewVector(s.n)
	copy(g, s.gq)
	return g
}

// hessMul returns (hq + Σ_k pq_k xpt[:,k] xpt[:,k]ᵀ) v.
func (s *state) hessMul(v la.Vector) la.Vector {
	out := la.NewVector(s.n)
	for i := 0; i < s.n; i++ {
		sum := 0.0
		for j := 0; j < s.n; j++ {
			sum += s.hq[i][j] * v[j]
		}
		out[i] = sum
	}
	for k := 0; k < s.npt; k++ {
		if s.pq[k] == 0 {
			continue
		}
		dot := 0.0
		for i := 0; i < s.n; i++ {
			dot += s.xpt[i][k] * v[i]
		}
		coef := s.pq[k] * dot
		for i := 0; i < s.n; i++ {
			out[i] += coef * s.xpt[i][k]
		}
	}
	return out
}

// modelChange evaluates m(xbase + xopt + y) - m(xbase + xopt) for a
// displacement y from xopt, i.e. the quantity the driver calls qred
// when y = d and the sign is flipped (qred = m(xopt) - m(xopt+d)).
func (s *state) modelChange(y la.Vector) float64 {
	g := s.gopt()
	lin := la.VecDot(g, y)
	hy := s.hessMul(y)
	quad := 0.5 * la.VecDot(y, hy)
	return lin + quad
}

// anyNaN scans every owned array for NaN, the two documented
// checkpoints of §7 (before the TR solve, before the geometry step).
func (s *state) anyNaN() bool {
	check := func(v la.Vector) bool {
		for _, x := range v {
			if math.IsNaN(x) {
				return true
			}
		}
		return false
	}
	checkMat := func(m [][]float64) bool {
		for _, row := range m {
			if check(row) {
				return true
			}
		}
		return false
	}
	if check(s.gq) || check(s.pq) || check(s.xbase) || check(s.fval) {
		return true
	}
	if checkMat(s.hq) || checkMat(s.xpt) {
		return true
	}
	if s.h != nil && s.h.AnyNaN() {
		return true
	}
	return false
}
