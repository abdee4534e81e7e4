// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package problems collects small analytic objectives used to exercise
// the driver end to end, in the spirit of the teacher's ana/ package of
// closed-form reference solutions (deleted from this module because its
// geomechanics content has no home here; its role — analytic ground
// truth for tests — is what this package keeps).
package problems

import "math"

// Trid returns a strictly convex quadratic f(x) = 0.5 xᵀAx - bᵀx whose
// A is SPD with condition number approximately cond, built as a
// diagonal matrix with geometrically spaced eigenvalues; b is chosen so
// the minimizer is the all-ones vector. Grounded on the spec's scenario
// 1 (Trid-like quadratic, condition 100, n=5).
func Trid(n int, cond float64) (f func(x []float64) float64, xstar []float64) {
	eig := make([]float64, n)
	for i := 0; i < n; i++ {
		if n == 1 {
			eig[i] = 1
		} else {
			t := float64(i) / float64(n-1)
			eig[i] = math.Exp(t * math.Log(cond))
		}
	}
	xstar = make([]float64, n)
	for i := range xstar {
		xstar[i] = 1
	}
	b := make([]float64, n)
	for i := range b {
		b[i] = eig[i] * xstar[i]
	}
	f = func(x []float64) float64 {
		s := 0.0
		for i := 0; i < n; i++ {
			s += 0.5*eig[i]*x[i]*x[i] - b[i]*x[i]
		}
		return s
	}
	return f, xstar
}

// Rosenbrock is the classical banana-valley function in two dimensions,
// minimized at (1,1) with f=0.
func Rosenbrock(x []float64) float64 {
	a := 1 - x[0]
	b := x[1] - x[0]*x[0]
	return a*a + 100*b*b
}

// PowellSingular is Powell's singular function in four dimensions,
// minimized at the origin with f=0; its Hessian is singular there,
// making it a standard stress test for derivative-free Hessian updates.
func PowellSingular(x []float64) float64 {
	t1 := x[0] + 10*x[1]
	t2 := x[2] - x[3]
	t3 := x[1] - 2*x[2]
	t4 := x[0] - x[3]
	return t1*t1 + 5*t2*t2 + t3*t3*t3*t3 + 10*t4*t4*t4*t4
}

// Constant returns an objective identically equal to v, regardless of x.
func Constant(v float64) func(x []float64) float64 {
	return func(x []float64) float64 { return v }
}

// NaNAtStart returns an objective that reports NaN on its first call and
// a well-behaved quadratic bowl on every subsequent call, for exercising
// the NAN_INF_F termination path at the very first evaluation.
func NaNAtStart() func(x []float64) float64 {
	called := false
	return func(x []float64) float64 {
		if !called {
			called = true
			return math.NaN()
		}
		s := 0.0
		for _, xi := range x {
			s += xi * xi
		}
		return s
	}
}
