// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package newuoa implements the iterative core of Powell's NEWUOA
// derivative-free trust-region method: a quadratic interpolation model
// over npt sample points, refined by an alternation of trust-region
// steps (TRSAPP) and geometry-improving steps (GEOSTEP), with the
// inverse KKT matrix H maintained through point replacements (UPDATEH).
//
// It generalizes the teacher's Newton-Raphson driver loop
// (fem.SolverImplicit.Run, fem/s_implicit.go) from a Jacobian-based
// nonlinear solve to a model-based, derivative-free one: same
// "iterate, evaluate, update scalars and state, check termination"
// shape, different numerical core.
package newuoa

import (
	"math"

	"github.com/cpmech/gosl/la"

	"github.com/jschueller/prima/geostep"
	"github.com/jschueller/prima/initial"
	"github.com/jschueller/prima/internal/ulog"
	"github.com/jschueller/prima/trsapp"
)

// Result is the outcome of one Minimize call.
type Result struct {
	X    []float64 // best point found
	F    float64   // f(X)
	Nf   int       // number of evaluations of f performed
	Code ExitCode
}

// Minimize runs NEWUOA from x0 with the given options, returning the
// best point found and the exit code describing why the run stopped.
// It never panics on a malformed objective; malformed Options are
// rejected by Options.Validate before the run starts.
func Minimize(opt Options, f func(x []float64) float64, x0 []float64) (res Result, err error) {
	opt.N = len(x0)
	opt.SetDefault()
	opt.Validate()

	logger := ulog.New(opt.Iprint, opt.LogPath)
	defer logger.Close()
	defer func() {
		if res.X != nil {
			logger.Summary("newuoa: %s nf=%d f=%g\n", res.Code, res.Nf, res.F)
		}
	}()

	obj := newObjective(f, opt.Ftarget, opt.Maxfun, opt.History)

	init, reason, err := initial.Build(opt.N, opt.Npt, opt.Rhobeg, opt.Ftarget, x0, func(x []float64) float64 {
		fx, _ := obj.call(x)
		return fx
	})
	if err != nil {
		return Result{}, err
	}
	if code, ok := initStopCode(reason); ok {
		return finishErr(init.Xbase, init.Xpt, init.Fval, init.Kopt, obj.nf, code)
	}

	s := &state{
		opt:    opt,
		n:      opt.N,
		npt:    opt.Npt,
		rho:    opt.Rhobeg,
		delta:  opt.Rhobeg,
		nf:     init.Nf,
		kopt:   init.Kopt,
		xbase:  la.Vector(init.Xbase),
		xpt:    init.Xpt,
		fval:   la.Vector(init.Fval),
		gq:     la.Vector(init.Gq),
		hq:     init.Hq,
		pq:     la.Vector(init.Pq),
		h:      init.H,
		d:      la.NewVector(opt.N),
	}
	s.dnormsav = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	s.moderrsav = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}

	solver := &trsapp.Solver{Tol: 1e-2}

	maxIters := 2 * opt.Maxfun
	for iter := 0; iter < maxIters; iter++ {
		if s.anyNaN() {
			return finishErr(s.xbase, s.xpt, s.fval, s.kopt, s.nf, NanModel)
		}

		hessMul := func(v []float64) []float64 { return s.hessMul(la.Vector(v)) }
		d, crvmin := solver.Solve(s.n, s.delta, s.gopt(), hessMul)
		s.d = d
		dnorm := math.Min(s.delta, la.VecNorm(d))
		qred := -s.modelChange(d)
		shortd := dnorm < 0.5*s.rho

		var knewTR int = -1
		var ratio float64
		ximproved := false

		if shortd || qred <= 0 {
			if !shortd {
				// qred <= 0 on a non-short step should not happen in
				// exact arithmetic (the TR solver guarantees qred >= 0
				// for a step that isn't short); treat it as numerical
				// stagnation rather than loop forever shrinking delta.
				return finishErr(s.xbase, s.xpt, s.fval, s.kopt, s.nf, TrStepFailed)
			}
			s.delta *= 0.1
			if s.delta <= 1.5*s.rho {
				s.delta = s.rho
			}
		} else {
			xnew := make(la.Vector, s.n)
			for i := 0; i < s.n; i++ {
				xnew[i] = s.xbase[i] + s.xopt()[i] + d[i]
			}
			fx, code := obj.call(xnew)
			logger.Eval("newuoa: nf=%d f=%g\n", obj.nf, fx)
			s.nf = obj.nf
			if code != codeContinue {
				best := pickBest(s, xnew, fx)
				return finishErr(best.xbase, best.xpt, best.fval, best.kopt, s.nf, code)
			}

			fopt := s.fopt()
			moderr := fx - fopt + qred
			pushRing(&s.dnormsav, dnorm)
			pushRing(&s.moderrsav, moderr)

			if qred > 0 {
				ratio = (fopt - fx) / qred
			} else {
				ratio = -1
			}

			if ratio <= s.opt.Eta1 {
				s.delta = s.opt.Gamma1 * math.Min(s.delta, dnorm)
			} else if ratio <= s.opt.Eta2 {
				s.delta = math.Max(s.opt.Gamma1*s.delta, dnorm)
			} else {
				s.delta = math.Max(s.opt.Gamma1*s.delta, s.opt.Gamma2*dnorm)
			}
			if s.delta <= 1.5*s.rho {
				s.delta = s.rho
			}

			ximproved = fx < fopt
			knewTR = setdropTR(s, d, ximproved)

			if knewTR >= 0 {
				xosav := s.xopt()
				xdrop := s.xoptCol(knewTR)
				y := make([]float64, s.n)
				for i := 0; i < s.n; i++ {
					y[i] = s.xopt()[i] + d[i]
				}
				xptOld := copyXpt(s.xpt)
				if err := s.h.Update(knewTR, y, xptOld); err != nil {
					return finishErr(s.xbase, s.xpt, s.fval, s.kopt, s.nf, NanModel)
				}
				for i := 0; i < s.n; i++ {
					s.xpt[i][knewTR] = y[i]
				}
				s.fval[knewTR] = fx
				if ximproved {
					s.kopt = knewTR
				}
				s.updateModel(knewTR, xdrop, xosav, moderr, ximproved, d)
				s.tryAltModel(ratio)
			}
		}

		accurateMod := math.Abs(s.moderrsav[0]) <= 0.125*crvmin*s.rho*s.rho &&
			math.Abs(s.moderrsav[1]) <= 0.125*crvmin*s.rho*s.rho &&
			math.Abs(s.moderrsav[2]) <= 0.125*crvmin*s.rho*s.rho &&
			s.dnormsav[0] <= s.rho && s.dnormsav[1] <= s.rho && s.dnormsav[2] <= s.rho
		closeItpset := maxDistSq(s.xpt, s.xopt()) <= 4*s.delta*s.delta
		adequateGeo := (shortd && accurateMod) || closeItpset
		smallTrrad := math.Max(s.delta, dnorm) <= s.rho
		badTrstepGeo := shortd || qred <= 0 || ratio <= s.opt.Eta1 || knewTR < 0
		badTrstepRho := shortd || qred <= 0 || ratio <= 0 || knewTR < 0
		improveGeo := badTrstepGeo && !adequateGeo
		reduceRho := badTrstepRho && adequateGeo && smallTrrad

		if improveGeo {
			if s.anyNaN() || s.h.AnyNaN() {
				return finishErr(s.xbase, s.xpt, s.fval, s.kopt, s.nf, NanModel)
			}
			knewGeo := argmaxDistSq(s.xpt, s.xopt(), s.kopt)
			distsq := maxDistSq(s.xpt, s.xopt())
			delbar := math.Max(math.Min(0.1*math.Sqrt(distsq), 0.5*s.delta), s.rho)
			d := geostepSolve(s, knewGeo, delbar)

			xnew := make(la.Vector, s.n)
			for i := 0; i < s.n; i++ {
				xnew[i] = s.xbase[i] + s.xopt()[i] + d[i]
			}
			fx, code := obj.call(xnew)
			logger.Eval("newuoa: nf=%d f=%g\n", obj.nf, fx)
			s.nf = obj.nf
			if code != codeContinue {
				best := pickBest(s, xnew, fx)
				return finishErr(best.xbase, best.xpt, best.fval, best.kopt, s.nf, code)
			}

			fopt := s.fopt()
			dn := math.Min(delbar, la.VecNorm(d))
			qr := -s.modelChange(d)
			moderr := fx - fopt + qr
			pushRing(&s.dnormsav, dn)
			pushRing(&s.moderrsav, moderr)

			xosav := s.xopt()
			xdrop := s.xoptCol(knewGeo)
			y := make([]float64, s.n)
			for i := 0; i < s.n; i++ {
				y[i] = s.xopt()[i] + d[i]
			}
			xptOld := copyXpt(s.xpt)
			if err := s.h.Update(knewGeo, y, xptOld); err != nil {
				return finishErr(s.xbase, s.xpt, s.fval, s.kopt, s.nf, NanModel)
			}
			for i := 0; i < s.n; i++ {
				s.xpt[i][knewGeo] = y[i]
			}
			s.fval[knewGeo] = fx
			ximprovedGeo := fx < fopt
			if ximprovedGeo {
				s.kopt = knewGeo
			}
			s.updateModel(knewGeo, xdrop, xosav, moderr, ximprovedGeo, d)
		} else if reduceRho {
			if s.rho <= s.opt.Rhoend {
				return finishErr(s.xbase, s.xpt, s.fval, s.kopt, s.nf, SmallTrustRegion)
			}
			var rhoNext float64
			ratioRho := s.rho / s.opt.Rhoend
			switch {
			case ratioRho <= 16:
				rhoNext = s.opt.Rhoend
			case ratioRho <= 250:
				rhoNext = math.Sqrt(ratioRho) * s.opt.Rhoend
			default:
				rhoNext = 0.1 * s.rho
			}
			s.delta = math.Max(0.5*s.rho, rhoNext)
			s.rho = rhoNext
			s.dnormsav = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
			s.moderrsav = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
			logger.RhoReduced("newuoa: rho=%g nf=%d f=%g\n", s.rho, s.nf, s.fopt())
		}

		if la.VecDot(s.xopt(), s.xopt()) >= 1e3*s.delta*s.delta {
			if err := s.baseShift(); err != nil {
				return finishErr(s.xbase, s.xpt, s.fval, s.kopt, s.nf, NanModel)
			}
		}
	}

	return finishErr(s.xbase, s.xpt, s.fval, s.kopt, s.nf, MaxIterReached)
}

func initStopCode(r initial.StopReason) (ExitCode, bool) {
	switch r {
	case initial.StopNaNInput:
		return NanInput, true
	case initial.StopNaNInfF:
		return NanInfF, true
	case initial.StopFtarget:
		return FtargetReached, true
	default:
		return 0, false
	}
}

func finish(xbase la.Vector, xpt [][]float64, fval la.Vector, kopt, nf int, code ExitCode) Result {
	n := len(xbase)
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = xbase[i] + xpt[i][kopt]
	}
	return Result{X: x, F: fval[kopt], Nf: nf, Code: code}
}

// finishErr builds the Result for a terminal code and pairs it with
// the typed *Error the §7 propagation policy calls for, nil for the
// two codes (SmallTrustRegion, FtargetReached) that are ordinary,
// successful returns rather than failures.
func finishErr(xbase la.Vector, xpt [][]float64, fval la.Vector, kopt, nf int, code ExitCode) (Result, error) {
	return finish(xbase, xpt, fval, kopt, nf, code), errFor(code)
}

func errFor(code ExitCode) error {
	switch code {
	case SmallTrustRegion, FtargetReached:
		return nil
	default:
		return newError(code, "")
	}
}

// bestSnapshot lets the driver report the best point known at an
// immediate-stop checkpoint without further mutating state.
type bestSnapshot struct {
	xbase la.Vector
	xpt   [][]float64
	fval  la.Vector
	kopt  int
}

func pickBest(s *state, xnew la.Vector, fx float64) bestSnapshot {
	if !math.IsNaN(fx) && fx < s.fopt() {
		xpt := copyXpt(s.xpt)
		for i := 0; i < s.n; i++ {
			xpt[i] = append(xpt[i], xnew[i]-s.xbase[i])
		}
		fval := append(la.Vector(nil), s.fval...)
		fval = append(fval, fx)
		return bestSnapshot{xbase: s.xbase, xpt: xpt, fval: fval, kopt: len(fval) - 1}
	}
	return bestSnapshot{xbase: s.xbase, xpt: s.xpt, fval: s.fval, kopt: s.kopt}
}

// setdropTR picks the interpolation point to replace with xopt+d, per
// spec §4.1(d): the k maximizing |β·h_kk + λ_k²| × max(1,(dist²/ρ²)³),
// with β and λ_k evaluated against the current (pre-replacement) H so
// no candidate requires rebuilding the representation.
func setdropTR(s *state, d la.Vector, ximproved bool) int {
	xopt := s.xopt()
	y := make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		y[i] = xopt[i] + d[i]
	}
	rhoSq := s.rho * s.rho
	beta := s.h.Beta(s.xpt, y)

	best := -1
	bestScore := -1.0
	for k := 0; k < s.npt; k++ {
		if k == s.kopt && !ximproved {
			continue
		}
		lam := s.h.Lagrange(k, s.xpt, y)
		hkk := s.h.OmegaCol(k)[k]
		d2 := distSq(s.xoptCol(k), xopt)
		factor := math.Max(1, math.Pow(d2/rhoSq, 3))
		score := math.Abs(beta*hkk+lam*lam) * factor
		if score > bestScore {
			bestScore = score
			best = k
		}
	}
	if !ximproved && bestScore <= 1.0 {
		return -1
	}
	return best
}

func geostepSolve(s *state, knew int, delbar float64) []float64 {
	return geostep.Solve(s.h, s.xpt, s.xopt(), knew, delbar, s.n)
}

func copyXpt(xpt [][]float64) [][]float64 {
	out := make([][]float64, len(xpt))
	for i, row := range xpt {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func distSq(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func maxDistSq(xpt [][]float64, xopt []float64) float64 {
	npt := len(xpt[0])
	n := len(xpt)
	best := 0.0
	for k := 0; k < npt; k++ {
		s := 0.0
		for i := 0; i < n; i++ {
			d := xpt[i][k] - xopt[i]
			s += d * d
		}
		if s > best {
			best = s
		}
	}
	return best
}

func argmaxDistSq(xpt [][]float64, xopt []float64, kopt int) int {
	npt := len(xpt[0])
	n := len(xpt)
	best := -1
	bestVal := -1.0
	for k := 0; k < npt; k++ {
		if k == kopt {
			continue
		}
		s := 0.0
		for i := 0; i < n; i++ {
			d := xpt[i][k] - xopt[i]
			s += d * d
		}
		if s > bestVal {
			bestVal = s
			best = k
		}
	}
	return best
}

func pushRing(ring *[3]float64, v float64) {
	ring[0], ring[1], ring[2] = ring[1], ring[2], v
}
