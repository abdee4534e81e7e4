// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newuoa

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Options holds the tuning constants of a NEWUOA run, grounded on
// inp.SolverData's SetDefault/validate shape: plain struct, defaults
// filled by SetDefault, no file-format or CLI binding (those are
// out of scope collaborators for this core).
type Options struct {
	N       int     // dimension
	Npt     int     // number of interpolation points; 0 means "use 2n+1"
	Rhobeg  float64 // initial trust-region / sampling radius
	Rhoend  float64 // final lower bound on the trust-region radius
	Ftarget float64 // stop as soon as f <= Ftarget
	Maxfun  int     // hard cap on evaluations of f
	Iprint  int     // one of {-3,-2,-1,0,1,2,3}; see internal/ulog
	LogPath string  // file path used when Iprint < 0

	Eta1   float64 // ratio threshold, 0 <= Eta1 <= Eta2 < 1
	Eta2   float64
	Gamma1 float64 // radius contraction factor, 0 < Gamma1 < 1
	Gamma2 float64 // radius expansion factor, Gamma2 > 1

	// FinalShortStepEval names the legacy driver's extra Newton-Raphson
	// evaluation of a final short step that would otherwise never be
	// evaluated; see SPEC_FULL.md §3.1. Minimize does not read it: no
	// extra evaluation is performed, whatever its value.
	FinalShortStepEval bool

	// History, if non-nil, receives every evaluation of f; this is
	// the caller-supplied collaborator mentioned in §6 ("optional
	// in/outs: history of x and f up to a cap") — the core does not
	// implement history storage itself.
	History Recorder
}

// Recorder is the optional history collaborator a caller may supply;
// the driver calls Record after every f evaluation it performs, inside
// or outside the interpolation set.
type Recorder interface {
	Record(nf int, x []float64, f float64)
}

// SetDefault fills in the legacy constants of spec.md §4.1 and §3,
// mirroring inp.SolverData.SetDefault's "assign constants, then let
// the caller override via struct literal fields already set" idiom.
func (o *Options) SetDefault() {
	if o.Eta1 == 0 && o.Eta2 == 0 {
		o.Eta1, o.Eta2 = 0.1, 0.7
	}
	if o.Gamma1 == 0 && o.Gamma2 == 0 {
		o.Gamma1, o.Gamma2 = 0.5, 2.0
	}
	if o.Npt == 0 {
		o.Npt = 2*o.N + 1
	}
	if o.Ftarget == 0 {
		o.Ftarget = math.Inf(-1)
	}
}

// Validate panics (via chk.Panic, as the teacher's constructors do on
// malformed input) when the option set cannot produce a well-posed run.
func (o *Options) Validate() {
	if o.N < 1 {
		chk.Panic("n must be >= 1; got %d", o.N)
	}
	nptMin := o.N + 2
	nptMax := (o.N + 1) * (o.N + 2) / 2
	if o.Npt < nptMin || o.Npt > nptMax {
		chk.Panic("npt must satisfy n+2 <= npt <= (n+1)(n+2)/2; got npt=%d for n=%d (range [%d,%d])", o.Npt, o.N, nptMin, nptMax)
	}
	if o.Rhoend <= 0 || o.Rhobeg < o.Rhoend {
		chk.Panic("need rhobeg >= rhoend > 0; got rhobeg=%g rhoend=%g", o.Rhobeg, o.Rhoend)
	}
	if !(0 <= o.Eta1 && o.Eta1 <= o.Eta2 && o.Eta2 < 1) {
		chk.Panic("need 0 <= eta1 <= eta2 < 1; got eta1=%g eta2=%g", o.Eta1, o.Eta2)
	}
	if !(0 < o.Gamma1 && o.Gamma1 < 1 && 1 < o.Gamma2) {
		chk.Panic("need 0 < gamma1 < 1 < gamma2; got gamma1=%g gamma2=%g", o.Gamma1, o.Gamma2)
	}
	if o.Maxfun < o.Npt+1 {
		chk.Panic("maxfun must be at least npt+1; got maxfun=%d npt=%d", o.Maxfun, o.Npt)
	}
}
