// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newuoa

import "fmt"

// ExitCode is one of the stable termination codes of §6 of the spec
// this driver implements. Negative codes are poisoning/input failures;
// non-negative codes are the ordinary termination family.
type ExitCode int

const (
	// SmallTrustRegion is normal convergence: ρ reached rhoend.
	SmallTrustRegion ExitCode = 0
	// FtargetReached means f <= ftarget was observed.
	FtargetReached ExitCode = 1
	// TrStepFailed means qred <= 0 on a non-short trust-region step.
	TrStepFailed ExitCode = 2
	// MaxfunReached means the evaluation budget was exhausted.
	MaxfunReached ExitCode = 3
	// MaxIterReached is the defensive 2*maxfun iteration-count guard.
	MaxIterReached ExitCode = 20
	// NanInput means x contained NaN before a call to f.
	NanInput ExitCode = -1
	// NanInfF means f returned NaN or +Inf.
	NanInfF ExitCode = -2
	// NanModel means NaN was detected in the model or H-representation.
	NanModel ExitCode = -3
)

// String names the exit code the way the driver's summary message does.
func (c ExitCode) String() string {
	switch c {
	case SmallTrustRegion:
		return "SMALL_TR_RADIUS"
	case FtargetReached:
		return "FTARGET_REACHED"
	case TrStepFailed:
		return "TR_STEP_FAILED"
	case MaxfunReached:
		return "MAXFUN_REACHED"
	case MaxIterReached:
		return "MAXTR_REACHED"
	case NanInput:
		return "NAN_INPUT"
	case NanInfF:
		return "NAN_INF_F"
	case NanModel:
		return "NAN_MODEL"
	default:
		return fmt.Sprintf("EXIT_CODE(%d)", int(c))
	}
}

// Error reports a driver termination together with its stable exit
// code. Minimize returns an Error for every terminal code except
// SmallTrustRegion and FtargetReached, for which its error is nil, so
// callers can recover the exit code with errors.As. An error from
// building the initial H-representation is returned unwrapped.
type Error struct {
	Code ExitCode
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func newError(code ExitCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}
