// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ulog gates the driver's console messages behind the iprint
// levels of the NEWUOA driver contract, the way fem/s_implicit.go gates
// its residual trace behind Global.Sim.Data.ShowR.
package ulog

import (
	"fmt"
	"os"

	"github.com/cpmech/gosl/io"
)

// Logger renders driver progress messages at one of the iprint levels:
//
//	0           silent
//	1 or -1     summary message at return
//	2 or -2     adds a message at each ρ reduction
//	3 or -3     adds a message per f evaluation
//
// A negative level sends messages to a file instead of stdout.
type Logger struct {
	level int
	file  *os.File
}

// New builds a Logger for the given iprint level. When level is
// negative, messages are appended to path instead of written to
// stdout; path may be empty, in which case a default filename is used.
func New(level int, path string) *Logger {
	l := &Logger{level: level}
	if level < 0 {
		if path == "" {
			path = "newuoa.log"
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			l.file = f
		}
	}
	return l
}

// Close releases the underlying file, if any.
func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
	}
}

func (l *Logger) abs() int {
	if l.level < 0 {
		return -l.level
	}
	return l.level
}

func (l *Logger) emit(format string, args ...interface{}) {
	if l.file != nil {
		fmt.Fprintf(l.file, format, args...)
		return
	}
	io.Pf(format, args...)
}

// Summary prints the final-result message; gated on level >= 1.
func (l *Logger) Summary(format string, args ...interface{}) {
	if l.abs() >= 1 {
		l.emit(format, args...)
	}
}

// RhoReduced prints a message on every ρ reduction; gated on level >= 2.
func (l *Logger) RhoReduced(format string, args ...interface{}) {
	if l.abs() >= 2 {
		l.emit(format, args...)
	}
}

// Eval prints a message on every f evaluation; gated on level >= 3.
func (l *Logger) Eval(format string, args ...interface{}) {
	if l.abs() >= 3 {
		l.emit(format, args...)
	}
}
