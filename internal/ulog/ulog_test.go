// Copyright 2016 The Prima Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ulog

import (
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_file_gating_by_level(tst *testing.T) {
	chk.PrintTitle("file_gating_by_level")
	path := os.TempDir() + "/newuoa_ulog_test.log"
	defer os.Remove(path)

	l := New(-1, path)
	l.Summary("summary\n")
	l.RhoReduced("rho\n")
	l.Eval("eval\n")
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		tst.Fatalf("ReadFile failed: %v", err)
	}
	s := string(data)
	if !contains(s, "summary") {
		tst.Fatalf("expected summary message at level 1, got %q", s)
	}
	if contains(s, "rho") || contains(s, "eval") {
		tst.Fatalf("level 1 must not emit rho/eval messages, got %q", s)
	}
}

func Test_level_three_emits_everything(tst *testing.T) {
	chk.PrintTitle("level_three_emits_everything")
	path := os.TempDir() + "/newuoa_ulog_test3.log"
	defer os.Remove(path)

	l := New(-3, path)
	l.Summary("summary\n")
	l.RhoReduced("rho\n")
	l.Eval("eval\n")
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		tst.Fatalf("ReadFile failed: %v", err)
	}
	s := string(data)
	for _, want := range []string{"summary", "rho", "eval"} {
		if !contains(s, want) {
			tst.Fatalf("expected %q in level-3 log, got %q", want, s)
		}
	}
}

func Test_level_zero_is_silent(tst *testing.T) {
	chk.PrintTitle("level_zero_is_silent")
	l := New(0, "")
	// With level 0 and a non-negative level, Summary/RhoReduced/Eval
	// must not touch the filesystem; calling them must not panic.
	l.Summary("summary\n")
	l.RhoReduced("rho\n")
	l.Eval("eval\n")
	l.Close()
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
