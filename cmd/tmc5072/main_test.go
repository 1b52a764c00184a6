// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"testing"

	"github.com/GermanBionicSystems/trinamic/tmc5072"
)

func TestRun(t *testing.T) {
	dev, err := open(0, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, args := range [][]string{
		{"init"},
		{"goto", "1", "-51200"},
		{"jog", "0", "0x100"},
		{"switch", "0"},
		{"xlatch", "1"},
		{"position", "0"},
	} {
		if err := run(dev, args); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}
	if got := dev.Regs.XTarget[1].Int32(); got != -51200 {
		t.Fatalf("wanted: -51200, got: %d", got)
	}
	if got := dev.Regs.XTarget[0].Int32(); got != 0x100 {
		t.Fatalf("wanted: 256, got: %d", got)
	}
}

func TestRunErrors(t *testing.T) {
	dev, err := open(0, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		args []string
		is   error
	}{
		{nil, errUsage},
		{[]string{"spin"}, errUsage},
		{[]string{"goto", "0"}, errUsage},
		{[]string{"switch"}, errUsage},
		{[]string{"goto", "2", "10"}, tmc5072.ErrInvalidAxis},
		{[]string{"xlatch", "x"}, nil},
		{[]string{"jog", "0", "1.5"}, nil},
	} {
		err := run(dev, test.args)
		if err == nil {
			t.Errorf("%v: expected error", test.args)
			continue
		}
		if test.is != nil && !errors.Is(err, test.is) {
			t.Errorf("%v: wanted %v, got: %v", test.args, test.is, err)
		}
	}
}
