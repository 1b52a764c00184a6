// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tmc5072

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/GermanBionicSystems/trinamic/tmc5072/tmc5072test"
)

func newEmulated(t *testing.T) (*Dev, *tmc5072test.Chip) {
	t.Helper()
	chip := &tmc5072test.Chip{}
	d, err := New(chip.Opener(), &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	return d, chip
}

func verifyFrames(found, expected [][]byte) error {
	if len(found) != len(expected) {
		return fmt.Errorf("invalid length. found length: %d expected length: %d", len(found), len(expected))
	}
	for i := range expected {
		if !bytes.Equal(found[i], expected[i]) {
			return fmt.Errorf("frame %d: found % x expected % x", i, found[i], expected[i])
		}
	}
	return nil
}

func TestNew(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatal("expected error for nil opener")
	}
	chip := &tmc5072test.Chip{}
	d, err := New(chip.Opener(), &Opts{ConfigSource: []byte("[r]\nvmax = [1, 2]\n")})
	if err != nil {
		t.Fatal(err)
	}
	if d.Regs.VMax[0].Value != 1 || d.Regs.VMax[1].Value != 2 {
		t.Fatal("config source not applied")
	}
	if chip.Opens != 0 {
		t.Fatal("construction must not touch the bus")
	}
	if _, err := New(chip.Opener(), &Opts{ConfigSource: []byte("[r]\nvmax = 1\n")}); !errors.Is(err, ErrPairLength) {
		t.Fatalf("wanted %v, got: %v", ErrPairLength, err)
	}
	if s := d.String(); s != "TMC5072" {
		t.Fatalf("wanted: TMC5072, got: %s", s)
	}
}

func TestBasicInit(t *testing.T) {
	d, chip := newEmulated(t)
	if err := d.BasicInit(); err != nil {
		t.Fatal(err)
	}
	expected := [][]byte{
		{0x80, 0x00, 0x00, 0x02, 0x00}, // GCONF

		{0xB4, 0x00, 0x00, 0x00, 0x00}, // SW_MODE
		{0xEC, 0x00, 0x01, 0x01, 0x35}, // CHOPCONF
		{0xA0, 0x00, 0x00, 0x00, 0x03}, // RAMPMODE
		{0xA1, 0x00, 0x00, 0x00, 0x00}, // XACTUAL
		{0xAD, 0x00, 0x00, 0x00, 0x00}, // XTARGET
		{0xB0, 0x00, 0x00, 0x1F, 0x00}, // IHOLD_IRUN
		{0x90, 0x00, 0x05, 0x04, 0xC8}, // PWMCONF
		{0xA4, 0x00, 0x00, 0x03, 0xE8}, // A1
		{0xA5, 0x00, 0x00, 0xC3, 0x50}, // V1
		{0xA6, 0x00, 0x00, 0x13, 0x88}, // AMAX
		{0xA7, 0x00, 0x06, 0x1A, 0x80}, // VMAX
		{0xA8, 0x00, 0x00, 0x13, 0x88}, // DMAX
		{0xAA, 0x00, 0x00, 0x03, 0xE8}, // D1
		{0xAB, 0x00, 0x00, 0x00, 0x0A}, // VSTOP

		{0xD4, 0x00, 0x00, 0x00, 0x00},
		{0xFC, 0x00, 0x01, 0x01, 0x35},
		{0xC0, 0x00, 0x00, 0x00, 0x03},
		{0xC1, 0x00, 0x00, 0x00, 0x00},
		{0xCD, 0x00, 0x00, 0x00, 0x00},
		{0xD0, 0x00, 0x00, 0x1F, 0x00},
		{0x98, 0x00, 0x05, 0x04, 0xC8},
		{0xC4, 0x00, 0x00, 0x03, 0xE8},
		{0xC5, 0x00, 0x00, 0xC3, 0x50},
		{0xC6, 0x00, 0x00, 0x13, 0x88},
		{0xC7, 0x00, 0x06, 0x1A, 0x80},
		{0xC8, 0x00, 0x00, 0x13, 0x88},
		{0xCA, 0x00, 0x00, 0x03, 0xE8},
		{0xCB, 0x00, 0x00, 0x00, 0x0A},
	}
	if err := verifyFrames(chip.Frames, expected); err != nil {
		t.Fatal(err)
	}
	if chip.Opens != len(expected) || chip.Closes != len(expected) {
		t.Fatalf("wanted one bus acquisition per write, got %d/%d", chip.Opens, chip.Closes)
	}
}

func TestBasicInitUsesOverlay(t *testing.T) {
	d, chip := newEmulated(t)
	if err := d.LoadConfig([]byte("[g]\ngconf = 0x00000004\n[r]\nvmax = [100000, 200000]\n")); err != nil {
		t.Fatal(err)
	}
	if err := d.BasicInit(); err != nil {
		t.Fatal(err)
	}
	if chip.Regs[0x00] != 4 || chip.Regs[0x27] != 100000 || chip.Regs[0x47] != 200000 {
		t.Fatalf("overlay not written: gconf %d vmax %d/%d", chip.Regs[0x00], chip.Regs[0x27], chip.Regs[0x47])
	}
}

func TestBasicInitStopsOnError(t *testing.T) {
	d, chip := newEmulated(t)
	chip.FailAt = 3
	if err := d.BasicInit(); err == nil {
		t.Fatal("expected error")
	}
	if n := len(chip.Frames); n != 2 {
		t.Fatalf("wanted 2 successful writes, got %d", n)
	}
	if chip.Opens != chip.Closes {
		t.Fatalf("port leaked: opens %d closes %d", chip.Opens, chip.Closes)
	}
}

func TestGotoPosition(t *testing.T) {
	for _, test := range []struct {
		axis   int
		target int32
		want   [][]byte
	}{
		{0, 512000, [][]byte{{0xA0, 0, 0, 0, 0}, {0xAD, 0x00, 0x07, 0xD0, 0x00}}},
		{1, 512000, [][]byte{{0xC0, 0, 0, 0, 0}, {0xCD, 0x00, 0x07, 0xD0, 0x00}}},
		{1, -2, [][]byte{{0xC0, 0, 0, 0, 0}, {0xCD, 0xFF, 0xFF, 0xFF, 0xFE}}},
	} {
		t.Run(fmt.Sprintf("axis %d to %d", test.axis, test.target), func(t *testing.T) {
			d, chip := newEmulated(t)
			if err := d.GotoPosition(test.axis, test.target); err != nil {
				t.Fatal(err)
			}
			if err := verifyFrames(chip.Frames, test.want); err != nil {
				t.Fatal(err)
			}
			if d.Regs.RampMode[test.axis].Value != uint32(RampPositioning) {
				t.Fatal("ramp mode not recorded")
			}
			if d.Regs.XTarget[test.axis].Int32() != test.target {
				t.Fatal("target not recorded")
			}
		})
	}
}

func TestJogPosition(t *testing.T) {
	for _, test := range []struct {
		name   string
		axis   int
		actual uint32
		delta  int32
		want   int32
	}{
		{"forward", 0, 1000, 500, 1500},
		{"backward", 1, 1000, -1500, -500},
		{"from negative", 0, 0xFFFFFFF6, 5, -5},
	} {
		t.Run(test.name, func(t *testing.T) {
			d, chip := newEmulated(t)
			chip.Regs[d.Regs.XActual[test.axis].Addr] = test.actual
			if err := d.JogPosition(test.axis, test.delta); err != nil {
				t.Fatal(err)
			}

			// Same writes as GotoPosition with the sum.
			ref, refChip := newEmulated(t)
			if err := ref.GotoPosition(test.axis, test.want); err != nil {
				t.Fatal(err)
			}
			read := EncodeRead(&d.Regs.XActual[test.axis])
			expected := append([][]byte{read, read}, refChip.Frames...)
			if err := verifyFrames(chip.Frames, expected); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestSwitchStatus(t *testing.T) {
	for _, test := range []struct {
		raw  uint32
		want bool
	}{
		{0x00, false},
		{0x01, true},
		{0x02, true},
		{0x03, true},
		{0x04, false},
		{0x0300, false},
	} {
		for axis := 0; axis < NumAxes; axis++ {
			d, chip := newEmulated(t)
			chip.Regs[d.Regs.RampStat[axis].Addr] = test.raw
			got, err := d.SwitchStatus(axis)
			if err != nil {
				t.Fatal(err)
			}
			if got != test.want {
				t.Errorf("axis %d ramp_stat %#x: wanted: %t, got: %t", axis, test.raw, test.want, got)
			}
		}
	}
}

func TestXLatch(t *testing.T) {
	for _, test := range []struct {
		raw  uint32
		want int32
	}{
		{0x00000001, 1},
		{0x7FFFFFFF, 2147483647},
		{0x80000000, -2147483648},
		{0xFFFFFFFF, -1},
	} {
		d, chip := newEmulated(t)
		chip.Regs[0x56] = test.raw
		got, err := d.XLatch(1)
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("raw %#x: wanted: %d, got: %d", test.raw, test.want, got)
		}
	}
}

func TestToSigned(t *testing.T) {
	for u, want := range map[uint32]int32{0: 0, 1: 1, 1<<31 - 1: 1<<31 - 1, 1 << 31: -1 << 31, 0xFFFFFFFF: -1} {
		if got := toSigned(u); got != want {
			t.Errorf("toSigned(%#x): wanted: %d, got: %d", u, want, got)
		}
	}
}

func TestReadPosition(t *testing.T) {
	d, chip := newEmulated(t)
	chip.Regs[0x41] = 0xFFFFFC18
	got, err := d.ReadPosition(1)
	if err != nil {
		t.Fatal(err)
	}
	if got != -1000 {
		t.Fatalf("wanted: -1000, got: %d", got)
	}
}

func TestPositionReached(t *testing.T) {
	d, chip := newEmulated(t)
	chip.Regs[0x35] = 1 << 9
	got, err := d.PositionReached(0)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Fatal("wanted position reached")
	}
	chip.Regs[0x35] = 1 << 7
	if got, _ := d.PositionReached(0); got {
		t.Fatal("event_pos_reached alone is not position_reached")
	}
}

func TestSetRampMode(t *testing.T) {
	d, chip := newEmulated(t)
	if err := d.SetRampMode(1, RampHold); err != nil {
		t.Fatal(err)
	}
	if err := verifyFrames(chip.Frames, [][]byte{{0xC0, 0, 0, 0, 3}}); err != nil {
		t.Fatal(err)
	}
	if err := d.SetRampMode(1, RampMode(4)); err == nil {
		t.Fatal("expected error")
	}
}

func TestSetField(t *testing.T) {
	d, chip := newEmulated(t)
	if err := d.SetField(&d.Regs.IHoldIRun[0], IRun, 16); err != nil {
		t.Fatal(err)
	}
	if err := verifyFrames(chip.Frames, [][]byte{{0xB0, 0x00, 0x00, 0x10, 0x00}}); err != nil {
		t.Fatal(err)
	}
}

func TestSetFieldKeepsValueOnFailure(t *testing.T) {
	d, chip := newEmulated(t)
	before := d.Regs.XLatch[0].Value
	if err := d.SetField(&d.Regs.XLatch[0], Field{0xFF}, 0x12); !errors.Is(err, ErrAccess) {
		t.Fatalf("wanted %v, got: %v", ErrAccess, err)
	}
	if got := d.Regs.XLatch[0].Value; got != before {
		t.Fatalf("wanted: %#x, got: %#x", before, got)
	}
	if chip.Opens != 0 {
		t.Fatal("read-only register must not reach the bus")
	}

	chip.FailAt = 1
	before = d.Regs.IHoldIRun[1].Value
	if err := d.SetField(&d.Regs.IHoldIRun[1], IHold, 5); err == nil {
		t.Fatal("expected error")
	}
	if got := d.Regs.IHoldIRun[1].Value; got != before {
		t.Fatalf("wanted: %#x, got: %#x", before, got)
	}
}

func TestInvalidAxis(t *testing.T) {
	d, chip := newEmulated(t)
	for _, axis := range []int{-1, 2} {
		for name, op := range map[string]func() error{
			"goto": func() error { return d.GotoPosition(axis, 1) },
			"jog":  func() error { return d.JogPosition(axis, 1) },
			"switch": func() error {
				_, err := d.SwitchStatus(axis)
				return err
			},
			"xlatch": func() error {
				_, err := d.XLatch(axis)
				return err
			},
			"position": func() error {
				_, err := d.ReadPosition(axis)
				return err
			},
			"reached": func() error {
				_, err := d.PositionReached(axis)
				return err
			},
			"rampmode": func() error { return d.SetRampMode(axis, RampHold) },
		} {
			if err := op(); !errors.Is(err, ErrInvalidAxis) {
				t.Errorf("%s(%d): wanted %v, got: %v", name, axis, ErrInvalidAxis, err)
			}
		}
	}
	if chip.Opens != 0 {
		t.Fatal("invalid axis must not reach the bus")
	}
}

func TestEnableDebug(t *testing.T) {
	d, _ := newEmulated(t)
	var lines []string
	d.EnableDebug(func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	})
	if err := d.LoadConfig([]byte("[a]\nfoo = 1\nvmax = [1, 2]\n")); err != nil {
		t.Fatal(err)
	}
	if _, err := d.WriteRegister(&d.Regs.VMax[0]); err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Fatalf("wanted 3 trace lines, got %q", lines)
	}
	d.EnableDebug(nil)
	if _, err := d.WriteRegister(&d.Regs.VMax[0]); err != nil {
		t.Fatal(err)
	}
}
