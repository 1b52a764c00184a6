// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tmc5072

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInvalidAxis is returned when an axis other than 0 or 1 is given.
	ErrInvalidAxis = errors.New("invalid axis")

	// ErrAccess is returned when reading a write-only register or writing a
	// read-only one.
	ErrAccess = errors.New("register access mode forbids operation")
)

// Opts holds the construction options of a Dev.
type Opts struct {
	// ConfigSource, when not nil, is loaded with Map.LoadConfig right after
	// the register map is built. See Map.LoadConfig for accepted types.
	ConfigSource interface{}
}

// DefaultOpts keeps the chip reset values.
var DefaultOpts = Opts{}

// Dev is a handle to a TMC5072 dual-axis motion controller on an SPI bus.
//
// Dev owns its register map. It assumes it is the only user of the bus and
// chip select line: the writes of a motion command are not atomic with
// respect to other bus users.
type Dev struct {
	// Regs holds the values this Dev last wrote, or the reset defaults.
	Regs *Map

	open  Opener
	debug DebugF
	mu    sync.Mutex
}

// New returns a Dev that reaches the chip through open.
//
// No bus transaction is performed. Call BasicInit to push the register map to
// the chip.
func New(open Opener, opts *Opts) (*Dev, error) {
	if open == nil {
		return nil, errors.New("tmc5072: nil opener")
	}
	d := &Dev{
		Regs:  NewMap(),
		open:  open,
		debug: noop,
	}
	if opts != nil && opts.ConfigSource != nil {
		if err := d.LoadConfig(opts.ConfigSource); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// NewSPI returns a Dev on the numbered SPI bus and chip select, opened through
// the periph registry for each transaction. host.Init must have been called.
func NewSPI(bus, cs int, opts *Opts) (*Dev, error) {
	return New(RegistryOpener(PortName(bus, cs)), opts)
}

func (d *Dev) String() string {
	return "TMC5072"
}

// EnableDebug sets the function used to trace frames and configuration.
func (d *Dev) EnableDebug(f DebugF) {
	if f == nil {
		f = noop
	}
	d.debug = f
}

// LoadConfig patches the register map from an INI source. See Map.LoadConfig.
func (d *Dev) LoadConfig(source interface{}) error {
	return d.Regs.loadConfig(source, d.debug)
}

// BasicInit writes the register map to the chip: GCONF once, then for each
// axis SW_MODE, CHOPCONF, RAMPMODE, XACTUAL, XTARGET, IHOLD_IRUN, PWMCONF and
// the ramp A1, V1, AMAX, VMAX, DMAX, D1, VSTOP.
//
// The ramp mode and the positions go before the ramp timing. Nothing is read
// back; it stops at the first failed write.
func (d *Dev) BasicInit() error {
	if _, err := d.WriteRegister(&d.Regs.GConf); err != nil {
		return err
	}
	for axis := 0; axis < NumAxes; axis++ {
		for _, r := range d.initSequence(axis) {
			if _, err := d.WriteRegister(r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Dev) initSequence(axis int) []*Register {
	m := d.Regs
	return []*Register{
		&m.SwMode[axis],
		&m.ChopConf[axis],
		&m.RampMode[axis],
		&m.XActual[axis],
		&m.XTarget[axis],
		&m.IHoldIRun[axis],
		&m.PWMConf[axis],
		&m.A1[axis],
		&m.V1[axis],
		&m.AMax[axis],
		&m.VMax[axis],
		&m.DMax[axis],
		&m.D1[axis],
		&m.VStop[axis],
	}
}

// GotoPosition moves axis to target, in microsteps.
//
// RAMPMODE is set to positioning and written before XTARGET: the chip picks
// the ramp behavior when XTARGET changes.
func (d *Dev) GotoPosition(axis int, target int32) error {
	if err := checkAxis(axis); err != nil {
		return err
	}
	d.Regs.XTarget[axis].Value = uint32(target)
	d.Regs.RampMode[axis].Value = uint32(RampPositioning)
	if _, err := d.WriteRegister(&d.Regs.RampMode[axis]); err != nil {
		return err
	}
	_, err := d.WriteRegister(&d.Regs.XTarget[axis])
	return err
}

// JogPosition moves axis by delta microsteps from its actual position.
//
// XACTUAL is read then GotoPosition is called with the sum. Another actor
// moving the same axis in between is not detected.
func (d *Dev) JogPosition(axis int, delta int32) error {
	if err := checkAxis(axis); err != nil {
		return err
	}
	rx, err := d.ReadRegister(&d.Regs.XActual[axis])
	if err != nil {
		return err
	}
	return d.GotoPosition(axis, int32(DecodeValue(rx)+uint32(delta)))
}

// SwitchStatus reports whether the left or right reference switch of axis
// is active, from the status_stop_l and status_stop_r bits of RAMP_STAT.
//
// RAMP_STAT is read-clear; the read also clears the chip's latched event
// flags.
func (d *Dev) SwitchStatus(axis int) (bool, error) {
	if err := checkAxis(axis); err != nil {
		return false, err
	}
	rx, err := d.ReadRegister(&d.Regs.RampStat[axis])
	if err != nil {
		return false, err
	}
	stops := byte(RampStatStopL.Mask | RampStatStopR.Mask)
	return rx[FrameSize-1]&stops != 0, nil
}

// XLatch returns the signed position latched on the last switch event of
// axis.
func (d *Dev) XLatch(axis int) (int32, error) {
	if err := checkAxis(axis); err != nil {
		return 0, err
	}
	rx, err := d.ReadRegister(&d.Regs.XLatch[axis])
	if err != nil {
		return 0, err
	}
	return toSigned(DecodeValue(rx)), nil
}

// ReadPosition returns the signed actual position of axis, in microsteps.
func (d *Dev) ReadPosition(axis int) (int32, error) {
	if err := checkAxis(axis); err != nil {
		return 0, err
	}
	rx, err := d.ReadRegister(&d.Regs.XActual[axis])
	if err != nil {
		return 0, err
	}
	return toSigned(DecodeValue(rx)), nil
}

// PositionReached reports whether axis stands at XTARGET.
func (d *Dev) PositionReached(axis int) (bool, error) {
	if err := checkAxis(axis); err != nil {
		return false, err
	}
	rx, err := d.ReadRegister(&d.Regs.RampStat[axis])
	if err != nil {
		return false, err
	}
	return RampStatPositionReached.Get(DecodeValue(rx)) != 0, nil
}

// SetRampMode writes RAMPMODE of axis. Use RampHold to keep the current
// velocity or a velocity mode with VMAX=0 to stop.
func (d *Dev) SetRampMode(axis int, mode RampMode) error {
	if err := checkAxis(axis); err != nil {
		return err
	}
	if mode > RampHold {
		return fmt.Errorf("tmc5072: invalid ramp mode %d", mode)
	}
	d.Regs.RampMode[axis].Value = uint32(mode)
	_, err := d.WriteRegister(&d.Regs.RampMode[axis])
	return err
}

// SetField updates field f in r and writes r. r.Value is left untouched when
// the write fails.
func (d *Dev) SetField(r *Register, f Field, v uint32) error {
	if !r.Access.Writable() {
		return fmt.Errorf("tmc5072: write %s: %w", r.Name, ErrAccess)
	}
	old := r.Value
	r.Value = f.Set(r.Value, v)
	if _, err := d.WriteRegister(r); err != nil {
		r.Value = old
		return err
	}
	return nil
}

func checkAxis(axis int) error {
	if axis < 0 || axis >= NumAxes {
		return fmt.Errorf("tmc5072: axis %d: %w", axis, ErrInvalidAxis)
	}
	return nil
}

// toSigned reinterprets a raw register value as two's complement.
func toSigned(u uint32) int32 {
	if u > 1<<31-1 {
		return int32(int64(u) - 1<<32)
	}
	return int32(u)
}
