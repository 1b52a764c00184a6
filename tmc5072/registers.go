// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tmc5072

import "fmt"

// Access describes which operations the chip allows on a register.
type Access uint8

const (
	// ReadOnly registers can only be read.
	ReadOnly Access = iota
	// WriteOnly registers can only be written. Reading them returns
	// undefined data.
	WriteOnly
	// ReadWrite registers can be read and written.
	ReadWrite
	// ReadClearOnRead registers can be read and written. Reading them makes
	// the chip clear the latched flags they hold.
	ReadClearOnRead
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "R"
	case WriteOnly:
		return "W"
	case ReadWrite:
		return "RW"
	case ReadClearOnRead:
		return "RC"
	default:
		return fmt.Sprintf("Access(%d)", uint8(a))
	}
}

// Readable reports whether a read transaction is legal.
func (a Access) Readable() bool {
	return a != WriteOnly
}

// Writable reports whether a write transaction is legal.
func (a Access) Writable() bool {
	return a != ReadOnly
}

// Register is one addressed 32 bit register of the chip.
//
// Value holds the last value written by this driver, or the reset default.
// It is never refreshed from the chip behind the caller's back.
type Register struct {
	Name   string
	Addr   uint8
	Value  uint32
	Access Access
}

// Int32 returns Value interpreted as a two's complement quantity, as used by
// the position registers.
func (r *Register) Int32() int32 {
	return int32(r.Value)
}

func (r *Register) String() string {
	return fmt.Sprintf("%s@%#04x=%#010x(%s)", r.Name, r.Addr, r.Value, r.Access)
}

// Pair holds a per-axis register, indexed by axis 0 and 1.
type Pair [2]Register

// NumAxes is the number of motor channels of the TMC5072.
const NumAxes = 2

// RampMode is the value of the RAMPMODE register.
type RampMode uint32

const (
	// RampPositioning moves to XTARGET using the A1/V1/AMAX/VMAX/DMAX/D1 ramp.
	RampPositioning RampMode = 0
	// RampVelocityPos accelerates to VMAX in the positive direction.
	RampVelocityPos RampMode = 1
	// RampVelocityNeg accelerates to VMAX in the negative direction.
	RampVelocityNeg RampMode = 2
	// RampHold keeps the current velocity.
	RampHold RampMode = 3
)

// Map is the register map of one TMC5072.
//
// Per-axis registers are Pairs; the axis offset is already part of each
// address.
type Map struct {
	// General configuration.
	GConf       Register
	GStat       Register
	IfCnt       Register
	NodeConf    Register
	InputOutput Register
	XCompare    Register

	// Ramp generator motion control.
	RampMode  Pair
	XActual   Pair
	VActual   Pair
	VStart    Pair
	A1        Pair
	V1        Pair
	AMax      Pair
	VMax      Pair
	DMax      Pair
	D1        Pair
	VStop     Pair
	TZeroWait Pair
	XTarget   Pair

	// Ramp generator driver feature control.
	IHoldIRun Pair
	VCoolThrs Pair
	VHigh     Pair
	VDCMin    Pair
	SwMode    Pair
	RampStat  Pair
	XLatch    Pair

	// Encoder.
	EncMode   Pair
	XEnc      Pair
	EncConst  Pair
	EncStatus Pair
	EncLatch  Pair

	// Motor driver.
	MSCnt     Pair
	MSCurAct  Pair
	ChopConf  Pair
	CoolConf  Pair
	DCCtrl    Pair
	DrvStatus Pair

	// Voltage PWM mode (StealthChop).
	PWMConf   Pair
	PWMStatus Pair
}

// NewMap returns a register map holding the chip's reset values.
func NewMap() *Map {
	return &Map{
		GConf:       reg("gconf", 0x00, 0x00000200, ReadWrite),
		GStat:       reg("gstat", 0x01, 0, ReadClearOnRead),
		IfCnt:       reg("ifcnt", 0x02, 0, ReadOnly),
		NodeConf:    reg("nodeconf", 0x03, 0, WriteOnly),
		InputOutput: reg("input_output", 0x04, 0, ReadWrite),
		XCompare:    reg("x_compare", 0x05, 0, WriteOnly),

		RampMode:  pair("rampmode", 0x20, 0x40, 3, ReadWrite),
		XActual:   pair("xactual", 0x21, 0x41, 0, ReadWrite),
		VActual:   pair("vactual", 0x22, 0x42, 0, ReadOnly),
		VStart:    pair("vstart", 0x23, 0x43, 0, WriteOnly),
		A1:        pair("a1", 0x24, 0x44, 1000, WriteOnly),
		V1:        pair("v1", 0x25, 0x45, 50000, WriteOnly),
		AMax:      pair("amax", 0x26, 0x46, 5000, WriteOnly),
		VMax:      pair("vmax", 0x27, 0x47, 400000, WriteOnly),
		DMax:      pair("dmax", 0x28, 0x48, 5000, WriteOnly),
		D1:        pair("d1", 0x2A, 0x4A, 1000, WriteOnly),
		VStop:     pair("vstop", 0x2B, 0x4B, 10, WriteOnly),
		TZeroWait: pair("tzerowait", 0x2C, 0x4C, 0, WriteOnly),
		XTarget:   pair("xtarget", 0x2D, 0x4D, 0, ReadWrite),

		IHoldIRun: pair("ihold_irun", 0x30, 0x50, 0x00001F00, WriteOnly),
		VCoolThrs: pair("vcoolthrs", 0x31, 0x51, 0, WriteOnly),
		VHigh:     pair("vhigh", 0x32, 0x52, 0, WriteOnly),
		VDCMin:    pair("vdcmin", 0x33, 0x53, 0, WriteOnly),
		SwMode:    pair("sw_mode", 0x34, 0x54, 0, ReadWrite),
		RampStat:  pair("ramp_stat", 0x35, 0x55, 0, ReadClearOnRead),
		XLatch:    pair("xlatch", 0x36, 0x56, 0, ReadOnly),

		EncMode:   pair("encmode", 0x38, 0x58, 0, ReadWrite),
		XEnc:      pair("x_enc", 0x39, 0x59, 0, ReadWrite),
		EncConst:  pair("enc_const", 0x3A, 0x5A, 0, WriteOnly),
		EncStatus: pair("enc_status", 0x3B, 0x5B, 0, ReadClearOnRead),
		EncLatch:  pair("enc_latch", 0x3C, 0x5C, 0, ReadOnly),

		MSCnt:     pair("mscnt", 0x6A, 0x7A, 0, ReadOnly),
		MSCurAct:  pair("mscuract", 0x6B, 0x7B, 0, ReadOnly),
		ChopConf:  pair("chopconf", 0x6C, 0x7C, 0x00010135, ReadWrite),
		CoolConf:  pair("coolconf", 0x6D, 0x7D, 0, WriteOnly),
		DCCtrl:    pair("dcctrl", 0x6E, 0x7E, 0, WriteOnly),
		DrvStatus: pair("drv_status", 0x6F, 0x7F, 0, ReadOnly),

		PWMConf:   pair("pwmconf", 0x10, 0x18, 0x000504C8, WriteOnly),
		PWMStatus: pair("pwm_status", 0x11, 0x19, 0, ReadOnly),
	}
}

// Entry is one named slot of the map: either a scalar register or a
// per-axis pair.
type Entry struct {
	Key    string
	Scalar *Register
	Pair   *Pair
}

// Registers returns every register of the map in table order. Pairs
// contribute axis 0 then axis 1.
func (m *Map) Registers() []*Register {
	var out []*Register
	for _, b := range bindings {
		if b.scalar != nil {
			out = append(out, b.scalar(m))
			continue
		}
		p := b.pair(m)
		out = append(out, &p[0], &p[1])
	}
	return out
}

// Lookup resolves a configuration key, e.g. "vmax", to the slot it names.
func (m *Map) Lookup(key string) (Entry, bool) {
	b, ok := bindingIndex[key]
	if !ok {
		return Entry{}, false
	}
	e := Entry{Key: b.key}
	if b.scalar != nil {
		e.Scalar = b.scalar(m)
	} else {
		e.Pair = b.pair(m)
	}
	return e, true
}

// binding ties a configuration key to the field it names.
type binding struct {
	key    string
	scalar func(m *Map) *Register
	pair   func(m *Map) *Pair
}

// bindings lists every field of Map, in register table order.
var bindings = []binding{
	scalarKey("gconf", func(m *Map) *Register { return &m.GConf }),
	scalarKey("gstat", func(m *Map) *Register { return &m.GStat }),
	scalarKey("ifcnt", func(m *Map) *Register { return &m.IfCnt }),
	scalarKey("nodeconf", func(m *Map) *Register { return &m.NodeConf }),
	scalarKey("input_output", func(m *Map) *Register { return &m.InputOutput }),
	scalarKey("x_compare", func(m *Map) *Register { return &m.XCompare }),

	pairKey("rampmode", func(m *Map) *Pair { return &m.RampMode }),
	pairKey("xactual", func(m *Map) *Pair { return &m.XActual }),
	pairKey("vactual", func(m *Map) *Pair { return &m.VActual }),
	pairKey("vstart", func(m *Map) *Pair { return &m.VStart }),
	pairKey("a1", func(m *Map) *Pair { return &m.A1 }),
	pairKey("v1", func(m *Map) *Pair { return &m.V1 }),
	pairKey("amax", func(m *Map) *Pair { return &m.AMax }),
	pairKey("vmax", func(m *Map) *Pair { return &m.VMax }),
	pairKey("dmax", func(m *Map) *Pair { return &m.DMax }),
	pairKey("d1", func(m *Map) *Pair { return &m.D1 }),
	pairKey("vstop", func(m *Map) *Pair { return &m.VStop }),
	pairKey("tzerowait", func(m *Map) *Pair { return &m.TZeroWait }),
	pairKey("xtarget", func(m *Map) *Pair { return &m.XTarget }),

	pairKey("ihold_irun", func(m *Map) *Pair { return &m.IHoldIRun }),
	pairKey("vcoolthrs", func(m *Map) *Pair { return &m.VCoolThrs }),
	pairKey("vhigh", func(m *Map) *Pair { return &m.VHigh }),
	pairKey("vdcmin", func(m *Map) *Pair { return &m.VDCMin }),
	pairKey("sw_mode", func(m *Map) *Pair { return &m.SwMode }),
	pairKey("ramp_stat", func(m *Map) *Pair { return &m.RampStat }),
	pairKey("xlatch", func(m *Map) *Pair { return &m.XLatch }),

	pairKey("encmode", func(m *Map) *Pair { return &m.EncMode }),
	pairKey("x_enc", func(m *Map) *Pair { return &m.XEnc }),
	pairKey("enc_const", func(m *Map) *Pair { return &m.EncConst }),
	pairKey("enc_status", func(m *Map) *Pair { return &m.EncStatus }),
	pairKey("enc_latch", func(m *Map) *Pair { return &m.EncLatch }),

	pairKey("mscnt", func(m *Map) *Pair { return &m.MSCnt }),
	pairKey("mscuract", func(m *Map) *Pair { return &m.MSCurAct }),
	pairKey("chopconf", func(m *Map) *Pair { return &m.ChopConf }),
	pairKey("coolconf", func(m *Map) *Pair { return &m.CoolConf }),
	pairKey("dcctrl", func(m *Map) *Pair { return &m.DCCtrl }),
	pairKey("drv_status", func(m *Map) *Pair { return &m.DrvStatus }),

	pairKey("pwmconf", func(m *Map) *Pair { return &m.PWMConf }),
	pairKey("pwm_status", func(m *Map) *Pair { return &m.PWMStatus }),
}

var bindingIndex = func() map[string]binding {
	idx := make(map[string]binding, len(bindings))
	for _, b := range bindings {
		idx[b.key] = b
	}
	return idx
}()

func scalarKey(key string, f func(m *Map) *Register) binding {
	return binding{key: key, scalar: f}
}

func pairKey(key string, f func(m *Map) *Pair) binding {
	return binding{key: key, pair: f}
}

func reg(name string, addr uint8, value uint32, access Access) Register {
	return Register{Name: name, Addr: addr, Value: value, Access: access}
}

func pair(name string, addr0, addr1 uint8, value uint32, access Access) Pair {
	return Pair{
		reg(name, addr0, value, access),
		reg(name, addr1, value, access),
	}
}
