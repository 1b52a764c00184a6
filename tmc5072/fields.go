// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tmc5072

import "math/bits"

// Field is a bit-field inside a register value.
type Field struct {
	Mask uint32
}

func (f Field) shift() int {
	return bits.TrailingZeros32(f.Mask)
}

// Get extracts the field from a register value.
func (f Field) Get(reg uint32) uint32 {
	return (reg & f.Mask) >> f.shift()
}

// Set returns reg with the field replaced by v. Bits of v that do not fit
// are dropped.
func (f Field) Set(reg, v uint32) uint32 {
	return reg&^f.Mask | (v<<f.shift())&f.Mask
}

// GSTAT
var (
	GStatReset   = Field{0x01}
	GStatDrvErr1 = Field{0x02}
	GStatDrvErr2 = Field{0x04}
	GStatUVCP    = Field{0x08}
)

// IHOLD_IRUN
var (
	IHold      = Field{0x1F << 0}
	IRun       = Field{0x1F << 8}
	IHoldDelay = Field{0x0F << 16}
)

// CHOPCONF
var (
	ChopTOff     = Field{0x0F << 0}
	ChopHStrt    = Field{0x07 << 4}
	ChopHEnd     = Field{0x0F << 7}
	ChopFD3      = Field{0x01 << 11}
	ChopDisFDC   = Field{0x01 << 12}
	ChopRndTF    = Field{0x01 << 13}
	ChopCHM      = Field{0x01 << 14}
	ChopTBL      = Field{0x03 << 15}
	ChopVSense   = Field{0x01 << 17}
	ChopVHighFS  = Field{0x01 << 18}
	ChopVHighCHM = Field{0x01 << 19}
	ChopSync     = Field{0x0F << 20}
	ChopMRes     = Field{0x0F << 24}
	ChopIntPol   = Field{0x01 << 28}
	ChopDEdge    = Field{0x01 << 29}
	ChopDisS2G   = Field{0x01 << 30}
)

// SW_MODE
var (
	SwStopLEnable    = Field{1 << 0}
	SwStopREnable    = Field{1 << 1}
	SwPolStopL       = Field{1 << 2}
	SwPolStopR       = Field{1 << 3}
	SwSwapLR         = Field{1 << 4}
	SwLatchLActive   = Field{1 << 5}
	SwLatchLInactive = Field{1 << 6}
	SwLatchRActive   = Field{1 << 7}
	SwLatchRInactive = Field{1 << 8}
	SwEnLatchEncoder = Field{1 << 9}
	SwSGStop         = Field{1 << 10}
	SwEnSoftStop     = Field{1 << 11}
)

// RAMP_STAT
var (
	RampStatStopL           = Field{1 << 0}
	RampStatStopR           = Field{1 << 1}
	RampStatLatchL          = Field{1 << 2}
	RampStatLatchR          = Field{1 << 3}
	RampStatEventStopL      = Field{1 << 4}
	RampStatEventStopR      = Field{1 << 5}
	RampStatEventStopSG     = Field{1 << 6}
	RampStatEventPosReached = Field{1 << 7}
	RampStatVelocityReached = Field{1 << 8}
	RampStatPositionReached = Field{1 << 9}
	RampStatVZero           = Field{1 << 10}
	RampStatTZeroWaitActive = Field{1 << 11}
	RampStatSecondMove      = Field{1 << 12}
	RampStatStatusSG        = Field{1 << 13}
)
