// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tmc5072 drives a Trinamic TMC5072 dual-axis stepper motion
// controller over SPI.
//
// The chip holds the motion ramp generator; the host only writes target
// positions, velocities and current settings into its registers. Every
// per-axis register exists twice, once per motor, and Map exposes them as
// pairs indexed by axis.
//
// Register values can be patched from an INI file before they are pushed to
// the chip with BasicInit:
//
//	[ramp]
//	vmax = [100000, 200000]
//	ihold_irun = [0x00061F0A, 0x00061F0A]
//
// # Protocol
//
// Each transaction is a 5 byte full-duplex datagram at 1MHz in SPI mode 3.
// The response to a datagram carries the status byte and the data requested
// by the previous datagram, so reads are sent twice.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/TMC5072_datasheet_rev1.26.pdf
//
// # Product Page
//
// https://www.analog.com/en/products/tmc5072.html
package tmc5072
