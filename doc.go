// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package trinamic is a container for Trinamic motion controller drivers.
//
// See package tmc5072 for the TMC5072 dual-axis stepper controller and
// cmd/tmc5072 for a command line front end.
package trinamic
