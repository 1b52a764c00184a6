// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regdump prints a TMC5072 register map to a terminal.
//
// Each register is one line: a colour swatch for its access mode, the key,
// the axis, the address, the access mode and the value. Colours are only
// emitted when the output is a terminal.
package regdump

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/GermanBionicSystems/trinamic/tmc5072"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Swatches maps an access mode to the colour of its swatch.
var Swatches = map[tmc5072.Access]color.NRGBA{
	tmc5072.ReadOnly:        {0x00, 0x80, 0xFF, 0xFF},
	tmc5072.WriteOnly:       {0xFF, 0x80, 0x00, 0xFF},
	tmc5072.ReadWrite:       {0x00, 0xC0, 0x00, 0xFF},
	tmc5072.ReadClearOnRead: {0xE0, 0x00, 0x00, 0xFF},
}

// Opts represents the options available for the dump.
type Opts struct {
	Palette *ansi256.Palette
	// NoColor disables the swatches even on a terminal.
	NoColor bool

	_ struct{}
}

// Dev writes register tables.
type Dev struct {
	w       io.Writer
	color   bool
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev that prints to stdout.
func New(opts *Opts) *Dev {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return newDev(colorable.NewColorableStdout(), tty, opts)
}

// NewWriter returns a Dev that prints to w without colours.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	return newDev(colorable.NewNonColorable(w), false, opts)
}

func newDev(w io.Writer, tty bool, opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:       w,
		color:   tty && !opts.NoColor,
		palette: *p,
	}
}

func (d *Dev) String() string {
	return "RegDump"
}

// PrintMap prints every register of m, in table order.
func (d *Dev) PrintMap(m *tmc5072.Map) error {
	return d.Print(m.Registers())
}

// Print prints regs. The axis column is "-" for global registers.
func (d *Dev) Print(regs []*tmc5072.Register) error {
	d.buf.Reset()
	for _, r := range regs {
		if d.color {
			c, ok := Swatches[r.Access]
			if !ok {
				c = color.NRGBA{0x80, 0x80, 0x80, 0xFF}
			}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
			_, _ = d.buf.WriteString("\033[0m ")
		}
		fmt.Fprintf(&d.buf, "%-12s %s %#04x %-2s %#010x %d\n", r.Name, Axis(r.Addr), r.Addr, r.Access, r.Value, r.Int32())
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Axis returns the axis an address belongs to: "0", "1" or "-" for the
// global registers.
func Axis(addr uint8) string {
	switch {
	case addr < 0x10:
		return "-"
	case addr < 0x18, addr >= 0x20 && addr < 0x40, addr >= 0x60 && addr < 0x70:
		return "0"
	default:
		return "1"
	}
}

var _ fmt.Stringer = &Dev{}
