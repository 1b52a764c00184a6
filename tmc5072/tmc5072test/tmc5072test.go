// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tmc5072test emulates a TMC5072 on a fake SPI port.
//
// The emulated chip answers every datagram with its status byte followed by
// the data of the register addressed by the previous datagram, like the real
// part does. A read therefore only returns meaningful data on the second
// transfer.
package tmc5072test

import (
	"encoding/binary"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const frameSize = 5

// Chip is an emulated TMC5072 register file.
//
// Chip can be shared between several ports; every port handed out by Opener
// talks to the same registers.
type Chip struct {
	sync.Mutex
	// Regs holds the 128 register values, indexed by 7-bit address.
	Regs [128]uint32
	// Status is the SPI status byte returned in every response.
	Status byte
	// Frames records every datagram received, in order.
	Frames [][]byte
	// FailAt makes the FailAt-th transfer (1-based) fail. 0 disables it.
	FailAt int
	// OpenErr, when set, is returned by the Opener.
	OpenErr error

	// Last Connect parameters.
	Freq physic.Frequency
	Mode spi.Mode
	Bits int

	Opens  int
	Closes int

	prev      byte
	transfers int
}

// Opener returns a function handing out a new port on each call, suitable
// for tmc5072.New.
func (c *Chip) Opener() func() (spi.PortCloser, error) {
	return func() (spi.PortCloser, error) {
		c.Lock()
		defer c.Unlock()
		if c.OpenErr != nil {
			return nil, c.OpenErr
		}
		c.Opens++
		return &port{chip: c}, nil
	}
}

// Writes returns the write datagrams received so far.
func (c *Chip) Writes() [][]byte {
	c.Lock()
	defer c.Unlock()
	var out [][]byte
	for _, f := range c.Frames {
		if f[0]&0x80 != 0 {
			out = append(out, f)
		}
	}
	return out
}

// Reset forgets the recorded frames and counters but keeps the registers.
func (c *Chip) Reset() {
	c.Lock()
	defer c.Unlock()
	c.Frames = nil
	c.Opens = 0
	c.Closes = 0
	c.transfers = 0
}

func (c *Chip) tx(w, r []byte) error {
	c.Lock()
	defer c.Unlock()
	c.transfers++
	if c.FailAt != 0 && c.transfers == c.FailAt {
		return conntest.Errorf("tmc5072test: injected failure on transfer %d", c.transfers)
	}
	if len(w) != frameSize {
		return conntest.Errorf("tmc5072test: datagram of %d bytes", len(w))
	}
	c.Frames = append(c.Frames, append([]byte(nil), w...))

	if len(r) != 0 {
		if len(r) != frameSize {
			return conntest.Errorf("tmc5072test: read buffer of %d bytes", len(r))
		}
		r[0] = c.Status
		binary.BigEndian.PutUint32(r[1:], c.Regs[c.prev])
	}

	addr := w[0] & 0x7F
	if w[0]&0x80 != 0 {
		c.Regs[addr] = binary.BigEndian.Uint32(w[1:])
	}
	c.prev = addr
	return nil
}

type port struct {
	chip      *Chip
	connected bool
	closed    bool
}

func (p *port) String() string {
	return "tmc5072test"
}

func (p *port) Close() error {
	if p.closed {
		return conntest.Errorf("tmc5072test: port closed twice")
	}
	p.closed = true
	p.chip.Lock()
	p.chip.Closes++
	p.chip.Unlock()
	return nil
}

func (p *port) LimitSpeed(f physic.Frequency) error {
	return nil
}

func (p *port) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if p.connected {
		return nil, conntest.Errorf("tmc5072test: Connect cannot be called twice")
	}
	p.connected = true
	p.chip.Lock()
	p.chip.Freq = f
	p.chip.Mode = mode
	p.chip.Bits = bits
	p.chip.Unlock()
	return &chipConn{p: p}, nil
}

type chipConn struct {
	p *port
}

func (c *chipConn) String() string {
	return c.p.String()
}

func (c *chipConn) Tx(w, r []byte) error {
	if c.p.closed {
		return fmt.Errorf("tmc5072test: Tx on closed port")
	}
	return c.p.chip.tx(w, r)
}

func (c *chipConn) Duplex() conn.Duplex {
	return conn.Full
}

func (c *chipConn) TxPackets(p []spi.Packet) error {
	return conntest.Errorf("tmc5072test: TxPackets is not implemented")
}

var _ spi.PortCloser = &port{}
var _ spi.Conn = &chipConn{}
