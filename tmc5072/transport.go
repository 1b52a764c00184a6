// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tmc5072

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

const (
	// SPIFrequency is the clock used for every transaction.
	SPIFrequency = physic.MegaHertz
	// SPIMode is CPOL=1, CPHA=1.
	SPIMode = spi.Mode3
	// SPIBits is the word size of a transfer.
	SPIBits = 8

	// FrameSize is the length of every request and response datagram.
	FrameSize = 5

	writeFlag = 0x80
	addrMask  = 0x7F
)

// Opener opens the SPI port the chip is wired to. It is called once per
// register operation and the port is closed when the operation completes.
type Opener func() (spi.PortCloser, error)

// PortName returns the periph registry name of a bus/chip-select pair, e.g.
// "SPI6.0".
func PortName(bus, cs int) string {
	return fmt.Sprintf("SPI%d.%d", bus, cs)
}

// RegistryOpener returns an Opener that opens name through spireg.
func RegistryOpener(name string) Opener {
	return func() (spi.PortCloser, error) {
		return spireg.Open(name)
	}
}

// DebugF the debug function type.
type DebugF func(string, ...interface{})

func noop(string, ...interface{}) {}

// EncodeWrite builds the write datagram for r: the address with bit 7 set
// followed by the value, most significant byte first.
func EncodeWrite(r *Register) []byte {
	buf := make([]byte, FrameSize)
	buf[0] = r.Addr&addrMask | writeFlag
	binary.BigEndian.PutUint32(buf[1:], r.Value)
	return buf
}

// EncodeRead builds the read datagram for r: the address with bit 7 clear
// followed by four zero bytes.
func EncodeRead(r *Register) []byte {
	buf := make([]byte, FrameSize)
	buf[0] = r.Addr & addrMask
	return buf
}

// DecodeValue returns the 32 bit register data of a response datagram. The
// first byte is the SPI status and is ignored.
func DecodeValue(rx []byte) uint32 {
	return binary.BigEndian.Uint32(rx[1:FrameSize])
}

// WriteRegister sends r.Value to r.Addr in a single transfer.
//
// The returned datagram is what the chip shifted out during this transfer:
// the status byte and the data requested by the previous transaction, not
// anything about this write.
func (d *Dev) WriteRegister(r *Register) ([]byte, error) {
	if !r.Access.Writable() {
		return nil, fmt.Errorf("tmc5072: write %s: %w", r.Name, ErrAccess)
	}
	tx := EncodeWrite(r)
	d.debug("write %s %#02x: % x", r.Name, r.Addr, tx[1:])
	rx, err := d.transfer(tx, 1)
	if err != nil {
		return nil, fmt.Errorf("tmc5072: write %s: %w", r.Name, err)
	}
	return rx, nil
}

// ReadRegister reads r.Addr from the chip and returns the raw response
// datagram: status byte then the 32 bit value, most significant byte first.
//
// The chip answers a read request one transaction late, so the same read
// datagram is sent twice while the port is held and only the second response
// is returned. Both transfers are part of the protocol. r.Value is left
// untouched.
func (d *Dev) ReadRegister(r *Register) ([]byte, error) {
	if !r.Access.Readable() {
		return nil, fmt.Errorf("tmc5072: read %s: %w", r.Name, ErrAccess)
	}
	tx := EncodeRead(r)
	rx, err := d.transfer(tx, 2)
	if err != nil {
		return nil, fmt.Errorf("tmc5072: read %s: %w", r.Name, err)
	}
	d.debug("read %s %#02x: status %#02x data % x", r.Name, r.Addr, rx[0], rx[1:])
	return rx, nil
}

// transfer opens the port, sends tx n times and returns the last response.
// The port is closed on every path.
func (d *Dev) transfer(tx []byte, n int) (rx []byte, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.open()
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, p.Close())
		if err != nil {
			rx = nil
		}
	}()

	c, err := p.Connect(SPIFrequency, SPIMode, SPIBits)
	if err != nil {
		return nil, err
	}
	rx = make([]byte, len(tx))
	for i := 0; i < n; i++ {
		if err := c.Tx(tx, rx); err != nil {
			return nil, err
		}
	}
	return rx, nil
}
