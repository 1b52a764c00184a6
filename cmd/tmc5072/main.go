// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command tmc5072 initializes and moves the motors of a TMC5072.
//
// Usage:
//
//	tmc5072 [flags] init
//	tmc5072 [flags] goto <axis> <target>
//	tmc5072 [flags] jog <axis> <delta>
//	tmc5072 [flags] switch <axis>
//	tmc5072 [flags] xlatch <axis>
//	tmc5072 [flags] position <axis>
//	tmc5072 [flags] dump
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/GermanBionicSystems/trinamic/tmc5072"
	"github.com/GermanBionicSystems/trinamic/tmc5072/regdump"
	"github.com/GermanBionicSystems/trinamic/tmc5072/tmc5072test"
	"periph.io/x/host/v3"
)

var errUsage = errors.New("usage")

func main() {
	log.SetPrefix("tmc5072: ")
	log.SetFlags(0)

	var (
		bus     = flag.Int("bus", 6, "SPI bus number")
		cs      = flag.Int("cs", 0, "SPI chip select")
		config  = flag.String("config", "", "INI file patching the register reset values")
		fake    = flag.Bool("fake", false, "talk to an emulated chip instead of the bus")
		verbose = flag.Bool("v", false, "trace frames and configuration")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] init|goto|jog|switch|xlatch|position|dump [axis] [value]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	dev, err := open(*bus, *cs, *fake)
	if err != nil {
		log.Fatal(err)
	}
	if *verbose {
		dev.EnableDebug(log.Printf)
	}
	if *config != "" {
		if err := dev.LoadConfig(*config); err != nil {
			log.Fatal(err)
		}
	}
	if err := run(dev, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func open(bus, cs int, fake bool) (*tmc5072.Dev, error) {
	if fake {
		chip := &tmc5072test.Chip{}
		return tmc5072.New(chip.Opener(), &tmc5072.DefaultOpts)
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	return tmc5072.NewSPI(bus, cs, &tmc5072.DefaultOpts)
}

func run(dev *tmc5072.Dev, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "init":
		return dev.BasicInit()
	case "dump":
		return regdump.New(nil).PrintMap(dev.Regs)
	}

	if len(args) == 0 {
		return errUsage
	}
	axis, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("axis %q: %w", args[0], err)
	}
	switch cmd {
	case "goto", "jog":
		if len(args) != 2 {
			return errUsage
		}
		v, err := strconv.ParseInt(args[1], 0, 32)
		if err != nil {
			return fmt.Errorf("%s %q: %w", cmd, args[1], err)
		}
		if cmd == "goto" {
			return dev.GotoPosition(axis, int32(v))
		}
		return dev.JogPosition(axis, int32(v))
	case "switch":
		active, err := dev.SwitchStatus(axis)
		if err != nil {
			return err
		}
		fmt.Println(active)
		return nil
	case "xlatch", "position":
		read := dev.XLatch
		if cmd == "position" {
			read = dev.ReadPosition
		}
		v, err := read(axis)
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	}
	return errUsage
}
