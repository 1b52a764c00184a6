// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tmc5072

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

var (
	// ErrParse is returned when a configuration value is not an integer
	// literal.
	ErrParse = errors.New("invalid integer literal")

	// ErrPairLength is returned when a per-axis configuration value does not
	// hold exactly two integers.
	ErrPairLength = errors.New("per-axis value must hold exactly two integers")

	// ErrMissingSection is returned when a key appears before any section
	// header.
	ErrMissingSection = errors.New("key outside of a section")
)

// LoadConfig patches the map with the values of an INI source.
//
// source is anything ini.Load accepts: a file name, a []byte or an
// io.Reader. Sections only group keys; every key of every section is looked
// up in the register table, case insensitively. Scalar registers take one
// integer literal ("0x00000004", "512"), per-axis registers take two
// ("[100000, 200000]"). A value may continue on indented lines. Unknown keys
// are skipped. Keys before the first section header, or in a [DEFAULT]
// section, are rejected with ErrMissingSection.
//
// Only the in-memory values change; BasicInit or WriteRegister must be called
// to apply them to the chip. The load stops at the first malformed value and
// does not roll back the keys applied before it.
func (m *Map) LoadConfig(source interface{}) error {
	return m.loadConfig(source, noop)
}

func (m *Map) loadConfig(source interface{}, debug DebugF) error {
	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:                true,
		AllowPythonMultilineValues: true,
	}, source)
	if err != nil {
		return fmt.Errorf("tmc5072: reading config: %w", err)
	}
	for _, s := range f.Sections() {
		if strings.EqualFold(s.Name(), ini.DefaultSection) {
			if keys := s.KeyStrings(); len(keys) != 0 {
				return fmt.Errorf("tmc5072: config %q: %w", keys[0], ErrMissingSection)
			}
			continue
		}
		for _, k := range s.Keys() {
			ok, err := m.Apply(k.Name(), k.Value())
			if err != nil {
				return fmt.Errorf("tmc5072: config [%s]: %w", s.Name(), err)
			}
			if !ok {
				debug("config [%s]: skipping unknown key %q", s.Name(), k.Name())
				continue
			}
			debug("config [%s]: %s = %s", s.Name(), k.Name(), k.Value())
		}
	}
	return nil
}

// Apply sets the register named by key from its textual value. It returns
// false without error when key names no register.
func (m *Map) Apply(key, value string) (bool, error) {
	e, ok := m.Lookup(strings.ToLower(strings.TrimSpace(key)))
	if !ok {
		return false, nil
	}
	if e.Scalar != nil {
		v, err := parseInt(value)
		if err != nil {
			return true, fmt.Errorf("%s: %w", e.Key, err)
		}
		e.Scalar.Value = v
		return true, nil
	}
	vs, err := parsePair(value)
	if err != nil {
		return true, fmt.Errorf("%s: %w", e.Key, err)
	}
	for i := range e.Pair {
		e.Pair[i].Value = vs[i]
	}
	return true, nil
}

// parseInt parses an integer literal with an optional base prefix and keeps
// its low 32 bits; negative numbers become their two's complement.
func parseInt(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	digits := strings.ReplaceAll(strings.TrimLeft(s, "+-"), "_", "")
	// A decimal literal may not start with 0, "010" and "0_10" are not octal.
	if len(digits) > 1 && digits[0] == '0' && digits[1] >= '0' && digits[1] <= '9' {
		if strings.Trim(digits, "0") != "" {
			return 0, fmt.Errorf("%w %q", ErrParse, s)
		}
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrParse, s)
	}
	return uint32(v), nil
}

// parsePair parses "[a, b]".
func parsePair(s string) ([NumAxes]uint32, error) {
	var out [NumAxes]uint32
	parts := strings.Split(strings.Trim(strings.TrimSpace(s), "[]"), ",")
	if len(parts) != NumAxes {
		return out, fmt.Errorf("%w, got %q", ErrPairLength, s)
	}
	for i, p := range parts {
		v, err := parseInt(p)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}
