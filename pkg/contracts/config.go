// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package contracts

import (
	"sort"
	"strconv"
)

// AccessMode controls how the database file is opened.
type AccessMode int

const (
	AccessModeAutomatic AccessMode = iota
	AccessModeReadOnly
	AccessModeReadWrite
)

func (m AccessMode) String() string {
	switch m {
	case AccessModeReadOnly:
		return "READ_ONLY"
	case AccessModeReadWrite:
		return "READ_WRITE"
	default:
		return "AUTOMATIC"
	}
}

// Config holds options applied when opening a database. The zero value is a
// usable default. Typed fields cover the common engine settings; Options
// carries any further engine option verbatim and is applied last.
type Config struct {
	// AccessMode opens the target read-only or read-write.
	AccessMode AccessMode

	// Threads caps the engine worker pool. Zero leaves the engine default.
	Threads int

	// MaxMemory is the engine memory limit, e.g. "2GB". Empty leaves the
	// engine default.
	MaxMemory string

	// TempDirectory is where the engine spills to disk.
	TempDirectory string

	// AllowUnsignedExtensions permits loading extensions without a
	// signature. Required for locally built loadable modules.
	AllowUnsignedExtensions bool

	// Options holds raw engine options by name.
	Options map[string]string
}

// Flags renders the configuration as engine option name/value pairs, in a
// deterministic order with Options applied last.
func (c *Config) Flags() [][2]string {
	var flags [][2]string
	if c == nil {
		return flags
	}
	if c.AccessMode != AccessModeAutomatic {
		flags = append(flags, [2]string{"access_mode", c.AccessMode.String()})
	}
	if c.Threads > 0 {
		flags = append(flags, [2]string{"threads", strconv.Itoa(c.Threads)})
	}
	if c.MaxMemory != "" {
		flags = append(flags, [2]string{"max_memory", c.MaxMemory})
	}
	if c.TempDirectory != "" {
		flags = append(flags, [2]string{"temp_directory", c.TempDirectory})
	}
	if c.AllowUnsignedExtensions {
		flags = append(flags, [2]string{"allow_unsigned_extensions", "true"})
	}
	names := make([]string, 0, len(c.Options))
	for name := range c.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		flags = append(flags, [2]string{name, c.Options[name]})
	}
	return flags
}
