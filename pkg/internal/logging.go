// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Callback trampolines have no error channel of their own beyond the native
// set_error slot, so recovered panics and teardown failures are additionally
// reported through this logger. Discards by default.
var logger atomic.Pointer[logrus.Logger]

func init() {
	l := logrus.New()
	l.SetOutput(io.Discard)
	logger.Store(l)
}

// SetLogger replaces the package logger used at the callback boundary.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

func log() *logrus.Logger { return logger.Load() }
