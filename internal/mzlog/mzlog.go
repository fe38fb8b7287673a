// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package mzlog is the structured logging facade every backend package
// logs through. It keeps the same Logger/Helper/NewFilter/FilterLevel
// shape (an injectable Logger plus a leveled Helper wrapper) but backs it
// with zerolog instead of a stub package, since the upstream log
// package carried no implementation to adapt.
package mzlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Level mirrors a FilterLevel enum.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Logger is the injectable logging sink every reader/writer Options struct
// carries. The zero value is not directly usable; construct one with
// NewStdLogger, or let NewHelper substitute the package default.
type Logger struct {
	zl  zerolog.Logger
	set bool
}

// NewStdLogger builds a Logger writing JSON lines to w.
func NewStdLogger(w io.Writer) Logger {
	return Logger{zl: zerolog.New(w).With().Timestamp().Logger(), set: true}
}

// NewFilter wraps a Logger so it only emits records at or above level,
// matching a log.NewFilter(logger, log.FilterLevel(...)) call.
func NewFilter(l Logger, level Level) Logger {
	l.zl = l.zl.Level(level.zerolog())
	return l
}

func defaultLogger() Logger {
	return NewFilter(NewStdLogger(os.Stdout), LevelError)
}

// Helper is the per-component logging handle, mirroring a
// log.Helper: cheap to construct, carries no state beyond its Logger.
type Helper struct {
	l Logger
}

// NewHelper wraps a Logger for component-local use. A zero Logger is
// replaced with the package default.
func NewHelper(l Logger) *Helper {
	if !l.set {
		l = defaultLogger()
	}
	return &Helper{l: l}
}

func (h *Helper) Debugf(format string, args ...any) { h.l.zl.Debug().Msgf(format, args...) }
func (h *Helper) Infof(format string, args ...any)  { h.l.zl.Info().Msgf(format, args...) }
func (h *Helper) Warnf(format string, args ...any)  { h.l.zl.Warn().Msgf(format, args...) }
func (h *Helper) Errorf(format string, args ...any) { h.l.zl.Error().Msgf(format, args...) }
