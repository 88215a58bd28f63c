//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package xlog implements a small leveled logger over an injected
// io.Writer. There is no package-level global: every pass takes a
// *Logger argument explicitly.
package xlog

import (
	"fmt"
	"io"
	"io/ioutil"
)

// Level selects the minimum severity a Logger prints, matching
// original_source/src/utility/logger.hpp's LogLevel enum naming.
type Level int

// Log levels, in increasing severity.
const (
	Debug Level = iota
	Info
	Warning
	Error
	Silent
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Silent:
		return "SILENT"
	default:
		return fmt.Sprintf("{Level %d}", l)
	}
}

// Logger writes leveled, prefixed messages to an injected io.Writer.
type Logger struct {
	out   io.Writer
	name  string
	level Level
}

// New creates a logger named name, writing to out, printing messages
// at level and above.
func New(name string, out io.Writer, level Level) *Logger {
	return &Logger{
		out:   out,
		name:  name,
		level: level,
	}
}

// Discard returns a logger that drops everything it is given; tests
// use this in place of a real sink.
func Discard() *Logger {
	return New("discard", ioutil.Discard, Silent)
}

func (l *Logger) log(level Level, format string, a ...interface{}) {
	if l == nil || level < l.level {
		return
	}
	msg := fmt.Sprintf(format, a...)
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	fmt.Fprintf(l.out, "%s: %s: %s", l.name, level, msg)
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, a ...interface{}) {
	l.log(Debug, format, a...)
}

// Infof logs an info-level message.
func (l *Logger) Infof(format string, a ...interface{}) {
	l.log(Info, format, a...)
}

// Warningf logs a warning-level message.
func (l *Logger) Warningf(format string, a ...interface{}) {
	l.log(Warning, format, a...)
}

// Errorf logs an error-level message and returns it as an error,
// mirroring compiler/utils.Logger.Errorf's "log and return" idiom.
func (l *Logger) Errorf(format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	l.log(Error, "%s", msg)
	return fmt.Errorf("%s", msg)
}
