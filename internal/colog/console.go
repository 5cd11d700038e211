// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colog

import "os"

// Console is a LoggerWriter that writes to stdout, optionally with
// ANSI color by level.
type Console struct {
	writer *os.File
	color  bool
}

const (
	csi    = "\x1B["
	white  = "37m"
	green  = "32m"
	yellow = "33;1m"
	red    = "31;1m"
)

var colorMap = map[int]string{
	DEBUG: white,
	INFO:  green,
	WARN:  yellow,
	ERROR: red,
	FATAL: red,
}

// NewConsole creates a Console writer.
func NewConsole(color bool) *Console {
	return &Console{writer: os.Stdout, color: color}
}

// Write implements LoggerWriter.
func (w *Console) Write(event *Event) {
	if w.color {
		w.writer.WriteString(csi)
		w.writer.WriteString(colorMap[event.Level])
	}
	w.writer.WriteString(event.FMsg)
	if w.color {
		w.writer.WriteString(csi)
		w.writer.WriteString(white)
	}
}

// Close implements LoggerWriter.
func (w *Console) Close() {}

// Sync implements LoggerWriter.
func (w *Console) Sync() {}
