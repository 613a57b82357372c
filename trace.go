// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package treedoc

import (
	"log/slog"

	"github.com/lexcrest/treedoc/engine"
)

// TraceKind tags a diagnostic record forwarded from the engine.
type TraceKind int

const (
	// TraceParse is a record from the parser proper.
	TraceParse TraceKind = iota

	// TraceLex is a record from the lexer.
	TraceLex

	// TraceGraph is debug-graph output, emitted only while debug graphs
	// are enabled on the document.
	TraceGraph
)

// String returns the kind's display name.
func (k TraceKind) String() string {
	switch k {
	case TraceParse:
		return "parse"
	case TraceLex:
		return "lex"
	case TraceGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// TraceSink receives engine diagnostics installed via Document.SetLogger.
// The sink sees every record the engine emits, unfiltered and unformatted.
type TraceSink interface {
	Log(kind TraceKind, message string)
}

// TraceFunc adapts a plain function to TraceSink.
type TraceFunc func(kind TraceKind, message string)

func (f TraceFunc) Log(kind TraceKind, message string) {
	f(kind, message)
}

// SlogSink returns a TraceSink that forwards engine diagnostics to a
// structured logger at debug level. A nil logger uses slog.Default.
func SlogSink(logger *slog.Logger) TraceSink {
	if logger == nil {
		logger = slog.Default()
	}
	return TraceFunc(func(kind TraceKind, message string) {
		logger.Debug("engine trace",
			slog.String("kind", kind.String()),
			slog.String("message", message))
	})
}

// newEngineLogger bridges a host TraceSink into the engine's logging
// contract. It marshals the engine's structured record into the sink's
// calling convention and nothing else.
func newEngineLogger(sink TraceSink) engine.Logger {
	if sink == nil {
		return engine.Logger{}
	}
	return engine.Logger{
		Log: func(kind engine.LogKind, message string) {
			sink.Log(traceKindFor(kind), message)
		},
	}
}

func traceKindFor(kind engine.LogKind) TraceKind {
	switch kind {
	case engine.LogLex:
		return TraceLex
	case engine.LogGraph:
		return TraceGraph
	default:
		return TraceParse
	}
}
