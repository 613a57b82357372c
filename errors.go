// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package treedoc

import "errors"

// All errors in this package are caller-input validation failures, reported
// synchronously at the offending call. None are retried or recovered
// internally. Staleness of a Node is deliberately not an error; stale
// handles answer with absent results so hosts can poll without
// error-driven control flow.
var (
	// ErrInvalidLanguage reports a grammar value the engine does not
	// recognize, or a nil one.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidInput reports a byte source that cannot serve reads
	// (a nil concrete value behind the interface).
	ErrInvalidInput = errors.New("invalid input source")

	// ErrInvalidLogger reports a trace sink that cannot be called.
	ErrInvalidLogger = errors.New("invalid logger")

	// ErrInvalidArity reports a range query called with an offset or
	// point count other than 1 or 2.
	ErrInvalidArity = errors.New("invalid argument count")

	// ErrInvalidArgument reports a numeric argument that cannot be
	// represented in the engine's byte-offset space.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParseInProgress reports an attempt to swap an adapter, or
	// re-enter Parse, while a parse is running. The running parse may be
	// driving the installed input source; swapping it out from under the
	// engine is never safe.
	ErrParseInProgress = errors.New("parse in progress")
)
