// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package treedoc

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/lexcrest/treedoc/engine"
)

// Edit describes a single text patch in coordinate units. The zero value
// of any field means zero; there are no required fields.
type Edit struct {
	// Position is the unit offset where the patch starts.
	Position uint32

	// UnitsRemoved is the length of the replaced span.
	UnitsRemoved uint32

	// UnitsInserted is the length of the replacement text.
	UnitsInserted uint32
}

// Document owns one parse engine instance for its lifetime and mediates
// every interaction with it: installing the input source and diagnostic
// sink, buffering edits, triggering parses, and handing out
// generation-tagged node handles.
//
// A Document is single-threaded and non-reentrant. Parse runs to
// completion, synchronously pulling text through the installed ByteSource;
// a multi-goroutine host must serialize all calls into one Document itself.
//
// The generation counter is the sole staleness discriminator for node
// handles: it advances exactly once per completed parse, and a handle
// minted at an older generation answers every query with an absent result
// from then on. There is no repair; fetch a fresh handle from Root after
// each parse.
type Document struct {
	id  string
	eng engine.Engine
	log *slog.Logger

	generation uint64
	pending    *Edit
	source     ByteSource
	sink       TraceSink
	parsing    bool
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the structured logger for the document's own operational
// logging. This is unrelated to SetLogger, which installs the host's sink
// for the engine's trace output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.log = logger
		}
	}
}

// WithID overrides the generated document id used in log attributes.
func WithID(id string) Option {
	return func(d *Document) {
		if id != "" {
			d.id = id
		}
	}
}

// New creates an empty document around the given engine. The document owns
// the engine from here on; nothing else may call into it.
func New(eng engine.Engine, opts ...Option) *Document {
	d := &Document{
		id:  uuid.NewString(),
		eng: eng,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID returns the document's correlation id.
func (d *Document) ID() string {
	return d.id
}

// Generation returns the number of completed parses.
func (d *Document) Generation() uint64 {
	return d.generation
}

// SetLanguage binds a grammar to the document's engine. The grammar value
// is opaque; the engine decides whether it recognizes it. Does not trigger
// a parse.
//
// Returns ErrInvalidLanguage for nil or unrecognized grammar values.
func (d *Document) SetLanguage(lang engine.Language) error {
	if lang == nil {
		return fmt.Errorf("%w: nil grammar", ErrInvalidLanguage)
	}
	if err := d.eng.SetLanguage(lang); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLanguage, err)
	}
	d.log.Debug("language bound",
		slog.String("document_id", d.id))
	return nil
}

// SetInput installs the byte source subsequent parses read from, replacing
// any previous one. A nil source clears the input; the engine then sees a
// zero-length document.
//
// Returns ErrInvalidInput for a nil concrete value behind a non-nil
// interface, and ErrParseInProgress when the current source may still be
// driving a running parse.
func (d *Document) SetInput(src ByteSource) error {
	if d.parsing {
		return fmt.Errorf("%w: input source may not be replaced mid-parse", ErrParseInProgress)
	}
	if src != nil && isNilValue(src) {
		return fmt.Errorf("%w: nil %T", ErrInvalidInput, src)
	}
	d.eng.SetInput(newEngineInput(src))
	// Previous source is released only after the engine holds the new one.
	d.source = src
	return nil
}

// Input returns the installed byte source, or nil if none is installed.
// Only sources installed through SetInput are ever returned.
func (d *Document) Input() ByteSource {
	return d.source
}

// SetLogger installs the sink that receives the engine's trace output,
// replacing any previous one. A nil sink disables tracing.
//
// Returns ErrInvalidLogger for a non-callable sink and ErrParseInProgress
// while a parse is running.
func (d *Document) SetLogger(sink TraceSink) error {
	if d.parsing {
		return fmt.Errorf("%w: logger may not be replaced mid-parse", ErrParseInProgress)
	}
	if sink != nil && isNilValue(sink) {
		return fmt.Errorf("%w: nil %T", ErrInvalidLogger, sink)
	}
	d.eng.SetLogger(newEngineLogger(sink))
	d.sink = sink
	return nil
}

// Logger returns the installed trace sink, or nil if none is installed.
func (d *Document) Logger() TraceSink {
	return d.sink
}

// Edit buffers a single pending text patch to be applied at the next
// Parse. Repeated calls before a parse overwrite the buffered patch; only
// the last one wins. Edit never reparses.
func (d *Document) Edit(edit Edit) {
	patch := edit
	d.pending = &patch
}

// Invalidate discards the engine's incremental-reuse state so the next
// Parse rebuilds the whole tree. It does not advance the generation and
// needs neither a grammar nor an input to be set.
func (d *Document) Invalidate() {
	d.eng.Invalidate()
}

// SetDebugGraphs toggles the engine's debug-graph emission.
func (d *Document) SetDebugGraphs(enabled bool) {
	d.eng.SetDebugGraphs(enabled)
}

// Parse applies any pending edit and (re)builds the tree from the
// installed input source. On completion the generation advances and every
// previously minted node handle is permanently stale. Parse is the only
// operation that advances the generation.
//
// A hard engine failure (including context cancellation) is returned
// without advancing the generation; a completed parse of a syntactically
// broken document is not a failure. A pending edit whose unit offsets
// overflow the engine's byte space is discarded and reported as
// ErrInvalidArgument before the engine runs.
func (d *Document) Parse(ctx context.Context) error {
	if d.parsing {
		return fmt.Errorf("%w: parse is not reentrant", ErrParseInProgress)
	}
	d.parsing = true
	defer func() { d.parsing = false }()

	if p := d.pending; p != nil {
		// Drop the patch first so a bad one cannot wedge every later parse.
		d.pending = nil
		start, err := unitsToBytes(p.Position)
		if err != nil {
			return fmt.Errorf("edit position: %w", err)
		}
		removed, err := unitsToBytes(p.UnitsRemoved)
		if err != nil {
			return fmt.Errorf("edit removed length: %w", err)
		}
		inserted, err := unitsToBytes(p.UnitsInserted)
		if err != nil {
			return fmt.Errorf("edit inserted length: %w", err)
		}
		d.eng.Edit(engine.InputEdit{
			StartByte:     start,
			BytesRemoved:  removed,
			BytesInserted: inserted,
		})
	}

	start := time.Now()
	err := d.eng.Parse(ctx)
	recordParseMetrics(ctx, time.Since(start), err == nil)
	if err != nil {
		return fmt.Errorf("engine parse failed: %w", err)
	}

	d.generation++
	d.log.Debug("parse completed",
		slog.String("document_id", d.id),
		slog.Uint64("generation", d.generation),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Root returns a handle for the tree's root node at the current
// generation, or a zero handle if no parse has completed yet.
func (d *Document) Root() Node {
	ref := d.eng.RootNode()
	if ref == nil {
		return Node{}
	}
	return Node{doc: d, ref: ref, gen: d.generation}
}

// Close releases the engine and both adapters. The document must not be
// used afterwards.
func (d *Document) Close() error {
	d.source = nil
	d.sink = nil
	d.pending = nil
	if err := d.eng.Close(); err != nil {
		return fmt.Errorf("engine close failed: %w", err)
	}
	return nil
}

// isNilValue reports whether a non-nil interface wraps a nil pointer, map,
// or function, which would panic on first use.
func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
