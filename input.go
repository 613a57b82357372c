// Copyright (C) 2025 Lexcrest Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package treedoc

import (
	"io"
	"os"
	"unicode/utf16"

	"github.com/lexcrest/treedoc/engine"
)

// ByteSource is the host-supplied pull capability a Document reads text
// from during a parse. Offsets and counts are in coordinate units
// (BytesPerUnit bytes each); Read returns raw UTF-16 little-endian bytes,
// with an empty result signaling end of input.
//
// The engine decides chunk sizing and call cadence; implementations must
// serve reads from any unit offset in any order. Blocking inside Seek or
// Read blocks the parse.
type ByteSource interface {
	Seek(unitOffset uint32)
	Read(maxUnits uint32) []byte
}

// newEngineInput bridges a host ByteSource into the engine's byte-addressed
// read contract. It is a pure protocol bridge: no buffering, no caching, no
// transformation beyond the unit/byte scaling.
func newEngineInput(src ByteSource) engine.Input {
	if src == nil {
		return engine.Input{}
	}
	return engine.Input{
		Seek: func(byteOffset uint32) {
			src.Seek(byteOffset / BytesPerUnit)
		},
		Read: func(byteCount uint32) []byte {
			return src.Read(byteCount / BytesPerUnit)
		},
	}
}

// StringSource is a ByteSource over an in-memory string, encoded to UTF-16
// on construction. It is the simplest thing to install for tests and for
// hosts whose documents fit in memory.
type StringSource struct {
	units  []uint16
	cursor uint32
}

var _ ByteSource = (*StringSource)(nil)

// NewStringSource returns a source positioned at offset zero.
func NewStringSource(text string) *StringSource {
	s := &StringSource{}
	s.SetText(text)
	return s
}

// SetText replaces the source's content and rewinds it. The document does
// not observe the change until its next parse.
func (s *StringSource) SetText(text string) {
	s.units = utf16.Encode([]rune(text))
	s.cursor = 0
}

// Len returns the content length in coordinate units.
func (s *StringSource) Len() uint32 {
	return uint32(len(s.units))
}

func (s *StringSource) Seek(unitOffset uint32) {
	s.cursor = unitOffset
}

func (s *StringSource) Read(maxUnits uint32) []byte {
	if s.cursor >= uint32(len(s.units)) || maxUnits == 0 {
		return nil
	}
	end := s.cursor + maxUnits
	if end > uint32(len(s.units)) || end < s.cursor {
		end = uint32(len(s.units))
	}
	chunk := make([]byte, 0, (end-s.cursor)*BytesPerUnit)
	for _, u := range s.units[s.cursor:end] {
		chunk = append(chunk, byte(u), byte(u>>8))
	}
	s.cursor = end
	return chunk
}

// FileSource is a ByteSource over an open file holding UTF-16
// little-endian text. os.File already is a seekable byte reader, so the
// source only scales unit offsets to byte offsets.
//
// The caller keeps ownership of the file and closes it after the document
// is done with it.
type FileSource struct {
	file *os.File
}

var _ ByteSource = (*FileSource)(nil)

// NewFileSource wraps an open file.
func NewFileSource(file *os.File) *FileSource {
	return &FileSource{file: file}
}

// File returns the underlying file.
func (f *FileSource) File() *os.File {
	return f.file
}

func (f *FileSource) Seek(unitOffset uint32) {
	if f.file == nil {
		return
	}
	// Errors surface as short reads; the pull contract has no error
	// channel, end-of-input stands in for it.
	_, _ = f.file.Seek(int64(unitOffset)*BytesPerUnit, io.SeekStart)
}

func (f *FileSource) Read(maxUnits uint32) []byte {
	if f.file == nil || maxUnits == 0 {
		return nil
	}
	return readUnits(f.file, maxUnits)
}

// readUnits pulls up to maxUnits code units from r. A reader may return
// data together with an error; the data is kept and the next call reports
// end of input.
func readUnits(r io.Reader, maxUnits uint32) []byte {
	buf := make([]byte, maxUnits*BytesPerUnit)
	n, _ := r.Read(buf)
	if n <= 0 {
		return nil
	}
	// Never hand the engine half a code unit.
	n &^= 1
	return buf[:n]
}
