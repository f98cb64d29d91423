// Copyright (c) 2016 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package framing

import (
	"encoding/binary"
	"io"

	"go.uber.org/multierr"

	"go.uber.org/thriftcore/internal/bufferpool"
	"go.uber.org/thriftcore/thrifterrors"
)

// FramedWriter buffers one message at a time and, on Flush, emits it to
// sink prefixed with its length as a big-endian i32 (spec.md §6's
// "framed" mode). The buffer is pool-backed per internal/bufferpool so
// repeated calls don't pressure the allocator with one []byte per call.
type FramedWriter struct {
	sink io.Writer
	buf  *bufferpool.Buffer
}

// NewFramedWriter wraps sink, emitting one length-prefixed frame per Flush.
func NewFramedWriter(sink io.Writer) *FramedWriter {
	return &FramedWriter{sink: sink, buf: bufferpool.Get()}
}

// Write buffers p as part of the frame being built; nothing reaches
// sink until Flush.
func (w *FramedWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// WriteByte implements io.ByteWriter for protocol writers that prefer it.
func (w *FramedWriter) WriteByte(b byte) error {
	_, err := w.buf.Write([]byte{b})
	return err
}

// Flush emits the accumulated frame to sink as a 4-byte big-endian
// length prefix followed by the buffered bytes, then resets the buffer
// for the next frame.
func (w *FramedWriter) Flush() error {
	var lenBuf [4]byte
	n := w.buf.Len()
	binary.BigEndian.PutUint32(lenBuf[:], uint32(n))
	if _, err := w.sink.Write(lenBuf[:]); err != nil {
		return thrifterrors.WrapTransport(err, "framing: write frame length")
	}
	if _, err := w.buf.WriteTo(w.sink); err != nil {
		return thrifterrors.WrapTransport(err, "framing: write frame body")
	}
	w.buf.Reset()
	return nil
}

// Close flushes any bytes still buffered from an unterminated frame and
// releases the writer's pooled buffer. Only the flush can fail, so the
// returned error is the flush's, or nil. Callers must not use the writer
// after calling Close.
func (w *FramedWriter) Close() error {
	var err error
	if w.buf.Len() > 0 {
		err = multierr.Append(err, w.Flush())
	}
	w.buf.Release()
	return err
}
