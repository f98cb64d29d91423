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

	"go.uber.org/thriftcore/thrifterrors"
)

// maxFrameSize bounds the length prefix a FramedReader will honor,
// guarding against a corrupt or hostile prefix turning into an
// unbounded allocation downstream.
const maxFrameSize = 64 * 1024 * 1024

// FramedReader delivers one message at a time out of a stream prefixed,
// per message, with its length as a big-endian i32 (spec.md §6's
// "framed" mode). Callers read a message by calling NextFrame, then
// reading from the FramedReader itself until io.EOF, which signals the
// frame boundary rather than the end of the underlying stream.
type FramedReader struct {
	src     io.Reader
	lenBuf  [4]byte
	remain  int64
}

// NewFramedReader wraps src, a stream already framed in big-endian i32
// length-prefixed messages.
func NewFramedReader(src io.Reader) *FramedReader {
	return &FramedReader{src: src}
}

// NextFrame reads the next frame's length prefix and positions the
// reader at the start of that frame's body. It must be called before
// each message is read.
func (r *FramedReader) NextFrame() error {
	if _, err := io.ReadFull(r.src, r.lenBuf[:]); err != nil {
		return thrifterrors.WrapTransport(err, "framing: read frame length")
	}
	n := int64(binary.BigEndian.Uint32(r.lenBuf[:]))
	if n < 0 || n > maxFrameSize {
		return thrifterrors.Protocolf("framing: frame length %d exceeds maximum %d", n, maxFrameSize)
	}
	r.remain = n
	return nil
}

// Read implements io.Reader, bounded to the current frame. Once the
// frame's bytes are exhausted it returns io.EOF even though the
// underlying stream has more to give — call NextFrame to advance.
func (r *FramedReader) Read(p []byte) (int, error) {
	if r.remain <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > r.remain {
		p = p[:r.remain]
	}
	n, err := r.src.Read(p)
	r.remain -= int64(n)
	return n, err
}

// ReadByte implements io.ByteReader for protocol readers that prefer it.
func (r *FramedReader) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(r, b[:])
	return b[0], err
}
