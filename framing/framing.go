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

// Package framing implements the two named framing modes spec.md §6
// exposes above a byte-buffer sink/source: "framed" (each message
// prefixed with its length as a big-endian i32) and "unframed"/"buffered"
// (the raw stream, one message running straight into the next). Opening
// the underlying connection and deciding when one message ends and the
// next begins above the wire is the transport layer's job, out of scope
// here (spec.md §1); this package only implements the two byte-shapes a
// transport picks between by name.
package framing

import "io"

// Conn is the byte-buffer sink/source a framing mode wraps — spec.md
// §1's "connection-level transport... treated as a byte-buffer
// sink/source". This package never dials, listens, or closes one.
type Conn interface {
	io.Reader
	io.Writer
}

// Transport is the common shape FramedReadWriter and Unframed both
// implement: something a protocol can read/write bytes against, with
// NextFrame to mark a message boundary (a no-op in unframed mode) and
// Close to release any pooled resources. thriftconfig resolves a named
// framing mode to one of these without its caller needing to know which.
type Transport interface {
	NextFrame() error
	Read(p []byte) (int, error)
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
	WriteByte(byte) error
	Flush() error
	Close() error
}

var (
	_ Transport = (*FramedReadWriter)(nil)
	_ Transport = (*Unframed)(nil)
)
