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

import "bufio"

// Unframed is the "unframed"/"buffered" mode of spec.md §6: messages run
// straight into each other on the wire with no length prefix, so a
// reader relies on the protocol's own field-stop markers to know where
// one message ends, and a writer's Flush is just handing the buffered
// bytes to the connection.
type Unframed struct {
	conn Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

// NewUnframed wraps conn for the unframed/buffered mode: reads and
// writes pass straight through, buffered only to batch small I/O.
func NewUnframed(conn Conn) *Unframed {
	return &Unframed{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}
}

// NextFrame is a no-op in unframed mode: there is no length prefix to
// consume, since message boundaries come from the protocol's own
// encoding rather than the framing layer.
func (u *Unframed) NextFrame() error { return nil }

// Read implements io.Reader over the buffered connection.
func (u *Unframed) Read(p []byte) (int, error) {
	return u.r.Read(p)
}

// ReadByte implements io.ByteReader over the buffered connection.
func (u *Unframed) ReadByte() (byte, error) {
	return u.r.ReadByte()
}

// Write implements io.Writer, buffering into the connection.
func (u *Unframed) Write(p []byte) (int, error) {
	return u.w.Write(p)
}

// WriteByte implements io.ByteWriter, buffering into the connection.
func (u *Unframed) WriteByte(b byte) error {
	return u.w.WriteByte(b)
}

// Flush pushes any buffered writes out to the connection. Unlike
// FramedWriter.Flush, it emits no length prefix — the bytes go straight
// through.
func (u *Unframed) Flush() error {
	return u.w.Flush()
}

// Close is a no-op: Unframed owns no pooled resources to release. It
// exists so Unframed satisfies Transport alongside FramedReadWriter.
func (u *Unframed) Close() error { return nil }
