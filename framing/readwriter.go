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

// NewFramed builds a FramedReadWriter over conn using the framed mode: every
// message read is bounded by NextFrame, every message written is
// delimited by Flush.
func NewFramed(conn Conn) *FramedReadWriter {
	return &FramedReadWriter{
		R: NewFramedReader(conn),
		W: NewFramedWriter(conn),
	}
}

// FramedReadWriter bundles a FramedReader and FramedWriter over the
// same connection, the shape a client or server needs for a single
// request/response exchange: read one frame, write one frame.
type FramedReadWriter struct {
	R *FramedReader
	W *FramedWriter
}

// NextFrame advances the read side to the next inbound frame. Callers
// must invoke this before decoding each message.
func (rw *FramedReadWriter) NextFrame() error {
	return rw.R.NextFrame()
}

// Read implements io.Reader by delegating to the bounded frame reader.
func (rw *FramedReadWriter) Read(p []byte) (int, error) {
	return rw.R.Read(p)
}

// ReadByte implements io.ByteReader by delegating to the bounded frame reader.
func (rw *FramedReadWriter) ReadByte() (byte, error) {
	return rw.R.ReadByte()
}

// Write implements io.Writer by buffering into the outbound frame.
func (rw *FramedReadWriter) Write(p []byte) (int, error) {
	return rw.W.Write(p)
}

// WriteByte implements io.ByteWriter by buffering into the outbound frame.
func (rw *FramedReadWriter) WriteByte(b byte) error {
	return rw.W.WriteByte(b)
}

// Flush emits the buffered outbound frame, length-prefixed, to the
// underlying connection.
func (rw *FramedReadWriter) Flush() error {
	return rw.W.Flush()
}

// Close releases the writer's pooled buffer.
func (rw *FramedReadWriter) Close() error {
	return rw.W.Close()
}
