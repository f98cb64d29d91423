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

package thriftprotocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"go.uber.org/thriftcore/thriftwire"
)

const (
	binaryVersionMask int32 = ^0xffff
	binaryVersion1    int32 = -0x7fff0000 // bit pattern 0x80010000
)

// BinaryProtocol implements the Thrift Binary Protocol: fixed-width,
// network-byte-order scalars and a strict-mode message envelope
// (top bit of the first header int32 set, low 16 bits the message type).
type BinaryProtocol struct {
	r   ioReader
	w   ioWriter
	buf [8]byte
}

// NewBinaryProtocol builds a BinaryProtocol reading from r and writing to w.
// Either may be nil if the protocol will only be used in one direction.
func NewBinaryProtocol(r ioReader, w ioWriter) *BinaryProtocol {
	return &BinaryProtocol{r: r, w: w}
}

var _ Protocol = (*BinaryProtocol)(nil)

// --- message envelope ---

func (p *BinaryProtocol) WriteMessageBegin(name string, typeID thriftwire.MessageType, seqID int32) error {
	header := binaryVersion1 | int32(typeID)
	if err := p.writeI32(header); err != nil {
		return err
	}
	if err := p.WriteString(name); err != nil {
		return err
	}
	return p.writeI32(seqID)
}

func (p *BinaryProtocol) WriteMessageEnd() error { return nil }

func (p *BinaryProtocol) ReadMessageBegin() (string, thriftwire.MessageType, int32, error) {
	size, err := p.readI32()
	if err != nil {
		return "", 0, 0, err
	}
	if size < 0 {
		version := size & binaryVersionMask
		if version != binaryVersion1 {
			return "", 0, 0, fmt.Errorf("thriftprotocol: bad binary protocol version %#x", uint32(size))
		}
		typeID := thriftwire.MessageType(size & 0xff)
		name, err := p.ReadString()
		if err != nil {
			return "", 0, 0, err
		}
		seqID, err := p.readI32()
		if err != nil {
			return "", 0, 0, err
		}
		return name, typeID, seqID, nil
	}
	// Old-style, unversioned message header: size is the name length.
	nameBytes := make([]byte, size)
	if _, err := io.ReadFull(p.r.(io.Reader), nameBytes); err != nil {
		return "", 0, 0, err
	}
	typeByte, err := p.r.ReadByte()
	if err != nil {
		return "", 0, 0, err
	}
	seqID, err := p.readI32()
	if err != nil {
		return "", 0, 0, err
	}
	return string(nameBytes), thriftwire.MessageType(typeByte), seqID, nil
}

func (p *BinaryProtocol) ReadMessageEnd() error { return nil }

// --- struct framing (no-ops on the wire; kept for symmetry with Reader/Writer) ---

func (p *BinaryProtocol) WriteStructBegin(string) error { return nil }
func (p *BinaryProtocol) WriteStructEnd() error         { return nil }
func (p *BinaryProtocol) ReadStructBegin() (string, error) { return "", nil }
func (p *BinaryProtocol) ReadStructEnd() error             { return nil }

// --- fields ---

func (p *BinaryProtocol) WriteFieldBegin(_ string, typeID thriftwire.TType, id int16) error {
	if err := p.w.WriteByte(byte(typeID)); err != nil {
		return err
	}
	return p.writeI16(id)
}

func (p *BinaryProtocol) WriteFieldEnd() error { return nil }

func (p *BinaryProtocol) WriteFieldStop() error {
	return p.w.WriteByte(byte(thriftwire.STOP))
}

func (p *BinaryProtocol) ReadFieldBegin() (string, thriftwire.TType, int16, error) {
	typeByte, err := p.r.ReadByte()
	if err != nil {
		return "", 0, 0, err
	}
	typeID := thriftwire.TType(typeByte)
	if typeID == thriftwire.STOP {
		return "", thriftwire.STOP, 0, nil
	}
	id, err := p.readI16()
	if err != nil {
		return "", 0, 0, err
	}
	return "", typeID, id, nil
}

func (p *BinaryProtocol) ReadFieldEnd() error { return nil }

// --- containers ---

func (p *BinaryProtocol) WriteMapBegin(keyType, valueType thriftwire.TType, size int) error {
	if err := p.w.WriteByte(byte(keyType)); err != nil {
		return err
	}
	if err := p.w.WriteByte(byte(valueType)); err != nil {
		return err
	}
	return p.writeI32(int32(size))
}

func (p *BinaryProtocol) WriteMapEnd() error { return nil }

func (p *BinaryProtocol) ReadMapBegin() (thriftwire.TType, thriftwire.TType, int, error) {
	keyByte, err := p.r.ReadByte()
	if err != nil {
		return 0, 0, 0, err
	}
	valByte, err := p.r.ReadByte()
	if err != nil {
		return 0, 0, 0, err
	}
	size, err := p.readI32()
	if err != nil {
		return 0, 0, 0, err
	}
	if size < 0 {
		return 0, 0, 0, fmt.Errorf("thriftprotocol: negative map size %d", size)
	}
	return thriftwire.TType(keyByte), thriftwire.TType(valByte), int(size), nil
}

func (p *BinaryProtocol) ReadMapEnd() error { return nil }

func (p *BinaryProtocol) WriteListBegin(elemType thriftwire.TType, size int) error {
	if err := p.w.WriteByte(byte(elemType)); err != nil {
		return err
	}
	return p.writeI32(int32(size))
}

func (p *BinaryProtocol) WriteListEnd() error { return nil }

func (p *BinaryProtocol) ReadListBegin() (thriftwire.TType, int, error) {
	return p.readCollectionBegin()
}

func (p *BinaryProtocol) ReadListEnd() error { return nil }

func (p *BinaryProtocol) WriteSetBegin(elemType thriftwire.TType, size int) error {
	return p.WriteListBegin(elemType, size)
}

func (p *BinaryProtocol) WriteSetEnd() error { return nil }

func (p *BinaryProtocol) ReadSetBegin() (thriftwire.TType, int, error) {
	return p.readCollectionBegin()
}

func (p *BinaryProtocol) ReadSetEnd() error { return nil }

func (p *BinaryProtocol) readCollectionBegin() (thriftwire.TType, int, error) {
	elemByte, err := p.r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	size, err := p.readI32()
	if err != nil {
		return 0, 0, err
	}
	if size < 0 {
		return 0, 0, fmt.Errorf("thriftprotocol: negative collection size %d", size)
	}
	return thriftwire.TType(elemByte), int(size), nil
}

// --- scalars ---

func (p *BinaryProtocol) WriteBool(value bool) error {
	if value {
		return p.w.WriteByte(1)
	}
	return p.w.WriteByte(0)
}

func (p *BinaryProtocol) ReadBool() (bool, error) {
	b, err := p.r.ReadByte()
	return b != 0, err
}

func (p *BinaryProtocol) WriteByte(value int8) error {
	return p.w.WriteByte(byte(value))
}

func (p *BinaryProtocol) ReadByte() (int8, error) {
	b, err := p.r.ReadByte()
	return int8(b), err
}

func (p *BinaryProtocol) WriteI16(value int16) error { return p.writeI16(value) }

func (p *BinaryProtocol) ReadI16() (int16, error) { return p.readI16() }

func (p *BinaryProtocol) WriteI32(value int32) error { return p.writeI32(value) }

func (p *BinaryProtocol) ReadI32() (int32, error) { return p.readI32() }

func (p *BinaryProtocol) WriteI64(value int64) error {
	binary.BigEndian.PutUint64(p.buf[:8], uint64(value))
	_, err := p.w.Write(p.buf[:8])
	return err
}

func (p *BinaryProtocol) ReadI64() (int64, error) {
	if _, err := io.ReadFull(p.r.(io.Reader), p.buf[:8]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(p.buf[:8])), nil
}

func (p *BinaryProtocol) WriteDouble(value float64) error {
	return p.WriteI64(int64(math.Float64bits(value)))
}

func (p *BinaryProtocol) ReadDouble() (float64, error) {
	bits, err := p.ReadI64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(bits)), nil
}

func (p *BinaryProtocol) WriteString(value string) error {
	return p.WriteBinary([]byte(value))
}

func (p *BinaryProtocol) ReadString() (string, error) {
	b, err := p.ReadBinary()
	return string(b), err
}

func (p *BinaryProtocol) WriteBinary(value []byte) error {
	if err := p.writeI32(int32(len(value))); err != nil {
		return err
	}
	_, err := p.w.Write(value)
	return err
}

func (p *BinaryProtocol) ReadBinary() ([]byte, error) {
	size, err := p.readI32()
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("thriftprotocol: negative binary length %d", size)
	}
	b := make([]byte, size)
	if _, err := io.ReadFull(p.r.(io.Reader), b); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *BinaryProtocol) Flush() error {
	if f, ok := p.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (p *BinaryProtocol) Skip(typeID thriftwire.TType) error {
	return Skip(p, typeID)
}

// --- helpers ---

func (p *BinaryProtocol) writeI16(value int16) error {
	binary.BigEndian.PutUint16(p.buf[:2], uint16(value))
	_, err := p.w.Write(p.buf[:2])
	return err
}

func (p *BinaryProtocol) readI16() (int16, error) {
	if _, err := io.ReadFull(p.r.(io.Reader), p.buf[:2]); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(p.buf[:2])), nil
}

func (p *BinaryProtocol) writeI32(value int32) error {
	binary.BigEndian.PutUint32(p.buf[:4], uint32(value))
	_, err := p.w.Write(p.buf[:4])
	return err
}

func (p *BinaryProtocol) readI32() (int32, error) {
	if _, err := io.ReadFull(p.r.(io.Reader), p.buf[:4]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(p.buf[:4])), nil
}
