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
	"fmt"
	"io"
	"math"

	"go.uber.org/thriftcore/thriftwire"
)

// Compact protocol byte-level constants, matching the Apache Thrift
// TCompactProtocol wire format.
const (
	compactProtocolID       byte = 0x82
	compactVersion          byte = 1
	compactVersionMask      byte = 0x1f
	compactTypeMask         byte = 0xe0
	compactTypeShiftAmount       = 5
)

// Compact type tags. These are distinct from thriftwire.TType; fields use
// the 4-bit compact tag (packed with the delta field id in one byte for
// short forms), while list/set/map element types are full TType values.
const (
	compactBooleanTrue  byte = 0x01
	compactBooleanFalse byte = 0x02
	compactByte         byte = 0x03
	compactI16          byte = 0x04
	compactI32          byte = 0x05
	compactI64          byte = 0x06
	compactDouble       byte = 0x07
	compactBinary       byte = 0x08
	compactList         byte = 0x09
	compactSet          byte = 0x0a
	compactMap          byte = 0x0b
	compactStruct       byte = 0x0c
)

// CompactProtocol implements the Thrift Compact Protocol: zig-zag varint
// integers, delta-encoded field ids within a struct, and boolean field
// values packed into the field header instead of a following byte.
type CompactProtocol struct {
	r ioReader
	w ioWriter

	// lastFieldID and fieldIDStack track the delta-encoding state for
	// nested structs being written or read, one entry per struct depth.
	lastFieldID  int16
	fieldIDStack []int16

	// boolFieldPending and pendingBoolFieldID hold a bool field's id while its value is
	// deferred to the next WriteBool call, matching the reference
	// implementation's "short form" packing.
	boolFieldPending    bool
	pendingBoolFieldID  int16
	readBoolValue       bool
	readBoolValuePending bool
}

// NewCompactProtocol builds a CompactProtocol reading from r and writing to w.
func NewCompactProtocol(r ioReader, w ioWriter) *CompactProtocol {
	return &CompactProtocol{r: r, w: w}
}

var _ Protocol = (*CompactProtocol)(nil)

// --- message envelope ---

func (p *CompactProtocol) WriteMessageBegin(name string, typeID thriftwire.MessageType, seqID int32) error {
	if err := p.w.WriteByte(compactProtocolID); err != nil {
		return err
	}
	versionAndType := (byte(typeID) << compactTypeShiftAmount) | (compactVersion & compactVersionMask)
	if err := p.w.WriteByte(versionAndType); err != nil {
		return err
	}
	if err := p.writeVarint32(zigzag32(seqID)); err != nil {
		return err
	}
	return p.WriteString(name)
}

func (p *CompactProtocol) WriteMessageEnd() error { return nil }

func (p *CompactProtocol) ReadMessageBegin() (string, thriftwire.MessageType, int32, error) {
	protocolID, err := p.r.ReadByte()
	if err != nil {
		return "", 0, 0, err
	}
	if protocolID != compactProtocolID {
		return "", 0, 0, fmt.Errorf("thriftprotocol: bad compact protocol id %#x", protocolID)
	}
	versionAndType, err := p.r.ReadByte()
	if err != nil {
		return "", 0, 0, err
	}
	version := versionAndType & compactVersionMask
	if version != compactVersion {
		return "", 0, 0, fmt.Errorf("thriftprotocol: bad compact protocol version %d", version)
	}
	typeID := thriftwire.MessageType((versionAndType & compactTypeMask) >> compactTypeShiftAmount)
	seqIDZigzag, err := p.readVarint32()
	if err != nil {
		return "", 0, 0, err
	}
	name, err := p.ReadString()
	if err != nil {
		return "", 0, 0, err
	}
	return name, typeID, unzigzag32(seqIDZigzag), nil
}

func (p *CompactProtocol) ReadMessageEnd() error { return nil }

// --- struct framing: pushes/pops the delta-field-id tracker ---

func (p *CompactProtocol) WriteStructBegin(string) error {
	p.fieldIDStack = append(p.fieldIDStack, p.lastFieldID)
	p.lastFieldID = 0
	return nil
}

func (p *CompactProtocol) WriteStructEnd() error {
	p.lastFieldID = p.popFieldID()
	return nil
}

func (p *CompactProtocol) ReadStructBegin() (string, error) {
	p.fieldIDStack = append(p.fieldIDStack, p.lastFieldID)
	p.lastFieldID = 0
	return "", nil
}

func (p *CompactProtocol) ReadStructEnd() error {
	p.lastFieldID = p.popFieldID()
	return nil
}

func (p *CompactProtocol) popFieldID() int16 {
	n := len(p.fieldIDStack)
	if n == 0 {
		return 0
	}
	id := p.fieldIDStack[n-1]
	p.fieldIDStack = p.fieldIDStack[:n-1]
	return id
}

// --- fields ---

func (p *CompactProtocol) WriteFieldBegin(_ string, typeID thriftwire.TType, id int16) error {
	if typeID == thriftwire.BOOL {
		// Deferred: the boolean value is packed into this field's header
		// byte, written by the paired WriteBool call.
		p.boolFieldPending = true
		p.pendingBoolFieldID = id
		return nil
	}
	return p.writeFieldHeader(compactTypeFromTType(typeID), id)
}

func (p *CompactProtocol) writeFieldHeader(compactType byte, id int16) error {
	delta := id - p.lastFieldID
	if delta > 0 && delta <= 15 {
		if err := p.w.WriteByte(byte(delta)<<4 | compactType); err != nil {
			return err
		}
	} else {
		if err := p.w.WriteByte(compactType); err != nil {
			return err
		}
		if err := p.writeVarint32(zigzag32(int32(id))); err != nil {
			return err
		}
	}
	p.lastFieldID = id
	return nil
}

func (p *CompactProtocol) WriteFieldEnd() error { return nil }

func (p *CompactProtocol) WriteFieldStop() error {
	return p.w.WriteByte(0)
}

func (p *CompactProtocol) ReadFieldBegin() (string, thriftwire.TType, int16, error) {
	header, err := p.r.ReadByte()
	if err != nil {
		return "", 0, 0, err
	}
	if header == 0 {
		return "", thriftwire.STOP, 0, nil
	}
	compactType := header & 0x0f
	deltaPart := (header & 0xf0) >> 4

	var id int16
	if deltaPart == 0 {
		raw, err := p.readVarint32()
		if err != nil {
			return "", 0, 0, err
		}
		id = int16(unzigzag32(raw))
	} else {
		id = p.lastFieldID + int16(deltaPart)
	}
	p.lastFieldID = id

	if compactType == compactBooleanTrue || compactType == compactBooleanFalse {
		p.readBoolValue = compactType == compactBooleanTrue
		p.readBoolValuePending = true
		return "", thriftwire.BOOL, id, nil
	}
	ttype, err := ttypeFromCompactType(compactType)
	if err != nil {
		return "", 0, 0, err
	}
	return "", ttype, id, nil
}

func (p *CompactProtocol) ReadFieldEnd() error { return nil }

// --- containers ---

func (p *CompactProtocol) WriteMapBegin(keyType, valueType thriftwire.TType, size int) error {
	if size == 0 {
		return p.w.WriteByte(0)
	}
	if err := p.writeVarint32(uint32(size)); err != nil {
		return err
	}
	kt := compactTypeFromTType(keyType)
	vt := compactTypeFromTType(valueType)
	return p.w.WriteByte(kt<<4 | vt)
}

func (p *CompactProtocol) WriteMapEnd() error { return nil }

func (p *CompactProtocol) ReadMapBegin() (thriftwire.TType, thriftwire.TType, int, error) {
	size, err := p.readVarint32()
	if err != nil {
		return 0, 0, 0, err
	}
	if size == 0 {
		return thriftwire.STOP, thriftwire.STOP, 0, nil
	}
	kvByte, err := p.r.ReadByte()
	if err != nil {
		return 0, 0, 0, err
	}
	keyType, err := ttypeFromCompactType(kvByte >> 4)
	if err != nil {
		return 0, 0, 0, err
	}
	valType, err := ttypeFromCompactType(kvByte & 0x0f)
	if err != nil {
		return 0, 0, 0, err
	}
	return keyType, valType, int(size), nil
}

func (p *CompactProtocol) ReadMapEnd() error { return nil }

func (p *CompactProtocol) writeCollectionBegin(elemType thriftwire.TType, size int) error {
	compactType := compactTypeFromTType(elemType)
	if size <= 14 {
		return p.w.WriteByte(byte(size)<<4 | compactType)
	}
	if err := p.w.WriteByte(0xf0 | compactType); err != nil {
		return err
	}
	return p.writeVarint32(uint32(size))
}

func (p *CompactProtocol) readCollectionBegin() (thriftwire.TType, int, error) {
	header, err := p.r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	compactType := header & 0x0f
	sizePart := (header & 0xf0) >> 4
	size := int(sizePart)
	if sizePart == 15 {
		raw, err := p.readVarint32()
		if err != nil {
			return 0, 0, err
		}
		size = int(raw)
	}
	ttype, err := ttypeFromCompactType(compactType)
	if err != nil {
		return 0, 0, err
	}
	return ttype, size, nil
}

func (p *CompactProtocol) WriteListBegin(elemType thriftwire.TType, size int) error {
	return p.writeCollectionBegin(elemType, size)
}
func (p *CompactProtocol) WriteListEnd() error                    { return nil }
func (p *CompactProtocol) ReadListBegin() (thriftwire.TType, int, error) { return p.readCollectionBegin() }
func (p *CompactProtocol) ReadListEnd() error                     { return nil }

func (p *CompactProtocol) WriteSetBegin(elemType thriftwire.TType, size int) error {
	return p.writeCollectionBegin(elemType, size)
}
func (p *CompactProtocol) WriteSetEnd() error                    { return nil }
func (p *CompactProtocol) ReadSetBegin() (thriftwire.TType, int, error) { return p.readCollectionBegin() }
func (p *CompactProtocol) ReadSetEnd() error                     { return nil }

// --- scalars ---

func (p *CompactProtocol) WriteBool(value bool) error {
	if p.boolFieldPending {
		p.boolFieldPending = false
		compactType := compactBooleanFalse
		if value {
			compactType = compactBooleanTrue
		}
		return p.writeFieldHeader(compactType, p.pendingBoolFieldID)
	}
	// Bool inside a list/set/map: no short form, write as a standalone byte.
	if value {
		return p.w.WriteByte(1)
	}
	return p.w.WriteByte(0)
}

func (p *CompactProtocol) ReadBool() (bool, error) {
	if p.readBoolValuePending {
		p.readBoolValuePending = false
		return p.readBoolValue, nil
	}
	b, err := p.r.ReadByte()
	return b != 0, err
}

func (p *CompactProtocol) WriteByte(value int8) error {
	return p.w.WriteByte(byte(value))
}

func (p *CompactProtocol) ReadByte() (int8, error) {
	b, err := p.r.ReadByte()
	return int8(b), err
}

func (p *CompactProtocol) WriteI16(value int16) error {
	return p.writeVarint32(zigzag32(int32(value)))
}

func (p *CompactProtocol) ReadI16() (int16, error) {
	raw, err := p.readVarint32()
	if err != nil {
		return 0, err
	}
	return int16(unzigzag32(raw)), nil
}

func (p *CompactProtocol) WriteI32(value int32) error {
	return p.writeVarint32(zigzag32(value))
}

func (p *CompactProtocol) ReadI32() (int32, error) {
	raw, err := p.readVarint32()
	if err != nil {
		return 0, err
	}
	return unzigzag32(raw), nil
}

func (p *CompactProtocol) WriteI64(value int64) error {
	return p.writeVarint64(zigzag64(value))
}

func (p *CompactProtocol) ReadI64() (int64, error) {
	raw, err := p.readVarint64()
	if err != nil {
		return 0, err
	}
	return unzigzag64(raw), nil
}

func (p *CompactProtocol) WriteDouble(value float64) error {
	var buf [8]byte
	bits := math.Float64bits(value)
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits)
		bits >>= 8
	}
	_, err := p.w.Write(buf[:])
	return err
}

func (p *CompactProtocol) ReadDouble() (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(p.r.(io.Reader), buf[:]); err != nil {
		return 0, err
	}
	var bits uint64
	for i := 7; i >= 0; i-- {
		bits = (bits << 8) | uint64(buf[i])
	}
	return math.Float64frombits(bits), nil
}

func (p *CompactProtocol) WriteString(value string) error {
	return p.WriteBinary([]byte(value))
}

func (p *CompactProtocol) ReadString() (string, error) {
	b, err := p.ReadBinary()
	return string(b), err
}

func (p *CompactProtocol) WriteBinary(value []byte) error {
	if err := p.writeVarint32(uint32(len(value))); err != nil {
		return err
	}
	_, err := p.w.Write(value)
	return err
}

func (p *CompactProtocol) ReadBinary() ([]byte, error) {
	size, err := p.readVarint32()
	if err != nil {
		return nil, err
	}
	b := make([]byte, size)
	if _, err := io.ReadFull(p.r.(io.Reader), b); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *CompactProtocol) Flush() error {
	if f, ok := p.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (p *CompactProtocol) Skip(typeID thriftwire.TType) error {
	return Skip(p, typeID)
}

// --- varint/zigzag helpers ---

func (p *CompactProtocol) writeVarint32(value uint32) error {
	var buf [5]byte
	n := 0
	for {
		if value&^0x7f == 0 {
			buf[n] = byte(value)
			n++
			break
		}
		buf[n] = byte(value&0x7f) | 0x80
		n++
		value >>= 7
	}
	_, err := p.w.Write(buf[:n])
	return err
}

func (p *CompactProtocol) readVarint32() (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 35 {
			return 0, fmt.Errorf("thriftprotocol: varint32 too long")
		}
	}
	return result, nil
}

func (p *CompactProtocol) writeVarint64(value uint64) error {
	var buf [10]byte
	n := 0
	for {
		if value&^0x7f == 0 {
			buf[n] = byte(value)
			n++
			break
		}
		buf[n] = byte(value&0x7f) | 0x80
		n++
		value >>= 7
	}
	_, err := p.w.Write(buf[:n])
	return err
}

func (p *CompactProtocol) readVarint64() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 70 {
			return 0, fmt.Errorf("thriftprotocol: varint64 too long")
		}
	}
	return result, nil
}

func zigzag32(value int32) uint32 {
	return uint32((value << 1) ^ (value >> 31))
}

func unzigzag32(value uint32) int32 {
	return int32(value>>1) ^ -int32(value&1)
}

func zigzag64(value int64) uint64 {
	return uint64((value << 1) ^ (value >> 63))
}

func unzigzag64(value uint64) int64 {
	return int64(value>>1) ^ -int64(value&1)
}

// --- TType <-> compact type tag mapping ---

func compactTypeFromTType(t thriftwire.TType) byte {
	switch t {
	case thriftwire.BOOL:
		return compactBooleanTrue
	case thriftwire.BYTE:
		return compactByte
	case thriftwire.I16:
		return compactI16
	case thriftwire.I32:
		return compactI32
	case thriftwire.I64:
		return compactI64
	case thriftwire.DOUBLE:
		return compactDouble
	case thriftwire.STRING:
		return compactBinary
	case thriftwire.LIST:
		return compactList
	case thriftwire.SET:
		return compactSet
	case thriftwire.MAP:
		return compactMap
	case thriftwire.STRUCT:
		return compactStruct
	default:
		return compactStruct
	}
}

func ttypeFromCompactType(compactType byte) (thriftwire.TType, error) {
	switch compactType {
	case compactBooleanTrue, compactBooleanFalse:
		return thriftwire.BOOL, nil
	case compactByte:
		return thriftwire.BYTE, nil
	case compactI16:
		return thriftwire.I16, nil
	case compactI32:
		return thriftwire.I32, nil
	case compactI64:
		return thriftwire.I64, nil
	case compactDouble:
		return thriftwire.DOUBLE, nil
	case compactBinary:
		return thriftwire.STRING, nil
	case compactList:
		return thriftwire.LIST, nil
	case compactSet:
		return thriftwire.SET, nil
	case compactMap:
		return thriftwire.MAP, nil
	case compactStruct:
		return thriftwire.STRUCT, nil
	default:
		return 0, fmt.Errorf("thriftprotocol: unknown compact type tag %#x", compactType)
	}
}
