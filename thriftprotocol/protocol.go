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

// Package thriftprotocol implements the Thrift abstract protocol described
// in spec.md §4.1: struct/field/list/set/map framing, scalar encode/decode,
// and recursive skipping of unrecognized values, for both the Binary and
// the Compact wire formats.
package thriftprotocol

import (
	"fmt"

	"go.uber.org/thriftcore/thriftwire"
)

// Reader is the read half of the Thrift abstract protocol.
type Reader interface {
	ReadMessageBegin() (name string, typeID thriftwire.MessageType, seqID int32, err error)
	ReadMessageEnd() error

	ReadStructBegin() (name string, err error)
	ReadStructEnd() error

	// ReadFieldBegin returns typeID == thriftwire.STOP when the struct has
	// no more fields; callers must stop looping in that case without
	// calling ReadFieldEnd.
	ReadFieldBegin() (name string, typeID thriftwire.TType, id int16, err error)
	ReadFieldEnd() error

	ReadMapBegin() (keyType, valueType thriftwire.TType, size int, err error)
	ReadMapEnd() error
	ReadListBegin() (elemType thriftwire.TType, size int, err error)
	ReadListEnd() error
	ReadSetBegin() (elemType thriftwire.TType, size int, err error)
	ReadSetEnd() error

	ReadBool() (bool, error)
	ReadByte() (int8, error)
	ReadI16() (int16, error)
	ReadI32() (int32, error)
	ReadI64() (int64, error)
	ReadDouble() (float64, error)
	ReadString() (string, error)
	ReadBinary() ([]byte, error)

	// Skip recursively consumes a value of the given wire type without
	// decoding it. It is the only recoverable operation on a field the
	// reader does not recognize.
	Skip(typeID thriftwire.TType) error
}

// Writer is the write half of the Thrift abstract protocol.
type Writer interface {
	WriteMessageBegin(name string, typeID thriftwire.MessageType, seqID int32) error
	WriteMessageEnd() error

	WriteStructBegin(name string) error
	WriteStructEnd() error

	WriteFieldBegin(name string, typeID thriftwire.TType, id int16) error
	WriteFieldEnd() error
	WriteFieldStop() error

	WriteMapBegin(keyType, valueType thriftwire.TType, size int) error
	WriteMapEnd() error
	WriteListBegin(elemType thriftwire.TType, size int) error
	WriteListEnd() error
	WriteSetBegin(elemType thriftwire.TType, size int) error
	WriteSetEnd() error

	WriteBool(value bool) error
	WriteByte(value int8) error
	WriteI16(value int16) error
	WriteI32(value int32) error
	WriteI64(value int64) error
	WriteDouble(value float64) error
	WriteString(value string) error
	WriteBinary(value []byte) error

	// Flush pushes any buffered bytes to the underlying sink.
	Flush() error
}

// Protocol is a full duplex Thrift protocol: a Reader paired with a Writer
// over the same transport.
type Protocol interface {
	Reader
	Writer
}

// Factory constructs a Protocol bound to a byte sink/source pair. Transport
// implementations select the Factory; the codec core never chooses one for
// itself.
type Factory interface {
	GetProtocol(rw ReadWriter) Protocol
}

// ReadWriter is the byte-buffer sink/source the protocol layer consumes.
// Framing (package framing) and socket plumbing live below this
// interface; the protocol layer only reads and writes bytes through it.
type ReadWriter interface {
	Reader() ioReader
	Writer() ioWriter
}

type ioReader interface {
	ReadByte() (byte, error)
	Read(p []byte) (int, error)
}

type ioWriter interface {
	WriteByte(byte) error
	Write(p []byte) (int, error)
}

// maxSkipDepth bounds the recursion skip() performs on a malformed or
// adversarial stream, mirroring the depth guard every mainstream Thrift
// implementation applies.
const maxSkipDepth = 64

// ErrDepthLimitExceeded is returned by Skip when a nested container or
// struct exceeds maxSkipDepth.
var ErrDepthLimitExceeded = fmt.Errorf("thriftprotocol: depth limit exceeded")

// skip implements the generic, recursive "discard one well-formed value"
// algorithm shared by every protocol implementation: it knows the shape of
// each TType but never the user's schema. Protocol implementations call
// this from their Skip method.
func skip(r Reader, typeID thriftwire.TType, depth int) error {
	if depth > maxSkipDepth {
		return ErrDepthLimitExceeded
	}
	switch typeID {
	case thriftwire.BOOL:
		_, err := r.ReadBool()
		return err
	case thriftwire.BYTE:
		_, err := r.ReadByte()
		return err
	case thriftwire.I16:
		_, err := r.ReadI16()
		return err
	case thriftwire.I32:
		_, err := r.ReadI32()
		return err
	case thriftwire.I64:
		_, err := r.ReadI64()
		return err
	case thriftwire.DOUBLE:
		_, err := r.ReadDouble()
		return err
	case thriftwire.STRING:
		_, err := r.ReadBinary()
		return err
	case thriftwire.STRUCT:
		if _, err := r.ReadStructBegin(); err != nil {
			return err
		}
		for {
			_, ft, _, err := r.ReadFieldBegin()
			if err != nil {
				return err
			}
			if ft == thriftwire.STOP {
				break
			}
			if err := skip(r, ft, depth+1); err != nil {
				return err
			}
			if err := r.ReadFieldEnd(); err != nil {
				return err
			}
		}
		return r.ReadStructEnd()
	case thriftwire.MAP:
		keyType, valType, size, err := r.ReadMapBegin()
		if err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			if err := skip(r, keyType, depth+1); err != nil {
				return err
			}
			if err := skip(r, valType, depth+1); err != nil {
				return err
			}
		}
		return r.ReadMapEnd()
	case thriftwire.SET:
		elemType, size, err := r.ReadSetBegin()
		if err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			if err := skip(r, elemType, depth+1); err != nil {
				return err
			}
		}
		return r.ReadSetEnd()
	case thriftwire.LIST:
		elemType, size, err := r.ReadListBegin()
		if err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			if err := skip(r, elemType, depth+1); err != nil {
				return err
			}
		}
		return r.ReadListEnd()
	default:
		return fmt.Errorf("thriftprotocol: cannot skip unknown ttype %v", typeID)
	}
}

// Skip recursively discards one well-formed value of the given wire type
// read from r. It is exported so codecs outside this package (the struct
// codec engine) can use the exact same skip logic protocol implementations
// use internally.
func Skip(r Reader, typeID thriftwire.TType) error {
	return skip(r, typeID, 0)
}
