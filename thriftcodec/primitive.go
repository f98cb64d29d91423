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

package thriftcodec

import (
	"go.uber.org/thriftcore/thrifterrors"
	"go.uber.org/thriftcore/thriftprotocol"
	"go.uber.org/thriftcore/thriftwire"
)

type boolCodec struct{}

func (boolCodec) Write(w thriftprotocol.Writer, value interface{}) error {
	v, ok := value.(bool)
	if !ok {
		return thrifterrors.Protocolf("expected bool, got %T", value)
	}
	return w.WriteBool(v)
}

func (boolCodec) Read(r thriftprotocol.Reader) (interface{}, error) { return r.ReadBool() }

type byteCodec struct{}

func (byteCodec) Write(w thriftprotocol.Writer, value interface{}) error {
	v, ok := value.(int8)
	if !ok {
		return thrifterrors.Protocolf("expected int8, got %T", value)
	}
	return w.WriteByte(v)
}

func (byteCodec) Read(r thriftprotocol.Reader) (interface{}, error) { return r.ReadByte() }

type i16Codec struct{}

func (i16Codec) Write(w thriftprotocol.Writer, value interface{}) error {
	v, ok := value.(int16)
	if !ok {
		return thrifterrors.Protocolf("expected int16, got %T", value)
	}
	return w.WriteI16(v)
}

func (i16Codec) Read(r thriftprotocol.Reader) (interface{}, error) { return r.ReadI16() }

type i32Codec struct{}

func (i32Codec) Write(w thriftprotocol.Writer, value interface{}) error {
	v, ok := value.(int32)
	if !ok {
		return thrifterrors.Protocolf("expected int32, got %T", value)
	}
	return w.WriteI32(v)
}

func (i32Codec) Read(r thriftprotocol.Reader) (interface{}, error) { return r.ReadI32() }

type i64Codec struct{}

func (i64Codec) Write(w thriftprotocol.Writer, value interface{}) error {
	v, ok := value.(int64)
	if !ok {
		return thrifterrors.Protocolf("expected int64, got %T", value)
	}
	return w.WriteI64(v)
}

func (i64Codec) Read(r thriftprotocol.Reader) (interface{}, error) { return r.ReadI64() }

type doubleCodec struct{}

func (doubleCodec) Write(w thriftprotocol.Writer, value interface{}) error {
	v, ok := value.(float64)
	if !ok {
		return thrifterrors.Protocolf("expected float64, got %T", value)
	}
	return w.WriteDouble(v)
}

func (doubleCodec) Read(r thriftprotocol.Reader) (interface{}, error) { return r.ReadDouble() }

type stringCodec struct{}

func (stringCodec) Write(w thriftprotocol.Writer, value interface{}) error {
	switch v := value.(type) {
	case string:
		return w.WriteString(v)
	case []byte:
		return w.WriteBinary(v)
	default:
		return thrifterrors.Protocolf("expected string or []byte, got %T", value)
	}
}

func (stringCodec) Read(r thriftprotocol.Reader) (interface{}, error) { return r.ReadString() }

type binaryCodec struct{}

func (binaryCodec) Write(w thriftprotocol.Writer, value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return w.WriteBinary(v)
	case string:
		return w.WriteBinary([]byte(v))
	default:
		return thrifterrors.Protocolf("expected []byte or string, got %T", value)
	}
}

func (binaryCodec) Read(r thriftprotocol.Reader) (interface{}, error) { return r.ReadBinary() }

type voidCodec struct{}

func (voidCodec) Write(thriftprotocol.Writer, interface{}) error { return nil }
func (voidCodec) Read(thriftprotocol.Reader) (interface{}, error) { return nil, nil }

// primitiveCodecs is keyed by thriftwire.TType. STRING is ambiguous
// between string and binary on the wire; thriftmeta.StringType and
// thriftmeta.BinaryType share TType STRING but are registered to
// different Go-facing codecs via their ThriftType identity, not the
// TType tag, by CodecFor checking the actual *ThriftType pointer first.
var primitiveCodecs = map[thriftwire.TType]Codec{
	thriftwire.BOOL:   boolCodec{},
	thriftwire.BYTE:   byteCodec{},
	thriftwire.I16:    i16Codec{},
	thriftwire.I32:    i32Codec{},
	thriftwire.I64:    i64Codec{},
	thriftwire.DOUBLE: doubleCodec{},
	thriftwire.STRING: stringCodec{},
}
