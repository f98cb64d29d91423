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

// Package thriftcodec turns a thriftmeta.ThriftType tree into read/write
// behavior against a thriftprotocol.Protocol: a small set of built-in
// codecs for scalars and containers, composed recursively, plus a single
// generic struct codec that every struct, union, and exception descriptor
// shares — there is exactly one struct read/write algorithm in this
// package, driven entirely by the field table, never one generated per
// struct shape.
package thriftcodec

import (
	"go.uber.org/thriftcore/thriftmeta"
	"go.uber.org/thriftcore/thriftprotocol"
)

// Codec reads and writes Go values of one ThriftType.
type Codec interface {
	Write(w thriftprotocol.Writer, value interface{}) error
	Read(r thriftprotocol.Reader) (interface{}, error)
}

// CodecFor returns the Codec that reads and writes values of t. Struct
// codecs are identical for every struct (the behavior lives in
// structCodec, parameterized only by t.Struct); list/set/map codecs wrap
// whatever CodecFor returns for their element type(s), so the recursion
// bottoms out at the primitive codecs.
func CodecFor(t *thriftmeta.ThriftType) Codec {
	switch t.Kind {
	case thriftmeta.KindPrimitive:
		// thriftmeta.BinaryType and thriftmeta.StringType both carry
		// TType STRING; binary is distinguished by identity since the
		// wire encoding is identical and only the Go-facing value type
		// (string vs []byte) differs.
		if t == thriftmeta.BinaryType {
			return binaryCodec{}
		}
		return primitiveCodecs[t.Primitive]
	case thriftmeta.KindEnum:
		return enumCodec{meta: t.Enum}
	case thriftmeta.KindStruct:
		return structCodec{meta: t.Struct}
	case thriftmeta.KindList:
		return listCodec{elem: t.Elem}
	case thriftmeta.KindSet:
		return setCodec{elem: t.Elem}
	case thriftmeta.KindMap:
		return mapCodec{key: t.Key, value: t.Value}
	default:
		return voidCodec{}
	}
}
