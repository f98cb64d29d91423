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

// Package thriftmeta describes Thrift types and struct shapes without any
// runtime reflection or annotation scanning: every descriptor in this
// package is produced once, ahead of time, by whatever adapter sits above
// the codec (generated code or a hand-written registration call) and is
// then looked up by the codec engine at call time.
package thriftmeta

import (
	"fmt"

	"go.uber.org/thriftcore/thriftwire"
)

// Kind discriminates the tagged union held by a ThriftType.
type Kind int

const (
	// KindPrimitive covers bool/byte/i16/i32/i64/double/string/binary.
	KindPrimitive Kind = iota
	KindEnum
	KindStruct
	KindList
	KindSet
	KindMap
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindVoid:
		return "void"
	default:
		return "unknown"
	}
}

// ThriftType is a tagged union describing the shape of a Thrift value:
// a scalar TType, a reference to an enum or struct descriptor (resolved
// lazily so mutually recursive structs can be described), or a
// parameterized list/set/map.
//
// A ThriftType is built by the constructors below or by
// Catalog.StructType and is safe to share across goroutines after that;
// nothing in this package mutates one once built.
type ThriftType struct {
	Kind Kind

	// Primitive is meaningful only when Kind == KindPrimitive. It holds
	// the TType wire tag (BOOL, BYTE, I16, I32, I64, DOUBLE, STRING).
	Primitive thriftwire.TType

	// Struct is meaningful only when Kind == KindStruct. During catalog
	// construction of a cyclic struct graph it points at the
	// StructMetadata that is still being registered (see
	// Catalog.StructType), whose fields are complete once FinishStruct
	// returns.
	Struct *StructMetadata

	// Enum is meaningful only when Kind == KindEnum.
	Enum *EnumMetadata

	// Elem is meaningful only when Kind == KindList or KindSet.
	Elem *ThriftType

	// Key and Value are meaningful only when Kind == KindMap.
	Key   *ThriftType
	Value *ThriftType
}

// TType returns the wire-level type tag this ThriftType serializes as.
func (t *ThriftType) TType() thriftwire.TType {
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive
	case KindEnum:
		return thriftwire.I32
	case KindStruct:
		return thriftwire.STRUCT
	case KindList:
		return thriftwire.LIST
	case KindSet:
		return thriftwire.SET
	case KindMap:
		return thriftwire.MAP
	case KindVoid:
		return thriftwire.VOID
	default:
		return thriftwire.STOP
	}
}

func (t *ThriftType) String() string {
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive.String()
	case KindEnum:
		if t.Enum != nil {
			return "enum " + t.Enum.Name
		}
		return "enum <building>"
	case KindStruct:
		if t.Struct != nil {
			return "struct " + t.Struct.Name
		}
		return "struct <building>"
	case KindList:
		return fmt.Sprintf("list<%s>", t.Elem)
	case KindSet:
		return fmt.Sprintf("set<%s>", t.Elem)
	case KindMap:
		return fmt.Sprintf("map<%s,%s>", t.Key, t.Value)
	default:
		return "void"
	}
}

// Primitive type constructors. These are shared, immutable values; callers
// never need their own copies.
var (
	BoolType   = &ThriftType{Kind: KindPrimitive, Primitive: thriftwire.BOOL}
	ByteType   = &ThriftType{Kind: KindPrimitive, Primitive: thriftwire.BYTE}
	I16Type    = &ThriftType{Kind: KindPrimitive, Primitive: thriftwire.I16}
	I32Type    = &ThriftType{Kind: KindPrimitive, Primitive: thriftwire.I32}
	I64Type    = &ThriftType{Kind: KindPrimitive, Primitive: thriftwire.I64}
	DoubleType = &ThriftType{Kind: KindPrimitive, Primitive: thriftwire.DOUBLE}
	StringType = &ThriftType{Kind: KindPrimitive, Primitive: thriftwire.STRING}
	BinaryType = &ThriftType{Kind: KindPrimitive, Primitive: thriftwire.STRING}
	VoidType   = &ThriftType{Kind: KindVoid}
)

// ListOf builds a ThriftType describing a list of elem.
func ListOf(elem *ThriftType) *ThriftType { return &ThriftType{Kind: KindList, Elem: elem} }

// SetOf builds a ThriftType describing a set of elem.
func SetOf(elem *ThriftType) *ThriftType { return &ThriftType{Kind: KindSet, Elem: elem} }

// MapOf builds a ThriftType describing a map from key to value.
func MapOf(key, value *ThriftType) *ThriftType {
	return &ThriftType{Kind: KindMap, Key: key, Value: value}
}

// StructTypeOf builds a ThriftType that refers to an already-built struct
// descriptor. Use Catalog.StructType during catalog construction when the
// descriptor is still being built.
func StructTypeOf(s *StructMetadata) *ThriftType { return &ThriftType{Kind: KindStruct, Struct: s} }

// EnumTypeOf builds a ThriftType that refers to an enum descriptor.
func EnumTypeOf(e *EnumMetadata) *ThriftType { return &ThriftType{Kind: KindEnum, Enum: e} }
