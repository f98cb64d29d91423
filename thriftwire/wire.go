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

// Package thriftwire defines the byte-level constants of the Thrift wire
// format: TType tags, message types, and the field-id sentinel used for
// union discriminators. Nothing in this package touches a transport or a
// struct descriptor; it is the vocabulary every other package in this
// module shares.
package thriftwire

// TType identifies the wire representation of a Thrift value. The numeric
// values match the Apache Thrift wire protocol exactly; protocol
// implementations must not renumber them.
type TType byte

const (
	STOP   TType = 0
	VOID   TType = 1
	BOOL   TType = 2
	BYTE   TType = 3
	I08    TType = 3
	DOUBLE TType = 4
	I16    TType = 6
	I32    TType = 8
	I64    TType = 10
	STRING TType = 11
	STRUCT TType = 12
	MAP    TType = 13
	SET    TType = 14
	LIST   TType = 15
)

func (t TType) String() string {
	switch t {
	case STOP:
		return "STOP"
	case VOID:
		return "VOID"
	case BOOL:
		return "BOOL"
	case BYTE:
		return "BYTE"
	case DOUBLE:
		return "DOUBLE"
	case I16:
		return "I16"
	case I32:
		return "I32"
	case I64:
		return "I64"
	case STRING:
		return "STRING"
	case STRUCT:
		return "STRUCT"
	case MAP:
		return "MAP"
	case SET:
		return "SET"
	case LIST:
		return "LIST"
	default:
		return "UNKNOWN"
	}
}

// MessageType identifies the kind of RPC message carried by a message
// envelope.
type MessageType byte

const (
	// CALL is a request expecting a reply.
	CALL MessageType = 1
	// REPLY is a successful or exception response to a CALL.
	REPLY MessageType = 2
	// EXCEPTION carries a TApplicationException in place of a REPLY.
	EXCEPTION MessageType = 3
	// ONEWAY is a request that has no reply.
	ONEWAY MessageType = 4
)

func (m MessageType) String() string {
	switch m {
	case CALL:
		return "CALL"
	case REPLY:
		return "REPLY"
	case EXCEPTION:
		return "EXCEPTION"
	case ONEWAY:
		return "ONEWAY"
	default:
		return "UNKNOWN"
	}
}

// UnionIDFieldID is the sentinel field id reserved for a union's
// discriminator pseudo-field (FieldMetadata.Kind == thriftmeta.ThriftUnionID). It is
// chosen to be outside the range of any legal field id so it can never
// collide with a user-declared field.
const UnionIDFieldID int16 = -1 << 15
