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

// Package thriftconfig resolves the protocol and framing names spec.md
// §4.1/§6 call out ("binary"/"compact", "framed"/"unframed"/"buffered")
// to concrete implementations, the way yarpcconfig resolves a transport
// name from YAML to a constructed transport. Nothing here parses YAML or
// any other config format — spec.md's scope stops at the name, so this
// package is just the lookup table and the construction it gates.
package thriftconfig

import (
	"strings"

	"go.uber.org/thriftcore/framing"
	"go.uber.org/thriftcore/thrifterrors"
	"go.uber.org/thriftcore/thriftprotocol"
)

// Protocol name constants, matching spec.md §4.1.
const (
	Binary  = "binary"
	Compact = "compact"
)

// Framing mode name constants, matching spec.md §6. Buffered is an
// alias for Unframed: both name the same raw, non-length-prefixed mode.
const (
	Framed   = "framed"
	Unframed = "unframed"
	Buffered = "buffered"
)

// Conn is the byte-buffer sink/source a resolved protocol reads from and
// writes to — the same single-connection reader/writer pair
// thriftprotocol.NewBinaryProtocol and NewCompactProtocol expect for
// both halves, since the wire is full duplex over one stream.
type Conn interface {
	Read(p []byte) (int, error)
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
	WriteByte(byte) error
}

// NewProtocol resolves name to a Protocol bound to conn. An unrecognized
// name is a MetadataError, since this is a configuration mistake rather
// than something discoverable from the wire itself.
func NewProtocol(name string, conn Conn) (thriftprotocol.Protocol, error) {
	switch strings.ToLower(name) {
	case Binary:
		return thriftprotocol.NewBinaryProtocol(conn, conn), nil
	case Compact:
		return thriftprotocol.NewCompactProtocol(conn, conn), nil
	default:
		return nil, thrifterrors.Metadataf("thriftconfig: unknown protocol %q, want %q or %q", name, Binary, Compact)
	}
}

// NewFraming resolves name to a framing.Transport wrapping conn.
func NewFraming(name string, conn framing.Conn) (framing.Transport, error) {
	switch strings.ToLower(name) {
	case Framed:
		return framing.NewFramed(conn), nil
	case Unframed, Buffered:
		return framing.NewUnframed(conn), nil
	default:
		return nil, thrifterrors.Metadataf("thriftconfig: unknown framing mode %q, want %q, %q, or %q", name, Framed, Unframed, Buffered)
	}
}

// New resolves both a framing mode and a protocol over conn in one call,
// the combination a client or server actually needs to start exchanging
// messages: framingName picks the byte shape, protocolName picks the
// encoding on top of it.
func New(protocolName, framingName string, conn framing.Conn) (thriftprotocol.Protocol, framing.Transport, error) {
	transport, err := NewFraming(framingName, conn)
	if err != nil {
		return nil, nil, err
	}
	proto, err := NewProtocol(protocolName, transport)
	if err != nil {
		return nil, nil, err
	}
	return proto, transport, nil
}
