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
	"go.uber.org/thriftcore/thriftmeta"
	"go.uber.org/thriftcore/thriftprotocol"
)

// enumCodec reads and writes an enum's wire representation, which is
// always a bare I32 regardless of the declared value's name; the caller's
// FieldMetadata.Coerce/Uncoerce functions handle turning that int32 into
// (and out of) whatever named Go type the enum's adapter declared. meta
// drives how strict Read is about values the IDL never declared; it is
// nil only for ad-hoc callers that bypass CodecFor, in which case Read
// accepts any I32.
type enumCodec struct {
	meta *thriftmeta.EnumMetadata
}

func (enumCodec) Write(w thriftprotocol.Writer, value interface{}) error {
	v, ok := value.(int32)
	if !ok {
		return thrifterrors.Protocolf("expected int32 enum value, got %T", value)
	}
	return w.WriteI32(v)
}

func (c enumCodec) Read(r thriftprotocol.Reader) (interface{}, error) {
	v, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if c.meta == nil {
		return v, nil
	}
	if c.meta.Explicit {
		if _, ok := c.meta.NameOf(v); !ok {
			return nil, thrifterrors.Protocolf("enum %s: %d is not a declared value", c.meta.Name, v)
		}
		return v, nil
	}
	if v < 0 || int(v) >= len(c.meta.ByNumber) {
		return nil, thrifterrors.Protocolf("enum %s: %d is outside the declared ordinal range [0,%d)", c.meta.Name, v, len(c.meta.ByNumber))
	}
	return v, nil
}
