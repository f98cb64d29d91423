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

package thriftdispatch

import (
	"go.uber.org/thriftcore/thrifterrors"
	"go.uber.org/thriftcore/thriftprotocol"
	"go.uber.org/thriftcore/thriftwire"
)

// applicationException is the wire shape of Thrift's TApplicationException:
// a fixed, schema-less struct (message string field 1, type i32 field 2)
// every Thrift implementation recognizes without IDL. It is written and
// read directly against thriftprotocol, never through thriftcodec/thriftmeta,
// because there is exactly one shape of it and no registration to look up.
type applicationException struct {
	Message string
	Type    thrifterrors.ApplicationTypeReason
}

func writeApplicationException(w thriftprotocol.Writer, exc applicationException) error {
	if err := w.WriteStructBegin("TApplicationException"); err != nil {
		return err
	}
	if exc.Message != "" {
		if err := w.WriteFieldBegin("message", thriftwire.STRING, 1); err != nil {
			return err
		}
		if err := w.WriteString(exc.Message); err != nil {
			return err
		}
		if err := w.WriteFieldEnd(); err != nil {
			return err
		}
	}
	if err := w.WriteFieldBegin("type", thriftwire.I32, 2); err != nil {
		return err
	}
	if err := w.WriteI32(int32(exc.Type)); err != nil {
		return err
	}
	if err := w.WriteFieldEnd(); err != nil {
		return err
	}
	if err := w.WriteFieldStop(); err != nil {
		return err
	}
	return w.WriteStructEnd()
}

func readApplicationException(r thriftprotocol.Reader) (applicationException, error) {
	var exc applicationException
	if _, err := r.ReadStructBegin(); err != nil {
		return exc, err
	}
	for {
		_, wireType, id, err := r.ReadFieldBegin()
		if err != nil {
			return exc, err
		}
		if wireType == thriftwire.STOP {
			break
		}
		switch {
		case id == 1 && wireType == thriftwire.STRING:
			if exc.Message, err = r.ReadString(); err != nil {
				return exc, err
			}
		case id == 2 && wireType == thriftwire.I32:
			typeID, err := r.ReadI32()
			if err != nil {
				return exc, err
			}
			exc.Type = thrifterrors.ApplicationTypeReason(typeID)
		default:
			if err := r.Skip(wireType); err != nil {
				return exc, err
			}
		}
		if err := r.ReadFieldEnd(); err != nil {
			return exc, err
		}
	}
	if err := r.ReadStructEnd(); err != nil {
		return exc, err
	}
	return exc, nil
}
