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
	"reflect"

	"go.uber.org/thriftcore/thrifterrors"
	"go.uber.org/thriftcore/thriftmeta"
	"go.uber.org/thriftcore/thriftprotocol"
)

// listCodec reads and writes a []interface{} (or, on write, anything
// reflect can range over as a slice) as a Thrift list, delegating each
// element to the element type's Codec.
type listCodec struct {
	elem *thriftmeta.ThriftType
}

func (c listCodec) Write(w thriftprotocol.Writer, value interface{}) error {
	rv, err := sliceValue(value)
	if err != nil {
		return err
	}
	elemCodec := CodecFor(c.elem)
	if err := w.WriteListBegin(c.elem.TType(), rv.Len()); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := elemCodec.Write(w, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return w.WriteListEnd()
}

func (c listCodec) Read(r thriftprotocol.Reader) (interface{}, error) {
	_, size, err := r.ReadListBegin()
	if err != nil {
		return nil, err
	}
	elemCodec := CodecFor(c.elem)
	values := make([]interface{}, 0, size)
	for i := 0; i < size; i++ {
		v, err := elemCodec.Read(r)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := r.ReadListEnd(); err != nil {
		return nil, err
	}
	return values, nil
}

// setCodec is identical to listCodec on the wire; Thrift sets and lists
// share framing, differing only in the TType tag used for the begin
// marker and in how a language binding chooses to represent membership.
// This codec represents a set the same way it represents a list: callers
// needing deduplication do so in FieldMetadata.Coerce/Uncoerce.
type setCodec struct {
	elem *thriftmeta.ThriftType
}

func (c setCodec) Write(w thriftprotocol.Writer, value interface{}) error {
	rv, err := sliceValue(value)
	if err != nil {
		return err
	}
	elemCodec := CodecFor(c.elem)
	if err := w.WriteSetBegin(c.elem.TType(), rv.Len()); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := elemCodec.Write(w, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return w.WriteSetEnd()
}

func (c setCodec) Read(r thriftprotocol.Reader) (interface{}, error) {
	_, size, err := r.ReadSetBegin()
	if err != nil {
		return nil, err
	}
	elemCodec := CodecFor(c.elem)
	values := make([]interface{}, 0, size)
	for i := 0; i < size; i++ {
		v, err := elemCodec.Read(r)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := r.ReadSetEnd(); err != nil {
		return nil, err
	}
	return values, nil
}

// mapCodec reads and writes a map[interface{}]interface{}, delegating
// keys and values to their own element codecs.
type mapCodec struct {
	key   *thriftmeta.ThriftType
	value *thriftmeta.ThriftType
}

func (c mapCodec) Write(w thriftprotocol.Writer, value interface{}) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return thrifterrors.Protocolf("expected map, got %T", value)
	}
	keyCodec := CodecFor(c.key)
	valueCodec := CodecFor(c.value)
	keys := rv.MapKeys()
	if err := w.WriteMapBegin(c.key.TType(), c.value.TType(), len(keys)); err != nil {
		return err
	}
	for _, k := range keys {
		if err := keyCodec.Write(w, k.Interface()); err != nil {
			return err
		}
		if err := valueCodec.Write(w, rv.MapIndex(k).Interface()); err != nil {
			return err
		}
	}
	return w.WriteMapEnd()
}

func (c mapCodec) Read(r thriftprotocol.Reader) (interface{}, error) {
	_, _, size, err := r.ReadMapBegin()
	if err != nil {
		return nil, err
	}
	keyCodec := CodecFor(c.key)
	valueCodec := CodecFor(c.value)
	result := make(map[interface{}]interface{}, size)
	for i := 0; i < size; i++ {
		k, err := keyCodec.Read(r)
		if err != nil {
			return nil, err
		}
		v, err := valueCodec.Read(r)
		if err != nil {
			return nil, err
		}
		result[k] = v
	}
	if err := r.ReadMapEnd(); err != nil {
		return nil, err
	}
	return result, nil
}

func sliceValue(value interface{}) (reflect.Value, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.Value{}, thrifterrors.Protocolf("expected slice or array, got %T", value)
	}
	return rv, nil
}
