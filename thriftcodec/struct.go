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
	"strings"

	"go.uber.org/thriftcore/thrifterrors"
	"go.uber.org/thriftcore/thriftmeta"
	"go.uber.org/thriftcore/thriftprotocol"
	"go.uber.org/thriftcore/thriftwire"
)

// structCodec is the one generic struct read/write algorithm every
// struct, union, and exception descriptor shares. There is no per-struct
// generated code here: everything it needs to know about a shape comes
// out of meta at call time.
type structCodec struct {
	meta *thriftmeta.StructMetadata
}

func (c structCodec) Write(w thriftprotocol.Writer, value interface{}) error {
	if c.meta == nil {
		return thrifterrors.Metadataf("structCodec.Write called with an unresolved struct type")
	}
	if err := w.WriteStructBegin(c.meta.Name); err != nil {
		return err
	}

	setCount := 0
	for _, field := range c.meta.OrderedFields() {
		fieldValue, ok := field.Extract(value)
		if !ok {
			if field.IsRequired() {
				return thrifterrors.Protocolf("%s %s: required field %q not set", c.meta.Category, c.meta.Name, field.Name)
			}
			continue
		}
		setCount++

		if field.Uncoerce != nil {
			fieldValue = field.Uncoerce(fieldValue)
		}
		if err := w.WriteFieldBegin(field.Name, field.Type.TType(), field.ID); err != nil {
			return err
		}
		if err := CodecFor(field.Type).Write(w, fieldValue); err != nil {
			return thrifterrors.WrapProtocol(err, "%s %s: field %q", c.meta.Category, c.meta.Name, field.Name)
		}
		if err := w.WriteFieldEnd(); err != nil {
			return err
		}
	}

	if c.meta.Category == thriftmeta.CategoryUnion && setCount != 1 {
		return thrifterrors.Protocolf("union %s: exactly one field must be set, got %d", c.meta.Name, setCount)
	}

	if err := w.WriteFieldStop(); err != nil {
		return err
	}
	return w.WriteStructEnd()
}

func (c structCodec) Read(r thriftprotocol.Reader) (interface{}, error) {
	if c.meta == nil {
		return nil, thrifterrors.Metadataf("structCodec.Read called with an unresolved struct type")
	}
	if _, err := r.ReadStructBegin(); err != nil {
		return nil, err
	}

	builder := c.meta.NewBuilder()
	present := make(map[int16]bool)

	for {
		_, wireType, id, err := r.ReadFieldBegin()
		if err != nil {
			return nil, err
		}
		if wireType == thriftwire.STOP {
			break
		}

		field, ok := c.meta.Field(id)
		if !ok || field.Type.TType() != wireType {
			if err := r.Skip(wireType); err != nil {
				return nil, thrifterrors.WrapProtocol(err, "%s %s: skipping unrecognized field %d", c.meta.Category, c.meta.Name, id)
			}
		} else {
			fieldValue, err := CodecFor(field.Type).Read(r)
			if err != nil {
				return nil, thrifterrors.WrapProtocol(err, "%s %s: field %q", c.meta.Category, c.meta.Name, field.Name)
			}
			if field.Coerce != nil {
				fieldValue = field.Coerce(fieldValue)
			}
			field.Inject(builder, fieldValue)
			present[id] = true
		}

		if err := r.ReadFieldEnd(); err != nil {
			return nil, err
		}
	}

	if err := r.ReadStructEnd(); err != nil {
		return nil, err
	}

	if missing := missingRequiredFields(c.meta, present); len(missing) > 0 {
		return nil, thrifterrors.Protocolf("%s %s: missing required field(s): %s", c.meta.Category, c.meta.Name, strings.Join(missing, ", "))
	}

	if c.meta.Category == thriftmeta.CategoryUnion && len(present) != 1 {
		return nil, thrifterrors.Protocolf("union %s: exactly one field must be set, got %d", c.meta.Name, len(present))
	}

	return c.meta.Build(builder)
}

func missingRequiredFields(meta *thriftmeta.StructMetadata, present map[int16]bool) []string {
	var missing []string
	for _, field := range meta.OrderedFields() {
		if field.IsRequired() && !present[field.ID] {
			missing = append(missing, field.Name)
		}
	}
	return missing
}
