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

package thriftmeta

// MethodMetadata describes one service method: the synthetic `_args` and
// `_result` structs every Thrift method is framed as on the wire, plus
// enough information for the dispatcher to route a declared exception
// back to the field id the IDL assigned it.
type MethodMetadata struct {
	Name    string
	Oneway  bool

	// Args is the `<Method>_args` struct: one field per method parameter,
	// all required from the codec engine's point of view (the RPC layer
	// treats a missing argument as a caller bug, not an optional field).
	Args *StructMetadata

	// Result is the `<Method>_result` struct. Field 0 (if present) is the
	// success return value; every other field is a declared exception.
	// Result is nil for oneway methods, which have no result envelope.
	Result *StructMetadata

	// Void reports whether field 0 of Result carries no value (the
	// method returns nothing on success). A void method still returns an
	// empty _result struct so declared exceptions can still be reported.
	Void bool
}

// SuccessField returns the Result struct's field 0 descriptor, or false if
// the method is void or oneway.
func (m *MethodMetadata) SuccessField() (*FieldMetadata, bool) {
	if m.Result == nil || m.Void {
		return nil, false
	}
	return m.Result.Field(0)
}

// ExceptionField looks up a declared-exception field (id 1+) on the Result
// struct by field id. It returns false for a method with no Result
// (oneway). The dispatcher does not use it: it routes declared exceptions
// by field name through Result.ByName.
func (m *MethodMetadata) ExceptionField(id int16) (*FieldMetadata, bool) {
	if m.Result == nil {
		return nil, false
	}
	return m.Result.Field(id)
}
