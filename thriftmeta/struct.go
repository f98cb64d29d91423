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

import "fmt"

// Category distinguishes the three struct-like shapes Thrift IDL produces.
type Category int

const (
	CategoryStruct Category = iota
	CategoryUnion
	CategoryException
)

func (c Category) String() string {
	switch c {
	case CategoryUnion:
		return "union"
	case CategoryException:
		return "exception"
	default:
		return "struct"
	}
}

// StructMetadata describes one Thrift struct, union, or exception: its
// fields keyed by wire id, and the Go-level construction plan the codec
// engine uses to turn a fully-read field set into a live instance.
type StructMetadata struct {
	Name     string
	Category Category

	// ByID and ByName both point at the same FieldMetadata values; ByID
	// drives the read path (dispatch on wire field id) and ByName exists
	// for diagnostics and for callers that build requests by name.
	ByID   map[int16]*FieldMetadata
	ByName map[string]*FieldMetadata

	// NewBuilder returns an opaque, struct-shaped accumulator that Inject
	// populates field by field while reading. Build then turns the
	// accumulator into the final Go value once every field has been read
	// and required fields have been validated present.
	NewBuilder func() interface{}
	Build      func(builder interface{}) (interface{}, error)
}

// OrderedFields returns the struct's real (non-union-id) fields in
// ascending field-id order, the order the write path walks them in.
func (s *StructMetadata) OrderedFields() []*FieldMetadata {
	fields := make([]*FieldMetadata, 0, len(s.ByID))
	for _, f := range s.ByID {
		if f.Kind == ThriftUnionID {
			continue
		}
		fields = append(fields, f)
	}
	// Insertion sort: struct field counts are small (single digits to low
	// tens), and this keeps the dependency list free of a sort import
	// sharing semantics we'd otherwise have to document.
	for i := 1; i < len(fields); i++ {
		for j := i; j > 0 && fields[j].ID < fields[j-1].ID; j-- {
			fields[j], fields[j-1] = fields[j-1], fields[j]
		}
	}
	return fields
}

// Field looks up a field descriptor by wire id.
func (s *StructMetadata) Field(id int16) (*FieldMetadata, bool) {
	f, ok := s.ByID[id]
	return f, ok
}

// RequiredFieldNames returns the names of every Required field, used by
// the codec engine to build a validation error message that names every
// field missing from the wire, not just the first one found.
func (s *StructMetadata) RequiredFieldNames() []string {
	var names []string
	for _, f := range s.OrderedFields() {
		if f.IsRequired() {
			names = append(names, f.Name)
		}
	}
	return names
}

func (s *StructMetadata) String() string {
	return fmt.Sprintf("%s %s", s.Category, s.Name)
}
