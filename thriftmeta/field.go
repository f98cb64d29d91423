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

// Requiredness controls how the struct codec engine treats a field that is
// absent on write or missing on read.
type Requiredness int

const (
	// Default fields are optional to write (omitted when unset) and
	// optional to read (absence is not an error).
	Default Requiredness = iota
	// Optional is identical to Default; kept distinct because the two
	// requiredness levels mean different things in a generated struct's
	// isset tracking even though the wire behavior is the same.
	Optional
	// Required fields must be present on write; their absence on read is
	// a validation error raised once the struct has been fully read.
	Required
)

func (r Requiredness) String() string {
	switch r {
	case Optional:
		return "optional"
	case Required:
		return "required"
	default:
		return "default"
	}
}

// FieldKind distinguishes an ordinary Thrift field from the synthetic
// discriminator field every union descriptor carries.
type FieldKind int

const (
	// ThriftField is a normal, wire-visible struct field.
	ThriftField FieldKind = iota
	// ThriftUnionID is the synthetic pseudo-field (id thriftwire.UnionIDFieldID)
	// that marks a union's discriminator. It is never itself written to
	// the wire, and the codec engine neither writes nor populates it:
	// StructMetadata.OrderedFields leaves it out, so nothing records which
	// field of a union is set.
	ThriftUnionID
)

// FieldMetadata describes one field of a struct, union, or exception, and
// the Go-level accessors the codec engine uses to move values between the
// wire and a concrete Go struct instance.
//
// Extract reads the field's value out of a live instance; ok is false
// when the field has no value set. Inject stores a decoded value into the
// accumulator returned by StructMetadata.NewBuilder, which
// StructMetadata.Build turns into the final instance.
type FieldMetadata struct {
	ID           int16
	Name         string
	Type         *ThriftType
	Requiredness Requiredness
	Kind         FieldKind

	// Extract pulls this field's value out of a fully built Go instance.
	// ok is false when the field is optional and currently unset.
	Extract func(instance interface{}) (value interface{}, ok bool)

	// Inject stores a decoded value into the in-progress builder state
	// passed to StructMetadata.Build.
	Inject func(builder interface{}, value interface{})

	// Coerce adapts a decoded wire value (e.g. int32) to the Go field's
	// declared type (e.g. a named enum type) before Inject is called.
	// Nil means no coercion is needed.
	Coerce func(wireValue interface{}) interface{}

	// Uncoerce is the write-side inverse of Coerce: it adapts a Go field
	// value to the representation the codec registry knows how to write
	// (e.g. unwrapping a named enum type back to int32). Nil means no
	// uncoercion is needed.
	Uncoerce func(fieldValue interface{}) interface{}
}

// IsRequired reports whether the field must be present when writing and
// must be validated present after reading.
func (f *FieldMetadata) IsRequired() bool { return f.Requiredness == Required }
