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

// EnumMetadata describes a Thrift enum: its wire representation is always
// I32, but named values round-trip through this descriptor for
// diagnostics, for any adapter that needs the string name, and to decide
// how strict decoding should be about values the IDL never declared.
//
// Explicit distinguishes an enum whose IDL assigns every value a name
// (closed: any number outside ByNumber is a decode error) from one whose
// values are the dense, auto-numbered 0..N-1 sequence Thrift emits when no
// name is given for a particular ordinal (open only up to that count: a
// negative number or one at or past len(ByNumber) is still a decode
// error, but everything in range is accepted even if some adapter hasn't
// bothered to look up its name).
type EnumMetadata struct {
	Name     string
	Explicit bool
	ByNumber map[int32]string
	ByName   map[string]int32
}

// NameOf returns the declared name for a number, or false if the number is
// not one of the enum's declared values.
func (e *EnumMetadata) NameOf(number int32) (string, bool) {
	name, ok := e.ByNumber[number]
	return name, ok
}

// NumberOf returns the declared number for a name.
func (e *EnumMetadata) NumberOf(name string) (int32, bool) {
	number, ok := e.ByName[name]
	return number, ok
}
