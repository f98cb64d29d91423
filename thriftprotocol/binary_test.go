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

package thriftprotocol_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/thriftcore/thriftprotocol"
	"go.uber.org/thriftcore/thriftwire"
)

func TestBinaryProtocolMessageEnvelopeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := thriftprotocol.NewBinaryProtocol(nil, &buf)
	require.NoError(t, w.WriteMessageBegin("echo", thriftwire.CALL, 42))
	require.NoError(t, w.WriteMessageEnd())

	r := thriftprotocol.NewBinaryProtocol(&buf, nil)
	name, typeID, seqID, err := r.ReadMessageBegin()
	require.NoError(t, err)
	assert.Equal(t, "echo", name)
	assert.Equal(t, thriftwire.CALL, typeID)
	assert.Equal(t, int32(42), seqID)
}

func TestBinaryProtocolFieldRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := thriftprotocol.NewBinaryProtocol(nil, &buf)
	require.NoError(t, w.WriteFieldBegin("name", thriftwire.STRING, 1))
	require.NoError(t, w.WriteString("hello"))
	require.NoError(t, w.WriteFieldEnd())
	require.NoError(t, w.WriteFieldStop())

	r := thriftprotocol.NewBinaryProtocol(&buf, nil)
	_, typeID, id, err := r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, thriftwire.STRING, typeID)
	assert.Equal(t, int16(1), id)

	value, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
	require.NoError(t, r.ReadFieldEnd())

	_, typeID, _, err = r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, thriftwire.STOP, typeID)
}

func TestBinaryProtocolScalarRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := thriftprotocol.NewBinaryProtocol(nil, &buf)
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteByte(-7))
	require.NoError(t, w.WriteI16(-1000))
	require.NoError(t, w.WriteI32(123456))
	require.NoError(t, w.WriteI64(-9000000000))
	require.NoError(t, w.WriteDouble(3.5))
	require.NoError(t, w.WriteBinary([]byte{0xde, 0xad}))

	r := thriftprotocol.NewBinaryProtocol(&buf, nil)
	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	i8, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, int8(-7), i8)

	i16, err := r.ReadI16()
	require.NoError(t, err)
	assert.Equal(t, int16(-1000), i16)

	i32, err := r.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(123456), i32)

	i64, err := r.ReadI64()
	require.NoError(t, err)
	assert.Equal(t, int64(-9000000000), i64)

	d, err := r.ReadDouble()
	require.NoError(t, err)
	assert.Equal(t, 3.5, d)

	bin, err := r.ReadBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, bin)
}

func TestBinaryProtocolListRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := thriftprotocol.NewBinaryProtocol(nil, &buf)
	require.NoError(t, w.WriteListBegin(thriftwire.I32, 2))
	require.NoError(t, w.WriteI32(1))
	require.NoError(t, w.WriteI32(2))
	require.NoError(t, w.WriteListEnd())

	r := thriftprotocol.NewBinaryProtocol(&buf, nil)
	elemType, size, err := r.ReadListBegin()
	require.NoError(t, err)
	assert.Equal(t, thriftwire.I32, elemType)
	assert.Equal(t, 2, size)
}

func TestBinaryProtocolMapRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := thriftprotocol.NewBinaryProtocol(nil, &buf)
	require.NoError(t, w.WriteMapBegin(thriftwire.STRING, thriftwire.I32, 1))

	r := thriftprotocol.NewBinaryProtocol(&buf, nil)
	keyType, valType, size, err := r.ReadMapBegin()
	require.NoError(t, err)
	assert.Equal(t, thriftwire.STRING, keyType)
	assert.Equal(t, thriftwire.I32, valType)
	assert.Equal(t, 1, size)
}

func TestBinaryProtocolRejectsNegativeBinaryLength(t *testing.T) {
	var buf bytes.Buffer
	w := thriftprotocol.NewBinaryProtocol(nil, &buf)
	require.NoError(t, w.WriteI32(-1))

	r := thriftprotocol.NewBinaryProtocol(&buf, nil)
	_, err := r.ReadBinary()
	assert.Error(t, err)
}

func TestBinaryProtocolSkipsUnknownStruct(t *testing.T) {
	var buf bytes.Buffer
	w := thriftprotocol.NewBinaryProtocol(nil, &buf)
	require.NoError(t, w.WriteFieldBegin("", thriftwire.I32, 1))
	require.NoError(t, w.WriteI32(7))
	require.NoError(t, w.WriteFieldEnd())
	require.NoError(t, w.WriteFieldStop())

	r := thriftprotocol.NewBinaryProtocol(&buf, nil)
	_, typeID, _, err := r.ReadFieldBegin()
	require.NoError(t, err)
	require.NoError(t, r.Skip(typeID))

	_, typeID, _, err = r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, thriftwire.STOP, typeID)
}

type flushRecorder struct {
	bytes.Buffer
	flushed bool
}

func (f *flushRecorder) Flush() error {
	f.flushed = true
	return nil
}

func TestBinaryProtocolFlushDelegatesToUnderlyingWriter(t *testing.T) {
	fr := &flushRecorder{}
	w := thriftprotocol.NewBinaryProtocol(nil, fr)
	require.NoError(t, w.Flush())
	assert.True(t, fr.flushed)
}

func TestBinaryProtocolFlushIsNoOpWithoutFlusher(t *testing.T) {
	var buf bytes.Buffer
	w := thriftprotocol.NewBinaryProtocol(nil, &buf)
	assert.NoError(t, w.Flush())
}
