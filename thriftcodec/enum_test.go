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

package thriftcodec_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/thriftcore/thriftcodec"
	"go.uber.org/thriftcore/thriftmeta"
	"go.uber.org/thriftcore/thriftprotocol"
)

func writeRawI32(t *testing.T, v int32) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	proto := thriftprotocol.NewBinaryProtocol(&buf, &buf)
	require.NoError(t, proto.WriteI32(v))
	return &buf
}

func TestEnumCodecExplicitRejectsUndeclaredValue(t *testing.T) {
	enum := &thriftmeta.EnumMetadata{
		Name:     "Color",
		Explicit: true,
		ByNumber: map[int32]string{0: "RED", 1: "GREEN"},
		ByName:   map[string]int32{"RED": 0, "GREEN": 1},
	}
	codec := thriftcodec.CodecFor(thriftmeta.EnumTypeOf(enum))

	buf := writeRawI32(t, 1)
	proto := thriftprotocol.NewBinaryProtocol(buf, buf)
	v, err := codec.Read(proto)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)

	buf = writeRawI32(t, 99)
	proto = thriftprotocol.NewBinaryProtocol(buf, buf)
	_, err = codec.Read(proto)
	assert.Error(t, err)
}

func TestEnumCodecImplicitAcceptsAnyOrdinalInRange(t *testing.T) {
	enum := &thriftmeta.EnumMetadata{
		Name:     "Color",
		ByNumber: map[int32]string{0: "RED", 1: "GREEN"},
		ByName:   map[string]int32{"RED": 0, "GREEN": 1},
	}
	codec := thriftcodec.CodecFor(thriftmeta.EnumTypeOf(enum))

	buf := writeRawI32(t, 1)
	proto := thriftprotocol.NewBinaryProtocol(buf, buf)
	v, err := codec.Read(proto)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)
}

func TestEnumCodecImplicitRejectsOutOfRangeOrdinal(t *testing.T) {
	enum := &thriftmeta.EnumMetadata{
		Name:     "Color",
		ByNumber: map[int32]string{0: "RED", 1: "GREEN"},
		ByName:   map[string]int32{"RED": 0, "GREEN": 1},
	}
	codec := thriftcodec.CodecFor(thriftmeta.EnumTypeOf(enum))

	buf := writeRawI32(t, 2)
	proto := thriftprotocol.NewBinaryProtocol(buf, buf)
	_, err := codec.Read(proto)
	assert.Error(t, err)

	buf = writeRawI32(t, -1)
	proto = thriftprotocol.NewBinaryProtocol(buf, buf)
	_, err = codec.Read(proto)
	assert.Error(t, err)
}

func TestEnumCodecWriteRejectsNonInt32(t *testing.T) {
	enum := &thriftmeta.EnumMetadata{Name: "Color", ByNumber: map[int32]string{0: "RED"}}
	codec := thriftcodec.CodecFor(thriftmeta.EnumTypeOf(enum))

	var buf bytes.Buffer
	proto := thriftprotocol.NewBinaryProtocol(&buf, &buf)
	err := codec.Write(proto, "RED")
	assert.Error(t, err)
}
