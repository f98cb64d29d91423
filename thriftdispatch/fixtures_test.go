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
	"testing"

	"github.com/stretchr/testify/require"

	"go.uber.org/thriftcore/thriftcodec"
	"go.uber.org/thriftcore/thriftmeta"
	"go.uber.org/thriftcore/thriftprotocol"
	"go.uber.org/thriftcore/thriftwire"
)

// encodeArgs writes a full message envelope (begin, struct, end, flush) for
// value onto proto, the same shape a MethodHandler.Call would produce, so
// MethodProcessor tests can hand it a wire-accurate request without going
// through a MethodHandler.
func encodeArgs(t *testing.T, proto thriftprotocol.Protocol, meta *thriftmeta.MethodMetadata, value interface{}, msgType thriftwire.MessageType, seqID int32) error {
	t.Helper()
	if err := proto.WriteMessageBegin(meta.Name, msgType, seqID); err != nil {
		return err
	}
	if err := thriftcodec.CodecFor(thriftmeta.StructTypeOf(meta.Args)).Write(proto, value); err != nil {
		return err
	}
	if err := proto.WriteMessageEnd(); err != nil {
		return err
	}
	return proto.Flush()
}

// thriftCodecRead reads one struct of the given descriptor off proto using
// the generic struct codec, the same decode path a MethodHandler uses for
// a `_result` struct.
func thriftCodecRead(t *testing.T, proto thriftprotocol.Protocol, meta *thriftmeta.StructMetadata) (interface{}, error) {
	t.Helper()
	return thriftcodec.CodecFor(thriftmeta.StructTypeOf(meta)).Read(proto)
}

// echoArgs/echoResult/echoFailure are the Go shapes for:
//
//	exception EchoFailure { 1: required string reason }
//	struct Echo_args { 1: required string message }
//	struct Echo_result {
//	  0: optional string success
//	  1: optional EchoFailure failure
//	}
type echoArgs struct {
	Message string
}

type echoFailure struct {
	Reason string
}

type echoResult struct {
	Success *string
	Failure *echoFailure
}

func echoFailureMetadata(t *testing.T, catalog *thriftmeta.Catalog) *thriftmeta.StructMetadata {
	t.Helper()
	meta, err := catalog.BeginStruct("EchoFailure", thriftmeta.CategoryException)
	require.NoError(t, err)

	reasonField := &thriftmeta.FieldMetadata{
		ID: 1, Name: "reason", Type: thriftmeta.StringType, Requiredness: thriftmeta.Required,
		Extract: func(i interface{}) (interface{}, bool) { return i.(*echoFailure).Reason, true },
		Inject:  func(b interface{}, v interface{}) { b.(*echoFailure).Reason = v.(string) },
	}
	meta.ByID[1], meta.ByName["reason"] = reasonField, reasonField
	meta.NewBuilder = func() interface{} { return &echoFailure{} }
	meta.Build = func(b interface{}) (interface{}, error) { return b, nil }

	require.NoError(t, catalog.FinishStruct(meta))
	return meta
}

func echoArgsMetadata(t *testing.T, catalog *thriftmeta.Catalog) *thriftmeta.StructMetadata {
	t.Helper()
	meta, err := catalog.BeginStruct("Echo_args", thriftmeta.CategoryStruct)
	require.NoError(t, err)

	messageField := &thriftmeta.FieldMetadata{
		ID: 1, Name: "message", Type: thriftmeta.StringType, Requiredness: thriftmeta.Required,
		Extract: func(i interface{}) (interface{}, bool) { return i.(*echoArgs).Message, true },
		Inject:  func(b interface{}, v interface{}) { b.(*echoArgs).Message = v.(string) },
	}
	meta.ByID[1], meta.ByName["message"] = messageField, messageField
	meta.NewBuilder = func() interface{} { return &echoArgs{} }
	meta.Build = func(b interface{}) (interface{}, error) { return b, nil }

	require.NoError(t, catalog.FinishStruct(meta))
	return meta
}

func echoResultMetadata(t *testing.T, catalog *thriftmeta.Catalog, failure *thriftmeta.StructMetadata) *thriftmeta.StructMetadata {
	t.Helper()
	meta, err := catalog.BeginStruct("Echo_result", thriftmeta.CategoryStruct)
	require.NoError(t, err)

	successField := &thriftmeta.FieldMetadata{
		ID: 0, Name: "success", Type: thriftmeta.StringType, Requiredness: thriftmeta.Optional,
		Extract: func(i interface{}) (interface{}, bool) {
			s := i.(*echoResult).Success
			if s == nil {
				return nil, false
			}
			return *s, true
		},
		Inject: func(b interface{}, v interface{}) {
			s := v.(string)
			b.(*echoResult).Success = &s
		},
	}
	failureField := &thriftmeta.FieldMetadata{
		ID: 1, Name: "failure", Type: thriftmeta.StructTypeOf(failure), Requiredness: thriftmeta.Optional,
		Extract: func(i interface{}) (interface{}, bool) {
			f := i.(*echoResult).Failure
			if f == nil {
				return nil, false
			}
			return f, true
		},
		Inject: func(b interface{}, v interface{}) {
			b.(*echoResult).Failure = v.(*echoFailure)
		},
	}

	meta.ByID[0], meta.ByName["success"] = successField, successField
	meta.ByID[1], meta.ByName["failure"] = failureField, failureField
	meta.NewBuilder = func() interface{} { return &echoResult{} }
	meta.Build = func(b interface{}) (interface{}, error) { return b, nil }

	require.NoError(t, catalog.FinishStruct(meta))
	return meta
}

// echoMethod builds the MethodMetadata for a non-void, non-oneway "echo"
// method whose single declared exception is EchoFailure.
func echoMethod(t *testing.T) *thriftmeta.MethodMetadata {
	t.Helper()
	catalog := thriftmeta.NewCatalog()
	failure := echoFailureMetadata(t, catalog)
	return &thriftmeta.MethodMetadata{
		Name:   "echo",
		Args:   echoArgsMetadata(t, catalog),
		Result: echoResultMetadata(t, catalog, failure),
	}
}

// pingMethod builds the MethodMetadata for a void, oneway "ping" method
// with no declared exceptions and no result envelope.
func pingMethod(t *testing.T) *thriftmeta.MethodMetadata {
	t.Helper()
	catalog := thriftmeta.NewCatalog()
	return &thriftmeta.MethodMetadata{
		Name:   "ping",
		Oneway: true,
		Args:   echoArgsMetadata(t, catalog),
	}
}
