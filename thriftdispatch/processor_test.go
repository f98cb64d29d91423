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
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/thriftcore/thrifterrors"
	"go.uber.org/thriftcore/thriftprotocol"
	"go.uber.org/thriftcore/thriftwire"
)

func TestMethodProcessorWritesSuccessReply(t *testing.T) {
	meta := echoMethod(t)
	processor := &MethodProcessor{
		Service: "Echoer",
		Meta:    meta,
		Handler: func(ctx context.Context, args interface{}) (interface{}, error) {
			return "echo: " + args.(*echoArgs).Message, nil
		},
	}

	var wire bytes.Buffer
	proto := thriftprotocol.NewBinaryProtocol(&wire, &wire)
	require.NoError(t, encodeArgs(t, proto, meta, &echoArgs{Message: "hi"}, thriftwire.CALL, 7))
	_, _, _, err := proto.ReadMessageBegin()
	require.NoError(t, err)

	require.NoError(t, processor.Process(context.Background(), proto, thriftwire.CALL, 7))

	name, msgType, seqID, err := proto.ReadMessageBegin()
	require.NoError(t, err)
	assert.Equal(t, "echo", name)
	assert.Equal(t, thriftwire.REPLY, msgType)
	assert.EqualValues(t, 7, seqID)

	result, err := thriftCodecRead(t, proto, meta.Result)
	require.NoError(t, err)
	echoResult := result.(*echoResult)
	require.NotNil(t, echoResult.Success)
	assert.Equal(t, "echo: hi", *echoResult.Success)
	assert.Nil(t, echoResult.Failure)
}

func TestMethodProcessorWritesDeclaredException(t *testing.T) {
	meta := echoMethod(t)
	processor := &MethodProcessor{
		Service: "Echoer",
		Meta:    meta,
		Handler: func(ctx context.Context, args interface{}) (interface{}, error) {
			return nil, thrifterrors.DeclaredException("failure", &echoFailure{Reason: "too loud"})
		},
	}

	var wire bytes.Buffer
	proto := thriftprotocol.NewBinaryProtocol(&wire, &wire)
	require.NoError(t, encodeArgs(t, proto, meta, &echoArgs{Message: "hi"}, thriftwire.CALL, 1))
	_, _, _, err := proto.ReadMessageBegin()
	require.NoError(t, err)
	require.NoError(t, processor.Process(context.Background(), proto, thriftwire.CALL, 1))

	_, msgType, _, err := proto.ReadMessageBegin()
	require.NoError(t, err)
	require.Equal(t, thriftwire.REPLY, msgType)

	result, err := thriftCodecRead(t, proto, meta.Result)
	require.NoError(t, err)
	echoResult := result.(*echoResult)
	assert.Nil(t, echoResult.Success)
	require.NotNil(t, echoResult.Failure)
	assert.Equal(t, "too loud", echoResult.Failure.Reason)
}

func TestMethodProcessorWritesApplicationErrorOnUnexpectedFailure(t *testing.T) {
	meta := echoMethod(t)
	processor := &MethodProcessor{
		Service: "Echoer",
		Meta:    meta,
		Handler: func(ctx context.Context, args interface{}) (interface{}, error) {
			return nil, assertAnError{}
		},
	}

	var wire bytes.Buffer
	proto := thriftprotocol.NewBinaryProtocol(&wire, &wire)
	require.NoError(t, encodeArgs(t, proto, meta, &echoArgs{Message: "hi"}, thriftwire.CALL, 2))
	_, _, _, err := proto.ReadMessageBegin()
	require.NoError(t, err)
	require.NoError(t, processor.Process(context.Background(), proto, thriftwire.CALL, 2))

	_, msgType, seqID, err := proto.ReadMessageBegin()
	require.NoError(t, err)
	assert.Equal(t, thriftwire.EXCEPTION, msgType)
	assert.EqualValues(t, 2, seqID)

	exc, err := readApplicationException(proto)
	require.NoError(t, err)
	assert.Equal(t, thrifterrors.ReasonInternalError, exc.Type)
	assert.Contains(t, exc.Message, "boom")
}

func TestMethodProcessorRecoversHandlerPanic(t *testing.T) {
	meta := echoMethod(t)
	processor := &MethodProcessor{
		Service: "Echoer",
		Meta:    meta,
		Handler: func(ctx context.Context, args interface{}) (interface{}, error) {
			panic("handler exploded")
		},
	}

	var wire bytes.Buffer
	proto := thriftprotocol.NewBinaryProtocol(&wire, &wire)
	require.NoError(t, encodeArgs(t, proto, meta, &echoArgs{Message: "hi"}, thriftwire.CALL, 3))
	_, _, _, err := proto.ReadMessageBegin()
	require.NoError(t, err)
	require.NoError(t, processor.Process(context.Background(), proto, thriftwire.CALL, 3))

	_, msgType, _, err := proto.ReadMessageBegin()
	require.NoError(t, err)
	assert.Equal(t, thriftwire.EXCEPTION, msgType)

	exc, err := readApplicationException(proto)
	require.NoError(t, err)
	assert.Contains(t, exc.Message, "handler exploded")
}

func TestMethodProcessorRejectsWrongMessageType(t *testing.T) {
	meta := echoMethod(t)
	processor := &MethodProcessor{Service: "Echoer", Meta: meta, Handler: func(context.Context, interface{}) (interface{}, error) {
		t := true
		_ = t
		return nil, nil
	}}

	var wire bytes.Buffer
	proto := thriftprotocol.NewBinaryProtocol(&wire, &wire)
	err := processor.Process(context.Background(), proto, thriftwire.ONEWAY, 1)
	require.Error(t, err)
	assert.Equal(t, thrifterrors.KindApplicationType, thrifterrors.ErrorKind(err))
	assert.Equal(t, thrifterrors.ReasonInvalidMessageType, thrifterrors.ApplicationTypeReasonOf(err))
}

func TestMethodProcessorOnewayWritesNothing(t *testing.T) {
	meta := pingMethod(t)
	called := false
	processor := &MethodProcessor{
		Service: "Pinger",
		Meta:    meta,
		Handler: func(ctx context.Context, args interface{}) (interface{}, error) {
			called = true
			return nil, nil
		},
	}

	var wire bytes.Buffer
	proto := thriftprotocol.NewBinaryProtocol(&wire, &wire)
	require.NoError(t, encodeArgs(t, proto, meta, &echoArgs{Message: "hi"}, thriftwire.ONEWAY, 1))
	_, _, _, err := proto.ReadMessageBegin()
	require.NoError(t, err)

	require.NoError(t, processor.Process(context.Background(), proto, thriftwire.ONEWAY, 1))
	assert.True(t, called)
	assert.Equal(t, 0, wire.Len())
}

type assertAnError struct{}

func (assertAnError) Error() string { return "boom" }
