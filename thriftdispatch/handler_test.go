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
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/thriftcore/thrifterrors"
	"go.uber.org/thriftcore/thriftprotocol"
	"go.uber.org/thriftcore/thriftwire"
)

func TestMethodHandlerAndProcessorRoundTrip(t *testing.T) {
	meta := echoMethod(t)

	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	clientProto := thriftprotocol.NewBinaryProtocol(bufio.NewReader(respR), bufio.NewWriter(reqW))
	serverProto := thriftprotocol.NewBinaryProtocol(bufio.NewReader(reqR), bufio.NewWriter(respW))

	processor := &MethodProcessor{
		Service: "Echoer",
		Meta:    meta,
		Handler: func(ctx context.Context, args interface{}) (interface{}, error) {
			return "echo: " + args.(*echoArgs).Message, nil
		},
	}

	serverDone := make(chan error, 1)
	go func() {
		_, msgType, seqID, err := serverProto.ReadMessageBegin()
		if err != nil {
			serverDone <- err
			return
		}
		serverDone <- processor.Process(context.Background(), serverProto, msgType, seqID)
	}()

	handler := &MethodHandler{Service: "Echoer", Meta: meta}
	result, err := handler.Call(context.Background(), clientProto, &echoArgs{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", result)
	require.NoError(t, <-serverDone)
}

func TestMethodHandlerUnwrapsDeclaredException(t *testing.T) {
	meta := echoMethod(t)

	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	clientProto := thriftprotocol.NewBinaryProtocol(bufio.NewReader(respR), bufio.NewWriter(reqW))
	serverProto := thriftprotocol.NewBinaryProtocol(bufio.NewReader(reqR), bufio.NewWriter(respW))

	processor := &MethodProcessor{
		Service: "Echoer",
		Meta:    meta,
		Handler: func(ctx context.Context, args interface{}) (interface{}, error) {
			return nil, thrifterrors.DeclaredException("failure", &echoFailure{Reason: "too loud"})
		},
	}

	serverDone := make(chan error, 1)
	go func() {
		_, msgType, seqID, err := serverProto.ReadMessageBegin()
		if err != nil {
			serverDone <- err
			return
		}
		serverDone <- processor.Process(context.Background(), serverProto, msgType, seqID)
	}()

	handler := &MethodHandler{Service: "Echoer", Meta: meta}
	_, err := handler.Call(context.Background(), clientProto, &echoArgs{Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, thrifterrors.KindDeclaredException, thrifterrors.ErrorKind(err))
	assert.Equal(t, "failure", thrifterrors.ExceptionName(err))
	failure, ok := thrifterrors.ExceptionValue(err).(*echoFailure)
	require.True(t, ok)
	assert.Equal(t, "too loud", failure.Reason)
	require.NoError(t, <-serverDone)
}

func TestMethodHandlerOnewayDoesNotRead(t *testing.T) {
	meta := pingMethod(t)
	var wire bytes.Buffer
	proto := thriftprotocol.NewBinaryProtocol(&wire, &wire)

	handler := &MethodHandler{Service: "Pinger", Meta: meta}
	result, err := handler.Call(context.Background(), proto, &echoArgs{Message: "hi"})
	require.NoError(t, err)
	assert.Nil(t, result)

	name, msgType, _, err := proto.ReadMessageBegin()
	require.NoError(t, err)
	assert.Equal(t, "ping", name)
	assert.Equal(t, thriftwire.ONEWAY, msgType)
}

func TestMethodHandlerRejectsApplicationException(t *testing.T) {
	meta := echoMethod(t)
	var wire bytes.Buffer
	proto := thriftprotocol.NewBinaryProtocol(&wire, &wire)
	require.NoError(t, proto.WriteMessageBegin("echo", thriftwire.EXCEPTION, 1))
	require.NoError(t, writeApplicationException(proto, applicationException{
		Message: "no such method", Type: thrifterrors.ReasonUnknownMethod,
	}))
	require.NoError(t, proto.WriteMessageEnd())
	require.NoError(t, proto.Flush())

	handler := &MethodHandler{Service: "Echoer", Meta: meta}
	handler.seqID = 0 // callWithoutWriting below passes seqID 1, matching the hand-written response above

	_, err := handler.callWithoutWriting(context.Background(), proto, 1)
	require.Error(t, err)
	assert.Equal(t, thrifterrors.KindApplicationType, thrifterrors.ErrorKind(err))
	assert.Equal(t, thrifterrors.ReasonUnknownMethod, thrifterrors.ApplicationTypeReasonOf(err))
}

// callWithoutWriting exercises readResult directly, bypassing the args
// encode step, for tests that hand-construct a response.
func (h *MethodHandler) callWithoutWriting(ctx context.Context, proto thriftprotocol.Protocol, seqID int32) (interface{}, error) {
	return h.readResult(proto, seqID)
}
