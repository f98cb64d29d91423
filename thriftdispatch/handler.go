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
	"context"
	"sync/atomic"

	"go.uber.org/thriftcore/thriftcodec"
	"go.uber.org/thriftcore/thrifterrors"
	"go.uber.org/thriftcore/thriftmeta"
	"go.uber.org/thriftcore/thriftprotocol"
	"go.uber.org/thriftcore/thriftwire"
)

// MethodHandler is the client side of one RPC method: it encodes a
// `_args` struct, reads back a `_result` struct (or a
// TApplicationException) over the same protocol, and unwraps either the
// success value or a declared exception. One MethodHandler is built per
// method descriptor and is safe for concurrent use; each Call picks its
// own sequence id.
type MethodHandler struct {
	Service      string
	Meta         *thriftmeta.MethodMetadata
	EventHandler EventHandler

	seqID int32
}

func (h *MethodHandler) eventHandler() EventHandler {
	if h.EventHandler != nil {
		return h.EventHandler
	}
	return NopEventHandler{}
}

func (h *MethodHandler) nextSeqID() int32 {
	return atomic.AddInt32(&h.seqID, 1)
}

// Call writes args as this method's `_args` struct, and, unless the
// method is oneway, reads and unwraps the `_result` struct proto returns.
// result is the decoded success value (nil for void methods); a declared
// exception is returned as a *thrifterrors.DeclaredException-kind error,
// unwrappable via thrifterrors.ExceptionValue.
func (h *MethodHandler) Call(ctx context.Context, proto thriftprotocol.Protocol, args interface{}) (result interface{}, err error) {
	eh := h.eventHandler()
	ctx = eh.GetContext(ctx, h.Meta.Name)
	defer eh.Done(ctx, h.Meta.Name)

	seqID := h.nextSeqID()
	msgType := thriftwire.CALL
	if h.Meta.Oneway {
		msgType = thriftwire.ONEWAY
	}

	eh.PreWrite(ctx, h.Meta.Name, args)
	if err := h.writeArgs(proto, msgType, seqID, args); err != nil {
		eh.PostWriteException(ctx, h.Meta.Name, err)
		return nil, err
	}
	eh.PostWrite(ctx, h.Meta.Name)

	if h.Meta.Oneway {
		return nil, nil
	}

	eh.PreRead(ctx)
	result, err = h.readResult(proto, seqID)
	if err != nil {
		eh.PreWriteException(ctx, h.Meta.Name, err)
		eh.PostWriteException(ctx, h.Meta.Name, err)
		return nil, err
	}
	eh.PostRead(ctx, h.Meta.Name, result)
	return result, nil
}

func (h *MethodHandler) writeArgs(proto thriftprotocol.Protocol, msgType thriftwire.MessageType, seqID int32, args interface{}) error {
	if err := proto.WriteMessageBegin(h.Meta.Name, msgType, seqID); err != nil {
		return err
	}
	if err := thriftcodec.CodecFor(thriftmeta.StructTypeOf(h.Meta.Args)).Write(proto, args); err != nil {
		return err
	}
	if err := proto.WriteMessageEnd(); err != nil {
		return err
	}
	return proto.Flush()
}

func (h *MethodHandler) readResult(proto thriftprotocol.Protocol, wantSeqID int32) (interface{}, error) {
	name, msgType, seqID, err := proto.ReadMessageBegin()
	if err != nil {
		return nil, err
	}

	if msgType == thriftwire.EXCEPTION {
		exc, err := readApplicationException(proto)
		if err != nil {
			return nil, err
		}
		if err := proto.ReadMessageEnd(); err != nil {
			return nil, err
		}
		return nil, thrifterrors.ApplicationTypef(exc.Type, "%s", exc.Message)
	}

	if msgType != thriftwire.REPLY {
		return nil, thrifterrors.ApplicationTypef(thrifterrors.ReasonInvalidMessageType,
			"method %q: expected REPLY or EXCEPTION, got %v", h.Meta.Name, msgType)
	}
	if name != h.Meta.Name {
		return nil, thrifterrors.ApplicationTypef(thrifterrors.ReasonWrongMethodName,
			"expected reply for %q, got %q", h.Meta.Name, name)
	}
	if seqID != wantSeqID {
		return nil, thrifterrors.ApplicationTypef(thrifterrors.ReasonBadSequenceID,
			"method %q: expected sequence id %d, got %d", h.Meta.Name, wantSeqID, seqID)
	}

	resultValue, err := thriftcodec.CodecFor(thriftmeta.StructTypeOf(h.Meta.Result)).Read(proto)
	if err != nil {
		return nil, err
	}
	if err := proto.ReadMessageEnd(); err != nil {
		return nil, err
	}

	return h.unwrapResult(resultValue)
}

// unwrapResult picks the single set field out of a decoded `_result`
// value: the success field if the method is non-void and it was set, or
// the one declared-exception field that was set, wrapped as a
// thrifterrors.DeclaredException so callers can unwrap it generically
// before a method stub downcasts it to its IDL-declared Go error type.
func (h *MethodHandler) unwrapResult(resultValue interface{}) (interface{}, error) {
	if successField, ok := h.Meta.SuccessField(); ok {
		if value, ok := successField.Extract(resultValue); ok {
			return value, nil
		}
	} else if h.Meta.Void {
		// A void method's _result still carries only declared exceptions;
		// fall through to look for one.
	}

	for _, field := range h.Meta.Result.OrderedFields() {
		if field.ID == 0 {
			continue
		}
		if value, ok := field.Extract(resultValue); ok {
			return nil, thrifterrors.DeclaredException(field.Name, value)
		}
	}

	if h.Meta.Void {
		return nil, nil
	}
	return nil, thrifterrors.ApplicationTypef(thrifterrors.ReasonMissingResult,
		"method %q: result had neither a success value nor a declared exception set", h.Meta.Name)
}
