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

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"go.uber.org/thriftcore/thriftcodec"
	"go.uber.org/thriftcore/thrifterrors"
	"go.uber.org/thriftcore/thriftmeta"
	"go.uber.org/thriftcore/thriftprotocol"
	"go.uber.org/thriftcore/thriftwire"
)

// MethodHandlerFunc is the application code a MethodProcessor invokes once
// a method's `_args` struct has been decoded. args is whatever
// thriftmeta.StructMetadata.Build returned for the Args descriptor; result
// is the Go value to inject into field 0 of the `_result` struct (ignored
// for void methods).
type MethodHandlerFunc func(ctx context.Context, args interface{}) (result interface{}, err error)

// MethodProcessor is the server side of one RPC method: it decodes a
// `_args` struct, invokes a handler, and encodes the matching `_result`
// struct (or a TApplicationException) back onto the same protocol.
// Everything about framing, transport selection, and procedure routing
// lives above this type; a MethodProcessor only ever sees one call at a
// time, already routed to it by name.
type MethodProcessor struct {
	Service      string
	Meta         *thriftmeta.MethodMetadata
	Handler      MethodHandlerFunc
	EventHandler EventHandler
	Logger       *zap.Logger
}

func (p *MethodProcessor) eventHandler() EventHandler {
	if p.EventHandler != nil {
		return p.EventHandler
	}
	return NopEventHandler{}
}

func (p *MethodProcessor) logger() *zap.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return zap.NewNop()
}

// Process decodes the `_args` struct for this method off proto, invokes
// the handler, and writes the response message (REPLY or EXCEPTION) back
// onto proto. msgType is the message type the caller read off the wire
// before routing to this processor; Process validates it matches the
// method's oneway-ness.
func (p *MethodProcessor) Process(ctx context.Context, proto thriftprotocol.Protocol, msgType thriftwire.MessageType, seqID int32) error {
	eh := p.eventHandler()
	ctx = eh.GetContext(ctx, p.Meta.Name)
	defer eh.Done(ctx, p.Meta.Name)

	wantType := thriftwire.CALL
	if p.Meta.Oneway {
		wantType = thriftwire.ONEWAY
	}
	if msgType != wantType {
		err := thrifterrors.ApplicationTypef(thrifterrors.ReasonInvalidMessageType,
			"method %q: expected message type %v, got %v", p.Meta.Name, wantType, msgType)
		eh.PostWriteException(ctx, p.Meta.Name, err)
		return err
	}

	eh.PreRead(ctx)
	args, err := thriftcodec.CodecFor(thriftmeta.StructTypeOf(p.Meta.Args)).Read(proto)
	if err != nil {
		eh.PostWriteException(ctx, p.Meta.Name, err)
		return err
	}
	eh.PostRead(ctx, p.Meta.Name, args)

	result, callErr := p.invoke(ctx, args)

	if p.Meta.Oneway {
		// Oneway methods never frame a response, successful or otherwise;
		// a failing oneway handler is only ever visible in logs.
		if callErr != nil {
			p.logger().Error("oneway handler failed",
				zap.String("service", p.Service), zap.String("method", p.Meta.Name), zap.Error(callErr))
		}
		return nil
	}

	if err := p.writeResult(ctx, proto, seqID, result, callErr); err != nil {
		return err
	}
	return nil
}

// invoke calls the handler, recovering a panic as a KindApplication error
// the way a caller-supplied TApplicationException(INTERNAL_ERROR) is built
// from any uncaught server-side failure.
func (p *MethodProcessor) invoke(ctx context.Context, args interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = thrifterrors.Applicationf("panic in handler for %q: %v", p.Meta.Name, errors.Errorf("%v", r))
		}
	}()
	return p.Handler(ctx, args)
}

func (p *MethodProcessor) writeResult(ctx context.Context, proto thriftprotocol.Protocol, seqID int32, result interface{}, callErr error) error {
	eh := p.eventHandler()

	if callErr == nil {
		return p.writeSuccess(ctx, proto, seqID, result, eh)
	}

	if thrifterrors.ErrorKind(callErr) == thrifterrors.KindDeclaredException {
		if field, ok := p.Meta.Result.ByName[thrifterrors.ExceptionName(callErr)]; ok {
			return p.writeDeclaredException(ctx, proto, seqID, field, callErr, eh)
		}
		// The handler raised a DeclaredException this method's IDL never
		// declared; treat it like any other unexpected failure.
	}

	return p.writeApplicationError(ctx, proto, seqID, callErr, eh)
}

func (p *MethodProcessor) writeSuccess(ctx context.Context, proto thriftprotocol.Protocol, seqID int32, result interface{}, eh EventHandler) error {
	eh.PreWrite(ctx, p.Meta.Name, result)

	builder := p.Meta.Result.NewBuilder()
	if successField, ok := p.Meta.SuccessField(); ok {
		successField.Inject(builder, result)
	}
	resultValue, err := p.Meta.Result.Build(builder)
	if err != nil {
		eh.PostWriteException(ctx, p.Meta.Name, err)
		return err
	}

	if err := p.writeMessage(proto, thriftwire.REPLY, seqID, thriftmeta.StructTypeOf(p.Meta.Result), resultValue); err != nil {
		eh.PostWriteException(ctx, p.Meta.Name, err)
		return err
	}
	eh.PostWrite(ctx, p.Meta.Name)
	return nil
}

func (p *MethodProcessor) writeDeclaredException(ctx context.Context, proto thriftprotocol.Protocol, seqID int32, field *thriftmeta.FieldMetadata, callErr error, eh EventHandler) error {
	eh.PreWriteException(ctx, p.Meta.Name, callErr)

	builder := p.Meta.Result.NewBuilder()
	field.Inject(builder, thrifterrors.ExceptionValue(callErr))
	resultValue, err := p.Meta.Result.Build(builder)
	if err != nil {
		eh.PostWriteException(ctx, p.Meta.Name, err)
		return err
	}

	// Declared exceptions still travel inside a REPLY message: they are
	// part of the method's normal `_result` union, not a protocol-level
	// failure.
	if err := p.writeMessage(proto, thriftwire.REPLY, seqID, thriftmeta.StructTypeOf(p.Meta.Result), resultValue); err != nil {
		eh.PostWriteException(ctx, p.Meta.Name, err)
		return err
	}
	eh.PostWrite(ctx, p.Meta.Name)
	return nil
}

func (p *MethodProcessor) writeApplicationError(ctx context.Context, proto thriftprotocol.Protocol, seqID int32, callErr error, eh EventHandler) error {
	eh.PreWriteException(ctx, p.Meta.Name, callErr)

	reason := thrifterrors.ReasonInternalError
	if thrifterrors.ErrorKind(callErr) == thrifterrors.KindApplicationType {
		reason = thrifterrors.ApplicationTypeReasonOf(callErr)
	}

	if err := proto.WriteMessageBegin(p.Meta.Name, thriftwire.EXCEPTION, seqID); err != nil {
		eh.PostWriteException(ctx, p.Meta.Name, err)
		return err
	}
	if err := writeApplicationException(proto, applicationException{Message: callErr.Error(), Type: reason}); err != nil {
		eh.PostWriteException(ctx, p.Meta.Name, err)
		return err
	}
	if err := proto.WriteMessageEnd(); err != nil {
		eh.PostWriteException(ctx, p.Meta.Name, err)
		return err
	}
	if err := proto.Flush(); err != nil {
		eh.PostWriteException(ctx, p.Meta.Name, err)
		return err
	}

	eh.PostWriteException(ctx, p.Meta.Name, callErr)
	return nil
}

func (p *MethodProcessor) writeMessage(proto thriftprotocol.Protocol, msgType thriftwire.MessageType, seqID int32, t *thriftmeta.ThriftType, value interface{}) error {
	if err := proto.WriteMessageBegin(p.Meta.Name, msgType, seqID); err != nil {
		return err
	}
	if err := thriftcodec.CodecFor(t).Write(proto, value); err != nil {
		return err
	}
	if err := proto.WriteMessageEnd(); err != nil {
		return err
	}
	return proto.Flush()
}
