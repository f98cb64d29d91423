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
	"io/ioutil"

	"go.uber.org/thriftcore/api/transport"
	"go.uber.org/thriftcore/thriftconfig"
	"go.uber.org/thriftcore/thrifterrors"
	"go.uber.org/thriftcore/thriftprotocol"
	"go.uber.org/thriftcore/thriftwire"
)

// duplexConn adapts an independently sourced read half and write half to
// thriftconfig.Conn. A transport.Request's Body is read-only and a
// transport.ResponseWriter is write-only — never the same stream the way
// the two halves of a raw socket are — so the single-Conn protocols
// thriftconfig.NewProtocol builds need a Conn that routes reads and
// writes to two different places.
type duplexConn struct {
	*bufio.Reader
	*bufio.Writer
}

func newProtocolOver(protocolName string, r *bufio.Reader, w *bufio.Writer) (thriftprotocol.Protocol, error) {
	return thriftconfig.NewProtocol(protocolName, duplexConn{Reader: r, Writer: w})
}

// discardWriter is a throwaway sink for the write half of a protocol that
// will only ever be read from (or the read half of one that will only
// ever be written to); thriftconfig.Conn requires both directions even
// when a caller only exercises one.
func discardWriter() *bufio.Writer {
	return bufio.NewWriter(ioutil.Discard)
}

func emptyReader() *bufio.Reader {
	return bufio.NewReader(bytes.NewReader(nil))
}

// ServerHandler adapts a MethodProcessor to the transport.UnaryHandler and
// transport.OnewayHandler contracts: it reads the message envelope off the
// request body itself, since MethodProcessor.Process expects msgType and
// seqID already known, then delegates straight into Process. A unary
// reply is buffered in full before being relayed through the
// ResponseWriter, because Process only reveals REPLY-vs-EXCEPTION by what
// it wrote, not through a return value.
type ServerHandler struct {
	Processor    *MethodProcessor
	ProtocolName string
}

var (
	_ transport.UnaryHandler  = (*ServerHandler)(nil)
	_ transport.OnewayHandler = (*ServerHandler)(nil)
)

func (h *ServerHandler) protocolName() string {
	if h.ProtocolName != "" {
		return h.ProtocolName
	}
	return thriftconfig.Binary
}

// Handle implements transport.UnaryHandler.
func (h *ServerHandler) Handle(ctx context.Context, req *transport.Request, resw transport.ResponseWriter) error {
	if err := transport.ValidateRequest(req); err != nil {
		return transport.BadRequestError(err)
	}

	var reply bytes.Buffer
	proto, err := newProtocolOver(h.protocolName(), bufio.NewReader(req.Body), bufio.NewWriter(&reply))
	if err != nil {
		return err
	}

	_, msgType, seqID, err := proto.ReadMessageBegin()
	if err != nil {
		return transport.BadRequestError(err)
	}

	if err := h.Processor.Process(ctx, proto, msgType, seqID); err != nil {
		return err
	}

	return h.relay(reply.Bytes(), resw)
}

// HandleOneway implements transport.OnewayHandler.
func (h *ServerHandler) HandleOneway(ctx context.Context, req *transport.Request) error {
	if err := transport.ValidateRequest(req); err != nil {
		return transport.BadRequestError(err)
	}

	proto, err := newProtocolOver(h.protocolName(), bufio.NewReader(req.Body), discardWriter())
	if err != nil {
		return err
	}

	_, msgType, seqID, err := proto.ReadMessageBegin()
	if err != nil {
		return transport.BadRequestError(err)
	}

	return h.Processor.Process(ctx, proto, msgType, seqID)
}

// relay writes the processor's buffered reply through resw, flagging an
// application error when the reply's message type is EXCEPTION so a
// caller above the transport boundary can tell success from failure
// without re-parsing the body.
func (h *ServerHandler) relay(reply []byte, resw transport.ResponseWriter) error {
	if len(reply) == 0 {
		return nil
	}

	peek, err := newProtocolOver(h.protocolName(), bufio.NewReader(bytes.NewReader(reply)), discardWriter())
	if err != nil {
		return err
	}
	_, msgType, _, err := peek.ReadMessageBegin()
	if err != nil {
		return err
	}

	if msgType == thriftwire.EXCEPTION {
		resw.AddHeaders(transport.NewHeaders().With(transport.ApplicationErrorNameHeader, "TApplicationException"))
		resw.SetApplicationError()
	}
	_, err = resw.Write(reply)
	return err
}

// ServiceRouter implements transport.Router over a table of handler specs
// keyed the same way a multiplexed procedure name is built for the wire:
// procedureName(service, method). One ServiceRouter typically backs every
// registered service's Inbound.
type ServiceRouter struct {
	handlers map[string]transport.HandlerSpec
}

var _ transport.Router = (*ServiceRouter)(nil)

// NewServiceRouter returns an empty ServiceRouter.
func NewServiceRouter() *ServiceRouter {
	return &ServiceRouter{handlers: make(map[string]transport.HandlerSpec)}
}

// Register adds spec as the handler for service's method.
func (r *ServiceRouter) Register(service, method string, spec transport.HandlerSpec) {
	r.handlers[procedureName(service, method)] = spec
}

// Choose implements transport.Router.
func (r *ServiceRouter) Choose(ctx context.Context, req *transport.Request) (transport.HandlerSpec, error) {
	name := procedureName(req.Service, req.Procedure)
	spec, ok := r.handlers[name]
	if !ok {
		return transport.HandlerSpec{}, thrifterrors.ApplicationTypef(thrifterrors.ReasonUnknownMethod,
			"no handler registered for %q", name)
	}
	return spec, nil
}

// CallOutbound adapts Call to the transport.UnaryOutbound boundary: it
// encodes args into a request body, sends it through outbound, and
// unwraps the response the same way Call does. Unlike Call, the write and
// read streams are never the same protocol instance, since a
// transport.Response's body is a separate stream from the
// transport.Request that produced it.
func (h *MethodHandler) CallOutbound(ctx context.Context, outbound transport.UnaryOutbound, req *transport.Request, protocolName string, args interface{}) (result interface{}, err error) {
	eh := h.eventHandler()
	ctx = eh.GetContext(ctx, h.Meta.Name)
	defer eh.Done(ctx, h.Meta.Name)

	seqID := h.nextSeqID()

	var body bytes.Buffer
	writeProto, err := newProtocolOver(protocolName, emptyReader(), bufio.NewWriter(&body))
	if err != nil {
		return nil, err
	}

	eh.PreWrite(ctx, h.Meta.Name, args)
	if err := h.writeArgs(writeProto, thriftwire.CALL, seqID, args); err != nil {
		eh.PostWriteException(ctx, h.Meta.Name, err)
		return nil, err
	}
	eh.PostWrite(ctx, h.Meta.Name)

	req.Body = &body
	resp, err := outbound.Call(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	readProto, err := newProtocolOver(protocolName, bufio.NewReader(resp.Body), discardWriter())
	if err != nil {
		return nil, err
	}

	eh.PreRead(ctx)
	result, err = h.readResult(readProto, seqID)
	if err != nil {
		eh.PreWriteException(ctx, h.Meta.Name, err)
		eh.PostWriteException(ctx, h.Meta.Name, err)
		return nil, err
	}
	eh.PostRead(ctx, h.Meta.Name, result)
	return result, nil
}

// CallOnewayOutbound is CallOutbound's oneway counterpart: it writes args
// and sends the request through outbound, returning the transport's ack
// without ever reading a result, the way Call skips readResult for a
// oneway method.
func (h *MethodHandler) CallOnewayOutbound(ctx context.Context, outbound transport.OnewayOutbound, req *transport.Request, protocolName string, args interface{}) (transport.Ack, error) {
	eh := h.eventHandler()
	ctx = eh.GetContext(ctx, h.Meta.Name)
	defer eh.Done(ctx, h.Meta.Name)

	seqID := h.nextSeqID()

	var body bytes.Buffer
	proto, err := newProtocolOver(protocolName, emptyReader(), bufio.NewWriter(&body))
	if err != nil {
		return nil, err
	}

	eh.PreWrite(ctx, h.Meta.Name, args)
	if err := h.writeArgs(proto, thriftwire.ONEWAY, seqID, args); err != nil {
		eh.PostWriteException(ctx, h.Meta.Name, err)
		return nil, err
	}
	eh.PostWrite(ctx, h.Meta.Name)

	req.Body = &body
	return outbound.CallOneway(ctx, req)
}
