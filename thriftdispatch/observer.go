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

// Package thriftdispatch is the symmetric client/server machinery that
// frames a method call as a Thrift `_args`/`_result` message pair: it
// writes and reads the message envelopes, leaves the `_args`/`_result`
// structs to thriftcodec, and hand-encodes TApplicationException itself
// (apperror.go). transport.go adapts it to the api/transport interfaces.
package thriftdispatch

import "context"

// EventHandler observes the lifecycle of one RPC, client or server side,
// in call order:
//
//	GetContext -> PreRead -> PostRead(decoded) -> PreWrite(result) |
//	PreWriteException(err) -> PostWrite | PostWriteException -> Done
//
// "Read" names the decode phase and "Write" the encode phase regardless of
// which side is doing the decoding: a server reads args and writes a
// result; a client writes args and reads a result, but still fires
// PreWrite/PostWrite around encoding its args and PreRead/PostRead around
// decoding the response, so a single EventHandler implementation (a
// tracer, a stats collector) works unmodified on either side.
type EventHandler interface {
	// GetContext returns the context the rest of the call should use. It
	// fires first and exactly once; implementations that need to thread a
	// child span or a deadline through the call do it here.
	GetContext(ctx context.Context, method string) context.Context

	// PreRead fires immediately before this side decodes a struct off the
	// wire (args for a server, the result for a client).
	PreRead(ctx context.Context)
	// PostRead fires after a successful decode, given the decoded value.
	PostRead(ctx context.Context, method string, decoded interface{})

	// PreWrite fires immediately before this side encodes a successful
	// struct onto the wire (the result for a server, args for a client).
	PreWrite(ctx context.Context, method string, value interface{})
	// PreWriteException fires instead of PreWrite when the side is about
	// to write an exception/error in place of a successful value.
	PreWriteException(ctx context.Context, method string, err error)

	// PostWrite fires after a successful encode.
	PostWrite(ctx context.Context, method string)
	// PostWriteException fires instead of PostWrite when the encode path
	// was the exception branch, or when the call failed before an encode
	// was possible at all. On the client side, a failure while reading the
	// result fires PreWriteException and PostWriteException after
	// PostWrite has already fired for the args.
	PostWriteException(ctx context.Context, method string, err error)

	// Done fires exactly once, last, regardless of outcome.
	Done(ctx context.Context, method string)
}

// NopEventHandler implements EventHandler with no-ops. Embed it to pick up
// only the hooks a particular observer cares about.
type NopEventHandler struct{}

var _ EventHandler = NopEventHandler{}

func (NopEventHandler) GetContext(ctx context.Context, method string) context.Context { return ctx }
func (NopEventHandler) PreRead(ctx context.Context)                                   {}
func (NopEventHandler) PostRead(ctx context.Context, method string, decoded interface{}) {
}
func (NopEventHandler) PreWrite(ctx context.Context, method string, value interface{}) {}
func (NopEventHandler) PreWriteException(ctx context.Context, method string, err error) {
}
func (NopEventHandler) PostWrite(ctx context.Context, method string)                   {}
func (NopEventHandler) PostWriteException(ctx context.Context, method string, err error) {
}
func (NopEventHandler) Done(ctx context.Context, method string) {}

// multiEventHandler fans a single call's hooks out to every handler in the
// slice, in order. GetContext threads its returned context from one
// handler into the next so a tracing handler's child context reaches a
// stats handler registered after it.
type multiEventHandler []EventHandler

// MultiEventHandler composes handlers into a single EventHandler that fires
// each of them, in order, for every hook.
func MultiEventHandler(handlers ...EventHandler) EventHandler {
	return multiEventHandler(handlers)
}

func (m multiEventHandler) GetContext(ctx context.Context, method string) context.Context {
	for _, h := range m {
		ctx = h.GetContext(ctx, method)
	}
	return ctx
}

func (m multiEventHandler) PreRead(ctx context.Context) {
	for _, h := range m {
		h.PreRead(ctx)
	}
}

func (m multiEventHandler) PostRead(ctx context.Context, method string, decoded interface{}) {
	for _, h := range m {
		h.PostRead(ctx, method, decoded)
	}
}

func (m multiEventHandler) PreWrite(ctx context.Context, method string, value interface{}) {
	for _, h := range m {
		h.PreWrite(ctx, method, value)
	}
}

func (m multiEventHandler) PreWriteException(ctx context.Context, method string, err error) {
	for _, h := range m {
		h.PreWriteException(ctx, method, err)
	}
}

func (m multiEventHandler) PostWrite(ctx context.Context, method string) {
	for _, h := range m {
		h.PostWrite(ctx, method)
	}
}

func (m multiEventHandler) PostWriteException(ctx context.Context, method string, err error) {
	for _, h := range m {
		h.PostWriteException(ctx, method, err)
	}
}

func (m multiEventHandler) Done(ctx context.Context, method string) {
	for _, h := range m {
		h.Done(ctx, method)
	}
}
