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

	"github.com/opentracing/opentracing-go"
)

type tracingContextKey struct{}

// TracingEventHandler starts one span per call, under tracer, and finishes
// it once the call is fully done. It opens the span in GetContext (which
// fires exactly once per call, on both the client and the server side) and
// closes it in Done (same guarantee), so a single implementation covers
// both the "write args, read result" client shape and the "read args,
// write result" server shape without needing to know which one it is.
func TracingEventHandler(tracer opentracing.Tracer) EventHandler {
	return tracingEventHandler{tracer: tracer}
}

type tracingEventHandler struct {
	NopEventHandler
	tracer opentracing.Tracer
}

func (t tracingEventHandler) GetContext(ctx context.Context, method string) context.Context {
	var opts []opentracing.StartSpanOption
	if parent := opentracing.SpanFromContext(ctx); parent != nil {
		opts = append(opts, opentracing.ChildOf(parent.Context()))
	}
	span := t.tracer.StartSpan(method, opts...)
	ctx = opentracing.ContextWithSpan(ctx, span)
	return context.WithValue(ctx, tracingContextKey{}, span)
}

func (t tracingEventHandler) PreWriteException(ctx context.Context, method string, err error) {
	if span, ok := ctx.Value(tracingContextKey{}).(opentracing.Span); ok {
		span.SetTag("error", true)
		span.LogKV("event", "error", "message", err.Error())
	}
}

func (t tracingEventHandler) Done(ctx context.Context, method string) {
	if span, ok := ctx.Value(tracingContextKey{}).(opentracing.Span); ok {
		span.Finish()
	}
}
