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

package thriftdispatch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/thriftcore/thriftdispatch"
)

func TestTracingEventHandlerStartsAndFinishesOneSpanPerCall(t *testing.T) {
	tracer := mocktracer.New()
	handler := thriftdispatch.TracingEventHandler(tracer)

	ctx := handler.GetContext(context.Background(), "echo")
	handler.Done(ctx, "echo")

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "echo", spans[0].OperationName)
}

func TestTracingEventHandlerTagsErrorsOnPreWriteException(t *testing.T) {
	tracer := mocktracer.New()
	handler := thriftdispatch.TracingEventHandler(tracer)

	ctx := handler.GetContext(context.Background(), "echo")
	handler.PreWriteException(ctx, "echo", errors.New("boom"))
	handler.Done(ctx, "echo")

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, true, spans[0].Tag("error"))
}
