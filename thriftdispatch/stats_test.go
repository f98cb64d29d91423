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

	"github.com/stretchr/testify/assert"

	"go.uber.org/thriftcore/thriftdispatch"
)

func TestStatsEventHandlerCountsPerMethod(t *testing.T) {
	registry := thriftdispatch.NewStatsRegistry()
	handler := thriftdispatch.StatsEventHandler(registry)
	ctx := context.Background()

	handler.PostWrite(ctx, "echo")
	handler.PostWrite(ctx, "echo")
	handler.PostWriteException(ctx, "echo", errors.New("boom"))
	handler.PostWrite(ctx, "ping")

	echo := registry.MethodStats("echo")
	assert.EqualValues(t, 2, echo.Successes.Load())
	assert.EqualValues(t, 1, echo.Failures.Load())

	ping := registry.MethodStats("ping")
	assert.EqualValues(t, 1, ping.Successes.Load())
	assert.EqualValues(t, 0, ping.Failures.Load())
}

func TestStatsRegistryLazilyCreatesCounters(t *testing.T) {
	registry := thriftdispatch.NewStatsRegistry()
	first := registry.MethodStats("echo")
	second := registry.MethodStats("echo")
	assert.Same(t, first, second)
}
