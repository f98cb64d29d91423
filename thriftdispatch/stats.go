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
	"sync"

	"go.uber.org/atomic"
)

// MethodStats holds the per-method success/failure counters a StatsEventHandler
// keeps. Counters are added to with atomic instructions; reading them is
// safe from any goroutine at any time.
type MethodStats struct {
	Successes atomic.Int64
	Failures  atomic.Int64
}

// StatsRegistry is a concurrency-safe map from method name to its
// MethodStats, built up lazily as methods are first called.
type StatsRegistry struct {
	mu      sync.RWMutex
	methods map[string]*MethodStats
}

// NewStatsRegistry returns an empty StatsRegistry.
func NewStatsRegistry() *StatsRegistry {
	return &StatsRegistry{methods: make(map[string]*MethodStats)}
}

// MethodStats returns the counters for method, creating them on first use.
func (r *StatsRegistry) MethodStats(method string) *MethodStats {
	r.mu.RLock()
	s, ok := r.methods[method]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.methods[method]; ok {
		return s
	}
	s = &MethodStats{}
	r.methods[method] = s
	return s
}

// StatsEventHandler increments a per-method success counter in PostWrite
// and a per-method failure counter in PostWriteException, each with one
// atomic addition. Most calls add to exactly one counter; a client call
// whose result fails to decode adds to both (PostWrite for its args,
// PostWriteException for the read failure), and a server-side oneway
// call adds to neither.
func StatsEventHandler(registry *StatsRegistry) EventHandler {
	return statsEventHandler{registry: registry}
}

type statsEventHandler struct {
	NopEventHandler
	registry *StatsRegistry
}

func (s statsEventHandler) PostWrite(ctx context.Context, method string) {
	s.registry.MethodStats(method).Successes.Inc()
}

func (s statsEventHandler) PostWriteException(ctx context.Context, method string, err error) {
	s.registry.MethodStats(method).Failures.Inc()
}
