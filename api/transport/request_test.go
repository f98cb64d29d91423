// Copyright (c) 2017 Uber Technologies, Inc.
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

package transport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.uber.org/thriftcore/api/transport"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		desc              string
		req               *transport.Request
		wantMissingParams []string
	}{
		{
			desc: "valid request",
			req: &transport.Request{
				Caller:    "caller",
				Service:   "service",
				Encoding:  "thrift",
				Procedure: "hello",
			},
		},
		{
			desc: "missing encoding",
			req: &transport.Request{
				Caller:    "caller",
				Service:   "service",
				Procedure: "hello",
			},
			wantMissingParams: []string{"encoding"},
		},
		{
			desc: "missing caller",
			req: &transport.Request{
				Service:   "service",
				Procedure: "hello",
				Encoding:  "thrift",
			},
			wantMissingParams: []string{"caller"},
		},
		{
			desc: "missing service",
			req: &transport.Request{
				Caller:    "caller",
				Procedure: "hello",
				Encoding:  "thrift",
			},
			wantMissingParams: []string{"service"},
		},
		{
			desc: "missing procedure",
			req: &transport.Request{
				Caller:   "caller",
				Service:  "service",
				Encoding: "thrift",
			},
			wantMissingParams: []string{"procedure"},
		},
		{
			desc:              "empty request",
			req:               &transport.Request{},
			wantMissingParams: []string{"service name", "procedure", "caller name", "encoding"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := transport.ValidateRequest(tt.req)
			if len(tt.wantMissingParams) > 0 {
				if assert.Error(t, err) {
					for _, wantMissingParam := range tt.wantMissingParams {
						assert.Contains(t, err.Error(), wantMissingParam)
					}
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
