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

package transport

import "context"

// Ack is returned by a successful oneway call to acknowledge that the
// request was accepted. It carries nothing beyond its existence; the
// method dispatcher never inspects it.
type Ack interface {
	String() string
}

// UnaryOutbound is a byte-sink side that knows how to send unary requests
// for procedure calls and wait for a response. Everything below this
// interface — connections, framing, retries — is out of scope here; a
// UnaryOutbound is consumed only as this interface.
type UnaryOutbound interface {
	// Call sends the given request through this outbound and returns its
	// response. This MUST be safe to call concurrently.
	Call(ctx context.Context, request *Request) (*Response, error)
}

// OnewayOutbound is a byte-sink side that knows how to send oneway requests
// for procedure calls.
type OnewayOutbound interface {
	// CallOneway sends the given request through this outbound and returns
	// an ack. This MUST be safe to call concurrently.
	CallOneway(ctx context.Context, request *Request) (Ack, error)
}
