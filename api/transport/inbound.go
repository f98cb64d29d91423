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

package transport

import "context"

// Router picks the HandlerSpec registered for a request's service and
// procedure. The dispatcher's method processor is the only consumer of
// this interface; how a Router is populated is the dispatcher's business,
// not the transport contract's.
type Router interface {
	// Choose returns the handler registered for the request, or an error if
	// none is registered.
	Choose(ctx context.Context, req *Request) (HandlerSpec, error)
}

// Inbound is a byte-source side that knows how to receive requests for
// procedure calls and hand them to a Router. Everything below this
// interface — sockets, framing, event loops — is out of scope here; an
// Inbound is consumed only as this interface.
type Inbound interface {
	// SetRouter configures the inbound to dispatch requests through router.
	SetRouter(router Router)

	// Start begins accepting new requests. The inbound must have a
	// configured router. Start MUST be idempotent.
	Start() error

	// Stop stops the inbound. No new requests will be processed after Stop
	// returns. Stop MUST be idempotent.
	Stop() error

	// SetFallbackHandler sets the handler used when no registered handler
	// matches an incoming request. Optional.
	SetFallbackHandler(HandlerSpec)
}
