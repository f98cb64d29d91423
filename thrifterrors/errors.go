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

// Package thrifterrors carries the error taxonomy of the codec and RPC
// dispatcher: a single concrete error type tagged with a Kind, rather than
// a Go error type per failure mode, so every layer (protocol, codec,
// dispatcher) can report structured failures the same way.
package thrifterrors

import (
	"bytes"
	"fmt"
)

// Kind classifies a thriftError. Each Kind corresponds to one failure
// category the codec or dispatcher can raise.
type Kind int

const (
	// KindUnknown is never set explicitly; a zero-value Kind indicates a
	// caller built a thriftError without going through a constructor.
	KindUnknown Kind = iota

	// KindMetadata reports a problem with a struct/enum/method descriptor:
	// duplicate registration, a forward reference that never resolved, a
	// struct missing its construction plan.
	KindMetadata

	// KindProtocol reports malformed bytes on the wire: a bad version
	// header, a negative collection size, a skip that recursed past its
	// depth limit.
	KindProtocol

	// KindApplication reports a handler-level failure that is not one of
	// the method's declared exceptions — the catch-all a server maps to
	// TApplicationException(INTERNAL_ERROR).
	KindApplication

	// KindApplicationType reports a mismatch in the RPC envelope itself:
	// wrong method name, wrong sequence id, wrong message type, or a
	// _result struct with no success field and no exception field set.
	// This corresponds one-to-one with TApplicationException's
	// ExceptionType values.
	KindApplicationType

	// KindTransport reports a failure from the byte sink/source the
	// protocol is layered over (a read or write that returned an error
	// from the underlying transport).
	KindTransport

	// KindDeclaredException wraps one of a method's IDL-declared
	// exceptions so the dispatcher can tell it apart from KindApplication
	// without inspecting the concrete Go type.
	KindDeclaredException
)

func (k Kind) String() string {
	switch k {
	case KindMetadata:
		return "metadata"
	case KindProtocol:
		return "protocol"
	case KindApplication:
		return "application"
	case KindApplicationType:
		return "application-type"
	case KindTransport:
		return "transport"
	case KindDeclaredException:
		return "declared-exception"
	default:
		return "unknown"
	}
}

// ApplicationTypeReason refines KindApplicationType errors, mirroring the
// ExceptionType enum of TApplicationException.
type ApplicationTypeReason int

const (
	ReasonUnknown ApplicationTypeReason = iota
	ReasonUnknownMethod
	ReasonInvalidMessageType
	ReasonWrongMethodName
	ReasonBadSequenceID
	ReasonMissingResult
	ReasonInternalError
	ReasonProtocolError
)

func (r ApplicationTypeReason) String() string {
	switch r {
	case ReasonUnknownMethod:
		return "unknown-method"
	case ReasonInvalidMessageType:
		return "invalid-message-type"
	case ReasonWrongMethodName:
		return "wrong-method-name"
	case ReasonBadSequenceID:
		return "bad-sequence-id"
	case ReasonMissingResult:
		return "missing-result"
	case ReasonInternalError:
		return "internal-error"
	case ReasonProtocolError:
		return "protocol-error"
	default:
		return "unknown"
	}
}

// thriftError is the single concrete error type every constructor in this
// package returns. Callers identify a thriftError by Kind, not by Go type
// assertion against a family of distinct structs.
type thriftError struct {
	kind    Kind
	reason  ApplicationTypeReason
	name    string
	message string
	cause   error
	value   interface{}
}

func (e *thriftError) Error() string {
	buf := bytes.NewBuffer(nil)
	buf.WriteString("kind:")
	buf.WriteString(e.kind.String())
	if e.kind == KindApplicationType && e.reason != ReasonUnknown {
		buf.WriteString(" reason:")
		buf.WriteString(e.reason.String())
	}
	if e.name != "" {
		buf.WriteString(" name:")
		buf.WriteString(e.name)
	}
	if e.message != "" {
		buf.WriteString(" message:")
		buf.WriteString(e.message)
	}
	return buf.String()
}

func (e *thriftError) Unwrap() error { return e.cause }

// IsThriftError reports whether err is a non-nil error raised by this
// package.
func IsThriftError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*thriftError)
	return ok
}

// ErrorKind returns the Kind of err, or KindUnknown if err was not raised
// by this package.
func ErrorKind(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	te, ok := err.(*thriftError)
	if !ok {
		return KindUnknown
	}
	return te.kind
}

// ApplicationTypeReasonOf returns the ApplicationTypeReason of err, or
// ReasonUnknown if err is not a KindApplicationType thriftError.
func ApplicationTypeReasonOf(err error) ApplicationTypeReason {
	te, ok := err.(*thriftError)
	if !ok || te.kind != KindApplicationType {
		return ReasonUnknown
	}
	return te.reason
}

// ExceptionName returns the name of the `_result` field that carries a
// KindDeclaredException error's value, or "" otherwise.
func ExceptionName(err error) string {
	te, ok := err.(*thriftError)
	if !ok {
		return ""
	}
	return te.name
}

// Metadataf builds a KindMetadata error.
func Metadataf(format string, args ...interface{}) error {
	return &thriftError{kind: KindMetadata, message: sprintf(format, args)}
}

// Protocolf builds a KindProtocol error.
func Protocolf(format string, args ...interface{}) error {
	return &thriftError{kind: KindProtocol, message: sprintf(format, args)}
}

// WrapProtocol wraps an underlying error (typically from a protocol
// implementation's I/O call) as a KindProtocol error without losing it,
// so callers can still unwrap down to the root cause.
func WrapProtocol(cause error, format string, args ...interface{}) error {
	return &thriftError{kind: KindProtocol, message: sprintf(format, args), cause: cause}
}

// Applicationf builds a KindApplication error — the shape a server wraps
// a recovered handler panic or uncaught error in before writing the
// `_result` envelope's TApplicationException.
func Applicationf(format string, args ...interface{}) error {
	return &thriftError{kind: KindApplication, message: sprintf(format, args)}
}

// ApplicationTypef builds a KindApplicationType error with the given
// reason, corresponding to one TApplicationException.ExceptionType value.
func ApplicationTypef(reason ApplicationTypeReason, format string, args ...interface{}) error {
	return &thriftError{kind: KindApplicationType, reason: reason, message: sprintf(format, args)}
}

// Transportf builds a KindTransport error.
func Transportf(format string, args ...interface{}) error {
	return &thriftError{kind: KindTransport, message: sprintf(format, args)}
}

// WrapTransport wraps an underlying transport error as a KindTransport error.
func WrapTransport(cause error, format string, args ...interface{}) error {
	return &thriftError{kind: KindTransport, message: sprintf(format, args), cause: cause}
}

// DeclaredException wraps value (the decoded exception struct) as a
// KindDeclaredException error carrying exceptionName, so the client-side
// method handler can return it to the caller as the method's declared Go
// error type once the caller type-asserts past thriftError — in practice
// method stubs generated (or hand-written) for a given service unwrap
// ExceptionValue themselves; DeclaredException exists so generic
// dispatcher code has a uniform error to propagate before the method
// stub unwraps it.
func DeclaredException(exceptionName string, value interface{}) error {
	return &thriftError{kind: KindDeclaredException, name: exceptionName, value: value}
}

// ExceptionValue returns the decoded exception struct carried by a
// KindDeclaredException error, or nil otherwise.
func ExceptionValue(err error) interface{} {
	te, ok := err.(*thriftError)
	if !ok {
		return nil
	}
	return te.value
}

func sprintf(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
