package vehicle

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Every kind maps to the same external shape;
// only the reason text differs.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindTransport
	KindUpstream
	KindDispatch
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindUpstream:
		return "upstream"
	case KindDispatch:
		return "dispatch"
	default:
		return "unknown"
	}
}

// Error is returned by every failing adapter operation.
type Error struct {
	Kind   Kind
	Op     Operation
	Reason string // upstream reason, KindUpstream only
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("vehicle %s: %s error", e.Op, e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Result returns the external failure body for e.
func (e *Error) Result() ErrorResult {
	switch e.Kind {
	case KindUpstream:
		return ErrorResult{Status: StatusFailed, Reason: e.Reason}
	case KindDispatch:
		return ErrorResult{Status: StatusFailed, Reason: ReasonDispatch}
	default:
		return ErrorResult{Status: StatusFailed, Reason: ReasonConnection}
	}
}

// ResultFor returns the external failure body for any error. Errors that
// are not an *Error are treated as transport failures.
func ResultFor(err error) ErrorResult {
	var e *Error
	if errors.As(err, &e) {
		return e.Result()
	}
	return ErrorResult{Status: StatusFailed, Reason: ReasonConnection}
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// UpstreamError reports a business failure returned by a vendor API.
func UpstreamError(reason string, err error) *Error {
	return &Error{Kind: KindUpstream, Reason: reason, Err: err}
}

// DispatchError reports a request that names no known operation.
func DispatchError(err error) *Error {
	return &Error{Kind: KindDispatch, Err: err}
}
