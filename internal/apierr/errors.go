// Package apierr defines the typed failures surfaced by the web service client.
//
// Every error returned across a package boundary is an *Error carrying a Kind.
// Kinds can be matched at any depth of the wrap chain with errors.Is against
// the exported sentinels:
//
//	if errors.Is(err, apierr.ErrConflictingQuery) { ... }
//
// Remote failures keep the raw response body verbatim for diagnostics:
//
//	if remote, ok := apierr.Remote(err); ok {
//		log.Println(remote.Status, remote.Body)
//	}
package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindInvalidFilterOperator
	KindConflictingQuery
	KindRemoteService
	KindConnection
	KindUnknownResource
	KindNotFillable
	KindNotFound
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInvalidFilterOperator:
		return "invalid_filter_operator"
	case KindConflictingQuery:
		return "conflicting_query"
	case KindRemoteService:
		return "remote_service"
	case KindConnection:
		return "connection"
	case KindUnknownResource:
		return "unknown_resource"
	case KindNotFillable:
		return "not_fillable"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. They only compare by kind.
var (
	ErrConfiguration         = &Error{Kind: KindConfiguration}
	ErrInvalidFilterOperator = &Error{Kind: KindInvalidFilterOperator}
	ErrConflictingQuery      = &Error{Kind: KindConflictingQuery}
	ErrRemoteService         = &Error{Kind: KindRemoteService}
	ErrConnection            = &Error{Kind: KindConnection}
	ErrUnknownResource       = &Error{Kind: KindUnknownResource}
	ErrNotFillable           = &Error{Kind: KindNotFillable}
	ErrNotFound              = &Error{Kind: KindNotFound}
)

// Error is a typed failure. Status and Body are only set for KindRemoteService.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Body    string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Kind == KindRemoteService && e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs a typed error.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Configuration reports a missing piece of setup.
func Configuration(format string, args ...interface{}) *Error {
	return New(KindConfiguration, fmt.Sprintf(format, args...), nil)
}

// InvalidFilterOperator reports an unrecognized operator code.
func InvalidFilterOperator(op string) *Error {
	return New(KindInvalidFilterOperator, fmt.Sprintf("invalid filter operator %q", op), nil)
}

// ConflictingQuery reports a lookup that cannot be combined with the current query.
func ConflictingQuery(message string) *Error {
	return New(KindConflictingQuery, message, nil)
}

// RemoteService reports a non-2xx answer from the web service.
func RemoteService(status int, body string) *Error {
	return &Error{
		Kind:    KindRemoteService,
		Message: "web service rejected the request",
		Status:  status,
		Body:    body,
	}
}

// Connection wraps any other failure talking to the web service.
func Connection(message string, err error) *Error {
	return New(KindConnection, message, err)
}

// UnknownResource reports a lookup for a resource name that is not registered.
func UnknownResource(name string) *Error {
	return New(KindUnknownResource, fmt.Sprintf("resource %q is not registered", name), nil)
}

// NotFillable reports a write to a field the resource does not declare.
func NotFillable(resource, field string) *Error {
	return New(KindNotFillable, fmt.Sprintf("field %q is not fillable on %s", field, resource), nil)
}

// NotFound reports a lookup that matched no record.
func NotFound(resource, what string) *Error {
	return New(KindNotFound, fmt.Sprintf("no %s matched %s", resource, what), nil)
}

// Remote returns the first remote service error in err's chain.
func Remote(err error) (*Error, bool) {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return nil, false
		}
		if e.Kind == KindRemoteService {
			return e, true
		}
		err = e.Err
	}
	return nil, false
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
