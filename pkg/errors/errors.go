package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeMissingSignature Code = "MISSING_SIGNATURE"
	CodeInvalidSignature Code = "INVALID_SIGNATURE"
	CodeNoCustomer       Code = "NO_CUSTOMER"
	CodeNoSubscription   Code = "NO_SUBSCRIPTION"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeDependency       Code = "DEPENDENCY_ERROR"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// Metadata describes how a code surfaces to callers. Every client-facing code
// answers 400 so the billing provider and the dashboard see one failure shape.
type Metadata struct {
	HTTPStatus    int
	Retryable     bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeMissingSignature: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "missing stripe-signature header",
	},
	CodeInvalidSignature: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "invalid webhook signature",
	},
	CodeNoCustomer: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "no customer found",
	},
	CodeNoSubscription: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "no subscription found",
	},
	CodeUnauthorized: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "unauthorized",
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "resource not found",
	},
	CodeValidation: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "validation failed",
	},
	CodeDependency: {
		HTTPStatus:    http.StatusBadRequest,
		Retryable:     true,
		PublicMessage: "downstream failure",
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "internal server error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// PublicMessage is the text written to the {"error": ...} body. Wrapped
// downstream causes are appended so callers see the underlying failure.
func (e *Error) PublicMessage() string {
	if e == nil {
		return ""
	}
	msg := e.message
	if msg == "" {
		msg = MetadataFor(e.code).PublicMessage
	}
	if e.code == CodeInternal {
		return MetadataFor(CodeInternal).PublicMessage
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
