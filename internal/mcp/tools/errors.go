package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/harlens/internal/body"
	"github.com/usestring/harlens/internal/overview"
	"github.com/usestring/harlens/internal/query"
	"github.com/usestring/harlens/pkg/har"
	"github.com/usestring/harlens/pkg/privdata"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeParseError     = "PARSE_ERROR"
	ErrCodeURLError       = "URL_ERROR"
	ErrCodeExpansionError = "EXPANSION_ERROR"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapError converts an engine error to a coded error. Errors that are
// already coded pass through unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	var (
		parseErr *har.ParseError
		indexErr *body.IndexError
		urlErr   *overview.URLError
		expErr   *privdata.ExpansionError
	)
	switch {
	case errors.As(err, &parseErr):
		coded = &CodedError{Code: ErrCodeParseError, Message: "cannot load HAR file", Cause: err}
	case errors.As(err, &indexErr):
		coded = &CodedError{Code: ErrCodeNotFound, Message: fmt.Sprintf("entry %d not found", indexErr.Index), Cause: err}
	case errors.As(err, &urlErr):
		coded = &CodedError{Code: ErrCodeURLError, Message: fmt.Sprintf("entry %d has an invalid URL", urlErr.Entry), Cause: err}
	case errors.As(err, &expErr):
		coded = &CodedError{Code: ErrCodeExpansionError, Message: "cannot expand private data", Cause: err}
	case errors.Is(err, query.ErrNoPostData):
		coded = &CodedError{Code: ErrCodeNotFound, Message: "request has no body", Cause: err}
	default:
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: err.Error()}
	}

	slog.Warn("tool error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)
	return coded
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
