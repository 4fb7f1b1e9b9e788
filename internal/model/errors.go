package model

import (
	"errors"
	"net/http"
)

// Kind classifies a pipeline failure for HTTP status mapping.
type Kind string

const (
	// KindMissingInput: no text, file, or instruction supplied by the caller.
	KindMissingInput Kind = "missing_input"
	// KindUnsupportedFileType: upload extension not handled by the extractor.
	KindUnsupportedFileType Kind = "unsupported_file_type"
	// KindFileReadError: upload could not be decoded or parsed.
	KindFileReadError Kind = "file_read_error"
	// KindEmptyContent: extraction produced no usable text.
	KindEmptyContent Kind = "empty_content"
	// KindGenerationBackend: the generative backend failed or timed out.
	KindGenerationBackend Kind = "generation_backend_error"
)

// RequestError is a classified, user-visible pipeline failure. All pipeline
// errors are one of these by the time they reach the HTTP layer; nothing
// here should ever crash the process.
type RequestError struct {
	Kind Kind
	Err  error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError wraps err with a failure kind.
func NewRequestError(kind Kind, err error) *RequestError {
	return &RequestError{Kind: kind, Err: err}
}

// HTTPStatus maps a failure to a response status: caller-input problems are
// 400, backend-dependency failures are 502, anything unclassified is 500.
func HTTPStatus(err error) int {
	var re *RequestError
	if !errors.As(err, &re) {
		return http.StatusInternalServerError
	}
	switch re.Kind {
	case KindGenerationBackend:
		return http.StatusBadGateway
	case KindMissingInput, KindUnsupportedFileType, KindFileReadError, KindEmptyContent:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// KindOf returns the failure kind of err, or "" when err is unclassified.
func KindOf(err error) Kind {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
