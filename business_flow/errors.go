// Package businessflow contains the use cases that keep the metadata tags of tracked pages up to date
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// URL-related errors
	ErrInvalidURL         = errors.New("invalid page url")
	ErrURLNotFound        = errors.New("url not found")
	ErrURLAlreadyTracked  = errors.New("url is already tracked")
	ErrDispatchRequestNil = errors.New("dispatch request is nil")

	// Tag-related errors
	ErrTagDefinitionNotFound = errors.New("tag definition not found")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsInvalidURL(err error) bool {
	return errors.Is(err, ErrInvalidURL)
}

func IsURLNotFound(err error) bool {
	return errors.Is(err, ErrURLNotFound)
}

func IsURLAlreadyTracked(err error) bool {
	return errors.Is(err, ErrURLAlreadyTracked)
}
