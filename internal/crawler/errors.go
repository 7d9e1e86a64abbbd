package crawler

import (
	"errors"
	"fmt"
)

// ErrorType is the stage of the pipeline an error came from.
type ErrorType string

// Error types
const (
	ParseError      ErrorType = "parse"
	FetchError      ErrorType = "fetch"
	ExtractionError ErrorType = "extraction"
	ConfigError     ErrorType = "config"
	TimeoutError    ErrorType = "timeout"
)

// Common errors returned by the crawler.
var (
	ErrNoDocument = errors.New("no document to parse")
	ErrParse      = errors.New("could not parse document")
	ErrTimeout    = errors.New("operation timed out")
	ErrFetch      = errors.New("could not fetch page")
)

// Error carries the pipeline stage and function an error was raised in.
type Error struct {
	Type    ErrorType
	Func    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("[%s:%s] %v", e.Type, e.Func, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Func, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError wraps err with its stage and location. A nil err stays nil.
func WrapError(err error, errorType ErrorType, funcName, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Type: errorType, Func: funcName, Message: message, Err: err}
}

// WrapParseError wraps a parsing error
func WrapParseError(err error, funcName, message string) error {
	return WrapError(err, ParseError, funcName, message)
}

// WrapFetchError wraps a network error
func WrapFetchError(err error, funcName, message string) error {
	return WrapError(err, FetchError, funcName, message)
}

// WrapExtractionError wraps an extraction error
func WrapExtractionError(err error, funcName, message string) error {
	return WrapError(err, ExtractionError, funcName, message)
}

// WrapConfigError wraps a configuration error
func WrapConfigError(err error, funcName, message string) error {
	return WrapError(err, ConfigError, funcName, message)
}

// IsErrorType reports whether any error in err's chain has the given type.
func IsErrorType(err error, errorType ErrorType) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Type == errorType {
			return true
		}
		err = e.Err
	}
	return false
}

// IsParseError returns true if the error is a parse error
func IsParseError(err error) bool {
	return IsErrorType(err, ParseError)
}

// IsFetchError returns true if the error is a fetch error
func IsFetchError(err error) bool {
	return IsErrorType(err, FetchError)
}

// IsExtractionError returns true if the error is an extraction error
func IsExtractionError(err error) bool {
	return IsErrorType(err, ExtractionError)
}
