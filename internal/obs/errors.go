package obs

import (
	"fmt"
	"runtime"
	"time"
)

// ErrorCode classifies a business-level error surfaced at the API
// boundary. Fatal invariant violations from pkg/clob are never wrapped in
// one of these — they panic and are converted to a 500 by the API's
// recovery middleware instead.
type ErrorCode string

const (
	ErrInvalidOrder  ErrorCode = "INVALID_ORDER"
	ErrOrderNotFound ErrorCode = "ORDER_NOT_FOUND"
	ErrMarketNotFound ErrorCode = "MARKET_NOT_FOUND"
	ErrRateLimited   ErrorCode = "RATE_LIMITED"
	ErrInternal      ErrorCode = "INTERNAL"
)

// ClobError is a structured error carrying a code, a human message, and an
// optional wrapped cause plus call-site location for logging.
type ClobError struct {
	Code      ErrorCode
	Message   string
	Timestamp time.Time
	File      string
	Line      int
	Cause     error
}

func (e *ClobError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ClobError) Unwrap() error {
	return e.Cause
}

// New creates a ClobError, recording the caller's file/line for logs.
func New(code ErrorCode, message string) *ClobError {
	_, file, line, _ := runtime.Caller(1)
	return &ClobError{Code: code, Message: message, Timestamp: time.Now(), File: file, Line: line}
}

func Newf(code ErrorCode, format string, args ...interface{}) *ClobError {
	_, file, line, _ := runtime.Caller(1)
	return &ClobError{Code: code, Message: fmt.Sprintf(format, args...), Timestamp: time.Now(), File: file, Line: line}
}

// Wrap attaches a code and message to an existing error. Returns nil if err
// is nil, so call sites can Wrap unconditionally after a function call.
func Wrap(err error, code ErrorCode, message string) *ClobError {
	if err == nil {
		return nil
	}
	_, file, line, _ := runtime.Caller(1)
	return &ClobError{Code: code, Message: message, Timestamp: time.Now(), File: file, Line: line, Cause: err}
}

// CodeOf extracts the ErrorCode from err's chain, or "" if none is found.
func CodeOf(err error) ErrorCode {
	var ce *ClobError
	for err != nil {
		if c, ok := err.(*ClobError); ok {
			ce = c
			break
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
	}
	if ce == nil {
		return ""
	}
	return ce.Code
}

// IsClientError reports whether err should surface as a 4xx at the API
// boundary.
func IsClientError(err error) bool {
	switch CodeOf(err) {
	case ErrInvalidOrder, ErrOrderNotFound, ErrMarketNotFound, ErrRateLimited:
		return true
	default:
		return false
	}
}
