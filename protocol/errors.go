package protocol

import "fmt"

// ErrorCode classifies wire-level failures across the codec and framing
// layers.
type ErrorCode int

const (
	// Handshake errors (1000-1099)
	ErrorCodeVersionRejected ErrorCode = 1001

	// PackStream errors (2000-2099)
	ErrorCodeTruncated    ErrorCode = 2001
	ErrorCodeBadMarker    ErrorCode = 2002
	ErrorCodeSizeLimit    ErrorCode = 2003
	ErrorCodeBadMapKey    ErrorCode = 2004
	ErrorCodeTrailingData ErrorCode = 2005

	// Message errors (2100-2199)
	ErrorCodeBadMessage        ErrorCode = 2101
	ErrorCodeUnexpectedMessage ErrorCode = 2102
)

// CodecError reports malformed wire data. It always carries a structured
// code so callers can match without string comparison.
type CodecError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func errTruncated(what string) *CodecError {
	return &CodecError{
		Code:    ErrorCodeTruncated,
		Message: fmt.Sprintf("truncated %s", what),
	}
}

func errSizeLimit(n int) *CodecError {
	return &CodecError{
		Code:    ErrorCodeSizeLimit,
		Message: fmt.Sprintf("container of %d elements exceeds the wire size limit", n),
	}
}

// DatabaseError is the payload of a server FAILURE response: a
// machine-readable status code and a human-readable message. The codec
// extracts it without interpreting it.
type DatabaseError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *DatabaseError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
