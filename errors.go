package mgclient

import (
	"fmt"

	"github.com/memgraph/mgclient-go/protocol"
)

// DatabaseError is a failure reported by the server in response to a
// query. It is recoverable: the session resets the result stream and
// stays usable.
type DatabaseError = protocol.DatabaseError

// Codes carried by StateError.
const (
	CodeAlreadyExecuting    = "ALREADY_EXECUTING"
	CodeAlreadyFetching     = "ALREADY_FETCHING"
	CodeNotExecuting        = "NOT_EXECUTING"
	CodeNotInTransaction    = "NOT_IN_TRANSACTION"
	CodeConnectionClosed    = "CONNECTION_CLOSED"
	CodeConnectionBad       = "CONNECTION_BAD"
	CodeCursorClosed        = "CURSOR_CLOSED"
	CodeCloseWhileExecuting = "CLOSE_WHILE_EXECUTING"
	CodeInvalidState        = "INVALID_STATE"
)

// StateError reports an operation rejected because the connection or
// cursor is in the wrong state. The state is left unchanged, so the
// caller may retry after correcting the sequence of calls.
type StateError struct {
	// Op is the operation that was rejected.
	Op string
	// State is the connection status at the time of the call.
	State Status
	// Code identifies the precondition that failed.
	Code    string
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ConfigError reports invalid connection parameters.
type ConfigError struct {
	// Field names the offending parameter, empty when the problem
	// spans several fields.
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "INVALID_CONFIG: " + e.Reason
	}
	return fmt.Sprintf("INVALID_CONFIG: %s: %s", e.Field, e.Reason)
}

// ConnectionError reports a failure to establish a session: dial, TLS,
// handshake or authentication.
type ConnectionError struct {
	Message string
	Cause   error
}

func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("CONNECTION_FAILED: %s (caused by: %s)", e.Message, e.Cause.Error())
	}
	return "CONNECTION_FAILED: " + e.Message
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// ProtocolError reports a violation of the wire protocol or a failure
// to deliver a request. The session that produced it is poisoned: its
// transport has been released and every later call fails with a
// StateError.
type ProtocolError struct {
	Message string
	Cause   error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("PROTOCOL_VIOLATION: %s (caused by: %s)", e.Message, e.Cause.Error())
	}
	return "PROTOCOL_VIOLATION: " + e.Message
}

func (e *ProtocolError) Unwrap() error { return e.Cause }

// EncodingError reports a value that cannot be represented on the
// wire, or a wire value outside the representable range of its Go
// counterpart. Recoverable.
type EncodingError struct {
	// Param names the offending parameter, empty for values decoded
	// from results.
	Param  string
	Reason string
}

func (e *EncodingError) Error() string {
	if e.Param == "" {
		return "ENCODING_ERROR: " + e.Reason
	}
	return fmt.Sprintf("ENCODING_ERROR: parameter %q: %s", e.Param, e.Reason)
}

// UnsupportedValueError reports a parameter of a type that may never
// be sent to the server, no matter its value. Recoverable.
type UnsupportedValueError struct {
	// Type names the offending Go or graph type.
	Type string
}

func (e *UnsupportedValueError) Error() string {
	return "UNSUPPORTED_VALUE: " + e.Type + " is not a legal parameter type"
}

func errAlreadyExecuting(op string) error {
	return &StateError{Op: op, State: StatusExecuting, Code: CodeAlreadyExecuting,
		Message: "a query is already executing"}
}

func errAlreadyFetching(op string) error {
	return &StateError{Op: op, State: StatusFetching, Code: CodeAlreadyFetching,
		Message: "a result stream is already being fetched"}
}

func errNotExecuting(op string, state Status) error {
	return &StateError{Op: op, State: state, Code: CodeNotExecuting,
		Message: "no query is executing"}
}

func errNotInTransaction(op string, state Status) error {
	return &StateError{Op: op, State: state, Code: CodeNotInTransaction,
		Message: "connection is not in a transaction"}
}

func errClosed(op string) error {
	return &StateError{Op: op, State: StatusClosed, Code: CodeConnectionClosed,
		Message: "connection is closed"}
}

func errBad(op string) error {
	return &StateError{Op: op, State: StatusBad, Code: CodeConnectionBad,
		Message: "connection is in a bad state"}
}

func errCloseWhileExecuting(state Status) error {
	return &StateError{Op: "close", State: state, Code: CodeCloseWhileExecuting,
		Message: "cannot close connection while a query is executing"}
}

func errCursorClosed(op string) error {
	return &StateError{Op: op, Code: CodeCursorClosed,
		Message: "cursor is closed"}
}

func errCursorNotExecuting(op string) error {
	return &StateError{Op: op, Code: CodeNotExecuting,
		Message: "no result to fetch; call Execute first"}
}

func errInvalidState(op string, state Status) error {
	return &StateError{Op: op, State: state, Code: CodeInvalidState,
		Message: fmt.Sprintf("cannot %s while connection is %s", op, state)}
}
