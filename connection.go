package mgclient

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/google/uuid"

	"github.com/memgraph/mgclient-go/protocol"
	"github.com/memgraph/mgclient-go/transport"
	"github.com/memgraph/mgclient-go/transport/bolt"
)

// Status is the lifecycle state of a Connection.
type Status int

const (
	// StatusReady accepts a new query.
	StatusReady Status = iota
	// StatusInTransaction accepts a new query inside the open explicit
	// transaction.
	StatusInTransaction
	// StatusExecuting has a submitted query whose rows have not all
	// been fetched.
	StatusExecuting
	// StatusFetching is streaming rows of the current result.
	StatusFetching
	// StatusClosed is terminal: the connection was closed deliberately.
	StatusClosed
	// StatusBad is terminal: a protocol failure corrupted the
	// transport and the connection was abandoned.
	StatusBad
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusInTransaction:
		return "in_transaction"
	case StatusExecuting:
		return "executing"
	case StatusFetching:
		return "fetching"
	case StatusClosed:
		return "closed"
	case StatusBad:
		return "bad"
	default:
		return "unknown"
	}
}

// Connection is a single session with the server. It owns the
// transport exclusively and is not safe for concurrent use; callers
// needing cross-goroutine access must serialize externally.
type Connection struct {
	session transport.Session
	logger  *slog.Logger

	status     Status
	lazy       bool
	autocommit bool
	arraysize  int
	released   bool

	columns   []string
	summary   map[string]Value
	buffer    []Record
	bufferPos int
}

// Connect establishes a session. A nil params is treated as
// DefaultConnectParams; a zero-value params gets the documented
// defaults filled in.
func Connect(params *ConnectParams) (*Connection, error) {
	p := DefaultConnectParams()
	if params != nil {
		p = *params
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	p.applyDefaults()

	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("session_id", uuid.NewString())

	cfg := p.transportConfig()
	cfg.Logger = logger
	sess, err := bolt.Dial(cfg)
	if err != nil {
		return nil, &ConnectionError{
			Message: fmt.Sprintf("connect to %s:%d failed", cfg.Host, cfg.Port),
			Cause:   err,
		}
	}
	logger.Info("session ready",
		"host", cfg.Host, "port", cfg.Port, "ssl", p.SSLMode.String(),
		"lazy", p.Lazy, "autocommit", p.Autocommit)
	return newConnection(sess, &p, logger), nil
}

// newConnection wires an engine over an already established transport.
// Tests drive the state machine through this seam.
func newConnection(sess transport.Session, params *ConnectParams, logger *slog.Logger) *Connection {
	return &Connection{
		session:    sess,
		logger:     logger,
		status:     StatusReady,
		lazy:       params.Lazy,
		autocommit: params.Autocommit,
		arraysize:  1,
	}
}

// Status reports the current lifecycle state.
func (c *Connection) Status() Status { return c.status }

// Lazy reports whether rows are pulled on demand.
func (c *Connection) Lazy() bool { return c.lazy }

// Autocommit reports whether every query runs in its own transaction.
func (c *Connection) Autocommit() bool { return c.autocommit }

// Arraysize is the default batch size used by FetchMany.
func (c *Connection) Arraysize() int { return c.arraysize }

// SetArraysize changes the default FetchMany batch size. Values below
// one are pinned to one.
func (c *Connection) SetArraysize(n int) {
	if n < 1 {
		n = 1
	}
	c.arraysize = n
}

// SetLazy switches the result consumption mode. Legal only while
// Ready.
func (c *Connection) SetLazy(lazy bool) error {
	if c.status != StatusReady {
		return errInvalidState("change lazy mode", c.status)
	}
	c.lazy = lazy
	return nil
}

// SetAutocommit switches the transaction mode. Legal only while Ready.
func (c *Connection) SetAutocommit(autocommit bool) error {
	if c.status != StatusReady {
		return errInvalidState("change autocommit mode", c.status)
	}
	c.autocommit = autocommit
	return nil
}

// Columns returns the column names of the current query, nil before
// the first Execute.
func (c *Connection) Columns() []string { return c.columns }

// Summary returns the execution summary captured when the last result
// stream completed, nil before that. The caller must treat the map as
// read-only.
func (c *Connection) Summary() map[string]Value { return c.summary }

// SummaryInfo returns a typed view of Summary, or nil when no summary
// has been captured yet.
func (c *Connection) SummaryInfo() (*SummaryInfo, error) {
	if c.summary == nil {
		return nil, nil
	}
	return decodeSummaryInfo(c.summary)
}

// Execute submits a query and returns its column names. With
// autocommit off, the first Execute after connect, Commit or Rollback
// silently opens a transaction first. In eager mode the whole result
// is buffered before Execute returns; rows are then handed out by
// FetchOne without further I/O.
func (c *Connection) Execute(query string, params Params) ([]string, error) {
	if err := c.gate("execute"); err != nil {
		return nil, err
	}
	encoded, err := encodeParams(params)
	if err != nil {
		return nil, err
	}

	if !c.autocommit && c.status == StatusReady {
		if err := c.runControl("BEGIN"); err != nil {
			return nil, err
		}
		c.status = StatusInTransaction
	}

	c.columns = nil
	c.summary = nil
	c.buffer = nil
	c.bufferPos = 0

	columns, err := c.session.Run(query, encoded)
	if err != nil {
		return nil, c.poison("run", err)
	}
	c.columns = columns
	c.status = StatusExecuting
	c.logger.Debug("query submitted",
		"fingerprint", fmt.Sprintf("%016x", xxhash.Sum64String(query)),
		"params", len(params), "columns", len(columns))

	if !c.lazy {
		if err := c.drain(); err != nil {
			return nil, err
		}
	}
	return columns, nil
}

// FetchOne returns the next row of the current result, or (nil, nil)
// at exhaustion. Exhaustion moves the connection back to Ready
// (autocommit) or InTransaction.
func (c *Connection) FetchOne() (*Record, error) {
	switch c.status {
	case StatusReady, StatusInTransaction:
		return nil, errNotExecuting("fetch", c.status)
	case StatusClosed:
		return nil, errClosed("fetch")
	case StatusBad:
		return nil, errBad("fetch")
	}
	if !c.lazy {
		return c.nextBuffered(), nil
	}
	return c.fetchLazy()
}

// FetchMany returns up to size rows, stopping early at exhaustion.
// size <= 0 means Arraysize.
func (c *Connection) FetchMany(size int) ([]Record, error) {
	if size <= 0 {
		size = c.arraysize
	}
	records := make([]Record, 0, size)
	for i := 0; i < size; i++ {
		rec, err := c.FetchOne()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}
		records = append(records, *rec)
	}
	return records, nil
}

// FetchAll returns every remaining row of the current result.
func (c *Connection) FetchAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := c.FetchOne()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return records, nil
		}
		records = append(records, *rec)
	}
}

// Commit closes the open transaction. It is a successful no-op in
// autocommit mode or when no transaction is open.
func (c *Connection) Commit() error {
	if err := c.gate("commit"); err != nil {
		return err
	}
	if c.autocommit || c.status != StatusInTransaction {
		return nil
	}
	if err := c.runControl("COMMIT"); err != nil {
		return err
	}
	c.status = StatusReady
	c.logger.Debug("transaction committed")
	return nil
}

// Rollback discards the open transaction. It is a successful no-op in
// autocommit mode; calling it with no open transaction is an error.
func (c *Connection) Rollback() error {
	if err := c.gate("rollback"); err != nil {
		return err
	}
	if c.autocommit {
		return nil
	}
	if c.status != StatusInTransaction {
		return errNotInTransaction("rollback", c.status)
	}
	if err := c.runControl("ROLLBACK"); err != nil {
		return err
	}
	c.status = StatusReady
	c.logger.Debug("transaction rolled back")
	return nil
}

// Close shuts the session down cleanly. Closing mid-result is refused;
// consume or roll back first. Close is idempotent once closed, and
// fails from Bad even though the transport is already released.
func (c *Connection) Close() error {
	switch c.status {
	case StatusExecuting, StatusFetching:
		return errCloseWhileExecuting(c.status)
	case StatusClosed:
		return nil
	case StatusBad:
		return errBad("close")
	}
	c.status = StatusClosed
	c.release()
	c.logger.Debug("session closed")
	return nil
}

// Cursor returns a cursor view over the connection. The cursor borrows
// the connection; it never owns it.
func (c *Connection) Cursor() *Cursor {
	return &Cursor{conn: c, Arraysize: 1, rownumber: -1}
}

// gate rejects operations that require an idle connection.
func (c *Connection) gate(op string) error {
	switch c.status {
	case StatusExecuting:
		return errAlreadyExecuting(op)
	case StatusFetching:
		return errAlreadyFetching(op)
	case StatusClosed:
		return errClosed(op)
	case StatusBad:
		return errBad(op)
	default:
		return nil
	}
}

// poison abandons the connection after a protocol failure: the status
// becomes Bad and the transport is released on the spot, so no handle
// outlives the corruption.
func (c *Connection) poison(op string, err error) error {
	c.status = StatusBad
	c.release()
	c.logger.Error("connection poisoned", "op", op, "error", err)
	var perr *ProtocolError
	if errors.As(err, &perr) {
		return err
	}
	return &ProtocolError{Message: op + " failed", Cause: err}
}

// release closes the transport exactly once.
func (c *Connection) release() {
	if c.released {
		return
	}
	c.released = true
	if err := c.session.Close(); err != nil {
		c.logger.Debug("transport close failed", "error", err)
	}
}

// restingStatus is the state a connection returns to after a result
// stream completes.
func (c *Connection) restingStatus() Status {
	if c.autocommit {
		return StatusReady
	}
	return StatusInTransaction
}

// runControl executes a transaction control statement and drains its
// result stream. BEGIN, COMMIT and ROLLBACK are ordinary queries at
// the protocol level; no dedicated transaction messages exist.
func (c *Connection) runControl(stmt string) error {
	op := strings.ToLower(stmt)
	if _, err := c.session.Run(stmt, protocol.MakeMap(nil)); err != nil {
		return c.poison(op, err)
	}
	if err := c.session.Pull(protocol.PullAll); err != nil {
		return c.poison(op, err)
	}
	for {
		row, done, err := c.session.Fetch()
		if err != nil {
			return c.poison(op, err)
		}
		if row != nil {
			continue
		}
		if done.HasMore {
			if err := c.session.Pull(protocol.PullAll); err != nil {
				return c.poison(op, err)
			}
			continue
		}
		return nil
	}
}

// drain buffers the whole result stream for eager consumption. A row
// that cannot be represented client-side aborts buffering but keeps
// consuming the wire, so the connection comes out clean; the decode
// error is reported once the stream ends.
func (c *Connection) drain() error {
	if err := c.session.Pull(protocol.PullAll); err != nil {
		return c.poison("pull", err)
	}
	var decodeErr error
	for {
		row, done, err := c.session.Fetch()
		if err != nil {
			return c.poison("fetch", err)
		}
		if row != nil {
			if decodeErr != nil {
				continue
			}
			rec, derr := decodeRow(row)
			if derr != nil {
				var encErr *EncodingError
				if !errors.As(derr, &encErr) {
					return c.poison("decode", derr)
				}
				decodeErr = derr
				c.buffer = nil
				continue
			}
			c.buffer = append(c.buffer, rec)
			continue
		}
		if done.HasMore {
			if err := c.session.Pull(protocol.PullAll); err != nil {
				return c.poison("pull", err)
			}
			continue
		}
		summary, derr := decodeSummary(done.Summary)
		if derr != nil && decodeErr == nil {
			var encErr *EncodingError
			if !errors.As(derr, &encErr) {
				return c.poison("decode", derr)
			}
			decodeErr = derr
		}
		if decodeErr != nil {
			c.status = c.restingStatus()
			return decodeErr
		}
		c.summary = summary
		return nil
	}
}

// nextBuffered pops the next eagerly buffered row. Exhaustion performs
// the deferred post-query transition.
func (c *Connection) nextBuffered() *Record {
	if c.bufferPos >= len(c.buffer) {
		c.buffer = nil
		c.bufferPos = 0
		c.status = c.restingStatus()
		return nil
	}
	rec := c.buffer[c.bufferPos]
	c.bufferPos++
	return &rec
}

// fetchLazy advances the streamed result by one row, pulling a new
// batch from the server whenever the previous one is exhausted.
func (c *Connection) fetchLazy() (*Record, error) {
	for {
		if c.status == StatusExecuting {
			if err := c.session.Pull(1); err != nil {
				return nil, c.poison("pull", err)
			}
			c.status = StatusFetching
		}
		row, done, err := c.session.Fetch()
		if err != nil {
			return nil, c.poison("fetch", err)
		}
		if row != nil {
			rec, derr := decodeRow(row)
			if derr != nil {
				var encErr *EncodingError
				if !errors.As(derr, &encErr) {
					return nil, c.poison("decode", derr)
				}
				// The record left the wire before decoding failed, so
				// the stream stays in sync and the next fetch is legal.
				return nil, derr
			}
			return &rec, nil
		}
		if done.HasMore {
			c.status = StatusExecuting
			continue
		}
		summary, derr := decodeSummary(done.Summary)
		if derr != nil {
			var encErr *EncodingError
			if !errors.As(derr, &encErr) {
				return nil, c.poison("decode", derr)
			}
			c.status = c.restingStatus()
			return nil, derr
		}
		c.summary = summary
		c.status = c.restingStatus()
		return nil, nil
	}
}
