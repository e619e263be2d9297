// Package mock provides a scripted transport.Session for exercising the
// connection state machine without a server.
package mock

import (
	"fmt"

	"github.com/memgraph/mgclient-go/protocol"
	"github.com/memgraph/mgclient-go/transport"
)

// Result scripts the outcome of one Run: its column names, the rows the
// server would stream, and the final summary metadata.
type Result struct {
	Columns []string
	Rows    [][]protocol.Value
	Summary map[string]protocol.Value
}

// event is one pending Fetch outcome.
type event struct {
	row  *transport.Row
	done *transport.Done
}

// Session implements transport.Session against scripted results.
// Transaction control statements (BEGIN, COMMIT, ROLLBACK) always
// produce an empty result without consuming the script, so tests only
// script the queries they care about. Like the contract it fakes, a
// Session is single-goroutine.
type Session struct {
	results []Result
	next    int

	remaining [][]protocol.Value
	summary   map[string]protocol.Value
	queue     []event

	runErr   error
	pullErr  error
	fetchErr error
	closeErr error

	runCalls   int
	pullCalls  int
	fetchCalls int
	closeCalls int

	queries   []string
	params    []protocol.Value
	pullSizes []int64
	closed    bool
}

// NewSession creates an empty scripted session.
func NewSession() *Session {
	return &Session{}
}

// WithResult appends a scripted result, consumed by Run calls in order.
func (m *Session) WithResult(r Result) *Session {
	m.results = append(m.results, r)
	return m
}

// WithRunError configures Run to fail.
func (m *Session) WithRunError(err error) *Session {
	m.runErr = err
	return m
}

// WithPullError configures Pull to fail.
func (m *Session) WithPullError(err error) *Session {
	m.pullErr = err
	return m
}

// WithFetchError configures Fetch to fail.
func (m *Session) WithFetchError(err error) *Session {
	m.fetchErr = err
	return m
}

// WithCloseError configures Close to fail.
func (m *Session) WithCloseError(err error) *Session {
	m.closeErr = err
	return m
}

// Run implements transport.Session.
func (m *Session) Run(query string, params protocol.Value) ([]string, error) {
	m.runCalls++
	m.queries = append(m.queries, query)
	m.params = append(m.params, params)

	if m.runErr != nil {
		return nil, m.runErr
	}

	r := Result{Summary: map[string]protocol.Value{}}
	if !isControlStatement(query) && m.next < len(m.results) {
		r = m.results[m.next]
		m.next++
	}

	m.remaining = r.Rows
	m.summary = r.Summary
	if m.summary == nil {
		m.summary = map[string]protocol.Value{}
	}
	m.queue = nil

	if r.Columns == nil {
		return []string{}, nil
	}
	return r.Columns, nil
}

// Pull implements transport.Session. It queues the requested slice of
// the current result's rows plus the trailing completion event.
func (m *Session) Pull(n int64) error {
	m.pullCalls++
	m.pullSizes = append(m.pullSizes, n)

	if m.pullErr != nil {
		return m.pullErr
	}

	k := len(m.remaining)
	if n != protocol.PullAll && int(n) < k {
		k = int(n)
	}
	for _, values := range m.remaining[:k] {
		m.queue = append(m.queue, event{row: &transport.Row{Values: values}})
	}
	m.remaining = m.remaining[k:]

	if len(m.remaining) > 0 {
		m.queue = append(m.queue, event{done: &transport.Done{HasMore: true}})
	} else {
		m.queue = append(m.queue, event{done: &transport.Done{Summary: m.summary}})
	}
	return nil
}

// Fetch implements transport.Session.
func (m *Session) Fetch() (*transport.Row, *transport.Done, error) {
	m.fetchCalls++

	if m.fetchErr != nil {
		return nil, nil, m.fetchErr
	}
	if len(m.queue) == 0 {
		return nil, nil, fmt.Errorf("mock: fetch without a pending stream")
	}
	ev := m.queue[0]
	m.queue = m.queue[1:]
	return ev.row, ev.done, nil
}

// Close implements transport.Session.
func (m *Session) Close() error {
	m.closeCalls++
	m.closed = true
	return m.closeErr
}

// RunCount returns the number of Run calls.
func (m *Session) RunCount() int { return m.runCalls }

// PullCount returns the number of Pull calls.
func (m *Session) PullCount() int { return m.pullCalls }

// FetchCount returns the number of Fetch calls.
func (m *Session) FetchCount() int { return m.fetchCalls }

// CloseCount returns the number of Close calls.
func (m *Session) CloseCount() int { return m.closeCalls }

// Queries returns every query text submitted, control statements
// included.
func (m *Session) Queries() []string {
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}

// Params returns the encoded parameter map of each Run, in order.
func (m *Session) Params() []protocol.Value {
	out := make([]protocol.Value, len(m.params))
	copy(out, m.params)
	return out
}

// PullSizes returns the batch size of each Pull, in order.
func (m *Session) PullSizes() []int64 {
	out := make([]int64, len(m.pullSizes))
	copy(out, m.pullSizes)
	return out
}

// IsClosed reports whether Close has been called.
func (m *Session) IsClosed() bool { return m.closed }

// Reset clears scripted results, histories, and counters.
func (m *Session) Reset() {
	*m = Session{}
}

func isControlStatement(query string) bool {
	switch query {
	case "BEGIN", "COMMIT", "ROLLBACK":
		return true
	}
	return false
}
