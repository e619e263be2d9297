package mgclient

// Cursor is a stateful view over a Connection in the style of
// database cursors: it tracks a row number, snapshots the column list
// per query, and fetches in batches of Arraysize by default. A cursor
// borrows its connection and never owns it; the connection's state
// machine still arbitrates who may execute.
type Cursor struct {
	conn *Connection

	// Arraysize is the default batch size for FetchMany. Defaults to
	// 1.
	Arraysize int

	closed    bool
	executed  bool
	drained   bool
	rownumber int
	columns   []string
	cache     []Record
}

// Execute resets the cursor and submits a query through its
// connection. In eager mode the whole result is drained into the
// cursor's cache, so the connection is idle again when Execute
// returns.
func (cur *Cursor) Execute(query string, params Params) error {
	if cur.closed {
		return errCursorClosed("execute")
	}
	cur.reset()
	columns, err := cur.conn.Execute(query, params)
	if err != nil {
		return err
	}
	cur.columns = columns
	cur.executed = true
	if !cur.conn.lazy {
		records, err := cur.conn.FetchAll()
		if err != nil {
			return err
		}
		cur.cache = records
	}
	return nil
}

// FetchOne returns the next row, or (nil, nil) once the result is
// exhausted. Repeated calls after exhaustion keep returning (nil,
// nil).
func (cur *Cursor) FetchOne() (*Record, error) {
	if cur.closed {
		return nil, errCursorClosed("fetch")
	}
	if !cur.executed {
		return nil, errCursorNotExecuting("fetch")
	}
	if !cur.conn.lazy {
		next := cur.rownumber + 1
		if next >= len(cur.cache) {
			return nil, nil
		}
		cur.rownumber = next
		rec := cur.cache[next]
		return &rec, nil
	}
	if cur.drained {
		return nil, nil
	}
	rec, err := cur.conn.FetchOne()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		cur.drained = true
		return nil, nil
	}
	cur.rownumber++
	return rec, nil
}

// FetchMany returns up to size rows; an underfull batch means the
// result is exhausted. size <= 0 means Arraysize.
func (cur *Cursor) FetchMany(size int) ([]Record, error) {
	if cur.closed {
		return nil, errCursorClosed("fetch")
	}
	if !cur.executed {
		return nil, errCursorNotExecuting("fetch")
	}
	if size <= 0 {
		size = cur.Arraysize
	}
	if size <= 0 {
		size = 1
	}
	if !cur.conn.lazy {
		start := cur.rownumber + 1
		end := start + size
		if end > len(cur.cache) {
			end = len(cur.cache)
		}
		if start > end {
			start = end
		}
		batch := make([]Record, end-start)
		copy(batch, cur.cache[start:end])
		cur.rownumber = end - 1
		return batch, nil
	}
	records := make([]Record, 0, size)
	for i := 0; i < size; i++ {
		rec, err := cur.FetchOne()
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

// FetchAll returns every remaining row.
func (cur *Cursor) FetchAll() ([]Record, error) {
	if cur.closed {
		return nil, errCursorClosed("fetch")
	}
	if !cur.executed {
		return nil, errCursorNotExecuting("fetch")
	}
	if !cur.conn.lazy {
		start := cur.rownumber + 1
		if start > len(cur.cache) {
			start = len(cur.cache)
		}
		batch := make([]Record, len(cur.cache)-start)
		copy(batch, cur.cache[start:])
		cur.rownumber = len(cur.cache) - 1
		return batch, nil
	}
	var records []Record
	for {
		rec, err := cur.FetchOne()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return records, nil
		}
		records = append(records, *rec)
	}
}

// Columns returns the column names captured by the last Execute, nil
// before that.
func (cur *Cursor) Columns() []string { return cur.columns }

// Rownumber is the index of the last delivered row, -1 before any row
// has been fetched.
func (cur *Cursor) Rownumber() int { return cur.rownumber }

// Close marks the cursor unusable. It is refused while the underlying
// connection is mid-result, and idempotent once closed.
func (cur *Cursor) Close() error {
	if cur.closed {
		return nil
	}
	switch cur.conn.status {
	case StatusExecuting, StatusFetching:
		return &StateError{Op: "close cursor", State: cur.conn.status, Code: CodeCloseWhileExecuting,
			Message: "cannot close cursor while a query is executing"}
	}
	cur.reset()
	cur.closed = true
	return nil
}

func (cur *Cursor) reset() {
	cur.executed = false
	cur.drained = false
	cur.rownumber = -1
	cur.columns = nil
	cur.cache = nil
}
