// Package transport defines the wire session contract driven by the
// connection state machine, together with the dial configuration shared
// by its implementations.
package transport

import (
	"log/slog"
	"time"

	"github.com/memgraph/mgclient-go/protocol"
)

// Row is one streamed record, its values still wire-shaped.
type Row struct {
	Values []protocol.Value
}

// Done reports completion of the current stream segment: whether the
// server holds more records for a further pull, and the raw summary
// metadata it sent.
type Done struct {
	HasMore bool
	Summary map[string]protocol.Value
}

// Session is an established Bolt connection. Implementations are not
// safe for concurrent use; the owning connection serializes access.
type Session interface {
	// Run submits a query with an encoded parameter map and returns the
	// result column names. A server failure comes back as a
	// *protocol.DatabaseError after the stream has been reset.
	Run(query string, params protocol.Value) ([]string, error)

	// Pull requests up to n records from the current result;
	// protocol.PullAll requests everything remaining.
	Pull(n int64) error

	// Fetch reads the next stream event. Exactly one of row and done is
	// non-nil on success.
	Fetch() (*Row, *Done, error)

	// Close announces departure best-effort and releases the socket.
	// Safe to call more than once.
	Close() error
}

// TrustCallback inspects the server identity after the TLS handshake and
// may veto the connection. fingerprint is the hex SHA-256 digest of the
// peer certificate.
type TrustCallback func(hostname, address, fingerprint string) bool

// Config carries everything a dialer needs to produce a Session.
type Config struct {
	// Host and Port locate the server.
	Host string
	Port uint16

	// Username and Password form the auth principal; both empty means
	// no authentication.
	Username string
	Password string

	// ClientName is sent as the Bolt user agent.
	ClientName string

	// UseTLS upgrades the socket before the handshake. Certificate
	// verification is delegated to TrustCallback; absent a callback the
	// encrypted channel is accepted as-is.
	UseTLS bool

	// CertFile and KeyFile are the optional client certificate pair for
	// mutual TLS.
	CertFile string
	KeyFile  string

	// TrustCallback, when set, decides whether to keep the connection
	// after the TLS handshake.
	TrustCallback TrustCallback

	// DialTimeout bounds the TCP connect and TLS handshake.
	DialTimeout time.Duration

	// Logger receives transport-level debug events; nil discards.
	Logger *slog.Logger
}

// Metrics counts wire activity for a single session.
type Metrics struct {
	// MessagesSent is the number of requests written.
	MessagesSent uint64

	// MessagesReceived is the number of responses read.
	MessagesReceived uint64

	// BytesSent is the total payload bytes written, framing included.
	BytesSent uint64

	// BytesReceived is the total payload bytes read, framing included.
	BytesReceived uint64

	// Errors is the number of wire operations that failed.
	Errors uint64
}
