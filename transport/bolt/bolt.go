// Package bolt implements the transport contract over a TCP socket,
// optionally TLS-upgraded, speaking the Bolt handshake and message
// protocol.
package bolt

import (
	"bytes"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/memgraph/mgclient-go/protocol"
	"github.com/memgraph/mgclient-go/transport"
)

const defaultDialTimeout = 5 * time.Second

// Session is a live Bolt connection. It implements transport.Session and
// is confined to a single goroutine.
type Session struct {
	conn    net.Conn
	reader  *protocol.ChunkReader
	writer  *protocol.ChunkWriter
	version protocol.Version
	logger  *slog.Logger
	metrics transport.Metrics

	// buf is reused for building outgoing message bodies.
	buf    bytes.Buffer
	closed bool
}

// Dial establishes a Bolt session: TCP connect, optional TLS upgrade,
// version handshake, then HELLO authentication. On any failure the
// socket is closed before returning.
func Dial(cfg transport.Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = defaultDialTimeout
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port)))

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	if cfg.UseTLS {
		conn, err = upgradeTLS(conn, cfg, addr, timeout)
		if err != nil {
			return nil, err
		}
	}

	s := &Session{conn: conn, logger: logger}
	s.reader = protocol.NewChunkReader(&countingReader{r: conn, n: &s.metrics.BytesReceived})
	s.writer = protocol.NewChunkWriter(&countingWriter{w: conn, n: &s.metrics.BytesSent})

	if err := s.handshake(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := s.hello(cfg); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Debug("bolt session established",
		"address", addr,
		"bolt_version", s.version.String(),
		"tls", cfg.UseTLS)
	return s, nil
}

// upgradeTLS wraps conn in a TLS client session. Certificate
// verification follows the trust-callback model: the handshake accepts
// the encrypted channel and the callback, when present, gets the final
// word over the peer certificate fingerprint.
func upgradeTLS(conn net.Conn, cfg transport.Config, addr string, timeout time.Duration) (net.Conn, error) {
	tlsConfig := &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: true,
	}
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	tlsConn := tls.Client(conn, tlsConfig)
	if err := tlsConn.SetDeadline(time.Now().Add(timeout)); err != nil {
		tlsConn.Close()
		return nil, err
	}
	if err := tlsConn.Handshake(); err != nil {
		tlsConn.Close()
		return nil, fmt.Errorf("TLS handshake with %s: %w", addr, err)
	}
	if err := tlsConn.SetDeadline(time.Time{}); err != nil {
		tlsConn.Close()
		return nil, err
	}

	if cfg.TrustCallback != nil {
		peers := tlsConn.ConnectionState().PeerCertificates
		if len(peers) == 0 {
			tlsConn.Close()
			return nil, fmt.Errorf("server at %s presented no certificate", addr)
		}
		sum := sha256.Sum256(peers[0].Raw)
		if !cfg.TrustCallback(cfg.Host, addr, hex.EncodeToString(sum[:])) {
			tlsConn.Close()
			return nil, fmt.Errorf("server certificate rejected by trust callback")
		}
	}
	return tlsConn, nil
}

func (s *Session) handshake() error {
	hs := protocol.EncodeHandshake()
	if _, err := s.conn.Write(hs); err != nil {
		s.metrics.Errors++
		return fmt.Errorf("handshake write: %w", err)
	}
	s.metrics.BytesSent += uint64(len(hs))

	var resp [4]byte
	if _, err := io.ReadFull(s.conn, resp[:]); err != nil {
		s.metrics.Errors++
		return fmt.Errorf("handshake read: %w", err)
	}
	s.metrics.BytesReceived += uint64(len(resp))

	version, err := protocol.DecodeHandshakeResponse(resp)
	if err != nil {
		s.metrics.Errors++
		return err
	}
	s.version = version
	return nil
}

func (s *Session) hello(cfg transport.Config) error {
	s.buf.Reset()
	if err := protocol.EncodeHello(&s.buf, cfg.ClientName, cfg.Username, cfg.Password); err != nil {
		return err
	}
	if err := s.writeMessage(); err != nil {
		return err
	}

	sig, fields, err := s.readMessage()
	if err != nil {
		return err
	}
	switch sig {
	case protocol.MsgSuccess:
		return nil
	case protocol.MsgFailure:
		s.metrics.Errors++
		return protocol.FailureError(fields)
	default:
		s.metrics.Errors++
		return &protocol.CodecError{
			Code:    protocol.ErrorCodeUnexpectedMessage,
			Message: "unexpected response to HELLO",
		}
	}
}

// Run implements transport.Session.
func (s *Session) Run(query string, params protocol.Value) ([]string, error) {
	s.buf.Reset()
	if err := protocol.EncodeRun(&s.buf, query, params); err != nil {
		s.metrics.Errors++
		return nil, err
	}
	if err := s.writeMessage(); err != nil {
		return nil, err
	}

	sig, fields, err := s.readMessage()
	if err != nil {
		return nil, err
	}
	switch sig {
	case protocol.MsgSuccess:
		meta, err := protocol.SuccessMetadata(fields)
		if err != nil {
			s.metrics.Errors++
			return nil, err
		}
		return columnNames(meta), nil
	case protocol.MsgFailure:
		s.metrics.Errors++
		dbErr := protocol.FailureError(fields)
		s.reset()
		return nil, dbErr
	default:
		s.metrics.Errors++
		return nil, &protocol.CodecError{
			Code:    protocol.ErrorCodeUnexpectedMessage,
			Message: "unexpected response to RUN",
		}
	}
}

// Pull implements transport.Session. Responses stream back through
// Fetch.
func (s *Session) Pull(n int64) error {
	s.buf.Reset()
	if err := protocol.EncodePull(&s.buf, n); err != nil {
		s.metrics.Errors++
		return err
	}
	return s.writeMessage()
}

// Fetch implements transport.Session.
func (s *Session) Fetch() (*transport.Row, *transport.Done, error) {
	sig, fields, err := s.readMessage()
	if err != nil {
		return nil, nil, err
	}
	switch sig {
	case protocol.MsgRecord:
		values, err := protocol.RecordValues(fields)
		if err != nil {
			s.metrics.Errors++
			return nil, nil, err
		}
		return &transport.Row{Values: values}, nil, nil
	case protocol.MsgSuccess:
		meta, err := protocol.SuccessMetadata(fields)
		if err != nil {
			s.metrics.Errors++
			return nil, nil, err
		}
		done := &transport.Done{Summary: meta}
		if more, ok := meta["has_more"]; ok && more.Type() == protocol.TypeBool {
			done.HasMore = more.Bool()
		}
		return nil, done, nil
	case protocol.MsgFailure:
		s.metrics.Errors++
		dbErr := protocol.FailureError(fields)
		s.reset()
		return nil, nil, dbErr
	default:
		s.metrics.Errors++
		return nil, nil, &protocol.CodecError{
			Code:    protocol.ErrorCodeUnexpectedMessage,
			Message: "unexpected message in result stream",
		}
	}
}

// Close implements transport.Session. GOODBYE is best effort; the
// socket always closes.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.buf.Reset()
	if err := protocol.EncodeGoodbye(&s.buf); err == nil {
		s.writeMessage()
	}
	s.logger.Debug("bolt session closed",
		"messages_sent", s.metrics.MessagesSent,
		"messages_received", s.metrics.MessagesReceived,
		"bytes_sent", s.metrics.BytesSent,
		"bytes_received", s.metrics.BytesReceived)
	return s.conn.Close()
}

// Version returns the negotiated protocol version.
func (s *Session) Version() protocol.Version { return s.version }

// Metrics returns a snapshot of the wire counters.
func (s *Session) Metrics() transport.Metrics { return s.metrics }

// reset drains the server back to a clean state after a FAILURE. Best
// effort: a dead socket surfaces on the next operation anyway.
func (s *Session) reset() {
	s.buf.Reset()
	if err := protocol.EncodeReset(&s.buf); err != nil {
		return
	}
	if err := s.writeMessage(); err != nil {
		return
	}
	for {
		sig, _, err := s.readMessage()
		if err != nil {
			return
		}
		switch sig {
		case protocol.MsgSuccess, protocol.MsgFailure:
			return
		case protocol.MsgIgnored, protocol.MsgRecord:
			// Leftovers from the failed exchange.
		default:
			return
		}
	}
}

func (s *Session) writeMessage() error {
	if err := s.writer.WriteMessage(s.buf.Bytes()); err != nil {
		s.metrics.Errors++
		return fmt.Errorf("write message: %w", err)
	}
	s.metrics.MessagesSent++
	return nil
}

func (s *Session) readMessage() (byte, []protocol.Value, error) {
	for {
		body, err := s.reader.ReadMessage()
		if err != nil {
			s.metrics.Errors++
			return 0, nil, fmt.Errorf("read message: %w", err)
		}
		// A bare end-of-message marker is a keepalive.
		if len(body) == 0 {
			continue
		}
		s.metrics.MessagesReceived++
		sig, fields, err := protocol.DecodeMessage(body)
		if err != nil {
			s.metrics.Errors++
			return 0, nil, err
		}
		return sig, fields, nil
	}
}

// columnNames pulls the "fields" list out of RUN metadata.
func columnNames(meta map[string]protocol.Value) []string {
	fields, ok := meta["fields"]
	if !ok || fields.Type() != protocol.TypeList {
		return []string{}
	}
	items := fields.List()
	columns := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type() == protocol.TypeString {
			columns = append(columns, item.Str())
		}
	}
	return columns
}

// countingWriter bumps a byte counter as framing flows out.
type countingWriter struct {
	w io.Writer
	n *uint64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	*cw.n += uint64(n)
	return n, err
}

// countingReader bumps a byte counter as framing flows in.
type countingReader struct {
	r io.Reader
	n *uint64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	*cr.n += uint64(n)
	return n, err
}
