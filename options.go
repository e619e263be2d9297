package mgclient

import (
	"log/slog"
	"strings"
	"time"

	"github.com/memgraph/mgclient-go/transport"
)

const (
	defaultPort        = 7687
	defaultClientName  = "MemgraphBolt/0.1"
	defaultDialTimeout = 5 * time.Second
)

// SSLMode selects whether the session is encrypted.
type SSLMode int

const (
	// SSLModeRequire dials with TLS. The default.
	SSLModeRequire SSLMode = iota
	// SSLModeDisable dials in plaintext.
	SSLModeDisable
)

func (m SSLMode) String() string {
	switch m {
	case SSLModeRequire:
		return "require"
	case SSLModeDisable:
		return "disable"
	default:
		return "unknown"
	}
}

// TrustCallback lets the application veto the server certificate after
// the TLS handshake. It receives the hostname dialed, the remote
// address and the hex SHA-256 fingerprint of the peer certificate;
// returning false aborts the connection.
type TrustCallback = transport.TrustCallback

// ConnectParams configures a Connection. The zero value is not usable
// directly; pass it to Connect, which fills defaults, or start from
// DefaultConnectParams.
type ConnectParams struct {
	// Host is the DNS-resolvable name of the server. At most one of
	// Host and Address may be set; when both are empty Host defaults
	// to "localhost".
	Host string

	// Address is the numeric address of the server, an alternative to
	// Host.
	Address string

	// Port is the Bolt port. Defaults to 7687.
	Port uint16

	// Username and Password authenticate the session. Both empty
	// means no authentication.
	Username string
	Password string

	// ClientName is the user agent reported to the server during the
	// handshake. Defaults to "MemgraphBolt/0.1".
	ClientName string

	// SSLMode selects encryption. Defaults to SSLModeRequire.
	SSLMode SSLMode

	// SSLCert and SSLKey name a client certificate pair presented
	// during the TLS handshake. Either both or neither must be set.
	SSLCert string
	SSLKey  string

	// TrustCallback, when non-nil, is consulted after the TLS
	// handshake and may veto the server certificate.
	TrustCallback TrustCallback

	// Lazy selects on-demand result consumption: rows are pulled from
	// the server one at a time as FetchOne is called. When false the
	// whole result is pulled and buffered by Execute. Defaults to
	// true.
	Lazy bool

	// Autocommit runs every query in its own transaction. When false
	// the first Execute after connect, commit or rollback opens an
	// explicit transaction that stays open until Commit or Rollback.
	// Defaults to false.
	Autocommit bool

	// DialTimeout bounds establishing the TCP connection. Defaults to
	// 5 seconds.
	DialTimeout time.Duration

	// Logger receives structured logs for the session. Nil discards
	// all output.
	Logger *slog.Logger
}

// DefaultConnectParams returns parameters for a local unauthenticated
// server with lazy result consumption.
func DefaultConnectParams() ConnectParams {
	return ConnectParams{
		Host:        "localhost",
		Port:        defaultPort,
		ClientName:  defaultClientName,
		SSLMode:     SSLModeRequire,
		Lazy:        true,
		DialTimeout: defaultDialTimeout,
	}
}

func (p *ConnectParams) validate() error {
	if p.Host != "" && p.Address != "" {
		return &ConfigError{Reason: "exactly one of host and address should be provided"}
	}
	if (p.SSLCert == "") != (p.SSLKey == "") {
		return &ConfigError{Reason: "both sslcert and sslkey should be provided"}
	}
	fields := []struct{ name, value string }{
		{"host", p.Host},
		{"address", p.Address},
		{"username", p.Username},
		{"password", p.Password},
		{"client_name", p.ClientName},
		{"sslcert", p.SSLCert},
		{"sslkey", p.SSLKey},
	}
	for _, f := range fields {
		if strings.ContainsRune(f.value, 0) {
			return &EncodingError{Param: f.name, Reason: "embedded NUL byte"}
		}
	}
	return nil
}

func (p *ConnectParams) applyDefaults() {
	if p.Host == "" && p.Address == "" {
		p.Host = "localhost"
	}
	if p.Port == 0 {
		p.Port = defaultPort
	}
	if p.ClientName == "" {
		p.ClientName = defaultClientName
	}
	if p.DialTimeout <= 0 {
		p.DialTimeout = defaultDialTimeout
	}
}

func (p *ConnectParams) transportConfig() transport.Config {
	host := p.Host
	if host == "" {
		host = p.Address
	}
	return transport.Config{
		Host:          host,
		Port:          p.Port,
		Username:      p.Username,
		Password:      p.Password,
		ClientName:    p.ClientName,
		UseTLS:        p.SSLMode == SSLModeRequire,
		CertFile:      p.SSLCert,
		KeyFile:       p.SSLKey,
		TrustCallback: p.TrustCallback,
		DialTimeout:   p.DialTimeout,
		Logger:        p.Logger,
	}
}
