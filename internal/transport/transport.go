// Package transport provides the launcher's control-plane byte stream: a
// listener bound to a single well-known local address and a dialer for the
// short-lived client. Binding doubles as the singleton guard; only one
// resident can hold the address at a time.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/popup-launcher/internal/paths"
)

var (
	// ErrAlreadyRunning reports that another resident owns the address.
	ErrAlreadyRunning = errors.New("launcher already running")
	// ErrNoInstance reports that nothing is listening on the address.
	ErrNoInstance = errors.New("no resident instance")
)

// Kind selects the transport implementation.
type Kind string

const (
	KindAuto Kind = ""
	KindUnix Kind = "unix"
	KindTCP  Kind = "tcp"
)

const defaultProbeTimeout = 500 * time.Millisecond

// Config describes where the control plane lives.
type Config struct {
	Kind         Kind
	SocketPath   string
	Port         int
	ProbeTimeout time.Duration
}

// Transport binds and dials the well-known address.
type Transport interface {
	// Bind claims the address or fails with ErrAlreadyRunning.
	Bind() (net.Listener, error)
	// Connect dials the resident; refusal wraps ErrNoInstance.
	Connect(ctx context.Context) (net.Conn, error)
	Network() string
	Address() string
}

// ParseKind validates a user-supplied transport name.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindAuto, "auto":
		return KindAuto, nil
	case KindUnix:
		return KindUnix, nil
	case KindTCP:
		return KindTCP, nil
	}
	return "", fmt.Errorf("unknown transport %q (want unix or tcp)", value)
}

// New selects an implementation. KindAuto picks the platform default.
func New(cfg Config) (Transport, error) {
	probe := cfg.ProbeTimeout
	if probe <= 0 {
		probe = defaultProbeTimeout
	}
	kind := cfg.Kind
	if kind == KindAuto {
		kind = platformKind
	}
	switch kind {
	case KindUnix:
		path := cfg.SocketPath
		if path == "" {
			path = paths.SocketPath()
		}
		return newUnix(path, probe)
	case KindTCP:
		port := cfg.Port
		if port <= 0 {
			port = paths.DefaultPort
		}
		return &tcpTransport{addr: net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), probe: probe}, nil
	}
	return nil, fmt.Errorf("unsupported transport %q", kind)
}

// dial is shared by both implementations so connection refusal is reported
// the same way regardless of platform.
func dial(ctx context.Context, network, address string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s %s: %v", ErrNoInstance, network, address, err)
	}
	return conn, nil
}

// probe reports whether something accepts connections on the address.
func probe(network, address string, timeout time.Duration) bool {
	conn, err := net.DialTimeout(network, address, timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// CloseWrite half-closes conn when supported so the peer's decoder sees EOF
// after the final message.
func CloseWrite(conn net.Conn) error {
	type closeWriter interface {
		CloseWrite() error
	}
	if cw, ok := conn.(closeWriter); ok {
		return cw.CloseWrite()
	}
	return nil
}
