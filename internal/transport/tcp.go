package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// tcpTransport stands in for unix sockets with a fixed loopback port.
// Connect failure is the only liveness probe; there is no lock file.
type tcpTransport struct {
	addr  string
	probe time.Duration
}

func (t *tcpTransport) Network() string { return "tcp" }

func (t *tcpTransport) Address() string { return t.addr }

func (t *tcpTransport) Bind() (net.Listener, error) {
	if probe("tcp", t.addr, t.probe) {
		return nil, fmt.Errorf("%w on %s", ErrAlreadyRunning, t.addr)
	}
	ln, err := net.Listen("tcp", t.addr)
	if err != nil {
		if isAddrInUse(err) {
			return nil, fmt.Errorf("%w on %s", ErrAlreadyRunning, t.addr)
		}
		return nil, fmt.Errorf("listen tcp %s: %w", t.addr, err)
	}
	return ln, nil
}

func (t *tcpTransport) Connect(ctx context.Context) (net.Conn, error) {
	return dial(ctx, "tcp", t.addr, t.probe)
}
