package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/atomicstack/popup-launcher/internal/registry"
	"github.com/atomicstack/popup-launcher/internal/transport"
)

// Session is an open client connection that has received the greeting.
type Session struct {
	conn     net.Conn
	dec      *json.Decoder
	timeout  time.Duration
	Snapshot registry.Snapshot
}

// Dial connects to the resident and reads its snapshot. A missing resident
// is reported as transport.ErrNoInstance.
func Dial(ctx context.Context, tr transport.Transport, timeout time.Duration) (*Session, error) {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	conn, err := tr.Connect(ctx)
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(time.Now().Add(timeout))
	dec := json.NewDecoder(conn)
	snap, err := ReadSnapshot(dec)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Session{conn: conn, dec: dec, timeout: timeout, Snapshot: snap}, nil
}

// Send writes req, half-closes, and waits for the server to hang up so the
// request has been applied by the time Send returns.
func (s *Session) Send(req Request) error {
	defer s.conn.Close()
	if err := req.Validate(); err != nil {
		return err
	}
	_ = s.conn.SetDeadline(time.Now().Add(s.timeout))
	if err := WriteRequest(s.conn, req); err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	_ = transport.CloseWrite(s.conn)
	_, _ = io.Copy(io.Discard, s.dec.Buffered())
	_, _ = io.Copy(io.Discard, s.conn)
	return nil
}

// Close abandons the session without sending.
func (s *Session) Close() error { return s.conn.Close() }
