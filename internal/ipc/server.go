package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/atomicstack/popup-launcher/internal/logging"
	"github.com/atomicstack/popup-launcher/internal/logging/events"
	"github.com/atomicstack/popup-launcher/internal/registry"
)

// DefaultReadTimeout bounds a whole exchange.
const DefaultReadTimeout = 5 * time.Second

// Handler applies a decoded request. It is responsible for getting onto
// the state owner.
type Handler func(ctx context.Context, req Request) error

// Server accepts client connections on a bound listener.
type Server struct {
	Listener net.Listener
	Snapshot registry.Snapshot
	Handle   Handler
	// ReadTimeout returns the per-connection deadline; nil means
	// DefaultReadTimeout.
	ReadTimeout func() time.Duration

	conns sync.WaitGroup
}

func (s *Server) timeout() time.Duration {
	if s.ReadTimeout == nil {
		return DefaultReadTimeout
	}
	if d := s.ReadTimeout(); d > 0 {
		return d
	}
	return DefaultReadTimeout
}

// Serve runs the accept loop until ctx ends or the listener is closed, then
// waits for in-flight connections.
func (s *Server) Serve(ctx context.Context) error {
	events.IPC.Listen(s.Listener.Addr().Network(), s.Listener.Addr().String())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		_ = s.Listener.Close()
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return s.acceptLoop(gctx)
	})
	err := g.Wait()
	s.conns.Wait()
	return err
}

func (s *Server) acceptLoop(ctx context.Context) error {
	limiter := rate.NewLimiter(rate.Every(50*time.Millisecond), 1)
	for {
		conn, err := s.Listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			events.IPC.AcceptRetry(err)
			if werr := limiter.Wait(ctx); werr != nil {
				return nil
			}
			continue
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.serveConn(ctx, conn)
		}()
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	id := uuid.NewString()
	defer conn.Close()
	events.IPC.Accept(id)
	if err := s.exchange(ctx, id, conn); err != nil {
		events.IPC.Dropped(id, err)
		if !errors.Is(err, ErrMalformedPayload) && !errors.Is(err, ErrCommandNotFound) {
			logging.Error(fmt.Errorf("ipc connection %s: %w", id, err))
		}
	}
}

func (s *Server) exchange(ctx context.Context, id string, conn net.Conn) error {
	_ = conn.SetDeadline(time.Now().Add(s.timeout()))
	if err := WriteSnapshot(conn, s.Snapshot); err != nil {
		return fmt.Errorf("greet: %w", err)
	}
	events.IPC.Greet(id, len(s.Snapshot.Commands))
	req, err := ReadRequest(conn)
	if err != nil {
		return err
	}
	events.IPC.Request(id, string(req.Action), req.CommandName())
	if err := s.Handle(ctx, req); err != nil {
		return err
	}
	events.IPC.Applied(id, string(req.Action))
	return nil
}
