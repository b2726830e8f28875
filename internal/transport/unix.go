//go:build !windows

package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

const platformKind = KindUnix

type unixTransport struct {
	path  string
	probe time.Duration
}

func newUnix(path string, probe time.Duration) (Transport, error) {
	return &unixTransport{path: path, probe: probe}, nil
}

func (t *unixTransport) Network() string { return "unix" }

func (t *unixTransport) Address() string { return t.path }

// Bind claims the socket path. A live listener is detected before anything
// on disk is touched. The stale-check/remove/listen sequence then runs under
// an exclusive flock so two racing residents cannot both treat each other's
// fresh socket as stale.
func (t *unixTransport) Bind() (net.Listener, error) {
	if probe("unix", t.path, t.probe) {
		return nil, fmt.Errorf("%w on %s", ErrAlreadyRunning, t.path)
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return nil, fmt.Errorf("create socket dir: %w", err)
	}
	lock, err := acquireLock(t.path + ".lock")
	if err != nil {
		return nil, err
	}
	if probe("unix", t.path, t.probe) {
		lock.release()
		return nil, fmt.Errorf("%w on %s", ErrAlreadyRunning, t.path)
	}
	if st, err := os.Lstat(t.path); err == nil {
		if st.Mode()&os.ModeSocket == 0 {
			lock.release()
			return nil, fmt.Errorf("socket path exists and is not a unix socket: %s", t.path)
		}
		if err := os.Remove(t.path); err != nil {
			lock.release()
			return nil, fmt.Errorf("remove stale socket: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		lock.release()
		return nil, fmt.Errorf("stat socket path: %w", err)
	}
	ln, err := net.Listen("unix", t.path)
	if err != nil {
		lock.release()
		if isAddrInUse(err) {
			return nil, fmt.Errorf("%w on %s", ErrAlreadyRunning, t.path)
		}
		return nil, fmt.Errorf("listen unix %s: %w", t.path, err)
	}
	if err := os.Chmod(t.path, 0o600); err != nil {
		_ = ln.Close()
		lock.release()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}
	return &lockedListener{Listener: ln, lock: lock}, nil
}

func (t *unixTransport) Connect(ctx context.Context) (net.Conn, error) {
	return dial(ctx, "unix", t.path, t.probe)
}

type fileLock struct {
	f *os.File
}

func acquireLock(path string) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: lock %s held", ErrAlreadyRunning, path)
		}
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	return &fileLock{f: f}, nil
}

func (l *fileLock) release() {
	if l == nil || l.f == nil {
		return
	}
	_ = unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	_ = l.f.Close()
	l.f = nil
}

// lockedListener keeps the singleton lock for as long as the listener lives.
// Closing the net.UnixListener unlinks the socket file it created.
type lockedListener struct {
	net.Listener
	lock *fileLock
	once sync.Once
}

func (l *lockedListener) Close() error {
	err := l.Listener.Close()
	l.once.Do(l.lock.release)
	return err
}

func isAddrInUse(err error) bool {
	return errors.Is(err, unix.EADDRINUSE)
}
