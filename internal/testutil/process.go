package testutil

import (
	"bytes"
	"errors"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

// Env isolates a launcher process: its own loopback port, config file and
// log file, with no POPUP_LAUNCHER_* settings inherited from the caller.
type Env struct {
	Bin    string
	Dir    string
	Port   int
	Config string
}

// NewEnv reserves a free port and writes an empty config file.
func NewEnv(t *testing.T, bin string) *Env {
	t.Helper()
	dir := t.TempDir()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	cfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfg, nil, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &Env{Bin: bin, Dir: dir, Port: port, Config: cfg}
}

func (e *Env) command(args ...string) *exec.Cmd {
	global := []string{
		"--config", e.Config,
		"--transport", "tcp",
		"--port", strconv.Itoa(e.Port),
		"--log-file", filepath.Join(e.Dir, "launcher.log"),
	}
	cmd := exec.Command(e.Bin, append(global, args...)...)
	env := make([]string, 0, len(os.Environ()))
	for _, entry := range os.Environ() {
		if strings.HasPrefix(entry, "POPUP_LAUNCHER_") {
			continue
		}
		env = append(env, entry)
	}
	cmd.Env = env
	return cmd
}

// Resident is a headless launcher running in the background.
type Resident struct {
	cmd    *exec.Cmd
	stderr bytes.Buffer
	done   chan error
}

// StartResident launches a headless resident and waits until it accepts
// clients. It is killed at cleanup if still running.
func (e *Env) StartResident(t *testing.T, extra ...string) *Resident {
	t.Helper()
	r := &Resident{cmd: e.command(append([]string{"--headless"}, extra...)...), done: make(chan error, 1)}
	r.cmd.Stderr = &r.stderr
	if err := r.cmd.Start(); err != nil {
		t.Fatalf("start resident: %v", err)
	}
	go func() { r.done <- r.cmd.Wait() }()
	t.Cleanup(func() {
		select {
		case <-r.done:
		default:
			_ = r.cmd.Process.Kill()
			<-r.done
		}
	})
	deadline := time.Now().Add(5 * time.Second)
	for {
		conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(e.Port)), 100*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return r
		}
		if time.Now().After(deadline) {
			t.Fatalf("resident never accepted connections: %v\n%s", err, r.stderr.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// Wait returns the resident's exit code once it stops, or fails the test
// after timeout.
func (r *Resident) Wait(t *testing.T, timeout time.Duration) int {
	t.Helper()
	select {
	case err := <-r.done:
		r.done <- err
		return exitCode(err)
	case <-time.After(timeout):
		t.Fatalf("resident still running after %v", timeout)
		return -1
	}
}

// Stderr returns what the resident has written so far.
func (r *Resident) Stderr() string { return r.stderr.String() }

// Run executes a one-shot invocation and returns its combined output and
// exit code.
func (e *Env) Run(t *testing.T, args ...string) (string, int) {
	t.Helper()
	out, err := e.command(args...).CombinedOutput()
	return string(out), exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
