package ui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/popup-launcher/internal/app"
	"github.com/atomicstack/popup-launcher/internal/loop"
)

// programExecutor posts closures into the Bubble Tea event loop, making the
// program the state owner.
type programExecutor struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

var _ loop.Stopper = (*programExecutor)(nil)

func newProgramExecutor(p *tea.Program) *programExecutor {
	return &programExecutor{program: p, done: make(chan struct{})}
}

// Post delivers fn to Update. It blocks until the program accepts the
// message, so it must never be called from inside Update.
func (e *programExecutor) Post(fn func()) {
	select {
	case <-e.done:
		return
	default:
	}
	e.program.Send(runMsg{fn: fn})
}

func (e *programExecutor) Done() <-chan struct{} { return e.done }

func (e *programExecutor) stop() {
	e.once.Do(func() { close(e.done) })
}

// Run starts an interactive resident and blocks until the user or a client
// quits it, or ctx ends.
func Run(ctx context.Context, cfg app.Config, opts Options) error {
	m := NewModel(opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	exec := newProgramExecutor(program)
	r, err := app.Start(cfg, exec, m.Surface(), m.RequestQuit)
	if err != nil {
		return err
	}
	m.Attach(r.Context)

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	serveErr := make(chan error, 1)
	go func() { serveErr <- r.Serve(serveCtx) }()

	_, runErr := program.Run()
	exec.stop()
	cancel()
	if err := <-serveErr; err != nil {
		return err
	}
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return runErr
}
