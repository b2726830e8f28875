package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/atomicstack/popup-launcher/internal/backend"
	"github.com/atomicstack/popup-launcher/internal/commands"
	"github.com/atomicstack/popup-launcher/internal/data/dispatcher"
	"github.com/atomicstack/popup-launcher/internal/ipc"
	"github.com/atomicstack/popup-launcher/internal/logging"
	"github.com/atomicstack/popup-launcher/internal/logging/events"
	"github.com/atomicstack/popup-launcher/internal/loop"
	"github.com/atomicstack/popup-launcher/internal/sched"
	"github.com/atomicstack/popup-launcher/internal/settings"
	"github.com/atomicstack/popup-launcher/internal/state"
	"github.com/atomicstack/popup-launcher/internal/transport"
	"github.com/atomicstack/popup-launcher/internal/visibility"
)

// Config describes user-provided application options.
type Config struct {
	Transport   transport.Config
	Headless    bool
	StartHidden bool
	Theme       string
	Timings     settings.Timings
	// ConfigFile is watched for timing changes when LoadTimings is set.
	ConfigFile  string
	LoadTimings func(path string) (settings.Timings, error)
	About       []commands.Info
}

const reloadDebounce = 200 * time.Millisecond

// Resident is a bound launcher instance: the control-plane state plus the
// listener clients reach it through.
type Resident struct {
	Context *Context

	cfg       Config
	exec      sched.Executor
	transport transport.Transport
	server    *ipc.Server
	timings   state.TimingsStore
	watcher   *backend.Watcher
	quit      context.CancelFunc
	quitCtx   context.Context
}

// Start claims the control address and builds the launcher state on exec.
// It fails with transport.ErrAlreadyRunning if another resident holds the
// address. onQuit runs on the owner when a client asks the resident to stop.
func Start(cfg Config, exec sched.Executor, surface visibility.Surface, onQuit func()) (*Resident, error) {
	tr, err := transport.New(cfg.Transport)
	if err != nil {
		return nil, err
	}
	ln, err := tr.Bind()
	if err != nil {
		return nil, err
	}
	quitCtx, quit := context.WithCancel(context.Background())
	r := &Resident{
		cfg:       cfg,
		exec:      exec,
		transport: tr,
		timings:   state.NewTimingsStore(cfg.Timings),
		quit:      quit,
		quitCtx:   quitCtx,
	}
	r.Context = NewContext(Options{
		Scheduler:   sched.New(exec),
		Surface:     surface,
		Timings:     r.timings,
		Theme:       cfg.Theme,
		StartHidden: cfg.StartHidden,
		About:       cfg.About,
		Quit: func() {
			quit()
			if onQuit != nil {
				onQuit()
			}
		},
	})
	r.server = &ipc.Server{
		Listener:    ln,
		Snapshot:    r.Context.Registry.Snapshot(),
		Handle:      r.handle,
		ReadTimeout: func() time.Duration { return r.timings.Timings().ReadTimeout },
	}
	r.watcher = r.watchConfig()
	return r, nil
}

// watchConfig starts the config file watcher, or returns nil when reloads
// are off or the file cannot be watched.
func (r *Resident) watchConfig() *backend.Watcher {
	if r.cfg.ConfigFile == "" || r.cfg.LoadTimings == nil {
		return nil
	}
	w, err := backend.NewWatcher(r.cfg.ConfigFile, reloadDebounce, func(path string) (interface{}, error) {
		return r.cfg.LoadTimings(path)
	})
	if err != nil {
		logging.Error(fmt.Errorf("config watch disabled: %w", err))
		return nil
	}
	return w
}

// Transport returns the bound transport.
func (r *Resident) Transport() transport.Transport { return r.transport }

func (r *Resident) handle(ctx context.Context, req ipc.Request) error {
	return loop.Call(ctx, r.exec, func() error {
		return r.Context.Apply(req)
	})
}

// Serve answers clients until ctx ends or a client requests quit. The
// listener is closed on return.
func (r *Resident) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-r.quitCtx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.server.Serve(gctx) })
	if w := r.watcher; w != nil {
		g.Go(func() error {
			<-gctx.Done()
			w.Stop()
			return nil
		})
		g.Go(func() error {
			r.pumpReloads(w)
			return nil
		})
	}
	return g.Wait()
}

func (r *Resident) pumpReloads(w *backend.Watcher) {
	d := dispatcher.New(r.timings)
	for evt := range w.Events() {
		res := d.Handle(evt)
		switch {
		case res.Err != nil:
			events.Config.ReloadFailed(evt.Path, res.Err)
		case res.TimingsUpdated:
			events.Config.Reloaded(evt.Path)
		}
	}
}

// Done is closed once a client has asked the resident to quit.
func (r *Resident) Done() <-chan struct{} { return r.quitCtx.Done() }

// Close releases the listener and the config watcher without serving.
func (r *Resident) Close() error {
	if r.watcher != nil {
		r.watcher.Stop()
	}
	return r.server.Listener.Close()
}

// Run starts a headless resident and blocks until it quits or ctx ends.
func Run(ctx context.Context, cfg Config) error {
	owner := loop.New()
	r, err := Start(cfg, owner, nil, nil)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	// The owner stops once the quit request's closure has returned, so the
	// requesting client still gets its answer.
	go func() {
		select {
		case <-r.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	serveErr := make(chan error, 1)
	go func() { serveErr <- r.Serve(ctx) }()

	runErr := owner.Run(ctx)
	cancel()
	if err := <-serveErr; err != nil {
		return err
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
