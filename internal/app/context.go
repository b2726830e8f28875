package app

import (
	"fmt"
	"time"

	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/commands"
	"github.com/atomicstack/popup-launcher/internal/ipc"
	"github.com/atomicstack/popup-launcher/internal/logging/events"
	"github.com/atomicstack/popup-launcher/internal/nav"
	"github.com/atomicstack/popup-launcher/internal/registry"
	"github.com/atomicstack/popup-launcher/internal/sched"
	"github.com/atomicstack/popup-launcher/internal/state"
	"github.com/atomicstack/popup-launcher/internal/theme"
	"github.com/atomicstack/popup-launcher/internal/toast"
	"github.com/atomicstack/popup-launcher/internal/visibility"
)

// Handler runs an action entry on the owner.
type Handler func(c *Context, e actions.Entry) error

// Options configure a Context.
type Options struct {
	Scheduler   sched.Scheduler
	Surface     visibility.Surface
	Timings     state.TimingsStore
	Theme       string
	StartHidden bool
	About       []commands.Info
	// Quit terminates the resident. It runs on the owner.
	Quit func()
}

// Context is the launcher's control-plane state. Every method must run on
// the owner goroutine.
type Context struct {
	Registry   *registry.Registry
	Stack      *nav.Stack
	Visibility *visibility.Controller
	Themes     *theme.Catalog
	Timings    state.TimingsStore

	handlers map[actions.HandlerID]Handler
	quit     func()
}

var _ registry.ActionContext = (*Context)(nil)

// NewContext builds the registry, the root view and the controllers.
func NewContext(opts Options) *Context {
	c := &Context{
		Themes:  theme.NewCatalog(opts.Theme),
		Timings: opts.Timings,
		quit:    opts.Quit,
	}
	reg, root := commands.Builtin(commands.Deps{Themes: c.Themes, About: opts.About})
	c.Registry = reg
	c.Stack = nav.New(opts.Scheduler, root, toast.WithDurations(func() toast.Durations {
		t := c.Timings.Timings()
		return toast.Durations{Success: t.ToastSuccess, Error: t.ToastError}
	}))
	initial := visibility.Shown
	if opts.StartHidden {
		initial = visibility.Hidden
	}
	c.Visibility = visibility.New(visibility.Config{
		Scheduler:  opts.Scheduler,
		Surface:    opts.Surface,
		ResetAfter: func() time.Duration { return c.Timings.Timings().HideResetAfter },
		OnReset:    c.Stack.Reset,
		Initial:    initial,
	})
	c.handlers = defaultHandlers()
	return c
}

// Push opens a view on top of the active one.
func (c *Context) Push(b nav.Builder) *nav.ViewInstance { return c.Stack.Push(b) }

// Replace swaps the active view.
func (c *Context) Replace(b nav.Builder) *nav.ViewInstance { return c.Stack.Replace(b) }

// Pop closes the active view.
func (c *Context) Pop() { c.Stack.Pop() }

// Toast returns the active view's notification slot.
func (c *Context) Toast() *toast.Toast { return c.Stack.Active().Toast }

// Hide conceals the surface.
func (c *Context) Hide() { c.Visibility.Hide() }

// Apply executes one client request. A command that does not resolve fails
// before anything is mutated.
func (c *Context) Apply(req ipc.Request) error {
	switch req.Action {
	case ipc.ActionToggle:
		c.Visibility.Toggle()
	case ipc.ActionShow:
		c.Visibility.Show()
	case ipc.ActionHide:
		c.Visibility.Hide()
	case ipc.ActionQuit:
		events.App.Quit("client request")
		if c.quit != nil {
			c.quit()
		}
	case ipc.ActionCommand:
		name := req.CommandName()
		cmd, ok := c.Registry.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %q", ipc.ErrCommandNotFound, name)
		}
		if c.Stack.Active().ID == cmd.ID {
			c.Visibility.Toggle()
			return nil
		}
		c.Stack.Reset()
		c.invoke(cmd)
		c.Visibility.Show()
	case ipc.ActionPipe:
	default:
		return fmt.Errorf("%w: unknown action %q", ipc.ErrMalformedPayload, req.Action)
	}
	return nil
}

// invoke runs a command. Its error is shown on whatever view is active
// afterwards.
func (c *Context) invoke(cmd *registry.Command) {
	events.Action.Invoke(cmd.Title, cmd.ID)
	if err := cmd.Invoke(c); err != nil {
		events.Action.Error(err)
		c.Toast().Error(err.Error())
	}
}

// Run invokes the handler bound to e.
func (c *Context) Run(e actions.Entry) {
	h, ok := c.handlers[e.Handler]
	if !ok {
		events.Action.Unknown(string(e.Handler))
		c.Toast().Error(fmt.Sprintf("No handler for %q", e.Label))
		return
	}
	events.Action.Invoke(e.Label, string(e.Handler))
	if err := h(c, e); err != nil {
		events.Action.Error(err)
		c.Toast().Error(err.Error())
	}
}
