// Package visibility tracks whether the launcher surface is shown and resets
// navigation after it has stayed hidden for a grace period.
package visibility

import (
	"time"

	"github.com/atomicstack/popup-launcher/internal/logging/events"
	"github.com/atomicstack/popup-launcher/internal/sched"
)

// State is Shown or Hidden.
type State int

const (
	Shown State = iota
	Hidden
)

func (s State) String() string {
	if s == Hidden {
		return "hidden"
	}
	return "shown"
}

// DefaultResetAfter is how long the surface stays hidden before the
// navigation stack is reset.
const DefaultResetAfter = 90 * time.Second

// Surface is the presentation side of the controller.
type Surface interface {
	Show()
	Hide()
}

type noSurface struct{}

func (noSurface) Show() {}
func (noSurface) Hide() {}

// Config wires a Controller.
type Config struct {
	Scheduler sched.Scheduler
	Surface   Surface
	// ResetAfter is read on every hide so live changes apply to the next one.
	ResetAfter func() time.Duration
	// OnReset runs on the owner when the grace period lapses while hidden.
	OnReset func()
	Initial State
}

// Controller owns the visibility state. All methods run on the owner.
type Controller struct {
	cfg   Config
	state State
	epoch uint64
}

// New returns a controller in cfg.Initial. A controller that starts hidden
// arms its reset like any other transition into Hidden.
func New(cfg Config) *Controller {
	if cfg.Surface == nil {
		cfg.Surface = noSurface{}
	}
	if cfg.ResetAfter == nil {
		cfg.ResetAfter = func() time.Duration { return DefaultResetAfter }
	}
	c := &Controller{cfg: cfg, state: Shown}
	if cfg.Initial == Hidden {
		c.Hide()
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Toggle flips between Shown and Hidden.
func (c *Controller) Toggle() {
	if c.state == Hidden {
		c.Show()
		return
	}
	c.Hide()
}

// Show makes the surface visible. Showing an already visible surface only
// re-raises it.
func (c *Controller) Show() {
	if c.state == Hidden {
		c.epoch++
	}
	c.state = Shown
	c.cfg.Surface.Show()
	events.Visibility.Show()
}

// Hide conceals the surface and arms the reset. Hiding while hidden changes
// nothing.
func (c *Controller) Hide() {
	if c.state == Hidden {
		return
	}
	c.state = Hidden
	c.epoch++
	epoch := c.epoch
	c.cfg.Surface.Hide()
	grace := c.cfg.ResetAfter()
	if grace <= 0 {
		grace = DefaultResetAfter
	}
	events.Visibility.Hide(grace.String())
	if c.cfg.Scheduler != nil {
		c.cfg.Scheduler.After(grace, func() { c.resetIfHidden(epoch) })
	}
}

// resetIfHidden fires on the owner once the grace period lapses. It only acts
// if the surface has stayed hidden since the hide that armed it.
func (c *Controller) resetIfHidden(epoch uint64) {
	still := c.state == Hidden && c.epoch == epoch
	events.Visibility.ResetFired(still)
	if still && c.cfg.OnReset != nil {
		c.cfg.OnReset()
	}
}
