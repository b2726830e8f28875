package dispatcher

import (
	"fmt"

	"github.com/atomicstack/popup-launcher/internal/backend"
	"github.com/atomicstack/popup-launcher/internal/settings"
	"github.com/atomicstack/popup-launcher/internal/state"
)

type Result struct {
	TimingsUpdated bool
	Err            error
}

type Dispatcher struct {
	timings state.TimingsStore
}

func New(t state.TimingsStore) *Dispatcher {
	return &Dispatcher{timings: t}
}

// Handle applies a watcher event. A failed reload keeps the previous
// settings.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		res.Err = evt.Err
		return res
	}
	switch evt.Kind {
	case backend.KindSettings:
		t, ok := evt.Data.(settings.Timings)
		if !ok {
			res.Err = fmt.Errorf("settings event carried %T", evt.Data)
			return res
		}
		d.timings.SetTimings(t)
		res.TimingsUpdated = true
	}
	return res
}
