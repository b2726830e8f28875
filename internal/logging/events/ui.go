package events

import "github.com/atomicstack/popup-launcher/internal/logging"

type NavTracer struct{}

type ActionTracer struct{}

type ToastTracer struct{}

type VisibilityTracer struct{}

var (
	Nav        = NavTracer{}
	Action     = ActionTracer{}
	Toast      = ToastTracer{}
	Visibility = VisibilityTracer{}
)

func (NavTracer) Push(id, instance string, depth int) {
	logging.Trace("nav.push", map[string]interface{}{"id": id, "instance": instance, "depth": depth})
}

func (NavTracer) Pop(id string, depth int) {
	logging.Trace("nav.pop", map[string]interface{}{"id": id, "depth": depth})
}

func (NavTracer) Reset(dropped int) {
	logging.Trace("nav.reset", map[string]interface{}{"dropped": dropped})
}

func (ActionTracer) Invoke(label, handler string) {
	logging.Trace("action.invoke", map[string]interface{}{"label": label, "handler": handler})
}

func (ActionTracer) Unknown(handler string) {
	logging.Trace("action.unknown", map[string]interface{}{"handler": handler})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Menu(open bool) {
	logging.Trace("action.menu", map[string]interface{}{"open": open})
}

func (ActionTracer) Dropdown(value string) {
	logging.Trace("action.dropdown", map[string]interface{}{"value": value})
}

func (ToastTracer) Set(kind, message string) {
	logging.Trace("toast.set", map[string]interface{}{"kind": kind, "message": message})
}

func (ToastTracer) Expired(kind string) {
	logging.Trace("toast.expire", map[string]interface{}{"kind": kind})
}

func (VisibilityTracer) Show() {
	logging.Trace("visibility.show", nil)
}

func (VisibilityTracer) Hide(grace string) {
	logging.Trace("visibility.hide", map[string]interface{}{"resetAfter": grace})
}

func (VisibilityTracer) ResetFired(stillHidden bool) {
	logging.Trace("visibility.reset", map[string]interface{}{"stillHidden": stillHidden})
}
