package events

import "github.com/atomicstack/popup-launcher/internal/logging"

type AppTracer struct{}

type ConfigTracer struct{}

var (
	App    = AppTracer{}
	Config = ConfigTracer{}
)

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Quit(reason string) {
	logging.Trace("app.quit", map[string]interface{}{"reason": reason})
}

func (ConfigTracer) Reloaded(path string) {
	logging.Trace("config.reload", map[string]interface{}{"path": path})
}

func (ConfigTracer) ReloadFailed(path string, err error) {
	logging.Trace("config.reload-error", map[string]interface{}{"path": path, "error": err.Error()})
}
