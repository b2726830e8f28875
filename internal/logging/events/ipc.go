package events

import "github.com/atomicstack/popup-launcher/internal/logging"

type IPCTracer struct{}

var IPC = IPCTracer{}

func (IPCTracer) Listen(network, address string) {
	logging.Trace("ipc.listen", map[string]interface{}{"network": network, "address": address})
}

func (IPCTracer) Accept(conn string) {
	logging.Trace("ipc.accept", map[string]interface{}{"conn": conn})
}

func (IPCTracer) Greet(conn string, commands int) {
	logging.Trace("ipc.greet", map[string]interface{}{"conn": conn, "commands": commands})
}

func (IPCTracer) Request(conn, action, command string) {
	logging.Trace("ipc.request", map[string]interface{}{"conn": conn, "action": action, "command": command})
}

func (IPCTracer) Applied(conn, action string) {
	logging.Trace("ipc.apply", map[string]interface{}{"conn": conn, "action": action})
}

func (IPCTracer) Dropped(conn string, err error) {
	if err == nil {
		return
	}
	logging.Trace("ipc.drop", map[string]interface{}{"conn": conn, "error": err.Error()})
}

func (IPCTracer) AcceptRetry(err error) {
	logging.Trace("ipc.accept-retry", map[string]interface{}{"error": err.Error()})
}
