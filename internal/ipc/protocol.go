// Package ipc carries requests from short-lived clients to the resident
// launcher. A connection is one exchange: the server greets with the
// registry snapshot, the client answers with a single request, the server
// applies it and hangs up. Both messages are bare JSON values.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/atomicstack/popup-launcher/internal/registry"
)

var (
	// ErrCommandNotFound reports a command request naming nothing in the
	// registry.
	ErrCommandNotFound = errors.New("command not found")
	// ErrMalformedPayload reports a message that does not decode into the
	// expected shape.
	ErrMalformedPayload = errors.New("malformed payload")
)

// MaxRequestBytes caps what the server reads from a client.
const MaxRequestBytes = 64 << 10

// Action is the top-level verb of a request.
type Action string

const (
	ActionToggle  Action = "toggle"
	ActionShow    Action = "show"
	ActionHide    Action = "hide"
	ActionQuit    Action = "quit"
	ActionCommand Action = "command"
	ActionPipe    Action = "pipe"
)

// Actions lists every verb in the order the CLI documents them.
var Actions = []Action{ActionToggle, ActionShow, ActionHide, ActionQuit, ActionCommand, ActionPipe}

// Valid reports whether a is a known verb.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// Request is the client's single message. Command is set only for
// ActionCommand and holds the command's leaf.
type Request struct {
	Action  Action  `json:"action"`
	Command *string `json:"command"`
}

// CommandRequest builds an ActionCommand request.
func CommandRequest(leaf string) Request {
	return Request{Action: ActionCommand, Command: &leaf}
}

// Validate checks the shape of r.
func (r Request) Validate() error {
	if !r.Action.Valid() {
		return fmt.Errorf("%w: unknown action %q", ErrMalformedPayload, r.Action)
	}
	if r.Action == ActionCommand && (r.Command == nil || *r.Command == "") {
		return fmt.Errorf("%w: command action without a command", ErrMalformedPayload)
	}
	return nil
}

// CommandName returns the command field or "".
func (r Request) CommandName() string {
	if r.Command == nil {
		return ""
	}
	return *r.Command
}

// WriteSnapshot sends the greeting.
func WriteSnapshot(w io.Writer, s registry.Snapshot) error {
	if s.Commands == nil {
		s.Commands = map[string]registry.Entry{}
	}
	return json.NewEncoder(w).Encode(s)
}

// ReadSnapshot decodes the greeting from dec.
func ReadSnapshot(dec *json.Decoder) (registry.Snapshot, error) {
	var s registry.Snapshot
	if err := dec.Decode(&s); err != nil {
		return registry.Snapshot{}, fmt.Errorf("%w: snapshot: %v", ErrMalformedPayload, err)
	}
	if s.Commands == nil {
		return registry.Snapshot{}, fmt.Errorf("%w: snapshot without commands", ErrMalformedPayload)
	}
	return s, nil
}

// WriteRequest sends r.
func WriteRequest(w io.Writer, r Request) error {
	return json.NewEncoder(w).Encode(r)
}

// ReadRequest decodes one request from r, reading at most MaxRequestBytes.
func ReadRequest(r io.Reader) (Request, error) {
	var req Request
	dec := json.NewDecoder(io.LimitReader(r, MaxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}
