// Package registry holds the immutable set of commands the launcher can
// invoke, and the snapshot of it that is sent to clients.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/nav"
	"github.com/atomicstack/popup-launcher/internal/toast"
)

// Namespace prefixes every command id.
const Namespace = "launcher"

const separator = "::"

// ActionContext is what a command sees when it runs.
type ActionContext interface {
	Push(nav.Builder) *nav.ViewInstance
	Replace(nav.Builder) *nav.ViewInstance
	Pop()
	// Toast returns the active view's notification slot.
	Toast() *toast.Toast
	Hide()
}

// Command is one registered entry point.
type Command struct {
	ID       string
	Title    string
	Category string
	Tags     []string
	Shortcut *actions.Keystroke
	Invoke   func(ActionContext) error
}

// Leaf returns the last segment of the id.
func (c *Command) Leaf() string {
	_, _, leaf, _ := ParseID(c.ID)
	return leaf
}

// ID joins group and leaf under Namespace.
func ID(group, leaf string) string {
	return Namespace + separator + group + separator + leaf
}

// ParseID splits "<namespace>::<group>::<leaf>".
func ParseID(id string) (namespace, group, leaf string, err error) {
	parts := strings.Split(id, separator)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("command id %q: want <namespace>::<group>::<leaf>", id)
	}
	for _, p := range parts {
		if p == "" {
			return "", "", "", fmt.Errorf("command id %q: empty segment", id)
		}
	}
	return parts[0], parts[1], parts[2], nil
}

// Registry indexes commands by id and leaf. It is read-only after New.
type Registry struct {
	order  []*Command
	byID   map[string]*Command
	byLeaf map[string]*Command
}

// New validates cmds and builds a registry. Ids and leaves must be unique
// and every command needs an Invoke func.
func New(cmds ...Command) (*Registry, error) {
	r := &Registry{
		byID:   make(map[string]*Command, len(cmds)),
		byLeaf: make(map[string]*Command, len(cmds)),
	}
	for i := range cmds {
		cmd := cmds[i]
		_, _, leaf, err := ParseID(cmd.ID)
		if err != nil {
			return nil, err
		}
		if cmd.Invoke == nil {
			return nil, fmt.Errorf("command %s has no invoke func", cmd.ID)
		}
		if _, dup := r.byID[cmd.ID]; dup {
			return nil, fmt.Errorf("duplicate command id %s", cmd.ID)
		}
		if other, dup := r.byLeaf[leaf]; dup {
			return nil, fmt.Errorf("command %s reuses leaf %q of %s", cmd.ID, leaf, other.ID)
		}
		c := &cmd
		r.order = append(r.order, c)
		r.byID[c.ID] = c
		r.byLeaf[leaf] = c
	}
	return r, nil
}

// MustNew is New for static command sets.
func MustNew(cmds ...Command) *Registry {
	r, err := New(cmds...)
	if err != nil {
		panic(err)
	}
	return r
}

// Commands returns commands in registration order.
func (r *Registry) Commands() []*Command {
	return append([]*Command(nil), r.order...)
}

// Find locates a command by full id.
func (r *Registry) Find(id string) (*Command, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Lookup accepts a full id or a bare leaf.
func (r *Registry) Lookup(key string) (*Command, bool) {
	if c, ok := r.byID[key]; ok {
		return c, true
	}
	c, ok := r.byLeaf[key]
	return c, ok
}

// Entry is the client-visible view of a command.
type Entry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Snapshot is the registry as sent to clients, keyed by id.
type Snapshot struct {
	Commands map[string]Entry `json:"commands"`
}

// Snapshot captures the registry.
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{Commands: make(map[string]Entry, len(r.order))}
	for _, c := range r.order {
		s.Commands[c.ID] = Entry{ID: c.ID, Title: c.Title, Category: c.Category}
	}
	return s
}

// Leaves returns the sorted leaf names of every entry with a well-formed id.
func (s Snapshot) Leaves() []string {
	leaves := make([]string, 0, len(s.Commands))
	for id := range s.Commands {
		if _, _, leaf, err := ParseID(id); err == nil {
			leaves = append(leaves, leaf)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// ByLeaf finds the entry whose id ends in leaf.
func (s Snapshot) ByLeaf(leaf string) (Entry, bool) {
	for id, e := range s.Commands {
		if _, _, l, err := ParseID(id); err == nil && l == leaf {
			return e, true
		}
	}
	return Entry{}, false
}
