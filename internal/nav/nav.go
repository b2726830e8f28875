// Package nav implements the stack of views the launcher navigates through.
// The bottom view is the root and is never popped.
package nav

import (
	"github.com/google/uuid"

	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/logging/events"
	"github.com/atomicstack/popup-launcher/internal/query"
	"github.com/atomicstack/popup-launcher/internal/sched"
	"github.com/atomicstack/popup-launcher/internal/toast"
)

// View is the rendering-side handle a builder produces.
type View interface {
	Title() string
}

// BuildContext hands a builder the per-instance state its view binds to.
type BuildContext struct {
	Query   *query.Query
	Actions *actions.Resolver
	Toast   *toast.Toast
}

// Builder constructs a view. ID is the id of the command that owns it.
type Builder interface {
	ID() string
	Build(BuildContext) View
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc struct {
	Name string
	Fn   func(BuildContext) View
}

func (b BuilderFunc) ID() string { return b.Name }

func (b BuilderFunc) Build(ctx BuildContext) View { return b.Fn(ctx) }

// ViewInstance is one entry on the stack.
type ViewInstance struct {
	ID       string
	Instance string
	Query    *query.Query
	Actions  *actions.Resolver
	Toast    *toast.Toast
	View     View
	Root     bool
}

func (v *ViewInstance) release() {
	v.Query.Release()
	v.Actions.Release()
}

// Stack is the navigation stack. It must only be touched by the owner.
type Stack struct {
	views     []*ViewInstance
	subs      []func()
	sched     sched.Scheduler
	toastOpts []toast.Option
}

// New builds the root view from root and returns a stack holding it.
// toastOpts are applied to every instance's toast.
func New(s sched.Scheduler, root Builder, toastOpts ...toast.Option) *Stack {
	st := &Stack{sched: s, toastOpts: toastOpts}
	inst := st.build(root)
	inst.Root = true
	st.views = []*ViewInstance{inst}
	events.Nav.Push(inst.ID, inst.Instance, 1)
	return st
}

func (s *Stack) build(b Builder) *ViewInstance {
	inst := &ViewInstance{
		ID:       b.ID(),
		Instance: uuid.NewString(),
		Query:    query.New(),
		Actions:  actions.NewResolver(),
		Toast:    toast.New(s.sched, s.toastOpts...),
	}
	inst.View = b.Build(BuildContext{Query: inst.Query, Actions: inst.Actions, Toast: inst.Toast})
	return inst
}

// Subscribe registers fn to run after every stack change.
func (s *Stack) Subscribe(fn func()) {
	s.subs = append(s.subs, fn)
}

func (s *Stack) notify() {
	for _, fn := range s.subs {
		fn()
	}
}

func (s *Stack) mustNotBeEmpty() {
	if len(s.views) == 0 {
		panic("nav: empty navigation stack")
	}
}

// Len returns the number of views.
func (s *Stack) Len() int { return len(s.views) }

// Active returns the top view.
func (s *Stack) Active() *ViewInstance {
	s.mustNotBeEmpty()
	return s.views[len(s.views)-1]
}

// Root returns the bottom view.
func (s *Stack) Root() *ViewInstance {
	s.mustNotBeEmpty()
	return s.views[0]
}

// Views returns the stack bottom first.
func (s *Stack) Views() []*ViewInstance {
	return append([]*ViewInstance(nil), s.views...)
}

// Push builds a view and makes it active.
func (s *Stack) Push(b Builder) *ViewInstance {
	s.mustNotBeEmpty()
	inst := s.build(b)
	s.views = append(s.views, inst)
	events.Nav.Push(inst.ID, inst.Instance, len(s.views))
	s.notify()
	return inst
}

// Pop removes the active view. It is a no-op on the root.
func (s *Stack) Pop() bool {
	s.mustNotBeEmpty()
	if len(s.views) == 1 {
		return false
	}
	top := s.views[len(s.views)-1]
	s.views[len(s.views)-1] = nil
	s.views = s.views[:len(s.views)-1]
	top.release()
	events.Nav.Pop(top.ID, len(s.views))
	s.notify()
	return true
}

// Replace pops the active view and pushes b in its place. On the root the
// pop is skipped and b lands on top of it.
func (s *Stack) Replace(b Builder) *ViewInstance {
	s.Pop()
	return s.Push(b)
}

// Reset drops everything above the root and clears the root query.
func (s *Stack) Reset() {
	s.mustNotBeEmpty()
	dropped := len(s.views) - 1
	for i := len(s.views) - 1; i > 0; i-- {
		s.views[i].release()
		s.views[i] = nil
	}
	s.views = s.views[:1]
	root := s.views[0]
	root.Actions.CloseMenu()
	root.Query.Clear()
	events.Nav.Reset(dropped)
	s.notify()
}
