package ui

import (
	"reflect"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/app"
	"github.com/atomicstack/popup-launcher/internal/logging/events"
	"github.com/atomicstack/popup-launcher/internal/theme"
	"github.com/atomicstack/popup-launcher/internal/visibility"
)

const (
	headerSeparator = " → "
	windowTitle     = "Popup Launcher"
)

type msgHandler func(tea.Msg) tea.Cmd

// runMsg carries a closure posted to the owner by the executor.
type runMsg struct {
	fn func()
}

// Options size the surface. Zero dimensions follow the terminal.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
}

// Model implements the Bubble Tea model for the launcher surface. It is the
// owner of the attached app.Context: every closure posted by timers and
// clients runs inside Update.
type Model struct {
	ctx         *app.Context
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	quitting     bool
	shownChanged bool

	filterCursor cursor.Model
	caretKey     string

	handlers map[reflect.Type]msgHandler
}

// NewModel returns a model with no state attached. Attach must be called
// before the program starts.
func NewModel(opts Options) *Model {
	m := &Model{showFooter: opts.ShowFooter}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.filterCursor = cursor.New()
	m.filterCursor.SetChar(" ")
	m.registerHandlers()
	return m
}

// Attach binds the control-plane state the model renders and drives.
func (m *Model) Attach(ctx *app.Context) {
	m.ctx = ctx
	ctx.Stack.Subscribe(func() { m.caretKey = "" })
}

// Context returns the attached state.
func (m *Model) Context() *app.Context { return m.ctx }

// Surface returns the visibility surface backed by this model.
func (m *Model) Surface() visibility.Surface { return (*terminalSurface)(m) }

// RequestQuit ends the program after the current update. It must run on the
// owner.
func (m *Model) RequestQuit() { m.quitting = true }

func (m *Model) styles() *theme.Styles {
	if m.ctx == nil {
		return theme.Default()
	}
	return m.ctx.Themes.Styles()
}

func (m *Model) hidden() bool {
	return m.ctx != nil && m.ctx.Visibility.State() == visibility.Hidden
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(windowTitle), m.filterCursor.Focus())
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(runMsg{}):            m.handleRunMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleRunMsg(msg tea.Msg) tea.Cmd {
	run, ok := msg.(runMsg)
	if !ok || run.fn == nil {
		return nil
	}
	run.fn()
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.ctx == nil {
		return nil
	}
	if key.Type == tea.KeyCtrlC {
		events.App.Quit("interrupt")
		m.quitting = true
		return nil
	}
	if m.hidden() {
		return nil
	}
	ev, ok := keyEvent(key)
	if !ok {
		return nil
	}
	m.ctx.HandleKey(ev)
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.quitting {
		return tea.Quit
	}
	if m.shownChanged {
		m.shownChanged = false
		title := windowTitle
		if m.hidden() {
			title += " (hidden)"
		}
		cmds = append(cmds, tea.SetWindowTitle(title), tea.ClearScreen)
	}
	if key := m.currentCaretKey(); key != m.caretKey {
		m.caretKey = key
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// terminalSurface reacts to visibility changes by retitling and redrawing.
type terminalSurface Model

func (s *terminalSurface) Show() { s.shownChanged = true }
func (s *terminalSurface) Hide() { s.shownChanged = true }

// activeResolver returns the resolver of the visible view.
func (m *Model) activeResolver() *actions.Resolver {
	if m.ctx == nil {
		return nil
	}
	return m.ctx.Stack.Active().Actions
}
