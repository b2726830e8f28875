package ui

import (
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/query"
)

const defaultPlaceholder = "Search..."

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

// keyEvent converts a terminal key press. Terminals cannot report the Super
// modifier, so ctrl chords are delivered as the platform's cmd modifier.
func keyEvent(msg tea.KeyMsg) (actions.KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return actions.KeyEvent{}, false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return actions.KeyEvent{}, false
			}
		}
		text := string(msg.Runes)
		ev := actions.KeyEvent{Keystroke: actions.Key(strings.ToLower(text))}
		if len(msg.Runes) == 1 && unicode.IsUpper(msg.Runes[0]) {
			ev.Mods.Shift = true
		}
		if msg.Alt {
			ev.Mods.Alt = true
		} else {
			ev.Text = text
		}
		return ev, true
	case tea.KeySpace:
		ev := actions.KeyEvent{Keystroke: actions.Key(actions.KeySpace)}
		if msg.Alt {
			ev.Mods.Alt = true
		} else {
			ev.Text = " "
		}
		return ev, true
	}
	ks, err := actions.ParseKeystroke(msg.String())
	if err != nil {
		return actions.KeyEvent{}, false
	}
	if ks.Mods.Ctrl {
		cmd := actions.Cmd()
		ks.Mods.Ctrl = cmd.Ctrl
		ks.Mods.Super = ks.Mods.Super || cmd.Super
	}
	return actions.KeyEvent{Keystroke: ks}, true
}

// activeQuery is the buffer the caret belongs to: the action menu's query
// while the menu is open, the view's otherwise.
func (m *Model) activeQuery() *query.Query {
	if m.ctx == nil {
		return nil
	}
	view := m.ctx.Stack.Active()
	if view.Actions.MenuOpen() {
		return view.Actions.MenuQuery()
	}
	return view.Query
}

func (m *Model) currentCaretKey() string {
	q := m.activeQuery()
	if q == nil {
		return ""
	}
	view := m.ctx.Stack.Active()
	return fmt.Sprintf("%s/%t/%d/%s", view.Instance, view.Actions.MenuOpen(), q.Cursor(), q.Text())
}

// filterPrompt renders the active view's query line with its caret.
func (m *Model) filterPrompt() string {
	styles := m.styles()
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := render(styles.FilterPrompt, "» ")

	q := m.activeQuery()
	if q == nil {
		return prompt
	}
	if q.Empty() {
		placeholder := m.placeholder()
		runes := []rune(placeholder)
		var caretRune, rest string
		if len(runes) > 0 {
			caretRune = string(runes[0])
			rest = string(runes[1:])
		}
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		return prompt + m.renderFilterCursor(caretRune) + render(styles.FilterPlaceholder, rest)
	}
	runes := []rune(q.Text())
	pos := q.Cursor()
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + m.renderFilterCursor(caretRune) + after
}

func (m *Model) placeholder() string {
	view := m.ctx.Stack.Active()
	if view.Actions.MenuOpen() {
		return "Search actions..."
	}
	if p, ok := view.View.(interface{ Placeholder() string }); ok && p.Placeholder() != "" {
		return p.Placeholder()
	}
	return defaultPlaceholder
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy().Inline(true)
	if m.filterCursor.Blink {
		return base.Render(char)
	}
	if styles := m.styles(); styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		return base.Inherit(cursorStyle).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
