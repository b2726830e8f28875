package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/nav"
	"github.com/atomicstack/popup-launcher/internal/toast"
	"github.com/atomicstack/popup-launcher/internal/views"
)

const (
	itemIndicator = "▌"
	ellipsis      = "…"
	helpLine      = "↑/↓ move  tab filter  backspace back  esc hide  ctrl+c quit"
)

// listing is satisfied by views.List and the views embedding it.
type listing interface {
	Items() []views.Item
	Cursor() int
	Offset() int
	EmptyText() string
	EnsureVisible(maxVisible int)
}

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text is already styled
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting || m.ctx == nil {
		return ""
	}
	styles := m.styles()
	if m.hidden() {
		return renderLines(applyWidth([]styledLine{{text: "Launcher hidden", style: styles.Info}}, m.width))
	}
	view := m.ctx.Stack.Active()
	lines := make([]styledLine, 0, 16)
	lines = append(lines,
		styledLine{text: m.headerLine(), raw: true},
		styledLine{text: m.filterPrompt(), raw: true},
		styledLine{},
	)
	if view.Actions.MenuOpen() {
		lines = append(lines, m.menuLines(view.Actions)...)
	} else {
		lines = append(lines, m.bodyLines(view)...)
	}
	lines = limitHeight(lines, m.height-m.bottomRows(), m.width)

	bottom := []styledLine{{}, {text: m.actionBar(view), raw: true}}
	if m.showFooter {
		bottom = append(bottom, styledLine{text: helpLine, style: styles.Footer})
	}
	if m.height > 0 {
		for pad := m.height - len(lines) - len(bottom); pad > 0; pad-- {
			lines = append(lines, styledLine{})
		}
	}
	lines = append(lines, bottom...)
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) bottomRows() int {
	if m.showFooter {
		return 3
	}
	return 2
}

// maxVisibleItems is the number of body rows that fit, or -1 when the
// height is unconstrained.
func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	remain := m.height - 3 - m.bottomRows()
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) headerLine() string {
	styles := m.styles()
	left := render(styles.Header, strings.Join(headerSegments(m.ctx.Stack.Views()), headerSeparator))
	res := m.activeResolver()
	if res == nil || !res.HasDropdown() {
		return left
	}
	right := render(styles.Dropdown, "["+res.Dropdown().Label()+" ▾]")
	return joinEnds(left, right, m.width)
}

func headerSegments(stack []*nav.ViewInstance) []string {
	segments := make([]string, 0, len(stack))
	for _, v := range stack {
		title := strings.TrimSpace(v.View.Title())
		if title == "" {
			title = v.ID
		}
		segments = append(segments, title)
	}
	return segments
}

func (m *Model) bodyLines(view *nav.ViewInstance) []styledLine {
	styles := m.styles()
	list, ok := view.View.(listing)
	if !ok {
		return []styledLine{{text: view.View.Title(), style: styles.Info}}
	}
	maxItems := m.maxVisibleItems()
	list.EnsureVisible(maxItems)
	items := list.Items()
	if len(items) == 0 {
		return []styledLine{{text: list.EmptyText(), style: styles.Info}}
	}
	start := list.Offset()
	end := len(items)
	if maxItems > 0 && start+maxItems < end {
		end = start + maxItems
	}
	lines := make([]styledLine, 0, end-start)
	for idx := start; idx < end; idx++ {
		lines = append(lines, styledLine{text: m.itemLine(items[idx], idx == list.Cursor()), raw: true})
	}
	return lines
}

func (m *Model) itemLine(item views.Item, selected bool) string {
	styles := m.styles()
	indicatorStyle, titleStyle := styles.ItemIndicator, styles.Item
	if selected {
		indicatorStyle, titleStyle = styles.SelectedItemIndicator, styles.SelectedItem
	}
	left := render(indicatorStyle, itemIndicator) + " " + render(titleStyle, item.Title)
	if item.Subtitle != "" {
		left += "  " + render(styles.ItemSubtitle, item.Subtitle)
	}
	if item.Tag == "" {
		return left
	}
	return joinEnds(left, render(styles.ItemTag, item.Tag), m.width)
}

func (m *Model) menuLines(res *actions.Resolver) []styledLine {
	styles := m.styles()
	lines := []styledLine{{text: "Actions", style: styles.MenuTitle}}
	entries := res.MenuItems()
	if len(entries) == 0 {
		return append(lines, styledLine{text: "No matching actions", style: styles.Info})
	}
	for i, e := range entries {
		indicatorStyle, labelStyle := styles.ItemIndicator, styles.Menu
		if i == res.MenuCursor() {
			indicatorStyle, labelStyle = styles.SelectedItemIndicator, styles.SelectedItem
		}
		left := render(indicatorStyle, itemIndicator) + " " + render(labelStyle, e.Label)
		var keys []string
		if e.Primary {
			keys = append(keys, "↵")
		}
		if e.Shortcut != nil {
			keys = append(keys, e.Shortcut.String())
		}
		if len(keys) == 0 {
			lines = append(lines, styledLine{text: left, raw: true})
			continue
		}
		lines = append(lines, styledLine{text: joinEnds(left, render(styles.FooterKey, strings.Join(keys, " ")), m.width), raw: true})
	}
	return lines
}

// actionBar shows the current notification on the left and the primary
// action plus the menu hint on the right.
func (m *Model) actionBar(view *nav.ViewInstance) string {
	styles := m.styles()
	left := m.toastText(view.Toast.State())

	var hints []string
	if primary, ok := view.Actions.Primary(); ok {
		hints = append(hints, render(styles.Footer, primary.Label)+" "+render(styles.FooterKey, "↵"))
	}
	for _, e := range view.Actions.Combined() {
		if e.Handler == actions.HandlerMenuToggle && e.Shortcut != nil {
			hints = append(hints, render(styles.Footer, e.Label)+" "+render(styles.FooterKey, e.Shortcut.String()))
			break
		}
	}
	return joinEnds(left, strings.Join(hints, render(styles.Footer, "  |  ")), m.width)
}

func (m *Model) toastText(st toast.State) string {
	styles := m.styles()
	switch st.Kind {
	case toast.Loading:
		return render(styles.Loading, "⋯ "+st.Message)
	case toast.Success:
		return render(styles.Success, "✓ "+st.Message)
	case toast.Error:
		return render(styles.Error, "✗ "+st.Message)
	}
	return ""
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	return nil
}

func render(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}

// joinEnds places right flush against width, or two spaces after left when
// the width is unknown or too small.
func joinEnds(left, right string, width int) string {
	if right == "" {
		return left
	}
	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if width <= 0 || gap < 2 {
		if left == "" {
			return right
		}
		return left + "  " + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText(ellipsis, width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	return append(trimmed, styledLine{text: truncateText(ellipsis, width)})
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		line.text = truncateText(line.text, width)
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw {
			out[i] = line.text
			continue
		}
		out[i] = render(line.style, line.text)
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 || ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width, ellipsis)
}
