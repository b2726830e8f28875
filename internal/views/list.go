// Package views provides the filterable list view the built-in commands
// render into.
package views

import (
	"strings"

	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/nav"
	"github.com/atomicstack/popup-launcher/internal/query"
)

// Item is one row. Actions become the resolver's local entries while the row
// is focused.
type Item struct {
	ID       string
	Title    string
	Subtitle string
	Tag      string
	Keywords []string
	Actions  []actions.Entry
	Meta     actions.Meta
}

// ListOption customises a List.
type ListOption func(*List)

// WithPlaceholder sets the hint shown while the query is empty.
func WithPlaceholder(text string) ListOption {
	return func(l *List) { l.placeholder = text }
}

// WithDropdownFilter narrows items by the view's dropdown value.
func WithDropdownFilter(fn func(item Item, value string) bool) ListOption {
	return func(l *List) { l.dropdownFilter = fn }
}

// WithEmptyText sets the message shown when nothing matches.
func WithEmptyText(text string) ListOption {
	return func(l *List) { l.emptyText = text }
}

// List is a query-filtered list of items with a cursor and a viewport.
type List struct {
	title          string
	placeholder    string
	emptyText      string
	query          *query.Query
	actions        *actions.Resolver
	dropdownFilter func(Item, string) bool

	full       []Item
	items      []Item
	cursor     int
	lastCursor int
	lastText   string
	offset     int
}

var _ nav.View = (*List)(nil)

// NewList binds a list to the instance's query and resolver.
func NewList(ctx nav.BuildContext, title string, items []Item, opts ...ListOption) *List {
	l := &List{
		title:      title,
		emptyText:  "No results",
		query:      ctx.Query,
		actions:    ctx.Actions,
		lastCursor: -1,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.full = cloneItems(items)
	ctx.Query.Subscribe(func(string) { l.refilter() })
	ctx.Actions.SubscribeDropdown(func(string) { l.refilter() })
	l.refilter()
	return l
}

func (l *List) Title() string { return l.title }

// Placeholder is shown in the query field while it is empty.
func (l *List) Placeholder() string { return l.placeholder }

// EmptyText is shown when no item matches.
func (l *List) EmptyText() string { return l.emptyText }

// Items returns the visible, filtered items.
func (l *List) Items() []Item { return l.items }

// Cursor returns the focused row index.
func (l *List) Cursor() int { return l.cursor }

// Offset returns the first visible row.
func (l *List) Offset() int { return l.offset }

// Selected returns the focused item.
func (l *List) Selected() (Item, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return Item{}, false
	}
	return l.items[l.cursor], true
}

// SetItems replaces the item set, keeping the cursor on the same id when it
// survives.
func (l *List) SetItems(items []Item) {
	var keep string
	if sel, ok := l.Selected(); ok {
		keep = sel.ID
	}
	l.full = cloneItems(items)
	l.refilter()
	if keep != "" {
		if idx := l.indexOf(keep); idx >= 0 {
			l.cursor = idx
			l.syncActions()
		}
	}
}

// MoveCursor shifts the focus by delta, clamped to the list.
func (l *List) MoveCursor(delta int) bool {
	if len(l.items) == 0 {
		l.cursor = 0
		return false
	}
	old := l.cursor
	l.cursor += delta
	if l.cursor < 0 {
		l.cursor = 0
	}
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor == old {
		return false
	}
	l.syncActions()
	return true
}

// MoveHome focuses the first row.
func (l *List) MoveHome() bool { return l.MoveCursor(-len(l.items)) }

// MoveEnd focuses the last row.
func (l *List) MoveEnd() bool { return l.MoveCursor(len(l.items)) }

// EnsureVisible adjusts the viewport so the cursor is within maxVisible rows.
func (l *List) EnsureVisible(maxVisible int) {
	if len(l.items) == 0 || maxVisible <= 0 {
		l.offset = 0
		return
	}
	maxOffset := len(l.items) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if l.offset > maxOffset {
		l.offset = maxOffset
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor > l.offset+maxVisible-1 {
		l.offset = l.cursor - maxVisible + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *List) indexOf(id string) int {
	for i, item := range l.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// refilter recomputes the visible items. When the query goes from empty to
// non-empty the cursor position is remembered and restored once it is
// cleared again.
func (l *List) refilter() {
	text := strings.TrimSpace(l.query.Text())
	base := l.full
	if l.dropdownFilter != nil {
		value := l.actions.Dropdown().Value
		base = make([]Item, 0, len(l.full))
		for _, item := range l.full {
			if l.dropdownFilter(item, value) {
				base = append(base, item)
			}
		}
	}
	if text != "" && l.lastText == "" {
		l.lastCursor = l.cursor
	}
	l.items = FilterItems(base, text)
	if text != "" {
		l.cursor = BestMatchIndex(l.items, text)
	} else if l.lastText != "" && l.lastCursor >= 0 {
		l.cursor = l.lastCursor
		l.lastCursor = -1
	}
	l.lastText = text
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.offset = 0
	l.syncActions()
}

func (l *List) syncActions() {
	item, ok := l.Selected()
	if !ok {
		l.actions.ClearLocal()
		return
	}
	l.actions.SetLocal(item.Actions, item.Meta)
}

func cloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
