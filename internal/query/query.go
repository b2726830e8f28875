// Package query holds the editable text each view filters on.
package query

import "unicode"

// Query is a single-line text buffer with a rune cursor. Subscribers are
// notified whenever the text changes; cursor-only moves are silent.
type Query struct {
	text     []rune
	cursor   int
	subs     map[int]func(string)
	nextSub  int
	released bool
}

// New returns an empty query.
func New() *Query {
	return &Query{subs: make(map[int]func(string))}
}

// Text returns the current text.
func (q *Query) Text() string { return string(q.text) }

// Empty reports whether the text is empty.
func (q *Query) Empty() bool { return len(q.text) == 0 }

// Cursor returns the rune offset of the cursor.
func (q *Query) Cursor() int {
	if q.cursor < 0 {
		return 0
	}
	if q.cursor > len(q.text) {
		return len(q.text)
	}
	return q.cursor
}

// Subscribe registers fn for text changes and returns its cancel func.
func (q *Query) Subscribe(fn func(string)) func() {
	if q.released {
		return func() {}
	}
	id := q.nextSub
	q.nextSub++
	q.subs[id] = fn
	return func() { delete(q.subs, id) }
}

// Release drops all subscribers. A released query still holds text but no
// longer notifies anyone.
func (q *Query) Release() {
	q.released = true
	q.subs = make(map[int]func(string))
}

// Set replaces the text and moves the cursor to its end.
func (q *Query) Set(text string) {
	runes := []rune(text)
	q.replace(runes, len(runes))
}

// Clear empties the text.
func (q *Query) Clear() { q.replace(nil, 0) }

// Insert places text at the cursor.
func (q *Query) Insert(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	pos := q.Cursor()
	updated := make([]rune, 0, len(q.text)+len(insert))
	updated = append(updated, q.text[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, q.text[pos:]...)
	q.replace(updated, pos+len(insert))
	return true
}

// DeleteBackward removes the rune before the cursor.
func (q *Query) DeleteBackward() bool {
	pos := q.Cursor()
	if pos == 0 {
		return false
	}
	updated := append(append([]rune{}, q.text[:pos-1]...), q.text[pos:]...)
	q.replace(updated, pos-1)
	return true
}

// DeleteWordBackward removes the word preceding the cursor.
func (q *Query) DeleteWordBackward() bool {
	pos := q.Cursor()
	if pos == 0 {
		return false
	}
	i := q.wordStart(pos)
	updated := append(append([]rune{}, q.text[:i]...), q.text[pos:]...)
	q.replace(updated, i)
	return true
}

// MoveStart moves the cursor to the start.
func (q *Query) MoveStart() bool { return q.moveTo(0) }

// MoveEnd moves the cursor to the end.
func (q *Query) MoveEnd() bool { return q.moveTo(len(q.text)) }

// MoveLeft moves the cursor one rune left.
func (q *Query) MoveLeft() bool { return q.moveTo(q.Cursor() - 1) }

// MoveRight moves the cursor one rune right.
func (q *Query) MoveRight() bool { return q.moveTo(q.Cursor() + 1) }

// MoveWordLeft moves the cursor to the start of the previous word.
func (q *Query) MoveWordLeft() bool { return q.moveTo(q.wordStart(q.Cursor())) }

// MoveWordRight moves the cursor past the next word.
func (q *Query) MoveWordRight() bool {
	i := q.Cursor()
	for i < len(q.text) && !unicode.IsSpace(q.text[i]) {
		i++
	}
	for i < len(q.text) && unicode.IsSpace(q.text[i]) {
		i++
	}
	return q.moveTo(i)
}

func (q *Query) wordStart(pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(q.text[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(q.text[i-1]) {
		i--
	}
	return i
}

func (q *Query) moveTo(pos int) bool {
	if pos < 0 || pos > len(q.text) || pos == q.Cursor() {
		return false
	}
	q.cursor = pos
	return true
}

func (q *Query) replace(runes []rune, cursor int) {
	changed := string(runes) != string(q.text)
	q.text = runes
	q.cursor = cursor
	if !changed {
		return
	}
	text := q.Text()
	for _, fn := range q.snapshot() {
		fn(text)
	}
}

func (q *Query) snapshot() []func(string) {
	out := make([]func(string), 0, len(q.subs))
	for i := 0; i < q.nextSub; i++ {
		if fn, ok := q.subs[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}
