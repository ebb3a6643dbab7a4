// Package history keeps a bounded list of buffer snapshots with an
// undo/redo pointer.
package history

import (
	"image"
	"time"

	"github.com/example/retouch/internal/pixbuf"
)

// Cap is the default maximum number of retained entries.
const Cap = 20

// Entry is one committed buffer state.
type Entry struct {
	Snapshot *image.RGBA
	Label    string
	Time     time.Time
}

// Manager holds the snapshot list. The pointer is -1 when empty and otherwise
// indexes the entry matching the live buffer. Snapshots are copied on the way
// in and on the way out so callers may mutate what they pass or receive.
type Manager struct {
	entries []Entry
	pointer int
	limit   int
	now     func() time.Time
}

// New returns an empty manager retaining at most limit entries. A limit of
// zero or less uses Cap.
func New(limit int) *Manager {
	if limit <= 0 {
		limit = Cap
	}
	return &Manager{pointer: -1, limit: limit, now: time.Now}
}

// Push records img as the newest state. Redo entries beyond the pointer are
// dropped and the oldest entry is evicted once the limit is exceeded.
func (m *Manager) Push(img *image.RGBA, label string) {
	m.entries = append(m.entries[:m.pointer+1], Entry{
		Snapshot: pixbuf.Clone(img),
		Label:    label,
		Time:     m.now(),
	})
	if over := len(m.entries) - m.limit; over > 0 {
		for i := 0; i < over; i++ {
			m.entries[i] = Entry{}
		}
		m.entries = append(m.entries[:0], m.entries[over:]...)
	}
	m.pointer = len(m.entries) - 1
}

// Undo moves the pointer back one entry and returns a copy of that snapshot.
// The first entry is the base state, so undo stops there.
func (m *Manager) Undo() (*image.RGBA, bool) {
	if !m.CanUndo() {
		return nil, false
	}
	m.pointer--
	return pixbuf.Clone(m.entries[m.pointer].Snapshot), true
}

// Redo moves the pointer forward one entry and returns a copy of that snapshot.
func (m *Manager) Redo() (*image.RGBA, bool) {
	if !m.CanRedo() {
		return nil, false
	}
	m.pointer++
	return pixbuf.Clone(m.entries[m.pointer].Snapshot), true
}

func (m *Manager) CanUndo() bool { return m.pointer > 0 }
func (m *Manager) CanRedo() bool { return m.pointer >= 0 && m.pointer < len(m.entries)-1 }

func (m *Manager) Len() int     { return len(m.entries) }
func (m *Manager) Pointer() int { return m.pointer }

// Current returns the snapshot at the pointer, or nil when empty. The result
// must not be modified.
func (m *Manager) Current() *image.RGBA {
	if m.pointer < 0 {
		return nil
	}
	return m.entries[m.pointer].Snapshot
}

// Entries returns the recorded entries oldest first.
func (m *Manager) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Reset drops every entry.
func (m *Manager) Reset() {
	m.entries = nil
	m.pointer = -1
}
