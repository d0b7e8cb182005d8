// Package history keeps bounded undo and redo stacks of definition
// snapshots.
package history

import (
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// DefaultLimit bounds each stack when New receives a non-positive limit.
const DefaultLimit = 50

// Option customises a Manager.
type Option func(*Manager)

// WithClock overrides the clock used to timestamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager owns the undo and redo stacks. Every snapshot pushed onto either
// stack is a deep copy, so later edits of the live definition never reach the
// history.
type Manager struct {
	limit int
	now   func() time.Time
	undo  []model.StateSnapshot
	redo  []model.StateSnapshot
}

// New constructs a Manager whose stacks each hold at most limit entries.
func New(limit int, opts ...Option) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	m := &Manager{limit: limit, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Limit reports the bound applied to each stack.
func (m *Manager) Limit() int { return m.limit }

// Snapshot records current as an undo checkpoint and invalidates redo.
func (m *Manager) Snapshot(current model.FormDefinition) {
	m.undo = m.push(m.undo, current)
	m.redo = nil
}

// Undo returns the most recent checkpoint and moves current onto the redo
// stack. It reports false, leaving both stacks untouched, when there is
// nothing to undo.
func (m *Manager) Undo(current model.FormDefinition) (model.StateSnapshot, bool) {
	if len(m.undo) == 0 {
		return model.StateSnapshot{}, false
	}
	m.redo = m.push(m.redo, current)
	var snap model.StateSnapshot
	snap, m.undo = pop(m.undo)
	return snap, true
}

// Redo is the mirror of Undo.
func (m *Manager) Redo(current model.FormDefinition) (model.StateSnapshot, bool) {
	if len(m.redo) == 0 {
		return model.StateSnapshot{}, false
	}
	m.undo = m.push(m.undo, current)
	var snap model.StateSnapshot
	snap, m.redo = pop(m.redo)
	return snap, true
}

func (m *Manager) CanUndo() bool  { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool  { return len(m.redo) > 0 }
func (m *Manager) UndoDepth() int { return len(m.undo) }
func (m *Manager) RedoDepth() int { return len(m.redo) }

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}

func (m *Manager) push(stack []model.StateSnapshot, current model.FormDefinition) []model.StateSnapshot {
	stack = append(stack, current.Snapshot(m.now()))
	if overflow := len(stack) - m.limit; overflow > 0 {
		// Copy down so the evicted snapshots are released.
		stack = append(stack[:0:0], stack[overflow:]...)
	}
	return stack
}

func pop(stack []model.StateSnapshot) (model.StateSnapshot, []model.StateSnapshot) {
	last := len(stack) - 1
	snap := stack[last].Clone()
	stack[last] = model.StateSnapshot{}
	return snap, stack[:last]
}
