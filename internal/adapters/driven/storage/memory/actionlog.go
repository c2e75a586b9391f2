package memory

import (
	"sync"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
)

// Ensure ActionLog implements the interface.
var _ driven.ActionLog = (*ActionLog)(nil)

// ActionLog is an in-memory implementation of driven.ActionLog.
// The log lives for as long as the workspace that owns it.
type ActionLog struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry
	cursor  int
}

// NewActionLog creates an empty action log with the cursor at -1.
func NewActionLog() *ActionLog {
	return &ActionLog{cursor: -1}
}

// Append truncates any entries after the cursor and pushes a copy of entry.
func (l *ActionLog) Append(entry domain.HistoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cursor < len(l.entries)-1 {
		clear(l.entries[l.cursor+1:])
		l.entries = l.entries[:l.cursor+1]
	}
	l.entries = append(l.entries, entry.Clone())
	l.cursor = len(l.entries) - 1
}

// MoveTo sets the cursor if index lies within [-1, len-1].
func (l *ActionLog) MoveTo(index int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < -1 || index >= len(l.entries) {
		return false
	}
	l.cursor = index
	return true
}

// Reorder replaces the entries with copies of entries and relocates the
// cursor by timestamp.
func (l *ActionLog) Reorder(entries []domain.HistoryEntry) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cursor := -1
	if l.cursor >= 0 && l.cursor < len(l.entries) {
		active := l.entries[l.cursor].Timestamp
		for i := range entries {
			if entries[i].Timestamp.Equal(active) {
				cursor = i
				break
			}
		}
	}

	l.entries = domain.CloneHistory(entries)
	l.cursor = cursor
	return cursor
}

// Entries returns a deep copy of every entry.
func (l *ActionLog) Entries() []domain.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return domain.CloneHistory(l.entries)
}

// Cursor returns the index of the active entry.
func (l *ActionLog) Cursor() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cursor
}

// Len returns the number of entries.
func (l *ActionLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Reset empties the log.
func (l *ActionLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.cursor = -1
}
