package driven

import "github.com/custodia-labs/annotate-cli/internal/core/domain"

// ActionLog owns the ordered history entries and the cursor into them.
// The cursor is -1 when no entry is active.
type ActionLog interface {
	// Append discards every entry after the cursor, pushes entry and
	// moves the cursor onto it.
	Append(entry domain.HistoryEntry)

	// MoveTo sets the cursor. Returns false and changes nothing when
	// index is outside [-1, Len()-1].
	MoveTo(index int) bool

	// Reorder replaces the entries wholesale. The cursor follows the
	// previously active entry by timestamp, or becomes -1 when that
	// entry is gone. Returns the new cursor.
	Reorder(entries []domain.HistoryEntry) int

	// Entries returns a copy of all entries, including those after the cursor.
	Entries() []domain.HistoryEntry

	// Cursor returns the index of the active entry.
	Cursor() int

	// Len returns the number of entries.
	Len() int

	// Reset empties the log and sets the cursor to -1.
	Reset()
}
